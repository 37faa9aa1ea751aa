// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-htmlinline/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForFetchFailure returns hints for remote fetch errors.
// Detects CI/Docker environment and suggests proxy settings.
func ForFetchFailure() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// Restricted networks usually need an explicit proxy
	if (inCI || IsInContainer()) && os.Getenv("HTTPS_PROXY") == "" && os.Getenv("https_proxy") == "" {
		hints = append(hints, "set HTTPS_PROXY if the network requires a proxy")
	}

	hints = append(hints, "check the URL is reachable, or drop the tag with --tags")

	return formatHints(hints)
}

// ForIntegrityMismatch returns a hint quoting the digest of the bytes that
// were actually served.
func ForIntegrityMismatch(actual string) string {
	if actual == "" {
		return ""
	}
	return format(`the resource changed; if the new content is trusted, set integrity="` + actual + `"`)
}

// ForReadFailure returns a hint about where local locators are resolved.
func ForReadFailure() string {
	return format("local src/href paths are resolved relative to the HTML file's directory")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for slow remote resources, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-htmlinline/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-htmlinline) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-htmlinline") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInvalidTag returns a hint listing the tags the inliner rewrites.
func ForInvalidTag(supported []string) string {
	if len(supported) == 0 {
		return ""
	}
	return format("use element names such as " + strings.Join(supported, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
