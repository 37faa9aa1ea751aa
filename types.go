package htmlinline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-htmlinline/internal/pipeline"
)

// DefaultTags are processed when Input.Tags is nil.
var DefaultTags = []string{"script", "link", "img"}

// tagPattern matches a plain element name.
var tagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// Input describes one inlining run.
type Input struct {
	Src      string         // path to the source HTML file, relative to the working directory
	Tags     []string       // element names to process; nil means DefaultTags
	Pretty   bool           // indent the output; wins over Minify
	Minify   bool           // minify the output
	Minifier *MinifyOptions // minifier settings; nil means DefaultMinifyOptions
}

// MinifyOptions selects what Minify touches.
type MinifyOptions struct {
	CollapseWhitespace bool
	MinifyCSS          bool // embedded <style> and style attributes
	MinifyJS           bool // embedded <script> and event handlers
}

// DefaultMinifyOptions enables every minification.
func DefaultMinifyOptions() *MinifyOptions {
	return &MinifyOptions{CollapseWhitespace: true, MinifyCSS: true, MinifyJS: true}
}

// Resource describes one element rewritten during a run.
type Resource struct {
	Tag     string // element name
	Kind    string // "markup", "stylesheet" or "data-uri"
	Locator string // src or href as written in the document
	Origin  string // absolute path or URL the content came from
	Remote  bool
	Digest  string // verified integrity digest, "" if none
	Size    int    // bytes of acquired content
}

// Result is the outcome of a successful run.
type Result struct {
	HTML      string
	Resources []Resource // grouped by tag in Input.Tags order, document order within a tag
}

// Validate checks that required fields are present and tag names are well formed.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Src) == "" {
		return ErrEmptySource
	}
	_, err := normalizeTags(in.Tags)
	return err
}

// normalizeTags trims, lower-cases and deduplicates tags, keeping first
// occurrences in order. Nil selects DefaultTags.
func normalizeTags(tags []string) ([]string, error) {
	if tags == nil {
		return append([]string(nil), DefaultTags...), nil
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag))
		if !tagPattern.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTag, tag)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// toPipelineMinifyOptions converts the public options, applying defaults for nil.
func toPipelineMinifyOptions(o *MinifyOptions) pipeline.MinifyOptions {
	if o == nil {
		return pipeline.DefaultMinifyOptions()
	}
	return pipeline.MinifyOptions{
		CollapseWhitespace: o.CollapseWhitespace,
		MinifyCSS:          o.MinifyCSS,
		MinifyJS:           o.MinifyJS,
	}
}

// toResources converts pipeline results to the public Resource type.
func toResources(resolved []pipeline.Resolved) []Resource {
	if len(resolved) == 0 {
		return nil
	}
	out := make([]Resource, len(resolved))
	for i, r := range resolved {
		out[i] = Resource{
			Tag:     r.Tag,
			Kind:    r.Kind.String(),
			Locator: r.Locator,
			Origin:  r.Origin,
			Remote:  r.Remote,
			Digest:  r.Digest,
			Size:    r.Size,
		}
	}
	return out
}
