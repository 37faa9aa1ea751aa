// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath      = errors.New("path cannot be empty")
	ErrExtensionEmpty = errors.New("extension cannot be empty")
)

// File permission constants.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// WriteFileAtomic writes content to path through a temporary file in the
// same directory, then renames it into place. Parent directories are created.
// Readers never observe a partially written file.
func WriteFileAtomic(path string, content []byte) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".htmlinline-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, FilePermissions); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "site" -> false (name)
//   - "./htmlinline.yaml" -> true (relative path)
//   - "/etc/htmlinline.yaml" -> true (absolute)
//   - "C:\config\site.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string is an http:// or https:// URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// HasHTTPPrefix returns true if the string starts with the four characters "http".
// Unlike IsURL, it does not require a scheme separator: "http-banner.png" matches.
func HasHTTPPrefix(s string) bool {
	return strings.HasPrefix(s, "http")
}

// IsDataURI returns true if the string is already an inline data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Ext returns the extension of a slash-separated locator without the leading dot.
// Returns "" when there is none or the name is a dotfile (".hidden").
// The result is not lower-cased and keeps any query string ("png?v=2").
func Ext(locator string) string {
	base := locator
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return ""
	}
	return base[i+1:]
}

// ReplaceExt swaps the extension of path for newExt (which must not be empty).
// "page.html" with "inline.html" gives "page.inline.html".
func ReplaceExt(path, newExt string) (string, error) {
	if newExt == "" {
		return "", ErrExtensionEmpty
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + strings.TrimPrefix(newExt, "."), nil
}
