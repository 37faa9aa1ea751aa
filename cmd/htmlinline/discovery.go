package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-htmlinline/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension = errors.New("file must have .html or .htm extension")
)

// outputSuffix is inserted before the extension of batch outputs.
const outputSuffix = ".inline"

// FileToInline represents a single document to process.
// An empty OutputPath means stdout.
type FileToInline struct {
	InputPath  string
	OutputPath string
}

// discoverFiles expands inputs into documents and their output paths.
// A single file input without output goes to stdout. An output ending in
// .html or .htm names the file for a single input; any other output is a
// directory. Directories are walked for .html/.htm files, skipping outputs
// of previous runs.
func discoverFiles(inputs []string, output string) ([]FileToInline, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	singleFile := false
	if len(inputs) == 1 {
		info, err := os.Stat(inputs[0])
		if err != nil {
			return nil, err
		}
		singleFile = !info.IsDir()
	}

	if singleFile {
		if err := validateHTMLExtension(inputs[0]); err != nil {
			return nil, err
		}
		switch {
		case output == "":
			return []FileToInline{{InputPath: inputs[0]}}, nil
		case isHTMLFile(output):
			return []FileToInline{{InputPath: inputs[0], OutputPath: output}}, nil
		}
	} else if isHTMLFile(output) {
		return nil, fmt.Errorf("%w: --output %s must be a directory for several documents", ErrUsage, output)
	}

	var files []FileToInline
	for _, input := range inputs {
		found, err := discoverInput(input, output)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// discoverInput returns the documents for one file or directory argument.
func discoverInput(input, outputDir string) ([]FileToInline, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateHTMLExtension(input); err != nil {
			return nil, err
		}
		return []FileToInline{{InputPath: input, OutputPath: resolveOutputPath(input, outputDir, "")}}, nil
	}

	var files []FileToInline
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isHTMLFile(path) || isInlineOutput(path) {
			return nil
		}
		files = append(files, FileToInline{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, input)})
		return nil
	})
	return files, err
}

// resolveOutputPath determines the output path for an HTML document.
// Outputs keep their directory layout relative to baseInputDir under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	// Extension is never empty: inputs are validated as .html or .htm.
	name, _ := fileutil.ReplaceExt(filepath.Base(inputPath), outputSuffix+filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// isHTMLFile reports whether path has an .html or .htm extension.
func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// isInlineOutput reports whether path was written by a previous batch run.
func isInlineOutput(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasSuffix(strings.TrimSuffix(path, ext), outputSuffix)
}

// validateHTMLExtension checks that the file has an .html or .htm extension.
func validateHTMLExtension(path string) error {
	if !isHTMLFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}
