// Package pipeline implements the resource-inlining stages.
//
// This package handles the stages between reading the source HTML and
// returning the self-contained result:
//   - Parsing the document and rendering it back (golang.org/x/net/html)
//   - Classifying script, link and img elements by tag and attributes
//   - Resolving each classified element concurrently and rewriting it in place
//   - Formatting the serialized output (pretty-print or minify)
//
// Reading the source file and wiring the stages together is handled by the
// root htmlinline package. Resource acquisition lives in internal/loader and
// data URI encoding in internal/datauri.
package pipeline
