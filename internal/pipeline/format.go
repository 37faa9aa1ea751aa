package pipeline

import (
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/yosssi/gohtml"
)

// Media types handled by the minifier.
const (
	mediaTypeHTML = "text/html"
	mediaTypeCSS  = "text/css"
)

// jsMediaTypes matches every script type the HTML minifier may hand over.
var jsMediaTypes = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)

// Formatter post-processes serialized HTML.
type Formatter interface {
	Format(htmlContent string) (string, error)
}

// MinifyOptions selects what the minifier touches.
type MinifyOptions struct {
	CollapseWhitespace bool
	MinifyCSS          bool // embedded <style> and style attributes
	MinifyJS           bool // embedded <script> and event handlers
}

// DefaultMinifyOptions enables every minification.
func DefaultMinifyOptions() MinifyOptions {
	return MinifyOptions{CollapseWhitespace: true, MinifyCSS: true, MinifyJS: true}
}

// Passthrough returns its input unchanged.
type Passthrough struct{}

// Format returns htmlContent as is.
func (Passthrough) Format(htmlContent string) (string, error) {
	return htmlContent, nil
}

// PrettyFormatter indents HTML for readability.
type PrettyFormatter struct{}

// Format re-indents htmlContent.
func (PrettyFormatter) Format(htmlContent string) (string, error) {
	return gohtml.Format(htmlContent), nil
}

// Minifier shrinks HTML and, optionally, its embedded CSS and JavaScript.
// Document structure (html/head/body, end tags, attribute quotes) is kept.
type Minifier struct {
	m *minify.M
}

// NewMinifier creates a Minifier for opts.
func NewMinifier(opts MinifyOptions) *Minifier {
	m := minify.New()
	m.Add(mediaTypeHTML, &mhtml.Minifier{
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepWhitespace:      !opts.CollapseWhitespace,
	})
	if opts.MinifyCSS {
		m.AddFunc(mediaTypeCSS, css.Minify)
	}
	if opts.MinifyJS {
		m.AddFuncRegexp(jsMediaTypes, js.Minify)
	}
	return &Minifier{m: m}
}

// Format minifies htmlContent.
func (f *Minifier) Format(htmlContent string) (string, error) {
	out, err := f.m.String(mediaTypeHTML, htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return out, nil
}

// SelectFormatter picks the output formatter. Pretty wins over minify; with
// neither set the output passes through unchanged.
func SelectFormatter(pretty, minifyOutput bool, opts MinifyOptions) Formatter {
	switch {
	case pretty:
		return PrettyFormatter{}
	case minifyOutput:
		return NewMinifier(opts)
	default:
		return Passthrough{}
	}
}

// Compile-time interface implementation checks.
var (
	_ Formatter = Passthrough{}
	_ Formatter = PrettyFormatter{}
	_ Formatter = (*Minifier)(nil)
)
