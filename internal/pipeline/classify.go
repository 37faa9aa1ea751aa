package pipeline

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-htmlinline/internal/fileutil"
)

// Kind is the inlining strategy selected for an element.
type Kind int

// Inlining strategies.
const (
	// KindSkip leaves the element untouched.
	KindSkip Kind = iota
	// KindMarkup embeds the resource as the element's content and drops the attribute.
	KindMarkup
	// KindStylesheet replaces the element with a <style> node holding the resource.
	KindStylesheet
	// KindDataURI rewrites the attribute to a base64 data URI.
	KindDataURI
)

// String returns the strategy name used in logs and reports.
func (k Kind) String() string {
	switch k {
	case KindMarkup:
		return "markup"
	case KindStylesheet:
		return "stylesheet"
	case KindDataURI:
		return "data-uri"
	default:
		return "skip"
	}
}

// Reference is the classification of one element: where its resource lives
// and how it gets embedded.
type Reference struct {
	Tag       string
	Kind      Kind
	Attr      string // attribute holding the locator ("src" or "href")
	Locator   string
	Integrity string // declared digest, "" if absent
	Reason    string // why the element is skipped
}

// rule classifies one element of a given tag.
type rule func(tag string, sel *goquery.Selection) Reference

// tagRules is the policy table. Tags without an entry are skipped.
var tagRules = map[string]rule{
	"script": classifyScript,
	"link":   classifyLink,
	"img":    classifyImage,
}

// relRules dispatches link elements on the exact rel value.
var relRules = map[string]rule{
	"stylesheet": classifyStylesheet,
	"icon":       classifyIcon,
}

// Classify selects the inlining strategy for an element named tag.
func Classify(tag string, sel *goquery.Selection) Reference {
	r, ok := tagRules[tag]
	if !ok {
		return skip(tag, "unsupported tag")
	}
	return r(tag, sel)
}

// classifyScript embeds any script with a src, local or remote.
// Inline scripts are left alone.
func classifyScript(tag string, sel *goquery.Selection) Reference {
	src := sel.AttrOr("src", "")
	if src == "" {
		return skip(tag, "no src")
	}
	return Reference{
		Tag:       tag,
		Kind:      KindMarkup,
		Attr:      "src",
		Locator:   src,
		Integrity: sel.AttrOr("integrity", ""),
	}
}

// classifyImage embeds local images. Any src starting with "http" is
// treated as external, including names like "http-banner.png".
func classifyImage(tag string, sel *goquery.Selection) Reference {
	src := sel.AttrOr("src", "")
	switch {
	case src == "":
		return skip(tag, "no src")
	case fileutil.HasHTTPPrefix(src):
		return skip(tag, "remote image")
	case fileutil.IsDataURI(src):
		// Not in the plain "http" prefix rule: a data: source would otherwise
		// be read as a local file and fail. Skipping keeps reruns a no-op.
		return skip(tag, "already inline")
	}
	return Reference{Tag: tag, Kind: KindDataURI, Attr: "src", Locator: src}
}

func classifyLink(tag string, sel *goquery.Selection) Reference {
	rel := sel.AttrOr("rel", "")
	r, ok := relRules[rel]
	if !ok {
		return skip(tag, fmt.Sprintf("unsupported rel %q", rel))
	}
	return r(tag, sel)
}

// classifyStylesheet inlines local and remote stylesheets. Only scripts
// are checked against their integrity attribute; a stylesheet's is ignored.
func classifyStylesheet(tag string, sel *goquery.Selection) Reference {
	href := sel.AttrOr("href", "")
	if href == "" {
		return skip(tag, "no href")
	}
	return Reference{Tag: tag, Kind: KindStylesheet, Attr: "href", Locator: href}
}

// classifyIcon embeds local icons; remote icons are kept as links.
func classifyIcon(tag string, sel *goquery.Selection) Reference {
	href := sel.AttrOr("href", "")
	switch {
	case href == "":
		return skip(tag, "no href")
	case fileutil.IsURL(href):
		return skip(tag, "remote icon")
	case fileutil.IsDataURI(href):
		// Same departure as for images: data: hrefs are left alone rather
		// than read as local files.
		return skip(tag, "already inline")
	}
	return Reference{Tag: tag, Kind: KindDataURI, Attr: "href", Locator: href}
}

func skip(tag, reason string) Reference {
	return Reference{Tag: tag, Kind: KindSkip, Reason: reason}
}
