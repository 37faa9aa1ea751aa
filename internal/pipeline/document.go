package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML tree owned by a single pipeline run.
// Resolvers acquire resources concurrently but apply every tree access
// through the document lock.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	doc  *goquery.Document
}

// Target is an element selected for resolution together with its classification.
type Target struct {
	Sel *goquery.Selection
	Ref Reference
}

// Parse parses content as a full HTML document.
// Fragments are wrapped in html/head/body like a browser would.
func Parse(content string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Document{root: root, doc: goquery.NewDocumentFromNode(root)}, nil
}

// Collect returns every element named tag, in document order, classified.
// Classification reads attributes under the lock so it never races a mutation.
func (d *Document) Collect(tag string) []Target {
	d.mu.Lock()
	defer d.mu.Unlock()

	var targets []Target
	d.doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
		targets = append(targets, Target{Sel: sel, Ref: Classify(tag, sel)})
	})
	return targets
}

// Mutate runs fn with exclusive access to the tree.
func (d *Document) Mutate(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Render serializes the document back to HTML.
func (d *Document) Render() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf strings.Builder
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}

// newStyle builds a detached <style> element whose content is css.
func newStyle(css string) *html.Node {
	style := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     atom.Style.String(),
	}
	goquery.NewDocumentFromNode(style).SetHtml(css)
	return style
}
