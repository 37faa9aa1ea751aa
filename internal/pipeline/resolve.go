package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-htmlinline/internal/datauri"
	"github.com/alnah/go-htmlinline/internal/fileutil"
	"github.com/alnah/go-htmlinline/internal/loader"
)

// ResourceLoader acquires the content behind a locator.
type ResourceLoader interface {
	Acquire(ctx context.Context, locator, integrity string) (*loader.Content, error)
}

// Compile-time interface implementation check.
var _ ResourceLoader = (*loader.Loader)(nil)

// Resolved describes one element rewritten by the Resolver.
type Resolved struct {
	Tag     string
	Kind    Kind
	Locator string
	Origin  string // absolute path or URL the content came from
	Remote  bool
	Digest  string // verified integrity digest, "" if none
	Size    int    // bytes of acquired content
}

// strategy applies the rewrite for t once its content has been acquired.
type strategy func(doc *Document, t Target, c *loader.Content)

// strategies maps every non-skip Kind to its rewrite.
var strategies = map[Kind]strategy{
	KindMarkup:     applyMarkup,
	KindStylesheet: applyStylesheet,
	KindDataURI:    applyDataURI,
}

// Resolver rewrites classified elements using content from a ResourceLoader.
type Resolver struct {
	loader ResourceLoader
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(l ResourceLoader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{loader: l, logger: logger}
}

// ResolveAll resolves every tag group concurrently and waits for all of them.
// The first failure is returned and the context passed to the remaining
// acquisitions is cancelled. Results are grouped by tag in the order of tags.
func (r *Resolver) ResolveAll(ctx context.Context, doc *Document, tags []string) ([]Resolved, error) {
	perTag := make([][]Resolved, len(tags))

	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		i := i
		tag := tag
		g.Go(func() error {
			resolved, err := r.ResolveTag(gctx, doc, tag)
			if err != nil {
				return err
			}
			perTag[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Resolved
	for _, resolved := range perTag {
		all = append(all, resolved...)
	}
	return all, nil
}

// ResolveTag resolves every element named tag concurrently, one goroutine per
// element, and returns the rewritten ones in document order.
func (r *Resolver) ResolveTag(ctx context.Context, doc *Document, tag string) ([]Resolved, error) {
	targets := doc.Collect(tag)
	results := make([]*Resolved, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		t := t
		i := i
		if t.Ref.Kind == KindSkip {
			r.logger.Debug("skipped element", zap.String("tag", tag), zap.String("reason", t.Ref.Reason))
			continue
		}
		g.Go(func() error {
			res, err := r.resolve(gctx, doc, t)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := make([]Resolved, 0, len(results))
	for _, res := range results {
		if res != nil {
			resolved = append(resolved, *res)
		}
	}
	return resolved, nil
}

// resolve acquires the resource for one element and rewrites it.
// A panic is returned as an error; it would otherwise escape the caller's recover.
func (r *Resolver) resolve(ctx context.Context, doc *Document, t Target) (res *Resolved, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("internal error resolving <%s>: %v", t.Ref.Tag, p)
		}
	}()

	apply, ok := strategies[t.Ref.Kind]
	if !ok {
		return nil, fmt.Errorf("no strategy for %s element (%s)", t.Ref.Tag, t.Ref.Kind)
	}

	c, err := r.loader.Acquire(ctx, t.Ref.Locator, t.Ref.Integrity)
	if err != nil {
		return nil, fmt.Errorf("resolving <%s %s=%q>: %w", t.Ref.Tag, t.Ref.Attr, t.Ref.Locator, err)
	}
	apply(doc, t, c)

	r.logger.Debug("inlined resource",
		zap.String("tag", t.Ref.Tag),
		zap.Stringer("kind", t.Ref.Kind),
		zap.String("src", t.Ref.Locator),
		zap.Int("bytes", len(c.Data)),
	)

	return &Resolved{
		Tag:     t.Ref.Tag,
		Kind:    t.Ref.Kind,
		Locator: t.Ref.Locator,
		Origin:  c.Origin,
		Remote:  c.Remote,
		Digest:  c.Digest,
		Size:    len(c.Data),
	}, nil
}

// applyMarkup sets the resource text as the element content and drops the
// locator attribute.
func applyMarkup(doc *Document, t Target, c *loader.Content) {
	text := c.Text()
	doc.Mutate(func() {
		t.Sel.SetHtml(text)
		t.Sel.RemoveAttr(t.Ref.Attr)
	})
}

// applyStylesheet replaces the link element with a <style> element.
func applyStylesheet(doc *Document, t Target, c *loader.Content) {
	style := newStyle(c.Text())
	doc.Mutate(func() {
		t.Sel.ReplaceWithNodes(style)
	})
}

// applyDataURI rewrites the locator attribute to a data URI. The MIME type
// comes from the locator's extension.
func applyDataURI(doc *Document, t Target, c *loader.Content) {
	uri := datauri.Encode(fileutil.Ext(t.Ref.Locator), c.Data)
	doc.Mutate(func() {
		t.Sel.SetAttr(t.Ref.Attr, uri)
	})
}
