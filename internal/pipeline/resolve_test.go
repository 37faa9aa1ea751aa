package pipeline

// Notes:
// - Resolution runs against a real loader.Loader over t.TempDir() sites and
//   httptest servers, so these tests cover the loader wiring too.
// - TestResolver_ManyElements exists mainly for `go test -race`: it resolves
//   many elements of every kind at once.
// - The "first failure wins" test relies on errgroup recording the first
//   error before cancelling siblings.

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-htmlinline/internal/loader"
)

// pngBytes is a tiny payload with non-text bytes.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0xff}

// writeSite writes files (relative path -> content) under a temp directory.
func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return dir
}

// resolveMarkup parses markup and resolves tags against dir.
func resolveMarkup(t *testing.T, dir, markup string, logger *zap.Logger, tags ...string) (*Document, []Resolved, error) {
	t.Helper()

	doc, err := Parse(markup)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	l := loader.New(loader.Config{BaseDir: dir, Logger: logger})
	resolved, err := NewResolver(l, logger).ResolveAll(context.Background(), doc, tags)
	return doc, resolved, err
}

func render(t *testing.T, doc *Document) string {
	t.Helper()

	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out
}

// ---------------------------------------------------------------------------
// TestResolver_Script
// ---------------------------------------------------------------------------

func TestResolver_Script(t *testing.T) {
	t.Parallel()

	t.Run("local script content replaces src", func(t *testing.T) {
		t.Parallel()

		js := "if (a < b && c > d) { console.log(\"<ok>\"); }\n"
		dir := writeSite(t, map[string]string{"js/app.js": js})

		doc, resolved, err := resolveMarkup(t, dir, `<script src="js/app.js" defer></script>`, nil, "script")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}

		sel := find(doc, "script")
		if _, ok := sel.Attr("src"); ok {
			t.Error("src attribute still present")
		}
		if _, ok := sel.Attr("defer"); !ok {
			t.Error("unrelated attribute defer was removed")
		}
		if got := sel.Text(); got != js {
			t.Errorf("script content = %q, want %q", got, js)
		}
		if !strings.Contains(render(t, doc), "<script defer=\"\">"+js+"</script>") {
			t.Errorf("rendered output does not hold raw script:\n%s", render(t, doc))
		}
		if len(resolved) != 1 || resolved[0].Kind != KindMarkup || resolved[0].Remote {
			t.Errorf("resolved = %+v", resolved)
		}
	})

	t.Run("inline script untouched", func(t *testing.T) {
		t.Parallel()

		markup := `<script>var x = 1;</script>`
		doc, resolved, err := resolveMarkup(t, t.TempDir(), markup, nil, "script")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if len(resolved) != 0 {
			t.Errorf("resolved = %+v, want none", resolved)
		}
		if got := find(doc, "script").Text(); got != "var x = 1;" {
			t.Errorf("script content = %q", got)
		}
	})

	t.Run("missing file aborts with read failure", func(t *testing.T) {
		t.Parallel()

		_, _, err := resolveMarkup(t, t.TempDir(), `<script src="nope.js"></script>`, nil, "script")
		if !errors.Is(err, loader.ErrReadFailure) {
			t.Errorf("ResolveAll() error = %v, want ErrReadFailure", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolver_RemoteScript - Integrity verification end to end
// ---------------------------------------------------------------------------

func TestResolver_RemoteScript(t *testing.T) {
	t.Parallel()

	const body = "window.lib = {};"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lib.js" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	src := srv.URL + "/lib.js"

	t.Run("correct digest", func(t *testing.T) {
		t.Parallel()

		core, logs := observer.New(zapcore.InfoLevel)
		digest := loader.Digest([]byte(body))
		markup := fmt.Sprintf(`<script src=%q integrity=%q crossorigin="anonymous"></script>`, src, digest)

		doc, resolved, err := resolveMarkup(t, t.TempDir(), markup, zap.New(core), "script")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if got := find(doc, "script").Text(); got != body {
			t.Errorf("script content = %q, want %q", got, body)
		}
		if len(resolved) != 1 || resolved[0].Digest != digest || !resolved[0].Remote {
			t.Errorf("resolved = %+v", resolved)
		}

		entries := logs.FilterMessage("verified integrity").AllUntimed()
		if len(entries) != 1 {
			t.Fatalf("got %d integrity log entries, want 1", len(entries))
		}
		if f := entries[0].ContextMap(); f["digest"] != digest || f["src"] != src {
			t.Errorf("log fields = %v", f)
		}
	})

	t.Run("wrong digest", func(t *testing.T) {
		t.Parallel()

		declared := loader.Digest([]byte("tampered"))
		markup := fmt.Sprintf(`<script src=%q integrity=%q></script>`, src, declared)

		_, _, err := resolveMarkup(t, t.TempDir(), markup, nil, "script")
		if !errors.Is(err, loader.ErrIntegrityMismatch) {
			t.Fatalf("ResolveAll() error = %v, want ErrIntegrityMismatch", err)
		}
		msg := err.Error()
		if !strings.Contains(msg, declared) || !strings.Contains(msg, loader.Digest([]byte(body))) {
			t.Errorf("error %q must name both digests", msg)
		}
	})

	t.Run("non-success status", func(t *testing.T) {
		t.Parallel()

		markup := fmt.Sprintf(`<script src=%q></script>`, srv.URL+"/missing.js")
		_, _, err := resolveMarkup(t, t.TempDir(), markup, nil, "script")
		if !errors.Is(err, loader.ErrFetchFailure) {
			t.Fatalf("ResolveAll() error = %v, want ErrFetchFailure", err)
		}
		if !strings.Contains(err.Error(), "Not Found") {
			t.Errorf("error %q does not carry status text", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolver_Stylesheet
// ---------------------------------------------------------------------------

func TestResolver_Stylesheet(t *testing.T) {
	t.Parallel()

	t.Run("link replaced by style in place", func(t *testing.T) {
		t.Parallel()

		css := "body > p { color: red; }"
		dir := writeSite(t, map[string]string{"css/site.css": css})
		markup := `<head><meta charset="utf-8"><link rel="stylesheet" href="css/site.css" media="screen"><title>T</title></head>`

		doc, resolved, err := resolveMarkup(t, dir, markup, nil, "link")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if find(doc, "link").Length() != 0 {
			t.Error("link element still present")
		}

		out := render(t, doc)
		want := `<head><meta charset="utf-8"/><style>` + css + `</style><title>T</title></head>`
		if !strings.Contains(out, want) {
			t.Errorf("output = %s\nwant to contain %s", out, want)
		}
		if len(resolved) != 1 || resolved[0].Kind != KindStylesheet {
			t.Errorf("resolved = %+v", resolved)
		}
	})

	t.Run("remote stylesheet ignores integrity", func(t *testing.T) {
		t.Parallel()

		css := "a{b:c}"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(css))
		}))
		t.Cleanup(srv.Close)

		tests := []struct {
			name      string
			integrity string
		}{
			{"matching digest", loader.Digest([]byte(css))},
			{"stale digest", "sha384-stale"},
		}
		for _, tt := range tests {
			markup := fmt.Sprintf(`<link rel="stylesheet" href=%q integrity=%q>`, srv.URL+"/a.css", tt.integrity)
			doc, resolved, err := resolveMarkup(t, t.TempDir(), markup, nil, "link")
			if err != nil {
				t.Fatalf("%s: ResolveAll() error = %v", tt.name, err)
			}
			if got := find(doc, "style").Text(); got != css {
				t.Errorf("%s: style content = %q, want %q", tt.name, got, css)
			}
			if len(resolved) != 1 || resolved[0].Digest != "" {
				t.Errorf("%s: resolved = %+v, want one entry without digest", tt.name, resolved)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolver_DataURI - Images and icons
// ---------------------------------------------------------------------------

func TestResolver_DataURI(t *testing.T) {
	t.Parallel()

	dir := writeSite(t, map[string]string{
		"img/logo.png":  string(pngBytes),
		"img/anim.gif":  string(pngBytes),
		"img/photo.bmp": string(pngBytes),
		"favicon.svg":   "<svg/>",
	})

	tests := []struct {
		name     string
		tag      string
		markup   string
		selector string
		attr     string
		wantMIME string
		wantData []byte
	}{
		{"png image", "img", `<img src="img/logo.png" alt="logo">`, "img", "src", "image/png", pngBytes},
		{"gif maps to jpeg", "img", `<img src="img/anim.gif">`, "img", "src", "image/jpeg", pngBytes},
		{"unknown extension falls back", "img", `<img src="img/photo.bmp">`, "img", "src", "image", pngBytes},
		{"svg icon", "link", `<link rel="icon" href="favicon.svg">`, "link", "href", "image/svg+xml", []byte("<svg/>")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, _, err := resolveMarkup(t, dir, tt.markup, nil, tt.tag)
			if err != nil {
				t.Fatalf("ResolveAll() error = %v", err)
			}

			uri, ok := find(doc, tt.selector).Attr(tt.attr)
			if !ok {
				t.Fatalf("%s attribute removed", tt.attr)
			}
			if !strings.HasPrefix(uri, "data:"+tt.wantMIME+";base64, ") {
				t.Errorf("%s = %q, want data URI with %s", tt.attr, uri, tt.wantMIME)
			}
			mt, data, ok := decodeDataURI(uri)
			if !ok || mt != tt.wantMIME || !bytes.Equal(data, tt.wantData) {
				t.Errorf("decoded = (%q, %v, %v), want (%q, %v)", mt, data, ok, tt.wantMIME, tt.wantData)
			}
		})
	}

	t.Run("remote icon left unmodified", func(t *testing.T) {
		t.Parallel()

		markup := `<link rel="icon" href="https://example.com/favicon.ico" sizes="32x32">`
		before := mustRender(t, markup)

		doc, resolved, err := resolveMarkup(t, dir, markup, nil, "link")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if len(resolved) != 0 {
			t.Errorf("resolved = %+v, want none", resolved)
		}
		if after := render(t, doc); after != before {
			t.Errorf("document changed:\nbefore: %s\nafter:  %s", before, after)
		}
	})

	t.Run("http-prefixed local image skipped", func(t *testing.T) {
		t.Parallel()

		doc, _, err := resolveMarkup(t, dir, `<img src="http-banner.png">`, nil, "img")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if got, _ := find(doc, "img").Attr("src"); got != "http-banner.png" {
			t.Errorf("src = %q, want unchanged", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolver_Idempotent - Second pass over inlined output is a no-op
// ---------------------------------------------------------------------------

func TestResolver_Idempotent(t *testing.T) {
	t.Parallel()

	dir := writeSite(t, map[string]string{
		"a.js":    "run()",
		"a.css":   "p{}",
		"a.png":   string(pngBytes),
		"fav.png": string(pngBytes),
	})
	markup := `<head><link rel="stylesheet" href="a.css"><link rel="icon" href="fav.png"><script src="a.js"></script></head><body><img src="a.png"></body>`
	tags := []string{"script", "link", "img"}

	doc, _, err := resolveMarkup(t, dir, markup, nil, tags...)
	if err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	first := render(t, doc)

	doc2, resolved, err := resolveMarkup(t, dir, first, nil, tags...)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}
	if len(resolved) != 0 {
		t.Errorf("second pass resolved %+v, want none", resolved)
	}
	if second := render(t, doc2); second != first {
		t.Errorf("second pass changed output:\nfirst:  %s\nsecond: %s", first, second)
	}
}

// ---------------------------------------------------------------------------
// TestResolver_ResolveAll - Fan-out across tags
// ---------------------------------------------------------------------------

func TestResolver_ResolveAll(t *testing.T) {
	t.Parallel()

	t.Run("results grouped in tag order", func(t *testing.T) {
		t.Parallel()

		dir := writeSite(t, map[string]string{"a.js": "a", "b.js": "b", "a.png": "x", "a.css": "c"})
		markup := `<head><link rel="stylesheet" href="a.css"></head><body><img src="a.png"><script src="a.js"></script><script src="b.js"></script></body>`

		_, resolved, err := resolveMarkup(t, dir, markup, nil, "img", "script", "link")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		var got []string
		for _, r := range resolved {
			got = append(got, r.Tag+":"+r.Locator)
		}
		want := "img:a.png,script:a.js,script:b.js,link:a.css"
		if strings.Join(got, ",") != want {
			t.Errorf("order = %v, want %s", got, want)
		}
	})

	t.Run("unknown tag is a no-op", func(t *testing.T) {
		t.Parallel()

		markup := `<video src="movie.mp4"></video>`
		doc, resolved, err := resolveMarkup(t, t.TempDir(), markup, nil, "video")
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if len(resolved) != 0 {
			t.Errorf("resolved = %+v", resolved)
		}
		if render(t, doc) != mustRender(t, markup) {
			t.Error("document changed")
		}
	})

	t.Run("first failure wins and cancels siblings", func(t *testing.T) {
		t.Parallel()

		// The slow handler only returns once the client gives up.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		t.Cleanup(srv.Close)

		markup := fmt.Sprintf(`<script src=%q></script><img src="missing.png">`, srv.URL+"/slow.js")
		_, _, err := resolveMarkup(t, t.TempDir(), markup, nil, "script", "img")
		if !errors.Is(err, loader.ErrReadFailure) {
			t.Errorf("ResolveAll() error = %v, want ErrReadFailure", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolver_ManyElements - Concurrent mutation of one tree
// ---------------------------------------------------------------------------

func TestResolver_ManyElements(t *testing.T) {
	t.Parallel()

	const n = 40
	files := make(map[string]string)
	var b strings.Builder
	b.WriteString("<head>")
	for i := 0; i < n; i++ {
		files[fmt.Sprintf("s%d.css", i)] = fmt.Sprintf(".c%d{}", i)
		fmt.Fprintf(&b, `<link rel="stylesheet" href="s%d.css">`, i)
	}
	b.WriteString("</head><body>")
	for i := 0; i < n; i++ {
		files[fmt.Sprintf("j%d.js", i)] = fmt.Sprintf("f%d()", i)
		files[fmt.Sprintf("i%d.png", i)] = string(pngBytes)
		fmt.Fprintf(&b, `<script src="j%d.js"></script><img src="i%d.png">`, i, i)
	}
	b.WriteString("</body>")
	dir := writeSite(t, files)

	doc, resolved, err := resolveMarkup(t, dir, b.String(), nil, "script", "link", "img")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(resolved) != 3*n {
		t.Errorf("resolved %d elements, want %d", len(resolved), 3*n)
	}
	if got := find(doc, "style").Length(); got != n {
		t.Errorf("style count = %d, want %d", got, n)
	}
	if got := find(doc, "link").Length(); got != 0 {
		t.Errorf("link count = %d, want 0", got)
	}

	// Stylesheets keep their relative order after in-place replacement.
	styles := find(doc, "style")
	for i := 0; i < n; i++ {
		if got := styles.Eq(i).Text(); got != fmt.Sprintf(".c%d{}", i) {
			t.Fatalf("style %d = %q", i, got)
		}
	}
}

// decodeDataURI splits a "data:<mime>;base64, <payload>" URI.
func decodeDataURI(uri string) (mimeType string, data []byte, ok bool) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return "", nil, false
	}
	mimeType, payload, found := strings.Cut(rest, ";base64,")
	if !found {
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, false
	}
	return mimeType, data, true
}
