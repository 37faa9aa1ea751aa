// Package htmlinline turns an HTML page into a self-contained document by
// inlining the external resources it references.
//
// # Quick Start
//
// Inline a page with the default settings:
//
//	out, err := htmlinline.Inline(ctx, htmlinline.Input{Src: "site/index.html"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.inline.html", []byte(out), 0644)
//
// # What Gets Inlined
//
// Each tag in Input.Tags (default script, link, img) is processed:
//
//   - <script src>: the script content replaces the src attribute.
//   - <link rel="stylesheet" href>: the link becomes a <style> element.
//   - <link rel="icon" href>: local icons become base64 data URIs.
//   - <img src>: local images become base64 data URIs.
//
// Local locators are resolved against the directory of Input.Src. Remote
// scripts and stylesheets are fetched over HTTP. When a script carries an
// integrity attribute, the sha384 digest of the fetched bytes must match it;
// a stylesheet's integrity attribute is ignored. Remote images and icons are
// left untouched.
//
// # Pipeline
//
//  1. Read the source file (relative to the working directory)
//  2. Parse it as a full HTML document (golang.org/x/net/html)
//  3. Resolve every element of every tag concurrently, rewriting in place
//  4. Serialize, then pretty-print or minify when requested
//
// The first failure aborts the run and no output is produced.
//
// # Configuration
//
// Use functional options to customize the Inliner:
//
//	in := htmlinline.New(
//	    htmlinline.WithTimeout(10 * time.Second),
//	    htmlinline.WithLogger(logger),
//	)
//	result, err := in.Inline(ctx, htmlinline.Input{
//	    Src:    "site/index.html",
//	    Tags:   []string{"script", "link"},
//	    Minify: true,
//	})
//
// Result.Resources reports every element that was rewritten.
//
// # Parallel Processing
//
// An Inliner holds no per-run state. InlineBatch processes many documents
// with a bounded number of workers:
//
//	results := in.InlineBatch(ctx, inputs, htmlinline.ResolvePoolSize(0))
package htmlinline
