// Package loader acquires the bytes behind a resource locator.
//
// # Acquisition Modes
//
// A Loader is bound to one base directory, the directory of the HTML file
// being processed:
//
//	Loader
//	    │
//	    ├── local   - locator joined to the base directory, read via FileSystem
//	    └── remote  - http:// or https:// locator, fetched via Fetcher,
//	                  optionally verified against a sha384 integrity digest
//
// Acquire returns the Content; callers use its Data when the bytes are
// re-encoded and Content.Text when they are embedded as markup.
//
// # Errors
//
// Failures wrap ErrReadFailure, ErrFetchFailure or ErrIntegrityMismatch so
// callers can classify them with errors.Is. Nothing is retried.
package loader
