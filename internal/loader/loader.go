package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/alnah/go-htmlinline/internal/fileutil"
)

// utf8BOM is stripped from decoded remote text.
const utf8BOM = "\ufeff"

// Config configures a Loader. Zero values select defaults.
type Config struct {
	BaseDir string      // directory local locators are relative to ("" = working directory)
	FS      FileSystem  // default OSFileSystem
	Fetcher Fetcher     // default NewHTTPFetcher(nil, 0)
	Logger  *zap.Logger // default zap.NewNop()
}

// Content is an acquired resource.
type Content struct {
	Data   []byte
	Origin string // absolute path for local resources, URL for remote ones
	Remote bool
	Digest string // verified integrity digest, "" if none was declared
}

// Text decodes Data as UTF-8. Invalid sequences become U+FFFD and a leading
// byte order mark is dropped from remote content.
func (c *Content) Text() string {
	text := string(c.Data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	if c.Remote {
		text = strings.TrimPrefix(text, utf8BOM)
	}
	return text
}

// Loader reads local resources and fetches remote ones.
// A Loader is scoped to one document; it is safe for concurrent use.
type Loader struct {
	baseDir string
	fs      FileSystem
	fetcher Fetcher
	logger  *zap.Logger
}

// New creates a Loader from cfg.
func New(cfg Config) *Loader {
	l := &Loader{
		baseDir: cfg.BaseDir,
		fs:      cfg.FS,
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger,
	}
	if l.fs == nil {
		l.fs = OSFileSystem{}
	}
	if l.fetcher == nil {
		l.fetcher = NewHTTPFetcher(nil, 0)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l
}

// IsRemote reports whether locator is fetched over HTTP rather than read locally.
func IsRemote(locator string) bool {
	return fileutil.IsURL(locator)
}

// Acquire returns the resource behind locator. Remote locators are fetched
// and, when integrity is non-empty, verified. Local locators are read
// relative to the base directory and integrity is ignored.
func (l *Loader) Acquire(ctx context.Context, locator, integrity string) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsRemote(locator) {
		return l.Remote(ctx, locator, integrity)
	}
	return l.Local(locator)
}

// Local reads a file relative to the base directory.
func (l *Loader) Local(locator string) (*Content, error) {
	path, err := l.Resolve(locator)
	if err != nil {
		return nil, err
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailure, path, err)
	}
	return &Content{Data: data, Origin: path}, nil
}

// Remote fetches url and, if integrity is non-empty, checks its sha384 digest.
// A successful check is logged with the digest and the url.
func (l *Loader) Remote(ctx context.Context, url, integrity string) (*Content, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	c := &Content{Data: data, Origin: url, Remote: true}
	if integrity == "" {
		return c, nil
	}

	digest, err := Verify(url, data, integrity)
	if err != nil {
		return nil, err
	}
	l.logger.Info("verified integrity", zap.String("digest", digest), zap.String("src", url))
	c.Digest = digest
	return c, nil
}

// Resolve returns the absolute path for a local locator. Surrounding
// whitespace is ignored and ".." may leave the base directory.
func (l *Loader) Resolve(locator string) (string, error) {
	joined := filepath.Join(l.baseDir, filepath.FromSlash(strings.TrimSpace(locator)))
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadFailure, locator, err)
	}
	return abs, nil
}
