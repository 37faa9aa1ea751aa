package htmlinline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/alnah/go-htmlinline/internal/loader"
	"github.com/alnah/go-htmlinline/internal/pipeline"
)

// FileSystem reads local files by path. It serves both the source document
// and the local resources it references.
type FileSystem = loader.FileSystem

// Fetcher performs HTTP GETs for remote resources. Implementations must
// report non-success statuses as errors wrapping ErrFetchFailure.
type Fetcher = loader.Fetcher

// Inliner runs the inlining pipeline.
// It holds no per-run state and is safe for concurrent use.
type Inliner struct {
	cfg     inlinerConfig
	fs      FileSystem
	fetcher Fetcher
	logger  *zap.Logger
}

// Option configures an Inliner.
type Option func(*Inliner)

// inlinerConfig holds settings consumed when New builds the fetcher.
type inlinerConfig struct {
	timeout time.Duration
	client  *resty.Client
}

// New creates an Inliner with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithLogger).
func New(opts ...Option) *Inliner {
	in := &Inliner{}
	for _, opt := range opts {
		opt(in)
	}

	if in.fs == nil {
		in.fs = loader.OSFileSystem{}
	}
	if in.logger == nil {
		in.logger = zap.NewNop()
	}
	// Create fetcher if not injected (e.g., by tests)
	if in.fetcher == nil {
		in.fetcher = loader.NewHTTPFetcher(in.cfg.client, in.cfg.timeout)
	}
	return in
}

// WithLogger sets the logger. Successful integrity checks are logged at info
// level, per-element activity at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(in *Inliner) {
		in.logger = logger
	}
}

// WithHTTPClient sets the resty client used for remote resources.
// Ignored when WithFetcher is also given.
func WithHTTPClient(client *resty.Client) Option {
	return func(in *Inliner) {
		in.cfg.client = client
	}
}

// WithTimeout bounds each remote request. Without it, requests are bounded
// only by the context passed to Inline.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("htmlinline: WithTimeout duration must be positive")
	}
	return func(in *Inliner) {
		in.cfg.timeout = d
	}
}

// WithFileSystem sets where the source document and local resources are read from.
func WithFileSystem(fs FileSystem) Option {
	return func(in *Inliner) {
		in.fs = fs
	}
}

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(in *Inliner) {
		in.fetcher = f
	}
}

// Inline reads input.Src, inlines the resources of every configured tag and
// returns the serialized document. The first failure aborts the run and
// cancels in-flight fetches; no partial output is returned.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (in *Inliner) Inline(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	srcPath, content, err := in.readSource(input.Src)
	if err != nil {
		return nil, err
	}

	doc, err := pipeline.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", input.Src, err)
	}

	// Local locators resolve against the source document's directory.
	l := loader.New(loader.Config{
		BaseDir: filepath.Dir(srcPath),
		FS:      in.fs,
		Fetcher: in.fetcher,
		Logger:  in.logger,
	})
	resolved, err := pipeline.NewResolver(l, in.logger).ResolveAll(ctx, doc, tags)
	if err != nil {
		return nil, err
	}

	htmlContent, err := doc.Render()
	if err != nil {
		return nil, err
	}

	formatter := pipeline.SelectFormatter(input.Pretty, input.Minify, toPipelineMinifyOptions(input.Minifier))
	htmlContent, err = formatter.Format(htmlContent)
	if err != nil {
		return nil, err
	}

	in.logger.Debug("inlined document",
		zap.String("src", srcPath),
		zap.Int("resources", len(resolved)),
	)
	return &Result{HTML: htmlContent, Resources: toResources(resolved)}, nil
}

// readSource reads the source document relative to the working directory and
// returns its absolute path with its content.
func (in *Inliner) readSource(src string) (string, string, error) {
	path, err := filepath.Abs(src)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrReadSource, src, err)
	}
	data, err := in.fs.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrReadSource, src, err)
	}
	return path, string(data), nil
}

// defaultInliner backs the package-level Inline.
var defaultInliner = New()

// Inline runs input with a default Inliner and returns the output HTML.
func Inline(ctx context.Context, input Input) (string, error) {
	result, err := defaultInliner.Inline(ctx, input)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}
