package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-htmlinline"
	"github.com/alnah/go-htmlinline/internal/config"
	"github.com/alnah/go-htmlinline/internal/fileutil"
	"github.com/alnah/go-htmlinline/internal/hints"
	"github.com/alnah/go-htmlinline/internal/logging"
)

// inlineOptions bundles the resolved settings for one inline invocation.
type inlineOptions struct {
	cfg     *config.Config
	quiet   bool
	verbose bool
	logger  *zap.Logger
}

// runInline resolves configuration, discovers documents and inlines them.
func runInline(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseInlineFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg, err := loadEnvConfig()
	if err != nil {
		return err
	}

	cfg, err := loadInlineConfig(flags, envCfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(flags, cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := &inlineOptions{
		cfg:     cfg,
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		logger:  logger,
	}

	files, err := discoverFiles(positional, cfg.Output)
	if err != nil {
		return err
	}

	inliner := htmlinline.New(buildInlinerOptions(opts, env)...)

	if len(files) == 1 && files[0].OutputPath == "" {
		return inlineToStdout(ctx, inliner, files[0], opts, env)
	}
	return inlineFiles(ctx, inliner, files, opts, env)
}

// loadInlineConfig builds the effective config.
// Precedence: flags > environment > config file > defaults.
func loadInlineConfig(flags *inlineFlags, envCfg *envConfig) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger creates the CLI logger, on stderr unless log.file is set.
// --verbose and --quiet override the configured level.
func newLogger(flags *inlineFlags, cfg *config.Config, env *Environment) (*zap.Logger, error) {
	logCfg := logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON}
	switch {
	case flags.common.verbose:
		logCfg.Level = "debug"
	case flags.common.quiet:
		logCfg.Level = "warn"
	}

	if cfg.Log.File != "" {
		logCfg.OutputPaths = []string{cfg.Log.File}
		logger, err := logging.New(logCfg)
		if err != nil {
			return nil, fmt.Errorf("%w: log file: %w", ErrWriteOutput, err)
		}
		return logger, nil
	}

	logger, err := logging.NewWriter(logCfg, env.Stderr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return logger, nil
}

// buildInlinerOptions converts settings to inliner options. Options from the
// environment come last so tests can replace the fetcher or file system.
func buildInlinerOptions(opts *inlineOptions, env *Environment) []htmlinline.Option {
	options := []htmlinline.Option{htmlinline.WithLogger(opts.logger)}
	if timeout := opts.cfg.TimeoutDuration(); timeout > 0 {
		options = append(options, htmlinline.WithTimeout(timeout))
	}
	return append(options, env.Options...)
}

// buildInput converts the config into an inliner input for src.
func buildInput(src string, cfg *config.Config) htmlinline.Input {
	collapse, css, js := cfg.Minifier.Resolve()
	return htmlinline.Input{
		Src:    src,
		Tags:   cfg.Tags,
		Pretty: cfg.Pretty,
		Minify: cfg.Minify,
		Minifier: &htmlinline.MinifyOptions{
			CollapseWhitespace: collapse,
			MinifyCSS:          css,
			MinifyJS:           js,
		},
	}
}

// inlineToStdout inlines a single document and writes it to stdout.
func inlineToStdout(ctx context.Context, inliner *htmlinline.Inliner, f FileToInline, opts *inlineOptions, env *Environment) error {
	result, err := inliner.Inline(ctx, buildInput(f.InputPath, opts.cfg))
	if err != nil {
		return withHint(err)
	}

	if _, err := fmt.Fprint(env.Stdout, result.HTML); err != nil {
		return fmt.Errorf("%w: stdout: %w", ErrWriteOutput, err)
	}
	if opts.verbose {
		printResources(env, result.Resources)
	}
	return nil
}

// inlineFiles inlines every document in parallel and writes each result
// next to its input or under the output directory.
func inlineFiles(ctx context.Context, inliner *htmlinline.Inliner, files []FileToInline, opts *inlineOptions, env *Environment) error {
	inputs := make([]htmlinline.Input, len(files))
	for i, f := range files {
		inputs[i] = buildInput(f.InputPath, opts.cfg)
	}

	results := inliner.InlineBatch(ctx, inputs, opts.cfg.Workers)

	var firstErr error
	failed := 0
	for i, r := range results {
		err := r.Err
		if err == nil {
			err = writeOutput(files[i].OutputPath, r.Result.HTML)
		}
		if err != nil {
			err = withHint(err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", files[i].InputPath, err)
			continue
		}

		if !opts.quiet {
			fmt.Fprintf(env.Stdout, "Created %s (%d resources, %s)\n",
				files[i].OutputPath, len(r.Result.Resources), r.Duration.Round(time.Millisecond))
		}
		if opts.verbose {
			printResources(env, r.Result.Resources)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed: %w", failed, len(files), firstErr)
	}
	return nil
}

// writeOutput atomically writes html to path, creating parent directories.
func writeOutput(path, html string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(html)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// printResources lists inlined resources on stderr.
func printResources(env *Environment, resources []htmlinline.Resource) {
	for _, r := range resources {
		line := fmt.Sprintf("  <%s> %s %s (%d bytes)", r.Tag, r.Kind, r.Origin, r.Size)
		if r.Digest != "" {
			line += " " + r.Digest
		}
		fmt.Fprintln(env.Stderr, line)
	}
}

// withHint appends an actionable hint for well-known failures.
func withHint(err error) error {
	var integrityErr *htmlinline.IntegrityError
	var hint string

	switch {
	case errors.As(err, &integrityErr):
		hint = hints.ForIntegrityMismatch(integrityErr.Actual)
	case errors.Is(err, htmlinline.ErrFetchFailure):
		if isTimeout(err) {
			hint = hints.ForTimeout()
		} else {
			hint = hints.ForFetchFailure()
		}
	case errors.Is(err, htmlinline.ErrReadFailure):
		hint = hints.ForReadFailure()
	case errors.Is(err, htmlinline.ErrInvalidTag):
		hint = hints.ForInvalidTag(htmlinline.DefaultTags)
	case errors.Is(err, ErrWriteOutput):
		hint = hints.ForOutputDirectory()
	}

	if hint == "" || strings.Contains(err.Error(), hint) {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// isTimeout reports whether err stems from a deadline or a network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
