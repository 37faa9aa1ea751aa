package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-htmlinline/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// minifierFlags switches off individual minifier features.
type minifierFlags struct {
	noCollapseWhitespace bool
	noMinifyCSS          bool
	noMinifyJS           bool
}

// inlineFlags holds all flags for the inline command.
type inlineFlags struct {
	common   commonFlags
	output   string
	workers  int
	timeout  string
	tags     string
	pretty   bool
	minify   bool
	minifier minifierFlags

	// set records the flags given on the command line.
	set map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "list inlined resources and debug logs")
}

// addMinifierFlags adds minifier toggles to a FlagSet.
func addMinifierFlags(fs *flag.FlagSet, f *minifierFlags) {
	fs.BoolVar(&f.noCollapseWhitespace, "no-collapse-whitespace", false, "keep whitespace when minifying")
	fs.BoolVar(&f.noMinifyCSS, "no-minify-css", false, "leave embedded CSS alone when minifying")
	fs.BoolVar(&f.noMinifyJS, "no-minify-js", false, "leave embedded JavaScript alone when minifying")
}

// parseInlineFlags parses inline command flags and returns positional args.
func parseInlineFlags(args []string, usage io.Writer) (*inlineFlags, []string, error) {
	fs := flag.NewFlagSet("inline", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &inlineFlags{set: make(map[string]bool)}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel documents (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-request timeout for remote resources (e.g., 30s)")

	// Processing flags
	fs.StringVar(&f.tags, "tags", "", "comma-separated tags to inline (default: script,link,img)")
	fs.BoolVar(&f.pretty, "pretty", false, "pretty-print the output (wins over --minify)")
	fs.BoolVar(&f.minify, "minify", false, "minify the output")

	// Flag groups
	addMinifierFlags(fs, &f.minifier)
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printInlineUsage(usage) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}

	return f, fs.Args(), nil
}

// mergeFlags merges CLI flags into config. Flags given on the command line
// override config and environment values.
func mergeFlags(f *inlineFlags, cfg *config.Config) {
	if f.set["tags"] {
		cfg.Tags = splitTags(f.tags)
	}
	if f.set["pretty"] {
		cfg.Pretty = f.pretty
	}
	if f.set["minify"] {
		cfg.Minify = f.minify
	}
	if f.set["no-collapse-whitespace"] {
		cfg.Minifier.CollapseWhitespace = boolPtr(!f.minifier.noCollapseWhitespace)
	}
	if f.set["no-minify-css"] {
		cfg.Minifier.MinifyCSS = boolPtr(!f.minifier.noMinifyCSS)
	}
	if f.set["no-minify-js"] {
		cfg.Minifier.MinifyJS = boolPtr(!f.minifier.noMinifyJS)
	}
	if f.set["timeout"] {
		cfg.Timeout = f.timeout
	}
	if f.set["workers"] {
		cfg.Workers = f.workers
	}
	if f.set["output"] {
		cfg.Output = f.output
	}
}

// splitTags splits a comma-separated list, dropping empty entries.
// An empty list selects no tags.
func splitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func boolPtr(b bool) *bool {
	return &b
}
