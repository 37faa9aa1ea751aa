package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/alnah/go-htmlinline/internal/config"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "HTMLINLINE"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        `envconfig:"CONFIG"`    // HTMLINLINE_CONFIG: config file name or path
	Tags       []string      `envconfig:"TAGS"`      // HTMLINLINE_TAGS: comma-separated tag names
	Timeout    time.Duration `envconfig:"TIMEOUT"`   // HTMLINLINE_TIMEOUT: per-request timeout
	Workers    int           `envconfig:"WORKERS"`   // HTMLINLINE_WORKERS: batch workers
	LogLevel   string        `envconfig:"LOG_LEVEL"` // HTMLINLINE_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid HTMLINLINE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTMLINLINE_CONFIG":    true,
	"HTMLINLINE_TAGS":      true,
	"HTMLINLINE_TIMEOUT":   true,
	"HTMLINLINE_WORKERS":   true,
	"HTMLINLINE_LOG_LEVEL": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed values (e.g. HTMLINLINE_TIMEOUT=soon) are usage errors.
func loadEnvConfig() (*envConfig, error) {
	var cfg envConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrUsage, err)
	}
	return &cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized HTMLINLINE_* variables.
// Helps catch typos like HTMLINLINE_TAG instead of HTMLINLINE_TAGS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix+"_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values over the config file values.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if len(env.Tags) > 0 {
		cfg.Tags = env.Tags
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
