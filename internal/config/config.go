package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-htmlinline/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Limits on config fields.
const (
	MaxInputSize  = 1 << 20 // config file size
	MaxTags       = 32
	MaxTagLength  = 64
	MaxPathLength = 4096
	MaxWorkers    = 64
)

// appDirName is the directory searched under os.UserConfigDir.
const appDirName = "go-htmlinline"

// tagPattern matches a plain element name.
var tagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// Config holds the settings of the htmlinline command.
type Config struct {
	Tags     []string       `yaml:"tags"`     // nil = script, link, img
	Pretty   bool           `yaml:"pretty"`   // wins over minify
	Minify   bool           `yaml:"minify"`
	Minifier MinifierConfig `yaml:"minifier"`
	Timeout  string         `yaml:"timeout"` // per remote request, e.g. "30s" (empty = no limit)
	Workers  int            `yaml:"workers"` // batch workers (0 = auto)
	Output   string         `yaml:"output"`  // output file or directory (empty = stdout / next to input)
	Log      LogConfig      `yaml:"log"`
}

// MinifierConfig toggles minifier features. Unset fields default to true.
type MinifierConfig struct {
	CollapseWhitespace *bool `yaml:"collapseWhitespace"`
	MinifyCSS          *bool `yaml:"minifyCSS"`
	MinifyJS           *bool `yaml:"minifyJS"`
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error" (empty = info)
	File  string `yaml:"file"`  // log file path (empty = stderr)
	JSON  bool   `yaml:"json"`  // JSON lines instead of console text
}

// DefaultConfig returns a configuration with every optional feature off.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks field syntax and bounds.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if len(c.Tags) > MaxTags {
		return fmt.Errorf("%w: tags: %d entries (max %d)", ErrInvalidValue, len(c.Tags), MaxTags)
	}
	for i, tag := range c.Tags {
		field := fmt.Sprintf("tags[%d]", i)
		if err := validateFieldLength(field, tag, MaxTagLength); err != nil {
			return err
		}
		if !tagPattern.MatchString(strings.TrimSpace(tag)) {
			return fmt.Errorf("%w: %s: %q is not an element name", ErrInvalidValue, field, tag)
		}
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %v", ErrInvalidValue, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: timeout: must be positive, got %s", ErrInvalidValue, c.Timeout)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	if err := validateFieldLength("output", c.Output, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("log.file", c.Log.File, MaxPathLength); err != nil {
		return err
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
			// valid
		default:
			return fmt.Errorf("%w: log.level: %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}

	return nil
}

// TimeoutDuration returns the parsed timeout, or 0 when unset or invalid.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Resolve returns the effective minifier toggles.
func (m MinifierConfig) Resolve() (collapseWhitespace, minifyCSS, minifyJS bool) {
	return boolOr(m.CollapseWhitespace, true), boolOr(m.MinifyCSS, true), boolOr(m.MinifyJS, true)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxInputSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order:
// current directory then ~/.config/go-htmlinline/, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing path from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
