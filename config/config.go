// Package config loads .ass-lsp.yaml project settings.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/lex00/ass-lsp-go/lint"
	"github.com/lex00/ass-lsp-go/logging"
)

// Filename is the name searched for when walking up from a directory.
const Filename = ".ass-lsp.yaml"

// ErrInvalidConfig is returned when a file does not match the schema.
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed schema.json
var schema []byte

var schemaLoader = gojsonschema.NewBytesLoader(schema)

// Config is the decoded configuration file.
type Config struct {
	Lint    LintConfig    `yaml:"lint"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LintConfig selects which diagnostics are reported.
type LintConfig struct {
	// Disable lists rule IDs or diagnostic codes.
	Disable     []string `yaml:"disable,omitempty"`
	MinSeverity string   `yaml:"min_severity,omitempty"`
}

// LogConfig mirrors logging.Options.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// MetricsConfig controls metric persistence.
type MetricsConfig struct {
	// Database is a SQLite path. Empty disables persistence.
	Database string `yaml:"database,omitempty"`
}

// Load walks up from the current directory looking for Filename.
func Load() (*Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFrom(cwd)
}

// LoadFrom walks up from startDir. When no file is found it returns an empty
// Config and an empty path.
func LoadFrom(startDir string) (*Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		path := filepath.Join(dir, Filename)
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadFile(path)
			if err != nil {
				return nil, "", err
			}
			return cfg, path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, "", nil
		}
		dir = parent
	}
}

// LoadFile reads and validates a specific file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML and checks it against the embedded schema.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if raw == nil {
		return &Config{}, nil
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(violations, "; "))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from ASSLSP_* variables:
//   - ASSLSP_LINT_DISABLE (comma separated)
//   - ASSLSP_MIN_SEVERITY
//   - ASSLSP_METRICS_DB
//   - ASSLSP_LOG_LEVEL, ASSLSP_LOG_FORMAT, ASSLSP_LOG_FILE
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ASSLSP_LINT_DISABLE"); v != "" {
		c.Lint.Disable = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Lint.Disable = append(c.Lint.Disable, name)
			}
		}
	}
	setFromEnv(&c.Lint.MinSeverity, "ASSLSP_MIN_SEVERITY")
	setFromEnv(&c.Metrics.Database, "ASSLSP_METRICS_DB")
	setFromEnv(&c.Log.Level, "ASSLSP_LOG_LEVEL")
	setFromEnv(&c.Log.Format, "ASSLSP_LOG_FORMAT")
	setFromEnv(&c.Log.File, "ASSLSP_LOG_FILE")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// LintOptions converts the lint section. An empty min_severity reports
// everything.
func (c *Config) LintOptions() (*lint.Config, error) {
	out := lint.DefaultConfig()
	out.DisabledRules = append([]string(nil), c.Lint.Disable...)
	if c.Lint.MinSeverity != "" {
		sev, err := lint.ParseSeverity(c.Lint.MinSeverity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		out.MinSeverity = sev
	}
	return out, nil
}

// LogOptions converts the log section.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
}

// UnknownRules returns disable entries that name neither a registered rule
// nor a diagnostic code.
func (c *Config) UnknownRules(reg *lint.RuleRegistry) []string {
	var unknown []string
	for _, name := range c.Lint.Disable {
		if !reg.Known(name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
