package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/ass-lsp-go/lint"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, Filename)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
lint:
  disable: [timing_overlap, line-hygiene]
  min_severity: warning
log:
  level: debug
  format: json
metrics:
  database: /tmp/metrics.db
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"timing_overlap", "line-hygiene"}, cfg.Lint.Disable)
	assert.Equal(t, "warning", cfg.Lint.MinSeverity)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/metrics.db", cfg.Metrics.Database)

	lc, err := cfg.LintOptions()
	require.NoError(t, err)
	assert.Equal(t, lint.SeverityWarning, lc.MinSeverity)
	assert.True(t, lc.IsRuleDisabled("timing_overlap"))

	opts := cfg.LogOptions()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "json", opts.Format)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	lc, err := cfg.LintOptions()
	require.NoError(t, err)
	assert.Equal(t, lint.SeverityHint, lc.MinSeverity)
	assert.Empty(t, lc.DisabledRules)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown top-level key", "colour: red\n"},
		{"bad severity", "lint:\n  min_severity: fatal\n"},
		{"disable not a list", "lint:\n  disable: timing_overlap\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"not a mapping", "- a\n- b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse([]byte("lint: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadFromWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "lint:\n  min_severity: error\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, found, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)
	assert.Equal(t, "error", cfg.Lint.MinSeverity)
}

func TestLoadFromNotFound(t *testing.T) {
	cfg, found, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NotNil(t, cfg)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeConfig(t, t.TempDir(), "extra: 1\n")
	_, err = LoadFile(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), path)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ASSLSP_LINT_DISABLE", " long_line, ,duplicate-styles")
	t.Setenv("ASSLSP_MIN_SEVERITY", "info")
	t.Setenv("ASSLSP_METRICS_DB", "m.db")
	t.Setenv("ASSLSP_LOG_LEVEL", "warn")
	t.Setenv("ASSLSP_LOG_FORMAT", "")
	t.Setenv("ASSLSP_LOG_FILE", "")

	cfg := &Config{Lint: LintConfig{Disable: []string{"x"}}, Log: LogConfig{Format: "json"}}
	cfg.ApplyEnv()

	assert.Equal(t, []string{"long_line", "duplicate-styles"}, cfg.Lint.Disable)
	assert.Equal(t, "info", cfg.Lint.MinSeverity)
	assert.Equal(t, "m.db", cfg.Metrics.Database)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestUnknownRules(t *testing.T) {
	cfg := &Config{Lint: LintConfig{Disable: []string{"timing-overlap", "invalid_color", "nope"}}}
	assert.Equal(t, []string{"nope"}, cfg.UnknownRules(lint.DefaultRegistry()))
}

func TestLintOptionsRejectsBadSeverity(t *testing.T) {
	cfg := &Config{Lint: LintConfig{MinSeverity: "loud"}}
	_, err := cfg.LintOptions()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
