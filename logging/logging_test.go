package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConsoleText(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Writer: &buf})

	l := WithOperation(WithComponent("session"), "didChange")
	l.Info("dropped")
	l.Warn("kept", slog.Int("version", 3))

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "component=session")
	assert.Contains(t, out, "op=didChange")
	assert.Contains(t, out, "version=3")
}

func TestInitJSONWithFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "ass-lsp.log")
	Init(Options{Level: "debug", Format: "json", File: file, Writer: &buf})
	t.Cleanup(func() { _ = Close() })

	L().Debug("hello", slog.String("k", "v"))

	var console map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &console))
	assert.Equal(t, "hello", console["msg"])
	assert.Equal(t, "ass-lsp", console["app"])

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	assert.Equal(t, "v", rec["k"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestFromEnvAndMerge(t *testing.T) {
	t.Setenv("ASSLSP_LOG_LEVEL", "debug")
	t.Setenv("ASSLSP_LOG_FORMAT", "")
	t.Setenv("ASSLSP_LOG_FILE", "/tmp/x.log")

	opts := FromEnv()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "console", opts.Format)
	assert.Equal(t, "/tmp/x.log", opts.File)

	merged := Options{Level: "error"}.Merge(opts)
	assert.Equal(t, "error", merged.Level)
	assert.Equal(t, "console", merged.Format)
	assert.Equal(t, "/tmp/x.log", merged.File)
}

type trackedSink struct {
	bytes.Buffer
	closed int
}

func (s *trackedSink) Close() error {
	s.closed++
	return nil
}

func TestInitClosesReplacedSink(t *testing.T) {
	var opened []*trackedSink
	old := openSink
	openSink = func(string) io.WriteCloser {
		s := &trackedSink{}
		opened = append(opened, s)
		return s
	}
	t.Cleanup(func() { openSink = old })

	console := io.Discard
	Init(Options{Level: "info", File: "first.log", Writer: console})
	L().Info("one")
	Init(Options{Level: "info", File: "second.log", Writer: console})
	L().Info("two")

	require.Len(t, opened, 2)
	assert.Equal(t, 1, opened[0].closed)
	assert.Equal(t, 0, opened[1].closed)
	assert.Contains(t, opened[0].String(), `"msg":"one"`)
	assert.NotContains(t, opened[0].String(), `"msg":"two"`)

	require.NoError(t, Close())
	assert.Equal(t, 1, opened[1].closed)
	L().Info("three")
	assert.NotContains(t, opened[1].String(), `"msg":"three"`)
	assert.NoError(t, Close())

	Init(Options{Level: "info", Writer: console})
	assert.Equal(t, 1, opened[1].closed)
}
