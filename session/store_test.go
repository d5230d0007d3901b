package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/ass-lsp-go/lint"
	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/metrics"
)

const uri = "file:///demo.ass"

const demo = `[Script Info]
Title: Demo

[V4+ Styles]
Style: Default,Arial,20,&H00FFFFFF,&H000000FF
Style: Sign,Arial,30,&H00FFFFFF,&H000000FF

[Events]
Dialogue: 0,0:00:01.00,0:00:03.00,Sign,,0,0,0,,Hello
`

type captureRecorder struct {
	mu   sync.Mutex
	rows []metrics.Metrics
	err  error
}

func (c *captureRecorder) Record(_ context.Context, m metrics.Metrics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, m)
	return c.err
}

func newStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return New(opts)
}

func TestOpenAndDiagnose(t *testing.T) {
	rec := &captureRecorder{}
	s := newStore(t, Options{Recorder: rec})
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, uri, 1, demo))
	diags, err := s.Diagnose(ctx, uri)
	require.NoError(t, err)
	assert.Empty(t, diags)

	require.NoError(t, s.Change(ctx, uri, 2, demo+"Dialogue: 0,0:00:04.00,0:00:05.00,Missing,,0,0,0,,Hi\n"))
	diags, err = s.Diagnose(ctx, uri)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined_style", diags[0].Code)
	assert.Equal(t, lsp.SeverityWarning, diags[0].Severity)
	assert.Equal(t, Source, diags[0].Source)
	assert.Equal(t, 9, diags[0].Range.Start.Line)

	require.Len(t, rec.rows, 2)
	assert.Equal(t, 2, rec.rows[1].Version)
	assert.Equal(t, 1, rec.rows[1].Diagnostics)
	assert.Equal(t, Digest(demo), rec.rows[0].Digest)
	assert.Equal(t, 10, rec.rows[1].Lines)
}

func TestChangeSuperseded(t *testing.T) {
	s := newStore(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, uri, 5, demo))
	err := s.Change(ctx, uri, 4, "[Script Info]\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSuperseded))

	text, ok := s.Text(uri)
	require.True(t, ok)
	assert.Equal(t, demo, text)
}

func TestConcurrentChangesKeepNewestVersion(t *testing.T) {
	s := newStore(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for v := 1; v <= 50; v++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Change(ctx, uri, v, fmt.Sprintf("[Script Info]\nTitle: v%d\n", v))
			if err != nil {
				assert.ErrorIs(t, err, ErrSuperseded)
			}
		}()
	}
	wg.Wait()

	snap, ok := s.Get(uri)
	require.True(t, ok)
	assert.Equal(t, 50, snap.Version)
	assert.Equal(t, "v50", snap.Doc.ScriptInfo["Title"])
}

func TestCloseAndNotOpen(t *testing.T) {
	s := newStore(t, Options{})
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, uri, 1, demo))
	require.NoError(t, s.Open(ctx, "file:///a.ass", 1, demo))
	assert.Equal(t, []string{"file:///a.ass", uri}, s.URIs())

	s.Close(ctx, uri)
	_, ok := s.Get(uri)
	assert.False(t, ok)

	_, err := s.Diagnose(ctx, uri)
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = s.Format(ctx, uri)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestLintConfigIsApplied(t *testing.T) {
	cfg := &lint.Config{DisabledRules: []string{"undefined_style"}, MinSeverity: lint.SeverityHint}
	s := newStore(t, Options{Lint: cfg})
	ctx := context.Background()

	require.NoError(t, s.Open(ctx, uri, 1, demo+"Dialogue: 0,0:00:04.00,0:00:05.00,Missing,,0,0,0,,Hi\n"))
	diags, err := s.Diagnose(ctx, uri)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestRecorderErrorDoesNotFailChange(t *testing.T) {
	s := newStore(t, Options{Recorder: &captureRecorder{err: errors.New("disk full")}})
	assert.NoError(t, s.Open(context.Background(), uri, 1, demo))
}

func TestDigest(t *testing.T) {
	assert.Len(t, Digest("abc"), 16)
	assert.Equal(t, Digest("abc"), Digest("abc"))
	assert.NotEqual(t, Digest("abc"), Digest("abd"))
	assert.NotEmpty(t, newStore(t, Options{}).ID())
}
