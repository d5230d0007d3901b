// Package logging configures log/slog for the CLI and language server.
//
// Console output always goes to stderr (or Options.Writer): in serve mode
// stdout carries the protocol stream. An optional file sink rotates through
// lumberjack.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lex00/ass-lsp-go/version"
)

// Options controls logger initialization. Environment variables override
// empty fields through FromEnv:
//   - ASSLSP_LOG_LEVEL=debug|info|warn|error
//   - ASSLSP_LOG_FORMAT=console|json
//   - ASSLSP_LOG_FILE=<path>
type Options struct {
	Level  string
	Format string // "console" or "json"
	File   string
	// Writer replaces stderr for console output.
	Writer io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	// sink is the open file of the current logger, if any.
	sink io.WriteCloser
)

// openSink opens the rotating log file.
var openSink = func(path string) io.WriteCloser {
	return &lumberjack.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
}

// L returns the process logger, initializing from the environment if needed.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	return Init(FromEnv())
}

// Init builds the logger, installs it as slog.Default and returns it. The
// file sink of the logger it replaces is closed.
func Init(opts Options) *slog.Logger {
	lvl := ParseLevel(opts.Level)
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: lvl}
	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, hopts)
	} else {
		console = slog.NewTextHandler(w, hopts)
	}

	handler := console
	var file io.WriteCloser
	if path := strings.TrimSpace(opts.File); path != "" {
		file = openSink(path)
		handler = fanout{console, slog.NewJSONHandler(file, hopts)}
	}

	logger := slog.New(handler).With(
		slog.String("app", "ass-lsp"),
		slog.String("ver", version.Version()),
	)

	mu.Lock()
	previous := sink
	current, sink = logger, file
	mu.Unlock()
	slog.SetDefault(logger)

	if previous != nil {
		if err := previous.Close(); err != nil {
			logger.Warn("closing previous log file", slog.Any("error", err))
		}
	}
	return logger
}

// Close releases the log file, if one is open. Later records only reach the
// console.
func Close() error {
	mu.Lock()
	previous := sink
	sink = nil
	if previous != nil && current != nil {
		current = slog.New(consoleOnly(current.Handler()))
		slog.SetDefault(current)
	}
	mu.Unlock()
	if previous == nil {
		return nil
	}
	return previous.Close()
}

// FromEnv builds Options from ASSLSP_* variables.
func FromEnv() Options {
	return Options{
		Level:  getenv("ASSLSP_LOG_LEVEL", "info"),
		Format: getenv("ASSLSP_LOG_FORMAT", "console"),
		File:   os.Getenv("ASSLSP_LOG_FILE"),
	}
}

// Merge fills empty fields of o from fallback.
func (o Options) Merge(fallback Options) Options {
	if o.Level == "" {
		o.Level = fallback.Level
	}
	if o.Format == "" {
		o.Format = fallback.Format
	}
	if o.File == "" {
		o.File = fallback.File
	}
	if o.Writer == nil {
		o.Writer = fallback.Writer
	}
	return o
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// ParseLevel converts a level name to slog.Level; unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends every record to all handlers.
type fanout []slog.Handler

// consoleOnly drops the file handler of a fanout. The console handler is
// always first.
func consoleOnly(h slog.Handler) slog.Handler {
	if f, ok := h.(fanout); ok && len(f) > 0 {
		return f[0]
	}
	return h
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
