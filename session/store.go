// Package session owns the open documents of a language server. It keeps one
// Snapshot per URI, and every edit reparses and revalidates the full text.
package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/lex00/ass-lsp-go/analysis"
	"github.com/lex00/ass-lsp-go/lang"
	"github.com/lex00/ass-lsp-go/lint"
	"github.com/lex00/ass-lsp-go/logging"
	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/metrics"
	"github.com/lex00/ass-lsp-go/script"
)

var (
	// ErrSuperseded is returned by Open and Change when a newer version of
	// the document was committed while this one was being processed.
	ErrSuperseded = lsp.ErrSuperseded

	// ErrNotOpen is returned by the providers for unknown URIs.
	ErrNotOpen = errors.New("document not open")
)

// Snapshot is the processed state of one document version.
type Snapshot struct {
	URI         string
	Version     int
	Text        string
	Doc         *script.Document
	Diagnostics []lint.Diagnostic
	Metrics     metrics.Metrics
}

// Options configures a Store.
type Options struct {
	// Lint filters diagnostics. Nil reports everything.
	Lint *lint.Config
	// Recorder persists metrics. Nil discards them.
	Recorder metrics.Recorder
	// Catalog backs completion and hover. Nil uses the embedded catalog.
	Catalog *lang.Catalog
	Logger  *slog.Logger
	// ID names the store in logs and metric rows. Empty generates a UUID.
	ID string
}

// Store is a registry of open documents keyed by URI. It is safe for
// concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Snapshot

	id       string
	lint     *lint.Config
	recorder metrics.Recorder
	catalog  *lang.Catalog
	log      *slog.Logger

	// utf32 is set when the client counts columns in runes; otherwise
	// columns are UTF-16 code units.
	utf32 atomic.Bool
}

// New returns an empty Store.
func New(opts Options) *Store {
	s := &Store{
		docs:     make(map[string]*Snapshot),
		id:       opts.ID,
		lint:     opts.Lint,
		recorder: opts.Recorder,
		catalog:  opts.Catalog,
		log:      opts.Logger,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.lint == nil {
		s.lint = lint.DefaultConfig()
	}
	if s.recorder == nil {
		s.recorder = metrics.Discard{}
	}
	if s.catalog == nil {
		s.catalog = lang.DefaultCatalog()
	}
	if s.log == nil {
		s.log = logging.WithComponent("session")
	}
	s.log = s.log.With(slog.String("instance", s.id))
	return s
}

// ID identifies this store in logs and metric rows.
func (s *Store) ID() string {
	return s.id
}

// SetPositionEncoding implements lsp.EncodingSetter.
func (s *Store) SetPositionEncoding(enc lsp.PositionEncoding) {
	s.utf32.Store(enc == lsp.EncodingUTF32)
	s.log.Debug("position encoding", slog.String("encoding", string(enc)))
}

// PositionEncoding reports the encoding provider positions are counted in.
func (s *Store) PositionEncoding() lsp.PositionEncoding {
	if s.utf32.Load() {
		return lsp.EncodingUTF32
	}
	return lsp.EncodingUTF16
}

// Open registers a document and processes its text.
func (s *Store) Open(ctx context.Context, uri string, version int, text string) error {
	return s.update(ctx, "didOpen", uri, version, text)
}

// Change replaces the text of a document. Full-text sync only.
func (s *Store) Change(ctx context.Context, uri string, version int, text string) error {
	return s.update(ctx, "didChange", uri, version, text)
}

// update parses and validates outside the lock, then commits unless a newer
// version got there first.
func (s *Store) update(ctx context.Context, op, uri string, version int, text string) error {
	log := logging.WithOperation(s.log, op).With(slog.String("uri", uri), slog.Int("version", version))

	begin := time.Now()
	doc := script.Parse(text)
	parsed := time.Now()
	diags := lint.Validate(doc, s.lint)
	done := time.Now()

	m := metrics.Metrics{
		URI:            uri,
		Version:        version,
		Digest:         Digest(text),
		ParseTime:      parsed.Sub(begin),
		ValidationTime: done.Sub(parsed),
		Total:          done.Sub(begin),
		FileSize:       len(text),
		Lines:          len(doc.Lines),
		Diagnostics:    len(diags),
		RecordedAt:     done,
	}
	snap := &Snapshot{URI: uri, Version: version, Text: text, Doc: doc, Diagnostics: diags, Metrics: m}

	s.mu.Lock()
	if cur, ok := s.docs[uri]; ok && cur.Version > version {
		s.mu.Unlock()
		log.Debug("discarding stale result", slog.Int("current", cur.Version))
		return fmt.Errorf("%s v%d: %w", uri, version, ErrSuperseded)
	}
	s.docs[uri] = snap
	s.mu.Unlock()

	log.Debug("document processed",
		slog.String("digest", m.Digest),
		slog.Int("diagnostics", len(diags)),
		slog.Duration("total", m.Total))
	if log.Enabled(ctx, slog.LevelDebug) {
		if overlaps := analysis.DetectOverlaps(doc.Events); len(overlaps) > 0 {
			log.Debug("timing overlaps", slog.String("summary", analysis.Summary(overlaps)))
		}
	}
	for _, hint := range m.Suggestions() {
		log.Info("performance", slog.String("suggestion", hint))
	}
	if err := s.recorder.Record(ctx, m); err != nil {
		log.Warn("recording metrics failed", slog.Any("error", err))
	}
	return nil
}

// Close forgets a document.
func (s *Store) Close(_ context.Context, uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
	s.log.Debug("document closed", slog.String("uri", uri))
}

// Get returns the latest committed snapshot for uri.
func (s *Store) Get(uri string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.docs[uri]
	return snap, ok
}

// Text returns the latest committed text for uri.
func (s *Store) Text(uri string) (string, bool) {
	snap, ok := s.Get(uri)
	if !ok {
		return "", false
	}
	return snap.Text, true
}

// URIs lists the open documents in sorted order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		out = append(out, uri)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Digest fingerprints a text snapshot.
func Digest(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

func (s *Store) columns(snap *Snapshot) Columns {
	return NewColumns(snap.Doc, s.PositionEncoding())
}

func (s *Store) snapshot(uri string) (*Snapshot, error) {
	snap, ok := s.Get(uri)
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrNotOpen)
	}
	return snap, nil
}

// noteCompletion stores the completion latency on the snapshot it was
// measured against, if that snapshot is still current.
func (s *Store) noteCompletion(snap *Snapshot, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[snap.URI] == snap {
		updated := *snap
		updated.Metrics.CompletionTime = d
		s.docs[snap.URI] = &updated
	}
}
