package lsp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lex00/ass-lsp-go/logging"
)

var (
	// ErrSuperseded marks a document update that lost to a newer version.
	// DocumentStore implementations wrap it so the server can skip
	// publishing diagnostics for stale text.
	ErrSuperseded = errors.New("superseded by a newer version")

	// ErrServerShutdown is reported for requests received after shutdown.
	ErrServerShutdown = errors.New("server is shutting down")

	// ErrExitWithoutShutdown is returned by Serve when the client sends exit
	// before shutdown.
	ErrExitWithoutShutdown = errors.New("exit received before shutdown")
)

// Config configures the LSP server.
type Config struct {
	// Name is the server name (e.g., "ass-lsp")
	Name string

	// Version is reported in the initialize response
	Version string

	// Documents tracks open documents
	Documents DocumentStore

	// Linter provides diagnostics for documents
	Linter DiagnosticProvider

	// Completer provides completion items
	Completer CompletionProvider

	// HoverDocs provides hover documentation
	HoverDocs HoverProvider

	// Definitions provides go-to-definition support
	Definitions DefinitionProvider

	// Formatter provides whole-document formatting
	Formatter FormattingProvider

	// Outline provides document symbols
	Outline SymbolProvider

	// Logger defaults to the "lsp" component logger
	Logger *slog.Logger
}

// Server implements the LSP protocol.
type Server struct {
	config Config
	log    *slog.Logger

	initialized bool
	shutdown    bool
	encoding    PositionEncoding

	// exit receives the result of an exit notification.
	exit chan error
}

// NewServer creates a new LSP server with the given configuration.
func NewServer(config Config) *Server {
	log := config.Logger
	if log == nil {
		log = logging.WithComponent("lsp")
	}
	return &Server{
		config:   config,
		log:      log,
		encoding: EncodingUTF16,
	}
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.config.Name
}

// Capabilities describes the configured providers.
func (s *Server) Capabilities() ServerCapabilities {
	caps := ServerCapabilities{
		PositionEncoding: s.encoding,
		TextDocumentSync: TextDocumentSyncOptions{
			OpenClose: s.config.Documents != nil,
			Change:    SyncNone,
			Save:      SaveOptions{IncludeText: true},
		},
		HoverProvider:              s.config.HoverDocs != nil,
		DefinitionProvider:         s.config.Definitions != nil,
		DocumentFormattingProvider: s.config.Formatter != nil,
		DocumentSymbolProvider:     s.config.Outline != nil,
	}
	if s.config.Documents != nil {
		caps.TextDocumentSync.Change = SyncFull
	}
	if s.config.Completer != nil {
		caps.CompletionProvider = &CompletionOptions{TriggerCharacters: []string{`\`, "{", "["}}
	}
	return caps
}

// PositionEncoding returns the encoding of Position.Character, UTF-16 until a
// client negotiates another.
func (s *Server) PositionEncoding() PositionEncoding {
	return s.encoding
}

// negotiate picks UTF-32 when the client offers it, so rune columns pass
// through unchanged, and tells every provider that cares.
func (s *Server) negotiate(offered []PositionEncoding) {
	s.encoding = EncodingUTF16
	for _, enc := range offered {
		if enc == EncodingUTF32 {
			s.encoding = EncodingUTF32
			break
		}
	}

	for _, p := range []any{
		s.config.Documents, s.config.Linter, s.config.Completer,
		s.config.HoverDocs, s.config.Definitions, s.config.Formatter, s.config.Outline,
	} {
		if setter, ok := p.(EncodingSetter); ok {
			setter.SetPositionEncoding(s.encoding)
		}
	}
}

// Open registers a document with the store.
func (s *Server) Open(ctx context.Context, uri string, version int, text string) error {
	if s.config.Documents == nil {
		return nil
	}
	return s.config.Documents.Open(ctx, uri, version, text)
}

// Change replaces the text of an open document.
func (s *Server) Change(ctx context.Context, uri string, version int, text string) error {
	if s.config.Documents == nil {
		return nil
	}
	return s.config.Documents.Change(ctx, uri, version, text)
}

// Close forgets a document.
func (s *Server) Close(ctx context.Context, uri string) {
	if s.config.Documents != nil {
		s.config.Documents.Close(ctx, uri)
	}
}

// Diagnose runs diagnostics on the specified document.
func (s *Server) Diagnose(ctx context.Context, uri string) ([]Diagnostic, error) {
	if s.config.Linter == nil {
		return []Diagnostic{}, nil
	}
	return s.config.Linter.Diagnose(ctx, uri)
}

// Complete returns completion items at the specified position.
func (s *Server) Complete(ctx context.Context, uri string, pos Position) ([]CompletionItem, error) {
	if s.config.Completer == nil {
		return []CompletionItem{}, nil
	}
	return s.config.Completer.Complete(ctx, uri, pos)
}

// Hover returns hover information at the specified position.
func (s *Server) Hover(ctx context.Context, uri string, pos Position) (*Hover, error) {
	if s.config.HoverDocs == nil {
		return nil, nil
	}
	return s.config.HoverDocs.Hover(ctx, uri, pos)
}

// Definition returns definition locations at the specified position.
func (s *Server) Definition(ctx context.Context, uri string, pos Position) ([]Location, error) {
	if s.config.Definitions == nil {
		return []Location{}, nil
	}
	return s.config.Definitions.Definition(ctx, uri, pos)
}

// Format returns the edits that format the document.
func (s *Server) Format(ctx context.Context, uri string) ([]TextEdit, error) {
	if s.config.Formatter == nil {
		return []TextEdit{}, nil
	}
	return s.config.Formatter.Format(ctx, uri)
}

// Symbols returns the document outline.
func (s *Server) Symbols(ctx context.Context, uri string) ([]DocumentSymbol, error) {
	if s.config.Outline == nil {
		return []DocumentSymbol{}, nil
	}
	return s.config.Outline.Symbols(ctx, uri)
}
