package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/sourcegraph/jsonrpc2"
)

// Serve reads requests from r and writes responses and notifications to w
// until the client sends exit, the stream ends or ctx is cancelled. Requests
// are handled one at a time in arrival order. A message that cannot be
// decoded ends the session.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.exit = make(chan error, 1)

	var opts []jsonrpc2.ConnOpt
	if s.log.Enabled(ctx, slog.LevelDebug) {
		opts = append(opts, jsonrpc2.LogMessages(slog.NewLogLogger(s.log.Handler(), slog.LevelDebug)))
	}
	s.log.Info("language server started", slog.String("name", s.config.Name))
	stream := jsonrpc2.NewBufferedStream(stdio{Reader: r, Writer: w}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle).SuppressErrClosed(), opts...)
	defer func() { _ = conn.Close() }()

	select {
	case err := <-s.exit:
		return err
	case <-conn.DisconnectNotify():
		// exit is handled before the reader sees the end of the stream.
		select {
		case err := <-s.exit:
			return err
		default:
		}
		s.log.Info("client closed the stream")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stdio joins the two halves of the transport. Closing it closes the reader
// when it can be closed; the writer is left open.
type stdio struct {
	io.Reader
	io.Writer
}

func (c stdio) Close() error {
	if rc, ok := c.Reader.(io.Closer); ok {
		return rc.Close()
	}
	return nil
}

// handle answers one message. The returned error becomes the JSON-RPC error
// of a request and is logged for a notification.
func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	log := s.log.With(slog.String("method", req.Method))
	log.Debug("received")

	if req.Method == "exit" {
		var err error
		if !s.shutdown {
			err = ErrExitWithoutShutdown
		}
		s.log.Info("exit")
		select {
		case s.exit <- err:
		default:
		}
		return nil, nil
	}

	var result any
	err := s.check(req)
	if err == nil {
		result, err = s.invoke(func() (any, error) { return s.dispatch(ctx, conn, req) })
	}

	if req.Notif {
		if err != nil && !errors.Is(err, errUnknownMethod) && !errors.Is(err, errRejected) {
			log.Warn("notification failed", slog.Any("error", err))
		}
		return nil, nil
	}
	if err != nil {
		return nil, s.toRPCError(log, req, err)
	}
	return result, nil
}

var (
	errUnknownMethod = errors.New("unknown method")
	errRejected      = errors.New("request rejected")
)

// check enforces the lifecycle: nothing but initialize before it, nothing
// after shutdown.
func (s *Server) check(req *jsonrpc2.Request) error {
	if !s.initialized && req.Method != "initialize" {
		return fmt.Errorf("%w: %w", errRejected, &jsonrpc2.Error{Code: ServerNotInitialized, Message: "Server not initialized"})
	}
	if s.shutdown {
		return fmt.Errorf("%w: %w", errRejected, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: ErrServerShutdown.Error()})
	}
	return nil
}

func (s *Server) toRPCError(log *slog.Logger, req *jsonrpc2.Request, err error) *jsonrpc2.Error {
	if errors.Is(err, errUnknownMethod) {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("Method not found: %s", req.Method)}
	}
	var rerr *jsonrpc2.Error
	if errors.As(err, &rerr) {
		return rerr
	}
	log.Warn("request failed", slog.Any("error", err))
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
}

// dispatch routes a message to its handler. Notifications return a nil
// result.
func (s *Server) dispatch(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req.Params)
	case "initialized", "$/cancelRequest", "$/setTrace":
		return nil, nil
	case "shutdown":
		s.shutdown = true
		s.log.Info("shutdown requested")
		return nil, nil
	case "textDocument/didOpen":
		return nil, s.didOpen(ctx, conn, req.Params)
	case "textDocument/didChange":
		return nil, s.didChange(ctx, conn, req.Params)
	case "textDocument/didSave":
		return nil, s.didSave(ctx, conn, req.Params)
	case "textDocument/didClose":
		return nil, s.didClose(ctx, conn, req.Params)
	case "textDocument/completion":
		return s.handleCompletion(ctx, req.Params)
	case "textDocument/hover":
		return s.handleHover(ctx, req.Params)
	case "textDocument/definition":
		return s.handleDefinition(ctx, req.Params)
	case "textDocument/formatting":
		return s.handleFormatting(ctx, req.Params)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(ctx, req.Params)
	default:
		return nil, errUnknownMethod
	}
}

// invoke runs fn and turns a panic into an internal error.
func (s *Server) invoke(fn func() (any, error)) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("handler panic", slog.Any("panic", p), slog.String("stack", string(debug.Stack())))
			result = nil
			err = &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: fmt.Sprintf("internal error: %v", p)}
		}
	}()
	return fn()
}

func (s *Server) handleInitialize(raw *json.RawMessage) (any, error) {
	var p InitializeParams
	if !missing(raw) {
		if err := decode(raw, &p); err != nil {
			return nil, err
		}
	}
	var offered []PositionEncoding
	if p.Capabilities.General != nil {
		offered = p.Capabilities.General.PositionEncodings
	}
	s.negotiate(offered)
	s.initialized = true
	s.log.Info("initialized", slog.String("positionEncoding", string(s.encoding)))

	return InitializeResult{
		Capabilities: s.Capabilities(),
		ServerInfo:   ServerInfo{Name: s.config.Name, Version: s.config.Version},
	}, nil
}

func (s *Server) didOpen(ctx context.Context, conn *jsonrpc2.Conn, raw *json.RawMessage) error {
	var p DidOpenTextDocumentParams
	if err := decode(raw, &p); err != nil {
		return err
	}
	doc := p.TextDocument
	return s.publishAfter(ctx, conn, doc.URI, doc.Version, s.Open(ctx, doc.URI, doc.Version, doc.Text))
}

func (s *Server) didChange(ctx context.Context, conn *jsonrpc2.Conn, raw *json.RawMessage) error {
	var p DidChangeTextDocumentParams
	if err := decode(raw, &p); err != nil {
		return err
	}
	if len(p.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change holds the whole text.
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	doc := p.TextDocument
	return s.publishAfter(ctx, conn, doc.URI, doc.Version, s.Change(ctx, doc.URI, doc.Version, text))
}

func (s *Server) didSave(ctx context.Context, conn *jsonrpc2.Conn, raw *json.RawMessage) error {
	var p DidSaveTextDocumentParams
	if err := decode(raw, &p); err != nil {
		return err
	}
	return s.publish(ctx, conn, p.TextDocument.URI, nil)
}

func (s *Server) didClose(ctx context.Context, conn *jsonrpc2.Conn, raw *json.RawMessage) error {
	var p DidCloseTextDocumentParams
	if err := decode(raw, &p); err != nil {
		return err
	}
	s.Close(ctx, p.TextDocument.URI)
	return conn.Notify(ctx, "textDocument/publishDiagnostics",
		PublishDiagnosticsParams{URI: p.TextDocument.URI, Diagnostics: []Diagnostic{}})
}

// publishAfter publishes diagnostics unless the update failed. A superseded
// update is dropped silently.
func (s *Server) publishAfter(ctx context.Context, conn *jsonrpc2.Conn, uri string, version int, err error) error {
	if errors.Is(err, ErrSuperseded) {
		s.log.Debug("skipping diagnostics for stale version", slog.String("uri", uri), slog.Int("version", version))
		return nil
	}
	if err != nil {
		return err
	}
	return s.publish(ctx, conn, uri, &version)
}

func (s *Server) publish(ctx context.Context, conn *jsonrpc2.Conn, uri string, version *int) error {
	diags, err := s.Diagnose(ctx, uri)
	if err != nil {
		return err
	}
	if diags == nil {
		diags = []Diagnostic{}
	}
	return conn.Notify(ctx, "textDocument/publishDiagnostics",
		PublishDiagnosticsParams{URI: uri, Version: version, Diagnostics: diags})
}

func (s *Server) handleCompletion(ctx context.Context, raw *json.RawMessage) (any, error) {
	var p TextDocumentPositionParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	return s.Complete(ctx, p.TextDocument.URI, p.Position)
}

func (s *Server) handleHover(ctx context.Context, raw *json.RawMessage) (any, error) {
	var p TextDocumentPositionParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	h, err := s.Hover(ctx, p.TextDocument.URI, p.Position)
	if err != nil || h == nil {
		return nil, err
	}
	return hoverResult{Contents: MarkupContent{Kind: "markdown", Value: h.Contents}, Range: h.Range}, nil
}

func (s *Server) handleDefinition(ctx context.Context, raw *json.RawMessage) (any, error) {
	var p TextDocumentPositionParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	return s.Definition(ctx, p.TextDocument.URI, p.Position)
}

func (s *Server) handleFormatting(ctx context.Context, raw *json.RawMessage) (any, error) {
	var p DocumentParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	return s.Format(ctx, p.TextDocument.URI)
}

func (s *Server) handleDocumentSymbol(ctx context.Context, raw *json.RawMessage) (any, error) {
	var p DocumentParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	return s.Symbols(ctx, p.TextDocument.URI)
}

func missing(raw *json.RawMessage) bool {
	return raw == nil || len(*raw) == 0 || string(*raw) == "null"
}

func decode(raw *json.RawMessage, v any) error {
	if missing(raw) {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "Missing params"}
	}
	if err := json.Unmarshal(*raw, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: fmt.Sprintf("Invalid params: %v", err)}
	}
	return nil
}
