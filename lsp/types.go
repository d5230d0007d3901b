// Package lsp provides Language Server Protocol infrastructure for editor
// integration of ASS subtitle scripts.
//
// Providers implement DiagnosticProvider, CompletionProvider, HoverProvider
// and the other provider interfaces while this package handles protocol
// communication over JSON-RPC.
package lsp

import "context"

// Position represents a position in a text document (0-based line and character).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range represents a range in a text document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// Diagnostic represents a diagnostic (error, warning, info, hint).
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity"`
	Code     string             `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

// CompletionItemKind represents the kind of completion item.
type CompletionItemKind int

const (
	CompletionKindText       CompletionItemKind = 1
	CompletionKindFunction   CompletionItemKind = 3
	CompletionKindField      CompletionItemKind = 5
	CompletionKindModule     CompletionItemKind = 9
	CompletionKindProperty   CompletionItemKind = 10
	CompletionKindKeyword    CompletionItemKind = 14
	CompletionKindSnippet    CompletionItemKind = 15
	CompletionKindColor      CompletionItemKind = 16
	CompletionKindReference  CompletionItemKind = 18
	CompletionKindEnumMember CompletionItemKind = 20
	CompletionKindConstant   CompletionItemKind = 21
	CompletionKindEvent      CompletionItemKind = 23
)

// InsertTextFormat says how InsertText is interpreted.
type InsertTextFormat int

const (
	InsertPlainText InsertTextFormat = 1
	InsertSnippet   InsertTextFormat = 2
)

// CompletionItem represents a completion suggestion.
type CompletionItem struct {
	Label            string             `json:"label"`
	Kind             CompletionItemKind `json:"kind,omitempty"`
	Detail           string             `json:"detail,omitempty"`
	Documentation    string             `json:"documentation,omitempty"`
	InsertText       string             `json:"insertText,omitempty"`
	InsertTextFormat InsertTextFormat   `json:"insertTextFormat,omitempty"`
	FilterText       string             `json:"filterText,omitempty"`
}

// Hover represents hover information. Contents is markdown.
type Hover struct {
	Contents string `json:"contents"`
	Range    *Range `json:"range,omitempty"`
}

// Location represents a location in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// SymbolKind uses the protocol's symbol numbering.
type SymbolKind int

// DocumentSymbol is a node of the document outline.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           SymbolKind       `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// TextEdit replaces Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// DiagnosticProvider provides diagnostics for a document.
type DiagnosticProvider interface {
	Diagnose(ctx context.Context, uri string) ([]Diagnostic, error)
}

// CompletionProvider provides completion items at a position.
type CompletionProvider interface {
	Complete(ctx context.Context, uri string, pos Position) ([]CompletionItem, error)
}

// HoverProvider provides hover information at a position.
type HoverProvider interface {
	Hover(ctx context.Context, uri string, pos Position) (*Hover, error)
}

// DefinitionProvider provides go-to-definition support.
type DefinitionProvider interface {
	Definition(ctx context.Context, uri string, pos Position) ([]Location, error)
}

// FormattingProvider returns edits that normalise a whole document.
type FormattingProvider interface {
	Format(ctx context.Context, uri string) ([]TextEdit, error)
}

// SymbolProvider returns the document outline.
type SymbolProvider interface {
	Symbols(ctx context.Context, uri string) ([]DocumentSymbol, error)
}

// DocumentStore tracks open documents. Open and Change return an error
// wrapping ErrSuperseded when a newer version has already been committed;
// the server then skips publishing diagnostics.
type DocumentStore interface {
	Open(ctx context.Context, uri string, version int, text string) error
	Change(ctx context.Context, uri string, version int, text string) error
	Close(ctx context.Context, uri string)
}

// EncodingSetter is implemented by providers whose columns depend on the
// position encoding agreed during initialize.
type EncodingSetter interface {
	SetPositionEncoding(enc PositionEncoding)
}
