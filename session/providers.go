package session

import (
	"context"
	"strings"
	"time"

	"github.com/lex00/ass-lsp-go/cursor"
	"github.com/lex00/ass-lsp-go/lint"
	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/script"
)

// Source is the diagnostic source reported to editors.
const Source = "ass-lsp"

var (
	_ lsp.DocumentStore      = (*Store)(nil)
	_ lsp.DiagnosticProvider = (*Store)(nil)
	_ lsp.CompletionProvider = (*Store)(nil)
	_ lsp.HoverProvider      = (*Store)(nil)
	_ lsp.DefinitionProvider = (*Store)(nil)
	_ lsp.FormattingProvider = (*Store)(nil)
	_ lsp.SymbolProvider     = (*Store)(nil)
)

// styleField is the index of the style reference among event fields.
const styleField = 3

// Diagnose implements lsp.DiagnosticProvider.
func (s *Store) Diagnose(_ context.Context, uri string) ([]lsp.Diagnostic, error) {
	snap, err := s.snapshot(uri)
	if err != nil {
		return nil, err
	}
	return Diagnostics(snap.Diagnostics, s.columns(snap)), nil
}

// Complete implements lsp.CompletionProvider.
func (s *Store) Complete(_ context.Context, uri string, pos lsp.Position) ([]lsp.CompletionItem, error) {
	snap, err := s.snapshot(uri)
	if err != nil {
		return nil, err
	}
	begin := time.Now()
	items := s.catalog.Complete(snap.Text, s.columns(snap).ScriptPosition(pos))
	s.noteCompletion(snap, time.Since(begin))
	if items == nil {
		items = []lsp.CompletionItem{}
	}
	return items, nil
}

// Hover implements lsp.HoverProvider.
func (s *Store) Hover(_ context.Context, uri string, pos lsp.Position) (*lsp.Hover, error) {
	snap, err := s.snapshot(uri)
	if err != nil {
		return nil, err
	}
	cols := s.columns(snap)
	h := s.catalog.Hover(snap.Text, cols.ScriptPosition(pos))
	if h != nil && h.Range != nil {
		r := cols.clientRange(*h.Range)
		h.Range = &r
	}
	return h, nil
}

// Definition implements lsp.DefinitionProvider. From the style field of an
// event it jumps to every declaration of that style.
func (s *Store) Definition(_ context.Context, uri string, pos lsp.Position) ([]lsp.Location, error) {
	snap, err := s.snapshot(uri)
	if err != nil {
		return nil, err
	}
	locs := []lsp.Location{}
	cols := s.columns(snap)
	p := cols.ScriptPosition(pos)
	ev, ok := eventOnLine(snap.Doc, p.Line)
	if !ok {
		return locs, nil
	}
	raw := snap.Doc.Lines[p.Line]
	tok := cursor.TokenAt(raw, p.Character)
	if strings.TrimSpace(tok.Text) != ev.Style || fieldIndexAt(raw, tok.Start) != styleField {
		return locs, nil
	}
	for _, st := range snap.Doc.Styles {
		if st.Name == ev.Style {
			locs = append(locs, lsp.Location{URI: uri, Range: cols.Range(st.Range)})
		}
	}
	return locs, nil
}

// Format implements lsp.FormattingProvider with a single whole-document
// edit, or none when the text is already formatted.
func (s *Store) Format(_ context.Context, uri string) ([]lsp.TextEdit, error) {
	snap, err := s.snapshot(uri)
	if err != nil {
		return nil, err
	}
	formatted := script.Format(snap.Text)
	if formatted == snap.Text {
		return []lsp.TextEdit{}, nil
	}
	return []lsp.TextEdit{{Range: fullRange(snap.Text, s.columns(snap)), NewText: formatted}}, nil
}

// Symbols implements lsp.SymbolProvider.
func (s *Store) Symbols(_ context.Context, uri string) ([]lsp.DocumentSymbol, error) {
	snap, err := s.snapshot(uri)
	if err != nil {
		return nil, err
	}
	return DocumentSymbols(script.ExtractSymbols(snap.Doc), s.columns(snap)), nil
}

// Diagnostics converts lint diagnostics to protocol diagnostics.
func Diagnostics(diags []lint.Diagnostic, cols Columns) []lsp.Diagnostic {
	out := make([]lsp.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, lsp.Diagnostic{
			Range:    cols.Range(d.Range),
			Severity: lsp.DiagnosticSeverity(d.Severity + 1),
			Code:     d.Code,
			Source:   Source,
			Message:  d.Message,
		})
	}
	return out
}

// DocumentSymbols converts an outline to protocol symbols.
func DocumentSymbols(symbols []script.Symbol, cols Columns) []lsp.DocumentSymbol {
	out := make([]lsp.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		r := cols.Range(sym.Range)
		ds := lsp.DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Detail,
			Kind:           lsp.SymbolKind(sym.Kind),
			Range:          r,
			SelectionRange: r,
		}
		if len(sym.Children) > 0 {
			ds.Children = DocumentSymbols(sym.Children, cols)
		}
		out = append(out, ds)
	}
	return out
}

// fullRange spans all of text, including a trailing newline.
func fullRange(text string, cols Columns) lsp.Range {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return lsp.Range{End: lsp.Position{Line: line, Character: cols.width(last)}}
}

func eventOnLine(doc *script.Document, line int) (script.Event, bool) {
	for _, ev := range doc.Events {
		if ev.Range.Start.Line == line {
			return ev, true
		}
	}
	return script.Event{}, false
}

// fieldIndexAt returns which comma field of an event line contains rune
// column col, or -1 when col is inside the "Dialogue:" prefix.
func fieldIndexAt(raw string, col int) int {
	runes := []rune(raw)
	colon := -1
	for i, r := range runes {
		if r == ':' {
			colon = i
			break
		}
	}
	if colon < 0 || col <= colon {
		return -1
	}
	idx := 0
	for i := colon + 1; i < col && i < len(runes); i++ {
		if runes[i] == ',' {
			idx++
		}
	}
	return idx
}
