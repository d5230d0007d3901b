package session

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/script"
)

// Columns converts between the rune columns of script positions and the
// columns the client counts in. The zero value passes rune columns through,
// which is the UTF-32 encoding.
type Columns struct {
	lines []string
	utf16 bool
}

// NewColumns returns a converter over the lines of doc.
func NewColumns(doc *script.Document, enc lsp.PositionEncoding) Columns {
	return Columns{lines: doc.Lines, utf16: enc != lsp.EncodingUTF32}
}

// Position converts a script position for the client.
func (c Columns) Position(p script.Position) lsp.Position {
	return lsp.Position{Line: p.Line, Character: c.toClient(p.Line, p.Character)}
}

// Range converts a script range for the client.
func (c Columns) Range(r script.Range) lsp.Range {
	return lsp.Range{Start: c.Position(r.Start), End: c.Position(r.End)}
}

// ScriptPosition converts a client position to rune columns. A column inside
// a surrogate pair maps to the start of its character.
func (c Columns) ScriptPosition(p lsp.Position) script.Position {
	return script.Position{Line: p.Line, Character: c.fromClient(p.Line, p.Character)}
}

// clientRange converts a range already in protocol types but counted in runes.
func (c Columns) clientRange(r lsp.Range) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: r.Start.Line, Character: c.toClient(r.Start.Line, r.Start.Character)},
		End:   lsp.Position{Line: r.End.Line, Character: c.toClient(r.End.Line, r.End.Character)},
	}
}

// width measures s in client columns.
func (c Columns) width(s string) int {
	if !c.utf16 {
		return utf8.RuneCountInString(s)
	}
	n := 0
	for _, r := range s {
		n += units(r)
	}
	return n
}

func (c Columns) toClient(line, col int) int {
	if !c.utf16 || line < 0 || line >= len(c.lines) {
		return col
	}
	n := 0
	for _, r := range c.lines[line] {
		if col <= 0 {
			return n
		}
		n += units(r)
		col--
	}
	// Past the end of the line every column is one unit.
	return n + col
}

func (c Columns) fromClient(line, col int) int {
	if !c.utf16 || line < 0 || line >= len(c.lines) {
		return col
	}
	runes := 0
	for _, r := range c.lines[line] {
		u := units(r)
		if col < u {
			return runes
		}
		col -= u
		runes++
	}
	return runes + col
}

// units is the UTF-16 length of r. Invalid runes count as one.
func units(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
