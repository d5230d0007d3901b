// Package cursor classifies a cursor position in script text into the
// semantic context that drives completion and hover.
package cursor

import (
	"strings"

	"github.com/lex00/ass-lsp-go/script"
)

// Context is the semantic context at a cursor position.
type Context int

const (
	NoContext Context = iota
	OverrideTagContext
	ScriptInfoContext
	StyleFormatContext
	EventFormatContext
	SectionContext
	EventTypeContext
)

var contextNames = [...]string{
	NoContext:          "none",
	OverrideTagContext: "override-tag",
	ScriptInfoContext:  "script-info",
	StyleFormatContext: "style-format",
	EventFormatContext: "event-format",
	SectionContext:     "section",
	EventTypeContext:   "event-type",
}

func (c Context) String() string {
	if c < 0 || int(c) >= len(contextNames) {
		return "unknown"
	}
	return contextNames[c]
}

// Cursor is everything known about a position after classification.
type Cursor struct {
	Context Context
	// Line is the text of the cursor's line; empty on the virtual line after
	// a trailing newline.
	Line string
	// Column is the cursor column clamped to the line length, in runes.
	Column int
	// Prefix is Line up to Column.
	Prefix string
	Token  Token
	// Section is the name of the enclosing section, if any.
	Section string
}

// Classify returns the context at pos.
func Classify(text string, pos script.Position) Context {
	return At(text, pos).Context
}

// At classifies pos and extracts the line, prefix and token under it.
func At(text string, pos script.Position) Cursor {
	lines := script.SplitLines(text)
	line, ok := lineAt(text, lines, pos.Line)
	if !ok {
		return Cursor{Context: NoContext}
	}

	runes := []rune(line)
	col := min(max(pos.Character, 0), len(runes))
	c := Cursor{
		Line:   line,
		Column: col,
		Prefix: string(runes[:col]),
		Token:  TokenAt(line, col),
	}

	if inOverride(c.Prefix) {
		c.Context = OverrideTagContext
		return c
	}

	section, found := enclosingSection(lines, pos.Line)
	c.Section = section
	c.Context = sectionContext(section, found, strings.TrimSpace(line))
	return c
}

// lineAt returns line n. The position just past a trailing newline is an
// empty line; anything beyond it does not exist.
func lineAt(text string, lines []string, n int) (string, bool) {
	switch {
	case n < 0:
		return "", false
	case n < len(lines):
		return lines[n], true
	case n == len(lines) && (text == "" || strings.HasSuffix(text, "\n")):
		return "", true
	}
	return "", false
}

// inOverride reports whether prefix has a '{' with no '}' after it.
func inOverride(prefix string) bool {
	open := strings.LastIndexByte(prefix, '{')
	return open >= 0 && !strings.ContainsRune(prefix[open:], '}')
}

// enclosingSection scans upward from line n, inclusive, for a header.
func enclosingSection(lines []string, n int) (string, bool) {
	for i := min(n, len(lines)-1); i >= 0; i-- {
		if name, ok := script.SectionName(strings.TrimSpace(lines[i])); ok {
			return name, true
		}
	}
	return "", false
}

func sectionContext(section string, found bool, line string) Context {
	if !found {
		if line == "" || strings.HasPrefix(line, "[") {
			return SectionContext
		}
		return NoContext
	}

	switch {
	case strings.Contains(section, "Script Info"):
		return ScriptInfoContext
	case strings.Contains(section, "Styles"):
		if strings.HasPrefix(line, "Format:") {
			return StyleFormatContext
		}
	case section == "Events":
		switch {
		case strings.HasPrefix(line, "Format:"):
			return EventFormatContext
		case line == "" || strings.HasSuffix(line, ":"):
			return EventTypeContext
		}
	}
	return NoContext
}
