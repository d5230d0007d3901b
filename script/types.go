// Package script provides the document model and structural parser for
// Advanced SubStation Alpha (ASS/SSA) subtitle scripts.
//
// A Document is a pure function of the text it was parsed from. Nothing in
// this package keeps state between calls; callers re-parse the full text on
// every change.
package script

import "strings"

// Position is a 0-based location in a script. Character counts runes.
type Position struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// Range is a span between two positions. Section ranges are half-open line
// intervals: End.Line is the first line that does not belong to the section.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// LineRange returns a range covering columns [0,width) of a single line.
func LineRange(line, width int) Range {
	return Range{
		Start: Position{Line: line},
		End:   Position{Line: line, Character: width},
	}
}

// Document is a parsed script.
type Document struct {
	// Sections are in file order.
	Sections []Section
	// ScriptInfo maps keys to values; a repeated key keeps the last value.
	ScriptInfo map[string]string
	// Info lists every Script Info entry in file order, duplicates included.
	Info []InfoEntry
	// Styles are in file order; duplicate names are kept.
	Styles []Style
	// Events are in file order.
	Events []Event
	// Lines are the raw source lines.
	Lines []string
}

// Section is a bracketed block of the script.
type Section struct {
	Name  string
	Range Range
	// Lines are the raw lines from the header up to the end of the section.
	Lines []string
}

// InfoEntry is one "Key: Value" line under Script Info.
type InfoEntry struct {
	Key   string
	Value string
	Range Range
}

// Style is a "Style:" declaration.
type Style struct {
	Name            string
	Fontname        string
	Fontsize        int
	PrimaryColour   string
	SecondaryColour string
	// Fields holds every trimmed comma field after the "Style:" prefix.
	Fields []string
	Range  Range
}

// EventKind distinguishes displayed lines from inert annotations.
type EventKind int

const (
	// Dialogue is a timed subtitle line.
	Dialogue EventKind = iota
	// Comment is an annotation that is never displayed.
	Comment
)

// String returns the line prefix used for the kind.
func (k EventKind) String() string {
	if k == Comment {
		return "Comment"
	}
	return "Dialogue"
}

// Event is a "Dialogue:" or "Comment:" line.
type Event struct {
	Kind    EventKind
	Layer   string
	Start   string
	End     string
	Style   string
	Actor   string
	MarginL string
	MarginR string
	MarginV string
	Effect  string
	// Text is every field from the tenth onward rejoined with commas.
	Text string
	// TextColumn is the rune column where Text begins in the source line.
	TextColumn int
	Range      Range
}

// HasSection reports whether any section name contains substr.
func (d *Document) HasSection(substr string) bool {
	for _, s := range d.Sections {
		if strings.Contains(s.Name, substr) {
			return true
		}
	}
	return false
}

// StyleNames returns the set of declared style names.
func (d *Document) StyleNames() map[string]bool {
	names := make(map[string]bool, len(d.Styles))
	for _, s := range d.Styles {
		names[s.Name] = true
	}
	return names
}

// Dialogues returns the Dialogue events in file order.
func (d *Document) Dialogues() []Event {
	out := make([]Event, 0, len(d.Events))
	for _, e := range d.Events {
		if e.Kind == Dialogue {
			out = append(out, e)
		}
	}
	return out
}
