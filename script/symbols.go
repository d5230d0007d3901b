package script

import (
	"fmt"
	"strings"
)

// SymbolKind uses the Language Server Protocol numbering.
type SymbolKind int

const (
	SymbolNamespace SymbolKind = 3
	SymbolClass     SymbolKind = 5
	SymbolProperty  SymbolKind = 7
	SymbolFunction  SymbolKind = 12
	SymbolVariable  SymbolKind = 13
)

const symbolDetailRunes = 50

// Symbol is a node of the document outline.
type Symbol struct {
	Name     string     `json:"name" yaml:"name"`
	Detail   string     `json:"detail,omitempty" yaml:"detail,omitempty"`
	Kind     SymbolKind `json:"kind" yaml:"kind"`
	Range    Range      `json:"range" yaml:"range"`
	Children []Symbol   `json:"children,omitempty" yaml:"children,omitempty"`
}

// ExtractSymbols builds the outline tree: one node per section, with children
// for the script info keys, styles and events declared inside it.
func ExtractSymbols(doc *Document) []Symbol {
	symbols := make([]Symbol, 0, len(doc.Sections))

	for _, section := range doc.Sections {
		var children []Symbol
		switch {
		case strings.Contains(section.Name, "Script Info"):
			children = infoSymbols(doc.Info, section.Range)
		case strings.Contains(section.Name, "Styles"):
			for _, st := range doc.Styles {
				if !inSection(section.Range, st.Range.Start.Line) {
					continue
				}
				children = append(children, Symbol{
					Name:   st.Name,
					Detail: fmt.Sprintf("%s %d", st.Fontname, st.Fontsize),
					Kind:   SymbolClass,
					Range:  st.Range,
				})
			}
		case section.Name == "Events":
			for _, ev := range doc.Events {
				if !inSection(section.Range, ev.Range.Start.Line) {
					continue
				}
				children = append(children, eventSymbol(ev))
			}
		}

		symbols = append(symbols, Symbol{
			Name:     section.Name,
			Detail:   fmt.Sprintf("%d items", len(children)),
			Kind:     SymbolNamespace,
			Range:    section.Range,
			Children: children,
		})
	}

	return symbols
}

// infoSymbols emits one node per key in first-seen order, pointing at the
// line whose value wins.
func infoSymbols(entries []InfoEntry, r Range) []Symbol {
	var out []Symbol
	index := make(map[string]int)
	for _, e := range entries {
		if !inSection(r, e.Range.Start.Line) {
			continue
		}
		if i, ok := index[e.Key]; ok {
			out[i].Range = e.Range
			continue
		}
		index[e.Key] = len(out)
		out = append(out, Symbol{Name: e.Key, Kind: SymbolProperty, Range: e.Range})
	}
	return out
}

func eventSymbol(ev Event) Symbol {
	name := fmt.Sprintf("%s - %s", ev.Start, ev.End)
	if ev.Actor != "" {
		name = fmt.Sprintf("%s: %s - %s", ev.Actor, ev.Start, ev.End)
	}

	kind := SymbolFunction
	if ev.Kind == Comment {
		kind = SymbolVariable
	}

	detail := []rune(ev.Text)
	if len(detail) > symbolDetailRunes {
		detail = detail[:symbolDetailRunes]
	}

	return Symbol{
		Name:   name,
		Detail: string(detail),
		Kind:   kind,
		Range:  ev.Range,
	}
}

func inSection(r Range, line int) bool {
	return line >= r.Start.Line && line < r.End.Line
}
