package lang

import (
	"fmt"
	"strings"

	"github.com/lex00/ass-lsp-go/cursor"
	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/script"
)

// Complete returns completion items for pos using the embedded catalog.
func Complete(text string, pos script.Position) []lsp.CompletionItem {
	return DefaultCatalog().Complete(text, pos)
}

// Complete returns completion items for the context at pos.
func (c *Catalog) Complete(text string, pos script.Position) []lsp.CompletionItem {
	cur := cursor.At(text, pos)
	switch cur.Context {
	case cursor.OverrideTagContext:
		return c.completeTags(cur.Prefix)
	case cursor.ScriptInfoContext:
		return c.completeInfoKeys(cur.Prefix)
	case cursor.StyleFormatContext:
		return fields(c.StyleFields, "Style Field")
	case cursor.EventFormatContext:
		return fields(c.EventFields, "Event Field")
	case cursor.SectionContext:
		return c.completeSections()
	case cursor.EventTypeContext:
		return c.completeEventTypes()
	}
	return nil
}

// completeTags offers tags matching the partial "\name" typed since the
// last '{'. With no backslash typed yet every tag is offered.
func (c *Catalog) completeTags(prefix string) []lsp.CompletionItem {
	segment := prefix[strings.LastIndexByte(prefix, '{')+1:]
	typed := ""
	if i := strings.LastIndexByte(segment, '\\'); i >= 0 {
		typed = segment[i:]
	}

	var items []lsp.CompletionItem
	for _, tag := range c.Tags {
		label := `\` + tag.Name
		if !strings.HasPrefix(label, typed) {
			continue
		}

		item := lsp.CompletionItem{
			Label:            label,
			Kind:             lsp.CompletionKindFunction,
			Detail:           tag.Detail,
			Documentation:    fmt.Sprintf("%s - ASS override tag", label),
			InsertText:       label,
			InsertTextFormat: lsp.InsertSnippet,
		}
		if item.Detail == "" {
			item.Detail = "ASS override tag"
		}
		if tag.Syntax != "" {
			item.Documentation = fmt.Sprintf("%s - %s", tag.Syntax, tag.Description)
		}
		if tag.Snippet != "" {
			item.InsertText = tag.Snippet
		}
		items = append(items, item)
	}
	return items
}

func (c *Catalog) completeInfoKeys(prefix string) []lsp.CompletionItem {
	if strings.Contains(prefix, ":") {
		return nil
	}
	typed := strings.ToLower(strings.TrimSpace(prefix))

	var items []lsp.CompletionItem
	for _, key := range c.InfoKeys {
		if !strings.HasPrefix(strings.ToLower(key.Name), typed) {
			continue
		}
		items = append(items, lsp.CompletionItem{
			Label:            key.Name,
			Kind:             lsp.CompletionKindProperty,
			Detail:           "Script Info Property",
			Documentation:    key.Description,
			InsertText:       key.Name + ": $0",
			InsertTextFormat: lsp.InsertSnippet,
		})
	}
	return items
}

func fields(names []string, detail string) []lsp.CompletionItem {
	items := make([]lsp.CompletionItem, 0, len(names))
	for _, name := range names {
		items = append(items, lsp.CompletionItem{
			Label:  name,
			Kind:   lsp.CompletionKindField,
			Detail: detail,
		})
	}
	return items
}

func (c *Catalog) completeSections() []lsp.CompletionItem {
	items := make([]lsp.CompletionItem, 0, len(c.Sections))
	for _, s := range c.Sections {
		items = append(items, lsp.CompletionItem{
			Label:         "[" + s.Name + "]",
			Kind:          lsp.CompletionKindModule,
			Detail:        s.Detail,
			Documentation: s.Description,
		})
	}
	return items
}

func (c *Catalog) completeEventTypes() []lsp.CompletionItem {
	items := make([]lsp.CompletionItem, 0, len(c.EventTypes))
	for _, e := range c.EventTypes {
		items = append(items, lsp.CompletionItem{
			Label:            e.Name + ":",
			Kind:             lsp.CompletionKindFunction,
			Detail:           e.Detail,
			InsertText:       e.Snippet,
			InsertTextFormat: lsp.InsertSnippet,
		})
	}
	return items
}
