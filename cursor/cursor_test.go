package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lex00/ass-lsp-go/script"
)

const doc = `[Script Info]
Title: Demo

[V4+ Styles]
Format: Name, Fontname
Style: Default,Arial

[Events]
Format: Layer, Start
Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,{\b1}Hi {\i
Comment:
`

func pos(line, char int) script.Position {
	return script.Position{Line: line, Character: char}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  script.Position
		want Context
	}{
		{"script info key", doc, pos(1, 3), ScriptInfoContext},
		{"script info blank", doc, pos(2, 0), ScriptInfoContext},
		{"style format", doc, pos(4, 8), StyleFormatContext},
		{"style line", doc, pos(5, 3), NoContext},
		{"styles header itself", doc, pos(3, 2), NoContext},
		{"event format", doc, pos(8, 10), EventFormatContext},
		{"inside unclosed brace", doc, pos(9, 66), OverrideTagContext},
		{"after closed brace", doc, pos(9, 58), NoContext},
		{"inside closed brace", doc, pos(9, 53), OverrideTagContext},
		{"event type after colon", doc, pos(10, 8), EventTypeContext},
		{"virtual last line", doc, pos(11, 0), EventTypeContext},
		{"beyond virtual line", doc, pos(12, 0), NoContext},
		{"negative line", doc, pos(-1, 0), NoContext},
		{"empty document", "", pos(0, 0), SectionContext},
		{"bracket before any section", "[Scr", pos(0, 4), SectionContext},
		{"text before any section", "hello", pos(0, 2), NoContext},
		{"unknown section", "[Fonts]\nfontname: x.ttf", pos(1, 2), NoContext},
		{"column clamped", "[Events]\nComment:", pos(1, 99), EventTypeContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text, tt.pos))
		})
	}
}

func TestAt(t *testing.T) {
	c := At(doc, pos(1, 3))
	assert.Equal(t, ScriptInfoContext, c.Context)
	assert.Equal(t, "Script Info", c.Section)
	assert.Equal(t, "Tit", c.Prefix)
	assert.Equal(t, Token{Text: "Title", Start: 0, End: 5}, c.Token)

	c = At("[Events]\nComment:", pos(1, 99))
	assert.Equal(t, 8, c.Column)
	assert.Equal(t, "Comment:", c.Prefix)
}

func TestTokenAt(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want Token
	}{
		{"Style: Default,Arial", 9, Token{"Default", 7, 14}},
		{"Style: Default,Arial", 14, Token{"Default", 7, 14}},
		{"Style: Default,Arial", 15, Token{"Arial", 15, 20}},
		{`{\pos(1,2)}`, 3, Token{`\pos(1`, 1, 7}},
		{"a, b", 2, Token{"", 2, 2}},
		{"", 0, Token{"", 0, 0}},
		{"0:00:01.00", 4, Token{"00", 2, 4}},
		{"héllo wörld", 8, Token{"wörld", 6, 11}},
		{"word", 99, Token{"word", 0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenAt(tt.line, tt.col))
		})
	}
}

func TestContextString(t *testing.T) {
	assert.Equal(t, "override-tag", OverrideTagContext.String())
	assert.Equal(t, "none", NoContext.String())
	assert.Equal(t, "unknown", Context(42).String())
}
