package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `[Script Info]
; generated by hand
Title: Sample
ScriptType: v4.00+
Title: Sample v2

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour
Style: Default,Arial,20,&H00FFFFFF,&H000000FF
Style: Sign,Verdana,abc,&H00FFFFFF

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:05.00,Default,Alice,0,0,0,,Hello, world, again
Comment: 0,0:00:06.00,0:00:07.00,Default,,0,0,0,,note
Dialogue: 0,0:00:08.00,0:00:09.00,Default
`

func TestParseSections(t *testing.T) {
	doc := Parse(sampleScript)

	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "Script Info", doc.Sections[0].Name)
	assert.Equal(t, "V4+ Styles", doc.Sections[1].Name)
	assert.Equal(t, "Events", doc.Sections[2].Name)

	assert.Equal(t, 0, doc.Sections[0].Range.Start.Line)
	assert.Equal(t, 6, doc.Sections[0].Range.End.Line)
	assert.Equal(t, 6, doc.Sections[1].Range.Start.Line)
	assert.Equal(t, 11, doc.Sections[1].Range.End.Line)
	assert.Equal(t, 11, doc.Sections[2].Range.Start.Line)
	assert.Equal(t, len(doc.Lines), doc.Sections[2].Range.End.Line)
	assert.Len(t, doc.Sections[1].Lines, 5)
}

func TestParseSectionCountMatchesBlocks(t *testing.T) {
	for _, n := range []int{1, 2, 5, 12} {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteString("[Block")
			b.WriteString(strings.Repeat("x", i))
			b.WriteString("]\nKey: value\nOther: value\n")
		}

		doc := Parse(b.String())
		require.Len(t, doc.Sections, n)
		for i, s := range doc.Sections {
			assert.Equal(t, i*3, s.Range.Start.Line)
			assert.Equal(t, i*3+3, s.Range.End.Line)
		}
	}
}

func TestParseScriptInfo(t *testing.T) {
	doc := Parse(sampleScript)

	assert.Equal(t, "Sample v2", doc.ScriptInfo["Title"], "last write wins")
	assert.Equal(t, "v4.00+", doc.ScriptInfo["ScriptType"])
	assert.Len(t, doc.Info, 3)
	assert.NotContains(t, doc.ScriptInfo, "; generated by hand")
}

func TestParseStyles(t *testing.T) {
	doc := Parse(sampleScript)

	require.Len(t, doc.Styles, 2)
	def := doc.Styles[0]
	assert.Equal(t, "Default", def.Name)
	assert.Equal(t, "Arial", def.Fontname)
	assert.Equal(t, 20, def.Fontsize)
	assert.Equal(t, "&H00FFFFFF", def.PrimaryColour)
	assert.Equal(t, "&H000000FF", def.SecondaryColour)
	assert.Equal(t, 8, def.Range.Start.Line)
	assert.Equal(t, 8, def.Range.End.Line)

	sign := doc.Styles[1]
	assert.Equal(t, 20, sign.Fontsize, "unparsable size falls back to 20")
	assert.Equal(t, "&Hffffff", sign.SecondaryColour, "missing secondary colour defaults")
}

func TestParseStyleRequiresFourFields(t *testing.T) {
	doc := Parse("[V4+ Styles]\nStyle: Short,Arial,20\nStyle: Ok,Arial,20,&H00FFFFFF\n")
	require.Len(t, doc.Styles, 1)
	assert.Equal(t, "Ok", doc.Styles[0].Name)
}

func TestParseFontsize(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"48", 48},
		{"-5", 20},
		{"", 20},
		{"12.5", 20},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFontsize(tt.in))
		})
	}
}

func TestParseEvents(t *testing.T) {
	doc := Parse(sampleScript)

	require.Len(t, doc.Events, 2, "event with fewer than 10 fields is dropped")

	first := doc.Events[0]
	assert.Equal(t, Dialogue, first.Kind)
	assert.Equal(t, "0:00:01.00", first.Start)
	assert.Equal(t, "0:00:05.00", first.End)
	assert.Equal(t, "Default", first.Style)
	assert.Equal(t, "Alice", first.Actor)
	assert.Equal(t, "Hello, world, again", first.Text, "commas in text are preserved")
	assert.Equal(t, 13, first.Range.Start.Line)

	assert.Equal(t, Comment, doc.Events[1].Kind)
	assert.Equal(t, "note", doc.Events[1].Text)
}

func TestParseEventTextColumn(t *testing.T) {
	line := "  Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,, {\\b1}x"
	doc := Parse("[Events]\n" + line + "\n")

	require.Len(t, doc.Events, 1)
	ev := doc.Events[0]
	assert.Equal(t, "{\\b1}x", ev.Text)
	assert.Equal(t, strings.Index(line, "{"), ev.TextColumn)
}

func TestParseEventsSectionMustMatchExactly(t *testing.T) {
	doc := Parse("[Events Extra]\nDialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,x\n")
	assert.Empty(t, doc.Events)
	require.Len(t, doc.Sections, 1)
}

func TestParseIgnoresLinesOutsideSections(t *testing.T) {
	doc := Parse("Title: orphan\n\n; comment\n[Script Info]\nTitle: Real\n")

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, 3, doc.Sections[0].Range.Start.Line)
	assert.Equal(t, "Real", doc.ScriptInfo["Title"])
	assert.Len(t, doc.ScriptInfo, 1)
}

func TestParseCRLF(t *testing.T) {
	doc := Parse("[Script Info]\r\nTitle: Windows\r\n")
	assert.Equal(t, "Windows", doc.ScriptInfo["Title"])
	assert.Equal(t, []string{"[Script Info]", "Title: Windows"}, doc.Lines)
}

func TestParseTotal(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"[",
		"[]",
		"[Events]\nDialogue:",
		"[Events]\nDialogue:,,,,,,,,,",
		"[V4+ Styles]\nStyle:",
		"[Script Info]\n:",
		"{}}}{{",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Parse(in) }, "input %q", in)
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a"}, SplitLines("a\n"))
	assert.Equal(t, []string{"a", ""}, SplitLines("a\n\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb"))
}

func TestDocumentHelpers(t *testing.T) {
	doc := Parse(sampleScript)

	assert.True(t, doc.HasSection("Script Info"))
	assert.True(t, doc.HasSection("Styles"))
	assert.False(t, doc.HasSection("Fonts"))

	names := doc.StyleNames()
	assert.True(t, names["Default"])
	assert.True(t, names["Sign"])

	dialogues := doc.Dialogues()
	require.Len(t, dialogues, 1)
	assert.Equal(t, "Alice", dialogues[0].Actor)
}
