package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/script"
)

func TestColumns(t *testing.T) {
	doc := script.Parse("a😀b\nplain\né€x")
	utf16 := NewColumns(doc, lsp.EncodingUTF16)
	utf32 := NewColumns(doc, lsp.EncodingUTF32)

	tests := []struct {
		name   string
		script script.Position
		client lsp.Position
	}{
		{"line start", script.Position{Line: 0, Character: 0}, lsp.Position{Line: 0, Character: 0}},
		{"before emoji", script.Position{Line: 0, Character: 1}, lsp.Position{Line: 0, Character: 1}},
		{"after emoji", script.Position{Line: 0, Character: 2}, lsp.Position{Line: 0, Character: 3}},
		{"line end", script.Position{Line: 0, Character: 3}, lsp.Position{Line: 0, Character: 4}},
		{"past line end", script.Position{Line: 0, Character: 5}, lsp.Position{Line: 0, Character: 6}},
		{"ascii line", script.Position{Line: 1, Character: 4}, lsp.Position{Line: 1, Character: 4}},
		{"bmp runes", script.Position{Line: 2, Character: 3}, lsp.Position{Line: 2, Character: 3}},
		{"unknown line", script.Position{Line: 9, Character: 7}, lsp.Position{Line: 9, Character: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.client, utf16.Position(tt.script))
			assert.Equal(t, tt.script, utf16.ScriptPosition(tt.client))

			passthrough := lsp.Position{Line: tt.script.Line, Character: tt.script.Character}
			assert.Equal(t, passthrough, utf32.Position(tt.script))
			assert.Equal(t, tt.script, utf32.ScriptPosition(passthrough))
		})
	}

	t.Run("inside surrogate pair", func(t *testing.T) {
		got := utf16.ScriptPosition(lsp.Position{Line: 0, Character: 2})
		assert.Equal(t, script.Position{Line: 0, Character: 1}, got)
	})

	t.Run("range", func(t *testing.T) {
		r := script.Range{Start: script.Position{Line: 0, Character: 1}, End: script.Position{Line: 0, Character: 3}}
		assert.Equal(t, lsp.Range{
			Start: lsp.Position{Line: 0, Character: 1},
			End:   lsp.Position{Line: 0, Character: 4},
		}, utf16.Range(r))
	})
}

const emojiScript = "[Script Info]\nTitle: t\n\n[V4+ Styles]\n" +
	"Style: 😀Sign,Arial,20,&H00FFFFFF,&H000000FF\n\n[Events]\n" +
	"Dialogue: 0,0:00:01.00,0:00:02.00,😀Sign,,0,0,0,,😀}\n"

func TestStoreCountsUTF16ByDefault(t *testing.T) {
	s := newStore(t, Options{})
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, uri, 1, emojiScript))
	assert.Equal(t, lsp.EncodingUTF16, s.PositionEncoding())

	brace := func(t *testing.T) lsp.Range {
		t.Helper()
		diags, err := s.Diagnose(ctx, uri)
		require.NoError(t, err)
		for _, d := range diags {
			if d.Code == "unmatched_brace" {
				return d.Range
			}
		}
		t.Fatal("no unmatched_brace diagnostic")
		return lsp.Range{}
	}

	// Two emoji precede the stray brace, each two UTF-16 units wide.
	assert.Equal(t, lsp.Range{
		Start: lsp.Position{Line: 7, Character: 51},
		End:   lsp.Position{Line: 7, Character: 52},
	}, brace(t))

	// Column 39 is the "n" of the style name in UTF-16 units.
	locs, err := s.Definition(ctx, uri, lsp.Position{Line: 7, Character: 39})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, lsp.Position{Line: 4, Character: 44}, locs[0].Range.End)

	syms, err := s.Symbols(ctx, uri)
	require.NoError(t, err)
	require.Len(t, syms, 3)
	require.Len(t, syms[1].Children, 1)
	assert.Equal(t, 44, syms[1].Children[0].Range.End.Character)

	s.SetPositionEncoding(lsp.EncodingUTF32)
	assert.Equal(t, lsp.EncodingUTF32, s.PositionEncoding())
	assert.Equal(t, lsp.Range{
		Start: lsp.Position{Line: 7, Character: 49},
		End:   lsp.Position{Line: 7, Character: 50},
	}, brace(t))

	locs, err = s.Definition(ctx, uri, lsp.Position{Line: 7, Character: 38})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, lsp.Position{Line: 4, Character: 43}, locs[0].Range.End)
}
