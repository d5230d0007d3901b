package cursor

import (
	"strings"
	"unicode"
)

// Token is a word under the cursor. Start and End are rune columns with End
// exclusive.
type Token struct {
	Text  string
	Start int
	End   int
}

func isBoundary(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(",:{}", r)
}

// TokenAt returns the maximal run of non-boundary runes that contains col or
// ends at it. Whitespace, ',', ':', '{' and '}' separate tokens. The result
// is empty when col sits between two boundaries.
func TokenAt(line string, col int) Token {
	runes := []rune(line)
	col = min(max(col, 0), len(runes))

	start := col
	for start > 0 && !isBoundary(runes[start-1]) {
		start--
	}
	end := col
	for end < len(runes) && !isBoundary(runes[end]) {
		end++
	}
	return Token{Text: string(runes[start:end]), Start: start, End: end}
}
