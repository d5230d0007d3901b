package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lex00/ass-lsp-go/script"
)

// MaxLineLength is the rune count above which a line is flagged.
const MaxLineLength = 500

// LineFindingKind classifies a raw-line finding.
type LineFindingKind int

const (
	// SuspiciousEscape is a doubled backslash on a line with no \N or \n.
	SuspiciousEscape LineFindingKind = iota
	// LongLine exceeds MaxLineLength.
	LongLine
)

// LineFinding is a problem spotted on a raw source line.
type LineFinding struct {
	Kind    LineFindingKind
	Message string
	Range   script.Range
}

// CheckLines scans raw lines for problems the structural parser does not
// see. Blank and ';' comment lines are skipped.
func CheckLines(lines []string) []LineFinding {
	var findings []LineFinding
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		width := utf8.RuneCountInString(raw)

		if strings.Contains(line, `\\`) && !strings.Contains(line, `\N`) && !strings.Contains(line, `\n`) {
			findings = append(findings, LineFinding{
				Kind:    SuspiciousEscape,
				Message: fmt.Sprintf("Line %d: Potentially invalid escape sequence", i+1),
				Range:   script.LineRange(i, width),
			})
		}
		if n := utf8.RuneCountInString(line); n > MaxLineLength {
			findings = append(findings, LineFinding{
				Kind:    LongLine,
				Message: fmt.Sprintf("Line %d: Very long line (%d characters) may cause rendering issues", i+1, n),
				Range:   script.LineRange(i, width),
			})
		}
	}
	return findings
}
