package script

import "strings"

// Format normalizes script text. Every line is trimmed and every section
// header except the first is preceded by a blank line. Comment and blank
// lines are kept, as is a trailing newline. Format is idempotent.
func Format(text string) string {
	lines := SplitLines(text)
	out := make([]string, 0, len(lines)+8)

	seenHeader := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if _, ok := SectionName(line); ok {
			if seenHeader && len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			seenHeader = true
		}
		out = append(out, line)
	}

	formatted := strings.Join(out, "\n")
	if len(out) > 0 && strings.HasSuffix(text, "\n") {
		formatted += "\n"
	}
	return formatted
}
