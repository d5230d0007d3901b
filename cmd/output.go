package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
	"gopkg.in/yaml.v3"

	"github.com/lex00/ass-lsp-go/lint"
)

// FormatResults renders lint results. Supported formats: text, json, yaml.
func FormatResults(results []lint.FileResult, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return formatJSON(results)
	case "yaml", "yml":
		return formatYAML(results)
	case "text", "":
		return formatText(results), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

func formatJSON(v any) (string, error) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(bytes) + "\n", nil
}

func formatYAML(v any) (string, error) {
	bytes, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(bytes), nil
}

var plurals = map[lint.Severity]string{
	lint.SeverityError:   "errors",
	lint.SeverityWarning: "warnings",
	lint.SeverityInfo:    "info",
	lint.SeverityHint:    "hints",
}

// formatText prints one line per diagnostic with 1-based positions, then a
// summary.
func formatText(results []lint.FileResult) string {
	var sb strings.Builder
	counts := make(map[lint.Severity]int)

	for _, r := range results {
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&sb, "%s:%d:%d: %s: %s (%s)\n",
				r.Path, d.Range.Start.Line+1, d.Range.Start.Character+1,
				d.Severity, d.Message, d.Code)
			if d.Suggestion != "" {
				fmt.Fprintf(&sb, "  suggestion: %s\n", d.Suggestion)
			}
			counts[d.Severity]++
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		fmt.Fprintf(&sb, "No issues found in %s\n", english.Plural(len(results), "file", "files"))
		return sb.String()
	}

	var parts []string
	for _, sev := range []lint.Severity{lint.SeverityError, lint.SeverityWarning, lint.SeverityInfo, lint.SeverityHint} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, english.Plural(n, sev.String(), plurals[sev]))
		}
	}
	fmt.Fprintf(&sb, "\n%s in %s\n", english.OxfordWordSeries(parts, "and"), english.Plural(len(results), "file", "files"))
	return sb.String()
}
