package lint

import (
	"fmt"
	"os"
	"strings"

	"github.com/lex00/ass-lsp-go/script"
)

// FixResult is the outcome of one attempted fix.
type FixResult struct {
	Diagnostic Diagnostic
	Fixed      bool
	// Line is the corrected text of Diagnostic.Range.Start.Line.
	Line  string
	Error error
}

// Fix runs rules over doc and repairs every fixable diagnostic that passes
// cfg. The document is not modified; use Apply to build the new text.
func Fix(doc *script.Document, rules []Rule, cfg *Config) []FixResult {
	var results []FixResult

	for _, rule := range rules {
		if cfg != nil && cfg.IsRuleDisabled(rule.ID()) {
			continue
		}

		fixable, canFix := rule.(FixableRule)

		for _, d := range rule.Check(doc) {
			if d.Rule == "" {
				d.Rule = rule.ID()
			}
			if cfg != nil && !cfg.ShouldReport(d) {
				continue
			}

			result := FixResult{Diagnostic: d}
			if canFix && d.Fixable {
				line, err := fixable.Fix(doc, d)
				if err != nil {
					result.Error = err
				} else {
					result.Fixed = true
					result.Line = line
				}
			}
			results = append(results, result)
		}
	}

	return results
}

// Apply replaces the lines of text named by fixed results. A trailing "\r"
// on a replaced line is kept.
func Apply(text string, results []FixResult) string {
	lines := strings.Split(text, "\n")
	for _, r := range results {
		if !r.Fixed {
			continue
		}
		n := r.Diagnostic.Range.Start.Line
		if n < 0 || n >= len(lines) {
			continue
		}
		line := r.Line
		if strings.HasSuffix(lines[n], "\r") {
			line += "\r"
		}
		lines[n] = line
	}
	return strings.Join(lines, "\n")
}

// Fixed counts the results that were repaired.
func Fixed(results []FixResult) int {
	n := 0
	for _, r := range results {
		if r.Fixed {
			n++
		}
	}
	return n
}

// FixFile fixes a script in place. The file is only rewritten when a fix
// changed its text.
func FixFile(path string, rules []Rule, cfg *Config) ([]FixResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	results := Fix(script.Parse(text), rules, cfg)
	for i := range results {
		results[i].Diagnostic.File = path
	}

	if fixed := Apply(text, results); fixed != text {
		if err := os.WriteFile(path, []byte(fixed), info.Mode().Perm()); err != nil {
			return results, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return results, nil
}
