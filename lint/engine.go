package lint

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/lex00/ass-lsp-go/script"
)

// Validate runs the default rules over doc and returns the diagnostics that
// pass cfg, in rule order. A nil cfg reports everything.
func Validate(doc *script.Document, cfg *Config) []Diagnostic {
	return Run(doc, DefaultRules(), cfg)
}

// ValidateText parses text and validates it.
func ValidateText(text string, cfg *Config) []Diagnostic {
	return Validate(script.Parse(text), cfg)
}

// Run runs the given rules in order. Every rule sees the whole document;
// no rule suppresses another.
func Run(doc *script.Document, rules []Rule, cfg *Config) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range rules {
		if cfg != nil && cfg.IsRuleDisabled(rule.ID()) {
			continue
		}
		for _, d := range rule.Check(doc) {
			if d.Rule == "" {
				d.Rule = rule.ID()
			}

			// Filter by config
			if cfg != nil && !cfg.ShouldReport(d) {
				continue
			}

			diags = append(diags, d)
		}
	}
	return diags
}

// LintFile lints a single script file.
func LintFile(path string, cfg *Config) ([]Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	diags := ValidateText(string(data), cfg)
	for i := range diags {
		diags[i].File = path
	}
	return diags, nil
}

// FileResult holds the diagnostics for one file of a LintFiles call.
type FileResult struct {
	Path        string       `json:"path" yaml:"path"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// LintFiles lints paths concurrently with at most workers files in flight
// (workers <= 0 means one per file). Results are in input order. The first
// read error cancels the remaining work.
func LintFiles(ctx context.Context, paths []string, cfg *Config, workers int) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			diags, err := LintFile(path, cfg)
			if err != nil {
				return err
			}
			results[i] = FileResult{Path: path, Diagnostics: diags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
