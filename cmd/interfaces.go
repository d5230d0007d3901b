// Package cmd builds the ass-lsp command tree.
//
// Commands share one App, populated from .ass-lsp.yaml, ASSLSP_*
// environment variables and persistent flags before any command runs.
package cmd

import (
	"context"
	"io"

	"github.com/lex00/ass-lsp-go/lint"
)

// LintOptions contains options for the lint command.
type LintOptions struct {
	Format  string
	Workers int
	Fix     bool
}

// FormatOptions contains options for the format command.
type FormatOptions struct {
	Write bool
	Check bool
}

// Linter checks subtitle files for issues.
type Linter interface {
	Lint(ctx context.Context, paths []string, cfg *lint.Config, opts LintOptions) ([]lint.FileResult, error)
}

// Fixer repairs fixable issues in place.
type Fixer interface {
	Fix(ctx context.Context, paths []string, cfg *lint.Config) ([]lint.FixResult, error)
}

// Server runs a language server over a byte stream.
type Server interface {
	Serve(ctx context.Context, r io.Reader, w io.Writer) error
}

// FileLinter lints files from disk.
type FileLinter struct{}

// Lint implements Linter with lint.LintFiles.
func (FileLinter) Lint(ctx context.Context, paths []string, cfg *lint.Config, opts LintOptions) ([]lint.FileResult, error) {
	return lint.LintFiles(ctx, paths, cfg, opts.Workers)
}

// Fix implements Fixer with lint.FixFile and the default rules.
func (FileLinter) Fix(ctx context.Context, paths []string, cfg *lint.Config) ([]lint.FixResult, error) {
	var all []lint.FixResult
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		results, err := lint.FixFile(path, lint.DefaultRules(), cfg)
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}
