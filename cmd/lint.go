package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/lex00/ass-lsp-go/lint"
)

// NewLintCommand creates a new lint command that uses the provided Linter.
func NewLintCommand(app *App, linter Linter) *cobra.Command {
	var (
		opts        LintOptions
		disable     []string
		minSeverity string
	)

	cmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Check subtitle scripts for issues",
		Long: `Lint parses each script and reports structural, timing, colour and
style-reference problems.

Issues are categorized by severity (error, warning, info, hint) and carry a
stable code that can be passed to --disable. The command fails when any
error is reported.

With --fix, repairable issues such as unpadded timestamps are rewritten in
place before the files are checked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.lintConfig()
			cfg.DisabledRules = append(cfg.DisabledRules, disable...)
			if minSeverity != "" {
				sev, err := lint.ParseSeverity(minSeverity)
				if err != nil {
					return err
				}
				cfg.MinSeverity = sev
			}

			if opts.Fix {
				fixer, ok := linter.(Fixer)
				if !ok {
					return fmt.Errorf("--fix is not supported by this linter")
				}
				fixes, err := fixer.Fix(cmd.Context(), args, cfg)
				if err != nil {
					return fmt.Errorf("fix failed: %w", err)
				}
				if n := lint.Fixed(fixes); n > 0 {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Fixed %s\n", english.Plural(n, "issue", ""))
				}
			}

			results, err := linter.Lint(cmd.Context(), args, cfg, opts)
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}

			out, err := FormatResults(results, opts.Format)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)

			var errorCount, total int
			for _, r := range results {
				total += len(r.Diagnostics)
				errorCount += lint.Counts(r.Diagnostics)[lint.SeverityError]
			}
			app.logger().Debug("lint finished",
				slog.Int("files", len(results)),
				slog.Int("diagnostics", total))

			if errorCount > 0 {
				return fmt.Errorf("lint found %d error(s)", errorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "o", "text", "Output format: text, json, yaml")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 4, "Files linted concurrently")
	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Rewrite repairable issues in place")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "Rule IDs or codes to skip")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "", "Least severe level to report: error, warning, info, hint")

	return cmd
}
