package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lex00/ass-lsp-go/script"
)

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "symbols [file]",
		Short: "Print the outline of a subtitle script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			symbols := script.ExtractSymbols(script.Parse(text))

			var out string
			switch strings.ToLower(format) {
			case "json":
				out, err = formatJSON(symbols)
			case "yaml", "yml":
				out, err = formatYAML(symbols)
			case "text", "":
				var sb strings.Builder
				writeOutline(&sb, symbols, 0)
				out = sb.String()
			default:
				err = fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "Output format: text, json, yaml")
	return cmd
}

func writeOutline(sb *strings.Builder, symbols []script.Symbol, depth int) {
	for _, s := range symbols {
		fmt.Fprintf(sb, "%s%s", strings.Repeat("  ", depth), s.Name)
		if s.Detail != "" {
			fmt.Fprintf(sb, " (%s)", s.Detail)
		}
		fmt.Fprintf(sb, " :%d\n", s.Range.Start.Line+1)
		writeOutline(sb, s.Children, depth+1)
	}
}
