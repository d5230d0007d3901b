package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lex00/ass-lsp-go/lint"
)

// NewRulesCommand lists the built-in lint rules.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List lint rules and the codes they emit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "RULE\tCODES\tDESCRIPTION")
			for _, r := range lint.DefaultRegistry().All() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID(), strings.Join(r.Codes(), ","), r.Description())
			}
			return tw.Flush()
		},
	}
}
