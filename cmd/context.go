package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lex00/ass-lsp-go/cursor"
	"github.com/lex00/ass-lsp-go/script"
)

// NewContextCommand creates the context command.
func NewContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "context <file> <line> <column>",
		Short: "Show what the editor sees at a cursor position",
		Long: `Context classifies the cursor position the way completion and hover do
and prints the context, the enclosing section and the token under the cursor.
Line and column are 1-based.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil || line < 1 {
				return usageError("line must be a positive integer, got %q", args[1])
			}
			col, err := strconv.Atoi(args[2])
			if err != nil || col < 1 {
				return usageError("column must be a positive integer, got %q", args[2])
			}

			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			cur := cursor.At(text, script.Position{Line: line - 1, Character: col - 1})

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "context: %s\n", cur.Context)
			if cur.Section != "" {
				_, _ = fmt.Fprintf(w, "section: %s\n", cur.Section)
			}
			if cur.Token.Text != "" {
				_, _ = fmt.Fprintf(w, "token:   %s (columns %d-%d)\n", cur.Token.Text, cur.Token.Start+1, cur.Token.End)
			}
			return nil
		},
	}
}
