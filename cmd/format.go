package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/ass-lsp-go/script"
)

// ErrNotFormatted is returned by "format --check" when a file would change.
var ErrNotFormatted = errors.New("file is not formatted")

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	var opts FormatOptions

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Normalize a subtitle script",
		Long: `Format trims every line and puts one blank line before each section
header. Without a file, or with "-", the script is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			if opts.Write && path == "-" {
				return errors.New("--write needs a file argument")
			}

			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			formatted := script.Format(text)

			switch {
			case opts.Check:
				if formatted != text {
					return fmt.Errorf("%s: %w", path, ErrNotFormatted)
				}
				return nil
			case opts.Write:
				if formatted == text {
					return nil
				}
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				return nil
			default:
				_, err := io.WriteString(cmd.OutOrStdout(), formatted)
				return err
			}
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to the file")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Fail if the file is not already formatted")

	return cmd
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
