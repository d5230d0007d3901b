// ass-lsp lints, formats and inspects ASS subtitle scripts and serves the
// same checks to editors as a language server.
//
// Usage:
//
//	ass-lsp lint episode01.ass episode02.ass
//	ass-lsp format --write episode01.ass
//	ass-lsp serve
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lex00/ass-lsp-go/cmd"
	"github.com/lex00/ass-lsp-go/logging"
	"github.com/lex00/ass-lsp-go/lsp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.NewApp("ass-lsp").ExecuteContext(ctx)
	stop()
	_ = logging.Close()
	if err != nil {
		if !errors.Is(err, lsp.ErrExitWithoutShutdown) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
