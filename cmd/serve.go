package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lex00/ass-lsp-go/logging"
	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/metrics"
	"github.com/lex00/ass-lsp-go/session"
	"github.com/lex00/ass-lsp-go/version"
)

// NewServeCommand creates the serve command. A nil srv builds the standard
// server from the App settings.
func NewServeCommand(app *App, srv Server) *cobra.Command {
	var metricsDB string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdio",
		Long: `Serve speaks the Language Server Protocol over stdin and stdout. Logs go
to stderr and, with --log-file, to a rotating file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			server := srv
			if server == nil {
				if metricsDB == "" && app.Config != nil {
					metricsDB = app.Config.Metrics.Database
				}
				built, cleanup, err := app.newServer(ctx, metricsDB)
				if err != nil {
					return err
				}
				defer cleanup()
				server = built
			}

			err := server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&metricsDB, "metrics-db", "", "SQLite file for per-document metrics")
	return cmd
}

// newServer wires a session store into an LSP server.
func (a *App) newServer(ctx context.Context, metricsDB string) (*lsp.Server, func(), error) {
	log := a.logger()
	id := uuid.NewString()
	cleanup := func() {}

	var recorder metrics.Recorder
	if metricsDB != "" {
		rec, err := metrics.OpenSQLite(ctx, metricsDB, id)
		if err != nil {
			return nil, nil, err
		}
		log.Info("recording metrics", slog.String("database", metricsDB))
		recorder = rec
		cleanup = func() {
			if err := rec.Close(); err != nil {
				log.Warn("closing metrics database", slog.Any("error", err))
			}
		}
	}

	store := session.New(session.Options{
		ID:       id,
		Lint:     a.lintConfig(),
		Recorder: recorder,
		Logger:   logging.WithComponent("session"),
	})

	server := lsp.NewServer(lsp.Config{
		Name:        "ass-lsp",
		Version:     version.Version(),
		Documents:   store,
		Linter:      store,
		Completer:   store,
		HoverDocs:   store,
		Definitions: store,
		Formatter:   store,
		Outline:     store,
		Logger:      logging.WithComponent("lsp"),
	})
	return server, cleanup, nil
}
