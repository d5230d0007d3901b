package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lex00/ass-lsp-go/config"
	"github.com/lex00/ass-lsp-go/lint"
	"github.com/lex00/ass-lsp-go/logging"
	"github.com/lex00/ass-lsp-go/version"
)

// App carries the settings shared by every command.
type App struct {
	Config     *config.Config
	ConfigPath string
	Lint       *lint.Config
	Log        *slog.Logger
}

// NewRootCommand creates the root command without subcommands.
func NewRootCommand(name, description string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: description,
		Long: description + `

This CLI lints, formats and inspects Advanced SubStation Alpha (.ass/.ssa)
subtitle scripts, and serves the same checks to editors over the Language
Server Protocol.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags available to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Path to "+config.Filename+" (default: search upwards)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "Log format: console or json")
	cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this rotating file")

	return cmd
}

// NewApp builds the full ass-lsp command tree.
func NewApp(name string) *cobra.Command {
	app := &App{}
	root := NewRootCommand(name, "Language tooling for ASS subtitle scripts")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.load(cmd)
	}

	root.AddCommand(
		NewLintCommand(app, FileLinter{}),
		NewFormatCommand(),
		NewSymbolsCommand(),
		NewContextCommand(),
		NewRulesCommand(),
		NewServeCommand(app, nil),
	)
	return root
}

// load resolves configuration: file, then environment, then flags.
func (a *App) load(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	var err error
	if path != "" {
		a.Config, err = config.LoadFile(path)
		a.ConfigPath = path
	} else {
		a.Config, a.ConfigPath, err = config.Load()
	}
	if err != nil {
		return err
	}
	a.Config.ApplyEnv()

	opts := a.Config.LogOptions()
	for flag, dst := range map[string]*string{"log-level": &opts.Level, "log-format": &opts.Format, "log-file": &opts.File} {
		if v, _ := flags.GetString(flag); v != "" {
			*dst = v
		}
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		opts.Level = "debug"
	}
	if opts.Level == "" {
		opts.Level = "warn"
	}
	opts.Writer = cmd.ErrOrStderr()
	a.Log = logging.Init(opts)

	a.Lint, err = a.Config.LintOptions()
	if err != nil {
		return err
	}
	if unknown := a.Config.UnknownRules(lint.DefaultRegistry()); len(unknown) > 0 {
		a.Log.Warn("unknown rules in lint.disable", slog.String("rules", strings.Join(unknown, ",")))
	}
	if a.ConfigPath != "" {
		a.Log.Debug("loaded configuration", slog.String("path", a.ConfigPath))
	}
	return nil
}

// lintConfig returns the loaded lint settings, or everything-on when the
// command runs without NewApp.
func (a *App) lintConfig() *lint.Config {
	if a == nil || a.Lint == nil {
		return lint.DefaultConfig()
	}
	cfg := *a.Lint
	cfg.DisabledRules = append([]string(nil), a.Lint.DisabledRules...)
	return &cfg
}

func (a *App) logger() *slog.Logger {
	if a == nil || a.Log == nil {
		return logging.L()
	}
	return a.Log
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
