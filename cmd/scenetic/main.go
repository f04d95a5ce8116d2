package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scenetic/cli/internal/auth"
	"github.com/scenetic/cli/internal/cmd"
	"github.com/scenetic/cli/internal/ui"
)

var (
	verbose bool
	logger  *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scenetic",
		Short: "Scenetic - scene tagging for the live capture rig",
		Long: `Scenetic CLI: describe a scene, start a scan, watch the monitors,
and keep a log of the best matches.

Run without arguments to start the interactive interface.`,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			// The TUI owns the terminal and logs to a file instead.
			if c == c.Root() {
				return nil
			}
			var err error
			logger, err = cmd.NewLogger(verbose)
			if err != nil {
				return err
			}
			cmd.SetLogger(logger)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return runTUI(c.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.RegisterCmd())
	root.AddCommand(cmd.LogoutCmd())
	root.AddCommand(cmd.TagsCmd())
	root.AddCommand(cmd.ScanCmd())
	root.AddCommand(cmd.KeywordsCmd())
	root.AddCommand(cmd.LogsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(ctx context.Context) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("the interactive interface needs a terminal, see 'scenetic --help'")
	}

	env, err := cmd.LoadEnv()
	if err != nil {
		return err
	}
	fileLogger, err := cmd.NewFileLogger(env.Config.LogPath(), env.Config.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = fileLogger.Sync() }()
	cmd.SetLogger(fileLogger)
	// Rebuild clients so they log through the file logger.
	env = cmd.NewEnv(env.Config)

	stores, err := env.OpenStores(ctx)
	if err != nil {
		return err
	}
	defer stores.Close()

	var provider auth.Provider
	if env.RequireAccounts() == nil {
		provider = env.Identity
	}

	app := ui.NewApp(ui.Deps{
		Context:      ctx,
		Client:       env.Client,
		Auth:         provider,
		Docs:         stores.Docs,
		Objects:      stores.Objects,
		Config:       env.Config,
		Logger:       fileLogger,
		FetchOptions: env.FetchOptions(),
	})

	final, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if m, ok := final.(ui.App); ok {
		m.Close()
	} else {
		app.Close()
	}
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
