package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/boxoffice/internal/app"
	"github.com/mmcdole/boxoffice/internal/config"
	"github.com/mmcdole/boxoffice/internal/domain"
	"github.com/mmcdole/boxoffice/internal/log"
	"github.com/mmcdole/boxoffice/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AppFactory builds the application for a command
type AppFactory func(cfg *config.Config, logger *slog.Logger, opts ...app.Option) (*app.App, error)

// RootOptions holds state shared by every command
type RootOptions struct {
	ConfigPath string
	NewApp     AppFactory

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &RootOptions{NewApp: app.New})
}

func newRootCommand(version string, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "boxoffice",
		Short:         "boxoffice - a terminal client for the TVmaze catalog",
		Long:          "Search shows and people, read show details, and keep a list of starred shows.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, version)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ~/.config/boxoffice/config.yaml)")

	cmd.AddCommand(
		newSearchCommand(opts),
		newLastQueryCommand(opts),
		newShowCommand(opts),
		newStarCommand(opts),
		newUnstarCommand(opts),
		newStarredCommand(opts),
		newConfigCommand(opts),
	)

	return cmd
}

// configOptional marks commands that run without an existing config file
const configOptional = "config-optional"

func (o *RootOptions) setup(cmd *cobra.Command, version string) error {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if errors.Is(err, fs.ErrNotExist) && cmd.Annotations[configOptional] == "true" {
		cfg, err = config.DefaultConfig(), nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	o.cfg = cfg

	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, closer = log.NullLogger(), io.NopCloser(nil)
	}
	slog.SetDefault(logger)
	o.logger = logger
	o.logCloser = closer

	logger.Info("starting boxoffice", "version", version)
	return nil
}

func (o *RootOptions) teardown() error {
	if o.logCloser == nil {
		return nil
	}
	err := o.logCloser.Close()
	o.logCloser = nil
	return err
}

// openCommandApp opens the app for a one-shot command. Commands started
// from the same shell share a session.
func (o *RootOptions) openCommandApp() (*app.App, error) {
	return o.NewApp(o.cfg, o.logger, app.WithSession(app.CommandSessionID(), false))
}

// runTUI starts the TUI application
func runTUI(opts *RootOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("not a terminal; run a subcommand instead (see --help)")
	}

	kind, err := domain.ParseSearchKind(opts.cfg.UI.DefaultSearch)
	if err != nil {
		return err
	}

	// Each TUI run is its own session, dropped on exit
	a, err := opts.NewApp(opts.cfg, opts.logger, app.WithSession(app.InteractiveSessionID(), true))
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			opts.logger.Error("failed to close store", "error", err)
		}
	}()

	model := tui.NewModel(a.Catalog, kind)
	p := tea.NewProgram(model, tea.WithAltScreen())

	opts.logger.Info("starting TUI")
	final, err := p.Run()
	// The detail fetcher is replaced as views change; close the last one
	if m, ok := final.(tui.Model); ok {
		model = m
	}
	model.Close()
	if err != nil {
		opts.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	opts.logger.Info("shutting down")
	return nil
}
