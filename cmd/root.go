// Package cmd wires the sicksense command line: the interactive report flow
// plus account, catalog and admin subcommands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"sicksense-cli/config"
	"sicksense-cli/service"
	"sicksense-cli/session"
	"sicksense-cli/store"
	"sicksense-cli/tui"
)

const appName = "sicksense-cli"

// runtime holds what every subcommand shares once the root pre-run has
// loaded the configuration.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	clock    clockwork.Clock
	sessions *session.Manager
	client   *service.Client
	logFile  *os.File
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.clock = clockwork.NewRealClock()

	rt.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Debug {
		f, err := tea.LogToFile(cfg.LogFile, "sicksense")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		rt.logFile = f
		rt.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	dir, err := store.ConfigDir()
	if err != nil {
		return err
	}
	rt.sessions = session.NewManager(dir, rt.clock)
	rt.client = service.NewClient(
		&http.Client{Timeout: cfg.HTTPTimeout},
		service.WithBaseURL(cfg.APIURL),
		service.WithTokenSource(rt.sessions),
		service.WithUserAgent(appName+"/"+cmd.Root().Version),
	)
	rt.logger.Debug("configured", "api", cfg.APIURL, "timeout", cfg.HTTPTimeout)
	return nil
}

func (rt *runtime) teardown() {
	if rt.logFile != nil {
		_ = rt.logFile.Close()
	}
}

// requireSession loads the stored session for commands that call the API.
func (rt *runtime) requireSession() (session.Session, error) {
	s, err := rt.sessions.Open()
	if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrExpired) {
		return session.Session{}, fmt.Errorf("%w: run `sicksense login` first", err)
	}
	return s, err
}

func newRootCmd(rt *runtime, version, commit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "sicksense",
		Short:   "SickSense CLI",
		Long:    `Report where you sat and how you feel, right from the terminal.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rt)
		},
		SilenceUsage: true,
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Submit a sickness report (default)",
		Long:  `Pick your building, room and seat, then describe your symptoms.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rt)
		},
	}

	rootCmd.AddCommand(
		reportCmd,
		newLoginCmd(rt),
		newSignupCmd(rt),
		newLogoutCmd(rt),
		newLocationsCmd(rt),
		newResolveCmd(rt),
		newHistoryCmd(rt),
		newDashboardCmd(rt),
		newActionCmd(rt),
		newReviewCmd(rt),
		newMockAPICmd(rt),
		newVersionCmd(version, commit),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version, commit string) {
	rt := &runtime{}
	if err := execute(rt, newRootCmd(rt, version, commit)); err != nil {
		os.Exit(1)
	}
}

// execute releases the runtime whether or not the command failed.
func execute(rt *runtime, root *cobra.Command) error {
	defer rt.teardown()
	return root.Execute()
}

func runReport(rt *runtime) error {
	if _, err := rt.requireSession(); err != nil {
		return err
	}
	app := tui.New(tui.Deps{
		Client:   rt.client,
		Sessions: rt.sessions,
		Config:   rt.cfg,
		Logger:   rt.logger,
		Clock:    rt.clock,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func newVersionCmd(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of SickSense CLI",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, version)
			if commit != "none" && commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			fmt.Fprintln(out)
		},
	}
}
