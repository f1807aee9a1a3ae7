package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"sicksense-cli/mockapi"
)

func newMockAPICmd(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Run an in-memory SickSense backend for local development",
		Long: `Serves the SickSense REST API under /api with fixture data.
Fixture accounts student@school.edu and admin@school.edu accept any password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = rt.cfg.MockAddr
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mockapi.NewServer(addr, mockapi.Options{
				Secret: rt.cfg.MockSecret,
				Clock:  rt.clock,
				Logger: logger,
			})
			if err := server.Run(ctx); err != nil {
				return err
			}
			logger.Info("mock api stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $SICKSENSE_MOCK_ADDR or :5000)")
	return cmd
}
