package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ngmaloney/port-congestion/internal/logging"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// Run executes the command line and returns the process exit code
func Run() ExitCode {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("command failed")
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the port-congestion command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "port-congestion",
		Short:         "Per-vessel, per-day port congestion from voyage events.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: $PORTCONGESTION_CONFIG or ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		NewReportCmd().Command(),
		NewDashboardCmd().Command(),
		NewGeoCmd().Command(),
		NewWatchlistCmd().Command(),
	)
	rootCmd.SetErr(os.Stderr)

	return rootCmd
}
