package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"channelwatch/internal/app"
)

// newRunCmd creates the 'run' subcommand: one tick for the current hour.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process every source due at the current hour, then exit",
		RunE:  runRunCommand,
	}
}

func runRunCommand(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	defer application.Close()

	result, err := application.Scheduler.RunAllDueNow(ctx)
	if err != nil {
		return fmt.Errorf("run due sources: %w", err)
	}
	logger.Info("run finished",
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded))
	return nil
}
