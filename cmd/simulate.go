package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"channelwatch/internal/app"
)

// newSimulateCmd creates the 'simulate' subcommand: evaluate a tick at an
// explicit time without waiting for the wall clock.
func newSimulateCmd() *cobra.Command {
	var (
		hour    int
		minute  int
		weekday string
		execute bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Report (or execute) what a tick at a given time would do",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseWeekday(weekday)
			if err != nil {
				return err
			}

			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // best-effort flush

			application, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("build application: %w", err)
			}
			defer application.Close()

			result, err := application.Scheduler.SimulateTick(cmd.Context(), hour, minute, day, !execute)
			if err != nil {
				return fmt.Errorf("simulate tick: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().IntVar(&hour, "hour", 9, "simulated hour (0-23)")
	cmd.Flags().IntVar(&minute, "minute", 0, "simulated minute (0-59)")
	cmd.Flags().StringVar(&weekday, "weekday", "Monday", "simulated weekday name")
	cmd.Flags().BoolVar(&execute, "execute", false, "actually process due sources instead of reporting")
	return cmd
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
