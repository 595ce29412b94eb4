package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/christiandt/electrolux-ac-cli/internal/service/remote"
)

//nolint:gochecknoglobals // Cobra commands are conventionally package-level variables.
var (
	// timerCmd programs the delay timer.
	timerCmd = &cobra.Command{
		Use:   "timer <on-timer> <hours> <minutes>",
		Short: "Program the switch-on or switch-off delay timer.",
		Long: `Program the delay timer. The first argument selects which timer to arm:
true arms the switch-on timer, false the switch-off timer. Hours and minutes
set the delay and are clamped to the 00:00..23:59 range.`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			on, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("on-timer must be true or false: %w", err)
			}

			hours, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("hours must be a whole number: %w", err)
			}

			minutes, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("minutes must be a whole number: %w", err)
			}

			ctx, stop := runContext()
			defer stop()

			opts, err := newOptions()
			if err != nil {
				return err
			}

			return remote.SetTimer(ctx, opts, on, hours, minutes)
		},
	}

	// clearTimerCmd disarms a previously programmed timer.
	clearTimerCmd = &cobra.Command{
		Use:   "cleartimer <on-timer>",
		Short: "Clear the switch-on or switch-off delay timer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			on, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("on-timer must be true or false: %w", err)
			}

			ctx, stop := runContext()
			defer stop()

			opts, err := newOptions()
			if err != nil {
				return err
			}

			return remote.ClearTimer(ctx, opts, on)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(timerCmd, clearTimerCmd)
}
