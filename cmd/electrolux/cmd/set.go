package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/christiandt/electrolux-ac-cli/internal/electrolux"
	"github.com/christiandt/electrolux-ac-cli/internal/service/remote"
)

//nolint:gochecknoglobals // Cobra commands are conventionally package-level variables.
var (
	// tempCmd sets the target temperature.
	tempCmd = &cobra.Command{
		Use:   "temp <degrees>",
		Short: "Set the target temperature in degrees Celsius.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			degrees, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("temperature must be a whole number: %w", err)
			}

			ctx, stop := runContext()
			defer stop()

			opts, err := newOptions()
			if err != nil {
				return err
			}

			return remote.SetTemperature(ctx, opts, degrees)
		},
	}

	// modeCmd selects the operating mode.
	modeCmd = &cobra.Command{
		Use:       "mode {auto|cool|heat|dry|fan|heat_8}",
		Short:     "Select the operating mode.",
		ValidArgs: []string{"auto", "cool", "heat", "dry", "fan", "heat_8"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			mode, err := electrolux.ParseMode(args[0])
			if err != nil {
				return err
			}

			ctx, stop := runContext()
			defer stop()

			opts, err := newOptions()
			if err != nil {
				return err
			}

			return remote.SetMode(ctx, opts, mode)
		},
	}

	// fanCmd selects the fan speed.
	fanCmd = &cobra.Command{
		Use:       "fan {auto|low|medium|high|turbo|quiet}",
		Short:     "Select the fan speed.",
		ValidArgs: []string{"auto", "low", "medium", "mid", "high", "turbo", "quiet"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			speed, err := electrolux.ParseFanSpeed(args[0])
			if err != nil {
				return err
			}

			ctx, stop := runContext()
			defer stop()

			opts, err := newOptions()
			if err != nil {
				return err
			}

			return remote.SetFanSpeed(ctx, opts, speed)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(tempCmd, modeCmd, fanCmd)
}
