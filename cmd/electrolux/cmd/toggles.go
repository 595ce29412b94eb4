package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/christiandt/electrolux-ac-cli/internal/service/remote"
)

// newOnOffCommand builds a verb that takes a single on|off argument
// and forwards the parsed flag to the given dispatcher operation.
func newOnOffCommand(name, short string,
	run func(ctx context.Context, opts *remote.Options, on bool) error,
) *cobra.Command {
	return &cobra.Command{
		Use:       name + " {on|off}",
		Short:     short,
		ValidArgs: []string{"on", "off"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := runContext()
			defer stop()

			opts, err := newOptions()
			if err != nil {
				return err
			}

			return run(ctx, opts, args[0] == "on")
		},
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(
		newOnOffCommand("power", "Switch the unit on or off.", remote.SetPower),
		newOnOffCommand("swing", "Enable or disable the vertical air flow swing.", remote.SetSwing),
		newOnOffCommand("led", "Switch the front panel display on or off.", remote.SetDisplay),
		newOnOffCommand("sleep", "Enable or disable the sleep curve.", remote.SetSleep),
		newOnOffCommand("selfclean", "Start or stop the self-cleaning cycle.", remote.SetSelfClean),
	)
}
