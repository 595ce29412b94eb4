package cmd

import (
	"github.com/spf13/cobra"

	"github.com/christiandt/electrolux-ac-cli/internal/service/remote"
)

//nolint:gochecknoglobals // Cobra CLI flags are conventionally package-level variables.
var (
	// discoverSave tells whether the first discovered address
	// should be written to the settings file.
	discoverSave bool

	// discoverCmd sweeps the local network for devices.
	discoverCmd = &cobra.Command{
		Use:   "discover",
		Short: "Find compatible devices on the local network.",
		Long: `Broadcast a discovery probe and list every Broadlink-protocol device that
answers within the timeout. With --save the address of the first device found
is written to the settings file and used by subsequent commands.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := runContext()
			defer stop()

			opts, err := newOptions()
			if err != nil {
				return err
			}

			return remote.Discover(ctx, opts, discoverSave)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	discoverCmd.Flags().BoolVar(&discoverSave,
		"save", false,
		"write the first discovered address to the settings file")

	rootCmd.AddCommand(discoverCmd)
}
