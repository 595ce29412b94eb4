package cmd

import (
	"github.com/spf13/cobra"

	"github.com/christiandt/electrolux-ac-cli/internal/service/remote"
)

// statusCmd reads and prints the current state of the device.
//
//nolint:gochecknoglobals // Cobra commands are conventionally package-level variables.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read the current state of the air conditioner.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := runContext()
		defer stop()

		opts, err := newOptions()
		if err != nil {
			return err
		}

		return remote.Status(ctx, opts)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(statusCmd)
}
