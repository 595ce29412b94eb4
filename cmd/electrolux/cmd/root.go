package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/christiandt/electrolux-ac-cli/internal/broadlink"
	"github.com/christiandt/electrolux-ac-cli/internal/config"
	"github.com/christiandt/electrolux-ac-cli/internal/format"
	"github.com/christiandt/electrolux-ac-cli/internal/logger"
	"github.com/christiandt/electrolux-ac-cli/internal/service/remote"
	"github.com/christiandt/electrolux-ac-cli/internal/version"
)

//nolint:gochecknoglobals // Cobra CLI flags are conventionally package-level variables.
var (
	// configPath stores the settings file location,
	// empty means the default file in the user's home directory.
	configPath string
	// deviceHost overrides the device address from the settings file.
	deviceHost string
	// timeout bounds every exchange with the device.
	timeout time.Duration
	// outputFormat selects how device replies are rendered.
	outputFormat string
	// logLevel controls diagnostic verbosity on stderr.
	logLevel string

	// rootCmd represents the base command of the air conditioner CLI.
	rootCmd = &cobra.Command{
		Use:   "electrolux",
		Short: "Control an Electrolux air conditioner over the local network.",
		Long: `Command line remote control for Electrolux air conditioners that speak the
Broadlink protocol (also sold under the Kelvinator and other OEM brands).

Each invocation performs a single exchange with the device: the command dials
the unit, sends one instruction, prints the device's reply to standard output
and exits. The device address is kept in a small settings file
(~/` + config.DefaultConfigFilename + ` by default) which is created on first
use and can be filled in automatically with the discover command.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			_, err := format.Parse(outputFormat)

			return err
		},
	}
)

// newOptions assembles dispatcher options from the persistent flags.
func newOptions() (*remote.Options, error) {
	outFormat, err := format.Parse(outputFormat)
	if err != nil {
		return nil, err
	}

	return &remote.Options{
		ConfigPath: configPath,
		Host:       deviceHost,
		Timeout:    timeout,
		Format:     outFormat,
	}, nil
}

// runContext returns a context cancelled on SIGTERM or SIGINT.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// Execute runs the root command and terminates the process
// with a non-zero exit code on failure.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath,
		"config", "c", "",
		"path to the settings file (default ~/"+config.DefaultConfigFilename+")")
	rootCmd.PersistentFlags().StringVarP(&deviceHost,
		"ip", "i", "",
		"device address, overrides the settings file")
	rootCmd.PersistentFlags().DurationVarP(&timeout,
		"timeout", "t", broadlink.DefaultTimeout,
		"how long to wait for a device reply")
	rootCmd.PersistentFlags().StringVarP(&outputFormat,
		"output", "o", string(format.JSON),
		"output format: json, yaml or text")
	rootCmd.PersistentFlags().StringVar(&logLevel,
		"log-level", "warn",
		"log level: debug, info, warn, error, fatal")
}
