package cmd

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/christiandt/electrolux-ac-cli/internal/format"
)

// execute runs the root command with the given arguments,
// discarding usage output. Tests in this package share the
// command tree and therefore run sequentially.
func execute(t *testing.T, args ...string) error {
	t.Helper()

	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// TestUnknownCommand ensures an unrecognized verb is rejected
// by the command tree before anything touches the network.
func TestUnknownCommand(t *testing.T) {
	err := execute(t, "blowup")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown command")
}

// TestModeRejectsUnknownValue ensures operating mode names are
// validated before dialing the device.
func TestModeRejectsUnknownValue(t *testing.T) {
	err := execute(t, "mode", "warp")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid argument")
}

// TestFanRejectsUnknownValue ensures fan speed names are validated
// before dialing the device.
func TestFanRejectsUnknownValue(t *testing.T) {
	err := execute(t, "fan", "hurricane")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid argument")
}

// TestPowerRequiresOnOff ensures toggle verbs only accept on or off.
func TestPowerRequiresOnOff(t *testing.T) {
	err := execute(t, "power", "maybe")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid argument")
}

// TestTemperatureRequiresNumber ensures a non-numeric temperature
// fails locally with a usage error.
func TestTemperatureRequiresNumber(t *testing.T) {
	err := execute(t, "temp", "warm")
	require.Error(t, err)
	require.Contains(t, err.Error(), "whole number")
}

// TestTimerArgumentCount ensures the timer verb insists on all
// three arguments.
func TestTimerArgumentCount(t *testing.T) {
	err := execute(t, "timer", "true", "2")
	require.Error(t, err)
	require.Contains(t, err.Error(), "accepts 3 arg(s)")
}

// TestTimerRequiresBoolean ensures the on-timer selector is parsed
// before dialing the device.
func TestTimerRequiresBoolean(t *testing.T) {
	err := execute(t, "timer", "sometimes", "2", "30")
	require.Error(t, err)
	require.Contains(t, err.Error(), "true or false")
}

// TestUnknownOutputFormat ensures a bad --output value is caught
// before any command logic runs.
func TestUnknownOutputFormat(t *testing.T) {
	defer func() { outputFormat = string(format.JSON) }()

	err := execute(t, "status", "--output", "xml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown output format")
}

// TestUnknownLogLevel ensures a bad --log-level value is caught
// before any command logic runs.
func TestUnknownLogLevel(t *testing.T) {
	defer func() { logLevel = "warn" }()

	err := execute(t, "status", "--log-level", "chatty")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown log level")
}
