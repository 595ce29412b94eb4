package remote

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/christiandt/electrolux-ac-cli/internal/broadlink"
	"github.com/christiandt/electrolux-ac-cli/internal/config"
	"github.com/christiandt/electrolux-ac-cli/internal/electrolux"
	"github.com/christiandt/electrolux-ac-cli/internal/format"
	"github.com/christiandt/electrolux-ac-cli/internal/logger"
)

// Device lists the air conditioner operations the dispatcher drives.
// Satisfied by *electrolux.Client.
type Device interface {
	Status(ctx context.Context) ([]byte, error)
	SetPower(ctx context.Context, on bool) ([]byte, error)
	SetTemperature(ctx context.Context, degrees int) ([]byte, error)
	SetMode(ctx context.Context, mode electrolux.Mode) ([]byte, error)
	SetFanSpeed(ctx context.Context, speed electrolux.FanSpeed) ([]byte, error)
	SetSwing(ctx context.Context, on bool) ([]byte, error)
	SetDisplay(ctx context.Context, on bool) ([]byte, error)
	SetSleep(ctx context.Context, on bool) ([]byte, error)
	SetSelfClean(ctx context.Context, on bool) ([]byte, error)
	SetTimer(ctx context.Context, on bool, hours, minutes int) ([]byte, error)
	ClearTimer(ctx context.Context, on bool) ([]byte, error)
	Close() error
}

// DialFunc opens a device session. Tests swap it for a fake.
type DialFunc func(ctx context.Context, host string, timeout time.Duration) (Device, error)

// ScanFunc sweeps the network for devices. Tests swap it for a fake.
type ScanFunc func(ctx context.Context, opts ...broadlink.DiscoverOption) ([]*broadlink.DeviceInfo, error)

// Options configures one command dispatch.
type Options struct {
	// ConfigPath is the settings file path; empty means the default location.
	ConfigPath string

	// Host overrides the configured device address when specified.
	Host string

	// Timeout bounds each device exchange.
	Timeout time.Duration

	// Format selects the output rendering.
	Format format.Format

	// Out receives command results; defaults to standard output.
	Out io.Writer

	// Dial opens the device session; defaults to the electrolux client.
	Dial DialFunc

	// Scan sweeps for devices; defaults to broadlink discovery.
	Scan ScanFunc
}

// Status fetches and prints the device state.
func Status(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "status")

	return dispatch(ctx, opts, format.Status, func(ctx context.Context, device Device) ([]byte, error) {
		return device.Status(ctx)
	})
}

// SetPower switches the unit on or off.
func SetPower(ctx context.Context, opts *Options, on bool) error {
	ctx = logger.WithName(ctx, "power")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetPower(ctx, on)
	})
}

// SetTemperature sets the target temperature in degrees Celsius.
func SetTemperature(ctx context.Context, opts *Options, degrees int) error {
	ctx = logger.WithName(ctx, "temp")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetTemperature(ctx, degrees)
	})
}

// SetMode selects the operating mode.
func SetMode(ctx context.Context, opts *Options, mode electrolux.Mode) error {
	ctx = logger.WithName(ctx, "mode")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetMode(ctx, mode)
	})
}

// SetFanSpeed selects the fan level.
func SetFanSpeed(ctx context.Context, opts *Options, speed electrolux.FanSpeed) error {
	ctx = logger.WithName(ctx, "fan")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetFanSpeed(ctx, speed)
	})
}

// SetSwing enables or disables vertical swing.
func SetSwing(ctx context.Context, opts *Options, on bool) error {
	ctx = logger.WithName(ctx, "swing")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetSwing(ctx, on)
	})
}

// SetDisplay switches the front panel LED display on or off.
func SetDisplay(ctx context.Context, opts *Options, on bool) error {
	ctx = logger.WithName(ctx, "led")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetDisplay(ctx, on)
	})
}

// SetSleep enables or disables sleep mode.
func SetSleep(ctx context.Context, opts *Options, on bool) error {
	ctx = logger.WithName(ctx, "sleep")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetSleep(ctx, on)
	})
}

// SetSelfClean enables or disables the self-clean cycle.
func SetSelfClean(ctx context.Context, opts *Options, on bool) error {
	ctx = logger.WithName(ctx, "selfclean")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetSelfClean(ctx, on)
	})
}

// SetTimer programs the switch-on or switch-off timer.
func SetTimer(ctx context.Context, opts *Options, on bool, hours, minutes int) error {
	ctx = logger.WithName(ctx, "timer")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.SetTimer(ctx, on, hours, minutes)
	})
}

// ClearTimer resets the switch-on or switch-off timer program.
func ClearTimer(ctx context.Context, opts *Options, on bool) error {
	ctx = logger.WithName(ctx, "cleartimer")

	return dispatch(ctx, opts, format.Reply, func(ctx context.Context, device Device) ([]byte, error) {
		return device.ClearTimer(ctx, on)
	})
}

// Discover sweeps the local network and prints every device that answered.
// With save set, the first hit's address is written to the settings file.
func Discover(ctx context.Context, opts *Options, save bool) error {
	ctx = logger.WithName(ctx, "discover")
	opts = opts.withDefaults()

	found, err := opts.Scan(ctx, broadlink.WithDiscoverWait(opts.Timeout))
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "discovery sweep finished", "devices", len(found))

	if save {
		if len(found) == 0 {
			logger.Warn(ctx, "no devices found, settings not updated")
		} else {
			addr := found[0].Addr.IP.String()
			if err := config.Save(opts.ConfigPath, &config.Config{IPAddress: addr}); err != nil {
				return err
			}

			logger.InfoKV(ctx, "saved device address", "ip_address", addr)
		}
	}

	return format.Devices(opts.Out, opts.Format, found)
}

// dispatch dials the device, runs exactly one operation, renders its reply,
// and closes the session.
func dispatch(
	ctx context.Context,
	opts *Options,
	render func(io.Writer, format.Format, []byte) error,
	op func(ctx context.Context, device Device) ([]byte, error),
) error {
	opts = opts.withDefaults()

	host, err := resolveHost(opts)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "dialing device", "host", host, "timeout", opts.Timeout.String())

	device, err := opts.Dial(ctx, host, opts.Timeout)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = device.Close()
	}()

	reply, err := op(ctx, device)
	if err != nil {
		return err
	}

	return render(opts.Out, opts.Format, reply)
}

/// resolveHost returns the target device address: the explicit override when
// set, otherwise the configured one. Loading the settings regenerates a
// broken file along the way.
func resolveHost(opts *Options) (string, error) {
	if opts.Host != "" {
		return opts.Host, nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", err
	}

	return cfg.IPAddress, nil
}

// withDefaults returns a copy of the options with zero fields filled with
// production values.
func (o *Options) withDefaults() *Options {
	out := *o

	if out.Timeout <= 0 {
		out.Timeout = broadlink.DefaultTimeout
	}

	if out.Format == "" {
		out.Format = format.JSON
	}

	if out.Out == nil {
		out.Out = os.Stdout
	}

	if out.Dial == nil {
		out.Dial = func(ctx context.Context, host string, timeout time.Duration) (Device, error) {
			return electrolux.Dial(ctx, host, timeout)
		}
	}

	if out.Scan == nil {
		out.Scan = broadlink.Discover
	}

	return &out
}
