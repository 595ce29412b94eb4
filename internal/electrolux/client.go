package electrolux

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/christiandt/electrolux-ac-cli/internal/broadlink"
	"github.com/christiandt/electrolux-ac-cli/internal/logger"
)

// DeviceType is the model identifier these units announce during discovery
// ("ELECTROLUX_OEM" in vendor firmware).
const DeviceType = 0x4F9B

// Vendor command codes. 0x18 and 0x19 each carry several single-field
// settings distinguished by the JSON key.
const (
	cmdStatus      = 0x0E
	cmdTemperature = 0x17
	cmdPowerGroup  = 0x18 // ac_pwr, ac_slp, mldprf
	cmdConfigGroup = 0x19 // ac_mode, ac_mark, ac_vdir, scrdisp
	cmdTimer       = 0x1F
)

// transport is the authenticated device session the client drives.
// Satisfied by *broadlink.Device.
type transport interface {
	Command(ctx context.Context, payload []byte) ([]byte, error)
	Close() error
}

// Client drives a single air conditioner. Every Set method performs exactly
// one protocol exchange and returns the device's raw JSON reply.
type Client struct {
	// device is the authenticated session commands go through.
	device transport
}

// Dial locates the device at host, authenticates, and returns a ready
// client. The timeout bounds each protocol exchange.
func Dial(ctx context.Context, host string, timeout time.Duration) (*Client, error) {
	info, err := broadlink.Hello(ctx, host)
	if err != nil {
		return nil, err
	}

	if info.Devtype != DeviceType {
		logger.WarnKV(ctx, "unexpected device type, proceeding anyway",
			"addr", info.Addr.String(),
			"devtype", fmt.Sprintf("%#04x", info.Devtype))
	}

	device, err := broadlink.Connect(ctx, info, broadlink.WithTimeout(timeout))
	if err != nil {
		return nil, err
	}

	return &Client{device: device}, nil
}

// Close releases the device session.
func (c *Client) Close() error {
	if c == nil || c.device == nil {
		return nil
	}

	return c.device.Close()
}

// Status asks the device for its full state.
func (c *Client) Status(ctx context.Context) ([]byte, error) {
	return c.call(ctx, cmdStatus, struct{}{})
}

// SetPower switches the unit on or off.
func (c *Client) SetPower(ctx context.Context, on bool) ([]byte, error) {
	return c.call(ctx, cmdPowerGroup, struct {
		Power int `json:"ac_pwr"`
	}{asFlag(on)})
}

// SetTemperature sets the target temperature in degrees Celsius,
// clamped to the device's supported range.
func (c *Client) SetTemperature(ctx context.Context, degrees int) ([]byte, error) {
	return c.call(ctx, cmdTemperature, struct {
		Temperature int `json:"temp"`
	}{clamp(degrees, MinTemperature, MaxTemperature)})
}

// SetMode selects the operating mode.
func (c *Client) SetMode(ctx context.Context, mode Mode) ([]byte, error) {
	return c.call(ctx, cmdConfigGroup, struct {
		Mode Mode `json:"ac_mode"`
	}{mode})
}

// SetFanSpeed selects the fan level.
func (c *Client) SetFanSpeed(ctx context.Context, speed FanSpeed) ([]byte, error) {
	return c.call(ctx, cmdConfigGroup, struct {
		FanSpeed FanSpeed `json:"ac_mark"`
	}{speed})
}

// SetSwing enables or disables vertical swing.
func (c *Client) SetSwing(ctx context.Context, on bool) ([]byte, error) {
	return c.call(ctx, cmdConfigGroup, struct {
		Swing int `json:"ac_vdir"`
	}{asFlag(on)})
}

// SetDisplay switches the front panel LED display on or off.
func (c *Client) SetDisplay(ctx context.Context, on bool) ([]byte, error) {
	return c.call(ctx, cmdConfigGroup, struct {
		Display int `json:"scrdisp"`
	}{asFlag(on)})
}

// SetSleep enables or disables sleep mode.
func (c *Client) SetSleep(ctx context.Context, on bool) ([]byte, error) {
	return c.call(ctx, cmdPowerGroup, struct {
		Sleep int `json:"ac_slp"`
	}{asFlag(on)})
}

// SetSelfClean enables or disables the self-clean cycle.
func (c *Client) SetSelfClean(ctx context.Context, on bool) ([]byte, error) {
	return c.call(ctx, cmdPowerGroup, struct {
		SelfClean int `json:"mldprf"`
	}{asFlag(on)})
}

// SetTimer programs the switch-on or switch-off timer. Hours and minutes
// are clamped to a day's range.
func (c *Client) SetTimer(ctx context.Context, on bool, hours, minutes int) ([]byte, error) {
	return c.call(ctx, cmdTimer, struct {
		Timer string `json:"timer"`
	}{timerValue(on, hours, minutes)})
}

// ClearTimer resets the switch-on or switch-off timer program.
func (c *Client) ClearTimer(ctx context.Context, on bool) ([]byte, error) {
	return c.SetTimer(ctx, on, 0, 0)
}

// call wraps the body in a vendor frame, performs one exchange, and unwraps
// the reply body.
func (c *Client) call(ctx context.Context, command uint16, body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	logger.DebugKV(ctx, "sending device command",
		"command", fmt.Sprintf("%#02x", command),
		"body", string(encoded))

	reply, err := c.device.Command(ctx, encodeFrame(command, encoded))
	if err != nil {
		return nil, err
	}

	payload, err := decodeFrame(reply)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "device replied", "body", string(payload))

	return payload, nil
}
