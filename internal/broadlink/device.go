package broadlink

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"time"

	"github.com/christiandt/electrolux-ac-cli/internal/logger"
)

const (
	// DevicePort is the UDP port every device listens on.
	DevicePort = 80

	// DefaultTimeout bounds a full request/response exchange.
	DefaultTimeout = 10 * time.Second

	// resendInterval is how often an unanswered datagram is retransmitted
	// within the exchange timeout.
	resendInterval = time.Second

	// maxResponseLength is the receive buffer size; device responses are
	// far smaller.
	maxResponseLength = 2048
)

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errShortResponse is returned when a device reply is truncated.
	errShortResponse = errors.New("short response")
	// errBadChecksum is returned when a device reply fails checksum verification.
	errBadChecksum = errors.New("checksum mismatch")
	// errNoResponse is returned when the device stays silent past the timeout.
	errNoResponse = errors.New("no response from device")
)

// DeviceInfo identifies a device found during discovery.
type DeviceInfo struct {
	// Addr is the device's UDP address.
	Addr *net.UDPAddr
	// MAC is the hardware address in human-readable byte order.
	MAC net.HardwareAddr
	// Devtype is the numeric model identifier announced by the device.
	Devtype uint16
	// Name is the friendly name stored on the device, if any.
	Name string
	// Locked reports whether the device refuses commands until unlocked
	// from the vendor app.
	Locked bool
}

// Device is an authenticated session with a single device.
type Device struct {
	// info is the identity the device announced during discovery.
	info *DeviceInfo
	// conn is the connected UDP socket to the device.
	conn *net.UDPConn

	// key encrypts payloads: the well-known initial key until
	// authentication swaps in the session key.
	key []byte
	// id is the session identifier assigned by the device.
	id uint32
	// count numbers outgoing packets; the device ignores duplicates.
	count uint16

	// timeout bounds each request/response exchange.
	timeout time.Duration
}

// Option configures device behaviour.
type Option func(*Device)

// WithTimeout sets the per-exchange timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// Hello probes a single address with a discovery packet and returns the
// device's identity. The host may carry an explicit port; it defaults to
// DevicePort otherwise.
func Hello(ctx context.Context, host string) (*DeviceInfo, error) {
	addr, err := resolveDeviceAddr(host)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial device: %w", err)
	}
	defer conn.Close()

	local, _ := conn.LocalAddr().(*net.UDPAddr)
	packet := helloPacket(time.Now(), local.IP, local.Port)

	resp, err := exchange(ctx, conn, packet, deadline(ctx, DefaultTimeout))
	if err != nil {
		return nil, fmt.Errorf("hello %s: %w", addr, err)
	}

	info, err := parseHelloResponse(addr, resp)
	if err != nil {
		return nil, fmt.Errorf("hello %s: %w", addr, err)
	}

	logger.DebugKV(ctx, "device answered hello",
		"addr", addr.String(),
		"devtype", fmt.Sprintf("%#04x", info.Devtype),
		"name", info.Name)

	return info, nil
}

// Connect opens a session with a discovered device and authenticates,
// obtaining the session key and device id used for all subsequent commands.
func Connect(ctx context.Context, info *DeviceInfo, opts ...Option) (*Device, error) {
	if info == nil || info.Addr == nil {
		return nil, errAddressRequired
	}

	conn, err := net.DialUDP("udp4", nil, info.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial device: %w", err)
	}

	device := &Device{
		info:    info,
		conn:    conn,
		key:     initialKey,
		count:   uint16(rand.IntN(0x8000)) | 0x8000,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(device)
	}

	if err := device.auth(ctx); err != nil {
		_ = conn.Close()

		return nil, err
	}

	return device, nil
}

// Info returns the identity the device announced during discovery.
func (d *Device) Info() *DeviceInfo {
	return d.info
}

// Command encrypts the payload, sends it as a command packet, and returns
// the device's decrypted reply payload. The reply may be empty for plain
// acknowledgements.
func (d *Device) Command(ctx context.Context, payload []byte) ([]byte, error) {
	return d.send(ctx, commandPacketType, payload)
}

// Close releases the underlying UDP socket.
func (d *Device) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}

	return d.conn.Close()
}

// auth performs the key exchange. Until it completes, packets go out with
// the initial key and a zero device id.
func (d *Device) auth(ctx context.Context) error {
	plain, err := d.send(ctx, authPacketType, authPayload())
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	id, key, err := parseAuthResponse(plain)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	d.id = id
	d.key = key

	logger.DebugKV(ctx, "authenticated with device",
		"addr", d.info.Addr.String(),
		"device_id", id)

	return nil
}

// send performs one request/response exchange of the given packet type.
func (d *Device) send(ctx context.Context, packetType uint16, payload []byte) ([]byte, error) {
	d.count = (d.count + 1) | 0x8000

	packet, err := commandPacket(d, packetType, d.count, payload)
	if err != nil {
		return nil, err
	}

	resp, err := exchange(ctx, d.conn, packet, deadline(ctx, d.timeout))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", d.info.Addr, err)
	}

	if err := verifyResponse(resp); err != nil {
		return nil, err
	}

	if err := responseError(binary.LittleEndian.Uint16(resp[0x22:0x24])); err != nil {
		return nil, err
	}

	if len(resp) <= commandHeaderLength {
		return nil, nil
	}

	plain, err := decrypt(d.key, resp[commandHeaderLength:])
	if err != nil {
		return nil, err
	}

	return plain, nil
}

// resolveDeviceAddr parses host as "ip" or "ip:port", defaulting the port
// to DevicePort.
func resolveDeviceAddr(host string) (*net.UDPAddr, error) {
	if host == "" {
		return nil, errAddressRequired
	}

	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, strconv.Itoa(DevicePort))
	}

	addr, err := net.ResolveUDPAddr("udp4", host)
	if err != nil {
		return nil, fmt.Errorf("resolve device address: %w", err)
	}

	return addr, nil
}

// deadline resolves the absolute deadline for one exchange: the context
// deadline when it is earlier, otherwise now plus the configured timeout.
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}

	return d
}

// exchange writes the packet and waits for a reply on the connected socket,
// retransmitting every resendInterval until the deadline passes.
func exchange(ctx context.Context, conn *net.UDPConn, packet []byte, deadline time.Time) ([]byte, error) {
	buf := make([]byte, maxResponseLength)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := conn.Write(packet); err != nil {
			return nil, fmt.Errorf("send packet: %w", err)
		}

		readUntil := time.Now().Add(resendInterval)
		if readUntil.After(deadline) {
			readUntil = deadline
		}

		if err := conn.SetReadDeadline(readUntil); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}

		n, err := conn.Read(buf)
		if err == nil {
			return buf[:n], nil
		}

		var netErr net.Error
		if !errors.As(err, &netErr) || !netErr.Timeout() {
			return nil, fmt.Errorf("receive packet: %w", err)
		}

		if !time.Now().Before(deadline) {
			return nil, errNoResponse
		}
	}
}
