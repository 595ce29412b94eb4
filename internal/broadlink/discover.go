package broadlink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackpal/gateway"

	"github.com/christiandt/electrolux-ac-cli/internal/logger"
)

// defaultBroadcastAddress is where discovery probes go unless overridden.
const defaultBroadcastAddress = "255.255.255.255:80"

// discoverSettings collects the tunables of one discovery sweep.
type discoverSettings struct {
	// broadcast is the probe destination.
	broadcast string
	// wait is how long responses are collected.
	wait time.Duration
}

// DiscoverOption configures a discovery sweep.
type DiscoverOption func(*discoverSettings)

// WithBroadcastAddress overrides the probe destination, e.g. to sweep a
// single subnet's directed broadcast address instead of the whole LAN.
func WithBroadcastAddress(addr string) DiscoverOption {
	return func(s *discoverSettings) {
		if addr != "" {
			s.broadcast = addr
		}
	}
}

// WithDiscoverWait overrides how long responses are collected.
func WithDiscoverWait(wait time.Duration) DiscoverOption {
	return func(s *discoverSettings) {
		if wait > 0 {
			s.wait = wait
		}
	}
}

// Discover broadcasts a discovery probe and collects every device that
// answers within the wait window. Duplicate answers from the same address
// are folded into one entry.
func Discover(ctx context.Context, opts ...DiscoverOption) ([]*DeviceInfo, error) {
	settings := &discoverSettings{
		broadcast: defaultBroadcastAddress,
		wait:      DefaultTimeout,
	}

	for _, opt := range opts {
		opt(settings)
	}

	dest, err := net.ResolveUDPAddr("udp4", settings.broadcast)
	if err != nil {
		return nil, fmt.Errorf("resolve broadcast address: %w", err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("open discovery socket: %w", err)
	}
	defer conn.Close()

	local, _ := conn.LocalAddr().(*net.UDPAddr)
	packet := helloPacket(time.Now(), localSourceIP(ctx), local.Port)

	if _, err := conn.WriteToUDP(packet, dest); err != nil {
		return nil, fmt.Errorf("send discovery probe: %w", err)
	}

	stop := time.Now().Add(settings.wait)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(stop) {
		stop = ctxDeadline
	}

	var (
		found []*DeviceInfo
		seen  = make(map[string]struct{})
		buf   = make([]byte, maxResponseLength)
	)

	for time.Now().Before(stop) {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		if err := conn.SetReadDeadline(stop); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}

		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				break
			}

			return nil, fmt.Errorf("receive discovery reply: %w", err)
		}

		info, err := parseHelloResponse(addr, buf[:n])
		if err != nil {
			logger.DebugKV(ctx, "ignoring malformed discovery reply",
				"addr", addr.String(),
				"error", err)

			continue
		}

		if _, dup := seen[addr.String()]; dup {
			continue
		}

		seen[addr.String()] = struct{}{}
		found = append(found, info)

		logger.DebugKV(ctx, "device discovered",
			"addr", addr.String(),
			"devtype", fmt.Sprintf("%#04x", info.Devtype),
			"name", info.Name)
	}

	return found, nil
}

// localSourceIP finds the IPv4 address of the interface holding the default
// route; the discovery probe advertises it as the reply destination. Devices
// answer to the datagram's source address anyway, so a lookup failure only
// degrades the hint to zeros.
func localSourceIP(ctx context.Context) net.IP {
	gw, err := gateway.DiscoverGateway()
	if err != nil {
		logger.DebugKV(ctx, "default gateway lookup failed", "error", err)

		return net.IPv4zero
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPv4zero
	}

	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil {
				continue
			}

			if ipNet.Contains(gw) {
				return ipNet.IP.To4()
			}
		}
	}

	return net.IPv4zero
}
