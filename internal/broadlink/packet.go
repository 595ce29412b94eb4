package broadlink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"time"
)

const (
	// checksumSeed is the initial value of every packet checksum.
	checksumSeed = 0xBEAF

	// helloPacketLength is the size of a discovery probe.
	helloPacketLength = 0x30

	// helloResponseMinLength covers the fixed part of a discovery reply,
	// up to and including the MAC address field.
	helloResponseMinLength = 0x40

	// commandHeaderLength is the size of the header preceding the encrypted
	// payload in command packets and their responses.
	commandHeaderLength = 0x38

	// authPayloadLength is the size of the authentication request payload.
	authPayloadLength = 0x50
)

// Packet type identifiers.
const (
	helloPacketType   = 0x06
	authPacketType    = 0x65
	commandPacketType = 0x6A
)

// commandMagic opens every command packet header.
//
//nolint:gochecknoglobals // Protocol constant.
var commandMagic = []byte{0x5A, 0xA5, 0xAA, 0x55, 0x5A, 0xA5, 0xAA, 0x55}

// checksum folds data into the protocol's 16-bit checksum: the byte sum
// starting from checksumSeed, truncated to 16 bits.
func checksum(data []byte) uint16 {
	sum := uint32(checksumSeed)
	for _, b := range data {
		sum += uint32(b)
	}

	return uint16(sum)
}

// helloPacket builds the discovery probe. The packet advertises the local
// wall clock and the source address the device should answer to:
//
//	0x08  timezone offset in hours, signed LE32
//	0x0C  year LE16, then minute, hour, two-digit year, ISO weekday, day, month
//	0x18  source IPv4 in reversed byte order
//	0x1C  source port LE16
//	0x20  checksum LE16
//	0x26  packet type (0x06)
func helloPacket(now time.Time, localIP net.IP, localPort int) []byte {
	packet := make([]byte, helloPacketLength)

	_, tzOffset := now.Zone()
	binary.LittleEndian.PutUint32(packet[0x08:], uint32(int32(tzOffset/3600)))
	binary.LittleEndian.PutUint16(packet[0x0C:], uint16(now.Year()))
	packet[0x0E] = byte(now.Minute())
	packet[0x0F] = byte(now.Hour())
	packet[0x10] = byte(now.Year() % 100)
	packet[0x11] = byte((int(now.Weekday())+6)%7 + 1)
	packet[0x12] = byte(now.Day())
	packet[0x13] = byte(now.Month())

	if ip4 := localIP.To4(); ip4 != nil {
		packet[0x18] = ip4[3]
		packet[0x19] = ip4[2]
		packet[0x1A] = ip4[1]
		packet[0x1B] = ip4[0]
	}

	binary.LittleEndian.PutUint16(packet[0x1C:], uint16(localPort))
	packet[0x26] = helloPacketType

	binary.LittleEndian.PutUint16(packet[0x20:], checksum(packet))

	return packet
}

// parseHelloResponse extracts the device identity from a discovery reply:
// device type LE16 at 0x34, MAC in reversed byte order at 0x3A, the
// NUL-terminated friendly name from 0x40, and the lock flag at 0x7F.
func parseHelloResponse(addr *net.UDPAddr, resp []byte) (*DeviceInfo, error) {
	if len(resp) < helloResponseMinLength {
		return nil, fmt.Errorf("%w: discovery reply is %d bytes", errShortResponse, len(resp))
	}

	mac := make(net.HardwareAddr, 6)
	for i := range mac {
		mac[i] = resp[0x3A+5-i]
	}

	info := &DeviceInfo{
		Addr:    addr,
		MAC:     mac,
		Devtype: binary.LittleEndian.Uint16(resp[0x34:]),
	}

	if len(resp) > helloResponseMinLength {
		name := resp[helloResponseMinLength:]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}

		info.Name = string(name)
	}

	if len(resp) > 0x7F {
		info.Locked = resp[0x7F] != 0
	}

	return info, nil
}

// authPayload builds the authentication request payload. The fixed bytes
// stand in for a client identity the devices never actually verify.
func authPayload() []byte {
	payload := make([]byte, authPayloadLength)

	for i := 0x04; i <= 0x12; i++ {
		payload[i] = 0x31
	}

	payload[0x1E] = 0x01
	payload[0x2D] = 0x01
	copy(payload[0x30:], "Test 1")

	return payload
}

// parseAuthResponse extracts the device id (LE32 at 0x00) and the 16-byte
// session key (at 0x04) from a decrypted authentication reply.
func parseAuthResponse(plain []byte) (uint32, []byte, error) {
	if len(plain) < 0x14 {
		return 0, nil, fmt.Errorf("%w: auth reply payload is %d bytes", errShortResponse, len(plain))
	}

	key := make([]byte, 16)
	copy(key, plain[0x04:0x14])

	return binary.LittleEndian.Uint32(plain[0x00:0x04]), key, nil
}

// commandPacket builds a full command packet from the session state:
//
//	0x00  magic 5A A5 AA 55 5A A5 AA 55
//	0x20  whole-packet checksum LE16
//	0x24  device type LE16
//	0x26  packet type LE16
//	0x28  send counter LE16
//	0x2A  MAC in reversed byte order
//	0x30  device id LE32
//	0x34  plaintext payload checksum LE16
//	0x38  AES-encrypted payload
func commandPacket(d *Device, packetType, count uint16, payload []byte) ([]byte, error) {
	packet := make([]byte, commandHeaderLength)
	copy(packet, commandMagic)
	binary.LittleEndian.PutUint16(packet[0x24:], d.info.Devtype)
	binary.LittleEndian.PutUint16(packet[0x26:], packetType)
	binary.LittleEndian.PutUint16(packet[0x28:], count)

	for i := range 6 {
		packet[0x2A+i] = d.info.MAC[5-i]
	}

	binary.LittleEndian.PutUint32(packet[0x30:], d.id)
	binary.LittleEndian.PutUint16(packet[0x34:], checksum(payload))

	encrypted, err := encrypt(d.key, payload)
	if err != nil {
		return nil, err
	}

	packet = append(packet, encrypted...)

	// The checksum field is still zero here, so the plain sum is correct.
	binary.LittleEndian.PutUint16(packet[0x20:], checksum(packet))

	return packet, nil
}

// verifyResponse checks the length and checksum of a raw device response.
func verifyResponse(resp []byte) error {
	if len(resp) < commandHeaderLength {
		return fmt.Errorf("%w: device response is %d bytes", errShortResponse, len(resp))
	}

	want := binary.LittleEndian.Uint16(resp[0x20:0x22])

	got := checksum(resp) - uint16(resp[0x20]) - uint16(resp[0x21])
	if got != want {
		return fmt.Errorf("%w: computed %#04x, packet carries %#04x", errBadChecksum, got, want)
	}

	return nil
}

// Known device status codes from the classic protocol.
//
//nolint:gochecknoglobals // Protocol constant.
var deviceErrors = map[int16]string{
	-1: "authentication failed",
	-2: "you have been logged out",
	-3: "the device is offline",
	-4: "command not supported",
	-5: "the device storage is full",
	-6: "file type is not supported",
	-7: "it failed to send the file",
}

// responseError maps the status code a device returned to an error.
// A zero code means success and yields nil.
func responseError(code uint16) error {
	if code == 0 {
		return nil
	}

	signed := int16(code)
	if msg, ok := deviceErrors[signed]; ok {
		return fmt.Errorf("device refused command: %s (code %d)", msg, signed)
	}

	return fmt.Errorf("device returned status %d", signed)
}
