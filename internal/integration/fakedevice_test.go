package integration

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Wire constants duplicated here on purpose: the emulator must not share
// code with the client, or an encoding bug could cancel itself out.
//
//nolint:gochecknoglobals // Shared by every emulator instance.
var (
	fakeInitialKey = []byte{
		0x09, 0x76, 0x28, 0x34, 0x3F, 0xE9, 0x9E, 0x23,
		0x76, 0x5C, 0x15, 0x13, 0xAC, 0xCF, 0x8B, 0x02,
	}
	fakeIV = []byte{
		0x56, 0x2E, 0x17, 0x99, 0x6D, 0x09, 0x3D, 0x28,
		0xDD, 0xB3, 0xBA, 0x69, 0x5A, 0x2E, 0x6F, 0x58,
	}
	fakeSessionKey = []byte{
		0xD0, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, 0xD7,
		0xD8, 0xD9, 0xDA, 0xDB, 0xDC, 0xDD, 0xDE, 0xDF,
	}
	fakeMAC = []byte{0xAA, 0xBB, 0xCC, 0x00, 0x11, 0x22}
)

const (
	fakeDevtype  = 0x4F9B
	fakeDeviceID = 0x00C0FFEE
	fakeName     = "Bedroom AC"
)

// fakeCall is one vendor command the emulator received.
type fakeCall struct {
	command uint16
	body    string
}

// fakeDevice emulates a Broadlink-protocol air conditioner on a loopback
// UDP socket. It answers discovery probes, performs the key exchange and
// executes vendor commands against an in-memory state table, recording
// every command for assertions.
type fakeDevice struct {
	conn *net.UDPConn

	mu    sync.Mutex
	calls []fakeCall
	state map[string]any
}

// startFakeDevice binds the emulator to a random loopback port and serves
// requests until the test finishes.
func startFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	d := &fakeDevice{
		conn: conn,
		state: map[string]any{
			"ac_pwr":  1,
			"ac_mode": 0,
			"ac_mark": 2,
			"ac_vdir": 0,
			"scrdisp": 1,
			"ac_slp":  0,
			"mldprf":  0,
			"temp":    24,
			"envtemp": 26.5,
			"timer":   "0000|00",
		},
	}

	go d.serve()

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return d
}

// addr returns the emulator's host:port address.
func (d *fakeDevice) addr() string {
	return d.conn.LocalAddr().String()
}

// commands returns a copy of the vendor commands received so far.
func (d *fakeDevice) commands() []fakeCall {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]fakeCall(nil), d.calls...)
}

// serve answers incoming packets until the socket is closed.
func (d *fakeDevice) serve() {
	buf := make([]byte, 2048)

	for {
		n, remote, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		packet := make([]byte, n)
		copy(packet, buf[:n])

		if reply := d.handle(packet); reply != nil {
			_, _ = d.conn.WriteToUDP(reply, remote)
		}
	}
}

// handle dispatches one request by the packet type at offset 0x26.
func (d *fakeDevice) handle(packet []byte) []byte {
	if len(packet) < 0x28 {
		return nil
	}

	switch packet[0x26] {
	case 0x06:
		return d.helloReply()
	case 0x65:
		return d.authReply()
	case 0x6A:
		return d.commandReply(packet)
	default:
		return nil
	}
}

// helloReply announces the device identity: the model number at 0x34, the
// MAC in reversed byte order at 0x3A and the friendly name from 0x40.
func (d *fakeDevice) helloReply() []byte {
	reply := make([]byte, 0x80)
	binary.LittleEndian.PutUint16(reply[0x34:], fakeDevtype)

	for i, b := range fakeMAC {
		reply[0x3A+5-i] = b
	}

	copy(reply[0x40:], fakeName)

	return reply
}

// authReply hands out the session key and device id, sealed with the
// well-known initial key like a real device.
func (d *fakeDevice) authReply() []byte {
	plain := make([]byte, 0x14)
	binary.LittleEndian.PutUint32(plain[0x00:], fakeDeviceID)
	copy(plain[0x04:], fakeSessionKey)

	return d.wrap(plain, fakeInitialKey)
}

// commandReply unseals a vendor command, applies it to the state table and
// returns the sealed reply frame.
func (d *fakeDevice) commandReply(packet []byte) []byte {
	if len(packet) <= 0x38 {
		return nil
	}

	plain, err := fakeDecrypt(fakeSessionKey, packet[0x38:])
	if err != nil {
		return nil
	}

	body, command, ok := d.openFrame(plain)
	if !ok {
		return nil
	}

	d.mu.Lock()
	d.calls = append(d.calls, fakeCall{command: command, body: string(body)})
	d.mu.Unlock()

	return d.wrap(d.sealFrame(command, d.execute(command, body)), fakeSessionKey)
}

// execute applies one vendor command and returns the reply body: the full
// state table for a status request, an echo of the request otherwise.
func (d *fakeDevice) execute(command uint16, body []byte) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	if command == 0x0E {
		reply, err := json.Marshal(d.state)
		if err != nil {
			return []byte("{}")
		}

		return reply
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		for k, v := range fields {
			d.state[k] = v
		}
	}

	return append([]byte(nil), body...)
}

// openFrame validates the vendor framing of a request and returns the JSON
// body and command code.
func (d *fakeDevice) openFrame(frame []byte) (body []byte, command uint16, ok bool) {
	if len(frame) < 0x0E {
		return nil, 0, false
	}

	if !bytes.Equal(frame[0x02:0x06], []byte{0xA5, 0xA5, 0x5A, 0x5A}) {
		return nil, 0, false
	}

	sum := uint32(0xC0AD)
	for _, b := range frame[0x08:] {
		sum += uint32(b)
	}

	if uint16(sum) != binary.LittleEndian.Uint16(frame[0x06:0x08]) {
		return nil, 0, false
	}

	length := int(binary.LittleEndian.Uint16(frame[0x0A:0x0C]))
	if 0x0E+length > len(frame) {
		return nil, 0, false
	}

	return frame[0x0E : 0x0E+length], binary.LittleEndian.Uint16(frame[0x00:0x02]), true
}

// sealFrame wraps a reply body in the vendor framing.
func (d *fakeDevice) sealFrame(command uint16, body []byte) []byte {
	frame := make([]byte, 0x0E, 0x0E+len(body))
	binary.LittleEndian.PutUint16(frame[0x00:], command)
	copy(frame[0x02:], []byte{0xA5, 0xA5, 0x5A, 0x5A})

	if len(body) <= 2 {
		frame[0x08] = 0x01
	} else {
		frame[0x08] = 0x02
	}

	frame[0x09] = 0x0B
	binary.LittleEndian.PutUint16(frame[0x0A:], uint16(len(body)))
	frame = append(frame, body...)

	sum := uint32(0xC0AD)
	for _, b := range frame[0x08:] {
		sum += uint32(b)
	}

	binary.LittleEndian.PutUint16(frame[0x06:], uint16(sum))

	return frame
}

// wrap seals a payload with the given key and prepends a response header
// carrying a valid checksum and a zero error code.
func (d *fakeDevice) wrap(payload, key []byte) []byte {
	encrypted, err := fakeEncrypt(key, payload)
	if err != nil {
		return nil
	}

	resp := make([]byte, 0x38, 0x38+len(encrypted))
	copy(resp, []byte{0x5A, 0xA5, 0xAA, 0x55, 0x5A, 0xA5, 0xAA, 0x55})
	binary.LittleEndian.PutUint16(resp[0x24:], fakeDevtype)
	resp = append(resp, encrypted...)

	sum := uint32(0xBEAF)
	for _, b := range resp {
		sum += uint32(b)
	}

	binary.LittleEndian.PutUint16(resp[0x20:], uint16(sum))

	return resp
}

// fakeEncrypt is AES-128-CBC with the protocol IV and zero padding.
func fakeEncrypt(key, src []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	if rem := len(src) % aes.BlockSize; rem != 0 {
		src = append(src[:len(src):len(src)], make([]byte, aes.BlockSize-rem)...)
	}

	dst := make([]byte, len(src))
	cipher.NewCBCEncrypter(block, fakeIV).CryptBlocks(dst, src)

	return dst, nil
}

// fakeDecrypt reverses fakeEncrypt, padding included.
func fakeDecrypt(key, src []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	if len(src)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext is not block aligned")
	}

	dst := make([]byte, len(src))
	cipher.NewCBCDecrypter(block, fakeIV).CryptBlocks(dst, src)

	return dst, nil
}
