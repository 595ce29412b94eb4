package electrolux

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// frameHeaderLength is the size of the vendor frame preceding the JSON body.
	frameHeaderLength = 0x0E

	// frameChecksumSeed is the initial value of the vendor frame checksum.
	frameChecksumSeed = 0xC0AD
)

// frameMagic follows the command code in every vendor frame.
//
//nolint:gochecknoglobals // Protocol constant.
var frameMagic = []byte{0xA5, 0xA5, 0x5A, 0x5A}

var (
	// errShortFrame is returned when a reply frame is truncated.
	errShortFrame = errors.New("short frame")
	// errBadFrame is returned when a reply frame fails checksum verification.
	errBadFrame = errors.New("frame checksum mismatch")
)

// encodeFrame wraps a JSON body in the vendor frame:
//
//	0x00  command code LE16
//	0x02  magic A5 A5 5A 5A
//	0x06  checksum LE16 over bytes 0x08.. with seed 0xC0AD
//	0x08  body class: 0x01 for bodies up to two bytes, 0x02 otherwise
//	0x09  constant 0x0B
//	0x0A  body length LE16, then two reserved zero bytes
//	0x0E  ASCII JSON body
func encodeFrame(command uint16, body []byte) []byte {
	frame := make([]byte, frameHeaderLength, frameHeaderLength+len(body))
	binary.LittleEndian.PutUint16(frame[0x00:], command)
	copy(frame[0x02:], frameMagic)

	if len(body) <= 2 {
		frame[0x08] = 0x01
	} else {
		frame[0x08] = 0x02
	}

	frame[0x09] = 0x0B
	binary.LittleEndian.PutUint16(frame[0x0A:], uint16(len(body)))

	frame = append(frame, body...)
	binary.LittleEndian.PutUint16(frame[0x06:], frameChecksum(frame[0x08:]))

	return frame
}

// decodeFrame verifies a reply frame and returns its JSON body. The length
// field bounds the body: transport encryption zero-pads frames, and the
// padding is covered by the checksum but excluded from the body.
func decodeFrame(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderLength {
		return nil, fmt.Errorf("%w: %d bytes", errShortFrame, len(frame))
	}

	want := binary.LittleEndian.Uint16(frame[0x06:0x08])
	if got := frameChecksum(frame[0x08:]); got != want {
		return nil, fmt.Errorf("%w: computed %#04x, frame carries %#04x", errBadFrame, got, want)
	}

	length := int(binary.LittleEndian.Uint16(frame[0x0A:0x0C]))
	if frameHeaderLength+length > len(frame) {
		return nil, fmt.Errorf("%w: body length %d exceeds frame", errShortFrame, length)
	}

	return frame[frameHeaderLength : frameHeaderLength+length], nil
}

// frameChecksum folds data into the vendor's 16-bit checksum: the byte sum
// starting from frameChecksumSeed, truncated to 16 bits.
func frameChecksum(data []byte) uint16 {
	sum := uint32(frameChecksumSeed)
	for _, b := range data {
		sum += uint32(b)
	}

	return uint16(sum)
}
