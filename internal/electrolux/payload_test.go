package electrolux

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEncodeFrameSmallBody pins the full frame layout for the status
// request, including the small-body class byte and the exact checksum.
func TestEncodeFrameSmallBody(t *testing.T) {
	t.Parallel()

	frame := encodeFrame(cmdStatus, []byte("{}"))
	require.Len(t, frame, frameHeaderLength+2)

	require.EqualValues(t, cmdStatus, binary.LittleEndian.Uint16(frame[0x00:]))
	require.Equal(t, frameMagic, frame[0x02:0x06])
	require.EqualValues(t, 0xC1B3, binary.LittleEndian.Uint16(frame[0x06:]))
	require.EqualValues(t, 0x01, frame[0x08])
	require.EqualValues(t, 0x0B, frame[0x09])
	require.EqualValues(t, 2, binary.LittleEndian.Uint16(frame[0x0A:]))
	require.EqualValues(t, 0x00, frame[0x0C])
	require.EqualValues(t, 0x00, frame[0x0D])
	require.Equal(t, "{}", string(frame[0x0E:]))
}

// TestEncodeFrameLargeBody ensures bodies above two bytes get the large
// class byte and the right length field.
func TestEncodeFrameLargeBody(t *testing.T) {
	t.Parallel()

	body := []byte(`{"temp":24}`)

	frame := encodeFrame(cmdTemperature, body)
	require.EqualValues(t, 0x02, frame[0x08])
	require.EqualValues(t, len(body), binary.LittleEndian.Uint16(frame[0x0A:]))
	require.Equal(t, string(body), string(frame[frameHeaderLength:]))
}

// TestDecodeFrameRoundtrip ensures an encoded frame decodes back to its
// body, also when the frame carries trailing encryption padding.
func TestDecodeFrameRoundtrip(t *testing.T) {
	t.Parallel()

	body := []byte(`{"ac_pwr":1,"temp":24}`)
	frame := encodeFrame(cmdStatus, body)

	decoded, err := decodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, body, decoded)

	// Zero padding is covered by the checksum and excluded from the body.
	padded := append(frame, make([]byte, 7)...)

	decoded, err = decodeFrame(padded)
	require.NoError(t, err)
	require.Equal(t, body, decoded)
}

// TestDecodeFrameBadChecksum ensures corrupted frames are rejected.
func TestDecodeFrameBadChecksum(t *testing.T) {
	t.Parallel()

	frame := encodeFrame(cmdStatus, []byte(`{"temp":24}`))
	frame[len(frame)-1]++

	_, err := decodeFrame(frame)
	require.ErrorIs(t, err, errBadFrame)
}

// TestDecodeFrameShort covers truncated frames and lying length fields.
func TestDecodeFrameShort(t *testing.T) {
	t.Parallel()

	_, err := decodeFrame(nil)
	require.ErrorIs(t, err, errShortFrame)

	_, err = decodeFrame(make([]byte, frameHeaderLength-1))
	require.ErrorIs(t, err, errShortFrame)

	// A frame whose length field points past its end.
	frame := encodeFrame(cmdStatus, []byte("{}"))
	binary.LittleEndian.PutUint16(frame[0x0A:], 200)
	binary.LittleEndian.PutUint16(frame[0x06:], frameChecksum(frame[0x08:]))

	_, err = decodeFrame(frame)
	require.ErrorIs(t, err, errShortFrame)
}
