package broadlink

import (
	"bytes"
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEncryptDecryptRoundtrip ensures encryption pads to the block size and
// decryption restores the padded plaintext.
func TestEncryptDecryptRoundtrip(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"ac_pwr":1}`)

	encrypted, err := encrypt(initialKey, payload)
	require.NoError(t, err)
	require.Zero(t, len(encrypted)%aes.BlockSize)
	require.NotEqual(t, payload, encrypted[:len(payload)])

	plain, err := decrypt(initialKey, encrypted)
	require.NoError(t, err)
	require.Equal(t, payload, plain[:len(payload)])

	// Padding must be zeros.
	for _, b := range plain[len(payload):] {
		require.Zero(t, b)
	}
}

// TestEncryptKeepsAlignedInput ensures block-aligned input is not grown.
func TestEncryptKeepsAlignedInput(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x42}, 2*aes.BlockSize)

	encrypted, err := encrypt(initialKey, payload)
	require.NoError(t, err)
	require.Len(t, encrypted, len(payload))
}

// TestDecryptRejectsUnaligned ensures non-block-aligned ciphertext errors out.
func TestDecryptRejectsUnaligned(t *testing.T) {
	t.Parallel()

	_, err := decrypt(initialKey, make([]byte, aes.BlockSize-1))
	require.Error(t, err)
}
