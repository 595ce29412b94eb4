package broadlink

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

var (
	// initialKey is the well-known key every device accepts before
	// authentication. The real session key replaces it during Connect.
	//nolint:gochecknoglobals // Protocol constant.
	initialKey = []byte{
		0x09, 0x76, 0x28, 0x34, 0x3f, 0xe9, 0x9e, 0x23,
		0x76, 0x5c, 0x15, 0x13, 0xac, 0xcf, 0x8b, 0x02,
	}

	// cbcIV is the static initialization vector used for every message.
	//nolint:gochecknoglobals // Protocol constant.
	cbcIV = []byte{
		0x56, 0x2e, 0x17, 0x99, 0x6d, 0x09, 0x3d, 0x28,
		0xdd, 0xb3, 0xba, 0x69, 0x5a, 0x2e, 0x6f, 0x58,
	}
)

// encrypt applies AES-128-CBC to src, zero-padding it to a whole number of
// blocks first. The source slice is left untouched.
func encrypt(key, src []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	padded := src
	if rem := len(src) % aes.BlockSize; rem != 0 {
		padded = make([]byte, len(src)+aes.BlockSize-rem)
		copy(padded, src)
	}

	dst := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, cbcIV).CryptBlocks(dst, padded)

	return dst, nil
}

// decrypt reverses encrypt. The ciphertext must be block-aligned; any zero
// padding added by the sender is preserved in the plaintext.
func decrypt(key, src []byte) ([]byte, error) {
	if len(src)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not block-aligned", len(src))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	dst := make([]byte, len(src))
	cipher.NewCBCDecrypter(block, cbcIV).CryptBlocks(dst, src)

	return dst, nil
}
