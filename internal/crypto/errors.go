package crypto

import "errors"

var (
	// ErrInvalidKeyLength is returned when a key is not exactly 256 bits.
	ErrInvalidKeyLength = errors.New("256-bit key required")

	// ErrInvalidIVLength is returned when an IV is not exactly 128 bits.
	ErrInvalidIVLength = errors.New("128-bit IV required")

	// ErrDecryptionFailed is returned when a ciphertext cannot be decrypted.
	// Block misalignment and every padding fault map to this one error.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidEncoding is returned when text is not unpadded base64url.
	ErrInvalidEncoding = errors.New("base64url string required")
)
