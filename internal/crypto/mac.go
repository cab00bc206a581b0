package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

// Identify returns the first IdentitySize bytes of SHA256(len(key) || key),
// where the length is written as a single byte.
func Identify(key []byte) []byte {
	h := sha256.New()
	h.Write([]byte{byte(len(key))})
	h.Write(key)
	sum := h.Sum(nil)

	id := make([]byte, IdentitySize)
	copy(id, sum)
	return id
}

// MAC computes HMAC-SHA256 of data under key.
func MAC(data, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeyLength, len(key), KeySize)
	}

	m := hmac.New(sha256.New, key)
	m.Write(data)
	return m.Sum(nil), nil
}

// Compare reports whether a and b hold the same bytes. Lengths are not
// secret and are checked first; the contents are compared without an early exit.
func Compare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var same byte
	for i := range a {
		same |= a[i] ^ b[i]
	}
	return same == 0
}
