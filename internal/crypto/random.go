package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// readRandom fills a new n-byte buffer from r, or from crypto/rand when r is nil.
func readRandom(r io.Reader, n int) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		Zero(buf)
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}

// Nonce returns NonceSize securely random bytes read from r.
// A nil r uses crypto/rand.
func Nonce(r io.Reader) ([]byte, error) {
	return readRandom(r, NonceSize)
}
