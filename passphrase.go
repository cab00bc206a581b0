package simplesecrets

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/simple-secrets/simple-secrets-go/internal/crypto"
)

// MinSaltSize is the shortest salt DeriveMasterKey accepts.
const MinSaltSize = 16

// Argon2Params tunes the Argon2id derivation used by DeriveMasterKey.
// Zero fields take their value from DefaultArgon2Params.
type Argon2Params struct {
	Time    uint32 // passes over memory
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultArgon2Params follows the RFC 9106 second recommended option.
var DefaultArgon2Params = Argon2Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 4,
}

// DeriveMasterKey stretches a passphrase into a 256-bit master key with
// Argon2id. The same passphrase, salt and params always give the same key,
// so the salt must be stored alongside whatever the key protects.
func DeriveMasterKey(passphrase, salt []byte, params Argon2Params) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrWeakPassphrase
	}
	if len(salt) < MinSaltSize {
		return nil, fmt.Errorf("%w: got %d, want at least %d", ErrInvalidSalt, len(salt), MinSaltSize)
	}

	if params.Time == 0 {
		params.Time = DefaultArgon2Params.Time
	}
	if params.Memory == 0 {
		params.Memory = DefaultArgon2Params.Memory
	}
	if params.Threads == 0 {
		params.Threads = DefaultArgon2Params.Threads
	}

	return argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, crypto.KeySize), nil
}

// NewSalt reads a MinSaltSize salt from r, or from crypto/rand when r is nil.
func NewSalt(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}

	salt := make([]byte, MinSaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	return salt, nil
}
