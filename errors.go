package simplesecrets

import (
	"errors"

	"github.com/simple-secrets/simple-secrets-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingKey is returned when no master key is provided.
	ErrMissingKey = errors.New("master key is required")

	// ErrInvalidHexKey is returned by NewFromHex when the key is not hex encoded.
	ErrInvalidHexKey = errors.New("master key must be hex encoded")

	// ErrPacketClosed is returned when operations are attempted on a closed packet.
	ErrPacketClosed = errors.New("packet has been closed")

	// ErrInvalidKeyLength is returned when the master key is not 256 bits.
	// Construction accepts any non-empty key; the error surfaces on the first
	// operation that derives a key from it.
	ErrInvalidKeyLength = crypto.ErrInvalidKeyLength

	// ErrInvalidIVLength is returned when an IV is not 128 bits.
	ErrInvalidIVLength = crypto.ErrInvalidIVLength

	// ErrInvalidEncoding is returned when a token is not unpadded base64url text.
	ErrInvalidEncoding = crypto.ErrInvalidEncoding

	// ErrDecryptionFailed is returned by the low-level primitives. Unpack
	// never returns it; a token that fails to decrypt is reported as not ok.
	ErrDecryptionFailed = crypto.ErrDecryptionFailed

	// ErrWeakPassphrase is returned when a passphrase is empty.
	ErrWeakPassphrase = errors.New("passphrase is required")

	// ErrInvalidSalt is returned when a salt is shorter than MinSaltSize.
	ErrInvalidSalt = errors.New("invalid salt size")
)
