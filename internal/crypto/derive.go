package crypto

import (
	"crypto/sha256"
	"fmt"
)

// Derive computes SHA256(masterKey || role).
func Derive(masterKey []byte, role string) ([]byte, error) {
	if len(masterKey) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeyLength, len(masterKey), KeySize)
	}

	h := sha256.New()
	h.Write(masterKey)
	h.Write([]byte(role))
	return h.Sum(nil), nil
}

// DeriveSenderHMAC derives the authentication key for messages originating
// from the sender side of a channel.
func DeriveSenderHMAC(masterKey []byte) ([]byte, error) {
	return Derive(masterKey, RoleSenderHMAC)
}

// DeriveSenderKey derives the encryption key for messages originating from
// the sender side of a channel.
func DeriveSenderKey(masterKey []byte) ([]byte, error) {
	return Derive(masterKey, RoleSenderCipher)
}

// DeriveReceiverHMAC derives the authentication key for messages originating
// from the receiver side of a channel.
func DeriveReceiverHMAC(masterKey []byte) ([]byte, error) {
	return Derive(masterKey, RoleReceiverHMAC)
}

// DeriveReceiverKey derives the encryption key for messages originating from
// the receiver side of a channel.
func DeriveReceiverKey(masterKey []byte) ([]byte, error) {
	return Derive(masterKey, RoleReceiverCipher)
}
