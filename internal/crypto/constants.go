package crypto

const (
	// KeySize is the size of the master key and of every derived key in bytes.
	KeySize = 32
	// NonceSize is the size of the body nonce in bytes.
	NonceSize = 16
	// IVSize is the size of an AES-CBC initialization vector in bytes.
	IVSize = 16
	// IdentitySize is the size of a key identity in bytes.
	IdentitySize = 6
	// MACSize is the size of an HMAC-SHA256 tag in bytes.
	MACSize = 32
)

// Key derivation roles. Each role yields a distinct key from the same master
// key so that cipher and MAC keys are never shared between uses or directions.
const (
	RoleSenderHMAC     = "simple-crypto/sender-hmac-key"
	RoleSenderCipher   = "simple-crypto/sender-cipher-key"
	RoleReceiverHMAC   = "simple-crypto/receiver-hmac-key"
	RoleReceiverCipher = "simple-crypto/receiver-cipher-key"
)
