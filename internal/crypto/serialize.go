package crypto

import "github.com/simple-secrets/simple-secrets-go/value"

// Serialize encodes v as MessagePack.
func Serialize(v value.Value) ([]byte, error) {
	return value.Marshal(v)
}

// Deserialize decodes exactly one MessagePack value from data.
func Deserialize(data []byte) (value.Value, error) {
	return value.Unmarshal(data)
}
