package crypto

import (
	"encoding/base64"
	"fmt"
)

// ToBase64URL encodes bytes to URL-safe base64 without padding.
func ToBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// FromBase64URL decodes URL-safe base64. The input must be non-empty and use
// only [A-Za-z0-9_-]; padding is restored before decoding.
func FromBase64URL(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidEncoding)
	}
	for i := 0; i < len(s); i++ {
		if !isBase64URLChar(s[i]) {
			return nil, fmt.Errorf("%w: invalid character at offset %d", ErrInvalidEncoding, i)
		}
	}

	for len(s)%4 != 0 {
		s += "="
	}

	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}

func isBase64URLChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
