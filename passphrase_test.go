package simplesecrets

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simple-secrets/simple-secrets-go/value"
)

// fastParams keeps Argon2id cheap enough for unit tests.
var fastParams = Argon2Params{Time: 1, Memory: 64, Threads: 1}

func TestDeriveMasterKey(t *testing.T) {
	salt := repeat(0x5a, MinSaltSize)

	key, err := DeriveMasterKey([]byte("correct horse battery staple"), salt, fastParams)
	if err != nil {
		t.Fatalf("DeriveMasterKey() error = %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("len = %d, want 32", len(key))
	}

	again, err := DeriveMasterKey([]byte("correct horse battery staple"), salt, fastParams)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(key, again) {
		t.Error("DeriveMasterKey() is not deterministic")
	}

	otherSalt, err := DeriveMasterKey([]byte("correct horse battery staple"), repeat(0x5b, MinSaltSize), fastParams)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(key, otherSalt) {
		t.Error("different salts produced the same key")
	}

	otherPass, err := DeriveMasterKey([]byte("correct horse battery stapler"), salt, fastParams)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(key, otherPass) {
		t.Error("different passphrases produced the same key")
	}
}

func TestDeriveMasterKey_Errors(t *testing.T) {
	tests := []struct {
		name       string
		passphrase []byte
		salt       []byte
		wantErr    error
	}{
		{"empty passphrase", nil, repeat(0x5a, MinSaltSize), ErrWeakPassphrase},
		{"no salt", []byte("pw"), nil, ErrInvalidSalt},
		{"short salt", []byte("pw"), repeat(0x5a, MinSaltSize-1), ErrInvalidSalt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveMasterKey(tt.passphrase, tt.salt, fastParams)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeriveMasterKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeriveMasterKey_UsableKey(t *testing.T) {
	salt, err := NewSalt(nil)
	if err != nil {
		t.Fatal(err)
	}

	key, err := DeriveMasterKey([]byte("pw"), salt, fastParams)
	if err != nil {
		t.Fatal(err)
	}

	p, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	token, err := p.Pack(value.String("from a passphrase"))
	if err != nil {
		t.Fatal(err)
	}
	if v, ok, err := p.Unpack(token); err != nil || !ok || v.AsString() != "from a passphrase" {
		t.Errorf("Unpack() = %s, %v, %v", v, ok, err)
	}
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt(nil)
	if err != nil {
		t.Fatalf("NewSalt() error = %v", err)
	}
	b, err := NewSalt(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != MinSaltSize {
		t.Errorf("len = %d, want %d", len(a), MinSaltSize)
	}
	if bytes.Equal(a, b) {
		t.Error("two salts are equal")
	}

	if _, err := NewSalt(bytes.NewReader(repeat(0x01, MinSaltSize-1))); err == nil {
		t.Error("expected error for exhausted reader")
	}
}
