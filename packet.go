package simplesecrets

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/go-log/log"

	"github.com/simple-secrets/simple-secrets-go/internal/crypto"
	"github.com/simple-secrets/simple-secrets-go/value"
)

// Packet turns structured values into self-contained, URL-safe tokens and
// back, using a single shared 256-bit master key.
//
// A token is the unpadded base64url encoding of
//
//	identity (6) || IV (16) || AES-256-CBC(nonce (16) || msgpack(value)) || HMAC-SHA256 (32)
//
// where the MAC covers everything before it. A Packet is safe for concurrent use.
type Packet struct {
	mu        sync.RWMutex
	masterKey []byte
	identity  []byte
	closed    bool

	rand    io.Reader
	logger  log.Logger
	metrics *Metrics
}

// New creates a Packet bound to a copy of masterKey. The key must be 32 bytes
// for Pack and Unpack to succeed; only an empty key is rejected here.
func New(masterKey []byte, opts ...Option) (*Packet, error) {
	if len(masterKey) == 0 {
		return nil, ErrMissingKey
	}

	cfg := &packetConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.DefaultLogger
	}

	key := make([]byte, len(masterKey))
	copy(key, masterKey)

	return &Packet{
		masterKey: key,
		identity:  crypto.Identify(key),
		rand:      cfg.rand,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}, nil
}

// NewFromHex creates a Packet from a hex-encoded master key, the form in
// which keys are usually shared between implementations.
func NewFromHex(hexKey string, opts ...Option) (*Packet, error) {
	if hexKey == "" {
		return nil, ErrMissingKey
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHexKey, err)
	}
	defer crypto.Zero(key)

	return New(key, opts...)
}

// Identity returns the 6-byte identity of the master key. It is not secret
// and is the prefix of every token this Packet produces.
func (p *Packet) Identity() []byte {
	id := make([]byte, len(p.identity))
	copy(id, p.identity)
	return id
}

// Pack serializes, encrypts and authenticates v. Two calls with the same
// value produce different tokens.
func (p *Packet) Pack(v value.Value) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return "", ErrPacketClosed
	}

	token, err := p.pack(v)
	if err != nil {
		p.metrics.observeFailure(opPack)
		return "", err
	}

	p.metrics.observePacked()
	return token, nil
}

// Unpack verifies and decrypts a token made by Pack under the same master key.
//
// A token that is not base64url text is a caller error and returns
// ErrInvalidEncoding. A token made for another key, or altered in any way,
// returns ok == false and a nil error; the reason is deliberately not reported.
func (p *Packet) Unpack(token string) (v value.Value, ok bool, err error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return value.Value{}, false, ErrPacketClosed
	}

	wire, err := crypto.FromBase64URL(token)
	if err != nil {
		p.metrics.observeFailure(opUnpack)
		return value.Value{}, false, err
	}
	defer crypto.Zero(wire)

	v, ok, err = p.unpack(wire)
	switch {
	case err != nil:
		p.metrics.observeFailure(opUnpack)
	case !ok:
		p.metrics.observeRejected()
		p.logger.Logf("[simple-secrets] token rejected (%d bytes)", len(wire))
	default:
		p.metrics.observeUnpacked()
	}
	return v, ok, err
}

// Close zeroes the master key. Pack and Unpack fail with ErrPacketClosed afterwards.
func (p *Packet) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	crypto.Zero(p.masterKey)
	return nil
}

func (p *Packet) pack(v value.Value) (string, error) {
	body, err := p.buildBody(v)
	if err != nil {
		return "", err
	}

	cipherData, err := p.encryptBody(body)
	crypto.Zero(body)
	if err != nil {
		return "", err
	}

	wire, err := p.authenticate(cipherData)
	crypto.Zero(cipherData)
	if err != nil {
		return "", err
	}

	token := crypto.ToBase64URL(wire)
	crypto.Zero(wire)
	return token, nil
}

func (p *Packet) unpack(wire []byte) (value.Value, bool, error) {
	cipherData, ok, err := p.verify(wire)
	if err != nil || !ok {
		return value.Value{}, false, err
	}

	body, ok, err := p.decryptBody(cipherData)
	if err != nil || !ok {
		return value.Value{}, false, err
	}
	defer crypto.Zero(body)

	v, ok := p.bodyToData(body)
	return v, ok, nil
}

// buildBody returns nonce || msgpack(v).
func (p *Packet) buildBody(v value.Value) ([]byte, error) {
	bindata, err := crypto.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}

	nonce, err := crypto.Nonce(p.rand)
	if err != nil {
		crypto.Zero(bindata)
		p.logger.Logf("[simple-secrets] nonce: %v", err)
		return nil, err
	}

	body := make([]byte, 0, len(nonce)+len(bindata))
	body = append(body, nonce...)
	body = append(body, bindata...)

	crypto.Zero(nonce, bindata)
	return body, nil
}

// bodyToData drops the nonce and deserializes the rest of the body.
func (p *Packet) bodyToData(body []byte) (value.Value, bool) {
	if len(body) < crypto.NonceSize {
		return value.Value{}, false
	}

	v, err := crypto.Deserialize(body[crypto.NonceSize:])
	if err != nil {
		return value.Value{}, false
	}
	return v, true
}

// encryptBody returns IV || ciphertext under the sender cipher key.
func (p *Packet) encryptBody(body []byte) ([]byte, error) {
	key, err := crypto.DeriveSenderKey(p.masterKey)
	if err != nil {
		return nil, err
	}

	cipherData, err := crypto.Encrypt(p.rand, body, key)
	crypto.Zero(key)
	if err != nil {
		p.logger.Logf("[simple-secrets] encrypt: %v", err)
		return nil, err
	}
	return cipherData, nil
}

// decryptBody reverses encryptBody. Every decryption fault is reported as
// not ok; only key derivation errors are returned.
func (p *Packet) decryptBody(cipherData []byte) ([]byte, bool, error) {
	if len(cipherData) < crypto.IVSize {
		return nil, false, nil
	}

	key, err := crypto.DeriveSenderKey(p.masterKey)
	if err != nil {
		return nil, false, err
	}

	body, err := crypto.Decrypt(cipherData[crypto.IVSize:], key, cipherData[:crypto.IVSize])
	crypto.Zero(key)
	if err != nil {
		return nil, false, nil
	}
	return body, true, nil
}

// authenticate returns identity || cipherData || HMAC(identity || cipherData).
func (p *Packet) authenticate(cipherData []byte) ([]byte, error) {
	hmacKey, err := crypto.DeriveSenderHMAC(p.masterKey)
	if err != nil {
		return nil, err
	}

	n := len(p.identity) + len(cipherData)
	wire := make([]byte, n, n+crypto.MACSize)
	copy(wire, p.identity)
	copy(wire[len(p.identity):], cipherData)

	tag, err := crypto.MAC(wire, hmacKey)
	crypto.Zero(hmacKey)
	if err != nil {
		crypto.Zero(wire)
		return nil, err
	}

	wire = append(wire, tag...)
	crypto.Zero(tag)
	return wire, nil
}

// verify checks the identity and the MAC of wire and returns the
// authenticated IV || ciphertext, which aliases wire.
func (p *Packet) verify(wire []byte) ([]byte, bool, error) {
	if len(wire) < crypto.IdentitySize+crypto.MACSize {
		return nil, false, nil
	}

	if !crypto.Compare(wire[:crypto.IdentitySize], p.identity) {
		return nil, false, nil
	}

	split := len(wire) - crypto.MACSize

	hmacKey, err := crypto.DeriveSenderHMAC(p.masterKey)
	if err != nil {
		return nil, false, err
	}

	expected, err := crypto.MAC(wire[:split], hmacKey)
	crypto.Zero(hmacKey)
	if err != nil {
		return nil, false, err
	}

	ok := crypto.Compare(wire[split:], expected)
	crypto.Zero(expected)
	if !ok {
		return nil, false, nil
	}

	return wire[crypto.IdentitySize:split], true, nil
}
