// Package crypto provides the cryptographic primitives of the simple-secrets
// packet format. Every function is stateless; the only external resource is
// the random source passed in by the caller.
//
// WARNING: using these primitives in isolation is easy to get wrong. The
// packet layer composes them in a fixed order and that order is part of the
// wire format.
//
// # Algorithm Suite
//
//   - SHA-256: key identity (first 6 bytes of SHA256(len(key) || key)) and
//     role-tagged key derivation (SHA256(masterKey || role)).
//
//   - AES-256-CBC with PKCS#7 padding: body encryption. A fresh 16-byte IV is
//     drawn for every call and prepended to the ciphertext.
//
//   - HMAC-SHA256: authentication of identity || IV || ciphertext
//     (encrypt-then-MAC).
//
// # Comparison
//
// MACs and identities MUST be compared with [Compare]. It accumulates the XOR
// of every byte pair without exiting early, so its running time does not
// depend on the position of the first mismatch.
//
// # Secret Hygiene
//
// [Zero] overwrites buffers in place. Callers zero every transient secret
// (derived keys, bodies, nonces) as soon as it is no longer needed, on every
// exit path. This is best effort: the Go runtime may hold copies that are out
// of reach, and Go strings cannot be overwritten at all.
//
// # Base64 Encoding
//
// [ToBase64URL]/[FromBase64URL] implement the token text form: the URL-safe
// alphabet of RFC 4648 §5 with padding stripped on output and restored on
// input.
package crypto
