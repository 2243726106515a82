// Package keypair holds a single participant's long-term Ed25519 identity.
//
// A KeyPair never leaves its owner: it is generated once by the `keygen`
// CLI command, stored on disk as a small JSON file with base64-encoded
// fields, and read back for round_one/round_two. Nothing in this package
// ever logs a seed, expanded scalar, or nonce-derivation prefix.
package keypair

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fuyofulo/solana-token-tss/pkg/curve"
)

// SeedSize is the size in bytes of the random seed a KeyPair is derived
// from, matching Ed25519's standard seed length.
const SeedSize = 32

// KeyPair is a participant's Ed25519 identity: a 32-byte seed, expanded by
// SHA-512 into a clamped scalar `a` and a 32-byte nonce-derivation prefix
// (per RFC 8032 §5.1.5), plus the derived public key point.
type KeyPair struct {
	seed   [SeedSize]byte
	a      curve.Scalar
	prefix [32]byte
	pub    curve.Point
}

// Generate samples a fresh seed from rng (crypto/rand.Reader in
// production; a deterministic source only in tests) and expands it into a
// full KeyPair.
func Generate(rng io.Reader) (*KeyPair, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(rng, seed[:]); err != nil {
		return nil, fmt.Errorf("keypair: failed to read seed: %w", err)
	}
	return FromSeed(seed)
}

// GenerateDefault is a convenience wrapper around Generate using
// crypto/rand.Reader.
func GenerateDefault() (*KeyPair, error) {
	return Generate(rand.Reader)
}

// FromSeed deterministically expands a 32-byte seed into a KeyPair,
// following the same SHA-512 expand-and-clamp procedure as standard
// Ed25519 key generation (RFC 8032 §5.1.5): h = SHA-512(seed); a =
// clamp(h[:32]); prefix = h[32:]; A = a*G.
func FromSeed(seed [SeedSize]byte) (*KeyPair, error) {
	h := sha512.Sum512(seed[:])

	var aBytes [32]byte
	copy(aBytes[:], h[:32])
	clamp(&aBytes)

	a := curve.ReduceScalar(aBytes[:])
	pub := curve.ScalarBaseMult(a)

	var prefix [32]byte
	copy(prefix[:], h[32:])

	return &KeyPair{seed: seed, a: a, prefix: prefix, pub: pub}, nil
}

// clamp applies the standard Ed25519 scalar-clamping bit operations to a
// 32-byte little-endian buffer in place, before it is reduced mod ℓ.
func clamp(b *[32]byte) {
	b[0] &= 248
	b[31] &= 127
	b[31] |= 64
}

// PublicKey returns this party's public key point.
func (k *KeyPair) PublicKey() curve.Point { return k.pub }

// ExpandedScalar returns the clamped, reduced secret scalar `a` derived
// from the seed. This is the value the partial signer multiplies by the
// MuSig2 key-aggregation coefficient.
func (k *KeyPair) ExpandedScalar() curve.Scalar { return k.a }

// NoncePrefix returns the 32-byte prefix used only as *additional entropy
// material* if a caller ever wants to mix deterministic and random nonce
// sources; pkg/musig2.RoundOne does not use it — signing nonces must be
// freshly CSPRNG-sampled per session, never message-derived.
func (k *KeyPair) NoncePrefix() [32]byte { return k.prefix }

// keyPairJSON is the on-disk representation: every field is base64 so the
// file is plain ASCII.
type keyPairJSON struct {
	Seed string `json:"seed"`
}

// MarshalJSON implements json.Marshaler. Only the seed is persisted; the
// scalar, prefix, and public key are re-derived on load.
func (k *KeyPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyPairJSON{
		Seed: base64.StdEncoding.EncodeToString(k.seed[:]),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *KeyPair) UnmarshalJSON(data []byte) error {
	var in keyPairJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("keypair: failed to decode json: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(in.Seed)
	if err != nil {
		return fmt.Errorf("keypair: failed to decode seed: %w", err)
	}
	if len(raw) != SeedSize {
		return fmt.Errorf("keypair: seed must be %d bytes, got %d", SeedSize, len(raw))
	}
	var seed [SeedSize]byte
	copy(seed[:], raw)
	expanded, err := FromSeed(seed)
	if err != nil {
		return err
	}
	*k = *expanded
	return nil
}
