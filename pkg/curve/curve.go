// Package curve wraps filippo.io/edwards25519 with the scalar and point
// operations the MuSig2 core needs: compressed point (de)serialization,
// reduction mod the group order ℓ, and domain-separated hash-to-scalar.
//
// Every exported operation here is a pure function of its inputs; none of
// them touch a CSPRNG except SampleScalar, which exists only so that
// pkg/musig2 can thread a caller-supplied io.Reader through round_one for
// deterministic testing without ever making nonce derivation depend on the
// message or the secret key.
package curve

import (
	"crypto/sha512"
	"errors"
	"io"

	"filippo.io/edwards25519"
)

// ErrInvalidPoint is returned when a 32-byte encoding does not decode to a
// point on the Ed25519 prime-order subgroup.
var ErrInvalidPoint = errors.New("curve: invalid point encoding")

// ErrInvalidScalar is returned when a 32-byte encoding is not accepted as a
// canonical scalar by the underlying group implementation.
var ErrInvalidScalar = errors.New("curve: invalid scalar encoding")

// Scalar is an element of Z/ℓZ, where ℓ is the prime order of the Ed25519
// base point's subgroup.
type Scalar struct {
	s *edwards25519.Scalar
}

// Point is a point on the Ed25519 curve, restricted (by construction of
// every exported constructor in this package) to the prime-order subgroup.
type Point struct {
	p *edwards25519.Point
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar {
	return Scalar{edwards25519.NewScalar()}
}

// IdentityPoint returns the group identity element.
func IdentityPoint() Point {
	return Point{edwards25519.NewIdentityPoint()}
}

// BasePoint returns the standard Ed25519 base point G.
func BasePoint() Point {
	return Point{edwards25519.NewGeneratorPoint()}
}

// ReduceScalar reduces an arbitrary-length byte string into a scalar mod ℓ
// by treating it as a little-endian integer wide enough for
// SetUniformBytes (64 bytes). Callers that already have exactly 64 bytes of
// uniform input (e.g. a SHA-512 digest) should pass them directly;
// shorter/longer input is padded/truncated to 64 bytes first so the
// function never panics on caller-controlled lengths.
func ReduceScalar(b []byte) Scalar {
	buf := make([]byte, 64)
	copy(buf, b)
	s, err := edwards25519.NewScalar().SetUniformBytes(buf)
	if err != nil {
		// SetUniformBytes only fails when len != 64, which cannot happen
		// given the fixed-size buf above.
		panic("curve: SetUniformBytes rejected a 64-byte buffer: " + err.Error())
	}
	return Scalar{s}
}

// ScalarFromCanonicalBytes decodes a 32-byte little-endian scalar encoding,
// requiring it be already reduced mod ℓ (as SessionSecret and
// PartialSignature wire values must be).
func ScalarFromCanonicalBytes(b [32]byte) (Scalar, error) {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	if err != nil {
		return Scalar{}, ErrInvalidScalar
	}
	return Scalar{s}, nil
}

// HashToScalar computes SHA-512(domain ‖ parts...) and reduces the digest
// mod ℓ. The domain tag is prepended as raw bytes (not length-prefixed);
// every call site in pkg/musig2 uses fixed-format inputs so this cannot
// introduce ambiguity between two different call shapes.
func HashToScalar(domain string, parts ...[]byte) Scalar {
	h := sha512.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write(p)
	}
	return ReduceScalar(h.Sum(nil))
}

// SampleScalar draws a uniformly random scalar mod ℓ from rng, by sampling
// 64 uniform bytes and reducing them the same way HashToScalar does. This
// is the only place in this package that touches randomness.
func SampleScalar(rng io.Reader) (Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return Scalar{}, err
	}
	return ReduceScalar(buf[:]), nil
}

// DecodePoint decodes a compressed 32-byte Ed25519 point encoding.
//
// It fails with ErrInvalidPoint when b is not a curve point, or when the
// point has a small-order torsion component (lies outside the prime-order
// subgroup). Non-canonical encodings of valid subgroup points are accepted,
// as edwards25519's SetBytes accepts them.
func DecodePoint(b [32]byte) (Point, error) {
	p, err := new(edwards25519.Point).SetBytes(b[:])
	if err != nil {
		return Point{}, ErrInvalidPoint
	}
	// ℓ·p is the identity exactly when p is in the prime-order subgroup;
	// it is computed as (ℓ-1)·p + p, ℓ-1 being the canonical form of -1.
	var oneBytes [32]byte
	oneBytes[0] = 1
	one, _ := edwards25519.NewScalar().SetCanonicalBytes(oneBytes[:])
	lp := new(edwards25519.Point).ScalarMult(edwards25519.NewScalar().Negate(one), p)
	if lp.Add(lp, p).Equal(edwards25519.NewIdentityPoint()) != 1 {
		return Point{}, ErrInvalidPoint
	}
	return Point{p}, nil
}

// Bytes returns the compressed 32-byte encoding of p.
func (p Point) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], p.p.Bytes())
	return out
}

// IsZero reports whether p is the group identity.
func (p Point) IsZero() bool {
	return p.Equal(IdentityPoint())
}

// Equal reports whether p and q represent the same point.
func (p Point) Equal(q Point) bool {
	return p.p.Equal(q.p) == 1
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{new(edwards25519.Point).Add(p.p, q.p)}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{new(edwards25519.Point).Subtract(p.p, q.p)}
}

// ScalarBaseMult returns s*G.
func ScalarBaseMult(s Scalar) Point {
	return Point{new(edwards25519.Point).ScalarBaseMult(s.s)}
}

// ScalarMult returns s*p.
func (p Point) ScalarMult(s Scalar) Point {
	return Point{new(edwards25519.Point).ScalarMult(s.s, p.p)}
}

// DoubleScalarBaseMult returns a*A + b*G, used by the signature
// aggregator to check s*G == R + c*APK in a single multiscalar
// multiplication the same way crypto/ed25519 verification does.
func DoubleScalarBaseMult(a Scalar, A Point, b Scalar) Point {
	return Point{new(edwards25519.Point).VarTimeDoubleScalarBaseMult(a.s, A.p, b.s)}
}

// Bytes returns the canonical 32-byte little-endian encoding of s.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], s.s.Bytes())
	return out
}

// Add returns s + t mod ℓ.
func (s Scalar) Add(t Scalar) Scalar {
	return Scalar{new(edwards25519.Scalar).Add(s.s, t.s)}
}

// Sub returns s - t mod ℓ.
func (s Scalar) Sub(t Scalar) Scalar {
	return Scalar{new(edwards25519.Scalar).Subtract(s.s, t.s)}
}

// Mul returns s * t mod ℓ.
func (s Scalar) Mul(t Scalar) Scalar {
	return Scalar{new(edwards25519.Scalar).Multiply(s.s, t.s)}
}

// Invert returns s⁻¹ mod ℓ. The inverse of zero is zero.
func (s Scalar) Invert() Scalar {
	return Scalar{new(edwards25519.Scalar).Invert(s.s)}
}

// MulAdd returns s*t + u mod ℓ.
func (s Scalar) MulAdd(t Scalar, u Scalar) Scalar {
	return Scalar{new(edwards25519.Scalar).MultiplyAdd(s.s, t.s, u.s)}
}

// Equal reports whether s and t represent the same residue mod ℓ.
func (s Scalar) Equal(t Scalar) bool {
	return s.s.Equal(t.s) == 1
}
