package musig2

import (
	"github.com/fuyofulo/solana-token-tss/pkg/codec"
	"github.com/fuyofulo/solana-token-tss/pkg/curve"
)

// FirstRoundMessage is a party's published nonce pair plus its public key,
// exchanged before round two. Wire tag 1.
type FirstRoundMessage struct {
	R1, R2 curve.Point
	Sender curve.Point
}

// Encode returns the canonical 97-byte binary encoding.
func (m FirstRoundMessage) Encode() []byte {
	r1, r2, sender := m.R1.Bytes(), m.R2.Bytes(), m.Sender.Bytes()
	return codec.EncodeFirstRoundMessage(r1, r2, sender)
}

// Base58 returns the base58-wrapped binary encoding, for text transport.
func (m FirstRoundMessage) Base58() string {
	return codec.EncodeBase58(m.Encode())
}

// DecodeFirstRoundMessage is the inverse of Encode.
func DecodeFirstRoundMessage(buf []byte) (FirstRoundMessage, error) {
	r1b, r2b, senderb, err := codec.DecodeFirstRoundMessage(buf)
	if err != nil {
		return FirstRoundMessage{}, newErr(KindInvalidEncoding, err)
	}
	r1, err := curve.DecodePoint(r1b)
	if err != nil {
		return FirstRoundMessage{}, newErr(KindInvalidEncoding, err)
	}
	r2, err := curve.DecodePoint(r2b)
	if err != nil {
		return FirstRoundMessage{}, newErr(KindInvalidEncoding, err)
	}
	sender, err := curve.DecodePoint(senderb)
	if err != nil {
		return FirstRoundMessage{}, newErr(KindInvalidEncoding, err)
	}
	return FirstRoundMessage{R1: r1, R2: r2, Sender: sender}, nil
}

// FirstRoundMessageFromBase58 decodes a base58-wrapped FirstRoundMessage.
func FirstRoundMessageFromBase58(s string) (FirstRoundMessage, error) {
	buf, err := codec.DecodeBase58(s)
	if err != nil {
		return FirstRoundMessage{}, newErr(KindInvalidEncoding, err)
	}
	return DecodeFirstRoundMessage(buf)
}

// PartialSignature is one party's contribution (R, s_i) to the final
// aggregated signature. Wire tag 2.
type PartialSignature struct {
	R curve.Point
	S curve.Scalar
}

// Encode returns the canonical 65-byte binary encoding.
func (p PartialSignature) Encode() []byte {
	return codec.EncodePartialSignature(p.R.Bytes(), p.S.Bytes())
}

// Base58 returns the base58-wrapped binary encoding.
func (p PartialSignature) Base58() string {
	return codec.EncodeBase58(p.Encode())
}

// DecodePartialSignature is the inverse of Encode.
func DecodePartialSignature(buf []byte) (PartialSignature, error) {
	Rb, sb, err := codec.DecodePartialSignature(buf)
	if err != nil {
		return PartialSignature{}, newErr(KindInvalidEncoding, err)
	}
	R, err := curve.DecodePoint(Rb)
	if err != nil {
		return PartialSignature{}, newErr(KindInvalidEncoding, err)
	}
	s, err := curve.ScalarFromCanonicalBytes(sb)
	if err != nil {
		return PartialSignature{}, newErr(KindInvalidEncoding, err)
	}
	return PartialSignature{R: R, S: s}, nil
}

// PartialSignatureFromBase58 decodes a base58-wrapped PartialSignature.
func PartialSignatureFromBase58(s string) (PartialSignature, error) {
	buf, err := codec.DecodeBase58(s)
	if err != nil {
		return PartialSignature{}, newErr(KindInvalidEncoding, err)
	}
	return DecodePartialSignature(buf)
}

// SessionSecret is a party's private nonce pair plus its public
// counterpart, held between round_one and round_two. It is single-use:
// RoundTwo marks it consumed and Discard zeroes the private scalars.
// Wire tag 3.
type SessionSecret struct {
	r1, r2 curve.Scalar
	R1, R2 curve.Point
	used   bool
}

// Encode returns the canonical 129-byte binary encoding.
func (s *SessionSecret) Encode() []byte {
	return codec.EncodeSessionSecret(s.r1.Bytes(), s.r2.Bytes(), s.R1.Bytes(), s.R2.Bytes())
}

// Base58 returns the base58-wrapped binary encoding.
func (s *SessionSecret) Base58() string {
	return codec.EncodeBase58(s.Encode())
}

// DecodeSessionSecret is the inverse of Encode.
func DecodeSessionSecret(buf []byte) (*SessionSecret, error) {
	r1b, r2b, R1b, R2b, err := codec.DecodeSessionSecret(buf)
	if err != nil {
		return nil, newErr(KindInvalidEncoding, err)
	}
	r1, err := curve.ScalarFromCanonicalBytes(r1b)
	if err != nil {
		return nil, newErr(KindInvalidEncoding, err)
	}
	r2, err := curve.ScalarFromCanonicalBytes(r2b)
	if err != nil {
		return nil, newErr(KindInvalidEncoding, err)
	}
	R1, err := curve.DecodePoint(R1b)
	if err != nil {
		return nil, newErr(KindInvalidEncoding, err)
	}
	R2, err := curve.DecodePoint(R2b)
	if err != nil {
		return nil, newErr(KindInvalidEncoding, err)
	}
	return &SessionSecret{r1: r1, r2: r2, R1: R1, R2: R2}, nil
}

// SessionSecretFromBase58 decodes a base58-wrapped SessionSecret.
func SessionSecretFromBase58(s string) (*SessionSecret, error) {
	buf, err := codec.DecodeBase58(s)
	if err != nil {
		return nil, newErr(KindInvalidEncoding, err)
	}
	return DecodeSessionSecret(buf)
}

// PublicNonces returns the session's public nonce pair (R1, R2).
func (s *SessionSecret) PublicNonces() (curve.Point, curve.Point) {
	return s.R1, s.R2
}

// Discard zeroes the private scalars so they no longer live in this value.
// RoundTwo calls this automatically after computing a partial signature;
// callers that abandon a session between round_one and round_two should
// call it explicitly before dropping the value.
func (s *SessionSecret) Discard() {
	s.r1 = curve.ZeroScalar()
	s.r2 = curve.ZeroScalar()
	s.used = true
}

// Signature is the final 64-byte (R, s) aggregated Ed25519 signature.
type Signature struct {
	R curve.Point
	S curve.Scalar
}

// Bytes returns the standard 64-byte Ed25519 signature encoding: R ‖ s.
func (sig Signature) Bytes() [64]byte {
	var out [64]byte
	r := sig.R.Bytes()
	s := sig.S.Bytes()
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}
