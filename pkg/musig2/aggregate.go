package musig2

import (
	"github.com/fuyofulo/solana-token-tss/pkg/curve"
)

// AggregateSignatures combines partials (one PartialSignature per
// participant in apk, any order) into a final Ed25519 signature over
// message under apk's aggregated public key, and verifies the result
// before returning it.
//
// All partials must carry the same R (the aggregated effective nonce
// computed independently by every participant during round_two);
// disagreement means at least one party used a different peer set or a
// stale/mismatched session and is reported as ErrMismatchedNonceAggregate
// rather than folded into a signature that would just fail verification
// less legibly.
func AggregateSignatures(apk *AggregatedKey, partials []PartialSignature, message []byte) (Signature, error) {
	if len(partials) != len(apk.Participants) {
		return Signature{}, newErr(KindMismatchedMessages, ErrMismatchedMessages)
	}

	R := partials[0].R
	s := curve.ZeroScalar()
	for _, p := range partials {
		if !p.R.Equal(R) {
			return Signature{}, newErr(KindMismatchedNonceAggregate, ErrMismatchedNonceAggregate)
		}
		s = s.Add(p.S)
	}

	apkB := apk.Point.Bytes()
	Rb := R.Bytes()
	c := challengeScalar(Rb, apkB, message)

	// s*G == R + c*APK, checked as R == -c*APK + s*G in one multiscalar
	// multiplication, the same shape crypto/ed25519's verifier uses.
	minusC := curve.ZeroScalar().Sub(c)
	if !curve.DoubleScalarBaseMult(minusC, apk.Point, s).Equal(R) {
		return Signature{}, newErr(KindInvalidSignature, ErrInvalidSignature)
	}

	return Signature{R: R, S: s}, nil
}
