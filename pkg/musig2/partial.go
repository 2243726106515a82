package musig2

import (
	"github.com/fuyofulo/solana-token-tss/pkg/curve"
	"github.com/fuyofulo/solana-token-tss/pkg/keypair"
)

// bindDomain is the domain tag for the binding coefficient b. The signing
// challenge c deliberately carries no such tag: see challengeScalar.
const bindDomain = "musig2_bind"

// challengeScalar computes the Ed25519 signing challenge
// c = SHA-512(R ‖ A ‖ M) mod ℓ, byte-identical to what the chain's
// verifier recomputes — any extra prefix here would make the aggregated
// signature internally consistent but invalid on-chain.
func challengeScalar(R, apk [32]byte, message []byte) curve.Scalar {
	return curve.HashToScalar("", R[:], apk[:], message)
}

// RoundTwo computes this party's partial signature contribution s_i.
//
// peerMessages must contain exactly one FirstRoundMessage per *other*
// participant in apk, in the same order as apk.Participants with this
// party's own slot omitted. Each peer message's claimed Sender is checked
// against the participant expected at that position before its nonce
// points are folded into the aggregate nonce — a FirstRoundMessage whose
// sender doesn't match its expected slot is rejected with
// ErrSenderMismatch rather than silently trusted.
//
// secret is consumed exactly once: on success or failure after nonces have
// been read, it is zeroed via Discard. A SessionSecret that has already
// been consumed returns ErrSessionSecretReused.
func RoundTwo(
	kp *keypair.KeyPair,
	apk *AggregatedKey,
	secret *SessionSecret,
	peerMessages []FirstRoundMessage,
	message []byte,
) (PartialSignature, error) {
	if secret.used {
		return PartialSignature{}, newErr(KindSessionSecretReused, ErrSessionSecretReused)
	}

	ownPub := kp.PublicKey()
	ownIndex := apk.IndexOf(ownPub)
	if ownIndex < 0 {
		return PartialSignature{}, newErr(KindKeypairNotInSet, ErrKeypairNotInSet)
	}

	if len(peerMessages) != len(apk.Participants)-1 {
		return PartialSignature{}, newErr(KindMismatchedMessages, ErrMismatchedMessages)
	}

	// Reconstruct the full per-party nonce-pair list, validating that each
	// peer message's claimed sender matches the participant expected at
	// its position in the ordered list.
	R1s := make([]curve.Point, len(apk.Participants))
	R2s := make([]curve.Point, len(apk.Participants))

	peerIdx := 0
	for i, participant := range apk.Participants {
		if i == ownIndex {
			R1s[i], R2s[i] = secret.PublicNonces()
			continue
		}
		peer := peerMessages[peerIdx]
		peerIdx++
		if !peer.Sender.Equal(participant) {
			return PartialSignature{}, newErr(KindSenderMismatch, ErrSenderMismatch)
		}
		R1s[i] = peer.R1
		R2s[i] = peer.R2
	}

	aggR1 := curve.IdentityPoint()
	aggR2 := curve.IdentityPoint()
	for i := range apk.Participants {
		aggR1 = aggR1.Add(R1s[i])
		aggR2 = aggR2.Add(R2s[i])
	}

	aggR1b, aggR2b := aggR1.Bytes(), aggR2.Bytes()
	apkB := apk.Point.Bytes()

	b := curve.HashToScalar(bindDomain, apkB[:], aggR1b[:], aggR2b[:], message)

	R := aggR1.Add(aggR2.ScalarMult(b))
	Rb := R.Bytes()

	c := challengeScalar(Rb, apkB, message)

	alpha, err := apk.CoefficientFor(ownPub)
	if err != nil {
		secret.Discard()
		return PartialSignature{}, err
	}

	a := kp.ExpandedScalar()

	// s_i = r1 + b*r2 + c*alpha*a  (mod ℓ)
	s := secret.r1.Add(b.Mul(secret.r2)).Add(c.Mul(alpha).Mul(a))

	secret.Discard()

	return PartialSignature{R: R, S: s}, nil
}
