package musig2

import (
	"github.com/fuyofulo/solana-token-tss/pkg/curve"
)

// coefDomain is the domain tag used when deriving per-participant
// key-aggregation coefficients.
const coefDomain = "musig2_coef"

// AggregatedKey is the deterministic MuSig2 aggregation of an ordered list
// of participant public keys. Two AggregatedKeys built from the same keys
// in different orders are different values — order is part of the APK's
// identity.
type AggregatedKey struct {
	Point        curve.Point
	L            []byte
	Participants []curve.Point
}

// Aggregate computes X = Σ a_i·X_i, where a_i = H_agg("musig2_coef", L,
// X_i) mod ℓ and L = X_1 ‖ X_2 ‖ ... ‖ X_n, over pubkeys in the order
// supplied by the caller.
func Aggregate(pubkeys []curve.Point) (*AggregatedKey, error) {
	if len(pubkeys) < 2 {
		return nil, newErr(KindKeypairNotInSet, ErrTooFewParticipants)
	}

	l := make([]byte, 0, 32*len(pubkeys))
	for _, x := range pubkeys {
		b := x.Bytes()
		l = append(l, b[:]...)
	}

	sum := curve.IdentityPoint()
	for _, x := range pubkeys {
		coeff := coefficientFor(l, x)
		sum = sum.Add(x.ScalarMult(coeff))
	}

	participants := make([]curve.Point, len(pubkeys))
	copy(participants, pubkeys)

	return &AggregatedKey{Point: sum, L: l, Participants: participants}, nil
}

// coefficientFor recomputes a_j = H_agg("musig2_coef", L, X_j) mod ℓ given
// an already-built L byte string.
func coefficientFor(l []byte, x curve.Point) curve.Scalar {
	xb := x.Bytes()
	return curve.HashToScalar(coefDomain, l, xb[:])
}

// CoefficientFor recomputes a_j for a specific participant public key x,
// failing if x is not among apk's participants.
func (apk *AggregatedKey) CoefficientFor(x curve.Point) (curve.Scalar, error) {
	for _, p := range apk.Participants {
		if p.Equal(x) {
			return coefficientFor(apk.L, x), nil
		}
	}
	return curve.Scalar{}, newErr(KindKeypairNotInSet, ErrKeypairNotInSet)
}

// IndexOf returns the position of x within apk's ordered participant list,
// or -1 if x is not a participant.
func (apk *AggregatedKey) IndexOf(x curve.Point) int {
	for i, p := range apk.Participants {
		if p.Equal(x) {
			return i
		}
	}
	return -1
}
