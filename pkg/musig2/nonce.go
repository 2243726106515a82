package musig2

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/fuyofulo/solana-token-tss/pkg/curve"
	"github.com/fuyofulo/solana-token-tss/pkg/keypair"
)

// RoundOne samples a fresh nonce pair (r1, r2) for kp and returns both the
// FirstRoundMessage to broadcast and the SessionSecret to hold privately
// until RoundTwo. rng defaults to crypto/rand.Reader when nil.
//
// The nonces are never derived from kp's secret key or from any message.
// Deterministic nonce derivation — safe in single-signer Ed25519 — is
// unsafe in a multi-signer setting: a peer who replays round one against
// two different messages could extract the long-term secret.
func RoundOne(kp *keypair.KeyPair, rng io.Reader) (FirstRoundMessage, *SessionSecret, error) {
	if rng == nil {
		rng = rand.Reader
	}

	r1, err := curve.SampleScalar(rng)
	if err != nil {
		return FirstRoundMessage{}, nil, fmt.Errorf("musig2: round_one: failed to sample r1: %w", err)
	}
	r2, err := curve.SampleScalar(rng)
	if err != nil {
		return FirstRoundMessage{}, nil, fmt.Errorf("musig2: round_one: failed to sample r2: %w", err)
	}

	R1 := curve.ScalarBaseMult(r1)
	R2 := curve.ScalarBaseMult(r2)

	msg := FirstRoundMessage{R1: R1, R2: R2, Sender: kp.PublicKey()}
	secret := &SessionSecret{r1: r1, r2: r2, R1: R1, R2: R2}
	return msg, secret, nil
}
