package musig2

import "fmt"

// Kind categorizes a musig2 error: InvalidEncoding, KeypairNotInSet,
// MismatchedMessages, MismatchedNonceAggregate, InvalidSignature, plus
// the session-misuse kinds. RPC errors live in pkg/rpc's own Kind enum,
// not here.
type Kind string

const (
	KindInvalidEncoding          Kind = "invalid_encoding"
	KindKeypairNotInSet          Kind = "keypair_not_in_set"
	KindMismatchedMessages       Kind = "mismatched_messages"
	KindMismatchedNonceAggregate Kind = "mismatched_nonce_aggregate"
	KindInvalidSignature         Kind = "invalid_signature"
	KindSessionSecretReused      Kind = "session_secret_reused"
	KindSenderMismatch           Kind = "sender_mismatch"
)

// Error wraps an underlying error with a stable Kind a caller (notably the
// CLI) can switch on without string-matching error messages.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("musig2: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

var (
	// ErrKeypairNotInSet is returned when a supplied keypair's public key
	// is absent from the ordered participant list, mirroring the real
	// btcd musig2 package's ErrSignerNotInKeySet.
	ErrKeypairNotInSet = fmt.Errorf("musig2: keypair not found in participant set")

	// ErrMismatchedMessages is returned when round_two receives a number
	// of peer FirstRoundMessages that doesn't match len(participants)-1.
	ErrMismatchedMessages = fmt.Errorf("musig2: wrong number of peer first-round messages")

	// ErrMismatchedNonceAggregate is returned when partial signatures
	// supplied to AggregateSignatures disagree on R.
	ErrMismatchedNonceAggregate = fmt.Errorf("musig2: partial signatures disagree on aggregated nonce")

	// ErrInvalidSignature is returned when the assembled (R, s) fails
	// Ed25519 verification under the aggregated public key.
	ErrInvalidSignature = fmt.Errorf("musig2: aggregated signature failed verification")

	// ErrSessionSecretReused is returned when round_two is called twice
	// with the same SessionSecret value.
	ErrSessionSecretReused = fmt.Errorf("musig2: session secret already consumed")

	// ErrSenderMismatch is returned when a peer FirstRoundMessage's
	// claimed sender public key does not match the participant expected
	// at that position in the ordered list.
	ErrSenderMismatch = fmt.Errorf("musig2: first-round message sender does not match expected participant")

	// ErrTooFewParticipants is returned by Aggregate when fewer than two
	// public keys are supplied.
	ErrTooFewParticipants = fmt.Errorf("musig2: need at least two participants")
)
