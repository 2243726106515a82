package rpc

import "fmt"

// Kind categorizes an RPCError by the collaborator's own reason, so
// cmd/musig2-cli can map any facade failure to exactly one exit line
// without string-matching the underlying gagliardetto/solana-go error.
type Kind string

const (
	KindNetwork           Kind = "network"
	KindAccountNotFound   Kind = "account_not_found"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindBroadcastRejected Kind = "broadcast_rejected"
)

// RPCError wraps an underlying error with a stable Kind.
type RPCError struct {
	Kind Kind
	Err  error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc: %s: %v", e.Kind, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }

func newRPCErr(kind Kind, err error) *RPCError {
	return &RPCError{Kind: kind, Err: err}
}

// ErrAirdropUnsupportedOnNetwork is returned by RequestAirdrop on any
// network other than devnet/localnet.
var ErrAirdropUnsupportedOnNetwork = fmt.Errorf("rpc: airdrop is only supported on devnet and localnet")
