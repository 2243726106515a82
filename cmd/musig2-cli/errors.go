package main

import (
	"errors"
	"fmt"

	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
	"github.com/fuyofulo/solana-token-tss/pkg/rpc"
)

// describeErr reduces err to exactly one secret-free line naming its
// error Kind, if it carries one, without ever interpolating a KeyPair or
// SessionSecret value (neither type implements fmt.Stringer or error, so
// there is nothing secret-bearing reachable from err's message in the
// first place).
func describeErr(err error) string {
	var musigErr *musig2.Error
	if errors.As(err, &musigErr) {
		return fmt.Sprintf("[%s] %v", musigErr.Kind, musigErr.Err)
	}
	var rpcErr *rpc.RPCError
	if errors.As(err, &rpcErr) {
		return fmt.Sprintf("[%s] %v", rpcErr.Kind, rpcErr.Err)
	}
	return err.Error()
}
