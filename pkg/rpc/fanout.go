package rpc

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fuyofulo/solana-token-tss/pkg/solana"
)

// Snapshot bundles the independent read-only queries cmd/musig2-cli's
// "info"-style commands need, fetched concurrently.
type Snapshot struct {
	Blockhash     [32]byte
	SOLBalance    uint64
	ATAExists     bool
	TokenAmount   uint64
	TokenDecimals uint8
}

// GetSnapshot fetches the latest blockhash, owner's SOL balance, and (when
// ata is non-zero) the existence and balance of a token account, all
// concurrently via golang.org/x/sync/errgroup — matching this pack's own
// use of errgroup for independent RPC fan-out.
func (c *Client) GetSnapshot(ctx context.Context, owner solana.Address, ata solana.Address) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hash, err := c.GetLatestBlockhash(ctx)
		if err != nil {
			return err
		}
		snap.Blockhash = hash
		return nil
	})

	g.Go(func() error {
		bal, err := c.GetSOLBalance(ctx, owner)
		if err != nil {
			return err
		}
		snap.SOLBalance = bal
		return nil
	})

	if !ata.IsZero() {
		g.Go(func() error {
			exists, err := c.AccountExists(ctx, ata)
			if err != nil {
				return err
			}
			snap.ATAExists = exists
			if !exists {
				return nil
			}
			amount, decimals, err := c.GetTokenBalance(ctx, ata)
			if err != nil {
				return err
			}
			snap.TokenAmount = amount
			snap.TokenDecimals = decimals
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
