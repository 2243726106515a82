// Package rpc is a thin facade over github.com/gagliardetto/solana-go's
// RPC client, subdividing its errors by the collaborator's own reason
// (KindNetwork, KindAccountNotFound, KindInsufficientFunds,
// KindBroadcastRejected) and exposing exactly the operations
// cmd/musig2-cli needs to broadcast a MuSig2-signed transaction and
// answer read-only balance/blockhash queries.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gagbin "github.com/gagliardetto/binary"
	gagsolana "github.com/gagliardetto/solana-go"
	gagrpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"

	"github.com/fuyofulo/solana-token-tss/pkg/solana"
)

// Client wraps a single network's RPC endpoint.
type Client struct {
	network Network
	rpc     *gagrpc.Client
}

// New constructs a Client for network, resolving its endpoint from cfg.
func New(network Network, cfg EndpointConfig) (*Client, error) {
	if !network.valid() {
		return nil, newRPCErr(KindNetwork, fmt.Errorf("rpc: unknown network %q", network))
	}
	endpoint, err := cfg.Endpoint(network)
	if err != nil {
		return nil, newRPCErr(KindNetwork, err)
	}
	log.Debug().Str("network", string(network)).Str("endpoint", endpoint).Msg("constructing rpc client")
	return &Client{network: network, rpc: gagrpc.New(endpoint)}, nil
}

func toGagPubkey(addr solana.Address) gagsolana.PublicKey {
	return gagsolana.PublicKeyFromBytes(addr[:])
}

// GetLatestBlockhash returns the cluster's most recent finalized
// blockhash, for use as a transaction's RecentBlockhash.
func (c *Client) GetLatestBlockhash(ctx context.Context) ([32]byte, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, gagrpc.CommitmentFinalized)
	if err != nil {
		return [32]byte{}, newRPCErr(KindNetwork, fmt.Errorf("get latest blockhash: %w", err))
	}
	var hash [32]byte
	copy(hash[:], out.Value.Blockhash[:])
	return hash, nil
}

// AccountExists reports whether addr has been initialized on-chain.
func (c *Client) AccountExists(ctx context.Context, addr solana.Address) (bool, error) {
	_, err := c.rpc.GetAccountInfo(ctx, toGagPubkey(addr))
	if err != nil {
		if errors.Is(err, gagrpc.ErrNotFound) {
			return false, nil
		}
		return false, newRPCErr(KindNetwork, fmt.Errorf("get account info: %w", err))
	}
	return true, nil
}

// GetSOLBalance returns addr's lamport balance.
func (c *Client) GetSOLBalance(ctx context.Context, addr solana.Address) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, toGagPubkey(addr), gagrpc.CommitmentFinalized)
	if err != nil {
		return 0, newRPCErr(KindNetwork, fmt.Errorf("get balance: %w", err))
	}
	return out.Value, nil
}

// GetTokenBalance returns the raw (base-unit) token balance held by the
// token account at addr, and the mint's decimals.
func (c *Client) GetTokenBalance(ctx context.Context, addr solana.Address) (rawAmount uint64, decimals uint8, err error) {
	out, err := c.rpc.GetTokenAccountBalance(ctx, toGagPubkey(addr), gagrpc.CommitmentFinalized)
	if err != nil {
		if errors.Is(err, gagrpc.ErrNotFound) {
			return 0, 0, newRPCErr(KindAccountNotFound, fmt.Errorf("get token account balance: %w", err))
		}
		return 0, 0, newRPCErr(KindNetwork, fmt.Errorf("get token account balance: %w", err))
	}
	var amount uint64
	if _, scanErr := fmt.Sscanf(out.Value.Amount, "%d", &amount); scanErr != nil {
		return 0, 0, newRPCErr(KindNetwork, fmt.Errorf("parse token balance %q: %w", out.Value.Amount, scanErr))
	}
	return amount, out.Value.Decimals, nil
}

// SendAndConfirm broadcasts a fully signed, serialized transaction and
// blocks until the cluster reports it finalized or ctx is done.
func (c *Client) SendAndConfirm(ctx context.Context, rawTx []byte) (string, error) {
	tx, err := gagsolana.TransactionFromDecoder(gagbin.NewBinDecoder(rawTx))
	if err != nil {
		return "", newRPCErr(KindBroadcastRejected, fmt.Errorf("decode transaction: %w", err))
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, gagrpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: gagrpc.CommitmentFinalized,
	})
	if err != nil {
		if isInsufficientFunds(err) {
			return "", newRPCErr(KindInsufficientFunds, fmt.Errorf("send transaction: %w", err))
		}
		return "", newRPCErr(KindBroadcastRejected, fmt.Errorf("send transaction: %w", err))
	}

	log.Info().Str("signature", sig.String()).Str("network", string(c.network)).Msg("transaction broadcast")

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		return sig.String(), err
	}
	return sig.String(), nil
}

func (c *Client) waitForConfirmation(ctx context.Context, sig gagsolana.Signature) error {
	ticker := time.NewTicker(750 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return newRPCErr(KindNetwork, fmt.Errorf("wait for confirmation: %w", ctx.Err()))
		case <-ticker.C:
			out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
			if err != nil {
				return newRPCErr(KindNetwork, fmt.Errorf("get signature statuses: %w", err))
			}
			if len(out.Value) == 0 || out.Value[0] == nil {
				continue
			}
			status := out.Value[0]
			if status.Err != nil {
				return newRPCErr(KindBroadcastRejected, fmt.Errorf("transaction failed on-chain: %v", status.Err))
			}
			if status.ConfirmationStatus == gagrpc.ConfirmationStatusFinalized {
				return nil
			}
		}
	}
}

func isInsufficientFunds(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "insufficient")
}

// RequestAirdrop requests lamports of SOL be airdropped to addr.
// Airdrop is only available on devnet and localnet.
func (c *Client) RequestAirdrop(ctx context.Context, addr solana.Address, lamports uint64) (string, error) {
	if c.network != NetworkDevnet && c.network != NetworkLocalnet {
		return "", ErrAirdropUnsupportedOnNetwork
	}
	sig, err := c.rpc.RequestAirdrop(ctx, toGagPubkey(addr), lamports, gagrpc.CommitmentFinalized)
	if err != nil {
		return "", newRPCErr(KindBroadcastRejected, fmt.Errorf("request airdrop: %w", err))
	}
	return sig.String(), nil
}
