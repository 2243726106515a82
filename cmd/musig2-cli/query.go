package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/solana"
)

var (
	balanceOwner string
	balanceMint  string

	airdropTo       string
	airdropLamports uint64
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Fetch an owner's SOL balance and, with --mint, its associated token account balance",
	RunE:  runBalance,
}

var blockhashCmd = &cobra.Command{
	Use:   "blockhash",
	Short: "Fetch the cluster's latest finalized blockhash",
	RunE:  runBlockhash,
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop",
	Short: "Request a devnet/localnet SOL airdrop",
	RunE:  runAirdrop,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceOwner, "owner", "", "Owner base58 public key (required)")
	balanceCmd.Flags().StringVar(&balanceMint, "mint", "", "Token mint base58 public key; when set, also reports the owner's associated token account balance")
	balanceCmd.MarkFlagRequired("owner")

	airdropCmd.Flags().StringVar(&airdropTo, "to", "", "Recipient base58 public key (required)")
	airdropCmd.Flags().Uint64Var(&airdropLamports, "lamports", 1_000_000_000, "Amount to airdrop, in lamports")
	airdropCmd.MarkFlagRequired("to")
}

func runBalance(cmd *cobra.Command, args []string) error {
	owner, err := decodeBase58Point(balanceOwner)
	if err != nil {
		return err
	}
	ownerAddr := solana.AddressFromPoint(owner)

	var ataAddr solana.Address
	if balanceMint != "" {
		mint, err := decodeBase58Point(balanceMint)
		if err != nil {
			return err
		}
		ataAddr, err = solana.DeriveATA(owner, mint)
		if err != nil {
			return fmt.Errorf("derive associated token account: %w", err)
		}
	}

	client, err := newRPCClient()
	if err != nil {
		return err
	}

	snap, err := client.GetSnapshot(context.Background(), ownerAddr, ataAddr)
	if err != nil {
		return err
	}

	fmt.Printf("SOL balance: %d lamports\n", snap.SOLBalance)
	if balanceMint != "" {
		if !snap.ATAExists {
			fmt.Println("Associated token account: not yet created")
		} else {
			fmt.Printf("Token balance: %d (decimals %d)\n", snap.TokenAmount, snap.TokenDecimals)
		}
	}
	return nil
}

func runBlockhash(cmd *cobra.Command, args []string) error {
	client, err := newRPCClient()
	if err != nil {
		return err
	}

	hash, err := client.GetLatestBlockhash(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(encodeBase58Point(hash))
	return nil
}

func runAirdrop(cmd *cobra.Command, args []string) error {
	to, err := decodeBase58Point(airdropTo)
	if err != nil {
		return err
	}

	client, err := newRPCClient()
	if err != nil {
		return err
	}

	sig, err := client.RequestAirdrop(context.Background(), solana.AddressFromPoint(to), airdropLamports)
	if err != nil {
		return err
	}

	fmt.Printf("Airdrop requested: %s\n", sig)
	return nil
}
