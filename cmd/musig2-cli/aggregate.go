package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
	"github.com/fuyofulo/solana-token-tss/pkg/solana"
)

var (
	aggPubkeys   string
	aggPartials  string
	aggBlockhash string

	aggSolTo       string
	aggSolLamports uint64
	aggSolMemo     string

	aggSPLMint          string
	aggSPLTo            string
	aggSPLAmount        uint64
	aggSPLDecimals      uint8
	aggSPLCreateDestATA bool
)

var aggregateSolCmd = &cobra.Command{
	Use:   "aggregate-sol",
	Short: "Combine every participant's partial signature, assemble, and broadcast the native SOL transfer",
	RunE:  runAggregateSol,
}

var aggregateSPLCmd = &cobra.Command{
	Use:   "aggregate-spl",
	Short: "Combine every participant's partial signature, assemble, and broadcast the SPL token transfer",
	RunE:  runAggregateSPL,
}

func init() {
	for _, c := range []*cobra.Command{aggregateSolCmd, aggregateSPLCmd} {
		c.Flags().StringVar(&aggPubkeys, "pubkeys", "", "Ordered, comma-separated base58 participant public keys (required)")
		c.Flags().StringVar(&aggPartials, "partials", "", "Comma-separated base58 PartialSignatures, one per participant (required)")
		c.Flags().StringVar(&aggBlockhash, "blockhash", "", "Base58 recent blockhash, identical to the one used in round2 (required)")
		c.MarkFlagRequired("pubkeys")
		c.MarkFlagRequired("partials")
		c.MarkFlagRequired("blockhash")
	}

	aggregateSolCmd.Flags().StringVar(&aggSolTo, "to", "", "Recipient base58 public key (required)")
	aggregateSolCmd.Flags().Uint64Var(&aggSolLamports, "lamports", 0, "Amount transferred, in lamports (required)")
	aggregateSolCmd.Flags().StringVar(&aggSolMemo, "memo", "", "Memo text, identical to the one used in round2")
	aggregateSolCmd.MarkFlagRequired("to")
	aggregateSolCmd.MarkFlagRequired("lamports")

	aggregateSPLCmd.Flags().StringVar(&aggSPLMint, "mint", "", "Token mint base58 public key (required)")
	aggregateSPLCmd.Flags().StringVar(&aggSPLTo, "to", "", "Recipient wallet base58 public key (required)")
	aggregateSPLCmd.Flags().Uint64Var(&aggSPLAmount, "amount", 0, "Amount transferred, in the token's base units (required)")
	aggregateSPLCmd.Flags().Uint8Var(&aggSPLDecimals, "decimals", 0, "Token decimals (required)")
	aggregateSPLCmd.Flags().BoolVar(&aggSPLCreateDestATA, "create-dest-ata", false, "Must match the value every participant used in round2-spl")
	aggregateSPLCmd.MarkFlagRequired("mint")
	aggregateSPLCmd.MarkFlagRequired("to")
	aggregateSPLCmd.MarkFlagRequired("amount")
	aggregateSPLCmd.MarkFlagRequired("decimals")
}

func parsePartials(csv string) ([]musig2.PartialSignature, error) {
	list, err := splitNonEmpty(csv)
	if err != nil {
		return nil, err
	}
	out := make([]musig2.PartialSignature, 0, len(list))
	for _, p := range list {
		ps, err := musig2.PartialSignatureFromBase58(p)
		if err != nil {
			return nil, fmt.Errorf("invalid partial signature %q: %w", p, err)
		}
		out = append(out, ps)
	}
	return out, nil
}

func runAggregateSol(cmd *cobra.Command, args []string) error {
	pubkeys, err := parsePubkeyList(aggPubkeys)
	if err != nil {
		return err
	}
	apk, err := musig2.Aggregate(pubkeys)
	if err != nil {
		return err
	}
	partials, err := parsePartials(aggPartials)
	if err != nil {
		return err
	}
	blockhash, err := parseBlockhash(aggBlockhash)
	if err != nil {
		return err
	}
	to, err := decodeBase58Point(aggSolTo)
	if err != nil {
		return err
	}

	message, err := solana.BuildSOLTransfer(apk.Point, to, aggSolLamports, aggSolMemo, blockhash)
	if err != nil {
		return fmt.Errorf("rebuild sol transfer message: %w", err)
	}

	sig, err := musig2.AggregateSignatures(apk, partials, message)
	if err != nil {
		return err
	}

	return broadcast(message, sig)
}

func runAggregateSPL(cmd *cobra.Command, args []string) error {
	pubkeys, err := parsePubkeyList(aggPubkeys)
	if err != nil {
		return err
	}
	apk, err := musig2.Aggregate(pubkeys)
	if err != nil {
		return err
	}
	partials, err := parsePartials(aggPartials)
	if err != nil {
		return err
	}
	blockhash, err := parseBlockhash(aggBlockhash)
	if err != nil {
		return err
	}
	mint, err := decodeBase58Point(aggSPLMint)
	if err != nil {
		return err
	}
	to, err := decodeBase58Point(aggSPLTo)
	if err != nil {
		return err
	}

	message, err := solana.BuildSPLTransfer(apk.Point, mint, to, aggSPLAmount, aggSPLDecimals, blockhash, aggSPLCreateDestATA)
	if err != nil {
		return fmt.Errorf("rebuild spl transfer message: %w", err)
	}

	sig, err := musig2.AggregateSignatures(apk, partials, message)
	if err != nil {
		return err
	}

	return broadcast(message, sig)
}

func broadcast(message []byte, sig musig2.Signature) error {
	rawTx := solana.AssembleTransaction(message, sig.Bytes())

	client, err := newRPCClient()
	if err != nil {
		return err
	}

	txSig, err := client.SendAndConfirm(context.Background(), rawTx)
	if err != nil {
		return err
	}

	fmt.Printf("Broadcast and confirmed: %s\n", txSig)
	return nil
}
