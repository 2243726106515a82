package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
	"github.com/fuyofulo/solana-token-tss/pkg/party"
)

var aggregateKeysPubkeys string

var aggregateKeysCmd = &cobra.Command{
	Use:   "aggregate-keys",
	Short: "Print the aggregated public key (APK) for an ordered participant list",
	RunE:  runAggregateKeys,
}

func init() {
	aggregateKeysCmd.Flags().StringVar(&aggregateKeysPubkeys, "pubkeys", "", "Ordered, comma-separated base58 participant public keys (required)")
	aggregateKeysCmd.MarkFlagRequired("pubkeys")
}

func runAggregateKeys(cmd *cobra.Command, args []string) error {
	pubkeys, err := parsePubkeyList(aggregateKeysPubkeys)
	if err != nil {
		return err
	}

	apk, err := musig2.Aggregate(pubkeys)
	if err != nil {
		return err
	}

	labels := make(party.IDSlice, len(pubkeys))
	for i := range pubkeys {
		labels[i] = party.ID(fmt.Sprintf("party-%d", i+1))
	}
	for i, pk := range pubkeys {
		b := pk.Bytes()
		fmt.Printf("  %s (index %d): %s\n", labels[i], i, encodeBase58Point(b))
	}

	b := apk.Point.Bytes()
	fmt.Printf("Aggregated public key: %s\n", encodeBase58Point(b))
	return nil
}
