package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/bundle"
	"github.com/fuyofulo/solana-token-tss/pkg/keypair"
	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
	"github.com/fuyofulo/solana-token-tss/pkg/solana"
)

var (
	round2KeypairFile string
	round2SecretFile  string
	round2Pubkeys     string
	round2PeerMsgs    string
	round2BundleFile  string
	round2Blockhash   string

	round2SolTo       string
	round2SolLamports uint64
	round2SolMemo     string

	round2SPLMint          string
	round2SPLTo            string
	round2SPLAmount        uint64
	round2SPLDecimals      uint8
	round2SPLCreateDestATA bool
)

var round2SolCmd = &cobra.Command{
	Use:   "round2-sol",
	Short: "Run round two over a native SOL transfer message and emit this party's partial signature",
	RunE:  runRound2Sol,
}

var round2SPLCmd = &cobra.Command{
	Use:   "round2-spl",
	Short: "Run round two over an SPL token transfer message and emit this party's partial signature",
	RunE:  runRound2SPL,
}

func init() {
	for _, c := range []*cobra.Command{round2SolCmd, round2SPLCmd} {
		c.Flags().StringVar(&round2KeypairFile, "keypair", "", "Keypair file (required)")
		c.Flags().StringVar(&round2SecretFile, "secret", "", "Session secret file written by round1 (required)")
		c.Flags().StringVar(&round2Pubkeys, "pubkeys", "", "Ordered, comma-separated base58 participant public keys (required)")
		c.Flags().StringVar(&round2PeerMsgs, "peer-messages", "", "Comma-separated base58 peer FirstRoundMessages, ordered to match --pubkeys with this party's own slot omitted (mutually exclusive with --bundle)")
		c.Flags().StringVar(&round2BundleFile, "bundle", "", "Local session bundle file written by bundle-add, used instead of --peer-messages")
		c.Flags().StringVar(&round2Blockhash, "blockhash", "", "Base58 recent blockhash (required)")
		c.MarkFlagRequired("keypair")
		c.MarkFlagRequired("secret")
		c.MarkFlagRequired("pubkeys")
		c.MarkFlagRequired("blockhash")
	}

	round2SolCmd.Flags().StringVar(&round2SolTo, "to", "", "Recipient base58 public key (required)")
	round2SolCmd.Flags().Uint64Var(&round2SolLamports, "lamports", 0, "Amount to transfer, in lamports (required)")
	round2SolCmd.Flags().StringVar(&round2SolMemo, "memo", "", "Optional memo text")
	round2SolCmd.MarkFlagRequired("to")
	round2SolCmd.MarkFlagRequired("lamports")

	round2SPLCmd.Flags().StringVar(&round2SPLMint, "mint", "", "Token mint base58 public key (required)")
	round2SPLCmd.Flags().StringVar(&round2SPLTo, "to", "", "Recipient wallet base58 public key (required)")
	round2SPLCmd.Flags().Uint64Var(&round2SPLAmount, "amount", 0, "Amount to transfer, in the token's base units (required)")
	round2SPLCmd.Flags().Uint8Var(&round2SPLDecimals, "decimals", 0, "Token decimals (required)")
	round2SPLCmd.Flags().BoolVar(&round2SPLCreateDestATA, "create-dest-ata", false, "Prepend a create_associated_token_account instruction for the destination (must be agreed identically by every participant)")
	round2SPLCmd.MarkFlagRequired("mint")
	round2SPLCmd.MarkFlagRequired("to")
	round2SPLCmd.MarkFlagRequired("amount")
	round2SPLCmd.MarkFlagRequired("decimals")
}

func round2Inputs() (*round2LoadedInputs, error) {
	kp, err := loadKeypair(round2KeypairFile)
	if err != nil {
		return nil, err
	}
	secret, err := loadSessionSecret(round2SecretFile)
	if err != nil {
		return nil, err
	}
	pubkeys, err := parsePubkeyList(round2Pubkeys)
	if err != nil {
		return nil, err
	}
	apk, err := musig2.Aggregate(pubkeys)
	if err != nil {
		return nil, err
	}

	var peerMsgs []musig2.FirstRoundMessage
	switch {
	case round2BundleFile != "" && round2PeerMsgs != "":
		return nil, fmt.Errorf("--bundle and --peer-messages are mutually exclusive")
	case round2BundleFile != "":
		b, err := bundle.Load(round2BundleFile)
		if err != nil {
			return nil, err
		}
		pubkeyStrs, err := splitNonEmpty(round2Pubkeys)
		if err != nil {
			return nil, err
		}
		ownPubkey := encodeBase58Point(kp.PublicKey().Bytes())
		peerMsgs, err = peerMessagesFromBundle(b, pubkeyStrs, ownPubkey)
		if err != nil {
			return nil, err
		}
	default:
		peerMsgs, err = parsePeerMessages(round2PeerMsgs)
		if err != nil {
			return nil, err
		}
	}

	blockhash, err := parseBlockhash(round2Blockhash)
	if err != nil {
		return nil, err
	}
	return &round2LoadedInputs{
		kp:        kp,
		secret:    secret,
		apk:       apk,
		peerMsgs:  peerMsgs,
		blockhash: blockhash,
	}, nil
}

type round2LoadedInputs struct {
	kp        *keypair.KeyPair
	secret    *musig2.SessionSecret
	apk       *musig2.AggregatedKey
	peerMsgs  []musig2.FirstRoundMessage
	blockhash [32]byte
}

func runRound2Sol(cmd *cobra.Command, args []string) error {
	in, err := round2Inputs()
	if err != nil {
		return err
	}

	to, err := decodeBase58Point(round2SolTo)
	if err != nil {
		return err
	}

	message, err := solana.BuildSOLTransfer(in.apk.Point, to, round2SolLamports, round2SolMemo, in.blockhash)
	if err != nil {
		return fmt.Errorf("build sol transfer message: %w", err)
	}

	partial, err := musig2.RoundTwo(in.kp, in.apk, in.secret, in.peerMsgs, message)
	if err != nil {
		return err
	}

	fmt.Printf("Partial signature (send to aggregator): %s\n", partial.Base58())
	return nil
}

func runRound2SPL(cmd *cobra.Command, args []string) error {
	in, err := round2Inputs()
	if err != nil {
		return err
	}

	mint, err := decodeBase58Point(round2SPLMint)
	if err != nil {
		return err
	}
	to, err := decodeBase58Point(round2SPLTo)
	if err != nil {
		return err
	}

	message, err := solana.BuildSPLTransfer(in.apk.Point, mint, to, round2SPLAmount, round2SPLDecimals, in.blockhash, round2SPLCreateDestATA)
	if err != nil {
		return fmt.Errorf("build spl transfer message: %w", err)
	}

	partial, err := musig2.RoundTwo(in.kp, in.apk, in.secret, in.peerMsgs, message)
	if err != nil {
		return err
	}

	fmt.Printf("Partial signature (send to aggregator): %s\n", partial.Base58())
	return nil
}
