package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/bundle"
	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
)

var (
	bundleFile      string
	bundleSessionID string
	bundlePubkey    string
	bundleMessage   string
)

var bundleAddCmd = &cobra.Command{
	Use:   "bundle-add",
	Short: "Record one peer's FirstRoundMessage into the local session bundle cache",
	Long: `bundle-add collects peer FirstRoundMessages into a single local file
(pkg/bundle) so round2-sol/round2-spl can be run with --bundle instead of
re-pasting every peer's --peer-messages value by hand. Call it once per
peer message received.`,
	RunE: runBundleAdd,
}

var bundleShowCmd = &cobra.Command{
	Use:   "bundle-show",
	Short: "Print the contents of a local session bundle cache",
	RunE:  runBundleShow,
}

func init() {
	for _, c := range []*cobra.Command{bundleAddCmd, bundleShowCmd} {
		c.Flags().StringVar(&bundleFile, "file", "", "Bundle file path (default: <config-dir>/bundle.cbor)")
	}
	bundleAddCmd.Flags().StringVar(&bundleSessionID, "session-id", "", "Caller-chosen identifier grouping this signing session's messages (required)")
	bundleAddCmd.Flags().StringVar(&bundlePubkey, "pubkey", "", "Base58 public key of the peer this message came from (required)")
	bundleAddCmd.Flags().StringVar(&bundleMessage, "message", "", "Base58 FirstRoundMessage received from that peer (required)")
	bundleAddCmd.MarkFlagRequired("session-id")
	bundleAddCmd.MarkFlagRequired("pubkey")
	bundleAddCmd.MarkFlagRequired("message")
}

func bundlePath() string {
	if bundleFile != "" {
		return bundleFile
	}
	return filepath.Join(configDir, "bundle.cbor")
}

func loadOrNewBundle(path, sessionID string) (bundle.Bundle, error) {
	b, err := bundle.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return bundle.Bundle{SessionID: sessionID}, nil
		}
		return bundle.Bundle{}, err
	}
	if b.SessionID != sessionID {
		return bundle.Bundle{}, fmt.Errorf("bundle at %s belongs to session %q, not %q", path, b.SessionID, sessionID)
	}
	return b, nil
}

func runBundleAdd(cmd *cobra.Command, args []string) error {
	if _, err := decodeBase58Point(bundlePubkey); err != nil {
		return err
	}
	if _, err := musig2.FirstRoundMessageFromBase58(bundleMessage); err != nil {
		return fmt.Errorf("invalid first-round message: %w", err)
	}

	path := bundlePath()
	b, err := loadOrNewBundle(path, bundleSessionID)
	if err != nil {
		return err
	}

	replaced := false
	for i, pk := range b.Pubkeys {
		if pk == bundlePubkey {
			b.PeerMessages[i] = bundleMessage
			replaced = true
			break
		}
	}
	if !replaced {
		b.Pubkeys = append(b.Pubkeys, bundlePubkey)
		b.PeerMessages = append(b.PeerMessages, bundleMessage)
	}

	if err := bundle.Save(path, b); err != nil {
		return err
	}
	fmt.Printf("Recorded peer message for %s (bundle now has %d entries)\n", bundlePubkey, len(b.Pubkeys))
	return nil
}

func runBundleShow(cmd *cobra.Command, args []string) error {
	b, err := bundle.Load(bundlePath())
	if err != nil {
		return err
	}
	fmt.Printf("Session: %s\n", b.SessionID)
	for i, pk := range b.Pubkeys {
		fmt.Printf("  %s => %s\n", pk, b.PeerMessages[i])
	}
	return nil
}

// peerMessagesFromBundle orders the bundle's cached peer messages to
// match pubkeys, skipping the caller's own public key — the same
// ordering round2 expects from --peer-messages.
func peerMessagesFromBundle(b bundle.Bundle, pubkeys []string, ownPubkey string) ([]musig2.FirstRoundMessage, error) {
	byKey := make(map[string]string, len(b.Pubkeys))
	for i, pk := range b.Pubkeys {
		byKey[pk] = b.PeerMessages[i]
	}

	msgs := make([]musig2.FirstRoundMessage, 0, len(pubkeys)-1)
	for _, pk := range pubkeys {
		if pk == ownPubkey {
			continue
		}
		raw, ok := byKey[pk]
		if !ok || raw == "" {
			return nil, fmt.Errorf("bundle is missing a first-round message from participant %s", pk)
		}
		m, err := musig2.FirstRoundMessageFromBase58(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid cached first-round message for %s: %w", pk, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
