package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/keypair"
)

var keygenOutput string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a fresh Ed25519 keypair for this participant",
	RunE:  runKeygen,
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenOutput, "output", "o", "", "Output keypair file (default: <config-dir>/keypair.json)")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	kp, err := keypair.GenerateDefault()
	if err != nil {
		return fmt.Errorf("generate keypair: %w", err)
	}

	data, err := json.MarshalIndent(kp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keypair: %w", err)
	}

	out := keygenOutput
	if out == "" {
		out = filepath.Join(configDir, "keypair.json")
	}
	if err := os.WriteFile(out, data, 0600); err != nil {
		return fmt.Errorf("write keypair file: %w", err)
	}

	pub := kp.PublicKey().Bytes()
	pubB58 := encodeBase58Point(pub)

	log.Info().Str("file", out).Msg("wrote keypair")
	fmt.Printf("Public key: %s\n", pubB58)
	fmt.Printf("Keypair written to: %s\n", out)
	return nil
}

func loadKeypair(path string) (*keypair.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	var kp keypair.KeyPair
	if err := json.Unmarshal(data, &kp); err != nil {
		return nil, fmt.Errorf("decode keypair file: %w", err)
	}
	return &kp, nil
}
