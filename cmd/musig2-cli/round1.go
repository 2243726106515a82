package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
)

var (
	round1KeypairFile string
	round1SecretOut   string
)

var round1Cmd = &cobra.Command{
	Use:   "round1",
	Short: "Run round one: sample a fresh nonce pair and emit the first-round message",
	RunE:  runRound1,
}

func init() {
	round1Cmd.Flags().StringVar(&round1KeypairFile, "keypair", "", "Keypair file (required)")
	round1Cmd.Flags().StringVar(&round1SecretOut, "secret-out", "", "Output session secret file (default: <config-dir>/session-secret.b58)")
	round1Cmd.MarkFlagRequired("keypair")
}

func runRound1(cmd *cobra.Command, args []string) error {
	kp, err := loadKeypair(round1KeypairFile)
	if err != nil {
		return err
	}

	msg, secret, err := musig2.RoundOne(kp, rand.Reader)
	if err != nil {
		return err
	}

	out := round1SecretOut
	if out == "" {
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		out = filepath.Join(configDir, "session-secret.b58")
	}
	if err := os.WriteFile(out, []byte(secret.Base58()), 0600); err != nil {
		return fmt.Errorf("write session secret: %w", err)
	}

	log.Info().Str("file", out).Msg("wrote session secret")
	fmt.Printf("First-round message (send to peers): %s\n", msg.Base58())
	fmt.Printf("Session secret written to: %s\n", out)
	return nil
}

func loadSessionSecret(path string) (*musig2.SessionSecret, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session secret file: %w", err)
	}
	return musig2.SessionSecretFromBase58(string(data))
}
