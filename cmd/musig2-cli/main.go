// Command musig2-cli drives a stateless n-of-n MuSig2 Ed25519 threshold
// signer for Solana transfers: one invocation per round, per participant,
// communicating only through base58 wire values printed to stdout/read
// from flags or files.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fuyofulo/solana-token-tss/pkg/rpc"
)

var (
	configDir   string
	networkFlag string
	verbose     bool

	rootCmd = &cobra.Command{
		Use:   "musig2-cli",
		Short: "Stateless n-of-n MuSig2 Ed25519 threshold signer for Solana transfers",
		// main's printErr is the only thing that reports a failed command.
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `musig2-cli runs each round of the two-round MuSig2 protocol as a
separate, stateless command invocation. Every wire value a participant
needs to send to its peers is printed to stdout as base58 text; every
secret a participant must hold between rounds is written to a local file
under --config-dir.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "d", "./.musig2", "Local directory for session secrets and bundles")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "devnet", "Network: mainnet, testnet, devnet, localnet")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug-level) logging")

	rootCmd.AddCommand(keygenCmd, aggregateKeysCmd, round1Cmd, round2SolCmd, round2SPLCmd,
		aggregateSolCmd, aggregateSPLCmd, balanceCmd, blockhashCmd, airdropCmd,
		bundleAddCmd, bundleShowCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printErr(err)
		os.Exit(1)
	}
}

// printErr prints exactly one secret-free line to stderr naming the
// error's Kind (when it carries one) and its message.
func printErr(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", describeErr(err))
}

func resolveNetwork() (rpc.Network, error) {
	switch networkFlag {
	case "mainnet":
		return rpc.NetworkMainnet, nil
	case "testnet":
		return rpc.NetworkTestnet, nil
	case "devnet":
		return rpc.NetworkDevnet, nil
	case "localnet":
		return rpc.NetworkLocalnet, nil
	default:
		return "", fmt.Errorf("unknown network %q (want mainnet, testnet, devnet, or localnet)", networkFlag)
	}
}

func newRPCClient() (*rpc.Client, error) {
	network, err := resolveNetwork()
	if err != nil {
		return nil, err
	}
	cfg, err := rpc.LoadEndpointConfig()
	if err != nil {
		return nil, fmt.Errorf("load rpc endpoint config: %w", err)
	}
	return rpc.New(network, cfg)
}
