package rpc

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Network is one of the four networks the CLI's --network flag can name.
type Network string

const (
	NetworkMainnet  Network = "mainnet"
	NetworkTestnet  Network = "testnet"
	NetworkDevnet   Network = "devnet"
	NetworkLocalnet Network = "localnet"
)

func (n Network) valid() bool {
	switch n {
	case NetworkMainnet, NetworkTestnet, NetworkDevnet, NetworkLocalnet:
		return true
	default:
		return false
	}
}

// EndpointConfig holds the default RPC endpoint for each network,
// overridable via environment variables (MUSIG2_RPC_MAINNET_URL, etc.).
// cmd/musig2-cli's --network flag only picks which of these URLs is used;
// no flag sets a URL itself.
type EndpointConfig struct {
	MainnetURL  string `envconfig:"RPC_MAINNET_URL" default:"https://api.mainnet-beta.solana.com"`
	TestnetURL  string `envconfig:"RPC_TESTNET_URL" default:"https://api.testnet.solana.com"`
	DevnetURL   string `envconfig:"RPC_DEVNET_URL" default:"https://api.devnet.solana.com"`
	LocalnetURL string `envconfig:"RPC_LOCALNET_URL" default:"http://127.0.0.1:8899"`
}

// LoadEndpointConfig reads endpoint overrides from the MUSIG2_* environment
// variables, falling back to the well-known public endpoints.
func LoadEndpointConfig() (EndpointConfig, error) {
	var cfg EndpointConfig
	if err := envconfig.Process("musig2", &cfg); err != nil {
		return EndpointConfig{}, err
	}
	return cfg, nil
}

// Endpoint resolves network to its configured RPC URL.
func (c EndpointConfig) Endpoint(network Network) (string, error) {
	switch network {
	case NetworkMainnet:
		return c.MainnetURL, nil
	case NetworkTestnet:
		return c.TestnetURL, nil
	case NetworkDevnet:
		return c.DevnetURL, nil
	case NetworkLocalnet:
		return c.LocalnetURL, nil
	default:
		return "", fmt.Errorf("rpc: unknown network %q", network)
	}
}
