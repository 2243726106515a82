package rpc_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuyofulo/solana-token-tss/pkg/rpc"
	"github.com/fuyofulo/solana-token-tss/pkg/solana"
)

func TestLoadEndpointConfigDefaultsWithoutEnv(t *testing.T) {
	for _, key := range []string{
		"MUSIG2_RPC_MAINNET_URL", "MUSIG2_RPC_TESTNET_URL",
		"MUSIG2_RPC_DEVNET_URL", "MUSIG2_RPC_LOCALNET_URL",
	} {
		os.Unsetenv(key)
	}

	cfg, err := rpc.LoadEndpointConfig()
	require.NoError(t, err)

	url, err := cfg.Endpoint(rpc.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", url)
}

func TestLoadEndpointConfigHonorsEnvOverride(t *testing.T) {
	t.Setenv("MUSIG2_RPC_DEVNET_URL", "http://example.invalid:8899")

	cfg, err := rpc.LoadEndpointConfig()
	require.NoError(t, err)

	url, err := cfg.Endpoint(rpc.NetworkDevnet)
	require.NoError(t, err)
	assert.Equal(t, "http://example.invalid:8899", url)
}

func TestNewRejectsUnknownNetwork(t *testing.T) {
	cfg, err := rpc.LoadEndpointConfig()
	require.NoError(t, err)

	_, err = rpc.New(rpc.Network("bogus"), cfg)
	assert.Error(t, err)
}

func TestNewAcceptsEachKnownNetwork(t *testing.T) {
	cfg, err := rpc.LoadEndpointConfig()
	require.NoError(t, err)

	for _, n := range []rpc.Network{rpc.NetworkMainnet, rpc.NetworkTestnet, rpc.NetworkDevnet, rpc.NetworkLocalnet} {
		_, err := rpc.New(n, cfg)
		assert.NoError(t, err, "network=%s", n)
	}
}

func TestRequestAirdropRejectsMainnetWithoutAnyNetworkCall(t *testing.T) {
	cfg, err := rpc.LoadEndpointConfig()
	require.NoError(t, err)

	client, err := rpc.New(rpc.NetworkMainnet, cfg)
	require.NoError(t, err)

	var addr solana.Address
	_, err = client.RequestAirdrop(context.Background(), addr, 1)
	assert.ErrorIs(t, err, rpc.ErrAirdropUnsupportedOnNetwork)
}
