package bundle_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuyofulo/solana-token-tss/pkg/bundle"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bundle")
	want := bundle.Bundle{
		SessionID:    "session-1",
		Pubkeys:      []string{"pubA", "pubB"},
		PeerMessages: []string{"msgA", "msgB"},
	}

	require.NoError(t, bundle.Save(path, want))

	got, err := bundle.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bundle")
	b := bundle.Bundle{SessionID: "s", Pubkeys: []string{"a"}, PeerMessages: []string{"b"}}
	require.NoError(t, bundle.Save(path, b))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-1], 0600))

	_, err = bundle.Load(path)
	assert.ErrorIs(t, err, bundle.ErrChecksumMismatch)
}

func TestLoadRejectsCorruptedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bundle")
	b := bundle.Bundle{SessionID: "s", Pubkeys: []string{"a"}, PeerMessages: []string{"b"}}
	require.NoError(t, bundle.Save(path, b))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0600))

	_, err = bundle.Load(path)
	assert.ErrorIs(t, err, bundle.ErrChecksumMismatch)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := bundle.Load(filepath.Join(t.TempDir(), "does-not-exist.bundle"))
	assert.Error(t, err)
}

func TestLoadRejectsTooShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bundle")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0600))

	_, err := bundle.Load(path)
	assert.ErrorIs(t, err, bundle.ErrChecksumMismatch)
}
