// Package bundle persists a signing session's collected peer wire values
// to a single local file, so an operator running round2 doesn't have to
// re-paste every peer's FirstRoundMessage by hand on every invocation.
//
// A bundle is never transmitted between participants — only the base58
// wire values it caches are. It is purely an operator convenience around
// cmd/musig2-cli's otherwise fully stateless, flag-driven invocations.
package bundle

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// checksumSize is the length, in bytes, of the blake3 digest appended to
// the end of every bundle file.
const checksumSize = 32

// Bundle is the cbor-encoded payload written to disk.
type Bundle struct {
	SessionID    string   `cbor:"session_id"`
	Pubkeys      []string `cbor:"pubkeys"`
	PeerMessages []string `cbor:"peer_messages"`
}

// ErrChecksumMismatch indicates a bundle file was truncated or corrupted
// since it was written.
var ErrChecksumMismatch = fmt.Errorf("bundle: checksum mismatch, file is corrupt or truncated")

func checksum(payload []byte) []byte {
	h := blake3.New()
	h.Write(payload)
	return h.Sum(nil)
}

// Save cbor-encodes b and writes it to path with a trailing blake3
// checksum over the encoded payload.
func Save(path string, b Bundle) error {
	payload, err := cbor.Marshal(b)
	if err != nil {
		return fmt.Errorf("bundle: marshal: %w", err)
	}

	out := make([]byte, 0, len(payload)+checksumSize)
	out = append(out, payload...)
	out = append(out, checksum(payload)...)

	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("bundle: write %s: %w", path, err)
	}
	return nil
}

// Load reads and verifies the bundle file at path, returning
// ErrChecksumMismatch if the trailing checksum doesn't match the stored
// payload.
func Load(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("bundle: read %s: %w", path, err)
	}
	if len(data) < checksumSize {
		return Bundle{}, ErrChecksumMismatch
	}

	payload := data[:len(data)-checksumSize]
	want := data[len(data)-checksumSize:]
	if !bytes.Equal(checksum(payload), want) {
		return Bundle{}, ErrChecksumMismatch
	}

	var b Bundle
	if err := cbor.Unmarshal(payload, &b); err != nil {
		return Bundle{}, fmt.Errorf("bundle: unmarshal: %w", err)
	}
	return b, nil
}
