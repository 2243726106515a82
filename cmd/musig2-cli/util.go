package main

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/fuyofulo/solana-token-tss/pkg/curve"
	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
)

func encodeBase58Point(b [32]byte) string {
	return base58.Encode(b[:])
}

func decodeBase58Point(s string) (curve.Point, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return curve.Point{}, fmt.Errorf("invalid base58 public key %q: %w", s, err)
	}
	if len(raw) != 32 {
		return curve.Point{}, fmt.Errorf("public key %q is %d bytes, want 32", s, len(raw))
	}
	var buf [32]byte
	copy(buf[:], raw)
	return curve.DecodePoint(buf)
}

// parsePubkeyList parses a comma-separated, order-significant list of
// base58 public keys, as accepted by --pubkeys everywhere it appears.
func parsePubkeyList(csv string) ([]curve.Point, error) {
	parts := strings.Split(csv, ",")
	pubkeys := make([]curve.Point, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pk, err := decodeBase58Point(p)
		if err != nil {
			return nil, err
		}
		pubkeys = append(pubkeys, pk)
	}
	if len(pubkeys) < 2 {
		return nil, fmt.Errorf("--pubkeys must list at least 2 participants, got %d", len(pubkeys))
	}
	return pubkeys, nil
}

// parsePeerMessages parses a comma-separated list of base58
// FirstRoundMessages, in the order the caller's round2 flags supplied
// them (which must match apk's participant order with the caller's own
// slot omitted).
func parsePeerMessages(csv string) ([]musig2.FirstRoundMessage, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	msgs := make([]musig2.FirstRoundMessage, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m, err := musig2.FirstRoundMessageFromBase58(p)
		if err != nil {
			return nil, fmt.Errorf("invalid peer first-round message %q: %w", p, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// splitNonEmpty splits a comma-separated list, trimming whitespace and
// dropping empty fields.
func splitNonEmpty(csv string) ([]string, error) {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("expected at least one comma-separated value, got none")
	}
	return out, nil
}

func parseBlockhash(s string) ([32]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid base58 blockhash %q: %w", s, err)
	}
	if len(raw) != 32 {
		return [32]byte{}, fmt.Errorf("blockhash %q is %d bytes, want 32", s, len(raw))
	}
	var out [32]byte
	copy(out[:], raw)
	return out, nil
}
