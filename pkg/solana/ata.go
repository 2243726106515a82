package solana

import (
	"fmt"

	"github.com/fuyofulo/solana-token-tss/pkg/curve"
	gagsolana "github.com/gagliardetto/solana-go"
)

// DeriveATA computes the Associated Token Account address for owner's
// holdings of mint, using the real off-curve bump-seed program-derived
// address search (github.com/gagliardetto/solana-go's FindProgramAddress)
// seeded [owner, token program, mint] under the Associated Token Account
// program, matching the standard ATA derivation every Solana client uses.
//
// The result is an Address, not a curve.Point: a program-derived address
// is found precisely because it does NOT lie on the curve (so that no
// private key can exist for it), so it must never be routed through
// pkg/curve's point-decoding path.
func DeriveATA(owner, mint curve.Point) (Address, error) {
	ownerAddr := AddressFromPoint(owner)
	mintAddr := AddressFromPoint(mint)

	seeds := [][]byte{ownerAddr[:], TokenProgramID[:], mintAddr[:]}

	addr, _, err := gagsolana.FindProgramAddress(seeds, gagsolana.PublicKeyFromBytes(AssociatedTokenProgramID[:]))
	if err != nil {
		return Address{}, fmt.Errorf("solana: derive associated token account: %w", err)
	}

	var out Address
	copy(out[:], addr.Bytes())
	return out, nil
}
