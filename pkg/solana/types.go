// Package solana builds and serializes legacy-format Solana transactions
// signed by a MuSig2 aggregated key. The message layout, compact-u16
// encoding, and privilege-sorted account-key ordering follow the same
// scheme real Solana clients use; this package only ever produces the
// bytes that get signed and broadcast, never touches private key material.
package solana

import (
	"fmt"

	"github.com/fuyofulo/solana-token-tss/pkg/curve"
	"github.com/mr-tron/base58"
)

// Address is a raw 32-byte Solana account address. Unlike pkg/curve.Point,
// an Address is not required to be a valid curve point: program-derived
// addresses (the destination/source Associated Token Accounts this
// package derives in ata.go) are deliberately searched for off-curve, so
// account keys throughout this package are plain bytes rather than group
// elements. A signer's actual public key (the APK, or any wallet owner
// passed in by the caller) is still a curve.Point at the API boundary;
// AddressFromPoint converts it to an Address once it's about to become an
// account-key byte string rather than an operand of group arithmetic.
type Address [32]byte

// AddressFromPoint converts a curve point (a real Ed25519 public key) to
// its account-address byte form.
func AddressFromPoint(p curve.Point) Address {
	return Address(p.Bytes())
}

// AddressFromBase58 decodes a base58 Solana address.
func AddressFromBase58(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("solana: invalid base58 address %q: %w", s, err)
	}
	if len(raw) != 32 {
		return Address{}, fmt.Errorf("solana: invalid address length %d, want 32", len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// Bytes returns the raw 32-byte address.
func (a Address) Bytes() [32]byte { return [32]byte(a) }

// Base58 returns the base58 string form of the address.
func (a Address) Base58() string { return base58.Encode(a[:]) }

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool { return a == Address{} }

// AccountMeta describes one account's role in an Instruction, before
// message compilation assigns it an index.
type AccountMeta struct {
	PubKey     Address
	IsSigner   bool
	IsWritable bool
}

// Instruction is a high-level instruction, referencing accounts by address
// rather than by compiled index.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// CompiledInstruction is an Instruction with its accounts resolved to
// indexes into a Message's AccountKeys.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

// MessageHeader is the 3-byte header of a legacy Solana message.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// Message is a compiled legacy-format Solana transaction message: the
// part that gets signed.
type Message struct {
	Header          MessageHeader
	AccountKeys     []Address
	RecentBlockhash [32]byte
	Instructions    []CompiledInstruction
}

// Transaction is a Message plus its signatures, ready for broadcast.
type Transaction struct {
	Signatures [][64]byte
	Message    Message
}

// accountEntry tracks a pending account's merged permissions during
// compilation, before the four privilege groups are sorted and flattened.
type accountEntry struct {
	pubKey     Address
	isSigner   bool
	isWritable bool
}

var errNoInstructions = fmt.Errorf("solana: no instructions provided")
