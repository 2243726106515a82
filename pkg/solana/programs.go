package solana

import "github.com/mr-tron/base58"

// Well-known Solana program and sysvar addresses, decoded once at package
// init. These are plain Addresses, not curve points: several of them
// (notably the Associated Token Account program's derived accounts) are
// not required to lie on the curve at all.
var (
	SystemProgramID          = mustDecodeAddress("11111111111111111111111111111111")
	TokenProgramID           = mustDecodeAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenProgramID = mustDecodeAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	RentSysvarID             = mustDecodeAddress("SysvarRent111111111111111111111111111111111")
	MemoProgramID            = mustDecodeAddress("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

func mustDecodeAddress(b58 string) Address {
	raw, err := base58.Decode(b58)
	if err != nil {
		panic("solana: invalid well-known address " + b58 + ": " + err.Error())
	}
	if len(raw) != 32 {
		panic("solana: well-known address " + b58 + " is not 32 bytes")
	}
	var a Address
	copy(a[:], raw)
	return a
}
