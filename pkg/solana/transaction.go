package solana

import "bytes"

// AssembleTransaction prepends a single signature to an already-serialized
// message, producing the final broadcastable transaction bytes.
//
// An n-of-n MuSig2 signer always produces exactly one required signature:
// the aggregated key itself, which round_two's message builders
// (BuildSOLTransfer/BuildSPLTransfer) always place at account-key index 0
// as the fee payer. Because messageBytes is the exact output of the same
// builder that musig2.AggregateSignatures verified signature against,
// there is no message to recompile here — only bytes to concatenate.
func AssembleTransaction(messageBytes []byte, signature [64]byte) []byte {
	buf := new(bytes.Buffer)
	// compact-u16(1) is always the single byte 0x01.
	buf.WriteByte(1)
	buf.Write(signature[:])
	buf.Write(messageBytes)
	return buf.Bytes()
}
