package solana

import (
	"encoding/binary"
	"fmt"

	"github.com/fuyofulo/solana-token-tss/pkg/curve"
)

const (
	systemTransferVariant = uint32(2)
	splTransferCheckedOp  = uint8(12)
)

// buildSystemTransferInstruction builds a SystemProgram.Transfer
// instruction. Data layout: u32 LE variant(2) ‖ u64 LE lamports.
func buildSystemTransferInstruction(from, to Address, lamports uint64) Instruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], systemTransferVariant)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			{PubKey: from, IsSigner: true, IsWritable: true},
			{PubKey: to, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}
}

// buildMemoInstruction builds an SPL Memo instruction. The memo program
// takes the raw UTF-8 bytes of the memo as instruction data, unprefixed.
func buildMemoInstruction(memo string) Instruction {
	return Instruction{
		ProgramID: MemoProgramID,
		Accounts:  nil,
		Data:      []byte(memo),
	}
}

// buildCreateATAInstruction builds a create_associated_token_account
// instruction. Data is empty; accounts are payer, ata, wallet, mint,
// system program, token program, rent sysvar, in that order.
func buildCreateATAInstruction(payer, ata, wallet, mint Address) Instruction {
	return Instruction{
		ProgramID: AssociatedTokenProgramID,
		Accounts: []AccountMeta{
			{PubKey: payer, IsSigner: true, IsWritable: true},
			{PubKey: ata, IsSigner: false, IsWritable: true},
			{PubKey: wallet, IsSigner: false, IsWritable: false},
			{PubKey: mint, IsSigner: false, IsWritable: false},
			{PubKey: SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: RentSysvarID, IsSigner: false, IsWritable: false},
		},
		Data: nil,
	}
}

// buildTransferCheckedInstruction builds an SPL Token TransferChecked
// instruction. Data layout: opcode(12) ‖ u64 LE raw_amount ‖ u8 decimals.
func buildTransferCheckedInstruction(sourceATA, mint, destATA, authority Address, rawAmount uint64, decimals uint8) Instruction {
	data := make([]byte, 10)
	data[0] = splTransferCheckedOp
	binary.LittleEndian.PutUint64(data[1:9], rawAmount)
	data[9] = decimals

	return Instruction{
		ProgramID: TokenProgramID,
		Accounts: []AccountMeta{
			{PubKey: sourceATA, IsSigner: false, IsWritable: true},
			{PubKey: mint, IsSigner: false, IsWritable: false},
			{PubKey: destATA, IsSigner: false, IsWritable: true},
			{PubKey: authority, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// BuildSOLTransfer builds and serializes (but does not sign) the message
// for a native SOL transfer from the MuSig2 aggregated key apk to
// recipient to, optionally followed by an SPL Memo instruction carrying
// memo (skipped when memo is empty).
func BuildSOLTransfer(apk, to curve.Point, lamports uint64, memo string, recentBlockhash [32]byte) ([]byte, error) {
	fromAddr := AddressFromPoint(apk)
	toAddr := AddressFromPoint(to)

	instructions := []Instruction{buildSystemTransferInstruction(fromAddr, toAddr, lamports)}
	if memo != "" {
		instructions = append(instructions, buildMemoInstruction(memo))
	}

	msg, err := CompileMessage(fromAddr, instructions, recentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("solana: build sol transfer: %w", err)
	}
	return SerializeMessage(msg)
}

// BuildSPLTransfer builds and serializes (but does not sign) the message
// for an SPL token transfer of rawAmount (in the token's base units, per
// decimals) of mint from apk's associated token account to to's.
//
// createDestinationATA must be agreed on identically by every
// co-signing participant before round_two. It is deliberately an input
// rather than an RPC lookup performed here: two participants whose RPC
// nodes disagree on whether the destination account exists yet would
// otherwise build different message bytes and silently break signature
// aggregation.
func BuildSPLTransfer(apk, mint, to curve.Point, rawAmount uint64, decimals uint8, recentBlockhash [32]byte, createDestinationATA bool) ([]byte, error) {
	apkAddr := AddressFromPoint(apk)

	sourceATA, err := DeriveATA(apk, mint)
	if err != nil {
		return nil, fmt.Errorf("solana: derive source ATA: %w", err)
	}
	destATA, err := DeriveATA(to, mint)
	if err != nil {
		return nil, fmt.Errorf("solana: derive destination ATA: %w", err)
	}

	var instructions []Instruction
	if createDestinationATA {
		instructions = append(instructions, buildCreateATAInstruction(apkAddr, destATA, AddressFromPoint(to), AddressFromPoint(mint)))
	}
	instructions = append(instructions, buildTransferCheckedInstruction(sourceATA, AddressFromPoint(mint), destATA, apkAddr, rawAmount, decimals))

	msg, err := CompileMessage(apkAddr, instructions, recentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("solana: build spl transfer: %w", err)
	}
	return SerializeMessage(msg)
}
