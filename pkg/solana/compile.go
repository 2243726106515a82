package solana

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// EncodeCompactU16 writes val using Solana's compact-u16 variable-length
// encoding (7 data bits per byte, high bit set on every byte but the last).
func EncodeCompactU16(buf *bytes.Buffer, val int) error {
	if val < 0 || val > 65535 {
		return fmt.Errorf("solana: compact-u16 value out of range: %d", val)
	}
	rem := val
	for {
		elem := uint8(rem & 0x7f)
		rem >>= 7
		if rem == 0 {
			buf.WriteByte(elem)
			break
		}
		elem |= 0x80
		buf.WriteByte(elem)
	}
	return nil
}

// CompileMessage compiles high-level instructions into a legacy Solana
// message. feePayer is always placed at account-key index 0, writable and
// a signer; the remaining accounts are grouped writable-signer,
// readonly-signer, writable-nonsigner, readonly-nonsigner, each group
// sorted by base58 address for a deterministic, input-order-independent
// compilation. Every co-signer must produce identical message bytes from
// the same logical inputs, so nothing here may depend on map iteration
// or caller-supplied account order.
func CompileMessage(feePayer Address, instructions []Instruction, recentBlockhash [32]byte) (Message, error) {
	if len(instructions) == 0 {
		return Message{}, errNoInstructions
	}

	accounts := make(map[Address]*accountEntry)

	accounts[feePayer] = &accountEntry{pubKey: feePayer, isSigner: true, isWritable: true}

	for _, ix := range instructions {
		if _, ok := accounts[ix.ProgramID]; !ok {
			accounts[ix.ProgramID] = &accountEntry{pubKey: ix.ProgramID}
		}
		for _, acc := range ix.Accounts {
			if entry, ok := accounts[acc.PubKey]; ok {
				entry.isSigner = entry.isSigner || acc.IsSigner
				entry.isWritable = entry.isWritable || acc.IsWritable
			} else {
				accounts[acc.PubKey] = &accountEntry{pubKey: acc.PubKey, isSigner: acc.IsSigner, isWritable: acc.IsWritable}
			}
		}
	}

	var writableSigners, readonlySigners, writableNonSigners, readonlyNonSigners []accountEntry
	for key, entry := range accounts {
		if key == feePayer {
			continue
		}
		switch {
		case entry.isSigner && entry.isWritable:
			writableSigners = append(writableSigners, *entry)
		case entry.isSigner && !entry.isWritable:
			readonlySigners = append(readonlySigners, *entry)
		case !entry.isSigner && entry.isWritable:
			writableNonSigners = append(writableNonSigners, *entry)
		default:
			readonlyNonSigners = append(readonlyNonSigners, *entry)
		}
	}

	sortByBase58 := func(a []accountEntry) {
		sort.Slice(a, func(i, j int) bool { return a[i].pubKey.Base58() < a[j].pubKey.Base58() })
	}
	sortByBase58(writableSigners)
	sortByBase58(readonlySigners)
	sortByBase58(writableNonSigners)
	sortByBase58(readonlyNonSigners)

	accountKeys := make([]Address, 0, len(accounts))
	accountKeys = append(accountKeys, feePayer)
	for _, groups := range [][]accountEntry{writableSigners, readonlySigners, writableNonSigners, readonlyNonSigners} {
		for _, e := range groups {
			accountKeys = append(accountKeys, e.pubKey)
		}
	}

	keyIndex := make(map[Address]uint8, len(accountKeys))
	for i, k := range accountKeys {
		keyIndex[k] = uint8(i)
	}

	compiled := make([]CompiledInstruction, len(instructions))
	for i, ix := range instructions {
		progIdx, ok := keyIndex[ix.ProgramID]
		if !ok {
			return Message{}, fmt.Errorf("solana: program ID not found in account keys")
		}
		idxs := make([]uint8, len(ix.Accounts))
		for j, acc := range ix.Accounts {
			idx, ok := keyIndex[acc.PubKey]
			if !ok {
				return Message{}, fmt.Errorf("solana: account not found in account keys")
			}
			idxs[j] = idx
		}
		compiled[i] = CompiledInstruction{ProgramIDIndex: progIdx, AccountIndexes: idxs, Data: ix.Data}
	}

	msg := Message{
		Header: MessageHeader{
			NumRequiredSignatures:       uint8(1 + len(writableSigners) + len(readonlySigners)),
			NumReadonlySignedAccounts:   uint8(len(readonlySigners)),
			NumReadonlyUnsignedAccounts: uint8(len(readonlyNonSigners)),
		},
		AccountKeys:     accountKeys,
		RecentBlockhash: recentBlockhash,
		Instructions:    compiled,
	}

	log.Debug().
		Int("account_count", len(accountKeys)).
		Int("signer_count", int(msg.Header.NumRequiredSignatures)).
		Int("instruction_count", len(compiled)).
		Msg("compiled solana message")

	return msg, nil
}

// SerializeMessage serializes msg into the bytes that get signed.
func SerializeMessage(msg Message) ([]byte, error) {
	buf := new(bytes.Buffer)

	buf.WriteByte(msg.Header.NumRequiredSignatures)
	buf.WriteByte(msg.Header.NumReadonlySignedAccounts)
	buf.WriteByte(msg.Header.NumReadonlyUnsignedAccounts)

	if err := EncodeCompactU16(buf, len(msg.AccountKeys)); err != nil {
		return nil, fmt.Errorf("solana: encode account key count: %w", err)
	}
	for _, k := range msg.AccountKeys {
		b := k.Bytes()
		buf.Write(b[:])
	}

	buf.Write(msg.RecentBlockhash[:])

	if err := EncodeCompactU16(buf, len(msg.Instructions)); err != nil {
		return nil, fmt.Errorf("solana: encode instruction count: %w", err)
	}
	for _, ix := range msg.Instructions {
		buf.WriteByte(ix.ProgramIDIndex)
		if err := EncodeCompactU16(buf, len(ix.AccountIndexes)); err != nil {
			return nil, fmt.Errorf("solana: encode account index count: %w", err)
		}
		for _, idx := range ix.AccountIndexes {
			buf.WriteByte(idx)
		}
		if err := EncodeCompactU16(buf, len(ix.Data)); err != nil {
			return nil, fmt.Errorf("solana: encode instruction data length: %w", err)
		}
		buf.Write(ix.Data)
	}

	return buf.Bytes(), nil
}

// SerializeTransaction serializes a signed Transaction into the final
// wire format: compact-u16 signature count, signatures, then the message.
func SerializeTransaction(tx Transaction) ([]byte, error) {
	msgBytes, err := SerializeMessage(tx.Message)
	if err != nil {
		return nil, fmt.Errorf("solana: serialize message: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := EncodeCompactU16(buf, len(tx.Signatures)); err != nil {
		return nil, fmt.Errorf("solana: encode signature count: %w", err)
	}
	for _, sig := range tx.Signatures {
		buf.Write(sig[:])
	}
	buf.Write(msgBytes)
	return buf.Bytes(), nil
}
