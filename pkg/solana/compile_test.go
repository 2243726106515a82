package solana_test

import (
	"bytes"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuyofulo/solana-token-tss/pkg/solana"
)

func addr(b byte) solana.Address {
	var a solana.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func TestEncodeCompactU16(t *testing.T) {
	cases := []struct {
		val  int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{16383, []byte{0xff, 0x7f}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, c := range cases {
		buf := new(bytes.Buffer)
		require.NoError(t, solana.EncodeCompactU16(buf, c.val))
		assert.Equal(t, c.want, buf.Bytes(), "val=%d", c.val)
	}
}

func TestEncodeCompactU16RejectsOutOfRange(t *testing.T) {
	buf := new(bytes.Buffer)
	assert.Error(t, solana.EncodeCompactU16(buf, 65536))
	assert.Error(t, solana.EncodeCompactU16(buf, -1))
}

func TestCompileMessagePlacesFeePayerFirst(t *testing.T) {
	feePayer := addr(1)
	to := addr(2)
	programID := addr(3)

	ix := solana.Instruction{
		ProgramID: programID,
		Accounts: []solana.AccountMeta{
			{PubKey: feePayer, IsSigner: true, IsWritable: true},
			{PubKey: to, IsSigner: false, IsWritable: true},
		},
		Data: []byte{1, 2, 3},
	}

	msg, err := solana.CompileMessage(feePayer, []solana.Instruction{ix}, [32]byte{9})
	require.NoError(t, err)

	assert.Equal(t, feePayer, msg.AccountKeys[0])
	assert.Equal(t, uint8(1), msg.Header.NumRequiredSignatures)
}

func TestCompileMessageRejectsEmptyInstructions(t *testing.T) {
	_, err := solana.CompileMessage(addr(1), nil, [32]byte{})
	assert.Error(t, err)
}

func TestCompileMessageIsOrderIndependentWithinAPrivilegeGroup(t *testing.T) {
	feePayer := addr(1)
	programID := addr(2)
	writableA := addr(3)
	writableB := addr(4)

	build := func(first, second solana.Address) (solana.Message, error) {
		ix := solana.Instruction{
			ProgramID: programID,
			Accounts: []solana.AccountMeta{
				{PubKey: first, IsWritable: true},
				{PubKey: second, IsWritable: true},
			},
		}
		return solana.CompileMessage(feePayer, []solana.Instruction{ix}, [32]byte{})
	}

	msgA, err := build(writableA, writableB)
	require.NoError(t, err)
	msgB, err := build(writableB, writableA)
	require.NoError(t, err)

	assert.Equal(t, msgA.AccountKeys, msgB.AccountKeys)
}

func TestSerializeMessageLengthCoversHeaderAccountsAndBlockhash(t *testing.T) {
	feePayer := addr(1)
	programID := addr(2)
	ix := solana.Instruction{
		ProgramID: programID,
		Accounts:  []solana.AccountMeta{{PubKey: addr(3), IsWritable: true}},
		Data:      []byte{0xAB},
	}

	msg, err := solana.CompileMessage(feePayer, []solana.Instruction{ix}, [32]byte{7})
	require.NoError(t, err)

	data, err := solana.SerializeMessage(msg)
	require.NoError(t, err)

	// header(3) + compact-u16 account count(1, since < 128) + 3*32 accounts
	// + 32 blockhash + compact-u16 instruction count(1) + ...
	assert.Greater(t, len(data), 3+1+32*len(msg.AccountKeys)+32)
}

func TestAssembleTransactionPrependsSingleSignature(t *testing.T) {
	message := []byte{0xde, 0xad, 0xbe, 0xef}
	var sig [64]byte
	for i := range sig {
		sig[i] = 0x11
	}

	tx := solana.AssembleTransaction(message, sig)

	require.Len(t, tx, 1+64+len(message))
	assert.Equal(t, byte(1), tx[0])
	assert.Equal(t, sig[:], tx[1:65])
	assert.Equal(t, message, tx[65:])
}

func TestAddressBase58RoundTrip(t *testing.T) {
	a := addr(42)
	decoded, err := solana.AddressFromBase58(a.Base58())
	require.NoError(t, err)
	assert.Equal(t, a, decoded)
}

func TestAddressFromBase58RejectsWrongLength(t *testing.T) {
	tooShort := base58.Encode(make([]byte, 10))
	_, err := solana.AddressFromBase58(tooShort)
	assert.Error(t, err)
}

func TestAddressIsZero(t *testing.T) {
	var zero solana.Address
	assert.True(t, zero.IsZero())
	assert.False(t, addr(1).IsZero())
}
