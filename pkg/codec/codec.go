// Package codec implements the canonical tagged binary encoding used to
// ferry MuSig2 wire values (FirstRoundMessage, PartialSignature,
// SessionSecret) between stateless invocations of the CLI, plus the
// base58 wrapping used for text transport between participants.
//
// Every value type here is a plain byte-layout encoder; none of them
// perform group-membership validation beyond what pkg/curve already does
// when decoding the embedded points/scalars.
package codec

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Tag identifies the wire value type encoded in a buffer's first byte.
type Tag byte

const (
	TagFirstRoundMessage Tag = 1
	TagPartialSignature  Tag = 2
	TagSessionSecret     Tag = 3
)

// Byte sizes of each tag's fixed-length encoding, tag byte included.
const (
	sizeFirstRoundMessage = 1 + 32 + 32 + 32
	sizePartialSignature  = 1 + 32 + 32
	sizeSessionSecret     = 1 + 32 + 32 + 32 + 32
)

var (
	// ErrInputTooShort is returned when a buffer is shorter than its
	// tag's fixed body length.
	ErrInputTooShort = errors.New("codec: input too short")
	// ErrWrongTag is returned when a buffer's discriminator byte does not
	// match the value type the caller expected to decode.
	ErrWrongTag = errors.New("codec: wrong tag byte")
	// ErrBadBase58 is returned when the text form is not valid base58.
	ErrBadBase58 = errors.New("codec: invalid base58 string")
)

func wantSize(tag Tag, buf []byte, want int) error {
	if len(buf) < 1 {
		return ErrInputTooShort
	}
	if Tag(buf[0]) != tag {
		return fmt.Errorf("%w: got %d, want %d", ErrWrongTag, buf[0], tag)
	}
	if len(buf) < want {
		return ErrInputTooShort
	}
	return nil
}

// EncodeFirstRoundMessage lays out tag(1) ‖ r1 ‖ r2 ‖ senderPubKey.
func EncodeFirstRoundMessage(r1, r2, senderPubKey [32]byte) []byte {
	buf := make([]byte, sizeFirstRoundMessage)
	buf[0] = byte(TagFirstRoundMessage)
	copy(buf[1:33], r1[:])
	copy(buf[33:65], r2[:])
	copy(buf[65:97], senderPubKey[:])
	return buf
}

// DecodeFirstRoundMessage is the inverse of EncodeFirstRoundMessage.
func DecodeFirstRoundMessage(buf []byte) (r1, r2, senderPubKey [32]byte, err error) {
	if err = wantSize(TagFirstRoundMessage, buf, sizeFirstRoundMessage); err != nil {
		return
	}
	copy(r1[:], buf[1:33])
	copy(r2[:], buf[33:65])
	copy(senderPubKey[:], buf[65:97])
	return
}

// EncodePartialSignature lays out tag(2) ‖ R ‖ s_i.
func EncodePartialSignature(R, s [32]byte) []byte {
	buf := make([]byte, sizePartialSignature)
	buf[0] = byte(TagPartialSignature)
	copy(buf[1:33], R[:])
	copy(buf[33:65], s[:])
	return buf
}

// DecodePartialSignature is the inverse of EncodePartialSignature.
func DecodePartialSignature(buf []byte) (R, s [32]byte, err error) {
	if err = wantSize(TagPartialSignature, buf, sizePartialSignature); err != nil {
		return
	}
	copy(R[:], buf[1:33])
	copy(s[:], buf[33:65])
	return
}

// EncodeSessionSecret lays out tag(3) ‖ r1 ‖ r2 ‖ R1 ‖ R2.
func EncodeSessionSecret(r1, r2, R1, R2 [32]byte) []byte {
	buf := make([]byte, sizeSessionSecret)
	buf[0] = byte(TagSessionSecret)
	copy(buf[1:33], r1[:])
	copy(buf[33:65], r2[:])
	copy(buf[65:97], R1[:])
	copy(buf[97:129], R2[:])
	return buf
}

// DecodeSessionSecret is the inverse of EncodeSessionSecret.
func DecodeSessionSecret(buf []byte) (r1, r2, R1, R2 [32]byte, err error) {
	if err = wantSize(TagSessionSecret, buf, sizeSessionSecret); err != nil {
		return
	}
	copy(r1[:], buf[1:33])
	copy(r2[:], buf[33:65])
	copy(R1[:], buf[65:97])
	copy(R2[:], buf[97:129])
	return
}

// EncodeBase58 wraps raw wire bytes for text transport.
func EncodeBase58(buf []byte) string {
	return base58.Encode(buf)
}

// DecodeBase58 unwraps a base58 string back into raw wire bytes.
func DecodeBase58(s string) ([]byte, error) {
	buf, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBase58, err)
	}
	return buf, nil
}
