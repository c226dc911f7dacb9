// Package submsg implements the wire layout of the AckNack and NackFrag
// control submessages (spec.md section 6). Modeled on header/tcp.go's
// const-offset, []byte-backed accessor style from the teacher stack.
// Encoders write into a caller-supplied slice sized by MaxAckNackSize /
// MaxNackFragSize; spec.md section 4.5 reserves that much up front from the
// message pool and shrinks down to the size these functions return.
package submsg

import (
	"encoding/binary"

	"github.com/yzrtps/acknack/acknack"
	"github.com/yzrtps/acknack/fragnum"
)

// Submessage kinds (RTPS wire values).
const (
	KindAckNack  = 0x06
	KindNackFrag = 0x12
)

// Submessage flags. FlagEndianness set means little-endian; this package
// always encodes big-endian and leaves the flag clear, matching the
// teacher's header package's exclusive use of binary.BigEndian.
const (
	FlagEndianness = 1 << 0
	FlagFinal      = 1 << 1

	// reasonFlagsShift/reasonFlagsMask place the optional 4-bit reason
	// nibble (SPEC_FULL.md SUPPLEMENTED FEATURES item 1) at bits 2-5 of
	// the flags byte. They are only consulted when built with the
	// acknack_reason_flags tag; see reason_on.go/reason_off.go.
	reasonFlagsShift = 2
	reasonFlagsMask  = 0x0F
)

const (
	submsgHeaderSize   = 4
	entityIdSize       = 4
	sequenceNumberSize = 8
	fragBaseSize       = 4
	setHeaderSize      = 4 // numbits field; bitmap_base is counted separately
	countFieldSize     = 4
)

// MaxAckNackSize is ACKNACK_SIZE_MAX: the reservation size for an AckNack
// submessage carrying a full-width sequence-number bitmap.
const MaxAckNackSize = submsgHeaderSize + entityIdSize*2 + sequenceNumberSize + setHeaderSize + (acknack.MaxSequenceNumberBits/32)*4 + countFieldSize

// MaxNackFragSize is the reservation size for a NackFrag submessage
// carrying a full-width fragment bitmap.
const MaxNackFragSize = submsgHeaderSize + entityIdSize*2 + sequenceNumberSize + fragBaseSize + setHeaderSize + (acknack.MaxFragmentNumberBits/32)*4 + countFieldSize

func headerBytes(b []byte, kind uint8, flags uint8, octetsToNext uint16) {
	b[0] = kind
	b[1] = flags
	binary.BigEndian.PutUint16(b[2:4], octetsToNext)
}

func putEntityId(b []byte, id [4]byte) {
	copy(b, id[:])
}

func putSequenceNumber(b []byte, v int64) {
	binary.BigEndian.PutUint32(b[0:4], uint32(int32(v>>32)))
	binary.BigEndian.PutUint32(b[4:8], uint32(v))
}

// bitsSize returns the byte length of a packed bitmap of n bits.
func bitsSize(n int) int {
	return ((n + 31) / 32) * 4
}

// AckNackSize returns the realized wire size of an AckNack submessage
// carrying numBits of sequence-number bitmap.
func AckNackSize(numBits int) int {
	return submsgHeaderSize + entityIdSize*2 + sequenceNumberSize + setHeaderSize + bitsSize(numBits) + countFieldSize
}

// NackFragSize returns the realized wire size of a NackFrag submessage
// carrying numBits of fragment bitmap.
func NackFragSize(numBits int) int {
	return submsgHeaderSize + entityIdSize*2 + sequenceNumberSize + fragBaseSize + setHeaderSize + bitsSize(numBits) + countFieldSize
}

// EncodeAckNack writes an AckNack submessage into b (which must have
// capacity >= AckNackSize(set.NumBits)) and returns the number of bytes
// written. reason is only encoded when built with the acknack_reason_flags
// tag (otherwise ignored, matching the original's ACK_REASON_IN_FLAGS
// default-off posture).
func EncodeAckNack(b []byte, readerId, writerId [4]byte, set acknack.SequenceNumberSet, final bool, count uint32, reason Reason) int {
	size := AckNackSize(set.NumBits)

	flags := byte(0)
	if final {
		flags |= FlagFinal
	}
	flags = applyReasonFlags(flags, reason)
	headerBytes(b, KindAckNack, flags, uint16(size-submsgHeaderSize))

	p := submsgHeaderSize
	putEntityId(b[p:], readerId)
	p += entityIdSize
	putEntityId(b[p:], writerId)
	p += entityIdSize

	putSequenceNumber(b[p:], int64(set.BitmapBase))
	p += sequenceNumberSize

	binary.BigEndian.PutUint32(b[p:p+4], uint32(set.NumBits))
	p += setHeaderSize

	nWords := (set.NumBits + 31) / 32
	for i := 0; i < nWords; i++ {
		binary.BigEndian.PutUint32(b[p:p+4], set.Bits[i])
		p += 4
	}

	binary.BigEndian.PutUint32(b[p:p+4], count)

	return size
}

// EncodeNackFrag writes a NackFrag submessage into b (which must have
// capacity >= NackFragSize(set.NumBits)) and returns the number of bytes
// written. The fragment bitmap base is converted from its internal 0-based
// representation to the wire's 1-based one here, the only place that
// conversion happens (spec.md's "Invariants").
func EncodeNackFrag(b []byte, readerId, writerId [4]byte, writerSN int64, set acknack.FragmentNumberSet, count uint32) int {
	size := NackFragSize(set.NumBits)

	headerBytes(b, KindNackFrag, 0, uint16(size-submsgHeaderSize))

	p := submsgHeaderSize
	putEntityId(b[p:], readerId)
	p += entityIdSize
	putEntityId(b[p:], writerId)
	p += entityIdSize

	putSequenceNumber(b[p:], writerSN)
	p += sequenceNumberSize

	binary.BigEndian.PutUint32(b[p:p+4], fragnum.ToWire(set.BitmapBase))
	p += fragBaseSize
	binary.BigEndian.PutUint32(b[p:p+4], uint32(set.NumBits))
	p += setHeaderSize

	nWords := (set.NumBits + 31) / 32
	for i := 0; i < nWords; i++ {
		binary.BigEndian.PutUint32(b[p:p+4], set.Bits[i])
		p += 4
	}

	binary.BigEndian.PutUint32(b[p:p+4], count)

	return size
}
