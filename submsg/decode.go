package submsg

import (
	"encoding/binary"
	"fmt"

	"github.com/yzrtps/acknack/acknack"
	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

// DecodedAckNack is the parsed form of an on-the-wire AckNack submessage,
// used by tests and submsgcheck.
type DecodedAckNack struct {
	Flags             byte
	ReaderId, WriterId [4]byte
	Set               acknack.SequenceNumberSet
	Count             uint32
}

// DecodeAckNack parses b as an AckNack submessage.
func DecodeAckNack(b []byte) (DecodedAckNack, error) {
	var d DecodedAckNack
	if len(b) < submsgHeaderSize+entityIdSize*2+sequenceNumberSize+setHeaderSize+countFieldSize {
		return d, fmt.Errorf("submsg: acknack too short: %d bytes", len(b))
	}
	if b[0] != KindAckNack {
		return d, fmt.Errorf("submsg: not an AckNack, kind=0x%x", b[0])
	}
	d.Flags = b[1]

	p := submsgHeaderSize
	copy(d.ReaderId[:], b[p:p+4])
	p += entityIdSize
	copy(d.WriterId[:], b[p:p+4])
	p += entityIdSize

	high := int32(binary.BigEndian.Uint32(b[p : p+4]))
	low := binary.BigEndian.Uint32(b[p+4 : p+8])
	p += sequenceNumberSize
	d.Set.BitmapBase = seqnum.FromWire(high, low)

	numBits := int(binary.BigEndian.Uint32(b[p : p+4]))
	p += setHeaderSize
	d.Set.NumBits = numBits

	nWords := (numBits + 31) / 32
	if len(b) < p+nWords*4+countFieldSize {
		return d, fmt.Errorf("submsg: acknack bitmap truncated")
	}
	for i := 0; i < nWords; i++ {
		d.Set.Bits[i] = binary.BigEndian.Uint32(b[p : p+4])
		p += 4
	}

	d.Count = binary.BigEndian.Uint32(b[p : p+4])
	return d, nil
}

// DecodedNackFrag is the parsed form of an on-the-wire NackFrag submessage.
type DecodedNackFrag struct {
	ReaderId, WriterId [4]byte
	WriterSN           int64
	Set                acknack.FragmentNumberSet
	Count              uint32
}

// DecodeNackFrag parses b as a NackFrag submessage.
func DecodeNackFrag(b []byte) (DecodedNackFrag, error) {
	var d DecodedNackFrag
	const fragBitmapBaseSize = 4
	if len(b) < submsgHeaderSize+entityIdSize*2+sequenceNumberSize+fragBitmapBaseSize+setHeaderSize+countFieldSize {
		return d, fmt.Errorf("submsg: nackfrag too short: %d bytes", len(b))
	}
	if b[0] != KindNackFrag {
		return d, fmt.Errorf("submsg: not a NackFrag, kind=0x%x", b[0])
	}

	p := submsgHeaderSize
	copy(d.ReaderId[:], b[p:p+4])
	p += entityIdSize
	copy(d.WriterId[:], b[p:p+4])
	p += entityIdSize

	high := int32(binary.BigEndian.Uint32(b[p : p+4]))
	low := binary.BigEndian.Uint32(b[p+4 : p+8])
	p += sequenceNumberSize
	d.WriterSN = int64(seqnum.FromWire(high, low))

	wireBase := binary.BigEndian.Uint32(b[p : p+4])
	p += fragBitmapBaseSize
	d.Set.BitmapBase = fragnum.FromWire(wireBase)

	numBits := int(binary.BigEndian.Uint32(b[p : p+4]))
	p += setHeaderSize
	d.Set.NumBits = numBits

	nWords := (numBits + 31) / 32
	if len(b) < p+nWords*4+countFieldSize {
		return d, fmt.Errorf("submsg: nackfrag bitmap truncated")
	}
	for i := 0; i < nWords; i++ {
		d.Set.Bits[i] = binary.BigEndian.Uint32(b[p : p+4])
		p += 4
	}

	d.Count = binary.BigEndian.Uint32(b[p : p+4])
	return d, nil
}
