package acknack

import (
	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

const (
	// MaxSequenceNumberBits is NN_SEQUENCE_NUMBER_SET_MAX_BITS.
	MaxSequenceNumberBits = 256
	// MaxFragmentNumberBits is NN_FRAGMENT_NUMBER_SET_MAX_BITS.
	MaxFragmentNumberBits = 256
)

func init() {
	if MaxSequenceNumberBits%32 != 0 {
		panic("MaxSequenceNumberBits must be a multiple of 32")
	}
	if MaxFragmentNumberBits%32 != 0 {
		panic("MaxFragmentNumberBits must be a multiple of 32")
	}
}

// bitWords returns the number of uint32 words needed to hold n bits.
func bitWords(n int) int {
	return (n + 31) / 32
}

// setBit sets bit i (0-based) in a packed bitmap, using the RTPS
// convention: bit i lives in byte i/8, at position 1<<(7-(i%8)) within that
// byte. Since words are stored big-endian-ordered internally (word 0 holds
// bits 0..31 with bit 0 as its MSB), this is equivalent to flipping bit
// (31 - i%32) of words[i/32].
func setBit(words []uint32, i int) {
	w := i / 32
	b := uint(31 - i%32)
	words[w] |= 1 << b
}

func testBit(words []uint32, i int) bool {
	w := i / 32
	b := uint(31 - i%32)
	return words[w]&(1<<b) != 0
}

// SequenceNumberSet is the {bitmap_base, numbits, bits} triple used by the
// AckNack submessage's readerSNState.
type SequenceNumberSet struct {
	BitmapBase seqnum.Value
	NumBits    int
	Bits       [MaxSequenceNumberBits / 32]uint32
}

// Set marks sequence number BitmapBase+i as missing.
func (s *SequenceNumberSet) Set(i int) { setBit(s.Bits[:], i) }

// Test reports whether sequence number BitmapBase+i is marked missing.
func (s *SequenceNumberSet) Test(i int) bool { return testBit(s.Bits[:], i) }

// Truncate reduces NumBits to n, clearing no bits: bits at index n and
// above keep their old values and only the first n are meaningful (an
// encoder copying whole words may still carry them in the last word).
func (s *SequenceNumberSet) Truncate(n int) { s.NumBits = n }

// FragmentNumberSet is the {bitmap_base, numbits, bits} triple used by the
// NackFrag submessage's fragmentNumberState. BitmapBase is stored 0-based;
// see fragnum.ToWire for the +1 applied at serialization.
type FragmentNumberSet struct {
	BitmapBase fragnum.Value
	NumBits    int
	Bits       [MaxFragmentNumberBits / 32]uint32
}

func (s *FragmentNumberSet) Set(i int) { setBit(s.Bits[:], i) }

func (s *FragmentNumberSet) Test(i int) bool { return testBit(s.Bits[:], i) }
