// Package seqnum implements arithmetic on RTPS sequence numbers.
//
// A SequenceNumber on the wire is a 64-bit value split into a signed
// high 32-bit word and an unsigned low 32-bit word (see header/tcp.go in
// the teacher stack for the const-offset accessor style this mirrors).
// Comparisons (LessThan, LessThanEq, InRange) are plain unsigned 64-bit
// comparisons; sequence numbers are not treated as wrapping around.
package seqnum

import "fmt"

// Value is a 64-bit RTPS sequence number. The zero Value is sequence number
// 0, which RTPS reserves and never assigns to a sample; valid sample
// sequence numbers start at 1.
type Value uint64

// Size is the number of sequence numbers spanned by a range.
type Size uint64

// Invalid is the RTPS sentinel "no sequence number" value.
const Invalid Value = 0

// FromWire reconstructs a Value from the wire's {high int32, low uint32}
// representation.
func FromWire(high int32, low uint32) Value {
	return Value(uint64(uint32(high))<<32 | uint64(low))
}

// High returns the wire-format high 32 bits (as a signed int32).
func (v Value) High() int32 {
	return int32(uint32(uint64(v) >> 32))
}

// Low returns the wire-format low 32 bits.
func (v Value) Low() uint32 {
	return uint32(v)
}

// Add returns v+s.
func (v Value) Add(s Size) Value {
	return v + Value(s)
}

// Sub returns v-s.
func (v Value) Sub(s Size) Value {
	return v - Value(s)
}

// LessThan returns true if v occurs before w.
func (v Value) LessThan(w Value) bool {
	return v < w
}

// LessThanEq returns true if v occurs at or before w.
func (v Value) LessThanEq(w Value) bool {
	return v <= w
}

// Size returns the number of sequence numbers in [v, w). It is only
// meaningful when v <= w.
func (v Value) Size(w Value) Size {
	return Size(w - v)
}

// InRange returns true if a <= v < b.
func (v Value) InRange(a, b Value) bool {
	return a <= v && v < b
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return fmt.Sprintf("%d", uint64(v))
}
