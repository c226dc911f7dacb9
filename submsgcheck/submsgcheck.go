// Package submsgcheck provides composable test assertions over decoded
// AckNack/NackFrag submessages, in the same closures-returning-closures
// style as the teacher stack's checker/checker.go (checker.IPv4(t, b,
// checker.SrcAddr(x), checker.DstAddr(y))).
package submsgcheck

import (
	"testing"

	"github.com/yzrtps/acknack/seqnum"
	"github.com/yzrtps/acknack/submsg"
)

// AckNackChecker checks a property of a decoded AckNack submessage.
type AckNackChecker func(*testing.T, submsg.DecodedAckNack)

// AckNack decodes b as an AckNack submessage and runs every checker
// against it.
func AckNack(t *testing.T, b []byte, checkers ...AckNackChecker) submsg.DecodedAckNack {
	t.Helper()
	d, err := submsg.DecodeAckNack(b)
	if err != nil {
		t.Fatalf("DecodeAckNack: %v", err)
	}
	for _, c := range checkers {
		c(t, d)
	}
	return d
}

// BitmapBase checks the sequence-number set's base.
func BitmapBase(want seqnum.Value) AckNackChecker {
	return func(t *testing.T, d submsg.DecodedAckNack) {
		t.Helper()
		if d.Set.BitmapBase != want {
			t.Fatalf("bad bitmap base, got %v, want %v", d.Set.BitmapBase, want)
		}
	}
}

// NumBits checks the sequence-number set's bit count.
func NumBits(want int) AckNackChecker {
	return func(t *testing.T, d submsg.DecodedAckNack) {
		t.Helper()
		if d.Set.NumBits != want {
			t.Fatalf("bad numbits, got %v, want %v", d.Set.NumBits, want)
		}
	}
}

// Bits checks that exactly the given 0-based bit indices are set.
func Bits(want ...int) AckNackChecker {
	return func(t *testing.T, d submsg.DecodedAckNack) {
		t.Helper()
		set := make(map[int]bool, len(want))
		for _, i := range want {
			set[i] = true
		}
		for i := 0; i < d.Set.NumBits; i++ {
			if d.Set.Test(i) != set[i] {
				t.Fatalf("bit %d: got %v, want %v", i, d.Set.Test(i), set[i])
			}
		}
	}
}

// Count checks the trailing count field.
func Count(want uint32) AckNackChecker {
	return func(t *testing.T, d submsg.DecodedAckNack) {
		t.Helper()
		if d.Count != want {
			t.Fatalf("bad count, got %v, want %v", d.Count, want)
		}
	}
}

// NackFragChecker checks a property of a decoded NackFrag submessage.
type NackFragChecker func(*testing.T, submsg.DecodedNackFrag)

// NackFrag decodes b as a NackFrag submessage and runs every checker
// against it.
func NackFrag(t *testing.T, b []byte, checkers ...NackFragChecker) submsg.DecodedNackFrag {
	t.Helper()
	d, err := submsg.DecodeNackFrag(b)
	if err != nil {
		t.Fatalf("DecodeNackFrag: %v", err)
	}
	for _, c := range checkers {
		c(t, d)
	}
	return d
}

// WriterSN checks the NackFrag's writerSN field.
func WriterSN(want int64) NackFragChecker {
	return func(t *testing.T, d submsg.DecodedNackFrag) {
		t.Helper()
		if d.WriterSN != want {
			t.Fatalf("bad writerSN, got %v, want %v", d.WriterSN, want)
		}
	}
}

// FragNumBits checks the fragment set's bit count.
func FragNumBits(want int) NackFragChecker {
	return func(t *testing.T, d submsg.DecodedNackFrag) {
		t.Helper()
		if d.Set.NumBits != want {
			t.Fatalf("bad frag numbits, got %v, want %v", d.Set.NumBits, want)
		}
	}
}

// FragCount checks the trailing count field.
func FragCount(want uint32) NackFragChecker {
	return func(t *testing.T, d submsg.DecodedNackFrag) {
		t.Helper()
		if d.Count != want {
			t.Fatalf("bad count, got %v, want %v", d.Count, want)
		}
	}
}
