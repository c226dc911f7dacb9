package reorderfake

import (
	"testing"

	"github.com/yzrtps/acknack/seqnum"
)

func TestReceiveAdvancesContiguously(t *testing.T) {
	r := New(1)
	r.Receive(1)
	r.Receive(2)
	r.Receive(3)
	if got := r.NextSeq(); got != 4 {
		t.Fatalf("NextSeq() = %v, want 4", got)
	}
}

func TestReceiveOutOfOrderThenFillsGap(t *testing.T) {
	r := New(1)
	r.Receive(2)
	r.Receive(3)
	if got := r.NextSeq(); got != 1 {
		t.Fatalf("NextSeq() = %v, want 1 (gap at 1 still open)", got)
	}
	r.Receive(1)
	if got := r.NextSeq(); got != 4 {
		t.Fatalf("NextSeq() = %v, want 4 after gap closes", got)
	}
}

func TestNackMapReportsMissingSamples(t *testing.T) {
	r := New(1)
	for _, s := range []seqnum.Value{1, 2, 3, 4, 5, 6, 7, 8, 9, 11} {
		r.Receive(s)
	}
	bits := make([]uint32, 8)
	n := r.NackMap(10, 12, bits, 256, false)
	if n != 3 {
		t.Fatalf("NackMap numBits = %d, want 3", n)
	}
	var set [8]uint32
	copy(set[:], bits)
	if !testBit(set[:], 0) || testBit(set[:], 1) || !testBit(set[:], 2) {
		t.Fatalf("expected bits 0 and 2 set, bit 1 clear")
	}
}

// TestNackMapNotailSuppressesAlreadyAcceptedPrefix exercises spec.md
// section 4.2/S5: when base lags behind the reorder buffer's own
// watermark (the late-ack-mode/queue-pressure case), notail=true must not
// report the already-accepted prefix [base, NextSeq()) as missing, while
// notail=false does report it missing.
func TestNackMapNotailSuppressesAlreadyAcceptedPrefix(t *testing.T) {
	r := New(1)
	for _, s := range []seqnum.Value{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 21} {
		r.Receive(s)
	}
	if got := r.NextSeq(); got != 20 {
		t.Fatalf("NextSeq() = %v, want 20", got)
	}

	const base, lastSeq = 15, 25

	var withTail [8]uint32
	n := r.NackMap(base, lastSeq, withTail[:], 256, false)
	if n != 11 {
		t.Fatalf("numBits (notail=false) = %d, want 11", n)
	}
	for i := 0; i < 5; i++ { // sequence numbers 15..19, all already accepted
		if !testBit(withTail[:], i) {
			t.Fatalf("notail=false: bit %d (seq %d) clear, want set (conservatively missing)", i, base+seqnum.Value(i))
		}
	}

	var noTail [8]uint32
	n = r.NackMap(base, lastSeq, noTail[:], 256, true)
	if n != 11 {
		t.Fatalf("numBits (notail=true) = %d, want 11", n)
	}
	for i := 0; i < 5; i++ {
		if testBit(noTail[:], i) {
			t.Fatalf("notail=true: bit %d (seq %d) set, want clear (already accepted)", i, base+seqnum.Value(i))
		}
	}
	// Sequence 20 (index 5) is genuinely missing (receive jumped 19 -> 21)
	// and is reported the same way regardless of notail.
	if !testBit(withTail[:], 5) || !testBit(noTail[:], 5) {
		t.Fatalf("bit 5 (seq 20) should be set in both regardless of notail")
	}
}

func testBit(words []uint32, i int) bool {
	w := i / 32
	b := uint(31 - i%32)
	return words[w]&(1<<b) != 0
}
