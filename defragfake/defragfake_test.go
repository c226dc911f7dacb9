package defragfake

import (
	"testing"

	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/fragnum"
)

func TestNackMapUnknownSample(t *testing.T) {
	d := New()
	bits := make([]uint32, 8)
	_, numBits, verdict := d.NackMap(1, fragnum.Unknown, bits, 256)
	if verdict != external.UnknownSample {
		t.Fatalf("verdict = %v, want UnknownSample", verdict)
	}
	if numBits != 0 {
		t.Fatalf("numBits = %d, want 0", numBits)
	}
}

func TestNackMapAllAdvertisedFragmentsKnown(t *testing.T) {
	d := New()
	d.Advertise(1, 2)
	d.Receive(1, 0)
	d.Receive(1, 1)
	d.Receive(1, 2)

	bits := make([]uint32, 8)
	_, _, verdict := d.NackMap(1, fragnum.Unknown, bits, 256)
	if verdict != external.AllAdvertisedFragmentsKnown {
		t.Fatalf("verdict = %v, want AllAdvertisedFragmentsKnown", verdict)
	}
}

func TestNackMapFragmentsMissing(t *testing.T) {
	d := New()
	d.Advertise(1, 3)
	d.Receive(1, 0)
	d.Receive(1, 3)

	bits := make([]uint32, 8)
	_, numBits, verdict := d.NackMap(1, fragnum.Unknown, bits, 256)
	if verdict != external.FragmentsMissing {
		t.Fatalf("verdict = %v, want FragmentsMissing", verdict)
	}
	if numBits != 4 {
		t.Fatalf("numBits = %d, want 4", numBits)
	}
	if !testBit(bits, 1) || !testBit(bits, 2) {
		t.Fatalf("expected fragments 1 and 2 marked missing")
	}
	if testBit(bits, 0) || testBit(bits, 3) {
		t.Fatalf("fragments 0 and 3 were received, should not be marked missing")
	}
}

func testBit(words []uint32, i int) bool {
	w := i / 32
	b := uint(31 - i%32)
	return words[w]&(1<<b) != 0
}
