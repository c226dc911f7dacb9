package buffer

import "testing"

func TestGrowableAppendGrowsAndShrinks(t *testing.T) {
	g := NewGrowable(4)

	off1, s1 := g.Append(4)
	copy(s1, []byte{1, 2, 3, 4})
	if off1 != 0 {
		t.Fatalf("off1 = %d, want 0", off1)
	}

	off2, s2 := g.Append(8) // forces a grow past the initial capacity
	copy(s2, []byte{5, 6, 7, 8, 9, 10, 11, 12})
	if off2 != 4 {
		t.Fatalf("off2 = %d, want 4", off2)
	}
	if g.Len() != 12 {
		t.Fatalf("Len() = %d, want 12", g.Len())
	}

	g.Shrink(off2, 3)
	if g.Len() != 7 {
		t.Fatalf("Len() after shrink = %d, want 7", g.Len())
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7}
	got := g.Bytes()
	if len(got) != len(want) {
		t.Fatalf("Bytes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGrowableShrinkOutOfRangeIsNoop(t *testing.T) {
	g := NewGrowable(4)
	g.Append(4)
	g.Shrink(0, 100) // beyond usedLen, should be ignored
	if g.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (shrink should have been a no-op)", g.Len())
	}
}
