package seqnum

import "testing"

func TestFromWireRoundTrip(t *testing.T) {
	for _, test := range []struct {
		name string
		high int32
		low  uint32
	}{
		{name: "zero", high: 0, low: 0},
		{name: "small", high: 0, low: 42},
		{name: "high-word-set", high: 7, low: 0xffffffff},
		{name: "negative-high", high: -1, low: 1},
	} {
		v := FromWire(test.high, test.low)
		if got := v.High(); got != test.high {
			t.Errorf("%s: High() = %d, want %d", test.name, got, test.high)
		}
		if got := v.Low(); got != test.low {
			t.Errorf("%s: Low() = %d, want %d", test.name, got, test.low)
		}
	}
}

func TestAddSub(t *testing.T) {
	v := Value(10)
	if got := v.Add(5); got != 15 {
		t.Errorf("Add(5) = %d, want 15", got)
	}
	if got := v.Sub(5); got != 5 {
		t.Errorf("Sub(5) = %d, want 5", got)
	}
}

func TestLessThan(t *testing.T) {
	if !Value(1).LessThan(Value(2)) {
		t.Errorf("1 should be less than 2")
	}
	if Value(2).LessThan(Value(1)) {
		t.Errorf("2 should not be less than 1")
	}
	if !Value(1).LessThanEq(Value(1)) {
		t.Errorf("1 should be <= 1")
	}
}

func TestSize(t *testing.T) {
	if got := Value(10).Size(Value(13)); got != 3 {
		t.Errorf("Size(10,13) = %d, want 3", got)
	}
}

func TestInRange(t *testing.T) {
	if !Value(5).InRange(Value(1), Value(10)) {
		t.Errorf("5 should be in [1,10)")
	}
	if Value(10).InRange(Value(1), Value(10)) {
		t.Errorf("10 should not be in [1,10)")
	}
}
