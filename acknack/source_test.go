package acknack

import (
	"testing"

	"github.com/yzrtps/acknack/defragfake"
	"github.com/yzrtps/acknack/reorderfake"
	"github.com/yzrtps/acknack/seqnum"
)

type fixedDQueue struct{ full bool }

func (q fixedDQueue) IsFull() bool { return q.full }

func TestSelectSourceOutOfSyncUsesPerMatchReorder(t *testing.T) {
	pwReorder := reorderfake.New(1)
	pwReorder.Receive(1)
	matchReorder := reorderfake.New(7)

	pw := NewProxyWriter([16]byte{1}, pwReorder, defragfake.New(), fixedDQueue{}, ProxyWriterConfig{})
	rm := NewReaderMatch([16]byte{2}, ReaderMatchConfig{})
	rm.InSync = OutOfSync
	rm.NotInSyncReorder = matchReorder

	src := selectSource(pw, rm)
	if src.reorder != matchReorder {
		t.Fatalf("selectSource did not pick the per-match reorder for OutOfSync")
	}
	if src.bitmapBase != 7 {
		t.Fatalf("bitmapBase = %v, want 7 (match reorder's NextSeq)", src.bitmapBase)
	}
	if src.notail {
		t.Fatalf("notail = true, want false for OutOfSync")
	}
}

func TestSelectSourceFilteredUsesPerMatchReorderEvenInSync(t *testing.T) {
	pwReorder := reorderfake.New(1)
	matchReorder := reorderfake.New(9)

	pw := NewProxyWriter([16]byte{1}, pwReorder, defragfake.New(), fixedDQueue{}, ProxyWriterConfig{})
	rm := NewReaderMatch([16]byte{2}, ReaderMatchConfig{})
	rm.InSync = InSync
	rm.Filtered = true
	rm.NotInSyncReorder = matchReorder

	src := selectSource(pw, rm)
	if src.bitmapBase != 9 {
		t.Fatalf("bitmapBase = %v, want 9 (filtered match uses its own reorder)", src.bitmapBase)
	}
	if src.notail {
		t.Fatalf("notail = true, want false for a filtered match")
	}
}

func TestSelectSourceInSyncWithoutLateAckModeUsesPWReorder(t *testing.T) {
	pwReorder := reorderfake.New(1)
	for _, s := range []seqnum.Value{1, 2, 3} {
		pwReorder.Receive(s)
	}

	pw := NewProxyWriter([16]byte{1}, pwReorder, defragfake.New(), fixedDQueue{full: true}, ProxyWriterConfig{LateAckMode: false})
	rm := NewReaderMatch([16]byte{2}, ReaderMatchConfig{})
	rm.InSync = InSync

	src := selectSource(pw, rm)
	if src.bitmapBase != pwReorder.NextSeq() {
		t.Fatalf("bitmapBase = %v, want pw reorder NextSeq %v", src.bitmapBase, pwReorder.NextSeq())
	}
	if src.notail {
		t.Fatalf("notail = true, want false when LateAckMode is off, regardless of queue fullness")
	}
}

// TestSelectSourceLateAckModeUnderQueuePressure is spec.md's S5 scenario at
// the source-selection layer: late_ack_mode=true, dqueue full, reorder's
// NextSeq ahead of the reconstructed delivery checkpoint.
func TestSelectSourceLateAckModeUnderQueuePressure(t *testing.T) {
	pwReorder := reorderfake.New(1)
	for _, s := range []seqnum.Value{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19} {
		pwReorder.Receive(s)
	}
	if got := pwReorder.NextSeq(); got != 20 {
		t.Fatalf("NextSeq() = %v, want 20", got)
	}

	pw := NewProxyWriter([16]byte{1}, pwReorder, defragfake.New(), fixedDQueue{full: true}, ProxyWriterConfig{LateAckMode: true})
	pw.PublishNextDelivSeq(15)
	rm := NewReaderMatch([16]byte{2}, ReaderMatchConfig{})
	rm.InSync = InSync

	src := selectSource(pw, rm)
	if src.bitmapBase != 15 {
		t.Fatalf("bitmapBase = %v, want 15 (next_deliv_seq, behind reorder's own NextSeq)", src.bitmapBase)
	}
	if !src.notail {
		t.Fatalf("notail = false, want true while the delivery queue is full")
	}
}

func TestSelectSourceLateAckModeQueueNotFull(t *testing.T) {
	pwReorder := reorderfake.New(1)
	pwReorder.Receive(1)

	pw := NewProxyWriter([16]byte{1}, pwReorder, defragfake.New(), fixedDQueue{full: false}, ProxyWriterConfig{LateAckMode: true})
	pw.PublishNextDelivSeq(1)
	rm := NewReaderMatch([16]byte{2}, ReaderMatchConfig{})
	rm.InSync = InSync

	src := selectSource(pw, rm)
	if src.notail {
		t.Fatalf("notail = true, want false when the delivery queue is not full")
	}
}
