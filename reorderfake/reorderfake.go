// Package reorderfake is a minimal in-memory reference implementation of
// external.ReorderSource, for tests and the demo CLI. It is not a model of
// production RTPS history-cache reordering (spec.md section 1 names the
// reorder buffer's internals out of scope); it only needs to answer
// NextSeq and NackMap consistently, including an honest (if simplified)
// notail distinction for the late-ack-mode/queue-pressure case (see
// NackMap).
//
// Received out-of-order samples are tracked in an ilist.List (adapted from
// the teacher's ilist package, which transport/tcp/rcv.go used for its
// pendingRcvdSegments) ordered by sequence number, mirroring how the
// teacher holds out-of-order TCP segments while waiting for the gap to
// close.
package reorderfake

import (
	"sync"

	"github.com/yzrtps/acknack/ilist"
	"github.com/yzrtps/acknack/seqnum"
)

type entry struct {
	ilist.Entry
	seq seqnum.Value
}

// Reorder is a reference ReorderSource: a contiguous watermark (nextSeq)
// plus a list of out-of-order samples received beyond it.
type Reorder struct {
	mu      sync.Mutex
	nextSeq seqnum.Value
	pending ilist.List
}

// New constructs a Reorder whose NextSeq starts at nextSeq (normally 1 for
// a fresh match).
func New(nextSeq seqnum.Value) *Reorder {
	return &Reorder{nextSeq: nextSeq}
}

// Receive records that seq has arrived. If it closes the gap at nextSeq,
// NextSeq advances past every contiguous sample now available.
func (r *Reorder) Receive(seq seqnum.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq < r.nextSeq {
		return
	}
	if seq == r.nextSeq {
		r.nextSeq++
		r.drainContiguous()
		return
	}

	e := &entry{seq: seq}
	var prev ilist.Linker
	for l := r.pending.Front(); l != nil; l = l.Next() {
		pe := l.(*entry)
		if pe.seq == seq {
			return // duplicate
		}
		if pe.seq > seq {
			break
		}
		prev = l
	}
	if prev == nil {
		r.pending.PushFront(e)
	} else {
		r.pending.InsertAfter(prev, e)
	}
}

func (r *Reorder) drainContiguous() {
	for l := r.pending.Front(); l != nil; l = r.pending.Front() {
		pe := l.(*entry)
		if pe.seq != r.nextSeq {
			break
		}
		r.pending.Remove(l)
		r.nextSeq++
	}
}

// NextSeq implements external.ReorderSource.
func (r *Reorder) NextSeq() seqnum.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextSeq
}

// isReceived reports whether seq has arrived, either via the contiguous
// watermark or the out-of-order pending list.
func (r *Reorder) isReceived(seq seqnum.Value) bool {
	if seq < r.nextSeq {
		return true
	}
	for l := r.pending.Front(); l != nil; l = l.Next() {
		pe := l.(*entry)
		if pe.seq == seq {
			return true
		}
	}
	return false
}

// NackMap implements external.ReorderSource.
//
// base is only ever below r.nextSeq in the late-ack-mode/queue-pressure
// path (spec.md section 4.2: bitmap_base becomes next_deliv_seq, which can
// lag behind the reorder buffer's own contiguous watermark while the
// delivery queue is full). The samples in [base, r.nextSeq) have already
// been accepted by the reorder buffer — they are why its watermark is
// where it is — but have not yet reached the application. The original's
// own comment on the notail flag is "notail = false: all known missing
// ones are nack'd"; this fake models that literally: without notail, that
// already-accepted prefix is conservatively reported missing (the caller
// asked about sequence numbers below the reorder's own frontier, which a
// real reorder buffer has no obligation to vouch for unless told it's
// safe to); with notail, the prefix is reported as received, matching
// spec.md section 4.2's "we do not NACK data the writer has already sent
// and we have accepted but not yet delivered." Sequence numbers at or
// above r.nextSeq are unaffected by notail either way.
func (r *Reorder) NackMap(base, lastSeq seqnum.Value, bits []uint32, maxBits int, notail bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lastSeq < base {
		return 0
	}
	span := int(base.Size(lastSeq)) + 1
	if span > maxBits {
		span = maxBits
	}

	for i := 0; i < span; i++ {
		seq := base.Add(seqnum.Size(i))
		if seq < r.nextSeq {
			if !notail {
				setBit(bits, i)
			}
			continue
		}
		if !r.isReceived(seq) {
			setBit(bits, i)
		}
	}
	return span
}

func setBit(words []uint32, i int) {
	w := i / 32
	b := uint(31 - i%32)
	words[w] |= 1 << b
}
