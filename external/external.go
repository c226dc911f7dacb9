// Package external declares the capabilities this subsystem consumes from
// its neighbors but does not implement: the reorder buffer, the
// defragmenter, the delivery queue, the event scheduler, the message
// builder pool and the security layer. spec.md section 1 names these as
// out of scope; this package exists only so the core (acknack,
// schedcommit) can be compiled and tested against small reference fakes
// (reorderfake, defragfake) instead of a full RTPS history cache.
package external

import (
	"time"

	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

// ReorderSource is the capability exposed by a reorder buffer: the next
// sequence number expected, and a bitmap of what's missing below a high
// watermark.
type ReorderSource interface {
	// NextSeq returns the next sequence number this source expects, i.e.
	// one past the highest sequence number for which everything at or
	// below it has been received.
	NextSeq() seqnum.Value

	// NackMap builds the sequence-number NACK bitmap for [base, lastSeq],
	// writing up to maxBits into bits and returning the number of bits
	// populated. When notail is true, trailing sequence numbers that have
	// been received but not yet delivered are omitted from the bitmap
	// rather than reported as missing.
	NackMap(base, lastSeq seqnum.Value, bits []uint32, maxBits int, notail bool) (numBits int)
}

// DefragVerdict is the result of asking the defragmenter about one sample.
type DefragVerdict int

const (
	// UnknownSample means the defragmenter has no fragments at all for
	// this sample; the caller should keep NACKing it at the whole-sample
	// level.
	UnknownSample DefragVerdict = iota
	// AllAdvertisedFragmentsKnown means every fragment advertised for the
	// sample (up to fragNum, or the writer's last known fragment when
	// fragNum is fragnum.Unknown) has already been received.
	AllAdvertisedFragmentsKnown
	// FragmentsMissing means some fragments are still missing; bits holds
	// the populated fragment NACK bitmap.
	FragmentsMissing
)

// Defragmenter is the capability exposed by the per-sample fragment
// reassembly tracker.
type Defragmenter interface {
	// NackMap asks for the fragment NACK bitmap of the sample identified
	// by seq. fragNum is the writer's last known fragment number for that
	// sample (fragnum.Unknown if it isn't the writer's highest sample).
	// base is the 0-based index of the first bit in bits, chosen by the
	// defragmenter (normally the lowest fragment it hasn't received).
	NackMap(seq seqnum.Value, fragNum fragnum.Value, bits []uint32, maxBits int) (base fragnum.Value, numBits int, verdict DefragVerdict)
}

// DeliveryQueue is the capability exposed by the in-order delivery queue.
type DeliveryQueue interface {
	// IsFull reports whether the delivery queue cannot currently accept
	// more in-order samples.
	IsFull() bool
}

// EventScheduler is the capability exposed by the timer/event loop that
// drives retries.
type EventScheduler interface {
	// ReschedIfEarlier rearms the retry event for this match to fire at t,
	// if t is earlier than whatever it is currently armed for.
	ReschedIfEarlier(t time.Time)
}

// Marker identifies a reserved-but-not-yet-filled region of an in-flight
// message, the way the teacher's buffer.Prependable.Prepend returns a
// fixed-size slice to fill in later.
type Marker int

// MessageBuilder is the capability exposed by the outgoing control message
// under construction.
type MessageBuilder interface {
	// Append reserves size bytes for a new submessage and returns a marker
	// for it plus the backing slice.
	Append(size int) (Marker, []byte)
	// Shrink corrects a previous Append's reservation down to the actual
	// size used.
	Shrink(m Marker, size int)
	// AddTimestamp appends an INFO_TS submessage carrying t.
	AddTimestamp(t time.Time)
	// Size returns the total size of the message so far.
	Size() int
	// Free releases the message back to its pool.
	Free()
}

// MessageBuilderPool is the capability exposed by the control-message
// allocator.
type MessageBuilderPool interface {
	// New allocates a message builder bound to rdGUID, sized for up to
	// maxSize bytes of control submessages.
	New(rdGUID [16]byte, maxSize int) (MessageBuilder, error)
}

// SecurityEncoder is the capability exposed by the (optional) security
// layer. It may shrink a message's realized size to zero to indicate the
// submessage was dropped.
type SecurityEncoder interface {
	EncodeDataReaderSubmsg(mb MessageBuilder, m Marker, pwGUID, rdGUID [16]byte)
}

// EntityIndex is the capability exposed by the local entity table, used
// only to resolve the local participant behind a reader when the proxy
// writer's remote participant is security-enabled (spec.md section 4.6
// step 3, and SUPPLEMENTED FEATURES item 2 in SPEC_FULL.md).
type EntityIndex interface {
	LookupReader(rdGUID [16]byte) (participantGUID [16]byte, ok bool)
}
