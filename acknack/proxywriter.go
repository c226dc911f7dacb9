package acknack

import (
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

// ProxyWriterConfig holds the per-proxy-writer tunables from spec.md
// section 3 ("config.*"). Defaults are loaded by the config package; see
// SPEC_FULL.md's AMBIENT STACK section.
type ProxyWriterConfig struct {
	LateAckMode               bool
	AckDelayNanos             int64
	NackDelayNanos            int64
	AutoReschedNackDelayNanos int64
	MeasureHBToAckLatency     bool
}

// ProxyWriter is the local representation of a remote writer (spec.md
// section 3, "ProxyWriter (PW)").
type ProxyWriter struct {
	GUID [16]byte

	// Secure marks that the remote proxy participant behind this writer
	// has security enabled; when true, schedcommit.MakeAndReschedAcknack
	// looks up the local participant behind the reader via an
	// external.EntityIndex and builds no message when that lookup fails
	// (SUPPLEMENTED FEATURES item 2 in SPEC_FULL.md).
	Secure bool

	LastSeq      seqnum.Value
	LastFragNum  fragnum.Value

	// nextDelivSeqLowWord holds the low 32 bits of the next sequence
	// number to be handed to the application. Written (store) by the
	// delivery thread, read (load) by the event thread that computes
	// AckNack content. See NextDelivSeq.
	nextDelivSeqLowWord uint32

	Reorder external.ReorderSource
	Defrag  external.Defragmenter
	DQueue  external.DeliveryQueue

	// NackFragCount tags each emitted NackFrag submessage; incremented by
	// schedcommit once per sent NackFrag, never per sample bit.
	NackFragCount uint32

	Config ProxyWriterConfig
}

// NewProxyWriter constructs a ProxyWriter with the given identity,
// collaborators and config.
func NewProxyWriter(guid [16]byte, reorder external.ReorderSource, defrag external.Defragmenter, dq external.DeliveryQueue, cfg ProxyWriterConfig) *ProxyWriter {
	return &ProxyWriter{
		GUID:    guid,
		Reorder: reorder,
		Defrag:  defrag,
		DQueue:  dq,
		Config:  cfg,
	}
}

// PublishNextDelivSeq is called by the delivery thread each time a sample
// is handed to the application. Only the low 32 bits are published
// atomically; NextDelivSeq reconstructs the full 64-bit value.
func (pw *ProxyWriter) PublishNextDelivSeq(nd seqnum.Value) {
	atomic.StoreUint32(&pw.nextDelivSeqLowWord, nd.Low())
}

// NextDelivSeq implements C1 (spec.md section 4.1): it derives the next
// sequence number to be delivered to all in-sync readers from the
// concurrently-updated low-word checkpoint, reconstructing the high word
// from nextSeq under the assumption that delivery never lags nextSeq by
// more than 2^32 sequence numbers.
//
// An under-approximation is safe (it only yields a smaller acknowledged
// region); what must never happen is nd > nextSeq or nd < 1. An out-of-range
// result is logged through glog and clamped into [1, nextSeq]; no build of
// this package aborts on it.
func (pw *ProxyWriter) NextDelivSeq(nextSeq seqnum.Value) seqnum.Value {
	lw := atomic.LoadUint32(&pw.nextDelivSeqLowWord)

	ndPrime := seqnum.FromWire(nextSeq.High(), lw)
	nd := ndPrime
	if ndPrime > nextSeq {
		nd = ndPrime - seqnum.Value(uint64(1)<<32)
	}

	if nd < 1 || nd > nextSeq {
		err := errors.Wrapf(ErrInvalidNextDelivSeq, "nd=%d nextSeq=%d lw=%d", nd, nextSeq, lw)
		glog.Errorf("%+v", err)
		nd = clampAssertSeq(nd, 1, nextSeq)
	}

	return nd
}

// clampAssertSeq clamps v into [lo, hi]; it is used in place of aborting on
// an invariant violation (spec.md section 7).
func clampAssertSeq(v, lo, hi seqnum.Value) seqnum.Value {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
