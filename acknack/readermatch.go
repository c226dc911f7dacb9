package acknack

import (
	"time"

	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

// SyncState is the in_sync field of a ReaderMatch (spec.md section 3).
type SyncState int

const (
	InSync SyncState = iota
	OutOfSync
	TransientLocalWait
)

// ReaderMatchConfig holds the per-match tunables; AckDelay/NackDelay are
// kept as durations here (whole milliseconds in the config file, see
// config.go) rather than raw nanoseconds, matching how time.Duration is
// used throughout the teacher's transport/tcp sender (srtt/rttvar/rto).
type ReaderMatchConfig struct {
	AckDelay             time.Duration
	NackDelay            time.Duration
	AutoReschedNackDelay time.Duration
}

// NackSummary describes the previously-sent NACK region (spec.md section
// 3). The region is [seq_base:0 .. seq_end_p1:0) union, when frag_end_p1 is
// non-zero, (seq_end_p1:frag_base .. seq_end_p1:frag_end_p1).
type NackSummary struct {
	SeqBase    seqnum.Value
	SeqEndP1   seqnum.Value
	FragBase   fragnum.Value
	FragEndP1  fragnum.Value
}

// ReaderMatch is the per (reader, proxy-writer) state (spec.md section 3,
// "ReaderMatch (RM)").
type ReaderMatch struct {
	RdGUID [16]byte

	InSync   SyncState
	Filtered bool

	// LastSeq is only meaningful when Filtered is true: the reader-local
	// high-water mark for readers with a content filter.
	LastSeq seqnum.Value

	// NotInSyncReorder is the per-match reorder buffer used while the
	// match is catching up (OutOfSync or Filtered).
	NotInSyncReorder external.ReorderSource

	Count uint32

	LastNack NackSummary

	NackSentOnNackDelay bool

	HeartbeatSinceAck     bool
	HeartbeatFragSinceAck bool
	AckRequested          bool
	DirectedHeartbeat     bool

	TLastAck  time.Time
	TLastNack time.Time

	// HBTimestamp is the timestamp of the last HB reception, used for
	// HB->ACK latency measurement when ProxyWriterConfig.MeasureHBToAckLatency
	// is set; cleared once consumed by schedcommit.
	HBTimestamp time.Time

	Config ReaderMatchConfig
}

// NewReaderMatch constructs a ReaderMatch with the given identity and
// config. The zero value otherwise matches a freshly-matched reader: no
// heartbeat seen yet, nothing NACK'd, no ACK owed.
func NewReaderMatch(rdGUID [16]byte, cfg ReaderMatchConfig) *ReaderMatch {
	return &ReaderMatch{
		RdGUID: rdGUID,
		Config: cfg,
	}
}

// effectiveLastSeq picks rm.LastSeq when the match is filtered, else
// pw.LastSeq, matching the "last_seq = rm.last_seq if rm.filtered else
// pw.last_seq" rule in spec.md section 4.3.
func effectiveLastSeq(pw *ProxyWriter, rm *ReaderMatch) seqnum.Value {
	if rm.Filtered {
		return rm.LastSeq
	}
	return pw.LastSeq
}
