package acknack

import (
	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

// Outcome classifies what should be done about a potential outbound
// message (spec.md section 4.4).
type Outcome int

const (
	// Ack is a pure ACK: nothing is missing (or nothing worth NACKing
	// yet), and the writer is owed one.
	Ack Outcome = iota
	// Nack carries a sequence-number bitmap, a fragment bitmap, or both.
	Nack
	// NackFragOnly carries only a NackFrag; the AckNack submessage is
	// skipped entirely.
	NackFragOnly
	// SuppressedAck means nothing is owed: no message is sent.
	SuppressedAck
	// SuppressedNack means the NACK region hasn't moved and neither
	// NackDelay nor a directed heartbeat justifies resending yet.
	SuppressedNack
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ACK"
	case Nack:
		return "NACK"
	case NackFragOnly:
		return "NACKFRAG_ONLY"
	case SuppressedAck:
		return "SUPPRESSED_ACK"
	case SuppressedNack:
		return "SUPPRESSED_NACK"
	default:
		return "UNKNOWN"
	}
}

// Decision is the full output of the classifier (spec.md section 4.4):
// what to do, the bitmap content to encode if anything is sent, and the
// NackSummary to commit if the caller proceeds.
type Decision struct {
	Outcome             Outcome
	Info                AckNackInfo
	NackSummary         NackSummary
	NackSentOnNackDelay bool
}

// Decide implements C4 (spec.md section 4.4).
func Decide(pw *ProxyWriter, rm *ReaderMatch, ackDelayPassed, nackDelayPassed bool) Decision {
	src := selectSource(pw, rm)
	info, hasNack := buildBitmaps(pw, rm, src)

	if !hasNack {
		outcome := Ack
		if !ackOwed(rm, info.AckNack.BitmapBase, ackDelayPassed) {
			outcome = SuppressedAck
		}
		return Decision{
			Outcome:             outcome,
			Info:                info,
			NackSummary:         NackSummary{SeqBase: info.AckNack.BitmapBase},
			NackSentOnNackDelay: rm.NackSentOnNackDelay,
		}
	}

	seqBase := info.AckNack.BitmapBase
	seqEndP1 := seqBase.Add(seqnum.Size(info.AckNack.NumBits))

	var fragBase, fragEndP1 fragnum.Value
	if info.NackFragSeq != 0 {
		fragBase = info.NackFrag.BitmapBase
		fragEndP1 = fragBase.Add(info.NackFrag.NumBits)
	}

	summary := NackSummary{SeqBase: seqBase, SeqEndP1: seqEndP1, FragBase: fragBase, FragEndP1: fragEndP1}

	var outcome Outcome
	var nackSentOnNackDelay bool

	switch {
	case seqBase > rm.LastNack.SeqEndP1 || (seqBase == rm.LastNack.SeqEndP1 && fragBase >= rm.LastNack.FragEndP1):
		outcome = Nack
		nackSentOnNackDelay = false

	case rm.DirectedHeartbeat && (!rm.NackSentOnNackDelay || nackDelayPassed):
		outcome = Nack
		nackSentOnNackDelay = false

	case nackDelayPassed:
		outcome = Nack
		nackSentOnNackDelay = true

	default:
		outcome = SuppressedNack
		info.AckNack.NumBits = 0
		info.NackFragSeq = 0
		nackSentOnNackDelay = rm.NackSentOnNackDelay
	}

	// Step 2: pure-ACK gating.
	if outcome == Ack || outcome == SuppressedNack {
		if !ackOwed(rm, summary.SeqBase, ackDelayPassed) {
			outcome = SuppressedAck
		}
	}

	// Step 3: NackFrag-only.
	if outcome == Nack && info.AckNack.NumBits == 0 && info.NackFragSeq != 0 && !rm.AckRequested {
		outcome = NackFragOnly
	}

	return Decision{
		Outcome:             outcome,
		Info:                info,
		NackSummary:         summary,
		NackSentOnNackDelay: nackSentOnNackDelay,
	}
}

// ackOwed is the pure-ACK gating rule (step 2): a pure ACK is only sent when
// the writer asked for one since the last ACK and either the acknowledged
// base moved or AckDelay has passed.
func ackOwed(rm *ReaderMatch, seqBase seqnum.Value, ackDelayPassed bool) bool {
	return rm.HeartbeatSinceAck && rm.AckRequested && (seqBase > rm.LastNack.SeqBase || ackDelayPassed)
}
