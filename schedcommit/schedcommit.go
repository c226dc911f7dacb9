// Package schedcommit implements the Scheduler/Committer (spec.md section
// 4.6): the two entry points that drive the classifier on a timer and, on
// commit, serialize the resulting submessages and update ReaderMatch /
// ProxyWriter state.
package schedcommit

import (
	"fmt"
	"time"

	"github.com/yzrtps/acknack/acknack"
	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/metrics"
	"github.com/yzrtps/acknack/submsg"
)

// entityID extracts the 4-byte entity id suffix of a 16-byte GUID.
func entityID(guid [16]byte) [4]byte {
	var e [4]byte
	copy(e[:], guid[12:])
	return e
}

func delaysPassed(rm *acknack.ReaderMatch, tnow time.Time) (ackDelayPassed, nackDelayPassed bool) {
	ackDelayPassed = !tnow.Before(rm.TLastAck.Add(rm.Config.AckDelay))
	nackDelayPassed = !tnow.Before(rm.TLastNack.Add(rm.Config.NackDelay))
	return
}

// SchedAcknackIfNeeded is the predictive half of C6: it runs the classifier
// without sending anything and only rearms the retry event.
func SchedAcknackIfNeeded(pw *acknack.ProxyWriter, rm *acknack.ReaderMatch, scheduler external.EventScheduler, tnow time.Time, avoidSuppressedNack bool) {
	ackDelayPassed, nackDelayPassed := delaysPassed(rm, tnow)
	d := acknack.Decide(pw, rm, ackDelayPassed, nackDelayPassed)

	switch {
	case d.Outcome == acknack.SuppressedAck:
		// do nothing
	case d.Outcome == acknack.SuppressedNack && avoidSuppressedNack:
		scheduler.ReschedIfEarlier(rm.TLastNack.Add(rm.Config.NackDelay))
	default:
		scheduler.ReschedIfEarlier(tnow)
	}
}

// MakeAndReschedAcknack is the commit half of C6. It runs the classifier,
// and if the outcome warrants a message, builds it in a builder from pool
// (which is freed again before returning; the message itself is not
// returned) while updating rm/pw state and rearming the retry event. sent
// reports whether a message was actually produced; err is non-nil only on pool exhaustion,
// which the caller should treat as transient (spec.md section 7).
func MakeAndReschedAcknack(
	pw *acknack.ProxyWriter,
	rm *acknack.ReaderMatch,
	pool external.MessageBuilderPool,
	sec external.SecurityEncoder,
	entityIndex external.EntityIndex,
	scheduler external.EventScheduler,
	tnow time.Time,
	avoidSuppressedNack bool,
) (sent bool, err error) {
	ackDelayPassed, nackDelayPassed := delaysPassed(rm, tnow)
	d := acknack.Decide(pw, rm, ackDelayPassed, nackDelayPassed)
	metrics.Observe(d.Outcome, d.Info.AckNack.NumBits, d.Info.NackFrag.NumBits)

	if d.Outcome == acknack.SuppressedAck {
		return false, nil
	}
	if d.Outcome == acknack.SuppressedNack && avoidSuppressedNack {
		scheduler.ReschedIfEarlier(rm.TLastNack.Add(rm.Config.NackDelay))
		return false, nil
	}

	// Step 1.
	rm.DirectedHeartbeat = false
	rm.HeartbeatSinceAck = false
	rm.HeartbeatFragSinceAck = false

	// Step 2.
	rm.NackSentOnNackDelay = d.NackSentOnNackDelay

	// Step 3.
	if pw.Secure {
		if _, ok := entityIndex.LookupReader(rm.RdGUID); !ok {
			// No local participant resolvable behind this reader; nothing
			// to encode for it this cycle.
			return false, nil
		}
	}
	maxSize := submsg.MaxAckNackSize + submsg.MaxNackFragSize
	mb, poolErr := pool.New(rm.RdGUID, maxSize)
	if poolErr != nil {
		return false, poolErr
	}
	defer mb.Free()

	// Step 4.
	if pw.Config.MeasureHBToAckLatency && !rm.HBTimestamp.IsZero() {
		mb.AddTimestamp(rm.HBTimestamp)
		rm.HBTimestamp = time.Time{}
	}

	// Step 5.
	if d.Outcome != acknack.NackFragOnly {
		m, buf := mb.Append(submsg.MaxAckNackSize)
		// rm.Count is only mutated at step 8, but the wire value reflects
		// the count of the message being assembled right now.
		size := submsg.EncodeAckNack(buf, entityID(rm.RdGUID), entityID(pw.GUID), d.Info.AckNack, true, rm.Count+1, submsg.ReasonUnspecified)
		mb.Shrink(m, size)
		sec.EncodeDataReaderSubmsg(mb, m, pw.GUID, rm.RdGUID)
	}

	// Step 6.
	if d.Info.NackFragSeq != 0 {
		m, buf := mb.Append(submsg.MaxNackFragSize)
		size := submsg.EncodeNackFrag(buf, entityID(rm.RdGUID), entityID(pw.GUID), int64(d.Info.NackFragSeq), d.Info.NackFrag, pw.NackFragCount)
		mb.Shrink(m, size)
		sec.EncodeDataReaderSubmsg(mb, m, pw.GUID, rm.RdGUID)
	}

	// Step 7.
	if mb.Size() == 0 {
		return false, nil
	}

	// Step 8.
	rm.Count++

	// Step 9.
	switch d.Outcome {
	case acknack.Ack:
		rm.AckRequested = false
		rm.TLastAck = tnow
		rm.LastNack.SeqBase = d.NackSummary.SeqBase

	case acknack.Nack, acknack.NackFragOnly:
		if d.NackSummary.FragEndP1 != 0 {
			pw.NackFragCount++
			metrics.NackFragCount.WithLabelValues(fmt.Sprintf("%x", pw.GUID)).Set(float64(pw.NackFragCount))
		}
		if d.Outcome != acknack.NackFragOnly {
			rm.AckRequested = false
			rm.TLastAck = tnow
		}
		rm.LastNack = d.NackSummary
		rm.TLastNack = tnow
		scheduler.ReschedIfEarlier(tnow.Add(rm.Config.AutoReschedNackDelay))

	case acknack.SuppressedNack:
		rm.AckRequested = false
		rm.TLastAck = tnow
		rm.LastNack.SeqBase = d.NackSummary.SeqBase
		scheduler.ReschedIfEarlier(rm.TLastNack.Add(rm.Config.NackDelay))
	}

	return true, nil
}
