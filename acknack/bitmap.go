package acknack

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

// AckNackInfo is the transient, per-decision output of BitmapBuilder
// (spec.md section 3, "AckNackInfo (transient, per decision)").
type AckNackInfo struct {
	AckNack SequenceNumberSet

	// NackFragSeq is the sample number for which fragments are being
	// NACK'd; seqnum.Invalid means "no NackFrag".
	NackFragSeq seqnum.Value
	NackFrag    FragmentNumberSet
}

// buildBitmaps implements C3 (spec.md section 4.3): it builds the
// sequence-number NACK bitmap, then scans it to find the first
// partially-known missing sample and builds a fragment NACK bitmap for it.
// The returned bool is false only when the result is necessarily a pure
// ACK (no sequence numbers and no fragments to NACK).
func buildBitmaps(pw *ProxyWriter, rm *ReaderMatch, src source) (AckNackInfo, bool) {
	var info AckNackInfo

	lastSeq := effectiveLastSeq(pw, rm)
	numBits := src.reorder.NackMap(src.bitmapBase, lastSeq, info.AckNack.Bits[:], MaxSequenceNumberBits, src.notail)
	if numBits > MaxSequenceNumberBits {
		glog.Errorf("%+v", errors.Wrapf(ErrBitmapTooLarge, "numBits=%d", numBits))
		numBits = MaxSequenceNumberBits
	}

	info.AckNack.BitmapBase = src.bitmapBase
	info.AckNack.NumBits = numBits

	if numBits == 0 {
		info.NackFragSeq = seqnum.Invalid
		return info, false
	}

	for i := 0; i < numBits; i++ {
		if !info.AckNack.Test(i) {
			continue
		}

		seq := src.bitmapBase.Add(seqnum.Size(i))

		fn := fragnum.Unknown
		if seq == pw.LastSeq {
			fn = pw.LastFragNum
		}

		base, fragBits, verdict := pw.Defrag.NackMap(seq, fn, info.NackFrag.Bits[:], MaxFragmentNumberBits)

		switch verdict {
		case external.UnknownSample:
			continue

		case external.AllAdvertisedFragmentsKnown:
			info.AckNack.Truncate(i)
			info.NackFragSeq = seqnum.Invalid
			return info, i > 0

		case external.FragmentsMissing:
			if fragBits > MaxFragmentNumberBits {
				glog.Errorf("%+v", errors.Wrapf(ErrFragBitmapTooLarge, "numBits=%d", fragBits))
				fragBits = MaxFragmentNumberBits
			}
			info.AckNack.Truncate(i)
			info.NackFragSeq = seq
			info.NackFrag.BitmapBase = base
			info.NackFrag.NumBits = fragBits
			return info, true
		}
	}

	return info, true
}
