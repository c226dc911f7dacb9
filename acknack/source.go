package acknack

import (
	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/seqnum"
)

// source bundles the chosen reorder buffer and the parameters BitmapBuilder
// needs to drive it: the return value of C2 (spec.md section 4.2).
type source struct {
	reorder    external.ReorderSource
	bitmapBase seqnum.Value
	notail     bool
}

// selectSource implements C2 (spec.md section 4.2): it picks which reorder
// source to NACK against and whether tail-cutting applies.
func selectSource(pw *ProxyWriter, rm *ReaderMatch) source {
	if rm.InSync == OutOfSync || rm.Filtered {
		r := rm.NotInSyncReorder
		return source{reorder: r, bitmapBase: r.NextSeq(), notail: false}
	}

	if !pw.Config.LateAckMode {
		return source{reorder: pw.Reorder, bitmapBase: pw.Reorder.NextSeq(), notail: false}
	}

	base := pw.NextDelivSeq(pw.Reorder.NextSeq())
	return source{
		reorder:    pw.Reorder,
		bitmapBase: base,
		notail:     pw.DQueue.IsFull(),
	}
}
