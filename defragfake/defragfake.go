// Package defragfake is a minimal in-memory reference implementation of
// external.Defragmenter, for tests and the demo CLI. Like reorderfake, it
// is not a model of production fragment reassembly (spec.md section 1
// names the defragmenter's internals out of scope).
package defragfake

import (
	"sync"

	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/fragnum"
	"github.com/yzrtps/acknack/seqnum"
)

type sample struct {
	lastFragNum fragnum.Value // highest advertised fragment, 0-based; fragnum.Unknown if not yet advertised
	received    map[fragnum.Value]bool
}

// Defrag is a reference Defragmenter keyed by sequence number.
type Defrag struct {
	mu      sync.Mutex
	samples map[seqnum.Value]*sample
}

// New constructs an empty Defrag.
func New() *Defrag {
	return &Defrag{samples: make(map[seqnum.Value]*sample)}
}

// Advertise records that the writer has advertised lastFragNum (0-based)
// fragments for seq, without marking any of them received.
func (d *Defrag) Advertise(seq seqnum.Value, lastFragNum fragnum.Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.sampleLocked(seq)
	s.lastFragNum = lastFragNum
}

// Receive records that fragment frag (0-based) of seq has arrived.
func (d *Defrag) Receive(seq seqnum.Value, frag fragnum.Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.sampleLocked(seq)
	s.received[frag] = true
}

func (d *Defrag) sampleLocked(seq seqnum.Value) *sample {
	s, ok := d.samples[seq]
	if !ok {
		s = &sample{lastFragNum: fragnum.Unknown, received: make(map[fragnum.Value]bool)}
		d.samples[seq] = s
	}
	return s
}

// NackMap implements external.Defragmenter.
func (d *Defrag) NackMap(seq seqnum.Value, fragNum fragnum.Value, bits []uint32, maxBits int) (fragnum.Value, int, external.DefragVerdict) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.samples[seq]
	if !ok {
		return 0, 0, external.UnknownSample
	}

	last := s.lastFragNum
	if fragNum != fragnum.Unknown {
		last = fragNum
	}
	if last == fragnum.Unknown {
		return 0, 0, external.UnknownSample
	}

	total := int(last) + 1
	if total > maxBits {
		total = maxBits
	}

	missing := false
	for i := 0; i < total; i++ {
		if !s.received[fragnum.Value(i)] {
			setBit(bits, i)
			missing = true
		}
	}

	if !missing {
		return 0, 0, external.AllAdvertisedFragmentsKnown
	}
	return 0, total, external.FragmentsMissing
}

func setBit(words []uint32, i int) {
	w := i / 32
	b := uint(31 - i%32)
	words[w] |= 1 << b
}
