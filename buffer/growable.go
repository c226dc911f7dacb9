package buffer

import (
	"log"
)

// Growable is a buffer that grows forward: callers reserve space with
// Append, fill it in, and may later Shrink a previous reservation down to
// its actual used size. It is the mirror image of Prependable, and exists
// for building RTPS control messages, where submessages are appended one
// after another and the last one's trailing fields (a variable-length
// bitmap, then a count) are only known once the bitmap has been built.
type Growable struct {
	buf    View
	usedLen int
}

// NewGrowable allocates a new growable buffer with the given capacity.
func NewGrowable(capacity int) Growable {
	return Growable{buf: NewView(capacity)}
}

// Append reserves size bytes at the end of the used region, growing the
// backing array if necessary, and returns the offset and the reserved
// slice.
func (g *Growable) Append(size int) (offset int, reserved []byte) {
	need := g.usedLen + size
	if need > len(g.buf) {
		grown := NewView(need)
		copy(grown, g.buf[:g.usedLen])
		g.buf = grown
	}
	offset = g.usedLen
	g.usedLen = need
	return offset, g.buf[offset:g.usedLen:g.usedLen]
}

// Shrink corrects a previous Append's reservation at offset down to size
// bytes, discarding everything appended after it. If offset+size exceeds
// the used length it logs the misuse and leaves the buffer unchanged,
// mirroring Prependable.Prepend's defensive logging.
func (g *Growable) Shrink(offset, size int) {
	if offset+size > g.usedLen || offset > g.usedLen {
		log.Printf("Shrink: offset+size > usedLen\n")
		return
	}
	g.usedLen = offset + size
}

// Len returns the number of bytes used so far.
func (g *Growable) Len() int {
	return g.usedLen
}

// Bytes returns the used portion of the backing buffer.
func (g *Growable) Bytes() []byte {
	return g.buf[:g.usedLen]
}
