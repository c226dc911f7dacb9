// Package msgpoolfake is a minimal in-process implementation of
// external.MessageBuilderPool, standing in for the real RTPS message pool
// (spec.md's "message builder" collaborator, out of scope per section 1).
// It backs each builder with a buffer.Growable (the teacher's
// Prependable, mirrored to grow forward instead of backward) and uses
// tmutex, adapted from the teacher's tmutex package, to serialize
// allocation the way a shared pool would need to.
package msgpoolfake

import (
	"time"

	"github.com/pkg/errors"

	"github.com/yzrtps/acknack/acknack"
	"github.com/yzrtps/acknack/buffer"
	"github.com/yzrtps/acknack/external"
	"github.com/yzrtps/acknack/tmutex"
)

// Pool is a fixed-capacity message builder pool. A capacity of 0 means
// unlimited, useful for tests and the demo CLI.
type Pool struct {
	mu       tmutex.Mutex
	capacity int
	inUse    int
}

// NewPool constructs a Pool with the given capacity (0 for unlimited).
func NewPool(capacity int) *Pool {
	p := &Pool{capacity: capacity}
	p.mu.Init()
	return p
}

// New implements external.MessageBuilderPool.
func (p *Pool) New(rdGUID [16]byte, maxSize int) (external.MessageBuilder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.capacity > 0 && p.inUse >= p.capacity {
		return nil, errors.Wrap(acknack.ErrNoMessageAvailable, "msgpoolfake: pool exhausted")
	}
	p.inUse++

	g := buffer.NewGrowable(maxSize)
	return &builder{pool: p, rdGUID: rdGUID, buf: g}, nil
}

type builder struct {
	pool     *Pool
	rdGUID   [16]byte
	buf      buffer.Growable
	released bool
}

func (b *builder) Append(size int) (external.Marker, []byte) {
	off, s := b.buf.Append(size)
	return external.Marker(off), s
}

func (b *builder) Shrink(m external.Marker, size int) {
	b.buf.Shrink(int(m), size)
}

func (b *builder) AddTimestamp(t time.Time) {
	// INFO_TS submessage: kind 0x09, 8 bytes of seconds+fraction. Encoded
	// directly here rather than via the submsg package, which only knows
	// about AckNack/NackFrag.
	const infoTsSize = 12
	_, s := b.Append(infoTsSize)
	s[0] = 0x09
	s[1] = 0
	s[2], s[3] = 0, 8
	sec := uint32(t.Unix())
	frac := uint32((uint64(t.Nanosecond()) << 32) / 1e9)
	putU32(s[4:8], sec)
	putU32(s[8:12], frac)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func (b *builder) Size() int {
	return b.buf.Len()
}

func (b *builder) Free() {
	if b.released {
		return
	}
	b.released = true
	b.pool.mu.Lock()
	b.pool.inUse--
	b.pool.mu.Unlock()
}

// Bytes returns the message's realized bytes, for tests and the demo CLI.
func (b *builder) Bytes() []byte {
	return b.buf.Bytes()
}
