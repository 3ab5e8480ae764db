// Package pool recycles the scratch memory of column encoders and chunk
// builders.
package pool

import "sync"

// Default sizes of the pooled buffers.
const (
	ColumnBufferDefaultSize  = 1024 * 4         // 4KiB, one property column
	ColumnBufferMaxThreshold = 1024 * 256       // 256KiB
	ChunkBufferDefaultSize   = 1024 * 64        // 64KiB, a whole binary chunk
	ChunkBufferMaxThreshold  = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is an append-only byte slice owned by one encoder at a time.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates an empty buffer with capacity size.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the contents. The slice aliases pooled memory.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Clone returns a copy of the contents that outlives the buffer.
func (bb *ByteBuffer) Clone() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Pad appends zero bytes until the length is a multiple of alignment and
// returns how many were appended.
func (bb *ByteBuffer) Pad(alignment int) int {
	if alignment <= 1 {
		return 0
	}

	rem := len(bb.B) % alignment
	if rem == 0 {
		return 0
	}

	n := alignment - rem
	bb.Grow(n)
	for range n {
		bb.B = append(bb.B, 0)
	}

	return n
}

// Grow makes room for n more bytes. Small buffers grow by
// ColumnBufferDefaultSize, larger ones by a quarter of their capacity.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := ColumnBufferDefaultSize
	if cap(bb.B) > 4*ColumnBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	growBy = max(growBy, n)

	grown := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(grown, bb.B)
	bb.B = grown
}

// ByteBufferPool hands out buffers of a default size. Buffers that grew
// beyond maxThreshold are dropped on Put.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with capacity size.
func NewByteBufferPool(size, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(size) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put resets bb and returns it to the pool.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var (
	columnPool = NewByteBufferPool(ColumnBufferDefaultSize, ColumnBufferMaxThreshold)
	chunkPool  = NewByteBufferPool(ChunkBufferDefaultSize, ChunkBufferMaxThreshold)
)

// GetColumnBuffer returns a buffer sized for one property column.
func GetColumnBuffer() *ByteBuffer { return columnPool.Get() }

// PutColumnBuffer returns a column buffer.
func PutColumnBuffer(bb *ByteBuffer) { columnPool.Put(bb) }

// GetChunkBuffer returns a buffer sized for a binary chunk.
func GetChunkBuffer() *ByteBuffer { return chunkPool.Get() }

// PutChunkBuffer returns a chunk buffer.
func PutChunkBuffer(bb *ByteBuffer) { chunkPool.Put(bb) }
