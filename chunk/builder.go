// Package chunk lays encoded property buffers out in one binary chunk.
//
// Buffers are copied verbatim, each starting at an aligned offset. Identical
// buffers are stored once and share a buffer view.
package chunk

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/internal/collision"
	"github.com/arloliu/structmeta/internal/options"
	"github.com/arloliu/structmeta/internal/pool"
)

// DefaultAlignment is the default byte alignment of buffer views.
const DefaultAlignment = 8

type config struct {
	alignment int
	dedup     bool
}

// Option configures a Builder or Pack.
type Option = options.Option[*config]

// WithAlignment sets the byte alignment of every buffer view. It must be a
// power of two.
func WithAlignment(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 || bits.OnesCount(uint(n)) != 1 {
			return fmt.Errorf("%w: %d is not a power of two", errs.ErrInvalidAlignment, n)
		}
		c.alignment = n

		return nil
	})
}

// WithDeduplication enables or disables sharing views between identical
// buffers. It is enabled by default.
func WithDeduplication(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.dedup = enabled
	})
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{alignment: DefaultAlignment, dedup: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// View locates one buffer inside the chunk.
type View struct {
	ByteOffset int
	ByteLength int
}

// Builder appends buffers to a pooled chunk buffer.
type Builder struct {
	cfg     *config
	buf     *pool.ByteBuffer
	views   []View
	tracker *collision.Tracker
}

// NewBuilder creates an empty chunk builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	b := &Builder{cfg: cfg, buf: pool.GetChunkBuffer()}
	if cfg.dedup {
		b.tracker = collision.NewTracker()
	}

	return b, nil
}

// Add appends data and returns the index of its view. With deduplication a
// buffer equal to an earlier one returns the earlier view.
//
// data must not be modified while the builder is in use.
func (b *Builder) Add(data []byte) int {
	if b.buf == nil {
		panic("chunk builder already released")
	}

	next := len(b.views)
	if b.tracker != nil {
		if id, dup := b.tracker.Track(data, next); dup {
			return id
		}
	}

	b.buf.Pad(b.cfg.alignment)
	offset := b.buf.Len()
	b.buf.MustWrite(data)
	b.views = append(b.views, View{ByteOffset: offset, ByteLength: len(data)})

	return next
}

// Views returns the buffer views in creation order.
func (b *Builder) Views() []View {
	return b.views
}

// Bytes returns the chunk, padded to the alignment. The slice aliases the
// builder's buffer and is only valid until Release.
func (b *Builder) Bytes() []byte {
	b.buf.Pad(b.cfg.alignment)
	return b.buf.Bytes()
}

// Len returns the current chunk length in bytes.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Release returns the buffer to the pool. The builder is unusable afterwards.
func (b *Builder) Release() {
	if b.buf != nil {
		pool.PutChunkBuffer(b.buf)
		b.buf = nil
	}
}
