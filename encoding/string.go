package encoding

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/internal/pool"
)

// StringEncoder concatenates UTF-8 strings with no separators or padding and
// records the byte offset of every string boundary alongside.
//
// After n writes Offsets() holds n+1 entries: offsets[0] is 0 and
// offsets[i+1]-offsets[i] is the UTF-8 byte length of string i.
//
// Note: The StringEncoder is NOT a ColumnarEncoder, since the offsets are
// part of its output.
type StringEncoder struct {
	buf     *pool.ByteBuffer
	offsets []uint64
}

// NewStringEncoder creates a string encoder backed by a pooled buffer.
func NewStringEncoder() *StringEncoder {
	return &StringEncoder{
		buf:     pool.GetColumnBuffer(),
		offsets: []uint64{0},
	}
}

// Write appends a single string.
func (e *StringEncoder) Write(text string) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.Grow(len(text))
	e.buf.B = append(e.buf.B, text...)
	e.offsets = append(e.offsets, uint64(e.buf.Len()))
}

// WriteSlice appends texts in order, growing the buffer once.
func (e *StringEncoder) WriteSlice(texts []string) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	total := 0
	for _, text := range texts {
		total += len(text)
	}
	e.buf.Grow(total)

	for _, text := range texts {
		e.buf.B = append(e.buf.B, text...)
		e.offsets = append(e.offsets, uint64(e.buf.Len()))
	}
}

// Bytes returns the concatenated string bytes. The slice aliases the pooled buffer.
//
// Panics if Finish() has been called.
func (e *StringEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Offsets returns the string boundary offsets (Len()+1 entries).
func (e *StringEncoder) Offsets() []uint64 {
	return e.offsets
}

// Len returns the number of strings written, 0 after Finish.
func (e *StringEncoder) Len() int {
	if len(e.offsets) == 0 {
		return 0
	}

	return len(e.offsets) - 1
}

// Size returns the number of bytes written.
//
// Panics if Finish() has been called.
func (e *StringEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards the written strings.
func (e *StringEncoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.offsets = e.offsets[:1]
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *StringEncoder) Finish() {
	if e.buf != nil {
		pool.PutColumnBuffer(e.buf)
		e.buf = nil
	}
	e.offsets = nil
}

// EncodeStrings concatenates values and returns the data together with the
// len(values)+1 boundary offsets.
func EncodeStrings(values []string) ([]byte, []uint64) {
	total := 0
	for _, v := range values {
		total += len(v)
	}

	data := make([]byte, 0, total)
	offsets := make([]uint64, 1, len(values)+1)
	for _, v := range values {
		data = append(data, v...)
		offsets = append(offsets, uint64(len(data)))
	}

	return data, offsets
}

// DecodeStrings splits data at the given boundary offsets.
//
// Offsets must be non-decreasing and within data, otherwise
// errs.ErrCorruptBuffer is returned.
func DecodeStrings(data []byte, offsets []uint64) ([]string, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: string offsets are empty", errs.ErrCorruptBuffer)
	}

	out := make([]string, 0, len(offsets)-1)
	for i := 1; i < len(offsets); i++ {
		start, end := offsets[i-1], offsets[i]
		if end < start || end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: string offset %d (%d..%d) outside %d bytes",
				errs.ErrCorruptBuffer, i-1, start, end, len(data))
		}
		out = append(out, string(data[start:end]))
	}

	return out, nil
}
