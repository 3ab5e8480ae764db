package encoding

import "iter"

// ColumnarEncoder accumulates a homogeneous column of values into one
// contiguous byte buffer.
type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice, Reset or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the size in bytes of the encoded values.
	Size() int

	// Reset discards the encoded values and keeps the buffer for reuse.
	Reset()

	// Finish returns buffer resources to the pool.
	//
	// After calling Finish(), the encoder is no longer usable. Any subsequent calls to
	// Write(), WriteSlice(), Bytes() or Size() panic due to nil buffer. Copy the
	// result out before finishing:
	//
	//	enc := NewNumericEncoder[uint32](engine)
	//	defer enc.Finish()
	//
	//	enc.WriteSlice(ages)
	//	values := bytes.Clone(enc.Bytes())
	Finish()

	// Write encodes a single value.
	Write(data T)

	// WriteSlice encodes a slice of values in order.
	WriteSlice(values []T)
}

// ColumnarDecoder reads values back out of a buffer produced by the matching encoder.
type ColumnarDecoder[T comparable] interface {
	// All returns an iterator that yields up to count decoded values.
	//
	// If data is shorter than count values the iterator yields nothing; callers
	// that need an error should check the length first or use the Decode helpers.
	All(data []byte, count int) iter.Seq[T]

	// At retrieves the value at the zero-based index.
	//
	// If the index is out of bounds (index < 0 or index >= count), or data is too
	// short, the second return value is false.
	At(data []byte, index int, count int) (T, bool)
}
