package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/structmeta/endian"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/internal/pool"
)

// Numeric is the set of Go types that map one-to-one onto the ten numeric
// component types. There are no ~ approximations: a named type must be
// converted by the caller, so the encoded width always matches the declared
// component type exactly.
type Numeric interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// ComponentTypeOf returns the component type that T encodes as.
func ComponentTypeOf[T Numeric]() format.ComponentType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return format.ComponentInt8
	case uint8:
		return format.ComponentUint8
	case int16:
		return format.ComponentInt16
	case uint16:
		return format.ComponentUint16
	case int32:
		return format.ComponentInt32
	case uint32:
		return format.ComponentUint32
	case int64:
		return format.ComponentInt64
	case uint64:
		return format.ComponentUint64
	case float32:
		return format.ComponentFloat32
	case float64:
		return format.ComponentFloat64
	}

	return format.ComponentNone
}

// SizeOf returns the byte width of one value of component type ct.
func SizeOf(ct format.ComponentType) (int, error) {
	size := ct.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: component type %s has no fixed width", errs.ErrUnsupportedType, ct)
	}

	return size, nil
}

// ElementSize returns the byte width of one element of type et whose
// components are ct. For ENUM elements ct is the enum value type.
//
// STRING and BOOLEAN elements have no fixed byte width and fail with
// errs.ErrUnsupportedType.
func ElementSize(et format.ElementType, ct format.ComponentType) (int, error) {
	switch {
	case et == format.ElementString, et == format.ElementBoolean:
		return 0, fmt.Errorf("%w: %s elements have no fixed byte width", errs.ErrUnsupportedType, et)
	case et == format.ElementEnum:
		if !ct.IsInteger() {
			return 0, fmt.Errorf("%w: enum value type %s", errs.ErrUnsupportedType, ct)
		}
	case !et.IsNumeric():
		return 0, fmt.Errorf("%w: element type %s", errs.ErrUnsupportedType, et)
	}

	size, err := SizeOf(ct)
	if err != nil {
		return 0, err
	}

	return size * et.ComponentCount(), nil
}

// appendComponent appends v in the fixed-width representation of ct.
// ct must equal ComponentTypeOf[T](), so every conversion below is exact.
func appendComponent[T Numeric](engine endian.EndianEngine, ct format.ComponentType, dst []byte, v T) []byte {
	switch ct {
	case format.ComponentInt8, format.ComponentUint8:
		return append(dst, byte(v))
	case format.ComponentInt16, format.ComponentUint16:
		return engine.AppendUint16(dst, uint16(v))
	case format.ComponentInt32, format.ComponentUint32:
		return engine.AppendUint32(dst, uint32(v))
	case format.ComponentInt64, format.ComponentUint64:
		return engine.AppendUint64(dst, uint64(v))
	case format.ComponentFloat32:
		return engine.AppendUint32(dst, math.Float32bits(float32(v)))
	case format.ComponentFloat64:
		return engine.AppendUint64(dst, math.Float64bits(float64(v)))
	default:
		panic(fmt.Sprintf("encoding: unexpected component type %s", ct))
	}
}

// readComponent decodes one value of ct from the start of data.
func readComponent[T Numeric](engine endian.EndianEngine, ct format.ComponentType, data []byte) T {
	switch ct {
	case format.ComponentInt8:
		return T(int8(data[0]))
	case format.ComponentUint8:
		return T(data[0])
	case format.ComponentInt16:
		return T(int16(engine.Uint16(data)))
	case format.ComponentUint16:
		return T(engine.Uint16(data))
	case format.ComponentInt32:
		return T(int32(engine.Uint32(data)))
	case format.ComponentUint32:
		return T(engine.Uint32(data))
	case format.ComponentInt64:
		return T(int64(engine.Uint64(data)))
	case format.ComponentUint64:
		return T(engine.Uint64(data))
	case format.ComponentFloat32:
		return T(math.Float32frombits(engine.Uint32(data)))
	case format.ComponentFloat64:
		return T(math.Float64frombits(engine.Uint64(data)))
	default:
		panic(fmt.Sprintf("encoding: unexpected component type %s", ct))
	}
}

// NumericEncoder encodes values of one numeric component type into their
// fixed-width binary representation using the given endian engine.
//
// Output length is always Len() * ComponentTypeOf[T]().Size(); values are
// written in input order with no padding.
type NumericEncoder[T Numeric] struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	ct     format.ComponentType
	width  int
	count  int
}

var _ ColumnarEncoder[uint32] = (*NumericEncoder[uint32])(nil)

// NewNumericEncoder creates an encoder for T backed by a pooled column buffer.
//
// The component type is fixed by T, so every value is written at the exact
// width of its glTF component type with no widening or narrowing:
//   - Write: amortized growth through the pooled buffer, one value at a time
//   - WriteSlice: grows the buffer once by len(values) * width, then appends
//
// The buffer comes from the column pool (4KiB initial size). Call Finish when
// done to hand it back; buffers above 256KiB are dropped instead of pooled.
//
// Parameters:
//   - engine: Endian engine for byte order (glTF binary chunks are little-endian)
//
// Returns:
//   - *NumericEncoder[T]: A new encoder ready for T values
//
// Example:
//
//	enc := encoding.NewNumericEncoder[float32](endian.GetLittleEndianEngine())
//	defer enc.Finish()
//	enc.WriteSlice([]float32{1, 2, 3})
//	data := bytes.Clone(enc.Bytes())
func NewNumericEncoder[T Numeric](engine endian.EndianEngine) *NumericEncoder[T] {
	ct := ComponentTypeOf[T]()

	return &NumericEncoder[T]{
		buf:    pool.GetColumnBuffer(),
		engine: engine,
		ct:     ct,
		width:  ct.Size(),
	}
}

// ComponentType returns the component type this encoder writes.
func (e *NumericEncoder[T]) ComponentType() format.ComponentType {
	return e.ct
}

// Write encodes a single value.
//
// Panics if Finish() has been called.
func (e *NumericEncoder[T]) Write(val T) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(e.width)
	e.buf.B = appendComponent(e.engine, e.ct, e.buf.B, val)
}

// WriteSlice encodes values in order, growing the buffer once.
//
// Panics if Finish() has been called.
func (e *NumericEncoder[T]) WriteSlice(values []T) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	e.count += len(values)
	e.buf.Grow(len(values) * e.width)
	for _, v := range values {
		e.buf.B = appendComponent(e.engine, e.ct, e.buf.B, v)
	}
}

// Bytes returns the encoded bytes. The slice aliases the pooled buffer.
func (e *NumericEncoder[T]) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *NumericEncoder[T]) Len() int {
	return e.count
}

// Size returns the number of encoded bytes.
func (e *NumericEncoder[T]) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards the encoded values.
func (e *NumericEncoder[T]) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.count = 0
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *NumericEncoder[T]) Finish() {
	if e.buf != nil {
		pool.PutColumnBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// NumericDecoder decodes buffers produced by NumericEncoder.
//
// The decoder is immutable and stateless; it is returned by value.
type NumericDecoder[T Numeric] struct {
	engine endian.EndianEngine
	ct     format.ComponentType
	width  int
}

var _ ColumnarDecoder[float32] = NumericDecoder[float32]{}

// NewNumericDecoder creates a decoder for T. The engine must match the encoder's.
func NewNumericDecoder[T Numeric](engine endian.EndianEngine) NumericDecoder[T] {
	ct := ComponentTypeOf[T]()

	return NumericDecoder[T]{engine: engine, ct: ct, width: ct.Size()}
}

// All yields count values decoded from data.
func (d NumericDecoder[T]) All(data []byte, count int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if count <= 0 || len(data) < count*d.width {
			return
		}

		for i := range count {
			start := i * d.width
			if !yield(readComponent[T](d.engine, d.ct, data[start:start+d.width])) {
				return
			}
		}
	}
}

// At decodes the value at index.
func (d NumericDecoder[T]) At(data []byte, index int, count int) (T, bool) {
	var zero T
	if index < 0 || index >= count {
		return zero, false
	}

	start := index * d.width
	if start+d.width > len(data) {
		return zero, false
	}

	return readComponent[T](d.engine, d.ct, data[start:start+d.width]), true
}

// EncodeNumeric encodes values into a newly allocated buffer of exactly
// len(values) * size bytes.
func EncodeNumeric[T Numeric](engine endian.EndianEngine, values []T) []byte {
	ct := ComponentTypeOf[T]()
	out := make([]byte, 0, len(values)*ct.Size())
	for _, v := range values {
		out = appendComponent(engine, ct, out, v)
	}

	return out
}

// DecodeNumeric decodes every value in data. The length of data must be a
// multiple of the component width, otherwise errs.ErrCorruptBuffer is returned.
func DecodeNumeric[T Numeric](engine endian.EndianEngine, data []byte) ([]T, error) {
	ct := ComponentTypeOf[T]()
	width := ct.Size()
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %s width %d",
			errs.ErrCorruptBuffer, len(data), ct, width)
	}

	out := make([]T, len(data)/width)
	for i := range out {
		out[i] = readComponent[T](engine, ct, data[i*width:])
	}

	return out, nil
}

// integerRange returns the inclusive int64 range representable by ct.
func integerRange(ct format.ComponentType) (lo, hi int64, ok bool) {
	switch ct {
	case format.ComponentInt8:
		return math.MinInt8, math.MaxInt8, true
	case format.ComponentUint8:
		return 0, math.MaxUint8, true
	case format.ComponentInt16:
		return math.MinInt16, math.MaxInt16, true
	case format.ComponentUint16:
		return 0, math.MaxUint16, true
	case format.ComponentInt32:
		return math.MinInt32, math.MaxInt32, true
	case format.ComponentUint32:
		return 0, math.MaxUint32, true
	case format.ComponentInt64:
		return math.MinInt64, math.MaxInt64, true
	case format.ComponentUint64:
		return 0, math.MaxInt64, true
	default:
		return 0, 0, false
	}
}

// EncodeIntegers encodes int64 values as the integer component type ct.
//
// Unlike EncodeNumeric the Go type is not the component type, so each value
// is range-checked; a value that does not fit fails with errs.ErrTypeMismatch
// and nothing is returned. Enum codes are encoded through this path.
func EncodeIntegers(engine endian.EndianEngine, ct format.ComponentType, values []int64) ([]byte, error) {
	lo, hi, ok := integerRange(ct)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an integer component type", errs.ErrUnsupportedType, ct)
	}

	for i, v := range values {
		if v < lo || v > hi {
			return nil, fmt.Errorf("%w: value %d at index %d does not fit %s", errs.ErrTypeMismatch, v, i, ct)
		}
	}

	out := make([]byte, 0, len(values)*ct.Size())
	for _, v := range values {
		switch ct {
		case format.ComponentInt8, format.ComponentUint8:
			out = append(out, byte(v))
		case format.ComponentInt16, format.ComponentUint16:
			out = engine.AppendUint16(out, uint16(v))
		case format.ComponentInt32, format.ComponentUint32:
			out = engine.AppendUint32(out, uint32(v))
		default:
			out = engine.AppendUint64(out, uint64(v))
		}
	}

	return out, nil
}

// DecodeIntegers decodes a buffer written by EncodeIntegers.
func DecodeIntegers(engine endian.EndianEngine, ct format.ComponentType, data []byte) ([]int64, error) {
	if !ct.IsInteger() {
		return nil, fmt.Errorf("%w: %s is not an integer component type", errs.ErrUnsupportedType, ct)
	}

	width := ct.Size()
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %s width %d",
			errs.ErrCorruptBuffer, len(data), ct, width)
	}

	out := make([]int64, len(data)/width)
	for i := range out {
		b := data[i*width:]
		switch ct {
		case format.ComponentInt8:
			out[i] = int64(int8(b[0]))
		case format.ComponentUint8:
			out[i] = int64(b[0])
		case format.ComponentInt16:
			out[i] = int64(int16(engine.Uint16(b)))
		case format.ComponentUint16:
			out[i] = int64(engine.Uint16(b))
		case format.ComponentInt32:
			out[i] = int64(int32(engine.Uint32(b)))
		case format.ComponentUint32:
			out[i] = int64(engine.Uint32(b))
		default:
			out[i] = int64(engine.Uint64(b)) //nolint:gosec
		}
	}

	return out, nil
}
