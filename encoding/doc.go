// Package encoding is the binary value codec of structmeta.
//
// It turns homogeneous sequences of typed values into the contiguous byte
// buffers stored by property tables, and reads them back. Everything here is
// stateless or owned by a single encoder; nothing touches the schema.
//
// # Byte Order
//
// Multi-byte components are written with an endian.EndianEngine. Property
// tables use little-endian unless configured otherwise, which is what glTF
// binary chunks require.
//
// # Numeric Values
//
// The Numeric constraint lists exactly the ten Go types that correspond to
// the ten component types (int8 ↔ INT8, ..., float64 ↔ FLOAT64). The
// per-component put/read functions are selected by a switch over
// format.ComponentType, so a value is never widened or narrowed:
//
//	engine := endian.GetLittleEndianEngine()
//	data := encoding.EncodeNumeric(engine, []uint32{100}) // 4 bytes
//	ages, _ := encoding.DecodeNumeric[uint32](engine, data)
//
// NumericEncoder/NumericDecoder implement the ColumnarEncoder and
// ColumnarDecoder interfaces for incremental use with pooled buffers.
//
// # Strings
//
// Strings are concatenated as UTF-8 with no separators or padding. The
// boundaries are a separate offset sequence produced alongside:
//
//	data, offsets := encoding.EncodeStrings([]string{"Wall", "Door"})
//	// data = "WallDoor", offsets = [0 4 8]
//
// # Booleans
//
// PackBools packs one bit per value, LSB-first: value i lives in byte i/8 at
// bit i%8. The generic Encode entry point rejects []bool.
//
// # Offsets
//
// Array and string offset buffers are encoded with EncodeOffsets as one of
// the unsigned component types (UINT32 by default).
//
// # Errors
//
// Encoding failures return errors wrapping errs.ErrUnsupportedType (and, for
// range-checked paths, errs.ErrTypeMismatch or errs.ErrOffsetOverflow). No
// partial output is ever returned together with an error.
package encoding
