package encoding

import (
	"fmt"

	"github.com/arloliu/structmeta/endian"
	"github.com/arloliu/structmeta/errs"
)

// Encode is the generic codec entry point: it encodes a homogeneous slice of
// one of the ten numeric Go types, or a []string, into a contiguous buffer.
//
// Numeric slices produce len * size bytes in input order. String slices
// produce the UTF-8 concatenation with no separators; use EncodeStrings when
// the boundary offsets are needed.
//
// Boolean slices and every other shape, including nested slices, fail with
// errs.ErrUnsupportedType. Booleans are bit-packed by the property table and
// nested arrays must be flattened by the caller together with an explicit
// array offset buffer.
func Encode(engine endian.EndianEngine, values any) ([]byte, error) {
	switch v := values.(type) {
	case []int8:
		return EncodeNumeric(engine, v), nil
	case []uint8:
		return EncodeNumeric(engine, v), nil
	case []int16:
		return EncodeNumeric(engine, v), nil
	case []uint16:
		return EncodeNumeric(engine, v), nil
	case []int32:
		return EncodeNumeric(engine, v), nil
	case []uint32:
		return EncodeNumeric(engine, v), nil
	case []int64:
		return EncodeNumeric(engine, v), nil
	case []uint64:
		return EncodeNumeric(engine, v), nil
	case []float32:
		return EncodeNumeric(engine, v), nil
	case []float64:
		return EncodeNumeric(engine, v), nil
	case []string:
		data, _ := EncodeStrings(v)
		return data, nil
	case []bool:
		return nil, fmt.Errorf("%w: boolean sequences are bit-packed by the property table", errs.ErrUnsupportedType)
	case nil:
		return nil, fmt.Errorf("%w: nil values", errs.ErrUnsupportedType)
	default:
		return nil, fmt.Errorf("%w: cannot encode %T", errs.ErrUnsupportedType, values)
	}
}
