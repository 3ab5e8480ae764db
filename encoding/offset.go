package encoding

import (
	"fmt"

	"github.com/arloliu/structmeta/endian"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
)

// DefaultOffsetType is the offset type used for array and string offsets
// unless configured otherwise.
const DefaultOffsetType = format.ComponentUint32

// ValidateOffsetType returns an error unless ct is an unsigned integer type.
func ValidateOffsetType(ct format.ComponentType) error {
	if !ct.IsUnsigned() {
		return fmt.Errorf("%w: %s (want UINT8, UINT16, UINT32 or UINT64)", errs.ErrInvalidOffsetType, ct)
	}

	return nil
}

// SmallestOffsetType returns the narrowest unsigned type able to hold maxOffset.
func SmallestOffsetType(maxOffset uint64) format.ComponentType {
	for _, ct := range []format.ComponentType{
		format.ComponentUint8, format.ComponentUint16, format.ComponentUint32,
	} {
		if maxOffset <= ct.MaxUint() {
			return ct
		}
	}

	return format.ComponentUint64
}

// EncodeOffsets encodes offsets as the unsigned component type ct.
//
// Fails with errs.ErrInvalidOffsetType for non-unsigned types and
// errs.ErrOffsetOverflow when an offset does not fit.
func EncodeOffsets(engine endian.EndianEngine, ct format.ComponentType, offsets []uint64) ([]byte, error) {
	if err := ValidateOffsetType(ct); err != nil {
		return nil, err
	}

	limit := ct.MaxUint()
	out := make([]byte, 0, len(offsets)*ct.Size())
	for i, off := range offsets {
		if off > limit {
			return nil, fmt.Errorf("%w: offset %d at index %d exceeds %s", errs.ErrOffsetOverflow, off, i, ct)
		}

		switch ct { //nolint:exhaustive
		case format.ComponentUint8:
			out = append(out, byte(off))
		case format.ComponentUint16:
			out = engine.AppendUint16(out, uint16(off))
		case format.ComponentUint32:
			out = engine.AppendUint32(out, uint32(off))
		default:
			out = engine.AppendUint64(out, off)
		}
	}

	return out, nil
}

// DecodeOffsets decodes an offset buffer written by EncodeOffsets.
func DecodeOffsets(engine endian.EndianEngine, ct format.ComponentType, data []byte) ([]uint64, error) {
	if err := ValidateOffsetType(ct); err != nil {
		return nil, err
	}

	width := ct.Size()
	if len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %s width %d",
			errs.ErrCorruptBuffer, len(data), ct, width)
	}

	out := make([]uint64, len(data)/width)
	for i := range out {
		b := data[i*width:]
		switch ct { //nolint:exhaustive
		case format.ComponentUint8:
			out[i] = uint64(b[0])
		case format.ComponentUint16:
			out[i] = uint64(engine.Uint16(b))
		case format.ComponentUint32:
			out[i] = uint64(engine.Uint32(b))
		default:
			out[i] = engine.Uint64(b)
		}
	}

	return out, nil
}

// CheckOffsets verifies that offsets start at 0, never decrease, and that the
// last offset equals total, the number of elements or bytes of the buffer
// they index. It returns a descriptive error wrapping errs.ErrCorruptBuffer
// for the first violation.
func CheckOffsets(offsets []uint64, total uint64) error {
	if len(offsets) == 0 {
		return fmt.Errorf("%w: no offsets", errs.ErrCorruptBuffer)
	}
	if offsets[0] != 0 {
		return fmt.Errorf("%w: first offset is %d, want 0", errs.ErrCorruptBuffer, offsets[0])
	}

	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: offset %d (%d) is less than offset %d (%d)",
				errs.ErrCorruptBuffer, i, offsets[i], i-1, offsets[i-1])
		}
	}

	switch last := offsets[len(offsets)-1]; {
	case last > total:
		return fmt.Errorf("%w: last offset %d exceeds %d", errs.ErrCorruptBuffer, last, total)
	case last < total:
		return fmt.Errorf("%w: last offset %d leaves %d trailing unreferenced", errs.ErrCorruptBuffer, last, total-last)
	}

	return nil
}
