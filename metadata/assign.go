package metadata

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/arloliu/structmeta/encoding"
	"github.com/arloliu/structmeta/endian"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/internal/pool"
)

// buffers is the output of one successful assignment.
type buffers struct {
	values        []byte
	arrayOffsets  []byte
	stringOffsets []byte
}

// RawBuffers are pre-encoded column buffers, e.g. copied from another asset.
type RawBuffers struct {
	Values        []byte
	ArrayOffsets  []byte
	StringOffsets []byte
}

// SetValues assigns a SCALAR, VECn or MATn column that is not a
// variable-length array.
//
// Components are flattened row by row, matrices in column-major order, so
// exactly Count * ElementsPerRow * ComponentCount values are required. A
// VEC3 FLOAT32 column of 2 rows takes 6 float32 values; a fixed array of 4
// UINT16 scalars over 3 rows takes 12 uint16 values.
//
// The column is write-once: a second assignment fails until Reset is called.
//
// Type Parameters:
//   - T: Go type of the declared component type (float32 for FLOAT32, ...)
//
// Parameters:
//   - p: Column of a property table, from UseProperty or UsePropertyByName
//   - values: Flattened components in row order
//
// Returns:
//   - error: errs.ErrTypeMismatch when T or the element type does not match
//     the declaration, errs.ErrLengthMismatch when the value count is wrong,
//     errs.ErrValuesAlreadySet on reassignment
func SetValues[T encoding.Numeric](p *TableProperty, values ...T) error {
	return p.assign("set_values", func() (buffers, error) {
		if err := p.checkNumeric(encoding.ComponentTypeOf[T](), false); err != nil {
			return buffers{}, err
		}
		if err := p.checkFixedLength(len(values)); err != nil {
			return buffers{}, err
		}

		return buffers{values: encoding.EncodeNumeric(p.engine(), values)}, nil
	})
}

// SetArrays assigns a variable-length numeric array column, one row per
// feature.
//
// Rows are encoded back to back through one pooled NumericEncoder and the
// array offsets are written with the root's array offset type (UINT32 by
// default). Offsets count elements, not bytes or components: rows
// {10, 20}, {30}, {} produce offsets [0, 2, 3, 3].
//
// Each row holds whole elements, so for VECn and MATn columns its length
// must be a multiple of the component count.
//
// Type Parameters:
//   - T: Go type of the declared component type
//
// Parameters:
//   - p: Column of a variable-length array property
//   - rows: One slice per feature; len(rows) must equal the table Count
//
// Returns:
//   - error: errs.ErrLengthMismatch for a wrong row count or a partial
//     element, errs.ErrOffsetOverflow when an offset does not fit the offset
//     type, errs.ErrTypeMismatch or errs.ErrValuesAlreadySet as for SetValues
func SetArrays[T encoding.Numeric](p *TableProperty, rows ...[]T) error {
	return p.assign("set_arrays", func() (buffers, error) {
		if err := p.checkNumeric(encoding.ComponentTypeOf[T](), true); err != nil {
			return buffers{}, err
		}
		if err := p.checkRows(len(rows)); err != nil {
			return buffers{}, err
		}

		cc := p.prop.ComponentCount()
		enc := encoding.NewNumericEncoder[T](p.engine())
		defer enc.Finish()

		offsets := make([]uint64, 1, len(rows)+1)
		for i, row := range rows {
			if len(row)%cc != 0 {
				return buffers{}, fmt.Errorf("%w: row %d of %s has %d components, not a multiple of %d",
					errs.ErrLengthMismatch, i, p, len(row), cc)
			}
			enc.WriteSlice(row)
			offsets = append(offsets, offsets[i]+uint64(len(row)/cc))
		}

		arrayOffsets, err := encoding.EncodeOffsets(p.engine(), p.arrayOffsetType, offsets)
		if err != nil {
			return buffers{}, err
		}

		return buffers{values: bytes.Clone(enc.Bytes()), arrayOffsets: arrayOffsets}, nil
	})
}

// SetStrings assigns a STRING column that is not a variable-length array.
// The values buffer is the UTF-8 concatenation of the strings and the string
// offsets hold one byte offset per string plus the end offset.
func SetStrings(p *TableProperty, values ...string) error {
	return p.assign("set_strings", func() (buffers, error) {
		if err := p.checkType(format.ElementString, false); err != nil {
			return buffers{}, err
		}
		if err := p.checkFixedLength(len(values)); err != nil {
			return buffers{}, err
		}

		return p.encodeStrings(values, nil)
	})
}

// SetStringArrays assigns a variable-length STRING array column. Array
// offsets index into the string offsets.
func SetStringArrays(p *TableProperty, rows ...[]string) error {
	return p.assign("set_string_arrays", func() (buffers, error) {
		if err := p.checkType(format.ElementString, true); err != nil {
			return buffers{}, err
		}
		if err := p.checkRows(len(rows)); err != nil {
			return buffers{}, err
		}

		flat, release := pool.GetStringSlice(len(rows))
		defer release()

		offsets := make([]uint64, 1, len(rows)+1)
		for _, row := range rows {
			flat = append(flat, row...)
			offsets = append(offsets, uint64(len(flat)))
		}

		return p.encodeStrings(flat, offsets)
	})
}

// SetBooleans assigns a BOOLEAN column that is not a variable-length array.
// Values are bit-packed LSB-first: value i is bit i%8 of byte i/8.
func SetBooleans(p *TableProperty, values ...bool) error {
	return p.assign("set_booleans", func() (buffers, error) {
		if err := p.checkType(format.ElementBoolean, false); err != nil {
			return buffers{}, err
		}
		if err := p.checkFixedLength(len(values)); err != nil {
			return buffers{}, err
		}

		return buffers{values: encoding.PackBools(values)}, nil
	})
}

// SetBooleanArrays assigns a variable-length BOOLEAN array column. The rows
// are packed back to back and the array offsets count bits.
func SetBooleanArrays(p *TableProperty, rows ...[]bool) error {
	return p.assign("set_boolean_arrays", func() (buffers, error) {
		if err := p.checkType(format.ElementBoolean, true); err != nil {
			return buffers{}, err
		}
		if err := p.checkRows(len(rows)); err != nil {
			return buffers{}, err
		}

		flat, offsets := flatten(rows)
		arrayOffsets, err := encoding.EncodeOffsets(p.engine(), p.arrayOffsetType, offsets)
		if err != nil {
			return buffers{}, err
		}

		return buffers{values: encoding.PackBools(flat), arrayOffsets: arrayOffsets}, nil
	})
}

// SetEnumValues assigns an ENUM column that is not a variable-length array.
// Names are resolved against the referenced enum and encoded with its value
// type.
func SetEnumValues(p *TableProperty, names ...string) error {
	return p.assign("set_enum_values", func() (buffers, error) {
		if err := p.checkType(format.ElementEnum, false); err != nil {
			return buffers{}, err
		}
		if err := p.checkFixedLength(len(names)); err != nil {
			return buffers{}, err
		}

		values, err := p.encodeEnum(names)
		if err != nil {
			return buffers{}, err
		}

		return buffers{values: values}, nil
	})
}

// SetEnumArrays assigns a variable-length ENUM array column.
func SetEnumArrays(p *TableProperty, rows ...[]string) error {
	return p.assign("set_enum_arrays", func() (buffers, error) {
		if err := p.checkType(format.ElementEnum, true); err != nil {
			return buffers{}, err
		}
		if err := p.checkRows(len(rows)); err != nil {
			return buffers{}, err
		}

		flat, offsets := flatten(rows)
		values, err := p.encodeEnum(flat)
		if err != nil {
			return buffers{}, err
		}

		arrayOffsets, err := encoding.EncodeOffsets(p.engine(), p.arrayOffsetType, offsets)
		if err != nil {
			return buffers{}, err
		}

		return buffers{values: values, arrayOffsets: arrayOffsets}, nil
	})
}

// SetRawBuffers adopts pre-encoded buffers. They are copied but not checked;
// offsets must use the column's offset types. The validation pass derives
// the row count from them.
func SetRawBuffers(p *TableProperty, raw RawBuffers) error {
	return p.assign("set_raw_buffers", func() (buffers, error) {
		return buffers{
			values:        bytes.Clone(raw.Values),
			arrayOffsets:  bytes.Clone(raw.ArrayOffsets),
			stringOffsets: bytes.Clone(raw.StringOffsets),
		}, nil
	})
}

// assign runs encode and commits its buffers, logging and counting the
// outcome. Nothing is stored when encode fails.
func (p *TableProperty) assign(op string, encode func() (buffers, error)) error {
	root := p.table.root

	err := p.checkUnset()
	var out buffers
	if err == nil {
		out, err = encode()
	}

	if err != nil {
		root.metrics.RecordEncodeError(errorReason(err))
		root.logger.Warn().
			Str("table", p.table.Name).
			Str("property", p.prop.ID).
			Str("op", op).
			Err(err).
			Msg("property assignment rejected")

		return err
	}

	p.values = out.values
	p.arrayOffsets = out.arrayOffsets
	p.stringOffsets = out.stringOffsets
	p.set = true

	size := len(out.values) + len(out.arrayOffsets) + len(out.stringOffsets)
	ct, _ := p.ValueComponentType()
	root.metrics.RecordEncoded(p.prop.Type.String(), ct.String(), size)
	root.logger.Debug().
		Str("table", p.table.Name).
		Str("property", p.prop.ID).
		Str("element_type", p.prop.Type.String()).
		Str("component_type", ct.String()).
		Int("values_bytes", len(out.values)).
		Int("rows", p.RowCount()).
		Str("byte_order", endian.Name(root.engine)).
		Msg("property values assigned")

	return nil
}

func (p *TableProperty) engine() endian.EndianEngine {
	return p.table.root.engine
}

func (p *TableProperty) checkUnset() error {
	if p.set {
		return fmt.Errorf("%w: %s (call Reset first)", errs.ErrValuesAlreadySet, p)
	}

	return nil
}

// checkType verifies the element type and array shape of a non-numeric column.
func (p *TableProperty) checkType(et format.ElementType, variable bool) error {
	if p.prop.Type != et {
		return fmt.Errorf("%w: %s is %s, not %s", errs.ErrTypeMismatch, p, p.prop.Type, et)
	}

	return p.checkShape(variable)
}

// checkNumeric verifies a numeric column and the supplied component type.
func (p *TableProperty) checkNumeric(ct format.ComponentType, variable bool) error {
	if !p.prop.Type.IsNumeric() {
		return fmt.Errorf("%w: %s is %s, not a numeric type", errs.ErrTypeMismatch, p, p.prop.Type)
	}
	if p.prop.ComponentType != ct {
		return fmt.Errorf("%w: %s has component type %s, got %s values",
			errs.ErrTypeMismatch, p, p.prop.ComponentType, ct)
	}

	return p.checkShape(variable)
}

func (p *TableProperty) checkShape(variable bool) error {
	if p.prop.IsVariableLength() == variable {
		return nil
	}
	if variable {
		return fmt.Errorf("%w: %s is not a variable-length array", errs.ErrTypeMismatch, p)
	}

	return fmt.Errorf("%w: %s is a variable-length array, assign it per row", errs.ErrTypeMismatch, p)
}

// checkFixedLength verifies the flattened value count of a column without
// array offsets.
func (p *TableProperty) checkFixedLength(n int) error {
	want := p.table.Count * p.prop.ElementsPerRow()
	if p.prop.Type.IsNumeric() {
		want *= p.prop.ComponentCount()
	}

	if n != want {
		return fmt.Errorf("%w: %s needs %d values for %d rows, got %d",
			errs.ErrLengthMismatch, p, want, p.table.Count, n)
	}

	return nil
}

func (p *TableProperty) checkRows(n int) error {
	if n != p.table.Count {
		return fmt.Errorf("%w: %s needs %d rows, got %d", errs.ErrLengthMismatch, p, p.table.Count, n)
	}

	return nil
}

// encodeStrings encodes values with their string offsets and, when
// rowOffsets is not nil, the array offsets.
func (p *TableProperty) encodeStrings(values []string, rowOffsets []uint64) (buffers, error) {
	enc := encoding.NewStringEncoder()
	defer enc.Finish()
	enc.WriteSlice(values)

	stringOffsets, err := encoding.EncodeOffsets(p.engine(), p.stringOffsetType, enc.Offsets())
	if err != nil {
		return buffers{}, fmt.Errorf("%s string offsets: %w", p, err)
	}

	out := buffers{values: bytes.Clone(enc.Bytes()), stringOffsets: stringOffsets}
	if rowOffsets != nil {
		if out.arrayOffsets, err = encoding.EncodeOffsets(p.engine(), p.arrayOffsetType, rowOffsets); err != nil {
			return buffers{}, fmt.Errorf("%s array offsets: %w", p, err)
		}
	}

	return out, nil
}

func (p *TableProperty) encodeEnum(names []string) ([]byte, error) {
	e, err := p.enum()
	if err != nil {
		return nil, err
	}

	codes, release := pool.GetInt64Slice(len(names))
	defer release()

	for i, name := range names {
		code, ok := e.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a value of enum %q (%s)", errs.ErrUnknownEnumValue, name, e.ID, p)
		}
		codes[i] = code
	}

	return encoding.EncodeIntegers(p.engine(), e.ValueType, codes)
}

// flatten concatenates rows and returns the cumulative element count before
// each row, followed by the total.
func flatten[T any](rows [][]T) ([]T, []uint64) {
	total := 0
	for _, row := range rows {
		total += len(row)
	}

	flat := make([]T, 0, total)
	offsets := make([]uint64, 1, len(rows)+1)
	for _, row := range rows {
		flat = append(flat, row...)
		offsets = append(offsets, uint64(len(flat)))
	}

	return flat, offsets
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrValuesAlreadySet):
		return "already_set"
	case errors.Is(err, errs.ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, errs.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, errs.ErrUnknownEnumValue):
		return "unknown_enum_value"
	case errors.Is(err, errs.ErrEnumNotFound):
		return "enum_not_found"
	case errors.Is(err, errs.ErrOffsetOverflow):
		return "offset_overflow"
	case errors.Is(err, errs.ErrUnsupportedType):
		return "unsupported_type"
	default:
		return "other"
	}
}
