package metadata

import (
	"fmt"

	"github.com/arloliu/structmeta/encoding"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/schema"
)

// PropertyTable stores one column per used class property and Count rows,
// one per feature.
type PropertyTable struct {
	Name  string
	Count int
	Class *schema.Class

	root       *Root
	properties []*TableProperty
	index      map[string]*TableProperty
}

// UseProperty returns the column handle of p, creating it on first use.
// p must belong to the table's class.
func (t *PropertyTable) UseProperty(p *schema.Property) (*TableProperty, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil property", errs.ErrPropertyNotFound)
	}

	if tp, ok := t.index[p.ID]; ok {
		return tp, nil
	}

	if cp, ok := t.Class.Property(p.ID); !ok || cp != p {
		return nil, fmt.Errorf("%w: %q is not a property of class %q", errs.ErrPropertyNotFound, p.ID, t.Class.ID)
	}

	tp := &TableProperty{
		table:            t,
		prop:             p,
		arrayOffsetType:  t.root.arrayOffsetType,
		stringOffsetType: t.root.stringOffsetType,
	}
	t.index[p.ID] = tp
	t.properties = append(t.properties, tp)

	return tp, nil
}

// UsePropertyByName is UseProperty for the class property with the given id.
func (t *PropertyTable) UsePropertyByName(id string) (*TableProperty, error) {
	if tp, ok := t.index[id]; ok {
		return tp, nil
	}

	p, ok := t.Class.Property(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a property of class %q", errs.ErrPropertyNotFound, id, t.Class.ID)
	}

	return t.UseProperty(p)
}

// Property returns the column handle for the property id, if used.
func (t *PropertyTable) Property(id string) (*TableProperty, bool) {
	tp, ok := t.index[id]
	return tp, ok
}

// Properties returns the used columns in first-use order.
func (t *PropertyTable) Properties() []*TableProperty {
	return t.properties
}

// Root returns the metadata root owning the table.
func (t *PropertyTable) Root() *Root {
	return t.root
}

// TableProperty is one column of a property table.
//
// Array offsets count elements: for STRING arrays they index into the string
// offsets, for BOOLEAN arrays they count bits. String offsets count bytes.
type TableProperty struct {
	table *PropertyTable
	prop  *schema.Property

	values        []byte
	arrayOffsets  []byte
	stringOffsets []byte

	arrayOffsetType  format.ComponentType
	stringOffsetType format.ComponentType

	set bool
}

// Table returns the owning table.
func (p *TableProperty) Table() *PropertyTable {
	return p.table
}

// ClassProperty returns the schema property of the column.
func (p *TableProperty) ClassProperty() *schema.Property {
	return p.prop
}

// Values returns the encoded values buffer.
func (p *TableProperty) Values() []byte {
	return p.values
}

// ArrayOffsets returns the encoded array offset buffer, or nil.
func (p *TableProperty) ArrayOffsets() []byte {
	return p.arrayOffsets
}

// StringOffsets returns the encoded string offset buffer, or nil.
func (p *TableProperty) StringOffsets() []byte {
	return p.stringOffsets
}

// ArrayOffsetType returns the component type of the array offset buffer.
func (p *TableProperty) ArrayOffsetType() format.ComponentType {
	return p.arrayOffsetType
}

// StringOffsetType returns the component type of the string offset buffer.
func (p *TableProperty) StringOffsetType() format.ComponentType {
	return p.stringOffsetType
}

// ArrayOffsetValues decodes the array offset buffer. It returns nil when the
// column has no array offsets.
func (p *TableProperty) ArrayOffsetValues() ([]uint64, error) {
	if p.arrayOffsets == nil {
		return nil, nil
	}

	return encoding.DecodeOffsets(p.table.root.engine, p.arrayOffsetType, p.arrayOffsets)
}

// StringOffsetValues decodes the string offset buffer. It returns nil when
// the column has no string offsets.
func (p *TableProperty) StringOffsetValues() ([]uint64, error) {
	if p.stringOffsets == nil {
		return nil, nil
	}

	return encoding.DecodeOffsets(p.table.root.engine, p.stringOffsetType, p.stringOffsets)
}

// IsSet reports whether values have been assigned.
func (p *TableProperty) IsSet() bool {
	return p.set
}

// Reset discards the assigned buffers so the column can be assigned again.
func (p *TableProperty) Reset() {
	p.values = nil
	p.arrayOffsets = nil
	p.stringOffsets = nil
	p.arrayOffsetType = p.table.root.arrayOffsetType
	p.stringOffsetType = p.table.root.stringOffsetType
	p.set = false
}

// RowCount derives the number of rows from the assigned buffers.
//
// It returns -1 when the buffers do not describe a whole number of rows or
// cannot be decoded. Bit-packed booleans are only known up to byte padding,
// so a BOOLEAN buffer sized for the table's Count reports Count.
func (p *TableProperty) RowCount() int {
	if !p.set {
		return 0
	}

	prop := p.prop

	if prop.IsVariableLength() {
		offsets, err := p.ArrayOffsetValues()
		if err != nil || len(offsets) == 0 {
			return -1
		}

		return len(offsets) - 1
	}

	perRow := prop.ElementsPerRow() * prop.ComponentCount()
	if perRow <= 0 {
		return -1
	}

	switch prop.Type {
	case format.ElementString:
		offsets, err := p.StringOffsetValues()
		if err != nil || len(offsets) == 0 || (len(offsets)-1)%perRow != 0 {
			return -1
		}

		return (len(offsets) - 1) / perRow
	case format.ElementBoolean:
		if len(p.values) == encoding.PackedBoolSize(p.table.Count*perRow) {
			return p.table.Count
		}

		return len(p.values) * 8 / perRow
	default:
		size, err := p.componentSize()
		if err != nil {
			return -1
		}

		rowSize := perRow * size
		if len(p.values)%rowSize != 0 {
			return -1
		}

		return len(p.values) / rowSize
	}
}

// componentSize returns the byte width of one component, resolving enum
// value types through the schema.
func (p *TableProperty) componentSize() (int, error) {
	ct, err := p.ValueComponentType()
	if err != nil {
		return 0, err
	}

	return encoding.SizeOf(ct)
}

// ValueComponentType returns the component type values are encoded with:
// the declared component type, or the enum value type for ENUM columns.
func (p *TableProperty) ValueComponentType() (format.ComponentType, error) {
	if p.prop.Type != format.ElementEnum {
		return p.prop.ComponentType, nil
	}

	e, err := p.enum()
	if err != nil {
		return format.ComponentNone, err
	}

	return e.ValueType, nil
}

func (p *TableProperty) enum() (*schema.Enum, error) {
	s := p.table.root.schema
	if s == nil {
		return nil, fmt.Errorf("%w: %q (no schema)", errs.ErrEnumNotFound, p.prop.EnumType)
	}

	e, ok := s.Enum(p.prop.EnumType)
	if !ok {
		return nil, fmt.Errorf("%w: %q referenced by %s", errs.ErrEnumNotFound, p.prop.EnumType, p.prop.ID)
	}

	return e, nil
}

func (p *TableProperty) String() string {
	return p.table.Class.ID + "." + p.prop.ID
}
