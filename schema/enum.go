package schema

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/internal/options"
)

// DefaultEnumValueType is the value type of an enum unless configured.
const DefaultEnumValueType = format.ComponentUint16

// EnumValue maps a symbolic name to its integer code.
type EnumValue struct {
	Name        string
	Value       int64
	Description string
}

// Value is shorthand for an EnumValue without description.
func Value(name string, value int64) EnumValue {
	return EnumValue{Name: name, Value: value}
}

// Enum is an ordered set of named integer values. Duplicate names or values
// are not rejected here; the validation pass reports them.
type Enum struct {
	ID          string
	Name        string
	Description string
	ValueType   format.ComponentType
	Values      []EnumValue
}

// EnumOption configures an Enum.
type EnumOption = options.Option[*Enum]

func newEnum(id string) *Enum {
	return &Enum{
		ID:        id,
		ValueType: DefaultEnumValueType,
	}
}

// WithEnumNameAndDesc sets the enum display name and description.
func WithEnumNameAndDesc(name, desc string) EnumOption {
	return options.NoError(func(e *Enum) {
		e.Name = name
		e.Description = desc
	})
}

// WithEnumValues replaces the value set.
func WithEnumValues(values ...EnumValue) EnumOption {
	return options.NoError(func(e *Enum) {
		e.Values = append([]EnumValue(nil), values...)
	})
}

// WithEnumValueType sets the integer type used to encode the values.
func WithEnumValueType(ct format.ComponentType) EnumOption {
	return options.New(func(e *Enum) error {
		if !ct.IsInteger() {
			return fmt.Errorf("%w: enum value type %s is not an integer type", errs.ErrUnsupportedType, ct)
		}
		e.ValueType = ct

		return nil
	})
}

// Lookup returns the code of the first value called name.
func (e *Enum) Lookup(name string) (int64, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v.Value, true
		}
	}

	return 0, false
}

// NameOf returns the name of the first value with the given code.
func (e *Enum) NameOf(value int64) (string, bool) {
	for _, v := range e.Values {
		if v.Value == value {
			return v.Name, true
		}
	}

	return "", false
}
