package schema

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/internal/options"
)

// Property declares one column of a class.
//
// ComponentType is ComponentNone for STRING, BOOLEAN and ENUM properties;
// enum values are encoded with the referenced enum's value type. Count is
// the fixed array length, or 0 for a variable-length array.
type Property struct {
	ID            string
	Name          string
	Description   string
	Type          format.ElementType
	ComponentType format.ComponentType
	Array         bool
	Count         int
	Normalized    bool
	Required      bool
	EnumType      string
}

// PropertyOption configures a Property.
type PropertyOption = options.Option[*Property]

// WithNameAndDesc sets the property display name and description.
func WithNameAndDesc(name, desc string) PropertyOption {
	return options.NoError(func(p *Property) {
		p.Name = name
		p.Description = desc
	})
}

// WithValueType sets the element and component type.
//
// ct may be format.ComponentNone; whether a component type is required for
// the element type is checked by the validation pass.
func WithValueType(et format.ElementType, ct format.ComponentType) PropertyOption {
	return options.New(func(p *Property) error {
		if !et.Valid() {
			return fmt.Errorf("%w: element type %d", errs.ErrUnsupportedType, et)
		}
		if ct != format.ComponentNone && !ct.Valid() {
			return fmt.Errorf("%w: component type %d", errs.ErrUnsupportedType, ct)
		}

		p.Type = et
		p.ComponentType = ct

		return nil
	})
}

// WithScalar declares a SCALAR property of component type ct.
func WithScalar(ct format.ComponentType) PropertyOption {
	return WithValueType(format.ElementScalar, ct)
}

// WithString declares a STRING property.
func WithString() PropertyOption {
	return WithValueType(format.ElementString, format.ComponentNone)
}

// WithBoolean declares a BOOLEAN property.
func WithBoolean() PropertyOption {
	return WithValueType(format.ElementBoolean, format.ComponentNone)
}

// WithEnum declares an ENUM property referencing the enum enumID. The enum
// does not need to exist yet.
func WithEnum(enumID string) PropertyOption {
	return options.New(func(p *Property) error {
		if enumID == "" {
			return fmt.Errorf("%w: enum reference is empty", errs.ErrInvalidID)
		}

		p.Type = format.ElementEnum
		p.ComponentType = format.ComponentNone
		p.EnumType = enumID

		return nil
	})
}

// WithArray turns the property into an array of count elements per row.
// A count of 0 declares a variable-length array.
func WithArray(count int) PropertyOption {
	return options.New(func(p *Property) error {
		if count < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidArrayCount, count)
		}

		p.Array = true
		p.Count = count

		return nil
	})
}

// WithNormalized marks integer values as normalized to [0, 1] or [-1, 1].
func WithNormalized() PropertyOption {
	return options.NoError(func(p *Property) {
		p.Normalized = true
	})
}

// WithRequired marks the property as required on every table of the class.
func WithRequired() PropertyOption {
	return options.NoError(func(p *Property) {
		p.Required = true
	})
}

// IsVariableLength reports whether the property is a variable-length array.
func (p *Property) IsVariableLength() bool {
	return p.Array && p.Count == 0
}

// IsFixedLengthArray reports whether the property is an array of Count elements.
func (p *Property) IsFixedLengthArray() bool {
	return p.Array && p.Count > 0
}

// ComponentCount returns the number of components per element.
func (p *Property) ComponentCount() int {
	return p.Type.ComponentCount()
}

// ElementsPerRow returns the number of elements in one row: Count for fixed
// arrays, 1 for non-array properties and 0 for variable-length arrays.
func (p *Property) ElementsPerRow() int {
	switch {
	case !p.Array:
		return 1
	case p.Count > 0:
		return p.Count
	default:
		return 0
	}
}

func (p *Property) String() string {
	desc := p.Type.String()
	if p.ComponentType != format.ComponentNone {
		desc += " " + p.ComponentType.String()
	}
	if p.Type == format.ElementEnum {
		desc += " " + p.EnumType
	}

	switch {
	case p.IsFixedLengthArray():
		desc = fmt.Sprintf("%s[%d]", desc, p.Count)
	case p.IsVariableLength():
		desc += "[]"
	}

	return p.ID + " " + desc
}
