package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
)

// File is the YAML authoring form of a schema. Classes, properties and enum
// values are lists so that definition order is preserved.
type File struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Enums       []EnumFile  `yaml:"enums"`
	Classes     []ClassFile `yaml:"classes"`
}

// EnumFile is an enum entry of a File. ValueType names a component type
// and defaults to UINT16 when empty.
type EnumFile struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	ValueType   string          `yaml:"valueType"`
	Values      []EnumValueFile `yaml:"values"`
}

// EnumValueFile is one named value of an EnumFile.
type EnumValueFile struct {
	Name        string `yaml:"name"`
	Value       int64  `yaml:"value"`
	Description string `yaml:"description"`
}

// ClassFile is a class entry of a File.
type ClassFile struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Properties  []PropertyFile `yaml:"properties"`
}

// PropertyFile is a property entry of a ClassFile. Type and ComponentType
// take the glTF names ("VEC3", "FLOAT32"). Array with a Count of 0 declares
// a variable-length array; Count without Array is rejected.
type PropertyFile struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Type          string `yaml:"type"`
	ComponentType string `yaml:"componentType"`
	EnumType      string `yaml:"enumType"`
	Array         bool   `yaml:"array"`
	Count         int    `yaml:"count"`
	Normalized    bool   `yaml:"normalized"`
	Required      bool   `yaml:"required"`
}

// LoadYAML reads a schema from a YAML file.
func LoadYAML(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseYAML(data)
}

// ParseYAML builds a schema from its YAML authoring form. Unknown keys and
// unknown type names are rejected.
func ParseYAML(data []byte) (*Schema, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	return f.Build()
}

// Build converts the authoring form into a Schema.
func (f *File) Build() (*Schema, error) {
	s, err := New(f.ID, WithName(f.Name), WithDescription(f.Description), WithVersion(f.Version))
	if err != nil {
		return nil, err
	}

	for _, ef := range f.Enums {
		opts := []EnumOption{WithEnumNameAndDesc(ef.Name, ef.Description)}
		if ef.ValueType != "" {
			ct, ok := format.ParseComponentType(ef.ValueType)
			if !ok {
				return nil, fmt.Errorf("enum %q: %w: value type %q", ef.ID, errs.ErrUnsupportedType, ef.ValueType)
			}
			opts = append(opts, WithEnumValueType(ct))
		}

		values := make([]EnumValue, 0, len(ef.Values))
		for _, v := range ef.Values {
			values = append(values, EnumValue(v))
		}
		opts = append(opts, WithEnumValues(values...))

		if _, err := s.DefineEnum(ef.ID, opts...); err != nil {
			return nil, err
		}
	}

	for _, cf := range f.Classes {
		class, err := s.DefineClass(cf.ID, WithClassNameAndDesc(cf.Name, cf.Description))
		if err != nil {
			return nil, err
		}

		for _, pf := range cf.Properties {
			opts, err := pf.options()
			if err != nil {
				return nil, fmt.Errorf("property %s.%s: %w", cf.ID, pf.ID, err)
			}
			if _, err := class.DefineProperty(pf.ID, opts...); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func (pf *PropertyFile) options() ([]PropertyOption, error) {
	opts := []PropertyOption{WithNameAndDesc(pf.Name, pf.Description)}

	et, ok := format.ParseElementType(pf.Type)
	if !ok {
		return nil, fmt.Errorf("%w: element type %q", errs.ErrUnsupportedType, pf.Type)
	}

	switch et {
	case format.ElementEnum:
		opts = append(opts, WithEnum(pf.EnumType))
	default:
		ct := format.ComponentNone
		if pf.ComponentType != "" {
			if ct, ok = format.ParseComponentType(pf.ComponentType); !ok {
				return nil, fmt.Errorf("%w: component type %q", errs.ErrUnsupportedType, pf.ComponentType)
			}
		}
		opts = append(opts, WithValueType(et, ct))
	}

	switch {
	case pf.Array:
		opts = append(opts, WithArray(pf.Count))
	case pf.Count != 0:
		return nil, fmt.Errorf("%w: count %d without array", errs.ErrInvalidArrayCount, pf.Count)
	}
	if pf.Normalized {
		opts = append(opts, WithNormalized())
	}
	if pf.Required {
		opts = append(opts, WithRequired())
	}

	return opts, nil
}
