// Package schema describes the shape of structural metadata: a schema holds
// classes, classes hold properties, and enum properties reference enums
// declared on the schema.
//
// The model only records declarations. Cross references (a property naming
// an enum that does not exist yet, a normalized flag on a float property)
// are allowed while a schema is being built and are reported by the
// validation pass instead.
package schema

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/internal/options"
)

// Schema is the root of a structural metadata schema.
type Schema struct {
	ID          string
	Name        string
	Description string
	Version     string

	classes    []*Class
	classIndex map[string]*Class
	enums      []*Enum
	enumIndex  map[string]*Enum
}

// SchemaOption configures a Schema.
type SchemaOption = options.Option[*Schema]

// WithName sets the schema display name.
func WithName(name string) SchemaOption {
	return options.NoError(func(s *Schema) {
		s.Name = name
	})
}

// WithDescription sets the schema description.
func WithDescription(desc string) SchemaOption {
	return options.NoError(func(s *Schema) {
		s.Description = desc
	})
}

// WithVersion sets the application specific schema version.
func WithVersion(version string) SchemaOption {
	return options.NoError(func(s *Schema) {
		s.Version = version
	})
}

// New creates an empty schema. The id must not be empty.
func New(id string, opts ...SchemaOption) (*Schema, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: schema id is empty", errs.ErrInvalidID)
	}

	s := &Schema{
		ID:         id,
		classIndex: make(map[string]*Class),
		enumIndex:  make(map[string]*Enum),
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// DefineClass returns the class with the given id, creating it on first use.
// Options are applied on every call.
func (s *Schema) DefineClass(id string, opts ...ClassOption) (*Class, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: class id is empty", errs.ErrInvalidID)
	}

	c, ok := s.classIndex[id]
	if !ok {
		c = &Class{
			ID:            id,
			propertyIndex: make(map[string]*Property),
		}
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, fmt.Errorf("class %q: %w", id, err)
	}

	if !ok {
		s.classIndex[id] = c
		s.classes = append(s.classes, c)
	}

	return c, nil
}

// Class returns the class with the given id.
func (s *Schema) Class(id string) (*Class, bool) {
	c, ok := s.classIndex[id]
	return c, ok
}

// Classes returns the classes in definition order.
func (s *Schema) Classes() []*Class {
	return s.classes
}

// DefineEnum returns the enum with the given id, creating it on first use.
// Options are applied on every call; WithEnumValues replaces the value set.
func (s *Schema) DefineEnum(id string, opts ...EnumOption) (*Enum, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: enum id is empty", errs.ErrInvalidID)
	}

	e, ok := s.enumIndex[id]
	if !ok {
		e = newEnum(id)
	}

	// apply to a copy so a rejected option leaves an existing enum untouched
	updated := *e
	if err := options.Apply(&updated, opts...); err != nil {
		return nil, fmt.Errorf("enum %q: %w", id, err)
	}
	*e = updated

	if !ok {
		s.enumIndex[id] = e
		s.enums = append(s.enums, e)
	}

	return e, nil
}

// Enum returns the enum with the given id.
func (s *Schema) Enum(id string) (*Enum, bool) {
	e, ok := s.enumIndex[id]
	return e, ok
}

// Enums returns the enums in definition order.
func (s *Schema) Enums() []*Enum {
	return s.enums
}
