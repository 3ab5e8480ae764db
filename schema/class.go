package schema

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/internal/options"
)

// Class is a named set of properties. Every property table, property
// texture and property attribute is bound to exactly one class.
type Class struct {
	ID          string
	Name        string
	Description string

	properties    []*Property
	propertyIndex map[string]*Property
}

// ClassOption configures a Class.
type ClassOption = options.Option[*Class]

// WithClassNameAndDesc sets the class display name and description.
func WithClassNameAndDesc(name, desc string) ClassOption {
	return options.NoError(func(c *Class) {
		c.Name = name
		c.Description = desc
	})
}

// DefineProperty returns the property with the given id, creating it on
// first use. Options are applied to a copy of the property and committed
// only when all of them succeed.
func (c *Class) DefineProperty(id string, opts ...PropertyOption) (*Property, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: property id is empty in class %q", errs.ErrInvalidID, c.ID)
	}

	p, ok := c.propertyIndex[id]
	if !ok {
		p = &Property{ID: id}
	}

	updated := *p
	if err := options.Apply(&updated, opts...); err != nil {
		return nil, fmt.Errorf("property %s.%s: %w", c.ID, id, err)
	}
	*p = updated

	if !ok {
		c.propertyIndex[id] = p
		c.properties = append(c.properties, p)
	}

	return p, nil
}

// Property returns the property with the given id.
func (c *Class) Property(id string) (*Property, bool) {
	p, ok := c.propertyIndex[id]
	return p, ok
}

// Properties returns the properties in definition order.
func (c *Class) Properties() []*Property {
	return c.properties
}

// RequiredProperties returns the properties flagged as required.
func (c *Class) RequiredProperties() []*Property {
	var required []*Property
	for _, p := range c.properties {
		if p.Required {
			required = append(required, p)
		}
	}

	return required
}
