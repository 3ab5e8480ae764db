package metadata

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/schema"
)

// TextureProperty maps a class property onto texel channels of a texture.
type TextureProperty struct {
	Index    int   // texture index in the asset
	TexCoord int   // TEXCOORD_n set
	Channels []int // channel indices, 0..3, in byte order of the value
}

// PropertyTexture stores property values in texture channels instead of
// table columns.
type PropertyTexture struct {
	Name  string
	Class *schema.Class

	ids   []string
	props map[string]TextureProperty
}

// SetProperty maps the class property propID onto tp. Setting the same
// property again replaces the mapping.
func (t *PropertyTexture) SetProperty(propID string, tp TextureProperty) error {
	if _, ok := t.Class.Property(propID); !ok {
		return fmt.Errorf("%w: %q is not a property of class %q", errs.ErrPropertyNotFound, propID, t.Class.ID)
	}

	if t.props == nil {
		t.props = make(map[string]TextureProperty)
	}
	if _, ok := t.props[propID]; !ok {
		t.ids = append(t.ids, propID)
	}
	tp.Channels = append([]int(nil), tp.Channels...)
	t.props[propID] = tp

	return nil
}

// Property returns the mapping of propID.
func (t *PropertyTexture) Property(propID string) (TextureProperty, bool) {
	tp, ok := t.props[propID]
	return tp, ok
}

// PropertyIDs returns the mapped property ids in first-set order.
func (t *PropertyTexture) PropertyIDs() []string {
	return t.ids
}

// PropertyAttribute stores property values in vertex attributes.
// Attribute names of application specific semantics start with "_".
type PropertyAttribute struct {
	Name  string
	Class *schema.Class

	ids   []string
	props map[string]string
}

// SetProperty maps the class property propID onto the vertex attribute
// attribute. Setting the same property again replaces the mapping.
func (a *PropertyAttribute) SetProperty(propID string, attribute string) error {
	if _, ok := a.Class.Property(propID); !ok {
		return fmt.Errorf("%w: %q is not a property of class %q", errs.ErrPropertyNotFound, propID, a.Class.ID)
	}

	if a.props == nil {
		a.props = make(map[string]string)
	}
	if _, ok := a.props[propID]; !ok {
		a.ids = append(a.ids, propID)
	}
	a.props[propID] = attribute

	return nil
}

// Attribute returns the attribute name mapped to propID.
func (a *PropertyAttribute) Attribute(propID string) (string, bool) {
	name, ok := a.props[propID]
	return name, ok
}

// PropertyIDs returns the mapped property ids in first-set order.
func (a *PropertyAttribute) PropertyIDs() []string {
	return a.ids
}
