// Package featureid binds the elements of a mesh primitive or of a set of
// instances to property table rows.
//
// A Builder names the property table (and optionally a fixed row), a Source
// says where the feature ids come from, and MeshFeatures.Attach combines
// them into a FeatureID descriptor for the container writer.
package featureid

import (
	"fmt"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/internal/options"
	"github.com/arloliu/structmeta/metadata"
)

// Target is the primitive or instance set feature ids are attached to.
type Target interface {
	// ElementCount returns the number of vertices or instances.
	ElementCount() int
}

// AttributeSource is a per-vertex or per-instance integer attribute.
type AttributeSource interface {
	Len() int
	At(i int) uint32
}

// Texture identifies a texture of the asset. It is never sampled here.
type Texture interface {
	TextureIndex() int
}

// IDs is an in-memory AttributeSource.
type IDs []uint32

func (ids IDs) Len() int { return len(ids) }

func (ids IDs) At(i int) uint32 { return ids[i] }

// Builder references a property table and, optionally, a fixed row that
// every element maps to.
type Builder struct {
	table         *metadata.PropertyTable
	row           int
	label         string
	nullFeatureID *uint32
}

// BuilderOption configures a Builder.
type BuilderOption = options.Option[*Builder]

// WithRow maps every element to row instead of using the element's own
// feature id. Used when one table is shared by several feature sets.
func WithRow(row int) BuilderOption {
	return options.New(func(b *Builder) error {
		if row < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidRowIndex, row)
		}
		b.row = row

		return nil
	})
}

// WithLabel sets the feature id set label.
func WithLabel(label string) BuilderOption {
	return options.NoError(func(b *Builder) {
		b.label = label
	})
}

// WithNullFeatureID sets the id that marks elements without a feature.
func WithNullFeatureID(id uint32) BuilderOption {
	return options.NoError(func(b *Builder) {
		b.nullFeatureID = &id
	})
}

// NewBuilder creates a builder for table. table may be nil for feature ids
// without associated properties.
func NewBuilder(table *metadata.PropertyTable, opts ...BuilderOption) (*Builder, error) {
	b := &Builder{table: table, row: -1}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	if b.row >= 0 {
		if table == nil {
			return nil, fmt.Errorf("%w: row %d without a property table", errs.ErrInvalidRowIndex, b.row)
		}
		if b.row >= table.Count {
			return nil, fmt.Errorf("%w: row %d outside table %q of %d rows",
				errs.ErrInvalidRowIndex, b.row, table.Name, table.Count)
		}
	}

	return b, nil
}

// Table returns the referenced table, or nil.
func (b *Builder) Table() *metadata.PropertyTable {
	return b.table
}

// Row returns the fixed row, or -1.
func (b *Builder) Row() int {
	return b.row
}

// SourceKind tells where feature ids come from.
type SourceKind uint8

const (
	SourceImplicit  SourceKind = iota // feature id = element index
	SourceAttribute                   // feature id read from _FEATURE_ID_n
	SourceTexture                     // feature id sampled from texture channels
)

func (k SourceKind) String() string {
	switch k {
	case SourceImplicit:
		return "implicit"
	case SourceAttribute:
		return "attribute"
	case SourceTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// Source is one of Implicit, FromAttribute or FromTexture.
type Source struct {
	kind      SourceKind
	setIndex  int
	attribute AttributeSource
	texture   Texture
	texCoord  int
	channels  []int
}

// Implicit makes the feature id of element i equal to i.
func Implicit() Source {
	return Source{kind: SourceImplicit}
}

// FromAttribute reads feature ids from the attribute _FEATURE_ID_<setIndex>
// whose values are supplied by src.
func FromAttribute(setIndex int, src AttributeSource) Source {
	return Source{kind: SourceAttribute, setIndex: setIndex, attribute: src}
}

// FromTexture samples feature ids from channels of tex. Channel values are
// combined little-endian in the given order.
func FromTexture(tex Texture, texCoord int, channels ...int) Source {
	return Source{kind: SourceTexture, texture: tex, texCoord: texCoord, channels: channels}
}

// Kind returns the source kind.
func (s Source) Kind() SourceKind {
	return s.kind
}

// TextureInfo references the texture feature ids are sampled from.
type TextureInfo struct {
	Index    int
	TexCoord int
	Channels []int
}

// FeatureID describes one feature id set of a target.
type FeatureID struct {
	FeatureCount  int
	PropertyTable int // index in the root's tables, -1 when absent
	Label         string
	NullFeatureID *uint32
	Attribute     *int         // n of _FEATURE_ID_n
	Texture       *TextureInfo // texture source
	Row           int          // fixed row, -1 when absent

	table        *metadata.PropertyTable
	source       AttributeSource
	elementCount int
}

// Kind returns the source kind of the set.
func (f *FeatureID) Kind() SourceKind {
	switch {
	case f.Attribute != nil:
		return SourceAttribute
	case f.Texture != nil:
		return SourceTexture
	default:
		return SourceImplicit
	}
}

// Table returns the referenced table, or nil.
func (f *FeatureID) Table() *metadata.PropertyTable {
	return f.table
}

// ElementCount returns the element count of the target at attach time.
func (f *FeatureID) ElementCount() int {
	return f.elementCount
}

// Source returns the attribute source, or nil.
func (f *FeatureID) Source() AttributeSource {
	return f.source
}

// Resolve returns the property table row of element i. It reports false for
// elements outside the target, null features and texture sources.
func (f *FeatureID) Resolve(i int) (int, bool) {
	if i < 0 || i >= f.elementCount {
		return -1, false
	}
	if f.Row >= 0 {
		return f.Row, true
	}

	var id uint32
	switch f.Kind() {
	case SourceImplicit:
		id = uint32(i)
	case SourceAttribute:
		if i >= f.source.Len() {
			return -1, false
		}
		id = f.source.At(i)
	default:
		return -1, false
	}

	if f.NullFeatureID != nil && id == *f.NullFeatureID {
		return -1, false
	}

	return int(id), true
}

// MaxFeatureID returns the largest non-null feature id of the set. It
// reports false for texture sources and sets without features.
func (f *FeatureID) MaxFeatureID() (int, bool) {
	if f.Row >= 0 {
		return f.Row, f.elementCount > 0
	}
	if f.Kind() == SourceTexture {
		return -1, false
	}

	maxID, found := -1, false
	for i := range f.elementCount {
		if id, ok := f.Resolve(i); ok && id > maxID {
			maxID, found = id, true
		}
	}

	return maxID, found
}

// MeshFeatures holds the feature id sets of one target.
type MeshFeatures struct {
	target     Target
	root       *metadata.Root
	featureIDs []*FeatureID
}

// NewMeshFeatures creates an empty feature id container for target. A nil
// target is rejected by Attach.
func NewMeshFeatures(target Target) *MeshFeatures {
	return &MeshFeatures{target: target}
}

// Target returns the target.
func (m *MeshFeatures) Target() Target {
	return m.target
}

// FeatureIDs returns the attached sets in attach order.
func (m *MeshFeatures) FeatureIDs() []*FeatureID {
	return m.featureIDs
}

// Attach adds a feature id set built from b and src.
//
// Builders with a fixed row only accept Implicit sources. Texture channels
// must be unique and within 0..3.
func (m *MeshFeatures) Attach(b *Builder, src Source) (*FeatureID, error) {
	if m.target == nil {
		return nil, fmt.Errorf("%w: nil target", errs.ErrInvalidFeatureSource)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: nil builder", errs.ErrInvalidFeatureSource)
	}
	if b.row >= 0 && src.kind != SourceImplicit {
		return nil, fmt.Errorf("%w: a fixed-row builder cannot read ids from a %s source",
			errs.ErrInvalidFeatureSource, src.kind)
	}

	f := &FeatureID{
		PropertyTable: -1,
		Label:         b.label,
		NullFeatureID: b.nullFeatureID,
		Row:           b.row,
		table:         b.table,
		elementCount:  m.target.ElementCount(),
	}

	switch src.kind {
	case SourceImplicit:
	case SourceAttribute:
		if src.attribute == nil {
			return nil, fmt.Errorf("%w: attribute source is nil", errs.ErrInvalidFeatureSource)
		}
		if src.setIndex < 0 {
			return nil, fmt.Errorf("%w: attribute set index %d", errs.ErrInvalidFeatureSource, src.setIndex)
		}
		setIndex := src.setIndex
		f.Attribute = &setIndex
		f.source = src.attribute
	case SourceTexture:
		if src.texture == nil {
			return nil, fmt.Errorf("%w: texture is nil", errs.ErrInvalidFeatureSource)
		}
		if err := checkChannels(src.channels); err != nil {
			return nil, err
		}
		f.Texture = &TextureInfo{
			Index:    src.texture.TextureIndex(),
			TexCoord: src.texCoord,
			Channels: append([]int(nil), src.channels...),
		}
	default:
		return nil, fmt.Errorf("%w: kind %d", errs.ErrInvalidFeatureSource, src.kind)
	}

	if b.table != nil {
		root := b.table.Root()
		if m.root != nil && m.root != root {
			return nil, fmt.Errorf("%w: table %q belongs to another metadata root", errs.ErrInvalidFeatureSource, b.table.Name)
		}
		m.root = root
		f.PropertyTable = root.PropertyTableIndex(b.table)
		f.FeatureCount = b.table.Count
	} else if maxID, ok := f.MaxFeatureID(); ok {
		f.FeatureCount = maxID + 1
	}

	m.featureIDs = append(m.featureIDs, f)

	return f, nil
}

func checkChannels(channels []int) error {
	if len(channels) == 0 {
		return fmt.Errorf("%w: no channels", errs.ErrInvalidChannel)
	}

	var seen [4]bool
	for _, c := range channels {
		if c < 0 || c > 3 {
			return fmt.Errorf("%w: channel %d outside 0..3", errs.ErrInvalidChannel, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: channel %d listed twice", errs.ErrInvalidChannel, c)
		}
		seen[c] = true
	}

	return nil
}
