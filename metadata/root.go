// Package metadata holds the asset-level structural metadata: the embedded
// schema, property tables with their encoded column buffers, property
// textures and property attributes.
//
// Property table columns are written once through the Set* functions, which
// encode the values into the binary layout a container writer stores
// verbatim. A rejected assignment leaves the column untouched.
//
// A Root and its tables are not safe for concurrent mutation. Distinct
// TableProperty handles may be assigned from different goroutines.
package metadata

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/structmeta/encoding"
	"github.com/arloliu/structmeta/endian"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/internal/options"
	"github.com/arloliu/structmeta/metrics"
	"github.com/arloliu/structmeta/schema"
)

// Root is the structural metadata container of one asset.
type Root struct {
	engine           endian.EndianEngine
	arrayOffsetType  format.ComponentType
	stringOffsetType format.ComponentType
	logger           zerolog.Logger
	metrics          *metrics.Collector

	schema     *schema.Schema
	tables     []*PropertyTable
	textures   []*PropertyTexture
	attributes []*PropertyAttribute
}

// RootOption configures a Root.
type RootOption = options.Option[*Root]

// WithLittleEndian encodes buffers little-endian. This is the default and the
// byte order of glTF binary chunks.
func WithLittleEndian() RootOption {
	return options.NoError(func(r *Root) {
		r.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian encodes buffers big-endian.
func WithBigEndian() RootOption {
	return options.NoError(func(r *Root) {
		r.engine = endian.GetBigEndianEngine()
	})
}

// WithArrayOffsetType sets the offset type of array offset buffers.
// It must be an unsigned integer type; the default is UINT32.
func WithArrayOffsetType(ct format.ComponentType) RootOption {
	return options.New(func(r *Root) error {
		if err := encoding.ValidateOffsetType(ct); err != nil {
			return err
		}
		r.arrayOffsetType = ct

		return nil
	})
}

// WithStringOffsetType sets the offset type of string offset buffers.
// It must be an unsigned integer type; the default is UINT32.
func WithStringOffsetType(ct format.ComponentType) RootOption {
	return options.New(func(r *Root) error {
		if err := encoding.ValidateOffsetType(ct); err != nil {
			return err
		}
		r.stringOffsetType = ct

		return nil
	})
}

// WithLogger sets the logger used for assignment events.
func WithLogger(logger zerolog.Logger) RootOption {
	return options.NoError(func(r *Root) {
		r.logger = logger
	})
}

// WithMetrics sets the collector that counts encoded bytes and errors.
func WithMetrics(c *metrics.Collector) RootOption {
	return options.NoError(func(r *Root) {
		r.metrics = c
	})
}

// NewRoot creates an empty metadata root.
func NewRoot(opts ...RootOption) (*Root, error) {
	r := &Root{
		engine:           endian.GetLittleEndianEngine(),
		arrayOffsetType:  encoding.DefaultOffsetType,
		stringOffsetType: encoding.DefaultOffsetType,
		logger:           zerolog.Nop(),
	}

	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// UseEmbeddedSchema returns the root's schema, creating it with the given id
// on first use. Options are applied on every call. Asking for a different id
// than the existing schema's fails.
func (r *Root) UseEmbeddedSchema(id string, opts ...schema.SchemaOption) (*schema.Schema, error) {
	if r.schema == nil {
		s, err := schema.New(id, opts...)
		if err != nil {
			return nil, err
		}
		r.schema = s

		return s, nil
	}

	if r.schema.ID != id {
		return nil, fmt.Errorf("%w: root already uses schema %q, not %q", errs.ErrInvalidID, r.schema.ID, id)
	}
	if err := options.Apply(r.schema, opts...); err != nil {
		return nil, err
	}

	return r.schema, nil
}

// SetSchema replaces the embedded schema, e.g. with one loaded from YAML.
// Existing tables keep their class pointers; the validation pass reports
// classes that are no longer part of the schema.
func (r *Root) SetSchema(s *schema.Schema) {
	r.schema = s
}

// Schema returns the embedded schema, or nil.
func (r *Root) Schema() *schema.Schema {
	return r.schema
}

func (r *Root) class(classID string) (*schema.Class, error) {
	if r.schema == nil {
		return nil, fmt.Errorf("%w: %q (no schema)", errs.ErrClassNotFound, classID)
	}

	c, ok := r.schema.Class(classID)
	if !ok {
		return nil, fmt.Errorf("%w: %q in schema %q", errs.ErrClassNotFound, classID, r.schema.ID)
	}

	return c, nil
}

// AddPropertyTable creates a table of count rows bound to the class classID.
func (r *Root) AddPropertyTable(classID string, count int, name string) (*PropertyTable, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidRowCount, count)
	}

	c, err := r.class(classID)
	if err != nil {
		return nil, err
	}

	t := &PropertyTable{
		Name:  name,
		Count: count,
		Class: c,
		root:  r,
		index: make(map[string]*TableProperty),
	}
	r.tables = append(r.tables, t)

	return t, nil
}

// PropertyTables returns the tables in creation order.
func (r *Root) PropertyTables() []*PropertyTable {
	return r.tables
}

// PropertyTableIndex returns the position of t in PropertyTables, or -1.
func (r *Root) PropertyTableIndex(t *PropertyTable) int {
	for i, table := range r.tables {
		if table == t {
			return i
		}
	}

	return -1
}

// AddPropertyTexture creates a property texture bound to the class classID.
func (r *Root) AddPropertyTexture(classID string, name string) (*PropertyTexture, error) {
	c, err := r.class(classID)
	if err != nil {
		return nil, err
	}

	t := &PropertyTexture{Name: name, Class: c}
	r.textures = append(r.textures, t)

	return t, nil
}

// PropertyTextures returns the property textures in creation order.
func (r *Root) PropertyTextures() []*PropertyTexture {
	return r.textures
}

// AddPropertyAttribute creates a property attribute bound to the class classID.
func (r *Root) AddPropertyAttribute(classID string, name string) (*PropertyAttribute, error) {
	c, err := r.class(classID)
	if err != nil {
		return nil, err
	}

	a := &PropertyAttribute{Name: name, Class: c}
	r.attributes = append(r.attributes, a)

	return a, nil
}

// PropertyAttributes returns the property attributes in creation order.
func (r *Root) PropertyAttributes() []*PropertyAttribute {
	return r.attributes
}

// Engine returns the byte order used for every buffer.
func (r *Root) Engine() endian.EndianEngine {
	return r.engine
}

// ArrayOffsetType returns the configured array offset type.
func (r *Root) ArrayOffsetType() format.ComponentType {
	return r.arrayOffsetType
}

// StringOffsetType returns the configured string offset type.
func (r *Root) StringOffsetType() format.ComponentType {
	return r.stringOffsetType
}

// Logger returns the configured logger.
func (r *Root) Logger() zerolog.Logger {
	return r.logger
}

// Metrics returns the configured collector, possibly nil.
func (r *Root) Metrics() *metrics.Collector {
	return r.metrics
}
