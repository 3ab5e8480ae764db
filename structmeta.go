// Package structmeta builds glTF structural metadata: schemas, property
// tables with their binary column buffers, property textures and
// attributes, and the feature ids that link mesh elements to table rows.
//
// # Core Features
//
//   - Schemas with classes, typed properties and enums, authored in code or YAML
//   - Property tables encoded to the EXT_structural_metadata binary layout
//   - Variable-length arrays and strings with configurable offset types
//   - Bit-packed booleans and enum values encoded with the enum's value type
//   - Feature id sets from implicit indices, attributes or textures
//   - A validation pass reporting every inconsistency with its severity
//   - Packing of all column buffers into one aligned, deduplicated chunk
//
// # Basic Usage
//
// Defining a schema and filling a property table:
//
//	root, _ := structmeta.NewRoot()
//	s, _ := root.UseEmbeddedSchema("forest")
//	tree, _ := s.DefineClass("tree")
//	tree.DefineProperty("age", schema.WithScalar(format.ComponentUint32))
//
//	table, _ := root.AddPropertyTable("tree", 1, "trees")
//	age, _ := table.UsePropertyByName("age")
//	metadata.SetValues[uint32](age, 100)
//
// Linking every vertex of a primitive to its row and producing the chunk:
//
//	b, _ := featureid.NewBuilder(table)
//	features := featureid.NewMeshFeatures(primitive)
//	features.Attach(b, featureid.Implicit())
//
//	layout, report, err := structmeta.Build(root, []*featureid.MeshFeatures{features})
//
// # Package Structure
//
// This package provides top-level wrappers for the common path. The schema,
// metadata, featureid, validation and chunk packages expose the full API.
package structmeta

import (
	"fmt"

	"github.com/arloliu/structmeta/chunk"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/featureid"
	"github.com/arloliu/structmeta/internal/options"
	"github.com/arloliu/structmeta/metadata"
	"github.com/arloliu/structmeta/schema"
	"github.com/arloliu/structmeta/validation"
)

// NewRoot creates an empty metadata root.
//
// Available options:
//   - metadata.WithLittleEndian() / metadata.WithBigEndian()
//   - metadata.WithArrayOffsetType(format.ComponentUint8|16|32|64)
//   - metadata.WithStringOffsetType(format.ComponentUint8|16|32|64)
//   - metadata.WithLogger(zerolog.Logger)
//   - metadata.WithMetrics(*metrics.Collector)
//
// Example:
//
//	root, err := structmeta.NewRoot(
//	    metadata.WithStringOffsetType(format.ComponentUint16),
//	    metadata.WithLogger(logger),
//	)
func NewRoot(opts ...metadata.RootOption) (*metadata.Root, error) {
	return metadata.NewRoot(opts...)
}

// LoadSchema reads a YAML schema document from path.
//
// Example:
//
//	s, err := structmeta.LoadSchema("forest.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	root.SetSchema(s)
func LoadSchema(path string) (*schema.Schema, error) {
	return schema.LoadYAML(path)
}

// Validate checks root and the feature id sets attached to it. Problems are
// returned as issues of the report; the error is only set for invalid
// options.
func Validate(root *metadata.Root, features []*featureid.MeshFeatures, opts ...validation.Option) (*validation.Report, error) {
	return validation.Validate(root, features, opts...)
}

// Pack lays out the assigned column buffers of root in one binary chunk.
func Pack(root *metadata.Root, opts ...chunk.Option) (*chunk.Layout, error) {
	return chunk.Pack(root, opts...)
}

// Build validates root and, when no fatal issue is found, packs it.
//
// The report is returned unless an option is invalid. A fatal issue fails
// the build with an error wrapping errs.ErrSchemaInconsistency and every
// fatal issue.
//
// Example:
//
//	layout, report, err := structmeta.Build(root, features)
//	if err != nil {
//	    log.Fatal(report)
//	}
//	writer.AddBuffer(layout.Chunk)
func Build(root *metadata.Root, features []*featureid.MeshFeatures, opts ...BuildOption) (*chunk.Layout, *validation.Report, error) {
	cfg := &buildConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, nil, err
	}

	report, err := validation.Validate(root, features, cfg.validation...)
	if err != nil {
		return nil, nil, err
	}
	if !report.OK() {
		return nil, report, fmt.Errorf("%w: %d fatal issue(s): %w",
			errs.ErrSchemaInconsistency, len(report.Fatal()), report.Err())
	}

	layout, err := chunk.Pack(root, cfg.chunk...)
	if err != nil {
		return nil, report, err
	}

	return layout, report, nil
}

type buildConfig struct {
	validation []validation.Option
	chunk      []chunk.Option
}

// BuildOption configures Build.
type BuildOption = options.Option[*buildConfig]

// WithValidation passes options to the validation pass.
func WithValidation(opts ...validation.Option) BuildOption {
	return options.NoError(func(c *buildConfig) {
		c.validation = append(c.validation, opts...)
	})
}

// WithChunk passes options to the chunk packer.
func WithChunk(opts ...chunk.Option) BuildOption {
	return options.NoError(func(c *buildConfig) {
		c.chunk = append(c.chunk, opts...)
	})
}
