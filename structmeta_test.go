package structmeta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/structmeta/chunk"
	"github.com/arloliu/structmeta/encoding"
	"github.com/arloliu/structmeta/endian"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/featureid"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/metadata"
	"github.com/arloliu/structmeta/schema"
	"github.com/arloliu/structmeta/validation"
)

type primitive int

func (p primitive) ElementCount() int { return int(p) }

type texture int

func (t texture) TextureIndex() int { return int(t) }

func newRoot(t *testing.T) (*metadata.Root, *schema.Schema) {
	t.Helper()

	root, err := NewRoot()
	require.NoError(t, err)
	s, err := root.UseEmbeddedSchema("schema_001", schema.WithName("schema 001"), schema.WithVersion("1.0.0"))
	require.NoError(t, err)

	return root, s
}

func defineClass(t *testing.T, s *schema.Schema, id string, props map[string][]schema.PropertyOption, order ...string) {
	t.Helper()

	c, err := s.DefineClass(id)
	require.NoError(t, err)
	for _, name := range order {
		_, err := c.DefineProperty(name, props[name]...)
		require.NoError(t, err)
	}
}

func useColumn(t *testing.T, table *metadata.PropertyTable, id string) *metadata.TableProperty {
	t.Helper()

	p, err := table.UsePropertyByName(id)
	require.NoError(t, err)

	return p
}

// A single tree with one age column, linked implicitly to a one-vertex
// primitive.
func mustValidate(t *testing.T, root *metadata.Root, features []*featureid.MeshFeatures, opts ...validation.Option) *validation.Report {
	t.Helper()

	report, err := Validate(root, features, opts...)
	require.NoError(t, err)

	return report
}

func TestBuild_SingleRow(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "tree", map[string][]schema.PropertyOption{
		"age": {schema.WithScalar(format.ComponentUint32), schema.WithRequired()},
	}, "age")

	table, err := root.AddPropertyTable("tree", 1, "PropertyTable")
	require.NoError(t, err)
	age := useColumn(t, table, "age")
	require.NoError(t, metadata.SetValues[uint32](age, 100))
	require.Equal(t, []byte{0x64, 0x00, 0x00, 0x00}, age.Values())

	b, err := featureid.NewBuilder(table)
	require.NoError(t, err)
	features := featureid.NewMeshFeatures(primitive(1))
	fid, err := features.Attach(b, featureid.Implicit())
	require.NoError(t, err)

	row, ok := fid.Resolve(0)
	require.True(t, ok)
	require.Equal(t, 0, row)
	require.Equal(t, 1, fid.FeatureCount)
	require.Equal(t, 0, fid.PropertyTable)

	layout, report, err := Build(root, []*featureid.MeshFeatures{features})
	require.NoError(t, err)
	require.True(t, report.OK())
	require.Empty(t, report.Issues)
	require.Equal(t, []byte{0x64, 0, 0, 0, 0, 0, 0, 0}, layout.Chunk)
	require.Equal(t, []chunk.View{{ByteOffset: 0, ByteLength: 4}}, layout.Views)
}

func TestBuild_Strings(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "component", map[string][]schema.PropertyOption{
		"name": {schema.WithString()},
	}, "name")

	table, err := root.AddPropertyTable("component", 4, "")
	require.NoError(t, err)
	name := useColumn(t, table, "name")
	require.NoError(t, metadata.SetStrings(name, "Wall", "Door", "Roof", "Window"))

	require.Len(t, name.Values(), 18)
	offsets, err := name.StringOffsetValues()
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 4, 8, 12, 18}, offsets)

	layout, _, err := Build(root, nil)
	require.NoError(t, err)
	require.Len(t, layout.Views, 2)

	decoded, err := encoding.DecodeStrings(layout.Slice(layout.Properties[0].Values), offsets)
	require.NoError(t, err)
	require.Equal(t, []string{"Wall", "Door", "Roof", "Window"}, decoded)
}

func TestBuild_RowCountMismatch(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "tree", map[string][]schema.PropertyOption{
		"age": {schema.WithScalar(format.ComponentUint32)},
	}, "age")

	table, err := root.AddPropertyTable("tree", 4, "trees")
	require.NoError(t, err)
	age := useColumn(t, table, "age")
	require.NoError(t, metadata.SetRawBuffers(age, metadata.RawBuffers{
		Values: encoding.EncodeNumeric(endian.GetLittleEndianEngine(), []uint32{1, 2, 3}),
	}))

	layout, report, err := Build(root, nil, WithValidation(validation.WithSeverity(validation.KindRowCount, validation.SeverityAdvisory)))
	require.Nil(t, layout)
	require.ErrorIs(t, err, errs.ErrSchemaInconsistency)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	issues := report.ByKind(validation.KindRowCount)
	require.Len(t, issues, 1)
	require.Equal(t, validation.SeverityFatal, issues[0].Severity)
	require.True(t, strings.Contains(issues[0].Path, "age"))
	require.Contains(t, issues[0].Message, "age")
}

func TestBuild_FixedArrayLength(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "sensor", map[string][]schema.PropertyOption{
		"readings": {schema.WithScalar(format.ComponentInt16), schema.WithArray(3)},
	}, "readings")

	table, err := root.AddPropertyTable("sensor", 2, "")
	require.NoError(t, err)
	readings := useColumn(t, table, "readings")

	err = metadata.SetValues[int16](readings, 1, 2, 3, 4, 5)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
	require.False(t, readings.IsSet())

	require.NoError(t, metadata.SetValues[int16](readings, 1, 2, 3, 4, 5, 6))
	require.Equal(t, 2, readings.RowCount())
}

func TestBuild_VariableLengthRoundTrip(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "sensor", map[string][]schema.PropertyOption{
		"samples": {schema.WithScalar(format.ComponentUint16), schema.WithArray(0)},
	}, "samples")

	rows := [][]uint16{{10, 20}, {30}, {}, {40, 50, 60}}
	table, err := root.AddPropertyTable("sensor", len(rows), "")
	require.NoError(t, err)
	samples := useColumn(t, table, "samples")
	require.NoError(t, metadata.SetArrays(samples, rows...))

	layout, _, err := Build(root, nil, WithChunk(chunk.WithAlignment(4)))
	require.NoError(t, err)
	pl := layout.Properties[0]

	offsets, err := encoding.DecodeOffsets(root.Engine(), pl.ArrayOffsetType, layout.Slice(pl.ArrayOffsets))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2, 3, 3, 6}, offsets)

	values, err := encoding.DecodeNumeric[uint16](root.Engine(), layout.Slice(pl.Values))
	require.NoError(t, err)

	for i, want := range rows {
		require.Equal(t, want, values[offsets[i]:offsets[i+1]], "row %d", i)
	}
}

// Vector, matrix and enum columns in one table.
func TestBuild_ComplexTypes(t *testing.T) {
	root, s := newRoot(t)
	_, err := s.DefineEnum("classification",
		schema.WithEnumValues(schema.Value("Unspecified", 0), schema.Value("Moderate", 1), schema.Value("Severe", 2)))
	require.NoError(t, err)

	defineClass(t, s, "exampleMetadataClass", map[string][]schema.PropertyOption{
		"example_VEC3_FLOAT32": {schema.WithValueType(format.ElementVec3, format.ComponentFloat32)},
		"example_MAT4_FLOAT32": {schema.WithValueType(format.ElementMat4, format.ComponentFloat32)},
		"example_ENUM":         {schema.WithEnum("classification")},
		"example_fixed_ENUM":   {schema.WithEnum("classification"), schema.WithArray(2)},
	}, "example_VEC3_FLOAT32", "example_MAT4_FLOAT32", "example_ENUM", "example_fixed_ENUM")

	table, err := root.AddPropertyTable("exampleMetadataClass", 1, "Example property table")
	require.NoError(t, err)

	vec := useColumn(t, table, "example_VEC3_FLOAT32")
	require.NoError(t, metadata.SetValues[float32](vec, 3, 4, 5))
	require.Len(t, vec.Values(), 12)

	identity := []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	mat := useColumn(t, table, "example_MAT4_FLOAT32")
	require.NoError(t, metadata.SetValues(mat, identity...))
	require.Len(t, mat.Values(), 64)

	enum := useColumn(t, table, "example_ENUM")
	require.NoError(t, metadata.SetEnumValues(enum, "Moderate"))
	require.Equal(t, []byte{0x01, 0x00}, enum.Values())

	fixed := useColumn(t, table, "example_fixed_ENUM")
	require.NoError(t, metadata.SetEnumValues(fixed, "Severe", "Unspecified"))
	require.Equal(t, []byte{0x02, 0x00, 0x00, 0x00}, fixed.Values())

	layout, report, err := Build(root, nil)
	require.NoError(t, err)
	require.Empty(t, report.Issues)
	require.Len(t, layout.Properties, 4)
	require.Equal(t, format.ComponentUint16, layout.Properties[2].ComponentType)

	decoded, err := encoding.DecodeNumeric[float32](root.Engine(), layout.Slice(layout.Properties[1].Values))
	require.NoError(t, err)
	require.Equal(t, identity, decoded)
}

// Two classes with their own tables. Each primitive maps every vertex to one
// row of a shared table.
func TestBuild_MultipleClasses(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "triangles", map[string][]schema.PropertyOption{
		"name": {schema.WithString()},
	}, "name")
	defineClass(t, s, "buildings", map[string][]schema.PropertyOption{
		"height": {schema.WithScalar(format.ComponentFloat32)},
	}, "height")

	triangles, err := root.AddPropertyTable("triangles", 2, "Triangles")
	require.NoError(t, err)
	require.NoError(t, metadata.SetStrings(useColumn(t, triangles, "name"), "this is the first triangle", "and this is the second"))

	buildings, err := root.AddPropertyTable("buildings", 1, "Buildings")
	require.NoError(t, err)
	require.NoError(t, metadata.SetValues[float32](useColumn(t, buildings, "height"), 12.5))

	var all []*featureid.MeshFeatures
	for row := range 2 {
		b, err := featureid.NewBuilder(triangles, featureid.WithRow(row), featureid.WithLabel("triangle"))
		require.NoError(t, err)
		mf := featureid.NewMeshFeatures(primitive(3))
		fid, err := mf.Attach(b, featureid.Implicit())
		require.NoError(t, err)

		for v := range 3 {
			got, ok := fid.Resolve(v)
			require.True(t, ok)
			require.Equal(t, row, got)
		}
		all = append(all, mf)
	}

	b, err := featureid.NewBuilder(buildings)
	require.NoError(t, err)
	mf := featureid.NewMeshFeatures(primitive(3))
	fid, err := mf.Attach(b, featureid.FromAttribute(0, featureid.IDs{0, 0, 0}))
	require.NoError(t, err)
	require.Equal(t, 1, fid.PropertyTable)
	all = append(all, mf)

	layout, report, err := Build(root, all)
	require.NoError(t, err)
	require.Empty(t, report.Issues)
	require.Len(t, layout.Properties, 2)
	require.Equal(t, 1, layout.Properties[1].Table)

	_, err = featureid.NewBuilder(triangles, featureid.WithRow(2))
	require.ErrorIs(t, err, errs.ErrInvalidRowIndex)
}

func TestBuild_FeatureOutOfRange(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "tree", map[string][]schema.PropertyOption{
		"age": {schema.WithScalar(format.ComponentUint8)},
	}, "age")

	table, err := root.AddPropertyTable("tree", 2, "")
	require.NoError(t, err)
	require.NoError(t, metadata.SetValues[uint8](useColumn(t, table, "age"), 1, 2))

	b, err := featureid.NewBuilder(table)
	require.NoError(t, err)
	mf := featureid.NewMeshFeatures(primitive(3))
	_, err = mf.Attach(b, featureid.FromAttribute(0, featureid.IDs{0, 1, 2}))
	require.NoError(t, err)

	_, report, err := Build(root, []*featureid.MeshFeatures{mf})
	require.ErrorIs(t, err, errs.ErrSchemaInconsistency)
	require.Len(t, report.ByKind(validation.KindFeatureRange), 1)
}

func TestBuild_PropertyTexture(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "buildingComponents", map[string][]schema.PropertyOption{
		"insideTemperature":  {schema.WithScalar(format.ComponentUint8)},
		"outsideTemperature": {schema.WithScalar(format.ComponentUint8)},
		"insulation":         {schema.WithScalar(format.ComponentUint8), schema.WithNormalized()},
	}, "insideTemperature", "outsideTemperature", "insulation")

	pt, err := root.AddPropertyTexture("buildingComponents", "Building components")
	require.NoError(t, err)
	for i, id := range []string{"insideTemperature", "outsideTemperature", "insulation"} {
		require.NoError(t, pt.SetProperty(id, metadata.TextureProperty{Index: 0, Channels: []int{i}}))
	}

	b, err := featureid.NewBuilder(nil)
	require.NoError(t, err)
	mf := featureid.NewMeshFeatures(primitive(4))
	fid, err := mf.Attach(b, featureid.FromTexture(texture(1), 0, 0))
	require.NoError(t, err)
	require.Equal(t, featureid.SourceTexture, fid.Kind())

	report := mustValidate(t, root, []*featureid.MeshFeatures{mf})
	require.True(t, report.OK(), report.String())
	require.Empty(t, report.Issues)

	require.NoError(t, pt.SetProperty("insulation", metadata.TextureProperty{Channels: []int{2, 2}}))
	report = mustValidate(t, root, nil)
	require.False(t, report.OK())
	require.Len(t, report.ByKind(validation.KindTextureProperty), 1)
}

func TestBuild_PropertyAttribute(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "movement", map[string][]schema.PropertyOption{
		"direction": {schema.WithValueType(format.ElementVec3, format.ComponentFloat32)},
		"magnitude": {schema.WithScalar(format.ComponentFloat32)},
		"label":     {schema.WithString()},
	}, "direction", "magnitude", "label")

	pa, err := root.AddPropertyAttribute("movement", "")
	require.NoError(t, err)
	require.NoError(t, pa.SetProperty("direction", "_DIRECTION"))
	require.NoError(t, pa.SetProperty("magnitude", "_MAGNITUDE"))

	report := mustValidate(t, root, nil)
	require.True(t, report.OK(), report.String())

	require.NoError(t, pa.SetProperty("label", "_LABEL"))
	report = mustValidate(t, root, nil)
	require.Len(t, report.ByKind(validation.KindAttributeProperty), 1)
}

func TestBuild_YAMLSchema(t *testing.T) {
	s, err := schema.ParseYAML([]byte(`
id: forest
classes:
  - id: tree
    properties:
      - id: height
        type: SCALAR
        componentType: FLOAT32
        required: true
`))
	require.NoError(t, err)

	root, err := NewRoot(metadata.WithBigEndian())
	require.NoError(t, err)
	root.SetSchema(s)

	table, err := root.AddPropertyTable("tree", 1, "")
	require.NoError(t, err)
	require.NoError(t, metadata.SetValues[float32](useColumn(t, table, "height"), 1))

	layout, _, err := Build(root, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x3f, 0x80, 0x00, 0x00}, layout.Slice(0))
}

func TestLoadSchema_Missing(t *testing.T) {
	_, err := LoadSchema(t.TempDir() + "/missing.yaml")
	require.Error(t, err)
}

func TestBuild_InvalidValidationOption(t *testing.T) {
	root, s := newRoot(t)
	defineClass(t, s, "tree", map[string][]schema.PropertyOption{
		"age": {schema.WithScalar(format.ComponentUint32)},
	}, "age")

	layout, report, err := Build(root, nil, WithValidation(validation.WithSeverity(validation.Kind(200), validation.SeverityAdvisory)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	require.Nil(t, layout)
	require.Nil(t, report)
}
