package metadata

import (
	"testing"

	"github.com/arloliu/structmeta/endian"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/schema"
	"github.com/stretchr/testify/require"
)

func TestNewRoot_Defaults(t *testing.T) {
	root, err := NewRoot()
	require.NoError(t, err)

	require.True(t, endian.IsLittleEndian(root.Engine()))
	require.Equal(t, format.ComponentUint32, root.ArrayOffsetType())
	require.Equal(t, format.ComponentUint32, root.StringOffsetType())
	require.Nil(t, root.Schema())
	require.Nil(t, root.Metrics())
	require.Empty(t, root.PropertyTables())
}

func TestNewRoot_Options(t *testing.T) {
	root, err := NewRoot(
		WithBigEndian(),
		WithArrayOffsetType(format.ComponentUint16),
		WithStringOffsetType(format.ComponentUint8),
	)
	require.NoError(t, err)
	require.False(t, endian.IsLittleEndian(root.Engine()))
	require.Equal(t, format.ComponentUint16, root.ArrayOffsetType())
	require.Equal(t, format.ComponentUint8, root.StringOffsetType())

	_, err = NewRoot(WithArrayOffsetType(format.ComponentInt32))
	require.ErrorIs(t, err, errs.ErrInvalidOffsetType)

	_, err = NewRoot(WithStringOffsetType(format.ComponentFloat64))
	require.ErrorIs(t, err, errs.ErrInvalidOffsetType)
}

func TestRoot_UseEmbeddedSchema(t *testing.T) {
	root, err := NewRoot()
	require.NoError(t, err)

	s, err := root.UseEmbeddedSchema("schema_001", schema.WithName("schema 001"))
	require.NoError(t, err)
	require.Same(t, s, root.Schema())

	again, err := root.UseEmbeddedSchema("schema_001", schema.WithVersion("3.5.1"))
	require.NoError(t, err)
	require.Same(t, s, again)
	require.Equal(t, "schema 001", s.Name)
	require.Equal(t, "3.5.1", s.Version)

	_, err = root.UseEmbeddedSchema("other")
	require.ErrorIs(t, err, errs.ErrInvalidID)

	_, err = root.UseEmbeddedSchema("")
	require.ErrorIs(t, err, errs.ErrInvalidID)
}

func TestRoot_SetSchema(t *testing.T) {
	root, err := NewRoot()
	require.NoError(t, err)

	s, err := schema.New("loaded")
	require.NoError(t, err)
	_, err = s.DefineClass("tree")
	require.NoError(t, err)

	root.SetSchema(s)
	require.Same(t, s, root.Schema())

	_, err = root.AddPropertyTable("tree", 1, "trees")
	require.NoError(t, err)
}

func TestRoot_AddPropertyTable(t *testing.T) {
	root, err := NewRoot()
	require.NoError(t, err)

	_, err = root.AddPropertyTable("tree", 1, "")
	require.ErrorIs(t, err, errs.ErrClassNotFound)

	s, err := root.UseEmbeddedSchema("schema")
	require.NoError(t, err)
	tree, err := s.DefineClass("tree")
	require.NoError(t, err)

	_, err = root.AddPropertyTable("missing", 1, "")
	require.ErrorIs(t, err, errs.ErrClassNotFound)

	_, err = root.AddPropertyTable("tree", -1, "")
	require.ErrorIs(t, err, errs.ErrInvalidRowCount)

	first, err := root.AddPropertyTable("tree", 1, "first")
	require.NoError(t, err)
	require.Same(t, tree, first.Class)
	require.Same(t, root, first.Root())

	empty, err := root.AddPropertyTable("tree", 0, "empty")
	require.NoError(t, err)

	require.Equal(t, []*PropertyTable{first, empty}, root.PropertyTables())
	require.Equal(t, 0, root.PropertyTableIndex(first))
	require.Equal(t, 1, root.PropertyTableIndex(empty))
	require.Equal(t, -1, root.PropertyTableIndex(&PropertyTable{}))
}

func TestRoot_PropertyTexturesAndAttributes(t *testing.T) {
	root, err := NewRoot()
	require.NoError(t, err)
	s, err := root.UseEmbeddedSchema("schema")
	require.NoError(t, err)

	class, err := s.DefineClass("buildingComponents")
	require.NoError(t, err)
	_, err = class.DefineProperty("insideTemperature", schema.WithScalar(format.ComponentUint8))
	require.NoError(t, err)
	_, err = class.DefineProperty("outsideTemperature", schema.WithScalar(format.ComponentUint8))
	require.NoError(t, err)

	texture, err := root.AddPropertyTexture("buildingComponents", "temperatures")
	require.NoError(t, err)
	channels := []int{0}
	require.NoError(t, texture.SetProperty("insideTemperature", TextureProperty{Index: 0, Channels: channels}))
	require.NoError(t, texture.SetProperty("outsideTemperature", TextureProperty{Index: 0, Channels: []int{1}}))
	require.NoError(t, texture.SetProperty("insideTemperature", TextureProperty{Index: 1, TexCoord: 1, Channels: channels}))
	channels[0] = 3

	tp, ok := texture.Property("insideTemperature")
	require.True(t, ok)
	require.Equal(t, TextureProperty{Index: 1, TexCoord: 1, Channels: []int{0}}, tp)
	require.Equal(t, []string{"insideTemperature", "outsideTemperature"}, texture.PropertyIDs())

	err = texture.SetProperty("missing", TextureProperty{})
	require.ErrorIs(t, err, errs.ErrPropertyNotFound)

	attribute, err := root.AddPropertyAttribute("buildingComponents", "vertex temperatures")
	require.NoError(t, err)
	require.NoError(t, attribute.SetProperty("insideTemperature", "_INSIDE_TEMPERATURE"))

	name, ok := attribute.Attribute("insideTemperature")
	require.True(t, ok)
	require.Equal(t, "_INSIDE_TEMPERATURE", name)
	require.Equal(t, []string{"insideTemperature"}, attribute.PropertyIDs())

	err = attribute.SetProperty("missing", "_MISSING")
	require.ErrorIs(t, err, errs.ErrPropertyNotFound)

	require.Equal(t, []*PropertyTexture{texture}, root.PropertyTextures())
	require.Equal(t, []*PropertyAttribute{attribute}, root.PropertyAttributes())

	_, err = root.AddPropertyTexture("missing", "")
	require.ErrorIs(t, err, errs.ErrClassNotFound)
	_, err = root.AddPropertyAttribute("missing", "")
	require.ErrorIs(t, err, errs.ErrClassNotFound)
}
