package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/metadata"
	"github.com/arloliu/structmeta/schema"
)

func newRoot(t *testing.T) (*metadata.Root, *schema.Schema) {
	t.Helper()

	root, err := metadata.NewRoot()
	require.NoError(t, err)
	s, err := root.UseEmbeddedSchema("schema")
	require.NoError(t, err)

	_, err = s.DefineEnum("species", schema.WithEnumValues(schema.Value("Oak", 1), schema.Value("Pine", 2)),
		schema.WithEnumValueType(format.ComponentUint8))
	require.NoError(t, err)

	c, err := s.DefineClass("tree")
	require.NoError(t, err)
	_, err = c.DefineProperty("age", schema.WithScalar(format.ComponentUint32))
	require.NoError(t, err)
	_, err = c.DefineProperty("name", schema.WithString())
	require.NoError(t, err)
	_, err = c.DefineProperty("samples", schema.WithScalar(format.ComponentUint16), schema.WithArray(0))
	require.NoError(t, err)
	_, err = c.DefineProperty("species", schema.WithEnum("species"))
	require.NoError(t, err)
	_, err = c.DefineProperty("unused", schema.WithBoolean())
	require.NoError(t, err)

	return root, s
}

func TestPack(t *testing.T) {
	root, _ := newRoot(t)
	table, err := root.AddPropertyTable("tree", 2, "trees")
	require.NoError(t, err)

	use := func(id string) *metadata.TableProperty {
		p, err := table.UsePropertyByName(id)
		require.NoError(t, err)
		return p
	}

	age, name, samples, species := use("age"), use("name"), use("samples"), use("species")
	use("unused")

	require.NoError(t, metadata.SetValues[uint32](age, 100, 7))
	require.NoError(t, metadata.SetStrings(name, "Oak tree", "Pine"))
	require.NoError(t, metadata.SetArrays(samples, []uint16{1, 2}, []uint16{3}))
	require.NoError(t, metadata.SetEnumValues(species, "Oak", "Pine"))

	layout, err := Pack(root)
	require.NoError(t, err)
	require.Len(t, layout.Properties, 4)

	ageLayout := layout.Properties[0]
	require.Equal(t, PropertyLayout{
		Table:         0,
		Property:      "age",
		Values:        ageLayout.Values,
		ArrayOffsets:  -1,
		StringOffsets: -1,
		ElementType:   format.ElementScalar,
		ComponentType: format.ComponentUint32,
		Count:         2,
	}, ageLayout)
	require.Equal(t, age.Values(), layout.Slice(ageLayout.Values))

	nameLayout := layout.Properties[1]
	require.Equal(t, -1, nameLayout.ArrayOffsets)
	require.NotEqual(t, -1, nameLayout.StringOffsets)
	require.Equal(t, format.ComponentUint32, nameLayout.StringOffsetType)
	require.Equal(t, format.ComponentNone, nameLayout.ComponentType)
	require.Equal(t, []byte("Oak treePine"), layout.Slice(nameLayout.Values))
	require.Equal(t, name.StringOffsets(), layout.Slice(nameLayout.StringOffsets))

	samplesLayout := layout.Properties[2]
	require.NotEqual(t, -1, samplesLayout.ArrayOffsets)
	require.Equal(t, format.ComponentUint32, samplesLayout.ArrayOffsetType)
	require.Equal(t, samples.ArrayOffsets(), layout.Slice(samplesLayout.ArrayOffsets))

	speciesLayout := layout.Properties[3]
	require.Equal(t, format.ElementEnum, speciesLayout.ElementType)
	require.Equal(t, format.ComponentUint8, speciesLayout.ComponentType)
	require.Equal(t, []byte{1, 2}, layout.Slice(speciesLayout.Values))

	for _, v := range layout.Views {
		require.Zero(t, v.ByteOffset%DefaultAlignment)
	}
	require.Zero(t, len(layout.Chunk)%DefaultAlignment)
}

func TestPack_SharedBuffers(t *testing.T) {
	root, _ := newRoot(t)

	for range 2 {
		table, err := root.AddPropertyTable("tree", 1, "")
		require.NoError(t, err)
		age, err := table.UsePropertyByName("age")
		require.NoError(t, err)
		require.NoError(t, metadata.SetValues[uint32](age, 100))
	}

	layout, err := Pack(root)
	require.NoError(t, err)
	require.Len(t, layout.Properties, 2)
	require.Equal(t, layout.Properties[0].Values, layout.Properties[1].Values)
	require.Equal(t, 1, layout.Properties[1].Table)
	require.Len(t, layout.Views, 1)
	require.Equal(t, []byte{0x64, 0, 0, 0, 0, 0, 0, 0}, layout.Chunk)

	separate, err := Pack(root, WithDeduplication(false))
	require.NoError(t, err)
	require.Len(t, separate.Views, 2)
}

func TestPack_Errors(t *testing.T) {
	root, _ := newRoot(t)

	_, err := Pack(root, WithAlignment(3))
	require.ErrorIs(t, err, errs.ErrInvalidAlignment)

	layout, err := Pack(root)
	require.NoError(t, err)
	require.Empty(t, layout.Properties)
	require.Empty(t, layout.Chunk)
}
