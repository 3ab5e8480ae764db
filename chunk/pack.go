package chunk

import (
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/metadata"
)

// PropertyLayout is what a container writer needs to describe one property
// table column: the views of its buffers and its type tags.
type PropertyLayout struct {
	Table            int    // index in the root's property tables
	Property         string // class property id
	Values           int    // view index
	ArrayOffsets     int    // view index, -1 when absent
	StringOffsets    int    // view index, -1 when absent
	ArrayOffsetType  format.ComponentType
	StringOffsetType format.ComponentType
	ElementType      format.ElementType
	ComponentType    format.ComponentType
	Count            int // table row count
}

// Layout is a packed binary chunk.
type Layout struct {
	Chunk      []byte
	Views      []View
	Properties []PropertyLayout
}

// Pack lays out every assigned column of root's property tables in one
// binary chunk.
//
// For each column the values buffer is added first, then the array offsets
// and the string offsets when present. Every view starts on the configured
// alignment (8 bytes by default) and the chunk is padded to it. Identical
// buffers share one view unless deduplication is disabled. Columns without
// values are skipped. Buffers are copied, never re-encoded.
//
// Pack does not validate; run validation.Validate first, or use
// structmeta.Build which does both.
//
// Parameters:
//   - root: Metadata root whose property tables are packed
//   - opts: Builder options (WithAlignment, WithDeduplication)
//
// Returns:
//   - *Layout: The chunk bytes, its views and one PropertyLayout per column
//   - error: errs.ErrInvalidAlignment for a bad alignment option
func Pack(root *metadata.Root, opts ...Option) (*Layout, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	defer b.Release()

	layout := &Layout{}
	for ti, table := range root.PropertyTables() {
		for _, tp := range table.Properties() {
			if !tp.IsSet() {
				continue
			}

			prop := tp.ClassProperty()
			ct, _ := tp.ValueComponentType()
			pl := PropertyLayout{
				Table:         ti,
				Property:      prop.ID,
				Values:        b.Add(tp.Values()),
				ArrayOffsets:  -1,
				StringOffsets: -1,
				ElementType:   prop.Type,
				ComponentType: ct,
				Count:         table.Count,
			}
			if tp.ArrayOffsets() != nil {
				pl.ArrayOffsets = b.Add(tp.ArrayOffsets())
				pl.ArrayOffsetType = tp.ArrayOffsetType()
			}
			if tp.StringOffsets() != nil {
				pl.StringOffsets = b.Add(tp.StringOffsets())
				pl.StringOffsetType = tp.StringOffsetType()
			}

			layout.Properties = append(layout.Properties, pl)
		}
	}

	b.buf.Pad(b.cfg.alignment)
	layout.Chunk = b.buf.Clone()
	layout.Views = append([]View(nil), b.Views()...)

	return layout, nil
}

// Slice returns the bytes of view i.
func (l *Layout) Slice(i int) []byte {
	v := l.Views[i]
	return l.Chunk[v.ByteOffset : v.ByteOffset+v.ByteLength]
}
