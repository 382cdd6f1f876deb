package layout

import (
	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
)

// ColumnIndexSchema holds the committed column_index_type datatype and
// its member offsets.
type ColumnIndexSchema struct {
	Type   *hdf5x.Datatype
	Layout hdf5x.ColumnIndexLayout
}

// CommitColumnIndexType builds and commits the column_index_type compound
// datatype at /meta/column_index_type.
func CommitColumnIndexType(meta *hdf5x.Group) (*ColumnIndexSchema, error) {
	nameType, err := hdf5x.NewVariableLengthUTF8()
	if err != nil {
		return nil, errors.Trace(err)
	}

	b := &hdf5x.CompoundBuilder{}
	b.Add("name", nameType)
	b.Add("dataset_ref", hdf5x.NewObjectReference())
	b.Add("dataset_column", hdf5x.NativeUint64())
	layout := hdf5x.ColumnIndexLayout{
		RowSize:      b.Size(),
		NameOffset:   b.Members()[0].Offset,
		RefOffset:    b.Members()[1].Offset,
		ColumnOffset: b.Members()[2].Offset,
	}

	dtype, err := b.Build()
	nameType.Close()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := dtype.Commit(meta, ColumnIndexTypePath); err != nil {
		dtype.Close()
		return nil, errors.Trace(err)
	}
	return &ColumnIndexSchema{Type: dtype, Layout: layout}, nil
}

// OpenColumnIndexType re-derives ColumnIndexSchema from an already
// committed datatype.
func OpenColumnIndexType(meta *hdf5x.Group) (*ColumnIndexSchema, error) {
	dtype, err := hdf5x.OpenCommitted(meta, ColumnIndexTypePath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	nameSize := uint64(hdf5x.PointerSize)
	refSize := uint64(hdf5x.ReferenceSize)
	layout := hdf5x.ColumnIndexLayout{
		NameOffset:   0,
		RefOffset:    nameSize,
		ColumnOffset: nameSize + refSize,
		RowSize:      nameSize + refSize + 8,
	}
	return &ColumnIndexSchema{Type: dtype, Layout: layout}, nil
}

// CreateColumnIndexDataset creates /meta/column_index of length ncols.
func CreateColumnIndexDataset(f *hdf5x.File, schema *ColumnIndexSchema, ncols uint64) (ds *hdf5x.Dataset, err error) {
	space, err := hdf5x.NewSimple([]uint64{ncols}, []uint64{hdf5x.Unbounded})
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer space.Close()

	props, err := hdf5x.NewChunked([]uint64{ColumnIndexChunkLength()})
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer props.Close()

	return hdf5x.Create(f, ColumnIndexPath, schema.Type, space, props)
}

// WriteColumnIndex writes the full set of column-index rows at dataset
// creation time.
func WriteColumnIndex(ds *hdf5x.Dataset, schema *ColumnIndexSchema, rows []hdf5x.ColumnIndexRow) error {
	if len(rows) == 0 {
		return nil
	}
	memSpace, err := hdf5x.NewSimple([]uint64{uint64(len(rows))}, nil)
	if err != nil {
		return errors.Trace(err)
	}
	defer memSpace.Close()

	buf, free := hdf5x.EncodeColumnIndexRows(rows, schema.Layout)
	defer free()
	return ds.WriteRaw(buf, schema.Type, memSpace, memSpace)
}

// ReadColumnIndexAt reads the column-index rows at the given ordinals,
// in the order requested, with one single-element hyperslab read per
// ordinal. Ordinals must be distinct; callers enforce that.
func ReadColumnIndexAt(ds *hdf5x.Dataset, schema *ColumnIndexSchema, ordinals []uint64) ([]hdf5x.ColumnIndexRow, error) {
	if len(ordinals) == 0 {
		return nil, nil
	}
	out := make([]hdf5x.ColumnIndexRow, len(ordinals))
	for i, ord := range ordinals {
		fileSpace, err := ds.GetSpace()
		if err != nil {
			return nil, errors.Trace(err)
		}
		if err := fileSpace.SelectHyperslab([]uint64{ord}, []uint64{1}); err != nil {
			fileSpace.Close()
			return nil, errors.Trace(err)
		}
		memSpace, err := hdf5x.NewSimple([]uint64{1}, nil)
		if err != nil {
			fileSpace.Close()
			return nil, errors.Trace(err)
		}

		buf, free := hdf5x.AllocColumnIndexBuffer(1, schema.Layout)
		err = ds.ReadRaw(buf, schema.Type, memSpace, fileSpace)
		fileSpace.Close()
		if err != nil {
			memSpace.Close()
			free()
			return nil, errors.Trace(err)
		}
		rows, derr := hdf5x.DecodeColumnIndexRows(buf, 1, schema.Layout, schema.Type, memSpace)
		memSpace.Close()
		free()
		if derr != nil {
			return nil, errors.Trace(derr)
		}
		out[i] = rows[0]
	}
	return out, nil
}
