package layout

import (
	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
)

// ElementDatatype builds the HDF5 element datatype for t: an opaque type
// of t.Size for fixed-length types, or a variable-length byte sequence
// for t.Size == 0.
func ElementDatatype(t coltype.ColumnType) (*hdf5x.Datatype, error) {
	if t.IsVariableLength() {
		return hdf5x.NewVariableLengthBytes()
	}
	return hdf5x.NewOpaque(t.Size, t.Tag())
}

// CreateTypeDataset creates the per-type dataset for t with initial width
// k, and writes its `type` attribute.
func CreateTypeDataset(f *hdf5x.File, typeSchema *DatasetTypeSchema, t coltype.ColumnType, width int) (ds *hdf5x.Dataset, err error) {
	elemType, err := ElementDatatype(t)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer elemType.Close()

	space, err := hdf5x.NewSimple([]uint64{0, uint64(width)}, []uint64{hdf5x.Unbounded, hdf5x.Unbounded})
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer space.Close()

	elemSize := t.Size
	if t.IsVariableLength() {
		elemSize = elemType.Size()
	}
	props, err := hdf5x.NewChunked(ChunkShape(elemSize))
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer props.Close()

	ds, err = hdf5x.Create(f, TypeDatasetPath(t), elemType, space, props)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		if err != nil {
			ds.Close()
			ds = nil
		}
	}()

	if err = WriteTypeAttribute(ds, typeSchema, t); err != nil {
		return ds, errors.Trace(err)
	}
	return ds, nil
}

// OpenTypeDataset opens the per-type dataset referenced by ref and reads
// back its ColumnType and current [rows, k] extent.
func OpenTypeDataset(f *hdf5x.File, typeSchema *DatasetTypeSchema, ref hdf5x.Reference) (ds *hdf5x.Dataset, t coltype.ColumnType, rows, width uint64, err error) {
	ds, err = hdf5x.Dereference(f, ref)
	if err != nil {
		return nil, coltype.ColumnType{}, 0, 0, errors.Trace(err)
	}
	defer func() {
		if err != nil {
			ds.Close()
			ds = nil
		}
	}()

	t, err = ReadTypeAttribute(ds, typeSchema)
	if err != nil {
		return ds, coltype.ColumnType{}, 0, 0, errors.Trace(err)
	}

	space, err := ds.GetSpace()
	if err != nil {
		return ds, coltype.ColumnType{}, 0, 0, errors.Trace(err)
	}
	defer space.Close()

	rank, err := space.Rank()
	if err != nil {
		return ds, coltype.ColumnType{}, 0, 0, errors.Trace(err)
	}
	if rank != 2 {
		return ds, coltype.ColumnType{}, 0, 0, errors.Errorf("layout: per-type dataset has rank %d, want 2", rank)
	}
	extent, err := space.Extent()
	if err != nil {
		return ds, coltype.ColumnType{}, 0, 0, errors.Trace(err)
	}
	return ds, t, extent[0], extent[1], nil
}
