package layout

import (
	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
)

// DatasetTypeSchema holds the committed dataset_type datatype and the
// byte offsets of its three members, needed by every later encode/decode
// of a per-type dataset's `type` attribute.
type DatasetTypeSchema struct {
	Type   *hdf5x.Datatype
	Layout hdf5x.TypeAttrLayout
}

// CommitDatasetType builds and commits the dataset_type compound
// datatype at /meta/dataset_type.
func CommitDatasetType(meta *hdf5x.Group) (*DatasetTypeSchema, error) {
	domainType, err := hdf5x.NewVariableLengthUTF8()
	if err != nil {
		return nil, errors.Trace(err)
	}
	nameType, err := hdf5x.NewVariableLengthUTF8()
	if err != nil {
		domainType.Close()
		return nil, errors.Trace(err)
	}

	b := &hdf5x.CompoundBuilder{}
	b.Add("domain", domainType)
	b.Add("name", nameType)
	b.Add("size", hdf5x.NativeUint64())
	layout := hdf5x.TypeAttrLayout{
		RowSize:      b.Size(),
		DomainOffset: b.Members()[0].Offset,
		NameOffset:   b.Members()[1].Offset,
		SizeOffset:   b.Members()[2].Offset,
	}

	dtype, err := b.Build()
	domainType.Close()
	nameType.Close()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := dtype.Commit(meta, DatasetTypeAttrTypePath); err != nil {
		dtype.Close()
		return nil, errors.Trace(err)
	}
	return &DatasetTypeSchema{Type: dtype, Layout: layout}, nil
}

// OpenDatasetType re-derives DatasetTypeSchema from an already-committed
// datatype, for use by readColumn/introspection on an existing file.
func OpenDatasetType(meta *hdf5x.Group) (*DatasetTypeSchema, error) {
	dtype, err := hdf5x.OpenCommitted(meta, DatasetTypeAttrTypePath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// The member order and sizes are fixed by CommitDatasetType; recompute
	// offsets the same way rather than re-querying H5Tget_member_offset so
	// a freshly opened schema always agrees with one just committed.
	domainSize := uint64(hdf5x.PointerSize)
	nameSize := uint64(hdf5x.PointerSize)
	layout := hdf5x.TypeAttrLayout{
		DomainOffset: 0,
		NameOffset:   domainSize,
		SizeOffset:   domainSize + nameSize,
		RowSize:      domainSize + nameSize + 8,
	}
	return &DatasetTypeSchema{Type: dtype, Layout: layout}, nil
}

// WriteTypeAttribute writes t's (domain, name, size) triple as the `type`
// attribute of a freshly created per-type dataset.
func WriteTypeAttribute(ds *hdf5x.Dataset, schema *DatasetTypeSchema, t coltype.ColumnType) (err error) {
	space, err := hdf5x.NewScalar()
	if err != nil {
		return errors.Trace(err)
	}
	defer space.Close()

	attr, err := ds.CreateAttribute(TypeAttrName, schema.Type, space)
	if err != nil {
		return errors.Trace(err)
	}
	defer attr.Close()

	buf, free := hdf5x.EncodeTypeAttr(t.Domain, t.Name, t.Size, schema.Layout)
	defer free()
	return attr.WriteRaw(buf, schema.Type)
}

// ReadTypeAttribute reads a per-type dataset's `type` attribute back into
// a ColumnType.
func ReadTypeAttribute(ds *hdf5x.Dataset, schema *DatasetTypeSchema) (coltype.ColumnType, error) {
	attr, err := ds.OpenAttribute(TypeAttrName)
	if err != nil {
		return coltype.ColumnType{}, errors.Trace(err)
	}
	defer attr.Close()

	space, err := attr.GetSpace()
	if err != nil {
		return coltype.ColumnType{}, errors.Trace(err)
	}
	defer space.Close()

	buf := make([]byte, schema.Layout.RowSize)
	if err := attr.ReadBytes(buf, schema.Type); err != nil {
		return coltype.ColumnType{}, errors.Trace(err)
	}
	domain, name, size, err := hdf5x.DecodeTypeAttr(hdf5x.BytesPointer(buf), schema.Layout, schema.Type, space)
	if err != nil {
		return coltype.ColumnType{}, errors.Trace(err)
	}
	return coltype.ColumnType{Domain: domain, Name: name, Size: size}, nil
}
