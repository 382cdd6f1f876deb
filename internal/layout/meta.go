package layout

import (
	"unsafe"

	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
)

// CreateMeta creates /meta and its row_count attribute, initialised to 0.
func CreateMeta(f *hdf5x.File) (meta *hdf5x.Group, err error) {
	meta, err = f.CreateGroup(MetaGroupPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		if err != nil {
			meta.Close()
			meta = nil
		}
	}()

	space, err := hdf5x.NewScalar()
	if err != nil {
		return meta, errors.Trace(err)
	}
	defer space.Close()

	attr, err := meta.CreateAttribute(RowCountAttrName, hdf5x.NativeUint64(), space)
	if err != nil {
		return meta, errors.Trace(err)
	}
	defer attr.Close()

	if err = WriteRowCount(attr, 0); err != nil {
		return meta, errors.Trace(err)
	}
	return meta, nil
}

// OpenMeta opens an existing table file's /meta group.
func OpenMeta(f *hdf5x.File) (*hdf5x.Group, error) {
	return f.OpenGroup(MetaGroupPath)
}

// ReadRowCount reads the current row_count attribute value.
func ReadRowCount(meta *hdf5x.Group) (uint64, error) {
	attr, err := meta.OpenAttribute(RowCountAttrName)
	if err != nil {
		return 0, errors.Trace(err)
	}
	defer attr.Close()

	var count uint64
	buf := (*[8]byte)(unsafe.Pointer(&count))[:]
	if err := attr.ReadBytes(buf, hdf5x.NativeUint64()); err != nil {
		return 0, errors.Trace(err)
	}
	return count, nil
}

// WriteRowCount writes a new row_count value to an already-open
// attribute handle.
func WriteRowCount(attr *hdf5x.Attribute, count uint64) error {
	buf := (*[8]byte)(unsafe.Pointer(&count))[:]
	return attr.WriteBytes(buf, hdf5x.NativeUint64())
}

// UpdateRowCount opens /meta's row_count attribute, writes count, and
// closes it again.
func UpdateRowCount(meta *hdf5x.Group, count uint64) error {
	attr, err := meta.OpenAttribute(RowCountAttrName)
	if err != nil {
		return errors.Trace(err)
	}
	defer attr.Close()
	return WriteRowCount(attr, count)
}
