package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import (
	"unsafe"

	"github.com/pingcap/errors"
)

// Dataset owns one open HDF5 dataset handle: a per-type dataset or the
// column-index dataset.
type Dataset struct {
	id id
}

func (d *Dataset) locID() id { return d.id }

// Create creates a new dataset of the given datatype and dataspace,
// using props for its chunk shape.
func Create(loc Location, path string, dtype *Datatype, space *Dataspace, props *PropList) (*Dataset, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	did, err := checkID(C.H5Dcreate2(loc.locID(), cpath, dtype.id, space.id, C.H5P_DEFAULT, props.id, C.H5P_DEFAULT), "H5Dcreate2")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Dataset{id: did}, nil
}

// Open opens an existing dataset by path.
func Open(loc Location, path string) (*Dataset, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	did, err := checkID(C.H5Dopen2(loc.locID(), cpath, C.H5P_DEFAULT), "H5Dopen2")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Dataset{id: did}, nil
}

// GetSpace returns a new Dataspace describing the dataset's current
// extent. The caller owns the returned Dataspace and must Close it.
func (d *Dataset) GetSpace() (*Dataspace, error) {
	sid, err := checkID(C.H5Dget_space(d.id), "H5Dget_space")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Dataspace{id: sid}, nil
}

// SetExtent resizes the dataset's dimensions for a per-insert extend.
// Shrinking a dimension back down is how the insert-rollback undo list
// restores a pre-insert shape after a failed write.
func (d *Dataset) SetExtent(dims []uint64) error {
	cdims := dimsToC(dims)
	var dimsPtr *C.hsize_t
	if len(cdims) > 0 {
		dimsPtr = &cdims[0]
	}
	return checkStatus(C.H5Dset_extent(d.id, dimsPtr), "H5Dset_extent")
}

// WriteRaw writes from ptr, interpreted per memType/memSpace, into the
// region of the dataset selected by fileSpace.
func (d *Dataset) WriteRaw(ptr unsafe.Pointer, memType *Datatype, memSpace, fileSpace *Dataspace) error {
	return checkStatus(C.H5Dwrite(d.id, memType.id, memSpace.id, fileSpace.id, C.H5P_DEFAULT, ptr), "H5Dwrite")
}

// WriteBytes writes buf, a flat byte buffer matching memSpace's element
// count times memType's element size.
func (d *Dataset) WriteBytes(buf []byte, memType *Datatype, memSpace, fileSpace *Dataspace) error {
	if len(buf) == 0 {
		return nil
	}
	return d.WriteRaw(unsafe.Pointer(&buf[0]), memType, memSpace, fileSpace)
}

// ReadRaw reads into ptr, interpreted per memType/memSpace, from the
// region of the dataset selected by fileSpace.
func (d *Dataset) ReadRaw(ptr unsafe.Pointer, memType *Datatype, memSpace, fileSpace *Dataspace) error {
	return checkStatus(C.H5Dread(d.id, memType.id, memSpace.id, fileSpace.id, C.H5P_DEFAULT, ptr), "H5Dread")
}

// ReadBytes reads len(buf) bytes, matching memSpace's element count times
// memType's element size, from the region selected by fileSpace.
func (d *Dataset) ReadBytes(buf []byte, memType *Datatype, memSpace, fileSpace *Dataspace) error {
	if len(buf) == 0 {
		return nil
	}
	return d.ReadRaw(unsafe.Pointer(&buf[0]), memType, memSpace, fileSpace)
}

// CreateAttribute creates a new attribute on this dataset.
func (d *Dataset) CreateAttribute(name string, dtype *Datatype, space *Dataspace) (*Attribute, error) {
	return createAttribute(d.id, name, dtype, space)
}

// OpenAttribute opens an existing attribute on this dataset.
func (d *Dataset) OpenAttribute(name string) (*Attribute, error) {
	return openAttribute(d.id, name)
}

// Close releases the dataset handle. Safe to call on a nil receiver.
func (d *Dataset) Close() error {
	if d == nil || d.id == invalidID {
		return nil
	}
	err := checkStatus(C.H5Dclose(d.id), "H5Dclose")
	d.id = invalidID
	return err
}
