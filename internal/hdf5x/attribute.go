package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import (
	"unsafe"

	"github.com/pingcap/errors"
)

// Attribute owns one open HDF5 attribute handle: the row_count attribute
// on /meta, or the type attribute on a per-type dataset.
type Attribute struct {
	id id
}

func createAttribute(loc id, name string, dtype *Datatype, space *Dataspace) (*Attribute, error) {
	cname := cstr(name)
	defer freeCstr(cname)

	aid, err := checkID(C.H5Acreate2(loc, cname, dtype.id, space.id, C.H5P_DEFAULT, C.H5P_DEFAULT), "H5Acreate2")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Attribute{id: aid}, nil
}

func openAttribute(loc id, name string) (*Attribute, error) {
	cname := cstr(name)
	defer freeCstr(cname)

	aid, err := checkID(C.H5Aopen(loc, cname, C.H5P_DEFAULT), "H5Aopen")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Attribute{id: aid}, nil
}

// CreateAttribute creates a new attribute on a group (the row_count
// attribute on /meta).
func (g *Group) CreateAttribute(name string, dtype *Datatype, space *Dataspace) (*Attribute, error) {
	return createAttribute(g.id, name, dtype, space)
}

// OpenAttribute opens an existing attribute on a group.
func (g *Group) OpenAttribute(name string) (*Attribute, error) {
	return openAttribute(g.id, name)
}

// GetSpace returns a new Dataspace describing the attribute's
// dataspace. The caller owns the returned Dataspace and must Close it.
func (a *Attribute) GetSpace() (*Dataspace, error) {
	sid, err := checkID(C.H5Aget_space(a.id), "H5Aget_space")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Dataspace{id: sid}, nil
}

// WriteRaw writes from ptr, interpreted as dtype, into the attribute.
func (a *Attribute) WriteRaw(ptr unsafe.Pointer, dtype *Datatype) error {
	return checkStatus(C.H5Awrite(a.id, dtype.id, ptr), "H5Awrite")
}

// WriteBytes writes buf into the attribute, interpreted as dtype.
func (a *Attribute) WriteBytes(buf []byte, dtype *Datatype) error {
	if len(buf) == 0 {
		return nil
	}
	return a.WriteRaw(unsafe.Pointer(&buf[0]), dtype)
}

// ReadRaw reads the attribute's value into ptr, interpreted as dtype.
func (a *Attribute) ReadRaw(ptr unsafe.Pointer, dtype *Datatype) error {
	return checkStatus(C.H5Aread(a.id, dtype.id, ptr), "H5Aread")
}

// ReadBytes reads the attribute's value into len(buf) bytes, interpreted
// as dtype.
func (a *Attribute) ReadBytes(buf []byte, dtype *Datatype) error {
	if len(buf) == 0 {
		return nil
	}
	return a.ReadRaw(unsafe.Pointer(&buf[0]), dtype)
}

// Close releases the attribute handle. Safe to call on a nil receiver.
func (a *Attribute) Close() error {
	if a == nil || a.id == invalidID {
		return nil
	}
	err := checkStatus(C.H5Aclose(a.id), "H5Aclose")
	a.id = invalidID
	return err
}
