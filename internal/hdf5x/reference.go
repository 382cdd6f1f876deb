package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import (
	"unsafe"

	"github.com/pingcap/errors"
)

// ReferenceSize is the on-disk byte size of one object reference, the
// column-index compound's "dataset_ref" member.
const ReferenceSize = int(C.sizeof_hobj_ref_t)

// Reference is an HDF5 object reference: an opaque pointer from the
// column index to a per-type dataset.
type Reference [ReferenceSize]byte

// CreateReference builds a Reference to the object at path under loc.
func CreateReference(loc Location, path string) (Reference, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	var ref Reference
	status := C.H5Rcreate(unsafe.Pointer(&ref[0]), loc.locID(), cpath, C.H5R_OBJECT, -1)
	if status < 0 {
		return Reference{}, errors.Errorf("hdf5x: H5Rcreate(%s) failed", path)
	}
	return ref, nil
}

// Dereference opens the dataset a Reference points to, resolving it to
// the per-type dataset it was created against.
func Dereference(loc Location, ref Reference) (*Dataset, error) {
	did, err := checkID(C.H5Rdereference2(loc.locID(), C.H5P_DEFAULT, C.H5R_OBJECT, unsafe.Pointer(&ref[0])), "H5Rdereference2")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Dataset{id: did}, nil
}
