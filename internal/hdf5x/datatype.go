package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import "github.com/pingcap/errors"

// Datatype owns one open HDF5 datatype handle.
type Datatype struct {
	id      id
	cleanup bool // whether Close should H5Tclose id (predefined types must not be closed)
}

// NativeUint64 is the predefined 64-bit unsigned integer type, used for
// the dataset_column / row_count / u64 scalar fields of the committed
// compound types.
func NativeUint64() *Datatype { return &Datatype{id: C.H5T_NATIVE_UINT64} }

// NativeInt64 is the predefined 64-bit signed integer type.
func NativeInt64() *Datatype { return &Datatype{id: C.H5T_NATIVE_INT64} }

// NewOpaque creates an opaque datatype of the given byte size, tagged
// with the column type's "<domain>::<name>::<size>" identity.
func NewOpaque(size uint64, tag string) (*Datatype, error) {
	tid, err := checkID(C.H5Tcreate(C.H5T_OPAQUE, C.size_t(size)), "H5Tcreate(OPAQUE)")
	if err != nil {
		return nil, errors.Trace(err)
	}
	ctag := cstr(tag)
	defer freeCstr(ctag)
	if err := checkStatus(C.H5Tset_tag(tid, ctag), "H5Tset_tag"); err != nil {
		C.H5Tclose(tid)
		return nil, errors.Trace(err)
	}
	return &Datatype{id: tid, cleanup: true}, nil
}

// NewVariableLengthBytes creates a variable-length sequence-of-bytes
// datatype, used for variable-length column values.
func NewVariableLengthBytes() (*Datatype, error) {
	base := C.H5T_NATIVE_UINT8
	tid, err := checkID(C.H5Tvlen_create(base), "H5Tvlen_create")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Datatype{id: tid, cleanup: true}, nil
}

// NewVariableLengthUTF8 creates a variable-length UTF-8 string datatype,
// used for the name field of the committed compound types.
func NewVariableLengthUTF8() (*Datatype, error) {
	tid, err := checkID(C.H5Tcopy(C.H5T_C_S1), "H5Tcopy(C_S1)")
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := checkStatus(C.H5Tset_size(tid, C.H5T_VARIABLE), "H5Tset_size(VARIABLE)"); err != nil {
		C.H5Tclose(tid)
		return nil, errors.Trace(err)
	}
	if err := checkStatus(C.H5Tset_cset(tid, C.H5T_CSET_UTF8), "H5Tset_cset(UTF8)"); err != nil {
		C.H5Tclose(tid)
		return nil, errors.Trace(err)
	}
	return &Datatype{id: tid, cleanup: true}, nil
}

// NewObjectReference is the predefined object-reference type, used for
// the column index's dataset_ref field.
func NewObjectReference() *Datatype { return &Datatype{id: C.H5T_STD_REF_OBJ} }

// Size returns the datatype's element size in bytes.
func (t *Datatype) Size() uint64 {
	return uint64(C.H5Tget_size(t.id))
}

// Commit commits the (usually compound) datatype at path under loc,
// producing the named datatype HDF5 objects at /meta/dataset_type and
// /meta/column_index_type.
func (t *Datatype) Commit(loc Location, path string) error {
	cpath := cstr(path)
	defer freeCstr(cpath)
	return checkStatus(C.H5Tcommit2(loc.locID(), cpath, t.id, C.H5P_DEFAULT, C.H5P_DEFAULT, C.H5P_DEFAULT), "H5Tcommit2")
}

// OpenCommitted opens a previously committed datatype.
func OpenCommitted(loc Location, path string) (*Datatype, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)
	tid, err := checkID(C.H5Topen2(loc.locID(), cpath, C.H5P_DEFAULT), "H5Topen2")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Datatype{id: tid, cleanup: true}, nil
}

// Close releases the datatype handle, if it owns one. Predefined types
// (NativeUint64, NativeInt64, NewObjectReference) are library-owned and
// are not closed. Safe to call on a nil receiver.
func (t *Datatype) Close() error {
	if t == nil || !t.cleanup || t.id == invalidID {
		return nil
	}
	err := checkStatus(C.H5Tclose(t.id), "H5Tclose")
	t.id = invalidID
	t.cleanup = false
	return err
}
