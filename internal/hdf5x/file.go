package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import "github.com/pingcap/errors"

// File owns one open HDF5 file handle.
type File struct {
	id id
}

// CreateExclusive creates a new file, failing if one already exists at
// path.
func CreateExclusive(path string) (*File, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	fid, err := checkID(C.H5Fcreate(cpath, C.H5F_ACC_EXCL, C.H5P_DEFAULT, C.H5P_DEFAULT), "H5Fcreate")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &File{id: fid}, nil
}

// OpenReadWrite opens an existing file for read/write access.
func OpenReadWrite(path string) (*File, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	fid, err := checkID(C.H5Fopen(cpath, C.H5F_ACC_RDWR, C.H5P_DEFAULT), "H5Fopen")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &File{id: fid}, nil
}

// OpenReadOnly opens an existing file for read-only access.
func OpenReadOnly(path string) (*File, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	fid, err := checkID(C.H5Fopen(cpath, C.H5F_ACC_RDONLY, C.H5P_DEFAULT), "H5Fopen")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &File{id: fid}, nil
}

// Flush forces all buffered data for this file to storage.
func (f *File) Flush() error {
	return checkStatus(C.H5Fflush(f.id, C.H5F_SCOPE_LOCAL), "H5Fflush")
}

// Close releases the file handle. Safe to call on a nil receiver.
func (f *File) Close() error {
	if f == nil || f.id == invalidID {
		return nil
	}
	err := checkStatus(C.H5Fclose(f.id), "H5Fclose")
	f.id = invalidID
	return err
}

// CreateGroup creates a new group at path within the file.
func (f *File) CreateGroup(path string) (*Group, error) {
	return createGroup(f.id, path)
}

// OpenGroup opens an existing group at path within the file.
func (f *File) OpenGroup(path string) (*Group, error) {
	return openGroup(f.id, path)
}

// locID exposes the file's raw location identifier to sibling hdf5x
// types (dataset/attribute/reference creation all take a "loc" id).
func (f *File) locID() id { return f.id }
