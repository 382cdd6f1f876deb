package hdf5x

/*
#include <hdf5.h>
#include <stdlib.h>
#include <string.h>

static hvl_t hdf5x_make_hvl(size_t len, void *p) {
	hvl_t v;
	v.len = len;
	v.p = p;
	return v;
}
*/
import "C"

import (
	"unsafe"

	"github.com/pingcap/errors"
)

// WriteVariableLength writes one variable-length blob per element of
// memSpace's selection into the region of the dataset selected by
// fileSpace, by building an array of (len, ptr) descriptors pointing
// into the supplied blobs.
//
// Each blob is copied into C-owned memory for the duration of the call;
// HDF5 reads synchronously during H5Dwrite so the memory is freed before
// this function returns.
func (d *Dataset) WriteVariableLength(blobs [][]byte, memType *Datatype, memSpace, fileSpace *Dataspace) error {
	if len(blobs) == 0 {
		return nil
	}
	entries := make([]C.hvl_t, len(blobs))
	var allocated []unsafe.Pointer
	defer func() {
		for _, p := range allocated {
			C.free(p)
		}
	}()
	for i, b := range blobs {
		if len(b) == 0 {
			entries[i] = C.hdf5x_make_hvl(0, nil)
			continue
		}
		p := C.malloc(C.size_t(len(b)))
		allocated = append(allocated, p)
		C.memcpy(p, unsafe.Pointer(&b[0]), C.size_t(len(b)))
		entries[i] = C.hdf5x_make_hvl(C.size_t(len(b)), p)
	}
	return d.WriteRaw(unsafe.Pointer(&entries[0]), memType, memSpace, fileSpace)
}

// ReadVariableLength reads count variable-length blobs from the region of
// the dataset selected by fileSpace, copying each one into a freshly
// owned Go byte slice and reclaiming the library-owned descriptors
// before returning.
func (d *Dataset) ReadVariableLength(count int, memType *Datatype, memSpace, fileSpace *Dataspace) ([][]byte, error) {
	if count == 0 {
		return nil, nil
	}
	entries := make([]C.hvl_t, count)
	if err := d.ReadRaw(unsafe.Pointer(&entries[0]), memType, memSpace, fileSpace); err != nil {
		return nil, errors.Trace(err)
	}

	out := make([][]byte, count)
	for i, e := range entries {
		if e.len == 0 || e.p == nil {
			out[i] = []byte{}
			continue
		}
		out[i] = C.GoBytes(e.p, C.int(e.len))
	}

	if status := C.H5Treclaim(memType.id, memSpace.id, C.H5P_DEFAULT, unsafe.Pointer(&entries[0])); status < 0 {
		return out, errors.Errorf("hdf5x: H5Treclaim failed")
	}
	return out, nil
}

// Reclaim frees library-allocated memory nested inside data just read
// into buf (vlen descriptors, vlen-string pointers), as described by
// dtype and space. A bare C.free on an individual pointer works only
// because the default VL allocator happens to be malloc; H5Treclaim is
// the portable release for library-owned VL members.
func Reclaim(buf unsafe.Pointer, dtype *Datatype, space *Dataspace) error {
	return checkStatus(C.H5Treclaim(dtype.id, space.id, C.H5P_DEFAULT, buf), "H5Treclaim")
}
