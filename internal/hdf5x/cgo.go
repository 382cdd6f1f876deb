package hdf5x

/*
#cgo LDFLAGS: -lhdf5
#include <hdf5.h>
#include <string.h>
*/
import "C"

import (
	"unsafe"

	"github.com/pingcap/errors"
)

// id is the raw HDF5 identifier type (hid_t), kept unexported so every
// acquisition of one is forced through this package's owning wrapper
// types.
type id = C.hid_t

const invalidID id = -1

// PointerSize is the in-memory size of a variable-length string
// descriptor (a bare char* on the platforms libhdf5 targets), used by
// internal/layout's column-index chunk-length formula.
const PointerSize = int(unsafe.Sizeof(uintptr(0)))

// checkID turns an HDF5 "negative id on failure" return into a Go error,
// checked synchronously after each call rather than through a registered
// global error handler.
func checkID(got id, op string) (id, error) {
	if got < 0 {
		return invalidID, errors.Errorf("hdf5x: %s failed", op)
	}
	return got, nil
}

func checkStatus(status C.herr_t, op string) error {
	if status < 0 {
		return errors.Errorf("hdf5x: %s failed", op)
	}
	return nil
}

// dimsToC converts a []uint64 to a C hsize_t array. The returned slice's
// backing array is pinned for the duration of the call only; callers must
// not retain it.
func dimsToC(dims []uint64) []C.hsize_t {
	out := make([]C.hsize_t, len(dims))
	for i, d := range dims {
		out[i] = C.hsize_t(d)
	}
	return out
}

func dimsFromC(dims []C.hsize_t) []uint64 {
	out := make([]uint64, len(dims))
	for i, d := range dims {
		out[i] = uint64(d)
	}
	return out
}

// BytesPointer returns an unsafe.Pointer to buf's backing array, for
// passing a Go-read buffer into a Decode* helper that walks pointer-sized
// fields written into it by H5Aread/H5Dread.
func BytesPointer(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

func cstr(s string) *C.char {
	return C.CString(s)
}

func freeCstr(p *C.char) {
	C.free(unsafe.Pointer(p))
}
