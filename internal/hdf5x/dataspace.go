package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import "github.com/pingcap/errors"

// Unbounded marks a dimension as extensible without bound.
const Unbounded = ^uint64(0)

// Dataspace owns one open HDF5 dataspace handle.
type Dataspace struct {
	id id
}

// NewScalar creates a scalar dataspace, used for the row_count attribute.
func NewScalar() (*Dataspace, error) {
	sid, err := checkID(C.H5Screate(C.H5S_SCALAR), "H5Screate(SCALAR)")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Dataspace{id: sid}, nil
}

// NewSimple creates an N-dimensional dataspace with the given current
// extent and maximum extent. A maxDims entry equal to Unbounded maps to
// H5S_UNLIMITED.
func NewSimple(dims, maxDims []uint64) (*Dataspace, error) {
	cdims := dimsToC(dims)
	var cmax []C.hsize_t
	if maxDims != nil {
		cmax = make([]C.hsize_t, len(maxDims))
		for i, d := range maxDims {
			if d == Unbounded {
				cmax[i] = C.H5S_UNLIMITED
			} else {
				cmax[i] = C.hsize_t(d)
			}
		}
	}

	var cdimsPtr, cmaxPtr *C.hsize_t
	if len(cdims) > 0 {
		cdimsPtr = &cdims[0]
	}
	if len(cmax) > 0 {
		cmaxPtr = &cmax[0]
	}

	sid, err := checkID(C.H5Screate_simple(C.int(len(dims)), cdimsPtr, cmaxPtr), "H5Screate_simple")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Dataspace{id: sid}, nil
}

// Rank returns the dataspace's number of dimensions, used by readColumn
// to verify a per-type dataset's object is rank 2.
func (s *Dataspace) Rank() (int, error) {
	rank := C.H5Sget_simple_extent_ndims(s.id)
	if rank < 0 {
		return 0, errors.Errorf("hdf5x: H5Sget_simple_extent_ndims failed")
	}
	return int(rank), nil
}

// Extent returns the dataspace's current dimension sizes.
func (s *Dataspace) Extent() ([]uint64, error) {
	rank, err := s.Rank()
	if err != nil {
		return nil, errors.Trace(err)
	}
	dims := make([]C.hsize_t, rank)
	var dimsPtr *C.hsize_t
	if rank > 0 {
		dimsPtr = &dims[0]
	}
	if C.H5Sget_simple_extent_dims(s.id, dimsPtr, nil) < 0 {
		return nil, errors.Errorf("hdf5x: H5Sget_simple_extent_dims failed")
	}
	return dimsFromC(dims), nil
}

// SelectHyperslab selects the rectangular region [start, start+count) for
// a subsequent Dataset.Write/Read.
func (s *Dataspace) SelectHyperslab(start, count []uint64) error {
	cstart := dimsToC(start)
	ccount := dimsToC(count)
	var startPtr, countPtr *C.hsize_t
	if len(cstart) > 0 {
		startPtr = &cstart[0]
	}
	if len(ccount) > 0 {
		countPtr = &ccount[0]
	}
	return checkStatus(C.H5Sselect_hyperslab(s.id, C.H5S_SELECT_SET, startPtr, nil, countPtr, nil), "H5Sselect_hyperslab")
}

// Close releases the dataspace handle. Safe to call on a nil receiver.
func (s *Dataspace) Close() error {
	if s == nil || s.id == invalidID {
		return nil
	}
	err := checkStatus(C.H5Sclose(s.id), "H5Sclose")
	s.id = invalidID
	return err
}
