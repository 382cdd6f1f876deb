package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import "github.com/pingcap/errors"

// PropList owns one open HDF5 dataset-creation property list handle,
// used here only to carry a chunk shape.
type PropList struct {
	id id
}

// NewChunked creates a dataset-creation property list with the given
// chunk shape.
func NewChunked(chunkDims []uint64) (*PropList, error) {
	pid, err := checkID(C.H5Pcreate(C.H5P_DATASET_CREATE), "H5Pcreate(DATASET_CREATE)")
	if err != nil {
		return nil, errors.Trace(err)
	}
	cdims := dimsToC(chunkDims)
	var dimsPtr *C.hsize_t
	if len(cdims) > 0 {
		dimsPtr = &cdims[0]
	}
	if err := checkStatus(C.H5Pset_chunk(pid, C.int(len(chunkDims)), dimsPtr), "H5Pset_chunk"); err != nil {
		C.H5Pclose(pid)
		return nil, errors.Trace(err)
	}
	return &PropList{id: pid}, nil
}

// Close releases the property list handle. Safe to call on a nil receiver.
func (p *PropList) Close() error {
	if p == nil || p.id == invalidID {
		return nil
	}
	err := checkStatus(C.H5Pclose(p.id), "H5Pclose")
	p.id = invalidID
	return err
}
