package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import "github.com/pingcap/errors"

// Location is anything an HDF5 object (group, dataset, attribute,
// reference) can be created under: a File or a Group.
type Location interface {
	locID() id
}

// Group owns one open HDF5 group handle.
type Group struct {
	id id
}

func (g *Group) locID() id { return g.id }

func createGroup(loc id, path string) (*Group, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	gid, err := checkID(C.H5Gcreate2(loc, cpath, C.H5P_DEFAULT, C.H5P_DEFAULT, C.H5P_DEFAULT), "H5Gcreate2")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Group{id: gid}, nil
}

func openGroup(loc id, path string) (*Group, error) {
	cpath := cstr(path)
	defer freeCstr(cpath)

	gid, err := checkID(C.H5Gopen2(loc, cpath, C.H5P_DEFAULT), "H5Gopen2")
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Group{id: gid}, nil
}

// Close releases the group handle. Safe to call on a nil receiver.
func (g *Group) Close() error {
	if g == nil || g.id == invalidID {
		return nil
	}
	err := checkStatus(C.H5Gclose(g.id), "H5Gclose")
	g.id = invalidID
	return err
}
