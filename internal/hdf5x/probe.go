package hdf5x

/*
#include <hdf5.h>
*/
import "C"

// Probe reports whether the file at path exists and passes the HDF5
// signature check, rather than relying on a bare os.Stat.
func Probe(path string) bool {
	cpath := cstr(path)
	defer freeCstr(cpath)
	return C.H5Fis_hdf5(cpath) > 0
}
