// Package hdf5x is a narrow cgo binding onto libhdf5, scoped to exactly
// the handle shapes the table file layout needs: files, groups,
// extensible chunked datasets, attributes, committed compound types,
// opaque and variable-length datatypes, and object references.
//
// Every exported type is an owning Go value wrapping one HDF5 identifier.
// Each has a Close method and every constructor in this package is meant
// to be used with defer immediately after a successful return, so a
// handle is released on every exit path of the calling function.
//
// No handle in this package escapes to another process; the only handle
// that outlives a single operation is the per-table file handle owned by
// internal/conn.Connection, which callers close explicitly.
package hdf5x
