package hdf5x

/*
#include <hdf5.h>
*/
import "C"

import "github.com/pingcap/errors"

// CompoundMember describes one field of a compound datatype being built.
type CompoundMember struct {
	Name   string
	Type   *Datatype
	Offset uint64
}

// CompoundBuilder assembles a compound datatype member by member,
// tracking byte offsets itself so the resulting layout always matches
// the buffer layout internal/layout uses to encode rows of that type
// (dataset_type, column_index_type).
type CompoundBuilder struct {
	members []CompoundMember
	size    uint64
}

// Add appends a member at the builder's current running offset and
// advances the offset by the member's size.
func (b *CompoundBuilder) Add(name string, t *Datatype) {
	b.members = append(b.members, CompoundMember{Name: name, Type: t, Offset: b.size})
	b.size += t.Size()
}

// Size returns the compound type's total byte size so far.
func (b *CompoundBuilder) Size() uint64 { return b.size }

// Members returns the members added so far, in add order, with their
// computed offsets.
func (b *CompoundBuilder) Members() []CompoundMember { return b.members }

// Build creates the compound HDF5 datatype described by the builder.
func (b *CompoundBuilder) Build() (*Datatype, error) {
	tid, err := checkID(C.H5Tcreate(C.H5T_COMPOUND, C.size_t(b.size)), "H5Tcreate(COMPOUND)")
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, m := range b.members {
		cname := cstr(m.Name)
		status := C.H5Tinsert(tid, cname, C.size_t(m.Offset), m.Type.id)
		freeCstr(cname)
		if status < 0 {
			C.H5Tclose(tid)
			return nil, errors.Errorf("hdf5x: H5Tinsert(%s) failed", m.Name)
		}
	}
	return &Datatype{id: tid, cleanup: true}, nil
}
