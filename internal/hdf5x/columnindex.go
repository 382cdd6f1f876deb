package hdf5x

/*
#include <hdf5.h>
#include <stdlib.h>
#include <string.h>
*/
import "C"

import "unsafe"

func offsetPtr(base unsafe.Pointer, off uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(base) + uintptr(off))
}

// ColumnIndexLayout records the byte offsets of the column_index_type
// compound's three members, as built by CompoundBuilder: { name,
// dataset_ref, dataset_column }.
type ColumnIndexLayout struct {
	RowSize      uint64
	NameOffset   uint64
	RefOffset    uint64
	ColumnOffset uint64
}

// ColumnIndexRow is one decoded /meta/column_index element.
type ColumnIndexRow struct {
	Name   string
	Ref    Reference
	Column uint64
}

// EncodeColumnIndexRows lays rows out into a freshly C-allocated buffer
// matching layout, suitable for Dataset.WriteRaw. The returned free func
// must be called once the write has completed; it releases both the row
// buffer and the per-row name strings it allocated.
func EncodeColumnIndexRows(rows []ColumnIndexRow, layout ColumnIndexLayout) (unsafe.Pointer, func()) {
	if len(rows) == 0 {
		return nil, func() {}
	}
	buf := C.malloc(C.size_t(layout.RowSize) * C.size_t(len(rows)))
	var cstrs []*C.char
	for i, r := range rows {
		base := offsetPtr(buf, layout.RowSize*uint64(i))
		cname := C.CString(r.Name)
		cstrs = append(cstrs, cname)
		*(**C.char)(offsetPtr(base, layout.NameOffset)) = cname
		C.memcpy(offsetPtr(base, layout.RefOffset), unsafe.Pointer(&r.Ref[0]), C.size_t(ReferenceSize))
		*(*C.uint64_t)(offsetPtr(base, layout.ColumnOffset)) = C.uint64_t(r.Column)
	}
	free := func() {
		for _, p := range cstrs {
			C.free(unsafe.Pointer(p))
		}
		C.free(buf)
	}
	return buf, free
}

// DecodeColumnIndexRows reads count rows out of a buffer produced by a
// matching Dataset.ReadRaw call, copying each name into Go-owned memory
// and reclaiming the library-owned string pointers via dtype/space
// (the datatype and dataspace the read used).
func DecodeColumnIndexRows(buf unsafe.Pointer, count int, layout ColumnIndexLayout, dtype *Datatype, space *Dataspace) ([]ColumnIndexRow, error) {
	rows := make([]ColumnIndexRow, count)
	for i := 0; i < count; i++ {
		base := offsetPtr(buf, layout.RowSize*uint64(i))
		cname := *(**C.char)(offsetPtr(base, layout.NameOffset))
		rows[i].Name = C.GoString(cname)

		var ref Reference
		C.memcpy(unsafe.Pointer(&ref[0]), offsetPtr(base, layout.RefOffset), C.size_t(ReferenceSize))
		rows[i].Ref = ref
		rows[i].Column = uint64(*(*C.uint64_t)(offsetPtr(base, layout.ColumnOffset)))
	}
	if err := Reclaim(buf, dtype, space); err != nil {
		return rows, err
	}
	return rows, nil
}

// AllocColumnIndexBuffer allocates a zeroed buffer sized for count rows
// of layout, for use as the destination of a Dataset.ReadRaw call. The
// buffer's string-pointer members are filled in by libhdf5 during the
// read, not by this allocator.
func AllocColumnIndexBuffer(count int, layout ColumnIndexLayout) (unsafe.Pointer, func()) {
	buf := C.calloc(C.size_t(count), C.size_t(layout.RowSize))
	return buf, func() { C.free(buf) }
}

// TypeAttrLayout records the byte offsets of the dataset_type compound's
// three members: { domain, name, size }.
type TypeAttrLayout struct {
	RowSize      uint64
	DomainOffset uint64
	NameOffset   uint64
	SizeOffset   uint64
}

// EncodeTypeAttr allocates and fills one dataset_type row for the
// (domain, name, size) triple written to every per-type dataset's `type`
// attribute.
func EncodeTypeAttr(domain, name string, size uint64, layout TypeAttrLayout) (unsafe.Pointer, func()) {
	buf := C.malloc(C.size_t(layout.RowSize))
	cdomain := C.CString(domain)
	cname := C.CString(name)
	*(**C.char)(offsetPtr(buf, layout.DomainOffset)) = cdomain
	*(**C.char)(offsetPtr(buf, layout.NameOffset)) = cname
	*(*C.uint64_t)(offsetPtr(buf, layout.SizeOffset)) = C.uint64_t(size)
	free := func() {
		C.free(unsafe.Pointer(cdomain))
		C.free(unsafe.Pointer(cname))
		C.free(buf)
	}
	return buf, free
}

// DecodeTypeAttr reads a dataset_type row back, copying both strings
// into Go-owned memory and reclaiming the library-owned pointers via
// dtype/space (the datatype and dataspace the read used).
func DecodeTypeAttr(buf unsafe.Pointer, layout TypeAttrLayout, dtype *Datatype, space *Dataspace) (domain, name string, size uint64, err error) {
	cdomain := *(**C.char)(offsetPtr(buf, layout.DomainOffset))
	cname := *(**C.char)(offsetPtr(buf, layout.NameOffset))
	domain = C.GoString(cdomain)
	name = C.GoString(cname)
	size = uint64(*(*C.uint64_t)(offsetPtr(buf, layout.SizeOffset)))
	if rerr := Reclaim(buf, dtype, space); rerr != nil {
		return domain, name, size, rerr
	}
	return domain, name, size, nil
}
