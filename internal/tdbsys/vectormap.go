package tdbsys

import (
	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/external"
)

// Vector-map entry names for the tbl_create2, insert_row2 and read_col
// entry points. Since VectorMap carries one homogeneous vector per
// name, a ColumnType's three fields travel as three parallel vectors
// rather than one "types" vector.
const (
	vmNames         = "names"
	vmTypeDomain    = "type_domain"
	vmTypeName      = "type_name"
	vmTypeSize      = "type_size"
	vmValues        = "values"
	vmValueAsColumn = "valueAsColumn"
	vmResultRows    = "column_row_counts"
)

// decodeSchema reads tbl_create2's vector map into parallel names/types
// slices.
func decodeSchema(vm external.VectorMap) ([]string, []coltype.ColumnType, error) {
	names, ok := vm.Strings(vmNames)
	if !ok {
		return nil, nil, errors.Errorf("tdbsys: tbl_create2: missing %q entry", vmNames)
	}
	domains, ok := vm.Strings(vmTypeDomain)
	if !ok || len(domains) != len(names) {
		return nil, nil, errors.Errorf("tdbsys: tbl_create2: %q must have one entry per name", vmTypeDomain)
	}
	typeNames, ok := vm.Strings(vmTypeName)
	if !ok || len(typeNames) != len(names) {
		return nil, nil, errors.Errorf("tdbsys: tbl_create2: %q must have one entry per name", vmTypeName)
	}
	sizes, ok := vm.Uint64s(vmTypeSize)
	if !ok || len(sizes) != len(names) {
		return nil, nil, errors.Errorf("tdbsys: tbl_create2: %q must have one entry per name", vmTypeSize)
	}

	types := make([]coltype.ColumnType, len(names))
	for i := range names {
		types[i] = coltype.ColumnType{Domain: domains[i], Name: typeNames[i], Size: sizes[i]}
	}
	return names, types, nil
}

// decodeValues reads insert_row2's vector map into a batch of Values and
// the batch-wide asColumn flag: only the first valueAsColumn element is
// consulted.
func decodeValues(vm external.VectorMap) ([]coltype.Value, bool, error) {
	blobs, ok := vm.Bytes(vmValues)
	if !ok {
		return nil, false, errors.Errorf("tdbsys: insert_row2: missing %q entry", vmValues)
	}
	domains, ok := vm.Strings(vmTypeDomain)
	if !ok || len(domains) != len(blobs) {
		return nil, false, errors.Errorf("tdbsys: insert_row2: %q must have one entry per value", vmTypeDomain)
	}
	typeNames, ok := vm.Strings(vmTypeName)
	if !ok || len(typeNames) != len(blobs) {
		return nil, false, errors.Errorf("tdbsys: insert_row2: %q must have one entry per value", vmTypeName)
	}
	sizes, ok := vm.Uint64s(vmTypeSize)
	if !ok || len(sizes) != len(blobs) {
		return nil, false, errors.Errorf("tdbsys: insert_row2: %q must have one entry per value", vmTypeSize)
	}

	values := make([]coltype.Value, len(blobs))
	for i, b := range blobs {
		values[i] = coltype.Value{
			Type:  coltype.ColumnType{Domain: domains[i], Name: typeNames[i], Size: sizes[i]},
			Bytes: b,
		}
	}

	asColumn := false
	if flags, ok := vm.Bools(vmValueAsColumn); ok && len(flags) > 0 {
		asColumn = flags[0]
	}
	return values, asColumn, nil
}

// encodeReadResult flattens read_col's per-column Value groups into a
// result vector map: "values" holds every Value's bytes in column order,
// and "column_row_counts" records how many Values (one per row for a
// variable-length column with rows; 1 for a fixed-length column or an
// empty table) each requested column contributed, so the host can
// regroup the flat list.
func encodeReadResult(columns [][]coltype.Value) external.VectorMap {
	vm := external.NewMapVectorMap()
	var flat [][]byte
	counts := make([]uint64, len(columns))
	for i, col := range columns {
		counts[i] = uint64(len(col))
		for _, v := range col {
			flat = append(flat, v.Bytes)
		}
	}
	vm.SetBytes(vmValues, flat)
	vm.SetUint64s(vmResultRows, counts)
	return vm
}

// TblCreate2FromVectorMap decodes and runs the tbl_create2 entry point.
func (s *Server) TblCreate2FromVectorMap(dataSource, tbl string, vm external.VectorMap) errcode.Code {
	names, types, err := decodeSchema(vm)
	if err != nil {
		return s.record(dataSource, errcode.InvalidArgument)
	}
	return s.TblCreate2(dataSource, tbl, names, types)
}

// InsertRow2FromVectorMap decodes and runs the insert_row2 entry point.
func (s *Server) InsertRow2FromVectorMap(dataSource, tbl string, vm external.VectorMap) errcode.Code {
	values, asColumn, err := decodeValues(vm)
	if err != nil {
		return s.record(dataSource, errcode.InvalidArgument)
	}
	return s.InsertRow2(dataSource, tbl, values, asColumn)
}

// ReadColumnToVectorMap decodes and runs read_col's ordinal-addressed
// form, returning its result as a vector map.
func (s *Server) ReadColumnToVectorMap(dataSource, tbl string, ordinals []uint64) (external.VectorMap, errcode.Code) {
	columns, code := s.ReadColumn(dataSource, tbl, ordinals)
	if code != errcode.OK {
		return nil, code
	}
	return encodeReadResult(columns), code
}

// ReadColumnByNameToVectorMap decodes and runs read_col's
// name-addressed form.
func (s *Server) ReadColumnByNameToVectorMap(dataSource, tbl string, names []string) (external.VectorMap, errcode.Code) {
	columns, code := s.ReadColumnByName(dataSource, tbl, names)
	if code != errcode.OK {
		return nil, code
	}
	return encodeReadResult(columns), code
}
