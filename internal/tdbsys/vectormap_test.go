package tdbsys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/cache"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/external"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
)

func schemaVectorMap(names []string, types []coltype.ColumnType) external.VectorMap {
	vm := external.NewMapVectorMap()
	vm.SetStrings(vmNames, names)
	domains := make([]string, len(types))
	typeNames := make([]string, len(types))
	sizes := make([]uint64, len(types))
	for i, t := range types {
		domains[i], typeNames[i], sizes[i] = t.Domain, t.Name, t.Size
	}
	vm.SetStrings(vmTypeDomain, domains)
	vm.SetStrings(vmTypeName, typeNames)
	vm.SetUint64s(vmTypeSize, sizes)
	return vm
}

func valuesVectorMap(values []coltype.Value, asColumn bool) external.VectorMap {
	vm := external.NewMapVectorMap()
	blobs := make([][]byte, len(values))
	domains := make([]string, len(values))
	typeNames := make([]string, len(values))
	sizes := make([]uint64, len(values))
	for i, v := range values {
		blobs[i] = v.Bytes
		domains[i], typeNames[i], sizes[i] = v.Type.Domain, v.Type.Name, v.Type.Size
	}
	vm.SetBytes(vmValues, blobs)
	vm.SetStrings(vmTypeDomain, domains)
	vm.SetStrings(vmTypeName, typeNames)
	vm.SetUint64s(vmTypeSize, sizes)
	vm.SetBools(vmValueAsColumn, []bool{asColumn})
	return vm
}

// TestTblCreate2FromVectorMapRoundTrips covers the parallel-vector wire
// convention decodeSchema/TblCreate2FromVectorMap implement for a
// ColumnType's three fields.
func TestTblCreate2FromVectorMapRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := NewServer(cache.NewManager(logging.NoOp{}), external.MapConfigSource{"DatabasePath": dir}, nil, nil, logging.NoOp{})
	require.Equal(t, errcode.OK, s.Open("ds"))

	vm := schemaVectorMap([]string{"id", "name"}, []coltype.ColumnType{u64Type, {Domain: "builtin", Name: "string", Size: 0}})
	code := s.TblCreate2FromVectorMap("ds", "people", vm)
	require.Equal(t, errcode.OK, code)

	names, code := s.TblColNames("ds", "people")
	require.Equal(t, errcode.OK, code)
	require.Equal(t, []string{"id", "name"}, names)
}

// TestInsertRow2FromVectorMapThenReadColumnToVectorMap covers the full
// vector-map round trip for insert_row2 and read_col.
func TestInsertRow2FromVectorMapThenReadColumnToVectorMap(t *testing.T) {
	dir := t.TempDir()
	s := NewServer(cache.NewManager(logging.NoOp{}), external.MapConfigSource{"DatabasePath": dir}, nil, nil, logging.NoOp{})
	require.Equal(t, errcode.OK, s.Open("ds"))
	require.Equal(t, errcode.OK, s.TblCreate2("ds", "ids", []string{"a"}, []coltype.ColumnType{u64Type}))

	insertVM := valuesVectorMap([]coltype.Value{{Type: u64Type, Bytes: []byte{9, 0, 0, 0, 0, 0, 0, 0}}}, false)
	require.Equal(t, errcode.OK, s.InsertRow2FromVectorMap("ds", "ids", insertVM))

	resultVM, code := s.ReadColumnToVectorMap("ds", "ids", []uint64{0})
	require.Equal(t, errcode.OK, code)

	values, ok := resultVM.Bytes(vmValues)
	require.True(t, ok)
	require.Equal(t, [][]byte{{9, 0, 0, 0, 0, 0, 0, 0}}, values)

	counts, ok := resultVM.Uint64s(vmResultRows)
	require.True(t, ok)
	require.Equal(t, []uint64{1}, counts)
}

// TestDecodeSchemaRejectsMismatchedVectorLengths covers decodeSchema's
// defensive length checks on the parallel type vectors.
func TestDecodeSchemaRejectsMismatchedVectorLengths(t *testing.T) {
	dir := t.TempDir()
	s := NewServer(cache.NewManager(logging.NoOp{}), external.MapConfigSource{"DatabasePath": dir}, nil, nil, logging.NoOp{})
	require.Equal(t, errcode.OK, s.Open("ds"))

	vm := external.NewMapVectorMap()
	vm.SetStrings(vmNames, []string{"a", "b"})
	vm.SetStrings(vmTypeDomain, []string{"builtin"})
	vm.SetStrings(vmTypeName, []string{"uint64"})
	vm.SetUint64s(vmTypeSize, []uint64{8})

	code := s.TblCreate2FromVectorMap("ds", "people", vm)
	require.Equal(t, errcode.InvalidArgument, code)
}
