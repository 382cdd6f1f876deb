package conn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
)

func newTestConnection(t *testing.T) *Connection {
	t.Helper()
	return New(t.TempDir(), logging.NoOp{})
}

var u64Type = coltype.ColumnType{Domain: "builtin", Name: "uint64", Size: 8}
var strType = coltype.ColumnType{Domain: "builtin", Name: "string", Size: 0}

func u64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

// TestTblCreateAndExists covers that creating a table makes it exist,
// with the requested column names, types, and zero rows.
func TestTblCreateAndExists(t *testing.T) {
	c := newTestConnection(t)

	exists, err := c.TblExists("people")
	require.NoError(t, err)
	require.False(t, exists)

	err = c.TblCreate("people", []string{"id", "name"}, []coltype.ColumnType{u64Type, strType})
	require.NoError(t, err)

	exists, err = c.TblExists("people")
	require.NoError(t, err)
	require.True(t, exists)

	names, err := c.TblColNames("people")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name"}, names)

	types, err := c.TblColTypes("people")
	require.NoError(t, err)
	require.Equal(t, []coltype.ColumnType{u64Type, strType}, types)

	rows, err := c.TblRowCount("people")
	require.NoError(t, err)
	require.Equal(t, uint64(0), rows)

	cols, err := c.TblColCount("people")
	require.NoError(t, err)
	require.Equal(t, uint64(2), cols)
}

// TestTblCreateRejectsDuplicate covers that creating a table that
// already exists fails and leaves the original table untouched.
func TestTblCreateRejectsDuplicate(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("people", []string{"id"}, []coltype.ColumnType{u64Type}))

	err := c.TblCreate("people", []string{"id", "name"}, []coltype.ColumnType{u64Type, strType})
	require.Error(t, err)
	require.Equal(t, errcode.TableAlreadyExists, errcode.CodeOf(err))

	cols, err := c.TblColCount("people")
	require.NoError(t, err)
	require.Equal(t, uint64(1), cols)
}

// TestInsertRowNotAsColumn covers that each Value in the batch supplies
// exactly one row's worth of its column when asColumn is false.
func TestInsertRowNotAsColumn(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("people", []string{"id", "name"}, []coltype.ColumnType{u64Type, strType}))

	require.NoError(t, c.InsertRow("people", []coltype.Value{
		{Type: u64Type, Bytes: u64Bytes(1)},
		{Type: strType, Bytes: []byte("alice")},
	}, false))

	require.NoError(t, c.InsertRow("people", []coltype.Value{
		{Type: u64Type, Bytes: u64Bytes(2)},
		{Type: strType, Bytes: []byte("")},
	}, false))

	rows, err := c.TblRowCount("people")
	require.NoError(t, err)
	require.Equal(t, uint64(2), rows)

	got, err := c.ReadColumnByName("people", []string{"id", "name"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, []coltype.Value{{Type: u64Type, Bytes: append(u64Bytes(1), u64Bytes(2)...)}}, got[0])
	require.Equal(t, []coltype.Value{
		{Type: strType, Bytes: []byte("alice")},
		{Type: strType, Bytes: []byte("")},
	}, got[1])
}

// TestInsertRowAsColumn covers that a fixed-length Value packs every row
// of its column contiguously when asColumn is true.
func TestInsertRowAsColumn(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("ids", []string{"a", "b"}, []coltype.ColumnType{u64Type, u64Type}))

	colA := append(append(u64Bytes(10), u64Bytes(20)...), u64Bytes(30)...)
	colB := append(append(u64Bytes(100), u64Bytes(200)...), u64Bytes(300)...)

	require.NoError(t, c.InsertRow("ids", []coltype.Value{
		{Type: u64Type, Bytes: colA},
		{Type: u64Type, Bytes: colB},
	}, true))

	rows, err := c.TblRowCount("ids")
	require.NoError(t, err)
	require.Equal(t, uint64(3), rows)

	got, err := c.ReadColumn("ids", []uint64{0, 1})
	require.NoError(t, err)
	require.Equal(t, []coltype.Value{{Type: u64Type, Bytes: colA}}, got[0])
	require.Equal(t, []coltype.Value{{Type: u64Type, Bytes: colB}}, got[1])
}

// TestInsertRowRejectsRowCountDisagreement covers that every Value in a
// batch must agree on the row count it implies.
func TestInsertRowRejectsRowCountDisagreement(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("ids", []string{"a", "b"}, []coltype.ColumnType{u64Type, u64Type}))

	err := c.InsertRow("ids", []coltype.Value{
		{Type: u64Type, Bytes: u64Bytes(1)},
		{Type: u64Type, Bytes: append(u64Bytes(1), u64Bytes(2)...)},
	}, true)
	require.Error(t, err)
	require.Equal(t, errcode.InvalidArgument, errcode.CodeOf(err))
}

// TestInsertRowColumnCountMismatchLeavesTableUnchanged covers that a batch
// whose total supplied column count disagrees with the table's actual
// column count is rejected, and the row count and column count are left
// exactly as they were.
func TestInsertRowColumnCountMismatchLeavesTableUnchanged(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("ids", []string{"a", "b", "c"}, []coltype.ColumnType{u64Type, u64Type, strType}))
	require.NoError(t, c.InsertRow("ids", []coltype.Value{
		{Type: u64Type, Bytes: u64Bytes(1)},
		{Type: u64Type, Bytes: u64Bytes(2)},
		{Type: strType, Bytes: []byte("x")},
	}, false))

	err := c.InsertRow("ids", []coltype.Value{
		{Type: u64Type, Bytes: u64Bytes(9)},
		{Type: strType, Bytes: []byte("y")},
	}, false)
	require.Error(t, err)
	require.Equal(t, errcode.InvalidArgument, errcode.CodeOf(err))

	rows, err := c.TblRowCount("ids")
	require.NoError(t, err)
	require.Equal(t, uint64(1), rows)

	cols, err := c.TblColCount("ids")
	require.NoError(t, err)
	require.Equal(t, uint64(3), cols)
}

// TestReadColumnRejectsDuplicateOrdinals covers that a batch naming the
// same column twice is rejected rather than silently deduplicated.
func TestReadColumnRejectsDuplicateOrdinals(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("ids", []string{"a"}, []coltype.ColumnType{u64Type}))

	_, err := c.ReadColumn("ids", []uint64{0, 0})
	require.Error(t, err)
	require.Equal(t, errcode.InvalidArgument, errcode.CodeOf(err))
}

// TestTblDeleteThenNotFound covers that deleting a table closes its
// cached handle and later operations report TableNotFound.
func TestTblDeleteThenNotFound(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("people", []string{"id"}, []coltype.ColumnType{u64Type}))

	require.NoError(t, c.TblDelete("people"))

	exists, err := c.TblExists("people")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = c.TblRowCount("people")
	require.Error(t, err)
	require.Equal(t, errcode.TableNotFound, errcode.CodeOf(err))

	err = c.TblDelete("people")
	require.Error(t, err)
	require.Equal(t, errcode.TableNotFound, errcode.CodeOf(err))
}

// TestTblNamesListsCreatedTables covers the directory scan TblNames runs.
func TestTblNamesListsCreatedTables(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.TblCreate("a", []string{"x"}, []coltype.ColumnType{u64Type}))
	require.NoError(t, c.TblCreate("b", []string{"x"}, []coltype.ColumnType{u64Type}))

	names, err := c.TblNames()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, names)
}
