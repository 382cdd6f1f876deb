package tdbsys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/cache"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/external"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
	"github.com/tabledb-go/tdbhdf5/internal/txn"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	configs := external.MapConfigSource{"DatabasePath": dir}
	errors := external.MapErrorStore{}
	s := NewServer(cache.NewManager(logging.NoOp{}), configs, errors, nil, logging.NoOp{})
	return s, dir
}

var u64Type = coltype.ColumnType{Domain: "builtin", Name: "uint64", Size: 8}

// TestOpenWithoutConfiguredDataSourceFailsGeneral covers opening a data
// source with no DatabasePath configuration: it fails open with
// GeneralError.
func TestOpenWithoutConfiguredDataSourceFailsGeneral(t *testing.T) {
	s := NewServer(cache.NewManager(logging.NoOp{}), external.MapConfigSource{}, nil, nil, logging.NoOp{})
	code := s.Open("ds")
	require.Equal(t, errcode.GeneralError, code)
}

// TestOpenThenOperationsSucceed covers the Open -> TblCreate2 -> InsertRow2
// -> TblRowCount happy path through the syscall surface, with Open's
// result recorded into the error store.
func TestOpenThenOperationsSucceed(t *testing.T) {
	s, _ := newTestServer(t)
	errors := external.MapErrorStore{}
	s.errors = errors

	require.Equal(t, errcode.OK, s.Open("ds"))
	require.Equal(t, errcode.OK, errors["ds"])

	require.Equal(t, errcode.OK, s.TblCreate2("ds", "people", []string{"id"}, []coltype.ColumnType{u64Type}))

	code := s.InsertRow2("ds", "people", []coltype.Value{{Type: u64Type, Bytes: []byte{1, 0, 0, 0, 0, 0, 0, 0}}}, false)
	require.Equal(t, errcode.OK, code)

	rows, code := s.TblRowCount("ds", "people")
	require.Equal(t, errcode.OK, code)
	require.Equal(t, uint64(1), rows)
}

// TestOperationOnUnopenedDataSourceFailsGeneral covers that an entry
// point (TblRowCount here) requires Open to have already succeeded for
// that data source.
func TestOperationOnUnopenedDataSourceFailsGeneral(t *testing.T) {
	s, _ := newTestServer(t)
	_, code := s.TblRowCount("ds", "people")
	require.Equal(t, errcode.GeneralError, code)
}

// TestTblCreateAutoNamesColumns covers the tbl_create entry point's
// documented auto-naming scheme for the columns it has no names for.
func TestTblCreateAutoNamesColumns(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, errcode.OK, s.Open("ds"))

	require.Equal(t, errcode.OK, s.TblCreate("ds", "wide", u64Type, 3))

	names, code := s.TblColNames("ds", "wide")
	require.Equal(t, errcode.OK, code)
	require.Equal(t, []string{"col0", "col1", "col2"}, names)
}

// TestCloseThenOperationFailsGeneral covers the close entry point: once
// closed, a data source behaves as if never opened.
func TestCloseThenOperationFailsGeneral(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, errcode.OK, s.Open("ds"))
	require.Equal(t, errcode.OK, s.Close("ds"))

	_, code := s.TblRowCount("ds", "people")
	require.Equal(t, errcode.GeneralError, code)
}

// TestTblCreate2RollsBackOnConsensusDisagreement covers the case where the
// transaction driver's consensus facility disagrees with a successful
// local create: the table is rolled back (deleted) even though TblCreate2
// reports the disagreed global code.
func TestTblCreate2RollsBackOnConsensusDisagreement(t *testing.T) {
	dir := t.TempDir()
	configs := external.MapConfigSource{"DatabasePath": dir}
	process := external.FixedProcessFacility{ID: []byte("party-1")}
	consensus := &external.PartyConsensusFacility{OtherResults: []errcode.Code{errcode.TableNotFound}}
	driver := txn.NewDriver(process, consensus, logging.NoOp{})

	s := NewServer(cache.NewManager(logging.NoOp{}), configs, nil, driver, logging.NoOp{})
	require.Equal(t, errcode.OK, s.Open("ds"))

	code := s.TblCreate2("ds", "people", []string{"id"}, []coltype.ColumnType{u64Type})
	require.Equal(t, errcode.TableNotFound, code)

	exists, existsCode := s.TblExists("ds", "people")
	require.Equal(t, errcode.OK, existsCode)
	require.False(t, exists)
}
