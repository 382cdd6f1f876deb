// Package tdbsys is the syscall surface: one function per entry point
// exposed to the host runtime. Each decodes host-runtime arguments,
// binds a Connection method into a transaction, runs it, and records
// the resulting error code into the per-process error store keyed by
// data-source name.
package tdbsys

import (
	"fmt"
	"sync"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/cache"
	"github.com/tabledb-go/tdbhdf5/internal/conn"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/external"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
	"github.com/tabledb-go/tdbhdf5/internal/txn"
)

// dsConn is one open data source's live Connection and its cache
// release hook.
type dsConn struct {
	conn    *conn.Connection
	release func()
}

// Server holds the per-process state backing the syscall surface: the
// open data sources, the shared handle-cache manager, and the
// collaborators every entry point decodes its arguments against.
type Server struct {
	mu      sync.Mutex
	conns   map[string]*dsConn
	manager *cache.Manager
	configs external.ConfigSource
	errors  external.ErrorStore
	driver  *txn.Driver
	log     logging.Logger
}

// NewServer constructs a Server. errors and driver may be nil; a nil
// driver runs every mutating operation directly, as if the process and
// consensus facilities were both unavailable.
func NewServer(manager *cache.Manager, configs external.ConfigSource, errors external.ErrorStore, driver *txn.Driver, log logging.Logger) *Server {
	if log == nil {
		log = logging.NoOp{}
	}
	if driver == nil {
		driver = txn.NewDriver(nil, nil, log)
	}
	return &Server{
		conns:   make(map[string]*dsConn),
		manager: manager,
		configs: configs,
		errors:  errors,
		driver:  driver,
		log:     log,
	}
}

func (s *Server) record(dataSource string, code errcode.Code) errcode.Code {
	if s.errors != nil {
		s.errors.Set(dataSource, code)
	}
	return code
}

func (s *Server) connFor(dataSource string) (*conn.Connection, errcode.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dc, ok := s.conns[dataSource]
	if !ok {
		return nil, errcode.GeneralError
	}
	return dc.conn, errcode.OK
}

// Open resolves dataSource's DatabasePath configuration and acquires its
// shared Connection. Missing or unparseable configuration fails open
// with GeneralError.
func (s *Server) Open(dataSource string) errcode.Code {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, already := s.conns[dataSource]; already {
		return s.record(dataSource, errcode.OK)
	}
	if s.configs == nil {
		return s.record(dataSource, errcode.GeneralError)
	}
	path, ok := s.configs.String("DatabasePath")
	if !ok || path == "" {
		return s.record(dataSource, errcode.GeneralError)
	}
	c, release, err := s.manager.OpenConnection(path)
	if err != nil {
		return s.record(dataSource, errcode.CodeOf(err))
	}
	s.conns[dataSource] = &dsConn{conn: c, release: release}
	return s.record(dataSource, errcode.OK)
}

// Close releases dataSource's Connection reference.
func (s *Server) Close(dataSource string) errcode.Code {
	s.mu.Lock()
	defer s.mu.Unlock()

	dc, ok := s.conns[dataSource]
	if !ok {
		return s.record(dataSource, errcode.GeneralError)
	}
	delete(s.conns, dataSource)
	dc.release()
	return s.record(dataSource, errcode.OK)
}

// TableNames implements the table_names entry point.
func (s *Server) TableNames(dataSource string) ([]string, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return nil, s.record(dataSource, code)
	}
	names, err := c.TblNames()
	if err != nil {
		return nil, s.record(dataSource, errcode.CodeOf(err))
	}
	return names, s.record(dataSource, errcode.OK)
}

// TblCreate implements the tbl_create entry point: a single shared type
// applied across ncols columns, auto-named "col0".."col(ncols-1)" since
// the entry point carries no per-column names, unlike tbl_create2.
func (s *Server) TblCreate(dataSource, tbl string, t coltype.ColumnType, ncols uint64) errcode.Code {
	names := make([]string, ncols)
	types := make([]coltype.ColumnType, ncols)
	for i := range names {
		names[i] = autoColumnName(i)
		types[i] = t
	}
	return s.TblCreate2(dataSource, tbl, names, types)
}

// TblCreate2 implements the tbl_create2 entry point.
func (s *Server) TblCreate2(dataSource, tbl string, names []string, types []coltype.ColumnType) errcode.Code {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return s.record(dataSource, code)
	}
	op := txn.FuncOperation{
		OpName: "tbl_create:" + tbl,
		ExecuteFunc: func() errcode.Code {
			return errcode.CodeOf(c.TblCreate(tbl, names, types))
		},
		RollbackFunc: func() {
			_ = c.TblDelete(tbl)
		},
	}
	return s.record(dataSource, s.driver.Run(op))
}

// TblDelete implements the tbl_delete entry point.
func (s *Server) TblDelete(dataSource, tbl string) errcode.Code {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return s.record(dataSource, code)
	}
	op := txn.FuncOperation{
		OpName: "tbl_delete:" + tbl,
		ExecuteFunc: func() errcode.Code {
			return errcode.CodeOf(c.TblDelete(tbl))
		},
	}
	return s.record(dataSource, s.driver.Run(op))
}

// TblExists implements the tbl_exists entry point.
func (s *Server) TblExists(dataSource, tbl string) (bool, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return false, s.record(dataSource, code)
	}
	exists, err := c.TblExists(tbl)
	if err != nil {
		return false, s.record(dataSource, errcode.CodeOf(err))
	}
	return exists, s.record(dataSource, errcode.OK)
}

// TblColCount implements the tbl_col_count entry point.
func (s *Server) TblColCount(dataSource, tbl string) (uint64, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return 0, s.record(dataSource, code)
	}
	n, err := c.TblColCount(tbl)
	if err != nil {
		return 0, s.record(dataSource, errcode.CodeOf(err))
	}
	return n, s.record(dataSource, errcode.OK)
}

// TblRowCount implements the tbl_row_count entry point.
func (s *Server) TblRowCount(dataSource, tbl string) (uint64, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return 0, s.record(dataSource, code)
	}
	n, err := c.TblRowCount(tbl)
	if err != nil {
		return 0, s.record(dataSource, errcode.CodeOf(err))
	}
	return n, s.record(dataSource, errcode.OK)
}

// TblColNames implements the tbl_col_names entry point.
func (s *Server) TblColNames(dataSource, tbl string) ([]string, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return nil, s.record(dataSource, code)
	}
	names, err := c.TblColNames(tbl)
	if err != nil {
		return nil, s.record(dataSource, errcode.CodeOf(err))
	}
	return names, s.record(dataSource, errcode.OK)
}

// TblColTypes implements the tbl_col_types entry point.
func (s *Server) TblColTypes(dataSource, tbl string) ([]coltype.ColumnType, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return nil, s.record(dataSource, code)
	}
	types, err := c.TblColTypes(tbl)
	if err != nil {
		return nil, s.record(dataSource, errcode.CodeOf(err))
	}
	return types, s.record(dataSource, errcode.OK)
}

// InsertRow implements the insert_row entry point: one Value of a single
// shared type.
func (s *Server) InsertRow(dataSource, tbl string, t coltype.ColumnType, buffer []byte, asColumn bool) errcode.Code {
	return s.InsertRow2(dataSource, tbl, []coltype.Value{{Type: t, Bytes: buffer}}, asColumn)
}

// InsertRow2 implements the insert_row2 entry point.
func (s *Server) InsertRow2(dataSource, tbl string, values []coltype.Value, asColumn bool) errcode.Code {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return s.record(dataSource, code)
	}
	op := txn.FuncOperation{
		OpName: "insert_row:" + tbl,
		ExecuteFunc: func() errcode.Code {
			return errcode.CodeOf(c.InsertRow(tbl, values, asColumn))
		},
	}
	return s.record(dataSource, s.driver.Run(op))
}

// ReadColumn implements read_col's ordinal-addressed form.
func (s *Server) ReadColumn(dataSource, tbl string, ordinals []uint64) ([][]coltype.Value, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return nil, s.record(dataSource, code)
	}
	values, err := c.ReadColumn(tbl, ordinals)
	if err != nil {
		return nil, s.record(dataSource, errcode.CodeOf(err))
	}
	return values, s.record(dataSource, errcode.OK)
}

// ReadColumnByName implements read_col's name-addressed form.
func (s *Server) ReadColumnByName(dataSource, tbl string, names []string) ([][]coltype.Value, errcode.Code) {
	c, code := s.connFor(dataSource)
	if code != errcode.OK {
		return nil, s.record(dataSource, code)
	}
	values, err := c.ReadColumnByName(tbl, names)
	if err != nil {
		return nil, s.record(dataSource, errcode.CodeOf(err))
	}
	return values, s.record(dataSource, errcode.OK)
}

func autoColumnName(i int) string {
	return fmt.Sprintf("col%d", i)
}
