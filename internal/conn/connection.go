// Package conn owns a database directory, opens and caches one file
// handle per table, validates names, and maps table-level calls onto
// the layout package's HDF5 primitives.
package conn

import (
	"os"
	"path/filepath"

	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
	"github.com/tabledb-go/tdbhdf5/internal/layout"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
)

// tableHandle is the cached per-table state: the open file and nothing
// else. Everything else is re-derived from the layout on each
// operation.
type tableHandle struct {
	file *hdf5x.File
}

// Connection owns one database directory. Operations on a single
// Connection are single-threaded with exclusive access; Connection
// itself does not lock tables.
type Connection struct {
	dir    string
	log    logging.Logger
	tables map[string]*tableHandle
}

// New constructs a Connection over an already-resolved, canonical
// directory path. Callers normally go through internal/cache.Manager
// rather than calling this directly, so that concurrent users of the
// same path share one Connection.
func New(dir string, log logging.Logger) *Connection {
	if log == nil {
		log = logging.NoOp{}
	}
	return &Connection{dir: dir, log: log, tables: make(map[string]*tableHandle)}
}

// Dir returns the connection's canonical directory path.
func (c *Connection) Dir() string { return c.dir }

// nameToPath derives a table's file path as dir/(tbl + extension).
// Table names are rejected only when empty; other path-escape concerns
// belong to the directory-layer policy.
func (c *Connection) nameToPath(tbl string) (string, error) {
	if tbl == "" {
		return "", errcode.New(errcode.InvalidArgument, errors.New("conn: table name must not be empty"))
	}
	return filepath.Join(c.dir, tbl+layout.Extension), nil
}

// closeTable evicts tbl's cached handle from the map and then closes
// it. It panics if tbl has no cached entry: every call site only calls
// closeTable for an entry it has just seen in the map, so a miss here
// is a programmer error, not a runtime one.
func (c *Connection) closeTable(tbl string) {
	h, ok := c.tables[tbl]
	if !ok {
		panic("conn: closeTable called for a table with no cached handle: " + tbl)
	}
	delete(c.tables, tbl)
	if err := h.file.Close(); err != nil {
		c.log.Warningf("conn: closing handle for %q: %v", tbl, err)
	}
}

// Close closes every cached file handle, for use by the Connection's
// drop action.
func (c *Connection) Close() {
	for tbl := range c.tables {
		c.closeTable(tbl)
	}
}

// openTable returns tbl's cached file handle, opening and caching it on
// a miss.
func (c *Connection) openTable(tbl string) (*hdf5x.File, error) {
	if h, ok := c.tables[tbl]; ok {
		return h.file, nil
	}
	path, err := c.nameToPath(tbl)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, errcode.New(errcode.TableNotFound, errors.Errorf("conn: table %q not found", tbl))
		}
		return nil, errcode.New(errcode.IoError, errors.Trace(statErr))
	}
	f, err := hdf5x.OpenReadWrite(path)
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	c.tables[tbl] = &tableHandle{file: f}
	return f, nil
}
