package conn

import (
	"os"
	"strings"

	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
	"github.com/tabledb-go/tdbhdf5/internal/layout"
)

// TblDelete unlinks tbl's file, closing any cached handle first.
func (c *Connection) TblDelete(tbl string) error {
	path, err := c.nameToPath(tbl)
	if err != nil {
		return err
	}
	if _, ok := c.tables[tbl]; ok {
		c.closeTable(tbl)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errcode.New(errcode.TableNotFound, errors.Errorf("conn: table %q not found", tbl))
		}
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	return nil
}

// TblExists reports whether tbl's file exists and passes the HDF5
// signature check.
func (c *Connection) TblExists(tbl string) (bool, error) {
	path, err := c.nameToPath(tbl)
	if err != nil {
		return false, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, errcode.New(errcode.IoError, errors.Trace(statErr))
	}
	return hdf5x.Probe(path), nil
}

// TblColCount returns the current number of columns in tbl.
func (c *Connection) TblColCount(tbl string) (uint64, error) {
	f, err := c.openTable(tbl)
	if err != nil {
		return 0, err
	}
	idx, err := openIndexHandles(f)
	if err != nil {
		return 0, errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer idx.Close()
	n, err := idx.ColCount()
	if err != nil {
		return 0, errcode.New(errcode.IoError, errors.Trace(err))
	}
	return n, nil
}

// TblRowCount returns tbl's current row_count attribute.
func (c *Connection) TblRowCount(tbl string) (uint64, error) {
	f, err := c.openTable(tbl)
	if err != nil {
		return 0, err
	}
	meta, err := layout.OpenMeta(f)
	if err != nil {
		return 0, errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer meta.Close()
	n, err := layout.ReadRowCount(meta)
	if err != nil {
		return 0, errcode.New(errcode.IoError, errors.Trace(err))
	}
	return n, nil
}

// TblColNames returns tbl's column names in their stored ordinal order.
func (c *Connection) TblColNames(tbl string) ([]string, error) {
	f, err := c.openTable(tbl)
	if err != nil {
		return nil, err
	}
	idx, err := openIndexHandles(f)
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer idx.Close()
	rows, err := idx.AllRows()
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

// TblColTypes returns tbl's column types in their stored ordinal order.
func (c *Connection) TblColTypes(tbl string) ([]coltype.ColumnType, error) {
	f, err := c.openTable(tbl)
	if err != nil {
		return nil, err
	}
	idx, err := openIndexHandles(f)
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer idx.Close()
	rows, err := idx.AllRows()
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	_, byRef, _, err := resolveTypeDatasets(f, idx, rows)
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer func() {
		for _, info := range byRef {
			info.ds.Close()
		}
	}()

	types := make([]coltype.ColumnType, len(rows))
	for i, r := range rows {
		types[i] = byRef[r.Ref].t
	}
	return types, nil
}

// TblNames lists every table in the connection's directory, by scanning
// for files with the configured extension.
func (c *Connection) TblNames() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n := e.Name(); strings.HasSuffix(n, layout.Extension) {
			names = append(names, strings.TrimSuffix(n, layout.Extension))
		}
	}
	return names, nil
}
