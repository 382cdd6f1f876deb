package conn

import (
	"os"

	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
	"github.com/tabledb-go/tdbhdf5/internal/layout"
)

// TblCreate creates a new table file with the given column names and
// types. On any failure after the file is created, the creation
// rollback closes the handle and unlinks the file so the directory is
// left exactly as it was found.
func (c *Connection) TblCreate(tbl string, names []string, types []coltype.ColumnType) (err error) {
	if len(names) != len(types) {
		return errcode.New(errcode.InvalidArgument, errors.Errorf("conn: tblCreate: %d names but %d types", len(names), len(types)))
	}
	schema := make(coltype.Schema, len(names))
	for i := range names {
		schema[i] = coltype.Column{Name: names[i], Type: types[i]}
	}
	if verr := coltype.ValidateSchema(schema); verr != nil {
		return errcode.New(errcode.InvalidArgument, verr)
	}

	path, err := c.nameToPath(tbl)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return errcode.New(errcode.TableAlreadyExists, errors.Errorf("conn: table %q already exists", tbl))
	}

	f, err := hdf5x.CreateExclusive(path)
	if err != nil {
		// H5F_ACC_EXCL failing while a file is now present means
		// something else created it between the two checks; otherwise
		// the create itself failed.
		if _, statErr := os.Stat(path); statErr == nil {
			return errcode.New(errcode.TableAlreadyExists, errors.Trace(err))
		}
		return errcode.New(errcode.IoError, errors.Trace(err))
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if closeErr := f.Close(); closeErr != nil {
			c.log.Warningf("conn: tblCreate rollback: closing %q: %v", path, closeErr)
		}
		if rmErr := os.Remove(path); rmErr != nil {
			c.log.FullDebugf("conn: tblCreate rollback: unlink %q: %v", path, rmErr)
		}
	}()

	typeLayout := coltype.Dedupe(schema)

	meta, err := layout.CreateMeta(f)
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer meta.Close()

	typeSchema, err := layout.CommitDatasetType(meta)
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer typeSchema.Type.Close()

	refs := make([]hdf5x.Reference, len(typeLayout.Types))
	for i, t := range typeLayout.Types {
		ds, dsErr := layout.CreateTypeDataset(f, typeSchema, t, typeLayout.DatasetWidth[i])
		if dsErr != nil {
			return errcode.New(errcode.IoError, errors.Trace(dsErr))
		}
		ref, refErr := hdf5x.CreateReference(f, layout.TypeDatasetPath(t))
		ds.Close()
		if refErr != nil {
			return errcode.New(errcode.IoError, errors.Trace(refErr))
		}
		refs[i] = ref
	}

	colSchema, err := layout.CommitColumnIndexType(meta)
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer colSchema.Type.Close()

	rows := make([]hdf5x.ColumnIndexRow, len(schema))
	for i, col := range schema {
		ti := typeLayout.ColumnDataset[i]
		rows[i] = hdf5x.ColumnIndexRow{
			Name:   col.Name,
			Ref:    refs[ti],
			Column: uint64(typeLayout.ColumnOffset[i]),
		}
	}

	ciDataset, err := layout.CreateColumnIndexDataset(f, colSchema, uint64(len(schema)))
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer ciDataset.Close()

	if err := layout.WriteColumnIndex(ciDataset, colSchema, rows); err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}

	if err := f.Flush(); err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}

	committed = true
	c.tables[tbl] = &tableHandle{file: f}
	return nil
}
