package conn

import (
	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
	"github.com/tabledb-go/tdbhdf5/internal/layout"
)

// ReadColumn reads the requested columns, by ordinal, in input order.
// Each returned slice corresponds to one requested ordinal: a
// fixed-length column comes back as one Value packing every row; a
// variable-length column comes back as one Value per row, since a
// single Value cannot hold more than one variable-length blob.
func (c *Connection) ReadColumn(tbl string, ordinals []uint64) ([][]coltype.Value, error) {
	if hasDuplicateUint64(ordinals) {
		return nil, errcode.New(errcode.InvalidArgument, errors.New("conn: readColumn: duplicate ordinals in batch"))
	}
	if len(ordinals) == 0 {
		return nil, nil
	}

	f, err := c.openTable(tbl)
	if err != nil {
		return nil, err
	}

	idx, err := openIndexHandles(f)
	if err != nil {
		return nil, errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer idx.Close()

	rows, err := idx.RowsAt(ordinals)
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

	out := make([][]coltype.Value, len(rows))
	for i, row := range rows {
		info := byRef[row.Ref]
		vals, rerr := readOneColumn(info, row.Column)
		if rerr != nil {
			return nil, errcode.New(errcode.IoError, errors.Trace(rerr))
		}
		out[i] = vals
	}
	return out, nil
}

// ReadColumnByName resolves names to ordinals via tblColNames and
// delegates to ReadColumn.
func (c *Connection) ReadColumnByName(tbl string, names []string) ([][]coltype.Value, error) {
	if hasDuplicateString(names) {
		return nil, errcode.New(errcode.InvalidArgument, errors.New("conn: readColumn: duplicate names in batch"))
	}
	colNames, err := c.TblColNames(tbl)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]uint64, len(colNames))
	for i, n := range colNames {
		byName[n] = uint64(i)
	}

	ordinals := make([]uint64, len(names))
	for i, n := range names {
		ord, ok := byName[n]
		if !ok {
			return nil, errcode.New(errcode.InvalidArgument, errors.Errorf("conn: readColumn: table %q has no column %q", tbl, n))
		}
		ordinals[i] = ord
	}
	return c.ReadColumn(tbl, ordinals)
}

// readOneColumn reads every row of one column out of its per-type
// dataset.
func readOneColumn(info *typeDatasetInfo, column uint64) ([]coltype.Value, error) {
	if info.rows == 0 {
		return []coltype.Value{{Type: info.t}}, nil
	}

	fileSpace, err := info.ds.GetSpace()
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer fileSpace.Close()
	if err := fileSpace.SelectHyperslab([]uint64{0, column}, []uint64{info.rows, 1}); err != nil {
		return nil, errors.Trace(err)
	}

	memSpace, err := hdf5x.NewSimple([]uint64{info.rows, 1}, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer memSpace.Close()

	memType, err := layout.ElementDatatype(info.t)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer memType.Close()

	if info.t.IsVariableLength() {
		blobs, err := info.ds.ReadVariableLength(int(info.rows), memType, memSpace, fileSpace)
		if err != nil {
			return nil, errors.Trace(err)
		}
		vals := make([]coltype.Value, len(blobs))
		for i, b := range blobs {
			vals[i] = coltype.Value{Type: info.t, Bytes: b}
		}
		return vals, nil
	}

	buf := make([]byte, info.rows*info.t.Size)
	if err := info.ds.ReadBytes(buf, memType, memSpace, fileSpace); err != nil {
		return nil, errors.Trace(err)
	}
	return []coltype.Value{{Type: info.t, Bytes: buf}}, nil
}
