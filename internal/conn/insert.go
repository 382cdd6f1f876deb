package conn

import (
	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
	"github.com/tabledb-go/tdbhdf5/internal/layout"
)

// typeDatasetInfo is the per-type dataset state resolved once at the top
// of insertRow/readColumn from a distinct column-index reference.
type typeDatasetInfo struct {
	ds    *hdf5x.Dataset
	t     coltype.ColumnType
	width uint64
	rows  uint64
}

// resolveTypeDatasets opens every distinct per-type dataset referenced by
// rows exactly once. byTag keys by canonical type tag (for bucketing
// supplied Values on insert); byRef keys by the column-index reference
// that named it (for resolving requested columns on read). Callers must
// close every returned dataset once done with it.
func resolveTypeDatasets(f *hdf5x.File, idx *indexHandles, rows []hdf5x.ColumnIndexRow) (byTag map[string]*typeDatasetInfo, byRef map[hdf5x.Reference]*typeDatasetInfo, order []string, err error) {
	byTag = make(map[string]*typeDatasetInfo)
	byRef = make(map[hdf5x.Reference]*typeDatasetInfo)
	seen := make(map[hdf5x.Reference]bool)
	for _, row := range rows {
		if seen[row.Ref] {
			continue
		}
		seen[row.Ref] = true

		ds, t, nrows, width, derr := layout.OpenTypeDataset(f, idx.typeSchema, row.Ref)
		if derr != nil {
			for _, tag := range order {
				byTag[tag].ds.Close()
			}
			return nil, nil, nil, errors.Trace(derr)
		}
		info := &typeDatasetInfo{ds: ds, t: t, width: width, rows: nrows}
		byTag[t.Tag()] = info
		byRef[row.Ref] = info
		order = append(order, t.Tag())
	}
	return byTag, byRef, order, nil
}

func closeTypeDatasets(byTag map[string]*typeDatasetInfo) {
	for _, info := range byTag {
		info.ds.Close()
	}
}

// InsertRow appends one batch of values to tbl. asColumn selects the
// scalar interpretation: when true, a fixed-length Value's
// buffer packs every row of its column contiguously and values of the
// same type are assembled column-major before being transposed into the
// dataset's row-major layout; when false, every Value supplies exactly
// one row of its column.
func (c *Connection) InsertRow(tbl string, values []coltype.Value, asColumn bool) (err error) {
	if len(values) == 0 {
		return errcode.New(errcode.InvalidArgument, errors.New("conn: insertRow: empty batch"))
	}
	for _, v := range values {
		if verr := v.Validate(); verr != nil {
			return errcode.New(errcode.InvalidArgument, verr)
		}
	}

	f, err := c.openTable(tbl)
	if err != nil {
		return err
	}

	meta, err := layout.OpenMeta(f)
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer meta.Close()

	rowCount, err := layout.ReadRowCount(meta)
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}

	idx, err := openIndexHandles(f)
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer idx.Close()

	allRows, err := idx.AllRows()
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	colCount := uint64(len(allRows))

	byTag, _, _, err := resolveTypeDatasets(f, idx, allRows)
	if err != nil {
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	defer closeTypeDatasets(byTag)

	buckets := make(map[string][]coltype.Value)
	var bucketOrder []string
	for _, v := range values {
		tag := v.Type.Tag()
		if _, ok := byTag[tag]; !ok {
			return errcode.New(errcode.InvalidArgument, errors.Errorf("conn: insertRow: type %s not present in table %q", v.Type, tbl))
		}
		if _, seen := buckets[tag]; !seen {
			bucketOrder = append(bucketOrder, tag)
		}
		buckets[tag] = append(buckets[tag], v)
	}

	var totalSupplied uint64
	for tag, vs := range buckets {
		info := byTag[tag]
		if uint64(len(vs)) != info.width {
			return errcode.New(errcode.InvalidArgument, errors.Errorf("conn: insertRow: type %s supplied %d columns, table has %d", info.t, len(vs), info.width))
		}
		totalSupplied += uint64(len(vs))
	}
	if totalSupplied != colCount {
		return errcode.New(errcode.InvalidArgument, errors.Errorf("conn: insertRow: supplied %d columns total, table %q has %d", totalSupplied, tbl, colCount))
	}

	var insertedRows uint64
	rowsSet := false
	for _, v := range values {
		var rows uint64
		if v.Type.IsVariableLength() || !asColumn {
			rows = 1
		} else {
			rows = v.ScalarCount()
		}
		if !rowsSet {
			insertedRows = rows
			rowsSet = true
		} else if rows != insertedRows {
			return errcode.New(errcode.InvalidArgument, errors.New("conn: insertRow: values disagree on the batch's inserted row count"))
		}
	}

	type undoEntry struct {
		ds   *hdf5x.Dataset
		dims []uint64
	}
	var undo []undoEntry
	rollback := func() {
		for _, u := range undo {
			if uerr := u.ds.SetExtent(u.dims); uerr != nil {
				c.log.Warningf("conn: insertRow rollback on %q: restoring dataset extent: %v", tbl, uerr)
			}
		}
	}

	for _, tag := range bucketOrder {
		info := byTag[tag]
		vs := buckets[tag]
		k := info.width

		if err := info.ds.SetExtent([]uint64{rowCount + insertedRows, k}); err != nil {
			rollback()
			return errcode.New(errcode.IoError, errors.Trace(err))
		}
		undo = append(undo, undoEntry{ds: info.ds, dims: []uint64{rowCount, k}})

		if werr := writeTypeBucket(info, vs, rowCount, insertedRows, k); werr != nil {
			rollback()
			return errcode.New(errcode.IoError, errors.Trace(werr))
		}
	}

	if err := layout.UpdateRowCount(meta, rowCount+insertedRows); err != nil {
		rollback()
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	if err := f.Flush(); err != nil {
		if rerr := layout.UpdateRowCount(meta, rowCount); rerr != nil {
			c.log.Warningf("conn: insertRow rollback on %q: restoring row count: %v", tbl, rerr)
		}
		rollback()
		return errcode.New(errcode.IoError, errors.Trace(err))
	}
	return nil
}

// writeTypeBucket writes one per-type dataset's contribution to a batch.
func writeTypeBucket(info *typeDatasetInfo, vs []coltype.Value, rowCount, insertedRows, k uint64) error {
	fileSpace, err := info.ds.GetSpace()
	if err != nil {
		return errors.Trace(err)
	}
	defer fileSpace.Close()
	if err := fileSpace.SelectHyperslab([]uint64{rowCount, 0}, []uint64{insertedRows, k}); err != nil {
		return errors.Trace(err)
	}

	memSpace, err := hdf5x.NewSimple([]uint64{insertedRows, k}, nil)
	if err != nil {
		return errors.Trace(err)
	}
	defer memSpace.Close()

	memType, err := layout.ElementDatatype(info.t)
	if err != nil {
		return errors.Trace(err)
	}
	defer memType.Close()

	if info.t.IsVariableLength() {
		blobs := make([][]byte, len(vs))
		for i, v := range vs {
			blobs[i] = v.Bytes
		}
		return errors.Trace(info.ds.WriteVariableLength(blobs, memType, memSpace, fileSpace))
	}

	// Column-major concatenation of every column's values; Transpose is
	// the identity whenever k<=1 or insertedRows<=1, so this is safe for
	// both asColumn=true and asColumn=false batches.
	buf := make([]byte, 0, insertedRows*k*info.t.Size)
	for _, v := range vs {
		buf = append(buf, v.Bytes...)
	}
	Transpose(buf, int(k), int(insertedRows), int(info.t.Size))
	return errors.Trace(info.ds.WriteBytes(buf, memType, memSpace, fileSpace))
}
