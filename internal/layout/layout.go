// Package layout builds the on-disk HDF5 structure of a table file: the
// meta group, the two committed compound types, the column-index
// dataset, and the per-type datasets, out of the scoped handle
// primitives in internal/hdf5x.
package layout

import (
	"github.com/tabledb-go/tdbhdf5/coltype"
	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
)

// TargetChunkBytes is the target chunk byte size.
const TargetChunkBytes = 4096

// Extension is the fixed table file extension.
const Extension = ".h5"

// Fixed paths within a table file.
const (
	MetaGroupPath          = "/meta"
	ColumnIndexPath         = "/meta/column_index"
	ColumnIndexTypePath     = "/meta/column_index_type"
	DatasetTypeAttrTypePath = "/meta/dataset_type"
	TypeAttrName            = "type"
	RowCountAttrName        = "row_count"
)

// ChunkShape returns the 2-D chunk shape [max(1, 4096/elemSize), 1] for
// a per-type dataset whose element byte size is elemSize.
func ChunkShape(elemSize uint64) []uint64 {
	rows := uint64(1)
	if elemSize > 0 {
		rows = TargetChunkBytes / elemSize
		if rows < 1 {
			rows = 1
		}
	}
	return []uint64{rows, 1}
}

// ColumnIndexChunkLength returns the 1-D chunk length for the column
// index dataset: 4096/(ref_size + vlen_desc_size + 8).
func ColumnIndexChunkLength() uint64 {
	perElem := uint64(hdf5x.ReferenceSize + hdf5x.PointerSize + 8)
	n := TargetChunkBytes / perElem
	if n < 1 {
		n = 1
	}
	return n
}

// TypeDatasetPath returns the per-type dataset path for t:
// "/<domain>::<name>::<size>".
func TypeDatasetPath(t coltype.ColumnType) string {
	return "/" + t.Tag()
}

// ColumnIndexEntry is the decoded form of one element of
// /meta/column_index.
type ColumnIndexEntry struct {
	Name           string
	DatasetRef     hdf5x.Reference
	DatasetColumn  uint64
}
