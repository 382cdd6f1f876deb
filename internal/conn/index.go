package conn

import (
	"github.com/pingcap/errors"

	"github.com/tabledb-go/tdbhdf5/internal/hdf5x"
	"github.com/tabledb-go/tdbhdf5/internal/layout"
)

// indexHandles bundles the scoped handles every read/insert/introspect
// operation needs to resolve columns through the layout: /meta, the
// committed dataset_type and column_index_type datatypes, and the
// column_index dataset itself. Acquired at the top of an operation and
// released via Close on every exit path.
type indexHandles struct {
	meta       *hdf5x.Group
	typeSchema *layout.DatasetTypeSchema
	colSchema  *layout.ColumnIndexSchema
	ciDataset  *hdf5x.Dataset
}

func openIndexHandles(f *hdf5x.File) (h *indexHandles, err error) {
	h = &indexHandles{}
	defer func() {
		if err != nil {
			h.Close()
			h = nil
		}
	}()

	h.meta, err = layout.OpenMeta(f)
	if err != nil {
		return h, errors.Trace(err)
	}
	h.typeSchema, err = layout.OpenDatasetType(h.meta)
	if err != nil {
		return h, errors.Trace(err)
	}
	h.colSchema, err = layout.OpenColumnIndexType(h.meta)
	if err != nil {
		return h, errors.Trace(err)
	}
	h.ciDataset, err = hdf5x.Open(f, layout.ColumnIndexPath)
	if err != nil {
		return h, errors.Trace(err)
	}
	return h, nil
}

// Close releases every handle it owns. Safe to call multiple times or on
// a partially-populated struct.
func (h *indexHandles) Close() {
	if h == nil {
		return
	}
	h.ciDataset.Close()
	if h.colSchema != nil {
		h.colSchema.Type.Close()
	}
	if h.typeSchema != nil {
		h.typeSchema.Type.Close()
	}
	h.meta.Close()
}

// ColCount reads the column-index dataset's length.
func (h *indexHandles) ColCount() (uint64, error) {
	space, err := h.ciDataset.GetSpace()
	if err != nil {
		return 0, errors.Trace(err)
	}
	defer space.Close()
	extent, err := space.Extent()
	if err != nil {
		return 0, errors.Trace(err)
	}
	return extent[0], nil
}

// AllRows reads every column-index entry in ordinal order.
func (h *indexHandles) AllRows() ([]hdf5x.ColumnIndexRow, error) {
	ncols, err := h.ColCount()
	if err != nil {
		return nil, errors.Trace(err)
	}
	ordinals := make([]uint64, ncols)
	for i := range ordinals {
		ordinals[i] = uint64(i)
	}
	return layout.ReadColumnIndexAt(h.ciDataset, h.colSchema, ordinals)
}

// RowsAt reads the column-index entries at ordinals, in input order.
func (h *indexHandles) RowsAt(ordinals []uint64) ([]hdf5x.ColumnIndexRow, error) {
	return layout.ReadColumnIndexAt(h.ciDataset, h.colSchema, ordinals)
}

// hasDuplicateUint64 reports whether ordinals contains any repeated
// value; duplicate ordinals/names in a readColumn batch are rejected
// with InvalidArgument rather than silently deduplicated.
func hasDuplicateUint64(ordinals []uint64) bool {
	seen := make(map[uint64]bool, len(ordinals))
	for _, o := range ordinals {
		if seen[o] {
			return true
		}
		seen[o] = true
	}
	return false
}

func hasDuplicateString(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return true
		}
		seen[n] = true
	}
	return false
}
