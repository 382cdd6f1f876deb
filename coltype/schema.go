package coltype

import (
	"fmt"
	"sort"
)

// MaxColumnNameBytes is the maximum byte length of a column name.
const MaxColumnNameBytes = 64

// Column is one entry of a table's ordered schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the ordered, immutable column list of a table.
type Schema []Column

// ValidateSchema checks the name/type constraints tblCreate must enforce
// before any file is touched: non-empty, every name non-empty and
// <= MaxColumnNameBytes, names unique within the table, and no
// (domain, name) pair reused with two different sizes; (domain, name,
// size) together are the full type identity.
func ValidateSchema(s Schema) error {
	if len(s) == 0 {
		return fmt.Errorf("coltype: schema must have at least one column")
	}
	seenNames := make(map[string]bool, len(s))
	sizeByDomainName := make(map[[2]string]uint64, len(s))
	for _, c := range s {
		if len(c.Name) == 0 {
			return fmt.Errorf("coltype: column name must not be empty")
		}
		if len(c.Name) > MaxColumnNameBytes {
			return fmt.Errorf("coltype: column name %q exceeds %d bytes", c.Name, MaxColumnNameBytes)
		}
		if seenNames[c.Name] {
			return fmt.Errorf("coltype: duplicate column name %q", c.Name)
		}
		seenNames[c.Name] = true

		key := [2]string{c.Type.Domain, c.Type.Name}
		if prior, ok := sizeByDomainName[key]; ok && prior != c.Type.Size {
			return fmt.Errorf("coltype: type (%s,%s) reused with sizes %d and %d", c.Type.Domain, c.Type.Name, prior, c.Type.Size)
		}
		sizeByDomainName[key] = c.Type.Size
	}
	return nil
}

// Names returns the schema's column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Types returns the schema's column types in schema order.
func (s Schema) Types() []ColumnType {
	types := make([]ColumnType, len(s))
	for i, c := range s {
		types[i] = c.Type
	}
	return types
}

// TypeLayout is the result of deduplicating a schema's column types into
// per-type dataset groups.
type TypeLayout struct {
	// Types is the set of distinct ColumnTypes, in deterministic
	// (domain, name, size) order.
	Types []ColumnType
	// ColumnDataset maps a column's schema ordinal to the index into
	// Types of its backing dataset.
	ColumnDataset []int
	// ColumnOffset maps a column's schema ordinal to its column ("j")
	// offset within that per-type dataset.
	ColumnOffset []int
	// DatasetWidth is, per entry in Types, the number of schema columns
	// backed by that dataset (its "k").
	DatasetWidth []int
}

// Dedupe groups s's columns by ColumnType, assigning within-type column
// ordinals in input order.
func Dedupe(s Schema) TypeLayout {
	indexOf := make(map[ColumnType]int)
	var types []ColumnType
	var width []int

	layout := TypeLayout{
		ColumnDataset: make([]int, len(s)),
		ColumnOffset:  make([]int, len(s)),
	}
	for i, c := range s {
		ti, ok := indexOf[c.Type]
		if !ok {
			ti = len(types)
			indexOf[c.Type] = ti
			types = append(types, c.Type)
			width = append(width, 0)
		}
		layout.ColumnDataset[i] = ti
		layout.ColumnOffset[i] = width[ti]
		width[ti]++
	}

	order := make([]int, len(types))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return types[order[a]].Less(types[order[b]])
	})
	remap := make([]int, len(types))
	sortedTypes := make([]ColumnType, len(types))
	sortedWidth := make([]int, len(types))
	for newIdx, oldIdx := range order {
		remap[oldIdx] = newIdx
		sortedTypes[newIdx] = types[oldIdx]
		sortedWidth[newIdx] = width[oldIdx]
	}
	for i := range layout.ColumnDataset {
		layout.ColumnDataset[i] = remap[layout.ColumnDataset[i]]
	}
	layout.Types = sortedTypes
	layout.DatasetWidth = sortedWidth
	return layout
}
