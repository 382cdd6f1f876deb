// Package coltype holds the canonical representation of table column
// types: the (domain, name, size) triple, value buffers over that type,
// and the ordering used to deduplicate a schema into per-type datasets.
package coltype

import "fmt"

// ColumnType identifies the physical representation backing a column.
// Size zero means variable-length; size greater than zero means every
// value of this type is exactly Size bytes.
type ColumnType struct {
	Domain string
	Name   string
	Size   uint64
}

// IsVariableLength reports whether values of t are arbitrary-length blobs.
func (t ColumnType) IsVariableLength() bool {
	return t.Size == 0
}

// Tag is the canonical per-type dataset name used in the file layout:
// "<domain>::<name>::<size>".
func (t ColumnType) Tag() string {
	return fmt.Sprintf("%s::%s::%d", t.Domain, t.Name, t.Size)
}

// Equal reports whether two types collide, i.e. all three components match.
func (t ColumnType) Equal(o ColumnType) bool {
	return t.Domain == o.Domain && t.Name == o.Name && t.Size == o.Size
}

// Less orders types lexicographically over (domain, name, size), giving
// deterministic per-type dataset creation order.
func (t ColumnType) Less(o ColumnType) bool {
	if t.Domain != o.Domain {
		return t.Domain < o.Domain
	}
	if t.Name != o.Name {
		return t.Name < o.Name
	}
	return t.Size < o.Size
}

func (t ColumnType) String() string {
	return t.Tag()
}
