// Package external declares the host-runtime collaborators the syscall
// surface treats as black boxes: the vector-map parameter bag, the
// data-source configuration loader, the process-identity and consensus
// facilities, and the per-process error store. The surface depends only
// on these interfaces; no concrete implementation beyond test doubles
// lives in this module.
package external

import "github.com/tabledb-go/tdbhdf5/internal/errcode"

// VectorMap is a typed, heterogeneous parameter bag with batch
// semantics. tbl_create2/insert_row2/read_col exchange values through
// named vector-map entries. Every entry is read in full except
// valueAsColumn, of which only the first element is consulted.
type VectorMap interface {
	Strings(name string) ([]string, bool)
	Uint64s(name string) ([]uint64, bool)
	Bytes(name string) ([][]byte, bool)
	Bools(name string) ([]bool, bool)
}

// ConfigSource resolves a data-source name to its configuration blob.
type ConfigSource interface {
	// String returns the named option's value for this data source.
	String(key string) (string, bool)
}

// ProcessFacility yields a byte-identifier that agrees across all
// cooperating parties for one logical operation. Identifier returns
// ok=false when the facility itself is unavailable, triggering the
// transaction driver's degenerate local-execution mode.
type ProcessFacility interface {
	Identifier() (id []byte, ok bool)
}

// ConsensusFacility is the cluster-wide commit hook. Propose blocks
// until a global decision is reached; local is this party's own result
// code, and the returned global code is the result of the commit
// reduction across all parties. ok=false means the facility is
// unavailable.
type ConsensusFacility interface {
	Propose(operationName string, identifier []byte, local errcode.Code) (global errcode.Code, ok bool)
}

// ErrorStore is the per-process error-code store keyed by data-source
// name.
type ErrorStore interface {
	Set(dataSource string, code errcode.Code)
}
