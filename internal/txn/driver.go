// Package txn wraps one table operation and its rollback into a
// consensus proposal, following the propose/execute/commit protocol
// from the proposer's side.
package txn

import (
	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/external"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
)

// Operation is one coordinated unit of work: Execute runs it locally
// and returns its result code; Rollback undoes it, and is only ever
// called after a local OK that the group did not agree on.
type Operation interface {
	Name() string
	Execute() errcode.Code
	Rollback()
}

// FuncOperation adapts three closures into an Operation, the shape the
// syscall surface builds around a single conn.Connection call.
type FuncOperation struct {
	OpName       string
	ExecuteFunc  func() errcode.Code
	RollbackFunc func()
}

func (f FuncOperation) Name() string          { return f.OpName }
func (f FuncOperation) Execute() errcode.Code { return f.ExecuteFunc() }
func (f FuncOperation) Rollback() {
	if f.RollbackFunc != nil {
		f.RollbackFunc()
	}
}

// Driver runs Operations through the host's process-identity and
// consensus facilities, falling back to local-only execution when
// either is unavailable.
type Driver struct {
	Process   external.ProcessFacility
	Consensus external.ConsensusFacility
	log       logging.Logger
}

// NewDriver constructs a Driver. Either facility may be nil, which is
// equivalent to it reporting itself unavailable.
func NewDriver(process external.ProcessFacility, consensus external.ConsensusFacility, log logging.Logger) *Driver {
	if log == nil {
		log = logging.NoOp{}
	}
	return &Driver{Process: process, Consensus: consensus, log: log}
}

// Run executes op and, when consensus is available, reconciles the
// local result against the group's agreed global result.
func (d *Driver) Run(op Operation) errcode.Code {
	var id []byte
	var idOK bool
	if d.Process != nil {
		id, idOK = d.Process.Identifier()
	}
	if !idOK || d.Consensus == nil {
		d.log.FullDebugf("txn: %s running in degenerate local mode", op.Name())
		return op.Execute()
	}

	local := op.Execute()
	global, ok := d.Consensus.Propose(op.Name(), id, local)
	if !ok {
		d.log.FullDebugf("txn: %s consensus unavailable mid-proposal, using local result", op.Name())
		return local
	}

	if local == errcode.OK && global != errcode.OK {
		d.log.Warningf("txn: %s local result OK but global result %s, rolling back", op.Name(), global)
		op.Rollback()
	}
	return global
}
