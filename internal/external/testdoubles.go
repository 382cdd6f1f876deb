package external

import "github.com/tabledb-go/tdbhdf5/internal/errcode"

// MapVectorMap is an in-memory VectorMap test double backed by plain Go
// slices, one per entry name.
type MapVectorMap struct {
	strings map[string][]string
	uint64s map[string][]uint64
	bytes   map[string][][]byte
	bools   map[string][]bool
}

func NewMapVectorMap() *MapVectorMap {
	return &MapVectorMap{
		strings: make(map[string][]string),
		uint64s: make(map[string][]uint64),
		bytes:   make(map[string][][]byte),
		bools:   make(map[string][]bool),
	}
}

func (m *MapVectorMap) SetStrings(name string, v []string) { m.strings[name] = v }
func (m *MapVectorMap) SetUint64s(name string, v []uint64) { m.uint64s[name] = v }
func (m *MapVectorMap) SetBytes(name string, v [][]byte)   { m.bytes[name] = v }
func (m *MapVectorMap) SetBools(name string, v []bool)     { m.bools[name] = v }

func (m *MapVectorMap) Strings(name string) ([]string, bool) { v, ok := m.strings[name]; return v, ok }
func (m *MapVectorMap) Uint64s(name string) ([]uint64, bool) { v, ok := m.uint64s[name]; return v, ok }
func (m *MapVectorMap) Bytes(name string) ([][]byte, bool)   { v, ok := m.bytes[name]; return v, ok }
func (m *MapVectorMap) Bools(name string) ([]bool, bool)     { v, ok := m.bools[name]; return v, ok }

// MapConfigSource is an in-memory ConfigSource test double.
type MapConfigSource map[string]string

func (m MapConfigSource) String(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// NoProcessFacility reports the process facility as unavailable,
// exercising the transaction driver's degenerate mode.
type NoProcessFacility struct{}

func (NoProcessFacility) Identifier() ([]byte, bool) { return nil, false }

// FixedProcessFacility always returns the same identifier, simulating
// cooperating parties that agree on one logical operation.
type FixedProcessFacility struct{ ID []byte }

func (f FixedProcessFacility) Identifier() ([]byte, bool) { return f.ID, true }

// NoConsensusFacility reports consensus as unavailable, exercising the
// transaction driver's degenerate mode.
type NoConsensusFacility struct{}

func (NoConsensusFacility) Propose(string, []byte, errcode.Code) (errcode.Code, bool) {
	return errcode.UnknownError, false
}

// PartyConsensusFacility simulates a fixed set of cooperating parties'
// local results, reducing them per the commit hook: this party's
// Propose call supplies its own local result, OtherResults supplies the
// other parties'.
type PartyConsensusFacility struct {
	// OtherResults are the local result codes of every party besides the
	// one calling Propose.
	OtherResults []errcode.Code
	// RolledBack is a slot for operation names whose local OK result was
	// rolled back because the global result disagreed. The driver, not
	// this facility, calls the rollback, through Operation.Rollback;
	// neither Propose nor the driver writes to this field.
	RolledBack []string
}

func (p *PartyConsensusFacility) Propose(name string, _ []byte, local errcode.Code) (errcode.Code, bool) {
	all := append([]errcode.Code{local}, p.OtherResults...)
	return reduce(all), true
}

// reduce implements the commit rule: OK if all parties agree OK, the
// unique non-OK code if they all agree on it, otherwise ConsensusError.
func reduce(results []errcode.Code) errcode.Code {
	allOK := true
	var nonOK errcode.Code
	agree := true
	for _, r := range results {
		if r != errcode.OK {
			allOK = false
			if nonOK == errcode.UnknownError {
				nonOK = r
			} else if nonOK != r {
				agree = false
			}
		}
	}
	if allOK {
		return errcode.OK
	}
	if agree {
		return nonOK
	}
	return errcode.ConsensusError
}

// MapErrorStore is an in-memory ErrorStore test double.
type MapErrorStore map[string]errcode.Code

func (m MapErrorStore) Set(dataSource string, code errcode.Code) { m[dataSource] = code }
