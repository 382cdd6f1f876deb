package txn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabledb-go/tdbhdf5/internal/errcode"
	"github.com/tabledb-go/tdbhdf5/internal/external"
)

func op(result errcode.Code, rolledBack *bool) Operation {
	return FuncOperation{
		OpName:      "op",
		ExecuteFunc: func() errcode.Code { return result },
		RollbackFunc: func() {
			if rolledBack != nil {
				*rolledBack = true
			}
		},
	}
}

// TestRunDegenerateWithoutProcessFacility covers degenerate mode: a
// missing process identifier runs the operation locally and returns
// its result untouched.
func TestRunDegenerateWithoutProcessFacility(t *testing.T) {
	d := NewDriver(external.NoProcessFacility{}, &external.PartyConsensusFacility{}, nil)
	got := d.Run(op(errcode.OK, nil))
	require.Equal(t, errcode.OK, got)
}

// TestRunDegenerateWithoutConsensusFacility covers degenerate mode when
// only the consensus facility is missing.
func TestRunDegenerateWithoutConsensusFacility(t *testing.T) {
	d := NewDriver(external.FixedProcessFacility{ID: []byte("party-1")}, nil, nil)
	got := d.Run(op(errcode.TableNotFound, nil))
	require.Equal(t, errcode.TableNotFound, got)
}

// TestRunAgreeingPartiesCommitWithoutRollback covers the case where
// every party's local result agrees: the operation is not rolled back.
func TestRunAgreeingPartiesCommitWithoutRollback(t *testing.T) {
	var rolledBack bool
	consensus := &external.PartyConsensusFacility{OtherResults: []errcode.Code{errcode.OK}}
	d := NewDriver(external.FixedProcessFacility{ID: []byte("party-1")}, consensus, nil)

	got := d.Run(op(errcode.OK, &rolledBack))
	require.Equal(t, errcode.OK, got)
	require.False(t, rolledBack)
}

// TestRunLocalOKButGlobalDisagreeRollsBack covers the commit rule: a
// local OK that the group does not agree on is rolled back and the
// disagreed global result is still returned.
func TestRunLocalOKButGlobalDisagreeRollsBack(t *testing.T) {
	var rolledBack bool
	consensus := &external.PartyConsensusFacility{OtherResults: []errcode.Code{errcode.TableNotFound}}
	d := NewDriver(external.FixedProcessFacility{ID: []byte("party-1")}, consensus, nil)

	got := d.Run(op(errcode.OK, &rolledBack))
	require.Equal(t, errcode.TableNotFound, got)
	require.True(t, rolledBack)
}

// TestRunAllPartiesFailTheSameWayDoesNotRollBack covers that Rollback
// only ever follows a local OK, never a local failure.
func TestRunAllPartiesFailTheSameWayDoesNotRollBack(t *testing.T) {
	var rolledBack bool
	consensus := &external.PartyConsensusFacility{OtherResults: []errcode.Code{errcode.TableNotFound}}
	d := NewDriver(external.FixedProcessFacility{ID: []byte("party-1")}, consensus, nil)

	got := d.Run(op(errcode.TableNotFound, &rolledBack))
	require.Equal(t, errcode.TableNotFound, got)
	require.False(t, rolledBack)
}

// TestRunDisagreeingFailuresYieldConsensusError covers that parties
// failing in different, non-OK ways reduce to ConsensusError.
func TestRunDisagreeingFailuresYieldConsensusError(t *testing.T) {
	consensus := &external.PartyConsensusFacility{OtherResults: []errcode.Code{errcode.IoError}}
	d := NewDriver(external.FixedProcessFacility{ID: []byte("party-1")}, consensus, nil)

	got := d.Run(op(errcode.TableNotFound, nil))
	require.Equal(t, errcode.ConsensusError, got)
}
