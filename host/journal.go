package host

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/holiman/uint256"
)

var ErrInsufficientBalance = errors.New("insufficient balance for transfer")

// Checkpoint is an opaque journal token. It must be resolved exactly once,
// by Commit or Revert, in reverse order of creation.
type Checkpoint struct {
	id       int
	snapshot int
}

// Journal is the transactional layer over the ledger.
type Journal interface {
	Checkpoint() Checkpoint
	Commit(cp Checkpoint)
	Revert(cp Checkpoint)

	// Transfer moves value from one account to another. It fails with
	// ErrInsufficientBalance and changes nothing if from cannot pay.
	Transfer(from, to common.Address, value *uint256.Int) error
	// Touch marks addr as accessed without changing its balance.
	Touch(addr common.Address)
	// AccessAccount warms addr and reports whether it was cold.
	AccessAccount(addr common.Address) (isCold bool)
}

// StateJournal is a Journal over a go-ethereum StateDB. Checkpoints map onto
// StateDB snapshots; resolving them in the wrong order panics.
type StateJournal struct {
	db   *state.StateDB
	open []Checkpoint
	next int
}

// NewStateJournal returns a journal over db with no open checkpoints.
func NewStateJournal(db *state.StateDB) *StateJournal {
	return &StateJournal{db: db}
}

// Checkpoint snapshots the StateDB and opens a new innermost checkpoint.
func (j *StateJournal) Checkpoint() Checkpoint {
	cp := Checkpoint{id: j.next, snapshot: j.db.Snapshot()}
	j.next++
	j.open = append(j.open, cp)
	return cp
}

func (j *StateJournal) resolve(cp Checkpoint, op string) {
	if len(j.open) == 0 {
		panic(fmt.Sprintf("journal: %s of checkpoint %d with none open", op, cp.id))
	}
	if top := j.open[len(j.open)-1]; top != cp {
		panic(fmt.Sprintf("journal: %s of checkpoint %d, innermost open is %d", op, cp.id, top.id))
	}
	j.open = j.open[:len(j.open)-1]
}

// Commit closes cp and keeps its changes.
func (j *StateJournal) Commit(cp Checkpoint) {
	j.resolve(cp, "commit")
}

// Revert closes cp and rolls the StateDB back to its snapshot.
func (j *StateJournal) Revert(cp Checkpoint) {
	j.resolve(cp, "revert")
	j.db.RevertToSnapshot(cp.snapshot)
}

// Pending returns the number of unresolved checkpoints.
func (j *StateJournal) Pending() int {
	return len(j.open)
}

// Transfer moves value using core.CanTransfer and core.Transfer.
func (j *StateJournal) Transfer(from, to common.Address, value *uint256.Int) error {
	if value == nil || value.IsZero() {
		return nil
	}
	if !core.CanTransfer(j.db, from, value) {
		return fmt.Errorf("%w: %v has %v, needs %v", ErrInsufficientBalance, from, j.db.GetBalance(from), value)
	}
	core.Transfer(j.db, from, to, value)
	return nil
}

// Touch marks addr as touched in the StateDB.
func (j *StateJournal) Touch(addr common.Address) {
	// We do an AddBalance of zero here, just in order to trigger a touch.
	j.db.AddBalance(addr, new(uint256.Int), tracing.BalanceChangeTouchAccount)
}

// AccessAccount adds addr to the access list and reports whether it was
// missing.
func (j *StateJournal) AccessAccount(addr common.Address) bool {
	if j.db.AddressInAccessList(addr) {
		return false
	}
	j.db.AddAddressToAccessList(addr)
	return true
}
