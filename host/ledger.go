package host

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var ErrAccountNotFound = errors.New("account not found")

// Ledger is the backing account store. Every method may fail with a backend
// error.
type Ledger interface {
	Account(addr common.Address) (exists bool, err error)
	Balance(addr common.Address) (*uint256.Int, error)
	Code(addr common.Address) ([]byte, error)
	CodeHash(addr common.Address) (common.Hash, error)
	BlockHash(number uint64) (common.Hash, error)
}

// GetHashFunc returns the hash of block n.
type GetHashFunc func(n uint64) common.Hash

// StateLedger is a Ledger over a go-ethereum StateDB. Code lookups of
// accounts that do not exist fail with ErrAccountNotFound.
type StateLedger struct {
	db      *state.StateDB
	GetHash GetHashFunc
}

func NewStateLedger(db *state.StateDB) *StateLedger {
	return &StateLedger{db: db, GetHash: defaultGetHash}
}

// defaultGetHash is the block hash function used by go-ethereum's runtime
// package when none is configured.
func defaultGetHash(n uint64) common.Hash {
	return crypto.Keccak256Hash([]byte(new(big.Int).SetUint64(n).String()))
}

// NewMemoryState returns a ledger and journal sharing one empty in-memory
// StateDB. The given accounts are created empty.
func NewMemoryState(precreate ...common.Address) (*StateLedger, *StateJournal, error) {
	db, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return nil, nil, err
	}
	for _, addr := range precreate {
		db.CreateAccount(addr)
	}
	return NewStateLedger(db), NewStateJournal(db), nil
}

// DB returns the underlying state.
func (l *StateLedger) DB() *state.StateDB {
	return l.db
}

func (l *StateLedger) Account(addr common.Address) (bool, error) {
	if err := l.db.Error(); err != nil {
		return false, err
	}
	return l.db.Exist(addr), nil
}

func (l *StateLedger) Balance(addr common.Address) (*uint256.Int, error) {
	if err := l.db.Error(); err != nil {
		return nil, err
	}
	return new(uint256.Int).Set(l.db.GetBalance(addr)), nil
}

func (l *StateLedger) Code(addr common.Address) ([]byte, error) {
	if err := l.db.Error(); err != nil {
		return nil, err
	}
	if !l.db.Exist(addr) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return l.db.GetCode(addr), nil
}

func (l *StateLedger) CodeHash(addr common.Address) (common.Hash, error) {
	if err := l.db.Error(); err != nil {
		return common.Hash{}, err
	}
	return l.db.GetCodeHash(addr), nil
}

func (l *StateLedger) BlockHash(number uint64) (common.Hash, error) {
	if l.GetHash == nil {
		return common.Hash{}, nil
	}
	return l.GetHash(number), nil
}

// SetCode deploys code at addr, creating the account if needed.
func (l *StateLedger) SetCode(addr common.Address, code []byte) {
	if !l.db.Exist(addr) {
		l.db.CreateAccount(addr)
	}
	l.db.SetCode(addr, code)
}

// SetBalance funds addr, creating the account if needed.
func (l *StateLedger) SetBalance(addr common.Address, amount *uint256.Int) {
	if !l.db.Exist(addr) {
		l.db.CreateAccount(addr)
	}
	l.db.SetBalance(addr, amount, tracing.BalanceChangeUnspecified)
}
