package interpreter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Host answers every environment dependent query of a running frame. It is
// only called from inside Interpreter.Run.
//
// Methods returning an error report conditions the interpreter cannot model
// as a result code: LoadAccount, Balance, Code and CodeHash errors halt the
// current frame with FatalExternalError, while errors from Call and
// SelfDestruct abort the whole run and are returned from Run.
type Host interface {
	Env() *Env

	LoadAccount(addr common.Address) (exists, isCold bool, err error)
	BlockHash(number uint64) (common.Hash, error)
	Balance(addr common.Address) (*uint256.Int, bool, error)
	Code(addr common.Address) ([]byte, bool, error)
	CodeHash(addr common.Address) (common.Hash, bool, error)

	SLoad(addr common.Address, key common.Hash) (common.Hash, bool)
	SStore(addr common.Address, key, value common.Hash) SStoreResult

	Log(addr common.Address, topics []common.Hash, data []byte)
	SelfDestruct(addr, target common.Address) (SelfDestructResult, error)

	Create(inputs *CreateInputs) CreateOutcome
	Call(inputs *CallInputs) (CallOutcome, error)
}

// SStoreResult reports a storage write. Original is the value at the start
// of the transaction.
type SStoreResult struct {
	Original common.Hash
	Previous common.Hash
	New      common.Hash
	IsCold   bool
}

type SelfDestructResult struct {
	HadValue            bool
	TargetExists        bool
	IsCold              bool
	PreviouslyDestroyed bool
}

// Transfer is the value moved by a call.
type Transfer struct {
	Source common.Address
	Target common.Address
	Value  *uint256.Int
}

// CallInputs describes a CALL, CALLCODE, DELEGATECALL or STATICCALL.
type CallInputs struct {
	// Contract is the address whose code is executed.
	Contract common.Address
	Transfer Transfer
	Input    []byte
	GasLimit uint64
	Context  CallContext
	IsStatic bool
}

type CallOutcome struct {
	Result InstructionResult
	Gas    Gas
	Output []byte
}

// CreateInputs describes a CREATE or CREATE2.
type CreateInputs struct {
	Caller   common.Address
	Value    *uint256.Int
	InitCode []byte
	GasLimit uint64
	Salt     *uint256.Int // nil for CREATE
}

type CreateOutcome struct {
	Result  InstructionResult
	Address *common.Address
	Gas     Gas
	Output  []byte
}
