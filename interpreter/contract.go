package interpreter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// CallScheme is the opcode family a frame was entered with.
type CallScheme uint8

const (
	SchemeCall CallScheme = iota
	SchemeCallCode
	SchemeDelegateCall
	SchemeStaticCall
)

// OpCode returns the opcode that enters a frame with this scheme.
func (s CallScheme) OpCode() vm.OpCode {
	switch s {
	case SchemeCallCode:
		return vm.CALLCODE
	case SchemeDelegateCall:
		return vm.DELEGATECALL
	case SchemeStaticCall:
		return vm.STATICCALL
	default:
		return vm.CALL
	}
}

func (s CallScheme) String() string {
	return s.OpCode().String()
}

// CallContext is the addressing context of a frame.
type CallContext struct {
	// Address is the account whose storage and balance the frame acts on.
	Address common.Address
	// Caller is what CALLER returns inside the frame.
	Caller common.Address
	// CodeAddress is the account the executed code was loaded from.
	CodeAddress   common.Address
	ApparentValue *uint256.Int
	Scheme        CallScheme
}

// DefaultCallContext returns zero addresses, zero value and a plain CALL.
func DefaultCallContext() *CallContext {
	return &CallContext{ApparentValue: new(uint256.Int), Scheme: SchemeCall}
}

// Contract is the code, input and addressing of one execution frame.
type Contract struct {
	caller  common.Address
	address common.Address
	value   *uint256.Int

	Code        []byte
	CodeHash    common.Hash
	CodeAddress common.Address
	Input       []byte

	jumpdests bitvec
}

// NewContract returns a frame over the given input and call context. The
// code is attached with SetCallCode.
func NewContract(input []byte, ctx *CallContext) *Contract {
	value := ctx.ApparentValue
	if value == nil {
		value = new(uint256.Int)
	}
	return &Contract{
		caller:      ctx.Caller,
		address:     ctx.Address,
		value:       value,
		CodeAddress: ctx.CodeAddress,
		Input:       input,
	}
}

// SetCallCode sets the code of the contract. A zero hash disables analysis
// caching for this code.
func (c *Contract) SetCallCode(hash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
	c.jumpdests = nil
}

func (c *Contract) Address() common.Address {
	return c.address
}

// Caller returns the caller of the contract. For a delegate call this is the
// caller of the delegating frame.
func (c *Contract) Caller() common.Address {
	return c.caller
}

// Value returns the apparent value of the call.
func (c *Contract) Value() *uint256.Int {
	return c.value
}

// GetOp returns the n'th element in the contract's byte array, STOP past the
// end of the code.
func (c *Contract) GetOp(n uint64) vm.OpCode {
	if n < uint64(len(c.Code)) {
		return vm.OpCode(c.Code[n])
	}
	return vm.STOP
}

func (c *Contract) validJumpdest(cache *AnalysisCache, dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	if vm.OpCode(c.Code[udest]) != vm.JUMPDEST {
		return false
	}
	if c.jumpdests == nil {
		c.jumpdests = cache.analyse(c.CodeHash, c.Code)
	}
	return c.jumpdests.isSet(udest)
}
