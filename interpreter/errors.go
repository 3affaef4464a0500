// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package interpreter

import (
	"errors"
	"fmt"
)

// List evm execution errors
var (
	ErrOutOfGas                 = errors.New("out of gas")
	ErrMemoryLimit              = errors.New("memory limit exceeded")
	ErrDepth                    = errors.New("max call depth exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("contract address collision")
	ErrExecutionReverted        = errors.New("execution reverted")
	ErrInvalidJump              = errors.New("invalid jump destination")
	ErrWriteProtection          = errors.New("write protection")
	ErrReturnDataOutOfBounds    = errors.New("return data out of bounds")
	ErrStackUnderflow           = errors.New("stack underflow")
	ErrStackOverflow            = errors.New("stack overflow")
	ErrInvalidOpCode            = errors.New("invalid opcode")
	ErrNotActivated             = errors.New("opcode not activated")
	ErrPrecompileOutOfGas       = errors.New("precompile out of gas")
	ErrPrecompileFailed         = errors.New("precompile failed")
	ErrFatalExternal            = errors.New("fatal external error")
)

// rpcError is the same interface as the one defined in rpc/errors.go
// but we do not want to depend on rpc package here so we redefine it.
//
// It's used to ensure that the VMError implements the RPC error interface.
type rpcError interface {
	Error() string  // returns the message
	ErrorCode() int // returns the code
}

var _ rpcError = (*VMError)(nil)

// VMError wraps a VM error with the stable InstructionResult that caused it.
type VMError struct {
	error
	code InstructionResult
}

// VMErrorFromResult returns nil for the success family and a *VMError for
// every other terminal result.
func VMErrorFromResult(r InstructionResult) error {
	err := ResultError(r)
	if err == nil {
		return nil
	}
	return &VMError{error: err, code: r}
}

func (e *VMError) Error() string {
	return e.error.Error()
}

func (e *VMError) Unwrap() error {
	return e.error
}

func (e *VMError) ErrorCode() int {
	return int(e.code)
}

// Result returns the terminal result the error was derived from.
func (e *VMError) Result() InstructionResult {
	return e.code
}

// ResultError maps a terminal result onto one of the sentinel errors above.
func ResultError(r InstructionResult) error {
	switch r {
	case Continue, Stop, Return, SelfDestruct:
		return nil
	case Revert:
		return ErrExecutionReverted
	case CallTooDeep:
		return ErrDepth
	case OutOfFund:
		return ErrInsufficientBalance
	case OutOfGas:
		return ErrOutOfGas
	case MemoryLimitOOG:
		return ErrMemoryLimit
	case PrecompileOOG:
		return ErrPrecompileOutOfGas
	case PrecompileError:
		return ErrPrecompileFailed
	case OpcodeNotFound, InvalidFEOpcode:
		return ErrInvalidOpCode
	case InvalidJump:
		return ErrInvalidJump
	case NotActivated:
		return ErrNotActivated
	case StackUnderflow:
		return ErrStackUnderflow
	case StackOverflow:
		return ErrStackOverflow
	case OutOfOffset:
		return ErrReturnDataOutOfBounds
	case CallNotAllowedInsideStatic, StateChangeDuringStaticCall:
		return ErrWriteProtection
	case CreateCollision:
		return ErrContractAddressCollision
	case FatalExternalError:
		return ErrFatalExternal
	default:
		return fmt.Errorf("unknown instruction result %d", uint8(r))
	}
}
