package interpreter

import "fmt"

// InstructionResult classifies why a frame stopped executing. Continue is only
// used internally by the run loop and by observers that do not want to
// short-circuit a call.
type InstructionResult uint8

const (
	Continue InstructionResult = iota

	// success family
	Stop
	Return
	SelfDestruct

	// revert family
	Revert
	CallTooDeep
	OutOfFund

	// error family
	OutOfGas
	MemoryLimitOOG
	PrecompileOOG
	PrecompileError
	OpcodeNotFound
	InvalidFEOpcode
	InvalidJump
	NotActivated
	StackUnderflow
	StackOverflow
	OutOfOffset
	CallNotAllowedInsideStatic
	StateChangeDuringStaticCall
	CreateCollision
	FatalExternalError
)

var resultNames = [...]string{
	Continue:                    "Continue",
	Stop:                        "Stop",
	Return:                      "Return",
	SelfDestruct:                "SelfDestruct",
	Revert:                      "Revert",
	CallTooDeep:                 "CallTooDeep",
	OutOfFund:                   "OutOfFund",
	OutOfGas:                    "OutOfGas",
	MemoryLimitOOG:              "MemoryLimitOOG",
	PrecompileOOG:               "PrecompileOOG",
	PrecompileError:             "PrecompileError",
	OpcodeNotFound:              "OpcodeNotFound",
	InvalidFEOpcode:             "InvalidFEOpcode",
	InvalidJump:                 "InvalidJump",
	NotActivated:                "NotActivated",
	StackUnderflow:              "StackUnderflow",
	StackOverflow:               "StackOverflow",
	OutOfOffset:                 "OutOfOffset",
	CallNotAllowedInsideStatic:  "CallNotAllowedInsideStatic",
	StateChangeDuringStaticCall: "StateChangeDuringStaticCall",
	CreateCollision:             "CreateCollision",
	FatalExternalError:          "FatalExternalError",
}

func (r InstructionResult) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("InstructionResult(%d)", uint8(r))
}

// IsOk reports whether r belongs to the normative success family.
func (r InstructionResult) IsOk() bool {
	return r == Stop || r == Return || r == SelfDestruct
}

// IsRevert reports whether r is a revert: state is rolled back but the
// remaining gas is handed back to the caller.
func (r InstructionResult) IsRevert() bool {
	return r == Revert || r == CallTooDeep || r == OutOfFund
}

// IsError reports whether r is an exceptional halt that consumes all gas.
func (r InstructionResult) IsError() bool {
	return r != Continue && !r.IsOk() && !r.IsRevert()
}
