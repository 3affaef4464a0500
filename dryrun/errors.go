package dryrun

import (
	"errors"
	"fmt"

	"github.com/QuarkChain/go-evmdry/interpreter"
)

var (
	ErrInvalidHex   = errors.New("invalid hex")
	ErrMissingInput = errors.New("missing input")

	// Kinds of *Error, usable with errors.Is.
	ErrReverted = errors.New("execution reverted")
	ErrHalted   = errors.New("execution halted")
	ErrFatal    = errors.New("fatal external error")
)

// Error is returned when the top-level frame ends with a result outside the
// success family.
type Error struct {
	Result interpreter.InstructionResult
	// Output is the revert data, empty for halts.
	Output []byte
	// Err is the fatal host error that aborted the run, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interpreter inner error: %v: %v", e.Result, e.Err)
	}
	return fmt.Sprintf("interpreter inner error: %v", e.Result)
}

// Kind classifies the result as ErrReverted, ErrFatal or ErrHalted.
func (e *Error) Kind() error {
	switch {
	case e.Result.IsRevert():
		return ErrReverted
	case e.Result == interpreter.FatalExternalError:
		return ErrFatal
	default:
		return ErrHalted
	}
}

func (e *Error) Is(target error) bool {
	return target == e.Kind()
}

func (e *Error) Unwrap() error {
	return e.Err
}
