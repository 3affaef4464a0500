package host

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/log"

	"github.com/QuarkChain/go-evmdry/interpreter"
)

// Observer is notified around every nested call. CallStart may short-circuit
// the call by returning an outcome whose result is not Continue. CallEnd may
// replace the outcome handed back to the calling frame.
type Observer interface {
	CallStart(depth int, inputs *interpreter.CallInputs) interpreter.CallOutcome
	CallEnd(depth int, inputs *interpreter.CallInputs, outcome interpreter.CallOutcome) interpreter.CallOutcome
}

// NoOpObserver lets every call through unchanged.
type NoOpObserver struct{}

func (NoOpObserver) CallStart(int, *interpreter.CallInputs) interpreter.CallOutcome {
	return interpreter.CallOutcome{Result: interpreter.Continue}
}

func (NoOpObserver) CallEnd(_ int, _ *interpreter.CallInputs, outcome interpreter.CallOutcome) interpreter.CallOutcome {
	return outcome
}

// HooksObserver forwards calls to go-ethereum tracing hooks.
type HooksObserver struct {
	Hooks *tracing.Hooks
}

func (o *HooksObserver) CallStart(depth int, inputs *interpreter.CallInputs) interpreter.CallOutcome {
	if o.Hooks != nil && o.Hooks.OnEnter != nil {
		bigVal := new(big.Int)
		if value := inputs.Transfer.Value; value != nil {
			bigVal = value.ToBig()
		}
		o.Hooks.OnEnter(depth, byte(inputs.Context.Scheme.OpCode()), inputs.Context.Caller, inputs.Context.Address, inputs.Input, inputs.GasLimit, bigVal)
	}
	return interpreter.CallOutcome{Result: interpreter.Continue}
}

func (o *HooksObserver) CallEnd(depth int, inputs *interpreter.CallInputs, outcome interpreter.CallOutcome) interpreter.CallOutcome {
	if o.Hooks != nil && o.Hooks.OnExit != nil {
		o.Hooks.OnExit(depth, outcome.Output, outcome.Gas.Spent(), interpreter.VMErrorFromResult(outcome.Result), !outcome.Result.IsOk())
	}
	return outcome
}

// LogObserver writes every call to the default logger at debug level.
type LogObserver struct{}

func (LogObserver) CallStart(depth int, inputs *interpreter.CallInputs) interpreter.CallOutcome {
	log.Debug("Call start", "depth", depth, "scheme", inputs.Context.Scheme, "from", inputs.Context.Caller,
		"to", inputs.Contract, "gas", inputs.GasLimit, "input", len(inputs.Input), "static", inputs.IsStatic)
	return interpreter.CallOutcome{Result: interpreter.Continue}
}

func (LogObserver) CallEnd(depth int, inputs *interpreter.CallInputs, outcome interpreter.CallOutcome) interpreter.CallOutcome {
	log.Debug("Call end", "depth", depth, "to", inputs.Contract, "result", outcome.Result,
		"gasUsed", outcome.Gas.Spent(), "output", len(outcome.Output))
	return outcome
}
