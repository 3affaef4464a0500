package host

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/QuarkChain/go-evmdry/interpreter"
)

// frameCheckpoint covers everything a nested call may change: the journal,
// the storage overlay and the emitted logs.
type frameCheckpoint struct {
	journal Checkpoint
	storage int
	logs    int
}

func (h *Host) checkpoint() frameCheckpoint {
	return frameCheckpoint{
		journal: h.journal.Checkpoint(),
		storage: h.overlay.mark(),
		logs:    len(h.logs),
	}
}

func (h *Host) commit(cp frameCheckpoint) {
	h.journal.Commit(cp.journal)
}

func (h *Host) revert(cp frameCheckpoint) {
	h.journal.Revert(cp.journal)
	h.overlay.revertTo(cp.storage)
	h.logs = h.logs[:cp.logs]
}

// Call executes a nested call. Every checkpoint taken here is resolved
// before Call returns. Recoverable failures are reported as the outcome's
// result; a non-nil error is fatal to the whole run.
func (h *Host) Call(inputs *interpreter.CallInputs) (interpreter.CallOutcome, error) {
	h.metrics.calls.Inc(1)
	depth := h.depth + 1

	if h.cfg.Inspect {
		if outcome := h.observer.CallStart(depth, inputs); outcome.Result != interpreter.Continue {
			log.Trace("Call short-circuited", "depth", depth, "to", inputs.Contract, "result", outcome.Result)
			return outcome, nil
		}
	}
	outcome, err := h.call(depth, inputs)
	if err != nil {
		return outcome, err
	}
	if h.cfg.Inspect {
		outcome = h.observer.CallEnd(depth, inputs, outcome)
	}
	return outcome, nil
}

func (h *Host) call(depth int, inputs *interpreter.CallInputs) (interpreter.CallOutcome, error) {
	outcome := interpreter.CallOutcome{Gas: interpreter.NewGas(inputs.GasLimit)}

	code, _, err := h.Code(inputs.Contract)
	if err != nil {
		h.metrics.fatal.Inc(1)
		log.Debug("Failed to resolve callee code", "address", inputs.Contract, "err", err)
		outcome.Result = interpreter.FatalExternalError
		return outcome, nil
	}
	if depth > h.cfg.MaxCallDepth {
		h.metrics.tooDeep.Inc(1)
		log.Trace("Call too deep", "depth", depth, "limit", h.cfg.MaxCallDepth)
		outcome.Result = interpreter.CallTooDeep
		return outcome, nil
	}

	cp := h.checkpoint()
	transfer := inputs.Transfer
	if transfer.Value == nil || transfer.Value.IsZero() {
		h.journal.Touch(transfer.Target)
	}
	if err := h.journal.Transfer(transfer.Source, transfer.Target, transfer.Value); err != nil {
		h.revert(cp)
		log.Trace("Call transfer failed", "from", transfer.Source, "to", transfer.Target, "err", err)
		outcome.Result = interpreter.OutOfFund
		return outcome, nil
	}

	if f, ok := h.precompiles.Get(inputs.Contract); ok {
		h.metrics.precompile.Inc(1)
		outcome = runPrecompile(f, inputs.Input, inputs.GasLimit)
		h.resolve(cp, outcome.Result)
		log.Trace("Precompile call", "depth", depth, "address", inputs.Contract, "result", outcome.Result)
		return outcome, nil
	}

	contract := interpreter.NewContract(inputs.Input, &inputs.Context)
	contract.SetCallCode(crypto.Keccak256Hash(code), code)
	in := h.build(contract, inputs.GasLimit, inputs.IsStatic)

	h.depth = depth
	h.metrics.enter(depth)
	res, err := in.Run(h)
	h.depth = depth - 1

	if err != nil {
		h.revert(cp)
		log.Warn("Fatal error in nested call", "depth", depth, "address", inputs.Contract, "err", err)
		outcome.Result = interpreter.FatalExternalError
		outcome.Gas.SpendAll()
		return outcome, err
	}
	outcome = interpreter.CallOutcome{
		Result: res,
		Gas:    *in.Gas(),
		Output: in.ReturnValue(),
	}
	h.resolve(cp, res)
	log.Trace("Call", "depth", depth, "scheme", inputs.Context.Scheme, "to", inputs.Contract, "result", res, "gasUsed", outcome.Gas.Spent())
	return outcome, nil
}

// resolve commits cp when res is a success and reverts it otherwise.
func (h *Host) resolve(cp frameCheckpoint, res interpreter.InstructionResult) {
	if res.IsOk() {
		h.commit(cp)
		return
	}
	h.metrics.reverted.Inc(1)
	h.revert(cp)
}
