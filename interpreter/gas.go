package interpreter

import "github.com/ethereum/go-ethereum/core/tracing"

// Gas tracks the gas of a single frame.
type Gas struct {
	limit     uint64
	remaining uint64
	refunded  int64
}

// NewGas returns a gas counter with the whole limit available.
func NewGas(limit uint64) Gas {
	return Gas{limit: limit, remaining: limit}
}

func (g *Gas) Limit() uint64     { return g.limit }
func (g *Gas) Remaining() uint64 { return g.remaining }
func (g *Gas) Refunded() int64   { return g.refunded }

// Spent returns the gas used so far.
func (g *Gas) Spent() uint64 {
	return g.limit - g.remaining
}

// RecordCost deducts cost and reports whether enough gas was left. Nothing is
// deducted on failure.
func (g *Gas) RecordCost(cost uint64) bool {
	if g.remaining < cost {
		return false
	}
	g.remaining -= cost
	return true
}

// Use is RecordCost with a gas-change notification for tracers.
func (g *Gas) Use(cost uint64, logger *tracing.Hooks, reason tracing.GasChangeReason) (ok bool) {
	if g.remaining < cost {
		return false
	}
	if logger != nil && logger.OnGasChange != nil && reason != tracing.GasChangeIgnored {
		logger.OnGasChange(g.remaining, g.remaining-cost, reason)
	}
	g.remaining -= cost
	return true
}

// EraseCost hands gas back, typically what a sub-call did not use.
func (g *Gas) EraseCost(returned uint64) {
	g.remaining += returned
}

func (g *Gas) RecordRefund(refund int64) {
	g.refunded += refund
}

// SpendAll consumes the remaining gas, as done by exceptional halts.
func (g *Gas) SpendAll() {
	g.remaining = 0
}
