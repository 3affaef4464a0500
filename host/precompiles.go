package host

import (
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"

	"github.com/QuarkChain/go-evmdry/interpreter"
)

// PrecompileFunc is a native contract. It reports the gas it used, which may
// exceed gasLimit, or fails. Running out of gas is reported by wrapping
// interpreter.ErrPrecompileOutOfGas.
type PrecompileFunc func(input []byte, gasLimit uint64) (gasUsed uint64, output []byte, err error)

// PrecompileTable maps addresses to native contracts.
type PrecompileTable interface {
	Get(addr common.Address) (PrecompileFunc, bool)
	Addresses() []common.Address
}

// GethPrecompiles serves the precompiled contracts go-ethereum activates for a
// set of chain rules.
type GethPrecompiles struct {
	contracts vm.PrecompiledContracts
	addresses []common.Address
}

func NewGethPrecompiles(rules params.Rules) *GethPrecompiles {
	return &GethPrecompiles{
		contracts: vm.ActivePrecompiledContracts(rules),
		addresses: vm.ActivePrecompiles(rules),
	}
}

func (p *GethPrecompiles) Get(addr common.Address) (PrecompileFunc, bool) {
	c, ok := p.contracts[addr]
	if !ok {
		return nil, false
	}
	return func(input []byte, gasLimit uint64) (uint64, []byte, error) {
		gasCost := c.RequiredGas(input)
		if gasLimit < gasCost {
			return gasCost, nil, interpreter.ErrPrecompileOutOfGas
		}
		output, err := c.Run(input)
		return gasCost, output, err
	}, true
}

func (p *GethPrecompiles) Addresses() []common.Address {
	return p.addresses
}

// PrecompileMap is a PrecompileTable of plain functions.
type PrecompileMap map[common.Address]PrecompileFunc

func (m PrecompileMap) Get(addr common.Address) (PrecompileFunc, bool) {
	f, ok := m[addr]
	return f, ok
}

func (m PrecompileMap) Addresses() []common.Address {
	addrs := make([]common.Address, 0, len(m))
	for addr := range m {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Cmp(addrs[j]) < 0 })
	return addrs
}

// runPrecompile maps a precompile invocation onto a terminal result.
func runPrecompile(f PrecompileFunc, input []byte, gasLimit uint64) interpreter.CallOutcome {
	outcome := interpreter.CallOutcome{Gas: interpreter.NewGas(gasLimit)}
	gasUsed, output, err := f(input, gasLimit)
	switch {
	case errors.Is(err, interpreter.ErrPrecompileOutOfGas):
		outcome.Result = interpreter.PrecompileOOG
		outcome.Gas.SpendAll()
	case err != nil:
		outcome.Result = interpreter.PrecompileError
		outcome.Gas.SpendAll()
	case !outcome.Gas.RecordCost(gasUsed):
		outcome.Result = interpreter.PrecompileOOG
		outcome.Gas.SpendAll()
	default:
		outcome.Result = interpreter.Return
		outcome.Output = output
	}
	return outcome
}
