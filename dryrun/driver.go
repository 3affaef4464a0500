package dryrun

import (
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/QuarkChain/go-evmdry/host"
	"github.com/QuarkChain/go-evmdry/interpreter"
)

// Config are the options of a dry run.
type Config struct {
	Host *host.Config
	// Address and Caller of the top-level frame.
	Address  common.Address
	Caller   common.Address
	// GasLimit of the top-level frame. Zero means unbounded.
	GasLimit uint64
	// Observer is notified of nested calls when Host.Inspect is set.
	Observer host.Observer
}

// DefaultConfig runs at the zero address with unbounded gas.
func DefaultConfig() *Config {
	return &Config{
		Host:     host.DefaultConfig(),
		GasLimit: math.MaxUint64,
	}
}

// setDefaults fills the zero fields of cfg. The host config is copied so the
// caller's value is left untouched.
func (cfg *Config) setDefaults() {
	hostCfg := host.DefaultConfig()
	if cfg.Host != nil {
		c := *cfg.Host
		hostCfg = &c
	}
	hostCfg.SetDefaults()
	cfg.Host = hostCfg
	if cfg.GasLimit == 0 {
		cfg.GasLimit = math.MaxUint64
	}
}

// Outcome is the result of a successful dry run.
type Outcome struct {
	Result  interpreter.InstructionResult
	Output  []byte
	Logs    []*types.Log
	GasUsed uint64
}

// Execute runs the bytecode of req once over its calldata, against an empty
// in-memory state with the precompiles of the configured fork. Every
// terminal result outside the success family is returned as an *Error.
func Execute(req *ExecutionRequest, cfg *Config) (*Outcome, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	cfg = &c
	cfg.setDefaults()
	hostCfg := cfg.Host
	hostCfg.Override = req.Override
	env := interpreter.DefaultEnv(hostCfg.ChainConfig.ChainID.Uint64())
	if hostCfg.Env != nil {
		e := *hostCfg.Env
		env = &e
	}
	env.Tx.Caller = cfg.Caller
	env.Tx.GasLimit = cfg.GasLimit
	hostCfg.Env = env

	precompiles := host.NewGethPrecompiles(hostCfg.Rules())
	// Precompile accounts must exist for their code to resolve.
	ledger, journal, err := host.NewMemoryState(precompiles.Addresses()...)
	if err != nil {
		return nil, err
	}
	h := host.NewHost(hostCfg, ledger, journal, precompiles, cfg.Observer)

	ctx := interpreter.DefaultCallContext()
	ctx.Address = cfg.Address
	ctx.Caller = cfg.Caller
	ctx.CodeAddress = cfg.Address
	contract := interpreter.NewContract(req.Calldata, ctx)
	contract.SetCallCode(crypto.Keccak256Hash(req.Bytecode), req.Bytecode)

	in := h.NewInterpreter(contract, cfg.GasLimit, false)
	res, err := in.Run(h)
	log.Debug("Dry run finished", "result", res, "gasUsed", in.Gas().Spent(), "output", len(in.ReturnValue()), "logs", len(h.Logs()))
	if err != nil || !res.IsOk() {
		return nil, &Error{Result: res, Output: in.ReturnValue(), Err: err}
	}
	return &Outcome{
		Result:  res,
		Output:  in.ReturnValue(),
		Logs:    h.Logs(),
		GasUsed: in.Gas().Spent(),
	}, nil
}

// Run is Execute returning only the output.
func Run(req *ExecutionRequest, cfg *Config) ([]byte, error) {
	outcome, err := Execute(req, cfg)
	if err != nil {
		return nil, err
	}
	return outcome.Output, nil
}
