package host

import (
	"math/big"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/params"

	"github.com/QuarkChain/go-evmdry/interpreter"
)

// Config are the options of a Host.
type Config struct {
	ChainConfig *params.ChainConfig
	// MaxCallDepth is the deepest nested frame that may run. The top-level
	// frame is depth 0. Zero selects params.CallCreateDepth.
	MaxCallDepth int
	// Inspect enables the observer hooks around nested calls.
	Inspect bool
	// Override, when non-nil, is returned as the code of every account.
	Override []byte

	Env         *interpreter.Env
	Interpreter *interpreter.Config
	// Builder constructs nested frames. Defaults to an EVMInterpreter builder
	// over Interpreter.
	Builder interpreter.Builder
	// Metrics receives the call counters of the Host. A nil registry gives
	// every Host a private one.
	Metrics metrics.Registry
}

// DefaultConfig returns the latest-fork test chain with the protocol call
// depth limit.
func DefaultConfig() *Config {
	chainConfig := params.MergedTestChainConfig
	return &Config{
		ChainConfig:  chainConfig,
		MaxCallDepth: int(params.CallCreateDepth),
		Env:          interpreter.DefaultEnv(chainConfig.ChainID.Uint64()),
		Interpreter:  interpreter.DefaultConfig(),
	}
}

// SetDefaults fills the zero fields of c, in the manner of geth's
// core/vm/runtime. Env is left alone; a nil Env is derived from ChainConfig
// when the Host is built.
func (c *Config) SetDefaults() {
	if c.ChainConfig == nil {
		c.ChainConfig = params.MergedTestChainConfig
	}
	if c.MaxCallDepth == 0 {
		c.MaxCallDepth = int(params.CallCreateDepth)
	}
	if c.Interpreter == nil {
		c.Interpreter = interpreter.DefaultConfig()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewRegistry()
	}
}

// Rules returns the fork rules of the configured block.
func (c *Config) Rules() params.Rules {
	var number, time uint64
	if c.Env != nil {
		number, time = c.Env.Block.Number, c.Env.Block.Timestamp
	}
	return c.ChainConfig.Rules(new(big.Int).SetUint64(number), true, time)
}

func (c *Config) builder() interpreter.Builder {
	if c.Builder != nil {
		return c.Builder
	}
	return interpreter.NewBuilder(c.Interpreter)
}
