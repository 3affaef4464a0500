package interpreter

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const defaultMemoryLimit = 32 * 1024 * 1024

// Interpreter runs the code of a single frame against a Host.
type Interpreter interface {
	// Run executes until the frame terminates. The error is only non-nil
	// when a Host call failed fatally; every other outcome is the result.
	Run(host Host) (InstructionResult, error)
	// ReturnValue is the frame output after Run returned.
	ReturnValue() []byte
	Gas() *Gas
}

// Builder constructs the interpreter of a new frame.
type Builder func(contract *Contract, gasLimit uint64, static bool) Interpreter

// Config are the options of EVMInterpreter.
type Config struct {
	Tracer      *tracing.Hooks
	MemoryLimit uint64         // bytes, 0 means 32MiB; expansion past it halts with MemoryLimitOOG
	Analysis    *AnalysisCache // shared jumpdest analysis, may be nil

	tableOnce sync.Once
	table     *JumpTable
}

func DefaultConfig() *Config {
	return &Config{
		MemoryLimit: defaultMemoryLimit,
		Analysis:    NewAnalysisCache(defaultAnalysisCacheSize),
	}
}

// setDefaults fills the zero fields of cfg.
func (cfg *Config) setDefaults() {
	if cfg.MemoryLimit == 0 {
		cfg.MemoryLimit = defaultMemoryLimit
	}
}

func (cfg *Config) jumpTable() *JumpTable {
	cfg.tableOnce.Do(func() {
		cfg.table = newJumpTable()
	})
	return cfg.table
}

// NewBuilder returns a Builder producing EVMInterpreters sharing cfg.
func NewBuilder(cfg *Config) Builder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.setDefaults()
	return func(contract *Contract, gasLimit uint64, static bool) Interpreter {
		return NewEVMInterpreter(contract, gasLimit, static, cfg)
	}
}

// EVMInterpreter is a stepping bytecode interpreter.
type EVMInterpreter struct {
	cfg      *Config
	table    *JumpTable
	contract *Contract
	gas      Gas
	stack    *Stack
	memory   *Memory
	pc       uint64
	isStatic bool

	host       Host
	hasher     crypto.KeccakState
	hasherBuf  common.Hash
	returnData []byte // last sub-call output, for RETURNDATA*
	output     []byte
	err        error // fatal host error
}

func NewEVMInterpreter(contract *Contract, gasLimit uint64, static bool, cfg *Config) *EVMInterpreter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.setDefaults()
	return &EVMInterpreter{
		cfg:      cfg,
		table:    cfg.jumpTable(),
		contract: contract,
		gas:      NewGas(gasLimit),
		memory:   NewMemory(),
		isStatic: static,
	}
}

func (in *EVMInterpreter) Gas() *Gas {
	return &in.gas
}

func (in *EVMInterpreter) ReturnValue() []byte {
	return in.output
}

// Run loops over the contract code until a terminal result is reached.
func (in *EVMInterpreter) Run(host Host) (InstructionResult, error) {
	if len(in.contract.Code) == 0 {
		return Stop, nil
	}
	in.host = host
	in.stack = newstack()
	defer func() {
		returnStack(in.stack)
		in.stack = nil
		in.host = nil
	}()

	tracer := in.cfg.Tracer
	for {
		op := in.contract.GetOp(in.pc)
		operation := in.table[op]
		if operation == nil {
			return in.halt(OpcodeNotFound)
		}
		if sLen := in.stack.len(); sLen < operation.minStack {
			return in.halt(StackUnderflow)
		} else if sLen > operation.maxStack {
			return in.halt(StackOverflow)
		}
		if !in.gas.Use(operation.constantGas, tracer, tracing.GasChangeCallOpCode) {
			return in.halt(OutOfGas)
		}
		if res := operation.execute(in); res != Continue {
			return in.halt(res)
		}
		in.pc++
	}
}

func (in *EVMInterpreter) halt(res InstructionResult) (InstructionResult, error) {
	if res.IsError() {
		in.gas.SpendAll()
		in.output = nil
	}
	return res, in.err
}

func (in *EVMInterpreter) useGas(cost uint64) bool {
	return in.gas.Use(cost, in.cfg.Tracer, tracing.GasChangeCallOpCode)
}

// expandMemory grows memory to cover [offset, offset+size) and charges the
// expansion. A zero size never touches memory.
func (in *EVMInterpreter) expandMemory(offset, size *uint256.Int) InstructionResult {
	if size.IsZero() {
		return Continue
	}
	if !offset.IsUint64() || !size.IsUint64() {
		return MemoryLimitOOG
	}
	end, overflow := math.SafeAdd(offset.Uint64(), size.Uint64())
	if overflow || end > in.cfg.MemoryLimit {
		return MemoryLimitOOG
	}
	newWords := toWordSize(end)
	oldWords := uint64(in.memory.Len()) / 32
	if newWords <= oldWords {
		return Continue
	}
	if !in.useGas(memoryGasCost(newWords) - memoryGasCost(oldWords)) {
		return OutOfGas
	}
	in.memory.Resize(newWords * 32)
	return Continue
}

// copyGas charges the per-word cost of copying size bytes.
func (in *EVMInterpreter) copyGas(size uint64, perWord uint64) bool {
	words, overflow := math.SafeMul(toWordSize(size), perWord)
	if overflow {
		return false
	}
	return in.useGas(words)
}

// getData returns a slice from the data based on the start and size and pads
// up to size with zero's.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length || end < start {
		end = length
	}
	return common.RightPadBytes(data[start:end], int(size))
}
