package host

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/holiman/uint256"

	"github.com/QuarkChain/go-evmdry/interpreter"
)

var ErrSelfDestructUnsupported = errors.New("selfdestruct is not supported in a dry run")

var _ interpreter.Host = (*Host)(nil)

// Host answers the environment queries of an interpreter and runs nested
// calls against a ledger and journal. A Host serves a single dry run and is
// not safe for concurrent use.
type Host struct {
	cfg         *Config
	env         *interpreter.Env
	ledger      Ledger // nil answers every account query with constants
	journal     Journal
	precompiles PrecompileTable
	observer    Observer
	build       interpreter.Builder
	metrics     *hostMetrics

	overlay *StorageOverlay
	logs    []*types.Log
	depth   int
}

// NewHost returns a Host over a copy of cfg with its zero fields defaulted.
// The ledger and precompiles may be nil; a nil observer is replaced by
// NoOpObserver.
func NewHost(cfg *Config, ledger Ledger, journal Journal, precompiles PrecompileTable, observer Observer) *Host {
	if journal == nil {
		panic("host: nil journal")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.SetDefaults()
	cfg = &c
	if precompiles == nil {
		precompiles = PrecompileMap{}
	}
	if observer == nil {
		observer = NoOpObserver{}
	}
	env := cfg.Env
	if env == nil {
		env = interpreter.DefaultEnv(cfg.ChainConfig.ChainID.Uint64())
	}
	return &Host{
		cfg:         cfg,
		env:         env,
		ledger:      ledger,
		journal:     journal,
		precompiles: precompiles,
		observer:    observer,
		build:       cfg.builder(),
		metrics:     newHostMetrics(cfg.Metrics),
		overlay:     NewStorageOverlay(),
	}
}

// Env returns the block, transaction and chain environment of the run.
func (h *Host) Env() *interpreter.Env {
	return h.env
}

// LoadAccount reports whether addr exists and whether this was its first
// access. Without a ledger every account exists and is cold.
func (h *Host) LoadAccount(addr common.Address) (bool, bool, error) {
	if h.ledger == nil {
		return true, true, nil
	}
	exists, err := h.ledger.Account(addr)
	if err != nil {
		return false, false, err
	}
	return exists, h.journal.AccessAccount(addr), nil
}

// BlockHash returns the hash of block number, zero without a ledger.
func (h *Host) BlockHash(number uint64) (common.Hash, error) {
	if h.ledger == nil {
		return common.Hash{}, nil
	}
	return h.ledger.BlockHash(number)
}

// Balance returns the balance of addr and whether it was cold.
func (h *Host) Balance(addr common.Address) (*uint256.Int, bool, error) {
	if h.ledger == nil {
		return new(uint256.Int), true, nil
	}
	balance, err := h.ledger.Balance(addr)
	if err != nil {
		return nil, false, err
	}
	return balance, h.journal.AccessAccount(addr), nil
}

// Code returns the override bytecode when one is configured, whatever the
// address.
func (h *Host) Code(addr common.Address) ([]byte, bool, error) {
	if h.cfg.Override != nil {
		return h.cfg.Override, h.journal.AccessAccount(addr), nil
	}
	if h.ledger == nil {
		return nil, true, nil
	}
	code, err := h.ledger.Code(addr)
	if err != nil {
		return nil, false, err
	}
	return code, h.journal.AccessAccount(addr), nil
}

// CodeHash returns the code hash of addr and whether it was cold.
func (h *Host) CodeHash(addr common.Address) (common.Hash, bool, error) {
	if h.ledger == nil {
		return types.EmptyCodeHash, true, nil
	}
	hash, err := h.ledger.CodeHash(addr)
	if err != nil {
		return common.Hash{}, false, err
	}
	return hash, h.journal.AccessAccount(addr), nil
}

// SLoad reads a slot from the storage overlay. Unwritten slots are zero.
func (h *Host) SLoad(addr common.Address, key common.Hash) (common.Hash, bool) {
	return h.overlay.Load(addr, key)
}

// SStore writes the overlay. The original value is always reported as zero.
func (h *Host) SStore(addr common.Address, key, value common.Hash) interpreter.SStoreResult {
	previous, isCold := h.overlay.Store(addr, key, value)
	return interpreter.SStoreResult{
		Previous: previous,
		New:      value,
		IsCold:   isCold,
	}
}

// Log records a log entry, dropped again if the emitting frame reverts.
func (h *Host) Log(addr common.Address, topics []common.Hash, data []byte) {
	h.logs = append(h.logs, &types.Log{
		Address: addr,
		Topics:  topics,
		Data:    data,
		Index:   uint(len(h.logs)),
	})
}

// SelfDestruct always fails, which aborts the dry run.
func (h *Host) SelfDestruct(addr, target common.Address) (interpreter.SelfDestructResult, error) {
	log.Warn("Selfdestruct halts the dry run", "address", addr, "beneficiary", target)
	return interpreter.SelfDestructResult{}, ErrSelfDestructUnsupported
}

// Create reports success without deploying anything.
func (h *Host) Create(inputs *interpreter.CreateInputs) interpreter.CreateOutcome {
	log.Trace("Ignoring contract creation", "caller", inputs.Caller, "initcode", len(inputs.InitCode))
	return interpreter.CreateOutcome{
		Result: interpreter.Return,
		Gas:    interpreter.NewGas(inputs.GasLimit),
	}
}

// Logs returns the logs emitted by frames that were not reverted.
func (h *Host) Logs() []*types.Log {
	return h.logs
}

// Overlay returns the storage written during the run.
func (h *Host) Overlay() *StorageOverlay {
	return h.overlay
}

// Metrics returns the registry holding the Host's call counters.
func (h *Host) Metrics() metrics.Registry {
	return h.cfg.Metrics
}

// Depth returns the depth of the frame currently executing.
func (h *Host) Depth() int {
	return h.depth
}

// NewInterpreter builds an interpreter with the Host's builder.
func (h *Host) NewInterpreter(contract *interpreter.Contract, gasLimit uint64, static bool) interpreter.Interpreter {
	return h.build(contract, gasLimit, static)
}
