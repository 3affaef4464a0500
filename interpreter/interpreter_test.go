package interpreter

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// stubHost is a minimal Host keeping storage for a single account and
// answering sub-calls with a canned outcome.
type stubHost struct {
	env     *Env
	storage map[common.Hash]common.Hash
	calls   []*CallInputs
	callOut CallOutcome
	callErr error
	logs    [][]common.Hash
}

func newStubHost() *stubHost {
	return &stubHost{env: DefaultEnv(1), storage: make(map[common.Hash]common.Hash)}
}

func (h *stubHost) Env() *Env { return h.env }
func (h *stubHost) LoadAccount(common.Address) (bool, bool, error) {
	return true, false, nil
}
func (h *stubHost) BlockHash(n uint64) (common.Hash, error) {
	return common.BigToHash(new(big.Int).SetUint64(n)), nil
}
func (h *stubHost) Balance(common.Address) (*uint256.Int, bool, error) {
	return uint256.NewInt(7), false, nil
}
func (h *stubHost) Code(common.Address) ([]byte, bool, error) { return nil, false, nil }
func (h *stubHost) CodeHash(common.Address) (common.Hash, bool, error) {
	return common.Hash{}, false, nil
}
func (h *stubHost) SLoad(_ common.Address, key common.Hash) (common.Hash, bool) {
	v, ok := h.storage[key]
	if !ok {
		h.storage[key] = common.Hash{}
	}
	return v, !ok
}
func (h *stubHost) SStore(addr common.Address, key, value common.Hash) SStoreResult {
	prev, cold := h.SLoad(addr, key)
	h.storage[key] = value
	return SStoreResult{Previous: prev, New: value, IsCold: cold}
}
func (h *stubHost) Log(_ common.Address, topics []common.Hash, _ []byte) {
	h.logs = append(h.logs, topics)
}
func (h *stubHost) SelfDestruct(common.Address, common.Address) (SelfDestructResult, error) {
	return SelfDestructResult{}, errors.New("selfdestruct disabled")
}
func (h *stubHost) Create(in *CreateInputs) CreateOutcome {
	return CreateOutcome{Result: Return, Gas: NewGas(in.GasLimit)}
}
func (h *stubHost) Call(in *CallInputs) (CallOutcome, error) {
	h.calls = append(h.calls, in)
	return h.callOut, h.callErr
}

var (
	selfAddr   = common.HexToAddress("0x1000")
	callerAddr = common.HexToAddress("0x2000")
)

func newTestContract(code []byte) *Contract {
	c := NewContract(nil, &CallContext{
		Address:       selfAddr,
		Caller:        callerAddr,
		CodeAddress:   selfAddr,
		ApparentValue: uint256.NewInt(9),
	})
	c.SetCallCode(common.Hash{}, code)
	return c
}

func runCode(t *testing.T, host Host, code string, gas uint64, static bool) (*EVMInterpreter, InstructionResult, error) {
	t.Helper()
	in := NewEVMInterpreter(newTestContract(hexutil.MustDecode(code)), gas, static, nil)
	res, err := in.Run(host)
	return in, res, err
}

func TestRunResults(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		gas    uint64
		static bool
		want   InstructionResult
		output string
	}{
		{name: "add-return", code: "0x600260030160005260206000f3", gas: 100000, want: Return,
			output: "0x0000000000000000000000000000000000000000000000000000000000000005"},
		{name: "empty", code: "0x", gas: 100000, want: Stop},
		{name: "stop", code: "0x00", gas: 100000, want: Stop},
		{name: "run-off-end", code: "0x6001", gas: 100000, want: Stop},
		{name: "revert", code: "0x60aa6000526001601ffd", gas: 100000, want: Revert, output: "0xaa"},
		{name: "underflow", code: "0x01", gas: 100000, want: StackUnderflow},
		{name: "out-of-gas", code: "0x600260030100", gas: 5, want: OutOfGas},
		{name: "bad-jump", code: "0x600456", gas: 100000, want: InvalidJump},
		{name: "jump-into-push-data", code: "0x605b600156", gas: 100000, want: InvalidJump},
		{name: "good-jump", code: "0x6003565b00", gas: 100000, want: Stop},
		{name: "undefined-opcode", code: "0x0c", gas: 100000, want: OpcodeNotFound},
		{name: "invalid", code: "0xfe", gas: 100000, want: InvalidFEOpcode},
		{name: "static-sstore", code: "0x6001600055", gas: 100000, static: true, want: StateChangeDuringStaticCall},
		{name: "static-log", code: "0x60006000a0", gas: 100000, static: true, want: StateChangeDuringStaticCall},
		{name: "returndata-oob", code: "0x6001600060003e", gas: 100000, want: OutOfOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, res, err := runCode(t, newStubHost(), tt.code, tt.gas, tt.static)
			require.NoError(t, err)
			require.Equal(t, tt.want, res, "got %v", res)
			if tt.output != "" {
				require.Equal(t, hexutil.MustDecode(tt.output), in.ReturnValue())
			}
			if res.IsError() {
				require.Zero(t, in.Gas().Remaining())
				require.Nil(t, in.ReturnValue())
			}
		})
	}
}

func TestRevertKeepsGas(t *testing.T) {
	in, res, err := runCode(t, newStubHost(), "0x60006000fd", 1000, false)
	require.NoError(t, err)
	require.Equal(t, Revert, res)
	require.Equal(t, uint64(1000-6), in.Gas().Remaining())
}

func TestMemoryLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MemoryLimit = 1024
	in := NewEVMInterpreter(newTestContract(hexutil.MustDecode("0x6001630100000052")), 1<<40, false, cfg)
	res, err := in.Run(newStubHost())
	require.NoError(t, err)
	require.Equal(t, MemoryLimitOOG, res)
}

func TestZeroConfigDefaults(t *testing.T) {
	cfg := &Config{}
	// MSTORE(0, 1), RETURN(0, 32)
	in := NewEVMInterpreter(newTestContract(hexutil.MustDecode("0x600160005260206000f3")), 100000, false, cfg)
	res, err := in.Run(newStubHost())
	require.NoError(t, err)
	require.Equal(t, Return, res)
	require.Equal(t, common.BytesToHash([]byte{1}).Bytes(), in.ReturnValue())
	require.Equal(t, uint64(defaultMemoryLimit), cfg.MemoryLimit)
}

func TestStorageWarmth(t *testing.T) {
	host := newStubHost()
	// SLOAD(1) twice, then SSTORE(1, 2)
	in, res, err := runCode(t, host, "0x60015450600154506002600155", 100000, false)
	require.NoError(t, err)
	require.Equal(t, Stop, res)
	require.Equal(t, common.BytesToHash([]byte{2}), host.storage[common.BytesToHash([]byte{1})])
	// cold sload, warm sload, fresh slot set, four pushes and two pops
	require.Equal(t, uint64(2100+100+20000+4*3+2*2), in.Gas().Spent())
}

func TestLog(t *testing.T) {
	host := newStubHost()
	_, res, err := runCode(t, host, "0x60ff60aa60006000a2", 100000, false)
	require.NoError(t, err)
	require.Equal(t, Stop, res)
	require.Len(t, host.logs, 1)
	require.Equal(t, common.BytesToHash([]byte{0xaa}), host.logs[0][0])
	require.Equal(t, common.BytesToHash([]byte{0xff}), host.logs[0][1])
}

func TestEnvironmentOpcodes(t *testing.T) {
	host := newStubHost()
	host.env.Cfg.ChainID = 56
	// CHAINID CALLER CALLVALUE ADDRESS, each stored in its own word
	code := "0x4660005233602052346040523060605260806000f3"
	in, res, err := runCode(t, host, code, 100000, false)
	require.NoError(t, err)
	require.Equal(t, Return, res)
	out := in.ReturnValue()
	require.Len(t, out, 128)
	require.Equal(t, uint64(56), new(uint256.Int).SetBytes(out[0:32]).Uint64())
	require.Equal(t, callerAddr, common.BytesToAddress(out[32:64]))
	require.Equal(t, uint64(9), new(uint256.Int).SetBytes(out[64:96]).Uint64())
	require.Equal(t, selfAddr, common.BytesToAddress(out[96:128]))
}

const callCode = "0x6020600060006000600060aa61fffff160205260406000f3"

func TestCallSuccess(t *testing.T) {
	host := newStubHost()
	ret := common.BytesToHash([]byte{0x11}).Bytes()
	host.callOut = CallOutcome{Result: Return, Gas: NewGas(0xffff), Output: ret}

	in, res, err := runCode(t, host, callCode, 1000000, false)
	require.NoError(t, err)
	require.Equal(t, Return, res)
	require.Equal(t, ret, in.ReturnValue()[:32])
	require.Equal(t, uint64(1), new(uint256.Int).SetBytes(in.ReturnValue()[32:]).Uint64())

	require.Len(t, host.calls, 1)
	call := host.calls[0]
	target := common.HexToAddress("0xaa")
	require.Equal(t, target, call.Contract)
	require.Equal(t, target, call.Context.Address)
	require.Equal(t, selfAddr, call.Context.Caller)
	require.Equal(t, SchemeCall, call.Context.Scheme)
	require.Equal(t, selfAddr, call.Transfer.Source)
	require.True(t, call.Transfer.Value.IsZero())
	require.Equal(t, uint64(0xffff), call.GasLimit)
	require.False(t, call.IsStatic)
}

func TestCallFailurePushesZero(t *testing.T) {
	for _, result := range []InstructionResult{Revert, CallTooDeep, OutOfGas, FatalExternalError} {
		t.Run(result.String(), func(t *testing.T) {
			host := newStubHost()
			host.callOut = CallOutcome{Result: result, Gas: NewGas(0)}
			in, res, err := runCode(t, host, callCode, 1000000, false)
			require.NoError(t, err)
			require.Equal(t, Return, res)
			require.True(t, new(uint256.Int).SetBytes(in.ReturnValue()[32:]).IsZero())
		})
	}
}

func TestCallFatalHostError(t *testing.T) {
	host := newStubHost()
	fatal := errors.New("boom")
	host.callErr = fatal
	_, res, err := runCode(t, host, callCode, 1000000, false)
	require.ErrorIs(t, err, fatal)
	require.Equal(t, FatalExternalError, res)
}

func TestDelegateCallContext(t *testing.T) {
	host := newStubHost()
	host.callOut = CallOutcome{Result: Stop, Gas: NewGas(0)}
	_, res, err := runCode(t, host, "0x600060006000600060aa61fffff400", 1000000, false)
	require.NoError(t, err)
	require.Equal(t, Stop, res)
	require.Len(t, host.calls, 1)
	call := host.calls[0]
	require.Equal(t, common.HexToAddress("0xaa"), call.Contract)
	require.Equal(t, selfAddr, call.Context.Address)
	require.Equal(t, callerAddr, call.Context.Caller)
	require.Equal(t, uint64(9), call.Context.ApparentValue.Uint64())
	require.Equal(t, SchemeDelegateCall, call.Context.Scheme)
}

func TestStaticCallIsStatic(t *testing.T) {
	host := newStubHost()
	host.callOut = CallOutcome{Result: Stop, Gas: NewGas(0)}
	_, _, err := runCode(t, host, "0x600060006000600060aa61fffffa00", 1000000, false)
	require.NoError(t, err)
	require.Len(t, host.calls, 1)
	require.True(t, host.calls[0].IsStatic)
	require.Equal(t, SchemeStaticCall, host.calls[0].Context.Scheme)
}

func TestCallWithValueInsideStatic(t *testing.T) {
	// CALL with value 1
	_, res, err := runCode(t, newStubHost(), "0x6000600060006000600160aa61fffff1", 1000000, true)
	require.NoError(t, err)
	require.Equal(t, CallNotAllowedInsideStatic, res)
}

func TestSelfDestructHostError(t *testing.T) {
	_, res, err := runCode(t, newStubHost(), "0x60aaff", 100000, false)
	require.Error(t, err)
	require.Equal(t, FatalExternalError, res)
}

func TestAnalysisCacheShared(t *testing.T) {
	cfg := DefaultConfig()
	code := hexutil.MustDecode("0x6003565b00")
	hash := common.HexToHash("0x01")
	for i := 0; i < 2; i++ {
		c := newTestContract(code)
		c.SetCallCode(hash, code)
		res, err := NewEVMInterpreter(c, 1000, false, cfg).Run(newStubHost())
		require.NoError(t, err)
		require.Equal(t, Stop, res)
	}
	require.Equal(t, 1, cfg.Analysis.Len())
}
