package dryrun

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/QuarkChain/go-evmdry/host"
	"github.com/QuarkChain/go-evmdry/interpreter"
)

// basicToken is a compiled token contract exposing totalSupply, balanceOf,
// transfer and a pure add(uint256,uint256).
const basicToken = "0x608060405234801561001057600080fd5b506004361061004c5760003560e01c806318160ddd1461005157806370a0823114610068578063771602f714610091578063a9059cbb146100a4575b600080fd5b6000545b6040519081526020015b60405180910390f35b610055610076366004610198565b6001600160a01b031660009081526001602052604090205490565b61005561009f3660046101b3565b6100c7565b6100b76100b23660046101d5565b6100dc565b604051901515815260200161005f565b60006100d38284610215565b90505b92915050565b60006001600160a01b0383166100f157600080fd5b3360009081526001602052604090205482111561010d57600080fd5b33600090815260016020526040902054610128908390610228565b33600090815260016020526040808220929092556001600160a01b03851681522054610155908390610215565b6001600160a01b038416600090815260016020819052604090912091909155905092915050565b80356001600160a01b038116811461019357600080fd5b919050565b6000602082840312156101aa57600080fd5b6100d38261017c565b600080604083850312156101c657600080fd5b50508035926020909101359150565b600080604083850312156101e857600080fd5b6101f18361017c565b946020939093013593505050565b634e487b7160e01b600052601160045260246000fd5b808201808211156100d6576100d66101ff565b818103818111156100d6576100d66101ff56fea26469706673582212203c8cf1d0b0ffb741e4b0758b951e25d3fde6108d8823a4ae95a0c0fe926284bf64736f6c63430008150033"

const addCalldata = "0x771602f700000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000003"

var five = hexutil.MustDecode("0x0000000000000000000000000000000000000000000000000000000000000005")

func TestAddScenario(t *testing.T) {
	req, err := ParseRequest(addCalldata, basicToken, "")
	require.NoError(t, err)

	out, err := Run(req, nil)
	require.NoError(t, err)
	require.Equal(t, five, out)
}

func TestUnknownSelectorReverts(t *testing.T) {
	req, err := ParseRequest("0xdeadbeef", basicToken, "")
	require.NoError(t, err)

	out, err := Run(req, nil)
	require.Nil(t, out)
	require.ErrorIs(t, err, ErrReverted)
	var dryErr *Error
	require.True(t, errors.As(err, &dryErr))
	require.Equal(t, interpreter.Revert, dryErr.Result)
	require.Equal(t, "interpreter inner error: Revert", err.Error())
}

// callBeef calls 0xbeef with no value and reverts when the call failed.
const callBeef = "0x6000600060006000600061beef61fffff1601857600080fd5b00"

// returnFlag calls 0xbeef and returns the success flag.
const returnFlag = "0x6000600060006000600061beef61fffff160005260206000f3"

func TestCallToMissingCode(t *testing.T) {
	var results []interpreter.InstructionResult
	cfg := DefaultConfig()
	cfg.Host.Inspect = true
	cfg.Observer = &recordingObserver{results: &results}

	out, err := Run(&ExecutionRequest{Bytecode: hexutil.MustDecode(returnFlag)}, cfg)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 32), out)
	require.Equal(t, []interpreter.InstructionResult{interpreter.FatalExternalError}, results)

	_, err = Run(&ExecutionRequest{Bytecode: hexutil.MustDecode(callBeef)}, nil)
	require.ErrorIs(t, err, ErrReverted)
}

type recordingObserver struct {
	host.NoOpObserver
	results *[]interpreter.InstructionResult
}

func (o *recordingObserver) CallEnd(_ int, _ *interpreter.CallInputs, outcome interpreter.CallOutcome) interpreter.CallOutcome {
	*o.results = append(*o.results, outcome.Result)
	return outcome
}

// trivialAdd returns the sum of the two words following the selector.
const trivialAdd = "0x6004356024350160005260206000f3"

func TestOverrideSubstitution(t *testing.T) {
	for _, callee := range []string{"1234", "dead"} {
		t.Run(callee, func(t *testing.T) {
			// copy calldata, forward it to the callee and return its first word
			outer := "0x36600060003760206000366000600061" + callee + "5af15060206000f3"
			req, err := ParseRequest(addCalldata, outer, trivialAdd)
			require.NoError(t, err)

			out, err := Run(req, nil)
			require.NoError(t, err)
			require.Equal(t, five, out)
		})
	}
	// without the override the callee has no code and nothing is copied back
	req, err := ParseRequest(addCalldata, "0x36600060003760206000366000600061dead5af15060206000f3", "")
	require.NoError(t, err)
	out, err := Run(req, nil)
	require.NoError(t, err)
	require.Equal(t, hexutil.MustDecode(addCalldata)[:32], out)
}

func TestPrecompileReachable(t *testing.T) {
	// store 42, staticcall identity on it and return the copy
	out, err := Run(&ExecutionRequest{Bytecode: hexutil.MustDecode("0x602a600052602060206020600060045afa5060206020f3")}, nil)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes([]byte{42}, 32), out)
}

func TestSelfDestructIsFatal(t *testing.T) {
	_, err := Run(&ExecutionRequest{Bytecode: hexutil.MustDecode("0x60aaff")}, nil)
	require.ErrorIs(t, err, ErrFatal)
	require.ErrorIs(t, err, host.ErrSelfDestructUnsupported)
}

func TestHaltKinds(t *testing.T) {
	tests := []struct {
		code string
		kind error
		res  interpreter.InstructionResult
	}{
		{"0xfe", ErrHalted, interpreter.InvalidFEOpcode},
		{"0x01", ErrHalted, interpreter.StackUnderflow},
		{"0x600456", ErrHalted, interpreter.InvalidJump},
		{"0x60006000fd", ErrReverted, interpreter.Revert},
	}
	for _, tt := range tests {
		t.Run(tt.res.String(), func(t *testing.T) {
			_, err := Run(&ExecutionRequest{Bytecode: hexutil.MustDecode(tt.code)}, nil)
			require.ErrorIs(t, err, tt.kind)
			var dryErr *Error
			require.True(t, errors.As(err, &dryErr))
			require.Equal(t, tt.res, dryErr.Result)
		})
	}
}

func TestExecuteOutcome(t *testing.T) {
	// LOG2 then return nothing
	outcome, err := Execute(&ExecutionRequest{Bytecode: hexutil.MustDecode("0x60ff60aa60006000a2")}, nil)
	require.NoError(t, err)
	require.Equal(t, interpreter.Stop, outcome.Result)
	require.Empty(t, outcome.Output)
	require.Len(t, outcome.Logs, 1)
	require.Len(t, outcome.Logs[0].Topics, 2)
	require.NotZero(t, outcome.GasUsed)
}

func TestDepthLimitFromConfig(t *testing.T) {
	// call self with all gas forever, return the flag
	code := hexutil.MustDecode("0x600060006000600060003061fffff160005260206000f3")
	cfg := DefaultConfig()
	cfg.Host.MaxCallDepth = 2
	out, err := Run(&ExecutionRequest{Bytecode: code, Override: code}, cfg)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes([]byte{1}, 32), out)
}

func TestPartialConfigDefaults(t *testing.T) {
	cfg := &Config{Host: &host.Config{MaxCallDepth: 4}}
	outcome, err := Execute(&ExecutionRequest{Bytecode: hexutil.MustDecode("0x00")}, cfg)
	require.NoError(t, err)
	require.Equal(t, interpreter.Stop, outcome.Result)
	// the caller's config is not modified
	require.Nil(t, cfg.Host.ChainConfig)
	require.Zero(t, cfg.GasLimit)

	// MSTORE(0, 1), RETURN(0, 32) with a bare interpreter config
	cfg = &Config{Host: &host.Config{Interpreter: &interpreter.Config{}}}
	out, err := Run(&ExecutionRequest{Bytecode: hexutil.MustDecode("0x600160005260206000f3")}, cfg)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes([]byte{1}, 32), out)
}

// depthRecorder counts the depths and results seen by the observer hooks.
type depthRecorder struct {
	maxDepth int
	results  map[interpreter.InstructionResult]int
}

func (r *depthRecorder) CallStart(depth int, _ *interpreter.CallInputs) interpreter.CallOutcome {
	if depth > r.maxDepth {
		r.maxDepth = depth
	}
	return interpreter.CallOutcome{Result: interpreter.Continue}
}

func (r *depthRecorder) CallEnd(_ int, _ *interpreter.CallInputs, outcome interpreter.CallOutcome) interpreter.CallOutcome {
	r.results[outcome.Result]++
	return outcome
}

func TestProtocolDepthLimit(t *testing.T) {
	// CALL(GAS, ADDRESS, 0, 0, 0, 0, 0), return the flag
	code := hexutil.MustDecode("0x60006000600060006000305af160005260206000f3")
	rec := &depthRecorder{results: make(map[interpreter.InstructionResult]int)}
	cfg := DefaultConfig()
	cfg.Host.Inspect = true
	cfg.Observer = rec

	out, err := Run(&ExecutionRequest{Bytecode: code, Override: code}, cfg)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes([]byte{1}, 32), out)
	require.Equal(t, 1025, rec.maxDepth)
	require.Equal(t, 1, rec.results[interpreter.CallTooDeep])
	require.Equal(t, 1024, rec.results[interpreter.Return])
}
