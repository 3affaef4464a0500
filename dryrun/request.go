package dryrun

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ExecutionRequest is the input of a dry run. A nil Override means no
// override bytecode.
type ExecutionRequest struct {
	Calldata []byte
	Bytecode []byte
	Override []byte
}

// DecodeHex decodes s with or without a 0x prefix. Surrounding whitespace is
// ignored.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hexutil.Decode("0x" + s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}

// ParseRequest decodes hex arguments. An empty override means none.
func ParseRequest(calldata, bytecode, override string) (*ExecutionRequest, error) {
	var (
		req ExecutionRequest
		err error
	)
	if req.Calldata, err = DecodeHex(calldata); err != nil {
		return nil, fmt.Errorf("calldata: %w", err)
	}
	if strings.TrimSpace(bytecode) == "" {
		return nil, fmt.Errorf("%w: bytecode", ErrMissingInput)
	}
	if req.Bytecode, err = DecodeHex(bytecode); err != nil {
		return nil, fmt.Errorf("bytecode: %w", err)
	}
	if strings.TrimSpace(override) != "" {
		if req.Override, err = DecodeHex(override); err != nil {
			return nil, fmt.Errorf("override: %w", err)
		}
	}
	return &req, nil
}

// ReadRequestFile reads a request from a file holding calldata, bytecode and
// an optional override bytecode, one hex string per line.
func ReadRequestFile(path string) (*ExecutionRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: %s needs calldata and bytecode lines", ErrMissingInput, path)
	}
	var override string
	if len(lines) > 2 {
		override = lines[2]
	}
	return ParseRequest(lines[0], lines[1], override)
}
