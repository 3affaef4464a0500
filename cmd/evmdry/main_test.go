package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	addCalldata = "0x771602f700000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000003"
	// returns calldata word 1 plus word 2
	addCode = "0x6004356024350160005260206000f3"
	sum     = "0000000000000000000000000000000000000000000000000000000000000005"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app.Writer = &buf
	err := app.Run(append([]string{"evmdry", "--verbosity", "0"}, args...))
	return buf.String(), err
}

func TestRunFlags(t *testing.T) {
	out, err := runApp(t, "run", "--calldata", addCalldata, "--bytecode", addCode)
	require.NoError(t, err)
	require.Equal(t, "Bytecode exec successfully, result (in hex):\n"+sum+"\n", out)
}

func TestRunArgs(t *testing.T) {
	out, err := runApp(t, "run", addCalldata, addCode[2:])
	require.NoError(t, err)
	require.Contains(t, out, sum)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(addCalldata+"\n"+addCode+"\n"), 0o600))
	out, err := runApp(t, "run", "--file", path)
	require.NoError(t, err)
	require.Contains(t, out, sum)
}

func TestRunFailure(t *testing.T) {
	out, err := runApp(t, "run", "--bytecode", "0x60006000fd")
	require.NoError(t, err)
	require.Equal(t, "Bytecode exec failed, reason: interpreter inner error: Revert\n", out)
}

func TestRunBadHex(t *testing.T) {
	_, err := runApp(t, "run", "--bytecode", "0xzz")
	require.Error(t, err)
}

func TestRunNegativeDepth(t *testing.T) {
	out, err := runApp(t, "run", "--depth", "-1", "--calldata", addCalldata, "--bytecode", addCode)
	require.ErrorContains(t, err, "must not be negative")
	require.Empty(t, out)
}
