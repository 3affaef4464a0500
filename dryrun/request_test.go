package dryrun

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
		err  error
	}{
		{in: "0x0102", want: []byte{1, 2}},
		{in: "0X0102", want: []byte{1, 2}},
		{in: "0102", want: []byte{1, 2}},
		{in: "  0xff\n", want: []byte{0xff}},
		{in: ""},
		{in: "0x"},
		{in: "0x123", err: ErrInvalidHex},
		{in: "zz", err: ErrInvalidHex},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DecodeHex(tt.in)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			if len(tt.want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest("0x01", "6000", "")
	require.NoError(t, err)
	require.Equal(t, []byte{1}, req.Calldata)
	require.Equal(t, []byte{0x60, 0}, req.Bytecode)
	require.Nil(t, req.Override)

	req, err = ParseRequest("", "0x00", "0xfe")
	require.NoError(t, err)
	require.Empty(t, req.Calldata)
	require.Equal(t, []byte{0xfe}, req.Override)

	_, err = ParseRequest("0x01", "", "")
	require.ErrorIs(t, err, ErrMissingInput)
	_, err = ParseRequest("0x01", "0xg0", "")
	require.ErrorIs(t, err, ErrInvalidHex)
	_, err = ParseRequest("0x01", "0x00", "0x1")
	require.ErrorIs(t, err, ErrInvalidHex)
}

func TestReadRequestFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	req, err := ReadRequestFile(write("two.txt", addCalldata+"\n"+basicToken+"\n"))
	require.NoError(t, err)
	require.Nil(t, req.Override)
	out, err := Run(req, nil)
	require.NoError(t, err)
	require.Equal(t, five, out)

	req, err = ReadRequestFile(write("three.txt", "0x\r\n0x00\r\n"+trivialAdd))
	require.NoError(t, err)
	require.NotNil(t, req.Override)

	_, err = ReadRequestFile(write("one.txt", "0x01\n"))
	require.ErrorIs(t, err, ErrMissingInput)
	_, err = ReadRequestFile(write("single.txt", "0x01"))
	require.ErrorIs(t, err, ErrMissingInput)

	_, err = ReadRequestFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
