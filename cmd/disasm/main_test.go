package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/redthing1/regular-tools/codec"
	"github.com/redthing1/regular-tools/lexer"
	"github.com/redthing1/regular-tools/lower"
	"github.com/redthing1/regular-tools/parser"
	"github.com/redthing1/regular-tools/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleFixture(t *testing.T, src string) []byte {
	t.Helper()
	var diag bytes.Buffer
	toks := lexer.New([]byte(src), &diag).TokenizeAll()
	prog := parser.Parse(toks)
	require.False(t, prog.Errors.HasErrors())
	lower.Lower(prog)
	resolve.Resolve(prog)
	raw, err := codec.Encode(prog, false)
	require.NoError(t, err)
	return raw
}

func TestRunPrintsHeaderSummaryAndInstructions(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, assembleFixture(t, "set r1 .5\nhlt"), 0600))

	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))

	code := run([]string{in}, stdOut, errOut)
	assert.Equal(t, 0, code)
	stdOut.Close()

	out, err := os.ReadFile(stdOut.Name())
	require.NoError(t, err)
	assert.Contains(t, string(out), "magic=rg")
	assert.Contains(t, string(out), "set r1 $0005")
}

func TestRunRawFlagOmitsAddressPrefix(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, assembleFixture(t, "hlt"), 0600))

	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))

	code := run([]string{"--raw", in}, stdOut, errOut)
	assert.Equal(t, 0, code)
	stdOut.Close()

	out, err := os.ReadFile(stdOut.Name())
	require.NoError(t, err)
	assert.Equal(t, "magic=rg code_size=8 data_size=0\nnop\nhlt\n", string(out))
}

func TestRunMissingFileExitsOne(t *testing.T) {
	dir := t.TempDir()
	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))

	code := run([]string{filepath.Join(dir, "missing.bin")}, stdOut, errOut)
	assert.Equal(t, 1, code)
}

func TestRunBadCodeSizeExitsTwo(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, []byte{1, 2, 3}, 0600))

	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))

	code := run([]string{in}, stdOut, errOut)
	assert.Equal(t, 2, code)
}

func mustCreate(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	return f
}
