package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAssemblesSimpleProgram(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.ad")
	out := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, []byte("set r1 .5\nhlt"), 0600))

	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	defer stdOut.Close()
	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))
	defer errOut.Close()

	code := run([]string{in, out}, stdOut, errOut)
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "rg", string(data[:2]))
}

func TestRunReportsAssemblyErrorExitCodeTwo(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.ad")
	out := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, []byte("bogusmnemonic r1 r2\n"), 0600))

	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))
	defer errOut.Close()
	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	defer stdOut.Close()

	code := run([]string{in, out}, stdOut, errOut)
	assert.Equal(t, 2, code)
}

func TestRunReportsMissingInputExitCodeOne(t *testing.T) {
	dir := t.TempDir()
	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))
	defer errOut.Close()
	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	defer stdOut.Close()

	code := run([]string{filepath.Join(dir, "missing.ad"), filepath.Join(dir, "out.bin")}, stdOut, errOut)
	assert.Equal(t, 1, code)
}

func TestRunCompatFlagOmitsHeader(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.ad")
	out := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(in, []byte("hlt"), 0600))

	errOut := mustCreate(t, filepath.Join(dir, "stderr.log"))
	defer errOut.Close()
	stdOut := mustCreate(t, filepath.Join(dir, "stdout.log"))
	defer stdOut.Close()

	code := run([]string{"--compat", in, out}, stdOut, errOut)
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEqual(t, "rg", string(data[:2]))
}

func mustCreate(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	return f
}
