package debugger

import (
	"bytes"
	"testing"

	"github.com/redthing1/regular-tools/codec"
	"github.com/redthing1/regular-tools/isa"
	"github.com/redthing1/regular-tools/lexer"
	"github.com/redthing1/regular-tools/lower"
	"github.com/redthing1/regular-tools/parser"
	"github.com/redthing1/regular-tools/resolve"
	"github.com/redthing1/regular-tools/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, src string) (*vm.VM, *codec.Image, uint32) {
	t.Helper()
	var diag bytes.Buffer
	toks := lexer.New([]byte(src), &diag).TokenizeAll()
	prog := parser.Parse(toks)
	require.False(t, prog.Errors.HasErrors())
	lower.Lower(prog)
	resolve.Resolve(prog)
	raw, err := codec.Encode(prog, false)
	require.NoError(t, err)

	img, err := codec.Decode(raw)
	require.NoError(t, err)

	machine := vm.New()
	var out bytes.Buffer
	machine.Output = &out
	hdr, err := machine.Load(raw, 0)
	require.NoError(t, err)
	machine.Reg[isa.RegPC] = uint32(hdr.DataSize)
	return machine, img, uint32(hdr.DataSize)
}

func TestDebuggerStepAdvancesPC(t *testing.T) {
	machine, img, entry := build(t, "set r1 .5\nset r2 .7\nhlt")
	machine.Executing = true
	d := NewDebugger(machine, img)
	require.NoError(t, d.Step())
	assert.Equal(t, entry+4, d.PC())
}

func TestDebuggerContinueStopsAtBreakpoint(t *testing.T) {
	machine, img, entry := build(t, "set r1 .5\nset r2 .7\nadd r3 r1 r2\nhlt")
	machine.Executing = true
	d := NewDebugger(machine, img)
	d.Breakpoints.Set(entry + 8) // "set r2" (the placeholder nop sits at entry)
	require.NoError(t, d.Continue())
	assert.Equal(t, entry+8, d.PC())
	assert.Equal(t, uint32(0), machine.Reg[3]) // add hasn't executed yet
}

func TestDebuggerContinueRunsToHaltWithNoBreakpoints(t *testing.T) {
	machine, img, _ := build(t, "set r1 .5\nset r2 .7\nadd r3 r1 r2\nhlt")
	machine.Executing = true
	d := NewDebugger(machine, img)
	require.NoError(t, d.Continue())
	assert.False(t, machine.Executing)
	assert.Equal(t, uint32(12), machine.Reg[3])
}

func TestDebuggerInstructionAtFindsDecodedInstruction(t *testing.T) {
	machine, img, entry := build(t, "set r1 .5\nhlt")
	d := NewDebugger(machine, img)
	in, ok := d.InstructionAt(entry)
	require.True(t, ok)
	assert.Equal(t, "set", in.Mnemonic)
}

func TestDebuggerFormatRegistersListsAllThirtyTwo(t *testing.T) {
	machine, img, _ := build(t, "hlt")
	d := NewDebugger(machine, img)
	lines := d.FormatRegisters()
	assert.Contains(t, lines, "   pc: $00000000")
	assert.Contains(t, lines, "   sp: $0000fffc")
}

func TestDebuggerDisassemblyMarksCurrentPC(t *testing.T) {
	machine, img, entry := build(t, "set r1 .5\nset r2 .7\nhlt")
	machine.Reg[isa.RegPC] = entry
	d := NewDebugger(machine, img)
	lines := d.Disassembly(10)
	require.NotEmpty(t, lines)
	found := false
	for _, l := range lines {
		if l[:2] == "=>" {
			found = true
		}
	}
	assert.True(t, found)
}
