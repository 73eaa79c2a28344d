// Package vm implements the _ad emulator: flat memory, a 32-register
// file, and a fetch-decode-execute loop (spec §4.7).
package vm

import (
	"bufio"
	"io"
	"os"

	"github.com/redthing1/regular-tools/codec"
	"github.com/redthing1/regular-tools/isa"
)

// VM is the complete emulator state. It owns its memory and register
// file exclusively and mutates them only through Step/execute (spec §5
// "each major collection ... is owned exclusively by its enclosing state
// object").
type VM struct {
	Mem Memory
	Reg Registers

	Executing bool
	Ticks     uint64

	Debug   bool // dump the full register file after every step
	OneStep bool // block on one line of debug input after every step

	Output     io.Writer
	DebugInput *bufio.Reader
}

// New returns a VM with a zero-initialized memory and a freshly reset
// register file (SP at the top of memory).
func New() *VM {
	return &VM{
		Reg:        NewRegisters(),
		Output:     os.Stdout,
		DebugInput: bufio.NewReader(os.Stdin),
	}
}

// Load copies a decoded binary image's data||code payload into memory at
// the given address (conventionally 0) and returns its header so the
// caller can compute the entry address (spec §4.7 Load).
func (v *VM) Load(raw []byte, address uint32) (codec.Header, error) {
	lr, err := codec.Load(raw)
	if err != nil {
		return codec.Header{}, err
	}
	if err := v.Mem.Load(address, lr.Payload); err != nil {
		return codec.Header{}, err
	}
	return lr.Header, nil
}

// Run sets PC to entry and executes until HLT or a fatal error (spec
// §4.7 Run loop).
func (v *VM) Run(entry uint32) error {
	v.Reg.setPC(entry)
	v.Executing = true
	for v.Executing {
		if err := v.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step fetches, decodes, and executes a single instruction, advancing PC
// by 4 first (so a branch instruction's target is not immediately
// overwritten), then honoring Debug/OneStep.
func (v *VM) Step() error {
	pc := v.Reg.pc()
	op := v.Mem.ReadByte(pc)
	a1 := v.Mem.ReadByte(pc + 1)
	a2 := v.Mem.ReadByte(pc + 2)
	a3 := v.Mem.ReadByte(pc + 3)
	v.Reg.setPC(pc + 4)

	if err := v.execute(isa.Opcode(op), a1, a2, a3); err != nil {
		return err
	}

	if v.Debug {
		v.dumpCPU()
	}
	v.Ticks++
	if v.OneStep {
		if err := v.pause(); err != nil {
			return err
		}
	}
	return nil
}
