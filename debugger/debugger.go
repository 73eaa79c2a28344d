// Package debugger layers stepping, breakpoints, and a disassembly view
// on top of a running vm.VM — a headless line-mode driver for `--step`
// and a tview/tcell TUI for interactive use.
package debugger

import (
	"fmt"
	"strings"

	"github.com/redthing1/regular-tools/codec"
	"github.com/redthing1/regular-tools/isa"
	"github.com/redthing1/regular-tools/vm"
)

// Debugger wraps a VM with breakpoint management and an address-indexed
// disassembly, the non-UI core shared by the headless driver and the
// TUI.
type Debugger struct {
	VM          *vm.VM
	Image       *codec.Image
	Breakpoints *BreakpointManager

	instrByAddr map[uint32]codec.Instruction
}

// NewDebugger builds a Debugger over machine, indexing img's decoded
// instructions by address for O(1) disassembly lookup at the current PC.
func NewDebugger(machine *vm.VM, img *codec.Image) *Debugger {
	d := &Debugger{
		VM:          machine,
		Image:       img,
		Breakpoints: NewBreakpointManager(),
		instrByAddr: make(map[uint32]codec.Instruction, len(img.Instructions)),
	}
	for _, in := range img.Instructions {
		d.instrByAddr[in.Address] = in
	}
	return d
}

// InstructionAt returns the decoded instruction at addr, if any.
func (d *Debugger) InstructionAt(addr uint32) (codec.Instruction, bool) {
	in, ok := d.instrByAddr[addr]
	return in, ok
}

// PC returns the current program counter.
func (d *Debugger) PC() uint32 {
	return d.VM.Reg[isa.RegPC]
}

// Step executes a single instruction.
func (d *Debugger) Step() error {
	return d.VM.Step()
}

// Continue steps until a breakpoint address is reached or the machine
// halts. The breakpoint check happens after each step, so a Continue
// issued from a breakpoint address always makes forward progress.
func (d *Debugger) Continue() error {
	for d.VM.Executing {
		if err := d.VM.Step(); err != nil {
			return err
		}
		if d.Breakpoints.Has(d.PC()) {
			return nil
		}
	}
	return nil
}

// FormatRegisters renders the full register file, one per line, in the
// same "%5s: $%08x" form as the emulator's own DUMPCPU interrupt.
func (d *Debugger) FormatRegisters() string {
	var b strings.Builder
	for i := 0; i <= isa.RegMax; i++ {
		fmt.Fprintf(&b, "%5s: $%08x\n", isa.RegisterName(byte(i)), d.VM.Reg[i])
	}
	return b.String()
}

// Disassembly returns up to window instructions centered as closely as
// possible on the current PC, each line prefixed with its address and a
// "=>" marker on the current instruction, for the TUI and headless
// "list" command alike. When PC is not the address of any decoded
// instruction, every instruction is returned and none is marked.
func (d *Debugger) Disassembly(window int) []string {
	pc := d.PC()
	lines := make([]string, 0, len(d.Image.Instructions))
	idx := -1
	for i, in := range d.Image.Instructions {
		if in.Address == pc {
			idx = i
		}
	}
	lo, hi := 0, len(d.Image.Instructions)
	if idx >= 0 {
		lo = idx - window/2
		if lo < 0 {
			lo = 0
		}
		hi = lo + window
		if hi > len(d.Image.Instructions) {
			hi = len(d.Image.Instructions)
		}
	}
	for _, in := range d.Image.Instructions[lo:hi] {
		marker := "  "
		if in.Address == pc {
			marker = "=>"
		}
		bp := " "
		if d.Breakpoints.Has(in.Address) {
			bp = "*"
		}
		lines = append(lines, fmt.Sprintf("%s%s%s: %s", marker, bp, codec.FormatAddress(in.Address), codec.FormatInstruction(in)))
	}
	return lines
}
