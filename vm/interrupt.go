package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/redthing1/regular-tools/isa"
)

// Interrupt codes (spec §4.7.2). Unknown codes are logged to the debug
// sink and ignored — they never halt execution.
const (
	IntPause   = 0x01
	IntDumpCPU = 0x02
	IntDumpMem = 0x03
	IntDumpStk = 0x04
)

func (v *VM) interrupt(code uint32) error {
	switch code {
	case IntPause:
		return v.pause()
	case IntDumpCPU:
		v.dumpCPU()
	case IntDumpMem:
		fmt.Fprintln(v.Output, "== MEM == (future)")
	case IntDumpStk:
		v.dumpStack()
	default:
		fmt.Fprintf(v.Output, "unknown interrupt code 0x%02x, ignored\n", code)
	}
	return nil
}

// pause blocks on one line of input from the debug stream (spec §4.7.2,
// §5 "the emulator's PAUSE interrupt ... reading one line from a
// dedicated debug input stream").
func (v *VM) pause() error {
	if v.DebugInput == nil {
		return nil
	}
	_, err := v.DebugInput.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("vm: pause: %w", err)
	}
	return nil
}

// dumpCPU prints the full register file to the debug sink, one register
// per line in the "%5s: $%08x" form of the original emulator's register
// dump (§9: a supplemented feature carried into this rewrite).
func (v *VM) dumpCPU() {
	fmt.Fprintln(v.Output, "== STATE ==")
	for i := 0; i <= isa.RegMax; i++ {
		fmt.Fprintf(v.Output, "%5s: $%08x\n", isa.RegisterName(byte(i)), v.Reg[i])
	}
}

// dumpStack dumps every u32 from SP through memory end (spec §4.7.2
// DUMPSTK).
func (v *VM) dumpStack() {
	fmt.Fprintln(v.Output, "== STACK ==")
	for addr := v.Reg[isa.RegSP]; addr+4 <= MemSize; addr += 4 {
		fmt.Fprintf(v.Output, "$%04x: $%08x\n", addr, v.Mem.ReadWord(addr))
	}
}
