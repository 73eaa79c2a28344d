package vm

import "github.com/redthing1/regular-tools/isa"

// Registers is the emulator's 32-entry register file (spec §4.7): index 0
// is the program counter, 1-28 are general purpose, 29 is AD (the call
// return-address scratch register), 30 is AT (the assembler's implicit
// scratch register for pseudo-instruction lowering), 31 is SP.
type Registers [isa.RegMax + 1]uint32

// NewRegisters returns a zero-initialized register file with SP set to
// the top of memory (spec §4.7: "SP ← mem_size − 4").
func NewRegisters() Registers {
	var r Registers
	r[isa.RegSP] = MemSize - 4
	return r
}

func (r *Registers) pc() uint32    { return r[isa.RegPC] }
func (r *Registers) setPC(v uint32) { r[isa.RegPC] = v }
