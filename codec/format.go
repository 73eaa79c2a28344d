package codec

import (
	"fmt"
	"strings"

	"github.com/redthing1/regular-tools/isa"
)

// FormatInstruction renders a decoded instruction back to source-like
// text, e.g. "add r3 r1 r2" or "set r1 $0005" — register operands by
// name, immediates in hex, matching the assembler's own mnemonic/operand
// ordering (spec §4.1). Used by both the disassembler CLI and the
// debugger's disassembly panel.
func FormatInstruction(in Instruction) string {
	info, ok := isa.LookupOpcode(in.Opcode)
	if !ok {
		return in.Mnemonic
	}

	var b strings.Builder
	b.WriteString(info.Mnemonic)
	for i := 0; i < in.NumOperands; i++ {
		pos := i + 1
		isReg, _ := isa.PositionKind(info.Shape, pos)
		b.WriteByte(' ')
		if isReg {
			b.WriteString(isa.RegisterName(byte(in.Operands[i])))
		} else {
			fmt.Fprintf(&b, "$%04x", in.Operands[i])
		}
	}
	return b.String()
}

// FormatAddress renders an address the way the disassembler lists it.
func FormatAddress(addr uint32) string {
	return fmt.Sprintf("%04x", addr)
}
