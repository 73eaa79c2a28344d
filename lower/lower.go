// Package lower expands pseudo-instruction statements into sequences of
// base-opcode statements (spec §4.4). Expansion is a fixed point reached
// in at most two passes: cal expands into base instructions plus the
// pseudo instructions psh and jmp, and ret into the pseudo instructions
// pop and jmp; the second pass resolves those down to base opcodes only.
package lower

import (
	"github.com/redthing1/regular-tools/isa"
	"github.com/redthing1/regular-tools/parser"
)

const maxPasses = 2

// Lower rewrites prog.Statements in place so that every remaining
// statement names a base opcode. It preserves each original statement's
// total expanded byte size, so label offsets computed during parsing
// remain valid without any further adjustment.
func Lower(prog *parser.Program) {
	for i := 0; i < maxPasses && hasPseudo(prog.Statements); i++ {
		prog.Statements = expandPass(prog.Statements)
	}
	readdress(prog.Statements)
}

func hasPseudo(stmts []*parser.Statement) bool {
	for _, s := range stmts {
		if s.Info.Pseudo != isa.PseudoNone {
			return true
		}
	}
	return false
}

func expandPass(stmts []*parser.Statement) []*parser.Statement {
	out := make([]*parser.Statement, 0, len(stmts))
	for _, s := range stmts {
		if s.Info.Pseudo == isa.PseudoNone {
			out = append(out, s)
			continue
		}
		out = append(out, expandOne(s)...)
	}
	return out
}

// readdress walks the fully lowered statement list and assigns each
// statement's Address as a running sum starting from the first
// statement's original offset. Every base instruction is exactly 4
// bytes, so this is a plain 4-byte stride.
func readdress(stmts []*parser.Statement) {
	if len(stmts) == 0 {
		return
	}
	addr := stmts[0].Address
	for _, s := range stmts {
		s.Address = addr
		addr += 4
	}
}

func reg(code byte) parser.Value {
	return parser.Value{Kind: parser.ValueImmediate, Immediate: uint32(code)}
}

func base(mnemonic string) isa.Info {
	info, ok := isa.Lookup(mnemonic)
	if !ok {
		panic("lower: unknown base mnemonic " + mnemonic)
	}
	return info
}

func stmt(mnemonic string, operands ...parser.Value) *parser.Statement {
	info := base(mnemonic)
	s := &parser.Statement{Mnemonic: mnemonic, Info: info, NumOperands: len(operands)}
	copy(s.Operands[:], operands)
	return s
}

// expandOne expands a single pseudo statement into its replacement
// sequence, per the exact table in spec §4.4. Operand Values (including
// still-unresolved label references in immediate slots, such as jmi's
// target or adi's immediate) are copied through unchanged into the
// synthesized base statements.
func expandOne(s *parser.Statement) []*parser.Statement {
	switch s.Info.Pseudo {
	case isa.JMP:
		// jmp rA -> mov pc rA
		return []*parser.Statement{stmt("mov", reg(isa.RegPC), s.Operands[0])}

	case isa.JMI:
		// jmi imm -> set pc imm
		return []*parser.Statement{stmt("set", reg(isa.RegPC), s.Operands[0])}

	case isa.SWP:
		// swp rA rB -> mov at rA; mov rA rB; mov rB at
		rA, rB := s.Operands[0], s.Operands[1]
		return []*parser.Statement{
			stmt("mov", reg(isa.RegAT), rA),
			stmt("mov", rA, rB),
			stmt("mov", rB, reg(isa.RegAT)),
		}

	case isa.ADI:
		// adi rA imm -> set at imm; add rA rA at
		rA, imm := s.Operands[0], s.Operands[1]
		return []*parser.Statement{
			stmt("set", reg(isa.RegAT), imm),
			stmt("add", rA, rA, reg(isa.RegAT)),
		}

	case isa.SBI:
		// sbi rA imm -> set at imm; sub rA rA at
		rA, imm := s.Operands[0], s.Operands[1]
		return []*parser.Statement{
			stmt("set", reg(isa.RegAT), imm),
			stmt("sub", rA, rA, reg(isa.RegAT)),
		}

	case isa.PSH:
		// psh rA -> set at 4; sub sp sp at; stw sp rA
		rA := s.Operands[0]
		return []*parser.Statement{
			stmt("set", reg(isa.RegAT), parser.Value{Kind: parser.ValueImmediate, Immediate: 4}),
			stmt("sub", reg(isa.RegSP), reg(isa.RegSP), reg(isa.RegAT)),
			stmt("stw", reg(isa.RegSP), rA),
		}

	case isa.POP:
		// pop rA -> set at 4; ldw rA sp; add sp sp at
		rA := s.Operands[0]
		return []*parser.Statement{
			stmt("set", reg(isa.RegAT), parser.Value{Kind: parser.ValueImmediate, Immediate: 4}),
			stmt("ldw", rA, reg(isa.RegSP)),
			stmt("add", reg(isa.RegSP), reg(isa.RegSP), reg(isa.RegAT)),
		}

	case isa.CAL:
		// cal rA -> set at 16; add ad at pc; psh ad; jmp rA
		rA := s.Operands[0]
		call := &parser.Statement{Mnemonic: "psh", Info: base("psh"), NumOperands: 1}
		call.Operands[0] = reg(isa.RegAD)
		jump := &parser.Statement{Mnemonic: "jmp", Info: base("jmp"), NumOperands: 1}
		jump.Operands[0] = rA
		return []*parser.Statement{
			stmt("set", reg(isa.RegAT), parser.Value{Kind: parser.ValueImmediate, Immediate: 16}),
			stmt("add", reg(isa.RegAD), reg(isa.RegAT), reg(isa.RegPC)),
			call,
			jump,
		}

	case isa.RET:
		// ret -> pop ad; jmp ad
		popAD := &parser.Statement{Mnemonic: "pop", Info: base("pop"), NumOperands: 1}
		popAD.Operands[0] = reg(isa.RegAD)
		jump := &parser.Statement{Mnemonic: "jmp", Info: base("jmp"), NumOperands: 1}
		jump.Operands[0] = reg(isa.RegAD)
		return []*parser.Statement{popAD, jump}
	}
	return []*parser.Statement{s}
}
