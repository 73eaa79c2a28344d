package vm

import (
	"fmt"

	"github.com/redthing1/regular-tools/isa"
)

// execute dispatches one decoded instruction word against the register
// file and memory, per the corrected semantics of spec §4.7.1. Two
// source bugs are deliberately NOT reproduced here: SUB is subtraction
// (not addition), and STW's address operand is a1 (not a2).
func (v *VM) execute(op isa.Opcode, a1, a2, a3 byte) error {
	r := &v.Reg
	switch op {
	case isa.NOP:
		// no effect

	case isa.ADD:
		r[a1] = r[a2] + r[a3]

	case isa.SUB:
		r[a1] = r[a2] - r[a3]

	case isa.AND:
		r[a1] = r[a2] & r[a3]

	case isa.ORR:
		r[a1] = r[a2] | r[a3]

	case isa.XOR:
		r[a1] = r[a2] ^ r[a3]

	case isa.NOT:
		r[a1] = ^r[a2]

	case isa.LSH:
		r[a1] = logicalShift(r[a2], int32(r[a3]))

	case isa.ASH:
		r[a1] = arithmeticShift(r[a2], int32(r[a3]))

	case isa.TCU:
		r[a1] = threeWay(r[a2] < r[a3], r[a2] == r[a3])

	case isa.TCS:
		r[a1] = threeWay(int32(r[a2]) < int32(r[a3]), r[a2] == r[a3])

	case isa.SET:
		r[a1] = uint32(a2) | uint32(a3)<<8

	case isa.MOV:
		r[a1] = r[a2]

	case isa.LDW:
		r[a1] = v.Mem.ReadWord(r[a2])

	case isa.STW:
		v.Mem.WriteWord(r[a1], r[a2])

	case isa.LDB:
		r[a1] = uint32(v.Mem.ReadByte(r[a2]))

	case isa.STB:
		v.Mem.WriteByte(r[a1], byte(r[a2]))

	case isa.BRX:
		if r[a1] != 0 {
			r.setPC(r[a2])
		}

	case isa.INT:
		return v.interrupt(r[a1])

	case isa.HLT:
		v.Executing = false

	default:
		return fmt.Errorf("vm: invalid opcode 0x%02x at pc 0x%04x", byte(op), r.pc())
	}
	return nil
}

func logicalShift(v uint32, amount int32) uint32 {
	switch {
	case amount >= 32 || amount <= -32:
		return 0
	case amount >= 0:
		return v << uint(amount)
	default:
		return v >> uint(-amount)
	}
}

func arithmeticShift(v uint32, amount int32) uint32 {
	switch {
	case amount >= 32:
		return 0
	case amount >= 0:
		return v << uint(amount)
	case amount <= -32:
		if int32(v) < 0 {
			return 0xFFFFFFFF
		}
		return 0
	default:
		return uint32(int32(v) >> uint(-amount))
	}
}

// threeWay implements TCU/TCS: -1 if lt, 0 if eq, else 1.
func threeWay(lt, eq bool) uint32 {
	switch {
	case eq:
		return 0
	case lt:
		return uint32(int32(-1))
	default:
		return 1
	}
}
