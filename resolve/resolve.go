// Package resolve performs the single-pass symbol resolution step (spec
// §4.5): every label-reference value source in a fully lowered program is
// replaced by the immediate address it names. An unknown label resolves
// to 0 and is reported as a warning, never a hard error — a program with
// a dangling reference is still something the emulator can load and run.
package resolve

import (
	"github.com/redthing1/regular-tools/parser"
)

// Resolve rewrites every Value in prog.Statements with Kind ==
// ValueLabelRef into Kind == ValueImmediate, using prog.Labels. Offsets
// (the ":label $N" / ":label .N" additive suffix) are added after lookup.
func Resolve(prog *parser.Program) {
	for _, s := range prog.Statements {
		for i := 0; i < s.NumOperands; i++ {
			s.Operands[i] = resolveValue(prog, s.Operands[i])
		}
	}
}

func resolveValue(prog *parser.Program, v parser.Value) parser.Value {
	if v.Kind != parser.ValueLabelRef {
		return v
	}
	addr, ok := prog.Labels.Lookup(v.Label)
	if !ok {
		prog.Errors.AddWarning(parser.Position{}, "unknown label %q, resolving to 0", v.Label)
		addr = 0
	}
	return parser.Value{Kind: parser.ValueImmediate, Immediate: uint32(int64(addr) + int64(v.Offset))}
}
