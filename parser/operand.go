package parser

import (
	"fmt"

	"github.com/redthing1/regular-tools/isa"
)

func errUnresolvedIdent(ident string) error {
	return fmt.Errorf("expected a numeric or label operand, got identifier %q", ident)
}

var errExpectedLabelName = fmt.Errorf("expected a label name after ':'")

func errUnexpectedOperand(kind fmt.Stringer) error {
	return fmt.Errorf("unexpected token %s reading operand", kind)
}

func (o operandText) asRegister() (byte, error) {
	if o.Ident == "" {
		return 0, fmt.Errorf("expected a register operand")
	}
	code, ok := isa.RegisterCode(o.Ident)
	if !ok {
		return 0, fmt.Errorf("unknown register %q", o.Ident)
	}
	return code, nil
}

// resolveOperand turns raw operand text into a final Value, per whether
// the mnemonic's shape calls for a register or an immediate/label at this
// text position. Register operands become an immediate holding the
// register index (spec §3).
func resolveOperand(ot operandText, shape isa.OperandShape, pos int) (Value, error) {
	isReg, _ := isa.PositionKind(shape, pos)
	if isReg {
		code, err := ot.asRegister()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueImmediate, Immediate: uint32(code)}, nil
	}
	return ot.asValue()
}
