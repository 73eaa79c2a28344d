package resolve

import (
	"testing"

	"github.com/redthing1/regular-tools/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgram() *parser.Program {
	return &parser.Program{Labels: parser.NewLabelTable(), Errors: &parser.ErrorList{}}
}

func TestResolveKnownLabel(t *testing.T) {
	prog := newProgram()
	require.NoError(t, prog.Labels.Define("start", 12))
	stmt := &parser.Statement{
		NumOperands: 1,
		Operands:    [3]parser.Value{{Kind: parser.ValueLabelRef, Label: "start"}},
	}
	prog.Statements = []*parser.Statement{stmt}

	Resolve(prog)

	assert.False(t, prog.Errors.HasErrors())
	assert.Equal(t, parser.ValueImmediate, stmt.Operands[0].Kind)
	assert.Equal(t, uint32(12), stmt.Operands[0].Immediate)
}

func TestResolveAppliesAdditiveOffset(t *testing.T) {
	prog := newProgram()
	require.NoError(t, prog.Labels.Define("buf", 100))
	stmt := &parser.Statement{
		NumOperands: 1,
		Operands:    [3]parser.Value{{Kind: parser.ValueLabelRef, Label: "buf", Offset: 4}},
	}
	prog.Statements = []*parser.Statement{stmt}

	Resolve(prog)

	assert.Equal(t, uint32(104), stmt.Operands[0].Immediate)
}

func TestResolveUnknownLabelWarnsAndZeroes(t *testing.T) {
	prog := newProgram()
	stmt := &parser.Statement{
		NumOperands: 1,
		Operands:    [3]parser.Value{{Kind: parser.ValueLabelRef, Label: "missing"}},
	}
	prog.Statements = []*parser.Statement{stmt}

	Resolve(prog)

	require.NotEmpty(t, prog.Errors.Warnings)
	assert.Equal(t, uint32(0), stmt.Operands[0].Immediate)
	assert.Equal(t, parser.ValueImmediate, stmt.Operands[0].Kind)
}

func TestResolveLeavesImmediatesUntouched(t *testing.T) {
	prog := newProgram()
	stmt := &parser.Statement{
		NumOperands: 1,
		Operands:    [3]parser.Value{{Kind: parser.ValueImmediate, Immediate: 42}},
	}
	prog.Statements = []*parser.Statement{stmt}

	Resolve(prog)

	assert.Equal(t, uint32(42), stmt.Operands[0].Immediate)
	assert.False(t, prog.Errors.HasErrors())
	assert.Empty(t, prog.Errors.Warnings)
}

func TestResolveOnlyTouchesDeclaredOperandCount(t *testing.T) {
	prog := newProgram()
	require.NoError(t, prog.Labels.Define("l", 8))
	stmt := &parser.Statement{
		NumOperands: 1,
		Operands: [3]parser.Value{
			{Kind: parser.ValueLabelRef, Label: "l"},
			{Kind: parser.ValueLabelRef, Label: "untouched"},
		},
	}
	prog.Statements = []*parser.Statement{stmt}

	Resolve(prog)

	assert.Equal(t, uint32(8), stmt.Operands[0].Immediate)
	assert.Equal(t, parser.ValueLabelRef, stmt.Operands[1].Kind)
}
