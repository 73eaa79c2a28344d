package codec

import (
	"bytes"
	"testing"

	"github.com/redthing1/regular-tools/isa"
	"github.com/redthing1/regular-tools/lexer"
	"github.com/redthing1/regular-tools/lower"
	"github.com/redthing1/regular-tools/parser"
	"github.com/redthing1/regular-tools/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *parser.Program {
	t.Helper()
	var diag bytes.Buffer
	toks := lexer.New([]byte(src), &diag).TokenizeAll()
	prog := parser.Parse(toks)
	require.False(t, prog.Errors.HasErrors())
	lower.Lower(prog)
	resolve.Resolve(prog)
	return prog
}

func TestHeaderRoundTrip(t *testing.T) {
	raw := Header{CodeSize: 12, DataSize: 4}.encode()
	require.Len(t, raw, headerSize)
	assert.Equal(t, byte('r'), raw[0])
	assert.Equal(t, byte('g'), raw[1])

	h, ok := decodeHeader(raw)
	require.True(t, ok)
	assert.Equal(t, uint16(12), h.CodeSize)
	assert.Equal(t, uint16(4), h.DataSize)
	assert.Equal(t, byte(0), raw[6])
	assert.Equal(t, byte(0), raw[7])
}

func TestEncodeEmptySourceIsFourByteCode(t *testing.T) {
	prog := compile(t, "")
	raw, err := Encode(prog, false)
	require.NoError(t, err)

	h, ok := decodeHeader(raw)
	require.True(t, ok)
	assert.Equal(t, uint16(4), h.CodeSize)
	assert.Equal(t, uint16(0), h.DataSize)
	assert.Len(t, raw, headerSize+4)
}

func TestEncodeCompatModeOmitsHeader(t *testing.T) {
	prog := compile(t, "hlt")
	raw, err := Encode(prog, true)
	require.NoError(t, err)
	assert.Len(t, raw, 8) // placeholder nop + hlt, 4 bytes each
	assert.NotEqual(t, byte('r'), raw[0])
}

func TestDecodeRejectsBadCodeSize(t *testing.T) {
	_, err := Load([]byte{'r', 'g', 3, 0, 0, 0, 0, 0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrBadCodeSize)
}

func TestDecodeBareCodeFallback(t *testing.T) {
	raw := []byte{byte(isa.HLT), 0, 0, 0}
	lr, err := Load(raw)
	require.NoError(t, err)
	assert.False(t, lr.HasHeader)
	assert.Equal(t, uint16(4), lr.Header.CodeSize)
	assert.Equal(t, uint16(0), lr.Header.DataSize)
}

func TestRoundTripEncodeDecodePreservesInstructions(t *testing.T) {
	prog := compile(t, "set r1 .5\nset r2 .7\nadd r3 r1 r2\nhlt")
	raw, err := Encode(prog, false)
	require.NoError(t, err)

	img, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, img.Instructions, len(prog.Statements))

	for i, s := range prog.Statements {
		got := img.Instructions[i]
		assert.Equal(t, s.Mnemonic, got.Mnemonic, "statement %d", i)
		assert.Equal(t, s.NumOperands, got.NumOperands, "statement %d", i)
		for j := 0; j < s.NumOperands; j++ {
			assert.Equal(t, s.Operands[j].Immediate, got.Operands[j], "statement %d operand %d", i, j)
		}
	}
}

func TestDataBlobSurvivesRoundTrip(t *testing.T) {
	prog := compile(t, `#d \x cafebabe`)
	raw, err := Encode(prog, false)
	require.NoError(t, err)

	img, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe, 0xba, 0xbe}, img.Data)
}

func TestJmiLowersToSetWithI216BitImmediate(t *testing.T) {
	prog := compile(t, "#entry :start\nstart: hlt")
	raw, err := Encode(prog, false)
	require.NoError(t, err)

	img, err := Decode(raw)
	require.NoError(t, err)
	jmi := img.Instructions[0]
	assert.Equal(t, "set", jmi.Mnemonic) // jmi lowers to set pc imm
	assert.Equal(t, uint32(isa.RegPC), jmi.Operands[0])
	assert.Equal(t, uint32(4), jmi.Operands[1]) // start's offset, after the placeholder
}

func TestCodeSizeEqualsSumOfExpandedSizes(t *testing.T) {
	prog := compile(t, "cal r1\nret\npsh r2\npop r3")
	raw, err := Encode(prog, false)
	require.NoError(t, err)
	h, ok := decodeHeader(raw)
	require.True(t, ok)
	assert.Equal(t, 4+24+16+12+12, int(h.CodeSize))
}
