package codec

import (
	"fmt"

	"github.com/redthing1/regular-tools/isa"
	"github.com/redthing1/regular-tools/parser"
)

// Instruction is one decoded 4-byte code word: its address, opcode, and
// unpacked operand values (registers and immediates alike, per spec §3 —
// a register operand is just an immediate holding its index).
type Instruction struct {
	Address     uint32
	Opcode      isa.Opcode
	Mnemonic    string
	Operands    [3]uint32
	NumOperands int
}

// Image is a fully decoded binary: header info, the data blob, and every
// instruction in the code region. Produced by Decode, consumed by the
// disassembler.
type Image struct {
	Header       Header
	HasHeader    bool
	Data         []byte
	Instructions []Instruction
}

// Encode serializes a fully lowered and resolved Program to its binary
// form (spec §4.6). compat suppresses the 8-byte header, writing data
// then code with no preamble. Encode fails if any statement still names
// a pseudo-instruction — that means lower.Lower was never run.
func Encode(prog *parser.Program, compat bool) ([]byte, error) {
	code := make([]byte, 0, len(prog.Statements)*4)
	for _, s := range prog.Statements {
		if s.Info.Pseudo != isa.PseudoNone {
			return nil, fmt.Errorf("codec: statement %q is still a pseudo-instruction", s.Mnemonic)
		}
		b := packOperands(s.Info.Shape, s.Operands, s.NumOperands)
		b[0] = byte(s.Info.Opcode)
		code = append(code, b[:]...)
	}

	if compat {
		out := make([]byte, 0, len(prog.Data)+len(code))
		out = append(out, prog.Data...)
		out = append(out, code...)
		return out, nil
	}

	h := Header{CodeSize: uint16(len(code)), DataSize: uint16(len(prog.Data))}
	out := h.encode()
	out = append(out, prog.Data...)
	out = append(out, code...)
	return out, nil
}

// LoadResult is the codec reader's output for the emulator loader: the
// resolved header (real or synthesized for a bare-code file) and the
// data||code payload ready to be copied into memory at the load address.
type LoadResult struct {
	Header    Header
	HasHeader bool
	Payload   []byte
}

// Load reads a binary image's header (if present) and validates
// code_size, without decoding individual instructions (spec §4.6 Read).
func Load(raw []byte) (LoadResult, error) {
	if h, ok := decodeHeader(raw); ok {
		if h.CodeSize%4 != 0 {
			return LoadResult{}, ErrBadCodeSize
		}
		want := headerSize + int(h.DataSize) + int(h.CodeSize)
		if len(raw) < want {
			return LoadResult{}, fmt.Errorf("codec: truncated image: want %d bytes, have %d", want, len(raw))
		}
		return LoadResult{Header: h, HasHeader: true, Payload: raw[headerSize:want]}, nil
	}

	if len(raw)%4 != 0 {
		return LoadResult{}, ErrBadCodeSize
	}
	return LoadResult{
		Header:  Header{CodeSize: uint16(len(raw)), DataSize: 0},
		Payload: raw,
	}, nil
}

// Decode fully decodes a binary image into an Image, instruction by
// instruction, for the disassembler. An unrecognized opcode in the code
// region is reported as a raw data-byte instruction rather than failing
// the whole decode — the disassembler's job is to show the reader what
// is there, not to validate it.
func Decode(raw []byte) (*Image, error) {
	lr, err := Load(raw)
	if err != nil {
		return nil, err
	}
	data := lr.Payload[:lr.Header.DataSize]
	code := lr.Payload[lr.Header.DataSize:]

	img := &Image{Header: lr.Header, HasHeader: lr.HasHeader, Data: data}
	for off := 0; off+4 <= len(code); off += 4 {
		word := [4]byte{code[off], code[off+1], code[off+2], code[off+3]}
		addr := uint32(lr.Header.DataSize) + uint32(off)
		op := isa.Opcode(word[0])
		info, ok := isa.LookupOpcode(op)
		if !ok {
			img.Instructions = append(img.Instructions, Instruction{
				Address:  addr,
				Opcode:   op,
				Mnemonic: fmt.Sprintf("db $%02x%02x%02x%02x", word[0], word[1], word[2], word[3]),
			})
			continue
		}
		n := isa.NumOperands(info.Shape)
		vals := unpackOperands(info.Shape, word, n)
		img.Instructions = append(img.Instructions, Instruction{
			Address:     addr,
			Opcode:      op,
			Mnemonic:    info.Mnemonic,
			Operands:    vals,
			NumOperands: n,
		})
	}
	return img, nil
}

// packOperands places up to three operand values into the a1/a2/a3 bytes
// of an instruction word, per shape (spec §4.1): a register operand
// occupies exactly its text position's byte; an immediate operand spans
// from its position's byte through a3, little-endian.
func packOperands(shape isa.OperandShape, operands [3]parser.Value, n int) [4]byte {
	var out [4]byte
	for i := 0; i < n; i++ {
		pos := i + 1
		isReg, isImm := isa.PositionKind(shape, pos)
		v := operands[i].Immediate
		switch {
		case isReg:
			out[pos] = byte(v)
		case isImm && pos == 1:
			out[1], out[2], out[3] = byte(v), byte(v>>8), byte(v>>16)
		case isImm && pos == 2:
			out[2], out[3] = byte(v), byte(v>>8)
		case isImm && pos == 3:
			out[3] = byte(v)
		}
	}
	return out
}

func unpackOperands(shape isa.OperandShape, word [4]byte, n int) [3]uint32 {
	var vals [3]uint32
	for i := 0; i < n; i++ {
		pos := i + 1
		isReg, isImm := isa.PositionKind(shape, pos)
		switch {
		case isReg:
			vals[i] = uint32(word[pos])
		case isImm && pos == 1:
			vals[i] = uint32(word[1]) | uint32(word[2])<<8 | uint32(word[3])<<16
		case isImm && pos == 2:
			vals[i] = uint32(word[2]) | uint32(word[3])<<8
		case isImm && pos == 3:
			vals[i] = uint32(word[3])
		}
	}
	return vals
}
