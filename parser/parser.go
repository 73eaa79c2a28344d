// Package parser consumes a lexer token stream and produces a source
// Program: statements with unresolved value sources, a label table, a
// macro table, and a data blob (spec §4.3).
package parser

import (
	"encoding/hex"

	"github.com/redthing1/regular-tools/isa"
	"github.com/redthing1/regular-tools/lexer"
)

// Parser turns a flat token slice into a Program. It is single-pass and
// threads all state through this struct — no globals, no singletons
// (spec §9 design note).
type Parser struct {
	tokens []lexer.Token
	pos    int
	offset uint32
	prog   *Program
}

// Parse builds a Program from tokens. It never returns an error itself —
// fatal conditions are recorded in the returned Program's Errors and the
// caller decides what to do with a partial program (spec §4.3
// Finalization, §7).
func Parse(tokens []lexer.Token) *Program {
	p := &Parser{tokens: tokens}
	p.prog = &Program{
		Labels: NewLabelTable(),
		Macros: NewMacroTable(),
		Errors: &ErrorList{},
	}

	nopInfo, _ := isa.Lookup("nop")
	p.prog.Statements = append(p.prog.Statements, &Statement{Mnemonic: "nop", Info: nopInfo, Address: 0})
	p.offset = 4

	for p.peek().Kind != lexer.EOF {
		p.parseTopLevel()
	}

	p.finalize()
	return p.prog
}

func (p *Parser) peek() lexer.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) next() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(pos Position, kind Kind, format string, args ...any) {
	p.prog.Errors.AddError(pos, kind, format, args...)
}

func (p *Parser) parseTopLevel() {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Directive:
		p.parseDirective()
	case lexer.Ident:
		switch {
		case p.peekAt(1).Kind == lexer.Mark && p.peekAt(1).Literal == ":":
			p.parseLabelDef()
		case p.peekAt(1).Kind == lexer.Bind:
			p.parseMacroDef()
		default:
			p.parseInstructionOrInvocation()
		}
	default:
		p.errorf(tok.Pos, KindParse, "unexpected token %s", tok.Kind)
		p.next()
	}
}

func (p *Parser) parseDirective() {
	tok := p.next()
	switch tok.Literal {
	case "entry":
		mark := p.next()
		if mark.Kind != lexer.Mark || mark.Literal != ":" {
			p.errorf(tok.Pos, KindParse, "#entry expects ':name'")
			return
		}
		name := p.next()
		if name.Kind != lexer.Ident {
			p.errorf(tok.Pos, KindParse, "#entry expects a label name")
			return
		}
		p.prog.EntryLabel = name.Literal
	case "d":
		p.parseDataDirective(tok.Pos)
	default:
		p.errorf(tok.Pos, KindParse, "unknown directive %q", tok.Literal)
	}
}

func (p *Parser) parseDataDirective(pos Position) {
	ps := p.next()
	if ps.Kind != lexer.PackStart {
		p.errorf(pos, KindParse, "#d expects a data pack")
		return
	}

	if p.peek().Kind == lexer.Quot {
		p.next()
		tok := p.next()
		if tok.Kind == lexer.EOF {
			p.errorf(pos, KindParse, `#d \' expects a literal token`)
			return
		}
		p.appendData([]byte(tok.Literal))
		return
	}

	// hex pack: PACK_START, an ALPHA-run disambiguator (conventionally "x"),
	// then the hex digits themselves as a further token.
	disamb := p.next()
	if disamb.Kind != lexer.Ident {
		p.errorf(pos, KindParse, `#d \x expects a hex-pack marker`)
		return
	}
	tok := p.next()
	if tok.Kind != lexer.Ident {
		p.errorf(pos, KindParse, `#d \x expects a hex run`)
		return
	}
	raw := tok.Literal
	if len(raw)%2 != 0 {
		p.errorf(pos, KindParse, "odd-length hex pack %q", raw)
		return
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		p.errorf(pos, KindParse, "invalid hex pack %q: %v", raw, err)
		return
	}
	p.appendData(decoded)
}

func (p *Parser) appendData(b []byte) {
	p.prog.Data = append(p.prog.Data, b...)
	p.offset += uint32(len(b))
}

func (p *Parser) parseLabelDef() {
	nameTok := p.next()
	p.next() // ':'
	if err := p.prog.Labels.Define(nameTok.Literal, p.offset); err != nil {
		p.errorf(nameTok.Pos, KindParse, "%v", err)
	}
}

// readOperandText consumes the tokens composing one operand slot: a
// label reference (':' name, with an optional numeric additive offset),
// a numeric literal, or a bare identifier (a register name, or — inside a
// macro body/invocation — a formal parameter reference).
func (p *Parser) readOperandText() (operandText, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Mark:
		if tok.Literal != ":" {
			break
		}
		p.next()
		name := p.next()
		if name.Kind != lexer.Ident {
			return operandText{}, errExpectedLabelName
		}
		ot := operandText{IsLabel: true, Label: name.Literal}
		if p.peek().Kind == lexer.Numeric {
			offTok := p.next()
			val, err := parseNumericLiteral(offTok.Literal)
			if err != nil {
				return operandText{}, err
			}
			ot.Offset = int32(val)
		}
		return ot, nil
	case lexer.Numeric:
		p.next()
		val, err := parseNumericLiteral(tok.Literal)
		if err != nil {
			return operandText{}, err
		}
		return operandText{IsImmediate: true, Immediate: val}, nil
	case lexer.Ident:
		p.next()
		return operandText{Ident: tok.Literal}, nil
	}
	return operandText{}, errUnexpectedOperand(tok.Kind)
}

func (p *Parser) readOperandsRaw(shape isa.OperandShape) ([3]operandText, int, error) {
	var ops [3]operandText
	n := isa.NumOperands(shape)
	for i := 0; i < n; i++ {
		if i > 0 && p.peek().Kind == lexer.ArgSep {
			p.next()
		}
		ot, err := p.readOperandText()
		if err != nil {
			return ops, i, err
		}
		ops[i] = ot
	}
	return ops, n, nil
}

func (p *Parser) parseMacroDef() {
	nameTok := p.next()
	p.next() // '@'

	var params []Param
	for {
		tok := p.peek()
		if tok.Kind == lexer.Mark && tok.Literal == ":" {
			p.next()
			break
		}
		if tok.Kind == lexer.EOF {
			p.errorf(tok.Pos, KindParse, "unterminated parameter list for macro %q", nameTok.Literal)
			return
		}
		if tok.Kind != lexer.Ident {
			p.errorf(tok.Pos, KindParse, "expected macro parameter name, got %s", tok.Kind)
			p.next()
			continue
		}
		p.next()
		kind := ParamVal
		if len(tok.Literal) > 0 && tok.Literal[0] == 'r' {
			kind = ParamReg
		}
		params = append(params, Param{Name: tok.Literal, Kind: kind})
	}

	var body []MacroBodyStatement
	for {
		tok := p.peek()
		if tok.Kind == lexer.Mark && tok.Literal == "::" {
			p.next()
			break
		}
		if tok.Kind == lexer.EOF {
			p.errorf(tok.Pos, KindParse, "unterminated body for macro %q", nameTok.Literal)
			break
		}
		if tok.Kind != lexer.Ident {
			p.errorf(tok.Pos, KindParse, "expected mnemonic in macro body, got %s", tok.Kind)
			p.next()
			continue
		}
		mnemTok := p.next()
		info, ok := isa.Lookup(mnemTok.Literal)
		if !ok {
			p.errorf(mnemTok.Pos, KindParse, "unknown mnemonic %q in macro body", mnemTok.Literal)
			continue
		}
		args, n, err := p.readOperandsRaw(info.Shape)
		if err != nil {
			p.errorf(mnemTok.Pos, KindParse, "%v", err)
			continue
		}
		body = append(body, MacroBodyStatement{Mnemonic: mnemTok.Literal, Info: info, Args: args, NumArgs: n})
	}

	if warning := p.prog.Macros.Define(&Macro{Name: nameTok.Literal, Params: params, Body: body}); warning != "" {
		p.prog.Errors.AddWarning(nameTok.Pos, "%s", warning)
	}
}

func (p *Parser) parseInstructionOrInvocation() {
	mnemTok := p.next()
	if info, ok := isa.Lookup(mnemTok.Literal); ok {
		p.emitStatement(mnemTok, info)
		return
	}
	if macro, ok := p.prog.Macros.Lookup(mnemTok.Literal); ok {
		p.expandMacroInvocation(mnemTok, macro)
		return
	}
	p.errorf(mnemTok.Pos, KindParse, "unknown mnemonic %q", mnemTok.Literal)
}

func (p *Parser) emitStatement(mnemTok lexer.Token, info isa.Info) {
	raw, n, err := p.readOperandsRaw(info.Shape)
	if err != nil {
		p.errorf(mnemTok.Pos, KindParse, "%v", err)
		return
	}

	stmt := &Statement{Mnemonic: mnemTok.Literal, Info: info, NumOperands: n, Address: p.offset}
	for i := 0; i < n; i++ {
		val, err := resolveOperand(raw[i], info.Shape, i+1)
		if err != nil {
			p.errorf(mnemTok.Pos, KindParse, "%v", err)
			return
		}
		stmt.Operands[i] = val
	}
	p.prog.Statements = append(p.prog.Statements, stmt)
	p.offset += uint32(info.ExpandedSize)
}

func (p *Parser) expandMacroInvocation(nameTok lexer.Token, macro *Macro) {
	bindings := make(map[string]operandText, len(macro.Params))
	for i, param := range macro.Params {
		if i > 0 && p.peek().Kind == lexer.ArgSep {
			p.next()
		}
		ot, err := p.readOperandText()
		if err != nil {
			p.errorf(nameTok.Pos, KindParse, "macro %q: %v", macro.Name, err)
			return
		}
		bindings[param.Name] = ot
	}

	for _, body := range macro.Body {
		stmt := &Statement{Mnemonic: body.Mnemonic, Info: body.Info, NumOperands: body.NumArgs, Address: p.offset}
		for i := 0; i < body.NumArgs; i++ {
			arg := body.Args[i]
			if bound, ok := bindings[arg.Ident]; arg.Ident != "" && ok {
				arg = bound
			}
			val, err := resolveOperand(arg, body.Info.Shape, i+1)
			if err != nil {
				p.errorf(nameTok.Pos, KindParse, "macro %q: %v", macro.Name, err)
				return
			}
			stmt.Operands[i] = val
		}
		p.prog.Statements = append(p.prog.Statements, stmt)
		p.offset += uint32(body.Info.ExpandedSize)
	}
}

// finalize patches the reserved entry-jump placeholder once the whole
// program — and so the label table — is known (spec §4.3 Finalization).
func (p *Parser) finalize() {
	if p.prog.EntryLabel == "" {
		return
	}
	addr, ok := p.prog.Labels.Lookup(p.prog.EntryLabel)
	if !ok {
		p.prog.Errors.AddWarning(Position{}, "undefined entry label %q, defaulting entry to 0", p.prog.EntryLabel)
		addr = 0
	}
	jmiInfo, _ := isa.Lookup("jmi")
	p.prog.Statements[0] = &Statement{
		Mnemonic:    "jmi",
		Info:        jmiInfo,
		NumOperands: 1,
		Address:     0,
		Operands:    [3]Value{{Kind: ValueImmediate, Immediate: addr}},
	}
}
