package parser

import (
	"fmt"
	"strings"

	"github.com/redthing1/regular-tools/lexer"
)

// Position locates a diagnostic within the source buffer. It is the
// lexer's own position type — parse errors point at the same coordinates
// the lexer already tracked.
type Position = lexer.Position

// Kind is the unified failure taxonomy a rewrite surfaces as the process
// exit code (spec §7): io, lex, parse, resolve, codec, execute.
type Kind int

const (
	KindIO Kind = iota
	KindLex
	KindParse
	KindResolve
	KindCodec
	KindExecute
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindLex:
		return "lex"
	case KindParse:
		return "parse"
	case KindResolve:
		return "resolve"
	case KindCodec:
		return "codec"
	case KindExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// Error is a fatal diagnostic with position and kind information.
type Error struct {
	Pos     Position
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Pos.Line, e.Pos.Column, e.Kind, e.Message)
}

// Warning is a non-fatal diagnostic (e.g. undefined entry label, macro
// redefinition) that does not stop assembly.
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%d:%d: warning: %s", w.Pos.Line, w.Pos.Column, w.Message)
}

// ErrorList collects every diagnostic raised while building a Program.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning
}

// AddError records a fatal diagnostic and keeps going — the parser always
// returns a (possibly partial) Program so callers can inspect it.
func (el *ErrorList) AddError(pos Position, kind Kind, format string, args ...any) {
	el.Errors = append(el.Errors, &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// AddWarning records a non-fatal diagnostic.
func (el *ErrorList) AddWarning(pos Position, format string, args ...any) {
	el.Warnings = append(el.Warnings, &Warning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any fatal diagnostic was recorded.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) Error() string {
	var sb strings.Builder
	for _, e := range el.Errors {
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}
