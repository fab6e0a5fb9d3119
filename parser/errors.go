package parser

import (
	"fmt"

	"kody/ast"
	"kody/lexer"
)

type ErrorKind string

const (
	MalformedFunction   ErrorKind = "malformed function"
	MalformedIf         ErrorKind = "malformed if"
	MalformedWhile      ErrorKind = "malformed while"
	Unmatched           ErrorKind = "unmatched bracket"
	InvalidAssignment   ErrorKind = "invalid assignment"
	DoubleAdditive      ErrorKind = "double additive operator"
	EmptyProgram        ErrorKind = "empty program"
	MalformedExpression ErrorKind = "malformed expression"
	UnexpectedToken     ErrorKind = "unexpected token"
)

// Error is a parse failure. Span is zero when the problem is at the end of
// the input.
type Error struct {
	Kind ErrorKind
	Msg  string
	Span ast.Span
	Got  lexer.TokenType
}

func (e *Error) Error() string {
	if !e.Span.Known() {
		return fmt.Sprintf("Parse error: %s at end of input", e.Msg)
	}
	return fmt.Sprintf("Parse error: %s at %d:%d (got %s)", e.Msg, e.Span.Line, e.Span.Col, e.Got)
}

func errAt(tok lexer.Token, kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Span: sp(tok), Got: tok.Type}
}

func errEnd(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Got: lexer.EOF}
}

func sp(tok lexer.Token) ast.Span { return ast.Span{Line: tok.Line, Col: tok.Col} }
