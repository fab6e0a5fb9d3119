package lexer

import "fmt"

type ErrorKind string

const (
	UnterminatedString ErrorKind = "unterminated string"
	InvalidEscape      ErrorKind = "invalid escape"
	InvalidNumber      ErrorKind = "invalid number"
	InvalidCodePoint   ErrorKind = "invalid code point"
	UnknownCharacter   ErrorKind = "unknown character"
)

// Error is a lexical error at a source position.
type Error struct {
	Kind ErrorKind
	Msg  string
	Line int
	Col  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("Lexical error at %d:%d: %s", e.Line, e.Col, e.Msg)
}
