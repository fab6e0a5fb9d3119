package lexer

import "fmt"

type TokenType string

const (
	EOF TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	IF     TokenType = "IF"
	ELSE   TokenType = "ELSE"
	WHILE  TokenType = "WHILE"
	FUNC   TokenType = "FUNC"
	RETURN TokenType = "RETURN"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"

	AND TokenType = "AND"
	OR  TokenType = "OR"
	NOT TokenType = "NOT"

	ASSIGN       TokenType = "ASSIGN"
	PLUS_ASSIGN  TokenType = "PLUS_ASSIGN"
	MINUS_ASSIGN TokenType = "MINUS_ASSIGN"
	STAR_ASSIGN  TokenType = "STAR_ASSIGN"
	SLASH_ASSIGN TokenType = "SLASH_ASSIGN"

	PLUS  TokenType = "PLUS"
	MINUS TokenType = "MINUS"
	STAR  TokenType = "STAR"
	SLASH TokenType = "SLASH"

	EQ  TokenType = "EQ"
	NEQ TokenType = "NEQ"
	LT  TokenType = "LT"
	GT  TokenType = "GT"
	LTE TokenType = "LTE"
	GTE TokenType = "GTE"

	LPAREN TokenType = "LPAREN"
	RPAREN TokenType = "RPAREN"
	LBRACE TokenType = "LBRACE"
	RBRACE TokenType = "RBRACE"
	COMMA  TokenType = "COMMA"
	DOT    TokenType = "DOT"
)

type Token struct {
	Type   TokenType `yaml:"type"`
	Lexeme string    `yaml:"lexeme,omitempty"`
	Line   int       `yaml:"line"`
	Col    int       `yaml:"col"`
}

func (t Token) String() string {
	switch t.Type {
	case STRING:
		return fmt.Sprintf("%s(%q) @ %d:%d", t.Type, t.Lexeme, t.Line, t.Col)
	case IDENT, NUMBER:
		return fmt.Sprintf("%s(%s) @ %d:%d", t.Type, t.Lexeme, t.Line, t.Col)
	default:
		return fmt.Sprintf("%s @ %d:%d", t.Type, t.Line, t.Col)
	}
}

// Is reports whether the token has one of the given types.
func (t Token) Is(types ...TokenType) bool {
	for _, tt := range types {
		if t.Type == tt {
			return true
		}
	}
	return false
}

var keywords = map[string]TokenType{
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"true":   TRUE,
	"false":  FALSE,
	"func":   FUNC,
	"return": RETURN,
}

// LookupIdent maps reserved words to their keyword type. Keywords are
// case sensitive.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}
