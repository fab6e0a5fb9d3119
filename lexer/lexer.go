package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type Lexer struct {
	input []rune
	pos   int
	line  int
	col   int
}

func New(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		line:  1,
		col:   1,
	}
}

// Tokenize turns source text into tokens. The result never contains EOF.
func Tokenize(src string) ([]Token, error) {
	lx := New(src)
	tokens := []Token{}
	for {
		tok, err := lx.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) errAt(line, col int, kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

func (l *Lexer) NextToken() (Token, error) {
	// whitespace and comments produce no tokens
	for !l.atEnd() {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
			continue
		}
		if ch == '#' {
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}

	startLine := l.line
	startCol := l.col
	tok := func(tt TokenType, lex string) (Token, error) {
		return Token{Type: tt, Lexeme: lex, Line: startLine, Col: startCol}, nil
	}

	if l.atEnd() {
		return tok(EOF, "")
	}
	ch := l.peek()

	// identifiers/keywords
	if isAlpha(ch) || ch == '_' {
		var b strings.Builder
		for isAlphaNum(l.peek()) || l.peek() == '_' {
			b.WriteRune(l.advance())
		}
		lex := b.String()
		return tok(LookupIdent(lex), lex)
	}

	if isDigit(ch) {
		lex, err := l.readNumber(startLine, startCol)
		if err != nil {
			return Token{}, err
		}
		return tok(NUMBER, lex)
	}

	if ch == '"' {
		l.advance()
		lex, err := l.readString(startLine, startCol)
		if err != nil {
			return Token{}, err
		}
		return tok(STRING, lex)
	}

	l.advance()
	withAssign := func(plain, assign TokenType) (Token, error) {
		if l.peek() == '=' {
			l.advance()
			return tok(assign, string(ch)+"=")
		}
		return tok(plain, string(ch))
	}

	switch ch {
	case '+':
		return withAssign(PLUS, PLUS_ASSIGN)
	case '-':
		return withAssign(MINUS, MINUS_ASSIGN)
	case '*':
		return withAssign(STAR, STAR_ASSIGN)
	case '/':
		return withAssign(SLASH, SLASH_ASSIGN)
	case '=':
		return withAssign(ASSIGN, EQ)
	case '<':
		return withAssign(LT, LTE)
	case '>':
		return withAssign(GT, GTE)
	case '!':
		if l.peek() == '=' {
			l.advance()
			return tok(NEQ, "!=")
		}
	case '(':
		return tok(LPAREN, "(")
	case ')':
		return tok(RPAREN, ")")
	case '{':
		return tok(LBRACE, "{")
	case '}':
		return tok(RBRACE, "}")
	case ',':
		return tok(COMMA, ",")
	case '.':
		return tok(DOT, ".")
	}

	return Token{}, l.errAt(startLine, startCol, UnknownCharacter, "Could not match character %q to any token", ch)
}

// readNumber scans digits, '_' separators and at most one '.', and returns
// the canonical form: separators stripped, no redundant leading zeros in the
// integer part or trailing zeros in the fraction, and at least one digit on
// each side of the decimal point.
func (l *Lexer) readNumber(line, col int) (string, error) {
	var b strings.Builder
	dotSeen := false
	for {
		c := l.peek()
		switch {
		case isDigit(c):
			b.WriteRune(l.advance())
		case c == '_':
			l.advance()
		case c == '.':
			if dotSeen {
				return "", l.errAt(line, col, InvalidNumber, "Multiple decimal separators in one number")
			}
			dotSeen = true
			b.WriteRune(l.advance())
		case isAlpha(c):
			return "", l.errAt(line, col, InvalidNumber, "Found an alphabetical character %q in a number", c)
		default:
			return CanonicalNumber(b.String()), nil
		}
	}
}

// CanonicalNumber normalizes a literal made of digits and at most one '.'.
func CanonicalNumber(raw string) string {
	raw = strings.ReplaceAll(raw, "_", "")
	intPart, frac, hasDot := strings.Cut(raw, ".")
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if !hasDot {
		return intPart
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	return intPart + "." + frac
}

func (l *Lexer) readString(line, col int) (string, error) {
	var b strings.Builder
	for {
		if l.atEnd() {
			return "", l.errAt(line, col, UnterminatedString, "String literal not closed")
		}
		c := l.advance()
		if c == '"' {
			return b.String(), nil
		}
		if c != '\\' {
			b.WriteRune(c)
			continue
		}

		escLine, escCol := l.line, l.col-1
		if l.atEnd() {
			return "", l.errAt(escLine, escCol, InvalidEscape, "Found end-of-file after escape character \\")
		}
		esc := l.advance()
		switch esc {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '\n':
			// line continuation
		case 'U':
			r, err := l.readCodePoint(escLine, escCol)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		default:
			return "", l.errAt(escLine, escCol, InvalidEscape, "Expected any of \\, n, ', \" or U after escape character \\, got %q", esc)
		}
	}
}

// readCodePoint reads the "+<hex>" part of a \U+<hex> escape.
func (l *Lexer) readCodePoint(line, col int) (rune, error) {
	if l.peek() != '+' {
		return 0, l.errAt(line, col, InvalidCodePoint, "Expected '+' after \\U")
	}
	l.advance()
	var b strings.Builder
	for isHexDigit(l.peek()) {
		b.WriteRune(l.advance())
	}
	hex := b.String()
	if hex == "" {
		return 0, l.errAt(line, col, InvalidCodePoint, "Expected hexadecimal digits after \\U+")
	}
	cp, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(cp)) {
		return 0, l.errAt(line, col, InvalidCodePoint, "U+%s is not a valid Unicode code point", strings.ToUpper(hex))
	}
	return rune(cp), nil
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlphaNum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
