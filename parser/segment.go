package parser

import "kody/lexer"

// endsExpression reports whether a token of type t can be the last token of
// a complete expression.
func endsExpression(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.TRUE, lexer.FALSE, lexer.RPAREN, lexer.RBRACE:
		return true
	}
	return false
}

// startsStatement reports whether a token of type t can open a new statement.
func startsStatement(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.TRUE, lexer.FALSE,
		lexer.LBRACE, lexer.IF, lexer.WHILE, lexer.ELSE, lexer.RETURN, lexer.FUNC:
		return true
	}
	return false
}

// nextSegment splits off the first statement in toks. There are no
// separators in the language: a statement ends where a token that can end an
// expression is followed, outside any parentheses, by one that can start a
// statement. if/while constructs and braced blocks are skipped whole.
func (p *Parser) nextSegment(toks []lexer.Token) (seg, rest []lexer.Token, err error) {
	if len(toks) == 0 {
		return nil, nil, errEnd(MalformedExpression, "Expected an expression")
	}
	switch toks[0].Type {
	case lexer.IF:
		n, err := p.ifLength(toks)
		if err != nil {
			return nil, nil, err
		}
		return toks[:n], toks[n:], nil
	case lexer.WHILE:
		n, err := p.whileLength(toks)
		if err != nil {
			return nil, nil, err
		}
		return toks[:n], toks[n:], nil
	}

	i := 0
	if toks[0].Type == lexer.RETURN {
		if len(toks) == 1 || toks[1].Type == lexer.ELSE || toks[1].Type == lexer.RBRACE {
			return toks[:1], toks[1:], nil
		}
		i = 1
	}

	parens := 0
	for i < len(toks) {
		tok := toks[i]
		switch tok.Type {
		case lexer.IF:
			n, err := p.ifLength(toks[i:])
			if err != nil {
				return nil, nil, err
			}
			i += n - 1
		case lexer.WHILE:
			n, err := p.whileLength(toks[i:])
			if err != nil {
				return nil, nil, err
			}
			i += n - 1
		case lexer.LBRACE:
			end, err := matchBrace(toks, i)
			if err != nil {
				return nil, nil, err
			}
			i = end
		case lexer.LPAREN:
			parens++
		case lexer.RPAREN:
			// A ')' or ',' at depth zero belongs to an enclosing argument
			// list when this segment is a nested if/while branch.
			if parens == 0 {
				if i > 0 {
					return toks[:i], toks[i:], nil
				}
				return nil, nil, errAt(tok, Unmatched, "Unmatched ')'")
			}
			parens--
		case lexer.COMMA:
			if parens == 0 {
				if i > 0 {
					return toks[:i], toks[i:], nil
				}
				return nil, nil, errAt(tok, UnexpectedToken, "Unexpected ','")
			}
		case lexer.RBRACE:
			return nil, nil, errAt(tok, Unmatched, "Unmatched '}'")
		case lexer.FUNC:
			return nil, nil, errAt(tok, UnexpectedToken, "Unfinished expression before function definition")
		case lexer.ELSE:
			return nil, nil, errAt(tok, UnexpectedToken, "Unexpected else without if")
		case lexer.RETURN:
			return nil, nil, errAt(tok, UnexpectedToken, "Unexpected return inside expression")
		}

		if parens == 0 && endsExpression(toks[i].Type) && i+1 < len(toks) && startsStatement(toks[i+1].Type) {
			return toks[:i+1], toks[i+1:], nil
		}
		i++
	}
	return toks, nil, nil
}

type ifParts struct {
	cond, action, elseAction []lexer.Token
}

func (c ifParts) length() int {
	n := 1 + len(c.cond) + len(c.action)
	if c.elseAction != nil {
		n += 1 + len(c.elseAction)
	}
	return n
}

// splitIf divides `if COND ACTION [else ELSE]` at the front of toks.
func (p *Parser) splitIf(toks []lexer.Token) (ifParts, error) {
	var parts ifParts
	if len(toks) < 2 {
		return parts, errAt(toks[0], MalformedIf, "Expected tokens after if")
	}
	cond, rest, err := p.nextSegment(toks[1:])
	if err != nil {
		return parts, err
	}
	if len(rest) == 0 {
		return parts, errAt(toks[0], MalformedIf, "Expected tokens after condition in if expression")
	}
	action, rest, err := p.nextSegment(rest)
	if err != nil {
		return parts, err
	}
	parts.cond, parts.action = cond, action
	if len(rest) > 0 && rest[0].Type == lexer.ELSE {
		if len(rest) < 2 {
			return parts, errAt(rest[0], MalformedIf, "Expected tokens after else")
		}
		elseAction, _, err := p.nextSegment(rest[1:])
		if err != nil {
			return parts, err
		}
		parts.elseAction = elseAction
	}
	return parts, nil
}

func (p *Parser) ifLength(toks []lexer.Token) (int, error) {
	parts, err := p.splitIf(toks)
	if err != nil {
		return 0, err
	}
	return parts.length(), nil
}

// splitWhile divides `while COND ACTION` at the front of toks.
func (p *Parser) splitWhile(toks []lexer.Token) (cond, action []lexer.Token, err error) {
	if len(toks) < 2 {
		return nil, nil, errAt(toks[0], MalformedWhile, "Expected tokens after while")
	}
	cond, rest, err := p.nextSegment(toks[1:])
	if err != nil {
		return nil, nil, err
	}
	if len(rest) == 0 {
		return nil, nil, errAt(toks[0], MalformedWhile, "Expected tokens after condition in while loop")
	}
	action, _, err = p.nextSegment(rest)
	if err != nil {
		return nil, nil, err
	}
	return cond, action, nil
}

func (p *Parser) whileLength(toks []lexer.Token) (int, error) {
	cond, action, err := p.splitWhile(toks)
	if err != nil {
		return 0, err
	}
	return 1 + len(cond) + len(action), nil
}

// matchBrace returns the index of the '}' closing the '{' at toks[open].
func matchBrace(toks []lexer.Token, open int) (int, error) {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errAt(toks[open], Unmatched, "Unclosed '{'")
}

// matchParen returns the index of the ')' closing the '(' at toks[open], or
// -1 if there is none.
func matchParen(toks []lexer.Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
