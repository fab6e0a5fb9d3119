package parser

import (
	"kody/ast"
	"kody/lexer"
	"kody/value"
)

// check tries one grammar rule. It returns a nil node and nil error when the
// rule does not apply to toks.
type check func(toks []lexer.Token) (ast.Node, error)

// parseSegment turns one statement's tokens into a node. Rules are tried in
// order and the first that applies decides the shape; a binary rule splits at
// the first top-level operator it finds, so operators of equal strength group
// to the right.
func (p *Parser) parseSegment(toks []lexer.Token) (ast.Node, error) {
	if len(toks) == 0 {
		return nil, errEnd(MalformedExpression, "Expected an expression")
	}
	rules := []check{
		p.checkParentheses,
		p.checkCodeBlock,
		p.checkReturn,
		p.checkIf,
		p.checkWhile,
		p.checkNegation,
		p.checkValue,
		p.checkAssignment,
		p.checkComparison,
		p.checkAdditive,
		p.checkMultiplicative,
		p.checkBinary(lexer.OR, "__or"),
		p.checkBinary(lexer.AND, "__and"),
		p.checkNot,
		p.checkCallOrMember,
	}
	for _, rule := range rules {
		node, err := rule(toks)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}
	return nil, errAt(toks[0], MalformedExpression, "Could not make sense of expression")
}

// topLevel returns the index of the first token outside every open ( or {
// for which match is true, or -1. Nested if/while constructs are skipped.
func (p *Parser) topLevel(toks []lexer.Token, match func(i int, t lexer.Token) bool) int {
	parens, braces := 0, 0
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if parens <= 0 && braces <= 0 {
			if match(i, t) {
				return i
			}
			if i > 0 && (t.Type == lexer.IF || t.Type == lexer.WHILE) {
				n, err := p.constructLength(toks[i:])
				if err == nil {
					i += n - 1
					continue
				}
			}
		}
		switch t.Type {
		case lexer.LPAREN:
			parens++
		case lexer.RPAREN:
			parens--
		case lexer.LBRACE:
			braces++
		case lexer.RBRACE:
			braces--
		}
	}
	return -1
}

func (p *Parser) constructLength(toks []lexer.Token) (int, error) {
	if toks[0].Type == lexer.IF {
		return p.ifLength(toks)
	}
	return p.whileLength(toks)
}

func oneOf(types ...lexer.TokenType) func(int, lexer.Token) bool {
	return func(_ int, t lexer.Token) bool { return t.Is(types...) }
}

func call(at lexer.Token, fn string, args ...ast.Node) *ast.CallFunction {
	return &ast.CallFunction{
		S:         sp(at),
		Function:  &ast.GetVariable{S: sp(at), Name: fn},
		Arguments: args,
	}
}

// binary parses the operands either side of toks[i] into a call to fn.
func (p *Parser) binary(toks []lexer.Token, i int, fn string) (ast.Node, error) {
	op := toks[i]
	if i == 0 {
		return nil, errAt(op, MalformedExpression, "Expected expression before %s", op.Type)
	}
	if i == len(toks)-1 {
		return nil, errAt(op, MalformedExpression, "Expected expression after %s", op.Type)
	}
	lhs, err := p.parseSegment(toks[:i])
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseSegment(toks[i+1:])
	if err != nil {
		return nil, err
	}
	return call(op, fn, lhs, rhs), nil
}

func (p *Parser) checkParentheses(toks []lexer.Token) (ast.Node, error) {
	if toks[0].Type != lexer.LPAREN {
		return nil, nil
	}
	end := matchParen(toks, 0)
	if end < 0 {
		return nil, errAt(toks[0], Unmatched, "Unclosed '('")
	}
	if end != len(toks)-1 {
		return nil, nil
	}
	if end == 1 {
		return nil, errAt(toks[0], MalformedExpression, "Empty parentheses")
	}
	return p.parseSegment(toks[1:end])
}

func (p *Parser) checkCodeBlock(toks []lexer.Token) (ast.Node, error) {
	if toks[0].Type != lexer.LBRACE {
		return nil, nil
	}
	end, err := matchBrace(toks, 0)
	if err != nil {
		return nil, err
	}
	if end != len(toks)-1 {
		return nil, nil
	}
	return p.parseBlock(toks[1:end], sp(toks[0]))
}

func (p *Parser) checkReturn(toks []lexer.Token) (ast.Node, error) {
	if toks[0].Type != lexer.RETURN {
		return nil, nil
	}
	ret := &ast.ReturnFromFunction{S: sp(toks[0])}
	if len(toks) == 1 {
		ret.Value = &ast.GetConstant{S: sp(toks[0]), Value: value.EmptyValue()}
		return ret, nil
	}
	v, err := p.parseSegment(toks[1:])
	if err != nil {
		return nil, err
	}
	ret.Value = v
	return ret, nil
}

func (p *Parser) checkIf(toks []lexer.Token) (ast.Node, error) {
	if toks[0].Type != lexer.IF {
		return nil, nil
	}
	parts, err := p.splitIf(toks)
	if err != nil {
		return nil, err
	}
	if n := parts.length(); n != len(toks) {
		return nil, errAt(toks[n], MalformedIf, "Unexpected tokens after if statement")
	}

	stmt := &ast.IfStatement{S: sp(toks[0])}
	if stmt.Condition, err = p.parseSegment(parts.cond); err != nil {
		return nil, err
	}
	if stmt.Action, err = p.parseSegment(parts.action); err != nil {
		return nil, err
	}
	if parts.elseAction != nil {
		if stmt.ElseAction, err = p.parseSegment(parts.elseAction); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) checkWhile(toks []lexer.Token) (ast.Node, error) {
	if toks[0].Type != lexer.WHILE {
		return nil, nil
	}
	cond, action, err := p.splitWhile(toks)
	if err != nil {
		return nil, err
	}
	if n := 1 + len(cond) + len(action); n != len(toks) {
		return nil, errAt(toks[n], MalformedWhile, "Unexpected tokens after while loop")
	}

	stmt := &ast.WhileStatement{S: sp(toks[0])}
	if stmt.Condition, err = p.parseSegment(cond); err != nil {
		return nil, err
	}
	if stmt.Action, err = p.parseSegment(action); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) checkNegation(toks []lexer.Token) (ast.Node, error) {
	if toks[0].Type != lexer.MINUS {
		return nil, nil
	}
	if len(toks) == 1 {
		return nil, errAt(toks[0], MalformedExpression, "Expected expression after -")
	}
	operand, err := p.parseSegment(toks[1:])
	if err != nil {
		return nil, err
	}
	return call(toks[0], "__negate", operand), nil
}

func (p *Parser) checkValue(toks []lexer.Token) (ast.Node, error) {
	if len(toks) != 1 {
		return nil, nil
	}
	tok := toks[0]
	constant := func(v value.Value) (ast.Node, error) {
		return &ast.GetConstant{S: sp(tok), Value: v}, nil
	}
	switch tok.Type {
	case lexer.IDENT:
		return &ast.GetVariable{S: sp(tok), Name: tok.Lexeme}, nil
	case lexer.NUMBER:
		n, err := value.ParseNumber(tok.Lexeme)
		if err != nil {
			return nil, errAt(tok, MalformedExpression, "%v", err)
		}
		return constant(value.NumberValue(n))
	case lexer.STRING:
		return constant(value.StringValue(tok.Lexeme))
	case lexer.TRUE:
		return constant(value.BoolValue(true))
	case lexer.FALSE:
		return constant(value.BoolValue(false))
	}
	return nil, errAt(tok, MalformedExpression, "Unexpected %s", tok.Type)
}

var compoundOps = map[lexer.TokenType]string{
	lexer.PLUS_ASSIGN:  "__add",
	lexer.MINUS_ASSIGN: "__subtract",
	lexer.STAR_ASSIGN:  "__multiply",
	lexer.SLASH_ASSIGN: "__divide",
}

func (p *Parser) checkAssignment(toks []lexer.Token) (ast.Node, error) {
	i := p.topLevel(toks, oneOf(lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN, lexer.SLASH_ASSIGN))
	if i < 0 {
		return nil, nil
	}
	op := toks[i]
	if i != 1 || toks[0].Type != lexer.IDENT {
		return nil, errAt(op, InvalidAssignment, "Only a variable name can be assigned to")
	}
	if i == len(toks)-1 {
		return nil, errAt(op, InvalidAssignment, "No value after %s", op.Type)
	}
	name := toks[0]
	rhs, err := p.parseSegment(toks[i+1:])
	if err != nil {
		return nil, err
	}
	if fn, ok := compoundOps[op.Type]; ok {
		rhs = call(op, fn, &ast.GetVariable{S: sp(name), Name: name.Lexeme}, rhs)
	}
	return &ast.SetVariable{S: sp(name), Name: name.Lexeme, Value: rhs}, nil
}

var comparisons = map[lexer.TokenType]string{
	lexer.EQ:  "__equal",
	lexer.NEQ: "__not_equal",
	lexer.GT:  "__greater_than",
	lexer.GTE: "__greater_than_or_equal",
	lexer.LT:  "__less_than",
	lexer.LTE: "__less_than_or_equal",
}

func (p *Parser) checkComparison(toks []lexer.Token) (ast.Node, error) {
	i := p.topLevel(toks, oneOf(lexer.EQ, lexer.NEQ, lexer.GT, lexer.GTE, lexer.LT, lexer.LTE))
	if i < 0 {
		return nil, nil
	}
	return p.binary(toks, i, comparisons[toks[i].Type])
}

// checkAdditive only treats + and - as binary when they follow something
// that can end an operand; otherwise the minus is a negation further down.
func (p *Parser) checkAdditive(toks []lexer.Token) (ast.Node, error) {
	i := p.topLevel(toks, func(i int, t lexer.Token) bool {
		return i > 0 && t.Is(lexer.PLUS, lexer.MINUS) &&
			toks[i-1].Is(lexer.NUMBER, lexer.IDENT, lexer.STRING, lexer.RPAREN, lexer.RBRACE)
	})
	if i < 0 {
		return nil, nil
	}
	if i+1 < len(toks) && toks[i+1].Is(lexer.PLUS, lexer.MINUS) {
		return nil, errAt(toks[i+1], DoubleAdditive, "Two additive operators in a row")
	}
	fn := "__add"
	if toks[i].Type == lexer.MINUS {
		fn = "__subtract"
	}
	return p.binary(toks, i, fn)
}

func (p *Parser) checkMultiplicative(toks []lexer.Token) (ast.Node, error) {
	i := p.topLevel(toks, oneOf(lexer.STAR, lexer.SLASH))
	if i < 0 {
		return nil, nil
	}
	fn := "__multiply"
	if toks[i].Type == lexer.SLASH {
		fn = "__divide"
	}
	return p.binary(toks, i, fn)
}

func (p *Parser) checkBinary(op lexer.TokenType, fn string) check {
	return func(toks []lexer.Token) (ast.Node, error) {
		i := p.topLevel(toks, oneOf(op))
		if i < 0 {
			return nil, nil
		}
		return p.binary(toks, i, fn)
	}
}

func (p *Parser) checkNot(toks []lexer.Token) (ast.Node, error) {
	i := p.topLevel(toks, oneOf(lexer.NOT))
	if i < 0 {
		return nil, nil
	}
	if i != 0 {
		return nil, errAt(toks[0], MalformedExpression, "Unexpected tokens before not")
	}
	if len(toks) == 1 {
		return nil, errAt(toks[0], MalformedExpression, "Expected expression after not")
	}
	operand, err := p.parseSegment(toks[1:])
	if err != nil {
		return nil, err
	}
	return call(toks[0], "__not", operand), nil
}

// checkCallOrMember handles `callee(args...)` and `base.name`.
func (p *Parser) checkCallOrMember(toks []lexer.Token) (ast.Node, error) {
	last := toks[len(toks)-1]
	if last.Type == lexer.RPAREN {
		return p.parseCall(toks)
	}
	if len(toks) >= 3 && last.Type == lexer.IDENT && toks[len(toks)-2].Type == lexer.DOT {
		base, err := p.parseSegment(toks[:len(toks)-2])
		if err != nil {
			return nil, err
		}
		return &ast.GetMember{S: sp(toks[len(toks)-2]), Base: base, MemberName: last.Lexeme}, nil
	}
	return nil, nil
}

func (p *Parser) parseCall(toks []lexer.Token) (ast.Node, error) {
	open, depth := -1, 0
	for j := len(toks) - 1; j >= 0; j-- {
		switch toks[j].Type {
		case lexer.RPAREN:
			depth++
		case lexer.LPAREN:
			depth--
		}
		if depth == 0 {
			open = j
			break
		}
	}
	if open < 0 {
		return nil, errAt(toks[len(toks)-1], Unmatched, "Can't find pair for closing parenthesis")
	}
	if open == 0 {
		return nil, errAt(toks[0], MalformedExpression, "Expected a function before argument list")
	}

	fn, err := p.parseSegment(toks[:open])
	if err != nil {
		return nil, err
	}
	args, err := p.parseArguments(toks[open], toks[open+1:len(toks)-1])
	if err != nil {
		return nil, err
	}
	return &ast.CallFunction{S: sp(toks[0]), Function: fn, Arguments: args}, nil
}

// parseArguments splits inner at commas outside any nested brackets.
func (p *Parser) parseArguments(open lexer.Token, inner []lexer.Token) ([]ast.Node, error) {
	args := []ast.Node{}
	if len(inner) == 0 {
		return args, nil
	}
	depth, start := 0, 0
	flush := func(end int, at lexer.Token) error {
		if start == end {
			return errAt(at, MalformedExpression, "Empty argument")
		}
		arg, err := p.parseSegment(inner[start:end])
		if err != nil {
			return err
		}
		args = append(args, arg)
		return nil
	}
	for i, t := range inner {
		switch t.Type {
		case lexer.LPAREN, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACE:
			depth--
		case lexer.COMMA:
			if depth == 0 {
				if err := flush(i, t); err != nil {
					return nil, err
				}
				start = i + 1
			}
		}
	}
	if err := flush(len(inner), open); err != nil {
		return nil, err
	}
	return args, nil
}
