package parser

import (
	"kody/ast"
	"kody/lexer"
	"kody/value"
)

// Program is a parsed source file: the hoisted function table and the
// remaining top-level code.
type Program struct {
	Functions map[string]*value.FunctionDefinition
	// Order lists function names by source position.
	Order []string
	Main  *ast.CodeBlock
}

type Parser struct {
	functions map[string]*value.FunctionDefinition
	order     []string
}

func New() *Parser {
	return &Parser{functions: map[string]*value.FunctionDefinition{}}
}

// Parse hoists every func declaration out of tokens and parses what is left
// as the program body. A body that is empty after hoisting is an error.
func Parse(tokens []lexer.Token) (*Program, error) {
	return New().parse(tokens, false)
}

// ParseFragment is like Parse but accepts input made only of declarations,
// as typed into the REPL.
func ParseFragment(tokens []lexer.Token) (*Program, error) {
	return New().parse(tokens, true)
}

// ParseSource tokenizes and parses src.
func ParseSource(src string) (*Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *Parser) parse(tokens []lexer.Token, allowEmpty bool) (*Program, error) {
	rest, err := p.hoistFunctions(tokens)
	if err != nil {
		return nil, err
	}
	prog := &Program{Functions: p.functions, Order: p.order}
	if len(rest) == 0 {
		if !allowEmpty {
			return nil, errEnd(EmptyProgram, "No code to run after removing function declarations")
		}
		prog.Main = &ast.CodeBlock{}
		return prog, nil
	}
	main, err := p.parseBlock(rest, sp(rest[0]))
	if err != nil {
		return nil, err
	}
	prog.Main = main
	return prog, nil
}

// hoistFunctions removes every `func NAME(PARAMS) BODY` span from tokens and
// records its definition. Declarations are taken from the end so a body never
// contains an unprocessed func; the last declaration of a name wins.
func (p *Parser) hoistFunctions(tokens []lexer.Token) ([]lexer.Token, error) {
	toks := append([]lexer.Token(nil), tokens...)
	for {
		idx := -1
		for i := len(toks) - 1; i >= 0; i-- {
			if toks[i].Type == lexer.FUNC {
				idx = i
				break
			}
		}
		if idx < 0 {
			return toks, nil
		}

		def, end, err := p.parseFunction(toks, idx)
		if err != nil {
			return nil, err
		}
		if _, seen := p.functions[def.Name]; !seen {
			p.functions[def.Name] = def
			p.order = append([]string{def.Name}, p.order...)
		}
		toks = append(toks[:idx], toks[end:]...)
	}
}

// parseFunction parses the declaration starting at toks[idx] and returns the
// index just past its body.
func (p *Parser) parseFunction(toks []lexer.Token, idx int) (*value.FunctionDefinition, int, error) {
	funcTok := toks[idx]
	at := func(i int) (lexer.Token, bool) {
		if i < len(toks) {
			return toks[i], true
		}
		return lexer.Token{}, false
	}

	nameTok, ok := at(idx + 1)
	if !ok || nameTok.Type != lexer.IDENT {
		return nil, 0, p.errNear(toks, idx+1, MalformedFunction, "Expected identifier after function keyword")
	}
	if tok, ok := at(idx + 2); !ok || tok.Type != lexer.LPAREN {
		return nil, 0, p.errNear(toks, idx+2, MalformedFunction, "Expected parentheses after function identifier")
	}

	params := []string{}
	j := idx + 3
	if tok, ok := at(j); ok && tok.Type == lexer.RPAREN {
		j++
	} else {
		for {
			tok, ok := at(j)
			if !ok {
				return nil, 0, errAt(funcTok, MalformedFunction, "Unclosed argument list in definition of %s", nameTok.Lexeme)
			}
			if tok.Type != lexer.IDENT {
				return nil, 0, errAt(tok, MalformedFunction, "Expected parameter name")
			}
			params = append(params, tok.Lexeme)
			j++

			tok, ok = at(j)
			if !ok {
				return nil, 0, errAt(funcTok, MalformedFunction, "Unclosed argument list in definition of %s", nameTok.Lexeme)
			}
			j++
			if tok.Type == lexer.COMMA {
				continue
			}
			if tok.Type == lexer.RPAREN {
				break
			}
			return nil, 0, errAt(tok, MalformedFunction, "Expected ',' or ')' in parameter list")
		}
	}

	if j >= len(toks) {
		return nil, 0, errAt(funcTok, MalformedFunction, "Expected a body for function %s", nameTok.Lexeme)
	}
	bodyToks, _, err := p.nextSegment(toks[j:])
	if err != nil {
		return nil, 0, err
	}
	body, err := p.parseSegment(bodyToks)
	if err != nil {
		return nil, 0, err
	}

	def := &value.FunctionDefinition{Name: nameTok.Lexeme, Params: params, Body: body}
	return def, j + len(bodyToks), nil
}

func (p *Parser) errNear(toks []lexer.Token, i int, kind ErrorKind, msg string) error {
	if i < len(toks) {
		return errAt(toks[i], kind, "%s", msg)
	}
	return errEnd(kind, "%s", msg)
}

// parseBlock splits toks into statements.
func (p *Parser) parseBlock(toks []lexer.Token, at ast.Span) (*ast.CodeBlock, error) {
	block := &ast.CodeBlock{S: at, Statements: []ast.Node{}}
	for len(toks) > 0 {
		seg, rest, err := p.nextSegment(toks)
		if err != nil {
			return nil, err
		}
		stmt, err := p.parseSegment(seg)
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		toks = rest
	}
	return block, nil
}
