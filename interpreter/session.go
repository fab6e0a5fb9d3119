package interpreter

import (
	"kody/lexer"
	"kody/parser"
	"kody/value"
)

// RunChunk evaluates one piece of REPL input. Functions it declares are added
// to the global frame and top-level variables persist until Reset. The result
// is the value of the last statement, or of a top-level return.
func (i *Interpreter) RunChunk(filename, src string) (value.Value, error) {
	i.SetSource(filename, src)
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return value.Value{}, err
	}
	prog, err := parser.ParseFragment(tokens)
	if err != nil {
		return value.Value{}, err
	}

	i.define(prog.Functions)
	i.scopes = []map[string]value.Value{i.globals, i.session}
	i.returning, i.result = false, value.EmptyValue()
	i.callStack = i.callStack[:0]
	defer func() { i.returning = false }()

	last, err := i.evalStatements(prog.Main.Statements)
	if err != nil {
		return value.Value{}, err
	}
	if i.returning {
		return i.result, nil
	}
	return last, nil
}

// Reset drops every function and variable defined so far.
func (i *Interpreter) Reset() {
	i.globals = map[string]value.Value{}
	i.session = map[string]value.Value{}
	i.scopes = nil
	i.returning, i.result = false, value.EmptyValue()
}
