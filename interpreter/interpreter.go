package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"kody/ast"
	"kody/lexer"
	"kody/native"
	"kody/parser"
	"kody/value"
)

// DefaultMaxCallDepth bounds nested user function calls when Options leaves
// MaxCallDepth unset.
const DefaultMaxCallDepth = 10000

type Options struct {
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer
	// MaxCallDepth limits nested user function calls.
	MaxCallDepth int
	// Filename is used in runtime error locations.
	Filename string
}

type Interpreter struct {
	out      io.Writer
	maxDepth int

	// globals holds the hoisted functions. Every call sees it.
	globals map[string]value.Value
	// scopes is the frame stack of the running call, outermost first.
	scopes []map[string]value.Value
	// session persists top-level variables between REPL chunks.
	session map[string]value.Value

	returning bool
	result    value.Value

	filename  string
	lines     []string
	callStack []string
}

func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	return &Interpreter{
		out:       opts.Stdout,
		maxDepth:  opts.MaxCallDepth,
		globals:   map[string]value.Value{},
		session:   map[string]value.Value{},
		filename:  opts.Filename,
		callStack: []string{},
	}
}

// Execute runs a parsed program with default options.
func Execute(functions map[string]*value.FunctionDefinition, main *ast.CodeBlock) (value.Value, error) {
	return New(Options{}).Execute(functions, main)
}

// RunSource tokenizes, parses and executes src.
func RunSource(src string, opts Options) (value.Value, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return value.Value{}, err
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		return value.Value{}, err
	}
	in := New(opts)
	in.SetSource(opts.Filename, src)
	return in.Run(prog)
}

// Run executes prog. See Execute.
func (i *Interpreter) Run(prog *parser.Program) (value.Value, error) {
	return i.Execute(prog.Functions, prog.Main)
}

// Execute seeds the global frame with functions and evaluates main. The
// result is the value of a top-level return, or Empty.
func (i *Interpreter) Execute(functions map[string]*value.FunctionDefinition, main *ast.CodeBlock) (value.Value, error) {
	i.globals = map[string]value.Value{}
	i.define(functions)
	i.scopes = []map[string]value.Value{i.globals}
	i.returning, i.result = false, value.EmptyValue()
	i.callStack = i.callStack[:0]

	if _, err := i.eval(main); err != nil {
		return value.Value{}, err
	}
	if i.returning {
		return i.result, nil
	}
	return value.EmptyValue(), nil
}

func (i *Interpreter) define(functions map[string]*value.FunctionDefinition) {
	for name, def := range functions {
		i.globals[name] = value.FunctionValue(def)
	}
}

func splitLinesPreserve(src string) []string {
	if src == "" {
		return []string{}
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}

func (i *Interpreter) pushScope() { i.scopes = append(i.scopes, map[string]value.Value{}) }
func (i *Interpreter) popScope()  { i.scopes = i.scopes[:len(i.scopes)-1] }

// lookup searches frames innermost to outermost, then the native table.
func (i *Interpreter) lookup(name string) (value.Value, bool) {
	for idx := len(i.scopes) - 1; idx >= 0; idx-- {
		if v, ok := i.scopes[idx][name]; ok {
			return v, true
		}
	}
	if _, ok := native.Lookup(name); ok {
		return value.NativeValue(name), true
	}
	return value.Value{}, false
}

// assign overwrites the innermost existing binding of name, or creates one in
// the innermost frame.
func (i *Interpreter) assign(name string, v value.Value) {
	for idx := len(i.scopes) - 1; idx >= 0; idx-- {
		if _, ok := i.scopes[idx][name]; ok {
			i.scopes[idx][name] = v
			return
		}
	}
	i.scopes[len(i.scopes)-1][name] = v
}

func (i *Interpreter) eval(n ast.Node) (value.Value, error) {
	switch node := n.(type) {
	case *ast.CodeBlock:
		i.pushScope()
		defer i.popScope()
		return i.evalStatements(node.Statements)

	case *ast.GetConstant:
		return node.Value, nil

	case *ast.GetVariable:
		v, ok := i.lookup(node.Name)
		if !ok {
			return value.Value{}, i.runtimeErr(UnknownVariable, node.S, fmt.Sprintf("Unknown variable %q", node.Name))
		}
		return v, nil

	case *ast.SetVariable:
		v, err := i.eval(node.Value)
		if err != nil || i.returning {
			return value.EmptyValue(), err
		}
		i.assign(node.Name, v)
		return value.EmptyValue(), nil

	case *ast.IfStatement:
		cond, err := i.condition(node.Condition, "if")
		if err != nil || i.returning {
			return value.EmptyValue(), err
		}
		if cond {
			return i.eval(node.Action)
		}
		if node.ElseAction != nil {
			return i.eval(node.ElseAction)
		}
		return value.EmptyValue(), nil

	case *ast.WhileStatement:
		for {
			cond, err := i.condition(node.Condition, "while")
			if err != nil {
				return value.Value{}, err
			}
			if !cond || i.returning {
				return value.EmptyValue(), nil
			}
			if _, err := i.eval(node.Action); err != nil {
				return value.Value{}, err
			}
			if i.returning {
				return value.EmptyValue(), nil
			}
		}

	case *ast.ReturnFromFunction:
		v, err := i.eval(node.Value)
		if err != nil {
			return value.Value{}, err
		}
		if !i.returning {
			i.returning, i.result = true, v
		}
		return v, nil

	case *ast.CallFunction:
		return i.evalCall(node)

	case *ast.GetMember:
		return value.Value{}, i.runtimeErr(UnsupportedMember, node.S, fmt.Sprintf("Member access .%s is not supported", node.MemberName))

	default:
		span, _ := ast.SpanOf(n)
		return value.Value{}, i.runtimeErr(TypeMismatch, span, "Unsupported expression")
	}
}

// evalStatements runs stmts in order in the current frame and yields the
// value of the last one. It stops early once a return has been recorded.
func (i *Interpreter) evalStatements(stmts []ast.Node) (value.Value, error) {
	last := value.EmptyValue()
	for _, s := range stmts {
		v, err := i.eval(s)
		if err != nil {
			return value.Value{}, err
		}
		last = v
		if i.returning {
			break
		}
	}
	return last, nil
}

func (i *Interpreter) condition(n ast.Node, construct string) (bool, error) {
	v, err := i.eval(n)
	if err != nil || i.returning {
		return false, err
	}
	if v.Kind != value.KindBool {
		return false, i.runtimeErr(TypeMismatch, n.GetSpan(), fmt.Sprintf("Condition of %s must be Bool, got %s", construct, v.Debug()))
	}
	return v.Bool, nil
}

func (i *Interpreter) evalCall(call *ast.CallFunction) (value.Value, error) {
	callee, err := i.eval(call.Function)
	if err != nil || i.returning {
		return value.EmptyValue(), err
	}
	args := make([]value.Value, 0, len(call.Arguments))
	for _, a := range call.Arguments {
		v, err := i.eval(a)
		if err != nil || i.returning {
			return value.EmptyValue(), err
		}
		args = append(args, v)
	}

	switch callee.Kind {
	case value.KindNative:
		return i.evalNative(callee.Native, args, call.S)
	case value.KindFunction:
		return i.evalUserCall(callee.Func, args, call.S)
	default:
		return value.Value{}, i.runtimeErr(NotCallable, call.S, fmt.Sprintf("%s is not callable", callee.Debug()))
	}
}

func (i *Interpreter) evalNative(name string, args []value.Value, callSpan ast.Span) (value.Value, error) {
	fn, ok := native.Lookup(name)
	if !ok {
		return value.Value{}, i.runtimeErr(UnknownVariable, callSpan, fmt.Sprintf("Unknown native function %q", name))
	}
	v, err := fn(i.out, args)
	if err == nil {
		return v, nil
	}
	var argErr *native.ArgumentError
	switch {
	case errors.Is(err, native.ErrDivisionByZero):
		return value.Value{}, i.wrapErr(DivisionByZero, callSpan, "Division by zero", err)
	case errors.As(err, &argErr):
		return value.Value{}, i.wrapErr(NativeArgument, callSpan, err.Error(), err)
	default:
		return value.Value{}, i.wrapErr(NativeFailure, callSpan, err.Error(), err)
	}
}

// evalUserCall runs fn in a fresh scope made of the global frame and one
// frame of parameters. The caller's locals are not visible to the callee.
func (i *Interpreter) evalUserCall(fn *value.FunctionDefinition, args []value.Value, callSpan ast.Span) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return value.Value{}, i.runtimeErr(ArityMismatch, callSpan, fmt.Sprintf("Function %q expects %d args, got %d", fn.Name, len(fn.Params), len(args)))
	}
	if len(i.callStack) >= i.maxDepth {
		return value.Value{}, i.runtimeErr(StackOverflow, callSpan, fmt.Sprintf("Maximum call depth of %d exceeded calling %q", i.maxDepth, fn.Name))
	}
	body, ok := fn.Body.(ast.Node)
	if !ok {
		return value.Value{}, i.runtimeErr(NotCallable, callSpan, fmt.Sprintf("Function %q has no body", fn.Name))
	}

	params := make(map[string]value.Value, len(fn.Params))
	for idx, name := range fn.Params {
		params[name] = args[idx]
	}

	savedScopes, savedReturning, savedResult := i.scopes, i.returning, i.result
	i.scopes = []map[string]value.Value{i.globals, params}
	i.returning, i.result = false, value.EmptyValue()
	i.callStack = append(i.callStack, fn.Name)
	defer func() {
		i.scopes, i.returning, i.result = savedScopes, savedReturning, savedResult
		i.callStack = i.callStack[:len(i.callStack)-1]
	}()

	if _, err := i.eval(body); err != nil {
		return value.Value{}, err
	}
	if i.returning {
		return i.result, nil
	}
	return value.EmptyValue(), nil
}
