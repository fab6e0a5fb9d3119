package parser

import (
	"errors"
	"reflect"
	"testing"

	"kody/lexer"
)

func parseSrc(t *testing.T, src string) *Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	prog, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

func parseErr(t *testing.T, src string) *Error {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	_, err = Parse(toks)
	if err == nil {
		t.Fatalf("parse %q: expected an error", src)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("parse %q: want *parser.Error, got %T", src, err)
	}
	return perr
}

// single parses src and returns the rendering of its only statement.
func single(t *testing.T, src string) string {
	t.Helper()
	prog := parseSrc(t, src)
	if len(prog.Main.Statements) != 1 {
		t.Fatalf("%q: want 1 statement, got %s", src, prog.Main)
	}
	return prog.Main.Statements[0].String()
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"5 - 3", "Call(Get(__subtract), [Const(5), Const(3)])"},
		{"x = 3 / -5", "Set(x, Call(Get(__divide), [Const(3), Call(Get(__negate), [Const(5)])]))"},
		{"a * (2 - b)", "Call(Get(__multiply), [Get(a), Call(Get(__subtract), [Const(2), Get(b)])])"},
		{"a - b - c", "Call(Get(__subtract), [Get(a), Call(Get(__subtract), [Get(b), Get(c)])])"},
		{"1 + 2 * 3", "Call(Get(__add), [Const(1), Call(Get(__multiply), [Const(2), Const(3)])])"},
		{"x += 2", "Set(x, Call(Get(__add), [Get(x), Const(2)]))"},
		{"x /= y", "Set(x, Call(Get(__divide), [Get(x), Get(y)]))"},
		{`print("hi", 1 + 2)`, `Call(Get(print), [Const("hi"), Call(Get(__add), [Const(1), Const(2)])])`},
		{"a == b and c", "Call(Get(__equal), [Get(a), Call(Get(__and), [Get(b), Get(c)])])"},
		{"a or b and c", "Call(Get(__or), [Get(a), Call(Get(__and), [Get(b), Get(c)])])"},
		{"not a", "Call(Get(__not), [Get(a)])"},
		{"x != 0.50", "Call(Get(__not_equal), [Get(x), Const(0.5)])"},
		{"obj.name", "Member(Get(obj), name)"},
		{"f(1)(2)", "Call(Call(Get(f), [Const(1)]), [Const(2)])"},
		{"f()", "Call(Get(f), [])"},
		{"(((7)))", "Const(7)"},
		{"true", "Const(true)"},
		{"{}", "Block[]"},
		{
			"if x > 1 { y = 2 } else { y = 3 }",
			"If(Call(Get(__greater_than), [Get(x), Const(1)]), Block[Set(y, Const(2))], else Block[Set(y, Const(3))])",
		},
		{
			"while not done { done = true }",
			"While(Call(Get(__not), [Get(done)]), Block[Set(done, Const(true))])",
		},
		{
			"a + if x == 1 { 2 } else { 3 }",
			"Call(Get(__add), [Get(a), If(Call(Get(__equal), [Get(x), Const(1)]), Block[Const(2)], else Block[Const(3)])])",
		},
		{
			"f(if c { 1 } else { 2 }, 3)",
			"Call(Get(f), [If(Get(c), Block[Const(1)], else Block[Const(2)]), Const(3)])",
		},
	}
	for _, tc := range tests {
		if got := single(t, tc.src); got != tc.want {
			t.Errorf("%s\nwant %s\ngot  %s", tc.src, tc.want, got)
		}
	}
}

func TestSegmentation(t *testing.T) {
	prog := parseSrc(t, `
x = 1
print(x) if x > 0 { return x } else { return }
y = -2 z = "s"
`)
	var kinds []string
	for _, s := range prog.Main.Statements {
		kinds = append(kinds, s.NodeKind())
	}
	want := []string{"SetVariable", "CallFunction", "IfStatement", "SetVariable", "SetVariable"}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("want %v, got %v (%s)", want, kinds, prog.Main)
	}
	if got := prog.Main.Statements[2].String(); got != "If(Call(Get(__greater_than), [Get(x), Const(0)]), Block[Return(Get(x))], else Block[Return(Const(empty))])" {
		t.Fatalf("if statement: %s", got)
	}
}

func TestHoisting(t *testing.T) {
	prog := parseSrc(t, `
func add(x, y) { return x + y }
print(add(1, 2))
func outer() {
	func inner() 1
	return inner()
}
func add(x) x
`)
	if len(prog.Main.Statements) != 1 {
		t.Fatalf("main should only hold the print call: %s", prog.Main)
	}
	if !reflect.DeepEqual(prog.Order, []string{"outer", "inner", "add"}) {
		t.Fatalf("order: %v", prog.Order)
	}
	add := prog.Functions["add"]
	if add == nil || !reflect.DeepEqual(add.Params, []string{"x"}) {
		t.Fatalf("the last add should win, got %+v", add)
	}
	if got := prog.Functions["outer"].Body.String(); got != "Block[Return(Call(Get(inner), []))]" {
		t.Fatalf("outer body: %s", got)
	}
	if got := prog.Functions["inner"].Body.String(); got != "Const(1)" {
		t.Fatalf("inner body: %s", got)
	}
}

func TestFragmentAllowsOnlyDeclarations(t *testing.T) {
	toks, err := lexer.Tokenize("func id(v) v")
	if err != nil {
		t.Fatal(err)
	}
	prog, err := ParseFragment(toks)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if len(prog.Main.Statements) != 0 || prog.Functions["id"] == nil {
		t.Fatalf("unexpected fragment: %+v", prog)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
	}{
		{"", EmptyProgram},
		{"func f() 1", EmptyProgram},
		{"func (x) 1", MalformedFunction},
		{"func f x", MalformedFunction},
		{"func f(x 1", MalformedFunction},
		{"func f(x)", MalformedFunction},
		{"3 + - 2", DoubleAdditive},
		{"f(x) = 2", InvalidAssignment},
		{"x =", InvalidAssignment},
		{"(1 + 2", Unmatched},
		{"{ x = 1", Unmatched},
		{"x)", Unmatched},
		{"if", MalformedIf},
		{"if x", MalformedIf},
		{"if x 1 else", MalformedIf},
		{"while x", MalformedWhile},
		{"x + else", UnexpectedToken},
		{"x + return", UnexpectedToken},
		{"1 2 +", MalformedExpression},
		{"f(1,)", MalformedExpression},
		{"a not b", MalformedExpression},
		{"()", MalformedExpression},
	}
	for _, tc := range tests {
		if err := parseErr(t, tc.src); err.Kind != tc.kind {
			t.Errorf("%q: want %s, got %s (%v)", tc.src, tc.kind, err.Kind, err)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := parseErr(t, "x)")
	if got, want := err.Error(), "Parse error: Unmatched ')' at 1:2 (got RPAREN)"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	err = parseErr(t, "")
	if got, want := err.Error(), "Parse error: No code to run after removing function declarations at end of input"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
