package interpreter

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"kody/native"
	"kody/parser"
	"kody/value"
)

func run(t *testing.T, src string, opts Options) (value.Value, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts.Stdout = &out
	if opts.Filename == "" {
		opts.Filename = "case.kd"
	}
	v, err := RunSource(src, opts)
	return v, out.String(), err
}

func runtimeErr(t *testing.T, err error) RuntimeError {
	t.Helper()
	var rt RuntimeError
	if !errors.As(err, &rt) {
		t.Fatalf("want RuntimeError, got %T: %v", err, err)
	}
	return rt
}

func TestResultOfTopLevelReturn(t *testing.T) {
	v, _, err := run(t, "x = 21 return x * 2", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(value.IntValue(42)) {
		t.Fatalf("want Number(42), got %s", v.Debug())
	}

	v, _, err = run(t, "x = 1", Options{})
	if err != nil || v.Kind != value.KindEmpty {
		t.Fatalf("want Empty, got %s, %v", v.Debug(), err)
	}
}

func TestExecuteParsedProgram(t *testing.T) {
	prog, err := parser.ParseSource("func half(n) { return n / 2 } return half(5)")
	if err != nil {
		t.Fatal(err)
	}
	v, err := Execute(prog.Functions, prog.Main)
	if err != nil {
		t.Fatal(err)
	}
	if v.ToString() != "2.5" {
		t.Fatalf("want 2.5, got %s", v.Debug())
	}
}

func TestWhileMutatesOuterBinding(t *testing.T) {
	_, out, err := run(t, `
total = 0
i = 1
while i <= 4 {
	total += i
	tmp = i
	i += 1
}
print(total, " ", i)
`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "10 5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestParametersShadowGlobals(t *testing.T) {
	_, out, err := run(t, `
func id(id) { return id }
print(id(3))
print(id)
`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "3\nFunction(id)\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRuntimeErrorRendering(t *testing.T) {
	_, _, err := run(t, "x = 1\nprint(y)", Options{})
	rt := runtimeErr(t, err)
	if rt.Kind != UnknownVariable {
		t.Fatalf("kind: %s", rt.Kind)
	}
	want := "Runtime error at case.kd:2:7\n" +
		"  Unknown variable \"y\"\n" +
		"  2 | print(y)\n" +
		strings.Repeat(" ", 12) + "^"
	if rt.Error() != want {
		t.Fatalf("\nwant:\n%s\ngot:\n%s", want, rt.Error())
	}
}

func TestRuntimeErrorStack(t *testing.T) {
	_, _, err := run(t, `
func inner() { return missing }
func outer() { return inner() }
outer()
`, Options{})
	rt := runtimeErr(t, err)
	if !reflect.DeepEqual(rt.Stack, []string{"inner", "outer"}) {
		t.Fatalf("stack: %v", rt.Stack)
	}
	if !strings.Contains(rt.Error(), "Stack:\n  at inner()\n  at outer()") {
		t.Fatalf("rendering:\n%s", rt.Error())
	}
}

func TestMaxCallDepth(t *testing.T) {
	src := `
func down(n) {
	if n == 0 { return 0 }
	return down(n - 1)
}
print(down(50))
`
	_, _, err := run(t, src, Options{MaxCallDepth: 10})
	rt := runtimeErr(t, err)
	if rt.Kind != StackOverflow {
		t.Fatalf("want stack overflow, got %s", rt.Kind)
	}

	if got := rt.Error(); !strings.HasSuffix(got, "Stack:\n  at down() x10") {
		t.Fatalf("recursive frames should collapse:\n%s", got)
	}

	_, out, err := run(t, src, Options{MaxCallDepth: 100})
	if err != nil || out != "0\n" {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestNativeErrorsUnwrap(t *testing.T) {
	_, _, err := run(t, "x = 0 print(1 / x)", Options{})
	if !errors.Is(err, native.ErrDivisionByZero) {
		t.Fatalf("want ErrDivisionByZero in chain, got %v", err)
	}
	if rt := runtimeErr(t, err); rt.Kind != DivisionByZero || rt.Span.Col != 15 {
		t.Fatalf("unexpected error: %+v", rt)
	}

	_, _, err = run(t, `print(not 1)`, Options{})
	var argErr *native.ArgumentError
	if !errors.As(err, &argErr) || argErr.Function != "__not" {
		t.Fatalf("want ArgumentError from __not, got %v", err)
	}
}

func TestArgumentsEvaluatedLeftToRight(t *testing.T) {
	_, out, err := run(t, `
func say(s) { print(s) return s }
func pair(a, b) { return a }
pair(say("first"), say("second"))
`, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "first\nsecond\n" {
		t.Fatalf("got %q", out)
	}
}

func TestStackRenderingCollapsesRuns(t *testing.T) {
	rt := RuntimeError{Msg: "boom", Stack: []string{"leaf", "walk", "walk", "walk", "main"}}
	want := "Runtime error at unknown:0:0\n" +
		"  boom\n" +
		"Stack:\n" +
		"  at leaf()\n" +
		"  at walk() x3\n" +
		"  at main()"
	if rt.Error() != want {
		t.Fatalf("\nwant:\n%s\ngot:\n%s", want, rt.Error())
	}
}
