package interpreter

import (
	"bytes"
	"reflect"
	"testing"

	"kody/value"
)

func chunk(t *testing.T, in *Interpreter, src string) value.Value {
	t.Helper()
	v, err := in.RunChunk("<repl>", src)
	if err != nil {
		t.Fatalf("chunk %q: %v", src, err)
	}
	return v
}

func TestSessionKeepsState(t *testing.T) {
	var out bytes.Buffer
	in := New(Options{Stdout: &out})

	chunk(t, in, "func sq(x) { return x * x }")
	chunk(t, in, "y = sq(4)")
	chunk(t, in, "print(y + 1)")
	if out.String() != "17\n" {
		t.Fatalf("output %q", out.String())
	}
	if v := chunk(t, in, "y / 32"); v.ToString() != "0.5" {
		t.Fatalf("last value %s", v.Debug())
	}

	if !reflect.DeepEqual(in.FuncNames(), []string{"sq"}) {
		t.Fatalf("funcs: %v", in.FuncNames())
	}
	vars := in.GlobalsSnapshot()
	if len(vars) != 1 || !vars["y"].Equal(value.IntValue(16)) {
		t.Fatalf("vars: %v", vars)
	}
	if def, ok := in.Function("sq"); !ok || !reflect.DeepEqual(def.Params, []string{"x"}) {
		t.Fatalf("sq: %+v", def)
	}
}

func TestSessionSurvivesErrors(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	chunk(t, in, "n = 1")
	if _, err := in.RunChunk("<repl>", "n = n + missing"); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := in.RunChunk("<repl>", "n = ("); err == nil {
		t.Fatal("expected a parse error")
	}
	if v := chunk(t, in, "return n"); !v.Equal(value.IntValue(1)) {
		t.Fatalf("n changed to %s", v.Debug())
	}
	if v := chunk(t, in, "n"); !v.Equal(value.IntValue(1)) {
		t.Fatalf("return should not stick between chunks, got %s", v.Debug())
	}
}

func TestSessionReset(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	chunk(t, in, "func f() { return 1 } x = f()")
	in.Reset()
	if len(in.FuncNames()) != 0 || len(in.GlobalsSnapshot()) != 0 {
		t.Fatalf("reset left %v %v", in.FuncNames(), in.GlobalsSnapshot())
	}
	if _, err := in.RunChunk("<repl>", "f()"); err == nil {
		t.Fatal("f should be gone")
	}
}
