package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestREPL() (*repl, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	return newREPL(config{}, &out, &errOut), &out, &errOut
}

func feedAll(t *testing.T, r *repl, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if r.feed(l) {
			t.Fatalf("session ended early at %q", l)
		}
	}
}

func TestREPLMultiLineBlock(t *testing.T) {
	r, out, errOut := newTestREPL()
	feedAll(t, r, "func sq(x) {", "  return x * x")
	if r.prompt() != "...> " {
		t.Fatalf("prompt inside a block: %q", r.prompt())
	}
	feedAll(t, r, "}", "sq(5)", `print("ok")`)
	if errOut.Len() != 0 {
		t.Fatalf("stderr: %s", errOut)
	}
	if got := out.String(); got != "Number(25)\nok\n" {
		t.Fatalf("stdout %q", got)
	}
}

func TestREPLCommands(t *testing.T) {
	r, out, _ := newTestREPL()
	feedAll(t, r, "func add(a, b) { return a + b }", "n = add(1, 2)", ":vars", ":funcs")
	got := out.String()
	if !strings.Contains(got, "n = Number(3)\n") || !strings.Contains(got, "func add(a, b)\n") {
		t.Fatalf("stdout %q", got)
	}

	out.Reset()
	feedAll(t, r, ":reset", ":vars", ":funcs")
	if got := out.String(); got != "(session cleared)\n(no variables)\n(no user functions)\n" {
		t.Fatalf("after reset %q", got)
	}

	if !r.feed(":quit") {
		t.Fatal(":quit should end the session")
	}
}

func TestREPLPasteMode(t *testing.T) {
	r, out, _ := newTestREPL()
	feedAll(t, r, ":paste", "x = 2", "if x > 1 { print(\"big\") }", "else { print(\"small\") }", ".")
	if !strings.HasSuffix(out.String(), "big\n") {
		t.Fatalf("stdout %q", out.String())
	}
}

func TestREPLErrorsKeepSession(t *testing.T) {
	r, out, errOut := newTestREPL()
	feedAll(t, r, "x = 4", "x / 0", "x")
	if !strings.Contains(errOut.String(), "ERROR: ") || !strings.Contains(errOut.String(), "Division by zero") {
		t.Fatalf("stderr %q", errOut.String())
	}
	if out.String() != "Number(4)\n" {
		t.Fatalf("stdout %q", out.String())
	}
}

func TestUpdateDepth(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"while x {", 1},
		{`print("{")`, 0},
		{"} # {", 0},
		{`s = "\"{"`, 0},
		{"{ {", 2},
	}
	for _, tc := range tests {
		if got := updateDepth(0, tc.line); got != tc.want {
			t.Errorf("%q: want %d, got %d", tc.line, tc.want, got)
		}
	}
}

func TestREPLElseOnNextLine(t *testing.T) {
	r, out, errOut := newTestREPL()
	feedAll(t, r, "c = false", "if c { 1 }")
	if r.prompt() != "...> " {
		t.Fatalf("an if should wait for a possible else, prompt %q", r.prompt())
	}
	feedAll(t, r, "else { 2 }", "")
	if errOut.Len() != 0 {
		t.Fatalf("stderr: %s", errOut)
	}
	if out.String() != "Number(2)\n" {
		t.Fatalf("stdout %q", out.String())
	}

	out.Reset()
	feedAll(t, r, "if true { print(\"yes\") }", "print(\"next\")")
	if out.String() != "yes\nnext\n" {
		t.Fatalf("a held if should run before the next statement, stdout %q", out.String())
	}
	if r.prompt() != "kody> " {
		t.Fatalf("prompt %q", r.prompt())
	}
}
