package interpreter

import (
	"fmt"
	"strings"

	"kody/ast"
)

type ErrorKind string

const (
	UnknownVariable   ErrorKind = "unknown variable"
	TypeMismatch      ErrorKind = "type mismatch"
	ArityMismatch     ErrorKind = "arity mismatch"
	NotCallable       ErrorKind = "not callable"
	NativeArgument    ErrorKind = "native argument"
	NativeFailure     ErrorKind = "native failure"
	DivisionByZero    ErrorKind = "division by zero"
	StackOverflow     ErrorKind = "stack overflow"
	UnsupportedMember ErrorKind = "unsupported member access"
)

type RuntimeError struct {
	Kind  ErrorKind
	File  string
	Span  ast.Span
	Msg   string
	Line  string
	Stack []string
	Err   error
}

func (e RuntimeError) Error() string {
	loc := "unknown:0:0"
	if e.Span.Known() {
		file := e.File
		if file == "" {
			file = "<input>"
		}
		loc = fmt.Sprintf("%s:%d:%d", file, e.Span.Line, e.Span.Col)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Runtime error at %s\n", loc))
	b.WriteString(fmt.Sprintf("  %s\n", e.Msg))

	if e.Line != "" && e.Span.Line > 0 {
		b.WriteString(fmt.Sprintf("  %d | %s\n", e.Span.Line, e.Line))

		prefix := fmt.Sprintf("  %d | ", e.Span.Line)
		caretSpaces := len(prefix) + (e.Span.Col - 1)
		if caretSpaces < 0 {
			caretSpaces = 0
		}
		b.WriteString(strings.Repeat(" ", caretSpaces))
		b.WriteString("^\n")
	}

	if len(e.Stack) > 0 {
		b.WriteString("Stack:\n")
		// Runs of the same frame, as in deep recursion, print once with a count.
		for idx := 0; idx < len(e.Stack); {
			run := 1
			for idx+run < len(e.Stack) && e.Stack[idx+run] == e.Stack[idx] {
				run++
			}
			if run > 1 {
				b.WriteString(fmt.Sprintf("  at %s() x%d\n", e.Stack[idx], run))
			} else {
				b.WriteString(fmt.Sprintf("  at %s()\n", e.Stack[idx]))
			}
			idx += run
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (e RuntimeError) Unwrap() error { return e.Err }

func (i *Interpreter) runtimeErr(kind ErrorKind, span ast.Span, msg string) error {
	return i.wrapErr(kind, span, msg, nil)
}

func (i *Interpreter) wrapErr(kind ErrorKind, span ast.Span, msg string, cause error) error {
	lineText := ""
	if span.Line > 0 && span.Line-1 < len(i.lines) {
		lineText = i.lines[span.Line-1]
	}

	stack := make([]string, 0, len(i.callStack))
	for idx := len(i.callStack) - 1; idx >= 0; idx-- {
		stack = append(stack, i.callStack[idx])
	}

	return RuntimeError{
		Kind:  kind,
		File:  i.filename,
		Span:  span,
		Msg:   msg,
		Line:  lineText,
		Stack: stack,
		Err:   cause,
	}
}
