// Package native holds the built-in operations every program can call. The
// parser lowers operators to calls of the __-prefixed names.
package native

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"kody/value"
)

// Func is a native operation. out receives anything the function prints.
type Func func(out io.Writer, args []value.Value) (value.Value, error)

var ErrDivisionByZero = value.ErrDivisionByZero

// ArgumentError reports a call with the wrong number or kind of arguments.
type ArgumentError struct {
	Function string
	Msg      string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Function, e.Msg)
}

var table = sync.OnceValue(func() map[string]Func {
	return map[string]Func{
		"print": printValues,

		"__add":      numeric2("__add", func(a, b value.Number) (value.Number, error) { return a.Add(b), nil }),
		"__subtract": numeric2("__subtract", func(a, b value.Number) (value.Number, error) { return a.Sub(b), nil }),
		"__multiply": numeric2("__multiply", func(a, b value.Number) (value.Number, error) { return a.Mul(b), nil }),
		"__divide":   numeric2("__divide", value.Number.Div),
		"__negate":   negate,

		"__equal":                 compare("__equal", func(c int) bool { return c == 0 }),
		"__not_equal":             compare("__not_equal", func(c int) bool { return c != 0 }),
		"__less_than":             compare("__less_than", func(c int) bool { return c < 0 }),
		"__less_than_or_equal":    compare("__less_than_or_equal", func(c int) bool { return c <= 0 }),
		"__greater_than":          compare("__greater_than", func(c int) bool { return c > 0 }),
		"__greater_than_or_equal": compare("__greater_than_or_equal", func(c int) bool { return c >= 0 }),

		"__and": logic2("__and", func(a, b bool) bool { return a && b }),
		"__or":  logic2("__or", func(a, b bool) bool { return a || b }),
		"__not": not,
	}
})

// Lookup returns the native function registered under name.
func Lookup(name string) (Func, bool) {
	fn, ok := table()[name]
	return fn, ok
}

// Names returns every native name, sorted.
func Names() []string {
	t := table()
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs the native function name, or reports that none exists.
func Call(name string, out io.Writer, args []value.Value) (value.Value, error) {
	fn, ok := Lookup(name)
	if !ok {
		return value.Value{}, fmt.Errorf("no native function named %q", name)
	}
	return fn(out, args)
}

func printValues(out io.Writer, args []value.Value) (value.Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.ToString())
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(out, b.String()); err != nil {
		return value.Value{}, fmt.Errorf("print: %w", err)
	}
	return value.EmptyValue(), nil
}

func arity(name string, args []value.Value, n int) error {
	if len(args) != n {
		return &ArgumentError{Function: name, Msg: fmt.Sprintf("expected %d arguments, got %d", n, len(args))}
	}
	return nil
}

func want(name string, args []value.Value, kind value.Kind) error {
	for i, a := range args {
		if a.Kind != kind {
			return &ArgumentError{Function: name, Msg: fmt.Sprintf("argument %d must be %s, got %s", i+1, kind, a.Debug())}
		}
	}
	return nil
}

func numeric2(name string, op func(a, b value.Number) (value.Number, error)) Func {
	return func(_ io.Writer, args []value.Value) (value.Value, error) {
		if err := arity(name, args, 2); err != nil {
			return value.Value{}, err
		}
		if err := want(name, args, value.KindNumber); err != nil {
			return value.Value{}, err
		}
		n, err := op(args[0].Num, args[1].Num)
		if err != nil {
			if errors.Is(err, value.ErrDivisionByZero) {
				return value.Value{}, fmt.Errorf("%s: %w", name, ErrDivisionByZero)
			}
			return value.Value{}, err
		}
		return value.NumberValue(n), nil
	}
}

func negate(_ io.Writer, args []value.Value) (value.Value, error) {
	if err := arity("__negate", args, 1); err != nil {
		return value.Value{}, err
	}
	if err := want("__negate", args, value.KindNumber); err != nil {
		return value.Value{}, err
	}
	return value.NumberValue(args[0].Num.Neg()), nil
}

func compare(name string, holds func(cmp int) bool) Func {
	return func(_ io.Writer, args []value.Value) (value.Value, error) {
		if err := arity(name, args, 2); err != nil {
			return value.Value{}, err
		}
		if err := want(name, args, value.KindNumber); err != nil {
			return value.Value{}, err
		}
		return value.BoolValue(holds(args[0].Num.Cmp(args[1].Num))), nil
	}
}

func logic2(name string, op func(a, b bool) bool) Func {
	return func(_ io.Writer, args []value.Value) (value.Value, error) {
		if err := arity(name, args, 2); err != nil {
			return value.Value{}, err
		}
		if err := want(name, args, value.KindBool); err != nil {
			return value.Value{}, err
		}
		return value.BoolValue(op(args[0].Bool, args[1].Bool)), nil
	}
}

func not(_ io.Writer, args []value.Value) (value.Value, error) {
	if err := arity("__not", args, 1); err != nil {
		return value.Value{}, err
	}
	if err := want("__not", args, value.KindBool); err != nil {
		return value.Value{}, err
	}
	return value.BoolValue(!args[0].Bool), nil
}
