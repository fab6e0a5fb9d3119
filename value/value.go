package value

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNative
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "StringLiteral"
	case KindFunction:
		return "Function"
	case KindNative:
		return "NativeFunction"
	default:
		return "Empty"
	}
}

// Node is the part of a syntax tree node the value model needs to hold a
// function body. The evaluator knows the concrete type.
type Node interface {
	NodeKind() string
	String() string
}

// FunctionDefinition is one `func NAME(PARAMS) BODY` declaration.
type FunctionDefinition struct {
	Name   string
	Params []string
	Body   Node
}

func (f *FunctionDefinition) String() string {
	return fmt.Sprintf("func %s(%s)", f.Name, strings.Join(f.Params, ", "))
}

// Value is the tagged union every expression evaluates to. Values are
// copied, never shared; Func points at an immutable definition.
type Value struct {
	Kind   Kind
	Bool   bool
	Num    Number
	Str    string
	Func   *FunctionDefinition
	Native string
}

func EmptyValue() Value                           { return Value{Kind: KindEmpty} }
func BoolValue(b bool) Value                      { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n Number) Value                  { return Value{Kind: KindNumber, Num: n} }
func StringValue(s string) Value                  { return Value{Kind: KindString, Str: s} }
func FunctionValue(def *FunctionDefinition) Value { return Value{Kind: KindFunction, Func: def} }
func NativeValue(name string) Value               { return Value{Kind: KindNative, Native: name} }
func IntValue(x int64) Value                      { return NumberValue(NewNumber(x)) }

// ToString is the form print writes.
func (v Value) ToString() string {
	switch v.Kind {
	case KindNumber:
		return v.Num.String()
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	default:
		return v.Debug()
	}
}

// Debug renders v with its kind, e.g. Number(5) or Function(add).
func (v Value) Debug() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("Bool(%t)", v.Bool)
	case KindNumber:
		return fmt.Sprintf("Number(%s)", v.Num.String())
	case KindString:
		return fmt.Sprintf("StringLiteral(%q)", v.Str)
	case KindFunction:
		if v.Func == nil {
			return "Function(?)"
		}
		return fmt.Sprintf("Function(%s)", v.Func.Name)
	case KindNative:
		return fmt.Sprintf("NativeFunction(%s)", v.Native)
	default:
		return "Empty"
	}
}

func (v Value) String() string { return v.Debug() }

// Equal compares kinds and payloads. Numbers compare by value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Num.Equal(o.Num)
	case KindString:
		return v.Str == o.Str
	case KindFunction:
		return v.Func == o.Func
	case KindNative:
		return v.Native == o.Native
	default:
		return true
	}
}
