package ast

import (
	"fmt"
	"strings"

	"kody/value"
)

type GetVariable struct {
	S    Span
	Name string
}

func (g *GetVariable) NodeKind() string { return "GetVariable" }
func (g *GetVariable) GetSpan() Span    { return g.S }
func (g *GetVariable) String() string   { return fmt.Sprintf("Get(%s)", g.Name) }

type GetConstant struct {
	S     Span
	Value value.Value
}

func (c *GetConstant) NodeKind() string { return "GetConstant" }
func (c *GetConstant) GetSpan() Span    { return c.S }
func (c *GetConstant) String() string {
	switch c.Value.Kind {
	case value.KindString:
		return fmt.Sprintf("Const(%q)", c.Value.Str)
	case value.KindEmpty:
		return "Const(empty)"
	default:
		return fmt.Sprintf("Const(%s)", c.Value.ToString())
	}
}

type CallFunction struct {
	S         Span
	Function  Node
	Arguments []Node
}

func (c *CallFunction) NodeKind() string { return "CallFunction" }
func (c *CallFunction) GetSpan() Span    { return c.S }
func (c *CallFunction) String() string {
	args := make([]string, 0, len(c.Arguments))
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}
	return fmt.Sprintf("Call(%s, [%s])", c.Function, strings.Join(args, ", "))
}

// GetMember is parsed but has no runtime semantics yet.
type GetMember struct {
	S          Span
	Base       Node
	MemberName string
}

func (m *GetMember) NodeKind() string { return "GetMember" }
func (m *GetMember) GetSpan() Span    { return m.S }
func (m *GetMember) String() string   { return fmt.Sprintf("Member(%s, %s)", m.Base, m.MemberName) }
