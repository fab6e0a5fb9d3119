package ast

import (
	"fmt"
	"strings"
)

// Node is one element of the syntax tree. Nodes own their children and are
// never mutated after parsing.
type Node interface {
	NodeKind() string
	String() string
	GetSpan() Span
}

type CodeBlock struct {
	S          Span
	Statements []Node
}

func (b *CodeBlock) NodeKind() string { return "CodeBlock" }
func (b *CodeBlock) GetSpan() Span    { return b.S }
func (b *CodeBlock) String() string {
	parts := make([]string, 0, len(b.Statements))
	for _, s := range b.Statements {
		parts = append(parts, s.String())
	}
	return fmt.Sprintf("Block[%s]", strings.Join(parts, "; "))
}

type IfStatement struct {
	S          Span
	Condition  Node
	Action     Node
	ElseAction Node // nil when there is no else branch
}

func (i *IfStatement) NodeKind() string { return "IfStatement" }
func (i *IfStatement) GetSpan() Span    { return i.S }
func (i *IfStatement) String() string {
	if i.ElseAction == nil {
		return fmt.Sprintf("If(%s, %s)", i.Condition, i.Action)
	}
	return fmt.Sprintf("If(%s, %s, else %s)", i.Condition, i.Action, i.ElseAction)
}

type WhileStatement struct {
	S         Span
	Condition Node
	Action    Node
}

func (w *WhileStatement) NodeKind() string { return "WhileStatement" }
func (w *WhileStatement) GetSpan() Span    { return w.S }
func (w *WhileStatement) String() string {
	return fmt.Sprintf("While(%s, %s)", w.Condition, w.Action)
}

type ReturnFromFunction struct {
	S     Span
	Value Node
}

func (r *ReturnFromFunction) NodeKind() string { return "ReturnFromFunction" }
func (r *ReturnFromFunction) GetSpan() Span    { return r.S }
func (r *ReturnFromFunction) String() string   { return fmt.Sprintf("Return(%s)", r.Value) }

// SetVariable also carries desugared compound assignments: `x += 1` is
// SetVariable{x, Call(__add, [Get(x), 1])}.
type SetVariable struct {
	S     Span
	Name  string
	Value Node
}

func (s *SetVariable) NodeKind() string { return "SetVariable" }
func (s *SetVariable) GetSpan() Span    { return s.S }
func (s *SetVariable) String() string   { return fmt.Sprintf("Set(%s, %s)", s.Name, s.Value) }
