package ast

import "fmt"

type Span struct {
	Line int
	Col  int
}

func (s Span) String() string { return fmt.Sprintf("%d:%d", s.Line, s.Col) }

// Known reports whether the span points into source text.
func (s Span) Known() bool { return s.Line > 0 && s.Col > 0 }

type HasSpan interface {
	GetSpan() Span
}

func SpanOf(n any) (Span, bool) {
	if n == nil {
		return Span{}, false
	}
	hs, ok := n.(HasSpan)
	if !ok {
		return Span{}, false
	}
	return hs.GetSpan(), true
}
