package ast

// Tree is a plain, serializable view of a node used by debug dumps.
type Tree struct {
	Kind     string `yaml:"kind"`
	Role     string `yaml:"role,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Value    string `yaml:"value,omitempty"`
	At       string `yaml:"at,omitempty"`
	Children []Tree `yaml:"children,omitempty"`
}

// Dump converts n into a Tree.
func Dump(n Node) Tree {
	return dump(n, "")
}

func dump(n Node, role string) Tree {
	if n == nil {
		return Tree{Kind: "nil", Role: role}
	}
	t := Tree{Kind: n.NodeKind(), Role: role}
	if s := n.GetSpan(); s.Known() {
		t.At = s.String()
	}
	switch n := n.(type) {
	case *CodeBlock:
		for _, s := range n.Statements {
			t.Children = append(t.Children, dump(s, ""))
		}
	case *IfStatement:
		t.Children = append(t.Children, dump(n.Condition, "condition"), dump(n.Action, "action"))
		if n.ElseAction != nil {
			t.Children = append(t.Children, dump(n.ElseAction, "else"))
		}
	case *WhileStatement:
		t.Children = append(t.Children, dump(n.Condition, "condition"), dump(n.Action, "action"))
	case *ReturnFromFunction:
		t.Children = append(t.Children, dump(n.Value, "value"))
	case *SetVariable:
		t.Name = n.Name
		t.Children = append(t.Children, dump(n.Value, "value"))
	case *GetVariable:
		t.Name = n.Name
	case *GetConstant:
		t.Value = n.Value.Debug()
	case *CallFunction:
		t.Children = append(t.Children, dump(n.Function, "function"))
		for _, a := range n.Arguments {
			t.Children = append(t.Children, dump(a, "argument"))
		}
	case *GetMember:
		t.Name = n.MemberName
		t.Children = append(t.Children, dump(n.Base, "base"))
	}
	return t
}
