package interpreter

import (
	"sort"

	"kody/value"
)

// GlobalsSnapshot returns a copy of the top-level variables kept between
// REPL chunks (sorted usage is caller-side).
func (i *Interpreter) GlobalsSnapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(i.session))
	for k, v := range i.session {
		out[k] = v
	}
	return out
}

// FuncNames returns sorted names of user-defined functions.
func (i *Interpreter) FuncNames() []string {
	names := make([]string, 0, len(i.globals))
	for name, v := range i.globals {
		if v.Kind == value.KindFunction {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Function returns the definition bound to name in the global frame.
func (i *Interpreter) Function(name string) (*value.FunctionDefinition, bool) {
	v, ok := i.globals[name]
	if !ok || v.Kind != value.KindFunction {
		return nil, false
	}
	return v.Func, true
}
