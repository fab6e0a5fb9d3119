package interpreter

// SetSource updates the interpreter's current "active" source context.
// This is used by the REPL so runtime errors show the chunk name and caret
// line of the code being run.
func (i *Interpreter) SetSource(filename string, source string) {
	i.filename = filename
	i.lines = splitLinesPreserve(source)
}
