package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"kody/interpreter"
	"kody/lexer"
	"kody/native"
	"kody/value"
)

func runREPL(cfg config) error {
	home, _ := os.UserHomeDir()
	histPath := ""
	if home != "" {
		histPath = filepath.Join(home, ".kody_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "kody> ",
		HistoryFile:            histPath,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistorySearchFold:      true,
		DisableAutoSaveHistory: false,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("Kody REPL. :help for commands, :quit to exit.")
	fmt.Println("Open braces continue onto the next line. :paste for longer programs.")
	fmt.Println()

	r := newREPL(cfg, rl.Stdout(), rl.Stderr())
	for {
		rl.SetPrompt(r.prompt())

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			r.interrupt()
			continue
		}
		if err == io.EOF {
			r.flush()
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		if quit := r.feed(line); quit {
			return nil
		}
	}
}

// repl is one interactive session. It is driven line by line so it can run
// without a terminal.
type repl struct {
	cfg     config
	out     io.Writer
	errOut  io.Writer
	session *interpreter.Interpreter

	buf   strings.Builder
	depth int
	chunk int

	// held is set when buf ends with the closing brace of an if, so an
	// else on the next line can still join it.
	held bool

	pasteMode bool
	pasteBuf  strings.Builder
}

func newREPL(cfg config, out, errOut io.Writer) *repl {
	return &repl{
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		session: interpreter.New(interpreter.Options{
			Stdout:       out,
			MaxCallDepth: cfg.maxDepth,
		}),
	}
}

func (r *repl) prompt() string {
	switch {
	case r.pasteMode:
		return "paste> "
	case r.depth > 0 || r.held:
		return "...> "
	default:
		return "kody> "
	}
}

func (r *repl) interrupt() {
	if r.pasteMode {
		r.pasteMode = false
		r.pasteBuf.Reset()
		fmt.Fprintln(r.out, "^C (paste cancelled)")
		return
	}
	if r.buf.Len() > 0 || r.depth > 0 {
		r.buf.Reset()
		r.depth = 0
		r.held = false
		fmt.Fprintln(r.out, "^C (buffer cleared)")
	}
}

// feed handles one line of input and reports whether the session should end.
func (r *repl) feed(line string) bool {
	trim := strings.TrimSpace(line)

	if r.pasteMode {
		switch trim {
		case ".", ":endpaste":
			src := r.pasteBuf.String()
			r.pasteBuf.Reset()
			r.pasteMode = false
			if strings.TrimSpace(src) == "" {
				fmt.Fprintln(r.out, "(paste buffer empty)")
				return false
			}
			r.run(src)
		case ":cancel":
			r.pasteBuf.Reset()
			r.pasteMode = false
			fmt.Fprintln(r.out, "(paste cancelled)")
		default:
			r.pasteBuf.WriteString(line)
			r.pasteBuf.WriteString("\n")
		}
		return false
	}

	if r.held {
		r.held = false
		if !startsWithElse(trim) {
			r.flush()
			if trim == "" {
				return false
			}
		}
	}

	// Commands only when not buffering a block.
	if r.depth == 0 && r.buf.Len() == 0 && strings.HasPrefix(trim, ":") {
		quit, err := r.command(trim)
		if err != nil {
			printError(r.errOut, err)
		}
		return quit
	}

	r.buf.WriteString(line)
	r.buf.WriteString("\n")
	r.depth = updateDepth(r.depth, line)
	if r.depth > 0 {
		return false
	}
	if endsWithIf(r.buf.String()) {
		r.held = true
		return false
	}
	r.flush()
	return false
}

// flush runs whatever is buffered.
func (r *repl) flush() {
	src := r.buf.String()
	r.buf.Reset()
	r.depth = 0
	r.held = false
	if strings.TrimSpace(src) != "" {
		r.run(src)
	}
}

func startsWithElse(line string) bool {
	toks, err := lexer.Tokenize(line)
	return err == nil && len(toks) > 0 && toks[0].Type == lexer.ELSE
}

// endsWithIf reports whether src closes a brace and contains an if, in which
// case an else may still follow on the next line.
func endsWithIf(src string) bool {
	toks, err := lexer.Tokenize(src)
	if err != nil || len(toks) == 0 || toks[len(toks)-1].Type != lexer.RBRACE {
		return false
	}
	for _, tok := range toks {
		if tok.Type == lexer.IF {
			return true
		}
	}
	return false
}

// run evaluates src in the session and echoes a non-empty result.
func (r *repl) run(src string) {
	r.chunk++
	v, err := r.session.RunChunk(fmt.Sprintf("<repl:%d>", r.chunk), src)
	if err != nil {
		printError(r.errOut, err)
		return
	}
	if v.Kind != value.KindEmpty {
		fmt.Fprintln(r.out, v.Debug())
	}
}

func (r *repl) command(cmd string) (quit bool, err error) {
	switch {
	case cmd == ":q" || cmd == ":quit" || cmd == ":exit":
		return true, nil

	case cmd == ":h" || cmd == ":help":
		fmt.Fprintln(r.out, "Commands:")
		fmt.Fprintln(r.out, "  :help              Show this help")
		fmt.Fprintln(r.out, "  :quit              Exit the REPL")
		fmt.Fprintln(r.out, "  :load <file>       Run a .kd file in this session")
		fmt.Fprintln(r.out, "  :reset             Forget all variables and functions")
		fmt.Fprintln(r.out, "  :clear             Clear the screen")
		fmt.Fprintln(r.out, "  :paste             Start paste mode (end with '.' or :endpaste)")
		fmt.Fprintln(r.out, "  :vars              Show top-level variables")
		fmt.Fprintln(r.out, "  :funcs             Show user-defined functions")
		fmt.Fprintln(r.out, "  :natives           Show built-in functions")
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Paste mode controls:")
		fmt.Fprintln(r.out, "  .                  End + run pasted program")
		fmt.Fprintln(r.out, "  :endpaste          End + run pasted program")
		fmt.Fprintln(r.out, "  :cancel            Cancel paste without running")
		return false, nil

	case strings.HasPrefix(cmd, ":load"):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, ":load"))
		if path == "" {
			return false, fmt.Errorf("Usage: :load <file.kd>")
		}
		if filepath.Ext(path) != ".kd" && !r.cfg.ignoreExt {
			return false, fmt.Errorf("Incorrect source file extension. Use .kd extension or the -e flag.")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("Unable to read the contents of file %s: %w", path, err)
		}
		r.run(string(b))
		return false, nil

	case cmd == ":reset":
		r.session.Reset()
		fmt.Fprintln(r.out, "(session cleared)")
		return false, nil

	case cmd == ":clear":
		fmt.Fprint(r.out, "\033[2J\033[H")
		return false, nil

	case cmd == ":paste":
		r.pasteBuf.Reset()
		r.pasteMode = true
		fmt.Fprintln(r.out, "(paste mode: end with '.' or :endpaste, cancel with :cancel)")
		return false, nil

	case cmd == ":vars":
		globs := r.session.GlobalsSnapshot()
		if len(globs) == 0 {
			fmt.Fprintln(r.out, "(no variables)")
			return false, nil
		}
		keys := make([]string, 0, len(globs))
		for k := range globs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.out, "%s = %s\n", k, globs[k].Debug())
		}
		return false, nil

	case cmd == ":funcs":
		names := r.session.FuncNames()
		if len(names) == 0 {
			fmt.Fprintln(r.out, "(no user functions)")
			return false, nil
		}
		for _, n := range names {
			def, _ := r.session.Function(n)
			fmt.Fprintln(r.out, def)
		}
		return false, nil

	case cmd == ":natives":
		fmt.Fprintln(r.out, strings.Join(native.Names(), " "))
		return false, nil

	default:
		fmt.Fprintln(r.out, "Unknown command. Try :help")
		return false, nil
	}
}

// updateDepth tracks unclosed braces so a block can span several lines.
// Braces inside strings and comments are ignored.
func updateDepth(depth int, line string) int {
	inString, escaped := false, false
	for _, ch := range line {
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
		case ch == '#':
			return max(depth, 0)
		case ch == '"':
			inString = true
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		}
	}
	return max(depth, 0)
}
