package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"kody/interpreter"
	"kody/lexer"
	"kody/parser"
)

// runFile checks the extension, reads filename and runs it with a fresh
// interpreter.
func runFile(cfg config, filename string, stdout io.Writer) error {
	start := time.Now()

	if filepath.Ext(filename) != ".kd" && !cfg.ignoreExt {
		return errors.New("Incorrect source file extension. Use .kd extension or the -e flag.")
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("Unable to read the contents of file %s: %w", filename, err)
	}

	err = compileAndRun(cfg, filepath.Base(filename), string(src), stdout)
	if cfg.timing {
		fmt.Fprintf(stdout, "Time elapsed: %d µs\n", time.Since(start).Microseconds())
	}
	return err
}

// compileAndRun tokenizes, parses and executes src, dumping each stage first
// in verbose mode.
func compileAndRun(cfg config, filename, src string, stdout io.Writer) error {
	if cfg.verbose {
		printInfo(stdout, "File contents:")
		fmt.Fprintln(stdout, src)
	}

	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	if cfg.verbose {
		printInfo(stdout, "Tokens:")
		if err := dumpYAML(stdout, tokens); err != nil {
			return err
		}
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		return err
	}
	if cfg.verbose {
		printInfo(stdout, "Syntax tree:")
		if err := dumpYAML(stdout, dumpProgram(prog)); err != nil {
			return err
		}
	}

	in := interpreter.New(interpreter.Options{
		Stdout:       stdout,
		MaxCallDepth: cfg.maxDepth,
		Filename:     filename,
	})
	in.SetSource(filename, src)
	_, err = in.Run(prog)
	return err
}
