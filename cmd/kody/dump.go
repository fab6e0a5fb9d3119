package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"kody/ast"
	"kody/parser"
)

type functionDump struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,flow"`
	Body   ast.Tree `yaml:"body"`
}

type programDump struct {
	Functions []functionDump `yaml:"functions,omitempty"`
	Main      ast.Tree       `yaml:"main"`
}

func dumpProgram(prog *parser.Program) programDump {
	d := programDump{Main: ast.Dump(prog.Main)}
	for _, name := range prog.Order {
		def := prog.Functions[name]
		fd := functionDump{Name: def.Name, Params: def.Params}
		if body, ok := def.Body.(ast.Node); ok {
			fd.Body = ast.Dump(body)
		}
		d.Functions = append(d.Functions, fd)
	}
	return d
}

func dumpYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
