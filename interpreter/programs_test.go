package interpreter

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"kody/lexer"
	"kody/parser"
)

type programCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
}

func loadPrograms(t *testing.T) []programCase {
	t.Helper()
	data, err := os.ReadFile("testdata/programs.yaml")
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	var cases []programCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatalf("decode fixtures: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no fixtures")
	}
	return cases
}

// errorKind extracts the kind of an error from any stage.
func errorKind(err error) string {
	var lexErr *lexer.Error
	var parseErr *parser.Error
	var rtErr RuntimeError
	switch {
	case errors.As(err, &lexErr):
		return string(lexErr.Kind)
	case errors.As(err, &parseErr):
		return string(parseErr.Kind)
	case errors.As(err, &rtErr):
		return string(rtErr.Kind)
	}
	return ""
}

func TestPrograms(t *testing.T) {
	for _, tc := range loadPrograms(t) {
		t.Run(tc.Name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := RunSource(tc.Source, Options{Stdout: &out, Filename: "case.kd"})

			if tc.Error == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.Error != "" {
				if err == nil {
					t.Fatalf("want %s error, got none (output %q)", tc.Error, out.String())
				}
				if got := errorKind(err); got != tc.Error {
					t.Fatalf("want %s error, got %q: %v", tc.Error, got, err)
				}
			}
			if got := out.String(); got != tc.Output {
				t.Fatalf("output\nwant %q\ngot  %q", tc.Output, got)
			}
		})
	}
}
