package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
)

type config struct {
	verbose   bool
	ignoreExt bool
	timing    bool
	noColor   bool
	maxDepth  int
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  kody [options] <file.kd>")
	fmt.Fprintln(w, "  kody [options] run <file.kd>")
	fmt.Fprintln(w, "  kody [options] repl")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -v      print the source, tokens and syntax tree before running")
	fmt.Fprintln(w, "  -e      do not require the .kd extension")
	fmt.Fprintln(w, "  -t      report the time taken")
	fmt.Fprintln(w, "  -d N    maximum function call depth (default 10000)")
	fmt.Fprintln(w, "  -n      disable coloured output")
	fmt.Fprintln(w, "  -h      show this help")
}

func main() {
	os.Exit(realMain(os.Args, os.Stdout, os.Stderr))
}

func realMain(argv []string, stdout, stderr io.Writer) int {
	cfg, args, help, err := parseFlags(argv)
	if err != nil {
		printError(stderr, err)
		usage(stderr)
		return 1
	}
	if help {
		usage(stdout)
		return 0
	}
	if cfg.noColor {
		color.NoColor = true
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "repl") {
		if err := runREPL(cfg); err != nil {
			printError(stderr, err)
			return 1
		}
		return 0
	}

	var filename string
	switch {
	case args[0] == "run" && len(args) == 2:
		filename = args[1]
	case args[0] != "run" && len(args) == 1:
		filename = args[0]
	default:
		usage(stderr)
		return 1
	}

	if err := runFile(cfg, filename, stdout); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// parseFlags reads options before and after positional arguments, so both
// `kody -v main.kd` and `kody main.kd -v` work.
func parseFlags(argv []string) (cfg config, positional []string, help bool, err error) {
	rest := argv
	for {
		opts, optind, err := getopt.Getopts(rest, "vetd:nh")
		if err != nil {
			return cfg, nil, false, err
		}
		for _, opt := range opts {
			switch opt.Option {
			case 'v':
				cfg.verbose = true
			case 'e':
				cfg.ignoreExt = true
			case 't':
				cfg.timing = true
			case 'n':
				cfg.noColor = true
			case 'd':
				n, err := strconv.Atoi(opt.Value)
				if err != nil || n <= 0 {
					return cfg, nil, false, fmt.Errorf("invalid -d parameter %q", opt.Value)
				}
				cfg.maxDepth = n
			case 'h':
				help = true
			}
		}
		if optind >= len(rest) {
			return cfg, positional, help, nil
		}
		positional = append(positional, rest[optind])
		rest = append([]string{argv[0]}, rest[optind+1:]...)
	}
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "ERROR:")
	fmt.Fprintf(w, " %v\n", err)
}

func printInfo(w io.Writer, header string) {
	fmt.Fprintln(w)
	color.New(color.FgCyan).Fprint(w, "[INFO]:")
	fmt.Fprintf(w, " %s\n", header)
}
