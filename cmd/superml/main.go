package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/CharlesAverill/SuperML/internal/ast"
	"github.com/CharlesAverill/SuperML/internal/checker"
	"github.com/CharlesAverill/SuperML/internal/console"
	"github.com/CharlesAverill/SuperML/internal/formatter"
	"github.com/CharlesAverill/SuperML/internal/interp"
	"github.com/CharlesAverill/SuperML/internal/linter"
	"github.com/CharlesAverill/SuperML/internal/prims"
	"github.com/CharlesAverill/SuperML/internal/reduce"
	"github.com/CharlesAverill/SuperML/internal/termjson"
)

const usage = `superml - evaluator for a small typed ML core

Usage:
  superml run [options] <file.json>     Type check, normalize and interpret a program
  superml check [options] <file.json>   Type check only and print the program type
  superml lint <file.json>              Report unused and shadowing bindings
  superml fmt [-typed] <file.json>      Print the program as ML source
  superml dump [-stage s] <file.json>   Dump the term tree at a pipeline stage
  superml prims                         List the primitives and their types

Programs are term trees in JSON as produced by the parser. Use - to read
the program from stdin, or -expr to pass it inline.

Run options:
  -fuel n         Normalization iterations before giving up (default 65536)
  -step-fuel n    Interpretation steps before giving up (default 65536)
  -curry          Desugar tuple-taking primitives into curried functions
  -no-unit        Accept programs of any type
  -trace          Print each interpretation step to stderr
  -trace-rate r   Print at most r steps per second when tracing (0 = all)
  -v              Also print status messages

Examples:
  superml run hello.json
  superml run -no-unit -trace prog.json
  superml check -no-unit -expr '{"kind":"int","value":5}'
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		handleRun(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "fmt":
		handleFmt(os.Args[2:])
	case "dump":
		handleDump(os.Args[2:])
	case "prims":
		handlePrims()
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// source is where a program came from: a file, stdin or an -expr flag.
type source struct {
	name string
	data []byte
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	expr := fs.String("expr", "", "program JSON given inline")
	return fs, expr
}

func readSource(fs *flag.FlagSet, expr string) (*source, error) {
	if expr != "" {
		return &source{name: "<expr>", data: []byte(expr)}, nil
	}
	if fs.NArg() == 0 {
		return nil, errors.New("no input file specified")
	}
	path := fs.Arg(0)
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return &source{name: "<stdin>", data: data}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return &source{name: path, data: data}, nil
}

func mustLoad(fs *flag.FlagSet, expr string) (*source, ast.Term) {
	src, err := readSource(fs, expr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	prog, err := termjson.Decode(src.data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: parse error: %s\n", src.name, err)
		os.Exit(1)
	}
	return src, prog
}

func handleRun(args []string) {
	fs, expr := newFlagSet("run")
	cfg := interp.DefaultConfig()
	fs.IntVar(&cfg.Fuel, "fuel", reduce.DefaultFuel, "normalization iterations")
	fs.IntVar(&cfg.StepFuel, "step-fuel", reduce.DefaultFuel, "interpretation steps")
	fs.BoolVar(&cfg.Curry, "curry", false, "curry primitives")
	noUnit := fs.Bool("no-unit", false, "accept programs of any type")
	trace := fs.Bool("trace", false, "print interpretation steps")
	traceRate := fs.Float64("trace-rate", 0, "steps per second when tracing")
	verbose := fs.Bool("v", false, "print status messages")
	fs.Parse(args)
	cfg.RequireUnit = !*noUnit

	src, err := readSource(fs, *expr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	host, closeHost := console.Open(os.Stdin, os.Stdout)
	defer closeHost()

	var tracer *console.Tracer
	if *trace {
		tracer = console.NewTracer(os.Stderr, *traceRate)
		cfg.OnStep = tracer.Step
		cfg.OnStatus = tracer.Status
	}

	in := interp.New(prims.New(host), cfg)
	res := in.Load(func() (ast.Term, error) {
		return termjson.Decode(src.data)
	})
	if tracer != nil {
		tracer.Flush()
	}

	if msgs := res.Diagnostics.Format(src.name, *verbose); msgs != "" {
		fmt.Fprintln(os.Stderr, msgs)
	}
	switch {
	case res.Phase.Failed():
		closeHost()
		os.Exit(1)
	case res.Phase == interp.OutOfFuel:
		fmt.Fprintf(os.Stderr, "%s: %s after %d iterations and %d steps\n",
			src.name, res.Phase, res.Iterations, res.Steps)
		closeHost()
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", res.Phase, ast.Print(res.Term))
}

func handleCheck(args []string) {
	fs, expr := newFlagSet("check")
	noUnit := fs.Bool("no-unit", false, "accept programs of any type")
	fs.Parse(args)
	src, prog := mustLoad(fs, *expr)

	reg := prims.Default()
	check := checker.Check
	if *noUnit {
		check = checker.InferProgram
	}
	res, err := check(prog, reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", src.name, err)
		os.Exit(1)
	}

	fmt.Printf("%s : %s\n", src.name, ast.TypeString(res.Type))
	fmt.Println("No errors found.")
}

func handleLint(args []string) {
	fs, expr := newFlagSet("lint")
	fs.Parse(args)
	src, prog := mustLoad(fs, *expr)

	diag := linter.Lint(prog, prims.Default())

	if diag.Count() == 0 {
		fmt.Println("No lint warnings.")
		return
	}

	fmt.Print(diag.Format(src.name, false))
	fmt.Println()
	fmt.Printf("%d warning(s) found.\n", diag.Count())
}

func handleFmt(args []string) {
	fs, expr := newFlagSet("fmt")
	typed := fs.Bool("typed", false, "print inferred binder types")
	fs.Parse(args)
	src, prog := mustLoad(fs, *expr)

	if *typed {
		res, err := checker.InferProgram(prog, prims.Default())
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", src.name, err)
			os.Exit(1)
		}
		prog = res.Term
	}
	fmt.Print(formatter.Format(prog))
}

func handleDump(args []string) {
	fs, expr := newFlagSet("dump")
	stage := fs.String("stage", "parse", "parse, check, or normal")
	fs.Parse(args)
	src, prog := mustLoad(fs, *expr)

	reg := prims.Default()
	switch *stage {
	case "parse":
	case "check", "normal":
		res, err := checker.InferProgram(prog, reg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", src.name, err)
			os.Exit(1)
		}
		prog = res.Term
		if *stage == "normal" {
			prog = reduce.Reduce(prog, reduce.DefaultFuel).Term
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown stage: %s\n", *stage)
		os.Exit(1)
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(os.Stdout, prog)
}

func handlePrims() {
	reg := prims.Default()
	for _, name := range reg.Names() {
		p, _ := reg.Lookup(name)
		fmt.Printf("%-14s : %s\n", name, ast.TypeString(p.Type))
	}
}
