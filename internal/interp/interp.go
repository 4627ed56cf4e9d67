// Package interp drives a program through type checking, normalization and
// step-by-step interpretation, reporting progress to the host.
package interp

import (
	"errors"
	"fmt"
	"maps"

	"github.com/CharlesAverill/SuperML/internal/ast"
	"github.com/CharlesAverill/SuperML/internal/checker"
	"github.com/CharlesAverill/SuperML/internal/diagnostic"
	"github.com/CharlesAverill/SuperML/internal/prims"
	"github.com/CharlesAverill/SuperML/internal/reduce"
)

// State is the snapshot handed to the step callback. The callback must not
// modify it.
type State struct {
	Phase    Phase
	Term     ast.Term
	Step     int
	FuelLeft int
	// Env holds the literal bindings found while normalizing.
	Env reduce.Env
}

// Config controls a run
type Config struct {
	// Fuel bounds the normalization iterations.
	Fuel int
	// StepFuel bounds the observable steps.
	StepFuel int
	// RequireUnit makes the checker demand a unit-typed program.
	RequireUnit bool
	// Curry desugars tuple-taking primitives into curried lambdas first.
	Curry bool

	OnStep   func(State)
	OnStatus func(Phase)
}

// DefaultConfig returns the configuration used by the command line host
func DefaultConfig() Config {
	return Config{
		Fuel:        reduce.DefaultFuel,
		StepFuel:    reduce.DefaultFuel,
		RequireUnit: true,
	}
}

// Result holds the outcome of a run
type Result struct {
	Phase       Phase
	Term        ast.Term
	Type        ast.Type
	Iterations  int
	Steps       int
	Err         error
	Diagnostics *diagnostic.Diagnostics
}

// OK reports whether the run ended in a successful terminal state
func (r *Result) OK() bool {
	return r.Phase.Terminal() && !r.Phase.Failed()
}

// ParseError wraps a failure reported by the parser
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Interpreter runs programs against one primitive registry
type Interpreter struct {
	cfg Config
	reg *prims.Registry
}

// New creates an interpreter. Zero fuel values fall back to the defaults.
func New(reg *prims.Registry, cfg Config) *Interpreter {
	if cfg.Fuel <= 0 {
		cfg.Fuel = reduce.DefaultFuel
	}
	if cfg.StepFuel <= 0 {
		cfg.StepFuel = reduce.DefaultFuel
	}
	return &Interpreter{cfg: cfg, reg: reg}
}

// Load calls the parser and runs the program it produces. The engine is
// not entered when parsing fails.
func (in *Interpreter) Load(parse func() (ast.Term, error)) *Result {
	res := &Result{Diagnostics: diagnostic.New()}
	in.enter(res, Parsing)
	prog, err := parse()
	if err != nil {
		return in.fail(res, ParseFailed, &ParseError{Err: err})
	}
	return in.run(res, prog)
}

// Run type checks, normalizes and interprets an already parsed program.
func (in *Interpreter) Run(prog ast.Term) *Result {
	return in.run(&Result{Diagnostics: diagnostic.New()}, prog)
}

func (in *Interpreter) run(res *Result, prog ast.Term) *Result {
	if in.cfg.Curry {
		prog = in.reg.Curry(prog)
	}

	in.enter(res, TypeChecking)
	checked, err := in.check(prog)
	if err != nil {
		return in.fail(res, TypeFailed, err)
	}
	res.Term, res.Type = checked.Term, checked.Type

	in.enter(res, Normalizing)
	out := reduce.Reduce(res.Term, in.cfg.Fuel)
	res.Term, res.Iterations = out.Term, out.Iterations
	if !out.Fixpoint {
		res.Diagnostics.Warningf(Normalizing.String(), "no fixpoint after %d iterations", out.Iterations)
		in.enter(res, OutOfFuel)
		return res
	}

	in.enter(res, Interpreting)
	for res.Steps < in.cfg.StepFuel {
		next, ok, err := reduce.SmallStep(res.Term, in.reg)
		if err != nil {
			return in.fail(res, Exception, err)
		}
		if !ok {
			in.enter(res, in.settle(res.Term))
			return res
		}
		res.Term = next
		res.Steps++
		if in.cfg.OnStep != nil {
			in.cfg.OnStep(State{
				Phase:    Interpreting,
				Term:     res.Term,
				Step:     res.Steps,
				FuelLeft: in.cfg.StepFuel - res.Steps,
				Env:      maps.Clone(out.Env),
			})
		}
	}
	res.Diagnostics.Warningf(Interpreting.String(), "stopped after %d steps", res.Steps)
	in.enter(res, OutOfFuel)
	return res
}

func (in *Interpreter) check(prog ast.Term) (*checker.CheckResult, error) {
	if in.cfg.RequireUnit {
		return checker.Check(prog, in.reg)
	}
	return checker.InferProgram(prog, in.reg)
}

// settle picks the terminal state once no step applies: Done for a closed,
// fully evaluated term and Stuck otherwise.
func (in *Interpreter) settle(t ast.Term) Phase {
	if !reduce.IsNormal(t) {
		return Stuck
	}
	for _, name := range ast.FreeVars(t).Slice() {
		if !in.reg.IsPrimitive(name) {
			return Stuck
		}
	}
	return Done
}

func (in *Interpreter) enter(res *Result, p Phase) {
	res.Phase = p
	res.Diagnostics.Infof("%s", p)
	if in.cfg.OnStatus != nil {
		in.cfg.OnStatus(p)
	}
}

func (in *Interpreter) fail(res *Result, p Phase, err error) *Result {
	res.Err = err
	var te *checker.TypeError
	switch {
	case errors.As(err, &te):
		res.Diagnostics.ErrorWithHint(err.Error(), typeHint(te))
	default:
		res.Diagnostics.Errorf("%s", err)
	}
	in.enter(res, p)
	return res
}

func typeHint(te *checker.TypeError) string {
	switch te.Reason {
	case checker.ReasonNotUnit:
		return fmt.Sprintf("end the program with () or discard the %s result with let _ = ... in ()", ast.TypeString(te.Left))
	case checker.ReasonInfinite:
		return "a value is used as an argument to itself"
	default:
		return ""
	}
}
