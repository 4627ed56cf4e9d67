package reduce

import (
	"maps"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// DefaultFuel bounds the number of normalization iterations.
const DefaultFuel = 1 << 16

// Step is one normalization iteration: a beta pass followed by an assoc pass.
func Step(t ast.Term) ast.Term {
	return Assoc(Beta(t))
}

// Outcome describes a call to Reduce.
type Outcome struct {
	Term       ast.Term
	Iterations int
	// Fixpoint is false when the fuel ran out before Step stopped changing the term.
	Fixpoint bool
	// Env collects the bindings made by the beta passes.
	Env Env
}

// Reduce applies Step until the term stops changing or fuel iterations have
// run. Running out of fuel is reported in the outcome, not as an error.
func Reduce(t ast.Term, fuel int) *Outcome {
	out := &Outcome{Term: t, Env: make(Env)}
	for ; fuel > 0; fuel-- {
		beta, env := BetaEnv(out.Term)
		next := Assoc(beta)
		maps.Copy(out.Env, env)
		if ast.Equal(next, out.Term) {
			out.Fixpoint = true
			return out
		}
		out.Term = next
		out.Iterations++
	}
	return out
}
