package checker

import (
	"fmt"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// Reason classifies a type error
type Reason int

const (
	ReasonMismatch Reason = iota
	ReasonInfinite
	ReasonNotUnit
)

// String returns the human-readable reason prefix
func (r Reason) String() string {
	switch r {
	case ReasonMismatch:
		return "type mismatch"
	case ReasonInfinite:
		return "infinite type"
	case ReasonNotUnit:
		return "program must have type unit"
	default:
		return "type error"
	}
}

// TypeError is the only error produced by the checker. Left and Right are
// the two types that failed to unify, already resolved for printing. Term is
// the innermost term whose checking failed, when known.
type TypeError struct {
	Reason Reason
	Left   ast.Type
	Right  ast.Type
	Term   ast.Term
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("%s: %s <> %s", e.Reason, ast.TypeString(e.Left), ast.TypeString(e.Right))
	if e.Term != nil {
		msg += " in " + ast.Print(e.Term)
	}
	return msg
}
