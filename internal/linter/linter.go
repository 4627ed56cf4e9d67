package linter

import (
	"github.com/hashicorp/go-set/v3"
	"golang.org/x/exp/slices"

	"github.com/CharlesAverill/SuperML/internal/ast"
	"github.com/CharlesAverill/SuperML/internal/diagnostic"
)

// Primitives tells the linter which names are predefined.
type Primitives interface {
	IsPrimitive(name string) bool
}

// Linter performs style checks on a term.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prims Primitives
	diag  *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given program and returns diagnostics.
// prims may be nil, in which case no name counts as predefined.
func Lint(prog ast.Term, prims Primitives) *diagnostic.Diagnostics {
	l := &Linter{
		prims: prims,
		diag:  diagnostic.New(),
	}

	l.checkUnbound(prog)
	l.walk(prog, set.New[string](0))

	return l.diag
}

func (l *Linter) isPrimitive(name string) bool {
	return l.prims != nil && l.prims.IsPrimitive(name)
}

// walk visits every binder with the set of names bound above it.
func (l *Linter) walk(t ast.Term, bound *set.Set[string]) {
	switch t := t.(type) {
	case *ast.Tuple:
		l.walk(t.Left, bound)
		l.walk(t.Right, bound)
	case *ast.App:
		l.walk(t.Fn, bound)
		l.walk(t.Arg, bound)
	case *ast.Let:
		l.walk(t.Value, bound)
		l.checkBinder(t.Name, bound)
		if t.Name != ast.Wildcard && !ast.OccursFree(t.Name, t.Body) {
			l.diag.WarningWithHint(t.Name,
				"let binding '"+t.Name+"' is never used",
				"bind it to _ if only its effect is needed")
		}
		l.walk(t.Body, extend(bound, t.Name))
	case *ast.Abs:
		l.checkBinder(t.Param, bound)
		if t.Param != ast.Wildcard && !ast.OccursFree(t.Param, t.Body) {
			l.diag.Warningf(t.Param, "parameter '%s' is never used", t.Param)
		}
		l.walk(t.Body, extend(bound, t.Param))
	}
}

// checkBinder warns when a binder hides a primitive or an enclosing binder.
func (l *Linter) checkBinder(name string, bound *set.Set[string]) {
	if name == ast.Wildcard {
		return
	}
	if l.isPrimitive(name) {
		l.diag.Warningf(name, "binding '%s' shadows a primitive", name)
	}
	if bound.Contains(name) {
		l.diag.Warningf(name, "binding '%s' shadows an outer binding", name)
	}
}

// checkUnbound warns about free variables that are not primitives. The
// checker accepts them with a fresh type, so they only surface as a stuck
// program at run time.
func (l *Linter) checkUnbound(prog ast.Term) {
	free := ast.FreeVars(prog).Slice()
	slices.Sort(free)
	for _, name := range free {
		if !l.isPrimitive(name) {
			l.diag.Warningf(name, "variable '%s' is unbound", name)
		}
	}
}

func extend(bound *set.Set[string], name string) *set.Set[string] {
	if name == ast.Wildcard || bound.Contains(name) {
		return bound
	}
	next := bound.Copy()
	next.Insert(name)
	return next
}
