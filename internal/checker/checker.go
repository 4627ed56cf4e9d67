package checker

import (
	"errors"
	"fmt"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// Globals supplies the types of names that are in scope everywhere, such as
// the primitive registry.
type Globals interface {
	TypeOf(name string) (ast.Type, bool)
}

// Checker performs Hindley-Milner style inference over a term. A Checker
// owns one substitution and is meant for a single checking run.
type Checker struct {
	globals Globals
	subst   *Subst
}

// CheckResult holds the annotated term and its resolved type
type CheckResult struct {
	Term ast.Term
	Type ast.Type
}

// New creates a checker. globals may be nil.
func New(globals Globals) *Checker {
	return &Checker{globals: globals, subst: NewSubst()}
}

// Subst exposes the substitution built so far
func (c *Checker) Subst() *Subst {
	return c.subst
}

// Check infers the type of a whole program, requires it to be unit, and
// returns the program with every type slot resolved.
func Check(prog ast.Term, globals Globals) (*CheckResult, error) {
	c := New(globals)
	elaborated, ty, err := c.Infer(NewScope(), prog)
	if err != nil {
		return nil, err
	}
	if err := c.subst.Unify(ty, ast.TUnit); err != nil {
		var te *TypeError
		if errors.As(err, &te) {
			te.Reason = ReasonNotUnit
			te.Left, te.Right = c.subst.Resolve(ty), ast.TUnit
		}
		return nil, err
	}
	return &CheckResult{Term: c.Annotate(elaborated), Type: ast.TUnit}, nil
}

// InferProgram is Check without the unit requirement on the result.
func InferProgram(prog ast.Term, globals Globals) (*CheckResult, error) {
	c := New(globals)
	elaborated, ty, err := c.Infer(NewScope(), prog)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Term: c.Annotate(elaborated), Type: c.subst.Resolve(ty)}, nil
}

// Infer walks t under scope and returns a copy of t whose type slots hold the
// inferred (possibly still unresolved) types, together with t's type.
func (c *Checker) Infer(scope *Scope, t ast.Term) (ast.Term, ast.Type, error) {
	switch t := t.(type) {
	case *ast.UnitLit, *ast.BoolLit, *ast.IntLit, *ast.FloatLit, *ast.StringLit:
		return t, ast.LiteralType(t), nil

	case *ast.Var:
		ty := c.varType(scope, t.Name)
		return &ast.Var{Name: t.Name, Index: t.Index, Type: ty}, ty, nil

	case *ast.Tuple:
		l, lt, err := c.Infer(scope, t.Left)
		if err != nil {
			return nil, nil, err
		}
		r, rt, err := c.Infer(scope, t.Right)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Tuple{Left: l, Right: r}, ast.Tup(c.subst.Deref(lt), c.subst.Deref(rt)), nil

	case *ast.App:
		fn, ft, err := c.Infer(scope, t.Fn)
		if err != nil {
			return nil, nil, err
		}
		arg, at, err := c.Infer(scope, t.Arg)
		if err != nil {
			return nil, nil, err
		}
		result := ast.NewUnknown()
		if err := c.subst.Unify(ft, ast.Arrow(at, result)); err != nil {
			return nil, nil, withTerm(err, t)
		}
		return &ast.App{Fn: fn, Arg: arg, Type: result}, c.subst.Deref(result), nil

	case *ast.Abs:
		pt := t.ParamType
		if pt == nil {
			pt = ast.NewUnknown()
		}
		inner := scope.Extend(&Symbol{Name: t.Param, Type: pt, Kind: SymParam})
		body, bt, err := c.Infer(inner, t.Body)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Abs{Param: t.Param, ParamType: pt, Body: body}, ast.Arrow(pt, bt), nil

	case *ast.Let:
		value, vt, err := c.Infer(scope, t.Value)
		if err != nil {
			return nil, nil, err
		}
		bound := vt
		if t.Type != nil {
			if err := c.subst.Unify(t.Type, vt); err != nil {
				return nil, nil, withTerm(err, t)
			}
			bound = t.Type
		}
		inner := scope.Extend(&Symbol{Name: t.Name, Type: bound, Kind: SymLet})
		body, bt, err := c.Infer(inner, t.Body)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Let{Name: t.Name, Type: bound, Value: value, Body: body}, bt, nil

	default:
		return nil, nil, fmt.Errorf("infer: unsupported term %T", t)
	}
}

// varType resolves a variable: local scope first, then globals, otherwise a
// fresh unknown so that free names act as inference placeholders.
func (c *Checker) varType(scope *Scope, name string) ast.Type {
	if sym := scope.Resolve(name); sym != nil {
		return sym.Type
	}
	if c.globals != nil {
		if ty, ok := c.globals.TypeOf(name); ok {
			return ty
		}
	}
	return ast.NewUnknown()
}

// Annotate rewrites t replacing every type slot by its resolved type.
func (c *Checker) Annotate(t ast.Term) ast.Term {
	switch t := t.(type) {
	case *ast.Var:
		return &ast.Var{Name: t.Name, Index: t.Index, Type: c.resolveSlot(t.Type)}
	case *ast.Tuple:
		return &ast.Tuple{Left: c.Annotate(t.Left), Right: c.Annotate(t.Right)}
	case *ast.App:
		return &ast.App{Fn: c.Annotate(t.Fn), Arg: c.Annotate(t.Arg), Type: c.resolveSlot(t.Type)}
	case *ast.Abs:
		return &ast.Abs{Param: t.Param, ParamType: c.resolveSlot(t.ParamType), Body: c.Annotate(t.Body)}
	case *ast.Let:
		return &ast.Let{Name: t.Name, Type: c.resolveSlot(t.Type), Value: c.Annotate(t.Value), Body: c.Annotate(t.Body)}
	default:
		return t
	}
}

func (c *Checker) resolveSlot(t ast.Type) ast.Type {
	if t == nil {
		return nil
	}
	return c.subst.Resolve(t)
}

// withTerm attaches the failing term to a type error that has none yet.
func withTerm(err error, t ast.Term) error {
	var te *TypeError
	if errors.As(err, &te) && te.Term == nil {
		te.Term = t
	}
	return err
}
