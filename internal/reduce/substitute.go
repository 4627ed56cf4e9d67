// Package reduce implements the rewrite passes that evaluate a checked term:
// capture-avoiding substitution, the beta and assoc passes and their
// fixpoint, and the single-step operational rule used by the interpreter.
package reduce

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// IsValue reports whether t is a value for the purpose of redex search: any
// term whose top constructor is not an application.
func IsValue(t ast.Term) bool {
	_, isApp := t.(*ast.App)
	return !isApp
}

// Substitute replaces the free occurrences of x in t by v. A binder for x
// stops the replacement; a binder that would capture a free variable of v is
// renamed first. The wildcard is never replaced.
func Substitute(t ast.Term, x string, v ast.Term) ast.Term {
	if x == ast.Wildcard {
		return t
	}
	return substitute(t, x, v, ast.FreeVars(v))
}

func substitute(t ast.Term, x string, v ast.Term, fv *set.Set[string]) ast.Term {
	switch t := t.(type) {
	case *ast.Var:
		if t.Name == x {
			return v
		}
		return t

	case *ast.Tuple:
		l, r := substitute(t.Left, x, v, fv), substitute(t.Right, x, v, fv)
		if l == t.Left && r == t.Right {
			return t
		}
		return &ast.Tuple{Left: l, Right: r}

	case *ast.App:
		fn, arg := substitute(t.Fn, x, v, fv), substitute(t.Arg, x, v, fv)
		if fn == t.Fn && arg == t.Arg {
			return t
		}
		return &ast.App{Fn: fn, Arg: arg, Type: t.Type}

	case *ast.Abs:
		if t.Param == x || !ast.OccursFree(x, t.Body) {
			return t
		}
		param, body := avoidCapture(t.Param, t.Body, t.ParamType, fv)
		return &ast.Abs{Param: param, ParamType: t.ParamType, Body: substitute(body, x, v, fv)}

	case *ast.Let:
		value := substitute(t.Value, x, v, fv)
		if t.Name == x || !ast.OccursFree(x, t.Body) {
			if value == t.Value {
				return t
			}
			return &ast.Let{Name: t.Name, Type: t.Type, Value: value, Body: t.Body}
		}
		name, body := avoidCapture(t.Name, t.Body, t.Type, fv)
		return &ast.Let{Name: name, Type: t.Type, Value: value, Body: substitute(body, x, v, fv)}

	default:
		return t
	}
}

// avoidCapture renames binder in body when it is free in the value being
// substituted.
func avoidCapture(binder string, body ast.Term, ty ast.Type, fv *set.Set[string]) (string, ast.Term) {
	if binder == ast.Wildcard || !fv.Contains(binder) {
		return binder, body
	}
	avoid := ast.FreeVars(body)
	avoid.InsertSet(fv)
	fresh := ast.FreshName(binder, avoid)
	return fresh, Substitute(body, binder, &ast.Var{Name: fresh, Index: ast.NoIndex, Type: ty})
}
