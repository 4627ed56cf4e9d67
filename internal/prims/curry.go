package prims

import (
	"strconv"

	"github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// Curry rewrites every free reference to a primitive taking a tuple
// `(T1 * ... * Tn) -> R` into n nested lambdas that rebuild the tuple:
//
//	add  ~>  fun _arg0 : int -> fun _arg1 : int -> add (_arg0, _arg1)
//
// Names rebound by a let or fun are left alone inside their scope.
func (r *Registry) Curry(t ast.Term) ast.Term {
	return r.curry(t, set.New[string](0))
}

func (r *Registry) curry(t ast.Term, bound *set.Set[string]) ast.Term {
	switch t := t.(type) {
	case *ast.Var:
		if bound.Contains(t.Name) {
			return t
		}
		if p, ok := r.Lookup(t.Name); ok {
			return curried(p, t)
		}
		return t
	case *ast.Tuple:
		return &ast.Tuple{Left: r.curry(t.Left, bound), Right: r.curry(t.Right, bound)}
	case *ast.App:
		return &ast.App{Fn: r.curry(t.Fn, bound), Arg: r.curry(t.Arg, bound), Type: t.Type}
	case *ast.Abs:
		return &ast.Abs{Param: t.Param, ParamType: t.ParamType, Body: r.curry(t.Body, shadow(bound, t.Param))}
	case *ast.Let:
		return &ast.Let{Name: t.Name, Type: t.Type, Value: r.curry(t.Value, bound), Body: r.curry(t.Body, shadow(bound, t.Name))}
	default:
		return t
	}
}

func shadow(bound *set.Set[string], name string) *set.Set[string] {
	if bound.Contains(name) {
		return bound
	}
	inner := bound.Copy()
	inner.Insert(name)
	return inner
}

// curried builds the lambda chain for p; single-argument primitives are
// returned unchanged.
func curried(p *Primitive, ref *ast.Var) ast.Term {
	params := ast.FlattenTuple(p.Type.Param)
	if len(params) < 2 {
		return ref
	}
	names := lo.Times(len(params), func(i int) string { return "_arg" + strconv.Itoa(i) })
	args := lo.Map(names, func(name string, i int) ast.Term {
		return &ast.Var{Name: name, Index: ast.NoIndex, Type: params[i]}
	})

	// Rebuild the right-nested tuple that FlattenTuple took apart.
	tuple := lo.ReduceRight(args[:len(args)-1], func(acc ast.Term, arg ast.Term, _ int) ast.Term {
		return ast.Pair(arg, acc)
	}, args[len(args)-1])

	var body ast.Term = ast.Apply(ref, tuple)
	return lo.ReduceRight(names, func(acc ast.Term, name string, i int) ast.Term {
		return ast.Fun(name, params[i], acc)
	}, body)
}
