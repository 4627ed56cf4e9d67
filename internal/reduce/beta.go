package reduce

import (
	"maps"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// Env maps variable names to the values they stand for during one beta pass.
type Env map[string]ast.Term

// without returns a copy of env with name removed, or env itself when name
// is not bound.
func (env Env) without(name string) Env {
	if _, ok := env[name]; !ok {
		return env
	}
	inner := maps.Clone(env)
	delete(inner, name)
	return inner
}

func (env Env) with(name string, v ast.Term) Env {
	inner := maps.Clone(env)
	if inner == nil {
		inner = make(Env)
	}
	inner[name] = v
	return inner
}

// Beta runs one beta pass over t with an empty environment.
func Beta(t ast.Term) ast.Term {
	out, _ := BetaEnv(t)
	return out
}

// BetaEnv runs one beta pass and also returns every binding the pass placed
// in its environment.
//
// The pass leaves abstractions and literals alone, replaces variables bound
// in the environment, descends into the function side of applications, and
// encodes `let x = e1 in e2` as `(fun x -> e2) e1`. A let whose bound value
// is a literal also puts it in the environment for e2. Primitives and lambdas
// are never fired here; that is SmallStep's job.
func BetaEnv(t ast.Term) (ast.Term, Env) {
	b := &betaPass{seen: make(Env)}
	return b.term(t, nil), b.seen
}

type betaPass struct {
	seen Env
}

func (b *betaPass) term(t ast.Term, env Env) ast.Term {
	switch t := t.(type) {
	case *ast.Var:
		return lookup(t, env)

	case *ast.Tuple:
		l, r := b.term(t.Left, env), b.term(t.Right, env)
		if l == t.Left && r == t.Right {
			return t
		}
		return &ast.Tuple{Left: l, Right: r}

	case *ast.App:
		return &ast.App{Fn: b.term(t.Fn, env), Arg: lookup(t.Arg, env), Type: t.Type}

	case *ast.Let:
		value := b.term(t.Value, env)
		inner := env.without(t.Name)
		if t.Name != ast.Wildcard && ast.IsLiteral(value) {
			inner = inner.with(t.Name, value)
			b.seen[t.Name] = value
		}
		return &ast.App{
			Fn:  &ast.Abs{Param: t.Name, ParamType: t.Type, Body: b.term(t.Body, inner)},
			Arg: value,
		}

	default:
		return t
	}
}

func lookup(t ast.Term, env Env) ast.Term {
	v, ok := t.(*ast.Var)
	if !ok || v.Name == ast.Wildcard {
		return t
	}
	if bound, ok := env[v.Name]; ok {
		return bound
	}
	return t
}
