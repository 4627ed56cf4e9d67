// Package testgen generates closed, well-typed programs for property tests
// of the checker and the evaluator. Generation is deterministic for a seed.
package testgen

import (
	"strconv"

	"github.com/hashicorp/go-set/v3"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// Gen is a seeded program generator. It is not safe for concurrent use.
type Gen struct {
	state uint64
	names int
}

// New creates a generator. Equal seeds produce equal programs.
func New(seed uint64) *Gen {
	if seed == 0 {
		seed = defaultSeed
	}
	return &Gen{state: seed}
}

func (g *Gen) next() uint64 {
	g.state = xorshift64(g.state)
	return g.state
}

func (g *Gen) intn(n int) int {
	return int(g.next() % uint64(n))
}

// primSig is a total primitive the generator may call.
type primSig struct {
	name   string
	params []ast.Type
	result ast.Type
}

// Only primitives that cannot fail on any argument are used, so generated
// programs always run to a value.
var primTable = []primSig{
	{"add", []ast.Type{ast.TInt, ast.TInt}, ast.TInt},
	{"sub", []ast.Type{ast.TInt, ast.TInt}, ast.TInt},
	{"mul", []ast.Type{ast.TInt, ast.TInt}, ast.TInt},
	{"succ", []ast.Type{ast.TInt}, ast.TInt},
	{"neg", []ast.Type{ast.TInt}, ast.TInt},
	{"land", []ast.Type{ast.TInt, ast.TInt}, ast.TInt},
	{"fadd", []ast.Type{ast.TFloat, ast.TFloat}, ast.TFloat},
	{"fmul", []ast.Type{ast.TFloat, ast.TFloat}, ast.TFloat},
	{"float_of_int", []ast.Type{ast.TInt}, ast.TFloat},
	{"concat", []ast.Type{ast.TString, ast.TString}, ast.TString},
	{"not", []ast.Type{ast.TBool}, ast.TBool},
	{"and", []ast.Type{ast.TBool, ast.TBool}, ast.TBool},
	{"or", []ast.Type{ast.TBool, ast.TBool}, ast.TBool},
	{"print_int", []ast.Type{ast.TInt}, ast.TUnit},
	{"print_string", []ast.Type{ast.TString}, ast.TUnit},
}

// PrimitiveNames lists the primitives generated programs may reference.
func PrimitiveNames() []string {
	names := make([]string, len(primTable))
	for i, p := range primTable {
		names[i] = p.name
	}
	return names
}

var baseTypes = []ast.Type{ast.TUnit, ast.TBool, ast.TInt, ast.TFloat, ast.TString}

// Type returns a random base type or, occasionally, a pair of base types.
func (g *Gen) Type() ast.Type {
	if g.intn(6) == 0 {
		return ast.Tup(g.baseType(), g.baseType())
	}
	return g.baseType()
}

func (g *Gen) baseType() ast.Type {
	return baseTypes[g.intn(len(baseTypes))]
}

// Program returns a closed program of a random type together with that type.
func (g *Gen) Program(depth int) (ast.Term, ast.Type) {
	ty := g.Type()
	return g.Term(ty, depth), ty
}

// Term returns a closed term of type ty nested at most depth levels deep.
func (g *Gen) Term(ty ast.Type, depth int) ast.Term {
	return g.term(ty, depth, nil)
}

type binding struct {
	name string
	ty   ast.Type
}

func (g *Gen) term(ty ast.Type, depth int, scope []binding) ast.Term {
	if arrow, ok := ty.(*ast.ArrowType); ok {
		name := g.binder(scope)
		return ast.Fun(name, arrow.Param, g.term(arrow.Result, depth-1, bind(scope, name, arrow.Param)))
	}
	if depth <= 0 {
		return g.leaf(ty, scope)
	}

	switch g.intn(6) {
	case 0:
		return g.leaf(ty, scope)
	case 1:
		vt := g.Type()
		name := g.binder(scope)
		value := g.term(vt, depth-1, scope)
		var annot ast.Type
		if g.intn(2) == 0 {
			annot = vt
		}
		return ast.LetIn(name, annot, value, g.term(ty, depth-1, bind(scope, name, vt)))
	case 2:
		pt := g.Type()
		name := g.binder(scope)
		body := g.term(ty, depth-1, bind(scope, name, pt))
		return ast.Apply(ast.Fun(name, pt, body), g.term(pt, depth-1, scope))
	case 3:
		if call := g.primCall(ty, depth, scope); call != nil {
			return call
		}
	case 4:
		if tup, ok := ty.(*ast.TupleType); ok {
			return ast.Pair(g.term(tup.Left, depth-1, scope), g.term(tup.Right, depth-1, scope))
		}
	}
	return g.leaf(ty, scope)
}

// leaf is a visible variable of type ty or a literal.
func (g *Gen) leaf(ty ast.Type, scope []binding) ast.Term {
	if names := visible(scope, ty); len(names) > 0 && g.intn(2) == 0 {
		return ast.V(names[g.intn(len(names))])
	}
	if tup, ok := ty.(*ast.TupleType); ok {
		return ast.Pair(g.leaf(tup.Left, scope), g.leaf(tup.Right, scope))
	}
	return g.Literal(ty)
}

func (g *Gen) primCall(ty ast.Type, depth int, scope []binding) ast.Term {
	var candidates []primSig
	for _, p := range primTable {
		if ast.TypesEqual(p.result, ty) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	p := candidates[g.intn(len(candidates))]
	var arg ast.Term
	if len(p.params) == 1 {
		arg = g.term(p.params[0], depth-1, scope)
	} else {
		arg = ast.Pair(g.term(p.params[0], depth-1, scope), g.term(p.params[1], depth-1, scope))
	}
	return ast.Apply(ast.V(p.name), arg)
}

// binder returns a fresh name, or now and then reuses a name in scope so
// that shadowing gets exercised.
func (g *Gen) binder(scope []binding) string {
	if len(scope) > 0 && g.intn(4) == 0 {
		return scope[g.intn(len(scope))].name
	}
	g.names++
	return "v" + strconv.Itoa(g.names)
}

// visible returns the names whose innermost binding has type ty, innermost
// first.
func visible(scope []binding, ty ast.Type) []string {
	seen := set.New[string](len(scope))
	var names []string
	for i := len(scope) - 1; i >= 0; i-- {
		b := scope[i]
		if !seen.Insert(b.name) {
			continue
		}
		if ast.TypesEqual(b.ty, ty) {
			names = append(names, b.name)
		}
	}
	return names
}

func bind(scope []binding, name string, ty ast.Type) []binding {
	return append(scope[:len(scope):len(scope)], binding{name: name, ty: ty})
}
