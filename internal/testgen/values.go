package testgen

import (
	"github.com/CharlesAverill/SuperML/internal/ast"
)

// DefaultLower is the smallest generated integer.
const DefaultLower int64 = -100

// DefaultUpper is the largest generated integer.
const DefaultUpper int64 = 100

// RandomCount is the number of random values added after the boundary values.
const RandomCount = 20

// defaultSeed is used when a generator is created with seed 0, which
// xorshift cannot leave.
const defaultSeed uint64 = 0x517cc1b727220a95

// IntValues produces the boundary values of [lo, hi] followed by RandomCount
// random values from the range.
func IntValues(lo, hi int64) []int64 {
	if hi < lo {
		hi = lo
	}

	seen := make(map[int64]bool)
	var values []int64
	addIfInRange := func(v int64) {
		if v >= lo && v <= hi && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}

	addIfInRange(lo)
	addIfInRange(lo + 1)
	addIfInRange(0)
	addIfInRange(1)
	if hi > 1 {
		addIfInRange(hi - 1)
	}
	addIfInRange(hi)

	rng := defaultSeed
	for i := 0; i < RandomCount; i++ {
		rng = xorshift64(rng)
		values = append(values, randRange(rng, lo, hi))
	}
	return values
}

// FloatValues produces 0, 1, -1, the bounds, and RandomCount random values
// scaled into [lo, hi].
func FloatValues(lo, hi float64) []float64 {
	values := []float64{0, 1, -1, lo, hi}
	rng := defaultSeed
	for i := 0; i < RandomCount; i++ {
		rng = xorshift64(rng)
		frac := float64(rng) / float64(^uint64(0))
		values = append(values, lo+frac*(hi-lo))
	}
	return values
}

// StringValues returns a fixed set of test strings.
func StringValues() []string {
	return []string{"", "a", "hello world", "tab\there", "ünïcode"}
}

var (
	intPool    = IntValues(DefaultLower, DefaultUpper)
	floatPool  = FloatValues(float64(DefaultLower), float64(DefaultUpper))
	stringPool = StringValues()
)

// Literal returns a random closed value of type ty. Arrow types get a
// constant function.
func (g *Gen) Literal(ty ast.Type) ast.Term {
	switch ty := ty.(type) {
	case ast.Base:
		switch ty {
		case ast.TUnit:
			return ast.Unit()
		case ast.TBool:
			return ast.Bool(g.intn(2) == 0)
		case ast.TInt:
			return ast.Int(intPool[g.intn(len(intPool))])
		case ast.TFloat:
			return ast.Float(floatPool[g.intn(len(floatPool))])
		case ast.TString:
			return ast.Str(stringPool[g.intn(len(stringPool))])
		}
	case *ast.TupleType:
		return ast.Pair(g.Literal(ty.Left), g.Literal(ty.Right))
	case *ast.ArrowType:
		return ast.Fun(ast.Wildcard, ty.Param, g.Literal(ty.Result))
	}
	return ast.Unit()
}

// xorshift64 is a simple deterministic PRNG.
func xorshift64(state uint64) uint64 {
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17
	return state
}

// randRange maps a PRNG state to a value in [lo, hi].
func randRange(state uint64, lo, hi int64) int64 {
	if lo >= hi {
		return lo
	}
	r := hi - lo + 1
	return lo + int64(state%uint64(r))
}
