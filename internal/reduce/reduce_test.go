package reduce

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/CharlesAverill/SuperML/internal/ast"
	"github.com/CharlesAverill/SuperML/internal/prims"
)

func newRegistry() (*prims.Registry, *bytes.Buffer) {
	var out bytes.Buffer
	return prims.New(prims.NewStreamIO(&out, strings.NewReader(""))), &out
}

func expectTerm(t *testing.T, got, want ast.Term) {
	t.Helper()
	if !ast.Equal(got, want) {
		t.Errorf("got  %s\nwant %s\n%s", ast.Print(got), ast.Print(want), spew.Sdump(got))
	}
}

func add(l, r ast.Term) ast.Term { return ast.Apply(ast.V("add"), ast.Pair(l, r)) }

// sampleTerms is a spread of closed, well-typed programs.
func sampleTerms() []ast.Term {
	return []ast.Term{
		ast.LetIn("x", ast.TInt, ast.Int(2), add(ast.V("x"), ast.Int(3))),
		ast.LetIn("x", nil, ast.LetIn("y", nil, ast.Int(1), ast.V("y")), add(ast.V("x"), ast.Int(1))),
		ast.Apply(ast.Fun("x", ast.TInt, add(ast.V("x"), ast.V("x"))), ast.Int(21)),
		ast.LetIn("_", nil, ast.Apply(ast.V("print_endline"), ast.Str("hi")), ast.Unit()),
		ast.LetIn("a", nil, ast.LetIn("b", nil, ast.LetIn("c", nil, ast.Int(1), ast.V("c")), ast.V("b")),
			ast.Pair(ast.V("a"), ast.LetIn("a", nil, ast.Bool(true), ast.V("a")))),
		ast.Pair(ast.Float(1.5), ast.Str("s")),
	}
}

// --- Substitute ---

func TestSubstituteShadowedAbs(t *testing.T) {
	abs := ast.Fun("x", ast.TInt, add(ast.V("x"), ast.V("y")))
	if got := Substitute(abs, "x", ast.Int(9)); got != ast.Term(abs) {
		t.Errorf("shadowing binder must stop substitution, got %s", ast.Print(got))
	}
}

func TestSubstituteFreeOccurrences(t *testing.T) {
	term := ast.Pair(ast.V("x"), ast.Fun("y", nil, add(ast.V("x"), ast.V("y"))))
	got := Substitute(term, "x", ast.Int(1))
	expectTerm(t, got, ast.Pair(ast.Int(1), ast.Fun("y", nil, add(ast.Int(1), ast.V("y")))))
}

func TestSubstituteAvoidsCapture(t *testing.T) {
	// (fun y -> (x, y))[x := y]  =  fun y' -> (y, y')
	term := ast.Fun("y", nil, ast.Pair(ast.V("x"), ast.V("y")))
	got := Substitute(term, "x", ast.V("y"))
	expectTerm(t, got, ast.Fun("y'", nil, ast.Pair(ast.V("y"), ast.V("y'"))))
}

func TestSubstituteLetValueButNotShadowedBody(t *testing.T) {
	term := ast.LetIn("x", nil, ast.V("x"), ast.V("x"))
	got := Substitute(term, "x", ast.Int(1))
	expectTerm(t, got, ast.LetIn("x", nil, ast.Int(1), ast.V("x")))
}

func TestSubstituteWildcard(t *testing.T) {
	term := ast.V(ast.Wildcard)
	if got := Substitute(term, ast.Wildcard, ast.Int(1)); got != ast.Term(term) {
		t.Errorf("the wildcard is never substituted")
	}
}

// --- Beta ---

func TestBetaEncodesLet(t *testing.T) {
	prog := ast.LetIn("x", ast.TInt, ast.Int(2), add(ast.V("x"), ast.Int(3)))
	got, env := BetaEnv(prog)
	want := &ast.App{
		Fn:  ast.Fun("x", ast.TInt, add(ast.V("x"), ast.Int(3))),
		Arg: ast.Int(2),
	}
	expectTerm(t, got, want)
	if !ast.Equal(env["x"], ast.Int(2)) {
		t.Errorf("env[x] = %v, want 2", env["x"])
	}
}

func TestBetaLooksUpLiterals(t *testing.T) {
	prog := ast.LetIn("x", nil, ast.Int(1), ast.Apply(ast.V("succ"), ast.V("x")))
	got := Beta(prog)
	want := ast.Apply(ast.Fun("x", nil, ast.Apply(ast.V("succ"), ast.Int(1))), ast.Int(1))
	expectTerm(t, got, want)
}

func TestBetaShadowingBlocksLookup(t *testing.T) {
	// let x = 1 in let x = y in x: the inner x is not a literal
	prog := ast.LetIn("x", nil, ast.Int(1), ast.LetIn("x", nil, ast.V("y"), ast.V("x")))
	got := Beta(prog)
	want := ast.Apply(
		ast.Fun("x", nil, ast.Apply(ast.Fun("x", nil, ast.V("x")), ast.V("y"))),
		ast.Int(1))
	expectTerm(t, got, want)
}

func TestBetaLeavesValuesAlone(t *testing.T) {
	for _, term := range []ast.Term{ast.Int(1), ast.Fun("x", nil, ast.V("x")), ast.V("print_int")} {
		if got := Beta(term); got != term {
			t.Errorf("Beta(%s) rebuilt a value", ast.Print(term))
		}
	}
}

// --- Assoc ---

func TestAssocFlattensNestedLet(t *testing.T) {
	prog := ast.LetIn("x", nil, ast.LetIn("y", nil, ast.Int(1), ast.V("y")), add(ast.V("x"), ast.Int(1)))
	got := Assoc(prog)
	want := ast.LetIn("y", nil, ast.Int(1), ast.LetIn("x", nil, ast.V("y"), add(ast.V("x"), ast.Int(1))))
	expectTerm(t, got, want)
	if s := ast.Print(got); s != "let y = 1 in let x = y in add (x, 1)" {
		t.Errorf("printed as %s", s)
	}
}

func TestAssocRenamesCapturingBinder(t *testing.T) {
	// let x = (let y = 1 in y) in y: the outer y must stay free
	prog := ast.LetIn("x", nil, ast.LetIn("y", nil, ast.Int(1), ast.V("y")), ast.V("y"))
	got := Assoc(prog)
	want := ast.LetIn("y'", nil, ast.Int(1), ast.LetIn("x", nil, ast.V("y'"), ast.V("y")))
	expectTerm(t, got, want)
}

func TestAssocDeepChain(t *testing.T) {
	prog := ast.LetIn("a", nil,
		ast.LetIn("b", nil, ast.LetIn("c", nil, ast.Int(1), ast.V("c")), ast.V("b")),
		ast.V("a"))
	want := "let c = 1 in let b = c in let a = b in a"
	if got := ast.Print(Assoc(prog)); got != want {
		t.Errorf("Assoc = %s, want %s", got, want)
	}
}

func TestAssocIdempotent(t *testing.T) {
	for _, term := range sampleTerms() {
		once := Assoc(term)
		expectTerm(t, Assoc(once), once)
	}
}

// --- Reduce ---

func TestReduceReachesFixpoint(t *testing.T) {
	for _, term := range sampleTerms() {
		out := Reduce(term, DefaultFuel)
		if !out.Fixpoint {
			t.Errorf("no fixpoint for %s", ast.Print(term))
			continue
		}
		expectTerm(t, Step(out.Term), out.Term)
	}
}

func TestReduceOutOfFuel(t *testing.T) {
	prog := ast.LetIn("x", nil, ast.Int(1), ast.V("x"))
	out := Reduce(prog, 1)
	if out.Fixpoint {
		t.Errorf("one iteration cannot confirm a fixpoint")
	}
	if out.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", out.Iterations)
	}
}

func TestReduceCollectsEnv(t *testing.T) {
	prog := ast.LetIn("x", nil, ast.Int(1), ast.LetIn("s", nil, ast.Str("a"), ast.Unit()))
	out := Reduce(prog, DefaultFuel)
	if len(out.Env) != 2 || !ast.Equal(out.Env["s"], ast.Str("a")) {
		t.Errorf("Env = %v", out.Env)
	}
}

// --- SmallStep ---

func run(t *testing.T, term ast.Term, natives Natives) ast.Term {
	t.Helper()
	for i := 0; i < 100; i++ {
		next, ok, err := SmallStep(term, natives)
		if err != nil {
			t.Fatalf("SmallStep(%s): %v", ast.Print(term), err)
		}
		if !ok {
			return term
		}
		term = next
	}
	t.Fatalf("no normal form after 100 steps")
	return nil
}

func TestSmallStepLambda(t *testing.T) {
	reg, _ := newRegistry()
	prog := ast.Apply(ast.Fun("x", ast.TInt, add(ast.V("x"), ast.V("x"))), ast.Int(21))

	step1, ok, err := SmallStep(prog, reg)
	if err != nil || !ok {
		t.Fatalf("first step: ok=%v err=%v", ok, err)
	}
	expectTerm(t, step1, add(ast.Int(21), ast.Int(21)))

	step2, ok, err := SmallStep(step1, reg)
	if err != nil || !ok {
		t.Fatalf("second step: ok=%v err=%v", ok, err)
	}
	expectTerm(t, step2, ast.Int(42))

	if _, ok, _ := SmallStep(step2, reg); ok {
		t.Errorf("a literal has no step")
	}
}

func TestNormalizeThenStep(t *testing.T) {
	reg, _ := newRegistry()
	prog := ast.LetIn("x", ast.TInt, ast.Int(2), add(ast.V("x"), ast.Int(3)))
	out := Reduce(prog, DefaultFuel)
	expectTerm(t, run(t, out.Term, reg), ast.Int(5))
}

func TestSmallStepLetAndOrder(t *testing.T) {
	reg, host := newRegistry()
	prog := ast.LetIn("_", nil, ast.Apply(ast.V("print_string"), ast.Str("a")),
		ast.LetIn("_", nil, ast.Apply(ast.V("print_string"), ast.Str("b")), ast.Unit()))
	expectTerm(t, run(t, prog, reg), ast.Unit())
	if host.String() != "ab" {
		t.Errorf("output = %q, want %q", host.String(), "ab")
	}
}

func TestSmallStepTupleLeftToRight(t *testing.T) {
	reg, _ := newRegistry()
	prog := ast.Pair(ast.Apply(ast.V("succ"), ast.Int(1)), ast.Apply(ast.V("succ"), ast.Int(2)))
	next, ok, err := SmallStep(prog, reg)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	expectTerm(t, next, ast.Pair(ast.Int(2), ast.Apply(ast.V("succ"), ast.Int(2))))
}

func TestSmallStepStuck(t *testing.T) {
	reg, _ := newRegistry()
	tests := []ast.Term{
		ast.V("foo"),
		ast.Apply(ast.V("foo"), ast.Int(1)),
		add(ast.V("y"), ast.Int(1)),
		ast.Fun("x", nil, add(ast.Int(1), ast.Int(2))),
	}
	for _, term := range tests {
		next, ok, err := SmallStep(term, reg)
		if err != nil || ok {
			t.Errorf("SmallStep(%s) = ok=%v err=%v, want stuck", ast.Print(term), ok, err)
		}
		if next != term {
			t.Errorf("stuck term was rebuilt")
		}
	}
}

func TestSmallStepNativeError(t *testing.T) {
	reg, _ := newRegistry()
	prog := ast.LetIn("x", nil, ast.Apply(ast.V("div"), ast.Pair(ast.Int(1), ast.Int(0))), ast.Unit())
	_, _, err := SmallStep(prog, reg)
	var ne *NativeError
	if !errors.As(err, &ne) || ne.Name != "div" {
		t.Fatalf("expected NativeError from div, got %v", err)
	}
	if !errors.Is(err, prims.ErrDivisionByZero) {
		t.Errorf("error should wrap ErrDivisionByZero: %v", err)
	}
	if want := "div (1, 0): division by zero"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

type panicky struct{}

func (panicky) Lookup(name string) (*prims.Primitive, bool) {
	return &prims.Primitive{Name: name, Fn: func(ast.Term) (ast.Term, error) { panic("boom") }}, true
}

func TestSmallStepRecoversPanic(t *testing.T) {
	_, _, err := SmallStep(ast.Apply(ast.V("bad"), ast.Unit()), panicky{})
	if err == nil || !strings.Contains(err.Error(), "panic: boom") {
		t.Errorf("expected recovered panic, got %v", err)
	}
}

func TestIsNormal(t *testing.T) {
	tests := []struct {
		term ast.Term
		want bool
	}{
		{ast.Int(1), true},
		{ast.V("x"), true},
		{ast.Fun("x", nil, ast.Apply(ast.V("f"), ast.V("x"))), true},
		{ast.Pair(ast.Int(1), ast.Unit()), true},
		{ast.Pair(ast.Int(1), ast.Apply(ast.V("f"), ast.Unit())), false},
		{ast.LetIn("x", nil, ast.Int(1), ast.V("x")), false},
	}
	for _, tt := range tests {
		if got := IsNormal(tt.term); got != tt.want {
			t.Errorf("IsNormal(%s) = %v, want %v", ast.Print(tt.term), got, tt.want)
		}
	}
	if IsValue(ast.Apply(ast.V("f"), ast.Unit())) || !IsValue(ast.Unit()) {
		t.Errorf("IsValue is wrong")
	}
}
