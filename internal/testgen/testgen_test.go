package testgen

import (
	"io"
	"strings"
	"testing"

	"github.com/hashicorp/go-set/v3"

	"github.com/CharlesAverill/SuperML/internal/ast"
	"github.com/CharlesAverill/SuperML/internal/checker"
	"github.com/CharlesAverill/SuperML/internal/prims"
)

func TestIntValuesBoundaries(t *testing.T) {
	values := IntValues(-5, 5)
	want := []int64{-5, -4, 0, 1, 4, 5}
	for i, w := range want {
		if values[i] != w {
			t.Errorf("boundary %d = %d, want %d", i, values[i], w)
		}
	}
	if len(values) != len(want)+RandomCount {
		t.Errorf("got %d values, want %d", len(values), len(want)+RandomCount)
	}
	for _, v := range values {
		if v < -5 || v > 5 {
			t.Errorf("value %d out of range", v)
		}
	}
}

func TestIntValuesInvertedRange(t *testing.T) {
	for _, v := range IntValues(3, -3) {
		if v != 3 {
			t.Fatalf("inverted range should clamp to lo, got %d", v)
		}
	}
}

func TestFloatValuesInRange(t *testing.T) {
	for _, v := range FloatValues(-2, 2) {
		if v < -2 || v > 2 {
			t.Errorf("value %v out of range", v)
		}
	}
}

func TestDeterministic(t *testing.T) {
	a, _ := New(42).Program(4)
	b, _ := New(42).Program(4)
	if !ast.Equal(a, b) {
		t.Errorf("same seed produced different programs:\n%s\n%s", ast.Print(a), ast.Print(b))
	}
}

func TestZeroSeed(t *testing.T) {
	g := New(0)
	if g.next() == 0 {
		t.Errorf("seed 0 must not lock the generator at zero")
	}
}

func TestGeneratedProgramsAreClosed(t *testing.T) {
	allowed := set.From(PrimitiveNames())
	g := New(7)
	for i := 0; i < 200; i++ {
		prog, _ := g.Program(5)
		free := ast.FreeVars(prog)
		if !allowed.Subset(free) {
			t.Fatalf("program %d has free variables %v:\n%s", i, free.Difference(allowed), ast.Print(prog))
		}
	}
}

func TestGeneratedProgramsAreWellTyped(t *testing.T) {
	reg := prims.New(prims.NewStreamIO(io.Discard, strings.NewReader("")))
	g := New(11)
	for i := 0; i < 200; i++ {
		prog, ty := g.Program(5)
		res, err := checker.InferProgram(prog, reg)
		if err != nil {
			t.Fatalf("program %d does not check: %v\n%s", i, err, ast.Print(prog))
		}
		if !ast.TypesEqual(res.Type, ty) {
			t.Fatalf("program %d has type %s, generated for %s\n%s", i, res.Type, ty, ast.Print(prog))
		}
	}
}

func TestLiteralMatchesType(t *testing.T) {
	g := New(3)
	tests := []ast.Type{
		ast.TUnit, ast.TBool, ast.TInt, ast.TFloat, ast.TString,
		ast.Tup(ast.TInt, ast.Tup(ast.TBool, ast.TString)),
		ast.Arrow(ast.TInt, ast.TFloat),
	}
	for _, ty := range tests {
		lit := g.Literal(ty)
		res, err := checker.InferProgram(lit, nil)
		if err != nil {
			t.Fatalf("Literal(%s) = %s does not check: %v", ty, ast.Print(lit), err)
		}
		if !ast.TypesEqual(res.Type, ty) {
			t.Errorf("Literal(%s) has type %s", ty, res.Type)
		}
	}
}
