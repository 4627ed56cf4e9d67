package prims

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

func newTestRegistry(input string) (*Registry, *bytes.Buffer) {
	var out bytes.Buffer
	return New(NewStreamIO(&out, strings.NewReader(input))), &out
}

func call(t *testing.T, r *Registry, name string, arg ast.Term) ast.Term {
	t.Helper()
	p, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("primitive %q not registered", name)
	}
	got, err := p.Fn(arg)
	if err != nil {
		t.Fatalf("%s(%s): %v", name, ast.Print(arg), err)
	}
	return got
}

func ints(a, b int64) ast.Term     { return ast.Pair(ast.Int(a), ast.Int(b)) }
func floats(a, b float64) ast.Term { return ast.Pair(ast.Float(a), ast.Float(b)) }
func bools(a, b bool) ast.Term     { return ast.Pair(ast.Bool(a), ast.Bool(b)) }
func strs(a, b string) ast.Term    { return ast.Pair(ast.Str(a), ast.Str(b)) }

func TestRegistryNamesSorted(t *testing.T) {
	r, _ := newTestRegistry("")
	names := r.Names()
	if len(names) != r.Len() {
		t.Fatalf("Names() has %d entries, Len() = %d", len(names), r.Len())
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not strictly sorted at %d: %q, %q", i, names[i-1], names[i])
		}
	}
	names[0] = "mutated"
	if r.Names()[0] == "mutated" {
		t.Errorf("Names must return a copy")
	}
}

func TestRegistryTypes(t *testing.T) {
	r, _ := newTestRegistry("")
	tests := []struct {
		name string
		want string
	}{
		{"add", "int * int -> int"},
		{"print_endline", "string -> unit"},
		{"read_int", "unit -> int"},
		{"frexp", "float -> float * int"},
		{"ldexp", "float * int -> float"},
		{"concat", "string * string -> string"},
	}
	for _, tt := range tests {
		ty, ok := r.TypeOf(tt.name)
		if !ok {
			t.Errorf("TypeOf(%q) not found", tt.name)
			continue
		}
		if got := ast.TypeString(ty); got != tt.want {
			t.Errorf("TypeOf(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, ok := r.TypeOf("foo"); ok {
		t.Errorf("TypeOf(foo) should fail")
	}
	if r.IsPrimitive("foo") || !r.IsPrimitive("succ") {
		t.Errorf("IsPrimitive answers wrong")
	}
}

func TestIntegerPrimitives(t *testing.T) {
	r, _ := newTestRegistry("")
	tests := []struct {
		name string
		arg  ast.Term
		want int64
	}{
		{"add", ints(2, 3), 5},
		{"sub", ints(2, 3), -1},
		{"mul", ints(4, -3), -12},
		{"div", ints(7, 2), 3},
		{"div", ints(-7, 2), -3},
		{"mod", ints(-7, 2), -1},
		{"neg", ast.Int(4), -4},
		{"succ", ast.Int(4), 5},
		{"pred", ast.Int(4), 3},
		{"abs", ast.Int(-9), 9},
		{"land", ints(6, 3), 2},
		{"lor", ints(6, 3), 7},
		{"lxor", ints(6, 3), 5},
		{"lnot", ast.Int(0), -1},
		{"lsl", ints(1, 4), 16},
		{"asr", ints(-16, 2), -4},
		{"lsr", ints(-1, 63), 1},
		{"int_of_float", ast.Float(-2.7), -2},
		{"truncate", ast.Float(2.7), 2},
	}
	for _, tt := range tests {
		got := call(t, r, tt.name, tt.arg)
		if !ast.Equal(got, ast.Int(tt.want)) {
			t.Errorf("%s(%s) = %s, want %d", tt.name, ast.Print(tt.arg), ast.Print(got), tt.want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	r, _ := newTestRegistry("")
	for _, name := range []string{"div", "mod"} {
		p, _ := r.Lookup(name)
		if _, err := p.Fn(ints(1, 0)); !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("%s by zero: got %v", name, err)
		}
	}
}

func TestNegativeShift(t *testing.T) {
	r, _ := newTestRegistry("")
	p, _ := r.Lookup("lsl")
	if _, err := p.Fn(ints(1, -1)); err == nil {
		t.Errorf("expected error for negative shift count")
	}
}

func TestFloatPrimitives(t *testing.T) {
	r, _ := newTestRegistry("")
	tests := []struct {
		name string
		arg  ast.Term
		want float64
	}{
		{"fadd", floats(1.5, 2), 3.5},
		{"fsub", floats(1.5, 2), -0.5},
		{"fmul", floats(1.5, 2), 3},
		{"fdiv", floats(1, 4), 0.25},
		{"fneg", ast.Float(2), -2},
		{"pow", floats(2, 10), 1024},
		{"sqrt", ast.Float(9), 3},
		{"hypot", floats(3, 4), 5},
		{"mod_float", floats(7.5, 2), 1.5},
		{"float_of_int", ast.Int(3), 3},
		{"float", ast.Int(-1), -1},
		{"ldexp", ast.Pair(ast.Float(0.5), ast.Int(3)), 4},
	}
	for _, tt := range tests {
		got := call(t, r, tt.name, tt.arg)
		if !ast.Equal(got, ast.Float(tt.want)) {
			t.Errorf("%s(%s) = %s, want %v", tt.name, ast.Print(tt.arg), ast.Print(got), tt.want)
		}
	}

	if got := call(t, r, "fdiv", floats(1, 0)); !ast.Equal(got, ast.Float(math.Inf(1))) {
		t.Errorf("fdiv by zero = %s, want +inf", ast.Print(got))
	}
}

func TestPairResults(t *testing.T) {
	r, _ := newTestRegistry("")
	if got := call(t, r, "frexp", ast.Float(8)); !ast.Equal(got, ast.Pair(ast.Float(0.5), ast.Int(4))) {
		t.Errorf("frexp 8. = %s", ast.Print(got))
	}
	if got := call(t, r, "modf", ast.Float(2.5)); !ast.Equal(got, ast.Pair(ast.Float(0.5), ast.Float(2))) {
		t.Errorf("modf 2.5 = %s", ast.Print(got))
	}
}

func TestBoolAndStringPrimitives(t *testing.T) {
	r, _ := newTestRegistry("")
	tests := []struct {
		name string
		arg  ast.Term
		want ast.Term
	}{
		{"not", ast.Bool(true), ast.Bool(false)},
		{"and", bools(true, false), ast.Bool(false)},
		{"or", bools(true, false), ast.Bool(true)},
		{"concat", strs("foo", "bar"), ast.Str("foobar")},
	}
	for _, tt := range tests {
		if got := call(t, r, tt.name, tt.arg); !ast.Equal(got, tt.want) {
			t.Errorf("%s(%s) = %s, want %s", tt.name, ast.Print(tt.arg), ast.Print(got), ast.Print(tt.want))
		}
	}
}

func TestPrintPrimitives(t *testing.T) {
	r, out := newTestRegistry("")
	call(t, r, "print_string", ast.Str("a"))
	call(t, r, "print_int", ast.Int(-3))
	call(t, r, "print_bool", ast.Bool(true))
	call(t, r, "print_float", ast.Float(0.1))
	got := call(t, r, "print_endline", ast.Str("!"))
	if !ast.Equal(got, ast.Unit()) {
		t.Errorf("print_endline returned %s, want ()", ast.Print(got))
	}
	if want := "a-3true0.1!\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestReadPrimitives(t *testing.T) {
	r, _ := newTestRegistry("hello\n 42 \n2.5")
	if got := call(t, r, "read_line", ast.Unit()); !ast.Equal(got, ast.Str("hello")) {
		t.Errorf("read_line = %s", ast.Print(got))
	}
	if got := call(t, r, "read_int", ast.Unit()); !ast.Equal(got, ast.Int(42)) {
		t.Errorf("read_int = %s", ast.Print(got))
	}
	if got := call(t, r, "read_float", ast.Unit()); !ast.Equal(got, ast.Float(2.5)) {
		t.Errorf("read_float = %s", ast.Print(got))
	}
	p, _ := r.Lookup("read_line")
	if _, err := p.Fn(ast.Unit()); err == nil {
		t.Errorf("read_line at end of input should fail")
	}
}

func TestReadIntRejectsGarbage(t *testing.T) {
	r, _ := newTestRegistry("twelve\n")
	p, _ := r.Lookup("read_int")
	if _, err := p.Fn(ast.Unit()); err == nil || !strings.Contains(err.Error(), "read_int") {
		t.Errorf("expected read_int parse error, got %v", err)
	}
}

func TestBadArgument(t *testing.T) {
	r, _ := newTestRegistry("")
	p, _ := r.Lookup("add")
	_, err := p.Fn(ast.Pair(ast.V("x"), ast.Int(1)))
	if err == nil || !strings.Contains(err.Error(), "expected int argument, got x") {
		t.Errorf("unexpected error %v", err)
	}
}

// --- Curry ---

func TestCurryBinaryPrimitive(t *testing.T) {
	r, _ := newTestRegistry("")
	got := r.Curry(ast.V("add"))
	want := ast.Fun("_arg0", ast.TInt, ast.Fun("_arg1", ast.TInt,
		ast.Apply(ast.V("add"), ast.Pair(
			&ast.Var{Name: "_arg0", Index: ast.NoIndex, Type: ast.TInt},
			&ast.Var{Name: "_arg1", Index: ast.NoIndex, Type: ast.TInt}))))
	if !ast.Equal(got, want) {
		t.Errorf("Curry(add) =\n%s\nwant\n%s", spew.Sdump(got), spew.Sdump(want))
	}
	if ast.Print(got) != "fun _arg0 : int -> fun _arg1 : int -> add (_arg0, _arg1)" {
		t.Errorf("Curry(add) prints as %s", ast.Print(got))
	}
}

func TestCurryLeavesUnaryAndShadowed(t *testing.T) {
	r, _ := newTestRegistry("")
	if got := r.Curry(ast.V("succ")); !ast.Equal(got, ast.V("succ")) {
		t.Errorf("unary primitive changed: %s", ast.Print(got))
	}
	prog := ast.LetIn("add", nil, ast.Int(1), ast.V("add"))
	if got := r.Curry(prog); !ast.Equal(got, prog) {
		t.Errorf("shadowed name was curried: %s", ast.Print(got))
	}
	lam := ast.Fun("mul", nil, ast.V("mul"))
	if got := r.Curry(lam); !ast.Equal(got, lam) {
		t.Errorf("parameter was curried: %s", ast.Print(got))
	}
}

func TestCurryInsideLetValue(t *testing.T) {
	r, _ := newTestRegistry("")
	// let add = add in add: the value still refers to the primitive
	prog := ast.LetIn("add", nil, ast.V("add"), ast.V("add"))
	let := r.Curry(prog).(*ast.Let)
	if _, ok := let.Value.(*ast.Abs); !ok {
		t.Errorf("let value should be curried, got %s", ast.Print(let.Value))
	}
	if _, ok := let.Body.(*ast.Var); !ok {
		t.Errorf("let body refers to the binding, got %s", ast.Print(let.Body))
	}
}
