package prims

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// ErrDivisionByZero is returned by div and mod
var ErrDivisionByZero = errors.New("division by zero")

var (
	tUnit   = ast.TUnit
	tBool   = ast.TBool
	tInt    = ast.TInt
	tFloat  = ast.TFloat
	tString = ast.TString
)

func prim(name string, in, out ast.Type, fn Native) *Primitive {
	return &Primitive{Name: name, Type: ast.Arrow(in, out), Fn: fn}
}

func builtins(host IO) []*Primitive {
	return []*Primitive{
		// Output
		prim("print_string", tString, tUnit, stringToUnit(func(s string) error { return host.Print(s) })),
		prim("print_endline", tString, tUnit, stringToUnit(func(s string) error { return host.Print(s + "\n") })),
		prim("print_int", tInt, tUnit, func(arg ast.Term) (ast.Term, error) {
			v, err := asInt(arg)
			if err != nil {
				return nil, err
			}
			return ast.Unit(), host.Print(strconv.FormatInt(v, 10))
		}),
		prim("print_float", tFloat, tUnit, func(arg ast.Term) (ast.Term, error) {
			v, err := asFloat(arg)
			if err != nil {
				return nil, err
			}
			return ast.Unit(), host.Print(strconv.FormatFloat(v, 'g', 15, 64))
		}),
		prim("print_bool", tBool, tUnit, func(arg ast.Term) (ast.Term, error) {
			v, err := asBool(arg)
			if err != nil {
				return nil, err
			}
			return ast.Unit(), host.Print(strconv.FormatBool(v))
		}),

		// Input
		prim("read_line", tUnit, tString, func(arg ast.Term) (ast.Term, error) {
			line, err := host.ReadLine("read_line")
			if err != nil {
				return nil, err
			}
			return ast.Str(line), nil
		}),
		prim("read_int", tUnit, tInt, func(arg ast.Term) (ast.Term, error) {
			line, err := host.ReadLine("read_int")
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("read_int: %w", err)
			}
			return ast.Int(v), nil
		}),
		prim("read_float", tUnit, tFloat, func(arg ast.Term) (ast.Term, error) {
			line, err := host.ReadLine("read_float")
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
			if err != nil {
				return nil, fmt.Errorf("read_float: %w", err)
			}
			return ast.Float(v), nil
		}),

		// Booleans
		prim("not", tBool, tBool, boolOp1(func(a bool) bool { return !a })),
		prim("and", ast.Tup(tBool, tBool), tBool, boolOp2(func(a, b bool) bool { return a && b })),
		prim("or", ast.Tup(tBool, tBool), tBool, boolOp2(func(a, b bool) bool { return a || b })),

		// Integers
		prim("neg", tInt, tInt, intOp1(func(a int64) int64 { return -a })),
		prim("succ", tInt, tInt, intOp1(func(a int64) int64 { return a + 1 })),
		prim("pred", tInt, tInt, intOp1(func(a int64) int64 { return a - 1 })),
		prim("add", intPair(), tInt, intOp2(func(a, b int64) (int64, error) { return a + b, nil })),
		prim("sub", intPair(), tInt, intOp2(func(a, b int64) (int64, error) { return a - b, nil })),
		prim("mul", intPair(), tInt, intOp2(func(a, b int64) (int64, error) { return a * b, nil })),
		prim("div", intPair(), tInt, intOp2(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a / b, nil
		})),
		prim("mod", intPair(), tInt, intOp2(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a % b, nil
		})),
		prim("abs", tInt, tInt, intOp1(func(a int64) int64 {
			if a < 0 {
				return -a
			}
			return a
		})),
		prim("land", intPair(), tInt, intOp2(func(a, b int64) (int64, error) { return a & b, nil })),
		prim("lor", intPair(), tInt, intOp2(func(a, b int64) (int64, error) { return a | b, nil })),
		prim("lxor", intPair(), tInt, intOp2(func(a, b int64) (int64, error) { return a ^ b, nil })),
		prim("lnot", tInt, tInt, intOp1(func(a int64) int64 { return ^a })),
		prim("lsl", intPair(), tInt, shiftOp(func(a int64, n uint64) int64 { return a << n })),
		prim("lsr", intPair(), tInt, shiftOp(func(a int64, n uint64) int64 { return int64(uint64(a) >> n) })),
		prim("asr", intPair(), tInt, shiftOp(func(a int64, n uint64) int64 { return a >> n })),

		// Floats
		prim("fneg", tFloat, tFloat, floatOp1(func(a float64) float64 { return -a })),
		prim("fpos", tFloat, tFloat, floatOp1(func(a float64) float64 { return +a })),
		prim("fadd", floatPair(), tFloat, floatOp2(func(a, b float64) float64 { return a + b })),
		prim("fsub", floatPair(), tFloat, floatOp2(func(a, b float64) float64 { return a - b })),
		prim("fmul", floatPair(), tFloat, floatOp2(func(a, b float64) float64 { return a * b })),
		prim("fdiv", floatPair(), tFloat, floatOp2(func(a, b float64) float64 { return a / b })),
		prim("pow", floatPair(), tFloat, floatOp2(math.Pow)),
		prim("sqrt", tFloat, tFloat, floatOp1(math.Sqrt)),
		prim("exp", tFloat, tFloat, floatOp1(math.Exp)),
		prim("log", tFloat, tFloat, floatOp1(math.Log)),
		prim("log10", tFloat, tFloat, floatOp1(math.Log10)),
		prim("expm1", tFloat, tFloat, floatOp1(math.Expm1)),
		prim("log1p", tFloat, tFloat, floatOp1(math.Log1p)),
		prim("cos", tFloat, tFloat, floatOp1(math.Cos)),
		prim("sin", tFloat, tFloat, floatOp1(math.Sin)),
		prim("tan", tFloat, tFloat, floatOp1(math.Tan)),
		prim("acos", tFloat, tFloat, floatOp1(math.Acos)),
		prim("asin", tFloat, tFloat, floatOp1(math.Asin)),
		prim("atan", tFloat, tFloat, floatOp1(math.Atan)),
		prim("atan2", floatPair(), tFloat, floatOp2(math.Atan2)),
		prim("cosh", tFloat, tFloat, floatOp1(math.Cosh)),
		prim("sinh", tFloat, tFloat, floatOp1(math.Sinh)),
		prim("tanh", tFloat, tFloat, floatOp1(math.Tanh)),
		prim("acosh", tFloat, tFloat, floatOp1(math.Acosh)),
		prim("asinh", tFloat, tFloat, floatOp1(math.Asinh)),
		prim("atanh", tFloat, tFloat, floatOp1(math.Atanh)),
		prim("hypot", floatPair(), tFloat, floatOp2(math.Hypot)),
		prim("copysign", floatPair(), tFloat, floatOp2(math.Copysign)),
		prim("mod_float", floatPair(), tFloat, floatOp2(math.Mod)),
		prim("frexp", tFloat, ast.Tup(tFloat, tInt), func(arg ast.Term) (ast.Term, error) {
			v, err := asFloat(arg)
			if err != nil {
				return nil, err
			}
			frac, exp := math.Frexp(v)
			return ast.Pair(ast.Float(frac), ast.Int(int64(exp))), nil
		}),
		prim("ldexp", ast.Tup(tFloat, tInt), tFloat, func(arg ast.Term) (ast.Term, error) {
			l, r, err := asPair(arg)
			if err != nil {
				return nil, err
			}
			frac, err := asFloat(l)
			if err != nil {
				return nil, err
			}
			exp, err := asInt(r)
			if err != nil {
				return nil, err
			}
			return ast.Float(math.Ldexp(frac, int(exp))), nil
		}),
		prim("modf", tFloat, ast.Tup(tFloat, tFloat), func(arg ast.Term) (ast.Term, error) {
			v, err := asFloat(arg)
			if err != nil {
				return nil, err
			}
			ip, frac := math.Modf(v)
			return ast.Pair(ast.Float(frac), ast.Float(ip)), nil
		}),

		// Conversions
		prim("float_of_int", tInt, tFloat, floatOfInt),
		prim("float", tInt, tFloat, floatOfInt),
		prim("int_of_float", tFloat, tInt, intOfFloat),
		prim("truncate", tFloat, tInt, intOfFloat),

		// Strings
		prim("concat", ast.Tup(tString, tString), tString, func(arg ast.Term) (ast.Term, error) {
			l, r, err := asPair(arg)
			if err != nil {
				return nil, err
			}
			a, err := asString(l)
			if err != nil {
				return nil, err
			}
			b, err := asString(r)
			if err != nil {
				return nil, err
			}
			return ast.Str(a + b), nil
		}),
	}
}

func intPair() ast.Type   { return ast.Tup(tInt, tInt) }
func floatPair() ast.Type { return ast.Tup(tFloat, tFloat) }

func floatOfInt(arg ast.Term) (ast.Term, error) {
	v, err := asInt(arg)
	if err != nil {
		return nil, err
	}
	return ast.Float(float64(v)), nil
}

func intOfFloat(arg ast.Term) (ast.Term, error) {
	v, err := asFloat(arg)
	if err != nil {
		return nil, err
	}
	return ast.Int(int64(v)), nil
}

func stringToUnit(f func(string) error) Native {
	return func(arg ast.Term) (ast.Term, error) {
		s, err := asString(arg)
		if err != nil {
			return nil, err
		}
		if err := f(s); err != nil {
			return nil, err
		}
		return ast.Unit(), nil
	}
}

func boolOp1(f func(bool) bool) Native {
	return func(arg ast.Term) (ast.Term, error) {
		a, err := asBool(arg)
		if err != nil {
			return nil, err
		}
		return ast.Bool(f(a)), nil
	}
}

func boolOp2(f func(a, b bool) bool) Native {
	return func(arg ast.Term) (ast.Term, error) {
		l, r, err := asPair(arg)
		if err != nil {
			return nil, err
		}
		a, err := asBool(l)
		if err != nil {
			return nil, err
		}
		b, err := asBool(r)
		if err != nil {
			return nil, err
		}
		return ast.Bool(f(a, b)), nil
	}
}

func intOp1(f func(int64) int64) Native {
	return func(arg ast.Term) (ast.Term, error) {
		a, err := asInt(arg)
		if err != nil {
			return nil, err
		}
		return ast.Int(f(a)), nil
	}
}

func intOp2(f func(a, b int64) (int64, error)) Native {
	return func(arg ast.Term) (ast.Term, error) {
		a, b, err := intArgs(arg)
		if err != nil {
			return nil, err
		}
		v, err := f(a, b)
		if err != nil {
			return nil, err
		}
		return ast.Int(v), nil
	}
}

func shiftOp(f func(a int64, n uint64) int64) Native {
	return intOp2(func(a, b int64) (int64, error) {
		if b < 0 {
			return 0, fmt.Errorf("negative shift count %d", b)
		}
		return f(a, uint64(b)), nil
	})
}

func intArgs(arg ast.Term) (int64, int64, error) {
	l, r, err := asPair(arg)
	if err != nil {
		return 0, 0, err
	}
	a, err := asInt(l)
	if err != nil {
		return 0, 0, err
	}
	b, err := asInt(r)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func floatOp1(f func(float64) float64) Native {
	return func(arg ast.Term) (ast.Term, error) {
		a, err := asFloat(arg)
		if err != nil {
			return nil, err
		}
		return ast.Float(f(a)), nil
	}
}

func floatOp2(f func(a, b float64) float64) Native {
	return func(arg ast.Term) (ast.Term, error) {
		l, r, err := asPair(arg)
		if err != nil {
			return nil, err
		}
		a, err := asFloat(l)
		if err != nil {
			return nil, err
		}
		b, err := asFloat(r)
		if err != nil {
			return nil, err
		}
		return ast.Float(f(a, b)), nil
	}
}

// Argument extraction. A mismatch means the term reached the primitive
// without a concrete value, which only happens for unresolved free names.

func badArg(want string, got ast.Term) error {
	return fmt.Errorf("expected %s argument, got %s", want, ast.Print(got))
}

func asInt(t ast.Term) (int64, error) {
	if v, ok := t.(*ast.IntLit); ok {
		return v.Value, nil
	}
	return 0, badArg("int", t)
}

func asFloat(t ast.Term) (float64, error) {
	if v, ok := t.(*ast.FloatLit); ok {
		return v.Value, nil
	}
	return 0, badArg("float", t)
}

func asBool(t ast.Term) (bool, error) {
	if v, ok := t.(*ast.BoolLit); ok {
		return v.Value, nil
	}
	return false, badArg("bool", t)
}

func asString(t ast.Term) (string, error) {
	if v, ok := t.(*ast.StringLit); ok {
		return v.Value, nil
	}
	return "", badArg("string", t)
}

func asPair(t ast.Term) (ast.Term, ast.Term, error) {
	if v, ok := t.(*ast.Tuple); ok {
		return v.Left, v.Right, nil
	}
	return nil, nil, badArg("tuple", t)
}
