package reduce

import (
	"fmt"

	"github.com/CharlesAverill/SuperML/internal/ast"
	"github.com/CharlesAverill/SuperML/internal/prims"
)

// Natives resolves primitive names to their implementations.
type Natives interface {
	Lookup(name string) (*prims.Primitive, bool)
}

// NativeError reports a failure inside a primitive.
type NativeError struct {
	Name string
	Arg  ast.Term
	Err  error
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Name, ast.Print(e.Arg), e.Err)
}

func (e *NativeError) Unwrap() error { return e.Err }

// SmallStep performs one call-by-value reduction step. It reports false when
// no rule applies, which is not an error: the term is either fully evaluated
// or blocked on a free variable. Errors come only from primitives.
//
// Applications reduce the function, then the argument, then fire: a
// primitive receives its argument once it is closed and fully evaluated, an
// abstraction has the argument substituted into its body. Tuples reduce left
// to right and lets reduce their bound value before substituting it.
// Abstraction bodies are never entered.
func SmallStep(t ast.Term, natives Natives) (ast.Term, bool, error) {
	switch t := t.(type) {
	case *ast.App:
		if fn, ok, err := SmallStep(t.Fn, natives); err != nil || ok {
			return &ast.App{Fn: fn, Arg: t.Arg, Type: t.Type}, ok, err
		}
		if arg, ok, err := SmallStep(t.Arg, natives); err != nil || ok {
			return &ast.App{Fn: t.Fn, Arg: arg, Type: t.Type}, ok, err
		}
		switch fn := t.Fn.(type) {
		case *ast.Var:
			p, ok := natives.Lookup(fn.Name)
			if !ok || !IsNormal(t.Arg) || ast.FreeVars(t.Arg).Size() > 0 {
				return t, false, nil
			}
			out, err := call(p, t.Arg)
			if err != nil {
				return t, false, err
			}
			return out, true, nil
		case *ast.Abs:
			if !IsNormal(t.Arg) {
				return t, false, nil
			}
			return Substitute(fn.Body, fn.Param, t.Arg), true, nil
		}
		return t, false, nil

	case *ast.Tuple:
		if l, ok, err := SmallStep(t.Left, natives); err != nil || ok {
			return &ast.Tuple{Left: l, Right: t.Right}, ok, err
		}
		if r, ok, err := SmallStep(t.Right, natives); err != nil || ok {
			return &ast.Tuple{Left: t.Left, Right: r}, ok, err
		}
		return t, false, nil

	case *ast.Let:
		if v, ok, err := SmallStep(t.Value, natives); err != nil || ok {
			return &ast.Let{Name: t.Name, Type: t.Type, Value: v, Body: t.Body}, ok, err
		}
		if !IsNormal(t.Value) {
			return t, false, nil
		}
		return Substitute(t.Body, t.Name, t.Value), true, nil
	}
	return t, false, nil
}

// IsNormal reports whether t has nothing left to evaluate outside of
// abstraction bodies.
func IsNormal(t ast.Term) bool {
	switch t := t.(type) {
	case *ast.App, *ast.Let:
		return false
	case *ast.Tuple:
		return IsNormal(t.Left) && IsNormal(t.Right)
	}
	return true
}

// call runs a native, turning a panic into an error.
func call(p *prims.Primitive, arg ast.Term) (out ast.Term, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &NativeError{Name: p.Name, Arg: arg, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err = p.Fn(arg)
	if err != nil {
		return nil, &NativeError{Name: p.Name, Arg: arg, Err: err}
	}
	return out, nil
}
