package ast

import "math"

// Equal reports whether two terms are structurally equal: same constructor and
// recursively equal payloads, including type slots. Floats compare by bit
// pattern so a NaN literal equals itself.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *UnitLit:
		_, ok := b.(*UnitLit)
		return ok
	case *BoolLit:
		y, ok := b.(*BoolLit)
		return ok && x.Value == y.Value
	case *IntLit:
		y, ok := b.(*IntLit)
		return ok && x.Value == y.Value
	case *FloatLit:
		y, ok := b.(*FloatLit)
		return ok && math.Float64bits(x.Value) == math.Float64bits(y.Value)
	case *StringLit:
		y, ok := b.(*StringLit)
		return ok && x.Value == y.Value
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Name == y.Name && x.Index == y.Index && TypesEqual(x.Type, y.Type)
	case *Tuple:
		y, ok := b.(*Tuple)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Let:
		y, ok := b.(*Let)
		return ok && x.Name == y.Name && TypesEqual(x.Type, y.Type) &&
			Equal(x.Value, y.Value) && Equal(x.Body, y.Body)
	case *Abs:
		y, ok := b.(*Abs)
		return ok && x.Param == y.Param && TypesEqual(x.ParamType, y.ParamType) &&
			Equal(x.Body, y.Body)
	case *App:
		y, ok := b.(*App)
		return ok && TypesEqual(x.Type, y.Type) && Equal(x.Fn, y.Fn) && Equal(x.Arg, y.Arg)
	}
	return false
}
