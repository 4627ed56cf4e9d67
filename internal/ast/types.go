package ast

import "sync/atomic"

// Type is the base interface for all type nodes
type Type interface {
	typeNode()
	String() string
}

// Base represents one of the ground types
type Base int

const (
	TUnit Base = iota
	TBool
	TInt
	TFloat
	TString
)

func (Base) typeNode() {}

// String returns the surface name of the base type
func (b Base) String() string {
	switch b {
	case TUnit:
		return "unit"
	case TBool:
		return "bool"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TString:
		return "string"
	default:
		return "<base?>"
	}
}

// TupleType represents a pair type `Left * Right`
type TupleType struct {
	Left  Type
	Right Type
}

func (*TupleType) typeNode()        {}
func (t *TupleType) String() string { return TypeString(t) }

// ArrowType represents a function type `Param -> Result`
type ArrowType struct {
	Param  Type
	Result Type
}

func (*ArrowType) typeNode()        {}
func (t *ArrowType) String() string { return TypeString(t) }

// Unknown is an unresolved type variable. Two unknowns are the same variable
// only if they are the same pointer; ID is used for printing.
type Unknown struct {
	ID int64
}

func (*Unknown) typeNode()        {}
func (u *Unknown) String() string { return TypeString(u) }

var unknownCounter atomic.Int64

// NewUnknown mints a fresh type variable
func NewUnknown() *Unknown {
	return &Unknown{ID: unknownCounter.Add(1) - 1}
}

// Tup builds a tuple type
func Tup(left, right Type) *TupleType { return &TupleType{Left: left, Right: right} }

// Arrow builds an arrow type
func Arrow(param, result Type) *ArrowType { return &ArrowType{Param: param, Result: result} }

// TypesEqual reports whether two types are structurally equal. Unknowns are
// compared by identity, and a nil type only equals nil.
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Base:
		y, ok := b.(Base)
		return ok && x == y
	case *TupleType:
		y, ok := b.(*TupleType)
		return ok && TypesEqual(x.Left, y.Left) && TypesEqual(x.Right, y.Right)
	case *ArrowType:
		y, ok := b.(*ArrowType)
		return ok && TypesEqual(x.Param, y.Param) && TypesEqual(x.Result, y.Result)
	case *Unknown:
		y, ok := b.(*Unknown)
		return ok && x == y
	}
	return false
}

// FlattenTuple returns the components of a right-nested tuple type
// (`a * (b * c)` yields [a b c]). Non-tuples yield a single element.
func FlattenTuple(t Type) []Type {
	var out []Type
	for {
		tup, ok := t.(*TupleType)
		if !ok {
			return append(out, t)
		}
		out = append(out, tup.Left)
		t = tup.Right
	}
}
