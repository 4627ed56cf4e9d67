package ast

// Term is the base interface for all expression nodes
type Term interface {
	termNode()
}

// Wildcard is the binder name that is never substituted or looked up
const Wildcard = "_"

// NoIndex marks a variable whose de Bruijn index was never computed
const NoIndex = -1

// UnitLit represents the unit value `()`
type UnitLit struct{}

// BoolLit represents a boolean literal
type BoolLit struct {
	Value bool
}

// IntLit represents an integer literal
type IntLit struct {
	Value int64
}

// FloatLit represents a floating point literal
type FloatLit struct {
	Value float64
}

// StringLit represents a string literal
type StringLit struct {
	Value string
}

// Var represents a variable occurrence. Type is filled in by the checker.
type Var struct {
	Name  string
	Index int
	Type  Type
}

// Tuple represents a pair `(Left, Right)`
type Tuple struct {
	Left  Term
	Right Term
}

// Let represents `let Name : Type = Value in Body`. Type is nil when the
// binding carries no annotation and has not been checked yet.
type Let struct {
	Name  string
	Type  Type
	Value Term
	Body  Term
}

// Abs represents `fun Param : ParamType -> Body`
type Abs struct {
	Param     string
	ParamType Type
	Body      Term
}

// App represents the application `Fn Arg`. Type is the result type once checked.
type App struct {
	Fn   Term
	Arg  Term
	Type Type
}

func (*UnitLit) termNode()   {}
func (*BoolLit) termNode()   {}
func (*IntLit) termNode()    {}
func (*FloatLit) termNode()  {}
func (*StringLit) termNode() {}
func (*Var) termNode()       {}
func (*Tuple) termNode()     {}
func (*Let) termNode()       {}
func (*Abs) termNode()       {}
func (*App) termNode()       {}

// Constructors used throughout the engine and its tests.

func Unit() *UnitLit            { return &UnitLit{} }
func Bool(v bool) *BoolLit      { return &BoolLit{Value: v} }
func Int(v int64) *IntLit       { return &IntLit{Value: v} }
func Float(v float64) *FloatLit { return &FloatLit{Value: v} }
func Str(v string) *StringLit   { return &StringLit{Value: v} }
func V(name string) *Var        { return &Var{Name: name, Index: NoIndex} }
func Pair(l, r Term) *Tuple     { return &Tuple{Left: l, Right: r} }
func Apply(fn, arg Term) *App   { return &App{Fn: fn, Arg: arg} }

func Fun(param string, ty Type, body Term) *Abs {
	return &Abs{Param: param, ParamType: ty, Body: body}
}

func LetIn(name string, ty Type, value, body Term) *Let {
	return &Let{Name: name, Type: ty, Value: value, Body: body}
}

// IsLiteral reports whether t is a closed ground constant
func IsLiteral(t Term) bool {
	switch t.(type) {
	case *UnitLit, *BoolLit, *IntLit, *FloatLit, *StringLit:
		return true
	}
	return false
}

// LiteralType returns the base type of a literal, or nil for other terms
func LiteralType(t Term) Type {
	switch t.(type) {
	case *UnitLit:
		return TUnit
	case *BoolLit:
		return TBool
	case *IntLit:
		return TInt
	case *FloatLit:
		return TFloat
	case *StringLit:
		return TString
	}
	return nil
}
