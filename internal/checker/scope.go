package checker

import "github.com/CharlesAverill/SuperML/internal/ast"

// SymbolKind represents the kind of binder that introduced a symbol
type SymbolKind int

const (
	SymLet SymbolKind = iota
	SymParam
)

// String returns the string representation of the symbol kind
func (sk SymbolKind) String() string {
	switch sk {
	case SymLet:
		return "let binding"
	case SymParam:
		return "parameter"
	default:
		return "unknown"
	}
}

// Symbol represents a symbol in the symbol table
type Symbol struct {
	Name string
	Type ast.Type
	Kind SymbolKind
}

// Scope is an immutable chain of bindings. Extending a scope never changes
// the parent, so inference can keep the outer scope for sibling terms.
type Scope struct {
	parent *Scope
	symbol *Symbol
}

// NewScope creates an empty scope
func NewScope() *Scope {
	return nil
}

// Extend returns a child scope with sym bound; it shadows any outer binding
// with the same name.
func (s *Scope) Extend(sym *Symbol) *Scope {
	return &Scope{parent: s, symbol: sym}
}

// Resolve looks up a symbol in the current scope and parent scopes
// Returns nil if the symbol is not found
func (s *Scope) Resolve(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.symbol.Name == name {
			return sc.symbol
		}
	}
	return nil
}

// Len returns the number of bindings visible from s, shadowed ones included
func (s *Scope) Len() int {
	n := 0
	for sc := s; sc != nil; sc = sc.parent {
		n++
	}
	return n
}
