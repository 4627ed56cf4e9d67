package checker

import "github.com/CharlesAverill/SuperML/internal/ast"

// Subst maps unresolved type variables, by identity, to the types they were
// unified with. It behaves like a union-find: Deref follows chains of
// bindings and shortens them as it goes. No type node is ever mutated.
type Subst struct {
	bindings map[*ast.Unknown]ast.Type
}

// NewSubst creates an empty substitution
func NewSubst() *Subst {
	return &Subst{bindings: make(map[*ast.Unknown]ast.Type)}
}

// Lookup returns the type directly bound to u, if any
func (s *Subst) Lookup(u *ast.Unknown) (ast.Type, bool) {
	t, ok := s.bindings[u]
	return t, ok
}

// Len returns the number of bound type variables
func (s *Subst) Len() int {
	return len(s.bindings)
}

// Deref resolves the head of t: an unknown is followed through the map until
// reaching a concrete constructor or an unbound unknown. Components of
// tuples and arrows are left as they are.
func (s *Subst) Deref(t ast.Type) ast.Type {
	u, ok := t.(*ast.Unknown)
	if !ok {
		return t
	}
	bound, ok := s.bindings[u]
	if !ok {
		return u
	}
	root := s.Deref(bound)
	if root != bound {
		s.bindings[u] = root
	}
	return root
}

// Resolve dereferences t all the way down. Unbound unknowns stay in place.
func (s *Subst) Resolve(t ast.Type) ast.Type {
	switch d := s.Deref(t).(type) {
	case *ast.TupleType:
		l, r := s.Resolve(d.Left), s.Resolve(d.Right)
		if l == d.Left && r == d.Right {
			return d
		}
		return ast.Tup(l, r)
	case *ast.ArrowType:
		p, r := s.Resolve(d.Param), s.Resolve(d.Result)
		if p == d.Param && r == d.Result {
			return d
		}
		return ast.Arrow(p, r)
	default:
		return d
	}
}

// occurs reports whether u appears in t, looking through bound variables.
func (s *Subst) occurs(u *ast.Unknown, t ast.Type) bool {
	switch d := s.Deref(t).(type) {
	case *ast.Unknown:
		return d == u
	case *ast.TupleType:
		return s.occurs(u, d.Left) || s.occurs(u, d.Right)
	case *ast.ArrowType:
		return s.occurs(u, d.Param) || s.occurs(u, d.Result)
	}
	return false
}

// Unify makes a and b equal by binding unknowns in s. On failure s may hold
// bindings made for components that unified before the mismatch; it never
// holds a cyclic binding.
func (s *Subst) Unify(a, b ast.Type) error {
	a, b = s.Deref(a), s.Deref(b)

	if ua, ok := a.(*ast.Unknown); ok {
		if ub, ok := b.(*ast.Unknown); ok && ua == ub {
			return nil
		}
		return s.bind(ua, b, a, b)
	}
	if ub, ok := b.(*ast.Unknown); ok {
		return s.bind(ub, a, a, b)
	}

	switch x := a.(type) {
	case ast.Base:
		if y, ok := b.(ast.Base); ok && x == y {
			return nil
		}
	case *ast.TupleType:
		if y, ok := b.(*ast.TupleType); ok {
			if err := s.Unify(x.Left, y.Left); err != nil {
				return err
			}
			return s.Unify(x.Right, y.Right)
		}
	case *ast.ArrowType:
		if y, ok := b.(*ast.ArrowType); ok {
			if err := s.Unify(x.Param, y.Param); err != nil {
				return err
			}
			return s.Unify(x.Result, y.Result)
		}
	}
	return s.mismatch(ReasonMismatch, a, b)
}

func (s *Subst) bind(u *ast.Unknown, t, left, right ast.Type) error {
	if s.occurs(u, t) {
		return s.mismatch(ReasonInfinite, left, right)
	}
	s.bindings[u] = t
	return nil
}

func (s *Subst) mismatch(reason Reason, a, b ast.Type) *TypeError {
	return &TypeError{Reason: reason, Left: s.Resolve(a), Right: s.Resolve(b)}
}
