package ast

import "github.com/hashicorp/go-set/v3"

// FreeVars returns the names occurring free in t. The wildcard is never free.
func FreeVars(t Term) *set.Set[string] {
	free := set.New[string](0)
	collectFree(t, set.New[string](0), free)
	return free
}

// OccursFree reports whether name occurs free in t
func OccursFree(name string, t Term) bool {
	return FreeVars(t).Contains(name)
}

func collectFree(t Term, bound, free *set.Set[string]) {
	switch t := t.(type) {
	case *Var:
		if t.Name != Wildcard && !bound.Contains(t.Name) {
			free.Insert(t.Name)
		}
	case *Tuple:
		collectFree(t.Left, bound, free)
		collectFree(t.Right, bound, free)
	case *App:
		collectFree(t.Fn, bound, free)
		collectFree(t.Arg, bound, free)
	case *Abs:
		collectFree(t.Body, withBound(bound, t.Param), free)
	case *Let:
		collectFree(t.Value, bound, free)
		collectFree(t.Body, withBound(bound, t.Name), free)
	}
}

func withBound(bound *set.Set[string], name string) *set.Set[string] {
	if bound.Contains(name) {
		return bound
	}
	inner := bound.Copy()
	inner.Insert(name)
	return inner
}

// FreshName returns base, primed until it is not a member of avoid.
func FreshName(base string, avoid *set.Set[string]) string {
	name := base
	for avoid.Contains(name) {
		name += "'"
	}
	return name
}
