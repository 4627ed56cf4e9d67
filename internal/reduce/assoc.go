package reduce

import "github.com/CharlesAverill/SuperML/internal/ast"

// Assoc flattens lets nested in binding position:
//
//	let x = (let y = e1 in e2) in e3  ~>  let y = e1 in let x = e2 in e3
//
// so that sequential lets read left to right. If y occurs free in e3 it is
// renamed first so the hoisted binding cannot capture it.
func Assoc(t ast.Term) ast.Term {
	switch t := t.(type) {
	case *ast.Let:
		return insert(t.Name, t.Type, Assoc(t.Value), t.Body)
	case *ast.Tuple:
		return &ast.Tuple{Left: Assoc(t.Left), Right: Assoc(t.Right)}
	case *ast.Abs:
		return &ast.Abs{Param: t.Param, ParamType: t.ParamType, Body: Assoc(t.Body)}
	case *ast.App:
		return &ast.App{Fn: Assoc(t.Fn), Arg: Assoc(t.Arg), Type: t.Type}
	default:
		return t
	}
}

// insert threads the continuation k to the bottom of the let chain in value
// and binds name there.
func insert(name string, ty ast.Type, value, k ast.Term) ast.Term {
	inner, ok := value.(*ast.Let)
	if !ok {
		return &ast.Let{Name: name, Type: ty, Value: value, Body: Assoc(k)}
	}
	innerName, innerBody := inner.Name, inner.Body
	if innerName != name && innerName != ast.Wildcard && ast.OccursFree(innerName, k) {
		avoid := ast.FreeVars(k)
		avoid.InsertSet(ast.FreeVars(innerBody))
		innerName = ast.FreshName(innerName, avoid)
		innerBody = Substitute(innerBody, inner.Name, &ast.Var{Name: innerName, Index: ast.NoIndex, Type: inner.Type})
	}
	return &ast.Let{
		Name:  innerName,
		Type:  inner.Type,
		Value: inner.Value,
		Body:  insert(name, ty, innerBody, k),
	}
}
