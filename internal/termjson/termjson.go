// Package termjson is the wire format between an external parser and the
// engine: a term tree encoded as nested JSON objects.
//
//	{"kind": "let", "name": "x", "type": "int",
//	 "value": {"kind": "int", "value": 2},
//	 "body":  {"kind": "app", "fn": {"kind": "var", "name": "add"},
//	           "arg": {"kind": "tuple", "left": {"kind": "var", "name": "x"},
//	                   "right": {"kind": "int", "value": 3}}}}
//
// Types are either a base type name ("unit", "bool", "int", "float",
// "string") or one of {"tuple": [l, r]}, {"arrow": [param, result]},
// {"var": "a"}. Type variables with the same name in one document are the
// same variable.
package termjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

type wireTerm struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
	Name  string          `json:"name,omitempty"`
	Param string          `json:"param,omitempty"`
	Index *int            `json:"index,omitempty"`
	Type  json.RawMessage `json:"type,omitempty"`
	Left  *wireTerm       `json:"left,omitempty"`
	Right *wireTerm       `json:"right,omitempty"`
	Body  *wireTerm       `json:"body,omitempty"`
	Fn    *wireTerm       `json:"fn,omitempty"`
	Arg   *wireTerm       `json:"arg,omitempty"`
}

type wireType struct {
	Tuple []json.RawMessage `json:"tuple,omitempty"`
	Arrow []json.RawMessage `json:"arrow,omitempty"`
	Var   *string           `json:"var,omitempty"`
}

// Decode parses a JSON document into a term.
func Decode(data []byte) (ast.Term, error) {
	var w wireTerm
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode term: %w", err)
	}
	d := &decoder{vars: make(map[string]*ast.Unknown)}
	return d.term(&w, "$")
}

type decoder struct {
	vars map[string]*ast.Unknown
}

func (d *decoder) term(w *wireTerm, path string) (ast.Term, error) {
	if w == nil {
		return nil, fmt.Errorf("%s: missing term", path)
	}
	switch w.Kind {
	case "unit":
		return ast.Unit(), nil
	case "bool":
		var v bool
		if err := literal(w, path, &v); err != nil {
			return nil, err
		}
		return ast.Bool(v), nil
	case "int":
		var v int64
		if err := literal(w, path, &v); err != nil {
			return nil, err
		}
		return ast.Int(v), nil
	case "float":
		var v float64
		if err := literal(w, path, &v); err != nil {
			return nil, err
		}
		return ast.Float(v), nil
	case "string":
		var v string
		if err := literal(w, path, &v); err != nil {
			return nil, err
		}
		return ast.Str(v), nil
	case "var":
		if w.Name == "" {
			return nil, fmt.Errorf("%s: variable without a name", path)
		}
		v := ast.V(w.Name)
		if w.Index != nil {
			v.Index = *w.Index
		}
		return v, nil
	case "tuple":
		l, err := d.term(w.Left, path+".left")
		if err != nil {
			return nil, err
		}
		r, err := d.term(w.Right, path+".right")
		if err != nil {
			return nil, err
		}
		return ast.Pair(l, r), nil
	case "let":
		if w.Name == "" {
			return nil, fmt.Errorf("%s: let without a name", path)
		}
		ty, err := d.optType(w.Type, path+".type")
		if err != nil {
			return nil, err
		}
		var vw wireTerm
		if err := json.Unmarshal(w.Value, &vw); err != nil {
			return nil, fmt.Errorf("%s.value: %w", path, err)
		}
		value, err := d.term(&vw, path+".value")
		if err != nil {
			return nil, err
		}
		body, err := d.term(w.Body, path+".body")
		if err != nil {
			return nil, err
		}
		return ast.LetIn(w.Name, ty, value, body), nil
	case "fun":
		if w.Param == "" {
			return nil, fmt.Errorf("%s: fun without a parameter", path)
		}
		ty, err := d.optType(w.Type, path+".type")
		if err != nil {
			return nil, err
		}
		body, err := d.term(w.Body, path+".body")
		if err != nil {
			return nil, err
		}
		return ast.Fun(w.Param, ty, body), nil
	case "app":
		fn, err := d.term(w.Fn, path+".fn")
		if err != nil {
			return nil, err
		}
		arg, err := d.term(w.Arg, path+".arg")
		if err != nil {
			return nil, err
		}
		return ast.Apply(fn, arg), nil
	case "":
		return nil, fmt.Errorf("%s: missing kind", path)
	default:
		return nil, fmt.Errorf("%s: unknown term kind %q", path, w.Kind)
	}
}

func literal(w *wireTerm, path string, out any) error {
	if len(w.Value) == 0 {
		return fmt.Errorf("%s: %s literal without a value", path, w.Kind)
	}
	if err := json.Unmarshal(w.Value, out); err != nil {
		return fmt.Errorf("%s.value: %w", path, err)
	}
	return nil
}

func (d *decoder) optType(raw json.RawMessage, path string) (ast.Type, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return d.typ(raw, path)
}

func (d *decoder) typ(raw json.RawMessage, path string) (ast.Type, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case "unit":
			return ast.TUnit, nil
		case "bool":
			return ast.TBool, nil
		case "int":
			return ast.TInt, nil
		case "float":
			return ast.TFloat, nil
		case "string":
			return ast.TString, nil
		}
		return nil, fmt.Errorf("%s: unknown type %q", path, name)
	}

	var w wireType
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	switch {
	case w.Var != nil:
		name := strings.TrimPrefix(*w.Var, "'")
		if u, ok := d.vars[name]; ok {
			return u, nil
		}
		u := ast.NewUnknown()
		d.vars[name] = u
		return u, nil
	case w.Tuple != nil:
		l, r, err := d.typePair(w.Tuple, path+".tuple")
		if err != nil {
			return nil, err
		}
		return ast.Tup(l, r), nil
	case w.Arrow != nil:
		p, r, err := d.typePair(w.Arrow, path+".arrow")
		if err != nil {
			return nil, err
		}
		return ast.Arrow(p, r), nil
	}
	return nil, fmt.Errorf("%s: empty type", path)
}

func (d *decoder) typePair(raw []json.RawMessage, path string) (ast.Type, ast.Type, error) {
	if len(raw) != 2 {
		return nil, nil, fmt.Errorf("%s: want 2 components, got %d", path, len(raw))
	}
	l, err := d.typ(raw[0], path+"[0]")
	if err != nil {
		return nil, nil, err
	}
	r, err := d.typ(raw[1], path+"[1]")
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// ErrNotEncodable is returned for float values JSON cannot represent.
var ErrNotEncodable = errors.New("value has no JSON encoding")

// Encode renders a term in the same format Decode reads.
func Encode(t ast.Term) ([]byte, error) {
	w, err := encodeTerm(t)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(w, "", "  ")
}

func encodeTerm(t ast.Term) (*wireTerm, error) {
	switch t := t.(type) {
	case *ast.UnitLit:
		return &wireTerm{Kind: "unit"}, nil
	case *ast.BoolLit:
		return literalWire("bool", t.Value)
	case *ast.IntLit:
		return literalWire("int", t.Value)
	case *ast.FloatLit:
		w, err := literalWire("float", t.Value)
		if err != nil {
			return nil, fmt.Errorf("float %s: %w", ast.FormatFloat(t.Value), ErrNotEncodable)
		}
		return w, nil
	case *ast.StringLit:
		return literalWire("string", t.Value)
	case *ast.Var:
		w := &wireTerm{Kind: "var", Name: t.Name}
		if t.Index != ast.NoIndex {
			idx := t.Index
			w.Index = &idx
		}
		return w, nil
	case *ast.Tuple:
		l, err := encodeTerm(t.Left)
		if err != nil {
			return nil, err
		}
		r, err := encodeTerm(t.Right)
		if err != nil {
			return nil, err
		}
		return &wireTerm{Kind: "tuple", Left: l, Right: r}, nil
	case *ast.Let:
		value, err := encodeTerm(t.Value)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		body, err := encodeTerm(t.Body)
		if err != nil {
			return nil, err
		}
		return &wireTerm{Kind: "let", Name: t.Name, Type: encodeType(t.Type), Value: raw, Body: body}, nil
	case *ast.Abs:
		body, err := encodeTerm(t.Body)
		if err != nil {
			return nil, err
		}
		return &wireTerm{Kind: "fun", Param: t.Param, Type: encodeType(t.ParamType), Body: body}, nil
	case *ast.App:
		fn, err := encodeTerm(t.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := encodeTerm(t.Arg)
		if err != nil {
			return nil, err
		}
		return &wireTerm{Kind: "app", Fn: fn, Arg: arg}, nil
	}
	return nil, fmt.Errorf("encode: unsupported term %T", t)
}

func literalWire(kind string, v any) (*wireTerm, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &wireTerm{Kind: kind, Value: raw}, nil
}

func encodeType(t ast.Type) json.RawMessage {
	if t == nil {
		return nil
	}
	raw, _ := json.Marshal(typeValue(t))
	return raw
}

func typeValue(t ast.Type) any {
	switch t := t.(type) {
	case ast.Base:
		return t.String()
	case *ast.TupleType:
		return map[string][]any{"tuple": {typeValue(t.Left), typeValue(t.Right)}}
	case *ast.ArrowType:
		return map[string][]any{"arrow": {typeValue(t.Param), typeValue(t.Result)}}
	case *ast.Unknown:
		return map[string]string{"var": strings.TrimPrefix(ast.TypeString(t), "'")}
	}
	return nil
}
