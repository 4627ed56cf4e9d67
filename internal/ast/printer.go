package ast

import (
	"strconv"
	"strings"
)

// Type precedence levels: higher binds tighter.
const (
	precTop = iota
	precArrow
	precTuple
	precAtom
)

// TypeString renders a type with minimal parentheses. Tuples bind tighter
// than arrows, arrows associate to the right and tuples nest to the right.
func TypeString(t Type) string {
	var sb strings.Builder
	writeType(&sb, t, precTop)
	return sb.String()
}

func writeType(sb *strings.Builder, t Type, prec int) {
	switch t := t.(type) {
	case nil:
		sb.WriteString("<none>")
	case Base:
		sb.WriteString(t.String())
	case *Unknown:
		sb.WriteString(unknownName(t.ID))
	case *TupleType:
		if prec > precTuple {
			sb.WriteByte('(')
		}
		writeType(sb, t.Left, precAtom)
		sb.WriteString(" * ")
		writeType(sb, t.Right, precTuple)
		if prec > precTuple {
			sb.WriteByte(')')
		}
	case *ArrowType:
		if prec > precArrow {
			sb.WriteByte('(')
		}
		writeType(sb, t.Param, precTuple)
		sb.WriteString(" -> ")
		writeType(sb, t.Result, precArrow)
		if prec > precArrow {
			sb.WriteByte(')')
		}
	}
}

// unknownName maps 0, 1, ... 25, 26 to 'a, 'b, ... 'z, 'a1
func unknownName(id int64) string {
	if id < 0 {
		id = -id
	}
	name := "'" + string(rune('a'+id%26))
	if n := id / 26; n > 0 {
		name += strconv.FormatInt(n, 10)
	}
	return name
}

// Term printing contexts.
const (
	ctxTop = iota // let and fun extend as far right as possible
	ctxFn         // left of an application
	ctxArg        // right of an application
)

// Print renders a term on a single line in ML surface syntax.
func Print(t Term) string {
	var sb strings.Builder
	writeTerm(&sb, t, ctxTop)
	return sb.String()
}

func writeTerm(sb *strings.Builder, t Term, ctx int) {
	switch t := t.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *UnitLit:
		sb.WriteString("()")
	case *BoolLit:
		sb.WriteString(strconv.FormatBool(t.Value))
	case *IntLit:
		s := strconv.FormatInt(t.Value, 10)
		if t.Value < 0 && ctx == ctxArg {
			s = "(" + s + ")"
		}
		sb.WriteString(s)
	case *FloatLit:
		s := FormatFloat(t.Value)
		if strings.HasPrefix(s, "-") && ctx == ctxArg {
			s = "(" + s + ")"
		}
		sb.WriteString(s)
	case *StringLit:
		sb.WriteString(strconv.Quote(t.Value))
	case *Var:
		sb.WriteString(t.Name)
	case *Tuple:
		sb.WriteByte('(')
		writeTerm(sb, t.Left, ctxTop)
		sb.WriteString(", ")
		writeTerm(sb, t.Right, ctxTop)
		sb.WriteByte(')')
	case *Let:
		if ctx != ctxTop {
			sb.WriteByte('(')
		}
		sb.WriteString("let ")
		sb.WriteString(t.Name)
		if t.Type != nil {
			sb.WriteString(" : ")
			sb.WriteString(TypeString(t.Type))
		}
		sb.WriteString(" = ")
		writeTerm(sb, t.Value, ctxTop)
		sb.WriteString(" in ")
		writeTerm(sb, t.Body, ctxTop)
		if ctx != ctxTop {
			sb.WriteByte(')')
		}
	case *Abs:
		if ctx != ctxTop {
			sb.WriteByte('(')
		}
		sb.WriteString("fun ")
		sb.WriteString(t.Param)
		if t.ParamType != nil {
			sb.WriteString(" : ")
			sb.WriteString(TypeString(t.ParamType))
		}
		sb.WriteString(" -> ")
		writeTerm(sb, t.Body, ctxTop)
		if ctx != ctxTop {
			sb.WriteByte(')')
		}
	case *App:
		if ctx == ctxArg {
			sb.WriteByte('(')
		}
		writeTerm(sb, t.Fn, ctxFn)
		sb.WriteByte(' ')
		writeTerm(sb, t.Arg, ctxArg)
		if ctx == ctxArg {
			sb.WriteByte(')')
		}
	}
}

// FormatFloat renders a float so that it always reads back as a float.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += "."
	}
	return s
}
