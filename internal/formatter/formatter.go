package formatter

import (
	"fmt"
	"strings"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// MaxWidth is the line length past which a let-bound value moves to its own
// indented block.
const MaxWidth = 80

// Format renders a term as multi-line ML source. Let chains are laid out one
// binding per line and functions whose bodies contain lets are broken after
// the arrow. Everything else is printed on one line.
func Format(t ast.Term) string {
	f := &formatter{}
	f.formatTerm(t)
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers ---

func (f *formatter) emitLine(s string) {
	f.sb.WriteString(f.indentStr())
	f.sb.WriteString(s)
	f.sb.WriteString("\n")
}

func (f *formatter) emitLinef(format string, args ...any) {
	f.emitLine(fmt.Sprintf(format, args...))
}

func (f *formatter) incIndent() { f.indent++ }
func (f *formatter) decIndent() { f.indent-- }

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

// --- terms ---

func (f *formatter) formatTerm(t ast.Term) {
	switch t := t.(type) {
	case *ast.Let:
		f.formatLet(t)
	case *ast.Abs:
		if !isBlock(t.Body) {
			f.emitLine(ast.Print(t))
			return
		}
		f.emitLinef("fun %s ->", binder(t.Param, t.ParamType))
		f.incIndent()
		f.formatTerm(t.Body)
		f.decIndent()
	default:
		f.emitLine(ast.Print(t))
	}
}

func (f *formatter) formatLet(l *ast.Let) {
	header := "let " + binder(l.Name, l.Type) + " ="
	if !isBlock(l.Value) {
		line := header + " " + ast.Print(l.Value) + " in"
		if len(f.indentStr())+len(line) <= MaxWidth {
			f.emitLine(line)
			f.formatTerm(l.Body)
			return
		}
	}
	f.emitLine(header)
	f.incIndent()
	f.formatTerm(l.Value)
	f.decIndent()
	f.emitLine("in")
	f.formatTerm(l.Body)
}

func binder(name string, ty ast.Type) string {
	if ty == nil {
		return name
	}
	return name + " : " + ast.TypeString(ty)
}

// isBlock reports whether t needs more than one line.
func isBlock(t ast.Term) bool {
	switch t := t.(type) {
	case *ast.Let:
		return true
	case *ast.Abs:
		return isBlock(t.Body)
	}
	return false
}
