// Package prims holds the fixed table of native operations. Each primitive
// has a declared arrow type, used by the checker like the type of any bound
// variable, and a native function fired by the evaluator once its argument
// is fully evaluated.
package prims

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/CharlesAverill/SuperML/internal/ast"
)

// Native is the implementation of a primitive. It receives the fully
// evaluated argument; multi-argument primitives receive a tuple.
type Native func(arg ast.Term) (ast.Term, error)

// Primitive is a single registry entry
type Primitive struct {
	Name string
	Type *ast.ArrowType
	Fn   Native
}

// IO is the host boundary used by the printing and reading primitives.
type IO interface {
	Print(s string) error
	ReadLine(prompt string) (string, error)
}

// Registry is the immutable primitive table. Build it once with New and
// share it between the checker and the evaluator.
type Registry struct {
	prims map[string]*Primitive
	names []string
}

// New builds the registry with its I/O primitives bound to host.
func New(host IO) *Registry {
	r := &Registry{prims: make(map[string]*Primitive)}
	for _, p := range builtins(host) {
		r.prims[p.Name] = p
		r.names = append(r.names, p.Name)
	}
	slices.Sort(r.names)
	return r
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns a registry bound to the process's stdin and stdout.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New(NewStreamIO(os.Stdout, os.Stdin))
	})
	return defaultReg
}

// Lookup returns the primitive named name
func (r *Registry) Lookup(name string) (*Primitive, bool) {
	p, ok := r.prims[name]
	return p, ok
}

// IsPrimitive reports whether name is a registered primitive
func (r *Registry) IsPrimitive(name string) bool {
	_, ok := r.prims[name]
	return ok
}

// TypeOf returns the declared type of a primitive.
func (r *Registry) TypeOf(name string) (ast.Type, bool) {
	p, ok := r.prims[name]
	if !ok {
		return nil, false
	}
	return p.Type, true
}

// Names returns the sorted primitive names
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of primitives
func (r *Registry) Len() int {
	return len(r.names)
}

// StreamIO is an IO backed by a plain writer and line reader.
type StreamIO struct {
	w io.Writer
	r *bufio.Reader
}

// NewStreamIO creates a StreamIO. Prompts are not echoed.
func NewStreamIO(w io.Writer, r io.Reader) *StreamIO {
	return &StreamIO{w: w, r: bufio.NewReader(r)}
}

func (s *StreamIO) Print(str string) error {
	_, err := io.WriteString(s.w, str)
	return err
}

func (s *StreamIO) ReadLine(string) (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
