// Package console connects the engine to an interactive terminal: a line
// editor for the read primitives and a throttled printer for step traces.
package console

import (
	"errors"
	"io"
	"os"

	"github.com/peterh/liner"

	"github.com/CharlesAverill/SuperML/internal/prims"
)

// ErrInterrupted is returned by ReadLine when the user presses Ctrl+C.
var ErrInterrupted = errors.New("input interrupted")

// Terminal is a prims.IO whose reads go through a line editor with history.
type Terminal struct {
	ln  *liner.State
	out io.Writer
}

// NewTerminal takes over the controlling terminal. Callers must Close it to
// restore the terminal mode.
func NewTerminal(out io.Writer) *Terminal {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	return &Terminal{ln: ln, out: out}
}

func (t *Terminal) Print(s string) error {
	_, err := io.WriteString(t.out, s)
	return err
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	line, err := t.ln.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	if line != "" {
		t.ln.AppendHistory(line)
	}
	return line, nil
}

func (t *Terminal) Close() error {
	return t.ln.Close()
}

// Open picks the host IO for a run: the line editor when stdin is an
// interactive terminal, plain buffered streams otherwise. The returned close
// function is never nil.
func Open(in *os.File, out io.Writer) (prims.IO, func() error) {
	if isTerminal(in) && liner.TerminalSupported() {
		t := NewTerminal(out)
		return t, t.Close
	}
	return prims.NewStreamIO(out, in), func() error { return nil }
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
