package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is a single host-visible message: an error, a lint warning, or
// an informational status line.
type Diagnostic struct {
	Severity Severity
	Message  string
	Subject  string // optional binder or phase the message is about
	Hint     string // optional suggestion
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Add appends a diagnostic as is
func (d *Diagnostics) Add(item Diagnostic) {
	d.items = append(d.items, item)
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(format string, args ...interface{}) {
	d.Add(Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...)})
}

// Warningf adds a warning diagnostic about subject
func (d *Diagnostics) Warningf(subject, format string, args ...interface{}) {
	d.Add(Diagnostic{Severity: Warning, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

// Infof adds an info diagnostic with formatted message
func (d *Diagnostics) Infof(format string, args ...interface{}) {
	d.Add(Diagnostic{Severity: Info, Message: fmt.Sprintf(format, args...)})
}

// ErrorWithHint adds an error diagnostic with an optional hint
func (d *Diagnostics) ErrorWithHint(msg, hint string) {
	d.Add(Diagnostic{Severity: Error, Message: msg, Hint: hint})
}

// WarningWithHint adds a warning diagnostic with an optional hint
func (d *Diagnostics) WarningWithHint(subject, msg, hint string) {
	d.Add(Diagnostic{Severity: Warning, Subject: subject, Message: msg, Hint: hint})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(Error)
}

// Warnings returns only the warning-level diagnostics
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(Warning)
}

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == sev {
			out = append(out, item)
		}
	}
	return out
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	return len(d.filter(Error))
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	return len(d.filter(Warning))
}

// Format returns human-readable messages, one per line, skipping info
// entries unless verbose is set.
// Output format:
//
//	error[prog.json]: type mismatch: int <> unit
//	warning[prog.json] x: unused let binding
//	  hint: rename it to _ to discard the value
func (d *Diagnostics) Format(source string, verbose bool) string {
	var lines []string
	for _, item := range d.items {
		if item.Severity == Info && !verbose {
			continue
		}
		line := fmt.Sprintf("%s[%s]", item.Severity, source)
		if item.Subject != "" {
			line += " " + item.Subject
		}
		line += ": " + item.Message
		if item.Hint != "" {
			line += "\n  hint: " + item.Hint
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Clear removes all diagnostics from the collection
func (d *Diagnostics) Clear() {
	d.items = make([]Diagnostic, 0)
}
