// Package diag implements the simulator's error taxonomy: diagnostics
// carry a source location and accumulate up to an error limit, rather
// than aborting compilation on the first problem. It collapses an
// Exception/NotSupportedException/InvalidSyntaxException hierarchy into
// a single value type, since Go error handling favors values over a
// class hierarchy.
package diag

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "note"
	}
}

// Category classifies a diagnostic, spanning both the exception kinds a
// type-checker would raise and the elaboration-failure categories this
// package adds on top.
type Category string

const (
	UnknownIdentifier Category = "unknown-identifier"
	UseBeforeDeclare Category = "use-before-declare"
	NotSupported Category = "not-supported"
	InvalidSyntax Category = "invalid-syntax"
	CombinationalLoop Category = "combinational-loop"
	UnsupportedPortDir Category = "unsupported-port-direction"
	BothEdgesNotSupported Category = "both-edges-not-supported"
	NonNamedEventExpr Category = "non-named-event-expression"
	NoTimingControl Category = "no-timing-control"
)

// Location is a source location in the elaborated design tree. Since the
// parser/type-checker is an external collaborator, this is
// the minimal location the design-tree format carries through, not a
// file/line/column triple into original source text.
type Location struct {
	Path string // hierarchical instance path, e.g. top.child.block3
}

func (l Location) String() string {
	if l.Path == "" {
		return "<unknown>"
	}
	return l.Path
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Category Category
	Message string
	Loc Location
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Severity, d.Category, d.Message, d.Loc)
}

// Engine accumulates diagnostics up to a configurable error limit, after
// which elaboration must stop: every diagnostic carries its source
// location, and compilation continues collecting further diagnostics
// until the limit is reached.
type Engine struct {
	Limit int
	diagnostics []Diagnostic
}

// NewEngine builds a diagnostic engine with the given error_limit. A
// non-positive limit means unlimited.
func NewEngine(limit int) *Engine {
	return &Engine{Limit: limit}
}

// Report records a diagnostic and reports whether elaboration should
// keep going (false once the error limit is reached).
func (e *Engine) Report(d Diagnostic) bool {
	e.diagnostics = append(e.diagnostics, d)
	if d.Severity != Error {
		return true
	}
	if e.Limit <= 0 {
		return true
	}
	return e.ErrorCount() < e.Limit
}

// ErrorCount returns the number of Error-severity diagnostics reported so
// far.
func (e *Engine) ErrorCount() int {
	n := 0
	for _, d := range e.diagnostics {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// All returns every diagnostic reported so far, in report order.
func (e *Engine) All() []Diagnostic {
	return e.diagnostics
}

// HasErrors reports whether any Error-severity diagnostic was reported.
func (e *Engine) HasErrors() bool {
	return e.ErrorCount() > 0
}
