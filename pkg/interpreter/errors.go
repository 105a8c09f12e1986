package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"rinha/interpreter-go/pkg/ast"
)

// Reason classifies a runtime failure. Reasons satisfy error so callers can
// match with errors.Is(err, ReasonDivisionByZero).
type Reason string

const (
	ReasonTypeMismatch      Reason = "TypeMismatch"
	ReasonUndefinedVariable Reason = "UndefinedVariable"
	ReasonArityMismatch     Reason = "ArityMismatch"
	ReasonDivisionByZero    Reason = "DivisionByZero"
	ReasonNotCallable       Reason = "NotCallable"
	ReasonNotATuple         Reason = "NotATuple"
)

func (r Reason) Error() string { return string(r) }

// maxTraceNotes bounds the "called from here" notes kept on an error.
const maxTraceNotes = 8

// RuntimeError is the single terminal failure of an evaluation.
type RuntimeError struct {
	Reason   Reason
	Message  string
	Detail   string
	Location ast.Location
	// Trace holds the locations of enclosing calls, innermost first.
	Trace []ast.Location
}

func (e *RuntimeError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

func (e *RuntimeError) Is(target error) bool {
	reason, ok := target.(Reason)
	return ok && reason == e.Reason
}

// withCallSite returns a copy of e with call appended to the trace.
func (e *RuntimeError) withCallSite(call ast.Location) *RuntimeError {
	if len(e.Trace) >= maxTraceNotes {
		return e
	}
	clone := *e
	clone.Trace = make([]ast.Location, len(e.Trace), len(e.Trace)+1)
	copy(clone.Trace, e.Trace)
	clone.Trace = append(clone.Trace, call)
	return &clone
}

func newRuntimeError(reason Reason, term ast.Term, message, detail string) *RuntimeError {
	err := &RuntimeError{Reason: reason, Message: message, Detail: detail}
	if term != nil {
		err.Location = term.Location()
	}
	return err
}

func typeMismatch(term ast.Term, detail string, args ...any) *RuntimeError {
	return newRuntimeError(ReasonTypeMismatch, term, "Type mismatch", fmt.Sprintf(detail, args...))
}

// DescribeError renders err for the process boundary. Runtime and syntax
// errors use the "[Error (file:start:end)] message" header followed by the
// detail line and call-site notes.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		var b strings.Builder
		fmt.Fprintf(&b, "[Error (%s)] %s", formatLocation(rtErr.Location), rtErr.Message)
		if rtErr.Detail != "" {
			fmt.Fprintf(&b, "\n%s", rtErr.Detail)
		}
		for _, site := range rtErr.Trace {
			fmt.Fprintf(&b, "\nnote: %s called from here", formatLocation(site))
		}
		return b.String()
	}
	var synErr *ast.SyntaxError
	if errors.As(err, &synErr) {
		var b strings.Builder
		fmt.Fprintf(&b, "[Error (%s)] %s", formatLocation(synErr.Location), synErr.Message)
		if synErr.FullText != "" {
			fmt.Fprintf(&b, "\n%s", synErr.FullText)
		}
		return b.String()
	}
	return "error: " + err.Error()
}

func formatLocation(loc ast.Location) string {
	filename := loc.Filename
	if filename == "" {
		filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", filename, loc.Start, loc.End)
}
