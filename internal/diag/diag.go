// Package diag implements the error taxonomy of §7: a tagged diagnostic
// value plus an accumulating List, in the style of the teacher's
// util.perror error listener (src/util/perror.go) but de-concurrentized
// per the single-threaded resource model of spec §5 — no channels, no
// mutex, just an accumulating slice.
package diag

import (
	"fmt"
	"strings"

	"rvcc/internal/source"
)

// Kind classifies a Diagnostic by the stage that raised it.
type Kind int

const (
	Lex Kind = iota
	Parse
	Semantic
	// InternalKind diagnostics indicate an invariant violation reachable
	// only by a compiler bug. They are never surfaced to a caller under
	// this kind; Compile recovers them and re-wraps them as Other.
	InternalKind
	Other
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Semantic:
		return "semantic error"
	case InternalKind:
		return "internal error"
	default:
		return "error"
	}
}

// Diagnostic is a single rendered error with its source origin.
type Diagnostic struct {
	Kind    Kind
	Span    source.Span
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Span, d.Message)
}

// List accumulates diagnostics for a single stage. A stage that produces
// any diagnostic does not hand its output to the next stage (§6).
type List []Diagnostic

// Add appends a formatted diagnostic.
func (l *List) Add(kind Kind, span source.Span, format string, args ...interface{}) {
	*l = append(*l, Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Append appends an already-built Diagnostic.
func (l *List) Append(d Diagnostic) {
	*l = append(*l, d)
}

// Len reports the number of accumulated diagnostics.
func (l List) Len() int { return len(l) }

// Ok reports whether no diagnostics were accumulated.
func (l List) Ok() bool { return len(l) == 0 }

// Error renders every diagnostic, one per line, satisfying the error
// interface so a List can be returned/wrapped wherever Go code expects one.
func (l List) Error() string {
	lines := make([]string, 0, len(l))
	for _, d := range l {
		lines = append(lines, d.Error())
	}
	return strings.Join(lines, "\n")
}

// Internal panics with a Diagnostic of kind InternalKind. Only ever called
// at a program point that is unreachable for well-formed input: a reachable
// invariant violation is a compiler bug, never a user-facing error.
func Internal(span source.Span, format string, args ...interface{}) {
	panic(Diagnostic{Kind: InternalKind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Recover turns a panic raised by Internal into an Other diagnostic
// appended to out. Call via `defer diag.Recover(&out)` at the top of
// pipeline.Compile so an invariant violation never reaches the caller as
// a raw Go panic.
func Recover(out *List) {
	r := recover()
	if r == nil {
		return
	}
	if d, ok := r.(Diagnostic); ok {
		d.Kind = Other
		out.Append(d)
		return
	}
	out.Add(Other, source.None, "internal error: %v", r)
}
