// Package source provides the span type carried by every AST and HIR
// node and every diagnostic, so an error can always be traced back to a
// line/column in the original translation unit. TAC and LIR instructions
// carry no span.
package source

import "fmt"

// Span identifies a lexeme's origin: a 1-indexed line and column, and
// optionally its length in bytes (0 when unknown, e.g. for synthesized
// nodes that have no direct source origin).
type Span struct {
	Line int
	Col  int
	Len  int
}

// String renders the span as "line:col".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// None is the zero span, used where a diagnostic has no source origin
// (e.g. one recovered from an internal panic).
var None = Span{}
