package hir

import (
	"rvcc/internal/ast"
	"rvcc/internal/strpool"
)

// stack is a generic LIFO used both for lexical scopes (§4.3's "a stack
// of scopes, innermost last") and for the loop-id stack consulted by
// break/continue resolution.
type stack[T any] struct{ items []T }

func (s *stack[T]) push(v T)   { s.items = append(s.items, v) }
func (s *stack[T]) pop()       { s.items = s.items[:len(s.items)-1] }
func (s *stack[T]) top() T     { return s.items[len(s.items)-1] }
func (s *stack[T]) empty() bool { return len(s.items) == 0 }

// varEntry is a name-resolution scope entry: a local's type and its
// function-unique id, or a static's type.
type varEntry struct {
	Type    ast.Type
	IsLocal bool
	LocalID int
}

type scope map[strpool.Symbol]varEntry

// funcSig is the file-scope function symbol table entry. Declarations
// and the eventual definition of the same function share one entry so
// that signature and linkage mismatches can be detected across them.
type funcSig struct {
	Params  []ast.Type
	Return  ast.Type
	Linkage Linkage
	Defined bool
}

func sameTypes(a, b []ast.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// commonType implements usual arithmetic conversion over {Int, Long}
// (§4.3: "Int and Long are combined to Long; two identical types are
// unchanged; no other combination arises in the supported subset").
func commonType(a, b ast.Type) (ast.Type, bool) {
	if a == b {
		return a, true
	}
	if (a == ast.Int && b == ast.Long) || (a == ast.Long && b == ast.Int) {
		return ast.Long, true
	}
	return ast.Indeterminate, false
}

func insertCast(e Expr, target ast.Type) Expr {
	if e.Ty() == target {
		return e
	}
	return &Cast{ExprBase: ExprBase{Span: e.Pos(), Type: target}, X: e}
}
