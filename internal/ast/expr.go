package ast

import (
	"rvcc/internal/source"
	"rvcc/internal/strpool"
)

// Expr is implemented by every expression node.
type Expr interface {
	Pos() source.Span
	exprNode()
}

// ExprBase carries the source span common to every expression node.
type ExprBase struct{ Span source.Span }

func (e ExprBase) Pos() source.Span { return e.Span }
func (ExprBase) exprNode()          {}

// IntLit is a `[0-9]+` literal with no `l`/`L` suffix.
type IntLit struct {
	ExprBase
	Value int32
}

// LongLit is a `[0-9]+` literal suffixed with `l` or `L`.
type LongLit struct {
	ExprBase
	Value int64
}

// Name is an unresolved identifier reference; name resolution (§4.3)
// rewrites each occurrence into a hir.Var with a Local or Static kind.
type Name struct {
	ExprBase
	Ident strpool.Symbol
}

// Unary is a unary-operator expression.
type Unary struct {
	ExprBase
	Op UnaryOp
	X  Expr
}

// Binary is a binary-operator expression (excluding assignment/ternary).
type Binary struct {
	ExprBase
	Op   BinaryOp
	L, R Expr
}

// Assign is `lhs = rhs`; Target must resolve to an lvalue. The parser
// accepts any expression here; semantic analysis reports a Target other
// than a Name as "invalid lvalue in assignment".
type Assign struct {
	ExprBase
	Target Expr
	Value  Expr
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	ExprBase
	Cond, Then, Else Expr
}

// Call is a function call `name(args...)`.
type Call struct {
	ExprBase
	Callee strpool.Symbol
	Args   []Expr
}

// Cast is an explicit source-level cast `(type) expr`.
type Cast struct {
	ExprBase
	Target Type
	X      Expr
}
