package ast

import (
	"rvcc/internal/source"
	"rvcc/internal/strpool"
)

// Decl is implemented by every top-level declaration.
type Decl interface {
	Pos() source.Span
	declNode()
}

type DeclBase struct{ Span source.Span }

func (d DeclBase) Pos() source.Span { return d.Span }
func (DeclBase) declNode()          {}

// Param is one function-parameter declaration.
type Param struct {
	Name strpool.Symbol
	Type Type
	Span source.Span
}

// FuncDecl is a function declaration or definition. Body is nil for a
// declaration-only form (`int f(int a);`).
type FuncDecl struct {
	DeclBase
	Name       strpool.Symbol
	Params     []Param
	ReturnType Type
	Storage    StorageClass
	Body       *Block
}

// VarDecl is a variable declaration, at file scope (static storage) or at
// block scope (as a BlockItem/ForInit). Init is nil when absent.
type VarDecl struct {
	DeclBase
	Name    strpool.Symbol
	Type    Type
	Storage StorageClass
	Init    Expr
}

// Program is the root of the syntax tree: a translation unit's ordered
// top-level declarations.
type Program struct {
	Decls []Decl
}
