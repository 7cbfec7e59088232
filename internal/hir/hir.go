// Package hir implements the semantic analyzer (§4.3): name resolution,
// label resolution, and type checking, lowering an ast.Program into a
// typed HIR with every implicit conversion made explicit as a Cast node
// and every break/continue carrying its enclosing loop's id.
//
// Mirrors ast's node-per-interface shape (rather than mutating the AST in
// place) per §3's lifecycle rule: "each stage consumes its input by value
// and produces new owned IR... there are no cross-stage references."
package hir

import (
	"rvcc/internal/ast"
	"rvcc/internal/source"
	"rvcc/internal/strpool"
)

// Expr is implemented by every typed HIR expression node.
type Expr interface {
	Pos() source.Span
	Ty() ast.Type
	exprNode()
}

// ExprBase carries the span and resolved type common to every expression.
type ExprBase struct {
	Span source.Span
	Type ast.Type
}

func (e ExprBase) Pos() source.Span { return e.Span }
func (e ExprBase) Ty() ast.Type     { return e.Type }
func (ExprBase) exprNode()          {}

type IntLit struct {
	ExprBase
	Value int32
}

type LongLit struct {
	ExprBase
	Value int64
}

// VarKind distinguishes a function-local variable from a file-scope
// static one.
type VarKind int

const (
	VarLocal VarKind = iota
	VarStatic
)

// Var is a resolved variable reference: either Local (carries the
// function-unique LocalID allocated during name resolution) or Static
// (carries the interned static name, looked up by the asm emitter).
type Var struct {
	ExprBase
	Kind    VarKind
	LocalID int
	Name    strpool.Symbol
}

type Unary struct {
	ExprBase
	Op ast.UnaryOp
	X  Expr
}

type Binary struct {
	ExprBase
	Op   ast.BinaryOp
	L, R Expr
}

// Assign is `target = value`; Target is always a Var (arity/lvalue
// checking happens in expr.go before construction).
type Assign struct {
	ExprBase
	Target *Var
	Value  Expr
}

type Ternary struct {
	ExprBase
	Cond, Then, Else Expr
}

type Call struct {
	ExprBase
	Callee strpool.Symbol
	Args   []Expr
}

// Cast is either a source-level explicit cast or a compiler-inserted
// implicit conversion (§4.3: "the semantic pass... inserts explicit cast
// nodes at implicit-conversion sites"). TAC generation elides it when
// X.Ty() already equals Target.
type Cast struct {
	ExprBase
	X Expr
}

// Stmt is implemented by every HIR statement node.
type Stmt interface {
	Pos() source.Span
	stmtNode()
}

type StmtBase struct{ Span source.Span }

func (s StmtBase) Pos() source.Span { return s.Span }
func (StmtBase) stmtNode()          {}

// BlockItem is either a Stmt or a LocalDecl.
type BlockItem interface{ blockItemNode() }

func (*LocalDecl) blockItemNode() {}

type stmtBlockItem struct{ Stmt }

func (stmtBlockItem) blockItemNode() {}

func AsBlockItem(s Stmt) BlockItem { return stmtBlockItem{s} }

// StmtOf unwraps a BlockItem built by AsBlockItem, reporting false for a
// *LocalDecl item.
func StmtOf(item BlockItem) (Stmt, bool) {
	si, ok := item.(stmtBlockItem)
	if !ok {
		return nil, false
	}
	return si.Stmt, true
}

// LocalDecl is a block-scope variable declaration with its allocated
// function-unique local id.
type LocalDecl struct {
	Span    source.Span
	LocalID int
	Type    ast.Type
	Init    Expr
}

type Block struct {
	StmtBase
	Items []BlockItem
}

type If struct {
	StmtBase
	Cond       Expr
	Then, Else Stmt
}

// While/DoWhile/For carry the LoopID allocated at label resolution time,
// so LIR/TAC generation can derive consistent cont/brk labels without
// re-deriving loop identity.
type While struct {
	StmtBase
	LoopID int
	Cond   Expr
	Body   Stmt
}

type DoWhile struct {
	StmtBase
	LoopID int
	Body   Stmt
	Cond   Expr
}

// ForInit is either a LocalDecl or an optional Expr (nil when absent).
type ForInit interface{ forInitNode() }

func (*LocalDecl) forInitNode() {}

type exprForInit struct{ Expr }

func (exprForInit) forInitNode() {}

func AsForInit(e Expr) ForInit { return exprForInit{e} }

// ExprOf unwraps a ForInit built by AsForInit, reporting false for a
// *LocalDecl init.
func ExprOf(fi ForInit) (Expr, bool) {
	ei, ok := fi.(exprForInit)
	if !ok {
		return nil, false
	}
	return ei.Expr, true
}

type For struct {
	StmtBase
	LoopID     int
	Init       ForInit
	Cond, Post Expr
	Body       Stmt
}

type Return struct {
	StmtBase
	Value Expr
}

// Break/Continue carry the loop id resolved during label resolution
// (§3 invariant: "every break/continue carries the numeric id of its
// innermost enclosing loop").
type Break struct {
	StmtBase
	LoopID int
}

type Continue struct {
	StmtBase
	LoopID int
}

type ExprStmt struct {
	StmtBase
	X Expr
}

type Null struct{ StmtBase }

// Linkage is the resolved linkage of a file-scope function or variable.
type Linkage int

const (
	Internal Linkage = iota
	External
)

// Param is a resolved function parameter.
type Param struct {
	LocalID int
	Type    ast.Type
}

// FuncDecl is a resolved, possibly-defined function. Body is nil for a
// declaration-only form.
type FuncDecl struct {
	Span       source.Span
	Name       strpool.Symbol
	Params     []Param
	ReturnType ast.Type
	Linkage    Linkage
	Body       *Block
	NumLocals  int // total distinct LocalIDs allocated in this function
}

// InitKind is the closed InitVal tag (§3).
type InitKind int

const (
	InitNone InitKind = iota
	InitTentative
	InitConst
)

// Constant is the tagged arithmetic constant value (§3).
type Constant struct {
	Type ast.Type
	I32  int32
	I64  int64
}

// AsInt64 widens the constant to its 64-bit two's-complement value.
func (c Constant) AsInt64() int64 {
	if c.Type == ast.Long {
		return c.I64
	}
	return int64(c.I32)
}

// StaticVarDecl is a resolved file-scope variable.
type StaticVarDecl struct {
	Span    source.Span
	Name    strpool.Symbol
	Type    ast.Type
	Linkage Linkage
	Init    InitKind
	Const   Constant
}

// Program is the root of the HIR: every function and static variable of
// the translation unit, in file order.
type Program struct {
	Funcs   []*FuncDecl
	Statics []*StaticVarDecl
}
