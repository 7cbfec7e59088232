// Package ast defines the syntax tree produced by the parser (§4.2) and the
// small closed vocabulary of scalar types, storage classes, and operators
// shared by every later stage (§3).
//
// Node kinds are modeled as small interfaces with concrete structs, in the
// style of the secondary reference compiler's AstExpr/AstStmt/AstDecl
// (y1yang0-falcon, src/ast/ast.go) rather than the teacher's single
// generic Node{Typ NodeType; Data interface{}; Children []*Node} — the
// supported C subset needs `Return`/`If`/`For`/... and `IntLit`/`Cast`/...
// to carry distinctly shaped, independently-typed payloads (a parameter
// list, a resolved type, a loop id), which a flat Data/Children pair can
// only hold by further type-asserting `interface{}`, defeating the "closed
// case set with exhaustive analysis" design goal of §9. The same rationale
// carries into hir.
package ast

// Type is the closed set of scalar data types (§3).
type Type int

const (
	Indeterminate Type = iota
	Int
	Long
	Void
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Long:
		return "long"
	case Void:
		return "void"
	default:
		return "<indeterminate>"
	}
}

// Size returns the type's size (and alignment) in bytes.
func (t Type) Size() int {
	switch t {
	case Int:
		return 4
	case Long:
		return 8
	default:
		return 0
	}
}

// StorageClass is the closed set of file-scope storage-class specifiers.
type StorageClass int

const (
	Unspecified StorageClass = iota
	Static
	Extern
)

// UnaryOp enumerates the supported unary operators.
type UnaryOp int

const (
	Plus UnaryOp = iota
	Neg
	Complement
	Not
)

// BinaryOp enumerates the supported binary operators, excluding assignment
// (modeled as its own node) and the ternary (also its own node).
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	Less
	Greater
	LessEq
	GreaterEq
	Equal
	NotEqual
	LogAnd
	LogOr
)

// IsComparison reports whether op always yields Int regardless of operand
// type (§4.3 type-checking rules).
func (op BinaryOp) IsComparison() bool {
	switch op {
	case Less, Greater, LessEq, GreaterEq, Equal, NotEqual:
		return true
	default:
		return false
	}
}

// IsLogical reports whether op is a short-circuit logical operator.
func (op BinaryOp) IsLogical() bool {
	return op == LogAnd || op == LogOr
}
