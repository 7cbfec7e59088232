package opt

import "rvcc/internal/ast"
import "rvcc/internal/tac"

func foldUnary(op tac.Op, typ ast.Type, x knownValue) knownValue {
	if typ == ast.Long {
		v := x.c64
		switch op {
		case tac.OpNeg:
			return knownValue{isConst: true, c64: -v}
		case tac.OpComplement:
			return knownValue{isConst: true, c64: ^v}
		case tac.OpLogicalNot:
			return knownValue{isConst: true, c32: boolConst(v == 0)}
		}
	}
	v := x.c32
	switch op {
	case tac.OpNeg:
		return knownValue{isConst: true, c32: -v}
	case tac.OpComplement:
		return knownValue{isConst: true, c32: ^v}
	case tac.OpLogicalNot:
		return knownValue{isConst: true, c32: boolConst(v == 0)}
	}
	return knownValue{}
}

func boolConst(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// foldBinary folds one arithmetic/comparison op over two known
// constants of the same width (the hir pass already inserted the casts
// needed to make l/r's widths agree). Division/remainder by zero, and
// the overflowing division of the most negative value by -1, are left
// unfolded so that behavior stays at its original runtime instruction.
func foldBinary(op tac.Op, typ ast.Type, l, r knownValue) knownValue {
	if typ == ast.Long {
		a, b := l.c64, r.c64
		switch op {
		case tac.OpAdd:
			return knownValue{isConst: true, c64: a + b}
		case tac.OpSub:
			return knownValue{isConst: true, c64: a - b}
		case tac.OpMul:
			return knownValue{isConst: true, c64: a * b}
		case tac.OpDiv:
			if b == 0 || (a == -1<<63 && b == -1) {
				return knownValue{}
			}
			return knownValue{isConst: true, c64: a / b}
		case tac.OpRem:
			if b == 0 {
				return knownValue{}
			}
			return knownValue{isConst: true, c64: a % b}
		case tac.OpCmpLT:
			return knownValue{isConst: true, c32: boolConst(a < b)}
		case tac.OpCmpLE:
			return knownValue{isConst: true, c32: boolConst(a <= b)}
		case tac.OpCmpGT:
			return knownValue{isConst: true, c32: boolConst(a > b)}
		case tac.OpCmpGE:
			return knownValue{isConst: true, c32: boolConst(a >= b)}
		case tac.OpCmpEQ:
			return knownValue{isConst: true, c32: boolConst(a == b)}
		case tac.OpCmpNE:
			return knownValue{isConst: true, c32: boolConst(a != b)}
		}
		return knownValue{}
	}

	a, b := l.c32, r.c32
	switch op {
	case tac.OpAdd:
		return knownValue{isConst: true, c32: a + b}
	case tac.OpSub:
		return knownValue{isConst: true, c32: a - b}
	case tac.OpMul:
		return knownValue{isConst: true, c32: a * b}
	case tac.OpDiv:
		if b == 0 || (a == -1<<31 && b == -1) {
			return knownValue{}
		}
		return knownValue{isConst: true, c32: a / b}
	case tac.OpRem:
		if b == 0 {
			return knownValue{}
		}
		return knownValue{isConst: true, c32: a % b}
	case tac.OpCmpLT:
		return knownValue{isConst: true, c32: boolConst(a < b)}
	case tac.OpCmpLE:
		return knownValue{isConst: true, c32: boolConst(a <= b)}
	case tac.OpCmpGT:
		return knownValue{isConst: true, c32: boolConst(a > b)}
	case tac.OpCmpGE:
		return knownValue{isConst: true, c32: boolConst(a >= b)}
	case tac.OpCmpEQ:
		return knownValue{isConst: true, c32: boolConst(a == b)}
	case tac.OpCmpNE:
		return knownValue{isConst: true, c32: boolConst(a != b)}
	}
	return knownValue{}
}
