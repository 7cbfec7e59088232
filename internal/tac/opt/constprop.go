package opt

import "rvcc/internal/tac"

// defCounts returns, for every temp that is ever a Dst, how many
// instructions define it. A temp defined exactly once can be treated as
// its value's single source of truth; one defined from more than one
// control-flow path (ternary/short-circuit results) cannot be folded or
// propagated through without a real reaching-definitions lattice, so
// those are left alone.
func defCounts(f *tac.Func) map[tac.Temp]int {
	counts := map[tac.Temp]int{}
	for _, in := range f.Insns {
		if in.HasDst {
			counts[in.Dst]++
		}
	}
	return counts
}

type knownValue struct {
	isConst bool
	c32     int32
	c64     int64
	isCopy  bool
	copyOf  tac.Temp
}

// usesSrc1/usesSrc2 report whether Op reads that operand; instructions
// that don't use a field leave it at its Temp(0) zero value, which must
// never be mistaken for an actual reference to temp 0.
func usesSrc1(op tac.Op) bool {
	switch op {
	case tac.OpNeg, tac.OpComplement, tac.OpLogicalNot, tac.OpCopy,
		tac.OpStoreLocal, tac.OpStoreStatic, tac.OpSignExt, tac.OpTruncate,
		tac.OpJumpIfZero, tac.OpJumpIfNotZero, tac.OpReturn,
		tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv, tac.OpRem,
		tac.OpCmpLT, tac.OpCmpLE, tac.OpCmpGT, tac.OpCmpGE, tac.OpCmpEQ, tac.OpCmpNE:
		return true
	default:
		return false
	}
}

func usesSrc2(op tac.Op) bool {
	switch op {
	case tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv, tac.OpRem,
		tac.OpCmpLT, tac.OpCmpLE, tac.OpCmpGT, tac.OpCmpGE, tac.OpCmpEQ, tac.OpCmpNE:
		return true
	default:
		return false
	}
}

// ConstantFold performs a forward sweep that tracks, for every
// single-def temp, whether its value is a known constant or a plain
// copy of another temp, substituting operands and folding arithmetic
// and casts on known constants into a single OpLoadConst. It reports whether
// it changed anything, so the driver can iterate to a fixpoint.
func ConstantFold(f *tac.Func) bool {
	defs := defCounts(f)
	known := map[tac.Temp]knownValue{}
	changed := false

	resolve := func(t tac.Temp) tac.Temp {
		for {
			kv, ok := known[t]
			if !ok || !kv.isCopy {
				return t
			}
			t = kv.copyOf
		}
	}

	for i := range f.Insns {
		in := &f.Insns[i]

		if usesSrc1(in.Op) {
			if r := resolve(in.Src1); r != in.Src1 {
				in.Src1 = r
				changed = true
			}
		}
		if usesSrc2(in.Op) {
			if r := resolve(in.Src2); r != in.Src2 {
				in.Src2 = r
				changed = true
			}
		}
		if in.Op == tac.OpCall {
			for ai, a := range in.Args {
				if r := resolve(a); r != a {
					in.Args[ai] = r
					changed = true
				}
			}
		}

		if !in.HasDst || defs[in.Dst] != 1 {
			continue
		}
		if folded, ok := tryFold(*in, known); ok {
			if in.Op != tac.OpLoadConst || in.ConstI32 != folded.c32 || in.ConstI64 != folded.c64 {
				*in = tac.Insn{Op: tac.OpLoadConst, Type: in.Type, Dst: in.Dst, HasDst: true, ConstI32: folded.c32, ConstI64: folded.c64}
				changed = true
			}
			known[in.Dst] = folded
			continue
		}
		if in.Op == tac.OpCopy {
			known[in.Dst] = knownValue{isCopy: true, copyOf: in.Src1}
			continue
		}
		delete(known, in.Dst)
	}
	return changed
}

func tryFold(in tac.Insn, known map[tac.Temp]knownValue) (knownValue, bool) {
	switch in.Op {
	case tac.OpLoadConst:
		return knownValue{isConst: true, c32: in.ConstI32, c64: in.ConstI64}, true
	case tac.OpNeg, tac.OpComplement, tac.OpLogicalNot:
		kv, ok := known[in.Src1]
		if !ok || !kv.isConst {
			return knownValue{}, false
		}
		folded := foldUnary(in.Op, in.Type, kv)
		return folded, folded.isConst
	case tac.OpSignExt, tac.OpTruncate:
		kv, ok := known[in.Src1]
		if !ok || !kv.isConst {
			return knownValue{}, false
		}
		if in.Op == tac.OpSignExt {
			return knownValue{isConst: true, c64: int64(kv.c32)}, true
		}
		return knownValue{isConst: true, c32: int32(kv.c64)}, true
	case tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv, tac.OpRem,
		tac.OpCmpLT, tac.OpCmpLE, tac.OpCmpGT, tac.OpCmpGE, tac.OpCmpEQ, tac.OpCmpNE:
		l, lok := known[in.Src1]
		r, rok := known[in.Src2]
		if !lok || !rok || !l.isConst || !r.isConst {
			return knownValue{}, false
		}
		folded := foldBinary(in.Op, in.Type, l, r)
		return folded, folded.isConst
	}
	return knownValue{}, false
}
