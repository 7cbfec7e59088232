package regalloc

import (
	"github.com/samber/lo"

	"rvcc/internal/lir"
	"rvcc/internal/rvabi"
)

// key gives every VReg (virtual or precolored) a single int identity so
// liveness/interference can use one map type for both: precolored
// registers occupy the negative range, disjoint from virtual ids.
func key(v lir.VReg) int {
	if v.Precolored {
		return -(int(v.Reg) + 1)
	}
	return v.ID
}

func regKey(r rvabi.Reg) int { return -(int(r) + 1) }

func defUse(in lir.Insn) (def int, hasDef bool, uses []int) {
	switch in.Op {
	case lir.OpLoadImm, lir.OpLoadLocal, lir.OpLoadStatic:
		return key(in.Dst), true, nil
	case lir.OpStoreLocal, lir.OpStoreStatic:
		return 0, false, []int{key(in.Src1)}
	case lir.OpMove, lir.OpSignExt, lir.OpTruncate, lir.OpNeg, lir.OpNot, lir.OpLogicalNot:
		return key(in.Dst), true, []int{key(in.Src1)}
	case lir.OpAdd, lir.OpSub, lir.OpMul, lir.OpDiv, lir.OpRem,
		lir.OpCmpLT, lir.OpCmpLE, lir.OpCmpGT, lir.OpCmpGE, lir.OpCmpEQ, lir.OpCmpNE:
		return key(in.Dst), true, []int{key(in.Src1), key(in.Src2)}
	case lir.OpJumpIfZero, lir.OpJumpIfNotZero:
		return 0, false, []int{key(in.Src1)}
	default:
		return 0, false, nil
	}
}

// liveness computes, for every block, the live-out set (as key ints)
// at its boundary, plus the live-out set at each individual instruction
// index within the function (needed to place interference edges and
// call-clobber edges precisely).
type liveness struct {
	outAtInsn []map[int]bool // live-out set immediately after instruction i
}

func analyzeLiveness(f *lir.Func, c *cfg) *liveness {
	n := len(c.blocks)
	use := make([][]int, n)
	def := make([][]int, n)
	for bi, b := range c.blocks {
		live := map[int]bool{}
		var u, d []int
		for i := b.end - 1; i >= b.start; i-- {
			dk, hasDef, uses := defUse(f.Insns[i])
			if hasDef {
				delete(live, dk)
				d = append(d, dk)
			}
			for _, uk := range uses {
				if !live[uk] {
					live[uk] = true
					u = append(u, uk)
				}
			}
		}
		use[bi], def[bi] = u, d
	}

	liveIn := make([][]int, n)
	liveOut := make([][]int, n)
	changed := true
	for changed {
		changed = false
		for bi := n - 1; bi >= 0; bi-- {
			var out []int
			for _, s := range c.blocks[bi].succs {
				out = lo.Union(out, liveIn[s])
			}
			in := lo.Union(use[bi], lo.Without(out, def[bi]...))
			if !sameKeySet(in, liveIn[bi]) {
				liveIn[bi] = in
				changed = true
			}
			if !sameKeySet(out, liveOut[bi]) {
				liveOut[bi] = out
				changed = true
			}
		}
	}

	lv := &liveness{outAtInsn: make([]map[int]bool, len(f.Insns))}
	for bi, b := range c.blocks {
		live := map[int]bool{}
		for _, v := range liveOut[bi] {
			live[v] = true
		}
		for i := b.end - 1; i >= b.start; i-- {
			dk, hasDef, uses := defUse(f.Insns[i])
			lv.outAtInsn[i] = cloneSet(live)
			if hasDef {
				delete(live, dk)
			}
			for _, uk := range uses {
				live[uk] = true
			}
		}
	}
	return lv
}

func cloneSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func sameKeySet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	m := map[int]bool{}
	for _, v := range a {
		m[v] = true
	}
	for _, v := range b {
		if !m[v] {
			return false
		}
	}
	return true
}
