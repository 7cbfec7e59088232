package opt

import (
	"github.com/samber/lo"

	"rvcc/internal/tac"
)

// DeadStoreElim removes any definition (a temp-producing instruction,
// an OpStoreLocal, or an OpStoreStatic) whose variable is not read
// before it is next overwritten or the function returns. OpCall is
// never removed even when its result temp is unused, since the call
// itself may have side effects; everything else that defines a
// variable is a candidate.
//
// Liveness is computed as a standard backward, may-reach dataflow over
// the union of locals, temps, and statics (spec.md §4.5): live-in[b] =
// use[b] ∪ (live-out[b] \ def[b]); live-out[b] = ∪ live-in[succ], with
// every block that falls off the end of the function (no successors,
// i.e. reaches Exit via Return) seeded with every static this function
// uses, since the caller may read them after the call returns. A
// FuncCall conservatively adds every static to the live set, since the
// callee may read any of them. Fixed-point iteration uses
// github.com/samber/lo's set helpers for the per-block union/difference.
func DeadStoreElim(f *tac.Func) bool {
	cfg := Build(f)
	n := len(cfg.Blocks)

	var allStatics []variable
	seenStatic := map[variable]bool{}
	noteStatic := func(v variable) {
		if v.kind == varStatic && !seenStatic[v] {
			seenStatic[v] = true
			allStatics = append(allStatics, v)
		}
	}
	for _, in := range f.Insns {
		if v, ok := assignedVar(in); ok {
			noteStatic(v)
		}
		for _, v := range useVars(in) {
			noteStatic(v)
		}
	}

	use := make([][]variable, n)
	def := make([][]variable, n)
	for bi, b := range cfg.Blocks {
		live := map[variable]bool{}
		var u, d []variable
		for i := b.End - 1; i >= b.Start; i-- {
			in := f.Insns[i]
			if v, ok := assignedVar(in); ok {
				delete(live, v)
				d = append(d, v)
			}
			for _, v := range useVars(in) {
				if !live[v] {
					live[v] = true
					u = append(u, v)
				}
			}
			if in.Op == tac.OpCall {
				for _, v := range allStatics {
					if !live[v] {
						live[v] = true
						u = append(u, v)
					}
				}
			}
		}
		use[bi], def[bi] = u, d
	}

	liveIn := make([][]variable, n)
	liveOut := make([][]variable, n)
	changed := true
	for changed {
		changed = false
		for bi := n - 1; bi >= 0; bi-- {
			var out []variable
			for _, s := range cfg.Blocks[bi].Succs {
				out = lo.Union(out, liveIn[s])
			}
			if len(cfg.Blocks[bi].Succs) == 0 {
				out = lo.Union(out, allStatics)
			}
			in := lo.Union(use[bi], lo.Without(out, def[bi]...))
			if !sameVarSet(in, liveIn[bi]) {
				liveIn[bi] = in
				changed = true
			}
			if !sameVarSet(out, liveOut[bi]) {
				liveOut[bi] = out
				changed = true
			}
		}
	}

	removed := make([]bool, len(f.Insns))
	anyRemoved := false
	for bi, b := range cfg.Blocks {
		live := map[variable]bool{}
		for _, v := range liveOut[bi] {
			live[v] = true
		}
		for i := b.End - 1; i >= b.Start; i-- {
			in := &f.Insns[i]
			if v, ok := assignedVar(*in); ok {
				if in.Op != tac.OpCall && !live[v] {
					removed[i] = true
					anyRemoved = true
					delete(live, v)
					continue
				}
				delete(live, v)
			}
			for _, v := range useVars(*in) {
				live[v] = true
			}
			if in.Op == tac.OpCall {
				for _, v := range allStatics {
					live[v] = true
				}
			}
		}
	}

	if !anyRemoved {
		return false
	}
	out := f.Insns[:0]
	for i, in := range f.Insns {
		if !removed[i] {
			out = append(out, in)
		}
	}
	f.Insns = out
	return true
}

func sameVarSet(a, b []variable) bool {
	if len(a) != len(b) {
		return false
	}
	m := map[variable]bool{}
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
