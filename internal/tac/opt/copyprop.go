package opt

import (
	"rvcc/internal/strpool"
	"rvcc/internal/tac"
)

// varKind tags which operand space a variable belongs to: a temp, a
// local slot, or a static symbol. Copy propagation and dead-store
// elimination both need to reason about all three uniformly, since a
// value can flow dst-to-src through any pairing of them (storelocal
// into a temp that was itself loaded from a static, etc).
type varKind int

const (
	varTemp varKind = iota
	varLocal
	varStatic
)

type variable struct {
	kind   varKind
	temp   tac.Temp
	local  int
	static strpool.Symbol
}

// assignedVar returns the variable an instruction defines, if any.
// OpStoreLocal/OpStoreStatic define a Local/Static rather than a Dst
// temp; everything else with HasDst defines its Dst temp.
func assignedVar(in tac.Insn) (variable, bool) {
	switch in.Op {
	case tac.OpStoreLocal:
		return variable{kind: varLocal, local: in.Local}, true
	case tac.OpStoreStatic:
		return variable{kind: varStatic, static: in.Static}, true
	default:
		if in.HasDst {
			return variable{kind: varTemp, temp: in.Dst}, true
		}
		return variable{}, false
	}
}

// useVars returns every variable an instruction reads.
func useVars(in tac.Insn) []variable {
	var vs []variable
	switch in.Op {
	case tac.OpLoadLocal:
		vs = append(vs, variable{kind: varLocal, local: in.Local})
	case tac.OpLoadStatic:
		vs = append(vs, variable{kind: varStatic, static: in.Static})
	}
	if usesSrc1(in.Op) {
		vs = append(vs, variable{kind: varTemp, temp: in.Src1})
	}
	if usesSrc2(in.Op) {
		vs = append(vs, variable{kind: varTemp, temp: in.Src2})
	}
	if in.Op == tac.OpCall {
		for _, a := range in.Args {
			vs = append(vs, variable{kind: varTemp, temp: a})
		}
	}
	return vs
}

// copyPair is a reaching (dst, src) relationship: dst currently holds
// whatever value src holds.
type copyPair struct {
	dst, src variable
}

// genPair returns the copy pair a Move-shaped instruction establishes.
// A plain temp-to-temp OpCopy and a local/static store or load are all
// Moves in spec.md §4.5's sense: each assigns one variable the current
// value of another.
func genPair(in tac.Insn) (copyPair, bool) {
	switch in.Op {
	case tac.OpCopy:
		return copyPair{dst: variable{kind: varTemp, temp: in.Dst}, src: variable{kind: varTemp, temp: in.Src1}}, true
	case tac.OpStoreLocal:
		return copyPair{dst: variable{kind: varLocal, local: in.Local}, src: variable{kind: varTemp, temp: in.Src1}}, true
	case tac.OpLoadLocal:
		return copyPair{dst: variable{kind: varTemp, temp: in.Dst}, src: variable{kind: varLocal, local: in.Local}}, true
	case tac.OpStoreStatic:
		return copyPair{dst: variable{kind: varStatic, static: in.Static}, src: variable{kind: varTemp, temp: in.Src1}}, true
	case tac.OpLoadStatic:
		return copyPair{dst: variable{kind: varTemp, temp: in.Dst}, src: variable{kind: varStatic, static: in.Static}}, true
	}
	return copyPair{}, false
}

func cloneCopySet(m map[copyPair]bool) map[copyPair]bool {
	out := make(map[copyPair]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func sameCopySet(a, b map[copyPair]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func intersectInPlace(a, b map[copyPair]bool) {
	for k := range a {
		if !b[k] {
			delete(a, k)
		}
	}
}

// transferInsn applies one instruction's kill/gen rules to a reaching
// copy-pair set, per spec.md §4.5: killing every pair that mentions the
// instruction's assigned variable as either side, then, for a Move,
// generating the pair it establishes; a FuncCall additionally kills
// every pair that mentions a static (the callee may have mutated it).
func transferInsn(in map[copyPair]bool, insn tac.Insn) map[copyPair]bool {
	out := cloneCopySet(in)
	if v, ok := assignedVar(insn); ok {
		for p := range out {
			if p.dst == v || p.src == v {
				delete(out, p)
			}
		}
	}
	if insn.Op == tac.OpCall {
		for p := range out {
			if p.dst.kind == varStatic || p.src.kind == varStatic {
				delete(out, p)
			}
		}
	}
	if p, ok := genPair(insn); ok {
		out[p] = true
	}
	return out
}

func transferBlock(in map[copyPair]bool, insns []tac.Insn) map[copyPair]bool {
	cur := in
	for _, insn := range insns {
		cur = transferInsn(cur, insn)
	}
	return cur
}

// directTempSrc reports the temp a reaching pair says v currently
// equals, if any such pair holds.
func directTempSrc(cur map[copyPair]bool, v variable) (tac.Temp, bool) {
	for p := range cur {
		if p.dst == v && p.src.kind == varTemp {
			return p.src.temp, true
		}
	}
	return 0, false
}

// reachingTempSrc chases a chain of reaching pairs down to the
// original temp, so a value that passed through several locals/statics
// before reaching v still resolves in one call.
func reachingTempSrc(cur map[copyPair]bool, v variable) (tac.Temp, bool) {
	found := false
	var t tac.Temp
	for i := 0; i < maxIterations; i++ {
		cand, ok := directTempSrc(cur, v)
		if !ok {
			break
		}
		found, t = true, cand
		v = variable{kind: varTemp, temp: cand}
	}
	return t, found
}

// rewriteInsn applies the reaching set cur to in's read operands,
// turning an OpLoadLocal/OpLoadStatic whose source is a known copy of
// a temp into a plain OpCopy (store-to-load forwarding) and
// redirecting any Src1/Src2/Args temp operand to its propagated
// source. Reports whether it changed anything.
func rewriteInsn(in *tac.Insn, cur map[copyPair]bool) bool {
	switch in.Op {
	case tac.OpLoadLocal:
		if src, ok := reachingTempSrc(cur, variable{kind: varLocal, local: in.Local}); ok {
			*in = tac.Insn{Op: tac.OpCopy, Type: in.Type, Dst: in.Dst, HasDst: true, Src1: src}
			return true
		}
	case tac.OpLoadStatic:
		if src, ok := reachingTempSrc(cur, variable{kind: varStatic, static: in.Static}); ok {
			*in = tac.Insn{Op: tac.OpCopy, Type: in.Type, Dst: in.Dst, HasDst: true, Src1: src}
			return true
		}
	}

	changed := false
	if usesSrc1(in.Op) {
		if src, ok := reachingTempSrc(cur, variable{kind: varTemp, temp: in.Src1}); ok && src != in.Src1 {
			in.Src1 = src
			changed = true
		}
	}
	if usesSrc2(in.Op) {
		if src, ok := reachingTempSrc(cur, variable{kind: varTemp, temp: in.Src2}); ok && src != in.Src2 {
			in.Src2 = src
			changed = true
		}
	}
	if in.Op == tac.OpCall {
		for ai, a := range in.Args {
			if src, ok := reachingTempSrc(cur, variable{kind: varTemp, temp: a}); ok && src != a {
				in.Args[ai] = src
				changed = true
			}
		}
	}
	return changed
}

// redundantMove reports whether in is a Move whose pair already holds
// (in either direction) in cur, meaning it re-establishes a relation
// that already exists and can simply be deleted.
func redundantMove(in tac.Insn, cur map[copyPair]bool) bool {
	p, ok := genPair(in)
	if !ok {
		return false
	}
	if p.dst == p.src {
		return true
	}
	if cur[p] {
		return true
	}
	return cur[copyPair{dst: p.src, src: p.dst}]
}

// CopyProp implements spec.md §4.5's copy-propagation pass: a forward
// dataflow over reaching (dst, src) pairs spanning temps, locals, and
// statics uniformly, so a value that round-trips through a local or
// static variable (storelocal then a later loadlocal of the same slot)
// is forwarded exactly like a temp-to-temp copy. After fixpoint it
// rewrites every propagatable use and deletes any now-redundant Move.
func CopyProp(f *tac.Func) bool {
	cfg := Build(f)
	n := len(cfg.Blocks)

	universe := map[copyPair]bool{}
	for _, insn := range f.Insns {
		if p, ok := genPair(insn); ok {
			universe[p] = true
		}
	}

	blockIn := func(bi int, out []map[copyPair]bool) map[copyPair]bool {
		if bi == 0 {
			return map[copyPair]bool{}
		}
		preds := cfg.Blocks[bi].Preds
		if len(preds) == 0 {
			return cloneCopySet(universe)
		}
		in := cloneCopySet(out[preds[0]])
		for _, p := range preds[1:] {
			intersectInPlace(in, out[p])
		}
		return in
	}

	out := make([]map[copyPair]bool, n)
	for bi := range out {
		out[bi] = cloneCopySet(universe)
	}
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for bi, b := range cfg.Blocks {
			newOut := transferBlock(blockIn(bi, out), f.Insns[b.Start:b.End])
			if !sameCopySet(newOut, out[bi]) {
				out[bi] = newOut
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	removed := make([]bool, len(f.Insns))
	anyChange := false
	for bi, b := range cfg.Blocks {
		cur := blockIn(bi, out)
		for i := b.Start; i < b.End; i++ {
			in := &f.Insns[i]
			if rewriteInsn(in, cur) {
				anyChange = true
			}
			if redundantMove(*in, cur) {
				removed[i] = true
				anyChange = true
				continue
			}
			cur = transferInsn(cur, *in)
		}
	}

	if !anyChange {
		return false
	}
	kept := f.Insns[:0]
	for i, in := range f.Insns {
		if !removed[i] {
			kept = append(kept, in)
		}
	}
	f.Insns = kept
	return true
}
