package opt

import "rvcc/internal/tac"

// DeadCodeElim implements spec.md §4.5's three-item dead-code/CFG
// cleanup: (1) drop blocks unreachable from the entry block, (2)
// rewrite a conditional/unconditional jump whose target is the
// textually-next block into a fallthrough by deleting the jump, and
// (3) strip a block's leading Label when its only predecessor is
// already its natural (textually-preceding) predecessor, so the label
// is no longer a real join point and the jumps that used to target it
// can fall through instead.
func DeadCodeElim(f *tac.Func) bool {
	cfg := Build(f)
	reachable := make([]bool, len(cfg.Blocks))
	var walk func(int)
	walk = func(bi int) {
		if reachable[bi] {
			return
		}
		reachable[bi] = true
		for _, s := range cfg.Blocks[bi].Succs {
			walk(s)
		}
	}
	if len(cfg.Blocks) > 0 {
		walk(0)
	}

	removed := make([]bool, len(f.Insns))
	anyRemoved := false
	for bi, b := range cfg.Blocks {
		if !reachable[bi] {
			for i := b.Start; i < b.End; i++ {
				removed[i] = true
				anyRemoved = true
			}
			continue
		}
		if b.End == b.Start {
			continue
		}
		last := f.Insns[b.End-1]
		if last.Op == tac.OpJump || last.Op == tac.OpJumpIfZero || last.Op == tac.OpJumpIfNotZero {
			if target, ok := cfg.labelBlock[last.Target]; ok && target == bi+1 {
				removed[b.End-1] = true
				anyRemoved = true
			}
		}
	}

	for bi, b := range cfg.Blocks {
		if !reachable[bi] || removed[b.Start] {
			continue
		}
		if b.End == b.Start || f.Insns[b.Start].Op != tac.OpLabel {
			continue
		}
		if onlyNaturalPred(cfg, bi) {
			removed[b.Start] = true
			anyRemoved = true
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

// onlyNaturalPred reports whether block bi's only predecessor is
// block bi-1 falling through into it, i.e. nothing actually jumps to
// bi's label anymore, so the label can be stripped.
func onlyNaturalPred(cfg *CFG, bi int) bool {
	if bi == 0 {
		return false
	}
	preds := cfg.Blocks[bi].Preds
	if len(preds) != 1 || preds[0] != bi-1 {
		return false
	}
	for _, s := range cfg.Blocks[bi-1].Succs {
		if s == bi {
			return true
		}
	}
	return false
}
