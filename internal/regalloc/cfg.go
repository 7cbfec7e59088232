package regalloc

import "rvcc/internal/lir"

type block struct {
	start, end int
	succs      []int
}

type cfg struct {
	blocks     []block
	labelBlock map[lir.Label]int
}

func isTerminator(op lir.Op) bool {
	switch op {
	case lir.OpJump, lir.OpJumpIfZero, lir.OpJumpIfNotZero:
		return true
	default:
		return false
	}
}

func buildCFG(f *lir.Func) *cfg {
	insns := f.Insns
	leaders := map[int]bool{0: true}
	for i, in := range insns {
		if in.Op == lir.OpLabel {
			leaders[i] = true
		}
		if isTerminator(in.Op) && i+1 < len(insns) {
			leaders[i+1] = true
		}
	}
	var starts []int
	for i := range insns {
		if leaders[i] {
			starts = append(starts, i)
		}
	}

	c := &cfg{labelBlock: map[lir.Label]int{}}
	for bi, s := range starts {
		e := len(insns)
		if bi+1 < len(starts) {
			e = starts[bi+1]
		}
		c.blocks = append(c.blocks, block{start: s, end: e})
		if e > s && insns[s].Op == lir.OpLabel {
			c.labelBlock[insns[s].Target] = bi
		}
	}
	for bi := range c.blocks {
		b := c.blocks[bi]
		if b.end == b.start {
			continue
		}
		last := insns[b.end-1]
		switch last.Op {
		case lir.OpJump:
			c.blocks[bi].succs = append(c.blocks[bi].succs, c.labelBlock[last.Target])
		case lir.OpJumpIfZero, lir.OpJumpIfNotZero:
			c.blocks[bi].succs = append(c.blocks[bi].succs, c.labelBlock[last.Target])
			if bi+1 < len(c.blocks) {
				c.blocks[bi].succs = append(c.blocks[bi].succs, bi+1)
			}
		default:
			if bi+1 < len(c.blocks) {
				c.blocks[bi].succs = append(c.blocks[bi].succs, bi+1)
			}
		}
	}
	return c
}
