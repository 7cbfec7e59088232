// Package opt implements the TAC-level optimizer: constant folding,
// copy propagation, dead-store elimination and dead-code/CFG cleanup,
// over a small basic-block CFG built from a tac.Func's flat
// instruction list (§4.5).
//
// There is no teacher analogue for this stage (the teacher's own
// optimizer, src/ir/optimise, works over its tree-shaped IR rather
// than a flat three-address list with an explicit CFG), so the CFG
// shape and the individual passes are grounded directly on
// original_source/cc/src/tac/opt/{cfg,constant_folding,
// copy_propagation,deadstore_elimination,deadcode_elimination}.rs,
// simplified from their full dataflow-lattice form to the degree that
// our TAC's single-virtual-register-per-value-slot discipline makes
// possible (see doc comments on each pass).
package opt

import "rvcc/internal/tac"

// Block is a maximal straight-line run of instructions: [Start, End)
// indices into the owning Func's Insns.
type Block struct {
	Start, End int
	Succs      []int
	Preds      []int
}

// CFG is a tac.Func's basic-block graph. Block 0 is always the entry;
// a block with no Succs falls off the end via OpReturn (every TAC
// function ends in a synthetic return, so this is the only exit shape).
type CFG struct {
	Blocks     []Block
	labelBlock map[tac.Label]int
}

func isTerminator(op tac.Op) bool {
	switch op {
	case tac.OpJump, tac.OpJumpIfZero, tac.OpJumpIfNotZero, tac.OpReturn:
		return true
	default:
		return false
	}
}

// Build splits f's instructions into basic blocks at label definitions
// and after every jump/return, then wires predecessor/successor edges.
func Build(f *tac.Func) *CFG {
	insns := f.Insns
	leaders := map[int]bool{0: true}
	for i, in := range insns {
		if in.Op == tac.OpLabel {
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

	cfg := &CFG{labelBlock: map[tac.Label]int{}}
	for bi, start := range starts {
		end := len(insns)
		if bi+1 < len(starts) {
			end = starts[bi+1]
		}
		cfg.Blocks = append(cfg.Blocks, Block{Start: start, End: end})
		if end > start && insns[start].Op == tac.OpLabel {
			cfg.labelBlock[insns[start].Target] = bi
		}
	}

	for bi, b := range cfg.Blocks {
		if b.End == b.Start {
			continue
		}
		last := insns[b.End-1]
		switch last.Op {
		case tac.OpJump:
			cfg.addEdge(bi, cfg.labelBlock[last.Target])
		case tac.OpJumpIfZero, tac.OpJumpIfNotZero:
			cfg.addEdge(bi, cfg.labelBlock[last.Target])
			if bi+1 < len(cfg.Blocks) {
				cfg.addEdge(bi, bi+1)
			}
		case tac.OpReturn:
			// no successors: falls to the function's exit
		default:
			if bi+1 < len(cfg.Blocks) {
				cfg.addEdge(bi, bi+1)
			}
		}
	}
	return cfg
}

func (c *CFG) addEdge(from, to int) {
	c.Blocks[from].Succs = append(c.Blocks[from].Succs, to)
	c.Blocks[to].Preds = append(c.Blocks[to].Preds, from)
}
