// Package regalloc implements a Chaitin-Briggs graph-coloring register
// allocator over LIR, completing the spill/RISC-V-target pieces the
// teacher's own src/backend/lir/regalloc.go left as TODOs (its
// liveness analysis in src/ir/lir/live.go is the grounding for this
// package's analyzeLiveness, generalized from the teacher's own
// Value-embedded liveness bitsets to the plain virtual-register
// interference graph a physical-register-indifferent LIR needs).
//
// §9's type-state design note: Allocate consumes a RawFunction (plain
// *lir.Func) and returns a ColoredFunc pairing it with a coloring —
// colors/spills are looked up alongside the original instructions
// rather than mutated into them, so internal/spill's input type makes
// it impossible to forget to consult the Spilled set.
package regalloc

import (
	"rvcc/internal/lir"
	"rvcc/internal/rvabi"
)

// ColoredFunc pairs a LIR function with its register assignment: every
// vreg id present in Colors got a physical register; every id present
// in Spilled did not and must be given a stack slot by internal/spill.
type ColoredFunc struct {
	Src     *lir.Func
	Colors  map[int]rvabi.Reg
	Spilled map[int]bool
}

func Allocate(f *lir.Func) *ColoredFunc {
	c := buildCFG(f)
	lv := analyzeLiveness(f, c)
	g := buildInterference(f, lv)

	virtualKeys := make([]int, f.NumVRegs)
	for i := range virtualKeys {
		virtualKeys[i] = i
	}

	colors, spills := color(g, len(rvabi.Allocatable), virtualKeys)
	spilled := map[int]bool{}
	for _, s := range spills {
		spilled[s] = true
		delete(colors, s)
	}
	return &ColoredFunc{Src: f, Colors: colors, Spilled: spilled}
}

func AllocateProgram(p *lir.Program) []*ColoredFunc {
	out := make([]*ColoredFunc, 0, len(p.Funcs))
	for _, f := range p.Funcs {
		out = append(out, Allocate(f))
	}
	return out
}
