package opt

import "rvcc/internal/tac"

// maxIterations bounds the fixpoint loop: each pass strictly shrinks or
// simplifies the instruction list when it reports a change, so this is
// never reached for any finite function, but it keeps the optimizer
// from looping forever if a future pass were added that could thrash.
const maxIterations = 64

// Optimize runs constant folding, copy propagation, dead-store
// elimination and dead-code elimination to a fixpoint over every
// function in prog (§4.5).
func Optimize(prog *tac.Program) {
	for _, f := range prog.Funcs {
		OptimizeFunc(f)
	}
}

func OptimizeFunc(f *tac.Func) {
	for i := 0; i < maxIterations; i++ {
		changed := false
		changed = CopyProp(f) || changed
		changed = ConstantFold(f) || changed
		changed = DeadStoreElim(f) || changed
		changed = DeadCodeElim(f) || changed
		if !changed {
			return
		}
	}
}
