package opt

import (
	"fmt"
	"testing"

	"rvcc/internal/hir"
	"rvcc/internal/lexer"
	"rvcc/internal/parser"
	"rvcc/internal/strpool"
	"rvcc/internal/tac"
)

func genFunc(t *testing.T, src string) *tac.Func {
	t.Helper()
	pool := strpool.New()
	toks, diags := lexer.Lex(src, pool)
	if !diags.Ok() {
		t.Fatalf("unexpected lex diagnostics: %v", diags)
	}
	prog, diags := parser.Parse(toks, pool)
	if !diags.Ok() {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}
	hirProg, diags := hir.Analyze(prog, pool)
	if !diags.Ok() {
		t.Fatalf("unexpected semantic diagnostics: %v", diags)
	}
	tacProg := tac.Generate(hirProg)
	return tacProg.Funcs[len(tacProg.Funcs)-1]
}

func insnsSnapshot(f *tac.Func) string { return fmt.Sprintf("%+v", f.Insns) }

func TestOptimizeIsIdempotent(t *testing.T) {
	f := genFunc(t, "int main(void) { int a = 1; int b = a; int c = b + 2 * 3; return c; }")
	OptimizeFunc(f)
	first := insnsSnapshot(f)
	OptimizeFunc(f)
	second := insnsSnapshot(f)
	if first != second {
		t.Fatalf("OptimizeFunc is not idempotent:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestDeadCodeElimRemovesBlockAfterUnconditionalReturn(t *testing.T) {
	f := genFunc(t, "int main(void) { return 1; return 2; }")
	before := len(f.Insns)
	changed := DeadCodeElim(f)
	if !changed {
		t.Fatal("expected DeadCodeElim to report a change")
	}
	if len(f.Insns) >= before {
		t.Fatalf("expected instructions to shrink, got %d (was %d)", len(f.Insns), before)
	}
	for _, in := range f.Insns {
		if in.Op == tac.OpLoadConst && in.ConstI32 == 2 {
			t.Fatal("the unreachable \"return 2\" should have been pruned")
		}
	}
}

func TestDeadCodeElimNoOpOnFullyReachableFunc(t *testing.T) {
	f := genFunc(t, "int main(void) { if (1) { return 1; } }")
	changed := DeadCodeElim(f)
	if changed {
		t.Fatal("expected no change: both branches of the if are reachable from entry")
	}
}

func TestConstantFoldFoldsChainedArithmeticAcrossTemps(t *testing.T) {
	// Every subexpression gets its own freshly allocated, single-def
	// temp, so a chain of binary ops folds end to end in one forward
	// sweep: (1+2)*3 resolves to a single OpLoadConst of 9.
	f := genFunc(t, "int main(void) { return (1 + 2) * 3; }")
	ConstantFold(f)
	found := false
	for _, in := range f.Insns {
		if in.Op == tac.OpReturn {
			for _, inner := range f.Insns {
				if inner.HasDst && inner.Dst == in.Src1 && inner.Op == tac.OpLoadConst && inner.ConstI32 == 9 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatal("expected the returned temp to resolve to the folded constant 9")
	}
}
