package hir

import (
	"testing"

	"rvcc/internal/ast"
	"rvcc/internal/lexer"
	"rvcc/internal/parser"
	"rvcc/internal/strpool"
)

func analyzeSource(t *testing.T, src string) (*Program, bool) {
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
	hirProg, diags := Analyze(prog, pool)
	return hirProg, diags.Ok()
}

func TestAnalyzeStaticThenExternLinkageConflict(t *testing.T) {
	_, ok := analyzeSource(t, "static int x; extern int x; int main(void) { return 0; }")
	if ok {
		t.Fatal("expected a linkage-conflict diagnostic for static then extern")
	}
}

func TestAnalyzeTentativeThenConstDefinitionMerges(t *testing.T) {
	_, ok := analyzeSource(t, "int x; int x = 5; int main(void) { return x; }")
	if !ok {
		t.Fatal("expected a tentative definition followed by a constant initializer to merge cleanly")
	}
}

func TestAnalyzeDuplicateInitializerIsError(t *testing.T) {
	_, ok := analyzeSource(t, "int x = 1; int x = 2; int main(void) { return x; }")
	if ok {
		t.Fatal("expected a redefinition diagnostic for two constant initializers of the same static")
	}
}

func TestAnalyzeCommonTypePromotesIntAndLongToLong(t *testing.T) {
	// f's return type is Long so the Return statement's own implicit
	// cast-to-return-type is a no-op, leaving the Binary's own operand
	// casts (the thing under test) visible at r.Value.
	prog, ok := analyzeSource(t, "long f(void) { long a = 1L; int b = 2; return a + b; } int main(void) { return 0; }")
	if !ok {
		t.Fatal("unexpected diagnostics")
	}
	ret := prog.Funcs[0].Body.Items[len(prog.Funcs[0].Body.Items)-1]
	s, isStmt := StmtOf(ret)
	if !isStmt {
		t.Fatalf("expected the final block item to be a statement, got %T", ret)
	}
	r, ok := s.(*Return)
	if !ok {
		t.Fatalf("expected *Return, got %T", s)
	}
	if r.Value.Ty() != ast.Long {
		t.Errorf("return value type = %v, want Long (usual arithmetic conversion of int+long)", r.Value.Ty())
	}
	b, ok := r.Value.(*Binary)
	if !ok {
		t.Fatalf("expected the return value to be *Binary, got %T", r.Value)
	}
	if _, ok := b.R.(*Cast); !ok {
		t.Errorf("expected the Int operand to carry an explicit Cast to Long, got %T", b.R)
	}
}

func TestAnalyzeBreakOutsideLoopIsError(t *testing.T) {
	_, ok := analyzeSource(t, "int main(void) { break; return 0; }")
	if ok {
		t.Fatal("expected a diagnostic for break outside any loop")
	}
}

func TestAnalyzeContinueInsideLoopIsFine(t *testing.T) {
	_, ok := analyzeSource(t, "int main(void) { for (;;) { continue; } return 0; }")
	if !ok {
		t.Fatal("unexpected diagnostics for continue inside a loop")
	}
}

func TestAnalyzeCallArgumentCountMismatchIsError(t *testing.T) {
	_, ok := analyzeSource(t, "int f(int a) { return a; } int main(void) { return f(1, 2); }")
	if ok {
		t.Fatal("expected a diagnostic for a call with the wrong argument count")
	}
}
