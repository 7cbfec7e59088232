package parser

import (
	"testing"

	"rvcc/internal/ast"
	"rvcc/internal/lexer"
	"rvcc/internal/strpool"
)

func parseExprString(t *testing.T, src string) ast.Expr {
	t.Helper()
	pool := strpool.New()
	toks, diags := lexer.Lex(src+";", pool)
	if !diags.Ok() {
		t.Fatalf("lex error: %v", diags)
	}
	p := &parser{toks: toks, pool: pool}
	e, ok := p.parseExpr(0)
	if !ok || !p.errs.Ok() {
		t.Fatalf("parse error for %q: %v", src, p.errs)
	}
	return e
}

func TestParseExprPrecedenceTable(t *testing.T) {
	cases := []struct {
		src  string
		want ast.BinaryOp // operator expected at the root of the tree
	}{
		{"1 + 2 * 3", ast.Add},    // * binds tighter than +
		{"1 * 2 + 3", ast.Add},    // left operand group ends up under +
		{"1 < 2 == 3 < 4", ast.Equal},
		{"1 || 2 && 3", ast.LogOr},
		{"1 && 2 == 3", ast.LogAnd},
	}
	for _, c := range cases {
		e := parseExprString(t, c.src)
		b, ok := e.(*ast.Binary)
		if !ok {
			t.Fatalf("%q: root is %T, want *ast.Binary", c.src, e)
		}
		if b.Op != c.want {
			t.Errorf("%q: root op = %v, want %v", c.src, b.Op, c.want)
		}
	}
}

func TestParseAssignIsRightAssociative(t *testing.T) {
	e := parseExprString(t, "a = b = 1")
	top, ok := e.(*ast.Assign)
	if !ok {
		t.Fatalf("root is %T, want *ast.Assign", e)
	}
	if _, ok := top.Value.(*ast.Assign); !ok {
		t.Fatalf("rhs is %T, want a nested *ast.Assign (right-associative)", top.Value)
	}
}

func TestParseTernaryIsRightAssociative(t *testing.T) {
	e := parseExprString(t, "a ? 1 : b ? 2 : 3")
	top, ok := e.(*ast.Ternary)
	if !ok {
		t.Fatalf("root is %T, want *ast.Ternary", e)
	}
	if _, ok := top.Else.(*ast.Ternary); !ok {
		t.Fatalf("else-branch is %T, want a nested *ast.Ternary (right-associative)", top.Else)
	}
}

func TestParseResynchronizesAfterMalformedTopDecl(t *testing.T) {
	pool := strpool.New()
	// "bad"'s parameter list is missing the parameter name; the later,
	// well-formed "main" must still parse after resync recovers.
	toks, diags := lexer.Lex("int bad(int) { return 0; } int main(void) { return 0; }", pool)
	if !diags.Ok() {
		t.Fatalf("unexpected lex diagnostics: %v", diags)
	}
	prog, perrs := Parse(toks, pool)
	if perrs.Ok() {
		t.Fatal("expected a diagnostic for the malformed first declaration")
	}
	if len(prog.Decls) != 1 {
		t.Fatalf("expected parsing to recover and still find main, got %d decls", len(prog.Decls))
	}
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok || pool.String(fd.Name) != "main" {
		t.Fatalf("expected the recovered declaration to be main, got %+v", prog.Decls[0])
	}
}

func TestParseVoidParamList(t *testing.T) {
	pool := strpool.New()
	toks, diags := lexer.Lex("int f(void) { return 0; }", pool)
	if !diags.Ok() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	prog, perrs := Parse(toks, pool)
	if !perrs.Ok() {
		t.Fatalf("unexpected parse diagnostics: %v", perrs)
	}
	fd := prog.Decls[0].(*ast.FuncDecl)
	if len(fd.Params) != 0 {
		t.Fatalf("expected zero parameters for f(void), got %d", len(fd.Params))
	}
}
