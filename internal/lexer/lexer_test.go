package lexer

import (
	"testing"

	"rvcc/internal/ctoken"
	"rvcc/internal/strpool"
)

func TestLexKeywordsAndOperators(t *testing.T) {
	src := "int x = 1 + 2 * 3; if (x <= 4) return x; else return 0;"
	pool := strpool.New()
	toks, diags := Lex(src, pool)
	if !diags.Ok() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := []ctoken.Kind{
		ctoken.KwInt, ctoken.Ident, ctoken.Assign, ctoken.IntLit, ctoken.Plus,
		ctoken.IntLit, ctoken.Star, ctoken.IntLit, ctoken.Semicolon,
		ctoken.KwIf, ctoken.LParen, ctoken.Ident, ctoken.Le, ctoken.IntLit, ctoken.RParen,
		ctoken.KwReturn, ctoken.Ident, ctoken.Semicolon,
		ctoken.KwElse, ctoken.KwReturn, ctoken.IntLit, ctoken.Semicolon,
		ctoken.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got kind %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexLineColumnTracking(t *testing.T) {
	src := "int a;\nint b;\n"
	pool := strpool.New()
	toks, diags := Lex(src, pool)
	if !diags.Ok() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	// "int" on line 1, "b" on line 2 column 5.
	if toks[0].Span.Line != 1 {
		t.Errorf("first token line = %d, want 1", toks[0].Span.Line)
	}
	var bTok ctoken.Token
	for _, tok := range toks {
		if tok.Kind == ctoken.Ident && pool.String(tok.Name) == "b" {
			bTok = tok
		}
	}
	if bTok.Span.Line != 2 {
		t.Errorf("'b' token line = %d, want 2", bTok.Span.Line)
	}
	if bTok.Span.Col != 5 {
		t.Errorf("'b' token column = %d, want 5", bTok.Span.Col)
	}
}

func TestLexLongAndIntLiterals(t *testing.T) {
	pool := strpool.New()
	toks, diags := Lex("42 7L", pool)
	if !diags.Ok() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if toks[0].Kind != ctoken.IntLit || toks[0].IntVal != 42 {
		t.Errorf("got %+v, want IntLit 42", toks[0])
	}
	if toks[1].Kind != ctoken.LongLit || toks[1].LongVal != 7 {
		t.Errorf("got %+v, want LongLit 7", toks[1])
	}
}

func TestLexRejectsBitwiseOperators(t *testing.T) {
	pool := strpool.New()
	_, diags := Lex("int x = a & b;", pool)
	if diags.Ok() {
		t.Fatal("expected a diagnostic for unsupported '&' operator")
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	pool := strpool.New()
	_, diags := Lex("int x; /* never closed", pool)
	if diags.Ok() {
		t.Fatal("expected a diagnostic for an unterminated block comment")
	}
}
