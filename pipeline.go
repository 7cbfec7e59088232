package rvcc

import (
	"rvcc/internal/asmgen"
	"rvcc/internal/canon"
	"rvcc/internal/diag"
	"rvcc/internal/hir"
	"rvcc/internal/lexer"
	"rvcc/internal/lir"
	"rvcc/internal/parser"
	"rvcc/internal/regalloc"
	"rvcc/internal/spill"
	"rvcc/internal/strpool"
	"rvcc/internal/tac"
	"rvcc/internal/tac/opt"
)

// Compile runs the whole pipeline over one translation unit. A stage
// that reports any diagnostic stops the pipeline there (§6): later
// stages never run over a result a prior stage flagged as broken. An
// invariant violation unreachable by well-formed input is recovered
// by diag.Recover and reported as an Other diagnostic rather than
// propagating as a raw panic.
func Compile(src string) (asm string, diags diag.List) {
	defer diag.Recover(&diags)

	pool := strpool.New()

	toks, d := lexer.Lex(src, pool)
	if !d.Ok() {
		return "", d
	}

	prog, d := parser.Parse(toks, pool)
	if !d.Ok() {
		return "", d
	}

	hirProg, d := hir.Analyze(prog, pool)
	if !d.Ok() {
		return "", d
	}

	tacProg := tac.Generate(hirProg)
	opt.Optimize(tacProg)

	lirProg := lir.Generate(tacProg)

	canonFuncs := make([]*canon.Func, 0, len(lirProg.Funcs))
	for _, f := range lirProg.Funcs {
		cf := regalloc.Allocate(f)
		sf := spill.Run(cf)
		canonFuncs = append(canonFuncs, canon.Run(sf))
	}

	return asmgen.Emit(canonFuncs, lirProg.Statics, pool), nil
}
