package tac

import (
	"rvcc/internal/ast"
	"rvcc/internal/hir"
)

type loopLabels struct {
	brk, cont Label
}

type gen struct {
	f     *Func
	loops map[int]loopLabels
}

// Generate lowers a typed hir.Program into TAC, one Func per defined
// hir.FuncDecl (declaration-only prototypes contribute nothing: the
// asm emitter only needs definitions and the linker resolves external
// calls). Short-circuit &&/|| and ?: are lowered to branches here so
// that every later stage sees a plain straight-line-with-jumps CFG.
func Generate(prog *hir.Program) *Program {
	out := &Program{Statics: prog.Statics}
	for _, fd := range prog.Funcs {
		if fd.Body == nil {
			continue
		}
		out.Funcs = append(out.Funcs, generateFunc(fd))
	}
	return out
}

func generateFunc(fd *hir.FuncDecl) *Func {
	f := &Func{Name: fd.Name, Exported: fd.Linkage == hir.External, ReturnType: fd.ReturnType, NumLocals: fd.NumLocals}
	for _, p := range fd.Params {
		f.Params = append(f.Params, p.LocalID)
	}
	g := &gen{f: f, loops: map[int]loopLabels{}}
	g.block(fd.Body)

	// §4.4: "a function whose body falls off the end... implicitly
	// returns the zero value of its declared return type."
	zero := f.newTemp()
	f.emit(Insn{Op: OpLoadConst, Type: fd.ReturnType, Dst: zero, HasDst: true})
	f.emit(Insn{Op: OpReturn, Type: fd.ReturnType, Src1: zero})
	return f
}

func (g *gen) block(b *hir.Block) {
	for _, item := range b.Items {
		if it, ok := item.(*hir.LocalDecl); ok {
			if it.Init != nil {
				v := g.expr(it.Init)
				g.f.emit(Insn{Op: OpStoreLocal, Type: it.Type, Local: it.LocalID, Src1: v})
			}
			continue
		}
		s, _ := hir.StmtOf(item)
		g.stmt(s)
	}
}

func (g *gen) stmt(s hir.Stmt) {
	switch s := s.(type) {
	case *hir.Block:
		g.block(s)
	case *hir.If:
		g.ifStmt(s)
	case *hir.While:
		g.whileStmt(s)
	case *hir.DoWhile:
		g.doWhileStmt(s)
	case *hir.For:
		g.forStmt(s)
	case *hir.Return:
		v := g.expr(s.Value)
		g.f.emit(Insn{Op: OpReturn, Type: s.Value.Ty(), Src1: v})
	case *hir.Break:
		l := g.loops[s.LoopID]
		g.f.emit(Insn{Op: OpJump, Target: l.brk})
	case *hir.Continue:
		l := g.loops[s.LoopID]
		g.f.emit(Insn{Op: OpJump, Target: l.cont})
	case *hir.ExprStmt:
		g.expr(s.X)
	case *hir.Null:
		// no-op
	}
}

func (g *gen) ifStmt(s *hir.If) {
	cond := g.expr(s.Cond)
	lend := g.f.newLabel()
	if s.Else == nil {
		g.f.emit(Insn{Op: OpJumpIfZero, Src1: cond, Target: lend})
		g.stmt(s.Then)
		g.f.emit(Insn{Op: OpLabel, Target: lend})
		return
	}
	lelse := g.f.newLabel()
	g.f.emit(Insn{Op: OpJumpIfZero, Src1: cond, Target: lelse})
	g.stmt(s.Then)
	g.f.emit(Insn{Op: OpJump, Target: lend})
	g.f.emit(Insn{Op: OpLabel, Target: lelse})
	g.stmt(s.Else)
	g.f.emit(Insn{Op: OpLabel, Target: lend})
}

func (g *gen) whileStmt(s *hir.While) {
	lstart := g.f.newLabel()
	lend := g.f.newLabel()
	g.loops[s.LoopID] = loopLabels{brk: lend, cont: lstart}
	g.f.emit(Insn{Op: OpLabel, Target: lstart})
	cond := g.expr(s.Cond)
	g.f.emit(Insn{Op: OpJumpIfZero, Src1: cond, Target: lend})
	g.stmt(s.Body)
	g.f.emit(Insn{Op: OpJump, Target: lstart})
	g.f.emit(Insn{Op: OpLabel, Target: lend})
}

func (g *gen) doWhileStmt(s *hir.DoWhile) {
	lstart := g.f.newLabel()
	lcont := g.f.newLabel()
	lend := g.f.newLabel()
	g.loops[s.LoopID] = loopLabels{brk: lend, cont: lcont}
	g.f.emit(Insn{Op: OpLabel, Target: lstart})
	g.stmt(s.Body)
	g.f.emit(Insn{Op: OpLabel, Target: lcont})
	cond := g.expr(s.Cond)
	g.f.emit(Insn{Op: OpJumpIfNotZero, Src1: cond, Target: lstart})
	g.f.emit(Insn{Op: OpLabel, Target: lend})
}

func (g *gen) forStmt(s *hir.For) {
	if ld, ok := s.Init.(*hir.LocalDecl); ok {
		if ld.Init != nil {
			v := g.expr(ld.Init)
			g.f.emit(Insn{Op: OpStoreLocal, Type: ld.Type, Local: ld.LocalID, Src1: v})
		}
	} else if x, _ := hir.ExprOf(s.Init); x != nil {
		g.expr(x)
	}

	lstart := g.f.newLabel()
	lcont := g.f.newLabel()
	lend := g.f.newLabel()
	g.loops[s.LoopID] = loopLabels{brk: lend, cont: lcont}
	g.f.emit(Insn{Op: OpLabel, Target: lstart})
	if s.Cond != nil {
		c := g.expr(s.Cond)
		g.f.emit(Insn{Op: OpJumpIfZero, Src1: c, Target: lend})
	}
	g.stmt(s.Body)
	g.f.emit(Insn{Op: OpLabel, Target: lcont})
	if s.Post != nil {
		g.expr(s.Post)
	}
	g.f.emit(Insn{Op: OpJump, Target: lstart})
	g.f.emit(Insn{Op: OpLabel, Target: lend})
}

var binOp = map[ast.BinaryOp]Op{
	ast.Add: OpAdd, ast.Sub: OpSub, ast.Mul: OpMul, ast.Div: OpDiv, ast.Rem: OpRem,
	ast.Less: OpCmpLT, ast.LessEq: OpCmpLE, ast.Greater: OpCmpGT, ast.GreaterEq: OpCmpGE,
	ast.Equal: OpCmpEQ, ast.NotEqual: OpCmpNE,
}

func (g *gen) expr(e hir.Expr) Temp {
	switch e := e.(type) {
	case *hir.IntLit:
		t := g.f.newTemp()
		g.f.emit(Insn{Op: OpLoadConst, Type: ast.Int, Dst: t, HasDst: true, ConstI32: e.Value})
		return t
	case *hir.LongLit:
		t := g.f.newTemp()
		g.f.emit(Insn{Op: OpLoadConst, Type: ast.Long, Dst: t, HasDst: true, ConstI64: e.Value})
		return t
	case *hir.Var:
		t := g.f.newTemp()
		if e.Kind == hir.VarLocal {
			g.f.emit(Insn{Op: OpLoadLocal, Type: e.Ty(), Dst: t, HasDst: true, Local: e.LocalID})
		} else {
			g.f.emit(Insn{Op: OpLoadStatic, Type: e.Ty(), Dst: t, HasDst: true, Static: e.Name})
		}
		return t
	case *hir.Unary:
		return g.unary(e)
	case *hir.Binary:
		return g.binary(e)
	case *hir.Assign:
		v := g.expr(e.Value)
		if e.Target.Kind == hir.VarLocal {
			g.f.emit(Insn{Op: OpStoreLocal, Type: e.Target.Ty(), Local: e.Target.LocalID, Src1: v})
		} else {
			g.f.emit(Insn{Op: OpStoreStatic, Type: e.Target.Ty(), Static: e.Target.Name, Src1: v})
		}
		return v
	case *hir.Ternary:
		return g.ternary(e)
	case *hir.Call:
		var args []Temp
		for _, a := range e.Args {
			args = append(args, g.expr(a))
		}
		t := g.f.newTemp()
		g.f.emit(Insn{Op: OpCall, Type: e.Ty(), Dst: t, HasDst: true, Callee: e.Callee, Args: args})
		return t
	case *hir.Cast:
		return g.cast(e)
	}
	panic("tac: unhandled hir expression")
}

// binary lowers &&/|| to short-circuit branches (§4.4) and every other
// binary operator to a single flat instruction.
func (g *gen) binary(b *hir.Binary) Temp {
	if b.Op == ast.LogAnd {
		return g.shortCircuit(b.L, b.R, true)
	}
	if b.Op == ast.LogOr {
		return g.shortCircuit(b.L, b.R, false)
	}
	l := g.expr(b.L)
	r := g.expr(b.R)
	t := g.f.newTemp()
	g.f.emit(Insn{Op: binOp[b.Op], Type: b.L.Ty(), Dst: t, HasDst: true, Src1: l, Src2: r})
	return t
}

// shortCircuit lowers `L && R` (and=true) or `L || R` (and=false).
func (g *gen) shortCircuit(lhs, rhs hir.Expr, and bool) Temp {
	shortTarget := g.f.newLabel()
	lend := g.f.newLabel()
	res := g.f.newTemp()

	l := g.expr(lhs)
	if and {
		g.f.emit(Insn{Op: OpJumpIfZero, Src1: l, Target: shortTarget})
	} else {
		g.f.emit(Insn{Op: OpJumpIfNotZero, Src1: l, Target: shortTarget})
	}
	r := g.expr(rhs)
	if and {
		g.f.emit(Insn{Op: OpJumpIfZero, Src1: r, Target: shortTarget})
	} else {
		g.f.emit(Insn{Op: OpJumpIfNotZero, Src1: r, Target: shortTarget})
	}
	g.f.emit(Insn{Op: OpLoadConst, Type: ast.Int, Dst: res, HasDst: true, ConstI32: boolToInt(and)})
	g.f.emit(Insn{Op: OpJump, Target: lend})
	g.f.emit(Insn{Op: OpLabel, Target: shortTarget})
	g.f.emit(Insn{Op: OpLoadConst, Type: ast.Int, Dst: res, HasDst: true, ConstI32: boolToInt(!and)})
	g.f.emit(Insn{Op: OpLabel, Target: lend})
	return res
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (g *gen) unary(u *hir.Unary) Temp {
	if u.Op == ast.Plus {
		return g.expr(u.X)
	}
	x := g.expr(u.X)
	t := g.f.newTemp()
	switch u.Op {
	case ast.Neg:
		g.f.emit(Insn{Op: OpNeg, Type: u.X.Ty(), Dst: t, HasDst: true, Src1: x})
	case ast.Complement:
		g.f.emit(Insn{Op: OpComplement, Type: u.X.Ty(), Dst: t, HasDst: true, Src1: x})
	case ast.Not:
		g.f.emit(Insn{Op: OpLogicalNot, Type: ast.Int, Dst: t, HasDst: true, Src1: x})
	}
	return t
}

func (g *gen) ternary(tn *hir.Ternary) Temp {
	lelse := g.f.newLabel()
	lend := g.f.newLabel()
	res := g.f.newTemp()
	cond := g.expr(tn.Cond)
	g.f.emit(Insn{Op: OpJumpIfZero, Src1: cond, Target: lelse})
	then := g.expr(tn.Then)
	g.f.emit(Insn{Op: OpCopy, Type: tn.Ty(), Dst: res, HasDst: true, Src1: then})
	g.f.emit(Insn{Op: OpJump, Target: lend})
	g.f.emit(Insn{Op: OpLabel, Target: lelse})
	els := g.expr(tn.Else)
	g.f.emit(Insn{Op: OpCopy, Type: tn.Ty(), Dst: res, HasDst: true, Src1: els})
	g.f.emit(Insn{Op: OpLabel, Target: lend})
	return res
}

// cast lowers Int<->Long conversions (§4.4: "a cast from a type to
// itself is elided").
func (g *gen) cast(c *hir.Cast) Temp {
	x := g.expr(c.X)
	if c.X.Ty() == c.Ty() {
		return x
	}
	t := g.f.newTemp()
	if c.Ty() == ast.Long {
		g.f.emit(Insn{Op: OpSignExt, Type: ast.Long, Dst: t, HasDst: true, Src1: x})
	} else {
		g.f.emit(Insn{Op: OpTruncate, Type: ast.Int, Dst: t, HasDst: true, Src1: x})
	}
	return t
}
