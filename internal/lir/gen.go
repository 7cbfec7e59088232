package lir

import (
	"rvcc/internal/ast"
	"rvcc/internal/hir"
	"rvcc/internal/rvabi"
	"rvcc/internal/tac"
)

// maxRegArgs is the number of arguments passed in a0-a7. Arguments are
// only ever passed in registers: a call lowers its first maxRegArgs
// arguments and drops the rest, and a function binds only its first
// maxRegArgs parameters. Semantic analysis does not limit arity.
const maxRegArgs = 8

var opMap = map[tac.Op]Op{
	tac.OpAdd: OpAdd, tac.OpSub: OpSub, tac.OpMul: OpMul, tac.OpDiv: OpDiv, tac.OpRem: OpRem,
	tac.OpNeg: OpNeg, tac.OpComplement: OpNot,
	tac.OpCmpLT: OpCmpLT, tac.OpCmpLE: OpCmpLE, tac.OpCmpGT: OpCmpGT, tac.OpCmpGE: OpCmpGE,
	tac.OpCmpEQ: OpCmpEQ, tac.OpCmpNE: OpCmpNE, tac.OpLogicalNot: OpLogicalNot,
}

type gen struct {
	f         *Func
	labelBase map[tac.Label]Label
	nextVReg  int
	exit      Label // shared label every return jumps to before the epilogue
}

// Generate lowers a tac.Program into LIR, one Func per TAC function.
func Generate(prog *tac.Program) *Program {
	out := &Program{}
	for _, f := range prog.Funcs {
		out.Funcs = append(out.Funcs, generateFunc(f))
	}
	for _, s := range prog.Statics {
		out.Statics = append(out.Statics, staticData(s))
	}
	return out
}

func staticData(s *hir.StaticVarDecl) StaticData {
	sd := StaticData{Name: s.Name, Size: s.Type.Size(), Exported: s.Linkage == hir.External}
	if s.Init == hir.InitConst {
		sd.HasInit = true
		sd.Init64 = s.Const.AsInt64()
	}
	return sd
}

func generateFunc(f *tac.Func) *Func {
	g := &gen{f: &Func{Name: f.Name, Exported: f.Exported, ReturnType: f.ReturnType, NumLocals: f.NumLocals}, labelBase: map[tac.Label]Label{}, nextVReg: f.NumTemps()}
	// f.NumLabels() bounds every label g.label() can hand out (tac.Label
	// values lower into the dense range [0,f.NumLabels())), so this is
	// guaranteed distinct from all of them: one shared exit point every
	// return reaches before the epilogue, rather than each return site
	// expanding the prologue/epilogue's register-restore sequence itself.
	g.exit = Label(f.NumLabels())

	g.f.Insns = append(g.f.Insns, Insn{Op: OpPrologue})
	for i, localID := range f.Params {
		if i >= maxRegArgs {
			break
		}
		v := g.newVReg()
		g.f.Insns = append(g.f.Insns, Insn{Op: OpMove, Width: Double, Dst: v, Src1: Precolor(rvabi.ArgRegs[i])})
		g.f.Insns = append(g.f.Insns, Insn{Op: OpStoreLocal, Local: localID, Src1: v})
		g.f.ParamVRegs = append(g.f.ParamVRegs, v)
	}

	for _, in := range f.Insns {
		g.lower(in)
	}

	g.emit(Insn{Op: OpLabel, Target: g.exit})
	g.f.Insns = append(g.f.Insns, Insn{Op: OpEpilogue})
	g.f.NumVRegs = g.nextVReg
	return g.f
}

func (g *gen) newVReg() VReg {
	id := g.nextVReg
	g.nextVReg++
	return Virtual(id)
}

func (g *gen) vreg(t tac.Temp) VReg { return Virtual(int(t)) }

func (g *gen) label(l tac.Label) Label {
	if lb, ok := g.labelBase[l]; ok {
		return lb
	}
	lb := Label(len(g.labelBase))
	g.labelBase[l] = lb
	return lb
}

func (g *gen) emit(i Insn) { g.f.Insns = append(g.f.Insns, i) }

func (g *gen) lower(in tac.Insn) {
	w := widthFromTAC(in.Type)
	switch in.Op {
	case tac.OpLabel:
		g.emit(Insn{Op: OpLabel, Target: g.label(in.Target)})
	case tac.OpJump:
		g.emit(Insn{Op: OpJump, Target: g.label(in.Target)})
	case tac.OpJumpIfZero:
		g.emit(Insn{Op: OpJumpIfZero, Src1: g.vreg(in.Src1), Target: g.label(in.Target)})
	case tac.OpJumpIfNotZero:
		g.emit(Insn{Op: OpJumpIfNotZero, Src1: g.vreg(in.Src1), Target: g.label(in.Target)})
	case tac.OpLoadConst:
		if in.Type == ast.Long {
			g.emit(Insn{Op: OpLoadImm, Width: Double, Dst: g.vreg(in.Dst), HasDst: true, Imm64: in.ConstI64})
		} else {
			g.emit(Insn{Op: OpLoadImm, Width: Word, Dst: g.vreg(in.Dst), HasDst: true, Imm32: in.ConstI32})
		}
	case tac.OpLoadLocal:
		g.emit(Insn{Op: OpLoadLocal, Width: w, Dst: g.vreg(in.Dst), HasDst: true, Local: in.Local})
	case tac.OpStoreLocal:
		g.emit(Insn{Op: OpStoreLocal, Width: w, Local: in.Local, Src1: g.vreg(in.Src1)})
	case tac.OpLoadStatic:
		g.emit(Insn{Op: OpLoadStatic, Width: w, Dst: g.vreg(in.Dst), HasDst: true, Static: in.Static})
	case tac.OpStoreStatic:
		g.emit(Insn{Op: OpStoreStatic, Width: w, Static: in.Static, Src1: g.vreg(in.Src1)})
	case tac.OpSignExt:
		g.emit(Insn{Op: OpSignExt, Dst: g.vreg(in.Dst), HasDst: true, Src1: g.vreg(in.Src1)})
	case tac.OpTruncate:
		g.emit(Insn{Op: OpTruncate, Dst: g.vreg(in.Dst), HasDst: true, Src1: g.vreg(in.Src1)})
	case tac.OpCopy:
		g.emit(Insn{Op: OpMove, Width: w, Dst: g.vreg(in.Dst), HasDst: true, Src1: g.vreg(in.Src1)})
	case tac.OpNeg, tac.OpComplement, tac.OpLogicalNot:
		g.emit(Insn{Op: opMap[in.Op], Width: w, Dst: g.vreg(in.Dst), HasDst: true, Src1: g.vreg(in.Src1)})
	case tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv, tac.OpRem,
		tac.OpCmpLT, tac.OpCmpLE, tac.OpCmpGT, tac.OpCmpGE, tac.OpCmpEQ, tac.OpCmpNE:
		g.emit(Insn{Op: opMap[in.Op], Width: w, Dst: g.vreg(in.Dst), HasDst: true, Src1: g.vreg(in.Src1), Src2: g.vreg(in.Src2)})
	case tac.OpCall:
		g.lowerCall(in)
	case tac.OpReturn:
		g.emit(Insn{Op: OpMove, Width: widthFromTAC(in.Type), Dst: Precolor(rvabi.ReturnReg), Src1: g.vreg(in.Src1)})
		g.emit(Insn{Op: OpJump, Target: g.exit})
	}
}

func (g *gen) lowerCall(in tac.Insn) {
	n := len(in.Args)
	if n > maxRegArgs {
		n = maxRegArgs
	}
	for i := 0; i < n; i++ {
		g.emit(Insn{Op: OpMove, Width: Double, Dst: Precolor(rvabi.ArgRegs[i]), Src1: g.vreg(in.Args[i])})
	}
	g.emit(Insn{Op: OpCall, Callee: in.Callee})
	if in.HasDst {
		g.emit(Insn{Op: OpMove, Width: widthFromTAC(in.Type), Dst: g.vreg(in.Dst), HasDst: true, Src1: Precolor(rvabi.ReturnReg)})
	}
}

func widthFromTAC(t ast.Type) Width {
	if t == ast.Long {
		return Double
	}
	return Word
}
