// Package spill assigns every vreg the register allocator could not
// color a stack-frame slot and rewrites LIR so that no operand names a
// virtual register any more: a colored vreg becomes a register
// operand, a spilled one becomes a memory operand. internal/canon
// legalizes the memory operands this package introduces into concrete
// register traffic; spill itself never touches the scratch registers.
//
// Grounded on original_source/cc/src/lir/codegen/spill.rs for the
// slot-assignment and 16-byte frame-size-rounding rules (the teacher's
// own src/backend/lir/regalloc.go leaves RISC-V spilling as a TODO, so
// there is no Go analogue to draw the operand-rewrite shape from).
package spill

import (
	"rvcc/internal/ast"
	"rvcc/internal/lir"
	"rvcc/internal/regalloc"
	"rvcc/internal/rvabi"
	"rvcc/internal/strpool"
)

// OperandKind distinguishes a resolved physical register from a
// stack-frame memory slot; Mem operands are illegal everywhere except
// the slots internal/canon's memory pass knows how to legalize.
type OperandKind int

const (
	OperandReg OperandKind = iota
	OperandMem
)

// Operand is a vreg after coloring: either a physical register or a
// frame-slot index (shared between real locals and spill slots, see
// Run).
type Operand struct {
	Kind OperandKind
	Reg  rvabi.Reg
	Slot int
}

func RegOperand(r rvabi.Reg) Operand { return Operand{Kind: OperandReg, Reg: r} }
func MemOperand(slot int) Operand    { return Operand{Kind: OperandMem, Slot: slot} }

// Insn is one instruction with every vreg operand resolved to Operand.
// The Op vocabulary and the Imm32/Imm64/Local/Static/Target/Callee
// fields are unchanged from lir.Insn; only Dst/Src1/Src2 change shape.
type Insn struct {
	Op     lir.Op
	Width  lir.Width
	Dst    Operand
	HasDst bool
	Src1   Operand
	Src2   Operand
	Imm32  int32
	Imm64  int64
	Local  int
	Static strpool.Symbol
	Target lir.Label
	Callee strpool.Symbol
}

// Func is a function whose every vreg has a frame slot or a color.
type Func struct {
	Name       strpool.Symbol
	Exported   bool
	ReturnType ast.Type
	FrameSize  int
	Insns      []Insn
}

const slotSize = 8

func roundUp16(n int) int { return (n + 15) &^ 15 }

// Run assigns spill slots (in order of first use) and rewrites one
// allocator result.
func Run(cf *regalloc.ColoredFunc) *Func {
	f := cf.Src
	slotOf := map[int]int{}
	next := f.NumLocals
	claim := func(v lir.VReg, used bool) {
		if _, done := slotOf[v.ID]; used && !done && !v.Precolored && cf.Spilled[v.ID] {
			slotOf[v.ID] = next
			next++
		}
	}
	for _, in := range f.Insns {
		usesSrc1, usesSrc2, hasDst := operandShape(in.Op)
		claim(in.Src1, usesSrc1)
		claim(in.Src2, usesSrc2)
		claim(in.Dst, hasDst)
	}
	frameSize := roundUp16(next * slotSize)

	resolve := func(v lir.VReg) Operand {
		if v.Precolored {
			return RegOperand(v.Reg)
		}
		if r, ok := cf.Colors[v.ID]; ok {
			return RegOperand(r)
		}
		return MemOperand(slotOf[v.ID])
	}

	out := &Func{Name: f.Name, Exported: f.Exported, ReturnType: f.ReturnType, FrameSize: frameSize}
	for _, in := range f.Insns {
		usesSrc1, usesSrc2, hasDst := operandShape(in.Op)
		ni := Insn{
			Op: in.Op, Width: in.Width, HasDst: hasDst,
			Imm32: in.Imm32, Imm64: in.Imm64, Local: in.Local, Static: in.Static,
			Target: in.Target, Callee: in.Callee,
		}
		if usesSrc1 {
			ni.Src1 = resolve(in.Src1)
		}
		if usesSrc2 {
			ni.Src2 = resolve(in.Src2)
		}
		if hasDst {
			ni.Dst = resolve(in.Dst)
		}
		out.Insns = append(out.Insns, ni)
	}
	return out
}

// operandShape reports which operand fields a lir.Op reads/writes.
func operandShape(op lir.Op) (usesSrc1, usesSrc2, hasDst bool) {
	switch op {
	case lir.OpLoadImm, lir.OpLoadLocal, lir.OpLoadStatic:
		return false, false, true
	case lir.OpStoreLocal, lir.OpStoreStatic:
		return true, false, false
	case lir.OpMove, lir.OpSignExt, lir.OpTruncate, lir.OpNeg, lir.OpNot, lir.OpLogicalNot:
		return true, false, true
	case lir.OpAdd, lir.OpSub, lir.OpMul, lir.OpDiv, lir.OpRem,
		lir.OpCmpLT, lir.OpCmpLE, lir.OpCmpGT, lir.OpCmpGE, lir.OpCmpEQ, lir.OpCmpNE:
		return true, true, true
	case lir.OpJumpIfZero, lir.OpJumpIfNotZero:
		return true, false, false
	default:
		return false, false, false
	}
}
