// Package tac generates and represents three-address code: a flat,
// Op-tagged instruction sequence with symbolic virtual registers
// ("temps") in place of HIR's expression trees, lowering every control
// construct to labels and conditional/unconditional jumps (§4.4).
//
// The instruction shape is grounded on
// y1yang0-falcon's compile/codegen.Instruction (Op + Result + Args,
// a flat three-operand form) rather than the teacher's heavier
// pointer-linked IR value graph, since TAC here is deliberately a
// simple flat list consumed by a separate CFG builder (internal/tac/opt)
// rather than a graph built up front.
package tac

import (
	"fmt"

	"rvcc/internal/ast"
	"rvcc/internal/hir"
	"rvcc/internal/strpool"
)

// Op tags every TAC instruction.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg
	OpComplement
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE
	OpCmpEQ
	OpCmpNE
	OpLogicalNot // result is 1 if operand == 0, else 0
	OpCopy
	OpLoadConst
	OpLoadLocal
	OpStoreLocal
	OpLoadStatic
	OpStoreStatic
	OpSignExt  // Int -> Long
	OpTruncate // Long -> Int
	OpLabel
	OpJump
	OpJumpIfZero
	OpJumpIfNotZero
	OpCall
	OpReturn
)

var opNames = map[Op]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpRem: "rem",
	OpNeg: "neg", OpComplement: "not", OpCmpLT: "cmplt", OpCmpLE: "cmple",
	OpCmpGT: "cmpgt", OpCmpGE: "cmpge", OpCmpEQ: "cmpeq", OpCmpNE: "cmpne",
	OpLogicalNot: "lnot", OpCopy: "copy", OpLoadConst: "loadconst",
	OpLoadLocal: "loadlocal", OpStoreLocal: "storelocal",
	OpLoadStatic: "loadstatic", OpStoreStatic: "storestatic",
	OpSignExt: "sext", OpTruncate: "trunc", OpLabel: "label", OpJump: "jump",
	OpJumpIfZero: "jz", OpJumpIfNotZero: "jnz", OpCall: "call", OpReturn: "ret",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Temp is a virtual register id, unique within a Func.
type Temp int

// Label is a jump target id, unique within a Func.
type Label int

// Insn is one flat three-address instruction. Not every field is
// meaningful for every Op.
type Insn struct {
	Op       Op
	Type     ast.Type // width/signedness of the operation, when it matters
	Dst      Temp
	Src1     Temp
	Src2     Temp
	ConstI32 int32
	ConstI64 int64
	Local    int
	Static   strpool.Symbol
	Target   Label
	Callee   strpool.Symbol
	Args     []Temp
	HasDst    bool
}

// Func is one function's TAC form.
type Func struct {
	Name       strpool.Symbol
	Exported   bool // true unless declared static (hir.Internal linkage)
	Params     []int // local ids of the parameters, in order
	ReturnType ast.Type
	NumLocals  int
	Insns      []Insn

	numTemps  int
	numLabels int
}

func (f *Func) newTemp() Temp {
	t := Temp(f.numTemps)
	f.numTemps++
	return t
}

func (f *Func) newLabel() Label {
	l := Label(f.numLabels)
	f.numLabels++
	return l
}

func (f *Func) emit(i Insn) { f.Insns = append(f.Insns, i) }

// NumTemps reports how many distinct virtual registers this function
// uses; LIR generation and regalloc size their per-temp tables from it.
func (f *Func) NumTemps() int { return f.numTemps }

// NumLabels reports how many distinct labels this function defines.
func (f *Func) NumLabels() int { return f.numLabels }

// Program is the whole translation unit's TAC form.
type Program struct {
	Funcs   []*Func
	Statics []*hir.StaticVarDecl
}
