package spill

import (
	"fmt"
	"testing"

	"rvcc/internal/lir"
	"rvcc/internal/regalloc"
	"rvcc/internal/rvabi"
)

// coloredFixture builds a tiny two-instruction function (one add whose
// result is returned) with vreg 0 deliberately left uncolored, as if
// the allocator had spilled it.
func coloredFixture(spill bool) *regalloc.ColoredFunc {
	f := &lir.Func{
		NumLocals: 2,
		NumVRegs:  1,
		Insns: []lir.Insn{
			{Op: lir.OpAdd, Width: lir.Word, Dst: lir.Virtual(0), Src1: lir.Precolor(rvabi.A0), Src2: lir.Precolor(rvabi.A1)},
			{Op: lir.OpMove, Width: lir.Word, Dst: lir.Precolor(rvabi.ReturnReg), Src1: lir.Virtual(0)},
		},
	}
	cf := &regalloc.ColoredFunc{Src: f, Colors: map[int]rvabi.Reg{}, Spilled: map[int]bool{}}
	if spill {
		cf.Spilled[0] = true
	} else {
		cf.Colors[0] = rvabi.T0
	}
	return cf
}

func TestRunAssignsASlotPastExistingLocals(t *testing.T) {
	cf := coloredFixture(true)
	out := Run(cf)
	if out.Insns[0].Dst.Kind != OperandMem {
		t.Fatalf("expected the spilled vreg's Dst to be a memory operand, got %+v", out.Insns[0].Dst)
	}
	if out.Insns[0].Dst.Slot != cf.Src.NumLocals {
		t.Errorf("spill slot = %d, want %d (first free slot past the %d existing locals)", out.Insns[0].Dst.Slot, cf.Src.NumLocals, cf.Src.NumLocals)
	}
	if out.FrameSize%16 != 0 {
		t.Errorf("frame size %d is not 16-byte aligned", out.FrameSize)
	}
}

func TestRunGivesColoredVregARegisterOperand(t *testing.T) {
	cf := coloredFixture(false)
	out := Run(cf)
	if out.Insns[0].Dst.Kind != OperandReg || out.Insns[0].Dst.Reg != rvabi.T0 {
		t.Fatalf("expected Dst to resolve to register T0, got %+v", out.Insns[0].Dst)
	}
}

func TestRunIsIdempotentOnTheSameColoredFunc(t *testing.T) {
	cf := coloredFixture(true)
	first := Run(cf)
	second := Run(cf)
	if fmt.Sprintf("%+v", first.Insns) != fmt.Sprintf("%+v", second.Insns) || first.FrameSize != second.FrameSize {
		t.Fatal("Run should be a pure function of its ColoredFunc input")
	}
}
