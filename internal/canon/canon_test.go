package canon

import (
	"testing"

	"rvcc/internal/lir"
	"rvcc/internal/rvabi"
	"rvcc/internal/spill"
)

func TestCanonMemRoutesBinaryOpMemOperandsThroughScratchRegisters(t *testing.T) {
	in := spill.Insn{
		Op: lir.OpAdd, Width: lir.Word,
		Src1: spill.MemOperand(3), Src2: spill.MemOperand(4), Dst: spill.MemOperand(5), HasDst: true,
	}
	got := canonMem(in)
	want := []Insn{
		{Op: lir.OpLoadLocal, Width: lir.Double, Dst: rvabi.ScratchA, HasDst: true, Local: 3},
		{Op: lir.OpLoadLocal, Width: lir.Double, Dst: rvabi.ScratchB, HasDst: true, Local: 4},
		{Op: lir.OpAdd, Width: lir.Word, Dst: rvabi.ScratchA, HasDst: true, Src1: rvabi.ScratchA, Src2: rvabi.ScratchB},
		{Op: lir.OpStoreLocal, Width: lir.Double, Src1: rvabi.ScratchA, Local: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("insn %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCanonMemLeavesRegisterOperandsUntouched(t *testing.T) {
	in := spill.Insn{
		Op: lir.OpAdd, Width: lir.Word,
		Src1: spill.RegOperand(rvabi.T0), Src2: spill.RegOperand(rvabi.T1), Dst: spill.RegOperand(rvabi.T2), HasDst: true,
	}
	got := canonMem(in)
	want := []Insn{{Op: lir.OpAdd, Width: lir.Word, Dst: rvabi.T2, HasDst: true, Src1: rvabi.T0, Src2: rvabi.T1}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCanonMemMemToMemMoveRoundTripsThroughOneScratchRegister(t *testing.T) {
	in := spill.Insn{Op: lir.OpMove, Width: lir.Double, Src1: spill.MemOperand(1), Dst: spill.MemOperand(2)}
	got := canonMem(in)
	want := []Insn{
		{Op: lir.OpLoadLocal, Width: lir.Double, Dst: rvabi.ScratchA, HasDst: true, Local: 1},
		{Op: lir.OpStoreLocal, Width: lir.Double, Src1: rvabi.ScratchA, Local: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("insn %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCanonMemLoadImmIntoSpilledDestStoresBack(t *testing.T) {
	in := spill.Insn{Op: lir.OpLoadImm, Width: lir.Word, Dst: spill.MemOperand(7), HasDst: true, Imm32: 42}
	got := canonMem(in)
	want := []Insn{
		{Op: lir.OpLoadImm, Width: lir.Word, Dst: rvabi.ScratchA, HasDst: true, Imm32: 42},
		{Op: lir.OpStoreLocal, Width: lir.Double, Src1: rvabi.ScratchA, Local: 7},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("insn %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCanonImmIsIdentity(t *testing.T) {
	in := Insn{Op: lir.OpAdd, Width: lir.Word, Dst: rvabi.T0, HasDst: true, Src1: rvabi.T1, Src2: rvabi.T2}
	got := canonImm(in)
	if len(got) != 1 || got[0] != in {
		t.Fatalf("canonImm should pass every instruction through unchanged, got %+v", got)
	}
}
