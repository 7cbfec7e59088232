// Package rvabi holds the RV64 register set and calling-convention
// constants shared by regalloc, spill, canon and asmgen, grounded on
// the x0..x31 register table in src/backend/riscv/riscv.go (same
// numbering, ABI names instead of the teacher's bare x-numbers since
// the emitted assembly uses ABI mnemonics throughout).
package rvabi

// Reg is a physical RV64 integer register, numbered x0..x31.
type Reg int

const (
	Zero Reg = iota // x0, hardwired zero
	RA              // x1, return address (caller-saved)
	SP              // x2, stack pointer (callee-saved)
	GP              // x3, global pointer
	TP              // x4, thread pointer
	T0              // x5, temporary (caller-saved)
	T1              // x6, temporary (caller-saved)
	T2              // x7, temporary (caller-saved)
	S0              // x8, frame pointer / saved (callee-saved)
	S1              // x9, saved (callee-saved)
	A0              // x10, argument/return (caller-saved)
	A1              // x11, argument/return (caller-saved)
	A2              // x12, argument (caller-saved)
	A3              // x13, argument (caller-saved)
	A4              // x14, argument (caller-saved)
	A5              // x15, argument (caller-saved)
	A6              // x16, argument (caller-saved)
	A7              // x17, argument (caller-saved)
	S2              // x18, saved (callee-saved)
	S3              // x19, saved (callee-saved)
	S4              // x20, saved (callee-saved)
	S5              // x21, saved (callee-saved)
	S6              // x22, saved (callee-saved)
	S7              // x23, saved (callee-saved)
	S8              // x24, saved (callee-saved)
	S9              // x25, saved (callee-saved)
	S10             // x26, saved (callee-saved)
	S11             // x27, saved (callee-saved)
	T3              // x28, temporary (caller-saved)
	T4              // x29, temporary (caller-saved)
	T5              // x30, temporary (caller-saved), canonicalization scratch
	T6              // x31, temporary (caller-saved), canonicalization scratch
)

var names = [...]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2", "s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

func (r Reg) String() string { return names[r] }

// ArgRegs is the integer argument-passing sequence, a0..a7 (§6: only
// integer/long arguments exist in the supported subset, so there is no
// separate floating-point class).
var ArgRegs = []Reg{A0, A1, A2, A3, A4, A5, A6, A7}

// ReturnReg holds a function's scalar return value.
const ReturnReg = A0

// Allocatable is the register set the graph-coloring allocator may
// assign to a TAC temp: every saved and temporary register except the
// two reserved for canonicalization scratch (T5, T6) and the
// special-purpose Zero/RA/SP/GP/TP/S0 registers.
var Allocatable = []Reg{
	T0, T1, T2,
	S1, S2, S3, S4, S5, S6, S7, S8, S9, S10, S11,
	A0, A1, A2, A3, A4, A5, A6, A7,
	T3, T4,
}

// CalleeSaved is the subset of Allocatable that the callee must
// preserve across calls (so the asm emitter's prologue/epilogue must
// spill/restore any it assigns).
var CalleeSaved = []Reg{S1, S2, S3, S4, S5, S6, S7, S8, S9, S10, S11}

func IsCalleeSaved(r Reg) bool {
	for _, c := range CalleeSaved {
		if r == c {
			return true
		}
	}
	return false
}

// CallerSaved is the subset of Allocatable a callee may clobber freely;
// regalloc uses this to make every value live across a call interfere
// with these registers, so a register assigned to such a value is
// always one the call cannot trash.
var CallerSaved = []Reg{T0, T1, T2, A0, A1, A2, A3, A4, A5, A6, A7, T3, T4}

// ScratchA/ScratchB are reserved for the canonicalizer (internal/canon)
// to materialize an out-of-range immediate or a spilled memory operand
// just ahead of the instruction that needs it; the allocator never
// assigns them to a live temp.
const (
	ScratchA = T5
	ScratchB = T6
)

// FrameAlign is RV64's mandatory stack-frame alignment in bytes.
const FrameAlign = 16
