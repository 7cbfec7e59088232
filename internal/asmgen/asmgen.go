// Package asmgen renders a canonicalized program as RV64 GNU-as text:
// one .text entry per function (prologue/epilogue expansion, straight
// line mnemonic selection) followed by a .data/.bss segment per static.
//
// Grounded on original_source/cc/src/asm/{codegen,emit}.rs for the
// exact mnemonic choice per Insn variant, the LoadStatic/StoreStatic
// lui+lw/sw-through-t5 expansion, and the .align/.globl/.type/.size
// section layout (the teacher emits RISC-V text too, in
// src/backend/riscv/riscv.go, but targets a different register set
// and calling convention; the section-directive shape below follows
// original_source since it is what spec.md §6 requires verbatim).
package asmgen

import (
	"fmt"
	"sort"

	"rvcc/internal/canon"
	"rvcc/internal/lir"
	"rvcc/internal/rvabi"
	"rvcc/internal/strpool"
)

func roundUp16(n int) int { return (n + 15) &^ 15 }

// frame pairs a saved register with its offset from s0, and holds the
// full frame size the prologue/epilogue allocate.
type frame struct {
	saved     []rvabi.Reg
	offset    map[rvabi.Reg]int
	size      int
	localBase int // offset of local/spill slot 0, below the saved-register block
}

// layout computes one function's frame: ra and s0 are always saved
// (spec.md §4.7), plus whichever callee-saved registers the allocator
// actually assigned; everything canon.Run produced is already a
// physical register, so a single scan over every instruction's
// operand fields finds them all.
func layout(f *canon.Func) frame {
	used := map[rvabi.Reg]bool{}
	for _, in := range f.Insns {
		for _, r := range [3]rvabi.Reg{in.Dst, in.Src1, in.Src2} {
			if rvabi.IsCalleeSaved(r) {
				used[r] = true
			}
		}
	}
	saved := []rvabi.Reg{rvabi.RA, rvabi.S0}
	for _, r := range rvabi.CalleeSaved {
		if used[r] {
			saved = append(saved, r)
		}
	}
	off := make(map[rvabi.Reg]int, len(saved))
	for i, r := range saved {
		off[r] = -8 * (i + 1)
	}
	savedSize := 8 * len(saved)
	return frame{saved: saved, offset: off, size: roundUp16(savedSize + f.FrameSize), localBase: savedSize}
}

func (fr frame) localOffset(slot int) int { return -(fr.localBase + 8*(slot+1)) }

// Emit renders the whole program: code first, then initialized data,
// then bss, matching the teacher's section ordering.
func Emit(funcs []*canon.Func, statics []lir.StaticData, pool *strpool.Pool) string {
	w := &Writer{}
	emitCode(w, funcs, pool)
	emitData(w, statics, pool)
	emitBSS(w, statics, pool)
	return w.String()
}

func emitCode(w *Writer, funcs []*canon.Func, pool *strpool.Pool) {
	w.WriteString("\t.text\n")
	for _, f := range funcs {
		emitFunc(w, f, pool)
	}
}

func emitFunc(w *Writer, f *canon.Func, pool *strpool.Pool) {
	name := pool.String(f.Name)
	fr := layout(f)

	w.WriteString("\t.align\t1\n")
	if f.Exported {
		w.Write("\t.globl\t%s\n", name)
	}
	w.Write("\t.type\t%s, @function\n", name)
	w.Label(name)

	for _, in := range f.Insns {
		emitInsn(w, in, fr, pool)
	}

	w.Write("\t.size\t%s, .-%s\n\n", name, name)
}

func emitInsn(w *Writer, in canon.Insn, fr frame, pool *strpool.Pool) {
	switch in.Op {
	case lir.OpPrologue:
		w.Ins2imm("addi", "sp", "sp", int64(fr.size))
		w.Ins2imm("addi", "s0", "sp", -int64(fr.size))
		for _, r := range fr.saved {
			w.LoadStore("sd", r.String(), fr.offset[r], "s0")
		}
	case lir.OpEpilogue:
		for i := len(fr.saved) - 1; i >= 0; i-- {
			r := fr.saved[i]
			w.LoadStore("ld", r.String(), fr.offset[r], "s0")
		}
		w.Ins2imm("addi", "sp", "sp", -int64(fr.size))
		w.Ins0("ret")

	case lir.OpAdd:
		w.Ins3(widthed("add", in.Width), in.Dst.String(), in.Src1.String(), in.Src2.String())
	case lir.OpSub:
		w.Ins3(widthed("sub", in.Width), in.Dst.String(), in.Src1.String(), in.Src2.String())
	case lir.OpMul:
		w.Ins3(widthed("mul", in.Width), in.Dst.String(), in.Src1.String(), in.Src2.String())
	case lir.OpDiv:
		w.Ins3(widthed("div", in.Width), in.Dst.String(), in.Src1.String(), in.Src2.String())
	case lir.OpRem:
		w.Ins3(widthed("rem", in.Width), in.Dst.String(), in.Src1.String(), in.Src2.String())

	case lir.OpCmpLT:
		w.Ins3("slt", in.Dst.String(), in.Src1.String(), in.Src2.String())
	case lir.OpCmpGT:
		w.Ins3("sgt", in.Dst.String(), in.Src1.String(), in.Src2.String())
	case lir.OpCmpLE:
		// le = not(gt): slt rd, rs2, rs1 computes rs1>rs2, then flip it.
		w.Ins3("slt", in.Dst.String(), in.Src2.String(), in.Src1.String())
		w.Ins2imm("xori", in.Dst.String(), in.Dst.String(), 1)
	case lir.OpCmpGE:
		// ge = not(lt): slt rd, rs1, rs2 computes rs1<rs2, then flip it.
		w.Ins3("slt", in.Dst.String(), in.Src1.String(), in.Src2.String())
		w.Ins2imm("xori", in.Dst.String(), in.Dst.String(), 1)
	case lir.OpCmpEQ:
		w.Ins3(widthed("sub", in.Width), in.Dst.String(), in.Src1.String(), in.Src2.String())
		w.Ins2("seqz", in.Dst.String(), in.Dst.String())
	case lir.OpCmpNE:
		w.Ins3(widthed("sub", in.Width), in.Dst.String(), in.Src1.String(), in.Src2.String())
		w.Ins2("snez", in.Dst.String(), in.Dst.String())

	case lir.OpNeg:
		w.Ins2(widthed("neg", in.Width), in.Dst.String(), in.Src1.String())
	case lir.OpNot:
		w.Ins2("not", in.Dst.String(), in.Src1.String())
	case lir.OpLogicalNot:
		w.Ins2("seqz", in.Dst.String(), in.Src1.String())
	case lir.OpMove:
		if in.Dst == in.Src1 {
			break
		}
		w.Ins2("mv", in.Dst.String(), in.Src1.String())
	case lir.OpSignExt, lir.OpTruncate:
		// Both directions collapse to the same instruction: RV64's
		// w-suffixed arithmetic already sign-extends a 32-bit result
		// into the full register, so sign-extending Int->Long is a
		// defensive no-op and truncating Long->Int is exactly the
		// same re-sign-extension of the low 32 bits.
		w.Ins2("sext.w", in.Dst.String(), in.Src1.String())

	case lir.OpLoadImm:
		imm := int64(in.Imm32)
		if in.Width == lir.Double {
			imm = in.Imm64
		}
		w.Write("\tli\t%s, %d\n", in.Dst.String(), imm)

	case lir.OpLoadLocal:
		w.LoadStore(widthed("l", in.Width, "w", "d"), in.Dst.String(), fr.localOffset(in.Local), "s0")
	case lir.OpStoreLocal:
		w.LoadStore(widthed("s", in.Width, "w", "d"), in.Src1.String(), fr.localOffset(in.Local), "s0")

	case lir.OpLoadStatic:
		name := pool.String(in.Static)
		w.Write("\tlui\t%s, %%hi(%s)\n", rvabi.ScratchA.String(), name)
		w.Write("\t%s\t%s, %%lo(%s)(%s)\n", widthed("l", in.Width, "w", "d"), in.Dst.String(), name, rvabi.ScratchA.String())
	case lir.OpStoreStatic:
		name := pool.String(in.Static)
		w.Write("\tlui\t%s, %%hi(%s)\n", rvabi.ScratchA.String(), name)
		w.Write("\t%s\t%s, %%lo(%s)(%s)\n", widthed("s", in.Width, "w", "d"), in.Src1.String(), name, rvabi.ScratchA.String())

	case lir.OpLabel:
		w.Label(fmt.Sprintf(".L%d", in.Target))
	case lir.OpJump:
		w.Ins1("j", fmt.Sprintf(".L%d", in.Target))
	case lir.OpJumpIfZero:
		w.Branch("beq", in.Src1.String(), rvabi.Zero.String(), fmt.Sprintf(".L%d", in.Target))
	case lir.OpJumpIfNotZero:
		w.Branch("bne", in.Src1.String(), rvabi.Zero.String(), fmt.Sprintf(".L%d", in.Target))
	case lir.OpCall:
		w.Ins1("call", pool.String(in.Callee))
	}
}

// widthed picks the 32-bit suffixed mnemonic for lir.Word, the plain
// one for lir.Double. An optional (wordSuffix, doubleSuffix) pair lets
// load/store callers pick "w"/"d" instead of the default "w"-appended
// form.
func widthed(base string, width lir.Width, suffixes ...string) string {
	if len(suffixes) == 2 {
		if width == lir.Word {
			return base + suffixes[0]
		}
		return base + suffixes[1]
	}
	if width == lir.Word {
		return base + "w"
	}
	return base
}

func emitData(w *Writer, statics []lir.StaticData, pool *strpool.Pool) {
	inited := filterStatics(statics, true)
	if len(inited) == 0 {
		return
	}
	w.WriteString("\t.data\n")
	for _, s := range inited {
		name := pool.String(s.Name)
		if s.Exported {
			w.Write("\t.globl\t%s\n", name)
		}
		w.Write("\t.align\t%d\n", align(s.Size))
		w.Write("\t.type\t%s, @object\n", name)
		w.Write("\t.size\t%s, %d\n", name, s.Size)
		w.Label(name)
		if s.Size == 4 {
			w.Write("\t.word\t%d\n", int32(s.Init64))
		} else {
			w.Write("\t.dword\t%d\n", s.Init64)
		}
	}
	w.WriteString("\n")
}

func emitBSS(w *Writer, statics []lir.StaticData, pool *strpool.Pool) {
	uninited := filterStatics(statics, false)
	if len(uninited) == 0 {
		return
	}
	w.WriteString("\t.bss\n")
	for _, s := range uninited {
		name := pool.String(s.Name)
		if s.Exported {
			w.Write("\t.globl\t%s\n", name)
		}
		w.Write("\t.align\t%d\n", align(s.Size))
		w.Write("\t.type\t%s, @object\n", name)
		w.Write("\t.size\t%s, %d\n", name, s.Size)
		w.Label(name)
		w.Write("\t.zero\t%d\n", s.Size)
	}
	w.WriteString("\n")
}

func filterStatics(statics []lir.StaticData, inited bool) []lir.StaticData {
	var out []lir.StaticData
	for _, s := range statics {
		if s.HasInit == inited {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func align(size int) int {
	if size >= 8 {
		return 8
	}
	return 4
}
