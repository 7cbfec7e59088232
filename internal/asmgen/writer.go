package asmgen

import (
	"fmt"
	"strings"
)

// Writer buffers one compilation's assembly text. Grounded on the
// teacher's util.Writer (same Ins1/Ins2/Ins3/Ins2imm/LoadStore/Label
// method vocabulary and tab-indentation convention, which is what
// produces the GNU-as-compatible layout spec.md §6 requires verbatim),
// de-concurrentized into a single strings.Builder per compilation
// since §5 rules out the teacher's channel-fed, multi-goroutine
// listener (ListenWrite/Flush/Close).
type Writer struct {
	sb strings.Builder
}

func (w *Writer) Write(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Ins0 writes a zero-operand instruction (ret).
func (w *Writer) Ins0(op string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\n", op))
}

// Ins1 writes a one-operand instruction (call, j).
func (w *Writer) Ins1(op, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s\n", op, rs1))
}

// Ins2 writes a two-operand instruction (mv, neg, seqz, li with a
// symbolic operand).
func (w *Writer) Ins2(op, rd, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s\n", op, rd, rs1))
}

// Ins2imm writes a destination/source/immediate instruction (addi,
// xori).
func (w *Writer) Ins2imm(op, rd, rs1 string, imm int64) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s, %d\n", op, rd, rs1, imm))
}

// Ins3 writes a destination/two-source instruction (add, slt, ...).
func (w *Writer) Ins3(op, rd, rs1, rs2 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s, %s\n", op, rd, rs1, rs2))
}

// Branch writes a two-register branch to a label (beq, bne).
func (w *Writer) Branch(op, rs1, rs2, label string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s, %s\n", op, rs1, rs2, label))
}

// LoadStore writes a load/store with a register-plus-offset memory
// operand (lw/ld/sw/sd reg, offset(base)).
func (w *Writer) LoadStore(op, reg string, offset int, base string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %d(%s)\n", op, reg, offset, base))
}

// Label writes an unindented label definition.
func (w *Writer) Label(name string) {
	w.sb.WriteString(fmt.Sprintf("%s:\n", name))
}

func (w *Writer) String() string { return w.sb.String() }
