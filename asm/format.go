// Package asm renders decoded 8086 instructions as NASM-style assembly text.
package asm

import (
	"fmt"
	"strings"

	"github.com/sarchlab/sim8086/insts"
)

// FormatOperand renders a single operand.
//
// Displacements keep their sign: a negative one is appended as is ([bx-4]),
// a non-negative one gets an explicit plus, zero included ([bp+0]).
func FormatOperand(op insts.Operand) string {
	switch op.Kind {
	case insts.OperandReg:
		return op.Reg.String()
	case insts.OperandMem:
		return formatMemory(op.Mem)
	case insts.OperandImm:
		return fmt.Sprintf("%d", op.Imm.Value)
	default:
		return ""
	}
}

func formatMemory(m insts.Memory) string {
	if m.Base == insts.EADirect {
		return fmt.Sprintf("[%d]", m.Address())
	}

	if !m.HasDisp {
		return "[" + m.Base.String() + "]"
	}

	if m.Disp < 0 {
		return fmt.Sprintf("[%s%d]", m.Base.String(), m.Disp)
	}

	return fmt.Sprintf("[%s+%d]", m.Base.String(), m.Disp)
}

// FormatInstruction renders an instruction as "<mnemonic> <op>[, <op>]".
// An immediate paired with a sized memory operand carries the size keyword.
func FormatInstruction(inst *insts.Instruction) string {
	var size insts.Width
	for _, op := range inst.Operands {
		if op.IsMem() {
			size = op.Mem.Size
		}
	}

	parts := make([]string, 0, len(inst.Operands))
	for _, op := range inst.Operands {
		text := FormatOperand(op)
		if op.IsImm() && size != insts.WidthNone {
			text = size.String() + " " + text
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return inst.Op.String()
	}

	return inst.Op.String() + " " + strings.Join(parts, ", ")
}
