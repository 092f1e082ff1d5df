package emu

import (
	"fmt"

	"github.com/sarchlab/sim8086/insts"
)

// Effect records a register write made by an instruction.
type Effect struct {
	Reg    insts.Reg
	Before uint16
	After  uint16
}

// MoveUnit applies MOV instructions that target a register.
// Every other instruction leaves the register file untouched.
type MoveUnit struct {
	regFile *RegFile
}

// NewMoveUnit creates a new MoveUnit connected to the given register file.
func NewMoveUnit(regFile *RegFile) *MoveUnit {
	return &MoveUnit{regFile: regFile}
}

// Apply executes inst against the register file. It returns the write it made
// and true, or false when the instruction has no register effect.
func (m *MoveUnit) Apply(inst *insts.Instruction) (Effect, bool, error) {
	if inst.Op != insts.OpMOV {
		return Effect{}, false, nil
	}

	dst := inst.Dst()
	if !dst.IsReg() {
		return Effect{}, false, nil
	}

	value, ok, err := m.sourceValue(inst.Src())
	if err != nil || !ok {
		return Effect{}, false, err
	}

	before, err := m.regFile.Read(dst.Reg)
	if err != nil {
		return Effect{}, false, fmt.Errorf("failed to read %s at offset %d: %w", dst.Reg, inst.Offset, err)
	}

	if err := m.regFile.Write(dst.Reg, value); err != nil {
		return Effect{}, false, fmt.Errorf("failed to write %s at offset %d: %w", dst.Reg, inst.Offset, err)
	}

	after, err := m.regFile.Read(dst.Reg)
	if err != nil {
		return Effect{}, false, err
	}

	return Effect{Reg: dst.Reg, Before: before, After: after}, true, nil
}

// sourceValue resolves the value a MOV writes. Memory sources are not modeled.
func (m *MoveUnit) sourceValue(src insts.Operand) (uint16, bool, error) {
	switch src.Kind {
	case insts.OperandImm:
		v := uint16(src.Imm.Value)
		if src.Imm.Width == insts.WidthByte {
			v &= 0x00FF
		}
		return v, true, nil
	case insts.OperandReg:
		v, err := m.regFile.Read(src.Reg)
		if err != nil {
			return 0, false, err
		}
		return v, true, nil
	default:
		return 0, false, nil
	}
}
