package emu

import "github.com/sarchlab/sim8086/insts"

// RegFile represents the 8086 register file.
// It holds nine 16-bit registers: AX, BX, CX, DX, SI, DI, BP, SP and IP.
// AX through DX are also addressable as high and low byte halves.
type RegFile struct {
	slots [insts.NumSlots]uint16
}

// NewRegFile creates a zeroed register file.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// Read returns the value of a register. Byte halves are returned in the low
// eight bits.
func (r *RegFile) Read(reg insts.Reg) (uint16, error) {
	if !reg.Valid() {
		return 0, &insts.UnknownRegisterError{Name: reg.String()}
	}

	v := r.slots[reg.Slot()]

	switch reg.Half() {
	case insts.HalfLow:
		return v & 0x00FF, nil
	case insts.HalfHigh:
		return v >> 8, nil
	default:
		return v, nil
	}
}

// Write sets the value of a register. Writing a byte half takes the low eight
// bits of value and leaves the other half unchanged.
func (r *RegFile) Write(reg insts.Reg, value uint16) error {
	if !reg.Valid() {
		return &insts.UnknownRegisterError{Name: reg.String()}
	}

	slot := &r.slots[reg.Slot()]

	switch reg.Half() {
	case insts.HalfLow:
		*slot = (*slot & 0xFF00) | (value & 0x00FF)
	case insts.HalfHigh:
		*slot = (*slot & 0x00FF) | (value&0x00FF)<<8
	default:
		*slot = value
	}

	return nil
}

// ReadNamed reads a register by its assembler name, e.g. "ah".
func (r *RegFile) ReadNamed(name string) (uint16, error) {
	reg, err := insts.ParseReg(name)
	if err != nil {
		return 0, err
	}
	return r.Read(reg)
}

// WriteNamed writes a register by its assembler name.
func (r *RegFile) WriteNamed(name string, value uint16) error {
	reg, err := insts.ParseReg(name)
	if err != nil {
		return err
	}
	return r.Write(reg, value)
}

// Slot returns the raw 16-bit value of a storage slot.
func (r *RegFile) Slot(slot int) uint16 {
	return r.slots[slot]
}

// Reset zeroes every register.
func (r *RegFile) Reset() {
	r.slots = [insts.NumSlots]uint16{}
}
