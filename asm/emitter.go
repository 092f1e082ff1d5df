package asm

import (
	"fmt"
	"strings"

	"github.com/sarchlab/sim8086/insts"
)

// Header is the preamble of every listing.
const Header = "bits 16\n\n"

// Emitter accumulates an assembly listing in encounter order.
type Emitter struct {
	buf   strings.Builder
	lines int
}

// NewEmitter creates an emitter with the listing header already written.
func NewEmitter() *Emitter {
	e := &Emitter{}
	e.buf.WriteString(Header)
	return e
}

// Emit appends one instruction line.
func (e *Emitter) Emit(inst *insts.Instruction) {
	e.writeLine(FormatInstruction(inst))
}

// EmitRegChange appends a simulation trace comment for a register write.
// Byte registers print two hex digits, word registers four.
func (e *Emitter) EmitRegChange(reg insts.Reg, before, after uint16) {
	digits := 4
	if reg.Width() == insts.WidthByte {
		digits = 2
	}

	e.writeLine(fmt.Sprintf("; %s: 0x%0*x -> 0x%0*x", reg, digits, before, digits, after))
}

// Lines returns the number of lines written after the header.
func (e *Emitter) Lines() int {
	return e.lines
}

// String returns the listing so far.
func (e *Emitter) String() string {
	return e.buf.String()
}

func (e *Emitter) writeLine(line string) {
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
	e.lines++
}
