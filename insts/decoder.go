// Package insts provides 8086 instruction definitions and decoding.
package insts

import "io"

// Op represents an 8086 mnemonic.
type Op uint8

// 8086 opcodes.
const (
	OpUnknown Op = iota
	OpMOV
	OpADD
	OpSUB
	OpCMP
	OpJE  // JE/JZ
	OpJL  // JL/JNGE
	OpJLE // JLE/JNG
	OpJB  // JB/JNAE
	OpJBE // JBE/JNA
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpMOV:     "mov",
	OpADD:     "add",
	OpSUB:     "sub",
	OpCMP:     "cmp",
	OpJE:      "je",
	OpJL:      "jl",
	OpJLE:     "jle",
	OpJB:      "jb",
	OpJBE:     "jbe",
}

// String returns the assembler mnemonic.
func (o Op) String() string {
	if int(o) >= len(opNames) {
		return opNames[OpUnknown]
	}
	return opNames[o]
}

// IsJump reports whether the op is a conditional jump.
func (o Op) IsJump() bool {
	return o >= OpJE && o <= OpJBE
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown     Format = iota
	FormatImmToReg           // 1011 w reg | data | data if w=1
	FormatRegMemReg          // opcode d w | mod reg r/m | disp-lo | disp-hi
	FormatImmToRegMem        // opcode s w | mod op r/m | disp-lo | disp-hi | data | data if w=1
	FormatImmToAcc           // opcode w | data | data if w=1
	FormatMemToAcc           // 1010000 w | addr-lo | addr-hi
	FormatAccToMem           // 1010001 w | addr-lo | addr-hi
	FormatCondJump           // opcode | ip-inc8
)

// Instruction represents a decoded 8086 instruction.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Encoding format

	Offset int   // Offset of the first byte in the input
	Length int   // Number of bytes consumed
	Width  Width // Operand width selected by W (byte for jumps)

	// Operands in assembler order; the destination comes first.
	Operands []Operand
}

// Dst returns the first operand, or the zero Operand if there is none.
func (i *Instruction) Dst() Operand {
	if len(i.Operands) == 0 {
		return Operand{}
	}
	return i.Operands[0]
}

// Src returns the second operand, or the zero Operand if there is none.
func (i *Instruction) Src() Operand {
	if len(i.Operands) < 2 {
		return Operand{}
	}
	return i.Operands[1]
}

// MOD field
const (
	modMemNoDisp = 0b00
	modMemDisp8  = 0b01
	modMemDisp16 = 0b10
	modReg       = 0b11
)

// rmDirect selects direct addressing when MOD = 00.
const rmDirect = 0b110

// Register/memory with register, bits [7:2].
var regMemRegOps = map[uint8]Op{
	0b100010: OpMOV,
	0b000000: OpADD,
	0b001010: OpSUB,
	0b001110: OpCMP,
}

// Immediate to register/memory arithmetic, bits [7:2]. The REG field of the
// second byte selects the operation.
const immArithPrefix = 0b100000

var immArithOps = map[uint8]Op{
	0b000: OpADD,
	0b101: OpSUB,
	0b111: OpCMP,
}

// Immediate to accumulator, bits [7:1].
var immToAccOps = map[uint8]Op{
	0b0000010: OpADD,
	0b0010110: OpSUB,
	0b0011110: OpCMP,
}

// Remaining 7-bit prefixes.
const (
	movImmToRegMemPrefix = 0b1100011
	movMemToAccPrefix    = 0b1010000
	movAccToMemPrefix    = 0b1010001
)

// Conditional jumps, full opcode byte.
var condJumpOps = map[uint8]Op{
	0x74: OpJE,
	0x7C: OpJL,
	0x7E: OpJLE,
	0x72: OpJB,
	0x76: OpJBE,
}

// DecoderOption is a functional option for configuring the Decoder.
type DecoderOption func(*Decoder)

// WithSignExtendedImm8 makes the immediate-to-register/memory arithmetic form
// read a single sign-extended byte when S=1 and W=1, as the 8086 does. By
// default a word immediate is always two bytes.
func WithSignExtendedImm8() DecoderOption {
	return func(d *Decoder) {
		d.signExtendImm8 = true
	}
}

// Decoder decodes 8086 machine code one instruction at a time.
type Decoder struct {
	cursor *Cursor

	// start is the offset of the instruction being decoded.
	start int

	signExtendImm8 bool
}

// NewDecoder creates a new 8086 instruction decoder over data.
func NewDecoder(data []byte, opts ...DecoderOption) *Decoder {
	d := &Decoder{cursor: NewCursor(data)}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Offset returns the offset of the next undecoded byte.
func (d *Decoder) Offset() int {
	return d.cursor.Offset()
}

// Done reports whether the whole input has been consumed.
func (d *Decoder) Done() bool {
	return d.cursor.Remaining() == 0
}

// Next decodes the instruction at the current offset.
//
// It returns io.EOF when the input is exhausted, *TruncatedInputError when an
// instruction is cut short, *MalformedInstructionError for undefined sub-field
// values, and *UnrecognizedOpcodeError when the leading byte matches no
// supported encoding. In every error case the bytes read so far stay consumed.
func (d *Decoder) Next() (*Instruction, error) {
	d.start = d.cursor.Offset()

	opcode, err := d.cursor.Next()
	if err != nil {
		return nil, io.EOF
	}

	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown, Offset: d.start}

	switch {
	case d.isImmToReg(opcode):
		err = d.decodeImmToReg(opcode, inst)
	case d.isRegMemReg(opcode):
		err = d.decodeRegMemReg(opcode, inst)
	case d.isImmToRegMem(opcode):
		err = d.decodeImmToRegMem(opcode, inst)
	case d.isImmToAcc(opcode):
		err = d.decodeImmToAcc(opcode, inst)
	case d.isMovImmToRegMem(opcode):
		err = d.decodeMovImmToRegMem(opcode, inst)
	case d.isMovAccMem(opcode):
		err = d.decodeMovAccMem(opcode, inst)
	case d.isCondJump(opcode):
		err = d.decodeCondJump(opcode, inst)
	default:
		return nil, &UnrecognizedOpcodeError{Offset: d.start, Opcode: opcode}
	}

	if err != nil {
		return nil, err
	}

	inst.Length = d.cursor.Offset() - d.start

	return inst, nil
}

// isImmToReg checks for MOV immediate to register.
// bits [7:4] == 0b1011
func (d *Decoder) isImmToReg(opcode uint8) bool {
	return opcode>>4 == 0b1011
}

// decodeImmToReg decodes MOV immediate to register.
// Format: 1011 | w | reg | data | data if w=1
func (d *Decoder) decodeImmToReg(opcode uint8, inst *Instruction) error {
	inst.Op = OpMOV
	inst.Format = FormatImmToReg

	w := (opcode >> 3) & 0x1 // bit 3
	reg := opcode & 0x7       // bits [2:0]

	inst.Width = widthFromW(w)

	// A byte immediate is unsigned; a word immediate is read as signed.
	imm, err := d.readImmediate(inst.Width, inst.Width == WidthWord)
	if err != nil {
		return err
	}

	inst.Operands = []Operand{
		RegOperand(RegFromField(reg, inst.Width)),
		ImmOperand(imm),
	}

	return nil
}

// isRegMemReg checks for register/memory with register.
// bits [7:2] in {100010 mov, 000000 add, 001010 sub, 001110 cmp}
func (d *Decoder) isRegMemReg(opcode uint8) bool {
	_, ok := regMemRegOps[opcode>>2]
	return ok
}

// decodeRegMemReg decodes the two-operand register/memory forms.
// Format: opcode | d | w | mod | reg | r/m | disp-lo | disp-hi
func (d *Decoder) decodeRegMemReg(opcode uint8, inst *Instruction) error {
	inst.Op = regMemRegOps[opcode>>2]
	inst.Format = FormatRegMemReg

	dir := (opcode >> 1) & 0x1 // bit 1: 1=REG is destination
	w := opcode & 0x1          // bit 0

	inst.Width = widthFromW(w)

	m, err := d.readModRM()
	if err != nil {
		return err
	}

	rm, err := d.resolveRM(m, inst.Width)
	if err != nil {
		return err
	}

	reg := RegOperand(RegFromField(m.reg, inst.Width))

	if dir == 1 {
		inst.Operands = []Operand{reg, rm}
	} else {
		inst.Operands = []Operand{rm, reg}
	}

	return nil
}

// isImmToRegMem checks for ADD/SUB/CMP immediate to register/memory.
// bits [7:2] == 0b100000
func (d *Decoder) isImmToRegMem(opcode uint8) bool {
	return opcode>>2 == immArithPrefix
}

// decodeImmToRegMem decodes ADD/SUB/CMP immediate to register/memory.
// Format: 100000 | s | w | mod | op | r/m | disp-lo | disp-hi | data | data if w=1
func (d *Decoder) decodeImmToRegMem(opcode uint8, inst *Instruction) error {
	inst.Format = FormatImmToRegMem

	s := (opcode >> 1) & 0x1 // bit 1: signed immediate
	w := opcode & 0x1        // bit 0

	inst.Width = widthFromW(w)

	m, err := d.readModRM()
	if err != nil {
		return err
	}

	dst, err := d.resolveRM(m, inst.Width)
	if err != nil {
		return err
	}
	if dst.IsMem() {
		dst.Mem.Size = inst.Width
	}

	var imm Immediate
	if d.signExtendImm8 && s == 1 && inst.Width == WidthWord {
		imm, err = d.readImmediate(WidthByte, true)
		imm.Width = WidthWord
	} else {
		imm, err = d.readImmediate(inst.Width, s == 1)
	}
	if err != nil {
		return err
	}

	// The whole instruction is consumed before an unknown sub-opcode is
	// reported, so decoding can resume at the next instruction.
	op, ok := immArithOps[m.reg]
	if !ok {
		return &MalformedInstructionError{Offset: d.start, Field: "arithmetic op", Value: m.reg}
	}
	inst.Op = op

	inst.Operands = []Operand{dst, ImmOperand(imm)}

	return nil
}

// isImmToAcc checks for ADD/SUB/CMP immediate to accumulator.
// bits [7:1] in {0000010 add, 0010110 sub, 0011110 cmp}
func (d *Decoder) isImmToAcc(opcode uint8) bool {
	_, ok := immToAccOps[opcode>>1]
	return ok
}

// decodeImmToAcc decodes ADD/SUB/CMP immediate to accumulator.
// Format: opcode | w | data | data if w=1
func (d *Decoder) decodeImmToAcc(opcode uint8, inst *Instruction) error {
	inst.Op = immToAccOps[opcode>>1]
	inst.Format = FormatImmToAcc
	inst.Width = widthFromW(opcode & 0x1)

	imm, err := d.readImmediate(inst.Width, inst.Width == WidthWord)
	if err != nil {
		return err
	}

	inst.Operands = []Operand{
		RegOperand(RegFromField(0b000, inst.Width)),
		ImmOperand(imm),
	}

	return nil
}

// isMovImmToRegMem checks for MOV immediate to register/memory.
// bits [7:1] == 0b1100011
func (d *Decoder) isMovImmToRegMem(opcode uint8) bool {
	return opcode>>1 == movImmToRegMemPrefix
}

// decodeMovImmToRegMem decodes MOV immediate to register/memory.
// Format: 1100011 | w | mod | 000 | r/m | disp-lo | disp-hi | data | data if w=1
func (d *Decoder) decodeMovImmToRegMem(opcode uint8, inst *Instruction) error {
	inst.Op = OpMOV
	inst.Format = FormatImmToRegMem
	inst.Width = widthFromW(opcode & 0x1)

	m, err := d.readModRM()
	if err != nil {
		return err
	}
	dst, err := d.resolveRM(m, inst.Width)
	if err != nil {
		return err
	}
	if dst.IsMem() {
		dst.Mem.Size = inst.Width
	}

	imm, err := d.readImmediate(inst.Width, inst.Width == WidthWord)
	if err != nil {
		return err
	}

	if m.reg != 0b000 {
		return &MalformedInstructionError{Offset: d.start, Field: "reg", Value: m.reg}
	}

	inst.Operands = []Operand{dst, ImmOperand(imm)}

	return nil
}

// isMovAccMem checks for MOV memory to accumulator and accumulator to memory.
// bits [7:1] in {1010000, 1010001}
func (d *Decoder) isMovAccMem(opcode uint8) bool {
	p := opcode >> 1
	return p == movMemToAccPrefix || p == movAccToMemPrefix
}

// decodeMovAccMem decodes MOV between the accumulator and a direct address.
// Format: 101000 | d | w | addr-lo | addr-hi
func (d *Decoder) decodeMovAccMem(opcode uint8, inst *Instruction) error {
	inst.Op = OpMOV
	inst.Width = widthFromW(opcode & 0x1)

	addr, err := d.readWord("addr")
	if err != nil {
		return err
	}

	acc := RegOperand(RegFromField(0b000, inst.Width))
	mem := MemOperand(Memory{Base: EADirect, Disp: int16(addr)})

	if opcode>>1 == movMemToAccPrefix {
		inst.Format = FormatMemToAcc
		inst.Operands = []Operand{acc, mem}
	} else {
		inst.Format = FormatAccToMem
		inst.Operands = []Operand{mem, acc}
	}

	return nil
}

// isCondJump checks for the supported conditional jumps.
func (d *Decoder) isCondJump(opcode uint8) bool {
	_, ok := condJumpOps[opcode]
	return ok
}

// decodeCondJump decodes a short conditional jump.
// Format: opcode | ip-inc8
// The displacement is kept as encoded, relative to the next instruction.
func (d *Decoder) decodeCondJump(opcode uint8, inst *Instruction) error {
	inst.Op = condJumpOps[opcode]
	inst.Format = FormatCondJump
	inst.Width = WidthByte

	b, err := d.read("ip-inc8")
	if err != nil {
		return err
	}

	inst.Operands = []Operand{
		ImmOperand(Immediate{Value: int32(int8(b)), Width: WidthByte, Signed: true}),
	}

	return nil
}

type modRM struct {
	mod uint8 // bits [7:6]
	reg uint8 // bits [5:3]
	rm  uint8 // bits [2:0]
}

func (d *Decoder) readModRM() (modRM, error) {
	b, err := d.read("modrm")
	if err != nil {
		return modRM{}, err
	}

	return modRM{
		mod: (b >> 6) & 0x3,
		reg: (b >> 3) & 0x7,
		rm:  b & 0x7,
	}, nil
}

// resolveRM turns the MOD and R/M fields into a register or memory operand,
// reading any displacement or direct address that follows.
func (d *Decoder) resolveRM(m modRM, width Width) (Operand, error) {
	switch m.mod {
	case modReg:
		return RegOperand(RegFromField(m.rm, width)), nil

	case modMemNoDisp:
		if m.rm == rmDirect {
			addr, err := d.readWord("addr")
			if err != nil {
				return Operand{}, err
			}
			return MemOperand(Memory{Base: EADirect, Disp: int16(addr)}), nil
		}
		return MemOperand(Memory{Base: EffectiveAddr(m.rm)}), nil

	case modMemDisp8:
		b, err := d.read("disp-lo")
		if err != nil {
			return Operand{}, err
		}
		return MemOperand(Memory{
			Base:    EffectiveAddr(m.rm),
			Disp:    int16(int8(b)),
			HasDisp: true,
		}), nil

	case modMemDisp16:
		disp, err := d.readWord("disp")
		if err != nil {
			return Operand{}, err
		}
		return MemOperand(Memory{
			Base:    EffectiveAddr(m.rm),
			Disp:    int16(disp),
			HasDisp: true,
		}), nil

	default:
		return Operand{}, &MalformedInstructionError{Offset: d.start, Field: "mod", Value: m.mod}
	}
}

// readImmediate reads a byte or little-endian word immediate.
func (d *Decoder) readImmediate(width Width, signed bool) (Immediate, error) {
	imm := Immediate{Width: width, Signed: signed}

	if width == WidthWord {
		v, err := d.readWord("data")
		if err != nil {
			return Immediate{}, err
		}
		if signed {
			imm.Value = int32(int16(v))
		} else {
			imm.Value = int32(v)
		}
		return imm, nil
	}

	b, err := d.read("data")
	if err != nil {
		return Immediate{}, err
	}
	if signed {
		imm.Value = int32(int8(b))
	} else {
		imm.Value = int32(b)
	}

	return imm, nil
}

// readWord reads a little-endian 16-bit value; the low byte comes first.
func (d *Decoder) readWord(field string) (uint16, error) {
	lo, err := d.read(field + "-lo")
	if err != nil {
		return 0, err
	}

	hi, err := d.read(field + "-hi")
	if err != nil {
		return 0, err
	}

	return uint16(lo) | uint16(hi)<<8, nil
}

func (d *Decoder) read(field string) (byte, error) {
	b, err := d.cursor.Next()
	if err != nil {
		return 0, &TruncatedInputError{Offset: d.start, Field: field}
	}
	return b, nil
}
