package insts

// Width is an operand size.
type Width uint8

// Operand widths.
const (
	WidthNone Width = iota
	WidthByte
	WidthWord
)

// String returns the NASM size keyword for the width.
func (w Width) String() string {
	switch w {
	case WidthByte:
		return "byte"
	case WidthWord:
		return "word"
	default:
		return ""
	}
}

// widthFromW maps the W bit to an operand width.
func widthFromW(w uint8) Width {
	if w == 1 {
		return WidthWord
	}
	return WidthByte
}

// Half selects which part of a 16-bit register an identifier addresses.
type Half uint8

// Register halves.
const (
	HalfFull Half = iota
	HalfLow
	HalfHigh
)

// Reg identifies an 8086 register or byte alias.
type Reg uint8

// 8086 register identifiers.
const (
	RegNone Reg = iota
	RegAL
	RegAH
	RegAX
	RegBL
	RegBH
	RegBX
	RegCL
	RegCH
	RegCX
	RegDL
	RegDH
	RegDX
	RegSI
	RegDI
	RegBP
	RegSP
	RegIP
)

// Register storage slots. Aliases share the slot of their full register.
const (
	SlotAX = iota
	SlotBX
	SlotCX
	SlotDX
	SlotSI
	SlotDI
	SlotBP
	SlotSP
	SlotIP
	NumSlots
)

type regInfo struct {
	name  string
	width Width
	slot  int
	half  Half
}

var regTable = [...]regInfo{
	RegNone: {name: ""},
	RegAL:   {"al", WidthByte, SlotAX, HalfLow},
	RegAH:   {"ah", WidthByte, SlotAX, HalfHigh},
	RegAX:   {"ax", WidthWord, SlotAX, HalfFull},
	RegBL:   {"bl", WidthByte, SlotBX, HalfLow},
	RegBH:   {"bh", WidthByte, SlotBX, HalfHigh},
	RegBX:   {"bx", WidthWord, SlotBX, HalfFull},
	RegCL:   {"cl", WidthByte, SlotCX, HalfLow},
	RegCH:   {"ch", WidthByte, SlotCX, HalfHigh},
	RegCX:   {"cx", WidthWord, SlotCX, HalfFull},
	RegDL:   {"dl", WidthByte, SlotDX, HalfLow},
	RegDH:   {"dh", WidthByte, SlotDX, HalfHigh},
	RegDX:   {"dx", WidthWord, SlotDX, HalfFull},
	RegSI:   {"si", WidthWord, SlotSI, HalfFull},
	RegDI:   {"di", WidthWord, SlotDI, HalfFull},
	RegBP:   {"bp", WidthWord, SlotBP, HalfFull},
	RegSP:   {"sp", WidthWord, SlotSP, HalfFull},
	RegIP:   {"ip", WidthWord, SlotIP, HalfFull},
}

// Valid reports whether r is one of the defined register identifiers.
func (r Reg) Valid() bool {
	return r > RegNone && int(r) < len(regTable)
}

// String returns the lower-case assembler name of the register.
func (r Reg) String() string {
	if !r.Valid() {
		return "?"
	}
	return regTable[r].name
}

// Width returns the register's operand width.
func (r Reg) Width() Width {
	if !r.Valid() {
		return WidthNone
	}
	return regTable[r].width
}

// Slot returns the storage slot backing the register.
func (r Reg) Slot() int {
	if !r.Valid() {
		return -1
	}
	return regTable[r].slot
}

// Half returns which part of its slot the register addresses.
func (r Reg) Half() Half {
	if !r.Valid() {
		return HalfFull
	}
	return regTable[r].half
}

// ParseReg looks up a register by its assembler name.
func ParseReg(name string) (Reg, error) {
	for r := RegAL; r <= RegIP; r++ {
		if regTable[r].name == name {
			return r, nil
		}
	}
	return RegNone, &UnknownRegisterError{Name: name}
}

// SlotRegs lists the full register for each storage slot, in slot order.
var SlotRegs = [NumSlots]Reg{
	SlotAX: RegAX,
	SlotBX: RegBX,
	SlotCX: RegCX,
	SlotDX: RegDX,
	SlotSI: RegSI,
	SlotDI: RegDI,
	SlotBP: RegBP,
	SlotSP: RegSP,
	SlotIP: RegIP,
}

// REG / R/M register field encoding
// | REG | W = 0 | W = 1 |
// | 000 | AL    | AX    |
// | 001 | CL    | CX    |
// | 010 | DL    | DX    |
// | 011 | BL    | BX    |
// | 100 | AH    | SP    |
// | 101 | CH    | BP    |
// | 110 | DH    | SI    |
// | 111 | BH    | DI    |
var (
	byteFieldRegs = [8]Reg{RegAL, RegCL, RegDL, RegBL, RegAH, RegCH, RegDH, RegBH}
	wordFieldRegs = [8]Reg{RegAX, RegCX, RegDX, RegBX, RegSP, RegBP, RegSI, RegDI}
)

// RegFromField decodes a 3-bit register field at the given width.
func RegFromField(field uint8, width Width) Reg {
	if width == WidthWord {
		return wordFieldRegs[field&0b111]
	}
	return byteFieldRegs[field&0b111]
}
