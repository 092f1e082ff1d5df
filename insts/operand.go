package insts

// OperandKind tags the variant held by an Operand.
type OperandKind uint8

// Operand kinds.
const (
	OperandNone OperandKind = iota
	OperandReg
	OperandMem
	OperandImm
)

// EffectiveAddr is the base expression of a memory operand.
type EffectiveAddr uint8

// Effective address calculations, indexed by the R/M field.
// If MOD = 00 and R/M = 110, the operand is a direct address instead of bp.
const (
	EABXSI EffectiveAddr = iota
	EABXDI
	EABPSI
	EABPDI
	EASI
	EADI
	EABP
	EABX
	EADirect
)

var eaNames = [...]string{
	EABXSI: "bx+si",
	EABXDI: "bx+di",
	EABPSI: "bp+si",
	EABPDI: "bp+di",
	EASI:   "si",
	EADI:   "di",
	EABP:   "bp",
	EABX:   "bx",
}

// String returns the base expression text. Direct addresses have none.
func (ea EffectiveAddr) String() string {
	if ea >= EADirect {
		return ""
	}
	return eaNames[ea]
}

// Memory is a memory operand.
type Memory struct {
	Base EffectiveAddr

	// Disp is the signed displacement. For EADirect it holds the 16 address
	// bits.
	Disp int16

	// HasDisp is set when the encoding carried a displacement (MOD 01/10),
	// including a zero one.
	HasDisp bool

	// Size is set when the access width is not implied by a register operand.
	Size Width
}

// Address returns the absolute address of a direct memory operand.
func (m Memory) Address() uint16 {
	return uint16(m.Disp)
}

// Immediate is an immediate operand or a jump displacement.
type Immediate struct {
	Value  int32
	Width  Width
	Signed bool
}

// Operand is a tagged union of register, memory and immediate operands.
type Operand struct {
	Kind OperandKind
	Reg  Reg
	Mem  Memory
	Imm  Immediate
}

// RegOperand wraps a register.
func RegOperand(r Reg) Operand {
	return Operand{Kind: OperandReg, Reg: r}
}

// MemOperand wraps a memory reference.
func MemOperand(m Memory) Operand {
	return Operand{Kind: OperandMem, Mem: m}
}

// ImmOperand wraps an immediate.
func ImmOperand(imm Immediate) Operand {
	return Operand{Kind: OperandImm, Imm: imm}
}

// IsReg reports whether the operand is a register.
func (o Operand) IsReg() bool { return o.Kind == OperandReg }

// IsMem reports whether the operand is a memory reference.
func (o Operand) IsMem() bool { return o.Kind == OperandMem }

// IsImm reports whether the operand is an immediate.
func (o Operand) IsImm() bool { return o.Kind == OperandImm }
