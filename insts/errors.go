package insts

import (
	"errors"
	"fmt"
)

// ErrEndOfInput is returned by the cursor when no byte remains.
var ErrEndOfInput = errors.New("end of input")

// TruncatedInputError reports that an instruction needed more bytes than the
// input holds. Offset is the offset of the instruction's first byte.
type TruncatedInputError struct {
	Offset int
	Field  string // what was being read, e.g. "modrm", "disp-lo", "data-hi"
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: missing %s byte", e.Offset, e.Field)
}

// Unwrap lets errors.Is match ErrEndOfInput.
func (e *TruncatedInputError) Unwrap() error {
	return ErrEndOfInput
}

// MalformedInstructionError reports a recognized instruction shape whose
// sub-field holds a value with no defined meaning.
type MalformedInstructionError struct {
	Offset int
	Field  string
	Value  uint8
}

func (e *MalformedInstructionError) Error() string {
	return fmt.Sprintf("malformed instruction at offset %d: unhandled %s value %03b",
		e.Offset, e.Field, e.Value)
}

// UnrecognizedOpcodeError reports a leading byte that matches no supported
// encoding. The byte has been consumed; decoding may continue with the next.
type UnrecognizedOpcodeError struct {
	Offset int
	Opcode byte
}

func (e *UnrecognizedOpcodeError) Error() string {
	return fmt.Sprintf("unrecognized opcode 0x%02x at offset %d", e.Opcode, e.Offset)
}

// UnknownRegisterError reports a register identifier outside the closed set.
type UnknownRegisterError struct {
	Name string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("unknown register: %q", e.Name)
}
