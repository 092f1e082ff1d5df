// Package insts provides 8086 instruction definitions and decoding.
//
// This package implements decoding of raw 8086 machine code into structured
// instruction representations. It supports:
//   - MOV: register/memory to/from register, immediate to register,
//     immediate to register/memory, memory to accumulator, accumulator to memory
//   - ADD, SUB, CMP: register/memory with register, immediate to
//     register/memory, immediate to accumulator
//   - Conditional jumps: JE, JL, JLE, JB, JBE
//
// Usage:
//
//	decoder := insts.NewDecoder([]byte{0xB8, 0x01, 0x00})
//	inst, err := decoder.Next() // MOV AX, 1
//	fmt.Printf("Op: %v, Dst: %v, Imm: %d\n", inst.Op, inst.Dst().Reg, inst.Src().Imm.Value)
package insts
