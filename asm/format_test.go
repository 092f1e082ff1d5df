package asm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/asm"
	"github.com/sarchlab/sim8086/insts"
)

func render(code ...byte) string {
	inst, err := insts.NewDecoder(code).Next()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return asm.FormatInstruction(inst)
}

var _ = Describe("Format", func() {
	DescribeTable("instruction text",
		func(code []byte, want string) {
			Expect(render(code...)).To(Equal(want))
		},
		Entry("immediate to register", []byte{0xB8, 0x01, 0x00}, "mov ax, 1"),
		Entry("register to register", []byte{0x89, 0xD9}, "mov cx, bx"),
		Entry("conditional jump", []byte{0x74, 0xFE}, "je -2"),
		Entry("byte registers", []byte{0x88, 0xE5}, "mov ch, ah"),
		Entry("unsigned byte immediate", []byte{0xB5, 0xF4}, "mov ch, 244"),
		Entry("negative word immediate", []byte{0xBA, 0x94, 0xF0}, "mov dx, -3948"),
		Entry("memory without displacement", []byte{0x8A, 0x00}, "mov al, [bx+si]"),
		Entry("zero displacement", []byte{0x8B, 0x56, 0x00}, "mov dx, [bp+0]"),
		Entry("positive displacement", []byte{0x8A, 0x80, 0x87, 0x13}, "mov al, [bx+si+4999]"),
		Entry("negative displacement", []byte{0x8B, 0x41, 0xDB}, "mov ax, [bx+di-37]"),
		Entry("memory destination", []byte{0x89, 0x8C, 0xD4, 0xFE}, "mov [si-300], cx"),
		Entry("direct address", []byte{0x8B, 0x1E, 0x82, 0x0D}, "mov bx, [3458]"),
		Entry("high direct address", []byte{0xA1, 0xFF, 0xFF}, "mov ax, [65535]"),
		Entry("accumulator to memory", []byte{0xA3, 0xFA, 0x09}, "mov [2554], ax"),
		Entry("byte store", []byte{0xC6, 0x03, 0x07}, "mov [bp+di], byte 7"),
		Entry("word store", []byte{0xC7, 0x85, 0x85, 0x03, 0x5B, 0x01}, "mov [di+901], word 347"),
		Entry("immediate to register without size", []byte{0xC7, 0xC1, 0x34, 0x12}, "mov cx, 4660"),
		Entry("add from memory", []byte{0x03, 0x18}, "add bx, [bx+si]"),
		Entry("add immediate", []byte{0x83, 0xC6, 0x02, 0x00}, "add si, 2"),
		Entry("add sized memory", []byte{0x80, 0x46, 0x00, 0x05}, "add [bp+0], byte 5"),
		Entry("add word to direct address", []byte{0x81, 0x06, 0xE8, 0x03, 0xD0, 0x07}, "add [1000], word 2000"),
		Entry("add accumulator", []byte{0x05, 0xE8, 0x03}, "add ax, 1000"),
		Entry("sub registers", []byte{0x29, 0xD8}, "sub ax, bx"),
		Entry("sub byte immediate", []byte{0x80, 0xEF, 0x05}, "sub bh, 5"),
		Entry("sub accumulator", []byte{0x2C, 0x05}, "sub al, 5"),
		Entry("cmp registers", []byte{0x39, 0xD8}, "cmp ax, bx"),
		Entry("cmp accumulator", []byte{0x3D, 0x10, 0x00}, "cmp ax, 16"),
		Entry("jl", []byte{0x7C, 0x02}, "jl 2"),
		Entry("jbe", []byte{0x76, 0x80}, "jbe -128"),
	)

	It("should render operands directly", func() {
		Expect(asm.FormatOperand(insts.RegOperand(insts.RegSP))).To(Equal("sp"))
		Expect(asm.FormatOperand(insts.MemOperand(insts.Memory{Base: insts.EABX}))).To(Equal("[bx]"))
		Expect(asm.FormatOperand(insts.ImmOperand(insts.Immediate{Value: -7}))).To(Equal("-7"))
		Expect(asm.FormatOperand(insts.Operand{})).To(BeEmpty())
	})

	It("should render an instruction without operands as its mnemonic", func() {
		Expect(asm.FormatInstruction(&insts.Instruction{Op: insts.OpMOV})).To(Equal("mov"))
	})
})
