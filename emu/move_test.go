package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/emu"
	"github.com/sarchlab/sim8086/insts"
)

var _ = Describe("MoveUnit", func() {
	var (
		regFile  *emu.RegFile
		moveUnit *emu.MoveUnit
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		moveUnit = emu.NewMoveUnit(regFile)
	})

	apply := func(code ...byte) (emu.Effect, bool) {
		inst, err := insts.NewDecoder(code).Next()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())

		eff, ok, err := moveUnit.Apply(inst)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return eff, ok
	}

	It("should build AX from two byte moves", func() {
		eff, ok := apply(0xB0, 0x05) // mov al, 5
		Expect(ok).To(BeTrue())
		Expect(eff).To(Equal(emu.Effect{Reg: insts.RegAL, Before: 0x00, After: 0x05}))

		eff, ok = apply(0xB4, 0x03) // mov ah, 3
		Expect(ok).To(BeTrue())
		Expect(eff).To(Equal(emu.Effect{Reg: insts.RegAH, Before: 0x00, After: 0x03}))

		ax, _ := regFile.Read(insts.RegAX)
		Expect(ax).To(Equal(uint16(0x0305)))
	})

	It("should store negative word immediates as two's complement", func() {
		eff, ok := apply(0xBA, 0x94, 0xF0) // mov dx, -3948
		Expect(ok).To(BeTrue())
		Expect(eff.After).To(Equal(uint16(0xF094)))
	})

	It("should copy between registers", func() {
		Expect(regFile.Write(insts.RegBX, 0x1234)).To(Succeed())

		eff, ok := apply(0x89, 0xD9) // mov cx, bx
		Expect(ok).To(BeTrue())
		Expect(eff).To(Equal(emu.Effect{Reg: insts.RegCX, Before: 0, After: 0x1234}))
	})

	It("should copy high byte registers", func() {
		Expect(regFile.Write(insts.RegAH, 0x42)).To(Succeed())

		eff, ok := apply(0x88, 0xE5) // mov ch, ah
		Expect(ok).To(BeTrue())
		Expect(eff.After).To(Equal(uint16(0x42)))

		cx, _ := regFile.Read(insts.RegCX)
		Expect(cx).To(Equal(uint16(0x4200)))
	})

	It("should ignore memory operands", func() {
		_, ok := apply(0x8B, 0x1E, 0x82, 0x0D) // mov bx, [3458]
		Expect(ok).To(BeFalse())

		_, ok = apply(0x89, 0x8C, 0xD4, 0xFE) // mov [si-300], cx
		Expect(ok).To(BeFalse())
	})

	It("should ignore everything but MOV", func() {
		_, ok := apply(0x05, 0xE8, 0x03) // add ax, 1000
		Expect(ok).To(BeFalse())

		_, ok = apply(0x74, 0xFE) // je -2
		Expect(ok).To(BeFalse())

		ax, _ := regFile.Read(insts.RegAX)
		Expect(ax).To(Equal(uint16(0)))
	})
})
