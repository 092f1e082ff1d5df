package asm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/asm"
	"github.com/sarchlab/sim8086/insts"
)

var _ = Describe("Emitter", func() {
	var emitter *asm.Emitter

	BeforeEach(func() {
		emitter = asm.NewEmitter()
	})

	It("should start with the listing header", func() {
		Expect(emitter.String()).To(Equal("bits 16\n\n"))
		Expect(emitter.Lines()).To(Equal(0))
	})

	It("should append instructions in order", func() {
		decoder := insts.NewDecoder([]byte{0xB8, 0x01, 0x00, 0x89, 0xD9})
		for !decoder.Done() {
			inst, err := decoder.Next()
			Expect(err).NotTo(HaveOccurred())
			emitter.Emit(inst)
		}

		Expect(emitter.String()).To(Equal("bits 16\n\nmov ax, 1\nmov cx, bx\n"))
		Expect(emitter.Lines()).To(Equal(2))
	})

	It("should pad trace values by register width", func() {
		emitter.EmitRegChange(insts.RegAL, 0x00, 0x05)
		emitter.EmitRegChange(insts.RegAX, 0x0000, 0x0001)

		Expect(emitter.String()).To(Equal(
			"bits 16\n\n; al: 0x00 -> 0x05\n; ax: 0x0000 -> 0x0001\n"))
	})

	It("should print high-half values as full bytes", func() {
		emitter.EmitRegChange(insts.RegAH, 0x00, 0xff)

		Expect(emitter.String()).To(HaveSuffix("; ah: 0x00 -> 0xff\n"))
	})
})
