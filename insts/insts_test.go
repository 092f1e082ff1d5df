package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i.Op).To(Equal(insts.OpUnknown))
		Expect(i.Operands).To(BeEmpty())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder(nil)
		Expect(decoder).ToNot(BeNil())
		Expect(decoder.Done()).To(BeTrue())
	})

	It("should name every op", func() {
		Expect(insts.OpMOV.String()).To(Equal("mov"))
		Expect(insts.OpCMP.String()).To(Equal("cmp"))
		Expect(insts.OpJBE.String()).To(Equal("jbe"))
		Expect(insts.Op(200).String()).To(Equal("unknown"))
		Expect(insts.OpJE.IsJump()).To(BeTrue())
		Expect(insts.OpSUB.IsJump()).To(BeFalse())
	})
})
