package guest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/ir"
)

var _ = Describe("Register file", func() {
	var (
		rf *guest.RegisterFile
		b  *ir.Block
	)

	BeforeEach(func() {
		rf = guest.NewRegisterFile(nil)
		b = ir.NewBlock()
	})

	Describe("Offsets", func() {
		It("should give every register a distinct 8-byte slot", func() {
			seen := map[int]bool{}
			for r := guest.Reg(0); r < guest.NumRegs; r++ {
				off := rf.Offset(r)
				Expect(off % 8).To(BeZero())
				Expect(seen).NotTo(HaveKey(off))
				seen[off] = true
			}
			Expect(seen).NotTo(HaveKey(rf.Layout().PC))
		})

		It("should address the matching State fields", func() {
			var s guest.State
			s.X[10] = 0x1234
			s.PC = 0x8000

			Expect(s.Load64(rf.Offset(10))).To(Equal(uint64(0x1234)))
			Expect(s.Load64(rf.Layout().PC)).To(Equal(uint64(0x8000)))

			s.Store64(rf.Layout().IPAtSyscall, 7)
			Expect(s.IPAtSyscall).To(Equal(uint64(7)))
		})

		It("should panic on an out-of-range register", func() {
			Expect(func() { rf.Offset(32) }).To(Panic())
		})

		It("should panic on a misaligned state offset", func() {
			var s guest.State
			Expect(func() { s.Load64(3) }).To(Panic())
			Expect(func() { s.Load64(1 << 12) }).To(Panic())
		})
	})

	Describe("ABI names", func() {
		It("should follow the calling convention", func() {
			Expect(rf.ABIName(0)).To(Equal("zero"))
			Expect(rf.ABIName(2)).To(Equal("sp"))
			Expect(rf.ABIName(8)).To(Equal("s0"))
			Expect(rf.ABIName(10)).To(Equal("a0"))
			Expect(rf.ABIName(17)).To(Equal("a7"))
			Expect(rf.ABIName(18)).To(Equal("s2"))
			Expect(rf.ABIName(27)).To(Equal("s11"))
			Expect(rf.ABIName(31)).To(Equal("t6"))
			Expect(guest.RegA0.String()).To(Equal("a0"))
		})
	})

	Describe("IR access", func() {
		It("should read registers as I64", func() {
			e := rf.Get(5)
			Expect(e).To(Equal(ir.Get{Offset: rf.Offset(5), Type: ir.TypeI64}))
		})

		It("should append a put for an I64 write", func() {
			rf.Write(b, 10, ir.U64(0x1000))

			Expect(b.Stmts).To(Equal([]ir.Stmt{ir.Put{Offset: rf.Offset(10), Data: ir.U64(0x1000)}}))
		})

		It("should panic on a write of the wrong type", func() {
			Expect(func() { rf.Write(b, 10, ir.U1(true)) }).To(Panic())
			Expect(b.Len()).To(BeZero())
		})

		It("should write the program counter", func() {
			rf.WritePC(b, ir.U64(0x2000))
			Expect(b.Stmts[0]).To(Equal(ir.Put{Offset: rf.Layout().PC, Data: ir.U64(0x2000)}))
		})
	})
})
