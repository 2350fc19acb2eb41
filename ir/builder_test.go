package ir_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64front/ir"
)

var _ = Describe("Block", func() {
	var b *ir.Block

	BeforeEach(func() {
		b = ir.NewBlock()
	})

	It("should append statements in order", func() {
		b.AddStmt(ir.IMark{Addr: 0x1000, Len: 2})
		b.AddStmt(ir.Put{Offset: 80, Data: ir.U64(0x1000)})

		Expect(b.Len()).To(Equal(2))
		Expect(b.Stmts[0]).To(Equal(ir.IMark{Addr: 0x1000, Len: 2}))
	})

	It("should allocate typed temporaries", func() {
		t0 := b.NewTemp(ir.TypeI64)
		t1 := b.NewTemp(ir.TypeI1)

		Expect(t0).To(Equal(ir.Temp(0)))
		Expect(t1).To(Equal(ir.Temp(1)))
		Expect(b.NumTemps()).To(Equal(2))
		Expect(b.TypeOf(ir.RdTmp{Tmp: t1})).To(Equal(ir.TypeI1))
		Expect(b.TempType(7)).To(Equal(ir.TypeInvalid))
	})

	It("should type expressions", func() {
		Expect(b.TypeOf(ir.U64(1))).To(Equal(ir.TypeI64))
		Expect(b.TypeOf(ir.Get{Offset: 8, Type: ir.TypeI64})).To(Equal(ir.TypeI64))
		Expect(b.TypeOf(ir.Binop{Op: ir.OpCmpEQ64, Arg1: ir.U64(0), Arg2: ir.U64(0)})).To(Equal(ir.TypeI1))
		Expect(b.TypeOf(ir.Unop{Op: ir.Op64to32, Arg: ir.U64(0)})).To(Equal(ir.TypeI32))
	})

	Describe("Validate", func() {
		It("should accept a well-typed block", func() {
			t := b.NewTemp(ir.TypeI64)
			b.AddStmt(ir.WrTmp{Tmp: t, Data: ir.Binop{Op: ir.OpAdd64, Arg1: ir.Get{Offset: 8, Type: ir.TypeI64}, Arg2: ir.U64(4)}})
			b.AddStmt(ir.Put{Offset: 16, Data: ir.RdTmp{Tmp: t}})
			b.AddStmt(ir.Exit{Guard: ir.Binop{Op: ir.OpCmpNE64, Arg1: ir.RdTmp{Tmp: t}, Arg2: ir.U64(0)}, Dst: 0x2000, JumpKind: ir.JumpBoring})
			b.Next = ir.U64(0x1004)

			Expect(b.Validate()).To(Succeed())
		})

		It("should reject a read before write", func() {
			t := b.NewTemp(ir.TypeI64)
			b.AddStmt(ir.Put{Offset: 16, Data: ir.RdTmp{Tmp: t}})

			Expect(b.Validate()).To(MatchError(ContainSubstring("read before write")))
		})

		It("should reject a mistyped operator argument", func() {
			b.AddStmt(ir.Put{Offset: 16, Data: ir.Unop{Op: ir.Op32Sto64, Arg: ir.U64(1)}})

			Expect(b.Validate()).To(MatchError(ContainSubstring("want I32")))
		})

		It("should reject a non-boolean exit guard", func() {
			b.AddStmt(ir.Exit{Guard: ir.U64(1), Dst: 0, JumpKind: ir.JumpBoring})

			Expect(b.Validate()).To(MatchError(ContainSubstring("exit guard")))
		})
	})

	It("should render a tree grouped by instruction", func() {
		b.AddStmt(ir.IMark{Addr: 0x1000, Len: 2})
		b.AddStmt(ir.Put{Offset: 80, Data: ir.U64(0x1000)})
		b.Next = ir.Get{Offset: 256, Type: ir.TypeI64}
		b.JumpKind = ir.JumpBoring

		out := b.Tree("block").String()
		Expect(out).To(ContainSubstring("0x1000 (len 2)"))
		Expect(out).To(ContainSubstring("PUT(80) = 0x1000:I64"))
		Expect(out).To(ContainSubstring("exit-Boring"))
		Expect(b.String()).To(HavePrefix("IRSB {"))
	})
})

var _ = Describe("Pending", func() {
	var (
		base *ir.Block
		p    *ir.Pending
	)

	BeforeEach(func() {
		base = ir.NewBlock()
		base.NewTemp(ir.TypeI64)
		base.AddStmt(ir.IMark{Addr: 0x1000, Len: 4})
		p = ir.NewPending(base)
	})

	It("should leave the base untouched until commit", func() {
		before := *base
		before.Stmts = append([]ir.Stmt(nil), base.Stmts...)

		t := p.NewTemp(ir.TypeI64)
		p.AddStmt(ir.WrTmp{Tmp: t, Data: ir.U64(3)})

		Expect(t).To(Equal(ir.Temp(1)))
		Expect(p.TypeOf(ir.RdTmp{Tmp: t})).To(Equal(ir.TypeI64))
		Expect(p.TypeOf(ir.RdTmp{Tmp: 0})).To(Equal(ir.TypeI64))
		Expect(base.Len()).To(Equal(1))
		Expect(base.NumTemps()).To(Equal(1))
		Expect(cmp.Equal(before.Stmts, base.Stmts)).To(BeTrue())
	})

	It("should move staged IR into the base on commit", func() {
		t := p.NewTemp(ir.TypeI64)
		p.AddStmt(ir.WrTmp{Tmp: t, Data: ir.U64(3)})
		p.AddStmt(ir.Put{Offset: 8, Data: ir.RdTmp{Tmp: t}})
		p.Commit()

		Expect(base.NumTemps()).To(Equal(2))
		Expect(base.Stmts).To(HaveLen(3))
		Expect(base.Validate()).To(Succeed())
		Expect(p.Empty()).To(BeTrue())
	})

	It("should panic if the base moved underneath it", func() {
		p.NewTemp(ir.TypeI64)
		base.NewTemp(ir.TypeI1)

		Expect(p.Commit).To(Panic())
	})
})
