package frontend

import (
	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// Quadrant 01: compressed immediates, ALU forms and PC-relative control
// flow. Rules sharing a funct3 are ordered most-constrained first.
var compressed01Rules = []Rule{
	{Name: "c.nop", Decode: decodeCNop},
	{Name: "c.addi", Decode: decodeCAddi},
	{Name: "c.addiw", Decode: decodeCAddiw},
	{Name: "c.li", Decode: decodeCLi},
	{Name: "c.addi16sp", Decode: decodeCAddi16sp},
	{Name: "c.lui", Decode: decodeCLui},
	{Name: "c.andi", Decode: decodeCAndi},
	{Name: "c.arith", Decode: decodeCArith},
	{Name: "c.j", Decode: decodeCJ},
	{Name: "c.beqz", Decode: decodeCBranchZero},
	{Name: "c.bnez", Decode: decodeCBranchZero},
}

// ciImm decodes the six-bit signed immediate imm[5] = insn[12],
// imm[4:0] = insn[6:2].
func ciImm(c *Context) uint64 {
	return insts.SignExtend(uint64(c.Field(12, 12)<<5|c.Field(6, 2)), 6)
}

// c.nop
// Format: 000 | 0 | 00000 | 00000 | 01, plus the rd=0 hint space.
func decodeCNop(c *Context) *Match {
	if c.Field(15, 13) != 0b000 || c.Field(11, 7) != 0 {
		return nil
	}
	return next(2, "c.nop")
}

// c.addi rd, nzimm
// Format: 000 | imm[5] | rd | imm[4:0] | 01
func decodeCAddi(c *Context) *Match {
	if c.Field(15, 13) != 0b000 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	if rd == guest.RegZero {
		return nil
	}

	imm := ciImm(c)
	c.PutReg(rd, add64(getReg(c, rd), ir.U64(imm)))
	return next(2, "c.addi %s, %d", name(rd), int64(imm))
}

// c.addiw rd, imm
// Format: 001 | imm[5] | rd | imm[4:0] | 01
func decodeCAddiw(c *Context) *Match {
	if c.Field(15, 13) != 0b001 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	if rd == guest.RegZero {
		// Reserved.
		return nil
	}

	imm := ciImm(c)
	c.PutReg(rd, sx32(add64(getReg(c, rd), ir.U64(imm))))
	return next(2, "c.addiw %s, %d", name(rd), int64(imm))
}

// c.li rd, imm
// Format: 010 | imm[5] | rd | imm[4:0] | 01
func decodeCLi(c *Context) *Match {
	if c.Field(15, 13) != 0b010 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	imm := ciImm(c)
	c.PutReg(rd, ir.U64(imm))
	return next(2, "c.li %s, %d", name(rd), int64(imm))
}

// c.addi16sp sp, nzimm
// Format: 011 | nzimm[9] | 00010 | nzimm[4|6|8:7|5] | 01
func decodeCAddi16sp(c *Context) *Match {
	if c.Field(15, 13) != 0b011 || guest.Reg(c.Field(11, 7)) != guest.RegSP {
		return nil
	}

	nzimm := c.Field(12, 12)<<9 | c.Field(6, 6)<<4 | c.Field(5, 5)<<6 |
		c.Field(4, 3)<<7 | c.Field(2, 2)<<5
	if nzimm == 0 {
		// Reserved.
		return nil
	}

	imm := insts.SignExtend(uint64(nzimm), 10)
	c.PutReg(guest.RegSP, add64(getReg(c, guest.RegSP), ir.U64(imm)))
	return next(2, "c.addi16sp sp, %d", int64(imm))
}

// c.lui rd, nzimm[17:12]
// Format: 011 | nzimm[17] | rd | nzimm[16:12] | 01
func decodeCLui(c *Context) *Match {
	if c.Field(15, 13) != 0b011 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	nzimm := c.Field(12, 12)<<17 | c.Field(6, 2)<<12
	if rd == guest.RegZero || rd == guest.RegSP || nzimm == 0 {
		// Invalid c.lui, fall through.
		return nil
	}

	c.PutReg(rd, ir.U64(insts.SignExtend(uint64(nzimm), 18)))
	return next(2, "c.lui %s, 0x%x", name(rd), nzimm>>12)
}

// c.andi rd', imm
// Format: 100 | imm[5] | 10 | rd' | imm[4:0] | 01
func decodeCAndi(c *Context) *Match {
	if c.Field(15, 13) != 0b100 || c.Field(11, 10) != 0b10 {
		return nil
	}

	rd := creg(c.Field(9, 7))
	imm := ciImm(c)
	c.PutReg(rd, binop(ir.OpAnd64, getReg(c, rd), ir.U64(imm)))
	return next(2, "c.andi %s, %d", name(rd), int64(imm))
}

var cArithOps = [4]struct {
	op   ir.Op
	name string
}{
	{ir.OpSub64, "c.sub"},
	{ir.OpXor64, "c.xor"},
	{ir.OpOr64, "c.or"},
	{ir.OpAnd64, "c.and"},
}

// c.sub / c.xor / c.or / c.and rd', rs2'
// Format: 100 | 0 | 11 | rd' | funct2 | rs2' | 01
func decodeCArith(c *Context) *Match {
	if c.Field(15, 13) != 0b100 || c.Field(12, 12) != 0 || c.Field(11, 10) != 0b11 {
		return nil
	}

	rd := creg(c.Field(9, 7))
	rs2 := creg(c.Field(4, 2))
	op := cArithOps[c.Field(6, 5)]

	c.PutReg(rd, binop(op.op, getReg(c, rd), getReg(c, rs2)))
	return next(2, "%s %s, %s", op.name, name(rd), name(rs2))
}

// c.j offset
// Format: 101 | offset[11|4|9:8|10|6|7|3:1|5] | 01
func decodeCJ(c *Context) *Match {
	if c.Field(15, 13) != 0b101 {
		return nil
	}

	offset := c.Field(12, 12)<<11 | c.Field(11, 11)<<4 | c.Field(10, 9)<<8 |
		c.Field(8, 8)<<10 | c.Field(7, 7)<<6 | c.Field(6, 6)<<7 |
		c.Field(5, 3)<<1 | c.Field(2, 2)<<5

	dst := c.PC + insts.SignExtend(uint64(offset), 12)
	c.PutPC(ir.U64(dst))
	return stop(2, ir.JumpBoring, "c.j 0x%x", dst)
}

// c.beqz / c.bnez rs1', offset
// Format: 11x | offset[8|4:3] | rs1' | offset[7:6|2:1|5] | 01
func decodeCBranchZero(c *Context) *Match {
	funct3 := c.Field(15, 13)
	if funct3 != 0b110 && funct3 != 0b111 {
		return nil
	}

	rs1 := creg(c.Field(9, 7))
	offset := c.Field(12, 12)<<8 | c.Field(11, 10)<<3 | c.Field(6, 5)<<6 |
		c.Field(4, 3)<<1 | c.Field(2, 2)<<5
	dst := c.PC + insts.SignExtend(uint64(offset), 9)

	op, mnemonic := ir.OpCmpEQ64, "c.beqz"
	if funct3 == 0b111 {
		op, mnemonic = ir.OpCmpNE64, "c.bnez"
	}

	c.IR.AddStmt(ir.Exit{
		Guard:    binop(op, getReg(c, rs1), ir.U64(0)),
		Dst:      dst,
		JumpKind: ir.JumpBoring,
		OffsIP:   c.Regs.Layout().PC,
	})
	return next(2, "%s %s, 0x%x", mnemonic, name(rs1), dst)
}
