package frontend

import (
	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// RV64I major opcodes, bits [6:0].
const (
	opcodeLUI    = 0b0110111
	opcodeAUIPC  = 0b0010111
	opcodeJAL    = 0b1101111
	opcodeJALR   = 0b1100111
	opcodeOpImm  = 0b0010011
	opcodeOpImm3 = 0b0011011
	opcodeOp     = 0b0110011
	opcodeSystem = 0b1110011
)

// Quadrant 11: the 32-bit base integer instructions.
var standardRules = []Rule{
	{Name: "lui", Decode: decodeLui},
	{Name: "auipc", Decode: decodeAuipc},
	{Name: "jal", Decode: decodeJal},
	{Name: "jalr", Decode: decodeJalr},
	{Name: "addi", Decode: decodeAddi},
	{Name: "addiw", Decode: decodeAddiw},
	{Name: "add/sub", Decode: decodeAddSub},
	{Name: "ecall", Decode: decodeEcall},
	{Name: "ebreak", Decode: decodeEbreak},
}

func opcode(c *Context) uint32 {
	return c.Field(6, 0)
}

// iImm decodes the 12-bit signed immediate in bits [31:20].
func iImm(c *Context) uint64 {
	return insts.SignExtend(uint64(c.Field(31, 20)), 12)
}

// uImm decodes the sign-extended upper immediate imm[31:12] << 12.
func uImm(c *Context) uint64 {
	return insts.SignExtend(uint64(c.Field(31, 12))<<12, 32)
}

// isLinkReg reports whether r is a link register in the calling convention.
func isLinkReg(r guest.Reg) bool {
	return r == guest.RegRA || r == 5
}

// lui rd, imm
// Format: imm[31:12] | rd | 0110111
func decodeLui(c *Context) *Match {
	if opcode(c) != opcodeLUI {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	c.PutReg(rd, ir.U64(uImm(c)))
	return next(4, "lui %s, 0x%x", name(rd), c.Field(31, 12))
}

// auipc rd, imm
// Format: imm[31:12] | rd | 0010111
func decodeAuipc(c *Context) *Match {
	if opcode(c) != opcodeAUIPC {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	c.PutReg(rd, ir.U64(c.PC+uImm(c)))
	return next(4, "auipc %s, 0x%x", name(rd), c.Field(31, 12))
}

// jal rd, offset
// Format: imm[20|10:1|11|19:12] | rd | 1101111
func decodeJal(c *Context) *Match {
	if opcode(c) != opcodeJAL {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	offset := c.Field(31, 31)<<20 | c.Field(30, 21)<<1 | c.Field(20, 20)<<11 | c.Field(19, 12)<<12
	dst := c.PC + insts.SignExtend(uint64(offset), 21)

	c.PutReg(rd, ir.U64(c.PC+4))
	c.PutPC(ir.U64(dst))

	if isLinkReg(rd) {
		m := stop(4, ir.JumpCall, "jal %s, 0x%x", name(rd), dst)
		m.Hint = HintCall
		return m
	}
	return stop(4, ir.JumpBoring, "jal %s, 0x%x", name(rd), dst)
}

// jalr rd, offset(rs1)
// Format: imm[11:0] | rs1 | 000 | rd | 1100111
func decodeJalr(c *Context) *Match {
	if opcode(c) != opcodeJALR || c.Field(14, 12) != 0b000 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	rs1 := guest.Reg(c.Field(19, 15))
	imm := iImm(c)

	// target = (rs1 + imm) & ~1, computed before rd is written.
	target := c.IR.NewTemp(ir.TypeI64)
	c.IR.AddStmt(ir.WrTmp{
		Tmp:  target,
		Data: binop(ir.OpAnd64, add64(getReg(c, rs1), ir.U64(imm)), ir.U64(^uint64(1))),
	})
	c.PutReg(rd, ir.U64(c.PC+4))
	c.PutPC(ir.RdTmp{Tmp: target})

	switch {
	case rd == guest.RegZero && rs1 == guest.RegRA && imm == 0:
		return stop(4, ir.JumpRet, "ret")
	case isLinkReg(rd):
		m := stop(4, ir.JumpCall, "jalr %s, %d(%s)", name(rd), int64(imm), name(rs1))
		m.Hint = HintCall
		return m
	default:
		return stop(4, ir.JumpBoring, "jalr %s, %d(%s)", name(rd), int64(imm), name(rs1))
	}
}

// addi rd, rs1, imm
// Format: imm[11:0] | rs1 | 000 | rd | 0010011
func decodeAddi(c *Context) *Match {
	if opcode(c) != opcodeOpImm || c.Field(14, 12) != 0b000 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	rs1 := guest.Reg(c.Field(19, 15))
	imm := iImm(c)

	c.PutReg(rd, add64(getReg(c, rs1), ir.U64(imm)))
	return next(4, "addi %s, %s, %d", name(rd), name(rs1), int64(imm))
}

// addiw rd, rs1, imm
// Format: imm[11:0] | rs1 | 000 | rd | 0011011
func decodeAddiw(c *Context) *Match {
	if opcode(c) != opcodeOpImm3 || c.Field(14, 12) != 0b000 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	rs1 := guest.Reg(c.Field(19, 15))
	imm := iImm(c)

	c.PutReg(rd, sx32(add64(getReg(c, rs1), ir.U64(imm))))
	return next(4, "addiw %s, %s, %d", name(rd), name(rs1), int64(imm))
}

// add / sub rd, rs1, rs2
// Format: 0x00000 | rs2 | rs1 | 000 | rd | 0110011
func decodeAddSub(c *Context) *Match {
	if opcode(c) != opcodeOp || c.Field(14, 12) != 0b000 {
		return nil
	}

	var op ir.Op
	var mnemonic string
	switch c.Field(31, 25) {
	case 0b0000000:
		op, mnemonic = ir.OpAdd64, "add"
	case 0b0100000:
		op, mnemonic = ir.OpSub64, "sub"
	default:
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	rs1 := guest.Reg(c.Field(19, 15))
	rs2 := guest.Reg(c.Field(24, 20))

	c.PutReg(rd, binop(op, getReg(c, rs1), getReg(c, rs2)))
	return next(4, "%s %s, %s, %s", mnemonic, name(rd), name(rs1), name(rs2))
}

// ecall
// Format: 000000000000 | 00000 | 000 | 00000 | 1110011
func decodeEcall(c *Context) *Match {
	if opcode(c) != opcodeSystem || c.Field(31, 7) != 0 {
		return nil
	}

	c.IR.AddStmt(ir.Put{Offset: c.Regs.Layout().IPAtSyscall, Data: ir.U64(c.PC)})
	c.PutPC(ir.U64(c.PC + 4))
	return stop(4, ir.JumpSysSyscall, "ecall")
}

// ebreak
// Format: 000000000001 | 00000 | 000 | 00000 | 1110011
func decodeEbreak(c *Context) *Match {
	if opcode(c) != opcodeSystem || c.Field(31, 7) != 0x2000 {
		return nil
	}

	c.PutPC(ir.U64(c.PC + 4))
	return stop(4, ir.JumpSigTRAP, "ebreak")
}
