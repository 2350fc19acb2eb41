package frontend

import (
	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/ir"
)

// Quadrant 10: compressed shifts, register moves and indirect jumps.
// Within funct3 100 the zero-register special cases come first.
var compressed10Rules = []Rule{
	{Name: "c.slli", Decode: decodeCSlli},
	{Name: "c.ebreak", Decode: decodeCEbreak},
	{Name: "c.jr", Decode: decodeCJr},
	{Name: "c.jalr", Decode: decodeCJalr},
	{Name: "c.mv", Decode: decodeCMv},
	{Name: "c.add", Decode: decodeCAdd},
}

// c.slli rd, shamt
// Format: 000 | shamt[5] | rd | shamt[4:0] | 10
func decodeCSlli(c *Context) *Match {
	if c.Field(15, 13) != 0b000 {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	if rd == guest.RegZero {
		return nil
	}

	shamt := c.Field(12, 12)<<5 | c.Field(6, 2)
	c.PutReg(rd, binop(ir.OpShl64, getReg(c, rd), ir.U64(uint64(shamt))))
	return next(2, "c.slli %s, %d", name(rd), shamt)
}

// c.ebreak
// Format: 100 | 1 | 00000 | 00000 | 10
func decodeCEbreak(c *Context) *Match {
	if c.Field(15, 0) != 0x9002 {
		return nil
	}

	c.PutPC(ir.U64(c.PC + 2))
	return stop(2, ir.JumpSigTRAP, "c.ebreak")
}

// c.jr rs1
// Format: 100 | 0 | rs1 | 00000 | 10
func decodeCJr(c *Context) *Match {
	if c.Field(15, 12) != 0b1000 || c.Field(6, 2) != 0 {
		return nil
	}

	rs1 := guest.Reg(c.Field(11, 7))
	if rs1 == guest.RegZero {
		// Reserved.
		return nil
	}

	c.PutPC(binop(ir.OpAnd64, getReg(c, rs1), ir.U64(^uint64(1))))
	if rs1 == guest.RegRA {
		return stop(2, ir.JumpRet, "c.jr %s", name(rs1))
	}
	return stop(2, ir.JumpBoring, "c.jr %s", name(rs1))
}

// c.jalr rs1
// Format: 100 | 1 | rs1 | 00000 | 10
func decodeCJalr(c *Context) *Match {
	if c.Field(15, 12) != 0b1001 || c.Field(6, 2) != 0 {
		return nil
	}

	rs1 := guest.Reg(c.Field(11, 7))
	if rs1 == guest.RegZero {
		return nil
	}

	// Read the target before ra is overwritten; rs1 may be ra.
	target := c.IR.NewTemp(ir.TypeI64)
	c.IR.AddStmt(ir.WrTmp{
		Tmp:  target,
		Data: binop(ir.OpAnd64, getReg(c, rs1), ir.U64(^uint64(1))),
	})
	c.PutReg(guest.RegRA, ir.U64(c.PC+2))
	c.PutPC(ir.RdTmp{Tmp: target})

	m := stop(2, ir.JumpCall, "c.jalr %s", name(rs1))
	m.Hint = HintCall
	return m
}

// c.mv rd, rs2
// Format: 100 | 0 | rd | rs2 | 10
func decodeCMv(c *Context) *Match {
	if c.Field(15, 12) != 0b1000 {
		return nil
	}

	rs2 := guest.Reg(c.Field(6, 2))
	if rs2 == guest.RegZero {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	c.PutReg(rd, getReg(c, rs2))
	return next(2, "c.mv %s, %s", name(rd), name(rs2))
}

// c.add rd, rs2
// Format: 100 | 1 | rd | rs2 | 10
func decodeCAdd(c *Context) *Match {
	if c.Field(15, 12) != 0b1001 {
		return nil
	}

	rs2 := guest.Reg(c.Field(6, 2))
	if rs2 == guest.RegZero {
		return nil
	}

	rd := guest.Reg(c.Field(11, 7))
	c.PutReg(rd, add64(getReg(c, rd), getReg(c, rs2)))
	return next(2, "c.add %s, %s", name(rd), name(rs2))
}
