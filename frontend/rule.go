package frontend

import (
	"fmt"

	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// Context is what a rule sees while it tries one instruction. IR written
// through it is staged and only reaches the caller's builder if the rule
// returns a Match.
type Context struct {
	Insn insts.Word
	PC   uint64
	Regs *guest.RegisterFile
	IR   ir.Builder
}

// Field returns bits [hi:lo] of the instruction.
func (c *Context) Field(hi, lo uint) uint32 {
	return c.Insn.Field(hi, lo)
}

// PutReg writes e to register r. Writes to x0 are dropped.
func (c *Context) PutReg(r guest.Reg, e ir.Expr) {
	if r == guest.RegZero {
		return
	}
	c.Regs.Write(c.IR, r, e)
}

// PutPC writes e to the program counter.
func (c *Context) PutPC(e ir.Expr) {
	c.Regs.WritePC(c.IR, e)
}

// Match is a rule's positive result: how the instruction affects the
// translation outcome, plus its disassembly for trace output.
type Match struct {
	Len      int
	WhatNext WhatNext
	JumpKind ir.JumpKind
	Hint     Hint
	Text     string
}

// Rule is one guarded encoding. Decode returns nil when the instruction does
// not match or fails a side constraint.
type Rule struct {
	Name   string
	Decode func(c *Context) *Match
}

// next is a Match for an instruction that falls through.
func next(length int, format string, args ...interface{}) *Match {
	return &Match{
		Len:      length,
		WhatNext: Continue,
		JumpKind: ir.JumpInvalid,
		Text:     fmt.Sprintf(format, args...),
	}
}

// stop is a Match for an instruction that ends the block. The rule must
// have written the PC itself.
func stop(length int, jk ir.JumpKind, format string, args ...interface{}) *Match {
	return &Match{
		Len:      length,
		WhatNext: StopHere,
		JumpKind: jk,
		Text:     fmt.Sprintf(format, args...),
	}
}

func (m *Match) apply(out *Outcome) {
	out.Len = m.Len
	out.WhatNext = m.WhatNext
	out.JumpKind = m.JumpKind
	out.Hint = m.Hint
}

// IR shorthands.

func getReg(c *Context, r guest.Reg) ir.Expr {
	return c.Regs.Get(r)
}

func add64(a, b ir.Expr) ir.Expr {
	return ir.Binop{Op: ir.OpAdd64, Arg1: a, Arg2: b}
}

func binop(op ir.Op, a, b ir.Expr) ir.Expr {
	return ir.Binop{Op: op, Arg1: a, Arg2: b}
}

// sx32 truncates a 64-bit value to 32 bits and sign-extends it back.
func sx32(e ir.Expr) ir.Expr {
	return ir.Unop{Op: ir.Op32Sto64, Arg: ir.Unop{Op: ir.Op64to32, Arg: e}}
}

// creg decodes a three-bit compressed register field (x8-x15).
func creg(field uint32) guest.Reg {
	return guest.Reg(field + 8)
}

func name(r guest.Reg) string {
	return guest.ABIName(r)
}
