package emu

import (
	"fmt"

	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/ir"
)

// blockExit is how control left a block.
type blockExit struct {
	// JumpKind of the taken exit or of the block end.
	JumpKind ir.JumpKind
	// Insns is the number of guest instructions that completed.
	Insns int
	// LastAddr is the address of the last instruction entered.
	LastAddr uint64
}

// runBlock executes b against s. The program counter in s is left at the
// next guest address.
func runBlock(alu ALU, b *ir.Block, s *guest.State) blockExit {
	temps := make([]uint64, b.NumTemps())

	var eval func(e ir.Expr) uint64
	eval = func(e ir.Expr) uint64 {
		switch e := e.(type) {
		case ir.Const:
			return e.Value
		case ir.Get:
			return s.Load64(e.Offset)
		case ir.RdTmp:
			return temps[e.Tmp]
		case ir.Unop:
			return alu.Unop(e.Op, eval(e.Arg))
		case ir.Binop:
			return alu.Binop(e.Op, eval(e.Arg1), eval(e.Arg2))
		default:
			panic(fmt.Sprintf("emu: unsupported expression %T", e))
		}
	}

	var exit blockExit

	for _, stmt := range b.Stmts {
		switch stmt := stmt.(type) {
		case ir.IMark:
			exit.Insns++
			exit.LastAddr = stmt.Addr
		case ir.Put:
			s.Store64(stmt.Offset, eval(stmt.Data))
		case ir.WrTmp:
			temps[stmt.Tmp] = eval(stmt.Data)
		case ir.Exit:
			if eval(stmt.Guard) != 0 {
				s.Store64(stmt.OffsIP, stmt.Dst)
				exit.JumpKind = stmt.JumpKind
				return exit
			}
		default:
			panic(fmt.Sprintf("emu: unsupported statement %T", stmt))
		}
	}

	s.Store64(b.OffsIP, eval(b.Next))
	exit.JumpKind = b.JumpKind
	if exit.JumpKind == ir.JumpNoDecode {
		// The last IMark is the instruction that failed to decode.
		exit.Insns--
	}

	return exit
}
