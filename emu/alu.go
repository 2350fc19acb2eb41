package emu

import (
	"fmt"

	"github.com/sarchlab/rv64front/ir"
)

// ALU evaluates IR operators on concrete values. Narrow results are kept
// zero-extended in a uint64; I1 is 0 or 1.
type ALU struct{}

// Unop applies a unary operator.
func (ALU) Unop(op ir.Op, a uint64) uint64 {
	switch op {
	case ir.Op64to32:
		return uint64(uint32(a))
	case ir.Op32Sto64:
		return uint64(int64(int32(uint32(a))))
	default:
		panic(fmt.Sprintf("emu: unsupported unary operator %s", op))
	}
}

// Binop applies a binary operator.
func (ALU) Binop(op ir.Op, a, b uint64) uint64 {
	switch op {
	case ir.OpAdd64:
		return a + b
	case ir.OpSub64:
		return a - b
	case ir.OpShl64:
		return a << (b & 63)
	case ir.OpAnd64:
		return a & b
	case ir.OpOr64:
		return a | b
	case ir.OpXor64:
		return a ^ b
	case ir.OpCmpEQ64:
		return boolToU64(a == b)
	case ir.OpCmpNE64:
		return boolToU64(a != b)
	default:
		panic(fmt.Sprintf("emu: unsupported binary operator %s", op))
	}
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
