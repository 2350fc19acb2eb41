// Package ir defines the intermediate representation produced by the
// front end: typed expressions, statements, jump kinds and an append-only
// block builder.
//
// The representation is deliberately small. Expressions form trees over
// guest-state reads (Get), constants, temporaries and pure operators.
// Statements write guest state (Put), bind temporaries (WrTmp), mark
// instruction boundaries (IMark) and leave the block conditionally (Exit).
package ir

import "fmt"

// Type is the static type of an IR value.
type Type uint8

// IR types.
const (
	TypeInvalid Type = iota
	TypeI1
	TypeI8
	TypeI16
	TypeI32
	TypeI64
)

// Bits returns the width of t in bits.
func (t Type) Bits() int {
	switch t {
	case TypeI1:
		return 1
	case TypeI8:
		return 8
	case TypeI16:
		return 16
	case TypeI32:
		return 32
	case TypeI64:
		return 64
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case TypeI1:
		return "I1"
	case TypeI8:
		return "I8"
	case TypeI16:
		return "I16"
	case TypeI32:
		return "I32"
	case TypeI64:
		return "I64"
	default:
		return "INVALID"
	}
}

// Temp names a temporary within one block.
type Temp uint32

func (t Temp) String() string {
	return fmt.Sprintf("t%d", uint32(t))
}

// JumpKind describes how control leaves a block or an instruction.
type JumpKind uint8

// Jump kinds. JumpInvalid doubles as "no jump" for instructions that fall
// through.
const (
	JumpInvalid JumpKind = iota
	JumpBoring
	JumpCall
	JumpRet
	JumpSysSyscall
	JumpSigTRAP
	JumpNoDecode
)

func (k JumpKind) String() string {
	switch k {
	case JumpBoring:
		return "Boring"
	case JumpCall:
		return "Call"
	case JumpRet:
		return "Ret"
	case JumpSysSyscall:
		return "Sys_syscall"
	case JumpSigTRAP:
		return "SigTRAP"
	case JumpNoDecode:
		return "NoDecode"
	default:
		return "INVALID"
	}
}
