package emu

import "fmt"

// IllegalInstructionError reports an instruction the front end could not
// decode.
type IllegalInstructionError struct {
	PC   uint64
	Insn uint32
	Len  int
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction 0x%0*x at PC=0x%X", e.Len*2, e.Insn, e.PC)
}

// TrapError reports a breakpoint.
type TrapError struct {
	PC uint64
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("breakpoint trap at PC=0x%X", e.PC)
}

// MisalignedPCError reports a PC that is not on an instruction boundary.
type MisalignedPCError struct {
	PC uint64
}

func (e *MisalignedPCError) Error() string {
	return fmt.Sprintf("misaligned PC=0x%X", e.PC)
}
