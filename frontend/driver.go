package frontend

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// DisInstr translates the instruction at code[delta:], located at guest
// address pc, into b.
//
// On success the program counter is advanced past the instruction unless
// the matched rule ended the block and redirected it itself. On failure the
// program counter is set to pc and the outcome is NoDecodeOutcome, which the
// block driver must surface as an illegal-instruction trap.
//
// At least four bytes must be addressable at code[delta:].
func (fe *FrontEnd) DisInstr(b ir.Builder, code []byte, delta int, pc uint64) (bool, Outcome) {
	window := code[delta:]

	ok, out := fe.Translate(b, window, pc)
	if ok {
		switch out.Len {
		case 2, 4, 20:
		default:
			panic(fmt.Sprintf("frontend: decoded length %d at 0x%x", out.Len, pc))
		}

		switch out.WhatNext {
		case Continue:
			fe.regs.WritePC(b, ir.U64(pc+uint64(out.Len)))
		case StopHere:
		default:
			panic("frontend: unknown continuation\n" + spew.Sdump(out))
		}

		return true, out
	}

	if fe.sigillDiag {
		w := insts.ReadWord(window)
		fe.log.Info("disInstr(riscv64): unhandled instruction",
			"pc", fmt.Sprintf("0x%x", pc),
			"insn", fmt.Sprintf("0x%08x", uint32(w)),
			"bits", w.Binary(),
			"reference", insts.Disassemble(w))
	}

	// The PC should already be current at the start of every instruction;
	// set it again so the trap is reported at this address.
	fe.regs.WritePC(b, ir.U64(pc))

	return false, NoDecodeOutcome()
}
