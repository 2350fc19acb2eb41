package frontend

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// Translate decodes the instruction at the start of code, located at guest
// address pc, appending its IR to b. It returns true iff exactly one rule
// matched. On false the returned outcome is DefaultOutcome and b is
// unchanged.
//
// Translate does not update the program counter; DisInstr does.
func (fe *FrontEnd) Translate(b ir.Builder, code []byte, pc uint64) (bool, Outcome) {
	out := DefaultOutcome()

	w := insts.ReadWord(code)

	if fe.trace {
		fe.log.V(1).Info("decode", "pc", fmt.Sprintf("0x%x", pc), "insn", fmt.Sprintf("0x%0*x", w.Len()*2, uint32(w)))
	}

	if pc&1 != 0 {
		panic(fmt.Sprintf("frontend: misaligned pc 0x%x", pc))
	}

	ok := fe.tryRules(fe.special, b, w, pc, &out)
	if !ok {
		ok = fe.dispatch(b, w, pc, &out)
	}

	if !ok {
		if out != DefaultOutcome() {
			panic("frontend: failed decode modified the outcome\n" + spew.Sdump(out))
		}
		return false, out
	}

	if out.WhatNext == StopHere && out.JumpKind == ir.JumpInvalid {
		panic("frontend: rule stopped the block without a jump kind\n" + spew.Sdump(out))
	}

	return true, out
}
