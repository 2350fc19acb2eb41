package frontend

import (
	"fmt"

	"github.com/sarchlab/rv64front/ir"
)

// WhatNext tells the block driver whether to keep decoding after an
// instruction.
type WhatNext uint8

// Continuations.
const (
	Continue WhatNext = iota
	StopHere
)

func (w WhatNext) String() string {
	switch w {
	case Continue:
		return "Continue"
	case StopHere:
		return "StopHere"
	default:
		return fmt.Sprintf("WhatNext(%d)", uint8(w))
	}
}

// Hint is an optional scheduling hint about the instruction.
type Hint uint8

// Hints.
const (
	HintNone Hint = iota
	HintCall
)

// Outcome is the per-instruction translation result.
type Outcome struct {
	// WhatNext is Continue or StopHere.
	WhatNext WhatNext
	// Len is the number of bytes consumed: 2, 4 or 20 on success, 0 for a
	// no-decode trap.
	Len int
	// JumpKind is set when WhatNext is StopHere.
	JumpKind ir.JumpKind
	// Hint tells the block driver how the instruction transfers control.
	// HintCall marks jumps that link a return address.
	Hint Hint
}

// DefaultOutcome is the outcome before any rule has run.
func DefaultOutcome() Outcome {
	return Outcome{
		WhatNext: Continue,
		Len:      4,
		JumpKind: ir.JumpInvalid,
		Hint:     HintNone,
	}
}

// NoDecodeOutcome is the outcome reported for an instruction no rule
// accepts.
func NoDecodeOutcome() Outcome {
	return Outcome{
		WhatNext: StopHere,
		Len:      0,
		JumpKind: ir.JumpNoDecode,
		Hint:     HintNone,
	}
}

func (o Outcome) String() string {
	return fmt.Sprintf("{%s len=%d jk=%s hint=%d}", o.WhatNext, o.Len, o.JumpKind, o.Hint)
}
