package frontend

import (
	"fmt"

	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// quadrant is one of the four top-level sub-decoders.
type quadrant struct {
	q     insts.Quadrant
	rules []Rule
}

// builtinQuadrants returns fresh copies of the built-in rule tables so
// options can extend them without touching the shared ones.
func builtinQuadrants() [4]quadrant {
	return [4]quadrant{
		insts.Quadrant00: {q: insts.Quadrant00, rules: append([]Rule(nil), compressed00Rules...)},
		insts.Quadrant01: {q: insts.Quadrant01, rules: append([]Rule(nil), compressed01Rules...)},
		insts.Quadrant10: {q: insts.Quadrant10, rules: append([]Rule(nil), compressed10Rules...)},
		insts.Quadrant11: {q: insts.Quadrant11, rules: append([]Rule(nil), standardRules...)},
	}
}

// dispatch selects the sub-decoder from bits [1:0] of w and runs it.
func (fe *FrontEnd) dispatch(b ir.Builder, w insts.Word, pc uint64, out *Outcome) bool {
	sub := &fe.quadrants[w.Quadrant()]

	if fe.tryRules(sub.rules, b, w, pc, out) {
		return true
	}

	if fe.sigillDiag {
		fe.log.Info("RISCV64 front end: " + sub.q.String())
	}
	return false
}

// tryRules runs rules in order and commits the first match. Every attempt
// stages its IR in a fresh buffer, so a rule that declines leaves neither
// the builder nor out changed.
func (fe *FrontEnd) tryRules(rules []Rule, b ir.Builder, w insts.Word, pc uint64, out *Outcome) bool {
	for _, r := range rules {
		staged := ir.NewPending(b)
		ctx := &Context{Insn: w, PC: pc, Regs: fe.regs, IR: staged}

		m := r.Decode(ctx)
		if m == nil {
			continue
		}

		staged.Commit()
		m.apply(out)

		if fe.trace {
			fe.log.V(1).Info("translated", "pc", fmt.Sprintf("0x%x", pc), "asm", m.Text, "rule", r.Name)
		}
		return true
	}

	return false
}
