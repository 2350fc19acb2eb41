// Package frontend translates RISC-V 64 guest instructions into IR.
//
// One call to DisInstr decodes exactly one instruction: it classifies the
// length, dispatches on the quadrant, runs that quadrant's encoding rules in
// priority order and commits the IR of the first rule that matches. An
// instruction no rule accepts becomes a no-decode trap that the block driver
// hands to the execution engine.
//
// Usage:
//
//	fe := frontend.New(frontend.WithLogger(logger))
//	block := ir.NewBlock()
//	ok, out := fe.DisInstr(block, code, 0, pc)
package frontend

import (
	"github.com/go-logr/logr"

	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/insts"
)

// FrontEnd holds the immutable decode tables and diagnostics settings. It is
// safe for concurrent use as long as each call gets its own builder.
type FrontEnd struct {
	regs      *guest.RegisterFile
	quadrants [4]quadrant
	special   []Rule

	log        logr.Logger
	trace      bool
	sigillDiag bool
}

// Option configures a FrontEnd.
type Option func(*FrontEnd)

// WithLogger sets the diagnostics sink.
func WithLogger(log logr.Logger) Option {
	return func(fe *FrontEnd) {
		fe.log = log
	}
}

// WithTrace enables per-instruction trace lines at verbosity 1.
func WithTrace(on bool) Option {
	return func(fe *FrontEnd) {
		fe.trace = on
	}
}

// WithSigillDiag enables diagnostics for instructions that fail to decode.
func WithSigillDiag(on bool) Option {
	return func(fe *FrontEnd) {
		fe.sigillDiag = on
	}
}

// WithLayout selects the guest-state layout IR is emitted against.
func WithLayout(layout *guest.Layout) Option {
	return func(fe *FrontEnd) {
		fe.regs = guest.NewRegisterFile(layout)
	}
}

// WithRules appends rules to quadrant q. They are tried after the built-in
// rules of that quadrant.
func WithRules(q insts.Quadrant, rules ...Rule) Option {
	return func(fe *FrontEnd) {
		fe.quadrants[q&0b11].rules = append(fe.quadrants[q&0b11].rules, rules...)
	}
}

// WithSpecialRules installs rules that are tried before quadrant dispatch,
// for magic instruction sequences that must be recognized as a whole.
func WithSpecialRules(rules ...Rule) Option {
	return func(fe *FrontEnd) {
		fe.special = append(fe.special, rules...)
	}
}

// New creates a FrontEnd with the built-in rule set.
func New(opts ...Option) *FrontEnd {
	fe := &FrontEnd{
		regs:      guest.NewRegisterFile(nil),
		quadrants: builtinQuadrants(),
		log:       logr.Discard(),
	}

	for _, opt := range opts {
		opt(fe)
	}

	return fe
}

// RegisterFile returns the register file IR is emitted through.
func (fe *FrontEnd) RegisterFile() *guest.RegisterFile {
	return fe.regs
}

// RuleNames lists the rules of quadrant q in the order they are tried.
func (fe *FrontEnd) RuleNames(q insts.Quadrant) []string {
	rules := fe.quadrants[q&0b11].rules
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return names
}
