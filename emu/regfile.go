package emu

import "github.com/sarchlab/rv64front/guest"

// RegFile is the integer register view of the guest state used by
// syscall handlers.
type RegFile struct {
	state *guest.State
}

// NewRegFile wraps s.
func NewRegFile(s *guest.State) *RegFile {
	return &RegFile{state: s}
}

// State returns the wrapped guest state.
func (r *RegFile) State() *guest.State {
	return r.state
}

// ReadReg reads a register. x0 always reads as 0.
func (r *RegFile) ReadReg(reg guest.Reg) uint64 {
	if reg == guest.RegZero || reg >= guest.NumRegs {
		return 0
	}
	return r.state.X[reg]
}

// WriteReg writes a register. Writes to x0 are ignored.
func (r *RegFile) WriteReg(reg guest.Reg, value uint64) {
	if reg == guest.RegZero || reg >= guest.NumRegs {
		return
	}
	r.state.X[reg] = value
}

// PC returns the program counter.
func (r *RegFile) PC() uint64 {
	return r.state.PC
}

// SetPC sets the program counter.
func (r *RegFile) SetPC(pc uint64) {
	r.state.PC = pc
}
