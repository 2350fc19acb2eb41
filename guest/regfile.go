package guest

import (
	"fmt"

	"github.com/sarchlab/rv64front/ir"
)

// RegisterFile emits IR that reads and writes guest registers.
type RegisterFile struct {
	layout *Layout
}

// NewRegisterFile creates a register file over layout. A nil layout selects
// DefaultLayout.
func NewRegisterFile(layout *Layout) *RegisterFile {
	if layout == nil {
		layout = DefaultLayout()
	}
	return &RegisterFile{layout: layout}
}

// Layout returns the underlying offset table.
func (rf *RegisterFile) Layout() *Layout {
	return rf.layout
}

// Offset returns the State offset of register r.
func (rf *RegisterFile) Offset(r Reg) int {
	return rf.layout.OffsetOf(r)
}

// ABIName returns the display name of r.
func (rf *RegisterFile) ABIName(r Reg) string {
	return ABIName(r)
}

// Get returns an I64 read of register r.
func (rf *RegisterFile) Get(r Reg) ir.Expr {
	return ir.Get{Offset: rf.layout.OffsetOf(r), Type: ir.TypeI64}
}

// Write appends a Put of e to register r. e must be an I64.
func (rf *RegisterFile) Write(b ir.Builder, r Reg, e ir.Expr) {
	if t := b.TypeOf(e); t != ir.TypeI64 {
		panic(fmt.Sprintf("guest: write of %s to %s, want I64", t, ABIName(r)))
	}
	b.AddStmt(ir.Put{Offset: rf.layout.OffsetOf(r), Data: e})
}

// GetPC returns an I64 read of the program counter.
func (rf *RegisterFile) GetPC() ir.Expr {
	return ir.Get{Offset: rf.layout.PC, Type: ir.TypeI64}
}

// WritePC appends a Put of e to the program counter. e must be an I64.
func (rf *RegisterFile) WritePC(b ir.Builder, e ir.Expr) {
	if t := b.TypeOf(e); t != ir.TypeI64 {
		panic(fmt.Sprintf("guest: write of %s to pc, want I64", t))
	}
	b.AddStmt(ir.Put{Offset: rf.layout.PC, Data: e})
}
