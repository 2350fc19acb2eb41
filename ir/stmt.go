package ir

import "fmt"

// Stmt is an IR statement.
type Stmt interface {
	isStmt()
	String() string
}

// IMark marks the start of the IR for one guest instruction.
type IMark struct {
	Addr uint64
	Len  int
}

// Put writes Data to the guest-state field at Offset.
type Put struct {
	Offset int
	Data   Expr
}

// WrTmp binds Data to a temporary. Each temporary is written exactly once.
type WrTmp struct {
	Tmp  Temp
	Data Expr
}

// Exit leaves the block when Guard (an I1) is true, setting the guest
// program counter at OffsIP to Dst.
type Exit struct {
	Guard    Expr
	Dst      uint64
	JumpKind JumpKind
	OffsIP   int
}

func (IMark) isStmt() {}
func (Put) isStmt()   {}
func (WrTmp) isStmt() {}
func (Exit) isStmt()  {}

func (s IMark) String() string {
	return fmt.Sprintf("------ IMark(0x%x, %d) ------", s.Addr, s.Len)
}

func (s Put) String() string {
	return fmt.Sprintf("PUT(%d) = %s", s.Offset, s.Data)
}

func (s WrTmp) String() string {
	return fmt.Sprintf("%s = %s", s.Tmp, s.Data)
}

func (s Exit) String() string {
	return fmt.Sprintf("if (%s) { PUT(%d) = 0x%x:I64; exit-%s }",
		s.Guard, s.OffsIP, s.Dst, s.JumpKind)
}
