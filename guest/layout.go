package guest

import (
	"fmt"
	"unsafe"
)

// Reg is an integer register index in [0, 31].
type Reg uint8

// NumRegs is the number of integer registers.
const NumRegs = 32

// Well-known registers.
const (
	RegZero Reg = 0
	RegRA   Reg = 1
	RegSP   Reg = 2
	RegA0   Reg = 10
	RegA7   Reg = 17
)

var abiNames = [NumRegs]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Layout maps guest registers to byte offsets in State. It is immutable once
// built and safe to share between goroutines.
type Layout struct {
	x [NumRegs]int

	PC          int
	EmNote      int
	CMStart     int
	CMLen       int
	NRAddr      int
	IPAtSyscall int
}

var defaultLayout = newLayout()

// DefaultLayout returns the layout of State.
func DefaultLayout() *Layout {
	return defaultLayout
}

func newLayout() *Layout {
	var s State

	l := &Layout{
		PC:          int(unsafe.Offsetof(s.PC)),
		EmNote:      int(unsafe.Offsetof(s.EmNote)),
		CMStart:     int(unsafe.Offsetof(s.CMStart)),
		CMLen:       int(unsafe.Offsetof(s.CMLen)),
		NRAddr:      int(unsafe.Offsetof(s.NRAddr)),
		IPAtSyscall: int(unsafe.Offsetof(s.IPAtSyscall)),
	}

	base := int(unsafe.Offsetof(s.X))
	for i := range l.x {
		l.x[i] = base + i*int(unsafe.Sizeof(s.X[0]))
	}

	return l
}

// OffsetOf returns the State offset of register r. r must be below 32.
func (l *Layout) OffsetOf(r Reg) int {
	if r >= NumRegs {
		panic(fmt.Sprintf("guest: register index %d out of range", r))
	}
	return l.x[r]
}

// ABIName returns the calling-convention name of r, e.g. "a0".
func ABIName(r Reg) string {
	if r >= NumRegs {
		panic(fmt.Sprintf("guest: register index %d out of range", r))
	}
	return abiNames[r]
}

func (r Reg) String() string {
	return ABIName(r)
}
