// Package guest describes the persistent RISC-V 64 guest state and how the
// front end addresses it.
package guest

import (
	"fmt"
	"unsafe"
)

// State is the guest state that translated code reads and writes through
// IR Get and Put statements.
type State struct {
	// X holds the integer registers x0-x31. X[0] is the zero register; the
	// front end never emits writes to it.
	X [32]uint64

	// PC is the guest program counter.
	PC uint64

	// EmNote carries an emulation note from helpers back to the dispatcher.
	EmNote uint64

	// CMStart and CMLen describe a range whose translations must be
	// invalidated after a cache-maintenance request.
	CMStart uint64
	CMLen   uint64

	// NRAddr is the no-redirect address used by client requests.
	NRAddr uint64

	// IPAtSyscall is the PC of the most recent system call.
	IPAtSyscall uint64
}

// Load64 reads the 8-byte field at byte offset off.
func (s *State) Load64(off int) uint64 {
	return *s.slot(off)
}

// Store64 writes the 8-byte field at byte offset off.
func (s *State) Store64(off int, v uint64) {
	*s.slot(off) = v
}

func (s *State) slot(off int) *uint64 {
	if off < 0 || off+8 > int(unsafe.Sizeof(*s)) || off%8 != 0 {
		panic(fmt.Sprintf("guest: no 8-byte field at offset %d", off))
	}
	return (*uint64)(unsafe.Add(unsafe.Pointer(s), off))
}
