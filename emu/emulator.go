// Package emu runs RISC-V 64 guest programs by executing the IR blocks the
// front end produces.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/sarchlab/rv64front/block"
	"github.com/sarchlab/rv64front/frontend"
	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// StepResult represents the result of executing one translated block.
type StepResult struct {
	// Exited is true if the program terminated (via exit syscall or trap).
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64

	// Insns is the number of guest instructions the step completed.
	Insns int

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator translates and executes RISC-V 64 code one block at a time.
type Emulator struct {
	state          *guest.State
	regFile        *RegFile
	memory         *Memory
	driver         *block.Driver
	fds            *FDTable
	syscallHandler SyscallHandler
	alu            ALU

	// I/O
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	log logr.Logger

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdin sets the guest's standard input.
func WithStdin(r io.Reader) EmulatorOption {
	return func(e *Emulator) {
		e.stdin = r
	}
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stdout = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithSyscallHandler sets a custom syscall handler.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) {
		e.syscallHandler = handler
	}
}

// WithStackPointer sets the initial stack pointer value.
func WithStackPointer(sp uint64) EmulatorOption {
	return func(e *Emulator) {
		e.state.X[guest.RegSP] = sp
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithDriver sets the block driver. The default decodes with a plain
// front end and caches translations.
func WithDriver(d *block.Driver) EmulatorOption {
	return func(e *Emulator) {
		e.driver = d
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.log = log
	}
}

// NewEmulator creates a new RISC-V 64 emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	state := &guest.State{}

	e := &Emulator{
		state:   state,
		regFile: NewRegFile(state),
		memory:  NewMemory(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		log:     logr.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.driver == nil {
		e.driver = block.NewDriver(
			frontend.New(frontend.WithLogger(e.log)),
			block.WithCache(block.NewCache(block.DefaultCacheSets, block.DefaultCacheWays)),
			block.WithLogger(e.log),
		)
	}

	e.fds = NewFDTable(e.stdin, e.stdout, e.stderr)
	if e.syscallHandler == nil {
		e.syscallHandler = NewDefaultSyscallHandler(e.regFile, e.memory, e.fds)
	}

	return e
}

// State returns the guest state.
func (e *Emulator) State() *guest.State {
	return e.state
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Driver returns the block driver.
func (e *Emulator) Driver() *block.Driver {
	return e.driver
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram copies program into memory and sets the entry point.
func (e *Emulator) LoadProgram(entry uint64, program []byte) {
	e.memory.LoadProgram(entry, program)
	e.state.PC = entry
}

// Step translates the block at the current PC, or reuses a cached
// translation, and executes it.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("max instructions reached"),
		}
	}

	pc := e.state.PC
	if pc&1 != 0 {
		return StepResult{Err: &MisalignedPCError{PC: pc}}
	}

	t := e.driver.Translate(e.memory, pc)

	exit := runBlock(e.alu, t.Block, e.state)
	e.instructionCount += uint64(exit.Insns)

	result := StepResult{Insns: exit.Insns}

	switch exit.JumpKind {
	case ir.JumpBoring, ir.JumpCall, ir.JumpRet:
	case ir.JumpSysSyscall:
		sr := e.syscallHandler.Handle()
		result.Exited = sr.Exited
		result.ExitCode = sr.ExitCode
	case ir.JumpSigTRAP:
		result.Exited = true
		result.ExitCode = -1
		result.Err = &TrapError{PC: exit.LastAddr}
	case ir.JumpNoDecode:
		w := insts.ReadWord(e.memory.ReadBytes(e.state.PC, 4))
		result.Err = &IllegalInstructionError{PC: e.state.PC, Insn: uint32(w), Len: w.Len()}
	default:
		result.Err = fmt.Errorf("unexpected block exit %s at PC=0x%X", exit.JumpKind, pc)
	}

	e.flushInvalidated()

	return result
}

// flushInvalidated honors a pending cache-maintenance request in the
// guest state.
func (e *Emulator) flushInvalidated() {
	if e.state.CMLen == 0 {
		return
	}

	if c := e.driver.Cache(); c != nil {
		n := c.Invalidate(e.state.CMStart, e.state.CMLen)
		e.log.V(1).Info("invalidated translations",
			"start", fmt.Sprintf("0x%x", e.state.CMStart),
			"len", e.state.CMLen,
			"count", n)
	}

	e.state.CMStart = 0
	e.state.CMLen = 0
}

// Run executes blocks until the program exits or an error occurs.
// Returns the exit code (-1 if error).
func (e *Emulator) Run() int64 {
	defer e.fds.CloseAll()

	for {
		result := e.Step()
		if result.Exited {
			if result.Err != nil {
				_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			}
			return result.ExitCode
		}
		if result.Err != nil {
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return -1
		}
	}
}
