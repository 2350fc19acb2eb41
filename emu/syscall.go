package emu

import (
	"errors"
	"io"
	"os"

	"github.com/sarchlab/rv64front/guest"
)

// RISC-V Linux syscall numbers.
const (
	SyscallOpenat    uint64 = 56 // openat(dirfd, path, flags, mode)
	SyscallClose     uint64 = 57 // close(fd)
	SyscallLseek     uint64 = 62 // lseek(fd, offset, whence)
	SyscallRead      uint64 = 63 // read(fd, buf, count)
	SyscallWrite     uint64 = 64 // write(fd, buf, count)
	SyscallExit      uint64 = 93 // exit(status)
	SyscallExitGroup uint64 = 94 // exit_group(status)
)

// Linux error codes.
const (
	ENOENT = 2  // No such file or directory
	EIO    = 5  // I/O error
	EBADF  = 9  // Bad file descriptor
	EINVAL = 22 // Invalid argument
	ENOSYS = 38 // Function not implemented
)

// atFDCWD is the dirfd meaning "relative to the working directory".
const atFDCWD = ^uint64(99) // -100

// maxPathLen bounds path strings read from guest memory.
const maxPathLen = 4096

// maxIOCount bounds a single read or write. Larger counts are shortened,
// which read(2) and write(2) permit.
const maxIOCount = 1 << 20

// SyscallResult represents the result of a syscall execution.
type SyscallResult struct {
	// Exited is true if the syscall caused program termination.
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64
}

// SyscallHandler handles an ecall.
type SyscallHandler interface {
	// Handle executes the syscall indicated by the register file state.
	// RISC-V Linux convention:
	//   - Syscall number in a7
	//   - Arguments in a0-a5
	//   - Return value in a0
	Handle() SyscallResult
}

// DefaultSyscallHandler implements the syscalls needed by small
// statically-linked programs.
type DefaultSyscallHandler struct {
	regFile *RegFile
	memory  *Memory
	fds     *FDTable
}

// NewDefaultSyscallHandler creates a default syscall handler.
func NewDefaultSyscallHandler(regFile *RegFile, memory *Memory, fds *FDTable) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regFile: regFile,
		memory:  memory,
		fds:     fds,
	}
}

func (h *DefaultSyscallHandler) arg(i int) uint64 {
	return h.regFile.ReadReg(guest.RegA0 + guest.Reg(i))
}

func (h *DefaultSyscallHandler) ret(v uint64) {
	h.regFile.WriteReg(guest.RegA0, v)
}

// Handle executes the syscall indicated by the register file state.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	switch h.regFile.ReadReg(guest.RegA7) {
	case SyscallOpenat:
		h.handleOpenat()
	case SyscallClose:
		h.handleClose()
	case SyscallLseek:
		h.handleLseek()
	case SyscallRead:
		h.handleRead()
	case SyscallWrite:
		h.handleWrite()
	case SyscallExit, SyscallExitGroup:
		return SyscallResult{Exited: true, ExitCode: int64(h.arg(0))}
	default:
		h.setError(ENOSYS)
	}

	return SyscallResult{}
}

func (h *DefaultSyscallHandler) handleOpenat() {
	if dirfd := h.arg(0); dirfd != atFDCWD {
		h.setError(EBADF)
		return
	}

	path := h.readString(h.arg(1))
	fd, err := h.fds.Open(path, int(h.arg(2)), os.FileMode(h.arg(3)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.setError(ENOENT)
		} else {
			h.setError(EIO)
		}
		return
	}

	h.ret(fd)
}

func (h *DefaultSyscallHandler) handleClose() {
	if err := h.fds.Close(h.arg(0)); err != nil {
		h.setError(EBADF)
		return
	}
	h.ret(0)
}

func (h *DefaultSyscallHandler) handleLseek() {
	off, err := h.fds.Seek(h.arg(0), int64(h.arg(1)), int(h.arg(2)))
	if err != nil {
		h.setError(EBADF)
		return
	}
	h.ret(uint64(off))
}

func (h *DefaultSyscallHandler) handleRead() {
	fd, bufPtr, count := h.arg(0), h.arg(1), h.arg(2)

	if _, ok := h.fds.Get(fd); !ok {
		h.setError(EBADF)
		return
	}

	size, ok := ioCount(count)
	if !ok {
		h.setError(EINVAL)
		return
	}

	buf := make([]byte, size)
	n, err := h.fds.Read(fd, buf)
	if err != nil && !errors.Is(err, io.EOF) && n == 0 {
		h.setError(EIO)
		return
	}

	h.memory.WriteBytes(bufPtr, buf[:n])
	h.ret(uint64(n))
}

func (h *DefaultSyscallHandler) handleWrite() {
	fd, bufPtr, count := h.arg(0), h.arg(1), h.arg(2)

	if entry, ok := h.fds.Get(fd); !ok || entry.Writer == nil {
		h.setError(EBADF)
		return
	}

	size, ok := ioCount(count)
	if !ok {
		h.setError(EINVAL)
		return
	}

	n, err := h.fds.Write(fd, h.memory.ReadBytes(bufPtr, size))
	if err != nil {
		h.setError(EIO)
		return
	}

	h.ret(uint64(n))
}

// ioCount converts a guest byte count to a buffer size. Counts that are
// negative as a signed value are invalid.
func ioCount(count uint64) (int, bool) {
	if int64(count) < 0 {
		return 0, false
	}
	return int(min(count, maxIOCount)), true
}

// readString reads a NUL-terminated string from guest memory.
func (h *DefaultSyscallHandler) readString(addr uint64) string {
	var b []byte
	for i := uint64(0); i < maxPathLen; i++ {
		c := h.memory.Read8(addr + i)
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	return string(b)
}

// setError sets a0 to -errno.
func (h *DefaultSyscallHandler) setError(errno int) {
	h.ret(uint64(-int64(errno)))
}
