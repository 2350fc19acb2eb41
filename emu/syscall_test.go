package emu_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64front/emu"
	"github.com/sarchlab/rv64front/guest"
)

var _ = Describe("Syscall Handler", func() {
	var (
		state   *guest.State
		regFile *emu.RegFile
		memory  *emu.Memory
		stdin   *strings.Reader
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
		handler *emu.DefaultSyscallHandler
	)

	errno := func(n int64) uint64 { return uint64(-n) }

	call := func(num uint64, args ...uint64) emu.SyscallResult {
		regFile.WriteReg(guest.RegA7, num)
		for i, a := range args {
			regFile.WriteReg(guest.RegA0+guest.Reg(i), a)
		}
		return handler.Handle()
	}

	BeforeEach(func() {
		state = &guest.State{}
		regFile = emu.NewRegFile(state)
		memory = emu.NewMemory()
		stdin = strings.NewReader("input")
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
		handler = emu.NewDefaultSyscallHandler(regFile, memory, emu.NewFDTable(stdin, stdout, stderr))
	})

	It("should return ENOSYS for unknown syscall numbers", func() {
		result := call(999)

		Expect(result.Exited).To(BeFalse())
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(errno(emu.ENOSYS)))
	})

	It("should exit with the status in a0", func() {
		result := call(emu.SyscallExit, 42)

		Expect(result.Exited).To(BeTrue())
		Expect(result.ExitCode).To(Equal(int64(42)))
	})

	It("should treat exit_group like exit", func() {
		Expect(call(emu.SyscallExitGroup, 3).ExitCode).To(Equal(int64(3)))
	})

	It("should write to stdout and stderr", func() {
		memory.WriteBytes(0x1000, []byte("out"))
		memory.WriteBytes(0x2000, []byte("err"))

		call(emu.SyscallWrite, 1, 0x1000, 3)
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(uint64(3)))
		call(emu.SyscallWrite, 2, 0x2000, 3)

		Expect(stdout.String()).To(Equal("out"))
		Expect(stderr.String()).To(Equal("err"))
	})

	It("should reject writes to unknown descriptors", func() {
		call(emu.SyscallWrite, 7, 0x1000, 1)
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(errno(emu.EBADF)))

		call(emu.SyscallWrite, 0, 0x1000, 1)
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(errno(emu.EBADF)))
	})

	It("should reject negative byte counts", func() {
		call(emu.SyscallRead, 0, 0x3000, ^uint64(0))
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(errno(emu.EINVAL)))

		call(emu.SyscallWrite, 1, 0x1000, ^uint64(0))
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(errno(emu.EINVAL)))
		Expect(stdout.Len()).To(BeZero())
	})

	It("should shorten oversized writes", func() {
		call(emu.SyscallWrite, 1, 0x1000, 1<<40)

		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(uint64(1 << 20)))
		Expect(stdout.Len()).To(Equal(1 << 20))
	})

	It("should read from stdin into memory", func() {
		call(emu.SyscallRead, 0, 0x3000, 16)

		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(uint64(5)))
		Expect(memory.ReadBytes(0x3000, 5)).To(Equal([]byte("input")))

		call(emu.SyscallRead, 0, 0x3000, 16)
		Expect(regFile.ReadReg(guest.RegA0)).To(BeZero())
	})

	It("should open, seek, read and close a host file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "data.txt")
		Expect(os.WriteFile(path, []byte("0123456789"), 0o644)).To(Succeed())

		memory.WriteBytes(0x4000, append([]byte(path), 0))
		call(emu.SyscallOpenat, ^uint64(99), 0x4000, uint64(os.O_RDONLY), 0)
		fd := regFile.ReadReg(guest.RegA0)
		Expect(fd).To(Equal(uint64(3)))

		call(emu.SyscallLseek, fd, 4, 0)
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(uint64(4)))

		call(emu.SyscallRead, fd, 0x5000, 3)
		Expect(memory.ReadBytes(0x5000, 3)).To(Equal([]byte("456")))

		call(emu.SyscallClose, fd)
		Expect(regFile.ReadReg(guest.RegA0)).To(BeZero())

		call(emu.SyscallClose, fd)
		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(errno(emu.EBADF)))
	})

	It("should report missing files", func() {
		memory.WriteBytes(0x4000, append([]byte("/nonexistent/file"), 0))

		call(emu.SyscallOpenat, ^uint64(99), 0x4000, uint64(os.O_RDONLY), 0)

		Expect(regFile.ReadReg(guest.RegA0)).To(Equal(errno(emu.ENOENT)))
	})
})
