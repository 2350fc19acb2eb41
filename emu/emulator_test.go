package emu_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64front/emu"
	"github.com/sarchlab/rv64front/guest"
)

const entry = 0x10000

var _ = Describe("Emulator", func() {
	var (
		e         *emu.Emulator
		stdoutBuf *bytes.Buffer
		stderrBuf *bytes.Buffer
	)

	BeforeEach(func() {
		stdoutBuf = &bytes.Buffer{}
		stderrBuf = &bytes.Buffer{}
		e = emu.NewEmulator(
			emu.WithStdout(stdoutBuf),
			emu.WithStderr(stderrBuf),
			emu.WithLogger(GinkgoLogr),
		)
	})

	Describe("LoadProgram", func() {
		It("should set the PC and copy the bytes", func() {
			e.LoadProgram(entry, []byte{0x01, 0x00})

			Expect(e.State().PC).To(Equal(uint64(entry)))
			Expect(e.Memory().Read16(entry)).To(Equal(uint16(0x0001)))
		})
	})

	Describe("WithStackPointer", func() {
		It("should initialize sp", func() {
			e = emu.NewEmulator(emu.WithStackPointer(0x7FFF0000))
			Expect(e.RegFile().ReadReg(guest.RegSP)).To(Equal(uint64(0x7FFF0000)))
		})
	})

	Describe("Run", func() {
		It("should print and exit", func() {
			program := encode(
				0x00000597, // auipc a1, 0
				0x02058593, // addi a1, a1, 32
				0x4505,     // c.li a0, 1
				0x4615,     // c.li a2, 5
				0x04000893, // addi a7, zero, 64
				0x00000073, // ecall
				0x4501,     // c.li a0, 0
				0x05D00893, // addi a7, zero, 93
				0x00000073, // ecall
			)
			e.LoadProgram(entry, program)
			e.Memory().WriteBytes(entry+32, []byte("hello"))

			Expect(e.Run()).To(Equal(int64(0)))
			Expect(stdoutBuf.String()).To(Equal("hello"))
			Expect(e.InstructionCount()).To(Equal(uint64(9)))
		})

		It("should loop through a side exit", func() {
			program := encode(
				0x450D,     // c.li a0, 3
				0x157D,     // c.addi a0, -1
				0xFD7D,     // c.bnez a0, -2
				0x451D,     // c.li a0, 7
				0x05D00893, // addi a7, zero, 93
				0x00000073, // ecall
			)
			e.LoadProgram(entry, program)

			Expect(e.Run()).To(Equal(int64(7)))
			Expect(e.InstructionCount()).To(Equal(uint64(10)))

			stats := e.Driver().Cache().Stats()
			Expect(stats.Lookups).To(Equal(uint64(3)))
			Expect(stats.Hits).To(Equal(uint64(1)))
		})

		It("should return -1 on an illegal instruction", func() {
			e.LoadProgram(entry, encode(0x00003083))

			Expect(e.Run()).To(Equal(int64(-1)))
			Expect(stderrBuf.String()).To(ContainSubstring("illegal instruction 0x00003083 at PC=0x10000"))
		})
	})

	Describe("Step", func() {
		It("should execute a block and stop at the jump", func() {
			// c.li a5, 2; c.mv a2, a5; c.j +0
			e.LoadProgram(entry, encode(0x4789, 0x863E, 0xA001))

			result := e.Step()

			Expect(result.Err).To(BeNil())
			Expect(result.Exited).To(BeFalse())
			Expect(result.Insns).To(Equal(3))
			Expect(e.RegFile().ReadReg(12)).To(Equal(uint64(2)))
			Expect(e.State().PC).To(Equal(uint64(entry + 4)))
		})

		It("should link on a call", func() {
			// jal ra, 8
			e.LoadProgram(entry, encode(0x008000EF))

			e.Step()

			Expect(e.RegFile().ReadReg(guest.RegRA)).To(Equal(uint64(entry + 4)))
			Expect(e.State().PC).To(Equal(uint64(entry + 8)))
		})

		It("should clear bit 0 of a c.jr target", func() {
			// lui a0, 0x10; addi a0, a0, 9; c.jr a0
			e.LoadProgram(entry, encode(0x00010537, 0x00950513, 0x8502))

			Expect(e.Step().Err).To(BeNil())
			Expect(e.State().PC).To(Equal(uint64(entry + 8)))

			Expect(e.Step().Err).To(BeNil())
			Expect(e.State().PC).To(Equal(uint64(entry + 8)))
		})

		It("should clear bit 0 of a c.jalr target", func() {
			// lui a0, 0x10; addi a0, a0, 11; c.jalr a0; c.j +0
			e.LoadProgram(entry, encode(0x00010537, 0x00B50513, 0x9502, 0xA001))

			Expect(e.Step().Err).To(BeNil())
			Expect(e.State().PC).To(Equal(uint64(entry + 10)))
			Expect(e.RegFile().ReadReg(guest.RegRA)).To(Equal(uint64(entry + 10)))

			Expect(e.Step().Err).To(BeNil())
		})

		It("should refuse to translate at an odd PC", func() {
			e.LoadProgram(entry, encode(0xA001))
			e.State().PC = entry + 1

			result := e.Step()

			Expect(result.Err).To(MatchError(&emu.MisalignedPCError{PC: entry + 1}))
			Expect(result.Insns).To(BeZero())
			Expect(e.InstructionCount()).To(BeZero())
		})

		It("should sign-extend word arithmetic", func() {
			// lui a0, 0x80000; addiw a0, a0, -1; c.j +0
			e.LoadProgram(entry, encode(0x80000537, 0xFFF5051B, 0xA001))

			e.Step()

			Expect(e.RegFile().ReadReg(guest.RegA0)).To(Equal(uint64(0x7FFFFFFF)))
		})

		It("should report an illegal instruction after the decoded prefix", func() {
			// c.nop; ld ra, 0(zero)
			e.LoadProgram(entry, encode(0x0001, 0x00003083))

			result := e.Step()

			Expect(result.Insns).To(Equal(1))
			Expect(result.Exited).To(BeFalse())

			var illegal *emu.IllegalInstructionError
			Expect(result.Err).To(BeAssignableToTypeOf(illegal))
			illegal = result.Err.(*emu.IllegalInstructionError)
			Expect(illegal.PC).To(Equal(uint64(entry + 2)))
			Expect(illegal.Insn).To(Equal(uint32(0x00003083)))
			Expect(illegal.Len).To(Equal(4))
			Expect(e.State().PC).To(Equal(uint64(entry + 2)))
		})

		It("should exit on a breakpoint", func() {
			// c.nop; c.ebreak
			e.LoadProgram(entry, encode(0x0001, 0x9002))

			result := e.Step()

			Expect(result.Exited).To(BeTrue())
			Expect(result.ExitCode).To(Equal(int64(-1)))
			Expect(result.Err).To(MatchError(&emu.TrapError{PC: entry + 2}))
		})

		It("should stop at the instruction limit", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(1))
			e.LoadProgram(entry, encode(0xA001))

			Expect(e.Step().Err).To(BeNil())
			Expect(e.Step().Err).To(MatchError("max instructions reached"))
		})

		It("should drop translations named by a cache-maintenance request", func() {
			e.LoadProgram(entry, encode(0xA001))
			e.Step()

			e.State().CMStart = entry
			e.State().CMLen = 2
			e.Step()

			Expect(e.State().CMLen).To(BeZero())
			Expect(e.Driver().Cache().Stats().Invalidations).To(Equal(uint64(1)))
			Expect(e.Driver().Cache().Len()).To(BeZero())
		})
	})
})
