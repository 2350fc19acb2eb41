package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv64front/emu"
)

var _ = Describe("Memory", func() {
	var m *emu.Memory

	BeforeEach(func() {
		m = emu.NewMemory()
	})

	It("should read zero from untouched addresses", func() {
		Expect(m.Read64(0xDEAD0000)).To(BeZero())
	})

	It("should store little endian values", func() {
		m.Write32(0x1000, 0x11223344)

		Expect(m.Read8(0x1000)).To(Equal(byte(0x44)))
		Expect(m.Read16(0x1002)).To(Equal(uint16(0x1122)))
		Expect(m.Read32(0x1000)).To(Equal(uint32(0x11223344)))
	})

	It("should handle accesses that cross a page", func() {
		m.Write64(0x1FFC, 0x0102030405060708)

		Expect(m.Read64(0x1FFC)).To(Equal(uint64(0x0102030405060708)))
		Expect(m.Read32(0x2000)).To(Equal(uint32(0x01020304)))
	})

	It("should load a program", func() {
		m.LoadProgram(0x2000, []byte{0xDE, 0xAD, 0xBE, 0xEF})

		Expect(m.ReadBytes(0x2000, 5)).To(Equal([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00}))
	})
})
