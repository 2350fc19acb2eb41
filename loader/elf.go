// Package loader reads statically linked RISC-V 64 ELF executables.
package loader

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// efRISCVRVC is the e_flags bit set when the binary may contain compressed
// instructions.
const efRISCVRVC = 0x0001

// DefaultStackTop is the initial stack pointer: the top of the Sv39 user
// address range, page aligned.
const DefaultStackTop = 0x3ffffff000

// DefaultStackSize is the default stack size (8MB).
const DefaultStackSize = 8 * 1024 * 1024

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment should be loaded.
	VirtAddr uint64
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint64
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Contains reports whether addr falls inside the segment in memory.
func (s *Segment) Contains(addr uint64) bool {
	return addr >= s.VirtAddr && addr-s.VirtAddr < s.MemSize
}

// Program represents a loaded ELF program ready for execution.
type Program struct {
	// EntryPoint is the virtual address where execution should begin.
	EntryPoint uint64
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
	// InitialSP is the initial stack pointer value.
	InitialSP uint64
	// Compressed is set when the binary was built with the C extension.
	Compressed bool
}

// Memory is where LoadInto places segments.
type Memory interface {
	WriteBytes(addr uint64, b []byte)
}

// LoadInto copies every segment into m, zero-filling the part of each
// segment beyond its file data.
func (p *Program) LoadInto(m Memory) {
	for _, seg := range p.Segments {
		m.WriteBytes(seg.VirtAddr, seg.Data)

		fileSize := uint64(len(seg.Data))
		if seg.MemSize > fileSize {
			m.WriteBytes(seg.VirtAddr+fileSize, make([]byte, seg.MemSize-fileSize))
		}
	}
}

// Load parses a RISC-V 64 ELF binary at path.
func Load(path string) (*Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadReader(file)
}

// LoadReader parses a RISC-V 64 ELF binary from r.
func LoadReader(r io.ReaderAt) (*Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF file: %w", err)
	}

	return parse(f, r)
}

func parse(f *elf.File, r io.ReaderAt) (*Program, error) {
	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("not a 64-bit ELF file")
	}

	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	if f.Entry&1 != 0 {
		return nil, fmt.Errorf("misaligned entry point 0x%x", f.Entry)
	}

	prog := &Program{
		EntryPoint: f.Entry,
		InitialSP:  DefaultStackTop,
	}

	flags, err := headerFlags(f, r)
	if err != nil {
		return nil, err
	}
	prog.Compressed = flags&efRISCVRVC != 0

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  phdr.Memsz,
			Flags:    flags,
		})
	}

	return prog, nil
}

// headerFlags reads e_flags, which debug/elf does not expose.
func headerFlags(f *elf.File, r io.ReaderAt) (uint32, error) {
	var b [4]byte
	if _, err := r.ReadAt(b[:], elf64FlagsOffset); err != nil {
		return 0, fmt.Errorf("failed to read ELF flags: %w", err)
	}
	return f.ByteOrder.Uint32(b[:]), nil
}

// elf64FlagsOffset is the offset of e_flags in an ELF64 header.
const elf64FlagsOffset = 48
