package insts

import (
	"encoding/binary"

	"golang.org/x/arch/riscv64/riscv64asm"
)

// Disassemble returns the reference disassembly of w in GNU syntax, or
// "unknown" if the reference decoder rejects it. It is used only to annotate
// diagnostics and never affects translation.
func Disassemble(w Word) string {
	buf := make([]byte, 4)
	if w.IsCompressed() {
		binary.LittleEndian.PutUint16(buf, uint16(w))
		buf = buf[:2]
	} else {
		binary.LittleEndian.PutUint32(buf, uint32(w))
	}

	inst, err := riscv64asm.Decode(buf)
	if err != nil {
		return "unknown"
	}

	return riscv64asm.GNUSyntax(inst)
}
