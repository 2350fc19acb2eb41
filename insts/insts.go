// Package insts provides the low-level RISC-V 64 instruction primitives used
// by the front end.
//
// It covers:
//   - Bit-field extraction and sign extension of immediates
//   - Instruction length classification (16-bit compressed or 32-bit)
//   - Quadrant selection from the two low bits of a word
//   - Diagnostic helpers: binary dumps and reference disassembly
//
// Usage:
//
//	w := insts.ReadWord(code[pc:])
//	rd := insts.ExtractField(uint32(w), 11, 7)
//	imm := insts.SignExtend(uint64(insts.ExtractField(uint32(w), 31, 20)), 12)
package insts
