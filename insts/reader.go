package insts

import (
	"encoding/binary"
	"strings"
)

// Word holds one raw instruction, right-aligned. When the two low bits are
// 0b11 the word is the full 32-bit form; otherwise only the low 16 bits are
// meaningful.
type Word uint32

// Quadrant is the two-bit low-order field of an instruction word.
type Quadrant uint8

// Quadrants. The first three hold compressed encodings.
const (
	Quadrant00 Quadrant = 0b00
	Quadrant01 Quadrant = 0b01
	Quadrant10 Quadrant = 0b10
	Quadrant11 Quadrant = 0b11
)

// String returns the name used in front-end diagnostics.
func (q Quadrant) String() string {
	switch q {
	case Quadrant00:
		return "compressed_00"
	case Quadrant01:
		return "compressed_01"
	case Quadrant10:
		return "compressed_10"
	default:
		return "standard_11"
	}
}

// ReadWord reads one instruction from the start of b.
//
// Only b[0:2] is read for a compressed instruction and b[0:4] for a full one
// (little endian). The caller guarantees the bytes are addressable; the
// block driver keeps a small guard window past the end of code for this.
func ReadWord(b []byte) Word {
	if b[0]&0b11 != 0b11 {
		return Word(binary.LittleEndian.Uint16(b[0:2]))
	}
	return Word(binary.LittleEndian.Uint32(b[0:4]))
}

// IsCompressed reports whether w is a 16-bit encoding.
func (w Word) IsCompressed() bool {
	return w&0b11 != 0b11
}

// Len returns the encoded length in bytes: 2 or 4.
func (w Word) Len() int {
	if w.IsCompressed() {
		return 2
	}
	return 4
}

// Quadrant returns bits [1:0] of w.
func (w Word) Quadrant() Quadrant {
	return Quadrant(ExtractField(uint32(w), 1, 0))
}

// Field returns bits [hi:lo] of w.
func (w Word) Field(hi, lo uint) uint32 {
	return ExtractField(uint32(w), hi, lo)
}

// Binary renders all 32 bits of w most significant first, separating bytes
// with a space and nibbles with a quote, e.g. "0000'0000 0000'0000 0110'0101 0000'0001".
func (w Word) Binary() string {
	var sb strings.Builder
	sb.Grow(39)

	for i := 0; i < 32; i++ {
		if i > 0 {
			if i&7 == 0 {
				sb.WriteByte(' ')
			} else if i&3 == 0 {
				sb.WriteByte('\'')
			}
		}

		if uint32(w)&(1<<(31-i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}
