package main

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// parseWords turns hex instruction words into little-endian guest code.
// Words up to four hex digits whose low two bits are not 0b11 are emitted
// as 16-bit compressed instructions.
func parseWords(args []string) ([]byte, error) {
	var code []byte

	for _, arg := range args {
		for _, field := range strings.Fields(arg) {
			digits := strings.TrimPrefix(strings.ToLower(field), "0x")
			v, err := strconv.ParseUint(digits, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("bad instruction word %q: %w", field, err)
			}

			if v&0b11 != 0b11 {
				if v > 0xFFFF {
					return nil, fmt.Errorf("instruction word %q: compressed encodings are 16 bits", field)
				}
				code = binary.LittleEndian.AppendUint16(code, uint16(v))
				continue
			}

			code = binary.LittleEndian.AppendUint32(code, uint32(v))
		}
	}

	if len(code) == 0 {
		return nil, fmt.Errorf("no instruction words")
	}

	return code, nil
}

// flatCode is guest code at a fixed address. Reads outside it return
// zeros.
type flatCode struct {
	base  uint64
	bytes []byte
}

func (c *flatCode) ReadBytes(addr uint64, n int) []byte {
	out := make([]byte, n)
	if addr >= c.base && addr-c.base < uint64(len(c.bytes)) {
		copy(out, c.bytes[addr-c.base:])
	}
	return out
}

func (c *flatCode) end() uint64 {
	return c.base + uint64(len(c.bytes))
}
