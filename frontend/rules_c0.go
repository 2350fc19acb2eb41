package frontend

import (
	"github.com/sarchlab/rv64front/guest"
	"github.com/sarchlab/rv64front/ir"
)

// Quadrant 00: compressed stack-relative and register-based memory forms.
// Only C.ADDI4SPN is translated; loads and stores need memory IR.
var compressed00Rules = []Rule{
	{Name: "c.addi4spn", Decode: decodeCAddi4spn},
}

// c.addi4spn rd', sp, nzuimm
// Format: 000 | nzuimm[5:4|9:6|2|3] | rd' | 00
func decodeCAddi4spn(c *Context) *Match {
	if c.Field(15, 13) != 0b000 {
		return nil
	}

	rd := creg(c.Field(4, 2))
	nzuimm := c.Field(12, 11)<<4 | c.Field(10, 7)<<6 | c.Field(6, 6)<<2 | c.Field(5, 5)<<3
	if nzuimm == 0 {
		// Reserved; covers the all-zero illegal instruction.
		return nil
	}

	c.PutReg(rd, add64(getReg(c, guest.RegSP), ir.U64(uint64(nzuimm))))
	return next(2, "c.addi4spn %s, sp, %d", name(rd), nzuimm)
}
