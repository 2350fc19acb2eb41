// Package block builds superblocks out of single-instruction translations
// and caches them by guest address.
package block

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/rs/xid"

	"github.com/sarchlab/rv64front/frontend"
	"github.com/sarchlab/rv64front/insts"
	"github.com/sarchlab/rv64front/ir"
)

// Default limits.
const (
	DefaultMaxInsns    = 50
	DefaultGuardWindow = 4
)

// Code is the guest memory the driver fetches instructions from.
type Code interface {
	// ReadBytes returns n bytes starting at addr.
	ReadBytes(addr uint64, n int) []byte
}

// Translation is a finished block together with where it came from.
type Translation struct {
	// ID correlates trace lines of one translation.
	ID xid.ID
	// Addr is the guest address of the first instruction.
	Addr uint64
	// Size is the number of guest bytes covered.
	Size uint64
	// Insns is the number of instructions decoded.
	Insns int
	// Block is the IR.
	Block *ir.Block
	// Hint is the hint of the last instruction.
	Hint frontend.Hint
}

// Contains reports whether the translation covers any byte of
// [start, start+length).
func (t *Translation) Contains(start, length uint64) bool {
	if length == 0 {
		return false
	}
	return start < t.Addr+t.Size && t.Addr < start+length
}

// Driver calls the front end once per instruction until the block ends.
type Driver struct {
	fe          *frontend.FrontEnd
	maxInsns    int
	guardWindow int
	cache       *Cache
	log         logr.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithMaxInsns caps the number of instructions per block.
func WithMaxInsns(n int) Option {
	return func(d *Driver) {
		d.maxInsns = n
	}
}

// WithGuardWindow sets how many bytes are fetched per instruction. The
// front end needs at least four.
func WithGuardWindow(n int) Option {
	return func(d *Driver) {
		d.guardWindow = n
	}
}

// WithCache makes Translate reuse translations from c.
func WithCache(c *Cache) Option {
	return func(d *Driver) {
		d.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(d *Driver) {
		d.log = log
	}
}

// NewDriver creates a Driver around fe.
func NewDriver(fe *frontend.FrontEnd, opts ...Option) *Driver {
	d := &Driver{
		fe:          fe,
		maxInsns:    DefaultMaxInsns,
		guardWindow: DefaultGuardWindow,
		log:         logr.Discard(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.maxInsns < 1 {
		panic(fmt.Sprintf("block: max insns %d", d.maxInsns))
	}
	if d.guardWindow < 4 {
		panic(fmt.Sprintf("block: guard window %d is shorter than one instruction", d.guardWindow))
	}

	return d
}

// FrontEnd returns the front end the driver decodes with.
func (d *Driver) FrontEnd() *frontend.FrontEnd {
	return d.fe
}

// Cache returns the translation cache, or nil.
func (d *Driver) Cache() *Cache {
	return d.cache
}

// Translate returns the translation for pc, building and caching it on a
// miss.
func (d *Driver) Translate(code Code, pc uint64) *Translation {
	if d.cache != nil {
		if t, ok := d.cache.Lookup(pc); ok {
			return t
		}
	}

	t := d.Build(code, pc)

	if d.cache != nil {
		d.cache.Insert(t)
	}

	return t
}

// Build translates the block starting at pc without consulting the cache.
//
// Every instruction is preceded by an IMark. The block ends after an
// instruction that stops it, after an instruction that fails to decode, or
// when the instruction limit is reached.
func (d *Driver) Build(code Code, pc uint64) *Translation {
	rf := d.fe.RegisterFile()
	b := ir.NewBlock()
	b.OffsIP = rf.Layout().PC

	t := &Translation{ID: xid.New(), Addr: pc, Block: b}
	addr := pc

	for {
		window := code.ReadBytes(addr, d.guardWindow)

		mark := len(b.Stmts)
		b.AddStmt(ir.IMark{Addr: addr})

		ok, out := d.fe.DisInstr(b, window, 0, addr)
		if !ok {
			b.Stmts[mark] = ir.IMark{Addr: addr, Len: insts.ReadWord(window).Len()}
			b.Next = ir.U64(addr)
			b.JumpKind = ir.JumpNoDecode
			break
		}

		b.Stmts[mark] = ir.IMark{Addr: addr, Len: out.Len}
		t.Insns++
		t.Hint = out.Hint
		addr += uint64(out.Len)

		if out.WhatNext == frontend.StopHere {
			b.Next = rf.GetPC()
			b.JumpKind = out.JumpKind
			break
		}

		if t.Insns >= d.maxInsns {
			b.Next = ir.U64(addr)
			b.JumpKind = ir.JumpBoring
			break
		}
	}

	t.Size = addr - pc

	d.log.V(1).Info("block built",
		"id", t.ID.String(),
		"pc", fmt.Sprintf("0x%x", pc),
		"insns", t.Insns,
		"stmts", b.Len(),
		"jk", b.JumpKind.String())

	return t
}
