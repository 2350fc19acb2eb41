package ir

import "fmt"

// Builder is the append-only sink the front end writes IR into.
type Builder interface {
	// AddStmt appends a statement.
	AddStmt(s Stmt)
	// NewTemp allocates a fresh temporary of type ty.
	NewTemp(ty Type) Temp
	// NumTemps returns the number of temporaries allocated so far.
	NumTemps() int
	// TypeOf returns the static type of e in this builder's type environment.
	TypeOf(e Expr) Type
}

// Block is a superblock under construction: an ordered statement list, the
// type environment of its temporaries, and where control goes after the
// last statement.
type Block struct {
	temps []Type
	Stmts []Stmt

	// Next is the guest address executed after the block falls off its end.
	Next Expr
	// JumpKind describes the final transfer.
	JumpKind JumpKind
	// OffsIP is the guest-state offset of the program counter.
	OffsIP int
}

// NewBlock creates an empty block.
func NewBlock() *Block {
	return &Block{}
}

// AddStmt appends s to the block.
func (b *Block) AddStmt(s Stmt) {
	b.Stmts = append(b.Stmts, s)
}

// NewTemp allocates a temporary of type ty.
func (b *Block) NewTemp(ty Type) Temp {
	if ty == TypeInvalid {
		panic("ir: temporary of invalid type")
	}
	b.temps = append(b.temps, ty)
	return Temp(len(b.temps) - 1)
}

// NumTemps returns the number of temporaries in the block.
func (b *Block) NumTemps() int {
	return len(b.temps)
}

// TempType returns the type of temporary t, or TypeInvalid if t does not
// exist.
func (b *Block) TempType(t Temp) Type {
	if int(t) >= len(b.temps) {
		return TypeInvalid
	}
	return b.temps[t]
}

// TypeOf returns the static type of e.
func (b *Block) TypeOf(e Expr) Type {
	return TypeOf(e, b.TempType)
}

// Len returns the number of statements.
func (b *Block) Len() int {
	return len(b.Stmts)
}

// Validate checks the block's typing rules: temporaries are written once
// before being read, operator arguments have the declared types, exit
// guards are I1 and Next is an I64.
func (b *Block) Validate() error {
	written := make([]bool, len(b.temps))

	var check func(e Expr) error
	check = func(e Expr) error {
		switch e := e.(type) {
		case RdTmp:
			if int(e.Tmp) >= len(written) || !written[e.Tmp] {
				return fmt.Errorf("%s read before write", e.Tmp)
			}
		case Unop:
			_, args := e.Op.Signature()
			if len(args) != 1 {
				return fmt.Errorf("%s is not unary", e.Op)
			}
			if err := check(e.Arg); err != nil {
				return err
			}
			if t := b.TypeOf(e.Arg); t != args[0] {
				return fmt.Errorf("%s: argument is %s, want %s", e.Op, t, args[0])
			}
		case Binop:
			_, args := e.Op.Signature()
			if len(args) != 2 {
				return fmt.Errorf("%s is not binary", e.Op)
			}
			for i, arg := range []Expr{e.Arg1, e.Arg2} {
				if err := check(arg); err != nil {
					return err
				}
				if t := b.TypeOf(arg); t != args[i] {
					return fmt.Errorf("%s: argument %d is %s, want %s", e.Op, i+1, t, args[i])
				}
			}
		}
		return nil
	}

	for i, s := range b.Stmts {
		var err error
		switch s := s.(type) {
		case Put:
			err = check(s.Data)
		case WrTmp:
			if err = check(s.Data); err == nil {
				switch {
				case int(s.Tmp) >= len(written):
					err = fmt.Errorf("%s is not allocated", s.Tmp)
				case written[s.Tmp]:
					err = fmt.Errorf("%s written twice", s.Tmp)
				case b.TypeOf(s.Data) != b.temps[s.Tmp]:
					err = fmt.Errorf("%s: type mismatch", s.Tmp)
				default:
					written[s.Tmp] = true
				}
			}
		case Exit:
			if err = check(s.Guard); err == nil && b.TypeOf(s.Guard) != TypeI1 {
				err = fmt.Errorf("exit guard is %s", b.TypeOf(s.Guard))
			}
		}
		if err != nil {
			return fmt.Errorf("statement %d (%s): %w", i, s, err)
		}
	}

	if b.Next != nil {
		if err := check(b.Next); err != nil {
			return fmt.Errorf("next: %w", err)
		}
		if t := b.TypeOf(b.Next); t != TypeI64 {
			return fmt.Errorf("next is %s", t)
		}
	}

	return nil
}

// Pending stages IR on top of a base builder without touching it. Nothing
// reaches the base until Commit; dropping a Pending leaves the base exactly
// as it was.
type Pending struct {
	base  Builder
	start int
	temps []Type
	stmts []Stmt
}

// NewPending creates a staging buffer over base.
func NewPending(base Builder) *Pending {
	return &Pending{base: base, start: base.NumTemps()}
}

// AddStmt stages s.
func (p *Pending) AddStmt(s Stmt) {
	p.stmts = append(p.stmts, s)
}

// NewTemp stages a temporary. Its number is the one the base will assign on
// Commit.
func (p *Pending) NewTemp(ty Type) Temp {
	if ty == TypeInvalid {
		panic("ir: temporary of invalid type")
	}
	p.temps = append(p.temps, ty)
	return Temp(p.start + len(p.temps) - 1)
}

// NumTemps returns the number of temporaries including staged ones.
func (p *Pending) NumTemps() int {
	return p.start + len(p.temps)
}

// TypeOf returns the type of e, resolving both staged and base temporaries.
func (p *Pending) TypeOf(e Expr) Type {
	return TypeOf(e, func(t Temp) Type {
		n := p.start
		if int(t) >= n {
			i := int(t) - n
			if i >= len(p.temps) {
				return TypeInvalid
			}
			return p.temps[i]
		}
		return p.base.TypeOf(RdTmp{Tmp: t})
	})
}

// Stmts returns the staged statements.
func (p *Pending) Stmts() []Stmt {
	return p.stmts
}

// Empty reports whether nothing has been staged.
func (p *Pending) Empty() bool {
	return len(p.stmts) == 0 && len(p.temps) == 0
}

// Commit moves the staged temporaries and statements into the base builder.
// The base must not have been modified since the Pending was created.
func (p *Pending) Commit() {
	if n := p.base.NumTemps(); n != p.start {
		panic(fmt.Sprintf("ir: base builder has %d temps, staged against %d", n, p.start))
	}
	for i, ty := range p.temps {
		if got := p.base.NewTemp(ty); int(got) != p.start+i {
			panic(fmt.Sprintf("ir: base builder assigned %s, staged as t%d", got, p.start+i))
		}
	}
	for _, s := range p.stmts {
		p.base.AddStmt(s)
	}
	p.start += len(p.temps)
	p.temps = nil
	p.stmts = nil
}
