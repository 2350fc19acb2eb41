package ir

import "fmt"

// Expr is a side-effect free IR expression.
type Expr interface {
	isExpr()
	String() string
}

// Const is a literal of the given type.
type Const struct {
	Value uint64
	Type  Type
}

// Get reads a guest-state field at a byte offset.
type Get struct {
	Offset int
	Type   Type
}

// RdTmp reads a temporary.
type RdTmp struct {
	Tmp Temp
}

// Unop applies a unary operator.
type Unop struct {
	Op  Op
	Arg Expr
}

// Binop applies a binary operator.
type Binop struct {
	Op   Op
	Arg1 Expr
	Arg2 Expr
}

func (Const) isExpr() {}
func (Get) isExpr()   {}
func (RdTmp) isExpr() {}
func (Unop) isExpr()  {}
func (Binop) isExpr() {}

func (e Const) String() string {
	return fmt.Sprintf("0x%x:%s", e.Value, e.Type)
}

func (e Get) String() string {
	return fmt.Sprintf("GET:%s(%d)", e.Type, e.Offset)
}

func (e RdTmp) String() string {
	return e.Tmp.String()
}

func (e Unop) String() string {
	return fmt.Sprintf("%s(%s)", e.Op, e.Arg)
}

func (e Binop) String() string {
	return fmt.Sprintf("%s(%s,%s)", e.Op, e.Arg1, e.Arg2)
}

// U64 returns a 64-bit constant.
func U64(v uint64) Const {
	return Const{Value: v, Type: TypeI64}
}

// U1 returns a one-bit constant.
func U1(b bool) Const {
	if b {
		return Const{Value: 1, Type: TypeI1}
	}
	return Const{Value: 0, Type: TypeI1}
}

// Op is an IR operator.
type Op uint16

// Operators.
const (
	OpInvalid Op = iota
	OpAdd64
	OpSub64
	OpShl64
	OpAnd64
	OpOr64
	OpXor64
	OpCmpEQ64
	OpCmpNE64
	Op64to32
	Op32Sto64
)

var opNames = map[Op]string{
	OpAdd64:   "Add64",
	OpSub64:   "Sub64",
	OpShl64:   "Shl64",
	OpAnd64:   "And64",
	OpOr64:    "Or64",
	OpXor64:   "Xor64",
	OpCmpEQ64: "CmpEQ64",
	OpCmpNE64: "CmpNE64",
	Op64to32:  "64to32",
	Op32Sto64: "32Sto64",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint16(o))
}

// Signature returns the result type and argument types of o.
func (o Op) Signature() (result Type, args []Type) {
	switch o {
	case OpAdd64, OpSub64, OpAnd64, OpOr64, OpXor64, OpShl64:
		return TypeI64, []Type{TypeI64, TypeI64}
	case OpCmpEQ64, OpCmpNE64:
		return TypeI1, []Type{TypeI64, TypeI64}
	case Op64to32:
		return TypeI32, []Type{TypeI64}
	case Op32Sto64:
		return TypeI64, []Type{TypeI32}
	default:
		return TypeInvalid, nil
	}
}

// TypeOf computes the static type of e. tempType resolves temporaries and
// may be nil when e is known not to reference any.
func TypeOf(e Expr, tempType func(Temp) Type) Type {
	switch e := e.(type) {
	case Const:
		return e.Type
	case Get:
		return e.Type
	case RdTmp:
		if tempType == nil {
			return TypeInvalid
		}
		return tempType(e.Tmp)
	case Unop:
		t, _ := e.Op.Signature()
		return t
	case Binop:
		t, _ := e.Op.Signature()
		return t
	default:
		return TypeInvalid
	}
}
