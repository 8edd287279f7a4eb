// Package expr defines the typed expression tree produced by elaboration and
// consumed by the R1CS compiler, implemented in the manner of gnark's
// frontend expressions.
package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/gnark/constraint"
)

type Kind uint8

const (
	KindVal Kind = iota
	KindVar
	KindUnop
	KindBinop
	KindIf
	KindAssert
	KindSeq
	KindBot
)

type ValKind uint8

const (
	ValUnit ValKind = iota
	ValTrue
	ValFalse
	ValField
	ValLoc
)

// Value is the payload of a KindVal expression.
type Value struct {
	Kind ValKind
	F    constraint.Element // ValField
	L    Loc                // ValLoc
}

type Op uint8

const (
	OpNeg Op = iota
	OpNot
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpXor
	OpEq
	OpBEq
)

var opNames = [...]string{"neg", "not", "add", "sub", "mul", "div", "and", "or", "xor", "eq", "beq"}

func (op Op) String() string { return opNames[op] }

// Expr is a node of the typed expression tree.
//
// Args holds the operands: one for Unop and Assert, two for Binop,
// three for If (cond, then, else), and at least two for Seq.
// A Seq's value is its last operand.
type Expr struct {
	Kind Kind
	Ty   *Type
	Val  Value // KindVal
	V    Var   // KindVar; the asserted variable for KindAssert
	Op   Op    // KindUnop, KindBinop
	Args []*Expr
}

func NewUnit() *Expr {
	return &Expr{Kind: KindVal, Ty: TUnit, Val: Value{Kind: ValUnit}}
}

func NewBool(b bool) *Expr {
	k := ValFalse
	if b {
		k = ValTrue
	}
	return &Expr{Kind: KindVal, Ty: TBool, Val: Value{Kind: k}}
}

func NewFieldConst(c constraint.Element) *Expr {
	return &Expr{Kind: KindVal, Ty: TField, Val: Value{Kind: ValField, F: c}}
}

// NewLocRef returns the reference expression for a compound value.
// Compound values only ever appear in this form; their components live in
// the elaborator's object map.
func NewLocRef(l Loc, ty *Type) *Expr {
	return &Expr{Kind: KindVal, Ty: ty, Val: Value{Kind: ValLoc, L: l}}
}

func NewVar(v Var, ty *Type) *Expr {
	return &Expr{Kind: KindVar, Ty: ty, V: v}
}

func NewUnop(op Op, e *Expr) *Expr {
	return &Expr{Kind: KindUnop, Ty: e.Ty, Op: op, Args: []*Expr{e}}
}

func NewBinop(op Op, a, b *Expr, ty *Type) *Expr {
	return &Expr{Kind: KindBinop, Ty: ty, Op: op, Args: []*Expr{a, b}}
}

func NewIf(cond, then, els *Expr) *Expr {
	return &Expr{Kind: KindIf, Ty: then.Ty, Args: []*Expr{cond, then, els}}
}

// NewAssert returns the assertion v == e. Its value is unit.
func NewAssert(v Var, e *Expr) *Expr {
	return &Expr{Kind: KindAssert, Ty: TUnit, V: v, Args: []*Expr{e}}
}

// NewBot returns the undefined marker at the given type.
func NewBot(ty *Type) *Expr {
	return &Expr{Kind: KindBot, Ty: ty}
}

// AsLocRef returns the location of a compound reference expression.
func (e *Expr) AsLocRef() (Loc, bool) {
	if e.Kind == KindVal && e.Val.Kind == ValLoc {
		return e.Val.L, true
	}
	return 0, false
}

// AsFieldConst returns the constant carried by a field literal.
func (e *Expr) AsFieldConst() (constraint.Element, bool) {
	if e.Kind == KindVal && e.Val.Kind == ValField {
		return e.Val.F, true
	}
	return constraint.Element{}, false
}

// AsBoolConst returns the value of a boolean literal.
func (e *Expr) AsBoolConst() (bool, bool) {
	if e.Kind == KindVal {
		switch e.Val.Kind {
		case ValTrue:
			return true, true
		case ValFalse:
			return false, true
		}
	}
	return false, false
}

// IsPure reports whether e has no observable effect: values, variables, bot,
// and operators applied to pure operands. Assertions, conditionals and
// effectful sequences are not pure.
func (e *Expr) IsPure() bool {
	switch e.Kind {
	case KindVal, KindVar, KindBot:
		return true
	case KindUnop, KindBinop:
		for _, a := range e.Args {
			if !a.IsPure() {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the expression for diagnostics.
func (e *Expr) String() string {
	switch e.Kind {
	case KindVal:
		switch e.Val.Kind {
		case ValUnit:
			return "()"
		case ValTrue:
			return "true"
		case ValFalse:
			return "false"
		case ValField:
			return fmt.Sprintf("#%d", e.Val.F[0])
		case ValLoc:
			return "l" + strconv.Itoa(int(e.Val.L))
		}
	case KindVar:
		return "v" + strconv.Itoa(int(e.V))
	case KindUnop:
		return e.Op.String() + "(" + e.Args[0].String() + ")"
	case KindBinop:
		return e.Op.String() + "(" + e.Args[0].String() + "," + e.Args[1].String() + ")"
	case KindIf:
		return "if(" + e.Args[0].String() + "," + e.Args[1].String() + "," + e.Args[2].String() + ")"
	case KindAssert:
		return "assert(v" + strconv.Itoa(int(e.V)) + "," + e.Args[0].String() + ")"
	case KindSeq:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.String()
		}
		return "seq(" + strings.Join(parts, ";") + ")"
	case KindBot:
		return "bot"
	}
	return "?"
}
