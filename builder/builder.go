// Package builder elaborates programs of the typed DSL into expression
// trees. It owns the identity supplies, the object map backing compound
// values, and the static analysis facts used for conditional pruning.
package builder

import (
	"errors"

	"github.com/consensys/gnark/constraint"

	"github.com/Zklib/zklang/expr"
	"github.com/Zklib/zklang/field"
)

// Elaboration errors. Each failure of the DSL combinators wraps one of
// these sentinels.
var (
	ErrZeroSizedArray    = errors.New("zero sized array")
	ErrNotALocation      = errors.New("not a location")
	ErrUnboundIndex      = errors.New("unbound index")
	ErrInternalInvariant = errors.New("internal invariant violated")
)

type objKind uint8

const (
	objVar objKind = iota
	objLoc
)

// objBind is the value stored for one component of a compound: either a
// scalar variable or a reference to another compound.
type objBind struct {
	kind objKind
	v    expr.Var
	l    expr.Loc
}

type objKey struct {
	l expr.Loc
	i int
}

type analKind uint8

const (
	analConst analKind = iota
	analBool
	analBot
)

// analBind is a fact about a variable deduced during elaboration.
type analBind struct {
	kind analKind
	c    constraint.Element
	b    bool
}

// Builder is the elaboration environment. It is single threaded: one
// Builder serves exactly one compilation and is mutated only through the
// Comp combinators, so updates are totally ordered.
type Builder struct {
	field field.Field

	nextVar expr.Var
	nextLoc expr.Loc

	// inputs holds input variables most recent first; Inputs reverses
	// into declaration order.
	inputs []expr.Var

	objMap  map[objKey]objBind
	analMap map[expr.Var]analBind
}

// NewBuilder returns an empty environment over the given field.
// Variable 1 is the first allocated; wire 0 belongs to the constant one.
func NewBuilder(f field.Field) *Builder {
	return &Builder{
		field:   f,
		nextVar: 1,
		objMap:  make(map[objKey]objBind),
		analMap: make(map[expr.Var]analBind),
	}
}

// Field returns the field the builder elaborates over.
func (b *Builder) Field() field.Field {
	return b.field
}

// NbVars returns the number of wires allocated so far, counting the
// constant wire.
func (b *Builder) NbVars() int {
	return int(b.nextVar)
}

// Inputs returns the input variables in declaration order.
func (b *Builder) Inputs() []expr.Var {
	res := make([]expr.Var, len(b.inputs))
	for i, v := range b.inputs {
		res[len(b.inputs)-1-i] = v
	}
	return res
}

func (b *Builder) freshVar() expr.Var {
	v := b.nextVar
	b.nextVar++
	return v
}

func (b *Builder) freshLoc() expr.Loc {
	l := b.nextLoc
	b.nextLoc++
	return l
}

// FreshVar allocates a new scalar variable of the given type.
func (b *Builder) FreshVar(ty *expr.Type) *expr.Expr {
	return expr.NewVar(b.freshVar(), ty)
}

// FreshInput allocates a new field variable and registers it as an input.
func (b *Builder) FreshInput() *expr.Expr {
	v := b.freshVar()
	b.inputs = append([]expr.Var{v}, b.inputs...)
	return expr.NewVar(v, expr.TField)
}

// Input is FreshInput as a computation, for use in program bodies.
func (b *Builder) Input() Comp {
	return func(bb *Builder) (*expr.Expr, error) {
		return bb.FreshInput(), nil
	}
}

// FreshLoc allocates a new compound location of the given type.
func (b *Builder) FreshLoc(ty *expr.Type) *expr.Expr {
	return expr.NewLocRef(b.freshLoc(), ty)
}

func (b *Builder) bindVar(l expr.Loc, i int, v expr.Var) {
	b.objMap[objKey{l, i}] = objBind{kind: objVar, v: v}
}

func (b *Builder) bindLoc(l expr.Loc, i int, child expr.Loc) {
	b.objMap[objKey{l, i}] = objBind{kind: objLoc, l: child}
}

func (b *Builder) lookup(l expr.Loc, i int) (objBind, bool) {
	bind, ok := b.objMap[objKey{l, i}]
	return bind, ok
}
