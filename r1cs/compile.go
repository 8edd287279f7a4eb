package r1cs

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/Zklib/zklang/expr"
	"github.com/Zklib/zklang/field"
)

// compiler lowers one expression tree into a system. Wires below nbWires
// at entry belong to the elaborator; auxiliary wires are appended.
type compiler struct {
	f           field.Field
	constraints []Constraint
	nbWires     int

	// booleans marks wires already known to carry 0 or 1, so the range
	// constraint b*(b-1) = 0 is emitted at most once per wire.
	booleans *bitset.BitSet
}

// Compile lowers root into a rank-1 constraint system. nbVars is the
// elaborator's wire count including the constant wire; inputs are in
// declaration order.
func Compile(f field.Field, root *expr.Expr, nbVars int, inputs []expr.Var) (*System, error) {
	c := &compiler{
		f:       f,
		nbWires: nbVars,
	}
	c.booleans = bitset.New(uint(nbVars))

	lc, err := c.lower(root)
	if err != nil {
		return nil, err
	}
	out := c.materialize(lc)

	sys := &System{
		FieldOrder:  f.Field(),
		NbWires:     c.nbWires,
		Constraints: c.constraints,
		Inputs:      make([]int, len(inputs)),
		Outputs:     []int{out},
	}
	for i, v := range inputs {
		sys.Inputs[i] = int(v)
	}
	return sys, nil
}

func (c *compiler) one() LinComb {
	return NewTerm(0, c.f.One())
}

func (c *compiler) newWire() int {
	w := c.nbWires
	c.nbWires++
	return w
}

func (c *compiler) emit(a, b, out LinComb) {
	c.constraints = append(c.constraints, Constraint{A: a, B: b, C: out})
}

// materialize forces a form onto a single wire, reusing the wire when the
// form already is one.
func (c *compiler) materialize(l LinComb) int {
	if w, ok := l.AsSingleWire(c.f); ok {
		return w
	}
	w := c.newWire()
	c.emit(c.one(), l, NewTerm(w, c.f.One()))
	return w
}

// markBoolean records that the form's wire is range safe without a
// constraint. Non-wire forms are left to ensureBoolean.
func (c *compiler) markBoolean(l LinComb) {
	if w, ok := l.AsSingleWire(c.f); ok {
		c.booleans.Set(uint(w))
	}
}

// ensureBoolean emits b*(b-1) = 0 unless the form is a constant 0 or 1 or
// a wire already marked.
func (c *compiler) ensureBoolean(l LinComb) {
	if cst, ok := l.AsConstant(); ok {
		if cst.IsZero() || c.f.IsOne(cst) {
			return
		}
	}
	if w, ok := l.AsSingleWire(c.f); ok {
		if c.booleans.Test(uint(w)) {
			return
		}
		c.booleans.Set(uint(w))
	}
	c.emit(l, l.Sub(c.f, c.one()), nil)
}

func (c *compiler) lower(e *expr.Expr) (LinComb, error) {
	switch e.Kind {
	case expr.KindVal:
		return c.lowerVal(e)
	case expr.KindVar:
		return NewTerm(int(e.V), c.f.One()), nil
	case expr.KindUnop:
		return c.lowerUnop(e)
	case expr.KindBinop:
		return c.lowerBinop(e)
	case expr.KindIf:
		return c.lowerIf(e)
	case expr.KindAssert:
		return c.lowerAssert(e)
	case expr.KindSeq:
		var last LinComb
		for _, a := range e.Args {
			l, err := c.lower(a)
			if err != nil {
				return nil, err
			}
			last = l
		}
		return last, nil
	case expr.KindBot:
		return nil, nil
	}
	return nil, fmt.Errorf("lower: unexpected expression %s", e)
}

func (c *compiler) lowerVal(e *expr.Expr) (LinComb, error) {
	switch e.Val.Kind {
	case expr.ValUnit:
		return nil, nil
	case expr.ValTrue:
		return c.one(), nil
	case expr.ValFalse:
		return nil, nil
	case expr.ValField:
		return NewTerm(0, e.Val.F), nil
	case expr.ValLoc:
		// A bare reference carries no field value. Its components are
		// reached through the elaborator's object map, never here.
		return nil, nil
	}
	return nil, fmt.Errorf("lower: unexpected value %s", e)
}

func (c *compiler) lowerUnop(e *expr.Expr) (LinComb, error) {
	arg, err := c.lower(e.Args[0])
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case expr.OpNeg:
		return arg.Neg(c.f), nil
	case expr.OpNot:
		c.ensureBoolean(arg)
		return c.one().Sub(c.f, arg), nil
	}
	return nil, fmt.Errorf("lower: unexpected unary %s", e.Op)
}

func (c *compiler) lowerBinop(e *expr.Expr) (LinComb, error) {
	a, err := c.lower(e.Args[0])
	if err != nil {
		return nil, err
	}
	b, err := c.lower(e.Args[1])
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case expr.OpAdd:
		return a.Add(c.f, b), nil
	case expr.OpSub:
		return a.Sub(c.f, b), nil
	case expr.OpMul:
		return c.mul(a, b), nil
	case expr.OpDiv:
		return c.div(a, b), nil
	case expr.OpAnd:
		c.ensureBoolean(a)
		c.ensureBoolean(b)
		r := NewTerm(c.newWire(), c.f.One())
		c.markBoolean(r)
		c.emit(a, b, r)
		return r, nil
	case expr.OpOr:
		c.ensureBoolean(a)
		c.ensureBoolean(b)
		r := NewTerm(c.newWire(), c.f.One())
		c.markBoolean(r)
		c.emit(a, b, a.Add(c.f, b).Sub(c.f, r))
		return r, nil
	case expr.OpXor:
		c.ensureBoolean(a)
		c.ensureBoolean(b)
		r := NewTerm(c.newWire(), c.f.One())
		c.markBoolean(r)
		two := c.f.Add(c.f.One(), c.f.One())
		c.emit(a, b.Scale(c.f, two), a.Add(c.f, b).Sub(c.f, r))
		return r, nil
	case expr.OpEq:
		return c.eq(a, b), nil
	case expr.OpBEq:
		c.ensureBoolean(a)
		c.ensureBoolean(b)
		// a == b over bits is 1 - (a xor b).
		r := NewTerm(c.newWire(), c.f.One())
		c.markBoolean(r)
		two := c.f.Add(c.f.One(), c.f.One())
		c.emit(a, b.Scale(c.f, two), a.Add(c.f, b).Sub(c.f, c.one()).Add(c.f, r))
		return r, nil
	}
	return nil, fmt.Errorf("lower: unexpected binary %s", e.Op)
}

// mul folds constants into the form; only a product of two genuine forms
// costs a constraint.
func (c *compiler) mul(a, b LinComb) LinComb {
	if cst, ok := a.AsConstant(); ok {
		return b.Scale(c.f, cst)
	}
	if cst, ok := b.AsConstant(); ok {
		return a.Scale(c.f, cst)
	}
	r := NewTerm(c.newWire(), c.f.One())
	c.emit(a, b, r)
	return r
}

// div emits b*q = a. A constant nonzero divisor folds into the form; a
// constant zero divisor keeps the constraint so that solving reports the
// division by zero.
func (c *compiler) div(a, b LinComb) LinComb {
	if cst, ok := b.AsConstant(); ok {
		if inv, ok := c.f.Inverse(cst); ok {
			return a.Scale(c.f, inv)
		}
	}
	q := NewTerm(c.newWire(), c.f.One())
	c.emit(b, q, a)
	return q
}

// eq lowers field equality of a and b into a boolean r, with d = a - b:
//
//	d * r = 0
//	d * w = 1 - r
//	r * w = 0
//
// The last relation pins w when d is zero, so plain propagation solves
// every wire in both cases.
func (c *compiler) eq(a, b LinComb) LinComb {
	d := a.Sub(c.f, b)
	if cst, ok := d.AsConstant(); ok {
		if cst.IsZero() {
			return c.one()
		}
		return nil
	}
	r := NewTerm(c.newWire(), c.f.One())
	c.markBoolean(r)
	w := NewTerm(c.newWire(), c.f.One())
	c.emit(d, r, nil)
	c.emit(d, w, c.one().Sub(c.f, r))
	c.emit(r, w, nil)
	return r
}

// lowerIf lowers if(cond, t, e) into r with the single relation
// cond*(t - e) = r - e; cond is range checked.
func (c *compiler) lowerIf(e *expr.Expr) (LinComb, error) {
	cond, err := c.lower(e.Args[0])
	if err != nil {
		return nil, err
	}
	t, err := c.lower(e.Args[1])
	if err != nil {
		return nil, err
	}
	f, err := c.lower(e.Args[2])
	if err != nil {
		return nil, err
	}
	c.ensureBoolean(cond)
	if cst, ok := cond.AsConstant(); ok {
		if cst.IsZero() {
			return f, nil
		}
		return t, nil
	}
	r := NewTerm(c.newWire(), c.f.One())
	if e.Ty.Kind == expr.TypeBool {
		c.markBoolean(r)
	}
	c.emit(cond, t.Sub(c.f, f), r.Sub(c.f, f))
	return r, nil
}

// lowerAssert lowers assert(v, e) into (e - v) * 1 = 0. An assertion of a
// boolean expression transfers the range mark to v.
func (c *compiler) lowerAssert(e *expr.Expr) (LinComb, error) {
	rhs, err := c.lower(e.Args[0])
	if err != nil {
		return nil, err
	}
	v := NewTerm(int(e.V), c.f.One())
	if e.Args[0].Ty.Kind == expr.TypeBool {
		c.markBoolean(v)
	}
	c.emit(rhs.Sub(c.f, v), c.one(), nil)
	return nil, nil
}
