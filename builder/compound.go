package builder

import (
	"fmt"

	"github.com/Zklib/zklang/expr"
)

// assertInto allocates a fresh variable of e's type, records the analysis
// fact, and returns the variable together with the assertion effect. An
// assertion of bot is pruned: the fact is enough and no constraint could
// ever be attributed to the unreachable value.
func (b *Builder) assertInto(e *expr.Expr) (expr.Var, *expr.Expr) {
	v := b.freshVar()
	b.recordAssert(v, e)
	if b.isBot(e) {
		return v, nil
	}
	return v, expr.NewAssert(v, e)
}

// Arr allocates an array of n fresh field variables behind one location.
func (b *Builder) Arr(n int) Comp {
	return b.arr(n, false)
}

// InputArr is Arr with every component registered as an input, in index
// order.
func (b *Builder) InputArr(n int) Comp {
	return b.arr(n, true)
}

func (b *Builder) arr(n int, input bool) Comp {
	return func(bb *Builder) (*expr.Expr, error) {
		if n <= 0 {
			return nil, fmt.Errorf("arr(%d): %w", n, ErrZeroSizedArray)
		}
		l := bb.freshLoc()
		for i := 0; i < n; i++ {
			var v expr.Var
			if input {
				v = bb.FreshInput().V
			} else {
				v = bb.freshVar()
			}
			bb.bindVar(l, i, v)
		}
		return expr.NewLocRef(l, expr.TArr(expr.TField)), nil
	}
}

// componentType resolves the type of component i of a compound type.
func componentType(ty *expr.Type, i int) *expr.Type {
	switch ty.Kind {
	case expr.TypeArr:
		return ty.Elem
	case expr.TypeProd:
		if i == 0 {
			return ty.Left
		}
		return ty.Right
	}
	return ty
}

// Get reads component i of a compound. Bot propagates; anything else that
// is not a location reference is rejected.
func (b *Builder) Get(a Comp, i int) Comp {
	return a.Bind(func(e *expr.Expr) Comp {
		return func(bb *Builder) (*expr.Expr, error) {
			if bb.isBot(e) {
				return expr.NewBot(componentType(e.Ty, i)), nil
			}
			l, ok := e.AsLocRef()
			if !ok {
				return nil, fmt.Errorf("get: %s: %w", e.Ty, ErrNotALocation)
			}
			bind, ok := bb.lookup(l, i)
			if !ok {
				return nil, fmt.Errorf("get: l%d[%d]: %w", l, i, ErrUnboundIndex)
			}
			ty := componentType(e.Ty, i)
			if bind.kind == objLoc {
				return expr.NewLocRef(bind.l, ty), nil
			}
			return expr.NewVar(bind.v, ty), nil
		}
	})
}

// Set writes component i of a compound. A variable or location on the
// right-hand side rebinds directly; any other expression is asserted into
// a fresh variable first. The value of the whole is unit.
func (b *Builder) Set(a Comp, i int, rhs Comp) Comp {
	return a.Bind(func(target *expr.Expr) Comp {
		return rhs.Bind(func(e *expr.Expr) Comp {
			return func(bb *Builder) (*expr.Expr, error) {
				l, ok := target.AsLocRef()
				if !ok {
					return nil, fmt.Errorf("set: %s: %w", target.Ty, ErrNotALocation)
				}
				if child, ok := e.AsLocRef(); ok {
					bb.bindLoc(l, i, child)
					return expr.NewUnit(), nil
				}
				if e.Kind == expr.KindVar {
					bb.bindVar(l, i, e.V)
					return expr.NewUnit(), nil
				}
				v, assert := bb.assertInto(e)
				bb.bindVar(l, i, v)
				if assert == nil {
					return expr.NewUnit(), nil
				}
				return expr.NewSeq(assert, expr.NewUnit()), nil
			}
		})
	})
}

// Pair builds a product of two components behind a fresh location.
func (b *Builder) Pair(x, y Comp) Comp {
	return x.Bind(func(a *expr.Expr) Comp {
		return y.Bind(func(c *expr.Expr) Comp {
			return func(bb *Builder) (*expr.Expr, error) {
				l := bb.freshLoc()
				ref := expr.NewLocRef(l, expr.TProd(a.Ty, c.Ty))
				effects := expr.NewUnit()
				for i, comp := range []*expr.Expr{a, c} {
					if child, ok := comp.AsLocRef(); ok {
						bb.bindLoc(l, i, child)
						continue
					}
					if comp.Kind == expr.KindVar {
						bb.bindVar(l, i, comp.V)
						continue
					}
					v, assert := bb.assertInto(comp)
					bb.bindVar(l, i, v)
					if assert != nil {
						effects = expr.NewSeq(effects, assert)
					}
				}
				return expr.NewSeq(effects, ref), nil
			}
		})
	})
}

// Fst projects the first component of a pair.
func (b *Builder) Fst(p Comp) Comp { return b.Get(p, 0) }

// Snd projects the second component of a pair.
func (b *Builder) Snd(p Comp) Comp { return b.Get(p, 1) }

// Arr2 allocates an n by m matrix of field variables as a single flat
// array, row major.
func (b *Builder) Arr2(n, m int) Comp {
	if n <= 0 || m <= 0 {
		return Raise(fmt.Errorf("arr2(%d,%d): %w", n, m, ErrZeroSizedArray))
	}
	return b.Arr(n * m)
}

// Get2 reads entry (i, j) of an n by m matrix built by Arr2; cols is m.
func (b *Builder) Get2(a Comp, i, j, cols int) Comp {
	return b.Get(a, cols*i+j)
}
