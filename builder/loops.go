package builder

import (
	"fmt"

	"github.com/Zklib/zklang/expr"
)

// Iter is the right fold f(0, f(1, ... f(n, e0))) over the inclusive
// range [0, n], unrolled at elaboration time.
func (b *Builder) Iter(n int, f func(int, Comp) Comp, e0 Comp) Comp {
	acc := e0
	for i := n; i >= 0; i-- {
		acc = f(i, acc)
	}
	return acc
}

// BigSum is the sum of f(i) for i in the inclusive range [0, n].
func (b *Builder) BigSum(n int, f func(int) Comp) Comp {
	return b.Iter(n, func(i int, acc Comp) Comp {
		return b.Add(f(i), acc)
	}, b.Const(0))
}

// Times repeats the effect of m n times; the value is unit.
func (b *Builder) Times(n int, m Comp) Comp {
	acc := UnitE()
	for i := 0; i < n; i++ {
		acc = acc.Then(m)
	}
	return acc.Then(UnitE())
}

// arrLen counts the contiguous components bound under l.
func (b *Builder) arrLen(l expr.Loc) int {
	n := 0
	for {
		if _, ok := b.lookup(l, n); !ok {
			return n
		}
		n++
	}
}

// Forall runs m on every element of the array xs in index order; the
// value is unit.
func (b *Builder) Forall(xs Comp, m func(Comp) Comp) Comp {
	return xs.Bind(func(a *expr.Expr) Comp {
		return func(bb *Builder) (*expr.Expr, error) {
			l, ok := a.AsLocRef()
			if !ok {
				return nil, fmt.Errorf("forall: %s: %w", a.Ty, ErrNotALocation)
			}
			acc := UnitE()
			for i, n := 0, bb.arrLen(l); i < n; i++ {
				acc = acc.Then(m(b.Get(Pure(a), i)))
			}
			return acc.Then(UnitE())(bb)
		}
	})
}

// ForallPairs runs m on every element pair of the arrays xs and ys.
func (b *Builder) ForallPairs(xs, ys Comp, m func(x, y Comp) Comp) Comp {
	return xs.Bind(func(a *expr.Expr) Comp {
		return ys.Bind(func(c *expr.Expr) Comp {
			return b.Forall(Pure(a), func(x Comp) Comp {
				return b.Forall(Pure(c), func(y Comp) Comp {
					return m(x, y)
				})
			})
		})
	})
}
