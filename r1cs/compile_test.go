package r1cs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zklib/zklang/builder"
	"github.com/Zklib/zklang/expr"
	"github.com/Zklib/zklang/field"
)

// elaborate runs prog against a fresh builder and lowers the result.
func elaborate(t *testing.T, prog func(b *builder.Builder) builder.Comp) *System {
	t.Helper()
	b := builder.NewBuilder(field.BN254())
	root, err := prog(b).Run(b)
	require.NoError(t, err)
	sys, err := Compile(field.BN254(), root, b.NbVars(), b.Inputs())
	require.NoError(t, err)
	return sys
}

func TestCompileAddIsFree(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Input().Bind(func(y *expr.Expr) builder.Comp {
				return b.Add(builder.Pure(x), b.Sub(builder.Pure(y), b.Const(3)))
			})
		})
	})
	// Affine folding leaves only the output materialization.
	require.Equal(t, 1, sys.NbConstraints())
	require.Len(t, sys.Inputs, 2)
	require.Len(t, sys.Outputs, 1)
}

func TestCompileMulEmitsOneConstraint(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Input().Bind(func(y *expr.Expr) builder.Comp {
				return b.Mul(builder.Pure(x), builder.Pure(y))
			})
		})
	})
	// The product wire doubles as the output wire.
	require.Equal(t, 1, sys.NbConstraints())
}

func TestCompileMulByConstantIsFree(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Mul(builder.Pure(x), b.Const(5))
		})
	})
	require.Equal(t, 1, sys.NbConstraints())
}

func TestCompileEqShape(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Input().Bind(func(y *expr.Expr) builder.Comp {
				return b.Eq(builder.Pure(x), builder.Pure(y))
			})
		})
	})
	// d*r = 0, d*w = 1 - r, r*w = 0; r doubles as the output wire.
	require.Equal(t, 3, sys.NbConstraints())
}

func TestCompileWiresInRange(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.If(b.Eq(builder.Pure(x), b.Const(1)),
				func() builder.Comp { return b.Mul(builder.Pure(x), builder.Pure(x)) },
				func() builder.Comp { return b.Const(0) })
		})
	})
	for _, c := range sys.Constraints {
		for _, l := range []LinComb{c.A, c.B, c.C} {
			for _, term := range l {
				require.Less(t, term.VID, sys.NbWires)
				require.False(t, term.Coeff.IsZero())
			}
		}
	}
}

func TestCompileStaticallyTrueIfDropsElse(t *testing.T) {
	mkProg := func(withIf bool) func(b *builder.Builder) builder.Comp {
		return func(b *builder.Builder) builder.Comp {
			return b.Input().Bind(func(x *expr.Expr) builder.Comp {
				then := func() builder.Comp { return builder.Pure(x) }
				els := func() builder.Comp { return b.Mul(builder.Pure(x), builder.Pure(x)) }
				if withIf {
					return b.If(builder.ConstBool(true), then, els)
				}
				return then()
			})
		}
	}
	pruned := elaborate(t, mkProg(true))
	direct := elaborate(t, mkProg(false))
	// No constraint of the dead else branch survives.
	require.Equal(t, direct.NbConstraints(), pruned.NbConstraints())
}

func TestCompileBotEmitsNothing(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Add(builder.Bot(expr.TField), b.Mul(b.Input(), b.Input()))
	})
	// The whole expression is bot; only the output materialization of
	// the empty form remains.
	require.Equal(t, 1, sys.NbConstraints())
}

func TestCompileBooleanRangeOnce(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Arr(1).Bind(func(a *expr.Expr) builder.Comp {
				// Share the boolean through a variable; its range must
				// not be constrained again on reuse.
				cell := builder.Pure(a)
				return b.Set(cell, 0, b.Eq(builder.Pure(x), b.Const(1))).
					Then(b.And(b.Get(cell, 0), b.Get(cell, 0)))
			})
		})
	})
	// Eq contributes 3 constraints and its assertion into the shared
	// variable one more; And contributes 1. No b*(b-1) = 0 appears for
	// the marked boolean wire.
	require.Equal(t, 5, sys.NbConstraints())
}
