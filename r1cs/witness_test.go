package r1cs

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zklib/zklang/builder"
	"github.com/Zklib/zklang/expr"
	"github.com/Zklib/zklang/field"
)

func ins(xs ...int64) []*big.Int {
	res := make([]*big.Int, len(xs))
	for i, x := range xs {
		res[i] = big.NewInt(x)
	}
	return res
}

func outputValue(t *testing.T, sys *System, w Witness) *big.Int {
	t.Helper()
	return sys.Field().ToBigInt(w[sys.Outputs[0]])
}

func TestSolveArithmetic(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Add(builder.Pure(x), b.Mul(builder.Pure(x), builder.Pure(x)))
		})
	})
	w, err := sys.Solve(ins(3))
	require.NoError(t, err)
	require.True(t, sys.Sat(w))
	require.Equal(t, int64(12), outputValue(t, sys, w).Int64())
}

func TestSolveDivision(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Input().Bind(func(y *expr.Expr) builder.Comp {
				return b.Div(builder.Pure(x), builder.Pure(y))
			})
		})
	})
	w, err := sys.Solve(ins(12, 4))
	require.NoError(t, err)
	require.True(t, sys.Sat(w))
	require.Equal(t, int64(3), outputValue(t, sys, w).Int64())
}

func TestSolveDivByZero(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Input().Bind(func(y *expr.Expr) builder.Comp {
				return b.Div(builder.Pure(x), builder.Pure(y))
			})
		})
	})
	_, err := sys.Solve(ins(12, 0))
	require.ErrorIs(t, err, ErrDivByZero)

	// 0/0 follows the same policy.
	_, err = sys.Solve(ins(0, 0))
	require.ErrorIs(t, err, ErrDivByZero)
}

func TestSolveEqBothWays(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Input().Bind(func(y *expr.Expr) builder.Comp {
				return b.Eq(builder.Pure(x), builder.Pure(y))
			})
		})
	})

	w, err := sys.Solve(ins(7, 7))
	require.NoError(t, err)
	require.True(t, sys.Sat(w))
	require.Equal(t, int64(1), outputValue(t, sys, w).Int64())

	w, err = sys.Solve(ins(7, 8))
	require.NoError(t, err)
	require.True(t, sys.Sat(w))
	require.Equal(t, int64(0), outputValue(t, sys, w).Int64())
}

func TestSolveInputArityMismatch(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Mul(builder.Pure(x), builder.Pure(x))
		})
	})
	_, err := sys.Solve(ins(1, 2))
	require.ErrorIs(t, err, ErrInputArityMismatch)
	_, err = sys.Solve(nil)
	require.ErrorIs(t, err, ErrInputArityMismatch)
}

func TestSolveUnderDetermined(t *testing.T) {
	// An input-free variable multiplied with itself cannot be deduced.
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		v := func(bb *builder.Builder) (*expr.Expr, error) {
			return bb.FreshVar(expr.TField), nil
		}
		return builder.Comp(v).Bind(func(x *expr.Expr) builder.Comp {
			return b.Mul(builder.Pure(x), builder.Pure(x))
		})
	})
	_, err := sys.Solve(nil)
	require.ErrorIs(t, err, ErrUnderDetermined)
}

func TestSolveUnreferencedWiresAreIgnored(t *testing.T) {
	// Rebinding an array slot abandons its original variable; the solve
	// must not demand a value for it.
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Arr(1).Bind(func(a *expr.Expr) builder.Comp {
			cell := builder.Pure(a)
			return b.Set(cell, 0, b.Const(9)).Then(b.Get(cell, 0))
		})
	})
	w, err := sys.Solve(nil)
	require.NoError(t, err)
	require.True(t, sys.Sat(w))
	require.Equal(t, int64(9), outputValue(t, sys, w).Int64())
}

func TestSatRejectsTamperedWitness(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Mul(builder.Pure(x), builder.Pure(x))
		})
	})
	w, err := sys.Solve(ins(5))
	require.NoError(t, err)
	require.True(t, sys.Sat(w))

	f := field.BN254()
	w[sys.Outputs[0]] = f.Add(w[sys.Outputs[0]], f.One())
	require.False(t, sys.Sat(w))
}

func TestWitnessRoundTrip(t *testing.T) {
	sys := elaborate(t, func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			return b.Mul(builder.Pure(x), b.Const(3))
		})
	})
	w, err := sys.Solve(ins(14))
	require.NoError(t, err)

	data := sys.SerializeWitness(w)
	back := sys.DeserializeWitness(data)
	require.Equal(t, len(w), len(back))
	f := sys.Field()
	for i := range w {
		require.Equal(t, 0, f.ToBigInt(w[i]).Cmp(f.ToBigInt(back[i])))
	}
}
