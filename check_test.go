package zklang_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	zklang "github.com/Zklib/zklang"
	"github.com/Zklib/zklang/builder"
	"github.com/Zklib/zklang/expr"
	"github.com/Zklib/zklang/field"
	"github.com/Zklib/zklang/programs"
	"github.com/Zklib/zklang/r1cs"
	"github.com/Zklib/zklang/test"
)

func ins(xs ...int64) []*big.Int {
	res := make([]*big.Int, len(xs))
	for i, x := range xs {
		res[i] = big.NewInt(x)
	}
	return res
}

func TestEndToEnd(t *testing.T) {
	cases := []struct {
		name   string
		inputs []*big.Int
		want   int64
	}{
		{"square-plus", ins(3), 12},
		{"sum3", ins(4, 5, 6), 15},
		{"eq-select", ins(7, 7), 1},
		{"eq-select", ins(7, 8), 0},
		{"pair-mul", ins(), 6},
		{"weighted-sum", ins(2), 20},
	}
	a := test.NewAssert(t)
	for _, tc := range cases {
		entry, ok := programs.Lookup(tc.name)
		require.True(t, ok, tc.name)
		a.CheckSucceeded(entry.Program, tc.inputs, tc.want)
	}
}

func TestCheckInputArityMismatch(t *testing.T) {
	entry, _ := programs.Lookup("square-plus")
	test.NewAssert(t).CheckFailed(entry.Program, ins(3, 4), r1cs.ErrInputArityMismatch)
}

func TestCheckDivByZero(t *testing.T) {
	entry, _ := programs.Lookup("div")
	a := test.NewAssert(t)
	a.CheckSucceeded(entry.Program, ins(12, 4), 3)
	a.CheckFailed(entry.Program, ins(12, 0), r1cs.ErrDivByZero)
	a.CheckFailed(entry.Program, ins(0, 0), r1cs.ErrDivByZero)
}

func TestCheckResultFields(t *testing.T) {
	entry, _ := programs.Lookup("square-plus")
	res, err := zklang.Check(entry.Program, ins(3))
	require.NoError(t, err)
	require.True(t, res.Sat)
	require.Greater(t, res.NbVars, 1)
	require.Greater(t, res.NbConstraints, 0)
	require.NotEmpty(t, res.Serialized)

	order := field.BN254().Field()
	require.Equal(t,
		"sat = true, vars = "+itoa(res.NbVars)+", constraints = "+itoa(res.NbConstraints)+", result = 12",
		res.Record(order))
}

func itoa(x int) string {
	return big.NewInt(int64(x)).String()
}

func TestFormatResidue(t *testing.T) {
	order := field.BN254().Field()
	f := field.BN254()

	toResidue := func(num, den int64) *big.Int {
		n := f.FromInterface(big.NewInt(num))
		d := f.FromInterface(big.NewInt(den))
		inv, ok := f.Inverse(d)
		require.True(t, ok)
		return f.ToBigInt(f.Mul(n, inv))
	}

	require.Equal(t, "42", zklang.FormatResidue(order, big.NewInt(42)))
	require.Equal(t, "0", zklang.FormatResidue(order, big.NewInt(0)))
	require.Equal(t, "-1", zklang.FormatResidue(order, new(big.Int).Sub(order, big.NewInt(1))))
	require.Equal(t, "3/2", zklang.FormatResidue(order, toResidue(3, 2)))
	require.Equal(t, "-5/7", zklang.FormatResidue(order, toResidue(-5, 7)))
}

func TestSerializedRoundTripsThroughParse(t *testing.T) {
	entry, _ := programs.Lookup("eq-select")
	res, err := zklang.Check(entry.Program, ins(1, 2))
	require.NoError(t, err)

	sys, err := r1cs.ParseSystem(strings.NewReader(res.Serialized))
	require.NoError(t, err)
	w, err := sys.Solve(ins(1, 2))
	require.NoError(t, err)
	require.True(t, sys.Sat(w))
}

// randomProgram folds a chain of arithmetic operations over one input.
func randomProgram(opcodes []uint8) zklang.Program {
	return func(b *builder.Builder) builder.Comp {
		return b.Input().Bind(func(x *expr.Expr) builder.Comp {
			acc := builder.Pure(x)
			for i, op := range opcodes {
				c := b.Const(int64(i%7) + 2)
				switch op % 4 {
				case 0:
					acc = b.Add(acc, c)
				case 1:
					acc = b.Sub(acc, c)
				case 2:
					acc = b.Mul(acc, builder.Pure(x))
				case 3:
					acc = b.Div(acc, c)
				}
			}
			return acc
		})
	}
}

func TestRandomArithmeticPrograms(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("solved witnesses satisfy their systems", prop.ForAll(
		func(opcodes []uint8, input int64) bool {
			cr, err := zklang.Compile(randomProgram(opcodes))
			if err != nil {
				return false
			}
			sys := cr.System
			for _, c := range sys.Constraints {
				for _, l := range []r1cs.LinComb{c.A, c.B, c.C} {
					for _, term := range l {
						if term.VID >= sys.NbWires {
							return false
						}
					}
				}
			}
			w, err := sys.Solve(ins(input))
			if err != nil {
				return false
			}
			return sys.Sat(w)
		},
		gen.SliceOf(gen.UInt8()),
		gen.Int64Range(-1000, 1000),
	))

	properties.TestingRun(t)
}
