// Package test provides assertion helpers for end-to-end checks of DSL
// programs.
package test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	zklang "github.com/Zklib/zklang"
	"github.com/Zklib/zklang/checker"
	"github.com/Zklib/zklang/field"
)

type Assert struct {
	t *testing.T
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// CheckSucceeded runs prog on the inputs and requires a satisfied system
// whose output equals want. The solved witness is cross checked with the
// big.Int evaluator.
func (a *Assert) CheckSucceeded(prog zklang.Program, inputs []*big.Int, want int64) *zklang.CheckResult {
	a.t.Helper()
	res, err := zklang.Check(prog, inputs)
	require.NoError(a.t, err)
	require.True(a.t, res.Sat, "system should be satisfied")
	a.crossCheck(prog, inputs)
	requireResidueEqual(a.t, want, res.Output)
	return res
}

// CheckFailed runs prog on the inputs and requires the given error.
func (a *Assert) CheckFailed(prog zklang.Program, inputs []*big.Int, wantErr error) {
	a.t.Helper()
	_, err := zklang.Check(prog, inputs)
	require.ErrorIs(a.t, err, wantErr)
}

func (a *Assert) crossCheck(prog zklang.Program, inputs []*big.Int) {
	a.t.Helper()
	cr, err := zklang.Compile(prog)
	require.NoError(a.t, err)
	w, err := cr.System.Solve(inputs)
	require.NoError(a.t, err)
	require.True(a.t, checker.CheckSystem(cr.System, checker.WitnessValues(cr.System, w)))
}

func requireResidueEqual(t *testing.T, want int64, got *big.Int) {
	t.Helper()
	order := field.BN254().Field()
	expected := new(big.Int).Mod(big.NewInt(want), order)
	require.Equal(t, 0, expected.Cmp(got), "want %d, got residue %s", want, got.String())
}
