package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFieldFromOrder(t *testing.T) {
	f := GetFieldFromOrder(BN254().Field())
	require.Equal(t, 0, f.Field().Cmp(BN254().Field()))
	require.Panics(t, func() {
		GetFieldFromOrder(big.NewInt(17))
	})
}

func TestArithmetic(t *testing.T) {
	f := BN254()
	a := f.FromInterface(big.NewInt(20))
	b := f.FromInterface(big.NewInt(4))

	require.Equal(t, int64(24), f.ToBigInt(f.Add(a, b)).Int64())
	require.Equal(t, int64(16), f.ToBigInt(f.Sub(a, b)).Int64())
	require.Equal(t, int64(80), f.ToBigInt(f.Mul(a, b)).Int64())

	inv, ok := f.Inverse(b)
	require.True(t, ok)
	require.Equal(t, int64(5), f.ToBigInt(f.Mul(a, inv)).Int64())

	_, ok = f.Inverse(f.FromInterface(big.NewInt(0)))
	require.False(t, ok)

	u, ok := f.Uint64(b)
	require.True(t, ok)
	require.Equal(t, uint64(4), u)
	require.True(t, f.IsOne(f.One()))
}
