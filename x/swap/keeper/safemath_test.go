package keeper

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

func maxUint256() math.Uint {
	return math.NewUintFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))
}

func TestSafeAdd(t *testing.T) {
	sum, err := SafeAdd(math.NewUint(2), math.NewUint(3))
	require.NoError(t, err)
	require.Equal(t, math.NewUint(5).String(), sum.String())

	_, err = SafeAdd(maxUint256(), math.OneUint())
	require.ErrorIs(t, err, types.ErrStorageOverflow)
}

func TestSafeSub(t *testing.T) {
	diff, err := SafeSub(math.NewUint(5), math.NewUint(3))
	require.NoError(t, err)
	require.Equal(t, math.NewUint(2).String(), diff.String())

	_, err = SafeSub(math.NewUint(3), math.NewUint(5))
	require.ErrorIs(t, err, types.ErrStorageOverflow)
}

func TestSafeMul(t *testing.T) {
	product, err := SafeMul(math.NewUint(6), math.NewUint(7))
	require.NoError(t, err)
	require.Equal(t, math.NewUint(42).String(), product.String())

	product, err = SafeMul(maxUint256(), math.ZeroUint())
	require.NoError(t, err)
	require.True(t, product.IsZero())

	_, err = SafeMul(maxUint256(), math.NewUint(2))
	require.ErrorIs(t, err, types.ErrStorageOverflow)
}

func TestSafeQuo(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		floor   uint64
		ceil    uint64
		zeroDiv bool
	}{
		{name: "exact", a: 10, b: 5, floor: 2, ceil: 2},
		{name: "remainder", a: 10, b: 3, floor: 3, ceil: 4},
		{name: "below one", a: 1, b: 3, floor: 0, ceil: 1},
		{name: "zero numerator", a: 0, b: 3, floor: 0, ceil: 0},
		{name: "zero divisor", a: 1, b: 0, zeroDiv: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			floor, err := SafeQuo(math.NewUint(tc.a), math.NewUint(tc.b))
			if tc.zeroDiv {
				require.ErrorIs(t, err, types.ErrTooLowLiquidity)
				_, err = SafeQuoCeil(math.NewUint(tc.a), math.NewUint(tc.b))
				require.ErrorIs(t, err, types.ErrTooLowLiquidity)
				return
			}
			require.NoError(t, err)
			require.Equal(t, math.NewUint(tc.floor).String(), floor.String())

			ceil, err := SafeQuoCeil(math.NewUint(tc.a), math.NewUint(tc.b))
			require.NoError(t, err)
			require.Equal(t, math.NewUint(tc.ceil).String(), ceil.String())
		})
	}
}

func TestSafeMulDiv(t *testing.T) {
	// the intermediate product exceeds 256 bits but the quotient fits
	v, err := SafeMulDiv(maxUint256(), math.NewUint(2), math.NewUint(4))
	require.NoError(t, err)
	require.Equal(t, new(big.Int).Rsh(maxUint256().BigInt(), 1).String(), v.String())

	v, err = SafeMulDiv(maxUint256(), maxUint256(), maxUint256())
	require.NoError(t, err)
	require.Equal(t, maxUint256().String(), v.String())

	_, err = SafeMulDiv(maxUint256(), math.NewUint(2), math.NewUint(1))
	require.ErrorIs(t, err, types.ErrStorageOverflow)

	_, err = SafeMulDiv(math.NewUint(1), math.NewUint(2), math.ZeroUint())
	require.ErrorIs(t, err, types.ErrTooLowLiquidity)

	v, err = SafeMulDivCeil(math.NewUint(7), math.NewUint(3), math.NewUint(2))
	require.NoError(t, err)
	require.Equal(t, math.NewUint(11).String(), v.String())

	v, err = SafeMulDivCeil(maxUint256(), math.NewUint(3), math.NewUint(3))
	require.NoError(t, err)
	require.Equal(t, maxUint256().String(), v.String())

	_, err = SafeMulDivCeil(maxUint256(), math.NewUint(3), math.NewUint(2))
	require.ErrorIs(t, err, types.ErrStorageOverflow)

	_, err = SafeMulDivCeil(math.NewUint(1), math.NewUint(2), math.ZeroUint())
	require.ErrorIs(t, err, types.ErrTooLowLiquidity)
}

func TestSafeIncrUint64(t *testing.T) {
	next, err := SafeIncrUint64(41)
	require.NoError(t, err)
	require.Equal(t, uint64(42), next)

	_, err = SafeIncrUint64(^uint64(0))
	require.ErrorIs(t, err, types.ErrStorageOverflow)
}
