package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	keepertest "github.com/paw-chain/tokenswap/testutil/keeper"
	"github.com/paw-chain/tokenswap/x/swap/keeper"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

func TestSwapExactIn_ReferenceCase(t *testing.T) {
	k, l, ctx := keepertest.SwapKeeper(t)
	seedPool(t, k, l, ctx, alice, 7, 1000, 1000)

	pool, found, err := k.GetPool(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	requireAmount(t, 1000, pool.TotalShares)

	keepertest.FundAccount(t, l, ctx, bob, 0, map[uint64]uint64{7: 100})
	out, err := k.SwapExactIn(ctx, bob, 7, types.TokenToCurrency, u(100), u(0))
	require.NoError(t, err)
	requireAmount(t, 90, out)

	pool, _, err = k.GetPool(ctx, 7)
	require.NoError(t, err)
	requireAmount(t, 1100, pool.TokenReserve)
	requireAmount(t, 910, pool.CurrencyReserve)

	requireAmount(t, 0, tokensOf(l, ctx, bob, 7))
	requireAmount(t, 90, currencyOf(l, ctx, bob))
	requireAmount(t, 1100, tokensOf(l, ctx, k.GetModuleAddress(), 7))
	requireAmount(t, 910, currencyOf(l, ctx, k.GetModuleAddress()))
}

func TestQuoteExactIn_FeeIsNotTruncatedSeparately(t *testing.T) {
	pool := types.Pool{TokenID: 7, TokenReserve: u(1000), CurrencyReserve: u(1000), TotalShares: u(1000)}
	params := types.DefaultParams()

	tests := []struct {
		name     string
		amountIn uint64
		out      uint64
	}{
		// truncating in*(D-N)/D first would give 9 and then 8
		{name: "small input", amountIn: 10, out: 9},
		// 50*997/1000 = 49.85 truncated to 49 would give 46
		{name: "fractional fee", amountIn: 50, out: 47},
		{name: "reference", amountIn: 100, out: 90},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := keeper.QuoteExactIn(pool, params, types.TokenToCurrency, u(tc.amountIn))
			require.NoError(t, err)
			requireAmount(t, tc.out, out)
		})
	}
}

func TestSwapExactIn_Errors(t *testing.T) {
	k, l, ctx := keepertest.SwapKeeper(t)
	seedPool(t, k, l, ctx, alice, 7, 1000, 1000)
	keepertest.FundAccount(t, l, ctx, bob, 1000, map[uint64]uint64{7: 1000})

	tests := []struct {
		name      string
		tokenID   uint64
		direction types.Direction
		amountIn  uint64
		minOut    uint64
		err       error
	}{
		{name: "zero tokens in", tokenID: 7, direction: types.TokenToCurrency, amountIn: 0, err: types.ErrNoTokensSwapped},
		{name: "zero currency in", tokenID: 7, direction: types.CurrencyToToken, amountIn: 0, err: types.ErrNoCurrencySwapped},
		{name: "no pool", tokenID: 8, direction: types.TokenToCurrency, amountIn: 10, err: types.ErrTooLowLiquidity},
		{name: "output rounds to zero currency", tokenID: 7, direction: types.TokenToCurrency, amountIn: 1, err: types.ErrNoCurrencySwapped},
		{name: "currency out below minimum", tokenID: 7, direction: types.TokenToCurrency, amountIn: 100, minOut: 91, err: types.ErrTooExpensiveCurrency},
		{name: "tokens out below minimum", tokenID: 7, direction: types.CurrencyToToken, amountIn: 100, minOut: 91, err: types.ErrTooExpensiveTokens},
		{name: "trader lacks funds", tokenID: 7, direction: types.TokenToCurrency, amountIn: 5000, err: types.ErrInsufficientFunds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cacheCtx, _ := ctx.CacheContext()
			_, err := k.SwapExactIn(cacheCtx, bob, tc.tokenID, tc.direction, u(tc.amountIn), u(tc.minOut))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSwapExactOut(t *testing.T) {
	k, l, ctx := keepertest.SwapKeeper(t)
	seedPool(t, k, l, ctx, alice, 7, 1000, 1000)
	keepertest.FundAccount(t, l, ctx, bob, 1000, nil)

	// ceil(1000 * 10 * 1000 / (990 * 997)) = 11
	_, err := k.SwapExactOut(ctx, bob, 7, types.CurrencyToToken, u(10), u(10))
	require.ErrorIs(t, err, types.ErrTooExpensiveCurrency)

	paid, err := k.SwapExactOut(ctx, bob, 7, types.CurrencyToToken, u(10), u(11))
	require.NoError(t, err)
	requireAmount(t, 11, paid)
	requireAmount(t, 10, tokensOf(l, ctx, bob, 7))
	requireAmount(t, 989, currencyOf(l, ctx, bob))

	pool, _, err := k.GetPool(ctx, 7)
	require.NoError(t, err)
	requireAmount(t, 990, pool.TokenReserve)
	requireAmount(t, 1011, pool.CurrencyReserve)

	_, err = k.SwapExactOut(ctx, bob, 7, types.CurrencyToToken, u(990), u(1_000_000))
	require.ErrorIs(t, err, types.ErrTooLowLiquidity)

	keepertest.FundAccount(t, l, ctx, bob, 0, map[uint64]uint64{7: 100})
	_, err = k.SwapExactOut(ctx, bob, 7, types.TokenToCurrency, u(100), u(1))
	require.ErrorIs(t, err, types.ErrTooExpensiveTokens)
}

func TestQuoteExactIn_MatchesExecution(t *testing.T) {
	pool := types.Pool{TokenID: 1, TokenReserve: u(5000), CurrencyReserve: u(20000), TotalShares: u(5000)}
	params := types.DefaultParams()

	out, err := keeper.QuoteExactIn(pool, params, types.CurrencyToToken, u(1000))
	require.NoError(t, err)
	// 5000 * 1000 * 997 / (20000 * 1000 + 1000 * 997) = 237.41...
	requireAmount(t, 237, out)

	in, err := keeper.QuoteExactOut(pool, params, types.CurrencyToToken, out)
	require.NoError(t, err)
	require.True(t, in.LTE(u(1000)), "buying back the quoted output never costs more than the input")

	price, err := keeper.SpotPrice(pool)
	require.NoError(t, err)
	requireAmount(t, 4, price)

	_, err = keeper.SpotPrice(types.NewEmptyPool(2))
	require.ErrorIs(t, err, types.ErrTooLowLiquidity)
}

func TestQuoteExactIn_ZeroFee(t *testing.T) {
	pool := types.Pool{TokenID: 1, TokenReserve: u(1000), CurrencyReserve: u(1000), TotalShares: u(1000)}

	out, err := keeper.QuoteExactIn(pool, types.NewParams(0, 1), types.TokenToCurrency, u(1000))
	require.NoError(t, err)
	requireAmount(t, 500, out)
}

func TestSwap_ProductNeverDecreases(t *testing.T) {
	k, l, ctx := keepertest.SwapKeeper(t)

	rapid.Check(t, func(rt *rapid.T) {
		cacheCtx, _ := ctx.CacheContext()

		tokens := rapid.Uint64Range(1_000, 1_000_000_000_000).Draw(rt, "tokens")
		currency := rapid.Uint64Range(1_000, 1_000_000_000_000).Draw(rt, "currency")
		keepertest.FundAccount(t, l, cacheCtx, alice, currency, map[uint64]uint64{1: tokens})
		_, _, err := k.AddLiquidity(cacheCtx, alice, 1, u(tokens), u(currency))
		require.NoError(rt, err)

		keepertest.FundAccount(t, l, cacheCtx, bob, 1<<62, map[uint64]uint64{1: 1 << 62})

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before, _, err := k.GetPool(cacheCtx, 1)
			require.NoError(rt, err)

			d := rapid.SampledFrom([]types.Direction{types.TokenToCurrency, types.CurrencyToToken}).Draw(rt, "direction")
			amountIn := rapid.Uint64Range(1, 1_000_000_000_000).Draw(rt, "amountIn")
			if _, err := k.SwapExactIn(cacheCtx, bob, 1, d, u(amountIn), math.ZeroUint()); err != nil {
				// tiny inputs may round to zero output
				require.ErrorIs(rt, err, zeroOutputErr(d))
				continue
			}

			after, _, err := k.GetPool(cacheCtx, 1)
			require.NoError(rt, err)
			require.Equal(rt, 1, after.ConstantProduct().Cmp(before.ConstantProduct()),
				"product must strictly increase with a non-zero fee: %s -> %s", before.ConstantProduct(), after.ConstantProduct())
			requireAmount(rt, before.TotalShares.Uint64(), after.TotalShares)
		}
	})
}

func zeroOutputErr(d types.Direction) error {
	if d == types.TokenToCurrency {
		return types.ErrNoCurrencySwapped
	}
	return types.ErrNoTokensSwapped
}

func TestSwap_ReserveCap(t *testing.T) {
	k, l, ctx := keepertest.SwapKeeper(t)
	seedPool(t, k, l, ctx, alice, 3, 1000, 1000)

	huge := new(big.Int).Lsh(big.NewInt(1), 128)
	amount := math.NewUintFromBigInt(huge)
	require.NoError(t, l.Mint(ctx, bob, types.Token(3), amount))

	_, err := k.SwapExactIn(ctx, bob, 3, types.TokenToCurrency, amount, math.ZeroUint())
	require.ErrorIs(t, err, types.ErrStorageOverflow)
}
