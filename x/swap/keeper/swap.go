package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// errNothingSwapped is the zero-amount error for an asset.
func errNothingSwapped(asset types.Asset) *errorsmod.Error {
	if asset.IsCurrency() {
		return types.ErrNoCurrencySwapped
	}
	return types.ErrNoTokensSwapped
}

// errOutputBelowMinimum is the slippage error for an output asset.
func errOutputBelowMinimum(asset types.Asset) *errorsmod.Error {
	if asset.IsCurrency() {
		return types.ErrTooExpensiveCurrency
	}
	return types.ErrTooExpensiveTokens
}

// errInputAboveMaximum is the slippage error for an input asset.
func errInputAboveMaximum(asset types.Asset) *errorsmod.Error {
	if asset.IsCurrency() {
		return types.ErrTooExpensiveCurrency
	}
	return types.ErrTooExpensiveTokens
}

// QuoteExactIn returns the output of selling amountIn into the pool:
//
//	out = reserve_out * in * (D - N) / (reserve_in * D + in * (D - N))
//
// The fee stays in the pool, so the product of reserves never decreases.
func QuoteExactIn(pool types.Pool, params types.Params, d types.Direction, amountIn math.Uint) (math.Uint, error) {
	assetIn, assetOut := d.Assets(pool.TokenID)
	if types.IsZeroAmount(amountIn) {
		return math.Uint{}, errNothingSwapped(assetIn)
	}
	if !pool.HasLiquidity() {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrapf("pool %d has no reserves", pool.TokenID)
	}

	reserveIn, reserveOut := pool.Reserves(d)
	inWithFee, err := SafeMul(amountIn, math.NewUint(params.FeeFactor()))
	if err != nil {
		return math.Uint{}, err
	}
	numerator, err := SafeMul(reserveOut, inWithFee)
	if err != nil {
		return math.Uint{}, err
	}
	scaledReserve, err := SafeMul(reserveIn, math.NewUint(params.FeeDenominator))
	if err != nil {
		return math.Uint{}, err
	}
	denominator, err := SafeAdd(scaledReserve, inWithFee)
	if err != nil {
		return math.Uint{}, err
	}
	amountOut, err := SafeQuo(numerator, denominator)
	if err != nil {
		return math.Uint{}, err
	}
	if amountOut.IsZero() {
		return math.Uint{}, errNothingSwapped(assetOut).Wrapf("%s in yields no %s", amountIn, assetOut)
	}
	return amountOut, nil
}

// QuoteExactOut returns the input needed to take amountOut from the pool,
// rounded up in favour of the pool:
//
//	in = ceil(reserve_in * out * D / ((reserve_out - out) * (D - N)))
func QuoteExactOut(pool types.Pool, params types.Params, d types.Direction, amountOut math.Uint) (math.Uint, error) {
	_, assetOut := d.Assets(pool.TokenID)
	if types.IsZeroAmount(amountOut) {
		return math.Uint{}, errNothingSwapped(assetOut)
	}
	if !pool.HasLiquidity() {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrapf("pool %d has no reserves", pool.TokenID)
	}

	reserveIn, reserveOut := pool.Reserves(d)
	if amountOut.GTE(reserveOut) {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrapf("requested %s of %s, reserve is %s", amountOut, assetOut, reserveOut)
	}

	numerator, err := SafeMul(reserveIn, amountOut)
	if err != nil {
		return math.Uint{}, err
	}
	numerator, err = SafeMul(numerator, math.NewUint(params.FeeDenominator))
	if err != nil {
		return math.Uint{}, err
	}
	denominator, err := SafeMul(reserveOut.Sub(amountOut), math.NewUint(params.FeeFactor()))
	if err != nil {
		return math.Uint{}, err
	}
	return SafeQuoCeil(numerator, denominator)
}

// SpotPrice returns the marginal price of one token in currency, truncated.
func SpotPrice(pool types.Pool) (math.Uint, error) {
	if !pool.HasLiquidity() {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrapf("pool %d has no reserves", pool.TokenID)
	}
	return SafeQuo(pool.CurrencyReserve, pool.TokenReserve)
}

// liquidPool loads a pool that can be traded against.
func (k Keeper) liquidPool(ctx context.Context, tokenID uint64) (types.Pool, error) {
	pool, found, err := k.GetPool(ctx, tokenID)
	if err != nil {
		return types.Pool{}, err
	}
	if !found || !pool.HasLiquidity() {
		return types.Pool{}, types.ErrTooLowLiquidity.Wrapf("no liquidity for token %d", tokenID)
	}
	return pool, nil
}

// settleSwap moves funds and updates reserves for a swap of amountIn for amountOut.
func (k Keeper) settleSwap(ctx context.Context, trader sdk.AccAddress, pool types.Pool, d types.Direction, amountIn, amountOut math.Uint) error {
	assetIn, assetOut := d.Assets(pool.TokenID)
	reserveIn, reserveOut := pool.Reserves(d)

	newReserveIn, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return err
	}
	if newReserveIn.GT(types.MaxReserve) {
		return types.ErrStorageOverflow.Wrapf("%s reserve of pool %d would exceed %s", assetIn, pool.TokenID, types.MaxReserve)
	}
	newReserveOut, err := SafeSub(reserveOut, amountOut)
	if err != nil {
		return err
	}

	if err := k.transfer(ctx, trader, k.moduleAddress, assetIn, amountIn); err != nil {
		return err
	}
	if err := k.transfer(ctx, k.moduleAddress, trader, assetOut, amountOut); err != nil {
		return err
	}

	if err := k.SetPool(ctx, pool.WithReserves(d, newReserveIn, newReserveOut)); err != nil {
		return err
	}
	return nil
}

// SwapExactIn sells exactly amountIn to the pool of tokenID and returns the
// output, failing if it would be below minAmountOut.
func (k Keeper) SwapExactIn(
	ctx context.Context,
	trader sdk.AccAddress,
	tokenID uint64,
	d types.Direction,
	amountIn, minAmountOut math.Uint,
) (math.Uint, error) {
	if err := d.Validate(); err != nil {
		return math.Uint{}, types.ErrNoneValue.Wrap(err.Error())
	}
	assetIn, assetOut := d.Assets(tokenID)
	if types.IsZeroAmount(amountIn) {
		return math.Uint{}, errNothingSwapped(assetIn)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Uint{}, err
	}
	pool, err := k.liquidPool(ctx, tokenID)
	if err != nil {
		return math.Uint{}, err
	}

	amountOut, err := QuoteExactIn(pool, params, d, amountIn)
	if err != nil {
		return math.Uint{}, err
	}
	if !types.IsZeroAmount(minAmountOut) && amountOut.LT(minAmountOut) {
		return math.Uint{}, errOutputBelowMinimum(assetOut).Wrapf("output %s below minimum %s", amountOut, minAmountOut)
	}

	if err := k.settleSwap(ctx, trader, pool, d, amountIn, amountOut); err != nil {
		return math.Uint{}, err
	}
	return amountOut, nil
}

// SwapExactOut buys exactly amountOut from the pool of tokenID and returns
// the input paid, failing if it would exceed maxAmountIn.
func (k Keeper) SwapExactOut(
	ctx context.Context,
	trader sdk.AccAddress,
	tokenID uint64,
	d types.Direction,
	amountOut, maxAmountIn math.Uint,
) (math.Uint, error) {
	if err := d.Validate(); err != nil {
		return math.Uint{}, types.ErrNoneValue.Wrap(err.Error())
	}
	assetIn, assetOut := d.Assets(tokenID)
	if types.IsZeroAmount(amountOut) {
		return math.Uint{}, errNothingSwapped(assetOut)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Uint{}, err
	}
	pool, err := k.liquidPool(ctx, tokenID)
	if err != nil {
		return math.Uint{}, err
	}

	amountIn, err := QuoteExactOut(pool, params, d, amountOut)
	if err != nil {
		return math.Uint{}, err
	}
	if !maxAmountIn.IsNil() && amountIn.GT(maxAmountIn) {
		return math.Uint{}, errInputAboveMaximum(assetIn).Wrapf("input %s above maximum %s", amountIn, maxAmountIn)
	}

	if err := k.settleSwap(ctx, trader, pool, d, amountIn, amountOut); err != nil {
		return math.Uint{}, err
	}
	return amountIn, nil
}
