package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// AddLiquidity deposits tokenAmount tokens into the pool of tokenID along
// with the matching currency, and mints shares to the provider.
//
// The first deposit into an empty pool sets the price: the provider gets
// tokenAmount shares and the full currencyAmount is deposited. Later deposits
// must keep the reserve ratio; the currency they need is rounded up and only
// that much is taken, currencyAmount acting as the upper bound.
//
// Returns the minted shares and the currency actually deposited.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	tokenID uint64,
	tokenAmount, currencyAmount math.Uint,
) (shares, currencyUsed math.Uint, err error) {
	if types.IsZeroAmount(tokenAmount) {
		return math.Uint{}, math.Uint{}, types.ErrZeroTokens
	}
	if types.IsZeroAmount(currencyAmount) {
		return math.Uint{}, math.Uint{}, types.ErrZeroAmount
	}

	pool, found, err := k.GetPool(ctx, tokenID)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if !found {
		pool = types.NewEmptyPool(tokenID)
	}

	if pool.TotalShares.IsZero() {
		shares = tokenAmount
		currencyUsed = currencyAmount
	} else {
		currencyUsed, err = SafeMulDivCeil(tokenAmount, pool.CurrencyReserve, pool.TokenReserve)
		if err != nil {
			return math.Uint{}, math.Uint{}, err
		}
		if currencyAmount.LT(currencyUsed) {
			return math.Uint{}, math.Uint{}, types.ErrNotEnoughCurrency.Wrapf(
				"deposit of %s tokens needs %s currency, %s offered", tokenAmount, currencyUsed, currencyAmount)
		}
		shares, err = SafeMulDiv(pool.TotalShares, tokenAmount, pool.TokenReserve)
		if err != nil {
			return math.Uint{}, math.Uint{}, err
		}
		if shares.IsZero() {
			return math.Uint{}, math.Uint{}, types.ErrRequestedZeroLiquidity.Wrapf(
				"deposit of %s tokens mints no shares", tokenAmount)
		}
	}

	newTokenReserve, err := SafeAdd(pool.TokenReserve, tokenAmount)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if newTokenReserve.GT(types.MaxReserve) {
		return math.Uint{}, math.Uint{}, types.ErrTooManyTokens.Wrapf("token reserve of pool %d would exceed %s", tokenID, types.MaxReserve)
	}
	newCurrencyReserve, err := SafeAdd(pool.CurrencyReserve, currencyUsed)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if newCurrencyReserve.GT(types.MaxReserve) {
		return math.Uint{}, math.Uint{}, types.ErrStorageOverflow.Wrapf("currency reserve of pool %d would exceed %s", tokenID, types.MaxReserve)
	}
	newTotalShares, err := SafeAdd(pool.TotalShares, shares)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	position, err := SafeAdd(k.GetPosition(ctx, tokenID, provider), shares)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}

	if err := k.transfer(ctx, provider, k.moduleAddress, types.Token(tokenID), tokenAmount); err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if err := k.transfer(ctx, provider, k.moduleAddress, types.Currency(), currencyUsed); err != nil {
		return math.Uint{}, math.Uint{}, err
	}

	pool.TokenReserve = newTokenReserve
	pool.CurrencyReserve = newCurrencyReserve
	pool.TotalShares = newTotalShares
	if err := k.SetPool(ctx, pool); err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if err := k.SetPosition(ctx, tokenID, provider, position); err != nil {
		return math.Uint{}, math.Uint{}, err
	}

	return shares, currencyUsed, nil
}

// RemoveLiquidity burns shares of the provider's position and pays out the
// proportional part of both reserves. The pool is deleted once its last share
// is burned.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	tokenID uint64,
	shares, minTokens, minCurrency math.Uint,
) (tokenOut, currencyOut math.Uint, err error) {
	if types.IsZeroAmount(shares) {
		return math.Uint{}, math.Uint{}, types.ErrBurnZeroShares
	}

	pool, found, err := k.GetPool(ctx, tokenID)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if !found || !pool.HasLiquidity() {
		return math.Uint{}, math.Uint{}, types.ErrNoLiquidity.Wrapf("pool %d", tokenID)
	}

	position := k.GetPosition(ctx, tokenID, provider)
	if position.LT(shares) {
		return math.Uint{}, math.Uint{}, types.ErrInsufficientShares.Wrapf("have %s shares, burning %s", position, shares)
	}

	tokenOut, err = SafeMulDiv(pool.TokenReserve, shares, pool.TotalShares)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	currencyOut, err = SafeMulDiv(pool.CurrencyReserve, shares, pool.TotalShares)
	if err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if !types.IsZeroAmount(minTokens) && tokenOut.LT(minTokens) {
		return math.Uint{}, math.Uint{}, types.ErrNotEnoughTokens.Wrapf("payout %s below minimum %s", tokenOut, minTokens)
	}
	if !types.IsZeroAmount(minCurrency) && currencyOut.LT(minCurrency) {
		return math.Uint{}, math.Uint{}, types.ErrNotEnoughCurrency.Wrapf("payout %s below minimum %s", currencyOut, minCurrency)
	}

	if pool.TokenReserve, err = SafeSub(pool.TokenReserve, tokenOut); err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if pool.CurrencyReserve, err = SafeSub(pool.CurrencyReserve, currencyOut); err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if pool.TotalShares, err = SafeSub(pool.TotalShares, shares); err != nil {
		return math.Uint{}, math.Uint{}, err
	}

	if err := k.transfer(ctx, k.moduleAddress, provider, types.Token(tokenID), tokenOut); err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if err := k.transfer(ctx, k.moduleAddress, provider, types.Currency(), currencyOut); err != nil {
		return math.Uint{}, math.Uint{}, err
	}

	if err := k.SetPool(ctx, pool); err != nil {
		return math.Uint{}, math.Uint{}, err
	}
	if err := k.SetPosition(ctx, tokenID, provider, position.Sub(shares)); err != nil {
		return math.Uint{}, math.Uint{}, err
	}

	return tokenOut, currencyOut, nil
}
