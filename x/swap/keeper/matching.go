package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// CreateSellOrder places volume tokens of tokenID in the book at price per
// unit. The tokens are moved into escrow until the order is filled or cancelled.
func (k Keeper) CreateSellOrder(
	ctx context.Context,
	seller sdk.AccAddress,
	tokenID uint64,
	volume, price math.Uint,
) (*types.Order, error) {
	if types.IsZeroAmount(volume) {
		return nil, types.ErrZeroTokens
	}
	if types.IsZeroAmount(price) {
		return nil, types.ErrZeroAmount
	}

	order, err := k.InsertOrder(ctx, seller, tokenID, volume, price)
	if err != nil {
		return nil, err
	}
	if err := k.transfer(ctx, seller, k.moduleAddress, types.Token(tokenID), volume); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(types.SellOrderCreated{
		OrderID: order.ID,
		TokenID: tokenID,
		Volume:  volume,
		Price:   price,
		Seller:  seller,
	}.ToEvent())

	return order, nil
}

// CancelSellOrder removes an order on behalf of its seller and refunds the
// escrowed remainder.
func (k Keeper) CancelSellOrder(ctx context.Context, caller sdk.AccAddress, orderID uint64) (*types.Order, error) {
	order, err := k.RemoveOrder(ctx, orderID, caller)
	if err != nil {
		return nil, err
	}
	if err := k.transfer(ctx, k.moduleAddress, order.Seller, types.Token(order.TokenID), order.Remaining); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(types.SellOrderCancelled{
		OrderID: orderID,
		Status:  true,
	}.ToEvent())

	return order, nil
}

// BuyOrder buys volume tokens of tokenID for at most maxPrice currency each.
//
// The cheapest book order that can cover the whole volume is filled at its
// own price, without fee. When no order qualifies, the volume is bought from
// the pool, paying at most maxPrice * volume including the pool fee. Partial
// fills are not supported.
func (k Keeper) BuyOrder(
	ctx context.Context,
	buyer sdk.AccAddress,
	tokenID uint64,
	maxPrice, volume math.Uint,
	deadline int64,
) (*types.BuyOrderFilled, error) {
	if types.IsZeroAmount(volume) {
		return nil, types.ErrNoTokensSwapped
	}
	if types.IsZeroAmount(maxPrice) {
		return nil, types.ErrNoCurrencySwapped
	}
	if err := checkDeadline(ctx, deadline); err != nil {
		return nil, err
	}

	var (
		fill *types.BuyOrderFilled
		err  error
	)
	if order, found := k.BestMatch(ctx, tokenID, maxPrice, volume); found {
		fill, err = k.fillFromBook(ctx, buyer, *order, volume)
	} else {
		fill, err = k.fillFromPool(ctx, buyer, tokenID, maxPrice, volume)
	}
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(fill.ToEvent())
	return fill, nil
}

func (k Keeper) fillFromBook(ctx context.Context, buyer sdk.AccAddress, order types.Order, volume math.Uint) (*types.BuyOrderFilled, error) {
	cost, err := SafeMul(order.Price, volume)
	if err != nil {
		return nil, err
	}
	if err := k.transfer(ctx, buyer, order.Seller, types.Currency(), cost); err != nil {
		return nil, err
	}
	if err := k.transfer(ctx, k.moduleAddress, buyer, types.Token(order.TokenID), volume); err != nil {
		return nil, err
	}
	if _, err := k.ReduceOrder(ctx, order.ID, volume); err != nil {
		return nil, err
	}

	return &types.BuyOrderFilled{
		OrderID:   order.ID,
		TokenID:   order.TokenID,
		Volume:    volume,
		PricePaid: cost,
		Seller:    order.Seller,
		Buyer:     buyer,
		Route:     types.RouteOrderBook,
	}, nil
}

func (k Keeper) fillFromPool(ctx context.Context, buyer sdk.AccAddress, tokenID uint64, maxPrice, volume math.Uint) (*types.BuyOrderFilled, error) {
	pool, found, err := k.GetPool(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !found || !pool.HasLiquidity() {
		return nil, types.ErrNoTokensSwapped.Wrapf(
			"no sell order of token %d covers %s at or below %s: %s", tokenID, volume, maxPrice, types.ErrTooLowLiquidity)
	}

	maxCost, err := SafeMul(maxPrice, volume)
	if err != nil {
		return nil, err
	}
	paid, err := k.SwapExactOut(ctx, buyer, tokenID, types.CurrencyToToken, volume, maxCost)
	if err != nil {
		return nil, err
	}

	return &types.BuyOrderFilled{
		OrderID:   0,
		TokenID:   tokenID,
		Volume:    volume,
		PricePaid: paid,
		Seller:    k.moduleAddress,
		Buyer:     buyer,
		Route:     types.RoutePool,
	}, nil
}

// QuoteBuy reports how a buy order would be filled right now without
// changing state: the route, the matched order (zero for the pool) and the
// total currency cost.
func (k Keeper) QuoteBuy(ctx context.Context, tokenID uint64, maxPrice, volume math.Uint) (route string, orderID uint64, cost math.Uint, err error) {
	if types.IsZeroAmount(volume) {
		return "", 0, math.Uint{}, types.ErrNoTokensSwapped
	}
	if types.IsZeroAmount(maxPrice) {
		return "", 0, math.Uint{}, types.ErrNoCurrencySwapped
	}

	if order, found := k.BestMatch(ctx, tokenID, maxPrice, volume); found {
		cost, err = SafeMul(order.Price, volume)
		if err != nil {
			return "", 0, math.Uint{}, err
		}
		return types.RouteOrderBook, order.ID, cost, nil
	}

	pool, found, err := k.GetPool(ctx, tokenID)
	if err != nil {
		return "", 0, math.Uint{}, err
	}
	if !found || !pool.HasLiquidity() {
		return "", 0, math.Uint{}, types.ErrNoTokensSwapped.Wrapf("no route for token %d", tokenID)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return "", 0, math.Uint{}, err
	}
	cost, err = QuoteExactOut(pool, params, types.CurrencyToToken, volume)
	if err != nil {
		return "", 0, math.Uint{}, err
	}
	maxCost, err := SafeMul(maxPrice, volume)
	if err != nil {
		return "", 0, math.Uint{}, err
	}
	if cost.GT(maxCost) {
		return "", 0, math.Uint{}, types.ErrTooExpensiveCurrency.Wrapf("pool cost %s above maximum %s", cost, maxCost)
	}
	return types.RoutePool, 0, cost, nil
}
