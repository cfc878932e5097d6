package keeper_test

import (
	"testing"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/tokenswap/testutil/keeper"
	"github.com/paw-chain/tokenswap/x/swap/keeper"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

func TestQueryServer(t *testing.T) {
	k, l, ctx := keepertest.SwapKeeper(t)
	qs := keeper.NewQueryServerImpl(*k)

	seedPool(t, k, l, ctx, alice, 7, 1000, 1000)
	keepertest.FundAccount(t, l, ctx, bob, 0, map[uint64]uint64{7: 30})
	for price := uint64(3); price > 0; price-- {
		_, err := k.CreateSellOrder(ctx, bob, 7, u(10), u(price))
		require.NoError(t, err)
	}

	params, err := qs.Params(ctx, &types.QueryParamsRequest{})
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), params.Params)

	order, err := qs.Order(ctx, &types.QueryOrderRequest{OrderID: 2})
	require.NoError(t, err)
	requireAmount(t, 2, order.Order.Price)
	_, err = qs.Order(ctx, &types.QueryOrderRequest{OrderID: 99})
	require.ErrorIs(t, err, types.ErrNoSwapExists)

	book, err := qs.OrdersByToken(ctx, &types.QueryOrdersByTokenRequest{TokenID: 7})
	require.NoError(t, err)
	require.Len(t, book.Orders, 3)
	require.Equal(t, uint64(3), book.Orders[0].ID, "cheapest first")

	book, err = qs.OrdersByToken(ctx, &types.QueryOrdersByTokenRequest{TokenID: 7, Limit: 2})
	require.NoError(t, err)
	require.Len(t, book.Orders, 2)

	bySeller, err := qs.OrdersBySeller(ctx, &types.QueryOrdersBySellerRequest{Seller: bob.String()})
	require.NoError(t, err)
	require.Len(t, bySeller.Orders, 3)
	_, err = qs.OrdersBySeller(ctx, &types.QueryOrdersBySellerRequest{Seller: "bogus"})
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	pool, err := qs.Pool(ctx, &types.QueryPoolRequest{TokenID: 7})
	require.NoError(t, err)
	requireAmount(t, 1000, pool.Pool.TotalShares)
	_, err = qs.Pool(ctx, &types.QueryPoolRequest{TokenID: 8})
	require.ErrorIs(t, err, types.ErrNoLiquidity)

	pools, err := qs.Pools(ctx, &types.QueryPoolsRequest{})
	require.NoError(t, err)
	require.Len(t, pools.Pools, 1)

	position, err := qs.Position(ctx, &types.QueryPositionRequest{TokenID: 7, Provider: alice.String()})
	require.NoError(t, err)
	requireAmount(t, 1000, position.Shares)
	position, err = qs.Position(ctx, &types.QueryPositionRequest{TokenID: 7, Provider: carol.String()})
	require.NoError(t, err)
	requireAmount(t, 0, position.Shares)

	spot, err := qs.SpotPrice(ctx, &types.QuerySpotPriceRequest{TokenID: 7})
	require.NoError(t, err)
	requireAmount(t, 1, spot.Price)
	_, err = qs.SpotPrice(ctx, &types.QuerySpotPriceRequest{TokenID: 8})
	require.ErrorIs(t, err, types.ErrTooLowLiquidity)

	quote, err := qs.QuoteSwap(ctx, &types.QueryQuoteSwapRequest{TokenID: 7, Direction: types.TokenToCurrency, AmountIn: u(100)})
	require.NoError(t, err)
	requireAmount(t, 90, quote.AmountOut)
	_, err = qs.QuoteSwap(ctx, &types.QueryQuoteSwapRequest{TokenID: 7, AmountIn: u(100)})
	require.ErrorIs(t, err, types.ErrNoneValue)

	// a book order covers the volume at price 1
	buy, err := qs.QuoteBuy(ctx, &types.QueryQuoteBuyRequest{TokenID: 7, MaxPrice: u(2), Volume: u(10)})
	require.NoError(t, err)
	require.Equal(t, types.RouteOrderBook, buy.Route)
	require.Equal(t, uint64(3), buy.OrderID)
	requireAmount(t, 10, buy.Cost)

	// nothing in the book covers 11 tokens, so the pool quotes it
	buy, err = qs.QuoteBuy(ctx, &types.QueryQuoteBuyRequest{TokenID: 7, MaxPrice: u(2), Volume: u(11)})
	require.NoError(t, err)
	require.Equal(t, types.RoutePool, buy.Route)
	require.Equal(t, uint64(0), buy.OrderID)

	// quotes never change state
	pool, err = qs.Pool(ctx, &types.QueryPoolRequest{TokenID: 7})
	require.NoError(t, err)
	requireAmount(t, 1000, pool.Pool.TokenReserve)
	require.Equal(t, uint64(4), k.GetNextOrderID(ctx))
}

func TestQueryServer_NilRequests(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)
	qs := keeper.NewQueryServerImpl(*k)

	_, err := qs.Params(ctx, nil)
	require.ErrorIs(t, err, sdkerrors.ErrInvalidRequest)
	_, err = qs.Order(ctx, nil)
	require.ErrorIs(t, err, sdkerrors.ErrInvalidRequest)
	_, err = qs.Pools(ctx, nil)
	require.ErrorIs(t, err, sdkerrors.ErrInvalidRequest)
	_, err = qs.QuoteBuy(ctx, nil)
	require.ErrorIs(t, err, sdkerrors.ErrInvalidRequest)
}
