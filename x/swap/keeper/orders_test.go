package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/tokenswap/testutil/keeper"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

func TestInsertOrder_AssignsSequentialIDs(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)

	first, err := k.InsertOrder(ctx, alice, 5, u(100), u(10))
	require.NoError(t, err)
	second, err := k.InsertOrder(ctx, alice, 5, u(100), u(11))
	require.NoError(t, err)

	require.Equal(t, uint64(1), first.ID)
	require.Equal(t, uint64(2), second.ID)
	require.Equal(t, uint64(3), k.GetNextOrderID(ctx))
	require.Equal(t, ctx.BlockHeight(), first.CreatedHeight)

	stored, err := k.GetOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, alice, stored.Seller)
	requireAmount(t, 100, stored.Remaining)
	requireAmount(t, 10, stored.Price)
}

func TestInsertOrder_RejectsIdenticalOpenOrder(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)

	_, err := k.InsertOrder(ctx, alice, 5, u(100), u(10))
	require.NoError(t, err)

	_, err = k.InsertOrder(ctx, alice, 5, u(100), u(10))
	require.ErrorIs(t, err, types.ErrSwapAlreadyExists)

	// other sellers, prices and volumes are distinct orders
	_, err = k.InsertOrder(ctx, bob, 5, u(100), u(10))
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, alice, 5, u(101), u(10))
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, alice, 6, u(100), u(10))
	require.NoError(t, err)

	// once the first one is gone the same terms may be listed again
	_, err = k.RemoveOrder(ctx, 1, alice)
	require.NoError(t, err)
	again, err := k.InsertOrder(ctx, alice, 5, u(100), u(10))
	require.NoError(t, err)
	require.Equal(t, uint64(5), again.ID)
}

func TestInsertOrder_CounterOverflow(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)
	k.SetNextOrderID(ctx, ^uint64(0))

	_, err := k.InsertOrder(ctx, alice, 5, u(1), u(1))
	require.ErrorIs(t, err, types.ErrStorageOverflow)
}

func TestRemoveOrder(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)
	order, err := k.InsertOrder(ctx, alice, 5, u(100), u(10))
	require.NoError(t, err)

	_, err = k.RemoveOrder(ctx, order.ID, bob)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = k.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	removed, err := k.RemoveOrder(ctx, order.ID, alice)
	require.NoError(t, err)
	requireAmount(t, 100, removed.Remaining)

	_, err = k.GetOrder(ctx, order.ID)
	require.ErrorIs(t, err, types.ErrNoSwapExists)
	_, err = k.RemoveOrder(ctx, order.ID, alice)
	require.ErrorIs(t, err, types.ErrNoSwapExists)

	orders, err := k.OrdersByToken(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestBestMatch_PriceTimePriority(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)

	_, err := k.InsertOrder(ctx, alice, 5, u(10), u(12)) // id 1
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, bob, 5, u(10), u(10)) // id 2
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, carol, 5, u(10), u(10)) // id 3, same price, later
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, alice, 6, u(10), u(1)) // other token
	require.NoError(t, err)

	order, found := k.BestMatch(ctx, 5, u(12), u(10))
	require.True(t, found)
	require.Equal(t, uint64(2), order.ID)

	// nothing at or below 9
	_, found = k.BestMatch(ctx, 5, u(9), u(1))
	require.False(t, found)

	// the max price bound is inclusive
	order, found = k.BestMatch(ctx, 5, u(10), u(1))
	require.True(t, found)
	require.Equal(t, uint64(2), order.ID)

	orders, err := k.OrdersByToken(ctx, 5)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Equal(t, []uint64{2, 3, 1}, []uint64{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestBestMatch_SkipsOrdersTooSmall(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)

	_, err := k.InsertOrder(ctx, alice, 5, u(3), u(10)) // cheap but small
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, bob, 5, u(10), u(11))
	require.NoError(t, err)

	order, found := k.BestMatch(ctx, 5, u(11), u(5))
	require.True(t, found)
	require.Equal(t, uint64(2), order.ID)

	_, found = k.BestMatch(ctx, 5, u(10), u(5))
	require.False(t, found)
}

func TestBestMatch_LargePricesOrderNumerically(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)

	// 256 sorts before 255 as a string, never numerically
	_, err := k.InsertOrder(ctx, alice, 5, u(1), u(256))
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, alice, 5, u(1), u(255))
	require.NoError(t, err)

	order, found := k.BestMatch(ctx, 5, types.MaxReserve, u(1))
	require.True(t, found)
	requireAmount(t, 255, order.Price)
}

func TestReduceOrder(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)
	order, err := k.InsertOrder(ctx, alice, 5, u(10), u(3))
	require.NoError(t, err)

	_, err = k.ReduceOrder(ctx, order.ID, u(11))
	require.ErrorIs(t, err, types.ErrNotEnoughTokens)

	reduced, err := k.ReduceOrder(ctx, order.ID, u(4))
	require.NoError(t, err)
	requireAmount(t, 6, reduced.Remaining)

	stored, err := k.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	requireAmount(t, 6, stored.Remaining)
	requireAmount(t, 10, stored.Volume)

	// the partially reduced order still blocks a duplicate of its original terms
	_, err = k.InsertOrder(ctx, alice, 5, u(10), u(3))
	require.ErrorIs(t, err, types.ErrSwapAlreadyExists)

	_, err = k.ReduceOrder(ctx, order.ID, u(6))
	require.NoError(t, err)
	_, err = k.GetOrder(ctx, order.ID)
	require.ErrorIs(t, err, types.ErrNoSwapExists)
	_, found := k.BestMatch(ctx, 5, u(3), u(1))
	require.False(t, found)
}

func TestOrdersBySeller(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)

	_, err := k.InsertOrder(ctx, alice, 5, u(1), u(10))
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, bob, 5, u(1), u(10))
	require.NoError(t, err)
	_, err = k.InsertOrder(ctx, alice, 7, u(2), u(9))
	require.NoError(t, err)

	orders, err := k.OrdersBySeller(ctx, alice)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, uint64(1), orders[0].ID)
	require.Equal(t, uint64(3), orders[1].ID)

	orders, err = k.OrdersBySeller(ctx, carol)
	require.NoError(t, err)
	require.Empty(t, orders)
}
