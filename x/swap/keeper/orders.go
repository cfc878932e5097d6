package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// GetNextOrderID returns the id the next inserted order will receive
func (k Keeper) GetNextOrderID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.OrderCountKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

// SetNextOrderID sets the order counter
func (k Keeper) SetNextOrderID(ctx context.Context, id uint64) {
	k.getStore(ctx).Set(types.OrderCountKey, sdk.Uint64ToBigEndian(id))
}

// allocateOrderID returns the next order id and advances the counter
func (k Keeper) allocateOrderID(ctx context.Context) (uint64, error) {
	id := k.GetNextOrderID(ctx)
	next, err := SafeIncrUint64(id)
	if err != nil {
		return 0, err
	}
	k.SetNextOrderID(ctx, next)
	return id, nil
}

// GetOrder retrieves an open order by ID
func (k Keeper) GetOrder(ctx context.Context, orderID uint64) (*types.Order, error) {
	bz := k.getStore(ctx).Get(types.OrderKey(orderID))
	if bz == nil {
		return nil, types.ErrNoSwapExists.Wrapf("order %d", orderID)
	}

	var order types.Order
	if err := json.Unmarshal(bz, &order); err != nil {
		return nil, types.ErrNoneValue.Wrapf("failed to unmarshal order %d: %v", orderID, err)
	}
	return &order, nil
}

// setOrderRecord writes only the order record; indexes are keyed by immutable fields.
func (k Keeper) setOrderRecord(ctx context.Context, order types.Order) error {
	bz, err := json.Marshal(order)
	if err != nil {
		return types.ErrNoneValue.Wrapf("failed to marshal order %d: %v", order.ID, err)
	}
	k.getStore(ctx).Set(types.OrderKey(order.ID), bz)
	return nil
}

// SetOrder stores an order and its indexes
func (k Keeper) SetOrder(ctx context.Context, order types.Order) error {
	if err := k.setOrderRecord(ctx, order); err != nil {
		return err
	}

	store := k.getStore(ctx)
	store.Set(types.OrderBookKey(order.TokenID, order.Price, order.ID), []byte{1})
	store.Set(types.OrderBySellerKey(order.Seller, order.ID), []byte{1})
	store.Set(types.OrderFingerprintKey(order.Seller, order.TokenID, order.Price, order.Volume), sdk.Uint64ToBigEndian(order.ID))
	return nil
}

// deleteOrder removes an order and its indexes
func (k Keeper) deleteOrder(ctx context.Context, order types.Order) {
	store := k.getStore(ctx)
	store.Delete(types.OrderBookKey(order.TokenID, order.Price, order.ID))
	store.Delete(types.OrderBySellerKey(order.Seller, order.ID))
	store.Delete(types.OrderFingerprintKey(order.Seller, order.TokenID, order.Price, order.Volume))
	store.Delete(types.OrderKey(order.ID))
}

// InsertOrder assigns the next id to a new sell order and stores it.
// An identical open order of the same seller is rejected.
func (k Keeper) InsertOrder(ctx context.Context, seller sdk.AccAddress, tokenID uint64, volume, price math.Uint) (*types.Order, error) {
	store := k.getStore(ctx)
	if bz := store.Get(types.OrderFingerprintKey(seller, tokenID, price, volume)); bz != nil {
		return nil, types.ErrSwapAlreadyExists.Wrapf("order %d has the same terms", sdk.BigEndianToUint64(bz))
	}

	id, err := k.allocateOrderID(ctx)
	if err != nil {
		return nil, err
	}

	order := types.Order{
		ID:            id,
		TokenID:       tokenID,
		Seller:        seller,
		Volume:        volume,
		Remaining:     volume,
		Price:         price,
		CreatedHeight: sdk.UnwrapSDKContext(ctx).BlockHeight(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := k.SetOrder(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// RemoveOrder deletes an order on behalf of its seller and returns it.
// The returned Remaining is the volume freed from escrow.
func (k Keeper) RemoveOrder(ctx context.Context, orderID uint64, caller sdk.AccAddress) (*types.Order, error) {
	order, err := k.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Seller.Equals(caller) {
		return nil, types.ErrUnauthorized.Wrapf("order %d belongs to %s", orderID, order.Seller)
	}

	k.deleteOrder(ctx, *order)
	return order, nil
}

// BestMatch returns the cheapest order of tokenID priced at most maxPrice
// that can cover minVolume on its own. Equal prices resolve to the earliest order.
func (k Keeper) BestMatch(ctx context.Context, tokenID uint64, maxPrice, minVolume math.Uint) (*types.Order, bool) {
	start := types.OrderBookTokenPrefix(tokenID)
	end := storetypes.PrefixEndBytes(append(types.OrderBookTokenPrefix(tokenID), types.EncodePrice(maxPrice)...))

	iterator := k.getStore(ctx).Iterator(start, end)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		order, err := k.GetOrder(ctx, types.OrderIDFromBookKey(iterator.Key()))
		if err != nil {
			k.Logger(ctx).Error("dangling order book entry", "key", iterator.Key(), "error", err)
			continue
		}
		if order.Remaining.IsZero() || order.Remaining.LT(minVolume) {
			continue
		}
		return order, true
	}
	return nil, false
}

// ReduceOrder decrements the remaining volume of an order, removing it once
// nothing is left.
func (k Keeper) ReduceOrder(ctx context.Context, orderID uint64, filled math.Uint) (*types.Order, error) {
	order, err := k.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if filled.GT(order.Remaining) {
		return nil, types.ErrNotEnoughTokens.Wrapf("order %d has %s remaining, cannot fill %s", orderID, order.Remaining, filled)
	}

	order.Remaining = order.Remaining.Sub(filled)
	if order.Remaining.IsZero() {
		k.deleteOrder(ctx, *order)
		return order, nil
	}
	if err := k.setOrderRecord(ctx, *order); err != nil {
		return nil, err
	}
	return order, nil
}

// IterateOrders iterates over all open orders in id order
func (k Keeper) IterateOrders(ctx context.Context, cb func(order types.Order) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.OrderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var order types.Order
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			return types.ErrNoneValue.Wrapf("failed to unmarshal order: %v", err)
		}
		if cb(order) {
			break
		}
	}
	return nil
}

// GetAllOrders returns all open orders
func (k Keeper) GetAllOrders(ctx context.Context) ([]types.Order, error) {
	orders := []types.Order{}
	err := k.IterateOrders(ctx, func(order types.Order) bool {
		orders = append(orders, order)
		return false
	})
	return orders, err
}

// OrdersByToken returns the open orders of a token in price-time priority
func (k Keeper) OrdersByToken(ctx context.Context, tokenID uint64) ([]types.Order, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.OrderBookTokenPrefix(tokenID))
	defer iterator.Close()

	orders := []types.Order{}
	for ; iterator.Valid(); iterator.Next() {
		order, err := k.GetOrder(ctx, types.OrderIDFromBookKey(iterator.Key()))
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// OrdersBySeller returns the open orders of a seller in creation order
func (k Keeper) OrdersBySeller(ctx context.Context, seller sdk.AccAddress) ([]types.Order, error) {
	prefix := types.OrderBySellerPrefix(seller)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	orders := []types.Order{}
	for ; iterator.Valid(); iterator.Next() {
		order, err := k.GetOrder(ctx, sdk.BigEndianToUint64(iterator.Key()[len(prefix):]))
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}
