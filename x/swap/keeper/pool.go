package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// GetPool returns the pool of a token, if one exists
func (k Keeper) GetPool(ctx context.Context, tokenID uint64) (types.Pool, bool, error) {
	bz := k.getStore(ctx).Get(types.PoolKey(tokenID))
	if bz == nil {
		return types.Pool{}, false, nil
	}

	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, false, types.ErrNoneValue.Wrapf("failed to unmarshal pool %d: %v", tokenID, err)
	}
	return pool, true, nil
}

// SetPool stores a pool. A pool without shares is deleted instead.
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	if err := pool.Validate(); err != nil {
		return err
	}
	store := k.getStore(ctx)
	if pool.TotalShares.IsZero() {
		store.Delete(types.PoolKey(pool.TokenID))
		return nil
	}

	bz, err := json.Marshal(pool)
	if err != nil {
		return types.ErrNoneValue.Wrapf("failed to marshal pool %d: %v", pool.TokenID, err)
	}
	store.Set(types.PoolKey(pool.TokenID), bz)
	return nil
}

// IteratePools iterates over all pools in token id order
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return types.ErrNoneValue.Wrapf("failed to unmarshal pool: %v", err)
		}
		if cb(pool) {
			break
		}
	}
	return nil
}

// GetAllPools returns all pools
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	pools := []types.Pool{}
	err := k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}

// GetPosition returns the shares a provider holds in a pool (zero if none)
func (k Keeper) GetPosition(ctx context.Context, tokenID uint64, provider sdk.AccAddress) math.Uint {
	bz := k.getStore(ctx).Get(types.PositionKey(tokenID, provider))
	if bz == nil {
		return math.ZeroUint()
	}
	var shares math.Uint
	if err := shares.Unmarshal(bz); err != nil {
		k.Logger(ctx).Error("corrupt liquidity position", "token_id", tokenID, "provider", provider.String(), "error", err)
		return math.ZeroUint()
	}
	return shares
}

// SetPosition stores a provider's shares, deleting the position at zero
func (k Keeper) SetPosition(ctx context.Context, tokenID uint64, provider sdk.AccAddress, shares math.Uint) error {
	store := k.getStore(ctx)
	if types.IsZeroAmount(shares) {
		store.Delete(types.PositionKey(tokenID, provider))
		return nil
	}
	bz, err := shares.Marshal()
	if err != nil {
		return types.ErrNoneValue.Wrapf("failed to marshal position: %v", err)
	}
	store.Set(types.PositionKey(tokenID, provider), bz)
	return nil
}

// IteratePositions iterates over the positions of a pool
func (k Keeper) IteratePositions(ctx context.Context, tokenID uint64, cb func(pos types.Position) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PositionTokenPrefix(tokenID))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		pos, err := positionFromIterator(iterator.Key(), iterator.Value())
		if err != nil {
			return err
		}
		if cb(pos) {
			break
		}
	}
	return nil
}

// GetAllPositions returns every liquidity position of every pool
func (k Keeper) GetAllPositions(ctx context.Context) ([]types.Position, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PositionKeyPrefix)
	defer iterator.Close()

	positions := []types.Position{}
	for ; iterator.Valid(); iterator.Next() {
		pos, err := positionFromIterator(iterator.Key(), iterator.Value())
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

func positionFromIterator(key, value []byte) (types.Position, error) {
	var shares math.Uint
	if err := shares.Unmarshal(value); err != nil {
		return types.Position{}, types.ErrNoneValue.Wrapf("failed to unmarshal position: %v", err)
	}
	// prefix (1) | token id (8)
	return types.Position{
		TokenID:  sdk.BigEndianToUint64(key[1:9]),
		Provider: types.ProviderFromPositionKey(key),
		Shares:   shares,
	}, nil
}
