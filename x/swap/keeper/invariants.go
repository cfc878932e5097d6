package keeper

import (
	"bytes"
	"fmt"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// RegisterInvariants registers all swap invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pool-shares", PoolSharesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "zero-iff", ZeroIffInvariant(k))
	ir.RegisterRoute(types.ModuleName, "escrow-conservation", EscrowConservationInvariant(k))
	ir.RegisterRoute(types.ModuleName, "order-index", OrderIndexInvariant(k))
}

// AllInvariants runs all invariants of the swap module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			PoolSharesInvariant(k),
			ZeroIffInvariant(k),
			EscrowConservationInvariant(k),
			OrderIndexInvariant(k),
		} {
			if res, stop := inv(ctx); stop {
				return res, stop
			}
		}
		return "", false
	}
}

// PoolSharesInvariant checks that the positions of every pool sum to its total shares
func PoolSharesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-shares", err.Error()), true
		}
		for _, pool := range pools {
			sum := math.ZeroUint()
			if err := k.IteratePositions(ctx, pool.TokenID, func(pos types.Position) bool {
				sum = sum.Add(pos.Shares)
				return false
			}); err != nil {
				count++
				msg += fmt.Sprintf("pool %d: %s\n", pool.TokenID, err)
				continue
			}
			if !sum.Equal(pool.TotalShares) {
				count++
				msg += fmt.Sprintf("pool %d: positions sum to %s, total shares %s\n", pool.TokenID, sum, pool.TotalShares)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-shares",
			fmt.Sprintf("found %d pools with mismatched shares\n%s", count, msg),
		), broken
	}
}

// ZeroIffInvariant checks that a pool has shares exactly when it has reserves,
// and that no stored pool is empty
func ZeroIffInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "zero-iff", err.Error()), true
		}
		for _, pool := range pools {
			if err := pool.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("%s\n", err)
				continue
			}
			if !pool.HasLiquidity() {
				count++
				msg += fmt.Sprintf("pool %d is stored with reserves (%s, %s)\n", pool.TokenID, pool.TokenReserve, pool.CurrencyReserve)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "zero-iff",
			fmt.Sprintf("found %d malformed pools\n%s", count, msg),
		), broken
	}
}

// EscrowConservationInvariant checks that the module account holds at least
// the pool reserves plus the escrowed remainder of open orders, per asset
func EscrowConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		owed := map[types.Asset]math.Uint{}
		add := func(asset types.Asset, amount math.Uint) {
			if cur, ok := owed[asset]; ok {
				owed[asset] = cur.Add(amount)
				return
			}
			owed[asset] = amount
		}

		if err := k.IteratePools(ctx, func(pool types.Pool) bool {
			add(types.Token(pool.TokenID), pool.TokenReserve)
			add(types.Currency(), pool.CurrencyReserve)
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-conservation", err.Error()), true
		}
		if err := k.IterateOrders(ctx, func(order types.Order) bool {
			add(types.Token(order.TokenID), order.Remaining)
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-conservation", err.Error()), true
		}

		var (
			msg   string
			count int
		)
		assets := make([]types.Asset, 0, len(owed))
		for asset := range owed {
			assets = append(assets, asset)
		}
		// currency first, then tokens by id
		sort.Slice(assets, func(i, j int) bool {
			return bytes.Compare(assets[i].Key(), assets[j].Key()) < 0
		})

		for _, asset := range assets {
			amount := owed[asset]
			balance := k.ledger.Balance(ctx, k.moduleAddress, asset)
			if balance.LT(amount) {
				count++
				msg += fmt.Sprintf("%s: module holds %s, owes %s\n", asset, balance, amount)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "escrow-conservation",
			fmt.Sprintf("found %d under-collateralised assets\n%s", count, msg),
		), broken
	}
}

// OrderIndexInvariant checks that every open order is valid and reachable
// through the book, seller and fingerprint indexes
func OrderIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		next := k.GetNextOrderID(ctx)
		store := k.getStore(ctx)
		if err := k.IterateOrders(ctx, func(order types.Order) bool {
			if err := order.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("%s\n", err)
			}
			if order.ID >= next {
				count++
				msg += fmt.Sprintf("order %d not below counter %d\n", order.ID, next)
			}
			if !store.Has(types.OrderBookKey(order.TokenID, order.Price, order.ID)) {
				count++
				msg += fmt.Sprintf("order %d missing from book\n", order.ID)
			}
			if !store.Has(types.OrderBySellerKey(order.Seller, order.ID)) {
				count++
				msg += fmt.Sprintf("order %d missing from seller index\n", order.ID)
			}
			if !store.Has(types.OrderFingerprintKey(order.Seller, order.TokenID, order.Price, order.Volume)) {
				count++
				msg += fmt.Sprintf("order %d missing fingerprint\n", order.ID)
			}
			return false
		}); err != nil {
			return sdk.FormatInvariant(types.ModuleName, "order-index", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "order-index",
			fmt.Sprintf("found %d order index violations\n%s", count, msg),
		), broken
	}
}
