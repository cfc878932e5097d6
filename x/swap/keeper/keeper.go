package keeper

import (
	"context"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// Keeper of the swap store
type Keeper struct {
	storeKey      storetypes.StoreKey
	ledger        types.Ledger
	moduleAddress sdk.AccAddress
	metrics       *SwapMetrics
}

// NewKeeper creates a new swap Keeper instance. All funds move through ledger;
// the module account holds order escrow and pool reserves.
func NewKeeper(key storetypes.StoreKey, ledger types.Ledger) *Keeper {
	return &Keeper{
		storeKey:      key,
		ledger:        ledger,
		moduleAddress: types.ModuleAddress(),
		metrics:       NewSwapMetrics(),
	}
}

// getStore returns the KVStore for the swap module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetModuleAddress returns the escrow account of the module
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return k.moduleAddress
}

// Ledger returns the balance ledger the keeper settles through.
func (k Keeper) Ledger() types.Ledger {
	return k.ledger
}

// transfer moves amount of asset from one account to another through the ledger.
func (k Keeper) transfer(ctx context.Context, from, to sdk.AccAddress, asset types.Asset, amount math.Uint) error {
	if types.IsZeroAmount(amount) {
		return nil
	}
	if err := k.ledger.Debit(ctx, from, asset, amount); err != nil {
		return err
	}
	return k.ledger.Credit(ctx, to, asset, amount)
}

// checkDeadline rejects an action submitted after its deadline height. Zero disables the check.
func checkDeadline(ctx context.Context, deadline int64) error {
	if deadline == 0 {
		return nil
	}
	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	if height > deadline {
		return types.ErrDeadline.Wrapf("block height %d is past deadline %d", height, deadline)
	}
	return nil
}
