package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// InitGenesis initializes the swap module's state from a genesis state.
// Escrow and reserve balances are expected to be funded in the ledger separately.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	k.SetNextOrderID(ctx, genState.NextOrderID)

	for _, order := range genState.Orders {
		if err := k.SetOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to set order %d: %w", order.ID, err)
		}
	}

	for _, pool := range genState.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("failed to set pool %d: %w", pool.TokenID, err)
		}
	}

	for _, pos := range genState.Positions {
		if err := k.SetPosition(ctx, pos.TokenID, pos.Provider, pos.Shares); err != nil {
			return fmt.Errorf("failed to set position %s in pool %d: %w", pos.Provider, pos.TokenID, err)
		}
	}

	return nil
}

// ExportGenesis returns the swap module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}

	orders, err := k.GetAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}

	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export pools: %w", err)
	}

	positions, err := k.GetAllPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export positions: %w", err)
	}

	return &types.GenesisState{
		Params:      params,
		NextOrderID: k.GetNextOrderID(ctx),
		Orders:      orders,
		Pools:       pools,
		Positions:   positions,
	}, nil
}
