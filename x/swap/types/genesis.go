package types

import (
	"fmt"
	"sort"

	"cosmossdk.io/math"
)

// GenesisState is the exported and imported state of the swap module.
type GenesisState struct {
	Params      Params     `json:"params" yaml:"params"`
	NextOrderID uint64     `json:"next_order_id" yaml:"next_order_id"`
	Orders      []Order    `json:"orders" yaml:"orders"`
	Pools       []Pool     `json:"pools" yaml:"pools"`
	Positions   []Position `json:"positions" yaml:"positions"`
}

// DefaultGenesis returns the default genesis state for the swap module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		NextOrderID: 1,
		Orders:      []Order{},
		Pools:       []Pool{},
		Positions:   []Position{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.NextOrderID == 0 {
		return ErrInvalidGenesis.Wrap("next order id must be positive")
	}

	orderIDs := make(map[uint64]struct{}, len(gs.Orders))
	fingerprints := make(map[string]uint64, len(gs.Orders))
	for _, order := range gs.Orders {
		if err := order.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("order %d: %s", order.ID, err)
		}
		if order.ID == 0 || order.ID >= gs.NextOrderID {
			return ErrInvalidGenesis.Wrapf("order id %d outside [1, %d)", order.ID, gs.NextOrderID)
		}
		if _, dup := orderIDs[order.ID]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate order id %d", order.ID)
		}
		orderIDs[order.ID] = struct{}{}

		fp := string(OrderFingerprintKey(order.Seller, order.TokenID, order.Price, order.Volume))
		if other, dup := fingerprints[fp]; dup {
			return ErrInvalidGenesis.Wrapf("orders %d and %d are identical", other, order.ID)
		}
		fingerprints[fp] = order.ID
	}

	pools := make(map[uint64]Pool, len(gs.Pools))
	for _, pool := range gs.Pools {
		if _, dup := pools[pool.TokenID]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pool for token %d", pool.TokenID)
		}
		if err := pool.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("pool %d: %s", pool.TokenID, err)
		}
		if pool.IsEmpty() {
			return ErrInvalidGenesis.Wrapf("pool %d is empty", pool.TokenID)
		}
		pools[pool.TokenID] = pool
	}

	shareSums := make(map[uint64]math.Uint, len(pools))
	seen := make(map[string]struct{}, len(gs.Positions))
	for _, pos := range gs.Positions {
		if len(pos.Provider) == 0 {
			return ErrInvalidGenesis.Wrapf("position in pool %d has no provider", pos.TokenID)
		}
		if IsZeroAmount(pos.Shares) {
			return ErrInvalidGenesis.Wrapf("position %s in pool %d has no shares", pos.Provider, pos.TokenID)
		}
		if _, ok := pools[pos.TokenID]; !ok {
			return ErrInvalidGenesis.Wrapf("position %s references unknown pool %d", pos.Provider, pos.TokenID)
		}
		key := string(PositionKey(pos.TokenID, pos.Provider))
		if _, dup := seen[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate position %s in pool %d", pos.Provider, pos.TokenID)
		}
		seen[key] = struct{}{}

		sum, ok := shareSums[pos.TokenID]
		if !ok {
			sum = math.ZeroUint()
		}
		shareSums[pos.TokenID] = sum.Add(pos.Shares)
	}

	tokenIDs := make([]uint64, 0, len(pools))
	for id := range pools {
		tokenIDs = append(tokenIDs, id)
	}
	sort.Slice(tokenIDs, func(i, j int) bool { return tokenIDs[i] < tokenIDs[j] })
	for _, id := range tokenIDs {
		sum, ok := shareSums[id]
		if !ok {
			sum = math.ZeroUint()
		}
		if !sum.Equal(pools[id].TotalShares) {
			return ErrInvalidGenesis.Wrapf("pool %d: positions sum to %s, total shares %s", id, sum, pools[id].TotalShares)
		}
	}

	return nil
}

func (gs GenesisState) String() string {
	return fmt.Sprintf("params: %s, next order: %d, orders: %d, pools: %d, positions: %d",
		gs.Params, gs.NextOrderID, len(gs.Orders), len(gs.Pools), len(gs.Positions))
}
