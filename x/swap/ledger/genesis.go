package ledger

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// Balance is one ledger entry
type Balance struct {
	Address string      `json:"address" yaml:"address"`
	Asset   types.Asset `json:"asset" yaml:"asset"`
	Amount  math.Uint   `json:"amount" yaml:"amount"`
}

// GenesisState holds the ledger balances
type GenesisState struct {
	Balances []Balance `json:"balances" yaml:"balances"`
}

// DefaultGenesis returns an empty ledger
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate ensures every balance is addressable and unique
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Balances))
	for _, b := range gs.Balances {
		acc, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("balance address %q: %s", b.Address, err)
		}
		if b.Amount.IsNil() {
			return types.ErrInvalidGenesis.Wrapf("balance of %s in %s has no amount", b.Address, b.Asset)
		}
		key := string(BalanceKey(acc, b.Asset))
		if _, dup := seen[key]; dup {
			return types.ErrInvalidGenesis.Wrapf("duplicate balance of %s in %s", b.Address, b.Asset)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// InitGenesis loads the balances into the store
func (s Store) InitGenesis(ctx context.Context, gs GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	for _, b := range gs.Balances {
		acc := sdk.MustAccAddressFromBech32(b.Address)
		if err := s.SetBalance(ctx, acc, b.Asset, b.Amount); err != nil {
			return fmt.Errorf("failed to set balance of %s: %w", b.Address, err)
		}
	}
	return nil
}

// ExportGenesis dumps every non-zero balance
func (s Store) ExportGenesis(ctx context.Context) (*GenesisState, error) {
	gs := DefaultGenesis()
	err := s.IterateBalances(ctx, func(b Balance) bool {
		gs.Balances = append(gs.Balances, b)
		return false
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
