package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Order is an open sell order in the book.
//
// Tokens for the unfilled part of the order are held in escrow by the module
// account. Orders of the same token are matched by lowest price first and,
// at equal price, by lowest ID (earliest creation).
type Order struct {
	// ID is the unique, never reused identifier of the order
	ID uint64 `json:"id" yaml:"id"`
	// TokenID is the token being sold
	TokenID uint64 `json:"token_id" yaml:"token_id"`
	// Seller owns the order and receives the currency of fills
	Seller sdk.AccAddress `json:"seller" yaml:"seller"`
	// Volume is the token amount at creation
	Volume math.Uint `json:"volume" yaml:"volume"`
	// Remaining is the token amount still for sale
	Remaining math.Uint `json:"remaining" yaml:"remaining"`
	// Price is the unit price in currency
	Price math.Uint `json:"price" yaml:"price"`
	// CreatedHeight is the block height the order was placed at
	CreatedHeight int64 `json:"created_height" yaml:"created_height"`
}

// Validate checks the stateless invariants of an open order.
func (o Order) Validate() error {
	if len(o.Seller) == 0 {
		return ErrInvalidAddress.Wrapf("order %d has no seller", o.ID)
	}
	if o.Volume.IsNil() || o.Remaining.IsNil() || o.Price.IsNil() {
		return ErrNoneValue.Wrapf("order %d has unset amounts", o.ID)
	}
	if o.Remaining.IsZero() {
		return ErrZeroTokens.Wrapf("order %d has no remaining volume", o.ID)
	}
	if o.Remaining.GT(o.Volume) {
		return ErrNotEnoughTokens.Wrapf("order %d remaining %s exceeds volume %s", o.ID, o.Remaining, o.Volume)
	}
	if o.Price.IsZero() {
		return ErrZeroAmount.Wrapf("order %d has zero price", o.ID)
	}
	return nil
}
