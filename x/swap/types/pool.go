package types

import (
	"math/big"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MaxReserve bounds each pool reserve to 128 bits so that the product of two
// reserves fits in 256 bits. Share counts are not bounded by it; reserve and
// share ratios go through the full-width SafeMulDiv.
var MaxReserve = math.NewUintFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

// Pool is the constant-product pool pairing one token with the currency.
type Pool struct {
	TokenID         uint64    `json:"token_id" yaml:"token_id"`
	TokenReserve    math.Uint `json:"token_reserve" yaml:"token_reserve"`
	CurrencyReserve math.Uint `json:"currency_reserve" yaml:"currency_reserve"`
	TotalShares     math.Uint `json:"total_shares" yaml:"total_shares"`
}

// NewEmptyPool returns a pool with zero reserves and no shares.
func NewEmptyPool(tokenID uint64) Pool {
	return Pool{
		TokenID:         tokenID,
		TokenReserve:    math.ZeroUint(),
		CurrencyReserve: math.ZeroUint(),
		TotalShares:     math.ZeroUint(),
	}
}

// IsEmpty reports whether the pool holds no liquidity.
func (p Pool) IsEmpty() bool {
	return p.TotalShares.IsZero() && p.TokenReserve.IsZero() && p.CurrencyReserve.IsZero()
}

// HasLiquidity reports whether both reserves are non-zero.
func (p Pool) HasLiquidity() bool {
	return !p.TokenReserve.IsZero() && !p.CurrencyReserve.IsZero()
}

// Reserves returns the (in, out) reserves for a swap direction.
func (p Pool) Reserves(d Direction) (in, out math.Uint) {
	if d == TokenToCurrency {
		return p.TokenReserve, p.CurrencyReserve
	}
	return p.CurrencyReserve, p.TokenReserve
}

// WithReserves returns a copy of p with the (in, out) reserves of d replaced.
func (p Pool) WithReserves(d Direction, in, out math.Uint) Pool {
	if d == TokenToCurrency {
		p.TokenReserve, p.CurrencyReserve = in, out
	} else {
		p.CurrencyReserve, p.TokenReserve = in, out
	}
	return p
}

// ConstantProduct returns token_reserve * currency_reserve.
func (p Pool) ConstantProduct() *big.Int {
	return new(big.Int).Mul(p.TokenReserve.BigInt(), p.CurrencyReserve.BigInt())
}

// Validate checks the stateless pool invariants.
func (p Pool) Validate() error {
	if p.TokenReserve.IsNil() || p.CurrencyReserve.IsNil() || p.TotalShares.IsNil() {
		return ErrNoneValue.Wrapf("pool %d has unset amounts", p.TokenID)
	}
	if p.TotalShares.IsZero() != (p.TokenReserve.IsZero() && p.CurrencyReserve.IsZero()) {
		return ErrInvariantViolation.Wrapf("pool %d: total shares %s with reserves (%s, %s)",
			p.TokenID, p.TotalShares, p.TokenReserve, p.CurrencyReserve)
	}
	if p.TokenReserve.GT(MaxReserve) || p.CurrencyReserve.GT(MaxReserve) {
		return ErrStorageOverflow.Wrapf("pool %d reserve exceeds %s", p.TokenID, MaxReserve)
	}
	return nil
}

// Position is a provider's share of a pool.
type Position struct {
	TokenID  uint64         `json:"token_id" yaml:"token_id"`
	Provider sdk.AccAddress `json:"provider" yaml:"provider"`
	Shares   math.Uint      `json:"shares" yaml:"shares"`
}
