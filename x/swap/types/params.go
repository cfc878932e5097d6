package types

import (
	"fmt"
)

const (
	// DefaultFeeNumerator and DefaultFeeDenominator give a 0.3% pool fee.
	DefaultFeeNumerator   uint64 = 3
	DefaultFeeDenominator uint64 = 1000
)

// Params are the engine's configuration constants. They are supplied at
// genesis and never changed by a message.
type Params struct {
	// FeeNumerator / FeeDenominator is the fraction of a pool swap input kept as fee
	FeeNumerator   uint64 `json:"fee_numerator" yaml:"fee_numerator"`
	FeeDenominator uint64 `json:"fee_denominator" yaml:"fee_denominator"`
}

// NewParams creates a new Params instance
func NewParams(feeNumerator, feeDenominator uint64) Params {
	return Params{
		FeeNumerator:   feeNumerator,
		FeeDenominator: feeDenominator,
	}
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return NewParams(DefaultFeeNumerator, DefaultFeeDenominator)
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.FeeDenominator == 0 {
		return ErrInvalidParams.Wrap("fee denominator must be positive")
	}
	if p.FeeNumerator >= p.FeeDenominator {
		return ErrInvalidParams.Wrapf("fee %d/%d must be below 100%%", p.FeeNumerator, p.FeeDenominator)
	}
	return nil
}

// FeeFactor returns FeeDenominator - FeeNumerator, the multiplier applied to
// a swap input before dividing by FeeDenominator.
func (p Params) FeeFactor() uint64 {
	return p.FeeDenominator - p.FeeNumerator
}

func (p Params) String() string {
	return fmt.Sprintf("fee: %d/%d", p.FeeNumerator, p.FeeDenominator)
}
