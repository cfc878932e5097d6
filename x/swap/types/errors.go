package types

import (
	"cosmossdk.io/errors"
)

// Swap module sentinel errors
var (
	ErrStorageOverflow        = errors.Register(ModuleName, 2, "arithmetic overflow")
	ErrNoneValue              = errors.Register(ModuleName, 3, "value not found")
	ErrDeadline               = errors.Register(ModuleName, 4, "deadline hit")
	ErrZeroTokens             = errors.Register(ModuleName, 5, "zero tokens supplied")
	ErrZeroAmount             = errors.Register(ModuleName, 6, "zero amount supplied")
	ErrNoSwapExists           = errors.Register(ModuleName, 7, "no sell order exists at this id")
	ErrSwapAlreadyExists      = errors.Register(ModuleName, 8, "identical sell order already exists")
	ErrRequestedZeroLiquidity = errors.Register(ModuleName, 9, "requested zero liquidity")
	ErrTooManyTokens          = errors.Register(ModuleName, 10, "would add too many tokens to liquidity")
	ErrTooLowLiquidity        = errors.Register(ModuleName, 11, "not enough liquidity")
	ErrNoCurrencySwapped      = errors.Register(ModuleName, 12, "no currency is being swapped")
	ErrNoTokensSwapped        = errors.Register(ModuleName, 13, "no tokens are being swapped")
	ErrBurnZeroShares         = errors.Register(ModuleName, 14, "trying to burn zero shares")
	ErrNoLiquidity            = errors.Register(ModuleName, 15, "no liquidity in the pool")
	ErrNotEnoughCurrency      = errors.Register(ModuleName, 16, "not enough currency")
	ErrNotEnoughTokens        = errors.Register(ModuleName, 17, "not enough tokens")
	ErrTooExpensiveCurrency   = errors.Register(ModuleName, 18, "swap would cost too much in currency")
	ErrTooExpensiveTokens     = errors.Register(ModuleName, 19, "swap would cost too much in tokens")
	ErrUnauthorized           = errors.Register(ModuleName, 20, "caller does not own the sell order")
	ErrInsufficientFunds      = errors.Register(ModuleName, 21, "insufficient funds")
	ErrInsufficientShares     = errors.Register(ModuleName, 22, "insufficient liquidity shares")
	ErrInvalidAddress         = errors.Register(ModuleName, 23, "invalid address")
	ErrInvalidParams          = errors.Register(ModuleName, 24, "invalid params")
	ErrInvalidGenesis         = errors.Register(ModuleName, 25, "invalid genesis state")
	ErrInvariantViolation     = errors.Register(ModuleName, 26, "invariant violation")
)
