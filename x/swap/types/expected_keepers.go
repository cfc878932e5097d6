package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Ledger is the balance capability the engine moves funds through.
// Implementations must keep their state in the store reachable from ctx so
// that a discarded action branch discards its transfers too.
type Ledger interface {
	// Balance returns the balance of account in asset (zero if none).
	Balance(ctx context.Context, account sdk.AccAddress, asset Asset) math.Uint
	// Debit removes amount, failing with ErrInsufficientFunds.
	Debit(ctx context.Context, account sdk.AccAddress, asset Asset, amount math.Uint) error
	// Credit adds amount, failing with ErrStorageOverflow.
	Credit(ctx context.Context, account sdk.AccAddress, asset Asset, amount math.Uint) error
}

// BankKeeper defines the subset of the bank keeper used by the bank-backed ledger.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
}
