package ledger

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// DefaultCurrencyDenom is the bank denom of the native currency
const DefaultCurrencyDenom = "ucur"

// TokenDenom returns the bank denom of an issued token
func TokenDenom(tokenID uint64) string {
	return fmt.Sprintf("token/%d", tokenID)
}

// BankLedger adapts a bank keeper to the Ledger capability. Debits move coins
// into moduleName and burn them; credits mint into moduleName and send them on.
// The module account needs minter and burner permissions.
type BankLedger struct {
	bank          types.BankKeeper
	moduleName    string
	currencyDenom string
}

var _ types.Ledger = BankLedger{}

// NewBankLedger creates a bank-backed ledger
func NewBankLedger(bank types.BankKeeper, moduleName, currencyDenom string) BankLedger {
	if currencyDenom == "" {
		currencyDenom = DefaultCurrencyDenom
	}
	return BankLedger{bank: bank, moduleName: moduleName, currencyDenom: currencyDenom}
}

// Denom returns the bank denom backing an asset
func (l BankLedger) Denom(asset types.Asset) string {
	if asset.IsCurrency() {
		return l.currencyDenom
	}
	return TokenDenom(asset.TokenID)
}

func (l BankLedger) coins(asset types.Asset, amount math.Uint) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(l.Denom(asset), math.NewIntFromBigInt(amount.BigInt())))
}

// Balance returns the bank balance of account in asset
func (l BankLedger) Balance(ctx context.Context, account sdk.AccAddress, asset types.Asset) math.Uint {
	coin := l.bank.GetBalance(ctx, account, l.Denom(asset))
	if coin.Amount.IsNil() || !coin.Amount.IsPositive() {
		return math.ZeroUint()
	}
	return math.NewUintFromBigInt(coin.Amount.BigInt())
}

// Debit sends amount to the module account and burns it
func (l BankLedger) Debit(ctx context.Context, account sdk.AccAddress, asset types.Asset, amount math.Uint) error {
	if types.IsZeroAmount(amount) {
		return nil
	}
	coins := l.coins(asset, amount)
	if err := l.bank.SendCoinsFromAccountToModule(ctx, account, l.moduleName, coins); err != nil {
		return types.ErrInsufficientFunds.Wrapf("debit %s from %s: %s", coins, account, err)
	}
	if err := l.bank.BurnCoins(ctx, l.moduleName, coins); err != nil {
		return fmt.Errorf("burn %s: %w", coins, err)
	}
	return nil
}

// Credit mints amount into the module account and sends it to account
func (l BankLedger) Credit(ctx context.Context, account sdk.AccAddress, asset types.Asset, amount math.Uint) error {
	if types.IsZeroAmount(amount) {
		return nil
	}
	coins := l.coins(asset, amount)
	if err := l.bank.MintCoins(ctx, l.moduleName, coins); err != nil {
		return types.ErrStorageOverflow.Wrapf("mint %s: %s", coins, err)
	}
	if err := l.bank.SendCoinsFromModuleToAccount(ctx, l.moduleName, account, coins); err != nil {
		return fmt.Errorf("credit %s to %s: %w", coins, account, err)
	}
	return nil
}
