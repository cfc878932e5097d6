package ledger_test

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/tokenswap/x/swap/ledger"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

// fakeBank tracks balances per address and denom; module accounts are keyed by name
type fakeBank struct {
	balances map[string]math.Int
	minted   sdk.Coins
	burned   sdk.Coins
}

func newFakeBank() *fakeBank {
	return &fakeBank{balances: map[string]math.Int{}}
}

func (b *fakeBank) key(owner, denom string) string { return owner + "/" + denom }

func (b *fakeBank) get(owner, denom string) math.Int {
	if v, ok := b.balances[b.key(owner, denom)]; ok {
		return v
	}
	return math.ZeroInt()
}

func (b *fakeBank) move(from, to string, amt sdk.Coins) error {
	for _, c := range amt {
		if b.get(from, c.Denom).LT(c.Amount) {
			return errors.New("insufficient funds")
		}
	}
	for _, c := range amt {
		b.balances[b.key(from, c.Denom)] = b.get(from, c.Denom).Sub(c.Amount)
		b.balances[b.key(to, c.Denom)] = b.get(to, c.Denom).Add(c.Amount)
	}
	return nil
}

func (b *fakeBank) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, b.get(addr.String(), denom))
}

func (b *fakeBank) SendCoinsFromAccountToModule(_ context.Context, sender sdk.AccAddress, module string, amt sdk.Coins) error {
	return b.move(sender.String(), module, amt)
}

func (b *fakeBank) SendCoinsFromModuleToAccount(_ context.Context, module string, recipient sdk.AccAddress, amt sdk.Coins) error {
	return b.move(module, recipient.String(), amt)
}

func (b *fakeBank) MintCoins(_ context.Context, module string, amt sdk.Coins) error {
	for _, c := range amt {
		b.balances[b.key(module, c.Denom)] = b.get(module, c.Denom).Add(c.Amount)
	}
	b.minted = b.minted.Add(amt...)
	return nil
}

func (b *fakeBank) BurnCoins(_ context.Context, module string, amt sdk.Coins) error {
	for _, c := range amt {
		b.balances[b.key(module, c.Denom)] = b.get(module, c.Denom).Sub(c.Amount)
	}
	b.burned = b.burned.Add(amt...)
	return nil
}

func TestBankLedger(t *testing.T) {
	bank := newFakeBank()
	l := ledger.NewBankLedger(bank, types.ModuleName, "")
	ctx := context.Background()

	require.Equal(t, ledger.DefaultCurrencyDenom, l.Denom(types.Currency()))
	require.Equal(t, "token/7", l.Denom(types.Token(7)))

	require.NoError(t, l.Credit(ctx, alice, types.Token(7), math.NewUint(25)))
	require.Equal(t, "25", l.Balance(ctx, alice, types.Token(7)).String())
	require.True(t, l.Balance(ctx, alice, types.Currency()).IsZero())

	err := l.Debit(ctx, alice, types.Token(7), math.NewUint(26))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	require.NoError(t, l.Debit(ctx, alice, types.Token(7), math.NewUint(20)))
	require.Equal(t, "5", l.Balance(ctx, alice, types.Token(7)).String())

	// the module account is only a pass-through
	require.True(t, bank.get(types.ModuleName, "token/7").IsZero())
	require.Equal(t, "25token/7", bank.minted.String())
	require.Equal(t, "20token/7", bank.burned.String())

	// zero amounts never reach the bank
	require.NoError(t, l.Debit(ctx, bob, types.Currency(), math.ZeroUint()))
	require.NoError(t, l.Credit(ctx, bob, types.Currency(), math.ZeroUint()))
	require.Empty(t, bank.balances[bank.key(bob.String(), ledger.DefaultCurrencyDenom)])
}

func TestBankLedger_CustomDenom(t *testing.T) {
	l := ledger.NewBankLedger(newFakeBank(), types.ModuleName, "uswap")
	require.Equal(t, "uswap", l.Denom(types.Currency()))
}
