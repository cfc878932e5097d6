package ledger_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/tokenswap/testutil/keeper"
	"github.com/paw-chain/tokenswap/x/swap/ledger"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

var (
	alice = keepertest.TestAddr(1)
	bob   = keepertest.TestAddr(2)
)

func TestStore_DebitCredit(t *testing.T) {
	_, l, ctx := keepertest.SwapKeeper(t)

	require.True(t, l.Balance(ctx, alice, types.Currency()).IsZero())
	require.NoError(t, l.Credit(ctx, alice, types.Currency(), math.NewUint(50)))
	require.NoError(t, l.Credit(ctx, alice, types.Token(3), math.NewUint(7)))

	err := l.Debit(ctx, alice, types.Currency(), math.NewUint(51))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Equal(t, "50", l.Balance(ctx, alice, types.Currency()).String())

	require.NoError(t, l.Debit(ctx, alice, types.Currency(), math.NewUint(50)))
	require.True(t, l.Balance(ctx, alice, types.Currency()).IsZero())
	require.Equal(t, "7", l.Balance(ctx, alice, types.Token(3)).String())
	require.True(t, l.Balance(ctx, alice, types.Token(4)).IsZero())
	require.True(t, l.Balance(ctx, bob, types.Token(3)).IsZero())
}

func TestStore_CreditOverflow(t *testing.T) {
	_, l, ctx := keepertest.SwapKeeper(t)
	max := math.NewUintFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	require.NoError(t, l.Credit(ctx, alice, types.Currency(), max))
	err := l.Credit(ctx, alice, types.Currency(), math.OneUint())
	require.ErrorIs(t, err, types.ErrStorageOverflow)
	require.Equal(t, max.String(), l.Balance(ctx, alice, types.Currency()).String())
}

func TestStore_GenesisRoundTrip(t *testing.T) {
	_, l, ctx := keepertest.SwapKeeper(t)
	require.NoError(t, l.Mint(ctx, alice, types.Currency(), math.NewUint(10)))
	require.NoError(t, l.Mint(ctx, alice, types.Token(9), math.NewUint(3)))
	require.NoError(t, l.Mint(ctx, bob, types.Token(1), math.NewUint(5)))

	exported, err := l.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Len(t, exported.Balances, 3)
	require.NoError(t, exported.Validate())

	_, l2, ctx2 := keepertest.SwapKeeper(t)
	require.NoError(t, l2.InitGenesis(ctx2, *exported))
	require.Equal(t, "3", l2.Balance(ctx2, alice, types.Token(9)).String())
	require.Equal(t, "5", l2.Balance(ctx2, bob, types.Token(1)).String())

	dup := ledger.GenesisState{Balances: []ledger.Balance{exported.Balances[0], exported.Balances[0]}}
	require.ErrorIs(t, dup.Validate(), types.ErrInvalidGenesis)

	bad := ledger.GenesisState{Balances: []ledger.Balance{{Address: "nope", Asset: types.Currency(), Amount: math.OneUint()}}}
	require.ErrorIs(t, bad.Validate(), types.ErrInvalidAddress)
}
