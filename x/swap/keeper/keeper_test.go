package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/tokenswap/testutil/keeper"
	"github.com/paw-chain/tokenswap/x/swap/keeper"
	"github.com/paw-chain/tokenswap/x/swap/ledger"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

var (
	alice = keepertest.TestAddr(1)
	bob   = keepertest.TestAddr(2)
	carol = keepertest.TestAddr(3)
)

func u(n uint64) math.Uint { return math.NewUint(n) }

func requireAmount(t require.TestingT, expected uint64, got math.Uint, msgAndArgs ...interface{}) {
	require.False(t, got.IsNil(), msgAndArgs...)
	require.Equal(t, math.NewUint(expected).String(), got.String(), msgAndArgs...)
}

func currencyOf(l ledger.Store, ctx sdk.Context, addr sdk.AccAddress) math.Uint {
	return l.Balance(ctx, addr, types.Currency())
}

func tokensOf(l ledger.Store, ctx sdk.Context, addr sdk.AccAddress, tokenID uint64) math.Uint {
	return l.Balance(ctx, addr, types.Token(tokenID))
}

// seedPool funds a provider and opens a pool with the given reserves
func seedPool(t *testing.T, k *keeper.Keeper, l ledger.Store, ctx sdk.Context, provider sdk.AccAddress, tokenID, tokens, currency uint64) {
	t.Helper()
	keepertest.FundAccount(t, l, ctx, provider, currency, map[uint64]uint64{tokenID: tokens})
	_, _, err := k.AddLiquidity(ctx, provider, tokenID, u(tokens), u(currency))
	require.NoError(t, err)
}

func findEvent(events sdk.Events, eventType string) (sdk.Event, bool) {
	for _, ev := range events {
		if ev.Type == eventType {
			return ev, true
		}
	}
	return sdk.Event{}, false
}

func attribute(ev sdk.Event, key string) string {
	for _, a := range ev.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func TestParamsDefaultAndSet(t *testing.T) {
	k, _, ctx := keepertest.SwapKeeper(t)

	params, err := k.GetParams(ctx)
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), params)

	require.NoError(t, k.SetParams(ctx, types.NewParams(0, 1)))
	params, err = k.GetParams(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), params.FeeNumerator)

	err = k.SetParams(ctx, types.NewParams(5, 5))
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

func TestModuleAddressIsStable(t *testing.T) {
	k, _, _ := keepertest.SwapKeeper(t)
	require.Equal(t, types.ModuleAddress(), k.GetModuleAddress())
	require.NotEmpty(t, k.GetModuleAddress())
}
