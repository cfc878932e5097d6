package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/tokenswap/x/swap/keeper"
	"github.com/paw-chain/tokenswap/x/swap/ledger"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

// SwapKeeper creates a swap keeper over an in-memory store with a KV ledger
// mounted alongside it, initialised from the default genesis
func SwapKeeper(t testing.TB) (*keeper.Keeper, ledger.Store, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(types.LedgerStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	ldg := ledger.NewStore(ledgerKey)
	k := keeper.NewKeeper(storeKey, ldg)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return k, ldg, ctx
}

// FundAccount mints currency and token balances into an account
func FundAccount(t testing.TB, l ledger.Store, ctx sdk.Context, addr sdk.AccAddress, currency uint64, tokens map[uint64]uint64) {
	t.Helper()
	if currency > 0 {
		require.NoError(t, l.Mint(ctx, addr, types.Currency(), math.NewUint(currency)))
	}
	for id, amount := range tokens {
		require.NoError(t, l.Mint(ctx, addr, types.Token(id), math.NewUint(amount)))
	}
}

// TestAddr returns a deterministic test address for index i
func TestAddr(i int) sdk.AccAddress {
	addr := make([]byte, 20)
	addr[0] = 0xa0
	addr[19] = byte(i)
	addr[18] = byte(i >> 8)
	return sdk.AccAddress(addr)
}
