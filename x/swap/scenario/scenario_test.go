package scenario_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/tokenswap/app"
	"github.com/paw-chain/tokenswap/x/swap/scenario"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

var genesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func replay(t *testing.T, sc *scenario.Scenario) *scenario.Report {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.CheckInvariants = true

	swapApp, err := app.NewSwapApp(log.NewNopLogger(), dbm.NewMemDB(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, swapApp.Close()) })

	genesis, err := scenario.Genesis(sc)
	require.NoError(t, err)
	require.NoError(t, swapApp.InitChain(genesis))

	report, err := scenario.NewRunner(swapApp, log.NewNopLogger(), genesisTime).Run(sc)
	require.NoError(t, err)
	return report
}

func TestReplayReference(t *testing.T) {
	sc, err := scenario.Load("testdata/reference.yaml")
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob", "carol", "dave"}, sc.Actors())

	report := replay(t, sc)
	require.True(t, report.OK(), "%v", report.Mismatches)
	require.Equal(t, 5, report.Blocks)
	require.Equal(t, int64(5), report.Height)
	require.Len(t, report.Results, 11)
	require.NotEmpty(t, report.AppHash)
	require.Len(t, report.Accounts, 4)
	require.Equal(t, scenario.Address("dave").String(), report.Accounts["dave"])

	// the expected failures are recorded with their messages
	require.Contains(t, report.Results[4].Error, "zero tokens")
	require.Equal(t, 1, report.Results[1].Events)
}

func TestReplayIsDeterministic(t *testing.T) {
	sc, err := scenario.Load("testdata/reference.yaml")
	require.NoError(t, err)

	first := replay(t, sc)
	second := replay(t, sc)
	require.Equal(t, first.AppHash, second.AppHash)
}

func TestReplayReportsMismatches(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name: mismatches
balances:
  alice: {currency: 100, token/3: 100}
blocks:
  - actions:
      - {actor: alice, action: create_sell_order, token: 3, volume: 10, price: 2, expect_error: ZeroAmount}
      - {actor: alice, action: cancel_sell_order, order_id: 9}
    expect:
      balances:
        alice: {token/3: 100}
      orders:
        1: null
      pools:
        3: {token_reserve: 1}
`))
	require.NoError(t, err)

	report := replay(t, sc)
	require.False(t, report.OK())
	require.Len(t, report.Mismatches, 5)
	require.Contains(t, report.Mismatches[0], "expected ZeroAmount, action succeeded")
	require.Contains(t, report.Mismatches[1], "unexpected error")
	require.Contains(t, report.Mismatches[2], "balance of alice in token/3 is 90, expected 100")
	require.Contains(t, report.Mismatches[3], "pool 3 token reserve is 0, expected 1")
	require.Contains(t, report.Mismatches[4], "order 1 is still open")
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "blocks:\n  - actions:\n      - {actor: a, action: swap, colour: red}\n"},
		{name: "unknown action", doc: "blocks:\n  - actions:\n      - {actor: a, action: mint}\n"},
		{name: "missing actor", doc: "blocks:\n  - actions:\n      - {action: cancel_sell_order}\n"},
		{name: "bad direction", doc: "blocks:\n  - actions:\n      - {actor: a, action: swap, direction: up}\n"},
		{name: "unknown error kind", doc: "blocks:\n  - actions:\n      - {actor: a, action: cancel_sell_order, expect_error: Oops}\n"},
		{name: "negative amount", doc: "blocks:\n  - actions:\n      - {actor: a, action: create_sell_order, volume: -1}\n"},
		{name: "bad asset", doc: "balances:\n  a: {gold: 1}\n"},
		{name: "module funded at genesis", doc: "balances:\n  module: {currency: 1}\n"},
		{name: "bad params", doc: "params: {fee_numerator: 1, fee_denominator: 0}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestAmountPrecision(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
balances:
  whale: {currency: 115792089237316195423570985008687907853269984665640564039457584007913129639935}
  minnow: {currency: 1_000}
`))
	require.NoError(t, err)
	require.Equal(t,
		"115792089237316195423570985008687907853269984665640564039457584007913129639935",
		sc.Balances["whale"]["currency"].String())
	require.Equal(t, "1000", sc.Balances["minnow"]["currency"].String())

	_, err = scenario.Parse([]byte(`
balances:
  whale: {currency: 115792089237316195423570985008687907853269984665640564039457584007913129639936}
`))
	require.Error(t, err)
}

func TestParseAsset(t *testing.T) {
	asset, err := scenario.ParseAsset("currency")
	require.NoError(t, err)
	require.Equal(t, types.Currency(), asset)

	asset, err = scenario.ParseAsset("token/12")
	require.NoError(t, err)
	require.Equal(t, types.Token(12), asset)

	asset, err = scenario.ParseAsset("12")
	require.NoError(t, err)
	require.Equal(t, types.Token(12), asset)

	_, err = scenario.ParseAsset("token/x")
	require.Error(t, err)
}

func TestAddressIsStable(t *testing.T) {
	require.Equal(t, scenario.Address("alice"), scenario.Address("alice"))
	require.NotEqual(t, scenario.Address("alice"), scenario.Address("bob"))
	require.Len(t, scenario.Address("alice"), 20)
	require.Equal(t, types.ModuleAddress(), scenario.Address(scenario.ModuleActor))
}

func TestErrorByName(t *testing.T) {
	err, ok := scenario.ErrorByName("TooLowLiquidity")
	require.True(t, ok)
	require.Equal(t, types.ErrTooLowLiquidity, err)

	_, ok = scenario.ErrorByName("InvariantViolation")
	require.False(t, ok)
}
