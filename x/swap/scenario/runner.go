package scenario

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/tokenswap/app"
	"github.com/paw-chain/tokenswap/x/swap/ledger"
	"github.com/paw-chain/tokenswap/x/swap/types"
)

// BlockInterval spaces the timestamps of replayed blocks
const BlockInterval = 5 * time.Second

var errorsByName = map[string]*errorsmod.Error{
	"StorageOverflow":        types.ErrStorageOverflow,
	"NoneValue":              types.ErrNoneValue,
	"Deadline":               types.ErrDeadline,
	"ZeroTokens":             types.ErrZeroTokens,
	"ZeroAmount":             types.ErrZeroAmount,
	"NoSwapExists":           types.ErrNoSwapExists,
	"SwapAlreadyExists":      types.ErrSwapAlreadyExists,
	"RequestedZeroLiquidity": types.ErrRequestedZeroLiquidity,
	"TooManyTokens":          types.ErrTooManyTokens,
	"TooLowLiquidity":        types.ErrTooLowLiquidity,
	"NoCurrencySwapped":      types.ErrNoCurrencySwapped,
	"NoTokensSwapped":        types.ErrNoTokensSwapped,
	"BurnZeroShares":         types.ErrBurnZeroShares,
	"NoLiquidity":            types.ErrNoLiquidity,
	"NotEnoughCurrency":      types.ErrNotEnoughCurrency,
	"NotEnoughTokens":        types.ErrNotEnoughTokens,
	"TooExpensiveCurrency":   types.ErrTooExpensiveCurrency,
	"TooExpensiveTokens":     types.ErrTooExpensiveTokens,
	"Unauthorized":           types.ErrUnauthorized,
	"InsufficientFunds":      types.ErrInsufficientFunds,
	"InsufficientShares":     types.ErrInsufficientShares,
	"InvalidAddress":         types.ErrInvalidAddress,
}

// ErrorByName returns the registered error of a scenario error kind
func ErrorByName(name string) (*errorsmod.Error, bool) {
	err, ok := errorsByName[name]
	return err, ok
}

// ActionResult records the outcome of one replayed action
type ActionResult struct {
	Block  int64  `json:"block"`
	Index  int    `json:"index"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
	Events int    `json:"events"`
}

// Report summarises a replay
type Report struct {
	Scenario   string            `json:"scenario"`
	Accounts   map[string]string `json:"accounts"`
	Blocks     int               `json:"blocks"`
	Results    []ActionResult    `json:"results"`
	Mismatches []string          `json:"mismatches,omitempty"`
	Height     int64             `json:"height"`
	AppHash    string            `json:"app_hash"`
}

// OK reports whether every expectation held
func (r Report) OK() bool {
	return len(r.Mismatches) == 0
}

// Runner replays scenarios against an app
type Runner struct {
	app    *app.SwapApp
	logger log.Logger
	start  time.Time
}

// NewRunner returns a runner producing blocks timestamped from start
func NewRunner(swapApp *app.SwapApp, logger log.Logger, start time.Time) *Runner {
	return &Runner{
		app:    swapApp,
		logger: logger.With("module", "scenario"),
		start:  start,
	}
}

// Genesis builds the app genesis of a scenario: its params and funded actors
func Genesis(sc *Scenario) (app.GenesisState, error) {
	swapGenesis := types.DefaultGenesis()
	if sc.Params != nil {
		swapGenesis.Params = *sc.Params
	}

	actors := make([]string, 0, len(sc.Balances))
	for actor := range sc.Balances {
		actors = append(actors, actor)
	}
	sort.Strings(actors)

	ledgerGenesis := ledger.DefaultGenesis()
	for _, actor := range actors {
		assets := make([]string, 0, len(sc.Balances[actor]))
		for asset := range sc.Balances[actor] {
			assets = append(assets, asset)
		}
		sort.Strings(assets)
		for _, name := range assets {
			asset, err := ParseAsset(name)
			if err != nil {
				return nil, err
			}
			ledgerGenesis.Balances = append(ledgerGenesis.Balances, ledger.Balance{
				Address: Address(actor).String(),
				Asset:   asset,
				Amount:  sc.Balances[actor][name].Value(),
			})
		}
	}

	swapBz, err := json.Marshal(swapGenesis)
	if err != nil {
		return nil, err
	}
	ledgerBz, err := json.Marshal(ledgerGenesis)
	if err != nil {
		return nil, err
	}
	return app.GenesisState{
		types.ModuleName:     swapBz,
		types.LedgerStoreKey: ledgerBz,
	}, nil
}

// Run executes every block of sc. Action outcomes that differ from the
// scenario and failed expectations are collected in the report; lifecycle
// failures such as a broken invariant abort the replay.
func (r *Runner) Run(sc *Scenario) (*Report, error) {
	report := &Report{Scenario: sc.Name, Accounts: map[string]string{}}
	for _, actor := range sc.Actors() {
		report.Accounts[actor] = Address(actor).String()
	}

	for i, block := range sc.Blocks {
		height := r.app.LastBlockHeight() + 1
		if err := r.app.BeginBlock(height, r.start.Add(time.Duration(height)*BlockInterval)); err != nil {
			return report, err
		}

		for j, action := range block.Actions {
			result, err := r.deliver(height, j, action)
			report.Results = append(report.Results, result)
			if mismatch := compareError(action.ExpectError, err); mismatch != "" {
				report.Mismatches = append(report.Mismatches,
					fmt.Sprintf("block %d action %d (%s by %s): %s", height, j+1, action.Kind, action.Actor, mismatch))
			}
		}

		if err := r.app.EndBlock(); err != nil {
			r.app.DiscardBlock()
			return report, fmt.Errorf("block %d: %w", height, err)
		}
		cid := r.app.Commit()
		report.Blocks++
		report.Height = cid.Version
		report.AppHash = fmt.Sprintf("%X", cid.Hash)

		if block.Expect != nil {
			for _, mismatch := range r.check(*block.Expect) {
				report.Mismatches = append(report.Mismatches, fmt.Sprintf("after block %d: %s", height, mismatch))
			}
		}
		r.logger.Debug("replayed block", "index", i+1, "height", height, "actions", len(block.Actions))
	}

	r.logger.Info("replayed scenario",
		"scenario", sc.Name,
		"blocks", report.Blocks,
		"actions", len(report.Results),
		"mismatches", len(report.Mismatches),
	)
	return report, nil
}

func (r *Runner) deliver(height int64, index int, action Action) (ActionResult, error) {
	result := ActionResult{Block: height, Index: index + 1, Actor: action.Actor, Action: action.Kind}

	msg, err := action.Msg(Address(action.Actor))
	if err == nil {
		var res *app.DeliverResult
		if res, err = r.app.Deliver(msg); err == nil {
			result.Events = len(res.Events)
		}
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result, err
}

func compareError(expected string, err error) string {
	switch {
	case expected == "" && err == nil:
		return ""
	case expected == "":
		return fmt.Sprintf("unexpected error: %s", err)
	case err == nil:
		return fmt.Sprintf("expected %s, action succeeded", expected)
	}
	want, _ := ErrorByName(expected)
	if !errorsmod.IsOf(err, want) {
		return fmt.Sprintf("expected %s, got: %s", expected, err)
	}
	return ""
}

func (r *Runner) check(expect Expectation) []string {
	ctx := r.app.QueryContext()
	var mismatches []string

	for _, actor := range sortedKeys(expect.Balances) {
		addr := Address(actor)
		for _, name := range sortedKeys(expect.Balances[actor]) {
			asset, err := ParseAsset(name)
			if err != nil {
				mismatches = append(mismatches, err.Error())
				continue
			}
			want := expect.Balances[actor][name].Value()
			if got := r.app.Ledger.Balance(ctx, addr, asset); !got.Equal(want) {
				mismatches = append(mismatches, fmt.Sprintf("balance of %s in %s is %s, expected %s", actor, asset, got, want))
			}
		}
	}

	for _, tokenID := range sortedIDs(expect.Pools) {
		mismatches = append(mismatches, r.checkPool(ctx, tokenID, expect.Pools[tokenID])...)
	}

	for _, orderID := range sortedIDs(expect.Orders) {
		want := expect.Orders[orderID]
		order, err := r.app.SwapKeeper.GetOrder(ctx, orderID)
		switch {
		case want == nil && err == nil:
			mismatches = append(mismatches, fmt.Sprintf("order %d is still open", orderID))
		case want == nil:
		case err != nil:
			mismatches = append(mismatches, fmt.Sprintf("order %d: %s", orderID, err))
		default:
			if want.Seller != "" && !order.Seller.Equals(Address(want.Seller)) {
				mismatches = append(mismatches, fmt.Sprintf("order %d is owned by %s, expected %s", orderID, order.Seller, want.Seller))
			}
			if !want.Remaining.IsNil() && !order.Remaining.Equal(want.Remaining.Uint) {
				mismatches = append(mismatches, fmt.Sprintf("order %d has %s remaining, expected %s", orderID, order.Remaining, want.Remaining))
			}
			if !want.Price.IsNil() && !order.Price.Equal(want.Price.Uint) {
				mismatches = append(mismatches, fmt.Sprintf("order %d is priced %s, expected %s", orderID, order.Price, want.Price))
			}
		}
	}

	for _, tokenID := range sortedIDs(expect.Positions) {
		for _, actor := range sortedKeys(expect.Positions[tokenID]) {
			want := expect.Positions[tokenID][actor].Value()
			if got := r.app.SwapKeeper.GetPosition(ctx, tokenID, Address(actor)); !amountEqual(got, want) {
				mismatches = append(mismatches, fmt.Sprintf("%s holds %s shares of pool %d, expected %s", actor, got, tokenID, want))
			}
		}
	}

	return mismatches
}

func (r *Runner) checkPool(ctx sdk.Context, tokenID uint64, want PoolExpectation) []string {
	pool, found, err := r.app.SwapKeeper.GetPool(ctx, tokenID)
	if err != nil {
		return []string{fmt.Sprintf("pool %d: %s", tokenID, err)}
	}
	if !found {
		pool = types.NewEmptyPool(tokenID)
	}

	var mismatches []string
	for _, field := range []struct {
		name      string
		got, want math.Uint
	}{
		{"token reserve", pool.TokenReserve, want.TokenReserve.Value()},
		{"currency reserve", pool.CurrencyReserve, want.CurrencyReserve.Value()},
		{"total shares", pool.TotalShares, want.TotalShares.Value()},
	} {
		if !amountEqual(field.got, field.want) {
			mismatches = append(mismatches, fmt.Sprintf("pool %d %s is %s, expected %s", tokenID, field.name, field.got, field.want))
		}
	}
	return mismatches
}

func amountEqual(a, b math.Uint) bool {
	if types.IsZeroAmount(a) || types.IsZeroAmount(b) {
		return types.IsZeroAmount(a) && types.IsZeroAmount(b)
	}
	return a.Equal(b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIDs[V any](m map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
