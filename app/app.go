// Package app assembles the swap node: a commit multistore holding the swap
// and ledger stores, the keepers over it, an action router and a block
// lifecycle that commits one version per block.
package app

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/tokenswap/app/telemetry"
	swapkeeper "github.com/paw-chain/tokenswap/x/swap/keeper"
	"github.com/paw-chain/tokenswap/x/swap/ledger"
	swaptypes "github.com/paw-chain/tokenswap/x/swap/types"
)

const (
	// Name is the application name
	Name = "tokenswap"

	// DBName is the name of the application database under the data dir
	DBName = "application"
)

// OpenDB opens the application database for cfg
func OpenDB(cfg Config) (dbm.DB, error) {
	if cfg.DBBackend == dbm.MemDBBackend {
		return dbm.NewMemDB(), nil
	}
	db, err := dbm.NewDB(DBName, cfg.DBBackend, cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database in %s: %w", cfg.DBBackend, cfg.DataDir(), err)
	}
	return db, nil
}

// SwapApp is the swap state machine with its block lifecycle
type SwapApp struct {
	logger          log.Logger
	db              dbm.DB
	cms             storetypes.CommitMultiStore
	keys            map[string]*storetypes.KVStoreKey
	chainID         string
	checkInvariants bool
	invariants      *invariantRegistry

	// keepers
	SwapKeeper *swapkeeper.Keeper
	Ledger     ledger.Store

	msgServer   swaptypes.MsgServer
	queryServer swaptypes.QueryServer

	// block state, non-nil between BeginBlock and Commit
	deliver *blockState

	blocksCommitted metric.Int64Counter
	actionsRouted   metric.Int64Counter
}

type blockState struct {
	ms      storetypes.CacheMultiStore
	ctx     sdk.Context
	spanCtx context.Context
	span    trace.Span

	// events of the actions delivered so far
	events sdk.Events
}

// DeliverResult is the outcome of one successfully delivered action
type DeliverResult struct {
	Response interface{}
	Events   sdk.Events
}

// NewSwapApp returns a reference to an initialized SwapApp over db
func NewSwapApp(logger log.Logger, db dbm.DB, cfg Config) (*SwapApp, error) {
	keys := map[string]*storetypes.KVStoreKey{
		swaptypes.StoreKey:       storetypes.NewKVStoreKey(swaptypes.StoreKey),
		swaptypes.LedgerStoreKey: storetypes.NewKVStoreKey(swaptypes.LedgerStoreKey),
	}

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	app := &SwapApp{
		logger:          logger.With("module", "app"),
		db:              db,
		cms:             cms,
		keys:            keys,
		chainID:         cfg.ChainID,
		checkInvariants: cfg.CheckInvariants,
		invariants:      &invariantRegistry{},
	}

	app.Ledger = ledger.NewStore(keys[swaptypes.LedgerStoreKey])
	app.SwapKeeper = swapkeeper.NewKeeper(keys[swaptypes.StoreKey], app.Ledger)
	app.msgServer = swapkeeper.NewMsgServerImpl(*app.SwapKeeper)
	app.queryServer = swapkeeper.NewQueryServerImpl(*app.SwapKeeper)
	swapkeeper.RegisterInvariants(app.invariants, *app.SwapKeeper)

	meter := otel.Meter(Name)
	var err error
	if app.blocksCommitted, err = meter.Int64Counter("tokenswap.blocks.committed",
		metric.WithDescription("Number of committed blocks")); err != nil {
		return nil, fmt.Errorf("failed to create block counter: %w", err)
	}
	if app.actionsRouted, err = meter.Int64Counter("tokenswap.actions.routed",
		metric.WithDescription("Number of actions routed to the swap module")); err != nil {
		return nil, fmt.Errorf("failed to create action counter: %w", err)
	}

	return app, nil
}

// InvariantRoutes lists the invariants checked at the end of each block
func (app *SwapApp) InvariantRoutes() []string {
	return app.invariants.Routes()
}

// Logger returns the application logger
func (app *SwapApp) Logger() log.Logger {
	return app.logger
}

// ChainID returns the chain id blocks are produced under
func (app *SwapApp) ChainID() string {
	return app.chainID
}

// LastBlockHeight returns the height of the last committed block
func (app *SwapApp) LastBlockHeight() int64 {
	return app.cms.LastCommitID().Version
}

// LastCommitID returns the version and app hash of the last commit
func (app *SwapApp) LastCommitID() storetypes.CommitID {
	return app.cms.LastCommitID()
}

// MsgServer returns the swap action surface, for callers that hold their own context
func (app *SwapApp) MsgServer() swaptypes.MsgServer {
	return app.msgServer
}

// QueryServer returns the swap query surface
func (app *SwapApp) QueryServer() swaptypes.QueryServer {
	return app.queryServer
}

// InitChain loads genesis into the working state. The state is committed with
// the first block.
func (app *SwapApp) InitChain(genesis GenesisState) error {
	if app.LastBlockHeight() != 0 {
		return fmt.Errorf("chain already initialized at height %d", app.LastBlockHeight())
	}

	swapGenesis, ledgerGenesis, err := genesis.Decode()
	if err != nil {
		return err
	}
	if err := ledgerGenesis.Validate(); err != nil {
		return err
	}

	ms := app.cms.CacheMultiStore()
	ctx := sdk.NewContext(ms, cmtproto.Header{ChainID: app.chainID}, false, app.logger)

	if err := app.Ledger.InitGenesis(ctx, *ledgerGenesis); err != nil {
		return err
	}
	if err := app.SwapKeeper.InitGenesis(ctx, *swapGenesis); err != nil {
		return err
	}

	if msg, broken := swapkeeper.AllInvariants(*app.SwapKeeper)(ctx); broken {
		return swaptypes.ErrInvalidGenesis.Wrap(msg)
	}

	ms.Write()
	app.logger.Info("initialized chain from genesis",
		"chain_id", app.chainID,
		"orders", len(swapGenesis.Orders),
		"pools", len(swapGenesis.Pools),
		"balances", len(ledgerGenesis.Balances),
	)
	return nil
}

// BeginBlock opens the branch every action of the block executes against
func (app *SwapApp) BeginBlock(height int64, blockTime time.Time) error {
	if app.deliver != nil {
		return fmt.Errorf("block %d still open", app.deliver.ctx.BlockHeight())
	}
	if expected := app.LastBlockHeight() + 1; height != expected {
		return fmt.Errorf("invalid block height %d, expected %d", height, expected)
	}

	spanCtx, span := telemetry.StartBlockSpan(context.Background(), height, app.chainID)

	ms := app.cms.CacheMultiStore()
	header := cmtproto.Header{ChainID: app.chainID, Height: height, Time: blockTime}
	ctx := sdk.NewContext(ms, header, false, app.logger).WithContext(spanCtx)

	app.deliver = &blockState{ms: ms, ctx: ctx, spanCtx: spanCtx, span: span}
	return nil
}

// Deliver executes one action inside the open block. A failed action leaves
// the block state untouched.
func (app *SwapApp) Deliver(msg swaptypes.Msg) (*DeliverResult, error) {
	if app.deliver == nil {
		return nil, fmt.Errorf("no open block")
	}

	spanCtx, span := telemetry.StartActionSpan(app.deliver.spanCtx, msg.Type(), app.deliver.ctx.BlockHeight())
	defer span.End()

	ctx := app.deliver.ctx.WithEventManager(sdk.NewEventManager()).WithContext(spanCtx)
	res, err := app.route(ctx, msg)

	app.actionsRouted.Add(spanCtx, 1, metric.WithAttributes(
		attribute.String("action", msg.Type()),
		attribute.Bool("success", err == nil),
	))

	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetSpanStatus(span, true, "")
	events := ctx.EventManager().Events()
	app.deliver.events = app.deliver.events.AppendEvents(events)
	return &DeliverResult{Response: res, Events: events}, nil
}

func (app *SwapApp) route(ctx sdk.Context, msg swaptypes.Msg) (interface{}, error) {
	switch m := msg.(type) {
	case *swaptypes.MsgCreateSellOrder:
		return app.msgServer.CreateSellOrder(ctx, m)
	case *swaptypes.MsgCancelSellOrder:
		return app.msgServer.CancelSellOrder(ctx, m)
	case *swaptypes.MsgBuyOrder:
		return app.msgServer.BuyOrder(ctx, m)
	case *swaptypes.MsgAddLiquidity:
		return app.msgServer.AddLiquidity(ctx, m)
	case *swaptypes.MsgRemoveLiquidity:
		return app.msgServer.RemoveLiquidity(ctx, m)
	case *swaptypes.MsgSwap:
		return app.msgServer.Swap(ctx, m)
	default:
		return nil, sdkerrors.ErrUnknownRequest.Wrapf("unrecognized %s message type: %T", swaptypes.ModuleName, msg)
	}
}

// EndBlock runs the end of block checks
func (app *SwapApp) EndBlock() error {
	if app.deliver == nil {
		return fmt.Errorf("no open block")
	}
	if !app.checkInvariants {
		return nil
	}

	if err := app.invariants.assert(app.deliver.ctx); err != nil {
		telemetry.RecordError(app.deliver.span, err)
		return err
	}
	return nil
}

// Commit writes the block state and persists a new version
func (app *SwapApp) Commit() storetypes.CommitID {
	if app.deliver == nil {
		return app.cms.LastCommitID()
	}

	app.deliver.ms.Write()
	cid := app.cms.Commit()

	if err := app.SwapKeeper.RecordCommitted(app.QueryContext(), app.deliver.events); err != nil {
		app.logger.Error("failed to export swap metrics", "height", cid.Version, "error", err)
	}

	app.blocksCommitted.Add(app.deliver.spanCtx, 1)
	app.deliver.span.SetAttributes(attribute.String("app_hash", fmt.Sprintf("%X", cid.Hash)))
	app.deliver.span.End()
	app.deliver = nil

	app.logger.Debug("committed block", "height", cid.Version, "app_hash", fmt.Sprintf("%X", cid.Hash))
	return cid
}

// DiscardBlock drops the open block without committing it
func (app *SwapApp) DiscardBlock() {
	if app.deliver == nil {
		return
	}
	telemetry.SetSpanStatus(app.deliver.span, false, "block discarded")
	app.deliver.span.End()
	app.deliver = nil
}

// QueryContext returns a read-only context over the last committed state
func (app *SwapApp) QueryContext() sdk.Context {
	header := cmtproto.Header{ChainID: app.chainID, Height: app.LastBlockHeight()}
	return sdk.NewContext(app.cms.CacheMultiStore(), header, false, app.logger)
}

// ExportGenesis exports the committed state of every module
func (app *SwapApp) ExportGenesis() (GenesisState, error) {
	ctx := app.QueryContext()

	swapGenesis, err := app.SwapKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	ledgerGenesis, err := app.Ledger.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}

	genesis := make(GenesisState)
	genesis[swaptypes.ModuleName] = mustMarshalJSON(swapGenesis)
	genesis[swaptypes.LedgerStoreKey] = mustMarshalJSON(ledgerGenesis)
	return genesis, nil
}

// Close releases the database
func (app *SwapApp) Close() error {
	app.DiscardBlock()
	return app.db.Close()
}
