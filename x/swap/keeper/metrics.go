package keeper

import (
	"context"
	"math/big"
	"strconv"
	"sync"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// SwapMetrics holds all Prometheus metrics for the swap module
type SwapMetrics struct {
	// Order book metrics
	OrdersCreated   prometheus.Counter
	OrdersCancelled prometheus.Counter
	BuyFills        *prometheus.CounterVec

	// Pool metrics
	SwapsTotal       *prometheus.CounterVec
	LiquidityAdded   prometheus.Counter
	LiquidityRemoved prometheus.Counter
	PoolReserves     *prometheus.GaugeVec
	PoolShares       *prometheus.GaugeVec

	// Action metrics
	ActionsTotal   *prometheus.CounterVec
	ActionFailures *prometheus.CounterVec
}

var (
	swapMetricsOnce sync.Once
	swapMetrics     *SwapMetrics
)

// NewSwapMetrics creates and registers swap metrics (singleton pattern)
func NewSwapMetrics() *SwapMetrics {
	swapMetricsOnce.Do(func() {
		swapMetrics = &SwapMetrics{
			OrdersCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "sell_orders_created_total",
					Help:      "Total number of sell orders placed in the book",
				},
			),
			OrdersCancelled: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "sell_orders_cancelled_total",
					Help:      "Total number of sell orders withdrawn by their seller",
				},
			),
			BuyFills: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "buy_fills_total",
					Help:      "Total number of settled buy orders by route",
				},
				[]string{"route"},
			),
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "pool_swaps_total",
					Help:      "Total number of pool swaps executed",
				},
				[]string{"token_id", "direction"},
			),
			LiquidityAdded: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "liquidity_added_total",
					Help:      "Total number of liquidity deposits",
				},
			),
			LiquidityRemoved: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "liquidity_removed_total",
					Help:      "Total number of liquidity withdrawals",
				},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "pool_reserves",
					Help:      "Current pool reserves",
				},
				[]string{"token_id", "asset"},
			),
			PoolShares: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "pool_total_shares",
					Help:      "Outstanding liquidity shares per pool",
				},
				[]string{"token_id"},
			),
			ActionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "actions_total",
					Help:      "Total number of actions submitted to the swap module",
				},
				[]string{"action", "status"},
			),
			ActionFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "tokenswap",
					Subsystem: "swap",
					Name:      "action_failures_total",
					Help:      "Rejected actions by error kind",
				},
				[]string{"action", "codespace", "code"},
			),
		}
	})
	return swapMetrics
}

// RecordEvents counts the actions behind the events of a committed block
func (m *SwapMetrics) RecordEvents(events sdk.Events) {
	for _, ev := range events {
		switch ev.Type {
		case types.EventTypeSellOrderCreated:
			m.OrdersCreated.Inc()
		case types.EventTypeSellOrderCancelled:
			m.OrdersCancelled.Inc()
		case types.EventTypeBuyOrderFilled:
			route := eventAttribute(ev, types.AttributeKeyRoute)
			m.BuyFills.WithLabelValues(route).Inc()
			if route == types.RoutePool {
				m.SwapsTotal.WithLabelValues(eventAttribute(ev, types.AttributeKeyTokenID), types.CurrencyToToken.String()).Inc()
			}
		case types.EventTypeSwapped:
			m.SwapsTotal.WithLabelValues(
				eventAttribute(ev, types.AttributeKeyTokenID),
				eventAttribute(ev, types.AttributeKeyDirection),
			).Inc()
		case types.EventTypeLiquidityAdded:
			m.LiquidityAdded.Inc()
		case types.EventTypeLiquidityRemoved:
			m.LiquidityRemoved.Inc()
		}
	}
}

// RecordPools replaces the exported reserves with those of pools. Pools
// missing from the list are dropped from the gauges.
func (m *SwapMetrics) RecordPools(pools []types.Pool) {
	m.PoolReserves.Reset()
	m.PoolShares.Reset()
	for _, pool := range pools {
		tokenID := strconv.FormatUint(pool.TokenID, 10)
		m.PoolReserves.WithLabelValues(tokenID, "token").Set(approxFloat(pool.TokenReserve))
		m.PoolReserves.WithLabelValues(tokenID, "currency").Set(approxFloat(pool.CurrencyReserve))
		m.PoolShares.WithLabelValues(tokenID).Set(approxFloat(pool.TotalShares))
	}
}

// RecordCommitted exports a committed block: the counters from the events of
// its actions and the pool gauges from the committed state in ctx.
func (k Keeper) RecordCommitted(ctx context.Context, events sdk.Events) error {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return err
	}
	k.metrics.RecordEvents(events)
	k.metrics.RecordPools(pools)
	return nil
}

func eventAttribute(ev sdk.Event, key string) string {
	for _, attr := range ev.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

// approxFloat converts an amount for gauges only; never use the result in state.
func approxFloat(u math.Uint) float64 {
	if u.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(u.BigIntMut()).Float64()
	return f
}
