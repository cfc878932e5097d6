package keeper

import (
	"context"
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

const tracerName = "github.com/paw-chain/tokenswap/x/swap"

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the swap MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// atomic runs fn against a branch of the store. The branch, and the events
// emitted into it, are committed only when fn succeeds.
func (ms msgServer) atomic(goCtx context.Context, msg types.Msg, fn func(ctx sdk.Context) error) error {
	action := msg.Type()
	spanCtx, span := otel.Tracer(tracerName).Start(goCtx, "module.swap."+action,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("module.operation", action)),
	)
	defer span.End()

	sdkCtx := sdk.UnwrapSDKContext(goCtx).WithContext(spanCtx)
	span.SetAttributes(attribute.Int64("block.height", sdkCtx.BlockHeight()))

	err := msg.ValidateBasic()
	if err == nil {
		cacheCtx, write := sdkCtx.CacheContext()
		if err = fn(cacheCtx); err == nil {
			write()
		}
	}

	if err != nil {
		codespace, code, _ := errorsmod.ABCIInfo(err, false)
		ms.Logger(sdkCtx).Debug("action rejected", "action", action, "error", err)
		ms.metrics.ActionsTotal.WithLabelValues(action, "failed").Inc()
		ms.metrics.ActionFailures.WithLabelValues(action, codespace, strconv.FormatUint(uint64(code), 10)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	ms.metrics.ActionsTotal.WithLabelValues(action, "success").Inc()
	span.SetStatus(codes.Ok, "")
	return nil
}

// CreateSellOrder handles placing a sell order in the book
func (ms msgServer) CreateSellOrder(goCtx context.Context, msg *types.MsgCreateSellOrder) (*types.MsgCreateSellOrderResponse, error) {
	var orderID uint64
	err := ms.atomic(goCtx, msg, func(ctx sdk.Context) error {
		seller, err := msg.GetSigner()
		if err != nil {
			return err
		}
		order, err := ms.Keeper.CreateSellOrder(ctx, seller, msg.TokenID, msg.Volume, msg.Price)
		if err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("CreateSellOrder: %w", err)
	}

	return &types.MsgCreateSellOrderResponse{OrderID: orderID}, nil
}

// CancelSellOrder handles a seller withdrawing an order
func (ms msgServer) CancelSellOrder(goCtx context.Context, msg *types.MsgCancelSellOrder) (*types.MsgCancelSellOrderResponse, error) {
	var refunded math.Uint
	err := ms.atomic(goCtx, msg, func(ctx sdk.Context) error {
		seller, err := msg.GetSigner()
		if err != nil {
			return err
		}
		order, err := ms.Keeper.CancelSellOrder(ctx, seller, msg.OrderID)
		if err != nil {
			return err
		}
		refunded = order.Remaining
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("CancelSellOrder: %w", err)
	}

	return &types.MsgCancelSellOrderResponse{Refunded: refunded}, nil
}

// BuyOrder handles buying tokens from the book or, failing that, the pool
func (ms msgServer) BuyOrder(goCtx context.Context, msg *types.MsgBuyOrder) (*types.MsgBuyOrderResponse, error) {
	var fill *types.BuyOrderFilled
	err := ms.atomic(goCtx, msg, func(ctx sdk.Context) error {
		buyer, err := msg.GetSigner()
		if err != nil {
			return err
		}
		fill, err = ms.Keeper.BuyOrder(ctx, buyer, msg.TokenID, msg.MaxPrice, msg.Volume, msg.Deadline)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("BuyOrder: %w", err)
	}

	ms.Logger(goCtx).Info("buy order filled",
		"route", fill.Route,
		"order_id", fill.OrderID,
		"token_id", msg.TokenID,
		"volume", fill.Volume.String(),
		"price_paid", fill.PricePaid.String(),
	)
	return &types.MsgBuyOrderResponse{
		OrderID:   fill.OrderID,
		Route:     fill.Route,
		PricePaid: fill.PricePaid,
		Seller:    fill.Seller.String(),
	}, nil
}

// AddLiquidity handles depositing into a pool
func (ms msgServer) AddLiquidity(goCtx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	var shares, currencyUsed math.Uint
	err := ms.atomic(goCtx, msg, func(ctx sdk.Context) error {
		if err := checkDeadline(ctx, msg.Deadline); err != nil {
			return err
		}
		provider, err := msg.GetSigner()
		if err != nil {
			return err
		}
		shares, currencyUsed, err = ms.Keeper.AddLiquidity(ctx, provider, msg.TokenID, msg.TokenAmount, msg.CurrencyAmount)
		if err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(types.LiquidityAdded{
			TokenID:        msg.TokenID,
			Provider:       provider,
			TokenAmount:    msg.TokenAmount,
			CurrencyAmount: currencyUsed,
			Shares:         shares,
		}.ToEvent())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}

	return &types.MsgAddLiquidityResponse{Shares: shares, CurrencyUsed: currencyUsed}, nil
}

// RemoveLiquidity handles burning pool shares
func (ms msgServer) RemoveLiquidity(goCtx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	var tokenOut, currencyOut math.Uint
	err := ms.atomic(goCtx, msg, func(ctx sdk.Context) error {
		if err := checkDeadline(ctx, msg.Deadline); err != nil {
			return err
		}
		provider, err := msg.GetSigner()
		if err != nil {
			return err
		}
		tokenOut, currencyOut, err = ms.Keeper.RemoveLiquidity(ctx, provider, msg.TokenID, msg.Shares, msg.MinTokens, msg.MinCurrency)
		if err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(types.LiquidityRemoved{
			TokenID:        msg.TokenID,
			Provider:       provider,
			TokenAmount:    tokenOut,
			CurrencyAmount: currencyOut,
			Shares:         msg.Shares,
		}.ToEvent())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}

	return &types.MsgRemoveLiquidityResponse{TokenAmount: tokenOut, CurrencyAmount: currencyOut}, nil
}

// Swap handles a direct exact-input pool swap
func (ms msgServer) Swap(goCtx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	var amountOut math.Uint
	err := ms.atomic(goCtx, msg, func(ctx sdk.Context) error {
		if err := checkDeadline(ctx, msg.Deadline); err != nil {
			return err
		}
		trader, err := msg.GetSigner()
		if err != nil {
			return err
		}
		amountOut, err = ms.Keeper.SwapExactIn(ctx, trader, msg.TokenID, msg.Direction, msg.AmountIn, msg.MinAmountOut)
		if err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(types.Swapped{
			TokenID:   msg.TokenID,
			Trader:    trader,
			Direction: msg.Direction,
			AmountIn:  msg.AmountIn,
			AmountOut: amountOut,
		}.ToEvent())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}

	return &types.MsgSwapResponse{AmountOut: amountOut}, nil
}
