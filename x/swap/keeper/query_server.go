package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the swap QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func clampLimit(limit uint64) int {
	if limit == 0 {
		return defaultPaginationLimit
	}
	if limit > maxPaginationLimit {
		return maxPaginationLimit
	}
	return int(limit)
}

// Params returns the module parameters
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	params, err := qs.Keeper.GetParams(goCtx)
	if err != nil {
		return nil, fmt.Errorf("Params: get params: %w", err)
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Order returns an open order by ID
func (qs queryServer) Order(goCtx context.Context, req *types.QueryOrderRequest) (*types.QueryOrderResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	order, err := qs.Keeper.GetOrder(goCtx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("Order: %w", err)
	}
	return &types.QueryOrderResponse{Order: *order}, nil
}

// OrdersByToken returns the book of a token in price-time priority
func (qs queryServer) OrdersByToken(goCtx context.Context, req *types.QueryOrdersByTokenRequest) (*types.QueryOrdersResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	orders, err := qs.Keeper.OrdersByToken(goCtx, req.TokenID)
	if err != nil {
		return nil, fmt.Errorf("OrdersByToken: %w", err)
	}
	if limit := clampLimit(req.Limit); len(orders) > limit {
		orders = orders[:limit]
	}
	return &types.QueryOrdersResponse{Orders: orders}, nil
}

// OrdersBySeller returns the open orders of a seller
func (qs queryServer) OrdersBySeller(goCtx context.Context, req *types.QueryOrdersBySellerRequest) (*types.QueryOrdersResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	seller, err := sdk.AccAddressFromBech32(req.Seller)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid seller address: %s", err)
	}
	orders, err := qs.Keeper.OrdersBySeller(goCtx, seller)
	if err != nil {
		return nil, fmt.Errorf("OrdersBySeller: %w", err)
	}
	if limit := clampLimit(req.Limit); len(orders) > limit {
		orders = orders[:limit]
	}
	return &types.QueryOrdersResponse{Orders: orders}, nil
}

// Pool returns the pool of a token
func (qs queryServer) Pool(goCtx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pool, found, err := qs.Keeper.GetPool(goCtx, req.TokenID)
	if err != nil {
		return nil, fmt.Errorf("Pool: get pool %d: %w", req.TokenID, err)
	}
	if !found {
		return nil, types.ErrNoLiquidity.Wrapf("no pool for token %d", req.TokenID)
	}
	return &types.QueryPoolResponse{Pool: pool}, nil
}

// Pools returns every pool
func (qs queryServer) Pools(goCtx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pools, err := qs.Keeper.GetAllPools(goCtx)
	if err != nil {
		return nil, fmt.Errorf("Pools: %w", err)
	}
	return &types.QueryPoolsResponse{Pools: pools}, nil
}

// Position returns the shares a provider holds in a pool
func (qs queryServer) Position(goCtx context.Context, req *types.QueryPositionRequest) (*types.QueryPositionResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	provider, err := sdk.AccAddressFromBech32(req.Provider)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid provider address: %s", err)
	}
	return &types.QueryPositionResponse{Shares: qs.Keeper.GetPosition(goCtx, req.TokenID, provider)}, nil
}

// SpotPrice returns the current pool price of a token in currency
func (qs queryServer) SpotPrice(goCtx context.Context, req *types.QuerySpotPriceRequest) (*types.QuerySpotPriceResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pool, err := qs.Keeper.liquidPool(goCtx, req.TokenID)
	if err != nil {
		return nil, err
	}
	price, err := SpotPrice(pool)
	if err != nil {
		return nil, err
	}
	return &types.QuerySpotPriceResponse{Price: price}, nil
}

// QuoteSwap simulates an exact-input pool swap
func (qs queryServer) QuoteSwap(goCtx context.Context, req *types.QueryQuoteSwapRequest) (*types.QueryQuoteSwapResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	if err := req.Direction.Validate(); err != nil {
		return nil, types.ErrNoneValue.Wrap(err.Error())
	}

	params, err := qs.Keeper.GetParams(goCtx)
	if err != nil {
		return nil, fmt.Errorf("QuoteSwap: get params: %w", err)
	}
	pool, err := qs.Keeper.liquidPool(goCtx, req.TokenID)
	if err != nil {
		return nil, err
	}
	out, err := QuoteExactIn(pool, params, req.Direction, req.AmountIn)
	if err != nil {
		return nil, err
	}
	return &types.QueryQuoteSwapResponse{AmountOut: out}, nil
}

// QuoteBuy reports the route and cost a buy order would settle at
func (qs queryServer) QuoteBuy(goCtx context.Context, req *types.QueryQuoteBuyRequest) (*types.QueryQuoteBuyResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	route, orderID, cost, err := qs.Keeper.QuoteBuy(goCtx, req.TokenID, req.MaxPrice, req.Volume)
	if err != nil {
		return nil, err
	}
	return &types.QueryQuoteBuyResponse{Route: route, OrderID: orderID, Cost: cost}, nil
}
