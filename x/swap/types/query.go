package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryServer is the read-only surface of the swap module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Order(context.Context, *QueryOrderRequest) (*QueryOrderResponse, error)
	OrdersByToken(context.Context, *QueryOrdersByTokenRequest) (*QueryOrdersResponse, error)
	OrdersBySeller(context.Context, *QueryOrdersBySellerRequest) (*QueryOrdersResponse, error)
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	Position(context.Context, *QueryPositionRequest) (*QueryPositionResponse, error)
	SpotPrice(context.Context, *QuerySpotPriceRequest) (*QuerySpotPriceResponse, error)
	QuoteSwap(context.Context, *QueryQuoteSwapRequest) (*QueryQuoteSwapResponse, error)
	QuoteBuy(context.Context, *QueryQuoteBuyRequest) (*QueryQuoteBuyResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryOrderRequest struct {
	OrderID uint64 `json:"order_id"`
}

type QueryOrderResponse struct {
	Order Order `json:"order"`
}

type QueryOrdersByTokenRequest struct {
	TokenID uint64 `json:"token_id"`
	Limit   uint64 `json:"limit,omitempty"`
}

type QueryOrdersBySellerRequest struct {
	Seller string `json:"seller"`
	Limit  uint64 `json:"limit,omitempty"`
}

// QueryOrdersResponse lists orders; for a token they are in price-time priority.
type QueryOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type QueryPoolRequest struct {
	TokenID uint64 `json:"token_id"`
}

type QueryPoolResponse struct {
	Pool Pool `json:"pool"`
}

type QueryPoolsRequest struct{}

type QueryPoolsResponse struct {
	Pools []Pool `json:"pools"`
}

type QueryPositionRequest struct {
	TokenID  uint64 `json:"token_id"`
	Provider string `json:"provider"`
}

type QueryPositionResponse struct {
	Shares math.Uint `json:"shares"`
}

type QuerySpotPriceRequest struct {
	TokenID uint64 `json:"token_id"`
}

type QuerySpotPriceResponse struct {
	Price math.Uint `json:"price"`
}

// QueryQuoteSwapRequest asks for the output of an exact-input pool swap.
type QueryQuoteSwapRequest struct {
	TokenID   uint64    `json:"token_id"`
	Direction Direction `json:"direction"`
	AmountIn  math.Uint `json:"amount_in"`
}

type QueryQuoteSwapResponse struct {
	AmountOut math.Uint `json:"amount_out"`
}

// QueryQuoteBuyRequest asks which route would fill a buy order and at what cost.
type QueryQuoteBuyRequest struct {
	TokenID  uint64    `json:"token_id"`
	MaxPrice math.Uint `json:"max_price"`
	Volume   math.Uint `json:"volume"`
}

type QueryQuoteBuyResponse struct {
	Route   string    `json:"route"`
	OrderID uint64    `json:"order_id"`
	Cost    math.Uint `json:"cost"`
}
