package types

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Event types for the swap module
const (
	EventTypeSellOrderCreated   = "sell_order_created"
	EventTypeSellOrderCancelled = "sell_order_cancelled"
	EventTypeBuyOrderFilled     = "buy_order_filled"
	EventTypeLiquidityAdded     = "liquidity_added"
	EventTypeLiquidityRemoved   = "liquidity_removed"
	EventTypeSwapped            = "swapped"
)

// Event attribute keys
const (
	AttributeKeyOrderID        = "order_id"
	AttributeKeyTokenID        = "token_id"
	AttributeKeyVolume         = "volume"
	AttributeKeyPrice          = "price"
	AttributeKeyPricePaid      = "price_paid"
	AttributeKeySeller         = "seller"
	AttributeKeyBuyer          = "buyer"
	AttributeKeyStatus         = "status"
	AttributeKeyRoute          = "route"
	AttributeKeyProvider       = "provider"
	AttributeKeyTrader         = "trader"
	AttributeKeyTokenAmount    = "token_amount"
	AttributeKeyCurrencyAmount = "currency_amount"
	AttributeKeyShares         = "shares"
	AttributeKeyDirection      = "direction"
	AttributeKeyAmountIn       = "amount_in"
	AttributeKeyAmountOut      = "amount_out"
)

// Fill routes of a buy order
const (
	RouteOrderBook = "order_book"
	RoutePool      = "pool"
)

// SellOrderCreated is emitted when a sell order enters the book.
type SellOrderCreated struct {
	OrderID uint64
	TokenID uint64
	Volume  math.Uint
	Price   math.Uint
	Seller  sdk.AccAddress
}

// ToEvent projects the notification onto an SDK event.
func (e SellOrderCreated) ToEvent() sdk.Event {
	return sdk.NewEvent(
		EventTypeSellOrderCreated,
		sdk.NewAttribute(AttributeKeyTokenID, strconv.FormatUint(e.TokenID, 10)),
		sdk.NewAttribute(AttributeKeyVolume, e.Volume.String()),
		sdk.NewAttribute(AttributeKeyPrice, e.Price.String()),
		sdk.NewAttribute(AttributeKeySeller, e.Seller.String()),
		sdk.NewAttribute(AttributeKeyOrderID, strconv.FormatUint(e.OrderID, 10)),
	)
}

// SellOrderCancelled is emitted when a seller withdraws an order.
type SellOrderCancelled struct {
	OrderID uint64
	Status  bool
}

// ToEvent projects the notification onto an SDK event.
func (e SellOrderCancelled) ToEvent() sdk.Event {
	return sdk.NewEvent(
		EventTypeSellOrderCancelled,
		sdk.NewAttribute(AttributeKeyOrderID, strconv.FormatUint(e.OrderID, 10)),
		sdk.NewAttribute(AttributeKeyStatus, strconv.FormatBool(e.Status)),
	)
}

// BuyOrderFilled is emitted when a buy order settles. OrderID is zero and
// Seller is the module account when the pool filled it.
type BuyOrderFilled struct {
	OrderID   uint64
	TokenID   uint64
	Volume    math.Uint
	PricePaid math.Uint
	Seller    sdk.AccAddress
	Buyer     sdk.AccAddress
	Route     string
}

// ToEvent projects the notification onto an SDK event.
func (e BuyOrderFilled) ToEvent() sdk.Event {
	return sdk.NewEvent(
		EventTypeBuyOrderFilled,
		sdk.NewAttribute(AttributeKeyOrderID, strconv.FormatUint(e.OrderID, 10)),
		sdk.NewAttribute(AttributeKeyTokenID, strconv.FormatUint(e.TokenID, 10)),
		sdk.NewAttribute(AttributeKeyVolume, e.Volume.String()),
		sdk.NewAttribute(AttributeKeyPricePaid, e.PricePaid.String()),
		sdk.NewAttribute(AttributeKeySeller, e.Seller.String()),
		sdk.NewAttribute(AttributeKeyBuyer, e.Buyer.String()),
		sdk.NewAttribute(AttributeKeyRoute, e.Route),
	)
}

// LiquidityAdded is emitted when a provider deposits into a pool.
type LiquidityAdded struct {
	TokenID        uint64
	Provider       sdk.AccAddress
	TokenAmount    math.Uint
	CurrencyAmount math.Uint
	Shares         math.Uint
}

// ToEvent projects the notification onto an SDK event.
func (e LiquidityAdded) ToEvent() sdk.Event {
	return sdk.NewEvent(
		EventTypeLiquidityAdded,
		sdk.NewAttribute(AttributeKeyTokenID, strconv.FormatUint(e.TokenID, 10)),
		sdk.NewAttribute(AttributeKeyProvider, e.Provider.String()),
		sdk.NewAttribute(AttributeKeyTokenAmount, e.TokenAmount.String()),
		sdk.NewAttribute(AttributeKeyCurrencyAmount, e.CurrencyAmount.String()),
		sdk.NewAttribute(AttributeKeyShares, e.Shares.String()),
	)
}

// LiquidityRemoved is emitted when a provider burns shares.
type LiquidityRemoved struct {
	TokenID        uint64
	Provider       sdk.AccAddress
	TokenAmount    math.Uint
	CurrencyAmount math.Uint
	Shares         math.Uint
}

// ToEvent projects the notification onto an SDK event.
func (e LiquidityRemoved) ToEvent() sdk.Event {
	return sdk.NewEvent(
		EventTypeLiquidityRemoved,
		sdk.NewAttribute(AttributeKeyTokenID, strconv.FormatUint(e.TokenID, 10)),
		sdk.NewAttribute(AttributeKeyProvider, e.Provider.String()),
		sdk.NewAttribute(AttributeKeyTokenAmount, e.TokenAmount.String()),
		sdk.NewAttribute(AttributeKeyCurrencyAmount, e.CurrencyAmount.String()),
		sdk.NewAttribute(AttributeKeyShares, e.Shares.String()),
	)
}

// Swapped is emitted for a direct pool swap.
type Swapped struct {
	TokenID   uint64
	Trader    sdk.AccAddress
	Direction Direction
	AmountIn  math.Uint
	AmountOut math.Uint
}

// ToEvent projects the notification onto an SDK event.
func (e Swapped) ToEvent() sdk.Event {
	return sdk.NewEvent(
		EventTypeSwapped,
		sdk.NewAttribute(AttributeKeyTokenID, strconv.FormatUint(e.TokenID, 10)),
		sdk.NewAttribute(AttributeKeyTrader, e.Trader.String()),
		sdk.NewAttribute(AttributeKeyDirection, e.Direction.String()),
		sdk.NewAttribute(AttributeKeyAmountIn, e.AmountIn.String()),
		sdk.NewAttribute(AttributeKeyAmountOut, e.AmountOut.String()),
	)
}
