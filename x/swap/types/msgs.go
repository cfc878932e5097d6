package types

import (
	"context"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Msg type names, also used as the action label of metrics and traces
const (
	TypeMsgCreateSellOrder = "create_sell_order"
	TypeMsgCancelSellOrder = "cancel_sell_order"
	TypeMsgBuyOrder        = "buy_order"
	TypeMsgAddLiquidity    = "add_liquidity"
	TypeMsgRemoveLiquidity = "remove_liquidity"
	TypeMsgSwap            = "swap"
)

// Msg is an action submitted to the swap module by an authenticated signer.
type Msg interface {
	Type() string
	ValidateBasic() error
	GetSigner() (sdk.AccAddress, error)
}

// MsgServer is the action surface of the swap module.
type MsgServer interface {
	CreateSellOrder(context.Context, *MsgCreateSellOrder) (*MsgCreateSellOrderResponse, error)
	CancelSellOrder(context.Context, *MsgCancelSellOrder) (*MsgCancelSellOrderResponse, error)
	BuyOrder(context.Context, *MsgBuyOrder) (*MsgBuyOrderResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(context.Context, *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
}

// IsZeroAmount treats an unset amount as zero.
func IsZeroAmount(u math.Uint) bool {
	return u.IsNil() || u.IsZero()
}

func parseSigner(role, addr string) (sdk.AccAddress, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidAddress, "invalid %s address: %s", role, err)
	}
	return acc, nil
}

// MsgCreateSellOrder puts Volume tokens of TokenID up for sale at Price per unit.
type MsgCreateSellOrder struct {
	Seller  string    `json:"seller" yaml:"seller"`
	TokenID uint64    `json:"token_id" yaml:"token_id"`
	Volume  math.Uint `json:"volume" yaml:"volume"`
	Price   math.Uint `json:"price" yaml:"price"`
}

// MsgCreateSellOrderResponse carries the assigned order id.
type MsgCreateSellOrderResponse struct {
	OrderID uint64 `json:"order_id"`
}

// NewMsgCreateSellOrder creates a new MsgCreateSellOrder instance
func NewMsgCreateSellOrder(seller string, tokenID uint64, volume, price math.Uint) *MsgCreateSellOrder {
	return &MsgCreateSellOrder{Seller: seller, TokenID: tokenID, Volume: volume, Price: price}
}

func (msg MsgCreateSellOrder) Type() string { return TypeMsgCreateSellOrder }

func (msg MsgCreateSellOrder) GetSigner() (sdk.AccAddress, error) {
	return parseSigner("seller", msg.Seller)
}

// ValidateBasic performs stateless checks
func (msg MsgCreateSellOrder) ValidateBasic() error {
	if _, err := msg.GetSigner(); err != nil {
		return err
	}
	if IsZeroAmount(msg.Volume) {
		return sdkerrors.Wrap(ErrZeroTokens, "volume must be positive")
	}
	if IsZeroAmount(msg.Price) {
		return sdkerrors.Wrap(ErrZeroAmount, "price must be positive")
	}
	return nil
}

// MsgCancelSellOrder withdraws an open order and refunds its escrow.
type MsgCancelSellOrder struct {
	Seller  string `json:"seller" yaml:"seller"`
	OrderID uint64 `json:"order_id" yaml:"order_id"`
}

// MsgCancelSellOrderResponse carries the refunded volume.
type MsgCancelSellOrderResponse struct {
	Refunded math.Uint `json:"refunded"`
}

// NewMsgCancelSellOrder creates a new MsgCancelSellOrder instance
func NewMsgCancelSellOrder(seller string, orderID uint64) *MsgCancelSellOrder {
	return &MsgCancelSellOrder{Seller: seller, OrderID: orderID}
}

func (msg MsgCancelSellOrder) Type() string { return TypeMsgCancelSellOrder }

func (msg MsgCancelSellOrder) GetSigner() (sdk.AccAddress, error) {
	return parseSigner("seller", msg.Seller)
}

// ValidateBasic performs stateless checks
func (msg MsgCancelSellOrder) ValidateBasic() error {
	_, err := msg.GetSigner()
	return err
}

// MsgBuyOrder buys Volume tokens of TokenID paying at most MaxPrice per unit.
// Deadline is a block height after which the order is rejected; zero disables it.
type MsgBuyOrder struct {
	Buyer    string    `json:"buyer" yaml:"buyer"`
	TokenID  uint64    `json:"token_id" yaml:"token_id"`
	MaxPrice math.Uint `json:"max_price" yaml:"max_price"`
	Volume   math.Uint `json:"volume" yaml:"volume"`
	Deadline int64     `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// MsgBuyOrderResponse describes the settled fill.
type MsgBuyOrderResponse struct {
	OrderID   uint64    `json:"order_id"`
	Route     string    `json:"route"`
	PricePaid math.Uint `json:"price_paid"`
	Seller    string    `json:"seller"`
}

// NewMsgBuyOrder creates a new MsgBuyOrder instance
func NewMsgBuyOrder(buyer string, tokenID uint64, maxPrice, volume math.Uint) *MsgBuyOrder {
	return &MsgBuyOrder{Buyer: buyer, TokenID: tokenID, MaxPrice: maxPrice, Volume: volume}
}

func (msg MsgBuyOrder) Type() string { return TypeMsgBuyOrder }

func (msg MsgBuyOrder) GetSigner() (sdk.AccAddress, error) {
	return parseSigner("buyer", msg.Buyer)
}

// ValidateBasic performs stateless checks
func (msg MsgBuyOrder) ValidateBasic() error {
	if _, err := msg.GetSigner(); err != nil {
		return err
	}
	if IsZeroAmount(msg.Volume) {
		return sdkerrors.Wrap(ErrNoTokensSwapped, "volume must be positive")
	}
	if IsZeroAmount(msg.MaxPrice) {
		return sdkerrors.Wrap(ErrNoCurrencySwapped, "max price must be positive")
	}
	return nil
}

// MsgAddLiquidity deposits TokenAmount tokens and at most CurrencyAmount currency.
type MsgAddLiquidity struct {
	Provider       string    `json:"provider" yaml:"provider"`
	TokenID        uint64    `json:"token_id" yaml:"token_id"`
	TokenAmount    math.Uint `json:"token_amount" yaml:"token_amount"`
	CurrencyAmount math.Uint `json:"currency_amount" yaml:"currency_amount"`
	Deadline       int64     `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// MsgAddLiquidityResponse carries the minted shares and the currency used.
type MsgAddLiquidityResponse struct {
	Shares       math.Uint `json:"shares"`
	CurrencyUsed math.Uint `json:"currency_used"`
}

// NewMsgAddLiquidity creates a new MsgAddLiquidity instance
func NewMsgAddLiquidity(provider string, tokenID uint64, tokenAmount, currencyAmount math.Uint) *MsgAddLiquidity {
	return &MsgAddLiquidity{Provider: provider, TokenID: tokenID, TokenAmount: tokenAmount, CurrencyAmount: currencyAmount}
}

func (msg MsgAddLiquidity) Type() string { return TypeMsgAddLiquidity }

func (msg MsgAddLiquidity) GetSigner() (sdk.AccAddress, error) {
	return parseSigner("provider", msg.Provider)
}

// ValidateBasic performs stateless checks
func (msg MsgAddLiquidity) ValidateBasic() error {
	if _, err := msg.GetSigner(); err != nil {
		return err
	}
	if IsZeroAmount(msg.TokenAmount) {
		return sdkerrors.Wrap(ErrZeroTokens, "token amount must be positive")
	}
	if IsZeroAmount(msg.CurrencyAmount) {
		return sdkerrors.Wrap(ErrZeroAmount, "currency amount must be positive")
	}
	return nil
}

// MsgRemoveLiquidity burns Shares and pays out the proportional reserves.
// MinTokens and MinCurrency are optional payout floors.
type MsgRemoveLiquidity struct {
	Provider    string    `json:"provider" yaml:"provider"`
	TokenID     uint64    `json:"token_id" yaml:"token_id"`
	Shares      math.Uint `json:"shares" yaml:"shares"`
	MinTokens   math.Uint `json:"min_tokens" yaml:"min_tokens"`
	MinCurrency math.Uint `json:"min_currency" yaml:"min_currency"`
	Deadline    int64     `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// MsgRemoveLiquidityResponse carries the payout.
type MsgRemoveLiquidityResponse struct {
	TokenAmount    math.Uint `json:"token_amount"`
	CurrencyAmount math.Uint `json:"currency_amount"`
}

// NewMsgRemoveLiquidity creates a new MsgRemoveLiquidity instance without payout floors
func NewMsgRemoveLiquidity(provider string, tokenID uint64, shares math.Uint) *MsgRemoveLiquidity {
	return &MsgRemoveLiquidity{
		Provider:    provider,
		TokenID:     tokenID,
		Shares:      shares,
		MinTokens:   math.ZeroUint(),
		MinCurrency: math.ZeroUint(),
	}
}

func (msg MsgRemoveLiquidity) Type() string { return TypeMsgRemoveLiquidity }

func (msg MsgRemoveLiquidity) GetSigner() (sdk.AccAddress, error) {
	return parseSigner("provider", msg.Provider)
}

// ValidateBasic performs stateless checks
func (msg MsgRemoveLiquidity) ValidateBasic() error {
	if _, err := msg.GetSigner(); err != nil {
		return err
	}
	if IsZeroAmount(msg.Shares) {
		return sdkerrors.Wrap(ErrBurnZeroShares, "shares must be positive")
	}
	return nil
}

// MsgSwap trades AmountIn of the input asset of Direction against the pool.
type MsgSwap struct {
	Trader       string    `json:"trader" yaml:"trader"`
	TokenID      uint64    `json:"token_id" yaml:"token_id"`
	Direction    Direction `json:"direction" yaml:"direction"`
	AmountIn     math.Uint `json:"amount_in" yaml:"amount_in"`
	MinAmountOut math.Uint `json:"min_amount_out" yaml:"min_amount_out"`
	Deadline     int64     `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// MsgSwapResponse carries the output amount.
type MsgSwapResponse struct {
	AmountOut math.Uint `json:"amount_out"`
}

// NewMsgSwap creates a new MsgSwap instance
func NewMsgSwap(trader string, tokenID uint64, direction Direction, amountIn, minAmountOut math.Uint) *MsgSwap {
	return &MsgSwap{Trader: trader, TokenID: tokenID, Direction: direction, AmountIn: amountIn, MinAmountOut: minAmountOut}
}

func (msg MsgSwap) Type() string { return TypeMsgSwap }

func (msg MsgSwap) GetSigner() (sdk.AccAddress, error) {
	return parseSigner("trader", msg.Trader)
}

// ValidateBasic performs stateless checks
func (msg MsgSwap) ValidateBasic() error {
	if _, err := msg.GetSigner(); err != nil {
		return err
	}
	if err := msg.Direction.Validate(); err != nil {
		return sdkerrors.Wrap(ErrNoneValue, err.Error())
	}
	if IsZeroAmount(msg.AmountIn) {
		if msg.Direction == TokenToCurrency {
			return sdkerrors.Wrap(ErrNoTokensSwapped, "amount in must be positive")
		}
		return sdkerrors.Wrap(ErrNoCurrencySwapped, "amount in must be positive")
	}
	return nil
}
