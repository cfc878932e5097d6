package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetKind distinguishes the native currency from issued tokens.
type AssetKind uint8

const (
	AssetCurrency AssetKind = 0
	AssetToken    AssetKind = 1
)

// Asset identifies one balance column of the ledger.
type Asset struct {
	Kind    AssetKind `json:"kind" yaml:"kind"`
	TokenID uint64    `json:"token_id,omitempty" yaml:"token_id,omitempty"`
}

// Currency returns the native currency asset.
func Currency() Asset { return Asset{Kind: AssetCurrency} }

// Token returns the asset of an issued token.
func Token(tokenID uint64) Asset { return Asset{Kind: AssetToken, TokenID: tokenID} }

// IsCurrency reports whether the asset is the native currency.
func (a Asset) IsCurrency() bool { return a.Kind == AssetCurrency }

// Key returns the fixed-width store encoding of the asset.
func (a Asset) Key() []byte {
	if a.IsCurrency() {
		return []byte{byte(AssetCurrency)}
	}
	return append([]byte{byte(AssetToken)}, sdk.Uint64ToBigEndian(a.TokenID)...)
}

func (a Asset) String() string {
	if a.IsCurrency() {
		return "currency"
	}
	return fmt.Sprintf("token/%d", a.TokenID)
}

// Direction is the side of a pool swap.
type Direction uint8

const (
	// TokenToCurrency sells tokens into the pool for currency.
	TokenToCurrency Direction = 1
	// CurrencyToToken buys tokens from the pool with currency.
	CurrencyToToken Direction = 2
)

// ParseDirection parses the textual form used by the CLI and scenarios.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "token_to_currency", "sell":
		return TokenToCurrency, nil
	case "currency_to_token", "buy":
		return CurrencyToToken, nil
	default:
		return 0, fmt.Errorf("unknown swap direction %q", s)
	}
}

// Validate rejects unknown directions.
func (d Direction) Validate() error {
	if d != TokenToCurrency && d != CurrencyToToken {
		return fmt.Errorf("unknown swap direction %d", d)
	}
	return nil
}

// Assets returns the (in, out) assets of a swap against the pool of tokenID.
func (d Direction) Assets(tokenID uint64) (in, out Asset) {
	if d == TokenToCurrency {
		return Token(tokenID), Currency()
	}
	return Currency(), Token(tokenID)
}

func (d Direction) String() string {
	switch d {
	case TokenToCurrency:
		return "token_to_currency"
	case CurrencyToToken:
		return "currency_to_token"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}
