package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "swap"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// LedgerStoreKey defines the store key of the built-in balance ledger
	LedgerStoreKey = "ledger"
)

// Store key prefixes
var (
	ParamsKey                 = []byte{0x01} // module parameters
	OrderCountKey             = []byte{0x02} // next order id
	OrderKeyPrefix            = []byte{0x03} // order by id
	OrderBookKeyPrefix        = []byte{0x04} // token | price | order id
	OrderBySellerKeyPrefix    = []byte{0x05} // seller | order id
	OrderFingerprintKeyPrefix = []byte{0x06} // seller | token | price | volume -> order id
	PoolKeyPrefix             = []byte{0x07} // pool by token id
	PositionKeyPrefix         = []byte{0x08} // token | provider
)

// priceWidth is the fixed width of an encoded u256 price in index keys.
const priceWidth = 32

// OrderKey returns the store key for an order by ID
func OrderKey(orderID uint64) []byte {
	return append(append([]byte{}, OrderKeyPrefix...), sdk.Uint64ToBigEndian(orderID)...)
}

// OrderBookTokenPrefix returns the prefix of every book entry for a token.
// Entries under it iterate in ascending (price, order id) order.
func OrderBookTokenPrefix(tokenID uint64) []byte {
	return append(append([]byte{}, OrderBookKeyPrefix...), sdk.Uint64ToBigEndian(tokenID)...)
}

// OrderBookKey returns the price-time index key of an order
func OrderBookKey(tokenID uint64, price math.Uint, orderID uint64) []byte {
	key := OrderBookTokenPrefix(tokenID)
	key = append(key, EncodePrice(price)...)
	return append(key, sdk.Uint64ToBigEndian(orderID)...)
}

// OrderIDFromBookKey extracts the order id from a full book key.
func OrderIDFromBookKey(key []byte) uint64 {
	return sdk.BigEndianToUint64(key[len(key)-8:])
}

// OrderBySellerPrefix returns the prefix of every order index entry of a seller
func OrderBySellerPrefix(seller sdk.AccAddress) []byte {
	return append(append([]byte{}, OrderBySellerKeyPrefix...), address.MustLengthPrefix(seller)...)
}

// OrderBySellerKey returns the seller index key of an order
func OrderBySellerKey(seller sdk.AccAddress, orderID uint64) []byte {
	return append(OrderBySellerPrefix(seller), sdk.Uint64ToBigEndian(orderID)...)
}

// OrderFingerprintKey identifies an order by its seller-visible terms.
func OrderFingerprintKey(seller sdk.AccAddress, tokenID uint64, price, volume math.Uint) []byte {
	key := append(append([]byte{}, OrderFingerprintKeyPrefix...), address.MustLengthPrefix(seller)...)
	key = append(key, sdk.Uint64ToBigEndian(tokenID)...)
	key = append(key, EncodePrice(price)...)
	return append(key, EncodePrice(volume)...)
}

// PoolKey returns the store key for the pool of a token
func PoolKey(tokenID uint64) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), sdk.Uint64ToBigEndian(tokenID)...)
}

// PositionTokenPrefix returns the prefix of every liquidity position in a pool
func PositionTokenPrefix(tokenID uint64) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), sdk.Uint64ToBigEndian(tokenID)...)
}

// PositionKey returns the store key for a liquidity position
func PositionKey(tokenID uint64, provider sdk.AccAddress) []byte {
	return append(PositionTokenPrefix(tokenID), address.MustLengthPrefix(provider)...)
}

// ProviderFromPositionKey extracts the provider address from a full position key.
func ProviderFromPositionKey(key []byte) sdk.AccAddress {
	// prefix (1) | token id (8) | length (1) | address
	return sdk.AccAddress(key[1+8+1:])
}

// EncodePrice encodes an amount as a fixed-width big-endian u256 so that
// lexicographic key order equals numeric order.
func EncodePrice(amount math.Uint) []byte {
	bz := make([]byte, priceWidth)
	if amount.IsNil() {
		return bz
	}
	return amount.BigIntMut().FillBytes(bz)
}

// ModuleAddress is the account holding order escrow and pool reserves.
func ModuleAddress() sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName))
}
