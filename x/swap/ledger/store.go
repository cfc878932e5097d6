// Package ledger implements the balance capability the swap engine settles
// through: a KV-backed ledger sharing the engine's transactional store, and
// an adapter over a bank keeper.
package ledger

import (
	"context"
	"math/big"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// BalanceKeyPrefix prefixes account | asset -> amount
var BalanceKeyPrefix = []byte{0x01}

// BalanceKey returns the store key of an account's balance in an asset
func BalanceKey(account sdk.AccAddress, asset types.Asset) []byte {
	key := append(append([]byte{}, BalanceKeyPrefix...), address.MustLengthPrefix(account)...)
	return append(key, asset.Key()...)
}

// Store is a ledger kept in its own KV store. Because the store is reached
// through sdk.Context, its writes branch and commit with the engine's.
type Store struct {
	storeKey storetypes.StoreKey
}

var _ types.Ledger = Store{}

// NewStore creates a ledger over the given store key
func NewStore(key storetypes.StoreKey) Store {
	return Store{storeKey: key}
}

func (s Store) kv(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(s.storeKey)
}

// Balance returns the balance of account in asset, zero if none
func (s Store) Balance(ctx context.Context, account sdk.AccAddress, asset types.Asset) math.Uint {
	bz := s.kv(ctx).Get(BalanceKey(account, asset))
	if bz == nil {
		return math.ZeroUint()
	}
	var amount math.Uint
	if err := amount.Unmarshal(bz); err != nil {
		sdk.UnwrapSDKContext(ctx).Logger().Error("corrupt ledger balance", "account", account.String(), "asset", asset.String(), "error", err)
		return math.ZeroUint()
	}
	return amount
}

// SetBalance overwrites a balance. Used by genesis and tests.
func (s Store) SetBalance(ctx context.Context, account sdk.AccAddress, asset types.Asset, amount math.Uint) error {
	store := s.kv(ctx)
	if types.IsZeroAmount(amount) {
		store.Delete(BalanceKey(account, asset))
		return nil
	}
	bz, err := amount.Marshal()
	if err != nil {
		return types.ErrNoneValue.Wrapf("failed to marshal balance: %v", err)
	}
	store.Set(BalanceKey(account, asset), bz)
	return nil
}

// Debit removes amount from the balance of account
func (s Store) Debit(ctx context.Context, account sdk.AccAddress, asset types.Asset, amount math.Uint) error {
	balance := s.Balance(ctx, account, asset)
	if balance.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf("%s has %s %s, needs %s", account, balance, asset, amount)
	}
	return s.SetBalance(ctx, account, asset, balance.Sub(amount))
}

// Credit adds amount to the balance of account
func (s Store) Credit(ctx context.Context, account sdk.AccAddress, asset types.Asset, amount math.Uint) error {
	balance := s.Balance(ctx, account, asset)
	sum := new(big.Int).Add(balance.BigIntMut(), amount.BigIntMut())
	if err := math.UintOverflow(sum); err != nil {
		return types.ErrStorageOverflow.Wrapf("balance of %s in %s: %s", account, asset, err)
	}
	return s.SetBalance(ctx, account, asset, math.NewUintFromBigInt(sum))
}

// Mint credits freshly issued funds; an alias of Credit kept for call sites
// that create supply rather than move it.
func (s Store) Mint(ctx context.Context, account sdk.AccAddress, asset types.Asset, amount math.Uint) error {
	return s.Credit(ctx, account, asset, amount)
}

// IterateBalances walks every non-zero balance in key order
func (s Store) IterateBalances(ctx context.Context, cb func(b Balance) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(s.kv(ctx), BalanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		b, err := balanceFromEntry(iterator.Key(), iterator.Value())
		if err != nil {
			return err
		}
		if cb(b) {
			break
		}
	}
	return nil
}

func balanceFromEntry(key, value []byte) (Balance, error) {
	var amount math.Uint
	if err := amount.Unmarshal(value); err != nil {
		return Balance{}, types.ErrNoneValue.Wrapf("failed to unmarshal balance: %v", err)
	}

	// prefix (1) | length (1) | account | kind (1) [| token id (8)]
	addrLen := int(key[1])
	account := sdk.AccAddress(key[2 : 2+addrLen])
	assetKey := key[2+addrLen:]
	asset := types.Currency()
	if types.AssetKind(assetKey[0]) == types.AssetToken {
		asset = types.Token(sdk.BigEndianToUint64(assetKey[1:]))
	}
	return Balance{Address: account.String(), Asset: asset, Amount: amount}, nil
}
