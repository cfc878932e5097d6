package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// SafeMath provides overflow-safe u256 arithmetic for the swap module.
// Every result above 2^256 - 1 and every negative result is ErrStorageOverflow;
// every division by zero is ErrTooLowLiquidity.

func fromBig(i *big.Int, op string) (math.Uint, error) {
	if err := math.UintOverflow(i); err != nil {
		return math.Uint{}, types.ErrStorageOverflow.Wrapf("%s: %s", op, err)
	}
	return math.NewUintFromBigInt(i), nil
}

// SafeAdd adds two math.Uint values with overflow checking
func SafeAdd(a, b math.Uint) (math.Uint, error) {
	return fromBig(new(big.Int).Add(a.BigIntMut(), b.BigIntMut()), "add")
}

// SafeSub subtracts two math.Uint values with underflow checking
func SafeSub(a, b math.Uint) (math.Uint, error) {
	if a.LT(b) {
		return math.Uint{}, types.ErrStorageOverflow.Wrapf("underflow: cannot subtract %s from %s", b, a)
	}
	return math.NewUintFromBigInt(new(big.Int).Sub(a.BigIntMut(), b.BigIntMut())), nil
}

// SafeMul multiplies two math.Uint values with overflow checking
func SafeMul(a, b math.Uint) (math.Uint, error) {
	if a.IsZero() || b.IsZero() {
		return math.ZeroUint(), nil
	}
	return fromBig(new(big.Int).Mul(a.BigIntMut(), b.BigIntMut()), "mul")
}

// SafeQuo divides two math.Uint values, truncating
func SafeQuo(a, b math.Uint) (math.Uint, error) {
	if b.IsZero() {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrap("division by zero")
	}
	return math.NewUintFromBigInt(new(big.Int).Quo(a.BigIntMut(), b.BigIntMut())), nil
}

// SafeQuoCeil divides two math.Uint values, rounding up
func SafeQuoCeil(a, b math.Uint) (math.Uint, error) {
	if b.IsZero() {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrap("division by zero")
	}
	q, r := new(big.Int).QuoRem(a.BigIntMut(), b.BigIntMut(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return math.NewUintFromBigInt(q), nil
}

// SafeMulDiv performs (a * b) / c, truncating. The product is kept at full
// width, only the quotient has to fit in 256 bits.
func SafeMulDiv(a, b, c math.Uint) (math.Uint, error) {
	if c.IsZero() {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrap("division by zero")
	}
	product := new(big.Int).Mul(a.BigIntMut(), b.BigIntMut())
	return fromBig(product.Quo(product, c.BigIntMut()), "muldiv")
}

// SafeMulDivCeil performs (a * b) / c, rounding up
func SafeMulDivCeil(a, b, c math.Uint) (math.Uint, error) {
	if c.IsZero() {
		return math.Uint{}, types.ErrTooLowLiquidity.Wrap("division by zero")
	}
	product := new(big.Int).Mul(a.BigIntMut(), b.BigIntMut())
	q, r := new(big.Int).QuoRem(product, c.BigIntMut(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return fromBig(q, "muldiv")
}

// SafeIncrUint64 increments a counter with overflow checking
func SafeIncrUint64(a uint64) (uint64, error) {
	if a == ^uint64(0) {
		return 0, types.ErrStorageOverflow.Wrap("uint64 counter overflow")
	}
	return a + 1, nil
}
