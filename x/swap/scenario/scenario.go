// Package scenario replays YAML-described action sequences against the swap
// app block by block and checks the resulting state.
package scenario

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto/tmhash"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/paw-chain/tokenswap/x/swap/types"
)

// ModuleActor names the module account in balance expectations
const ModuleActor = "module"

// Scenario is a genesis plus an ordered list of blocks
type Scenario struct {
	Name     string                       `yaml:"name"`
	Params   *types.Params                `yaml:"params"`
	Balances map[string]map[string]Amount `yaml:"balances"`
	Blocks   []Block                      `yaml:"blocks"`
}

// Block is the actions of one block and the state expected after it commits
type Block struct {
	Actions []Action     `yaml:"actions"`
	Expect  *Expectation `yaml:"expect"`
}

// Action is one submitted action. Only the fields of its kind are read.
type Action struct {
	Actor       string `yaml:"actor"`
	Kind        string `yaml:"action"`
	ExpectError string `yaml:"expect_error"`

	Token     uint64 `yaml:"token"`
	OrderID   uint64 `yaml:"order_id"`
	Direction string `yaml:"direction"`
	Deadline  int64  `yaml:"deadline"`

	Volume         Amount `yaml:"volume"`
	Price          Amount `yaml:"price"`
	MaxPrice       Amount `yaml:"max_price"`
	TokenAmount    Amount `yaml:"token_amount"`
	CurrencyAmount Amount `yaml:"currency_amount"`
	Shares         Amount `yaml:"shares"`
	MinTokens      Amount `yaml:"min_tokens"`
	MinCurrency    Amount `yaml:"min_currency"`
	AmountIn       Amount `yaml:"amount_in"`
	MinAmountOut   Amount `yaml:"min_amount_out"`
}

// Expectation is checked against the committed state
type Expectation struct {
	Balances  map[string]map[string]Amount `yaml:"balances"`
	Pools     map[uint64]PoolExpectation   `yaml:"pools"`
	Orders    map[uint64]*OrderExpectation `yaml:"orders"`
	Positions map[uint64]map[string]Amount `yaml:"positions"`
}

// PoolExpectation describes a pool; a pool expected with all zero fields must not exist
type PoolExpectation struct {
	TokenReserve    Amount `yaml:"token_reserve"`
	CurrencyReserve Amount `yaml:"currency_reserve"`
	TotalShares     Amount `yaml:"total_shares"`
}

// OrderExpectation describes an open order; a null entry means the order must be gone
type OrderExpectation struct {
	Seller    string `yaml:"seller"`
	Remaining Amount `yaml:"remaining"`
	Price     Amount `yaml:"price"`
}

// Amount is a u256 read from a YAML scalar. Large values keep full precision.
type Amount struct {
	math.Uint
}

// NewAmount wraps a uint64
func NewAmount(v uint64) Amount {
	return Amount{math.NewUint(v)}
}

// UnmarshalYAML parses decimal integers of up to 256 bits
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	raw := strings.ReplaceAll(node.Value, "_", "")
	u, err := math.ParseUint(raw)
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q: %w", node.Line, node.Value, err)
	}
	a.Uint = u
	return nil
}

// Value returns the amount, treating an absent field as zero
func (a Amount) Value() math.Uint {
	if a.IsNil() {
		return math.ZeroUint()
	}
	return a.Uint
}

func (a Amount) String() string {
	return a.Value().String()
}

// Load reads and parses a scenario file
func Load(path string) (*Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(bz)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario and checks its static structure
func Parse(bz []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(strings.NewReader(string(bz)))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names, assets and error kinds without executing anything
func (sc Scenario) Validate() error {
	if sc.Params != nil {
		if err := sc.Params.Validate(); err != nil {
			return err
		}
	}
	for actor, assets := range sc.Balances {
		if actor == "" || actor == ModuleActor {
			return fmt.Errorf("invalid genesis actor %q", actor)
		}
		for asset := range assets {
			if _, err := ParseAsset(asset); err != nil {
				return fmt.Errorf("balances of %s: %w", actor, err)
			}
		}
	}
	for i, block := range sc.Blocks {
		for j, action := range block.Actions {
			if action.Actor == "" {
				return fmt.Errorf("block %d action %d: missing actor", i+1, j+1)
			}
			if _, err := action.Msg(Address(action.Actor)); err != nil {
				return fmt.Errorf("block %d action %d: %w", i+1, j+1, err)
			}
			if action.ExpectError != "" {
				if _, ok := ErrorByName(action.ExpectError); !ok {
					return fmt.Errorf("block %d action %d: unknown error kind %q", i+1, j+1, action.ExpectError)
				}
			}
		}
		if block.Expect == nil {
			continue
		}
		for actor, assets := range block.Expect.Balances {
			for asset := range assets {
				if _, err := ParseAsset(asset); err != nil {
					return fmt.Errorf("block %d expected balances of %s: %w", i+1, actor, err)
				}
			}
		}
	}
	return nil
}

// Actors returns the sorted names of every actor the scenario mentions
func (sc Scenario) Actors() []string {
	seen := map[string]struct{}{}
	for actor := range sc.Balances {
		seen[actor] = struct{}{}
	}
	for _, block := range sc.Blocks {
		for _, action := range block.Actions {
			seen[action.Actor] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Address derives the deterministic account of a named actor
func Address(actor string) sdk.AccAddress {
	if actor == ModuleActor {
		return types.ModuleAddress()
	}
	return sdk.AccAddress(tmhash.SumTruncated([]byte(actor)))
}

// ParseAsset parses "currency" or "token/<id>"; a bare id names a token
func ParseAsset(s string) (types.Asset, error) {
	if s == types.Currency().String() {
		return types.Currency(), nil
	}
	id, err := cast.ToUint64E(strings.TrimPrefix(s, "token/"))
	if err != nil {
		return types.Asset{}, fmt.Errorf("invalid asset %q", s)
	}
	return types.Token(id), nil
}

// Msg builds the swap action for signer
func (a Action) Msg(signer sdk.AccAddress) (types.Msg, error) {
	addr := signer.String()
	switch a.Kind {
	case types.TypeMsgCreateSellOrder:
		return types.NewMsgCreateSellOrder(addr, a.Token, a.Volume.Value(), a.Price.Value()), nil
	case types.TypeMsgCancelSellOrder:
		return types.NewMsgCancelSellOrder(addr, a.OrderID), nil
	case types.TypeMsgBuyOrder:
		msg := types.NewMsgBuyOrder(addr, a.Token, a.MaxPrice.Value(), a.Volume.Value())
		msg.Deadline = a.Deadline
		return msg, nil
	case types.TypeMsgAddLiquidity:
		msg := types.NewMsgAddLiquidity(addr, a.Token, a.TokenAmount.Value(), a.CurrencyAmount.Value())
		msg.Deadline = a.Deadline
		return msg, nil
	case types.TypeMsgRemoveLiquidity:
		msg := types.NewMsgRemoveLiquidity(addr, a.Token, a.Shares.Value())
		msg.MinTokens = a.MinTokens.Value()
		msg.MinCurrency = a.MinCurrency.Value()
		msg.Deadline = a.Deadline
		return msg, nil
	case types.TypeMsgSwap:
		dir, err := types.ParseDirection(a.Direction)
		if err != nil {
			return nil, err
		}
		msg := types.NewMsgSwap(addr, a.Token, dir, a.AmountIn.Value(), a.MinAmountOut.Value())
		msg.Deadline = a.Deadline
		return msg, nil
	default:
		return nil, fmt.Errorf("unknown action %q", a.Kind)
	}
}
