package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paw-chain/tokenswap/x/swap/ledger"
	swaptypes "github.com/paw-chain/tokenswap/x/swap/types"
)

// GenesisState represents the genesis state of the swap node: a map from
// module name to that module's JSON genesis.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState generates the default genesis state
func NewDefaultGenesisState() GenesisState {
	genesis := make(GenesisState)
	genesis[swaptypes.ModuleName] = mustMarshalJSON(swaptypes.DefaultGenesis())
	genesis[swaptypes.LedgerStoreKey] = mustMarshalJSON(ledger.DefaultGenesis())
	return genesis
}

// Decode unpacks both module sections, substituting defaults for missing ones
func (gs GenesisState) Decode() (*swaptypes.GenesisState, *ledger.GenesisState, error) {
	swapGenesis := swaptypes.DefaultGenesis()
	if raw, ok := gs[swaptypes.ModuleName]; ok {
		if err := json.Unmarshal(raw, swapGenesis); err != nil {
			return nil, nil, swaptypes.ErrInvalidGenesis.Wrapf("failed to decode %s genesis: %s", swaptypes.ModuleName, err)
		}
	}

	ledgerGenesis := ledger.DefaultGenesis()
	if raw, ok := gs[swaptypes.LedgerStoreKey]; ok {
		if err := json.Unmarshal(raw, ledgerGenesis); err != nil {
			return nil, nil, swaptypes.ErrInvalidGenesis.Wrapf("failed to decode %s genesis: %s", swaptypes.LedgerStoreKey, err)
		}
	}

	for name := range gs {
		if name != swaptypes.ModuleName && name != swaptypes.LedgerStoreKey {
			return nil, nil, swaptypes.ErrInvalidGenesis.Wrapf("unknown module %q in genesis", name)
		}
	}

	return swapGenesis, ledgerGenesis, nil
}

// Validate decodes and validates every module section
func (gs GenesisState) Validate() error {
	swapGenesis, ledgerGenesis, err := gs.Decode()
	if err != nil {
		return err
	}
	if err := swapGenesis.Validate(); err != nil {
		return err
	}
	return ledgerGenesis.Validate()
}

// ReadGenesisFile loads a genesis state from a JSON file
func ReadGenesisFile(path string) (GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, swaptypes.ErrInvalidGenesis.Wrapf("failed to parse %s: %s", path, err)
	}
	return gs, nil
}

// Helper functions
func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
