package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExportedState is the output of the export command
type ExportedState struct {
	ChainID  string          `json:"chain_id"`
	Height   int64           `json:"height"`
	AppHash  string          `json:"app_hash"`
	AppState json.RawMessage `json:"app_state"`
}

// ExportCmd dumps the committed state as a genesis document
func ExportCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the committed state as a genesis document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			swapApp, _, err := openApp(cmd, v)
			if err != nil {
				return err
			}
			defer swapApp.Close()

			if swapApp.LastBlockHeight() == 0 {
				return fmt.Errorf("nothing to export: no block has been committed")
			}

			genesis, err := swapApp.ExportGenesis()
			if err != nil {
				return err
			}
			appState, err := json.Marshal(genesis)
			if err != nil {
				return err
			}

			cid := swapApp.LastCommitID()
			bz, err := json.MarshalIndent(ExportedState{
				ChainID:  swapApp.ChainID(),
				Height:   cid.Version,
				AppHash:  fmt.Sprintf("%X", cid.Hash),
				AppState: appState,
			}, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(bz))
			return nil
		},
	}
}
