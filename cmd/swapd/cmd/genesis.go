package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/tokenswap/app"
)

// GenesisCmd groups the genesis file helpers
func GenesisCmd(_ *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Genesis file utilities",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "default",
			Short: "Print the default genesis state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				bz, err := json.MarshalIndent(app.NewDefaultGenesisState(), "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(bz))
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate [file]",
			Short: "Validate a genesis file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				genesis, err := app.ReadGenesisFile(args[0])
				if err != nil {
					return err
				}
				if err := genesis.Validate(); err != nil {
					return err
				}
				cmd.Printf("File at %s is a valid genesis file\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
