package cmd

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/tokenswap/app"
)

// NewRootCmd creates a new root command for swapd. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	v := app.NewViper()

	rootCmd := &cobra.Command{
		Use:   "swapd",
		Short: "Token swap engine",
		Long: `swapd runs the token swap engine: a sell-order book and constant-product
liquidity pools settling against a shared ledger, one committed version per block.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			return v.BindPFlags(cmd.Flags())
		},
	}

	initRootCmd(rootCmd, v)
	return rootCmd
}

func initRootCmd(rootCmd *cobra.Command, v *viper.Viper) {
	addNodeFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		ReplayCmd(v),
		GenesisCmd(v),
		ExportCmd(v),
	)
}

// addNodeFlags registers the process configuration flags bound into viper
func addNodeFlags(flags *pflag.FlagSet) {
	def := app.DefaultConfig()

	flags.String(app.FlagHome, def.Home, "directory for config and data")
	flags.String(app.FlagChainID, def.ChainID, "chain id blocks are produced under")
	flags.String(app.FlagDBBackend, string(def.DBBackend), "database backend (memdb|goleveldb|pebbledb)")
	flags.String(app.FlagLogLevel, def.LogLevel, "log level (trace|debug|info|warn|error)")
	flags.String(app.FlagLogFormat, def.LogFormat, "log format (json|plain)")
	flags.Bool(app.FlagCheckInvariants, def.CheckInvariants, "check every invariant at the end of each block")
	flags.Int(app.FlagMetricsPort, def.MetricsPort, "serve Prometheus metrics on this port while running (0 disables)")
}

// NewLogger builds the process logger from the configured level and format
func NewLogger(cfg app.Config, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(out, opts...), nil
}

// openApp loads the configuration and opens the app over its database
func openApp(cmd *cobra.Command, v *viper.Viper) (*app.SwapApp, app.Config, error) {
	cfg, err := app.LoadConfig(v)
	if err != nil {
		return nil, cfg, err
	}

	logger, err := NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, cfg, err
	}

	db, err := app.OpenDB(cfg)
	if err != nil {
		return nil, cfg, err
	}

	swapApp, err := app.NewSwapApp(logger, db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, cfg, err
	}
	return swapApp, cfg, nil
}
