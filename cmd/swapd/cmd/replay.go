package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/tokenswap/app"
	"github.com/paw-chain/tokenswap/app/telemetry"
	"github.com/paw-chain/tokenswap/x/swap/scenario"
)

const (
	flagGenesis   = "genesis"
	flagStartTime = "start-time"
)

// ReplayCmd replays a scenario file block by block
func ReplayCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [scenario.yaml]",
		Short: "Replay a scenario of actions and check its expectations",
		Long: `Replay executes every block of a YAML scenario against the swap engine and
prints a JSON report. A fresh chain is initialized from the scenario's balances
and params, or from --genesis. The command fails when an action outcome or an
expectation differs from the scenario.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			start, err := time.Parse(time.RFC3339, v.GetString(flagStartTime))
			if err != nil {
				return fmt.Errorf("invalid %s: %w", flagStartTime, err)
			}

			swapApp, cfg, err := openApp(cmd, v)
			if err != nil {
				return err
			}
			defer swapApp.Close()

			provider, err := telemetry.NewProvider(cfg.Telemetry)
			if err != nil {
				return err
			}
			defer func() {
				if err := provider.Shutdown(context.Background()); err != nil {
					swapApp.Logger().Error("failed to shut down telemetry", "error", err)
				}
			}()

			runID := uuid.New().String()
			logger := swapApp.Logger().With("run_id", runID)

			var metricsServer *http.Server
			if cfg.MetricsPort > 0 {
				router := NewMetricsRouter(runID, provider.HealthCheck, logger)
				metricsServer = StartPrometheusServer(cfg.MetricsPort, router, logger)
				defer func() { _ = stopPrometheusServer(metricsServer) }()
			}

			if swapApp.LastBlockHeight() == 0 {
				genesis, err := replayGenesis(sc, v.GetString(flagGenesis))
				if err != nil {
					return err
				}
				if err := swapApp.InitChain(genesis); err != nil {
					return err
				}
			}

			logger.Info("replaying scenario", "scenario", sc.Name, "blocks", len(sc.Blocks))
			report, err := scenario.NewRunner(swapApp, logger, start).Run(sc)
			if err != nil {
				return err
			}

			bz, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(bz))

			if !report.OK() {
				return fmt.Errorf("scenario %q: %d expectation(s) failed", sc.Name, len(report.Mismatches))
			}
			return nil
		},
	}

	cmd.Flags().String(flagGenesis, "", "genesis file to initialize the chain from instead of the scenario balances")
	cmd.Flags().String(flagStartTime, "2024-01-01T00:00:00Z", "timestamp of the genesis block (RFC3339)")
	return cmd
}

func replayGenesis(sc *scenario.Scenario, path string) (app.GenesisState, error) {
	if path == "" {
		return scenario.Genesis(sc)
	}
	genesis, err := app.ReadGenesisFile(path)
	if err != nil {
		return nil, err
	}
	return genesis, genesis.Validate()
}
