package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/paw-chain/tokenswap/app/telemetry"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SWAPD_LOG_LEVEL
	EnvPrefix = "SWAPD"

	// ConfigFileName is read from <home>/config when present
	ConfigFileName = "swapd.toml"

	DefaultChainID     = "tokenswap-local"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMetricsPort = 0

	FlagHome            = "home"
	FlagLogLevel        = "log-level"
	FlagLogFormat       = "log-format"
	FlagDBBackend       = "db-backend"
	FlagChainID         = "chain-id"
	FlagCheckInvariants = "check-invariants"
	FlagMetricsPort     = "metrics-port"
)

// DefaultNodeHome is the default home directory of swapd
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".swapd")
}

// Config is the process configuration of the swap node
type Config struct {
	Home            string
	ChainID         string
	DBBackend       dbm.BackendType
	LogLevel        string
	LogFormat       string
	CheckInvariants bool
	MetricsPort     int
	Telemetry       telemetry.Config
}

// DefaultConfig returns an in-memory configuration rooted at DefaultNodeHome
func DefaultConfig() Config {
	return Config{
		Home:        DefaultNodeHome,
		ChainID:     DefaultChainID,
		DBBackend:   dbm.MemDBBackend,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		MetricsPort: DefaultMetricsPort,
		Telemetry: telemetry.Config{
			SampleRate:  1.0,
			Environment: "local",
		},
	}
}

// NewViper returns a viper instance wired to the SWAPD_ environment
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault(FlagHome, def.Home)
	v.SetDefault(FlagChainID, def.ChainID)
	v.SetDefault(FlagDBBackend, string(def.DBBackend))
	v.SetDefault(FlagLogLevel, def.LogLevel)
	v.SetDefault(FlagLogFormat, def.LogFormat)
	v.SetDefault(FlagCheckInvariants, def.CheckInvariants)
	v.SetDefault(FlagMetricsPort, def.MetricsPort)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.sample-rate", def.Telemetry.SampleRate)
	v.SetDefault("telemetry.environment", def.Telemetry.Environment)
	return v
}

// LoadConfig resolves the configuration from v, merging <home>/config/swapd.toml
// underneath any flag or environment value already bound to v.
func LoadConfig(v *viper.Viper) (Config, error) {
	home := cast.ToString(v.Get(FlagHome))
	if home == "" {
		home = DefaultNodeHome
	}

	path := filepath.Join(home, "config", ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	port, err := cast.ToIntE(v.Get(FlagMetricsPort))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", FlagMetricsPort, err)
	}
	checkInvariants, err := cast.ToBoolE(v.Get(FlagCheckInvariants))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", FlagCheckInvariants, err)
	}
	sampleRate, err := cast.ToFloat64E(v.Get("telemetry.sample-rate"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid telemetry.sample-rate: %w", err)
	}

	cfg := Config{
		Home:            home,
		ChainID:         cast.ToString(v.Get(FlagChainID)),
		DBBackend:       dbm.BackendType(cast.ToString(v.Get(FlagDBBackend))),
		LogLevel:        cast.ToString(v.Get(FlagLogLevel)),
		LogFormat:       cast.ToString(v.Get(FlagLogFormat)),
		CheckInvariants: checkInvariants,
		MetricsPort:     port,
		Telemetry: telemetry.Config{
			Enabled:           cast.ToBool(v.Get("telemetry.enabled")),
			OTLPEndpoint:      cast.ToString(v.Get("telemetry.otlp-endpoint")),
			SampleRate:        sampleRate,
			Environment:       cast.ToString(v.Get("telemetry.environment")),
			PrometheusEnabled: cast.ToBool(v.Get("telemetry.prometheus-enabled")),
		},
	}
	cfg.Telemetry.ChainID = cfg.ChainID

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the node cannot start with
func (c Config) Validate() error {
	switch c.DBBackend {
	case dbm.MemDBBackend, dbm.GoLevelDBBackend, dbm.PebbleDBBackend:
	default:
		return fmt.Errorf("unsupported db backend %q", c.DBBackend)
	}
	if c.ChainID == "" {
		return fmt.Errorf("chain id cannot be empty")
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("metrics port %d out of range", c.MetricsPort)
	}
	switch c.LogFormat {
	case "json", "plain":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}

// DataDir is where persistent databases live
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}
