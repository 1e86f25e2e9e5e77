// Package config provides layered configuration management for the
// backtesting CLI and its ambient services (logging, persistence, output).
// The engine core itself (internal/backtest) never reads configuration —
// every value it needs arrives as an explicit BacktestConfig argument.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// EngineConfig holds default cost assumptions applied when a CLI-constructed
// BacktestConfig omits them.
type EngineConfig struct {
	DefaultFeeBps         float64 `mapstructure:"default_fee_bps"`
	DefaultSlippageBps    float64 `mapstructure:"default_slippage_bps"`
	DefaultInitialCapital float64 `mapstructure:"default_initial_capital"`
}

// StoreConfig holds candle/rule-set persistence configuration.
type StoreConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig mirrors applog.LogConfig for viper unmarshaling.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age_days"`
}

// OutputConfig holds CLI presentation configuration.
type OutputConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
	JSONMode     bool `mapstructure:"json_mode"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/cryptobacktest"
	}
	return filepath.Join(home, ".config", "cryptobacktest")
}

// Default returns the built-in configuration used when no config file and
// no environment overrides are present.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			DefaultFeeBps:         10,
			DefaultSlippageBps:    5,
			DefaultInitialCapital: 10000,
		},
		Store: StoreConfig{
			DBPath: filepath.Join(DefaultConfigDir(), "candles.db"),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Console:    true,
			File:       true,
			FilePath:   filepath.Join(DefaultConfigDir(), "logs", "engine.log"),
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
		Output: OutputConfig{ColorEnabled: true},
	}
}

// Load loads configuration from configDir, falling back to the default
// config directory, a config.{yaml,toml,json} file within it, and
// CRYPTOBACKTEST_-prefixed environment variables, in that order of
// increasing precedence.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("CRYPTOBACKTEST")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRYPTOBACKTEST_DB_PATH"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("CRYPTOBACKTEST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.DefaultInitialCapital <= 0 {
		return fmt.Errorf("engine.default_initial_capital must be positive")
	}
	if c.Engine.DefaultFeeBps < 0 {
		return fmt.Errorf("engine.default_fee_bps must be non-negative")
	}
	if c.Engine.DefaultSlippageBps < 0 {
		return fmt.Errorf("engine.default_slippage_bps must be non-negative")
	}
	return nil
}
