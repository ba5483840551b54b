// Package config loads and validates backtest run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents a complete backtest configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Gate     GateConfig     `json:"gate" yaml:"gate"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	StartingCash float64 `json:"starting_cash" yaml:"starting_cash"`
}

// StrategyConfig contains strategy parameters.
type StrategyConfig struct {
	Name        string  `json:"name" yaml:"name"`
	ShortPeriod int     `json:"short_period" yaml:"short_period"`
	LongPeriod  int     `json:"long_period" yaml:"long_period"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
}

// GateConfig contains trade-cadence parameters.
type GateConfig struct {
	MinIntervalDays int `json:"min_interval_days" yaml:"min_interval_days"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file; format follows the extension
// (.yaml/.yml for YAML, anything else JSON).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.StartingCash <= 0 {
		return fmt.Errorf("account.starting_cash must be positive")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Strategy.ShortPeriod <= 0 {
		return fmt.Errorf("strategy.short_period must be positive")
	}
	if c.Strategy.LongPeriod <= c.Strategy.ShortPeriod {
		return fmt.Errorf("strategy.long_period must exceed short_period")
	}
	if c.Strategy.Multiplier <= 0 || c.Strategy.Multiplier > 1 {
		return fmt.Errorf("strategy.multiplier must be in (0, 1]")
	}
	if c.Gate.MinIntervalDays < 0 {
		return fmt.Errorf("gate.min_interval_days must not be negative")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with the stock 5/20 crossover setup.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			StartingCash: 10000,
		},
		Strategy: StrategyConfig{
			Name:        "sma-cross",
			ShortPeriod: 5,
			LongPeriod:  20,
			Multiplier:  0.5,
		},
		Gate: GateConfig{
			MinIntervalDays: 2,
		},
		Journal: JournalConfig{
			Type:       "csv",
			FillsFile:  "./fills.csv",
			EquityFile: "./equity.csv",
		},
	}
}
