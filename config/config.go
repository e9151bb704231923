// Package config defines the run configuration for the daybook CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents a complete backtest run configuration.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Data       DataConfig       `json:"data" yaml:"data"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Strategy   StrategyConfig   `json:"strategy" yaml:"strategy"`
	Commission CommissionConfig `json:"commission" yaml:"commission"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// AccountConfig holds account initialization parameters.
type AccountConfig struct {
	Cash float64 `json:"cash" yaml:"cash"`
}

// DataConfig locates bar CSVs: one file per symbol, <dir>/<symbol>.csv
// (or .csv.xz).
type DataConfig struct {
	Dir     string   `json:"dir" yaml:"dir"`
	Symbols []string `json:"symbols" yaml:"symbols"`
}

// SimulationConfig bounds the session calendar, dates as 2006-01-02.
type SimulationConfig struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// StrategyConfig selects and parameterizes the strategy.
type StrategyConfig struct {
	Name   string  `json:"name" yaml:"name"`
	Symbol string  `json:"symbol" yaml:"symbol"`
	Size   float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Limit  float64 `json:"limit,omitempty" yaml:"limit,omitempty"`
	Fast   int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow   int     `json:"slow,omitempty" yaml:"slow,omitempty"`
}

// CommissionConfig selects the commission schedule.
type CommissionConfig struct {
	Policy string  `json:"policy" yaml:"policy"`
	Rate   float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
}

// JournalConfig selects the persistence backend.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// Dates parses the simulation window.
func (c *Config) Dates() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", c.Simulation.Start)
	if err != nil {
		return start, end, fmt.Errorf("simulation.start: %w", err)
	}
	end, err = time.Parse("2006-01-02", c.Simulation.End)
	if err != nil {
		return start, end, fmt.Errorf("simulation.end: %w", err)
	}
	return start, end, nil
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
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

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
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
	if c.Account.Cash <= 0 {
		return fmt.Errorf("account.cash must be positive")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if len(c.Data.Symbols) == 0 {
		return fmt.Errorf("data.symbols is required")
	}
	if _, _, err := c.Dates(); err != nil {
		return err
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal.dir required for csv type")
		}
	case "", "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{Cash: 100_000},
		Data: DataConfig{
			Dir:     "./data",
			Symbols: []string{"acc"},
		},
		Simulation: SimulationConfig{
			Start: "2004-08-12",
			End:   "2004-08-18",
		},
		Strategy: StrategyConfig{
			Name:   "sma-cross",
			Symbol: "acc",
			Size:   100,
			Fast:   10,
			Slow:   30,
		},
		Commission: CommissionConfig{Policy: "notional", Rate: 0.01},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./daybook.sqlite",
		},
	}
}
