package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	start, end, err := cfg.Dates()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2004, 8, 12, 0, 0, 0, 0, time.UTC), start)
	assert.True(t, start.Before(end))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no cash", func(c *Config) { c.Account.Cash = 0 }, "account.cash"},
		{"no data dir", func(c *Config) { c.Data.Dir = "" }, "data.dir"},
		{"no symbols", func(c *Config) { c.Data.Symbols = nil }, "data.symbols"},
		{"bad start date", func(c *Config) { c.Simulation.Start = "soon" }, "simulation.start"},
		{"no strategy", func(c *Config) { c.Strategy.Name = "" }, "strategy.name"},
		{"sqlite without path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }, "db_path"},
		{"csv without dir", func(c *Config) { c.Journal = JournalConfig{Type: "csv"} }, "journal.dir"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestJournalTypeNoneNeedsNothing(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Journal = JournalConfig{Type: "none"}
	assert.NoError(t, cfg.Validate())

	cfg.Journal = JournalConfig{}
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daybook.yaml")
	doc := `
account:
  cash: 10000
data:
  dir: ./data
  symbols: [acc]
simulation:
  start: "2004-08-12"
  end: "2004-08-18"
strategy:
  name: ladder
  symbol: acc
commission:
  policy: notional
  rate: 0.01
journal:
  type: none
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10_000.0, cfg.Account.Cash)
	assert.Equal(t, []string{"acc"}, cfg.Data.Symbols)
	assert.Equal(t, "ladder", cfg.Strategy.Name)
	assert.Equal(t, 0.01, cfg.Commission.Rate)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daybook.json")
	doc := `{
  "account": {"cash": 5000},
  "data": {"dir": "./data", "symbols": ["acc"]},
  "simulation": {"start": "2004-08-12", "end": "2004-08-18"},
  "strategy": {"name": "noop"},
  "journal": {"type": "none"}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, cfg.Account.Cash)
	assert.Equal(t, "noop", cfg.Strategy.Name)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  cash: -1\n"), 0644))
	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Default()
	cfg.Journal = JournalConfig{Type: "none"}

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, got, name)
	}
}
