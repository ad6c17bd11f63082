package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "Assets:Investments", c.Accounts.BrokerageRoot)
	assert.Equal(t, 5, c.DuplicateWindow)
	assert.Equal(t, 2, c.MemolessWindow)

	acc, ok := c.Counterpart("Interest on credit balance")
	assert.True(t, ok)
	assert.Equal(t, "Income:Interest Income", acc)

	_, ok = c.Counterpart("Wire in")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
accounts:
  brokerage_root: Assets:Brokers
  opening_balances: Equity:Start
quote_source: alphavantage
duplicate_window: 7
rules:
  - pattern: "(?i)adr fee"
    account: Expenses:ADR Fees
`), 0o644))
	t.Setenv(EnvQuoteSource, "")
	t.Setenv(EnvLogLevel, "debug")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Assets:Brokers", c.Accounts.BrokerageRoot)
	assert.Equal(t, "Equity:Start", c.Accounts.OpeningBalances)
	assert.Equal(t, "Expenses:Commissions", c.Accounts.Commissions, "defaults are kept")
	assert.Equal(t, "alphavantage", c.QuoteSource)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 7, c.DuplicateWindow)
	require.Len(t, c.Rules, 1)

	acc, ok := c.Counterpart("ADR FEE 0.02 per share")
	assert.True(t, ok)
	assert.Equal(t, "Expenses:ADR Fees", acc)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quote_source: file\n"), 0o644))
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvQuoteSource, "env")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env", c.QuoteSource, "environment overrides the file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty root", func(c *Config) { c.Accounts.BrokerageRoot = "" }},
		{"empty segment", func(c *Config) { c.Accounts.Commissions = "Expenses::Fees" }},
		{"bad rule", func(c *Config) { c.Rules = []Rule{{Pattern: "(", Account: "Expenses"}}} },
		{"rule without account", func(c *Config) { c.Rules = []Rule{{Pattern: "x"}} }},
		{"path as name", func(c *Config) { c.IncomeTypes.Dividend = "Income:Dividends" }},
		{"windows", func(c *Config) { c.MemolessWindow = 6 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
