// Package config loads the account layout and the import rules.
//
// Configuration is read from a YAML file laid over the defaults, then from
// the environment (a .env file in the current directory is loaded if present).
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvConfig      = "OFXLEDGER_CONFIG"
	EnvLogLevel    = "OFXLEDGER_LOG_LEVEL"
	EnvQuoteSource = "OFXLEDGER_QUOTE_SOURCE"
)

// Config is the importer configuration.
type Config struct {
	Accounts    Accounts    `yaml:"accounts"`
	IncomeTypes IncomeTypes `yaml:"income_types"`
	AutoCreate  AutoCreate  `yaml:"auto_create"`
	// QuoteSource is set on created commodities.
	QuoteSource string `yaml:"quote_source"`
	// AttributeIncome adds an empty split in the security account of income
	// transactions so that reports attribute the income to the security.
	AttributeIncome bool `yaml:"attribute_income"`
	// DuplicateWindow is the max number of days between two postings of the
	// same transaction, MemolessWindow the max when memos differ.
	DuplicateWindow int    `yaml:"duplicate_window"`
	MemolessWindow  int    `yaml:"memoless_window"`
	LogLevel        string `yaml:"log_level"`
	// Rules find the counterpart of unmatched cash transactions by memo.
	Rules []Rule `yaml:"rules"`

	compiled []*regexp.Regexp
}

// Accounts are colon separated account paths from the book root.
type Accounts struct {
	BrokerageRoot      string `yaml:"brokerage_root"`
	Stocks             string `yaml:"stocks"`
	MutualFunds        string `yaml:"mutual_funds"`
	Bonds              string `yaml:"bonds"`
	Options            string `yaml:"options"`
	Commissions        string `yaml:"commissions"`
	MarginInterest     string `yaml:"margin_interest"`
	InvestmentExpenses string `yaml:"investment_expenses"`
	IncomeRoot         string `yaml:"income_root"`
	TaxExemptRoot      string `yaml:"tax_exempt_root"`
	OpeningBalances    string `yaml:"opening_balances"`
	// Assignment is the name of the child of the gains accounts receiving
	// the gains of assigned options.
	Assignment string `yaml:"assignment"`
	// Imbalance is the prefix of the root accounts receiving unbalanced legs,
	// one per currency: "Imbalance-USD".
	Imbalance string `yaml:"imbalance"`
}

// IncomeTypes are the names of the income accounts, under the income root or
// under the tax exempt root.
type IncomeTypes struct {
	LongTermGains  string `yaml:"long_term_gains"`
	ShortTermGains string `yaml:"short_term_gains"`
	Dividend       string `yaml:"dividend"`
	Interest       string `yaml:"interest"`
	Other          string `yaml:"other"`
	Futures        string `yaml:"futures"`
}

// AutoCreate controls which missing accounts are created.
type AutoCreate struct {
	Brokerage     bool `yaml:"brokerage"`
	Commodities   bool `yaml:"commodities"`
	IncomeExpense bool `yaml:"income_expense"`
	Prices        bool `yaml:"prices"`
}

// Rule maps a memo pattern to a counterpart account path.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Account string `yaml:"account"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Accounts: Accounts{
			BrokerageRoot:      "Assets:Investments",
			Stocks:             "Stocks",
			MutualFunds:        "Mutual Funds",
			Bonds:              "Bonds",
			Options:            "Options",
			Commissions:        "Expenses:Commissions",
			MarginInterest:     "Expenses:Margin Interest",
			InvestmentExpenses: "Expenses:Investment Expenses",
			IncomeRoot:         "Income",
			TaxExemptRoot:      "Income:Tax Exempt",
			OpeningBalances:    "Equity:Opening Balances",
			Assignment:         "Assignment",
			Imbalance:          "Imbalance",
		},
		IncomeTypes: IncomeTypes{
			LongTermGains:  "Long Term Capital Gains",
			ShortTermGains: "Short Term Capital Gains",
			Dividend:       "Dividend Income",
			Interest:       "Interest Income",
			Other:          "Other Income",
			Futures:        "Futures Income",
		},
		AutoCreate: AutoCreate{
			Brokerage:     true,
			Commodities:   true,
			IncomeExpense: true,
			Prices:        true,
		},
		QuoteSource:     "yahoo",
		AttributeIncome: true,
		DuplicateWindow: 5,
		MemolessWindow:  2,
		LogLevel:        "info",
		Rules: []Rule{
			{Pattern: `(?i)\binterest\b`, Account: "Income:Interest Income"},
			{Pattern: `(?i)\bfee\b`, Account: "Expenses:Commissions"},
		},
	}
}

// Load returns the configuration read from path, or from the file named by
// OFXLEDGER_CONFIG if path is empty, or the defaults if both are empty.
// A .env file may be given in envPath, otherwise ./.env is loaded if present.
func Load(path string, envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	c := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := c.Parse(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}
	c.LogLevel = getEnvOrDefault(EnvLogLevel, c.LogLevel)
	c.QuoteSource = getEnvOrDefault(EnvQuoteSource, c.QuoteSource)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse reads YAML over c. Rules given in YAML replace the current rules.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	c.compiled = nil
	return nil
}

// Validate checks the account paths and the windows, and compiles the rules.
func (c *Config) Validate() error {
	var errs []error
	paths := map[string]string{
		"brokerage_root":      c.Accounts.BrokerageRoot,
		"commissions":         c.Accounts.Commissions,
		"margin_interest":     c.Accounts.MarginInterest,
		"investment_expenses": c.Accounts.InvestmentExpenses,
		"income_root":         c.Accounts.IncomeRoot,
		"tax_exempt_root":     c.Accounts.TaxExemptRoot,
		"opening_balances":    c.Accounts.OpeningBalances,
	}
	for _, r := range c.Rules {
		paths["rule "+r.Pattern] = r.Account
	}
	for name, p := range paths {
		if err := checkPath(p); err != nil {
			errs = append(errs, fmt.Errorf("accounts.%s: %w", name, err))
		}
	}
	names := map[string]string{
		"imbalance":        c.Accounts.Imbalance,
		"long_term_gains":  c.IncomeTypes.LongTermGains,
		"short_term_gains": c.IncomeTypes.ShortTermGains,
		"dividend":         c.IncomeTypes.Dividend,
		"interest":         c.IncomeTypes.Interest,
		"other":            c.IncomeTypes.Other,
		"futures":          c.IncomeTypes.Futures,
		"assignment":       c.Accounts.Assignment,
	}
	for name, n := range names {
		if n == "" || strings.Contains(n, ":") {
			errs = append(errs, fmt.Errorf("%s: invalid account name %q", name, n))
		}
	}
	if c.DuplicateWindow < 0 || c.MemolessWindow < 0 || c.MemolessWindow > c.DuplicateWindow {
		errs = append(errs, fmt.Errorf("invalid duplicate windows %d and %d days", c.DuplicateWindow, c.MemolessWindow))
	}

	c.compiled = c.compiled[:0]
	for _, r := range c.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %q: %w", r.Pattern, err))
			continue
		}
		c.compiled = append(c.compiled, re)
	}
	return errors.Join(errs...)
}

// Counterpart returns the account path of the first rule matching memo.
func (c *Config) Counterpart(memo string) (string, bool) {
	if len(c.compiled) != len(c.Rules) {
		return "", false // not validated
	}
	for i, re := range c.compiled {
		if re.MatchString(memo) {
			return c.Rules[i].Account, true
		}
	}
	return "", false
}

// checkPath reports empty paths or empty path segments.
func checkPath(p string) error {
	if p == "" {
		return errors.New("empty account path")
	}
	for _, s := range strings.Split(p, ":") {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("empty segment in account path %q", p)
		}
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
