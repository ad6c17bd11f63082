package book

import (
	"testing"

	"github.com/etnz/ofxledger/date"
	"github.com/shopspring/decimal"
)

type fixture struct {
	book  *Book
	usd   *Commodity
	acme  *Commodity
	cash  *Account
	stock *Account
	gains *Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := New()
	usd, err := b.Commodities().Currency("USD")
	if err != nil {
		t.Fatalf("Currency(USD) failed: %v", err)
	}
	acme := b.Commodities().Insert(NewCommodity("Acme Corp", "NASDAQ", "ACME", "000000101", 10000))
	f := &fixture{book: b, usd: usd, acme: acme}
	f.cash = mustPath(t, b.Root(), "Assets:Broker:Cash", Bank, usd)
	f.stock = mustPath(t, b.Root(), "Assets:Broker:ACME", Stock, acme)
	f.gains = mustPath(t, b.Root(), "Income:Capital Gains", Income, usd)
	return f
}

func mustPath(t *testing.T, root *Account, path string, typ AccountType, c *Commodity) *Account {
	t.Helper()
	a, err := root.FindOrCreatePath(path, typ, c)
	if err != nil {
		t.Fatalf("FindOrCreatePath(%q) failed: %v", path, err)
	}
	return a
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// trade commits a trade of units of the stock for value, cash on the other
// side.
func (f *fixture) trade(t *testing.T, day string, units, value string) *Transaction {
	t.Helper()
	tx := f.book.BeginTransaction(f.usd)
	tx.SetPosted(date.MustParse(day))
	tx.SetDescription("trade " + units)
	tx.AddSplit(f.stock, dec(value), dec(units))
	tx.AddValueSplit(f.cash, dec(value).Neg())
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	return tx
}
