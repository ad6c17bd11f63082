package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreatePath(t *testing.T) {
	f := newFixture(t)
	root := f.book.Root()

	again := mustPath(t, root, "Assets:Broker:Cash", Bank, f.usd)
	assert.Same(t, f.cash, again)
	assert.Equal(t, "Assets:Broker:Cash", f.cash.Path())
	assert.Same(t, f.cash, root.LookupPath("Assets:Broker:Cash"))
	assert.Nil(t, root.LookupPath("Assets:Nope"))

	_, err := root.FindOrCreatePath("Assets:Broker:Cash", Bank, f.acme)
	assert.Error(t, err)
}

func TestLookupByCode(t *testing.T) {
	f := newFixture(t)
	f.stock.SetCode("CUSIP:000000101")
	broker := f.book.Root().LookupPath("Assets:Broker")
	require.NotNil(t, broker)

	assert.Same(t, f.stock, broker.LookupByCode("CUSIP:000000101"))
	assert.Same(t, f.stock, f.book.Root().LookupByCode("CUSIP:000000101"))
	assert.Nil(t, broker.LookupByCode("CUSIP:999"))
}

func TestWalk(t *testing.T) {
	f := newFixture(t)
	var paths []string
	f.book.Root().Walk(func(a *Account) { paths = append(paths, a.Path()) })
	assert.Equal(t, []string{
		"",
		"Assets",
		"Assets:Broker",
		"Assets:Broker:Cash",
		"Assets:Broker:ACME",
		"Income",
		"Income:Capital Gains",
	}, paths)
}

func TestParseAccountType(t *testing.T) {
	for _, typ := range []AccountType{Root, Asset, Bank, Cash, Stock, Mutual, Income, Expense, Equity} {
		got, err := ParseAccountType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	_, err := ParseAccountType("LIABILITY")
	assert.Error(t, err)
}

func TestCurrencyCommodity(t *testing.T) {
	b := New()
	usd, err := b.Commodities().Currency("USD")
	require.NoError(t, err)
	assert.True(t, usd.IsCurrency())
	assert.Equal(t, int64(100), usd.Fraction())
	assert.Equal(t, "1.24", usd.Round(dec("1.235")).String())

	again, err := b.Commodities().Currency("USD")
	require.NoError(t, err)
	assert.Same(t, usd, again)

	_, err = b.Commodities().Currency("XYZ")
	assert.Error(t, err)
}
