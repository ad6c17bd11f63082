package book

import (
	"testing"

	"github.com/etnz/ofxledger/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrubGainsFIFO(t *testing.T) {
	f := newFixture(t)
	f.trade(t, "2024-01-01", "100", "1000")
	f.trade(t, "2024-02-01", "100", "1200")
	sale := f.trade(t, "2024-03-01", "-150", "-2250")

	g, err := f.book.ScrubGains(sale, f.gains)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "650", g.Amount.String())
	assert.Equal(t, date.New(2024, 1, 1), g.Opened)
	assert.Equal(t, "-650", g.Split.Value().String())
	assert.Same(t, f.gains, g.Split.Account())

	// the sale is cut per lot and stays balanced
	require.Len(t, sale.Splits(), 3)
	assert.True(t, sale.Imbalance().IsZero())
	assert.Equal(t, "-100", sale.Splits()[0].Amount().String())
	assert.Equal(t, "-1500", sale.Splits()[0].Value().String())
	assert.Equal(t, "-50", sale.Splits()[2].Amount().String())
	assert.Equal(t, "-750", sale.Splits()[2].Value().String())

	assert.Equal(t, "50", f.stock.Balance().String())
	basis := dec("0")
	for _, s := range f.stock.Splits() {
		basis = basis.Add(s.Value())
	}
	assert.Equal(t, "600", basis.String())
	assert.Equal(t, "-650", f.gains.Balance().String())
}

func TestScrubGainsNothingToClose(t *testing.T) {
	f := newFixture(t)
	buy := f.trade(t, "2024-01-01", "100", "1000")
	g, err := f.book.ScrubGains(buy, f.gains)
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.Len(t, f.book.Transactions(), 1)
}

func TestScrubGainsShort(t *testing.T) {
	f := newFixture(t)
	short := f.trade(t, "2024-01-01", "-10", "-120")
	g, err := f.book.ScrubGains(short, f.gains)
	require.NoError(t, err)
	assert.Nil(t, g)

	cover := f.trade(t, "2024-02-01", "10", "100")
	g, err = f.book.ScrubGains(cover, f.gains)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "20", g.Amount.String())
	assert.Equal(t, "0", f.stock.Balance().String())
}

func TestScrubGainsOversell(t *testing.T) {
	f := newFixture(t)
	f.trade(t, "2024-01-01", "10", "100")
	sale := f.trade(t, "2024-02-01", "-15", "-300")

	g, err := f.book.ScrubGains(sale, f.gains)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "100", g.Amount.String())

	require.Len(t, sale.Splits(), 3)
	assert.Equal(t, "-10", sale.Splits()[0].Amount().String())
	assert.Equal(t, "-200", sale.Splits()[0].Value().String())
	assert.Equal(t, "-5", sale.Splits()[2].Amount().String())
	assert.Equal(t, "-100", sale.Splits()[2].Value().String())
	assert.True(t, sale.Imbalance().IsZero())
}

func TestScrubGainsZeroGain(t *testing.T) {
	f := newFixture(t)
	f.trade(t, "2024-01-01", "10", "100")
	sale := f.trade(t, "2024-02-01", "-10", "-100")
	g, err := f.book.ScrubGains(sale, f.gains)
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.Len(t, f.book.Transactions(), 2)
}

func TestScrubGainsUncommitted(t *testing.T) {
	f := newFixture(t)
	tx := f.book.BeginTransaction(f.usd)
	_, err := f.book.ScrubGains(tx, f.gains)
	assert.Error(t, err)
}

func TestLotsApply(t *testing.T) {
	var l lots
	l, closed := l.apply(date.New(2024, 1, 1), dec("10"), dec("100"))
	assert.Empty(t, closed)
	l, closed = l.apply(date.New(2024, 1, 2), dec("-4"), dec("-60"))
	require.Len(t, closed, 1)
	assert.Equal(t, "4", closed[0].units.String())
	assert.Equal(t, "40", closed[0].basis.String())
	require.Len(t, l, 1)
	assert.Equal(t, "6", l[0].amount.String())
	assert.Equal(t, "60", l[0].value.String())
}
