package ofxledger

import (
	"testing"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/ofx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionMismatch(t *testing.T) {
	st := statement(stock("1", "ACME"))
	st.Response.Positions = []ofx.Position{position(cusip("1"), "50", "10", "2024-06-28")}
	b := book.New()
	r := run(t, b, st, Options{})
	assert.True(t, r.Mismatch)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "statement balance 50")
	assert.Contains(t, r.Warnings[0], "net 50")
	assert.Equal(t, 0, r.Posted)
	assert.Equal(t, "0", balance(t, b, brokerPath+":Stocks:ACME"))
}

func TestPositionAdjusted(t *testing.T) {
	st := statement(stock("1", "ACME"))
	st.Response.Positions = []ofx.Position{position(cusip("1"), "50", "10", "2024-06-28")}
	b := book.New()
	r := run(t, b, st, Options{AdjustPositions: true})
	assert.False(t, r.Mismatch)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 1, r.Adjusted)
	assert.Equal(t, "50", balance(t, b, brokerPath+":Stocks:ACME"))
	assert.Equal(t, "-500", balance(t, b, "Equity:Opening Balances"))
	assertBalanced(t, b)

	require.Len(t, r.Entries, 1)
	assert.Equal(t, "Adjustment", r.Entries[0].Kind)
	assert.Equal(t, "2024-06-28", r.Entries[0].Day.String())

	r = run(t, b, st, Options{AdjustPositions: true})
	assert.Equal(t, 0, r.Adjusted)
	assert.False(t, r.Mismatch)
}

func TestPositionOfSeveralLots(t *testing.T) {
	st := statement(stock("1", "ACME"))
	st.Response.Transactions.Investment = []ofx.Transaction{buyStock("T1", "2024-01-02", cusip("1"), "30", "10")}
	lot := position(cusip("1"), "10", "11", "2024-06-28")
	lot.HeldInAcct = "MARGIN"
	st.Response.Positions = []ofx.Position{position(cusip("1"), "20", "11", "2024-06-28"), lot}
	r := run(t, book.New(), st, Options{})
	assert.False(t, r.Mismatch)
	assert.Empty(t, r.Warnings)
}

func TestPositionOfOptions(t *testing.T) {
	st := statement(option("1", "ACME240119C15", 100))
	st.Response.Positions = []ofx.Position{&ofx.PosOpt{InvPos: ofx.InvPos{
		SecID:     cusip("1"),
		PosType:   "LONG",
		Units:     dec("3"),
		UnitPrice: dec("1.2"),
	}}}
	b := book.New()
	r := run(t, b, st, Options{AdjustPositions: true})
	assert.Equal(t, 1, r.Adjusted)
	assert.Equal(t, "300", balance(t, b, brokerPath+":Options:ACME240119C15"))
	assert.Equal(t, "-360", balance(t, b, "Equity:Opening Balances"))
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "2024-06-30", r.Entries[0].Day.String(), "statement day when the price has no date")
}

func TestPrices(t *testing.T) {
	st := statement(stock("1", "ACME"))
	st.Response.Positions = []ofx.Position{position(cusip("1"), "50", "10", "2024-06-28")}
	b := book.New()
	r := run(t, b, st, Options{AdjustPositions: true})
	assert.Equal(t, 1, r.PricesAdded)

	st.Response.Positions = []ofx.Position{position(cusip("1"), "50", "10.5", "2024-06-28")}
	r = run(t, b, st, Options{})
	assert.Equal(t, 0, r.PricesAdded)
	assert.Equal(t, 1, r.PricesUpdated)

	st.Response.Positions = []ofx.Position{position(cusip("1"), "50", "11", "2024-06-29")}
	r = run(t, b, st, Options{})
	assert.Equal(t, 1, r.PricesAdded)

	c := b.Commodities().FindByCUSIP("1")
	usd, err := b.Commodities().Currency("USD")
	require.NoError(t, err)
	prices := b.Prices().Prices(c, usd)
	require.Len(t, prices, 2)
	assert.Equal(t, "10.5", prices[0].Value().String())
	assert.Equal(t, "broker.test", prices[0].Source())
	assert.Equal(t, "last", prices[0].Type())
	assert.Equal(t, "11", prices[1].Value().String())
}

func TestPricesDisabled(t *testing.T) {
	st := statement(stock("1", "ACME"))
	st.Response.Positions = []ofx.Position{position(cusip("1"), "50", "10", "2024-06-28")}
	cfg := testConfig(t)
	cfg.AutoCreate.Prices = false
	b := book.New()
	_, err := NewImporter(b, st, cfg).Run(t.Context(), Options{})
	require.NoError(t, err)
	assert.Empty(t, b.Prices().All())
}

func TestPositionAdjustedDelta(t *testing.T) {
	st := statement(stock("1", "ACME"))
	st.Response.Transactions.Investment = []ofx.Transaction{buyStock("T1", "2024-01-02", cusip("1"), "100", "8")}
	st.Response.Positions = []ofx.Position{
		position(cusip("1"), "100", "10", "2024-06-28"),
		position(cusip("1"), "50", "10", "2024-06-28"),
	}

	r := run(t, book.New(), st, Options{})
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "50")

	b := book.New()
	r = run(t, b, st, Options{AdjustPositions: true})
	assert.Equal(t, 1, r.Adjusted)
	assert.Equal(t, "150", balance(t, b, brokerPath+":Stocks:ACME"))

	acme := b.Root().LookupPath(brokerPath + ":Stocks:ACME")
	var adjustments []*book.Split
	for _, s := range acme.Splits() {
		if s.Transaction().Description() == "Adjustment from statement position" {
			adjustments = append(adjustments, s)
		}
	}
	require.Len(t, adjustments, 1)
	assert.Equal(t, "50", adjustments[0].Amount().String())
	assert.Equal(t, "10", adjustments[0].SharePrice().String())
	assert.Equal(t, "-500", balance(t, b, "Equity:Opening Balances"))
}
