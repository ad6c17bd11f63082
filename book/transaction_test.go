package book

import (
	"errors"
	"testing"

	"github.com/etnz/ofxledger/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitUnbalanced(t *testing.T) {
	f := newFixture(t)
	tx := f.book.BeginTransaction(f.usd)
	tx.SetDescription("broken")
	tx.AddValueSplit(f.cash, dec("10"))
	tx.AddValueSplit(f.gains, dec("-9.99"))

	err := tx.Commit()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbalanced))
	var ue *UnbalancedError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "0.01", ue.Sum.String())

	assert.False(t, tx.Committed())
	assert.Empty(t, f.cash.Splits())
	assert.Empty(t, f.book.Transactions())
}

func TestCommitTwice(t *testing.T) {
	f := newFixture(t)
	tx := f.trade(t, "2024-01-02", "10", "100")
	assert.Error(t, tx.Commit())
	assert.Len(t, f.book.Transactions(), 1)
}

func TestAddPricedSplit(t *testing.T) {
	f := newFixture(t)
	tx := f.book.BeginTransaction(f.usd)
	s := tx.AddPricedSplit(f.stock, dec("10.333"), dec("3"))
	assert.Equal(t, "31", s.Value().String())
	assert.Equal(t, "3", s.Amount().String())
	assert.True(t, s.SharePrice().Equal(dec("31").Div(dec("3"))))
}

func TestSplitsOrder(t *testing.T) {
	f := newFixture(t)
	late := f.trade(t, "2024-03-01", "1", "10")
	early := f.trade(t, "2024-01-01", "2", "20")
	same := f.trade(t, "2024-03-01", "3", "30")

	splits := f.stock.Splits()
	require.Len(t, splits, 3)
	assert.Same(t, early, splits[0].Transaction())
	assert.Same(t, late, splits[1].Transaction())
	assert.Same(t, same, splits[2].Transaction())
	assert.Equal(t, "6", f.stock.Balance().String())
}

func TestSetAccount(t *testing.T) {
	f := newFixture(t)
	tx := f.book.BeginTransaction(f.usd)
	tx.SetPosted(date.New(2024, 1, 1))
	s := tx.AddValueSplit(f.gains, dec("-5"))
	tx.AddValueSplit(f.cash, dec("5"))
	require.NoError(t, tx.Commit())

	other := mustPath(t, f.book.Root(), "Income:Other", Income, f.usd)
	s.SetAccount(other)
	assert.Empty(t, f.gains.Splits())
	assert.Len(t, other.Splits(), 1)
	assert.Same(t, other, s.Account())
}
