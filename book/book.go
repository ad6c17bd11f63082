// Package book is an in-memory double entry ledger: a tree of accounts, a
// commodity table, balanced transactions made of splits, and a price
// database. It computes realized gains from FIFO lots.
//
// A Book is modified in memory only; Save writes it to a store. Discarding a
// Book without saving it discards all its modifications.
package book

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Book is a ledger.
type Book struct {
	root         *Account
	commodities  *Commodities
	prices       *PriceDB
	transactions []*Transaction
	seq          int // entry order of committed transactions
}

// New returns an empty book with a root account.
func New() *Book {
	b := &Book{commodities: &Commodities{}, prices: &PriceDB{}}
	b.root = b.NewAccount("Root Account", Root, nil)
	return b
}

// Root returns the root account.
func (b *Book) Root() *Account { return b.root }

// Commodities returns the commodity table.
func (b *Book) Commodities() *Commodities { return b.commodities }

// Prices returns the price database.
func (b *Book) Prices() *PriceDB { return b.prices }

// Transactions returns the committed transactions in entry order.
func (b *Book) Transactions() []*Transaction { return b.transactions }

// ErrUnbalanced is returned when committing a transaction whose split values
// do not sum to zero.
var ErrUnbalanced = errors.New("unbalanced transaction")

// UnbalancedError details an ErrUnbalanced.
type UnbalancedError struct {
	Description string
	Sum         decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("transaction %q is off by %s", e.Description, e.Sum)
}

func (e *UnbalancedError) Unwrap() error { return ErrUnbalanced }
