package book

import (
	"errors"

	"github.com/etnz/ofxledger/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a set of splits whose values sum to zero in the transaction
// currency.
type Transaction struct {
	book        *Book
	guid        uuid.UUID
	currency    *Commodity
	posted      date.Date
	entered     int
	description string
	notes       string
	splits      []*Split
	committed   bool
}

// BeginTransaction opens an editable transaction. It is not part of the book
// until committed.
func (b *Book) BeginTransaction(currency *Commodity) *Transaction {
	return &Transaction{book: b, guid: uuid.New(), currency: currency}
}

func (t *Transaction) GUID() uuid.UUID         { return t.guid }
func (t *Transaction) Currency() *Commodity    { return t.currency }
func (t *Transaction) Posted() date.Date       { return t.posted }
func (t *Transaction) SetPosted(d date.Date)   { t.posted = d }
func (t *Transaction) Description() string     { return t.description }
func (t *Transaction) SetDescription(d string) { t.description = d }
func (t *Transaction) Notes() string           { return t.notes }
func (t *Transaction) SetNotes(n string)       { t.notes = n }
func (t *Transaction) Splits() []*Split        { return t.splits }
func (t *Transaction) Committed() bool         { return t.committed }

// AddValueSplit adds a split moving value in account. The amount is the
// value: account is expected to be held in the transaction currency.
func (t *Transaction) AddValueSplit(account *Account, value decimal.Decimal) *Split {
	return t.addSplit(account, value, value)
}

// AddPricedSplit adds a split of quantity units of the account commodity at
// price, its value rounded to the transaction currency.
func (t *Transaction) AddPricedSplit(account *Account, price, quantity decimal.Decimal) *Split {
	return t.addSplit(account, t.currency.Round(price.Mul(quantity)), quantity)
}

// AddSplit adds a split with an explicit value and amount.
func (t *Transaction) AddSplit(account *Account, value, amount decimal.Decimal) *Split {
	return t.addSplit(account, value, amount)
}

func (t *Transaction) addSplit(account *Account, value, amount decimal.Decimal) *Split {
	s := &Split{guid: uuid.New(), tx: t, account: account, value: value, amount: amount}
	t.splits = append(t.splits, s)
	if t.committed {
		account.splits = append(account.splits, s)
	}
	return s
}

// Imbalance returns the sum of the split values.
func (t *Transaction) Imbalance() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range t.splits {
		sum = sum.Add(s.value)
	}
	return sum
}

// Commit adds the transaction to the book. It fails with an *UnbalancedError
// if the split values do not sum to zero.
func (t *Transaction) Commit() error {
	if t.committed {
		return errors.New("transaction already committed")
	}
	if sum := t.Imbalance(); !sum.IsZero() {
		return &UnbalancedError{Description: t.description, Sum: sum}
	}
	t.book.seq++
	t.entered = t.book.seq
	t.committed = true
	for _, s := range t.splits {
		s.account.splits = append(s.account.splits, s)
	}
	t.book.transactions = append(t.book.transactions, t)
	return nil
}

// Split is one leg of a transaction.
type Split struct {
	guid    uuid.UUID
	tx      *Transaction
	account *Account
	value   decimal.Decimal // in the transaction currency
	amount  decimal.Decimal // in the account commodity
	memo    string
}

func (s *Split) GUID() uuid.UUID           { return s.guid }
func (s *Split) Transaction() *Transaction { return s.tx }
func (s *Split) Account() *Account         { return s.account }
func (s *Split) Value() decimal.Decimal    { return s.value }
func (s *Split) Amount() decimal.Decimal   { return s.amount }
func (s *Split) Memo() string              { return s.memo }
func (s *Split) SetMemo(m string)          { s.memo = m }

// SharePrice returns value/amount, zero if the amount is zero.
func (s *Split) SharePrice() decimal.Decimal {
	if s.amount.IsZero() {
		return decimal.Zero
	}
	return s.value.Div(s.amount)
}

// SetAccount moves the split to another account.
func (s *Split) SetAccount(a *Account) {
	if s.account == a {
		return
	}
	if s.tx.committed {
		s.account.removeSplit(s)
		a.splits = append(a.splits, s)
	}
	s.account = a
}

// before orders splits by posted date then entry order then position in the
// transaction.
func (s *Split) before(x *Split) bool {
	if s.tx.posted != x.tx.posted {
		return s.tx.posted.Before(x.tx.posted)
	}
	if s.tx.entered != x.tx.entered {
		return s.tx.entered < x.tx.entered
	}
	return s.index() < x.index()
}

func (s *Split) index() int {
	for i, x := range s.tx.splits {
		if x == s {
			return i
		}
	}
	return -1
}
