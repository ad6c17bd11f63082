package book

import (
	"errors"

	"github.com/etnz/ofxledger/date"
	"github.com/shopspring/decimal"
)

// lot is what remains of one opening split: a signed quantity (negative for
// a short position) and its remaining cost.
type lot struct {
	opened date.Date
	amount decimal.Decimal
	value  decimal.Decimal
}

type lots []lot

// closing is the part of a lot consumed by a split.
type closing struct {
	opened date.Date
	units  decimal.Decimal // magnitude
	basis  decimal.Decimal // cost of the consumed units
}

// apply returns the lots after a split of amount and value on day, and the
// lot parts it closed, first in first out. What is not closed opens a new lot.
func (l lots) apply(day date.Date, amount, value decimal.Decimal) (lots, []closing) {
	l = append(lots(nil), l...)
	var closed []closing
	remaining := amount
	for len(l) > 0 && !remaining.IsZero() && l[0].amount.Sign() != remaining.Sign() {
		head := l[0]
		held := head.amount.Abs()
		take := decimal.Min(remaining.Abs(), held)
		sign := decimal.NewFromInt(int64(head.amount.Sign()))
		basis := head.value
		if take.LessThan(held) {
			basis = head.value.Mul(take).Div(held)
			l[0].amount = head.amount.Sub(take.Mul(sign))
			l[0].value = head.value.Sub(basis)
		} else {
			l = l[1:]
		}
		closed = append(closed, closing{opened: head.opened, units: take, basis: basis})
		remaining = remaining.Add(take.Mul(sign))
	}
	if !remaining.IsZero() {
		v := value
		if !remaining.Equal(amount) {
			v = value.Mul(remaining).Div(amount)
		}
		l = append(l, lot{opened: day, amount: remaining, value: v})
	}
	return l, closed
}

// replay returns the open lots after the splits, in order.
func replay(splits []*Split) lots {
	var open lots
	for _, s := range splits {
		if s.amount.IsZero() {
			continue
		}
		open, _ = open.apply(s.tx.posted, s.amount, s.value)
	}
	return open
}

// Gain is a realized gain posted by ScrubGains.
type Gain struct {
	// Split is the leg in the gains account, its value is minus the gain.
	Split *Split
	// Opened is the open date of the oldest lot consumed.
	Opened date.Date
	Amount decimal.Decimal
}

// ScrubGains matches the first security split of tx against the open lots of
// its account. The split is cut in one split per consumed lot, and the
// realized gain is posted in a new transaction between the security account
// (zero amount) and gains. It returns nil if the split does not close any lot
// or if the gain is zero.
//
// gains must be held in the transaction currency.
func (b *Book) ScrubGains(tx *Transaction, gains *Account) (*Gain, error) {
	if !tx.committed {
		return nil, errors.New("cannot scrub gains of an uncommitted transaction")
	}
	for _, s := range append([]*Split(nil), tx.splits...) {
		c := s.account.commodity
		if c == nil || c.IsCurrency() || s.amount.IsZero() {
			continue
		}
		return b.scrubSplit(s, gains)
	}
	return nil, nil
}

func (b *Book) scrubSplit(s *Split, gains *Account) (*Gain, error) {
	tx := s.tx
	var prior []*Split
	for _, x := range s.account.Splits() {
		if x.tx != tx && x.before(s) {
			prior = append(prior, x)
		}
	}
	_, closed := replay(prior).apply(tx.posted, s.amount, s.value)
	if len(closed) == 0 {
		return nil, nil
	}

	totalAmount, totalValue := s.amount, s.value
	remAmount, remValue := s.amount, s.value
	sign := decimal.NewFromInt(int64(s.amount.Sign()))
	gain := decimal.Zero
	opened := closed[0].opened
	for i, c := range closed {
		amount := c.units.Mul(sign)
		value := tx.currency.Round(totalValue.Mul(amount).Div(totalAmount))
		if amount.Equal(remAmount) {
			value = remValue
		}
		if i == 0 {
			s.amount, s.value = amount, value
		} else {
			tx.addSplit(s.account, value, amount).memo = s.memo
		}
		remAmount = remAmount.Sub(amount)
		remValue = remValue.Sub(value)
		gain = gain.Add(value.Neg().Sub(c.basis))
		if c.opened.Before(opened) {
			opened = c.opened
		}
	}
	if !remAmount.IsZero() {
		// the split also opened a lot in the other direction
		tx.addSplit(s.account, remValue, remAmount).memo = s.memo
	}

	gain = tx.currency.Round(gain)
	if gain.IsZero() {
		return nil, nil
	}
	gt := b.BeginTransaction(tx.currency)
	gt.SetPosted(tx.posted)
	gt.SetDescription(tx.description)
	gt.SetNotes(tx.notes)
	gt.AddSplit(s.account, gain, decimal.Zero)
	gs := gt.AddValueSplit(gains, gain.Neg())
	if err := gt.Commit(); err != nil {
		return nil, err
	}
	return &Gain{Split: gs, Opened: opened, Amount: gain}, nil
}
