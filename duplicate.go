package ofxledger

import (
	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/date"
	"github.com/shopspring/decimal"
)

// candidate is a posting about to be made, as seen by the duplicate scan.
type candidate struct {
	day    date.Date
	amount decimal.Decimal // value of the split, for cash postings
	trade  bool            // compare units and price instead of amount
	units  decimal.Decimal
	price  decimal.Decimal
	memo   string
	fitid  string
}

func cashCandidate(day date.Date, amount decimal.Decimal, memo, fitid string) candidate {
	return candidate{day: day, amount: amount, memo: memo, fitid: fitid}
}

func tradeCandidate(day date.Date, units, price decimal.Decimal, memo, fitid string) candidate {
	return candidate{day: day, trade: true, units: units, price: price, memo: memo, fitid: fitid}
}

// isDuplicate reports whether a posting equivalent to c already exists in
// the account. The transaction id is stored in the notes of every posted
// transaction: it is the only reliable key once gains processing has cut a
// trade in several splits. The other side of a matched pair is found by its id
// in the split memo.
func (im *Importer) isDuplicate(account *book.Account, c candidate) bool {
	window, memoless := im.cfg.DuplicateWindow, im.cfg.MemolessWindow
	amount := c.amount.Round(2)
	price := c.price.Round(2)
	for _, s := range account.Splits() {
		tx := s.Transaction()
		apart := c.day.DaysApart(tx.Posted())
		if apart > window {
			continue
		}
		if c.fitid != "" && (tx.Notes() == c.fitid || s.Memo() == c.fitid) {
			return true
		}
		if c.trade {
			if !c.units.Equal(s.Amount()) || !price.Equal(s.SharePrice().Round(2)) {
				continue
			}
		} else if !amount.Equal(s.Value().Round(2)) {
			continue
		}
		if tx.Notes() != "" && tx.Notes() != c.fitid {
			continue // another imported transaction
		}
		if c.memo != "" && c.memo == tx.Description() {
			return true
		}
		if apart <= memoless {
			return true
		}
	}
	return false
}
