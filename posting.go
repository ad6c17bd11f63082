package ofxledger

import (
	"strings"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/date"
	"github.com/shopspring/decimal"
)

// entry is what every posted transaction carries: the posted day, the memo
// as description and the transaction id in the notes.
type entry struct {
	day   date.Date
	memo  string
	fitid string
}

func (im *Importer) begin(e entry) *book.Transaction {
	tx := im.book.BeginTransaction(im.currency)
	tx.SetPosted(e.day)
	tx.SetDescription(e.memo)
	tx.SetNotes(e.fitid)
	return tx
}

func (im *Importer) commit(tx *book.Transaction, kind string) error {
	if err := tx.Commit(); err != nil {
		return &AssertionViolation{Invariant: "balanced transaction", Detail: err.Error()}
	}
	im.report.post(kind, tx)
	im.log.Debug().Str("kind", kind).Str("fitid", tx.Notes()).Str("day", tx.Posted().String()).Msg("posted")
	return nil
}

// postTwoLeg posts amount in a and its opposite in b.
func (im *Importer) postTwoLeg(kind string, a, b *book.Account, amount decimal.Decimal, e entry) (*book.Transaction, error) {
	tx := im.begin(e)
	tx.AddValueSplit(a, amount)
	tx.AddValueSplit(b, amount.Neg())
	return tx, im.commit(tx, kind)
}

// trade is a change of units in a security account paid from a cash account.
type trade struct {
	entry
	security   *book.Account
	cash       *book.Account
	units      decimal.Decimal
	price      decimal.Decimal
	commission decimal.Decimal
	taxExempt  bool
	scrub      bool // compute and file the realized gain
}

// postTrade posts the security leg priced at the unit price, the commission
// leg and the cash leg paying both. The realized gain, if any, is filed by
// lot age.
func (im *Importer) postTrade(kind string, t trade) error {
	tx := im.begin(t.entry)
	s := tx.AddPricedSplit(t.security, t.price, t.units)
	if !t.commission.IsZero() {
		comm, err := im.account(im.cfg.Accounts.Commissions, book.Expense)
		if err != nil {
			return err
		}
		tx.AddValueSplit(comm, t.commission)
	}
	tx.AddValueSplit(t.cash, s.Value().Add(t.commission).Neg())
	if err := im.commit(tx, kind); err != nil {
		return err
	}
	if !t.scrub {
		return nil
	}
	return im.scrubGains(tx, t.taxExempt)
}

// scrubGains computes the gain realized by tx and files it as long term if
// the oldest lot consumed was opened at least one year before, and under the
// assignment account for assigned options.
func (im *Importer) scrubGains(tx *book.Transaction, taxExempt bool) error {
	short, err := im.incomeAccount("CGSHORT", taxExempt, "")
	if err != nil {
		return err
	}
	gain, err := im.book.ScrubGains(tx, short)
	if err != nil {
		return &AssertionViolation{Invariant: "gains scrub", Detail: err.Error()}
	}
	if gain == nil {
		return nil
	}
	if gain.Split.Account() != short {
		return &AssertionViolation{Invariant: "gains split account", Detail: gain.Split.Account().Path()}
	}

	target := short
	long := !gain.Opened.AddYears(1).After(tx.Posted())
	if long {
		if target, err = im.incomeAccount("CGLONG", taxExempt, ""); err != nil {
			return err
		}
	}
	if strings.Contains(strings.ToLower(tx.Description()), "assign") {
		if target, err = im.account(target.Path()+":"+im.cfg.Accounts.Assignment, book.Income); err != nil {
			return err
		}
	}
	gain.Split.SetAccount(target)
	im.report.gain(tx, target, gain.Amount, long)
	im.log.Debug().Str("fitid", tx.Notes()).Str("account", target.Path()).Str("gain", gain.Amount.String()).Msg("realized gain")
	return nil
}
