package ofxledger

import (
	"time"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/date"
	"github.com/etnz/ofxledger/ofx"
	"github.com/shopspring/decimal"
)

// holding is the sum of the reported positions of one security.
type holding struct {
	id    ofx.SecurityID
	units decimal.Decimal
	price decimal.Decimal
	day   date.Date
}

// holdings sums the reported positions per security, in document order.
func (im *Importer) holdings() []*holding {
	var res []*holding
	byKey := make(map[string]*holding)
	for _, p := range im.stmt.Response.Positions {
		pos := p.Pos()
		if h, ok := byKey[pos.SecID.Key()]; ok {
			h.units = h.units.Add(pos.Units)
			continue
		}
		h := &holding{id: pos.SecID, units: pos.Units, price: pos.UnitPrice, day: im.positionDay(pos.PriceAsOf)}
		byKey[pos.SecID.Key()] = h
		res = append(res, h)
	}
	return res
}

// positionDay is the day of a position price, the statement day if unknown.
func (im *Importer) positionDay(t time.Time) date.Date {
	if t.IsZero() {
		t = im.stmt.Response.AsOf
	}
	return date.Of(t)
}

// reconcilePositions compares the reported positions with the account
// balances. A difference is posted against the opening balances if adjust,
// and reported as a warning otherwise.
func (im *Importer) reconcilePositions(adjust bool) error {
	mismatch := false
	for _, h := range im.holdings() {
		acc, err := im.securityAccount(h.id)
		if err != nil {
			return err
		}
		reported := h.units.Mul(im.multiplier(h.id))
		balance := acc.Balance()
		if reported.Equal(balance) {
			continue
		}
		delta := reported.Sub(balance)
		if !adjust {
			mismatch = true
			im.warn("%s: statement balance %s, book balance %s (net %s)", acc.Path(), reported, balance, delta)
			continue
		}
		equity, err := im.account(im.cfg.Accounts.OpeningBalances, book.Equity)
		if err != nil {
			return err
		}
		tx := im.begin(entry{day: h.day, memo: "Adjustment from statement position"})
		s := tx.AddPricedSplit(acc, h.price, delta)
		tx.AddValueSplit(equity, s.Value().Neg())
		if err := im.commit(tx, "Adjustment"); err != nil {
			return err
		}
		im.report.Adjusted++
		im.log.Info().Str("account", acc.Path()).Str("delta", delta.String()).Msg("position adjusted")
	}
	if mismatch {
		im.report.Mismatch = true
		im.log.Warn().Msg("positions differ from the book, run again with adjustments to record them")
	}
	return nil
}

// updatePrices records the price of every reported position, with the
// institution as source: the price of that day and source is updated, or
// added.
func (im *Importer) updatePrices() error {
	org := im.stmt.SignOn.Org
	db := im.book.Prices()
	for _, p := range im.stmt.Response.Positions {
		pos := p.Pos()
		acc, err := im.securityAccount(pos.SecID)
		if err != nil {
			return err
		}
		day := im.positionDay(pos.PriceAsOf)
		found := db.Lookup(acc.Commodity(), im.currency, day, org)
		for _, price := range found {
			price.SetValue(pos.UnitPrice)
			im.report.PricesUpdated++
		}
		if len(found) == 0 {
			db.Add(book.NewPrice(acc.Commodity(), im.currency, day, org, "last", pos.UnitPrice))
			im.report.PricesAdded++
		}
	}
	return nil
}
