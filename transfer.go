package ofxledger

import (
	"fmt"
	"strings"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/date"
	"github.com/etnz/ofxledger/ofx"
	"github.com/shopspring/decimal"
)

// postTransfer posts a security transfer: a dividend reinvestment, one side
// of a rename, or a plain transfer.
func (im *Importer) postTransfer(t *ofx.Transfer, siblings []ofx.Transaction) error {
	sec, err := im.securityAccount(t.SecID)
	if err != nil {
		return err
	}
	mult := im.multiplier(t.SecID)
	units := t.Units.Mul(mult)
	day := date.Of(t.TradeDate)
	e := entry{day: day, memo: t.Memo, fitid: t.FITID}

	if im.isDuplicate(sec, tradeCandidate(day, units, t.UnitPrice, t.Memo, t.FITID)) {
		im.skip("Transfer", t.FITID, sec)
		return nil
	}

	if isReinvestment(t) {
		return im.postReinvestment(t, sec, units, e)
	}

	renamed, err := im.tryRename(t, siblings)
	if err != nil || renamed {
		return err
	}

	cash, err := im.subAccount(t.SubAcctSec)
	if err != nil {
		return err
	}
	return im.postTrade("Transfer", trade{
		entry:    e,
		security: sec,
		cash:     cash,
		units:    units,
		price:    t.UnitPrice,
		scrub:    mult.GreaterThan(decimal.NewFromInt(1)),
	})
}

func isReinvestment(t *ofx.Transfer) bool {
	memo := strings.ToLower(t.Memo)
	return (strings.Contains(memo, "dividend") || strings.Contains(memo, "reinvest")) &&
		strings.EqualFold(t.TferAction, "IN") &&
		strings.EqualFold(t.PosType, "LONG")
}

// postReinvestment posts the units bought with a dividend as an income paid
// in the security. A transfer without price takes the one of the position.
func (im *Importer) postReinvestment(t *ofx.Transfer, sec *book.Account, units decimal.Decimal, e entry) error {
	price := t.UnitPrice
	if price.IsZero() {
		var err error
		if price, err = im.positionPrice(t); err != nil {
			return err
		}
	}
	inc, err := im.incomeAccount("DIV", false, t.Memo)
	if err != nil {
		return err
	}
	tx := im.begin(e)
	s := tx.AddPricedSplit(sec, price, units)
	tx.AddValueSplit(inc, s.Value().Neg())
	return im.commit(tx, "Reinvestment")
}

// positionPrice returns the price of the reported position of the same
// security and units, dated the trade day.
func (im *Importer) positionPrice(t *ofx.Transfer) (decimal.Decimal, error) {
	var found []*ofx.InvPos
	for _, p := range im.stmt.Response.Positions {
		pos := p.Pos()
		if pos.SecID == t.SecID && pos.Units.Equal(t.Units) &&
			date.Of(pos.PriceAsOf) == date.Of(t.TradeDate) && !pos.UnitPrice.IsZero() {
			found = append(found, pos)
		}
	}
	if len(found) != 1 {
		return decimal.Zero, resolutionError(ErrUnresolvablePrice, t.SecID,
			"%d positions of %s units on %s to price transfer %s", len(found), t.Units, date.Of(t.TradeDate), t.FITID)
	}
	return found[0].UnitPrice, nil
}

// tryRename detects a transfer out of a security mirrored by a transfer in
// of a renamed one: same ticker or same unique id, opposite units, same price
// day sub-account and position type, one account holding the transferred
// units and the other none. When the old account holds them, the two accounts
// swap their identity so that the history stays with the position. Other
// balances make a plain transfer.
func (im *Importer) tryRename(t *ofx.Transfer, siblings []ofx.Transaction) (bool, error) {
	var found []*ofx.Transfer
	for _, s := range siblings {
		o, ok := s.(*ofx.Transfer)
		if !ok || o == t || im.matched[o] || o.SecID == t.SecID {
			continue
		}
		if !o.Units.Equal(t.Units.Neg()) ||
			!o.UnitPrice.Equal(t.UnitPrice) ||
			date.Of(o.TradeDate) != date.Of(t.TradeDate) ||
			!strings.EqualFold(o.SubAcctSec, t.SubAcctSec) ||
			!strings.EqualFold(o.PosType, t.PosType) ||
			strings.EqualFold(o.TferAction, t.TferAction) {
			continue
		}
		if im.sameIdentity(t.SecID, o.SecID) {
			found = append(found, o)
		}
	}
	switch len(found) {
	case 0:
		return false, nil
	case 1:
	default:
		return false, resolutionError(ErrAmbiguousMatch, t.SecID, "%d transfers mirror %s", len(found), t.FITID)
	}

	out, in := t, found[0]
	if in.Units.IsNegative() {
		out, in = in, out
	}
	from, err := im.securityAccount(out.SecID)
	if err != nil {
		return false, err
	}
	to, err := im.securityAccount(in.SecID)
	if err != nil {
		return false, err
	}
	qty := in.Units.Mul(im.multiplier(in.SecID))
	fb, tb := from.Balance(), to.Balance()
	switch {
	case fb.Equal(qty) && tb.IsZero():
		// the position moves to the new identity
		swapIdentity(from, to)
		im.accounts[out.SecID.Key()] = to
		im.accounts[in.SecID.Key()] = from
	case tb.Equal(qty) && fb.IsZero():
		// the book already holds the position under the new identity
	case fb.Equal(qty) || tb.Equal(qty):
		return false, &AssertionViolation{
			Invariant: "renamed position starts empty",
			Detail: fmt.Sprintf("%s holds %s and %s holds %s, transferred %s",
				from.Path(), fb, to.Path(), tb, qty),
		}
	default:
		return false, nil
	}

	im.matched[found[0]] = true
	im.report.Renamed++
	im.log.Info().
		Str("from", out.SecID.Key()).
		Str("to", in.SecID.Key()).
		Str("account", im.accounts[in.SecID.Key()].Path()).
		Msg("security renamed by transfer")

	// empty postings so that a re-import finds both sides
	for _, leg := range []*ofx.Transfer{out, in} {
		tx := im.begin(entry{day: date.Of(leg.TradeDate), memo: leg.Memo, fitid: leg.FITID})
		tx.AddSplit(im.accounts[leg.SecID.Key()], decimal.Zero, decimal.Zero)
		if err := im.commit(tx, "Rename"); err != nil {
			return false, err
		}
	}
	return true, nil
}

// sameIdentity reports whether two securities share a unique id or a ticker,
// former tickers included.
func (im *Importer) sameIdentity(a, b ofx.SecurityID) bool {
	if a.UniqueID == b.UniqueID {
		return true
	}
	for _, x := range im.tickers(a) {
		for _, y := range im.tickers(b) {
			if x == y {
				return true
			}
		}
	}
	return false
}

func swapIdentity(a, b *book.Account) {
	ac, acode, aname, adesc := a.Commodity(), a.Code(), a.Name(), a.Description()
	a.SetCommodity(b.Commodity())
	a.SetCode(b.Code())
	a.SetName(b.Name())
	a.SetDescription(b.Description())
	b.SetCommodity(ac)
	b.SetCode(acode)
	b.SetName(aname)
	b.SetDescription(adesc)
}
