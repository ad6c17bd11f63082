package ofxledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/date"
	"github.com/etnz/ofxledger/ofx"
	"github.com/shopspring/decimal"
)

// postTransactions posts the cash transactions then the investment ones, in
// document order. Transactions consumed as the other side of a match are
// skipped.
func (im *Importer) postTransactions(ctx context.Context) error {
	list := im.stmt.Response.Transactions
	if list == nil {
		return nil
	}
	for _, t := range list.Bank {
		if err := ctx.Err(); err != nil {
			return err
		}
		if im.matched[t] {
			continue
		}
		if err := im.postBank(t, list.Bank); err != nil {
			return fmt.Errorf("bank transaction %s: %w", t.FITID, err)
		}
	}
	for _, t := range list.Investment {
		if err := ctx.Err(); err != nil {
			return err
		}
		if im.matched[t] {
			continue
		}
		var err error
		switch t := t.(type) {
		case *ofx.MarginInterest:
			err = im.postMarginInterest(t)
		case *ofx.Income:
			err = im.postIncome(t)
		case *ofx.InvExpense:
			err = im.postExpense(t)
		case ofx.Trade:
			err = im.postBuySell(t)
		case *ofx.Transfer:
			err = im.postTransfer(t, list.Investment)
		default:
			im.log.Warn().Str("fitid", t.Tran().FITID).Str("type", fmt.Sprintf("%T", t)).Msg("unsupported transaction, dropped")
			im.report.Dropped++
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", kindOf(t), t.Tran().FITID, err)
		}
	}
	return nil
}

// kindOf names a transaction variant: "BuyStock", "Income", ...
func kindOf(t any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", t), "*ofx.")
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (im *Importer) skip(kind, fitid string, account *book.Account) {
	im.report.Duplicates++
	im.log.Info().Str("kind", kind).Str("fitid", fitid).Str("account", account.Path()).Msg("suspected duplicate, skipped")
}

// postBank posts a cash transaction against its pair in another
// sub-account, or against the account of the first rule matching its memo,
// or against the imbalance account. The pair is consumed only when posted
// together: a side already in the book is left to its own duplicate check.
func (im *Importer) postBank(t *ofx.BankTransaction, siblings []*ofx.BankTransaction) error {
	acc, err := im.subAccount(t.SubAcctFund)
	if err != nil {
		return err
	}
	im.matched[t] = true
	other, err := im.bankPartner(t, siblings)
	if err != nil {
		return err
	}
	day := date.Of(t.Posted)
	memo := firstOf(t.Memo, t.Name)
	if im.isDuplicate(acc, cashCandidate(day, t.Amount, memo, t.FITID)) {
		im.skip("Bank", t.FITID, acc)
		return nil
	}

	var counter *book.Account
	if other != nil {
		if counter, err = im.subAccount(other.SubAcctFund); err != nil {
			return err
		}
		if im.isDuplicate(counter, cashCandidate(date.Of(other.Posted), other.Amount, firstOf(other.Memo, other.Name), other.FITID)) {
			im.log.Info().Str("fitid", t.FITID).Str("match", other.FITID).Msg("matching transaction already imported")
			other, counter = nil, nil
		}
	}

	switch path, ok := im.cfg.Counterpart(memo); {
	case other != nil:
		im.matched[other] = true
		im.report.Matched++
		im.log.Info().Str("fitid", t.FITID).Str("match", other.FITID).Msg("found matching transaction")
	case ok:
		if counter, err = im.account(path, typeOfPath(path)); err != nil {
			return err
		}
	default:
		if counter, err = im.imbalance(); err != nil {
			return err
		}
		im.warn("%s %s %q: no counterpart, posted against %s", day, t.FITID, memo, counter.Path())
	}
	tx := im.begin(entry{day: day, memo: memo, fitid: t.FITID})
	tx.AddValueSplit(acc, t.Amount)
	s := tx.AddValueSplit(counter, t.Amount.Neg())
	if other != nil {
		s.SetMemo(other.FITID)
	}
	return im.commit(tx, "Bank")
}

func sameFund(a, b string) bool {
	return strings.EqualFold(firstOf(a, "CASH"), firstOf(b, "CASH"))
}

// bankPartner returns the sibling of another type with the opposite amount in
// another sub-account. Among several, the one posted the same day is chosen.
func (im *Importer) bankPartner(t *ofx.BankTransaction, siblings []*ofx.BankTransaction) (*ofx.BankTransaction, error) {
	var found []*ofx.BankTransaction
	for _, o := range siblings {
		if o == t || im.matched[o] || sameFund(o.SubAcctFund, t.SubAcctFund) || strings.EqualFold(o.Type, t.Type) {
			continue
		}
		if o.Amount.Equal(t.Amount.Neg()) {
			found = append(found, o)
		}
	}
	if len(found) > 1 {
		var sameDay []*ofx.BankTransaction
		for _, o := range found {
			if date.Of(o.Posted) == date.Of(t.Posted) {
				sameDay = append(sameDay, o)
			}
		}
		found = sameDay
		if len(found) != 1 {
			return nil, resolutionError(ErrAmbiguousMatch, ofx.SecurityID{},
				"%d transactions could be the other side of %s", len(found), t.FITID)
		}
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

// imbalance returns the root account collecting unbalanced legs.
func (im *Importer) imbalance() (*book.Account, error) {
	name := im.cfg.Accounts.Imbalance + "-" + im.currency.Mnemonic()
	a, err := im.book.Root().FindOrCreatePath(name, book.Asset, im.currency)
	if err != nil {
		return nil, resolutionError(ErrCommodityMismatch, ofx.SecurityID{}, "%v", err)
	}
	return a, nil
}

func (im *Importer) postMarginInterest(t *ofx.MarginInterest) error {
	acc, err := im.subAccount(firstOf(t.SubAcctFund, t.SubAcctSec))
	if err != nil {
		return err
	}
	day := date.Of(t.TradeDate)
	if im.isDuplicate(acc, cashCandidate(day, t.Total, t.Memo, t.FITID)) {
		im.skip("MarginInterest", t.FITID, acc)
		return nil
	}
	exp, err := im.account(im.cfg.Accounts.MarginInterest, book.Expense)
	if err != nil {
		return err
	}
	_, err = im.postTwoLeg("MarginInterest", acc, exp, t.Total, entry{day: day, memo: t.Memo, fitid: t.FITID})
	return err
}

func (im *Importer) postIncome(t *ofx.Income) error {
	acc, err := im.subAccount(firstOf(t.SubAcctFund, t.SubAcctSec))
	if err != nil {
		return err
	}
	day := date.Of(t.TradeDate)
	if im.isDuplicate(acc, cashCandidate(day, t.Total, t.Memo, t.FITID)) {
		im.skip("Income", t.FITID, acc)
		return nil
	}
	inc, err := im.incomeAccount(t.IncomeType, t.TaxExempt, t.Memo)
	if err != nil {
		return err
	}
	return im.postAttributed("Income", acc, inc, t.Total, t.SecID, entry{day: day, memo: t.Memo, fitid: t.FITID})
}

func (im *Importer) postExpense(t *ofx.InvExpense) error {
	acc, err := im.subAccount(firstOf(t.SubAcctFund, t.SubAcctSec))
	if err != nil {
		return err
	}
	day := date.Of(t.TradeDate)
	if im.isDuplicate(acc, cashCandidate(day, t.Total, t.Memo, t.FITID)) {
		im.skip("InvExpense", t.FITID, acc)
		return nil
	}
	exp, err := im.account(im.cfg.Accounts.InvestmentExpenses, book.Expense)
	if err != nil {
		return err
	}
	return im.postAttributed("InvExpense", acc, exp, t.Total, t.SecID, entry{day: day, memo: t.Memo, fitid: t.FITID})
}

// postAttributed posts amount in cash against other, with an empty split in
// the security account so that reports attribute it to the security.
func (im *Importer) postAttributed(kind string, cash, other *book.Account, amount decimal.Decimal, id ofx.SecurityID, e entry) error {
	tx := im.begin(e)
	tx.AddValueSplit(cash, amount)
	tx.AddValueSplit(other, amount.Neg())
	if im.cfg.AttributeIncome && id != (ofx.SecurityID{}) {
		sec, err := im.securityAccount(id)
		if err != nil {
			return err
		}
		tx.AddSplit(sec, decimal.Zero, decimal.Zero)
	}
	return im.commit(tx, kind)
}

// postBuySell posts a buy or a sell. Option units are counted in shares.
func (im *Importer) postBuySell(t ofx.Trade) error {
	inv := t.Inv()
	sec, err := im.securityAccount(inv.SecID)
	if err != nil {
		return err
	}
	cash, err := im.subAccount(firstOf(inv.SubAcctFund, inv.SubAcctSec))
	if err != nil {
		return err
	}
	mult := ofx.Multiplier(t)
	if mult.IsZero() {
		mult = im.multiplier(inv.SecID)
	}
	units := inv.Units.Mul(mult)
	day := date.Of(inv.TradeDate)
	if im.isDuplicate(sec, tradeCandidate(day, units, inv.UnitPrice, inv.Memo, inv.FITID)) {
		im.skip(kindOf(t), inv.FITID, sec)
		return nil
	}
	return im.postTrade(kindOf(t), trade{
		entry:      entry{day: day, memo: inv.Memo, fitid: inv.FITID},
		security:   sec,
		cash:       cash,
		units:      units,
		price:      inv.UnitPrice,
		commission: inv.Commission.Add(inv.Fees),
		taxExempt:  inv.TaxExempt,
		scrub:      true,
	})
}
