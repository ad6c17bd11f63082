package ofxledger

import (
	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/ofx"
	"github.com/shopspring/decimal"
)

// commodityFraction is the smallest unit of the security commodities.
const commodityFraction = 10000

// namespaces of the security commodities by catalog class.
var namespaces = map[ofx.SecurityClass]string{
	ofx.StockClass:      "STOCK",
	ofx.MutualFundClass: "FUND",
	ofx.DebtClass:       "BOND",
	ofx.OptionClass:     "OPTION",
	ofx.OtherClass:      "OTHER",
}

// security returns the catalog entry of id.
func (im *Importer) security(id ofx.SecurityID) (ofx.Security, error) {
	sec, ok := im.stmt.Security(id)
	if !ok {
		return nil, resolutionError(ErrSecurityNotFound, id, "not in the statement security list")
	}
	return sec, nil
}

func ticker(sec ofx.Security) string {
	if t := sec.Info().Ticker; t != "" {
		return t
	}
	return sec.Info().SecID.UniqueID
}

// commodity returns the commodity of a security, found by its unique id or
// created. A commodity found with another ticker has been renamed: its ticker
// is updated and the former one kept for matching transfers.
func (im *Importer) commodity(id ofx.SecurityID) (*book.Commodity, error) {
	key := id.Key()
	if c, ok := im.commodities[key]; ok {
		return c, nil
	}
	sec, err := im.security(id)
	if err != nil {
		return nil, err
	}
	info := sec.Info()
	tick := ticker(sec)
	table := im.book.Commodities()

	c := table.FindByCUSIP(id.UniqueID)
	switch {
	case c != nil && c.Mnemonic() != tick:
		im.log.Info().Str("security", key).Str("from", c.Mnemonic()).Str("to", tick).Msg("security renamed")
		im.formerTickers[key] = c.Mnemonic()
		c.SetMnemonic(tick)
	case c == nil && !im.cfg.AutoCreate.Commodities:
		return nil, resolutionError(ErrSecurityNotFound, id, "no commodity with this id in the book")
	case c == nil:
		c = table.Insert(book.NewCommodity(info.Name, namespaces[sec.Class()], tick, id.UniqueID, commodityFraction))
		c.SetQuoteFlag(true)
		c.SetQuoteSource(im.cfg.QuoteSource)
		im.log.Debug().Str("security", key).Str("commodity", c.UniqueName()).Msg("created commodity")
	}
	im.commodities[key] = c
	return c, nil
}

// tickers returns the current ticker of a security and, if it was renamed
// during this run, the former one.
func (im *Importer) tickers(id ofx.SecurityID) []string {
	var res []string
	if sec, ok := im.stmt.Security(id); ok {
		res = append(res, ticker(sec))
	}
	if t, ok := im.formerTickers[id.Key()]; ok {
		res = append(res, t)
	}
	return res
}

// securityAccount returns the account holding a security: found by code
// under the sub-tree of its class, or by the commodity ticker, or created.
func (im *Importer) securityAccount(id ofx.SecurityID) (*book.Account, error) {
	key := id.Key()
	if a, ok := im.accounts[key]; ok {
		return a, nil
	}
	sec, err := im.security(id)
	if err != nil {
		return nil, err
	}
	c, err := im.commodity(id)
	if err != nil {
		return nil, err
	}

	subtree, typ := im.cfg.Accounts.Stocks, book.Stock
	switch sec.Class() {
	case ofx.MutualFundClass:
		subtree, typ = im.cfg.Accounts.MutualFunds, book.Mutual
	case ofx.DebtClass:
		subtree, typ = im.cfg.Accounts.Bonds, book.Mutual
	case ofx.OptionClass:
		subtree = im.cfg.Accounts.Options
	}
	parent := im.broker.LookupByName(subtree)
	if parent == nil {
		if !im.cfg.AutoCreate.Commodities {
			return nil, resolutionError(ErrSecurityNotFound, id, "no account %q under %q", subtree, im.broker.Path())
		}
		parent = im.book.NewAccount(subtree, book.Asset, im.currency)
		parent.SetPlaceholder(true)
		im.broker.AppendChild(parent)
	}

	name := c.Mnemonic()
	a := parent.LookupByCode(key)
	if a == nil {
		a = parent.LookupByName(name)
		if a != nil && a.Code() != "" && a.Code() != key {
			// same ticker, another security
			a, name = nil, name+" "+id.UniqueID
		}
	}
	if a == nil {
		if !im.cfg.AutoCreate.Commodities {
			return nil, resolutionError(ErrSecurityNotFound, id, "no account for %s under %q", c.UniqueName(), parent.Path())
		}
		a = im.book.NewAccount(name, typ, c)
		a.SetDescription(sec.Info().Name)
		parent.AppendChild(a)
		im.log.Debug().Str("security", key).Str("account", a.Path()).Msg("created account")
	}
	if a.Commodity() != c {
		return nil, resolutionError(ErrCommodityMismatch, id,
			"account %q holds %s, the security is %s", a.Path(), a.Commodity(), c)
	}
	a.SetCode(key)
	im.accounts[key] = a
	return a, nil
}

// multiplier returns the number of shares per unit of a security: the shares
// per contract of options, 100 if not reported, one otherwise.
func (im *Importer) multiplier(id ofx.SecurityID) decimal.Decimal {
	sec, ok := im.stmt.Security(id)
	if !ok {
		return decimal.NewFromInt(1)
	}
	opt, ok := sec.(*ofx.OptInfo)
	if !ok {
		return decimal.NewFromInt(1)
	}
	if opt.SharesPerContract <= 0 {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(opt.SharesPerContract)
}
