package ofxledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/config"
	"github.com/etnz/ofxledger/logger"
	"github.com/etnz/ofxledger/ofx"
	"github.com/rs/zerolog"
)

// Options of an import run.
type Options struct {
	// AdjustPositions posts an adjustment when a reported position differs
	// from the account balance. Otherwise the difference is a warning.
	AdjustPositions bool
}

// Importer holds the state of one import run: the identity caches and the
// set of transactions already consumed as the other side of a match.
type Importer struct {
	book *book.Book
	stmt *ofx.Statement
	cfg  *config.Config
	log  zerolog.Logger

	currency    *book.Commodity
	broker      *book.Account
	subAccounts map[string]*book.Account

	commodities   map[string]*book.Commodity // by security key
	accounts      map[string]*book.Account   // by security key
	formerTickers map[string]string          // by security key, set on rename

	matched map[any]bool
	report  *Report
	done    bool
}

// NewImporter prepares the import of stmt into b. A failed Run restores b to
// its content before the run: accounts and transactions obtained from b
// before then must be looked up again.
func NewImporter(b *book.Book, stmt *ofx.Statement, cfg *config.Config) *Importer {
	return &Importer{
		book:          b,
		stmt:          stmt,
		cfg:           cfg,
		log:           zerolog.Nop(),
		subAccounts:   make(map[string]*book.Account),
		commodities:   make(map[string]*book.Commodity),
		accounts:      make(map[string]*book.Account),
		formerTickers: make(map[string]string),
		matched:       make(map[any]bool),
		report:        &Report{Org: stmt.SignOn.Org, Account: stmt.Response.Account.AcctID, Dropped: len(stmt.Dropped)},
	}
}

// Run posts the statement. It stops at the first error and leaves the book as
// it was before the run.
func (im *Importer) Run(ctx context.Context, opts Options) (*Report, error) {
	if im.done {
		return nil, errors.New("importer already ran")
	}
	im.done = true
	im.log = logger.FromContext(ctx).With().
		Str("org", im.stmt.SignOn.Org).
		Str("acctid", im.stmt.Response.Account.AcctID).
		Logger()

	before, err := im.book.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("cannot snapshot the book: %w", err)
	}
	r, err := im.run(ctx, opts)
	if err != nil {
		if rerr := im.book.Restore(before); rerr != nil {
			return nil, errors.Join(err, fmt.Errorf("cannot restore the book: %w", rerr))
		}
		im.log.Debug().Err(err).Msg("import failed, book restored")
		return nil, err
	}
	return r, nil
}

func (im *Importer) run(ctx context.Context, opts Options) (*Report, error) {
	if err := im.findBroker(); err != nil {
		return nil, err
	}
	if err := im.postTransactions(ctx); err != nil {
		return nil, err
	}
	if err := im.reconcilePositions(opts.AdjustPositions); err != nil {
		return nil, err
	}
	if im.cfg.AutoCreate.Prices {
		if err := im.updatePrices(); err != nil {
			return nil, err
		}
	}
	im.log.Info().
		Int("posted", im.report.Posted).
		Int("duplicates", im.report.Duplicates).
		Int("warnings", len(im.report.Warnings)).
		Msg("import done")
	return im.report, nil
}

// findBroker finds the broker account by its code, the statement account id,
// under the brokerage root, and the accounts every run needs.
func (im *Importer) findBroker() error {
	acct := im.stmt.Response.Account
	cur, err := im.book.Commodities().Currency(im.stmt.Response.CurDef)
	if err != nil {
		return resolutionError(ErrCommodityMismatch, ofx.SecurityID{}, "statement currency: %v", err)
	}
	im.currency = cur

	root := im.book.Root().LookupPath(im.cfg.Accounts.BrokerageRoot)
	if root == nil {
		if !im.cfg.AutoCreate.Brokerage {
			return fmt.Errorf("brokerage root account %q not found", im.cfg.Accounts.BrokerageRoot)
		}
		if root, err = im.book.Root().FindOrCreatePath(im.cfg.Accounts.BrokerageRoot, book.Asset, cur); err != nil {
			return err
		}
		root.SetPlaceholder(true)
	}

	broker := root.LookupByCode(acct.AcctID)
	switch {
	case broker != nil && broker.Commodity() != cur:
		return resolutionError(ErrCommodityMismatch, ofx.SecurityID{},
			"broker account %q (code %s) is in %s, the statement in %s", broker.Path(), acct.AcctID, broker.Commodity(), cur)
	case broker == nil && !im.cfg.AutoCreate.Brokerage:
		return fmt.Errorf("no account with code %s under %q", acct.AcctID, root.Path())
	case broker == nil:
		name := im.stmt.SignOn.Org
		if name == "" {
			name = acct.BrokerID
		}
		if broker, err = root.FindOrCreatePath(name, book.Bank, cur); err != nil {
			return resolutionError(ErrCommodityMismatch, ofx.SecurityID{}, "broker account: %v", err)
		}
		broker.SetCode(acct.AcctID)
		im.log.Info().Str("account", broker.Path()).Msg("created broker account")
	}
	im.broker = broker

	if _, err := im.subAccount("CASH"); err != nil {
		return err
	}
	if !im.cfg.AutoCreate.IncomeExpense {
		return nil
	}
	a := im.cfg.Accounts
	for _, p := range []string{a.Commissions, a.MarginInterest, a.InvestmentExpenses} {
		if _, err := im.account(p, book.Expense); err != nil {
			return err
		}
	}
	for _, r := range []string{a.IncomeRoot, a.TaxExemptRoot} {
		for _, name := range im.incomeNames() {
			if _, err := im.account(r+":"+name, book.Income); err != nil {
				return err
			}
		}
	}
	return nil
}

func (im *Importer) incomeNames() []string {
	t := im.cfg.IncomeTypes
	return []string{t.LongTermGains, t.ShortTermGains, t.Dividend, t.Interest, t.Other, t.Futures}
}

// subAccount returns the child of the broker account for a sub-account
// designation: CASH, MARGIN, SHORT or OTHER.
func (im *Importer) subAccount(designation string) (*book.Account, error) {
	if designation == "" {
		designation = "CASH"
	}
	name := strings.ToUpper(designation[:1]) + strings.ToLower(designation[1:])
	if a, ok := im.subAccounts[name]; ok {
		return a, nil
	}
	a := im.broker.LookupByName(name)
	switch {
	case a == nil && !im.cfg.AutoCreate.Brokerage:
		return nil, fmt.Errorf("no account %q under %q", name, im.broker.Path())
	case a == nil:
		a = im.book.NewAccount(name, book.Bank, im.currency)
		a.SetCode(im.broker.Code())
		im.broker.AppendChild(a)
	case a.Commodity() != im.currency:
		return nil, resolutionError(ErrCommodityMismatch, ofx.SecurityID{},
			"account %q is in %s, the statement in %s", a.Path(), a.Commodity(), im.currency)
	}
	im.subAccounts[name] = a
	return a, nil
}

// account returns the account at path, held in the statement currency,
// creating it with type typ if allowed.
func (im *Importer) account(path string, typ book.AccountType) (*book.Account, error) {
	a := im.book.Root().LookupPath(path)
	if a == nil {
		if !im.cfg.AutoCreate.IncomeExpense {
			return nil, fmt.Errorf("account %q not found", path)
		}
		var err error
		if a, err = im.book.Root().FindOrCreatePath(path, typ, im.currency); err != nil {
			return nil, resolutionError(ErrCommodityMismatch, ofx.SecurityID{}, "%v", err)
		}
	}
	if a.Commodity() != im.currency {
		return nil, resolutionError(ErrCommodityMismatch, ofx.SecurityID{},
			"account %q is in %s, the statement in %s", path, a.Commodity(), im.currency)
	}
	return a, nil
}

// typeOfPath guesses the type of a configured account from its top level
// name.
func typeOfPath(path string) book.AccountType {
	top, _, _ := strings.Cut(path, ":")
	switch strings.ToLower(top) {
	case "income":
		return book.Income
	case "expenses", "expense":
		return book.Expense
	case "equity":
		return book.Equity
	default:
		return book.Asset
	}
}

// incomeAccount returns the account receiving an income of the type, under
// the tax exempt root if taxExempt.
func (im *Importer) incomeAccount(incomeType string, taxExempt bool, memo string) (*book.Account, error) {
	root := im.cfg.Accounts.IncomeRoot
	if taxExempt {
		root = im.cfg.Accounts.TaxExemptRoot
	}
	t := im.cfg.IncomeTypes
	var name string
	switch strings.ToUpper(incomeType) {
	case "CGLONG":
		name = t.LongTermGains
	case "CGSHORT":
		name = t.ShortTermGains
	case "DIV":
		name = t.Dividend
	case "INTEREST":
		name = t.Interest
	case "MISC":
		name = t.Other
	default:
		im.warn("unknown income type %q, posted as %s", incomeType, t.Other)
		name = t.Other
	}
	if strings.Contains(strings.ToLower(memo), "future") {
		name = t.Futures
	}
	return im.account(root+":"+name, book.Income)
}

func (im *Importer) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	im.log.Warn().Msg(msg)
	im.report.Warnings = append(im.report.Warnings, msg)
}
