package ofxledger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/config"
	"github.com/etnz/ofxledger/ofx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const brokerPath = "Assets:Investments:broker.test"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func cusip(id string) ofx.SecurityID { return ofx.SecurityID{UniqueID: id, UniqueIDType: "CUSIP"} }

func stock(id, ticker string) *ofx.StockInfo {
	return &ofx.StockInfo{SecurityInfo: ofx.SecurityInfo{SecID: cusip(id), Name: ticker + " Corp", Ticker: ticker}}
}

func option(id, ticker string, shares int64) *ofx.OptInfo {
	return &ofx.OptInfo{
		SecurityInfo:      ofx.SecurityInfo{SecID: cusip(id), Name: ticker, Ticker: ticker},
		OptType:           "CALL",
		SharesPerContract: shares,
	}
}

// statement returns an empty statement of account 42 at broker.test in USD.
func statement(secs ...ofx.Security) *ofx.Statement {
	return &ofx.Statement{
		SignOn: ofx.SignOn{Org: "broker.test"},
		Response: ofx.InvStatement{
			AsOf:         day("2024-06-30"),
			CurDef:       "USD",
			Account:      ofx.InvAccount{BrokerID: "broker.test", AcctID: "42"},
			Transactions: &ofx.TransactionList{},
		},
		Securities: secs,
	}
}

func invTran(fitid, d, memo string) ofx.InvTran {
	return ofx.InvTran{FITID: fitid, TradeDate: day(d), Memo: memo}
}

func buyStock(fitid, d string, id ofx.SecurityID, units, price string) *ofx.BuyStock {
	return &ofx.BuyStock{Investment: ofx.Investment{
		InvTran:     invTran(fitid, d, "Bought "+units),
		SecID:       id,
		Units:       dec(units),
		UnitPrice:   dec(price),
		SubAcctSec:  "CASH",
		SubAcctFund: "CASH",
	}, BuyType: "BUY"}
}

func sellStock(fitid, d, memo string, id ofx.SecurityID, units, price string) *ofx.SellStock {
	return &ofx.SellStock{Investment: ofx.Investment{
		InvTran:     invTran(fitid, d, memo),
		SecID:       id,
		Units:       dec(units),
		UnitPrice:   dec(price),
		SubAcctSec:  "CASH",
		SubAcctFund: "CASH",
	}, SellType: "SELL"}
}

// bank returns a cash transaction, a CREDIT or a DEBIT by the amount sign.
func bank(fitid, d, fund, amount, memo string) *ofx.BankTransaction {
	typ := "CREDIT"
	if dec(amount).IsNegative() {
		typ = "DEBIT"
	}
	return &ofx.BankTransaction{SubAcctFund: fund, StmtTrn: ofx.StmtTrn{
		Type:   typ,
		Posted: day(d),
		Amount: dec(amount),
		FITID:  fitid,
		Memo:   memo,
	}}
}

func transfer(fitid, d, memo string, id ofx.SecurityID, action, units, price string) *ofx.Transfer {
	return &ofx.Transfer{
		InvTran:    invTran(fitid, d, memo),
		SecID:      id,
		SubAcctSec: "CASH",
		Units:      dec(units),
		TferAction: action,
		PosType:    "LONG",
		UnitPrice:  dec(price),
	}
}

func position(id ofx.SecurityID, units, price, d string) *ofx.PosStock {
	return &ofx.PosStock{InvPos: ofx.InvPos{
		SecID:      id,
		HeldInAcct: "CASH",
		PosType:    "LONG",
		Units:      dec(units),
		UnitPrice:  dec(price),
		PriceAsOf:  day(d),
	}}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	return cfg
}

func run(t *testing.T, b *book.Book, st *ofx.Statement, opts Options) *Report {
	t.Helper()
	r, err := NewImporter(b, st, testConfig(t)).Run(context.Background(), opts)
	require.NoError(t, err)
	return r
}

func runErr(t *testing.T, b *book.Book, st *ofx.Statement) error {
	t.Helper()
	_, err := NewImporter(b, st, testConfig(t)).Run(context.Background(), Options{})
	require.Error(t, err)
	return err
}

func decodeTestdata(t *testing.T) *ofx.Statement {
	t.Helper()
	f, err := os.Open("ofx/testdata/statement.ofx")
	require.NoError(t, err)
	defer f.Close()
	st, err := ofx.Decode(context.Background(), f)
	require.NoError(t, err)
	return st
}

// balance returns the balance of the account at path, failing if absent.
func balance(t *testing.T, b *book.Book, path string) string {
	t.Helper()
	a := b.Root().LookupPath(path)
	require.NotNil(t, a, "no account %q", path)
	return a.Balance().String()
}

func assertBalanced(t *testing.T, b *book.Book) {
	t.Helper()
	for _, tx := range b.Transactions() {
		require.True(t, tx.Imbalance().IsZero(), "transaction %q is off by %s", tx.Description(), tx.Imbalance())
	}
}
