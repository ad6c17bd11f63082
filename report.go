package ofxledger

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/date"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// Report is the outcome of an import run.
type Report struct {
	Org     string
	Account string

	Posted     int // transactions posted, gains excluded
	Duplicates int // transactions skipped as already posted
	Matched    int // cash transactions posted with their pair
	Renamed    int // transfer pairs detected as renames
	Adjusted   int // position adjustments
	Dropped    int // records of unknown or unsupported kinds

	PricesAdded   int
	PricesUpdated int

	// Mismatch is set when a position differs from the book and was not
	// adjusted.
	Mismatch bool
	Warnings []string

	Entries []Entry
	Gains   []RealizedGain
}

// Entry is a posted transaction.
type Entry struct {
	Day         date.Date
	Kind        string
	FITID       string
	Description string
	Amount      Money // largest split value
}

// RealizedGain is a gain filed by an import.
type RealizedGain struct {
	Day      date.Date
	FITID    string
	Account  string
	Amount   Money
	LongTerm bool
}

func (r *Report) post(kind string, tx *book.Transaction) {
	r.Posted++
	largest := decimal.Zero
	for _, s := range tx.Splits() {
		if s.Value().Abs().GreaterThan(largest) {
			largest = s.Value().Abs()
		}
	}
	r.Entries = append(r.Entries, Entry{
		Day:         tx.Posted(),
		Kind:        kind,
		FITID:       tx.Notes(),
		Description: tx.Description(),
		Amount:      NewMoney(largest, tx.Currency().Mnemonic()),
	})
}

func (r *Report) gain(tx *book.Transaction, account *book.Account, amount decimal.Decimal, long bool) {
	r.Gains = append(r.Gains, RealizedGain{
		Day:      tx.Posted(),
		FITID:    tx.Notes(),
		Account:  account.Path(),
		Amount:   NewMoney(amount, tx.Currency().Mnemonic()),
		LongTerm: long,
	})
}

// Money is an amount in a currency, displayed with its symbol.
type Money struct {
	Value    decimal.Decimal
	Currency string
}

// NewMoney returns the amount in currency, an ISO code.
func NewMoney(v decimal.Decimal, currency string) Money { return Money{Value: v, Currency: currency} }

func (m Money) String() string {
	cur := money.GetCurrency(m.Currency)
	if cur == nil {
		return m.Value.String() + " " + m.Currency
	}
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(m.Value.Mul(factor).Round(0).IntPart(), cur.Code).Display()
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1f("Import of %s %s", r.Org, r.Account)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Posted", "Duplicates", "Matched", "Renamed", "Adjusted", "Dropped", "Prices"},
		Rows: [][]string{{
			strconv.Itoa(r.Posted),
			strconv.Itoa(r.Duplicates),
			strconv.Itoa(r.Matched),
			strconv.Itoa(r.Renamed),
			strconv.Itoa(r.Adjusted),
			strconv.Itoa(r.Dropped),
			strconv.Itoa(r.PricesAdded + r.PricesUpdated),
		}},
	})
	doc.LF()

	if len(r.Entries) > 0 {
		doc.H2("Transactions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Day", "Kind", "Id", "Description", "Amount"},
			Rows:      [][]string{},
		}
		for _, e := range r.Entries {
			table.Rows = append(table.Rows, []string{e.Day.String(), e.Kind, cell(e.FITID), cell(e.Description), e.Amount.String()})
		}
		doc.Table(table)
		doc.LF()
	}

	if len(r.Gains) > 0 {
		doc.H2("Realized Gains")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Day", "Id", "Account", "Term", "Gain"},
			Rows:      [][]string{},
		}
		for _, g := range r.Gains {
			term := "short"
			if g.LongTerm {
				term = "long"
			}
			table.Rows = append(table.Rows, []string{g.Day.String(), cell(g.FITID), cell(g.Account), term, g.Amount.String()})
		}
		doc.Table(table)
		doc.LF()
	}

	if len(r.Warnings) > 0 {
		doc.H2("Warnings")
		doc.BulletList(r.Warnings...)
		doc.LF()
		if r.Mismatch {
			doc.PlainTextf("Positions may differ for a few days after a trade, until it settles. "+
				"If they were acquired before the first import, import again with %s to record them.", md.Code("-b"))
		}
	}
	return doc.String()
}

// cell escapes a table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// Render writes the report to a terminal.
func (r *Report) Render(w io.Writer) error {
	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return err
	}
	out, err := tr.Render(r.Markdown())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
