package book

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyNamespace is the namespace of ISO 4217 currencies.
const CurrencyNamespace = "CURRENCY"

// Commodity is something that can be held in an account: a currency or a
// security.
type Commodity struct {
	guid        uuid.UUID
	namespace   string
	mnemonic    string
	fullname    string
	cusip       string
	fraction    int64 // smallest unit is 1/fraction
	quoteFlag   bool
	quoteSource string
}

// NewCommodity creates a commodity, see Commodities.Insert.
func NewCommodity(fullname, namespace, mnemonic, cusip string, fraction int64) *Commodity {
	return &Commodity{
		guid:      uuid.New(),
		namespace: namespace,
		mnemonic:  mnemonic,
		fullname:  fullname,
		cusip:     cusip,
		fraction:  fraction,
	}
}

func (c *Commodity) GUID() uuid.UUID         { return c.guid }
func (c *Commodity) Namespace() string       { return c.namespace }
func (c *Commodity) Mnemonic() string        { return c.mnemonic }
func (c *Commodity) SetMnemonic(m string)    { c.mnemonic = m }
func (c *Commodity) FullName() string        { return c.fullname }
func (c *Commodity) SetFullName(n string)    { c.fullname = n }
func (c *Commodity) CUSIP() string           { return c.cusip }
func (c *Commodity) Fraction() int64         { return c.fraction }
func (c *Commodity) QuoteFlag() bool         { return c.quoteFlag }
func (c *Commodity) SetQuoteFlag(f bool)     { c.quoteFlag = f }
func (c *Commodity) QuoteSource() string     { return c.quoteSource }
func (c *Commodity) SetQuoteSource(s string) { c.quoteSource = s }
func (c *Commodity) IsCurrency() bool        { return c.namespace == CurrencyNamespace }

// UniqueName is "NAMESPACE::MNEMONIC".
func (c *Commodity) UniqueName() string { return c.namespace + "::" + c.mnemonic }

func (c *Commodity) String() string {
	if c == nil {
		return "<no commodity>"
	}
	return c.UniqueName()
}

// Round rounds d to the commodity smallest unit.
func (c *Commodity) Round(d decimal.Decimal) decimal.Decimal {
	if c == nil || c.fraction <= 0 {
		return d
	}
	places := int32(math.Round(math.Log10(float64(c.fraction))))
	return d.Round(places)
}

// Commodities is the commodity table of a book.
type Commodities struct {
	list []*Commodity
}

// All returns every commodity in insertion order.
func (t *Commodities) All() []*Commodity { return t.list }

// Insert adds c to the table. If a commodity with the same namespace,
// mnemonic and CUSIP exists, it is returned instead. Two securities may share
// a ticker while one of them is being renamed.
func (t *Commodities) Insert(c *Commodity) *Commodity {
	for _, x := range t.list {
		if x.namespace == c.namespace && x.mnemonic == c.mnemonic && x.cusip == c.cusip {
			return x
		}
	}
	t.list = append(t.list, c)
	return c
}

// Lookup returns the commodity by namespace and mnemonic, or nil.
func (t *Commodities) Lookup(namespace, mnemonic string) *Commodity {
	for _, c := range t.list {
		if c.namespace == namespace && c.mnemonic == mnemonic {
			return c
		}
	}
	return nil
}

// FindByCUSIP returns the first commodity with that unique identifier, or nil.
func (t *Commodities) FindByCUSIP(cusip string) *Commodity {
	if cusip == "" {
		return nil
	}
	for _, c := range t.list {
		if c.cusip == cusip {
			return c
		}
	}
	return nil
}

// Currency returns the currency commodity of an ISO 4217 code, inserting it
// on first use.
func (t *Commodities) Currency(code string) (*Commodity, error) {
	if c := t.Lookup(CurrencyNamespace, code); c != nil {
		return c, nil
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	fraction := int64(math.Pow10(cur.Fraction))
	c := NewCommodity(code, CurrencyNamespace, cur.Code, "", fraction)
	return t.Insert(c), nil
}
