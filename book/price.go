package book

import (
	"github.com/etnz/ofxledger/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price is the value of one unit of a commodity in a currency on a day.
type Price struct {
	guid      uuid.UUID
	commodity *Commodity
	currency  *Commodity
	day       date.Date
	source    string
	typ       string
	value     decimal.Decimal
}

// NewPrice creates a price, see PriceDB.Add.
func NewPrice(commodity, currency *Commodity, day date.Date, source, typ string, value decimal.Decimal) *Price {
	return &Price{guid: uuid.New(), commodity: commodity, currency: currency, day: day, source: source, typ: typ, value: value}
}

func (p *Price) GUID() uuid.UUID            { return p.guid }
func (p *Price) Commodity() *Commodity      { return p.commodity }
func (p *Price) Currency() *Commodity       { return p.currency }
func (p *Price) Day() date.Date             { return p.day }
func (p *Price) Source() string             { return p.source }
func (p *Price) Type() string               { return p.typ }
func (p *Price) Value() decimal.Decimal     { return p.value }
func (p *Price) SetValue(v decimal.Decimal) { p.value = v }

// PriceDB holds the prices of a book.
type PriceDB struct {
	prices []*Price
}

// All returns every price in insertion order.
func (db *PriceDB) All() []*Price { return db.prices }

// Add inserts a price.
func (db *PriceDB) Add(p *Price) { db.prices = append(db.prices, p) }

// Prices returns the prices of commodity in currency.
func (db *PriceDB) Prices(commodity, currency *Commodity) []*Price {
	var res []*Price
	for _, p := range db.prices {
		if p.commodity == commodity && p.currency == currency {
			res = append(res, p)
		}
	}
	return res
}

// Lookup returns the prices of commodity in currency on day from source.
func (db *PriceDB) Lookup(commodity, currency *Commodity, day date.Date, source string) []*Price {
	var res []*Price
	for _, p := range db.Prices(commodity, currency) {
		if p.day == day && p.source == source {
			res = append(res, p)
		}
	}
	return res
}
