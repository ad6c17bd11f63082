package book

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/ofxledger/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// record is the unit of persistence: one commodity, account, transaction or
// price. Records are stored in dependency order: commodities, accounts
// (parents first), transactions (entry order), prices.
type record struct {
	Kind string          `json:"kind"`
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body"`
}

const (
	kindCommodity   = "commodity"
	kindAccount     = "account"
	kindTransaction = "transaction"
	kindPrice       = "price"
)

var kinds = []string{kindCommodity, kindAccount, kindTransaction, kindPrice}

type jcommodity struct {
	Namespace   string `json:"namespace"`
	Mnemonic    string `json:"mnemonic"`
	FullName    string `json:"fullname,omitempty"`
	CUSIP       string `json:"cusip,omitempty"`
	Fraction    int64  `json:"fraction"`
	QuoteFlag   bool   `json:"quote,omitempty"`
	QuoteSource string `json:"quoteSource,omitempty"`
}

type jaccount struct {
	Parent      string `json:"parent,omitempty"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Commodity   string `json:"commodity,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type jsplit struct {
	ID      string          `json:"id"`
	Account string          `json:"account"`
	Value   decimal.Decimal `json:"value"`
	Amount  decimal.Decimal `json:"amount"`
	Memo    string          `json:"memo,omitempty"`
}

type jtransaction struct {
	Currency    string    `json:"currency"`
	Posted      date.Date `json:"posted"`
	Description string    `json:"description,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Splits      []jsplit  `json:"splits"`
}

type jprice struct {
	Commodity string          `json:"commodity"`
	Currency  string          `json:"currency"`
	Day       date.Date       `json:"day"`
	Source    string          `json:"source,omitempty"`
	Type      string          `json:"type,omitempty"`
	Value     decimal.Decimal `json:"value"`
}

func newRecord(kind string, id uuid.UUID, body any) (record, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return record{}, fmt.Errorf("cannot encode %s %s: %w", kind, id, err)
	}
	return record{Kind: kind, ID: id.String(), Body: raw}, nil
}

// records flattens the book.
func (b *Book) records() ([]record, error) {
	var recs []record
	add := func(kind string, id uuid.UUID, body any) error {
		r, err := newRecord(kind, id, body)
		if err == nil {
			recs = append(recs, r)
		}
		return err
	}

	for _, c := range b.commodities.list {
		if err := add(kindCommodity, c.guid, jcommodity{
			Namespace:   c.namespace,
			Mnemonic:    c.mnemonic,
			FullName:    c.fullname,
			CUSIP:       c.cusip,
			Fraction:    c.fraction,
			QuoteFlag:   c.quoteFlag,
			QuoteSource: c.quoteSource,
		}); err != nil {
			return nil, err
		}
	}

	var err error
	b.root.Walk(func(a *Account) {
		if err != nil {
			return
		}
		j := jaccount{
			Name:        a.name,
			Code:        a.code,
			Description: a.description,
			Type:        a.typ.String(),
			Placeholder: a.placeholder,
		}
		if a.parent != nil {
			j.Parent = a.parent.guid.String()
		}
		if a.commodity != nil {
			j.Commodity = a.commodity.guid.String()
		}
		err = add(kindAccount, a.guid, j)
	})
	if err != nil {
		return nil, err
	}

	for _, t := range b.transactions {
		j := jtransaction{
			Currency:    t.currency.guid.String(),
			Posted:      t.posted,
			Description: t.description,
			Notes:       t.notes,
		}
		for _, s := range t.splits {
			j.Splits = append(j.Splits, jsplit{
				ID:      s.guid.String(),
				Account: s.account.guid.String(),
				Value:   s.value,
				Amount:  s.amount,
				Memo:    s.memo,
			})
		}
		if err := add(kindTransaction, t.guid, j); err != nil {
			return nil, err
		}
	}

	for _, p := range b.prices.prices {
		if err := add(kindPrice, p.guid, jprice{
			Commodity: p.commodity.guid.String(),
			Currency:  p.currency.guid.String(),
			Day:       p.day,
			Source:    p.source,
			Type:      p.typ,
			Value:     p.value,
		}); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// decodeRecords rebuilds a book from records in dependency order.
func decodeRecords(recs []record) (*Book, error) {
	b := &Book{commodities: &Commodities{}, prices: &PriceDB{}}
	commodities := make(map[string]*Commodity)
	accounts := make(map[string]*Account)

	for i, r := range recs {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("record %d: invalid id %q: %w", i, r.ID, err)
		}
		switch r.Kind {
		case kindCommodity:
			var j jcommodity
			if err := json.Unmarshal(r.Body, &j); err != nil {
				return nil, fmt.Errorf("commodity %s: %w", r.ID, err)
			}
			c := NewCommodity(j.FullName, j.Namespace, j.Mnemonic, j.CUSIP, j.Fraction)
			c.guid, c.quoteFlag, c.quoteSource = id, j.QuoteFlag, j.QuoteSource
			b.commodities.list = append(b.commodities.list, c)
			commodities[r.ID] = c

		case kindAccount:
			var j jaccount
			if err := json.Unmarshal(r.Body, &j); err != nil {
				return nil, fmt.Errorf("account %s: %w", r.ID, err)
			}
			typ, err := ParseAccountType(j.Type)
			if err != nil {
				return nil, fmt.Errorf("account %s: %w", r.ID, err)
			}
			a := b.NewAccount(j.Name, typ, nil)
			a.guid, a.code, a.description, a.placeholder = id, j.Code, j.Description, j.Placeholder
			if j.Commodity != "" {
				if a.commodity = commodities[j.Commodity]; a.commodity == nil {
					return nil, fmt.Errorf("account %s: unknown commodity %s", r.ID, j.Commodity)
				}
			}
			if j.Parent == "" {
				if b.root != nil {
					return nil, fmt.Errorf("account %s: second root account", r.ID)
				}
				b.root = a
			} else {
				parent := accounts[j.Parent]
				if parent == nil {
					return nil, fmt.Errorf("account %s: unknown parent %s", r.ID, j.Parent)
				}
				parent.AppendChild(a)
			}
			accounts[r.ID] = a

		case kindTransaction:
			var j jtransaction
			if err := json.Unmarshal(r.Body, &j); err != nil {
				return nil, fmt.Errorf("transaction %s: %w", r.ID, err)
			}
			cur := commodities[j.Currency]
			if cur == nil {
				return nil, fmt.Errorf("transaction %s: unknown currency %s", r.ID, j.Currency)
			}
			t := b.BeginTransaction(cur)
			t.guid, t.posted, t.description, t.notes = id, j.Posted, j.Description, j.Notes
			for _, js := range j.Splits {
				a := accounts[js.Account]
				if a == nil {
					return nil, fmt.Errorf("transaction %s: unknown account %s", r.ID, js.Account)
				}
				s := t.AddSplit(a, js.Value, js.Amount)
				s.memo = js.Memo
				if s.guid, err = uuid.Parse(js.ID); err != nil {
					return nil, fmt.Errorf("transaction %s: invalid split id %q: %w", r.ID, js.ID, err)
				}
			}
			if err := t.Commit(); err != nil {
				return nil, fmt.Errorf("transaction %s: %w", r.ID, err)
			}

		case kindPrice:
			var j jprice
			if err := json.Unmarshal(r.Body, &j); err != nil {
				return nil, fmt.Errorf("price %s: %w", r.ID, err)
			}
			c, cur := commodities[j.Commodity], commodities[j.Currency]
			if c == nil || cur == nil {
				return nil, fmt.Errorf("price %s: unknown commodity", r.ID)
			}
			p := NewPrice(c, cur, j.Day, j.Source, j.Type, j.Value)
			p.guid = id
			b.prices.Add(p)

		default:
			return nil, fmt.Errorf("record %d: unknown kind %q", i, r.Kind)
		}
	}
	if b.root == nil {
		b.root = b.NewAccount("Root Account", Root, nil)
	}
	return b, nil
}
