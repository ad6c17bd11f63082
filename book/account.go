package book

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies accounts.
type AccountType int

const (
	Root AccountType = iota
	Asset
	Bank
	Cash
	Stock
	Mutual
	Income
	Expense
	Equity
)

var accountTypeNames = []string{"ROOT", "ASSET", "BANK", "CASH", "STOCK", "MUTUAL", "INCOME", "EXPENSE", "EQUITY"}

func (t AccountType) String() string {
	if int(t) < len(accountTypeNames) {
		return accountTypeNames[t]
	}
	return fmt.Sprintf("AccountType(%d)", int(t))
}

// ParseAccountType is the inverse of AccountType.String.
func ParseAccountType(s string) (AccountType, error) {
	for i, n := range accountTypeNames {
		if n == s {
			return AccountType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown account type %q", s)
}

// Account is a node of the account tree. Its balance is held in its
// commodity.
type Account struct {
	book        *Book
	guid        uuid.UUID
	name        string
	code        string
	description string
	typ         AccountType
	commodity   *Commodity
	placeholder bool
	parent      *Account
	children    []*Account
	splits      []*Split
}

// NewAccount creates a detached account, see AppendChild.
func (b *Book) NewAccount(name string, typ AccountType, c *Commodity) *Account {
	return &Account{book: b, guid: uuid.New(), name: name, typ: typ, commodity: c}
}

func (a *Account) GUID() uuid.UUID           { return a.guid }
func (a *Account) Name() string              { return a.name }
func (a *Account) SetName(n string)          { a.name = n }
func (a *Account) Code() string              { return a.code }
func (a *Account) SetCode(c string)          { a.code = c }
func (a *Account) Description() string       { return a.description }
func (a *Account) SetDescription(d string)   { a.description = d }
func (a *Account) Type() AccountType         { return a.typ }
func (a *Account) SetType(t AccountType)     { a.typ = t }
func (a *Account) Commodity() *Commodity     { return a.commodity }
func (a *Account) SetCommodity(c *Commodity) { a.commodity = c }
func (a *Account) Placeholder() bool         { return a.placeholder }
func (a *Account) SetPlaceholder(p bool)     { a.placeholder = p }
func (a *Account) Parent() *Account          { return a.parent }
func (a *Account) Children() []*Account      { return a.children }

// AppendChild moves c under a.
func (a *Account) AppendChild(c *Account) {
	if p := c.parent; p != nil {
		for i, x := range p.children {
			if x == c {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	c.parent = a
	a.children = append(a.children, c)
}

// LookupByName returns the direct child named name, or nil.
func (a *Account) LookupByName(name string) *Account {
	for _, c := range a.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// LookupByCode returns the first descendant with that code, direct children
// first, or nil.
func (a *Account) LookupByCode(code string) *Account {
	for _, c := range a.children {
		if c.code == code {
			return c
		}
	}
	for _, c := range a.children {
		if f := c.LookupByCode(code); f != nil {
			return f
		}
	}
	return nil
}

// LookupPath returns the descendant at the colon separated path, or nil.
func (a *Account) LookupPath(path string) *Account {
	cur := a
	for _, name := range strings.Split(path, ":") {
		if cur = cur.LookupByName(name); cur == nil {
			return nil
		}
	}
	return cur
}

// FindOrCreatePath returns the descendant at path, creating the missing
// accounts with type typ and commodity c. It fails if the account exists with
// another commodity.
func (a *Account) FindOrCreatePath(path string, typ AccountType, c *Commodity) (*Account, error) {
	cur := a
	for _, name := range strings.Split(path, ":") {
		next := cur.LookupByName(name)
		if next == nil {
			next = a.book.NewAccount(name, typ, c)
			cur.AppendChild(next)
		}
		cur = next
	}
	if cur.commodity != c {
		return nil, fmt.Errorf("account %q exists in %s, not %s", cur.Path(), cur.commodity, c)
	}
	return cur, nil
}

// Path returns the colon separated names from the root to a, excluding the
// root.
func (a *Account) Path() string {
	if a.parent == nil {
		return ""
	}
	if p := a.parent.Path(); p != "" {
		return p + ":" + a.name
	}
	return a.name
}

func (a *Account) String() string { return a.Path() }

// Balance returns the sum of the split amounts, in the account commodity.
func (a *Account) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range a.splits {
		sum = sum.Add(s.amount)
	}
	return sum
}

// Splits returns the account splits by posted date then entry order.
func (a *Account) Splits() []*Split {
	res := append([]*Split(nil), a.splits...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].before(res[j]) })
	return res
}

// Walk calls f on a and its descendants, parents first.
func (a *Account) Walk(f func(*Account)) {
	f(a)
	for _, c := range a.children {
		c.Walk(f)
	}
}

func (a *Account) removeSplit(s *Split) {
	for i, x := range a.splits {
		if x == s {
			a.splits = append(a.splits[:i], a.splits[i+1:]...)
			return
		}
	}
}
