package ofxledger

import (
	"testing"

	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/ofx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manual imports st then clears the transaction ids, as if the book had
// been entered by hand.
func manual(t *testing.T, st *ofx.Statement) *book.Book {
	t.Helper()
	b := book.New()
	run(t, b, st, Options{})
	for _, tx := range b.Transactions() {
		tx.SetNotes("")
	}
	return b
}

func TestDuplicateCash(t *testing.T) {
	existing := statement()
	existing.Response.Transactions.Bank = []*ofx.BankTransaction{bank("B1", "2024-01-10", "CASH", "100", "Deposit")}

	for _, tc := range []struct {
		name   string
		day    string
		amount string
		memo   string
		want   bool
	}{
		{"same day", "2024-01-10", "100", "Deposit", true},
		{"same memo 5 days after", "2024-01-15", "100", "Deposit", true},
		{"same memo 5 days before", "2024-01-05", "100", "Deposit", true},
		{"same memo 6 days after", "2024-01-16", "100", "Deposit", false},
		{"other memo 2 days after", "2024-01-12", "100", "Wire", true},
		{"other memo 3 days after", "2024-01-13", "100", "Wire", false},
		{"no memo 2 days before", "2024-01-08", "100", "", true},
		{"other amount", "2024-01-10", "100.01", "Deposit", false},
		{"rounded amount", "2024-01-10", "100.001", "Deposit", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := manual(t, existing)
			st := statement()
			st.Response.Transactions.Bank = []*ofx.BankTransaction{bank("B2", tc.day, "CASH", tc.amount, tc.memo)}
			r := run(t, b, st, Options{})
			if tc.want {
				assert.Equal(t, 1, r.Duplicates)
				assert.Equal(t, 0, r.Posted)
			} else {
				assert.Equal(t, 0, r.Duplicates)
				assert.Equal(t, 1, r.Posted)
			}
		})
	}
}

func TestDuplicateByID(t *testing.T) {
	existing := statement()
	existing.Response.Transactions.Bank = []*ofx.BankTransaction{bank("B1", "2024-01-10", "CASH", "100", "Deposit")}
	b := book.New()
	run(t, b, existing, Options{})

	// corrected amount, same id
	st := statement()
	st.Response.Transactions.Bank = []*ofx.BankTransaction{bank("B1", "2024-01-14", "CASH", "110", "Deposit corrected")}
	r := run(t, b, st, Options{})
	assert.Equal(t, 1, r.Duplicates)

	// same everything, other id
	st = statement()
	st.Response.Transactions.Bank = []*ofx.BankTransaction{bank("B2", "2024-01-10", "CASH", "100", "Deposit")}
	r = run(t, b, st, Options{})
	assert.Equal(t, 0, r.Duplicates)
	assert.Equal(t, 1, r.Posted)
	assert.Equal(t, "200", balance(t, b, brokerPath+":Cash"))
}

func TestDuplicateTrade(t *testing.T) {
	existing := statement(stock("1", "ACME"))
	existing.Response.Transactions.Investment = []ofx.Transaction{buyStock("T1", "2024-01-10", cusip("1"), "10", "10.004")}

	for _, tc := range []struct {
		name  string
		day   string
		units string
		price string
		want  bool
	}{
		{"same price", "2024-01-10", "10", "10.004", true},
		{"price rounded to the cent", "2024-01-11", "10", "10", true},
		{"other price", "2024-01-10", "10", "10.01", false},
		{"other units", "2024-01-10", "11", "10.004", false},
		{"too late", "2024-01-16", "10", "10.004", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := manual(t, existing)
			st := statement(stock("1", "ACME"))
			buy := buyStock("T2", tc.day, cusip("1"), tc.units, tc.price)
			buy.Memo = "Purchase"
			st.Response.Transactions.Investment = []ofx.Transaction{buy}
			r := run(t, b, st, Options{})
			if tc.want {
				assert.Equal(t, 1, r.Duplicates)
			} else {
				assert.Equal(t, 0, r.Duplicates)
				require.Equal(t, 1, r.Posted)
			}
		})
	}
}
