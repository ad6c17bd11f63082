package book

// Snapshot is the content of a book at one point in time.
type Snapshot struct {
	recs []record
}

// Snapshot captures the current content of the book.
func (b *Book) Snapshot() (*Snapshot, error) {
	recs, err := b.records()
	if err != nil {
		return nil, err
	}
	return &Snapshot{recs: recs}, nil
}

// Restore brings the book back to the content captured by s. Accounts,
// commodities and transactions obtained before Restore are detached from the
// book and must be looked up again.
func (b *Book) Restore(s *Snapshot) error {
	c, err := decodeRecords(s.recs)
	if err != nil {
		return err
	}
	b.root, b.commodities, b.prices, b.transactions, b.seq = c.root, c.commodities, c.prices, c.transactions, c.seq
	b.root.Walk(func(a *Account) { a.book = b })
	for _, t := range b.transactions {
		t.book = b
	}
	return nil
}
