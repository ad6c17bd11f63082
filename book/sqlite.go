package book

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS records (
	seq  INTEGER PRIMARY KEY,
	kind TEXT NOT NULL,
	id   TEXT NOT NULL UNIQUE,
	body TEXT NOT NULL
)`

type sqliteStore struct{ path string }

func (s sqliteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func (s sqliteStore) load() ([]record, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT kind, id, body FROM records ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []record
	for rows.Next() {
		var rec record
		var body string
		if err := rows.Scan(&rec.Kind, &rec.ID, &body); err != nil {
			return nil, err
		}
		rec.Body = []byte(body)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// save replaces all records in a single SQL transaction.
func (s sqliteStore) save(recs []record) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO records (seq, kind, id, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, rec := range recs {
		if _, err := stmt.Exec(i, rec.Kind, rec.ID, string(rec.Body)); err != nil {
			return fmt.Errorf("failed to insert %s %s: %w", rec.Kind, rec.ID, err)
		}
	}
	return tx.Commit()
}
