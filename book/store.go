package book

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// store persists the records of a book.
type store interface {
	load() ([]record, error)
	save(recs []record) error
}

// storeFor picks the storage from the file extension: ".db" or ".sqlite" for
// SQLite, ".bolt" for bbolt, JSONL otherwise.
func storeFor(path string) store {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return sqliteStore{path}
	case ".bolt", ".bbolt":
		return boltStore{path}
	default:
		return jsonlStore{path}
	}
}

// Open reads the book stored at path. It fails with an error wrapping
// fs.ErrNotExist if there is no such file.
func Open(path string) (*Book, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	recs, err := storeFor(path).load()
	if err != nil {
		return nil, fmt.Errorf("cannot read book %q: %w", path, err)
	}
	b, err := decodeRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("invalid book %q: %w", path, err)
	}
	return b, nil
}

// Save writes the whole book to path, replacing its previous content.
func (b *Book) Save(path string) error {
	recs, err := b.records()
	if err != nil {
		return err
	}
	if err := storeFor(path).save(recs); err != nil {
		return fmt.Errorf("cannot write book %q: %w", path, err)
	}
	return nil
}

// Decode reads a book from a stream of JSON lines.
func Decode(r io.Reader) (*Book, error) {
	recs, err := decodeLines(r)
	if err != nil {
		return nil, err
	}
	return decodeRecords(recs)
}

// Encode writes the book as JSON lines, one record per line.
func (b *Book) Encode(w io.Writer) error {
	recs, err := b.records()
	if err != nil {
		return err
	}
	return encodeLines(w, recs)
}

func decodeLines(r io.Reader) ([]record, error) {
	var recs []record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("could not decode line %q: %w", string(line), err)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return recs, nil
}

func encodeLines(w io.Writer, recs []record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s: %w", rec.Kind, rec.ID, err)
		}
		if _, err := bw.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write %s %s: %w", rec.Kind, rec.ID, err)
		}
	}
	return bw.Flush()
}

type jsonlStore struct{ path string }

func (s jsonlStore) load() ([]record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeLines(f)
}

// save writes a sibling temporary file and renames it over the target.
func (s jsonlStore) save(recs []record) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := encodeLines(tmp, recs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
