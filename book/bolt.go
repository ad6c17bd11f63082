package book

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// boltStore keeps one bucket per record kind, keyed by a big endian
// sequence so that cursors return records in their saved order.
type boltStore struct{ path string }

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func (s boltStore) load() ([]record, error) {
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var recs []record
	err = db.View(func(tx *bolt.Tx) error {
		for _, kind := range kinds {
			bucket := tx.Bucket([]byte(kind))
			if bucket == nil {
				continue
			}
			c := bucket.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				var rec record
				if err := rec.unmarshalBolt(kind, v); err != nil {
					return err
				}
				recs = append(recs, rec)
			}
		}
		return nil
	})
	return recs, err
}

func (s boltStore) save(recs []record) error {
	db, err := bolt.Open(s.path, 0o600, nil)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		for _, kind := range kinds {
			if tx.Bucket([]byte(kind)) != nil {
				if err := tx.DeleteBucket([]byte(kind)); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket([]byte(kind)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", kind, err)
			}
		}
		for _, rec := range recs {
			bucket := tx.Bucket([]byte(rec.Kind))
			if bucket == nil {
				return fmt.Errorf("unknown kind %q", rec.Kind)
			}
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			if err := bucket.Put(itob(seq), rec.marshalBolt()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Bolt values are the id, a NUL byte, then the JSON body.
func (r record) marshalBolt() []byte {
	v := make([]byte, 0, len(r.ID)+1+len(r.Body))
	v = append(v, r.ID...)
	v = append(v, 0)
	return append(v, r.Body...)
}

func (r *record) unmarshalBolt(kind string, v []byte) error {
	for i, c := range v {
		if c == 0 {
			r.Kind, r.ID = kind, string(v[:i])
			r.Body = append([]byte(nil), v[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("corrupted %s record", kind)
}
