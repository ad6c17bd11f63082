package ofx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the result of decoding a node with a Schema: field name to
// value, in declaration order. Absent optional fields hold nil, absent
// repeated fields an empty list. A Record is never modified once decoded.
type Record struct {
	schema string
	names  []string
	values map[string]any
}

func (r *Record) set(name string, v any) {
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Schema returns the name of the schema that produced this record.
func (r Record) Schema() string { return r.schema }

// Fields returns the field names in declaration order.
func (r Record) Fields() []string { return append([]string(nil), r.names...) }

// Get returns the raw value of a field, nil when absent.
func (r Record) Get(name string) any { return r.values[name] }

// IsNull reports whether a field is absent.
func (r Record) IsNull(name string) bool { return r.values[name] == nil }

// Value returns the field value converted to T, or T's zero value when absent.
func Value[T any](r Record, name string) T {
	v, _ := r.values[name].(T)
	return v
}

// ListOf returns a repeated field, keeping only the elements of type T.
func ListOf[T any](r Record, name string) []T {
	raw, _ := r.values[name].([]any)
	res := make([]T, 0, len(raw))
	for _, e := range raw {
		if v, ok := e.(T); ok {
			res = append(res, v)
		}
	}
	return res
}

func (r Record) String(name string) string           { return Value[string](r, name) }
func (r Record) Int(name string) int64               { return Value[int64](r, name) }
func (r Record) Bool(name string) bool               { return Value[bool](r, name) }
func (r Record) Time(name string) time.Time          { return Value[time.Time](r, name) }
func (r Record) Decimal(name string) decimal.Decimal { return Value[decimal.Decimal](r, name) }

// NullDecimal returns an optional decimal field.
func (r Record) NullDecimal(name string) decimal.NullDecimal {
	d, ok := r.values[name].(decimal.Decimal)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// MarshalJSON writes the fields in declaration order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			b.WriteByte(',')
		}
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q of %s: %w", name, r.schema, err)
		}
		fmt.Fprintf(&b, "%q:", name)
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
