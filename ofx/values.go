package ofx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind decodes a matched node into a value.
type Kind interface {
	decode(d *Decoder, n *Node) (any, error)
	String() string
}

type primitive struct {
	name  string
	parse func(string) (any, error)
}

func (k primitive) decode(_ *Decoder, n *Node) (any, error) { return k.parse(n.Text) }
func (k primitive) String() string                          { return k.name }

// Primitive kinds, parsing the node text.
var (
	Str       Kind = primitive{"string", func(s string) (any, error) { return s, nil }}
	Int       Kind = primitive{"integer", func(s string) (any, error) { return ParseInt(s) }}
	Dec       Kind = primitive{"decimal", func(s string) (any, error) { return ParseDecimal(s) }}
	Bool      Kind = primitive{"boolean", func(s string) (any, error) { return ParseBool(s), nil }}
	Timestamp Kind = primitive{"timestamp", func(s string) (any, error) { return ParseTimestamp(s) }}
)

// ParseInt parses a base 10 integer.
func ParseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "+"), 10, 64)
}

// ParseDecimal parses an exact decimal number, keeping its scale. A comma is
// accepted as the decimal separator when there is no dot.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// ParseBool is true for any text starting with Y or y.
func ParseBool(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) > 0 && (s[0] == 'Y' || s[0] == 'y')
}

// ParseTimestamp parses a YYYYMMDD[HHMM[SS]] token. Anything after the
// seconds (fraction, [offset:TZ]) is ignored, time is returned as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	raw := s
	if i := strings.IndexAny(s, ".["); i >= 0 {
		s = s[:i]
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: not a number", raw)
		}
	}
	if len(s) != 8 && len(s) != 12 && len(s) != 14 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: want 8, 12 or 14 digits got %d", raw, len(s))
	}
	// fields are 4,2,2 then 2,2,2, absent ones default to zero
	var f [6]int
	widths := [6]int{4, 2, 2, 2, 2, 2}
	pos := 0
	for i, w := range widths {
		if pos+w > len(s) {
			break
		}
		f[i], _ = strconv.Atoi(s[pos : pos+w])
		pos += w
	}
	year, month, day, hour, min, sec := f[0], f[1], f[2], f[3], f[4], f[5]
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || min > 59 || sec > 60 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: out of range", raw)
	}
	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: no such day", raw)
	}
	return t, nil
}
