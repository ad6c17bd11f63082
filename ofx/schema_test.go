package ofx

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/etnz/ofxledger/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns a valid text for a primitive kind.
func sample(k Kind) string {
	switch k.String() {
	case "integer":
		return "100"
	case "decimal":
		return "12.50"
	case "boolean":
		return "Y"
	case "timestamp":
		return "20240315"
	}
	return "text"
}

// minimal builds a node holding only the required fields of s.
func minimal(tag string, s *Schema) *Node {
	n := &Node{Name: tag}
	cur := n
	for _, step := range s.Steps {
		switch st := step.(type) {
		case Path:
			if st.Optional {
				continue
			}
			c := &Node{Name: st.Tag, Parent: cur}
			cur.Children = append(cur.Children, c)
			cur = c
		case Field:
			if !st.Required {
				continue
			}
			var c *Node
			if k, ok := st.Kind.(nested); ok {
				c = minimal(st.tag(), k.s)
			} else {
				c = &Node{Name: st.tag(), Text: sample(st.Kind)}
			}
			c.Parent = cur
			cur.Children = append(cur.Children, c)
		}
	}
	return n
}

// variants returns every schema reachable by tag dispatch, sorted by tag.
func variants() (tags []string, schemas map[string]*Schema) {
	schemas = make(map[string]*Schema)
	for _, sel := range []*Selector{transactionSelector, securitySelector, positionSelector} {
		for tag, s := range sel.Variants {
			schemas[tag] = s
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, schemas
}

func TestVariantsRequiredOnly(t *testing.T) {
	d := NewDecoder(zerolog.Nop())
	tags, schemas := variants()
	require.Len(t, tags, 24)
	for _, tag := range tags {
		s := schemas[tag]
		t.Run(tag, func(t *testing.T) {
			rec, err := d.Decode(s, minimal(tag, s))
			require.NoError(t, err)
			for _, step := range s.Steps {
				f, ok := step.(Field)
				if !ok || f.Required {
					continue
				}
				if f.List {
					assert.Empty(t, rec.Get(f.Name), "repeated field %s", f.Name)
				} else {
					assert.True(t, rec.IsNull(f.Name), "optional field %s", f.Name)
				}
			}
			v, err := d.Build(s, minimal(tag, s))
			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}
}

func TestVariantsMissingRequired(t *testing.T) {
	d := NewDecoder(zerolog.Nop())
	tags, schemas := variants()
	for _, tag := range tags {
		s := schemas[tag]
		for _, step := range s.Steps {
			f, ok := step.(Field)
			if !ok || !f.Required {
				continue
			}
			n := minimal(tag, s)
			kept := n.Children[:0]
			for _, c := range n.Children {
				if c.Name != f.tag() {
					kept = append(kept, c)
				}
			}
			n.Children = kept

			_, err := d.Decode(s, n)
			var derr *DecodeError
			require.True(t, errors.As(err, &derr), "%s without %s: got %v", tag, f.Name, err)
			assert.Equal(t, MissingRequiredField, derr.Kind)
			assert.Equal(t, f.tag(), derr.Field)
		}
	}
}

func TestVariantsAmbiguous(t *testing.T) {
	d := NewDecoder(zerolog.Nop())
	tags, schemas := variants()
	for _, tag := range tags {
		s := schemas[tag]
		for _, step := range s.Steps {
			f, ok := step.(Field)
			if !ok || f.List {
				continue
			}
			n := minimal(tag, s)
			// two more for optional fields, a second one for required ones
			n.Children = append(n.Children,
				&Node{Name: f.tag(), Text: "1", Parent: n},
				&Node{Name: f.tag(), Text: "2", Parent: n})

			_, err := d.Decode(s, n)
			var derr *DecodeError
			require.True(t, errors.As(err, &derr), "%s with two %s: got %v", tag, f.Name, err)
			assert.Equal(t, AmbiguousField, derr.Kind)
		}
	}
}

func TestMalformedValue(t *testing.T) {
	d := NewDecoder(zerolog.Nop())
	n := minimal("invtran", invTranSchema)
	n.Find(ByName("dttrade"), false).Text = "2024-03-15"

	_, err := d.Decode(invTranSchema, n)
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, MalformedValue, derr.Kind)
	assert.Equal(t, "dttrade", derr.Field)
	assert.Contains(t, err.Error(), "<DTTRADE>2024-03-15")
}

func TestOptionalPath(t *testing.T) {
	d := NewDecoder(zerolog.Nop())
	s := NewSchema("T", nil,
		Within("missing").Maybe(),
		Repeated("Items", Str, "item"),
		Optional("Item", Str, "item"),
	)
	root, err := Parse(strings.NewReader("<T><ITEM>a<ITEM>b</T>"))
	require.NoError(t, err)

	v, err := d.Build(s, root.Children[0])
	require.NoError(t, err)
	rec := v.(Record)
	assert.Empty(t, ListOf[string](rec, "Items"), "lookups under a missing optional path find nothing")
	assert.True(t, rec.IsNull("Item"))

	s = NewSchema("T", nil, Under("missing"))
	_, err = d.Decode(s, root.Children[0])
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, MissingRequiredField, derr.Kind)
}

func TestUnknownSubtype(t *testing.T) {
	buf := &bytes.Buffer{}
	d := NewDecoder(logger.NewWithWriter(buf))
	root, err := Parse(strings.NewReader(`<INVTRANLIST>
<DTSTART>20240101
<DTEND>20240131
<CLOSUREOPT><INVTRAN><FITID>1<DTTRADE>20240102</INVTRAN></CLOSUREOPT>
<INVBANKTRAN><STMTTRN><TRNTYPE>CREDIT<DTPOSTED>20240103<TRNAMT>10<FITID>2</STMTTRN><SUBACCTFUND>CASH</INVBANKTRAN>
</INVTRANLIST>`))
	require.NoError(t, err)

	v, err := d.Build(transactionListSchema, root.Children[0])
	require.NoError(t, err)
	list := v.(*TransactionList)
	assert.Empty(t, list.Investment)
	require.Len(t, list.Bank, 1)
	assert.Equal(t, "2", list.Bank[0].FITID)
	assert.Contains(t, buf.String(), "unknown subtype")
	assert.Contains(t, buf.String(), "closureopt")
	assert.NotContains(t, buf.String(), "invbanktran", "known tags are skipped silently")
}

func TestRecordJSON(t *testing.T) {
	d := NewDecoder(zerolog.Nop())
	root, err := Parse(strings.NewReader("<SECID><UNIQUEIDTYPE>CUSIP<UNIQUEID>123</SECID>"))
	require.NoError(t, err)
	rec, err := d.Decode(secIDSchema, root.Children[0])
	require.NoError(t, err)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"UniqueID":"123","UniqueIDType":"CUSIP"}`, string(b), "declaration order")
	assert.Equal(t, "SECID", rec.Schema())
}
