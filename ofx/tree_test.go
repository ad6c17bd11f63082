package ofx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `OFXHEADER:100
DATA:OFXSGML

<OFX>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<LIST>
<ITEM>one</ITEM>
<ITEM>two &amp; three
<EMPTY/>
</LIST>
</UNMATCHED>
<TAIL>end
</OFX>`
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "#document", root.Name)
	require.Len(t, root.Children, 1)

	ofx := root.Children[0]
	assert.Equal(t, "ofx", ofx.Name)
	var names []string
	for _, c := range ofx.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"status", "list", "tail"}, names)

	status := ofx.Find(ByName("status"), false)
	require.NotNil(t, status)
	assert.Equal(t, "0", status.Find(ByName("code"), false).Text)
	assert.Equal(t, "INFO", status.Find(ByName("severity"), false).Text)

	items := ofx.FindAll(ByName("item"), true)
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Text)
	assert.Equal(t, "two & three", items[1].Text)
	assert.Equal(t, "/ofx/list/item", items[1].Path())

	assert.NotNil(t, ofx.Find(ByName("empty"), true))
	assert.Equal(t, "end", ofx.Find(ByName("tail"), false).Text)
}

func TestParseEmptyLeaf(t *testing.T) {
	tests := []struct {
		name, doc string
		want      []string
	}{
		{"between leaves", "<STMTTRN><TRNTYPE>DEBIT<NAME><MEMO>hello<FITID>1</STMTTRN>", []string{"trntype", "name", "memo", "fitid"}},
		{"last", "<STMTTRN><FITID>1<MEMO></STMTTRN>", []string{"fitid", "memo"}},
		{"several", "<STMTTRN><NAME><MEMO><FITID>1</STMTTRN>", []string{"name", "memo", "fitid"}},
		{"before an aggregate", "<STMTTRN><MEMO><CURRENCY><CURRATE>1<CURSYM>EUR</CURRENCY><FITID>1</STMTTRN>", []string{"memo", "currency", "fitid"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root, err := Parse(strings.NewReader("<OFX>" + test.doc + "</OFX>"))
			require.NoError(t, err)
			trn := root.Find(ByName("stmttrn"), true)
			require.NotNil(t, trn)
			var names []string
			for _, c := range trn.Children {
				names = append(names, c.Name)
				assert.Same(t, trn, c.Parent)
			}
			assert.Equal(t, test.want, names)
			fitid := trn.Find(ByName("fitid"), false)
			require.NotNil(t, fitid)
			assert.Equal(t, "1", fitid.Text)
			for _, n := range []string{"name", "memo"} {
				if e := trn.Find(ByName(n), false); e != nil {
					assert.Empty(t, e.Children)
				}
			}
		})
	}
}

func TestFindFlatAndRecursive(t *testing.T) {
	root, err := Parse(strings.NewReader("<A><B><C>1</B><C>2</A>"))
	require.NoError(t, err)
	a := root.Children[0]

	assert.Len(t, a.FindAll(ByName("c"), false), 1)
	all := a.FindAll(ByName("c"), true)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].Text, "document order")
	assert.Equal(t, "2", a.Find(ByName("c"), false).Text)
	assert.Equal(t, "1", a.Find(ByName("c"), true).Text)
	assert.Nil(t, empty.Find(Any, true))
	assert.Empty(t, empty.FindAll(Any, true))
}

func TestNodeString(t *testing.T) {
	root, err := Parse(strings.NewReader("<A><B>1<C>2</A>"))
	require.NoError(t, err)
	want := "<A>\n  <B>1\n  <C>2\n</A>\n"
	assert.Equal(t, want, root.Children[0].String())
}
