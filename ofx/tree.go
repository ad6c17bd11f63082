package ofx

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Node is an element of a tagged document tree. Tag names are lowercased.
//
// Leaf elements carry their text in Text and have no children, aggregates
// have children and no text.
type Node struct {
	Name     string
	Text     string
	Attrs    map[string]string
	Children []*Node
	Parent   *Node
}

// empty is the sentinel returned by optional path steps that found nothing:
// every lookup under it finds nothing.
var empty = &Node{Name: "#empty"}

// ByName matches nodes with the given (lowercase) tag name.
func ByName(name string) func(*Node) bool {
	return func(n *Node) bool { return n.Name == name }
}

// Any matches every node.
func Any(*Node) bool { return true }

// Find returns the first node matching. When recursive is false only the
// direct children are searched, otherwise the whole subtree in document order.
func (n *Node) Find(match func(*Node) bool, recursive bool) *Node {
	for _, c := range n.Children {
		if match(c) {
			return c
		}
		if recursive {
			if f := c.Find(match, true); f != nil {
				return f
			}
		}
	}
	return nil
}

// FindAll returns all the nodes matching in document order. When recursive is
// false only the direct children are searched.
func (n *Node) FindAll(match func(*Node) bool, recursive bool) []*Node {
	var res []*Node
	for _, c := range n.Children {
		if match(c) {
			res = append(res, c)
		}
		if recursive {
			res = append(res, c.FindAll(match, true)...)
		}
	}
	return res
}

// Path returns the slash separated tag names from the document root to n.
func (n *Node) Path() string {
	var parts []string
	for x := n; x != nil && x.Parent != nil; x = x.Parent {
		parts = append(parts, x.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// String renders the subtree in an indented, upper-case tag form.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	tag := strings.ToUpper(n.Name)
	if len(n.Children) == 0 {
		fmt.Fprintf(b, "%s<%s>%s\n", indent, tag, n.Text)
		return
	}
	fmt.Fprintf(b, "%s<%s>\n", indent, tag)
	for _, c := range n.Children {
		c.write(b, depth+1)
	}
	fmt.Fprintf(b, "%s</%s>\n", indent, tag)
}

// Parse reads a tagged document into a tree.
//
// Closing tags are optional: an element immediately followed by text is a
// leaf and ends at the next tag, an element without text is an aggregate and
// ends at its matching closing tag. An element without text that is still open
// when an enclosing element closes is an empty leaf. Unmatched closing tags
// are ignored, and so is any text outside of the elements (like an SGML
// header).
//
// The returned node is the document root, its Name is "#document".
func Parse(r io.Reader) (*Node, error) {
	root := &Node{Name: "#document"}
	stack := []*Node{root}
	top := func() *Node { return stack[len(stack)-1] }
	// a leaf cannot contain anything else, it is closed by whatever comes next.
	closeLeaf := func() {
		if t := top(); t != root && t.Text != "" {
			stack = stack[:len(stack)-1]
		}
	}

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("cannot tokenize document: %w", err)
			}
			return root, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			closeLeaf()
			name, hasAttr := z.TagName()
			n := &Node{Name: string(name), Parent: top()}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				if n.Attrs == nil {
					n.Attrs = make(map[string]string)
				}
				n.Attrs[string(k)] = string(v)
			}
			n.Parent.Children = append(n.Parent.Children, n)
			if tt != html.SelfClosingTagToken {
				stack = append(stack, n)
			}

		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if t := top(); t != root && len(t.Children) == 0 {
				if t.Text != "" {
					t.Text += " "
				}
				t.Text += text
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Name == string(name) {
					// elements left open inside were empty leaves
					for j := len(stack) - 1; j > i; j-- {
						flatten(stack[j])
					}
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// flatten turns n into a leaf, its children become its next siblings.
func flatten(n *Node) {
	if len(n.Children) == 0 {
		return
	}
	p := n.Parent
	at := len(p.Children)
	for k, c := range p.Children {
		if c == n {
			at = k + 1
			break
		}
	}
	siblings := make([]*Node, 0, len(p.Children)+len(n.Children))
	siblings = append(siblings, p.Children[:at]...)
	for _, c := range n.Children {
		c.Parent = p
		siblings = append(siblings, c)
	}
	siblings = append(siblings, p.Children[at:]...)
	p.Children = siblings
	n.Children = nil
}
