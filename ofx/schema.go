package ofx

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// AnyTag is the tag of a field matching every child node, regardless of its
// name. It is used with Dispatch kinds to collect heterogeneous lists.
const AnyTag = "*"

// Step is one entry of a Schema: either a Field or a Path.
type Step interface {
	apply(d *Decoder, s *Schema, cur *Node, rec *Record) (*Node, error)
}

// Field describes one decoded value of a record.
type Field struct {
	Name      string // name of the value in the Record
	Kind      Kind   // how to decode each matched node
	Required  bool
	Tag       string // tag to look for, defaults to the lowercased Name
	List      bool   // repeated field, decoded in document order
	Recursive bool   // search the whole subtree instead of the direct children
}

// Path re-roots the search of the following steps at a child node.
type Path struct {
	Tag       string
	Recursive bool
	Optional  bool
}

// Schema is the declarative description of a record type.
type Schema struct {
	Name  string
	Steps []Step
	// Build turns the decoded record into its domain value. Nil means the
	// Record itself is the value.
	Build func(Record) any
}

// NewSchema declares a record type.
func NewSchema(name string, build func(Record) any, steps ...Step) *Schema {
	return &Schema{Name: name, Steps: steps, Build: build}
}

// Required declares a mandatory field.
func Required(name string, k Kind, tag string) Field {
	return Field{Name: name, Kind: k, Required: true, Tag: tag}
}

// Optional declares a field that decodes to null when absent.
func Optional(name string, k Kind, tag string) Field {
	return Field{Name: name, Kind: k, Tag: tag}
}

// Repeated declares an optional list field.
func Repeated(name string, k Kind, tag string) Field {
	return Field{Name: name, Kind: k, Tag: tag, List: true}
}

// Deep returns a copy of f searching the whole subtree.
func (f Field) Deep() Field { f.Recursive = true; return f }

// Under re-roots the search at a direct child.
func Under(tag string) Path { return Path{Tag: tag} }

// Within re-roots the search at a descendant.
func Within(tag string) Path { return Path{Tag: tag, Recursive: true} }

// Maybe returns a copy of p that does not fail when the tag is missing.
func (p Path) Maybe() Path { p.Optional = true; return p }

func (f Field) tag() string {
	if f.Tag == "" {
		return strings.ToLower(f.Name)
	}
	return f.Tag
}

func (f Field) apply(d *Decoder, s *Schema, cur *Node, rec *Record) (*Node, error) {
	tag := f.tag()
	match := ByName(tag)
	if tag == AnyTag {
		match = Any
	}
	elems := cur.FindAll(match, f.Recursive)

	switch {
	case len(elems) == 0 && f.Required:
		return cur, &DecodeError{Kind: MissingRequiredField, Schema: s.Name, Field: tag, Context: cur}
	case len(elems) == 0 && f.List:
		rec.set(f.Name, []any{})
		return cur, nil
	case len(elems) == 0:
		rec.set(f.Name, nil)
		return cur, nil
	case len(elems) > 1 && !f.List:
		return cur, &DecodeError{Kind: AmbiguousField, Schema: s.Name, Field: tag, Context: cur}
	}

	if !f.List {
		v, err := f.Kind.decode(d, elems[0])
		if err != nil {
			return cur, wrapValueError(err, s, tag, elems[0])
		}
		rec.set(f.Name, v)
		return cur, nil
	}

	list := make([]any, 0, len(elems))
	for _, e := range elems {
		v, err := f.Kind.decode(d, e)
		if err != nil {
			return cur, wrapValueError(err, s, tag, e)
		}
		if v != nil { // dropped variants
			list = append(list, v)
		}
	}
	rec.set(f.Name, list)
	return cur, nil
}

func (p Path) apply(d *Decoder, s *Schema, cur *Node, rec *Record) (*Node, error) {
	if n := cur.Find(ByName(p.Tag), p.Recursive); n != nil {
		return n, nil
	}
	if p.Optional {
		return empty, nil
	}
	return cur, &DecodeError{Kind: MissingRequiredField, Schema: s.Name, Field: p.Tag, Context: cur}
}

// Decoder evaluates schemas against tagged trees.
type Decoder struct {
	log     zerolog.Logger
	dropped []string
}

// NewDecoder returns a decoder logging dropped variants to log.
func NewDecoder(log zerolog.Logger) *Decoder { return &Decoder{log: log} }

// Dropped returns the paths of the nodes of unknown subtypes seen so far.
func (d *Decoder) Dropped() []string { return d.dropped }

// Decode evaluates the schema steps in order against n.
func (d *Decoder) Decode(s *Schema, n *Node) (Record, error) {
	rec := Record{schema: s.Name, values: make(map[string]any, len(s.Steps))}
	cur := n
	for _, step := range s.Steps {
		var err error
		if cur, err = step.apply(d, s, cur, &rec); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// Build decodes n and returns the domain value of the schema.
func (d *Decoder) Build(s *Schema, n *Node) (any, error) {
	rec, err := d.Decode(s, n)
	if err != nil {
		return nil, err
	}
	if s.Build == nil {
		return rec, nil
	}
	return s.Build(rec), nil
}

// Selector picks the schema of a variant by its tag name.
type Selector struct {
	Name     string
	Variants map[string]*Schema
	Ignore   []string // known tags that are silently skipped
}

// Select returns the schema for the tag, and whether it is known at all.
func (sel *Selector) Select(tag string) (s *Schema, known bool) {
	if s, ok := sel.Variants[tag]; ok {
		return s, true
	}
	for _, t := range sel.Ignore {
		if t == tag {
			return nil, true
		}
	}
	return nil, false
}

func (sel *Selector) decode(d *Decoder, n *Node) (any, error) {
	s, known := sel.Select(n.Name)
	if s == nil {
		if !known {
			d.dropped = append(d.dropped, n.Path())
			d.log.Warn().Str("selector", sel.Name).Str("tag", n.Name).Str("path", n.Path()).Msg("unknown subtype, dropped")
		}
		return nil, nil
	}
	return d.Build(s, n)
}

func (sel *Selector) String() string { return sel.Name }

// Dispatch returns the kind selecting the variant schema by tag name.
// Unknown tags decode to nil and are logged.
func Dispatch(sel *Selector) Kind { return sel }

type nested struct{ s *Schema }

func (k nested) decode(d *Decoder, n *Node) (any, error) { return d.Build(k.s, n) }
func (k nested) String() string                          { return k.s.Name }

// Nested returns the kind decoding a node with another schema.
func Nested(s *Schema) Kind { return nested{s} }

// wrapValueError gives context to primitive parse errors, nested decode
// errors already have theirs.
func wrapValueError(err error, s *Schema, tag string, n *Node) error {
	if _, ok := err.(*DecodeError); ok {
		return err
	}
	return &DecodeError{Kind: MalformedValue, Schema: s.Name, Field: tag, Context: n, Err: err}
}

// DecodeErrorKind classifies decode failures.
type DecodeErrorKind int

const (
	MissingRequiredField DecodeErrorKind = iota
	AmbiguousField
	MalformedValue
)

func (k DecodeErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "missing required field"
	case AmbiguousField:
		return "more than one element for field"
	case MalformedValue:
		return "malformed value"
	default:
		return "unknown"
	}
}

// DecodeError reports a document that does not follow a schema.
type DecodeError struct {
	Kind    DecodeErrorKind
	Schema  string
	Field   string
	Context *Node
	Err     error
}

// maxContextLines bounds the document excerpt printed in errors.
const maxContextLines = 30

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q while decoding %s", e.Kind, e.Field, e.Schema)
	if e.Context != nil && e.Context != empty {
		fmt.Fprintf(&b, " at %s", e.Context.Path())
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Context != nil && e.Context != empty {
		lines := strings.Split(strings.TrimRight(e.Context.String(), "\n"), "\n")
		if len(lines) > maxContextLines {
			lines = append(lines[:maxContextLines], "...")
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }
