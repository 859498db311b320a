package convert

import (
	"strings"

	"github.com/chriserin/md2docx/mdast"
)

// Definitions maps an upper-cased reference identifier to its URL.
type Definitions map[string]string

// Lookup returns the URL defined for identifier, matching case-insensitively.
func (d Definitions) Lookup(identifier string) (string, bool) {
	url, ok := d[strings.ToUpper(identifier)]
	return url, ok
}

// FootnoteDefinition is a footnote body and the id assigned to it. ID is
// zero until the footnote pre-pass numbers it.
type FootnoteDefinition struct {
	Identifier string
	Children   []mdast.Node
	ID         int
}

// FootnoteDefinitions holds footnote bodies keyed by upper-cased identifier,
// remembering the order in which identifiers were first seen.
type FootnoteDefinitions struct {
	order []string
	byID  map[string]*FootnoteDefinition
}

func newFootnoteDefinitions() *FootnoteDefinitions {
	return &FootnoteDefinitions{byID: map[string]*FootnoteDefinition{}}
}

func (f *FootnoteDefinitions) put(n *mdast.FootnoteDefinition) {
	key := strings.ToUpper(n.Identifier)
	if def, ok := f.byID[key]; ok {
		def.Children = n.Children
		return
	}
	f.order = append(f.order, key)
	f.byID[key] = &FootnoteDefinition{Identifier: n.Identifier, Children: n.Children}
}

// Lookup returns the footnote defined for identifier, matching
// case-insensitively.
func (f *FootnoteDefinitions) Lookup(identifier string) (*FootnoteDefinition, bool) {
	if f == nil {
		return nil, false
	}
	def, ok := f.byID[strings.ToUpper(identifier)]
	return def, ok
}

// All returns the footnotes in first-seen order.
func (f *FootnoteDefinitions) All() []*FootnoteDefinition {
	if f == nil {
		return nil
	}
	out := make([]*FootnoteDefinition, 0, len(f.order))
	for _, key := range f.order {
		out = append(out, f.byID[key])
	}
	return out
}

func (f *FootnoteDefinitions) Len() int {
	if f == nil {
		return 0
	}
	return len(f.order)
}

// ResolveDefinitions collects the link and footnote definitions found at any
// depth below nodes. A later link definition for the same identifier
// replaces an earlier one; a repeated footnote identifier keeps its first
// position but takes the later body.
func ResolveDefinitions(nodes []mdast.Node) (Definitions, *FootnoteDefinitions) {
	defs := Definitions{}
	footnotes := newFootnoteDefinitions()
	collectDefinitions(nodes, defs, footnotes)
	return defs, footnotes
}

func collectDefinitions(nodes []mdast.Node, defs Definitions, footnotes *FootnoteDefinitions) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *mdast.Definition:
			defs[strings.ToUpper(n.Identifier)] = n.URL
		case *mdast.FootnoteDefinition:
			footnotes.put(n)
			collectDefinitions(n.Children, defs, footnotes)
		case mdast.Parent:
			collectDefinitions(n.ChildNodes(), defs, footnotes)
		}
	}
}
