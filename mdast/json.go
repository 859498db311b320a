package mdast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotRoot is returned by Decode when the top-level node is not a root.
var ErrNotRoot = errors.New("top-level node is not a root")

// wire is the JSON shape shared by every mdast node.
type wire struct {
	Type          string  `json:"type"`
	Children      []*wire `json:"children,omitempty"`
	Data          Data    `json:"data,omitempty"`
	Value         *string `json:"value,omitempty"`
	URL           string  `json:"url,omitempty"`
	Title         *string `json:"title,omitempty"`
	Alt           *string `json:"alt,omitempty"`
	Identifier    string  `json:"identifier,omitempty"`
	Label         string  `json:"label,omitempty"`
	ReferenceType string  `json:"referenceType,omitempty"`
	Depth         int     `json:"depth,omitempty"`
	Ordered       *bool   `json:"ordered,omitempty"`
	Start         *int    `json:"start,omitempty"`
	Spread        *bool   `json:"spread,omitempty"`
	Checked       *bool   `json:"checked,omitempty"`
	Lang          *string `json:"lang,omitempty"`
	Meta          *string `json:"meta,omitempty"`
	Align         []Align `json:"align,omitempty"`
}

// Decode reads an mdast tree in its JSON form, as produced by remark.
func Decode(r io.Reader) (*Root, error) {
	var w wire
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decoding mdast: %w", err)
	}
	root, ok := w.node().(*Root)
	if !ok {
		return nil, fmt.Errorf("decoding mdast: %w: %q", ErrNotRoot, w.Type)
	}
	return root, nil
}

// Encode writes n in its JSON form.
func Encode(out io.Writer, n Node) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(n)); err != nil {
		return fmt.Errorf("encoding mdast: %w", err)
	}
	return nil
}

func (w *wire) children() []Node {
	if len(w.Children) == 0 {
		return nil
	}
	out := make([]Node, 0, len(w.Children))
	for _, c := range w.Children {
		if c == nil {
			continue
		}
		out = append(out, c.node())
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ptr[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func (w *wire) node() Node {
	b := Base{Data: w.Data}
	switch Kind(w.Type) {
	case RootKind:
		return &Root{Base: b, Children: w.children()}
	case TextKind:
		return &Text{Base: b, Value: deref(w.Value)}
	case EmphasisKind:
		return &Emphasis{Base: b, Children: w.children()}
	case StrongKind:
		return &Strong{Base: b, Children: w.children()}
	case DeleteKind:
		return &Delete{Base: b, Children: w.children()}
	case BreakKind:
		return &Break{Base: b}
	case InlineCodeKind:
		return &InlineCode{Base: b, Value: deref(w.Value)}
	case LinkKind:
		return &Link{Base: b, URL: w.URL, Title: deref(w.Title), Children: w.children()}
	case LinkReferenceKind:
		return &LinkReference{Base: b, Identifier: w.Identifier, Label: w.Label, ReferenceType: w.ReferenceType, Children: w.children()}
	case ImageKind:
		return &Image{Base: b, URL: w.URL, Title: deref(w.Title), Alt: deref(w.Alt)}
	case ImageReferenceKind:
		return &ImageReference{Base: b, Identifier: w.Identifier, Label: w.Label, ReferenceType: w.ReferenceType, Alt: deref(w.Alt)}
	case FootnoteReferenceKind:
		return &FootnoteReference{Base: b, Identifier: w.Identifier, Label: w.Label}
	case ParagraphKind:
		return &Paragraph{Base: b, Children: w.children()}
	case HeadingKind:
		return &Heading{Base: b, Depth: w.Depth, Children: w.children()}
	case CodeKind:
		return &Code{Base: b, Lang: deref(w.Lang), Meta: deref(w.Meta), Value: deref(w.Value)}
	case ListKind:
		return &List{Base: b, Ordered: deref(w.Ordered), Start: w.Start, Spread: deref(w.Spread), Children: w.children()}
	case ListItemKind:
		return &ListItem{Base: b, Checked: w.Checked, Spread: deref(w.Spread), Children: w.children()}
	case BlockquoteKind:
		return &Blockquote{Base: b, Children: w.children()}
	case ThematicBreakKind:
		return &ThematicBreak{Base: b}
	case DefinitionKind:
		return &Definition{Base: b, Identifier: w.Identifier, Label: w.Label, URL: w.URL, Title: deref(w.Title)}
	case FootnoteDefinitionKind:
		return &FootnoteDefinition{Base: b, Identifier: w.Identifier, Label: w.Label, Children: w.children()}
	case TableKind:
		return &Table{Base: b, Align: w.Align, Children: w.children()}
	case TableRowKind:
		return &TableRow{Base: b, Children: w.children()}
	case TableCellKind:
		return &TableCell{Base: b, Children: w.children()}
	case HTMLKind:
		return &HTML{Base: b, Value: deref(w.Value)}
	case YAMLKind:
		return &YAML{Base: b, Value: deref(w.Value)}
	case MathKind:
		return &Math{Base: b, Value: deref(w.Value)}
	case InlineMathKind:
		return &InlineMath{Base: b, Value: deref(w.Value)}
	case CheckboxKind:
		return &Checkbox{Base: b, Checked: deref(w.Checked)}
	case FragmentKind:
		return &Fragment{Base: b, Children: w.children()}
	}
	return &Unknown{Base: b, Type: w.Type, Value: deref(w.Value), Children: w.children()}
}

func toWires(nodes []Node) []*wire {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*wire, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := n.(*Claimed); ok {
			continue
		}
		out = append(out, toWire(n))
	}
	return out
}

func toWire(n Node) *wire {
	if c, ok := n.(*Claimed); ok {
		return toWire(c.Of)
	}
	w := &wire{Type: string(n.Kind()), Data: n.NodeData()}
	if p, ok := n.(Parent); ok {
		w.Children = toWires(p.ChildNodes())
	}
	switch n := n.(type) {
	case *Text:
		w.Value = &n.Value
	case *InlineCode:
		w.Value = &n.Value
	case *Link:
		w.URL, w.Title = n.URL, ptr(n.Title)
	case *LinkReference:
		w.Identifier, w.Label, w.ReferenceType = n.Identifier, n.Label, n.ReferenceType
	case *Image:
		w.URL, w.Title, w.Alt = n.URL, ptr(n.Title), ptr(n.Alt)
	case *ImageReference:
		w.Identifier, w.Label, w.ReferenceType, w.Alt = n.Identifier, n.Label, n.ReferenceType, ptr(n.Alt)
	case *FootnoteReference:
		w.Identifier, w.Label = n.Identifier, n.Label
	case *Heading:
		w.Depth = n.Depth
	case *Code:
		w.Value, w.Lang, w.Meta = &n.Value, ptr(n.Lang), ptr(n.Meta)
	case *List:
		w.Ordered, w.Start, w.Spread = &n.Ordered, n.Start, &n.Spread
	case *ListItem:
		w.Checked, w.Spread = n.Checked, &n.Spread
	case *Definition:
		w.Identifier, w.Label, w.URL, w.Title = n.Identifier, n.Label, n.URL, ptr(n.Title)
	case *FootnoteDefinition:
		w.Identifier, w.Label = n.Identifier, n.Label
	case *Table:
		w.Align = n.Align
	case *HTML:
		w.Value = &n.Value
	case *YAML:
		w.Value = &n.Value
	case *Math:
		w.Value = &n.Value
	case *InlineMath:
		w.Value = &n.Value
	case *Checkbox:
		w.Checked = &n.Checked
	case *Unknown:
		w.Value = ptr(n.Value)
	}
	return w
}
