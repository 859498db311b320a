// Package mdast implements the Markdown abstract syntax tree consumed by the
// converter, following the [mdast] node vocabulary.
//
// [mdast]: https://github.com/syntax-tree/mdast
package mdast

// Node kind, the mdast "type" field.
type Kind string

func (k Kind) String() string { return string(k) }

const (
	RootKind               Kind = "root"
	TextKind               Kind = "text"
	EmphasisKind           Kind = "emphasis"
	StrongKind             Kind = "strong"
	DeleteKind             Kind = "delete"
	BreakKind              Kind = "break"
	InlineCodeKind         Kind = "inlineCode"
	LinkKind               Kind = "link"
	LinkReferenceKind      Kind = "linkReference"
	ImageKind              Kind = "image"
	ImageReferenceKind     Kind = "imageReference"
	FootnoteReferenceKind  Kind = "footnoteReference"
	ParagraphKind          Kind = "paragraph"
	HeadingKind            Kind = "heading"
	CodeKind               Kind = "code"
	ListKind               Kind = "list"
	ListItemKind           Kind = "listItem"
	BlockquoteKind         Kind = "blockquote"
	ThematicBreakKind      Kind = "thematicBreak"
	DefinitionKind         Kind = "definition"
	FootnoteDefinitionKind Kind = "footnoteDefinition"
	TableKind              Kind = "table"
	TableRowKind           Kind = "tableRow"
	TableCellKind          Kind = "tableCell"
	HTMLKind               Kind = "html"
	YAMLKind               Kind = "yaml"
	MathKind               Kind = "math"
	InlineMathKind         Kind = "inlineMath"
	CheckboxKind           Kind = "checkbox"
	FragmentKind           Kind = "fragment"

	// ClaimedKind marks a node a plugin has taken over. The converter emits
	// nothing of its own for it.
	ClaimedKind Kind = ""
)

// Data is the free-form style bag attached to a node. Its entries are merged
// into the formatting context of the emitted document object.
type Data map[string]any

// Node is an mdast node.
type Node interface {
	Kind() Kind
	NodeData() Data
}

// Parent is a node with children.
type Parent interface {
	Node
	ChildNodes() []Node
}

// Base carries the fields common to every node.
type Base struct {
	Data Data
}

func (b *Base) NodeData() Data { return b.Data }

// Document root
type Root struct {
	Base
	Children []Node
}

func (*Root) Kind() Kind           { return RootKind }
func (n *Root) ChildNodes() []Node { return n.Children }

// Literal text
type Text struct {
	Base
	Value string
}

func (*Text) Kind() Kind { return TextKind }

// Emphasized content
type Emphasis struct {
	Base
	Children []Node
}

func (*Emphasis) Kind() Kind           { return EmphasisKind }
func (n *Emphasis) ChildNodes() []Node { return n.Children }

// Strongly emphasized content
type Strong struct {
	Base
	Children []Node
}

func (*Strong) Kind() Kind           { return StrongKind }
func (n *Strong) ChildNodes() []Node { return n.Children }

// Struck-through content
type Delete struct {
	Base
	Children []Node
}

func (*Delete) Kind() Kind           { return DeleteKind }
func (n *Delete) ChildNodes() []Node { return n.Children }

// Hard line break
type Break struct {
	Base
}

func (*Break) Kind() Kind { return BreakKind }

// Inline code span
type InlineCode struct {
	Base
	Value string
}

func (*InlineCode) Kind() Kind { return InlineCodeKind }

// Hyperlink with an inline destination
type Link struct {
	Base
	URL      string
	Title    string
	Children []Node
}

func (*Link) Kind() Kind           { return LinkKind }
func (n *Link) ChildNodes() []Node { return n.Children }

// Hyperlink whose destination is a Definition
type LinkReference struct {
	Base
	Identifier    string
	Label         string
	ReferenceType string
	Children      []Node
}

func (*LinkReference) Kind() Kind           { return LinkReferenceKind }
func (n *LinkReference) ChildNodes() []Node { return n.Children }

// Image with an inline source
type Image struct {
	Base
	URL   string
	Title string
	Alt   string
}

func (*Image) Kind() Kind { return ImageKind }

// Image whose source is a Definition
type ImageReference struct {
	Base
	Identifier    string
	Label         string
	ReferenceType string
	Alt           string
}

func (*ImageReference) Kind() Kind { return ImageReferenceKind }

// Marker pointing at a FootnoteDefinition
type FootnoteReference struct {
	Base
	Identifier string
	Label      string
}

func (*FootnoteReference) Kind() Kind { return FootnoteReferenceKind }

// Paragraph of inline content
type Paragraph struct {
	Base
	Children []Node
}

func (*Paragraph) Kind() Kind           { return ParagraphKind }
func (n *Paragraph) ChildNodes() []Node { return n.Children }

// Heading, Depth from 1 to 6
type Heading struct {
	Base
	Depth    int
	Children []Node
}

func (*Heading) Kind() Kind           { return HeadingKind }
func (n *Heading) ChildNodes() []Node { return n.Children }

// Code block
type Code struct {
	Base
	Lang  string
	Meta  string
	Value string
}

func (*Code) Kind() Kind { return CodeKind }

// Ordered or unordered list
type List struct {
	Base
	Ordered  bool
	Start    *int
	Spread   bool
	Children []Node
}

func (*List) Kind() Kind           { return ListKind }
func (n *List) ChildNodes() []Node { return n.Children }

// List item. Checked is nil unless the item is a task.
type ListItem struct {
	Base
	Checked  *bool
	Spread   bool
	Children []Node
}

func (*ListItem) Kind() Kind           { return ListItemKind }
func (n *ListItem) ChildNodes() []Node { return n.Children }

// Block quote
type Blockquote struct {
	Base
	Children []Node
}

func (*Blockquote) Kind() Kind           { return BlockquoteKind }
func (n *Blockquote) ChildNodes() []Node { return n.Children }

// Thematic break (horizontal rule)
type ThematicBreak struct {
	Base
}

func (*ThematicBreak) Kind() Kind { return ThematicBreakKind }

// Link or image reference definition
type Definition struct {
	Base
	Identifier string
	Label      string
	URL        string
	Title      string
}

func (*Definition) Kind() Kind { return DefinitionKind }

// Footnote body
type FootnoteDefinition struct {
	Base
	Identifier string
	Label      string
	Children   []Node
}

func (*FootnoteDefinition) Kind() Kind           { return FootnoteDefinitionKind }
func (n *FootnoteDefinition) ChildNodes() []Node { return n.Children }

// Column alignment of a table
type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Table; the first row is the header row.
type Table struct {
	Base
	Align    []Align
	Children []Node
}

func (*Table) Kind() Kind           { return TableKind }
func (n *Table) ChildNodes() []Node { return n.Children }

// Table row
type TableRow struct {
	Base
	Children []Node
}

func (*TableRow) Kind() Kind           { return TableRowKind }
func (n *TableRow) ChildNodes() []Node { return n.Children }

// Table cell
type TableCell struct {
	Base
	Children []Node
}

func (*TableCell) Kind() Kind           { return TableCellKind }
func (n *TableCell) ChildNodes() []Node { return n.Children }

// Raw HTML
type HTML struct {
	Base
	Value string
}

func (*HTML) Kind() Kind { return HTMLKind }

// YAML front matter
type YAML struct {
	Base
	Value string
}

func (*YAML) Kind() Kind { return YAMLKind }

// TeX display math block
type Math struct {
	Base
	Value string
}

func (*Math) Kind() Kind { return MathKind }

// TeX inline math
type InlineMath struct {
	Base
	Value string
}

func (*InlineMath) Kind() Kind { return InlineMathKind }

// Inline checkbox
type Checkbox struct {
	Base
	Checked bool
}

func (*Checkbox) Kind() Kind { return CheckboxKind }

// Fragment groups children without adding structure of its own. Plugins use
// it to splice several nodes where one stood.
type Fragment struct {
	Base
	Children []Node
}

func (*Fragment) Kind() Kind           { return FragmentKind }
func (n *Fragment) ChildNodes() []Node { return n.Children }

// Claimed replaces a node a plugin has handled itself.
type Claimed struct {
	Of Node
}

// Claim returns the sentinel standing for n once a plugin has handled it.
func Claim(n Node) *Claimed {
	if c, ok := n.(*Claimed); ok {
		return c
	}
	return &Claimed{Of: n}
}

func (*Claimed) Kind() Kind       { return ClaimedKind }
func (c *Claimed) NodeData() Data { return nil }

// Unknown holds a node of a kind this package does not model, such as an
// extension node decoded from JSON.
type Unknown struct {
	Base
	Type     string
	Value    string
	Children []Node
}

func (n *Unknown) Kind() Kind         { return Kind(n.Type) }
func (n *Unknown) ChildNodes() []Node { return n.Children }
