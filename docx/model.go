// Package docx is the in-memory word-processing document model produced by
// the converter: sections of paragraphs and tables holding runs, hyperlinks,
// bookmarks and footnote references. Serialising the model to OOXML is left
// to a packer; Pack emits the model itself.
package docx

import (
	"encoding/json"
	"errors"
)

var (
	ErrEmptyLink   = errors.New("hyperlink has no target")
	ErrEmptyAnchor = errors.New("bookmark has no id")
)

// Block is a top-level child of a section: *Paragraph or *Table.
type Block interface {
	block()
}

// Inline is a child of a paragraph.
type Inline interface {
	inline()
}

type Paragraph struct {
	ParaProps
	Children []Inline `json:"children,omitempty"`
}

type TextRun struct {
	RunProps
	Text string `json:"text,omitempty"`
	// Break is the number of line breaks placed before Text.
	Break int `json:"break,omitempty"`
}

// NewTextRun returns a run of text carrying props.
func NewTextRun(text string, props RunProps) *TextRun {
	return &TextRun{RunProps: props, Text: text}
}

// LineBreak returns an undecorated run holding a single line break.
func LineBreak() *TextRun {
	return &TextRun{Break: 1}
}

type AltText struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Title       string `json:"title,omitempty"`
}

// ImageRun embeds image bytes. Type is the short format name: png, jpg,
// gif, bmp or svg.
type ImageRun struct {
	Type    string  `json:"imageType"`
	Data    []byte  `json:"data"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	AltText AltText `json:"altText"`
}

type InternalHyperlink struct {
	Anchor   string   `json:"anchor"`
	Children []Inline `json:"children,omitempty"`
}

// NewInternalHyperlink returns a link to the bookmark named anchor.
func NewInternalHyperlink(anchor string, children []Inline) (*InternalHyperlink, error) {
	if anchor == "" {
		return nil, ErrEmptyAnchor
	}
	return &InternalHyperlink{Anchor: anchor, Children: children}, nil
}

type ExternalHyperlink struct {
	Link     string   `json:"link"`
	Children []Inline `json:"children,omitempty"`
}

// NewExternalHyperlink returns a link to an external URL.
func NewExternalHyperlink(link string, children []Inline) (*ExternalHyperlink, error) {
	if link == "" {
		return nil, ErrEmptyLink
	}
	return &ExternalHyperlink{Link: link, Children: children}, nil
}

type FootnoteReferenceRun struct {
	ID int `json:"id"`
}

type Bookmark struct {
	ID       string   `json:"id"`
	Children []Inline `json:"children,omitempty"`
}

type CheckBox struct {
	Checked bool `json:"checked"`
}

// Math holds TeX source; Display marks a math block rather than inline math.
type Math struct {
	TeX     string `json:"tex"`
	Display bool   `json:"display,omitempty"`
}

type Table struct {
	Rows []*TableRow `json:"rows"`
	// ColumnAlign holds one alignment per column, empty for the default.
	ColumnAlign []string `json:"columnAlign,omitempty"`
}

type TableRow struct {
	Cells       []*TableCell `json:"cells"`
	TableHeader bool         `json:"tableHeader,omitempty"`
}

type TableCell struct {
	Children   []Block `json:"children"`
	ColumnSpan int     `json:"columnSpan,omitempty"`
}

func (*Paragraph) block() {}
func (*Table) block()     {}

func (*TextRun) inline()              {}
func (*ImageRun) inline()             {}
func (*InternalHyperlink) inline()    {}
func (*ExternalHyperlink) inline()    {}
func (*FootnoteReferenceRun) inline() {}
func (*Bookmark) inline()             {}
func (*CheckBox) inline()             {}
func (*Math) inline()                 {}

// The MarshalJSON methods tag each object with its type so a packer can
// tell the members of a Block or Inline slice apart.

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"paragraph", (*alias)(p)})
}

func (t *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"table", (*alias)(t)})
}

func (r *TextRun) MarshalJSON() ([]byte, error) {
	type alias TextRun
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"text", (*alias)(r)})
}

func (r *ImageRun) MarshalJSON() ([]byte, error) {
	type alias ImageRun
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"image", (*alias)(r)})
}

func (h *InternalHyperlink) MarshalJSON() ([]byte, error) {
	type alias InternalHyperlink
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"internalHyperlink", (*alias)(h)})
}

func (h *ExternalHyperlink) MarshalJSON() ([]byte, error) {
	type alias ExternalHyperlink
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"externalHyperlink", (*alias)(h)})
}

func (r *FootnoteReferenceRun) MarshalJSON() ([]byte, error) {
	type alias FootnoteReferenceRun
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"footnoteReference", (*alias)(r)})
}

func (b *Bookmark) MarshalJSON() ([]byte, error) {
	type alias Bookmark
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"bookmark", (*alias)(b)})
}

func (c *CheckBox) MarshalJSON() ([]byte, error) {
	type alias CheckBox
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"checkBox", (*alias)(c)})
}

func (m *Math) MarshalJSON() ([]byte, error) {
	type alias Math
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"math", (*alias)(m)})
}
