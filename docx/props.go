package docx

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// RunProps is the formatting context applied to text runs. It is passed by
// value; pointer and map members are never written through.
type RunProps struct {
	Bold        bool           `json:"bold,omitempty" mapstructure:"bold"`
	Italics     bool           `json:"italics,omitempty" mapstructure:"italics"`
	Strike      bool           `json:"strike,omitempty" mapstructure:"strike"`
	Underline   string         `json:"underline,omitempty" mapstructure:"underline"`
	Color       string         `json:"color,omitempty" mapstructure:"color"`
	Font        string         `json:"font,omitempty" mapstructure:"font"`
	Size        int            `json:"size,omitempty" mapstructure:"size"`
	SuperScript bool           `json:"superScript,omitempty" mapstructure:"superScript"`
	SubScript   bool           `json:"subScript,omitempty" mapstructure:"subScript"`
	AllCaps     bool           `json:"allCaps,omitempty" mapstructure:"allCaps"`
	SmallCaps   bool           `json:"smallCaps,omitempty" mapstructure:"smallCaps"`
	Highlight   string         `json:"highlight,omitempty" mapstructure:"highlight"`
	Style       string         `json:"style,omitempty" mapstructure:"style"`
	Border      *BorderSide    `json:"border,omitempty" mapstructure:"border"`
	Extra       map[string]any `json:"extra,omitempty" mapstructure:",remain"`
}

// ParaProps is the formatting context applied to paragraphs.
type ParaProps struct {
	Style     string        `json:"style,omitempty" mapstructure:"style"`
	Heading   HeadingLevel  `json:"heading,omitempty" mapstructure:"heading"`
	Alignment string        `json:"alignment,omitempty" mapstructure:"alignment"`
	Bullet    *Bullet       `json:"bullet,omitempty" mapstructure:"bullet"`
	Numbering *NumberingRef `json:"numbering,omitempty" mapstructure:"numbering"`
	Indent    *Indent       `json:"indent,omitempty" mapstructure:"indent"`
	Spacing   *Spacing      `json:"spacing,omitempty" mapstructure:"spacing"`
	Border    *Border       `json:"border,omitempty" mapstructure:"border"`
	Quote     bool          `json:"quote,omitempty" mapstructure:"quote"`
	// Checked is the task state of the enclosing list item. It only steers
	// conversion and is not part of the emitted paragraph.
	Checked *bool          `json:"-" mapstructure:"checked"`
	Extra   map[string]any `json:"extra,omitempty" mapstructure:",remain"`
}

type HeadingLevel string

const (
	Title    HeadingLevel = "Title"
	Heading1 HeadingLevel = "Heading1"
	Heading2 HeadingLevel = "Heading2"
	Heading3 HeadingLevel = "Heading3"
	Heading4 HeadingLevel = "Heading4"
	Heading5 HeadingLevel = "Heading5"
	Heading6 HeadingLevel = "Heading6"
)

// HeadingN returns the level for Heading1 to Heading6, clamping n.
func HeadingN(n int) HeadingLevel {
	n = max(1, min(n, 6))
	return HeadingLevel(fmt.Sprintf("Heading%d", n))
}

type Bullet struct {
	Level int `json:"level" mapstructure:"level"`
}

// NumberingRef points a paragraph at a numbering definition.
type NumberingRef struct {
	Reference string `json:"reference" mapstructure:"reference"`
	Level     int    `json:"level" mapstructure:"level"`
	Instance  int    `json:"instance,omitempty" mapstructure:"instance"`
	Start     int    `json:"start,omitempty" mapstructure:"start"`
}

// Indent in twentieths of a point.
type Indent struct {
	Left    int `json:"left,omitempty" mapstructure:"left" yaml:"left,omitempty"`
	Right   int `json:"right,omitempty" mapstructure:"right" yaml:"right,omitempty"`
	Hanging int `json:"hanging,omitempty" mapstructure:"hanging" yaml:"hanging,omitempty"`
}

// Spacing in twentieths of a point; Line in 240ths of a line.
type Spacing struct {
	Before int `json:"before,omitempty" mapstructure:"before" yaml:"before,omitempty"`
	After  int `json:"after,omitempty" mapstructure:"after" yaml:"after,omitempty"`
	Line   int `json:"line,omitempty" mapstructure:"line" yaml:"line,omitempty"`
}

type BorderSide struct {
	Style string `json:"style" mapstructure:"style"`
	Size  int    `json:"size,omitempty" mapstructure:"size"`
	Color string `json:"color,omitempty" mapstructure:"color"`
	Space int    `json:"space,omitempty" mapstructure:"space"`
}

type Border struct {
	Top    *BorderSide `json:"top,omitempty" mapstructure:"top"`
	Bottom *BorderSide `json:"bottom,omitempty" mapstructure:"bottom"`
	Left   *BorderSide `json:"left,omitempty" mapstructure:"left"`
	Right  *BorderSide `json:"right,omitempty" mapstructure:"right"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (b *Border) clone() *Border {
	if b == nil {
		return nil
	}
	return &Border{
		Top:    clonePtr(b.Top),
		Bottom: clonePtr(b.Bottom),
		Left:   clonePtr(b.Left),
		Right:  clonePtr(b.Right),
	}
}

// Clone returns a copy sharing no pointers or maps with p.
func (p RunProps) Clone() RunProps {
	p.Border = clonePtr(p.Border)
	p.Extra = maps.Clone(p.Extra)
	return p
}

// Clone returns a copy sharing no pointers or maps with p.
func (p ParaProps) Clone() ParaProps {
	p.Bullet = clonePtr(p.Bullet)
	p.Numbering = clonePtr(p.Numbering)
	p.Indent = clonePtr(p.Indent)
	p.Spacing = clonePtr(p.Spacing)
	p.Border = p.Border.clone()
	p.Checked = clonePtr(p.Checked)
	p.Extra = maps.Clone(p.Extra)
	return p
}

// Merge returns a copy of p with the entries of data applied over it. Keys
// that name no field are kept in Extra.
func (p RunProps) Merge(data map[string]any) (RunProps, error) {
	if len(data) == 0 {
		return p, nil
	}
	out := p.Clone()
	if err := decode(data, &out); err != nil {
		return p, fmt.Errorf("merging run properties: %w", err)
	}
	return out, nil
}

// Merge returns a copy of p with the entries of data applied over it. Keys
// that name no field are kept in Extra.
func (p ParaProps) Merge(data map[string]any) (ParaProps, error) {
	if len(data) == 0 {
		return p, nil
	}
	out := p.Clone()
	if err := decode(data, &out); err != nil {
		return p, fmt.Errorf("merging paragraph properties: %w", err)
	}
	return out, nil
}

func decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
