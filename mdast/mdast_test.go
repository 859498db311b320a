package mdast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Root {
	return &Root{Children: []Node{
		&Heading{Depth: 1, Children: []Node{
			&Text{Value: "Hello "},
			&Emphasis{Children: []Node{&Text{Value: "world"}}},
		}},
		&Paragraph{Children: []Node{
			&Text{Value: "see "},
			&Link{URL: "https://example.com", Children: []Node{&InlineCode{Value: "code"}}},
		}},
		&Heading{Depth: 2, Children: []Node{&Text{Value: "Next"}}},
	}}
}

func TestTextContent(t *testing.T) {
	root := sample()
	assert.Equal(t, "Hello world", TextContent(root.Children[0]))
	assert.Equal(t, "see code", TextContent(root.Children[1]))
	assert.Equal(t, "Hello worldsee codeNext", TextContent(root))
}

func TestTextContent_Claimed(t *testing.T) {
	assert.Equal(t, "x", TextContent(Claim(&Text{Value: "x"})))
}

func TestClaim_Idempotent(t *testing.T) {
	c := Claim(&Text{Value: "x"})
	assert.Same(t, c, Claim(c))
	assert.Equal(t, ClaimedKind, c.Kind())
	assert.Nil(t, c.NodeData())
}

func TestWalk_Order(t *testing.T) {
	var kinds []Kind
	Walk(sample(), func(n Node) WalkResult {
		kinds = append(kinds, n.Kind())
		return WalkContinue
	})
	assert.Equal(t, []Kind{
		RootKind, HeadingKind, TextKind, EmphasisKind, TextKind,
		ParagraphKind, TextKind, LinkKind, InlineCodeKind,
		HeadingKind, TextKind,
	}, kinds)
}

func TestWalk_SkipAndStop(t *testing.T) {
	var kinds []Kind
	Walk(sample(), func(n Node) WalkResult {
		kinds = append(kinds, n.Kind())
		switch n.(type) {
		case *Heading:
			return WalkSkip
		case *Link:
			return WalkStop
		}
		return WalkContinue
	})
	assert.Equal(t, []Kind{RootKind, HeadingKind, ParagraphKind, TextKind, LinkKind}, kinds)
}

func TestQuery_Headings(t *testing.T) {
	var depths []int
	Query(sample(), func(h *Heading) WalkResult {
		depths = append(depths, h.Depth)
		return WalkSkip
	})
	assert.Equal(t, []int{1, 2}, depths)
}

func TestFilter_ReplaceLeavesOriginal(t *testing.T) {
	root := sample()
	out := Filter(root, func(e *Emphasis) ([]Node, WalkResult) {
		return []Node{&Text{Value: "a"}, &Text{Value: "b"}}, WalkReplace
	})

	got := out.(*Root)
	require.NotSame(t, root, got)
	assert.Equal(t, "Hello ab", TextContent(got.Children[0]))
	assert.Equal(t, "Hello world", TextContent(root.Children[0]))
	assert.Same(t, root.Children[1], got.Children[1])
}

func TestFilter_Remove(t *testing.T) {
	out := Filter(sample(), func(h *Heading) ([]Node, WalkResult) {
		return nil, WalkReplace
	})
	got := out.(*Root)
	require.Len(t, got.Children, 1)
	assert.Equal(t, ParagraphKind, got.Children[0].Kind())
}

func TestFilter_NoMatchReturnsSame(t *testing.T) {
	root := sample()
	out := Filter(root, func(c *Code) ([]Node, WalkResult) {
		return nil, WalkReplace
	})
	assert.Same(t, root, out)
}

func TestDecode_Remark(t *testing.T) {
	src := `{
  "type": "root",
  "children": [
    {"type": "heading", "depth": 1, "children": [{"type": "text", "value": "Title"}]},
    {"type": "paragraph", "children": [
      {"type": "linkReference", "identifier": "ex", "label": "Ex", "referenceType": "full",
       "children": [{"type": "text", "value": "link"}]},
      {"type": "footnoteReference", "identifier": "1", "label": "1"}
    ]},
    {"type": "list", "ordered": false, "spread": false, "children": [
      {"type": "listItem", "checked": true, "children": [
        {"type": "paragraph", "children": [{"type": "text", "value": "done"}]}
      ]}
    ]},
    {"type": "table", "align": [null, "center"], "children": []},
    {"type": "definition", "identifier": "ex", "url": "https://example.com", "title": null},
    {"type": "leafDirective", "name": "note", "data": {"bold": true}}
  ]
}`
	root, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, root.Children, 6)

	h := root.Children[0].(*Heading)
	assert.Equal(t, 1, h.Depth)
	assert.Equal(t, "Title", TextContent(h))

	p := root.Children[1].(*Paragraph)
	ref := p.Children[0].(*LinkReference)
	assert.Equal(t, "ex", ref.Identifier)
	assert.Equal(t, "full", ref.ReferenceType)
	assert.Equal(t, "1", p.Children[1].(*FootnoteReference).Identifier)

	item := root.Children[2].(*List).Children[0].(*ListItem)
	require.NotNil(t, item.Checked)
	assert.True(t, *item.Checked)

	assert.Equal(t, []Align{AlignNone, AlignCenter}, root.Children[3].(*Table).Align)
	assert.Equal(t, "https://example.com", root.Children[4].(*Definition).URL)

	unk := root.Children[5].(*Unknown)
	assert.Equal(t, Kind("leafDirective"), unk.Kind())
	assert.Equal(t, true, unk.NodeData()["bold"])
}

func TestDecode_NotRoot(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type":"paragraph"}`))
	assert.ErrorIs(t, err, ErrNotRoot)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type":`))
	assert.Error(t, err)
}

func TestEncode_RoundTripsStructure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample()))
	assert.Contains(t, buf.String(), `"type": "heading"`)
	assert.Contains(t, buf.String(), `"depth": 1`)

	root, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, TextContent(sample()), TextContent(root))
}

func TestEncode_DropsClaimed(t *testing.T) {
	root := &Root{Children: []Node{
		&Paragraph{Children: []Node{Claim(&Text{Value: "gone"}), &Text{Value: "kept"}}},
	}}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, root))
	assert.NotContains(t, buf.String(), "gone")
	assert.Contains(t, buf.String(), "kept")
}
