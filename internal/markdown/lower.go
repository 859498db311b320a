package markdown

import (
	"bytes"
	"strings"

	"github.com/chriserin/md2docx/mdast"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

// lowerer converts a goldmark syntax tree into an mdast tree.
type lowerer struct {
	source    []byte
	footnotes map[int]string
}

func lower(doc ast.Node, source []byte) *mdast.Root {
	l := &lowerer{source: source, footnotes: map[int]string{}}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering {
			l.footnotes[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	})
	return &mdast.Root{Children: l.blocks(doc)}
}

func (l *lowerer) blocks(parent ast.Node) []mdast.Node {
	var out []mdast.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, l.block(c)...)
	}
	return out
}

func (l *lowerer) block(n ast.Node) []mdast.Node {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return []mdast.Node{&mdast.Paragraph{Children: l.inlines(n)}}
	case *ast.Heading:
		return []mdast.Node{&mdast.Heading{Depth: n.Level, Children: l.inlines(n)}}
	case *ast.ThematicBreak:
		return []mdast.Node{&mdast.ThematicBreak{}}
	case *ast.FencedCodeBlock:
		code := &mdast.Code{Value: l.lines(n)}
		if n.Info != nil {
			info := strings.TrimSpace(string(n.Info.Segment.Value(l.source)))
			code.Lang, code.Meta, _ = strings.Cut(info, " ")
			code.Meta = strings.TrimSpace(code.Meta)
		}
		return []mdast.Node{code}
	case *ast.CodeBlock:
		return []mdast.Node{&mdast.Code{Value: l.lines(n)}}
	case *ast.Blockquote:
		return []mdast.Node{&mdast.Blockquote{Children: l.blocks(n)}}
	case *ast.List:
		list := &mdast.List{Ordered: n.IsOrdered(), Spread: !n.IsTight}
		if n.IsOrdered() {
			start := n.Start
			list.Start = &start
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if item, ok := c.(*ast.ListItem); ok {
				list.Children = append(list.Children, l.listItem(item, list.Spread))
			}
		}
		return []mdast.Node{list}
	case *ast.HTMLBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(l.source))
		}
		if n.HasClosure() {
			buf.Write(n.ClosureLine.Value(l.source))
		}
		return []mdast.Node{&mdast.HTML{Value: strings.TrimRight(buf.String(), "\n")}}
	case *extast.Table:
		return []mdast.Node{l.table(n)}
	case *extast.FootnoteList:
		var out []mdast.Node
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if fn, ok := c.(*extast.Footnote); ok {
				out = append(out, &mdast.FootnoteDefinition{
					Identifier: string(fn.Ref),
					Label:      string(fn.Ref),
					Children:   l.blocks(fn),
				})
			}
		}
		return out
	}
	if n.Type() == ast.TypeBlock && n.HasChildren() {
		return l.blocks(n)
	}
	return nil
}

func (l *lowerer) listItem(n *ast.ListItem, spread bool) *mdast.ListItem {
	item := &mdast.ListItem{Spread: spread, Children: l.blocks(n)}
	if first := n.FirstChild(); first != nil {
		if box, ok := first.FirstChild().(*extast.TaskCheckBox); ok {
			checked := box.IsChecked
			item.Checked = &checked
		}
	}
	return item
}

func (l *lowerer) table(n *extast.Table) *mdast.Table {
	table := &mdast.Table{}
	for _, a := range n.Alignments {
		switch a {
		case extast.AlignLeft:
			table.Align = append(table.Align, mdast.AlignLeft)
		case extast.AlignRight:
			table.Align = append(table.Align, mdast.AlignRight)
		case extast.AlignCenter:
			table.Align = append(table.Align, mdast.AlignCenter)
		default:
			table.Align = append(table.Align, mdast.AlignNone)
		}
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		tr := &mdast.TableRow{}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if _, ok := cell.(*extast.TableCell); ok {
				tr.Children = append(tr.Children, &mdast.TableCell{Children: l.inlines(cell)})
			}
		}
		table.Children = append(table.Children, tr)
	}
	return table
}

func (l *lowerer) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(l.source))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (l *lowerer) inlines(parent ast.Node) []mdast.Node {
	var out []mdast.Node
	trim := false
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*extast.TaskCheckBox); ok {
			trim = true
			continue
		}
		nodes := l.inline(c)
		if trim && len(nodes) > 0 {
			if t, ok := nodes[0].(*mdast.Text); ok {
				t.Value = strings.TrimLeft(t.Value, " ")
			}
			trim = false
		}
		out = appendInline(out, nodes...)
	}
	return out
}

// appendInline appends nodes to out, joining adjacent text.
func appendInline(out []mdast.Node, nodes ...mdast.Node) []mdast.Node {
	for _, n := range nodes {
		if t, ok := n.(*mdast.Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*mdast.Text); ok {
				prev.Value += t.Value
				continue
			}
		}
		if t, ok := n.(*mdast.Text); ok && t.Value == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (l *lowerer) inline(n ast.Node) []mdast.Node {
	switch n := n.(type) {
	case *ast.Text:
		value := n.Segment.Value(l.source)
		if !n.IsRaw() {
			value = unescape(value)
		}
		out := []mdast.Node{&mdast.Text{Value: string(value)}}
		if n.HardLineBreak() {
			out = append(out, &mdast.Break{})
		} else if n.SoftLineBreak() {
			out = append(out, &mdast.Text{Value: " "})
		}
		return out
	case *ast.String:
		value := n.Value
		if !n.IsRaw() && !n.IsCode() {
			value = unescape(value)
		}
		return []mdast.Node{&mdast.Text{Value: string(value)}}
	case *ast.CodeSpan:
		var buf bytes.Buffer
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				buf.Write(c.Segment.Value(l.source))
			case *ast.String:
				buf.Write(c.Value)
			}
		}
		return []mdast.Node{&mdast.InlineCode{Value: buf.String()}}
	case *ast.Emphasis:
		if n.Level >= 2 {
			return []mdast.Node{&mdast.Strong{Children: l.inlines(n)}}
		}
		return []mdast.Node{&mdast.Emphasis{Children: l.inlines(n)}}
	case *extast.Strikethrough:
		return []mdast.Node{&mdast.Delete{Children: l.inlines(n)}}
	case *ast.Link:
		return []mdast.Node{&mdast.Link{
			URL:      string(n.Destination),
			Title:    string(n.Title),
			Children: l.inlines(n),
		}}
	case *ast.AutoLink:
		url := string(n.URL(l.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		return []mdast.Node{&mdast.Link{
			URL:      url,
			Children: []mdast.Node{&mdast.Text{Value: string(n.Label(l.source))}},
		}}
	case *ast.Image:
		return []mdast.Node{&mdast.Image{
			URL:   string(n.Destination),
			Title: string(n.Title),
			Alt:   mdast.TextContent(&mdast.Paragraph{Children: l.inlines(n)}),
		}}
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(l.source))
		}
		return []mdast.Node{&mdast.HTML{Value: buf.String()}}
	case *extast.FootnoteLink:
		id := l.footnotes[n.Index]
		return []mdast.Node{&mdast.FootnoteReference{Identifier: id, Label: id}}
	case *extast.FootnoteBacklink:
		return nil
	}
	if n.HasChildren() {
		return l.inlines(n)
	}
	return nil
}

// unescape resolves backslash escapes and character references the way
// goldmark's renderer does when it writes text.
func unescape(b []byte) []byte {
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(b)))
}
