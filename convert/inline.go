package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

const (
	codeStyle = "code"
	codeFont  = "Consolas"
)

func (c *Converter) inline(ctx context.Context, n mdast.Node, props docx.RunProps) ([]docx.Inline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, n, err := c.inlinePlugins(ctx, n, props)
	if err != nil {
		return nil, err
	}
	next, err := props.Merge(n.NodeData())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.Kind(), err)
	}

	switch n := n.(type) {
	case *mdast.Text:
		return append(out, docx.NewTextRun(n.Value, next)), nil
	case *mdast.Break:
		return append(out, docx.LineBreak()), nil
	case *mdast.InlineCode:
		next.Style = codeStyle
		next.Font = codeFont
		return append(out, docx.NewTextRun(n.Value, next)), nil
	case *mdast.Emphasis:
		next.Italics = true
		return c.appendInlines(ctx, out, n, next)
	case *mdast.Strong:
		next.Bold = true
		return c.appendInlines(ctx, out, n, next)
	case *mdast.Delete:
		next.Strike = true
		return c.appendInlines(ctx, out, n, next)
	case *mdast.Link:
		return c.link(ctx, out, n, n.URL, next)
	case *mdast.LinkReference:
		url, _ := c.defs.Lookup(n.Identifier)
		return c.link(ctx, out, n, url, next)
	case *mdast.FootnoteReference:
		id, err := c.footnoteID(n)
		if err != nil {
			return nil, err
		}
		return append(out, &docx.FootnoteReferenceRun{ID: id}), nil
	case *mdast.Checkbox:
		return append(out, &docx.CheckBox{Checked: n.Checked}), nil
	case *mdast.Fragment:
		return c.appendInlines(ctx, out, n, next)
	case *mdast.Claimed:
		return out, nil
	}
	c.unsupported(n, "inline")
	return out, nil
}

func (c *Converter) appendInlines(ctx context.Context, out []docx.Inline, n mdast.Node, props docx.RunProps) ([]docx.Inline, error) {
	children, err := c.InlineChildren(ctx, n, props)
	if err != nil {
		return nil, err
	}
	return append(out, children...), nil
}

// link emits n's children inside a hyperlink to url. A target starting with
// "#" names a bookmark in the document.
func (c *Converter) link(ctx context.Context, out []docx.Inline, n mdast.Parent, url string, props docx.RunProps) ([]docx.Inline, error) {
	children, err := c.InlineChildren(ctx, n, props)
	if err != nil {
		return nil, err
	}
	if url == "" || url == "#" {
		if c.strict {
			return nil, fmt.Errorf("%s %q: %w", n.Kind(), mdast.TextContent(n), ErrUnresolvedReference)
		}
		c.Warn(WarningUnresolvedReference, n, fmt.Sprintf("link %q has no target; emitting its text unlinked", mdast.TextContent(n)))
		return append(out, children...), nil
	}
	if anchor, ok := strings.CutPrefix(url, "#"); ok {
		link, err := docx.NewInternalHyperlink(anchor, children)
		if err != nil {
			return nil, err
		}
		return append(out, link), nil
	}
	link, err := docx.NewExternalHyperlink(url, children)
	if err != nil {
		return nil, err
	}
	return append(out, link), nil
}
