package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

const (
	checkedBox   = "☑"
	uncheckedBox = "☐"
)

func (c *Converter) block(ctx context.Context, n mdast.Node, props docx.ParaProps) ([]docx.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	next, err := props.Merge(n.NodeData())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.Kind(), err)
	}
	out, n, err := c.blockPlugins(ctx, n, next)
	if err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case *mdast.Paragraph:
		return c.paragraph(ctx, out, n, next)
	case *mdast.Heading:
		return c.heading(ctx, out, n, next)
	case *mdast.Code:
		return append(out, codeBlock(n)), nil
	case *mdast.List:
		if n.Ordered {
			c.Warn(WarningMissingPlugin, n, "ordered list rendered as bullets; register the list plugin for numbering")
		}
		level := 0
		if next.Bullet != nil {
			level = next.Bullet.Level + 1
		}
		next.Bullet = &docx.Bullet{Level: level}
		return c.appendBlocks(ctx, out, n, next)
	case *mdast.ListItem:
		next.Checked = n.Checked
		return c.appendBlocks(ctx, out, n, next)
	case *mdast.Blockquote:
		next.Quote = true
		if next.Style == "" {
			next.Style = "Quote"
		}
		return c.appendBlocks(ctx, out, n, next)
	case *mdast.ThematicBreak:
		return append(out, &docx.Paragraph{ParaProps: docx.ParaProps{
			Border: &docx.Border{Top: &docx.BorderSide{Style: "single", Size: 6}},
		}}), nil
	case *mdast.Definition, *mdast.FootnoteDefinition:
		return out, nil
	case *mdast.Table:
		c.Warn(WarningMissingPlugin, n, "table dropped; register the table plugin to convert tables")
		return out, nil
	case *mdast.Fragment:
		return c.appendBlocks(ctx, out, n, next)
	case *mdast.Claimed:
		return out, nil
	}
	c.unsupported(n, "block")
	return out, nil
}

func (c *Converter) appendBlocks(ctx context.Context, out []docx.Block, n mdast.Node, props docx.ParaProps) ([]docx.Block, error) {
	children, err := c.BlockChildren(ctx, n, props)
	if err != nil {
		return nil, err
	}
	return append(out, children...), nil
}

func (c *Converter) paragraph(ctx context.Context, out []docx.Block, n *mdast.Paragraph, props docx.ParaProps) ([]docx.Block, error) {
	children, err := c.InlineChildren(ctx, n, docx.RunProps{})
	if err != nil {
		return nil, err
	}
	if props.Checked != nil {
		box := uncheckedBox
		if *props.Checked {
			box = checkedBox
		}
		children = append([]docx.Inline{
			docx.NewTextRun(box, docx.RunProps{}),
			docx.NewTextRun(" ", docx.RunProps{}),
		}, children...)
	}
	props.Checked = nil
	return append(out, &docx.Paragraph{ParaProps: props, Children: children}), nil
}

func (c *Converter) heading(ctx context.Context, out []docx.Block, n *mdast.Heading, props docx.ParaProps) ([]docx.Block, error) {
	children, err := c.InlineChildren(ctx, n, docx.RunProps{})
	if err != nil {
		return nil, err
	}
	props.Heading = c.headingLevel(n.Depth)
	props.Checked = nil
	return append(out, &docx.Paragraph{
		ParaProps: props,
		Children:  []docx.Inline{&docx.Bookmark{ID: c.anchor(n), Children: children}},
	}), nil
}

// headingLevel maps depth 1 to the Title style when the section uses titles,
// shifting the remaining depths up one level.
func (c *Converter) headingLevel(depth int) docx.HeadingLevel {
	if !c.useTitle {
		return docx.HeadingN(depth)
	}
	if depth <= 1 {
		return docx.Title
	}
	return docx.HeadingN(depth - 1)
}

func codeBlock(n *mdast.Code) *docx.Paragraph {
	lines := strings.Split(n.Value, "\n")
	runs := make([]docx.Inline, 0, len(lines))
	for _, line := range lines {
		run := docx.NewTextRun(line, docx.RunProps{Style: codeStyle, Font: codeFont})
		run.Break = 1
		runs = append(runs, run)
	}
	return &docx.Paragraph{
		ParaProps: docx.ParaProps{Alignment: "start", Style: "blockCode"},
		Children:  runs,
	}
}
