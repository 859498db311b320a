package plugins

import (
	"context"

	"github.com/chriserin/md2docx/convert"
	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

// Math converts inlineMath and math nodes to math runs holding their TeX.
type Math struct{}

func (Math) Name() string { return "math" }

func (Math) Inline(_ context.Context, n mdast.Node, _ docx.RunProps, _ *convert.Converter) (convert.InlineResult, error) {
	m, ok := n.(*mdast.InlineMath)
	if !ok {
		return convert.InlineResult{}, nil
	}
	return convert.ClaimInlines(n, &docx.Math{TeX: m.Value}), nil
}

func (Math) Block(_ context.Context, n mdast.Node, props docx.ParaProps, _ *convert.Converter) (convert.BlockResult, error) {
	m, ok := n.(*mdast.Math)
	if !ok {
		return convert.BlockResult{}, nil
	}
	props.Checked = nil
	para := &docx.Paragraph{
		ParaProps: props,
		Children:  []docx.Inline{&docx.Math{TeX: m.Value, Display: true}},
	}
	return convert.ClaimBlocks(n, para), nil
}
