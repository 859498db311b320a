// Package plugins holds the converter plugins shipped with md2docx: tables,
// numbered lists, math, raw HTML and images.
package plugins

import (
	"context"
	"fmt"

	"github.com/chriserin/md2docx/convert"
	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

// Table converts GFM tables. The first row is the header row; its runs are
// bold and it repeats on every page.
type Table struct{}

func (Table) Name() string { return "table" }

func (Table) Block(ctx context.Context, n mdast.Node, props docx.ParaProps, c *convert.Converter) (convert.BlockResult, error) {
	t, ok := n.(*mdast.Table)
	if !ok {
		return convert.BlockResult{}, nil
	}

	table := &docx.Table{}
	for _, a := range t.Align {
		table.ColumnAlign = append(table.ColumnAlign, string(a))
	}
	for i, child := range t.Children {
		row, ok := child.(*mdast.TableRow)
		if !ok {
			continue
		}
		tr := &docx.TableRow{TableHeader: i == 0}
		for j, cell := range row.Children {
			tc, err := tableCell(ctx, c, cell, i == 0, columnAlign(t.Align, j))
			if err != nil {
				return convert.BlockResult{}, fmt.Errorf("row %d cell %d: %w", i, j, err)
			}
			tr.Cells = append(tr.Cells, tc)
		}
		table.Rows = append(table.Rows, tr)
	}
	return convert.ClaimBlocks(n, table), nil
}

func tableCell(ctx context.Context, c *convert.Converter, cell mdast.Node, header bool, align string) (*docx.TableCell, error) {
	run, err := docx.RunProps{Bold: header}.Merge(cell.NodeData())
	if err != nil {
		return nil, err
	}
	children, err := c.InlineChildren(ctx, cell, run)
	if err != nil {
		return nil, err
	}
	para := &docx.Paragraph{ParaProps: docx.ParaProps{Alignment: align}, Children: children}
	return &docx.TableCell{Children: []docx.Block{para}}, nil
}

func columnAlign(align []mdast.Align, col int) string {
	if col >= len(align) {
		return ""
	}
	return string(align[col])
}
