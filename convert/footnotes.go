package convert

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

// IDAllocator hands out footnote ids starting at 1. One allocator spans
// every input of a conversion so ids are unique document-wide.
type IDAllocator struct {
	last atomic.Int64
}

func (a *IDAllocator) Next() int {
	return int(a.last.Add(1))
}

// AssignFootnoteIDs numbers every footnote in footnotes that has no id yet,
// in first-seen order.
func AssignFootnoteIDs(footnotes *FootnoteDefinitions, alloc *IDAllocator) {
	for _, def := range footnotes.All() {
		if def.ID == 0 {
			def.ID = alloc.Next()
		}
	}
}

// footnoteID resolves a footnote reference to its assigned id.
func (c *Converter) footnoteID(n *mdast.FootnoteReference) (int, error) {
	def, ok := c.footnotes.Lookup(n.Identifier)
	if !ok || def.ID == 0 {
		return 0, fmt.Errorf("footnote %q: %w", n.Identifier, ErrUnresolvedFootnote)
	}
	return def.ID, nil
}

type renderedFootnote struct {
	id   int
	note *docx.Footnote
}

// renderFootnotes converts each footnote body as a root of its own with an
// empty paragraph context.
func (c *Converter) renderFootnotes(ctx context.Context) ([]renderedFootnote, error) {
	defs := c.footnotes.All()
	out := make([]renderedFootnote, len(defs))
	nodes := make([]mdast.Node, len(defs))
	for i, def := range defs {
		nodes[i] = &mdast.Root{Children: def.Children}
	}
	_, err := fanOut(ctx, nodes, func(ctx context.Context, i int, n mdast.Node) ([]docx.Block, error) {
		blocks, err := c.BlockChildren(ctx, n, docx.ParaProps{})
		if err != nil {
			return nil, fmt.Errorf("footnote %q: %w", defs[i].Identifier, err)
		}
		out[i] = renderedFootnote{id: defs[i].ID, note: &docx.Footnote{Children: blocks}}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
