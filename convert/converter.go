package convert

import (
	"context"
	"fmt"
	"slices"

	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Converter turns one input tree into document blocks. Plugins receive it so
// they can convert the children of nodes they handle.
type Converter struct {
	defs      Definitions
	footnotes *FootnoteDefinitions
	plugins   []Plugin
	useTitle  bool
	anchors   anchorTable
	strict    bool
	log       zerolog.Logger
	warnings  *warnings
}

// Definitions returns the link definitions of the tree being converted.
func (c *Converter) Definitions() Definitions { return c.defs }

// FootnoteDefinitions returns the footnotes of the tree being converted.
func (c *Converter) FootnoteDefinitions() *FootnoteDefinitions { return c.footnotes }

// Logger returns the conversion logger.
func (c *Converter) Logger() zerolog.Logger { return c.log }

// Warn records a warning about n and logs it.
func (c *Converter) Warn(typ WarningType, n mdast.Node, msg string) {
	w := Warning{Type: typ, Message: msg}
	if n != nil {
		w.Node = string(n.Kind())
	}
	c.warnings.add(w)
	c.log.Warn().Str("type", string(typ)).Str("node", w.Node).Msg(msg)
}

// BlockChildren converts the children of parent to blocks. Siblings are
// converted concurrently; the result keeps their order.
func (c *Converter) BlockChildren(ctx context.Context, parent mdast.Node, props docx.ParaProps) ([]docx.Block, error) {
	p, ok := parent.(mdast.Parent)
	if !ok {
		return nil, nil
	}
	return fanOut(ctx, p.ChildNodes(), func(ctx context.Context, _ int, n mdast.Node) ([]docx.Block, error) {
		return c.block(ctx, n, props)
	})
}

// InlineChildren converts the children of parent to paragraph children.
// Siblings are converted concurrently; the result keeps their order.
func (c *Converter) InlineChildren(ctx context.Context, parent mdast.Node, props docx.RunProps) ([]docx.Inline, error) {
	p, ok := parent.(mdast.Parent)
	if !ok {
		return nil, nil
	}
	return fanOut(ctx, p.ChildNodes(), func(ctx context.Context, _ int, n mdast.Node) ([]docx.Inline, error) {
		return c.inline(ctx, n, props)
	})
}

// fanOut runs fn for every node on its own goroutine and concatenates the
// results in node order. The first error cancels ctx for the others.
func fanOut[T any](ctx context.Context, nodes []mdast.Node, fn func(context.Context, int, mdast.Node) ([]T, error)) ([]T, error) {
	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return fn(ctx, 0, nodes[0])
	}
	results := make([][]T, len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	for i, n := range nodes {
		g.Go(func() error {
			out, err := fn(gctx, i, n)
			results[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

func (c *Converter) unsupported(n mdast.Node, level string) {
	c.Warn(WarningUnsupportedNode, n, fmt.Sprintf("no %s conversion for %q; register a plugin that handles it", level, n.Kind()))
}

func (c *Converter) anchor(h *mdast.Heading) string {
	if id, ok := c.anchors[h]; ok {
		return id
	}
	return Slugify(mdast.TextContent(h))
}
