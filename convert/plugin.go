package convert

import (
	"context"
	"fmt"
	"reflect"

	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

// Plugin extends the converter. A plugin implements any of Preprocessor,
// BlockHandler, InlineHandler and RootHandler; the converter discovers them
// with type assertions.
type Plugin interface {
	Name() string
}

// Preprocessor rewrites a whole tree before any conversion of it starts.
type Preprocessor interface {
	Plugin
	Preprocess(ctx context.Context, root *mdast.Root) (*mdast.Root, error)
}

// BlockHandler sees every block-level node before the built-in conversion.
type BlockHandler interface {
	Plugin
	Block(ctx context.Context, n mdast.Node, props docx.ParaProps, c *Converter) (BlockResult, error)
}

// InlineHandler sees every inline node before the built-in conversion.
type InlineHandler interface {
	Plugin
	Inline(ctx context.Context, n mdast.Node, props docx.RunProps, c *Converter) (InlineResult, error)
}

// RootHandler adjusts document properties, for example to register the
// numbering definitions its paragraphs refer to. Root runs once per plugin
// value per conversion and must be idempotent.
type RootHandler interface {
	Plugin
	Root(props *docx.Properties)
}

// BlockResult is what a BlockHandler produced for a node. Blocks are
// emitted ahead of the built-in output. A non-nil Replace stands in for the
// node for later plugins and the built-in conversion; mdast.Claim(n)
// suppresses the built-in output.
type BlockResult struct {
	Blocks  []docx.Block
	Replace mdast.Node
}

// InlineResult is the inline counterpart of BlockResult.
type InlineResult struct {
	Children []docx.Inline
	Replace  mdast.Node
}

// ClaimBlocks is the result of a block hook that handled n completely.
func ClaimBlocks(n mdast.Node, blocks ...docx.Block) BlockResult {
	return BlockResult{Blocks: blocks, Replace: mdast.Claim(n)}
}

// ClaimInlines is the result of an inline hook that handled n completely.
func ClaimInlines(n mdast.Node, children ...docx.Inline) InlineResult {
	return InlineResult{Children: children, Replace: mdast.Claim(n)}
}

func (c *Converter) blockPlugins(ctx context.Context, n mdast.Node, props docx.ParaProps) ([]docx.Block, mdast.Node, error) {
	var out []docx.Block
	for _, p := range c.plugins {
		h, ok := p.(BlockHandler)
		if !ok {
			continue
		}
		res, err := h.Block(ctx, n, props, c)
		if err != nil {
			return nil, n, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		out = append(out, res.Blocks...)
		if res.Replace != nil {
			n = res.Replace
		}
	}
	return out, n, nil
}

func (c *Converter) inlinePlugins(ctx context.Context, n mdast.Node, props docx.RunProps) ([]docx.Inline, mdast.Node, error) {
	var out []docx.Inline
	for _, p := range c.plugins {
		h, ok := p.(InlineHandler)
		if !ok {
			continue
		}
		res, err := h.Inline(ctx, n, props, c)
		if err != nil {
			return nil, n, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		out = append(out, res.Children...)
		if res.Replace != nil {
			n = res.Replace
		}
	}
	return out, n, nil
}

func preprocess(ctx context.Context, root *mdast.Root, plugins []Plugin) (*mdast.Root, error) {
	for _, p := range plugins {
		h, ok := p.(Preprocessor)
		if !ok {
			continue
		}
		next, err := h.Preprocess(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		if next != nil {
			root = next
		}
	}
	return root, nil
}

// rootHooks runs each RootHandler once, skipping plugin values already in
// seen.
type rootHooks struct {
	seen  map[any]bool
	props *docx.Properties
}

func (r *rootHooks) run(plugins []Plugin) {
	for _, p := range plugins {
		h, ok := p.(RootHandler)
		if !ok {
			continue
		}
		if reflect.TypeOf(p).Comparable() {
			if r.seen[p] {
				continue
			}
			r.seen[p] = true
		}
		h.Root(r.props)
	}
}
