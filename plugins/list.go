package plugins

import (
	"context"
	"fmt"
	"sync"

	"github.com/chriserin/md2docx/convert"
	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

// NumberingReference names the numbering definition List registers.
const NumberingReference = "num"

const listLevels = 9

// List converts ordered lists to numbered paragraphs and nests unordered
// ones. Every ordered list is its own numbering instance, so numbering
// restarts per list.
type List struct {
	mu        sync.Mutex
	instances map[*mdast.List]int
	next      int
}

// NewList returns a list plugin.
func NewList() *List {
	return &List{instances: map[*mdast.List]int{}}
}

func (*List) Name() string { return "list" }

// Root registers the decimal numbering definition.
func (*List) Root(props *docx.Properties) {
	if props.Numbering == nil {
		props.Numbering = &docx.Numbering{}
	}
	props.Numbering.Add(numbering())
}

// Preprocess numbers the ordered lists of root in document order.
func (l *List) Preprocess(_ context.Context, root *mdast.Root) (*mdast.Root, error) {
	mdast.Query(root, func(n *mdast.List) mdast.WalkResult {
		if n.Ordered {
			l.instance(n)
		}
		return mdast.WalkContinue
	})
	return root, nil
}

func (l *List) Block(ctx context.Context, n mdast.Node, props docx.ParaProps, c *convert.Converter) (convert.BlockResult, error) {
	list, ok := n.(*mdast.List)
	if !ok {
		return convert.BlockResult{}, nil
	}

	level := 0
	switch {
	case props.Numbering != nil:
		level = props.Numbering.Level + 1
	case props.Bullet != nil:
		level = props.Bullet.Level + 1
	}
	level = min(level, listLevels-1)

	if list.Ordered {
		ref := &docx.NumberingRef{Reference: NumberingReference, Level: level, Instance: l.instance(list)}
		if list.Start != nil && *list.Start != 1 {
			ref.Start = *list.Start
		}
		props.Numbering = ref
		props.Bullet = nil
	} else {
		props.Bullet = &docx.Bullet{Level: level}
		props.Numbering = nil
	}

	blocks, err := c.BlockChildren(ctx, list, props)
	if err != nil {
		return convert.BlockResult{}, fmt.Errorf("list: %w", err)
	}
	return convert.ClaimBlocks(n, blocks...), nil
}

func (l *List) instance(n *mdast.List) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if id, ok := l.instances[n]; ok {
		return id
	}
	l.next++
	l.instances[n] = l.next
	return l.next
}

func numbering() docx.NumberingConfig {
	cfg := docx.NumberingConfig{Reference: NumberingReference}
	for level := range listLevels {
		cfg.Levels = append(cfg.Levels, docx.NumberingLevel{
			Level:     level,
			Format:    "decimal",
			Text:      fmt.Sprintf("%%%d.", level+1),
			Alignment: "start",
			Indent:    &docx.Indent{Left: 720 * (level + 1), Hanging: 360},
		})
	}
	return cfg
}
