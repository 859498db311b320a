package mdast

// WalkResult is the result of a walk operation.
type WalkResult int

const (
	// WalkContinue continues into the children of the current node.
	WalkContinue WalkResult = iota
	// WalkReplace replaces the current node with the nodes returned by the
	// function. Only Filter honours it.
	WalkReplace
	// WalkSkip skips the children of the current node.
	WalkSkip
	// WalkStop ends the walk immediately.
	WalkStop
)

// Walk visits n and its descendants depth-first, pre-order.
func Walk(n Node, fun func(Node) WalkResult) WalkResult {
	if n == nil {
		return WalkContinue
	}
	switch fun(n) {
	case WalkStop:
		return WalkStop
	case WalkSkip:
		return WalkContinue
	}
	if p, ok := n.(Parent); ok {
		for _, c := range p.ChildNodes() {
			if Walk(c, fun) == WalkStop {
				return WalkStop
			}
		}
	}
	return WalkContinue
}

// Query applies fun to every descendant of n whose type is T. fun is not
// applied to n itself.
//
//	var headings int
//	mdast.Query(root, func(h *mdast.Heading) mdast.WalkResult {
//		headings++
//		return mdast.WalkSkip
//	})
func Query[T Node](n Node, fun func(T) WalkResult) {
	p, ok := n.(Parent)
	if !ok {
		return
	}
	for _, c := range p.ChildNodes() {
		r := Walk(c, func(c Node) WalkResult {
			if t, ok := c.(T); ok {
				return fun(t)
			}
			return WalkContinue
		})
		if r == WalkStop {
			return
		}
	}
}

// Filter applies fun to every descendant of n whose type is T and returns n
// with the replacements applied. Nodes on the path to a replacement are
// copied; n and its original descendants are left untouched. Returning an
// empty slice with WalkReplace removes the node.
func Filter[T Node](n Node, fun func(T) ([]Node, WalkResult)) Node {
	out, _, _ := filter(n, fun)
	return out
}

func filter[T Node](n Node, fun func(T) ([]Node, WalkResult)) (Node, bool, WalkResult) {
	p, ok := n.(Parent)
	if !ok {
		return n, false, WalkContinue
	}
	children := p.ChildNodes()
	updated := false
	for i := 0; i < len(children); {
		c := children[i]
		if t, ok := c.(T); ok {
			replace, result := fun(t)
			switch result {
			case WalkStop:
				return withUpdate(p, children, updated), updated, WalkStop
			case WalkSkip:
				i++
				continue
			case WalkReplace:
				if !updated {
					updated = true
					children = append([]Node(nil), children...)
				}
				children = append(children[:i], append(append([]Node(nil), replace...), children[i+1:]...)...)
				i += len(replace)
				continue
			}
		}
		item, changed, result := filter(c, fun)
		if changed {
			if !updated {
				updated = true
				children = append([]Node(nil), children...)
			}
			children[i] = item
		}
		if result == WalkStop {
			return withUpdate(p, children, updated), updated, WalkStop
		}
		i++
	}
	return withUpdate(p, children, updated), updated, WalkContinue
}

func withUpdate(p Parent, children []Node, updated bool) Node {
	if !updated {
		return p
	}
	return WithChildren(p, children)
}

// WithChildren returns a shallow copy of p holding children.
func WithChildren(p Parent, children []Node) Parent {
	switch n := p.(type) {
	case *Root:
		c := *n
		c.Children = children
		return &c
	case *Emphasis:
		c := *n
		c.Children = children
		return &c
	case *Strong:
		c := *n
		c.Children = children
		return &c
	case *Delete:
		c := *n
		c.Children = children
		return &c
	case *Link:
		c := *n
		c.Children = children
		return &c
	case *LinkReference:
		c := *n
		c.Children = children
		return &c
	case *Paragraph:
		c := *n
		c.Children = children
		return &c
	case *Heading:
		c := *n
		c.Children = children
		return &c
	case *List:
		c := *n
		c.Children = children
		return &c
	case *ListItem:
		c := *n
		c.Children = children
		return &c
	case *Blockquote:
		c := *n
		c.Children = children
		return &c
	case *FootnoteDefinition:
		c := *n
		c.Children = children
		return &c
	case *Table:
		c := *n
		c.Children = children
		return &c
	case *TableRow:
		c := *n
		c.Children = children
		return &c
	case *TableCell:
		c := *n
		c.Children = children
		return &c
	case *Fragment:
		c := *n
		c.Children = children
		return &c
	case *Unknown:
		c := *n
		c.Children = children
		return &c
	}
	return p
}
