package mdast

import "strings"

// TextContent returns the flattened text of n: the concatenated text of its
// children for parents, the literal value for leaves.
func TextContent(n Node) string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

func writeText(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		sb.WriteString(n.Value)
	case *InlineCode:
		sb.WriteString(n.Value)
	case *Code:
		sb.WriteString(n.Value)
	case *HTML:
		sb.WriteString(n.Value)
	case *Math:
		sb.WriteString(n.Value)
	case *InlineMath:
		sb.WriteString(n.Value)
	case *Image:
		sb.WriteString(n.Alt)
	case *ImageReference:
		sb.WriteString(n.Alt)
	case *Claimed:
		writeText(sb, n.Of)
	case *Unknown:
		if len(n.Children) == 0 {
			sb.WriteString(n.Value)
			return
		}
		for _, c := range n.Children {
			writeText(sb, c)
		}
	case Parent:
		for _, c := range n.ChildNodes() {
			writeText(sb, c)
		}
	}
}
