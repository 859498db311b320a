package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chriserin/md2docx/internal/markdown"
	"github.com/chriserin/md2docx/internal/ui"
	"github.com/chriserin/md2docx/mdast"
	"github.com/chriserin/md2docx/plugins"
	"github.com/spf13/cobra"
)

var (
	inspectJSON bool
	inspectHTML bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the mdast tree of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInspect(cmd.OutOrStdout(), args[0], inspectJSON, inspectHTML)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the tree as mdast JSON")
	inspectCmd.Flags().BoolVar(&inspectHTML, "html", false, "Lower raw HTML into mdast nodes first")
	rootCmd.AddCommand(inspectCmd)
}

func RunInspect(w io.Writer, path string, asJSON, lowerHTML bool) error {
	doc, err := markdown.ParseFile(path)
	if err != nil {
		return err
	}
	root := doc.Root
	if lowerHTML {
		root, err = plugins.HTML{}.Preprocess(context.Background(), root)
		if err != nil {
			return fmt.Errorf("lowering html: %w", err)
		}
	}

	if asJSON {
		return mdast.Encode(w, root)
	}
	outline(w, root, 0)
	return nil
}

func outline(w io.Writer, n mdast.Node, depth int) {
	ui.OutlineLine(w, depth, n.Kind().String(), nodeDetail(n))
	if p, ok := n.(mdast.Parent); ok {
		for _, child := range p.ChildNodes() {
			outline(w, child, depth+1)
		}
	}
}

func nodeDetail(n mdast.Node) string {
	switch n := n.(type) {
	case *mdast.Text:
		return strconv.Quote(abbreviate(n.Value, 40))
	case *mdast.InlineCode:
		return strconv.Quote(abbreviate(n.Value, 40))
	case *mdast.Heading:
		return "depth=" + strconv.Itoa(n.Depth)
	case *mdast.Code:
		return strings.TrimSpace("lang=" + n.Lang + " lines=" + strconv.Itoa(strings.Count(n.Value, "\n")+1))
	case *mdast.List:
		if !n.Ordered {
			return "unordered"
		}
		start := 1
		if n.Start != nil {
			start = *n.Start
		}
		return "ordered start=" + strconv.Itoa(start)
	case *mdast.ListItem:
		if n.Checked != nil {
			return "checked=" + strconv.FormatBool(*n.Checked)
		}
	case *mdast.Link:
		return n.URL
	case *mdast.Image:
		return abbreviate(n.URL, 60)
	case *mdast.LinkReference:
		return "[" + n.Identifier + "]"
	case *mdast.ImageReference:
		return "[" + n.Identifier + "]"
	case *mdast.Definition:
		return "[" + n.Identifier + "] " + n.URL
	case *mdast.FootnoteReference:
		return "[^" + n.Identifier + "]"
	case *mdast.FootnoteDefinition:
		return "[^" + n.Identifier + "]"
	case *mdast.HTML:
		return strconv.Quote(abbreviate(n.Value, 40))
	case *mdast.Math:
		return strconv.Quote(abbreviate(n.Value, 40))
	case *mdast.InlineMath:
		return strconv.Quote(abbreviate(n.Value, 40))
	}
	return ""
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
