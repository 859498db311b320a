package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chriserin/md2docx/convert"
	"github.com/chriserin/md2docx/internal/markdown"
	"github.com/chriserin/md2docx/internal/ui"
	"github.com/chriserin/md2docx/mdast"
	"github.com/chriserin/md2docx/plugins"
	"github.com/spf13/cobra"
)

var anchorsCmd = &cobra.Command{
	Use:   "anchors <file>...",
	Short: "List the bookmark anchors headings get, in document order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunAnchors(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(anchorsCmd)
}

type anchorRow struct {
	level int
	slug  string
	text  string
}

// RunAnchors prints the anchors of the headings in paths. The files share
// one namespace, as they do when combined into one document. Headings
// written as raw HTML are included.
func RunAnchors(w io.Writer, paths []string) error {
	slugger := convert.NewSlugger()
	var rows []anchorRow
	for _, path := range paths {
		doc, err := markdown.ParseFile(path)
		if err != nil {
			return err
		}
		root, err := plugins.HTML{}.Preprocess(context.Background(), doc.Root)
		if err != nil {
			return fmt.Errorf("lowering html in %s: %w", path, err)
		}
		mdast.Query(root, func(h *mdast.Heading) mdast.WalkResult {
			text := mdast.TextContent(h)
			rows = append(rows, anchorRow{level: h.Depth, slug: slugger.Slug(text), text: text})
			return mdast.WalkSkip
		})
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.slug)+1)
	}
	for _, r := range rows {
		ui.AnchorLine(w, r.level, r.slug, r.text, width)
	}
	return nil
}
