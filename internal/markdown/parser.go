package markdown

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/md2docx/mdast"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Document is a parsed source file: its tree, its front matter and the name
// it is known by.
type Document struct {
	Name string
	Path string
	Meta Meta
	Root *mdast.Root
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
)

// Parse parses Markdown content, with optional front matter, into an mdast
// tree.
func Parse(filename string, content []byte) (*Document, error) {
	meta, body, err := parseFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	node := md.Parser().Parse(text.NewReader(body))
	root := lower(node, body)

	name := meta.Title
	if name == "" {
		name = filenameWithoutExt(filename)
	}
	return &Document{Name: name, Path: filename, Meta: meta, Root: root}, nil
}

// ParseFile reads path and parses it. Files ending in .json are read as
// mdast JSON; anything else as Markdown.
func ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		root, err := mdast.Decode(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return &Document{Name: filenameWithoutExt(path), Path: path, Root: root}, nil
	}
	return Parse(path, content)
}

func filenameWithoutExt(filename string) string {
	name := filepath.Base(filename)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
