package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/chriserin/md2docx/docx"
)

// Meta is the front matter of a source file.
type Meta struct {
	Title       string         `yaml:"title"`
	Author      string         `yaml:"author"`
	Description string         `yaml:"description"`
	Subject     string         `yaml:"subject"`
	Keywords    []string       `yaml:"keywords"`
	Tags        []string       `yaml:"tags"`
	Custom      map[string]any `yaml:",inline"`
}

func parseFrontMatter(source []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// Properties returns the document properties the front matter sets.
// Keywords and tags are merged into one comma-separated list.
func (m Meta) Properties() docx.Properties {
	keywords := append(append([]string(nil), m.Keywords...), m.Tags...)
	return docx.Properties{
		Title:       m.Title,
		Creator:     m.Author,
		Description: m.Description,
		Subject:     m.Subject,
		Keywords:    strings.Join(keywords, ", "),
	}
}

// IsZero reports whether the document had no front matter fields.
func (m Meta) IsZero() bool {
	return m.Title == "" && m.Author == "" && m.Description == "" && m.Subject == "" &&
		len(m.Keywords) == 0 && len(m.Tags) == 0 && len(m.Custom) == 0
}
