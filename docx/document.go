package docx

// Document is a converted document ready for a packer.
type Document struct {
	Props     Properties        `json:"properties"`
	Sections  []*Section        `json:"sections"`
	Footnotes map[int]*Footnote `json:"footnotes,omitempty"`
}

// Section is one converted input.
type Section struct {
	Props    SectionProps `json:"properties"`
	Children []Block      `json:"children"`
}

type Footnote struct {
	Children []Block `json:"children"`
}

// SectionProps holds page layout for one section.
type SectionProps struct {
	Page      *Page          `json:"page,omitempty" yaml:"page,omitempty"`
	TitlePage bool           `json:"titlePage,omitempty" yaml:"title_page,omitempty"`
	Headers   *HeaderFooter  `json:"headers,omitempty" yaml:"-"`
	Footers   *HeaderFooter  `json:"footers,omitempty" yaml:"-"`
	Extra     map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Page size and margins in twentieths of a point.
type Page struct {
	Width       int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int     `json:"height,omitempty" yaml:"height,omitempty"`
	Orientation string  `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Margin      *Margin `json:"margin,omitempty" yaml:"margin,omitempty"`
}

type Margin struct {
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
}

type HeaderFooter struct {
	Default []Block `json:"default,omitempty"`
	First   []Block `json:"first,omitempty"`
	Even    []Block `json:"even,omitempty"`
}

// IsZero reports whether p sets nothing.
func (p SectionProps) IsZero() bool {
	return p.Page == nil && !p.TitlePage && p.Headers == nil && p.Footers == nil && len(p.Extra) == 0
}

// Properties are the document-wide settings: metadata, styles and
// numbering definitions.
type Properties struct {
	Identifier     string         `json:"identifier,omitempty"`
	Title          string         `json:"title,omitempty"`
	Subject        string         `json:"subject,omitempty"`
	Creator        string         `json:"creator,omitempty"`
	Keywords       string         `json:"keywords,omitempty"`
	Description    string         `json:"description,omitempty"`
	LastModifiedBy string         `json:"lastModifiedBy,omitempty"`
	Styles         *Styles        `json:"styles,omitempty"`
	Numbering      *Numbering     `json:"numbering,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Styles are the default paragraph and run styles.
type Styles struct {
	Document StyleDef            `json:"document"`
	Headings map[string]StyleDef `json:"headings,omitempty"`
}

type StyleDef struct {
	Paragraph *ParaProps `json:"paragraph,omitempty"`
	Run       *RunProps  `json:"run,omitempty"`
}

// Numbering holds the numbering definitions paragraphs refer to by
// reference name.
type Numbering struct {
	Config []NumberingConfig `json:"config"`
}

type NumberingConfig struct {
	Reference string           `json:"reference"`
	Levels    []NumberingLevel `json:"levels"`
}

type NumberingLevel struct {
	Level     int     `json:"level"`
	Format    string  `json:"format"`
	Text      string  `json:"text"`
	Alignment string  `json:"alignment"`
	Indent    *Indent `json:"indent,omitempty"`
}

// Has reports whether a definition named reference exists.
func (n *Numbering) Has(reference string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Config {
		if c.Reference == reference {
			return true
		}
	}
	return false
}

// Add appends cfg unless a definition with the same reference exists.
func (n *Numbering) Add(cfg NumberingConfig) {
	if n.Has(cfg.Reference) {
		return
	}
	n.Config = append(n.Config, cfg)
}

// DefaultProperties returns the built-in style bundle: justified body text
// at 12pt with open line spacing and extra space above headings.
func DefaultProperties() Properties {
	headings := make(map[string]StyleDef, 6)
	for i := 1; i <= 6; i++ {
		headings[string(HeadingN(i))] = StyleDef{
			Paragraph: &ParaProps{Spacing: &Spacing{Before: 350}},
		}
	}
	return Properties{
		Styles: &Styles{
			Document: StyleDef{
				Paragraph: &ParaProps{
					Spacing:   &Spacing{Before: 175, Line: 300},
					Alignment: "thaiDistribute",
				},
				Run: &RunProps{Size: 24},
			},
			Headings: headings,
		},
	}
}

// WithDefaults returns p with every unset field taken from def.
func (p Properties) WithDefaults(def Properties) Properties {
	if p.Identifier == "" {
		p.Identifier = def.Identifier
	}
	if p.Title == "" {
		p.Title = def.Title
	}
	if p.Subject == "" {
		p.Subject = def.Subject
	}
	if p.Creator == "" {
		p.Creator = def.Creator
	}
	if p.Keywords == "" {
		p.Keywords = def.Keywords
	}
	if p.Description == "" {
		p.Description = def.Description
	}
	if p.LastModifiedBy == "" {
		p.LastModifiedBy = def.LastModifiedBy
	}
	if p.Styles == nil {
		p.Styles = def.Styles
	}
	if p.Numbering == nil && def.Numbering != nil {
		n := *def.Numbering
		n.Config = append([]NumberingConfig(nil), def.Numbering.Config...)
		p.Numbering = &n
	}
	if p.Extra == nil {
		p.Extra = def.Extra
	}
	return p
}
