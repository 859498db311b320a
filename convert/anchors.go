package convert

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/chriserin/md2docx/mdast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify turns heading text into a bookmark id: lower-cased, every run of
// characters other than letters and digits collapsed to one hyphen, with no
// leading or trailing hyphen.
func Slugify(text string) string {
	lower := cases.Lower(language.Und).String(text)
	var sb strings.Builder
	pending := false
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	if sb.Len() == 0 {
		return "section"
	}
	return sb.String()
}

// Slugger hands out unique slugs; a repeated slug gets a -1, -2, ...
// suffix in the order it is requested.
type Slugger struct {
	mu   sync.Mutex
	seen map[string]int
}

func NewSlugger() *Slugger {
	return &Slugger{seen: map[string]int{}}
}

func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	slug := base
	if n, ok := s.seen[base]; ok {
		for {
			slug = base + "-" + strconv.Itoa(n)
			n++
			if _, taken := s.seen[slug]; !taken {
				break
			}
		}
		s.seen[base] = n
	}
	s.seen[slug] = 1
	return slug
}

type anchorTable map[*mdast.Heading]string

// assignAnchors records a unique slug for every heading below root in
// document order.
func assignAnchors(root *mdast.Root, slugger *Slugger, table anchorTable) {
	mdast.Query(root, func(h *mdast.Heading) mdast.WalkResult {
		table[h] = slugger.Slug(mdast.TextContent(h))
		return mdast.WalkSkip
	})
}
