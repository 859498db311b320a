package plugins

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chriserin/md2docx/mdast"
	"golang.org/x/image/colornames"
)

var borderStyles = map[string]string{
	"solid":  "single",
	"dashed": "dashed",
	"dotted": "dotted",
	"double": "double",
	"none":   "none",
	"ridge":  "threeDEmboss",
	"groove": "threeDEngrave",
	"inset":  "inset",
	"outset": "outset",
}

// style is a parsed style attribute split by what it formats: runs or
// paragraphs.
type style struct {
	run  mdast.Data
	para mdast.Data
}

func parseStyle(attr string) style {
	s := style{run: mdast.Data{}, para: mdast.Data{}}
	borders := map[string]map[string]any{}

	for _, decl := range strings.Split(attr, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		lower := strings.ToLower(val)

		switch prop {
		case "font-weight":
			if n, err := strconv.Atoi(lower); (err == nil && n >= 500) || strings.Contains(lower, "bold") {
				s.run["bold"] = true
			}
		case "font-style":
			if lower == "italic" || lower == "oblique" {
				s.run["italics"] = true
			}
		case "text-decoration", "text-decoration-line":
			for _, f := range strings.Fields(lower) {
				switch f {
				case "underline":
					s.run["underline"] = "single"
				case "line-through":
					s.run["strike"] = true
				case "overline":
					s.run["emphasisMark"] = "dot"
				}
			}
		case "text-transform":
			switch lower {
			case "uppercase":
				s.run["allCaps"] = true
			case "lowercase":
				s.run["smallCaps"] = true
			}
		case "color":
			if c := cssColor(lower); c != "" {
				s.run["color"] = c
			}
		case "font-family":
			family, _, _ := strings.Cut(val, ",")
			if family = strings.Trim(strings.TrimSpace(family), `"'`); family != "" {
				s.run["font"] = family
			}
		case "font-size":
			if size := fontSize(lower); size > 0 {
				s.run["size"] = size
			}
		case "vertical-align":
			switch lower {
			case "super":
				s.run["superScript"] = true
			case "sub":
				s.run["subScript"] = true
			}
		case "text-align":
			if a := textAlign(lower); a != "" {
				s.para["alignment"] = a
			}
		case "border", "border-top", "border-bottom", "border-left", "border-right":
			if side := cssBorder(lower); side != nil {
				borders[strings.TrimPrefix(strings.TrimPrefix(prop, "border"), "-")] = side
			}
		}
	}

	if all, ok := borders[""]; ok {
		s.run["border"] = all
	}
	if len(borders) > 0 {
		box := map[string]any{}
		for _, edge := range []string{"top", "bottom", "left", "right"} {
			if side, ok := borders[edge]; ok {
				box[edge] = side
			} else if all, ok := borders[""]; ok {
				box[edge] = all
			}
		}
		s.para["border"] = box
	}
	return s
}

func textAlign(v string) string {
	switch v {
	case "left", "right", "center", "start", "end":
		return v
	case "justify":
		return "both"
	}
	return ""
}

// cssBorder parses a border shorthand such as "1px solid red". Widths are
// converted from pixels to eighths of a point.
func cssBorder(v string) map[string]any {
	side := map[string]any{"style": "single"}
	for _, part := range strings.Fields(v) {
		if st, ok := borderStyles[part]; ok {
			side["style"] = st
			continue
		}
		if px, ok := strings.CutSuffix(part, "px"); ok {
			if w, err := strconv.ParseFloat(px, 64); err == nil {
				side["size"] = int(math.Round(w * 6))
			}
			continue
		}
		if c := cssColor(part); c != "" {
			side["color"] = c
		}
	}
	return side
}

// fontSize converts a CSS font size to half-points.
func fontSize(v string) int {
	units := []struct {
		suffix string
		factor float64
	}{
		{"px", 1.5},
		{"pt", 2},
		{"rem", 24},
		{"em", 24},
	}
	for _, u := range units {
		if num, ok := strings.CutSuffix(v, u.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				return 0
			}
			return int(math.Round(f * u.factor))
		}
	}
	return 0
}

// cssColor returns v as an upper-case hex triplet without the leading '#',
// or "" when v is not a colour.
func cssColor(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case strings.HasPrefix(v, "#"):
		hex := v[1:]
		if len(hex) == 3 || len(hex) == 4 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 8 {
			hex = hex[:6]
		}
		if len(hex) != 6 {
			return ""
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return ""
		}
		return strings.ToUpper(hex)
	case strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba("):
		inner := strings.TrimSuffix(v[strings.Index(v, "(")+1:], ")")
		parts := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
		if len(parts) < 3 {
			return ""
		}
		var rgb [3]int
		for i := range rgb {
			n, err := strconv.Atoi(parts[i])
			if err != nil || n < 0 || n > 255 {
				return ""
			}
			rgb[i] = n
		}
		return fmt.Sprintf("%02X%02X%02X", rgb[0], rgb[1], rgb[2])
	}
	if c, ok := colornames.Map[v]; ok {
		return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
	}
	return ""
}
