package plugins

import (
	"bytes"
	"context"
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"

	"github.com/chriserin/md2docx/mdast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML lowers raw HTML nodes into the mdast vocabulary the converter knows.
// Block HTML is parsed as a fragment; inline HTML arrives tag by tag, so
// matching open and close tags within one parent are paired and the nodes
// between them become the element's children. Style attributes become node
// data.
type HTML struct{}

func (HTML) Name() string { return "html" }

func (HTML) Preprocess(ctx context.Context, root *mdast.Root) (*mdast.Root, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if next, ok := rewrite(root).(*mdast.Root); ok {
		return next, nil
	}
	return root, nil
}

var (
	inlineTags = map[atom.Atom]bool{
		atom.A: true, atom.Abbr: true, atom.B: true, atom.Br: true, atom.Cite: true,
		atom.Code: true, atom.Del: true, atom.Dfn: true, atom.Em: true, atom.Font: true,
		atom.I: true, atom.Img: true, atom.Input: true, atom.Ins: true, atom.Kbd: true,
		atom.Label: true, atom.Mark: true, atom.Q: true, atom.S: true, atom.Samp: true,
		atom.Small: true, atom.Span: true, atom.Strike: true, atom.Strong: true,
		atom.Sub: true, atom.Sup: true, atom.Svg: true, atom.Tt: true, atom.U: true,
		atom.Var: true, atom.Wbr: true,
	}
	voidTags = map[atom.Atom]bool{
		atom.Br: true, atom.Img: true, atom.Input: true, atom.Wbr: true, atom.Hr: true,
	}
	spaces = regexp.MustCompile(`\s+`)
)

// rewrite lowers the HTML below n, returning n itself when there is none.
func rewrite(n mdast.Node) mdast.Node {
	p, ok := n.(mdast.Parent)
	if !ok {
		return n
	}
	var (
		children []mdast.Node
		changed  bool
	)
	switch n.(type) {
	case *mdast.Root, *mdast.Blockquote, *mdast.List, *mdast.ListItem,
		*mdast.FootnoteDefinition, *mdast.Table, *mdast.TableRow:
		children, changed = lowerBlocks(p.ChildNodes())
	default:
		children, changed = lowerInlines(p.ChildNodes())
	}
	if !changed {
		return n
	}
	return mdast.WithChildren(p, children)
}

func lowerBlocks(nodes []mdast.Node) ([]mdast.Node, bool) {
	out := make([]mdast.Node, 0, len(nodes))
	changed := false
	for _, n := range nodes {
		if raw, ok := n.(*mdast.HTML); ok {
			out = append(out, blockHTML(raw)...)
			changed = true
			continue
		}
		next := rewrite(n)
		changed = changed || next != n
		out = append(out, next)
	}
	return out, changed
}

func blockHTML(raw *mdast.HTML) []mdast.Node {
	nodes, err := html.ParseFragment(strings.NewReader(raw.Value), bodyContext())
	if err != nil {
		return []mdast.Node{raw}
	}
	out := blockNodes(nodes, nil)
	if len(raw.Data) == 0 {
		return out
	}
	return []mdast.Node{&mdast.Fragment{Base: mdast.Base{Data: raw.Data}, Children: out}}
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

type openTag struct {
	el       *html.Node
	children []mdast.Node
}

// lowerInlines pairs inline open and close tags among nodes.
func lowerInlines(nodes []mdast.Node) ([]mdast.Node, bool) {
	var (
		out     []mdast.Node
		stack   []*openTag
		changed bool
	)
	emit := func(ns ...mdast.Node) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.children = append(top.children, ns...)
			return
		}
		out = append(out, ns...)
	}
	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		emit(element(top.el, top.children)...)
	}

	for _, n := range nodes {
		raw, ok := n.(*mdast.HTML)
		if !ok {
			next := rewrite(n)
			changed = changed || next != n
			emit(next)
			continue
		}
		changed = true

		tok, single := singleTag(raw.Value)
		switch {
		case !single:
			emit(inlineHTML(raw.Value)...)
		case tok.Type == html.StartTagToken && !voidTags[tok.DataAtom]:
			stack = append(stack, &openTag{el: tokenElement(tok)})
		case tok.Type == html.StartTagToken || tok.Type == html.SelfClosingTagToken:
			emit(element(tokenElement(tok), nil)...)
		case tok.Type == html.EndTagToken:
			i := len(stack) - 1
			for i >= 0 && stack[i].el.Data != tok.Data {
				i--
			}
			if i < 0 {
				continue
			}
			for len(stack) > i {
				closeTop()
			}
		case tok.Type == html.TextToken:
			emit(textNodes(tok.Data)...)
		}
	}
	for len(stack) > 0 {
		closeTop()
	}
	return out, changed
}

// singleTag reports whether raw holds exactly one token, ignoring
// surrounding whitespace.
func singleTag(raw string) (html.Token, bool) {
	z := html.NewTokenizer(strings.NewReader(raw))
	var (
		tok   html.Token
		found bool
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tok, found
		}
		if tt == html.TextToken && strings.TrimSpace(string(z.Text())) == "" {
			continue
		}
		if found {
			return tok, false
		}
		tok = z.Token()
		found = true
	}
}

func tokenElement(tok html.Token) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tok.Data, DataAtom: tok.DataAtom, Attr: tok.Attr}
}

// inlineHTML converts a piece of markup found in inline position. Block
// elements in it contribute their inline content only.
func inlineHTML(raw string) []mdast.Node {
	nodes, err := html.ParseFragment(strings.NewReader(raw), bodyContext())
	if err != nil {
		return nil
	}
	var out []mdast.Node
	for _, n := range nodes {
		out = append(out, inlineNode(n)...)
	}
	return out
}

// blockNodes converts DOM siblings to block nodes, grouping runs of inline
// nodes into paragraphs. run is the inherited run formatting.
func blockNodes(nodes []*html.Node, run mdast.Data) []mdast.Node {
	var out, pending []mdast.Node
	flush := func() {
		pending = trimInline(pending)
		if len(pending) > 0 {
			out = append(out, &mdast.Paragraph{Children: wrapRun(pending, run)})
		}
		pending = nil
	}
	for _, n := range nodes {
		switch {
		case n.Type == html.TextNode, n.Type == html.ElementNode && inlineTags[n.DataAtom]:
			pending = append(pending, inlineNode(n)...)
		case n.Type == html.ElementNode:
			flush()
			out = append(out, blockNode(n, run)...)
		}
	}
	flush()
	return out
}

func blockNode(n *html.Node, inherited mdast.Data) []mdast.Node {
	st := parseStyle(attr(n, "style"))
	if a := textAlign(strings.ToLower(attr(n, "align"))); a != "" {
		st.para["alignment"] = a
	}
	delete(st.run, "border")
	run := mergeData(inherited, st.run)
	children := childNodes(n)

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		depth, _ := strconv.Atoi(n.Data[1:])
		return []mdast.Node{&mdast.Heading{
			Base:     base(st.para),
			Depth:    depth,
			Children: wrapRun(trimInline(inlineChildren(n)), run),
		}}
	case atom.Pre:
		return []mdast.Node{&mdast.Code{Base: base(st.para), Value: strings.Trim(textContent(n), "\n")}}
	case atom.Ul, atom.Ol:
		return []mdast.Node{list(n, st.para, run)}
	case atom.Hr:
		return []mdast.Node{&mdast.ThematicBreak{}}
	case atom.Blockquote:
		return []mdast.Node{&mdast.Blockquote{Base: base(st.para), Children: blockNodes(children, run)}}
	case atom.Table:
		return []mdast.Node{table(n, run)}
	case atom.Head, atom.Link, atom.Meta, atom.Script, atom.Style, atom.Template, atom.Title:
		return nil
	}
	// p, div, details, summary, li and the other grouping elements
	inner := blockNodes(children, run)
	if len(st.para) == 0 {
		return inner
	}
	return []mdast.Node{&mdast.Fragment{Base: base(st.para), Children: inner}}
}

func list(n *html.Node, para, run mdast.Data) *mdast.List {
	l := &mdast.List{Base: base(para), Ordered: n.DataAtom == atom.Ol}
	if l.Ordered {
		start := 1
		if s, err := strconv.Atoi(attr(n, "start")); err == nil {
			start = s
		}
		l.Start = &start
	}
	for _, c := range childNodes(n) {
		switch {
		case c.Type == html.ElementNode && c.DataAtom == atom.Li:
			item := &mdast.ListItem{}
			st := parseStyle(attr(c, "style"))
			item.Data = base(st.para).Data
			item.Children = blockNodes(childNodes(c), mergeData(run, st.run))
			l.Children = append(l.Children, item)
		case c.Type == html.ElementNode:
			l.Children = append(l.Children, &mdast.ListItem{Children: blockNode(c, run)})
		}
	}
	return l
}

func table(n *html.Node, run mdast.Data) *mdast.Table {
	t := &mdast.Table{}
	var rows func(*html.Node)
	rows = func(parent *html.Node) {
		for _, c := range childNodes(parent) {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead, atom.Tbody, atom.Tfoot:
				rows(c)
			case atom.Tr:
				row := &mdast.TableRow{}
				for _, cell := range childNodes(c) {
					if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
						continue
					}
					st := parseStyle(attr(cell, "style"))
					cellRun := mergeData(run, st.run)
					if cell.DataAtom == atom.Th && len(t.Children) > 0 {
						cellRun = mergeData(cellRun, mdast.Data{"bold": true})
					}
					if len(t.Children) == 0 {
						a := st.para["alignment"]
						if a == nil {
							a = textAlign(strings.ToLower(attr(cell, "align")))
						}
						align, _ := a.(string)
						t.Align = append(t.Align, mdast.Align(align))
					}
					row.Children = append(row.Children, &mdast.TableCell{
						Children: wrapRun(trimInline(inlineChildren(cell)), cellRun),
					})
				}
				t.Children = append(t.Children, row)
			}
		}
	}
	rows(n)
	return t
}

func inlineChildren(n *html.Node) []mdast.Node {
	var out []mdast.Node
	for _, c := range childNodes(n) {
		out = append(out, inlineNode(c)...)
	}
	return out
}

func inlineNode(n *html.Node) []mdast.Node {
	switch n.Type {
	case html.TextNode:
		return textNodes(n.Data)
	case html.ElementNode:
		if n.DataAtom == atom.Svg {
			return []mdast.Node{svgImage(n)}
		}
		return element(n, inlineChildren(n))
	}
	return nil
}

// element converts an inline element whose children are already converted.
func element(el *html.Node, children []mdast.Node) []mdast.Node {
	data := inlineData(el)
	b := base(data)

	switch el.DataAtom {
	case atom.Br:
		return []mdast.Node{&mdast.Break{}}
	case atom.Wbr:
		return nil
	case atom.Hr:
		return []mdast.Node{&mdast.Break{}}
	case atom.Img:
		return []mdast.Node{imageNode(el, data)}
	case atom.Input:
		if strings.EqualFold(attr(el, "type"), "checkbox") {
			return []mdast.Node{&mdast.Checkbox{Base: b, Checked: hasAttr(el, "checked")}}
		}
		return nil
	case atom.Code, atom.Kbd, atom.Samp, atom.Tt:
		return []mdast.Node{&mdast.InlineCode{Base: b, Value: mdast.TextContent(&mdast.Fragment{Children: children})}}
	case atom.B, atom.Strong:
		return []mdast.Node{&mdast.Strong{Base: b, Children: children}}
	case atom.I, atom.Em, atom.Cite, atom.Dfn, atom.Var:
		return []mdast.Node{&mdast.Emphasis{Base: b, Children: children}}
	case atom.S, atom.Del, atom.Strike:
		return []mdast.Node{&mdast.Delete{Base: b, Children: children}}
	case atom.A:
		if href := attr(el, "href"); href != "" {
			return []mdast.Node{&mdast.Link{Base: b, URL: href, Title: attr(el, "title"), Children: children}}
		}
	}
	if len(data) == 0 {
		return children
	}
	return []mdast.Node{&mdast.Fragment{Base: b, Children: children}}
}

// inlineData is the run formatting an inline element implies: its style
// attribute plus what the tag itself means.
func inlineData(el *html.Node) mdast.Data {
	data := parseStyle(attr(el, "style")).run
	switch el.DataAtom {
	case atom.Sup:
		data["superScript"] = true
	case atom.Sub:
		data["subScript"] = true
	case atom.U, atom.Ins:
		data["underline"] = "single"
	case atom.Mark:
		data["highlight"] = "yellow"
	case atom.Small:
		data["smallCaps"] = true
	case atom.Font:
		if c := cssColor(attr(el, "color")); c != "" {
			data["color"] = c
		}
		if face := attr(el, "face"); face != "" {
			data["font"] = face
		}
	}
	return data
}

func imageNode(el *html.Node, data mdast.Data) *mdast.Image {
	for _, key := range []string{"width", "height"} {
		if v, err := strconv.Atoi(strings.TrimSuffix(attr(el, key), "px")); err == nil {
			data[key] = v
		}
	}
	return &mdast.Image{Base: base(data), URL: attr(el, "src"), Title: attr(el, "title"), Alt: attr(el, "alt")}
}

func svgImage(el *html.Node) *mdast.Image {
	var buf bytes.Buffer
	if err := html.Render(&buf, el); err != nil {
		return &mdast.Image{}
	}
	img := imageNode(el, mdast.Data{})
	img.URL = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return img
}

func textNodes(s string) []mdast.Node {
	s = spaces.ReplaceAllString(s, " ")
	if s == "" {
		return nil
	}
	return []mdast.Node{&mdast.Text{Value: s}}
}

// trimInline drops the whitespace HTML layout leaves at both ends of a run
// of inline nodes.
func trimInline(nodes []mdast.Node) []mdast.Node {
	for len(nodes) > 0 {
		t, ok := nodes[0].(*mdast.Text)
		if !ok {
			break
		}
		if v := strings.TrimLeft(t.Value, " "); v != "" {
			nodes[0] = &mdast.Text{Value: v}
			break
		}
		nodes = nodes[1:]
	}
	for len(nodes) > 0 {
		last := len(nodes) - 1
		t, ok := nodes[last].(*mdast.Text)
		if !ok {
			break
		}
		if v := strings.TrimRight(t.Value, " "); v != "" {
			nodes[last] = &mdast.Text{Value: v}
			break
		}
		nodes = nodes[:last]
	}
	return nodes
}

func wrapRun(nodes []mdast.Node, run mdast.Data) []mdast.Node {
	if len(run) == 0 || len(nodes) == 0 {
		return nodes
	}
	return []mdast.Node{&mdast.Fragment{Base: base(run), Children: nodes}}
}

func mergeData(a, b mdast.Data) mdast.Data {
	if len(a) == 0 {
		return b
	}
	out := make(mdast.Data, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func base(data mdast.Data) mdast.Base {
	if len(data) == 0 {
		return mdast.Base{}
	}
	return mdast.Base{Data: data}
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
