package convert

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
)

func text(s string) *mdast.Text { return &mdast.Text{Value: s} }

func para(children ...mdast.Node) *mdast.Paragraph {
	return &mdast.Paragraph{Children: children}
}

func root(children ...mdast.Node) *mdast.Root {
	return &mdast.Root{Children: children}
}

func convertRoots(t *testing.T, defaults SectionOptions, roots ...*mdast.Root) *Result {
	t.Helper()
	inputs := make([]Input, len(roots))
	for i, r := range roots {
		inputs[i] = Input{Root: r}
	}
	res, err := Convert(context.Background(), inputs, docx.Properties{}, defaults)
	require.NoError(t, err)
	return res
}

func onlyBlocks(t *testing.T, res *Result) []docx.Block {
	t.Helper()
	require.Len(t, res.Document.Sections, 1)
	return res.Document.Sections[0].Children
}

func paragraphAt(t *testing.T, blocks []docx.Block, i int) *docx.Paragraph {
	t.Helper()
	require.Greater(t, len(blocks), i)
	p, ok := blocks[i].(*docx.Paragraph)
	require.True(t, ok, "block %d is %T", i, blocks[i])
	return p
}

func runAt(t *testing.T, children []docx.Inline, i int) *docx.TextRun {
	t.Helper()
	require.Greater(t, len(children), i)
	r, ok := children[i].(*docx.TextRun)
	require.True(t, ok, "child %d is %T", i, children[i])
	return r
}

func TestConvert_DefinitionsCaseInsensitive(t *testing.T) {
	r := root(
		para(
			&mdast.LinkReference{Identifier: "Foo", Children: []mdast.Node{text("a")}},
			&mdast.LinkReference{Identifier: "foo", Children: []mdast.Node{text("b")}},
		),
		&mdast.Definition{Identifier: "FOO", URL: "http://x"},
	)
	p := paragraphAt(t, onlyBlocks(t, convertRoots(t, SectionOptions{}, r)), 0)
	require.Len(t, p.Children, 2)
	for _, c := range p.Children {
		link, ok := c.(*docx.ExternalHyperlink)
		require.True(t, ok)
		assert.Equal(t, "http://x", link.Link)
	}
}

func TestResolveDefinitions_Nested(t *testing.T) {
	defs, footnotes := ResolveDefinitions([]mdast.Node{
		&mdast.Blockquote{Children: []mdast.Node{
			&mdast.Definition{Identifier: "a", URL: "first"},
		}},
		&mdast.FootnoteDefinition{Identifier: "n2", Children: []mdast.Node{para(text("two"))}},
		&mdast.FootnoteDefinition{Identifier: "n1", Children: []mdast.Node{
			&mdast.Definition{Identifier: "A", URL: "second"},
		}},
	})
	url, ok := defs.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "second", url)

	all := footnotes.All()
	require.Len(t, all, 2)
	assert.Equal(t, "n2", all[0].Identifier)
	assert.Equal(t, "n1", all[1].Identifier)
	assert.Zero(t, all[0].ID)
}

type runPlugin struct {
	name  string
	delay time.Duration
}

func (p runPlugin) Name() string { return p.name }

func (p runPlugin) Inline(ctx context.Context, n mdast.Node, props docx.RunProps, c *Converter) (InlineResult, error) {
	if _, ok := n.(*mdast.Text); !ok {
		return InlineResult{}, nil
	}
	time.Sleep(p.delay)
	return InlineResult{Children: []docx.Inline{docx.NewTextRun(p.name, props)}}, nil
}

func TestConvert_PluginOrderDeterministic(t *testing.T) {
	plugins := []Plugin{
		runPlugin{name: "A", delay: 20 * time.Millisecond},
		runPlugin{name: "B"},
	}
	for range 5 {
		res := convertRoots(t, SectionOptions{Plugins: plugins}, root(para(text("x"))))
		p := paragraphAt(t, onlyBlocks(t, res), 0)
		require.Len(t, p.Children, 3)
		assert.Equal(t, "A", runAt(t, p.Children, 0).Text)
		assert.Equal(t, "B", runAt(t, p.Children, 1).Text)
		assert.Equal(t, "x", runAt(t, p.Children, 2).Text)
	}
}

type claimPlugin struct{}

func (claimPlugin) Name() string { return "claim" }

func (claimPlugin) Inline(ctx context.Context, n mdast.Node, props docx.RunProps, c *Converter) (InlineResult, error) {
	if t, ok := n.(*mdast.Text); ok && t.Value == "secret" {
		return ClaimInlines(n, docx.NewTextRun("[redacted]", props)), nil
	}
	return InlineResult{}, nil
}

type seenPlugin struct {
	kinds []mdast.Kind
}

func (*seenPlugin) Name() string { return "seen" }

func (p *seenPlugin) Inline(ctx context.Context, n mdast.Node, props docx.RunProps, c *Converter) (InlineResult, error) {
	p.kinds = append(p.kinds, n.Kind())
	return InlineResult{}, nil
}

func TestConvert_ClaimVisibleToLaterPlugins(t *testing.T) {
	seen := &seenPlugin{}
	res := convertRoots(t, SectionOptions{Plugins: []Plugin{claimPlugin{}, seen}}, root(para(text("secret"))))
	p := paragraphAt(t, onlyBlocks(t, res), 0)
	require.Len(t, p.Children, 1)
	assert.Equal(t, "[redacted]", runAt(t, p.Children, 0).Text)
	assert.Equal(t, []mdast.Kind{mdast.ClaimedKind}, seen.kinds)
}

type failingPlugin struct{}

func (failingPlugin) Name() string { return "boom" }

func (failingPlugin) Block(ctx context.Context, n mdast.Node, props docx.ParaProps, c *Converter) (BlockResult, error) {
	return BlockResult{}, errors.New("exploded")
}

func TestConvert_PluginErrorWrapped(t *testing.T) {
	_, err := Convert(context.Background(), []Input{{Root: root(para(text("x")))}}, docx.Properties{}, SectionOptions{Plugins: []Plugin{failingPlugin{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin boom: exploded")
}

func TestConvert_FootnoteIDsAcrossInputs(t *testing.T) {
	first := root(
		para(text("a"), &mdast.FootnoteReference{Identifier: "x"}, &mdast.FootnoteReference{Identifier: "y"}),
		&mdast.FootnoteDefinition{Identifier: "x", Children: []mdast.Node{para(text("x body"))}},
		&mdast.FootnoteDefinition{Identifier: "y", Children: []mdast.Node{para(text("y body"))}},
	)
	second := root(
		para(text("b"), &mdast.FootnoteReference{Identifier: "X"}),
		&mdast.FootnoteDefinition{Identifier: "x", Children: []mdast.Node{para(text("other x"))}},
	)
	res := convertRoots(t, SectionOptions{}, first, second)

	require.Len(t, res.Document.Footnotes, 3)
	assert.Contains(t, res.Document.Footnotes, 1)
	assert.Contains(t, res.Document.Footnotes, 2)
	assert.Contains(t, res.Document.Footnotes, 3)

	body := paragraphAt(t, res.Document.Footnotes[3].Children, 0)
	assert.Equal(t, "other x", runAt(t, body.Children, 0).Text)

	p := paragraphAt(t, res.Document.Sections[0].Children, 0)
	assert.Equal(t, 1, p.Children[1].(*docx.FootnoteReferenceRun).ID)
	assert.Equal(t, 2, p.Children[2].(*docx.FootnoteReferenceRun).ID)
	p = paragraphAt(t, res.Document.Sections[1].Children, 0)
	assert.Equal(t, 3, p.Children[1].(*docx.FootnoteReferenceRun).ID)
}

func TestConvert_MissingFootnoteFails(t *testing.T) {
	r := root(para(&mdast.FootnoteReference{Identifier: "nope"}))
	_, err := Convert(context.Background(), []Input{{Root: r}}, docx.Properties{}, SectionOptions{})
	assert.ErrorIs(t, err, ErrUnresolvedFootnote)
}

func TestIDAllocator_Concurrent(t *testing.T) {
	alloc := &IDAllocator{}
	var seen [101]atomic.Bool
	done := make(chan struct{})
	for range 100 {
		go func() {
			id := alloc.Next()
			assert.False(t, seen[id].Swap(true))
			done <- struct{}{}
		}()
	}
	for range 100 {
		<-done
	}
	assert.Equal(t, 101, alloc.Next())
}

func TestConvert_SiblingContextIsolation(t *testing.T) {
	r := root(para(
		&mdast.Emphasis{Children: []mdast.Node{text("slanted")}},
		text("plain"),
	))
	p := paragraphAt(t, onlyBlocks(t, convertRoots(t, SectionOptions{}, r)), 0)
	require.Len(t, p.Children, 2)
	assert.True(t, runAt(t, p.Children, 0).Italics)
	assert.False(t, runAt(t, p.Children, 1).Italics)
}

func TestConvert_NodeDataMerged(t *testing.T) {
	strong := &mdast.Strong{Children: []mdast.Node{
		&mdast.Text{Base: mdast.Base{Data: mdast.Data{"color": "FF0000"}}, Value: "red"},
		text("bold"),
	}}
	p := paragraphAt(t, onlyBlocks(t, convertRoots(t, SectionOptions{}, root(para(strong)))), 0)
	red := runAt(t, p.Children, 0)
	assert.True(t, red.Bold)
	assert.Equal(t, "FF0000", red.Color)
	assert.Empty(t, runAt(t, p.Children, 1).Color)
}

func TestConvert_HeadingStyles(t *testing.T) {
	h1 := &mdast.Heading{Depth: 1, Children: []mdast.Node{text("One")}}
	h2 := &mdast.Heading{Depth: 2, Children: []mdast.Node{text("Two")}}

	blocks := onlyBlocks(t, convertRoots(t, SectionOptions{}, root(h1, h2)))
	assert.Equal(t, docx.Title, paragraphAt(t, blocks, 0).Heading)
	assert.Equal(t, docx.Heading1, paragraphAt(t, blocks, 1).Heading)

	off := false
	blocks = onlyBlocks(t, convertRoots(t, SectionOptions{UseTitle: &off}, root(h1, h2)))
	assert.Equal(t, docx.Heading1, paragraphAt(t, blocks, 0).Heading)
	assert.Equal(t, docx.Heading2, paragraphAt(t, blocks, 1).Heading)
}

func TestConvert_HeadingBookmarksUnique(t *testing.T) {
	r := root(
		&mdast.Heading{Depth: 2, Children: []mdast.Node{text("Set up. Now")}},
		&mdast.Heading{Depth: 2, Children: []mdast.Node{text("Set up  now!")}},
		para(&mdast.Link{URL: "#set-up-now-1", Children: []mdast.Node{text("jump")}}),
	)
	blocks := onlyBlocks(t, convertRoots(t, SectionOptions{}, r))
	first := paragraphAt(t, blocks, 0).Children[0].(*docx.Bookmark)
	second := paragraphAt(t, blocks, 1).Children[0].(*docx.Bookmark)
	assert.Equal(t, "set-up-now", first.ID)
	assert.Equal(t, "set-up-now-1", second.ID)

	link := paragraphAt(t, blocks, 2).Children[0].(*docx.InternalHyperlink)
	assert.Equal(t, "set-up-now-1", link.Anchor)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "crème-brûlée", Slugify("Crème Brûlée"))
	assert.Equal(t, "section", Slugify("!!!"))

	s := NewSlugger()
	assert.Equal(t, "a", s.Slug("A"))
	assert.Equal(t, "a-1", s.Slug("a"))
	assert.Equal(t, "a-1-1", s.Slug("a 1"))
	assert.Equal(t, "a-2", s.Slug("A"))
}

func TestConvert_TableWithoutPluginDegrades(t *testing.T) {
	r := root(
		para(text("before")),
		&mdast.Table{Children: []mdast.Node{&mdast.TableRow{}}},
		para(text("after")),
	)
	res := convertRoots(t, SectionOptions{}, r)
	blocks := onlyBlocks(t, res)
	require.Len(t, blocks, 2)
	assert.Equal(t, "before", runAt(t, paragraphAt(t, blocks, 0).Children, 0).Text)
	assert.Equal(t, "after", runAt(t, paragraphAt(t, blocks, 1).Children, 0).Text)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningMissingPlugin, res.Warnings[0].Type)
	assert.Equal(t, "table", res.Warnings[0].Node)
}

func TestConvert_UnsupportedNodeWarns(t *testing.T) {
	res := convertRoots(t, SectionOptions{}, root(&mdast.HTML{Value: "<div/>"}, para(&mdast.InlineMath{Value: "x"})))
	require.Len(t, res.Warnings, 2)
	for _, w := range res.Warnings {
		assert.Equal(t, WarningUnsupportedNode, w.Type)
	}
}

func TestConvert_InlineCodeInheritsDecorations(t *testing.T) {
	r := root(para(&mdast.Strong{Children: []mdast.Node{&mdast.InlineCode{Value: "x := 1"}}}))
	run := runAt(t, paragraphAt(t, onlyBlocks(t, convertRoots(t, SectionOptions{}, r)), 0).Children, 0)
	assert.True(t, run.Bold)
	assert.Equal(t, "code", run.Style)
	assert.Equal(t, "Consolas", run.Font)
}

func TestConvert_BreakHasNoDecoration(t *testing.T) {
	r := root(para(&mdast.Strong{Children: []mdast.Node{text("a"), &mdast.Break{}}}))
	run := runAt(t, paragraphAt(t, onlyBlocks(t, convertRoots(t, SectionOptions{}, r)), 0).Children, 1)
	assert.Equal(t, 1, run.Break)
	assert.False(t, run.Bold)
}

func TestConvert_CodeBlock(t *testing.T) {
	r := root(&mdast.Code{Lang: "go", Value: "a\nb"})
	p := paragraphAt(t, onlyBlocks(t, convertRoots(t, SectionOptions{}, r)), 0)
	assert.Equal(t, "blockCode", p.Style)
	require.Len(t, p.Children, 2)
	for i, want := range []string{"a", "b"} {
		run := runAt(t, p.Children, i)
		assert.Equal(t, want, run.Text)
		assert.Equal(t, 1, run.Break)
		assert.Equal(t, "Consolas", run.Font)
	}
}

func TestConvert_NestedListsAndTasks(t *testing.T) {
	checked := true
	r := root(&mdast.List{Children: []mdast.Node{
		&mdast.ListItem{Checked: &checked, Children: []mdast.Node{
			para(text("done")),
			&mdast.List{Children: []mdast.Node{
				&mdast.ListItem{Children: []mdast.Node{para(text("inner"))}},
			}},
		}},
	}})
	blocks := onlyBlocks(t, convertRoots(t, SectionOptions{}, r))
	require.Len(t, blocks, 2)

	outer := paragraphAt(t, blocks, 0)
	assert.Equal(t, 0, outer.Bullet.Level)
	assert.Equal(t, "☑", runAt(t, outer.Children, 0).Text)
	assert.Equal(t, " ", runAt(t, outer.Children, 1).Text)
	assert.Nil(t, outer.Checked)

	inner := paragraphAt(t, blocks, 1)
	assert.Equal(t, 1, inner.Bullet.Level)
	assert.Equal(t, "inner", runAt(t, inner.Children, 0).Text)
}

func TestConvert_OrderedListWarnsWithoutPlugin(t *testing.T) {
	r := root(&mdast.List{Ordered: true, Children: []mdast.Node{
		&mdast.ListItem{Children: []mdast.Node{para(text("one"))}},
	}})
	res := convertRoots(t, SectionOptions{}, r)
	assert.Len(t, onlyBlocks(t, res), 1)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningMissingPlugin, res.Warnings[0].Type)
}

func TestConvert_BlockquoteAndThematicBreak(t *testing.T) {
	r := root(&mdast.Blockquote{Children: []mdast.Node{para(text("q"))}}, &mdast.ThematicBreak{})
	blocks := onlyBlocks(t, convertRoots(t, SectionOptions{}, r))
	q := paragraphAt(t, blocks, 0)
	assert.True(t, q.Quote)
	assert.Equal(t, "Quote", q.Style)

	hr := paragraphAt(t, blocks, 1)
	assert.Empty(t, hr.Children)
	assert.Equal(t, &docx.BorderSide{Style: "single", Size: 6}, hr.Border.Top)
}

func TestConvert_UnresolvedLink(t *testing.T) {
	r := root(para(&mdast.LinkReference{Identifier: "missing", Children: []mdast.Node{text("dangling")}}))

	res := convertRoots(t, SectionOptions{}, r)
	p := paragraphAt(t, onlyBlocks(t, res), 0)
	assert.Equal(t, "dangling", runAt(t, p.Children, 0).Text)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningUnresolvedReference, res.Warnings[0].Type)

	_, err := Convert(context.Background(), []Input{{Root: r}}, docx.Properties{}, SectionOptions{}, WithResolution(ResolutionStrict))
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestConvert_InvalidRootIsolated(t *testing.T) {
	res, err := Convert(context.Background(), []Input{
		{Root: nil},
		{Root: root(para(text("fine")))},
	}, docx.Properties{}, SectionOptions{})
	require.ErrorIs(t, err, ErrInvalidRoot)
	assert.Contains(t, err.Error(), "input 0")
	require.NotNil(t, res)
	require.Len(t, res.Document.Sections, 1)
}

type numberingPlugin struct {
	calls *int
}

func (numberingPlugin) Name() string { return "numbering" }

func (p numberingPlugin) Root(props *docx.Properties) {
	*p.calls++
	if props.Numbering == nil {
		props.Numbering = &docx.Numbering{}
	}
	props.Numbering.Add(docx.NumberingConfig{Reference: "num"})
}

type rewritePlugin struct{}

func (rewritePlugin) Name() string { return "rewrite" }

func (rewritePlugin) Preprocess(ctx context.Context, r *mdast.Root) (*mdast.Root, error) {
	out := mdast.Filter(r, func(t *mdast.Text) ([]mdast.Node, mdast.WalkResult) {
		return []mdast.Node{text("rewritten")}, mdast.WalkReplace
	})
	return out.(*mdast.Root), nil
}

func TestConvert_RootHookOncePerPlugin(t *testing.T) {
	calls := 0
	p := &numberingPlugin{calls: &calls}
	override := SectionOptions{Plugins: []Plugin{p, rewritePlugin{}}}
	res, err := Convert(context.Background(), []Input{
		{Root: root(para(text("a")))},
		{Root: root(para(text("b"))), Section: &override},
	}, docx.Properties{}, SectionOptions{Plugins: []Plugin{p}})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, res.Document.Props.Numbering.Has("num"))

	first := paragraphAt(t, res.Document.Sections[0].Children, 0)
	second := paragraphAt(t, res.Document.Sections[1].Children, 0)
	assert.Equal(t, "a", runAt(t, first.Children, 0).Text)
	assert.Equal(t, "rewritten", runAt(t, second.Children, 0).Text)
}

func TestConvert_PreprocessLeavesInputUntouched(t *testing.T) {
	r := root(para(text("orig")))
	_, err := Convert(context.Background(), []Input{{Root: r}}, docx.Properties{}, SectionOptions{Plugins: []Plugin{rewritePlugin{}}})
	require.NoError(t, err)
	assert.Equal(t, "orig", mdast.TextContent(r))
}

func TestConvert_DefaultsAndIdentifier(t *testing.T) {
	res := convertRoots(t, SectionOptions{}, root())
	props := res.Document.Props
	assert.NotEmpty(t, props.Identifier)
	require.NotNil(t, props.Styles)
	assert.Equal(t, 24, props.Styles.Document.Run.Size)

	res, err := Convert(context.Background(), nil, docx.Properties{Identifier: "fixed", Title: "T"}, SectionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", res.Document.Props.Identifier)
	assert.Equal(t, "T", res.Document.Props.Title)
	assert.Empty(t, res.Document.Sections)
}

func TestConvert_SectionPropsOverride(t *testing.T) {
	landscape := SectionOptions{Props: docx.SectionProps{Page: &docx.Page{Orientation: "landscape"}}}
	res, err := Convert(context.Background(), []Input{
		{Root: root()},
		{Root: root(), Section: &landscape},
	}, docx.Properties{}, SectionOptions{Props: docx.SectionProps{TitlePage: true}})
	require.NoError(t, err)
	assert.True(t, res.Document.Sections[0].Props.TitlePage)
	assert.Equal(t, "landscape", res.Document.Sections[1].Props.Page.Orientation)
}

func TestConvert_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Convert(ctx, []Input{{Root: root(para(text("x")))}}, docx.Properties{}, SectionOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToDocx(t *testing.T) {
	out, err := ToDocx(context.Background(), []Input{{Root: root(para(text("x")))}}, docx.Properties{}, SectionOptions{}, docx.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"text": "x"`)

	_, err = ToDocx(context.Background(), []Input{{}}, docx.Properties{}, SectionOptions{}, docx.FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidRoot)
}
