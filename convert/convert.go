// Package convert turns Markdown syntax trees into a word-processing
// document model. Each input tree becomes one section; footnotes from every
// input share one numbering. Plugins extend the conversion at the tree,
// block, inline and document level.
package convert

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Input is one tree to convert and the options for its section.
type Input struct {
	Root    *mdast.Root
	Section *SectionOptions
}

// SectionOptions configure the conversion of one section. Options given on
// an Input replace the defaults field by field.
type SectionOptions struct {
	// UseTitle maps depth-1 headings to the Title style. Nil means true.
	UseTitle *bool
	Plugins  []Plugin
	Props    docx.SectionProps
}

func (o SectionOptions) over(def SectionOptions) SectionOptions {
	if o.UseTitle == nil {
		o.UseTitle = def.UseTitle
	}
	if o.Plugins == nil {
		o.Plugins = def.Plugins
	}
	if o.Props.IsZero() {
		o.Props = def.Props
	}
	return o
}

func (o SectionOptions) useTitle() bool {
	return o.UseTitle == nil || *o.UseTitle
}

// Resolution decides what happens to links whose target cannot be found.
type Resolution string

const (
	// ResolutionBestEffort keeps the link text unlinked and records a warning.
	ResolutionBestEffort Resolution = "best-effort"
	// ResolutionStrict fails the conversion with ErrUnresolvedReference.
	ResolutionStrict Resolution = "strict"
)

// ParseResolution returns the Resolution named s; empty means best effort.
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case "", ResolutionBestEffort:
		return ResolutionBestEffort, nil
	case ResolutionStrict:
		return r, nil
	}
	return "", fmt.Errorf("unknown resolution mode %q", s)
}

type options struct {
	log        zerolog.Logger
	resolution Resolution
}

type Option func(*options)

// WithLogger sets the logger diagnostics are written to. The default
// discards them.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithResolution(r Resolution) Option {
	return func(o *options) { o.resolution = r }
}

// Result is a converted document and the warnings raised on the way.
type Result struct {
	Document *docx.Document
	Warnings []Warning
}

type prepared struct {
	index   int
	root    *mdast.Root
	section SectionOptions
	conv    *Converter
}

// Convert builds one document from inputs, one section per input in order.
//
// props are the document properties; fields left unset take the values of
// docx.DefaultProperties. defaults are the section options every input
// starts from.
//
// An input that fails does not stop the others: the result holds the
// sections that converted and the returned error joins every failure.
func Convert(ctx context.Context, inputs []Input, props docx.Properties, defaults SectionOptions, opts ...Option) (*Result, error) {
	o := options{log: zerolog.Nop(), resolution: ResolutionBestEffort}
	for _, opt := range opts {
		opt(&o)
	}

	props = props.WithDefaults(docx.DefaultProperties())
	if props.Numbering != nil {
		n := *props.Numbering
		n.Config = slices.Clone(n.Config)
		props.Numbering = &n
	}
	if props.Identifier == "" {
		props.Identifier = uuid.NewString()
	}

	hooks := &rootHooks{seen: map[any]bool{}, props: &props}
	hooks.run(defaults.Plugins)

	warns := &warnings{}
	alloc := &IDAllocator{}
	slugger := NewSlugger()
	errs := make([]error, len(inputs))
	var ready []*prepared

	for i, in := range inputs {
		if in.Root == nil {
			errs[i] = fmt.Errorf("input %d: %w", i, ErrInvalidRoot)
			continue
		}
		section := defaults
		if in.Section != nil {
			section = in.Section.over(defaults)
		}
		root, err := preprocess(ctx, in.Root, section.Plugins)
		if err != nil {
			errs[i] = fmt.Errorf("input %d: %w", i, err)
			continue
		}
		defs, footnotes := ResolveDefinitions(root.Children)
		AssignFootnoteIDs(footnotes, alloc)
		anchors := anchorTable{}
		assignAnchors(root, slugger, anchors)
		hooks.run(section.Plugins)

		ready = append(ready, &prepared{
			index:   i,
			root:    root,
			section: section,
			conv: &Converter{
				defs:      defs,
				footnotes: footnotes,
				plugins:   section.Plugins,
				useTitle:  section.useTitle(),
				anchors:   anchors,
				strict:    o.resolution == ResolutionStrict,
				log:       o.log.With().Int("input", i).Logger(),
				warnings:  warns,
			},
		})
	}

	sections := make([]*docx.Section, len(inputs))
	notes := make([][]renderedFootnote, len(inputs))
	var wg sync.WaitGroup
	for _, p := range ready {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn, err := p.conv.renderFootnotes(ctx)
			if err != nil {
				errs[p.index] = fmt.Errorf("input %d: %w", p.index, err)
				return
			}
			blocks, err := p.conv.BlockChildren(ctx, p.root, docx.ParaProps{})
			if err != nil {
				errs[p.index] = fmt.Errorf("input %d: %w", p.index, err)
				return
			}
			notes[p.index] = fn
			sections[p.index] = &docx.Section{Props: p.section.Props, Children: blocks}
		}()
	}
	wg.Wait()

	doc := &docx.Document{Props: props, Footnotes: map[int]*docx.Footnote{}}
	for i, s := range sections {
		if s == nil {
			continue
		}
		doc.Sections = append(doc.Sections, s)
		for _, fn := range notes[i] {
			doc.Footnotes[fn.id] = fn.note
		}
	}

	res := &Result{Document: doc, Warnings: warns.all()}
	if err := errors.Join(errs...); err != nil {
		return res, err
	}
	return res, nil
}

// ToDocx converts inputs and packs the document in format.
func ToDocx(ctx context.Context, inputs []Input, props docx.Properties, defaults SectionOptions, format docx.Format, opts ...Option) ([]byte, error) {
	res, err := Convert(ctx, inputs, props, defaults, opts...)
	if err != nil {
		return nil, err
	}
	return docx.Pack(res.Document, format)
}
