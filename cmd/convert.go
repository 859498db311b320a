package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/md2docx/convert"
	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/internal/config"
	"github.com/chriserin/md2docx/internal/db"
	"github.com/chriserin/md2docx/internal/markdown"
	"github.com/chriserin/md2docx/internal/ui"
	"github.com/chriserin/md2docx/plugins"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ConvertOptions are the per-run settings layered over the config.
type ConvertOptions struct {
	// Output is the output file, or the output directory when several
	// documents are written. "-" writes to w.
	Output string
	Format string
	// Combine puts every input into one document, one section each.
	Combine bool
	Strict  bool
	Log     zerolog.Logger
}

var convertOpts ConvertOptions

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert Markdown or mdast JSON files into DOCX document trees",
	Long: `Convert Markdown or mdast JSON files into DOCX document trees.

With --combine every input becomes one section of a single document. The
document properties come from the first input's front matter; front matter
in later inputs is reported and ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := convertOpts
		opts.Log = logger
		return RunConvert(cmd.Context(), cmd.OutOrStdout(), cfg, opts, args)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOpts.Output, "output", "o", "", "Output file or directory (- for stdout)")
	convertCmd.Flags().StringVarP(&convertOpts.Format, "format", "f", "", "Output format: json, base64 or buffer")
	convertCmd.Flags().BoolVar(&convertOpts.Combine, "combine", false, "Write all inputs as sections of one document")
	convertCmd.Flags().BoolVar(&convertOpts.Strict, "strict", false, "Fail on unresolved link references")
	rootCmd.AddCommand(convertCmd)
}

type job struct {
	inputs []*markdown.Document
	out    string
	data   []byte
	warns  []convert.Warning
	err    error
}

func RunConvert(ctx context.Context, w io.Writer, cfg *config.Config, opts ConvertOptions, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := docx.ParseFormat(firstNonEmpty(opts.Format, cfg.Format))
	if err != nil {
		return err
	}
	resolution, err := convert.ParseResolution(cfg.Resolution)
	if err != nil {
		return err
	}
	if opts.Strict {
		resolution = convert.ResolutionStrict
	}

	imageOpts := plugins.ImageOptions{Scale: cfg.Image.Scale}
	if cfg.Image.Remote {
		imageOpts.Fetcher = plugins.NewHTTPFetcher(cfg.Image.Timeout)
		if cfg.Image.CacheEnabled {
			sqlDB, err := db.Open(cfg.Image.CachePath)
			if err != nil {
				return fmt.Errorf("opening image cache: %w", err)
			}
			defer sqlDB.Close()
			imageOpts.Cache = db.NewImageCache(sqlDB)
		}
	}

	docs := make([]*markdown.Document, len(paths))
	for i, path := range paths {
		doc, err := markdown.ParseFile(path)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	var jobs []*job
	if opts.Combine {
		jobs = []*job{{inputs: docs, out: outputPath(opts.Output, cfg.OutputDir, docs[0].Path, format, false)}}
	} else {
		multi := len(docs) > 1
		for _, doc := range docs {
			jobs = append(jobs, &job{inputs: []*markdown.Document{doc}, out: outputPath(opts.Output, cfg.OutputDir, doc.Path, format, multi)})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, j := range jobs {
		g.Go(func() error {
			j.data, j.warns, j.err = convertJob(gctx, cfg, j.inputs, imageOpts, format, resolution, opts.Log)
			return nil
		})
	}
	g.Wait()

	failed, warnCount := 0, 0
	for _, j := range jobs {
		source := j.inputs[0].Path
		for _, warn := range j.warns {
			ui.WarningLine(w, source, warn.String())
		}
		warnCount += len(j.warns)
		if j.err != nil {
			ui.FailLine(w, source, j.err)
			failed++
			continue
		}
		if err := writeOutput(w, j.out, j.data); err != nil {
			return err
		}
		if j.out != "-" {
			ui.WroteLine(w, j.out, len(j.data))
		}
	}

	ui.SummaryLine(w, len(jobs)-failed, warnCount)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(jobs))
	}
	return nil
}

func convertJob(ctx context.Context, cfg *config.Config, docs []*markdown.Document, imageOpts plugins.ImageOptions, format docx.Format, resolution convert.Resolution, log zerolog.Logger) ([]byte, []convert.Warning, error) {
	list := plugins.NewList()
	inputs := make([]convert.Input, len(docs))
	for i, doc := range docs {
		opts := imageOpts
		opts.BaseDir = filepath.Dir(doc.Path)
		chain, err := plugins.ByName(cfg.Plugins, plugins.Options{Image: opts, List: list})
		if err != nil {
			return nil, nil, err
		}
		inputs[i] = convert.Input{Root: doc.Root, Section: &convert.SectionOptions{Plugins: chain}}
	}

	useTitle := cfg.UseTitle
	props := docs[0].Meta.Properties().WithDefaults(cfg.Properties())
	res, err := convert.Convert(ctx, inputs, props, convert.SectionOptions{UseTitle: &useTitle},
		convert.WithLogger(log.With().Str("source", docs[0].Path).Logger()),
		convert.WithResolution(resolution),
	)
	if err != nil {
		return nil, warningsOf(res), err
	}
	warns := res.Warnings
	for _, doc := range docs[1:] {
		if !doc.Meta.IsZero() {
			warns = append(warns, convert.Warning{
				Type:    convert.WarningDroppedContent,
				Message: fmt.Sprintf("front matter of %s ignored, properties come from %s", doc.Path, docs[0].Path),
			})
		}
	}
	data, err := docx.Pack(res.Document, format)
	return data, warns, err
}

func warningsOf(res *convert.Result) []convert.Warning {
	if res == nil {
		return nil
	}
	return res.Warnings
}

// outputPath names the file a document is written to. Without an explicit
// output the document lands next to its first input, or in dir when set.
// A name that would overwrite the input gets a .docx infix.
func outputPath(output, dir, input string, format docx.Format, multi bool) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := stem + format.Extension()
	if name == filepath.Base(input) {
		name = stem + ".docx" + format.Extension()
	}
	switch {
	case output == "-":
		return "-"
	case output != "" && !multi:
		return output
	case output != "":
		return filepath.Join(output, name)
	case dir != "":
		return filepath.Join(dir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}

func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "-" {
		if _, err := w.Write(data); err != nil {
			return err
		}
		if !bytes.HasSuffix(data, []byte("\n")) {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
