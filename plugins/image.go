package plugins

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chriserin/md2docx/convert"
	"github.com/chriserin/md2docx/docx"
	"github.com/chriserin/md2docx/mdast"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/net/html"
)

const (
	placeholderSize = 100
	maxImageBytes   = 32 << 20
)

var (
	ErrNoSource         = errors.New("image has no source")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
)

// placeholderPNG stands in for images that cannot be loaded.
var placeholderPNG = func() []byte {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.Pix[0] = 0xd0
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// imageTypes maps detected MIME types to the formats a document can embed.
var imageTypes = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/bmp":     "bmp",
	"image/svg+xml": "svg",
}

// Fetcher retrieves remote image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// ImageCache stores fetched image bytes by source URL.
type ImageCache interface {
	Get(ctx context.Context, src string) ([]byte, bool, error)
	Put(ctx context.Context, src, mime string, data []byte) error
}

// HTTPFetcher fetches images over HTTP.
type HTTPFetcher struct {
	Client *http.Client
	// MaxBytes caps the response size. Zero means 32 MiB.
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", src, resp.Status)
	}
	limit := f.MaxBytes
	if limit <= 0 {
		limit = maxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("fetching %s: %w", src, ErrImageTooLarge)
	}
	return data, nil
}

// ImageOptions configures the image plugin.
type ImageOptions struct {
	// Fetcher retrieves http and https sources. Nil disables fetching.
	Fetcher Fetcher
	// Cache, when set, is consulted before fetching.
	Cache ImageCache
	// BaseDir resolves relative file sources.
	BaseDir string
	// Scale multiplies the size of images embedded as data URLs.
	Scale float64
}

// Image embeds the images of image and imageReference nodes. Images that
// cannot be loaded become a blank placeholder and a warning.
type Image struct {
	opts ImageOptions
}

// NewImage returns an image plugin.
func NewImage(opts ImageOptions) *Image {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Image{opts: opts}
}

func (*Image) Name() string { return "image" }

func (p *Image) Inline(ctx context.Context, n mdast.Node, _ docx.RunProps, c *convert.Converter) (convert.InlineResult, error) {
	var src, alt string
	switch n := n.(type) {
	case *mdast.Image:
		src, alt = n.URL, n.Alt
	case *mdast.ImageReference:
		src, _ = c.Definitions().Lookup(n.Identifier)
		alt = n.Alt
	default:
		return convert.InlineResult{}, nil
	}
	if alt == "" && !strings.HasPrefix(src, "data:") {
		alt = path.Base(strings.SplitN(src, "?", 2)[0])
	}

	run, err := p.resolve(ctx, src, n.NodeData())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return convert.InlineResult{}, ctxErr
		}
		c.Warn(convert.WarningPluginFallback, n, fmt.Sprintf("image %q: %v", truncate(src, 80), err))
		run = &docx.ImageRun{Type: "png", Data: placeholderPNG, Width: placeholderSize, Height: placeholderSize}
	}
	run.AltText = docx.AltText{Name: alt, Description: alt, Title: alt}
	return convert.ClaimInlines(n, run), nil
}

func (p *Image) resolve(ctx context.Context, src string, data mdast.Data) (*docx.ImageRun, error) {
	if src == "" {
		return nil, ErrNoSource
	}
	raw, scale, err := p.load(ctx, src)
	if err != nil {
		return nil, err
	}
	mime := mimetype.Detect(raw)
	kind, ok := imageTypes[mime.String()]
	if !ok {
		for m := mime.Parent(); m != nil && !ok; m = m.Parent() {
			kind, ok = imageTypes[m.String()]
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime.String())
	}

	var w, h int
	if kind == "svg" {
		w, h = svgSize(raw)
	} else {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("reading %s header: %w", kind, err)
		}
		w, h = cfg.Width, cfg.Height
	}
	w, h = int(math.Round(float64(w)*scale)), int(math.Round(float64(h)*scale))
	w, h = fitSize(w, h, intData(data, "width"), intData(data, "height"))
	return &docx.ImageRun{Type: kind, Data: raw, Width: w, Height: h}, nil
}

// load returns the bytes behind src and the scale to apply to them.
func (p *Image) load(ctx context.Context, src string) ([]byte, float64, error) {
	if strings.HasPrefix(src, "data:") {
		raw, err := decodeDataURL(src)
		return raw, p.opts.Scale, err
	}

	u, err := url.Parse(src)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		raw, err := p.fetch(ctx, src)
		return raw, 1, err
	}

	file := src
	if err == nil && u.Scheme == "file" {
		file = u.Path
	}
	if !filepath.IsAbs(file) && p.opts.BaseDir != "" {
		file = filepath.Join(p.opts.BaseDir, file)
	}
	raw, err := os.ReadFile(file)
	return raw, 1, err
}

func (p *Image) fetch(ctx context.Context, src string) ([]byte, error) {
	if p.opts.Cache != nil {
		if raw, ok, err := p.opts.Cache.Get(ctx, src); err == nil && ok {
			return raw, nil
		}
	}
	if p.opts.Fetcher == nil {
		return nil, fmt.Errorf("fetching %s: remote images are disabled", src)
	}
	raw, err := p.opts.Fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if p.opts.Cache != nil {
		if err := p.opts.Cache.Put(ctx, src, mimetype.Detect(raw).String(), raw); err != nil {
			return nil, fmt.Errorf("caching %s: %w", src, err)
		}
	}
	return raw, nil
}

func decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// svgSize reads the size an SVG document declares, from its width and
// height or its viewBox.
func svgSize(raw []byte) (int, int) {
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return placeholderSize, placeholderSize
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		if tok.Data != "svg" {
			continue
		}
		var w, h, boxW, boxH int
		for _, a := range tok.Attr {
			switch a.Key {
			case "width":
				w = cssLength(a.Val)
			case "height":
				h = cssLength(a.Val)
			case "viewbox":
				if f := strings.Fields(strings.ReplaceAll(a.Val, ",", " ")); len(f) == 4 {
					boxW, boxH = cssLength(f[2]), cssLength(f[3])
				}
			}
		}
		if w == 0 || h == 0 {
			w, h = boxW, boxH
		}
		if w == 0 || h == 0 {
			return placeholderSize, placeholderSize
		}
		return w, h
	}
}

func cssLength(v string) int {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return int(math.Round(f))
}

// fitSize applies the width and height a node asks for, keeping the aspect
// ratio when only one of them is given.
func fitSize(w, h, wantW, wantH int) (int, int) {
	switch {
	case wantW > 0 && wantH > 0:
		return wantW, wantH
	case wantW > 0 && w > 0:
		return wantW, int(math.Round(float64(h) * float64(wantW) / float64(w)))
	case wantH > 0 && h > 0:
		return int(math.Round(float64(w) * float64(wantH) / float64(h))), wantH
	}
	return w, h
}

func intData(data mdast.Data, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		return cssLength(v)
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
