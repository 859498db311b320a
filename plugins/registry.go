package plugins

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/md2docx/convert"
)

var ErrUnknownPlugin = errors.New("unknown plugin")

// DefaultNames is the plugin order used when none is configured. html runs
// first so the nodes it produces reach the others.
var DefaultNames = []string{"html", "image", "list", "table", "math"}

// Options configures the plugins ByName builds.
type Options struct {
	Image ImageOptions
	// List, when set, is used instead of a new list plugin. Sharing one
	// across the inputs of a document keeps their numbering instances
	// distinct.
	List *List
}

// ByName builds plugins in the order named. Names are case-insensitive.
func ByName(names []string, opts Options) ([]convert.Plugin, error) {
	out := make([]convert.Plugin, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "html":
			out = append(out, HTML{})
		case "image":
			out = append(out, NewImage(opts.Image))
		case "list":
			l := opts.List
			if l == nil {
				l = NewList()
			}
			out = append(out, l)
		case "table":
			out = append(out, Table{})
		case "math":
			out = append(out, Math{})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
		}
	}
	return out, nil
}
