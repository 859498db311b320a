package convert

import (
	"errors"
	"sync"
)

var (
	ErrInvalidRoot         = errors.New("input is not a root node")
	ErrUnresolvedFootnote  = errors.New("footnote definition not found")
	ErrUnresolvedReference = errors.New("link reference has no definition")
)

type WarningType string

const (
	WarningUnsupportedNode     WarningType = "unsupported_node"
	WarningMissingPlugin       WarningType = "missing_plugin"
	WarningUnresolvedReference WarningType = "unresolved_reference"
	WarningDroppedContent      WarningType = "dropped_content"
	WarningPluginFallback      WarningType = "plugin_fallback"
)

// Warning is a non-fatal diagnostic raised while converting.
type Warning struct {
	Type    WarningType `json:"type"`
	Node    string      `json:"node,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Node == "" {
		return string(w.Type) + ": " + w.Message
	}
	return string(w.Type) + " [" + w.Node + "]: " + w.Message
}

type warnings struct {
	mu   sync.Mutex
	list []Warning
}

func (w *warnings) add(warn Warning) {
	w.mu.Lock()
	w.list = append(w.list, warn)
	w.mu.Unlock()
}

func (w *warnings) all() []Warning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Warning(nil), w.list...)
}
