package docx

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// Format selects the encoding Pack produces.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBase64 Format = "base64"
	FormatBuffer Format = "buffer"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatBase64, FormatBuffer:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Extension is the conventional file extension for output in format f.
func (f Format) Extension() string {
	switch f {
	case FormatBase64:
		return ".b64"
	case FormatBuffer:
		return ".bin"
	}
	return ".json"
}

// Pack encodes doc in format: indented JSON, compact JSON bytes, or the
// compact bytes base64-encoded.
func Pack(doc *Document, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := PackTo(&buf, doc, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PackTo writes doc to w in format.
func PackTo(w io.Writer, doc *Document, format Format) error {
	if doc == nil {
		return fmt.Errorf("packing document: nil document")
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("packing document: %w", err)
		}
	case FormatBuffer:
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("packing document: %w", err)
		}
	case FormatBase64:
		enc := base64.NewEncoder(base64.StdEncoding, w)
		if err := json.NewEncoder(enc).Encode(doc); err != nil {
			return fmt.Errorf("packing document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("packing document: %w", err)
		}
	default:
		return fmt.Errorf("packing document: unknown format %q", format)
	}
	return nil
}
