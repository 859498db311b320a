package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.UseTitle)
	assert.Equal(t, []string{"html", "image", "list", "table", "math"}, cfg.Plugins)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "best-effort", cfg.Resolution)
	assert.Equal(t, 10*time.Second, cfg.Image.Timeout)
	assert.Equal(t, 1.0, cfg.Image.Scale)
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadFromPath_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`use_title: false
plugins: [table, list]
format: base64
document:
  title: Handbook
  keywords: [ops, runbook]
image:
  timeout: 2s
  scale: 0.5
`), 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.False(t, cfg.UseTitle)
	assert.Equal(t, []string{"table", "list"}, cfg.Plugins)
	assert.Equal(t, "base64", cfg.Format)
	assert.Equal(t, "Handbook", cfg.Document.Title)
	assert.Equal(t, 2*time.Second, cfg.Image.Timeout)
	assert.Equal(t, 0.5, cfg.Image.Scale)
	// untouched keys keep their defaults
	assert.Equal(t, 24, cfg.Styles.RunSize)
	assert.True(t, cfg.Image.CacheEnabled)
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("MD2DOCX_FORMAT", "buffer")
	t.Setenv("MD2DOCX_IMAGE_REMOTE", "false")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.Equal(t, "buffer", cfg.Format)
	assert.False(t, cfg.Image.Remote)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"format", "format: docx\n", "format"},
		{"resolution", "resolution: loose\n", "resolution"},
		{"log level", "log_level: chatty\n", "log level"},
		{"scale", "image:\n  scale: -1\n", "image.scale"},
		{"yaml", "plugins: [\n", "reading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadFromPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrite_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Document.Creator = "Docs Team"
	cfg.Image.Timeout = 30 * time.Second
	require.NoError(t, cfg.Write(path))

	got, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestProperties(t *testing.T) {
	cfg := Default()
	cfg.Document = DocumentConfig{Title: "T", Creator: "C", Keywords: []string{"a", "b"}}
	cfg.Styles.LineSpacing = 360
	cfg.Styles.RunSize = 22
	cfg.Styles.HeadingSpacingBefore = 200

	props := cfg.Properties()
	assert.Equal(t, "T", props.Title)
	assert.Equal(t, "C", props.Creator)
	assert.Equal(t, "a, b", props.Keywords)

	doc := props.Styles.Document
	assert.Equal(t, 175, doc.Paragraph.Spacing.Before)
	assert.Equal(t, 360, doc.Paragraph.Spacing.Line)
	assert.Equal(t, "thaiDistribute", doc.Paragraph.Alignment)
	assert.Equal(t, 22, doc.Run.Size)
	assert.Equal(t, 200, props.Styles.Headings["Heading3"].Paragraph.Spacing.Before)
}
