package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runInspect(t *testing.T, path string, asJSON, lowerHTML bool) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunInspect(&buf, path, asJSON, lowerHTML))
	return buf.String()
}

func TestInspect_Outline(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("a.md", []byte("# Title\n\n1. one\n2. two\n\n```go\nx := 1\n```\n"), 0o644))

	out := runInspect(t, "a.md", false, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "root", lines[0])
	assert.Equal(t, "  heading  depth=1", lines[1])
	assert.Equal(t, `    text  "Title"`, lines[2])
	assert.Contains(t, out, "  list  ordered start=1\n")
	assert.Contains(t, out, "    listItem\n")
	assert.Contains(t, out, "  code  lang=go lines=1\n")
}

func TestInspect_JSON(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("a.md", []byte("hello\n"), 0o644))

	out := runInspect(t, "a.md", true, false)

	assert.Contains(t, out, `"type": "root"`)
	assert.Contains(t, out, `"type": "paragraph"`)
	assert.Contains(t, out, `"value": "hello"`)
}

func TestInspect_LowersHTML(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("a.md", []byte("<h2>Raw</h2>\n"), 0o644))

	assert.Contains(t, runInspect(t, "a.md", false, false), "  html  ")

	out := runInspect(t, "a.md", false, true)
	assert.NotContains(t, out, "  html  ")
	assert.Contains(t, out, "heading  depth=2")
}

func TestInspect_MissingFile(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	assert.Error(t, RunInspect(&buf, "nope.md", false, false))
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, "short", abbreviate("short", 10))
	assert.Equal(t, "abcd…", abbreviate("abcdefgh", 5))
}
