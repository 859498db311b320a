package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, newLogger("", false).GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, newLogger("error", false).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger("chatty", false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, newLogger("error", true).GetLevel())
}

func TestRoot_LoadsConfigFlag(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("custom.yaml", []byte("use_title: false\n"), 0o644))
	require.NoError(t, os.WriteFile("a.md", []byte("# Hi\n"), 0o644))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--config", "custom.yaml", "anchors", "a.md"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configFlag = ""
	})

	require.NoError(t, rootCmd.Execute())
	assert.False(t, cfg.UseTitle)
	assert.Contains(t, buf.String(), "#hi")
}
