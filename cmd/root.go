package cmd

import (
	"os"

	"github.com/chriserin/md2docx/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFlag  string
	verboseFlag bool

	cfg    = config.Default()
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:          "md2docx",
	Short:        "md2docx converts Markdown into DOCX document trees",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configFlag
		if path == "" {
			path = config.FileName
		}
		loaded, err := config.LoadFromPath(path)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(cfg.LogLevel, verboseFlag)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default "+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug diagnostics to stderr")
}

func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
