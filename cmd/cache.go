package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chriserin/md2docx/internal/config"
	"github.com/chriserin/md2docx/internal/db"
	"github.com/chriserin/md2docx/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Report on the image cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCacheReport(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached images",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCacheList(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached image",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCacheClear(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache(cfg *config.Config) (*db.ImageCache, func(), error) {
	if _, err := os.Stat(cfg.Image.CachePath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("no image cache at %s, run `md2docx init` first", cfg.Image.CachePath)
	}
	sqlDB, err := db.Open(cfg.Image.CachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening image cache: %w", err)
	}
	return db.NewImageCache(sqlDB), func() { sqlDB.Close() }, nil
}

func RunCacheReport(ctx context.Context, w io.Writer, cfg *config.Config) error {
	cache, done, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer done()

	s, err := cache.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Images: %d\n", s.Count)
	if s.Count == 0 {
		return nil
	}
	fmt.Fprintf(w, "  size: %s\n", humanize.Bytes(uint64(s.Bytes)))
	fmt.Fprintf(w, "  hits: %s\n", humanize.Comma(int64(s.Hits)))
	return nil
}

func RunCacheList(ctx context.Context, w io.Writer, cfg *config.Config) error {
	cache, done, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer done()

	images, err := cache.List(ctx)
	if err != nil {
		return err
	}

	// Compute column widths
	sourceWidth, mimeWidth := 0, 0
	for _, img := range images {
		sourceWidth = max(sourceWidth, len(img.Source))
		mimeWidth = max(mimeWidth, len(img.Mime))
	}

	for _, img := range images {
		ui.CacheRow(w, img.Source, img.Mime, img.Size, img.Hits, img.FetchedAt, sourceWidth, mimeWidth)
	}
	return nil
}

func RunCacheClear(ctx context.Context, w io.Writer, cfg *config.Config) error {
	cache, done, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer done()

	n, err := cache.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "removed %d cached %s\n", n, plural(int(n), "image", "images"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
