package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ImageCache keeps fetched remote images keyed by their source URL.
type ImageCache struct {
	db *sql.DB
}

func NewImageCache(db *sql.DB) *ImageCache {
	return &ImageCache{db: db}
}

// CachedImage describes one cache entry without its bytes.
type CachedImage struct {
	Source    string
	Mime      string
	Size      int64
	Hits      int
	FetchedAt time.Time
}

type Stats struct {
	Count int
	Bytes int64
	Hits  int
}

// Get returns the bytes cached for src and counts the hit.
func (c *ImageCache) Get(ctx context.Context, src string) ([]byte, bool, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM images WHERE source = ?`, src).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached image: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `UPDATE images SET hits = hits + 1 WHERE source = ?`, src); err != nil {
		return nil, false, fmt.Errorf("counting cache hit: %w", err)
	}
	return data, true, nil
}

// Put stores data for src, replacing an earlier entry.
func (c *ImageCache) Put(ctx context.Context, src, mime string, data []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO images (source, mime, data, size) VALUES (?, ?, ?, ?)
		ON CONFLICT (source) DO UPDATE SET
			mime = excluded.mime,
			data = excluded.data,
			size = excluded.size,
			fetched_at = datetime('now')
	`, src, mime, data, len(data))
	if err != nil {
		return fmt.Errorf("caching image: %w", err)
	}
	return nil
}

// List returns the cache entries ordered by source.
func (c *ImageCache) List(ctx context.Context) ([]CachedImage, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT source, mime, size, hits, CAST(strftime('%s', fetched_at) AS INTEGER)
		FROM images
		ORDER BY source
	`)
	if err != nil {
		return nil, fmt.Errorf("listing cached images: %w", err)
	}
	defer rows.Close()

	var out []CachedImage
	for rows.Next() {
		var (
			img     CachedImage
			fetched int64
		)
		if err := rows.Scan(&img.Source, &img.Mime, &img.Size, &img.Hits, &fetched); err != nil {
			return nil, fmt.Errorf("scanning cached image: %w", err)
		}
		img.FetchedAt = time.Unix(fetched, 0).UTC()
		out = append(out, img)
	}
	return out, rows.Err()
}

func (c *ImageCache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size), 0), COALESCE(SUM(hits), 0) FROM images`).
		Scan(&s.Count, &s.Bytes, &s.Hits)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return s, nil
}

// Clear removes every entry and returns how many there were.
func (c *ImageCache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM images`)
	if err != nil {
		return 0, fmt.Errorf("clearing image cache: %w", err)
	}
	return res.RowsAffected()
}
