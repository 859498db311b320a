package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T) *ImageCache {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewImageCache(db)
}

func TestImageCache_Miss(t *testing.T) {
	c := openCache(t)
	data, ok, err := c.Get(context.Background(), "https://example.com/a.png")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestImageCache_PutGetCountsHits(t *testing.T) {
	ctx := context.Background()
	c := openCache(t)
	require.NoError(t, c.Put(ctx, "https://example.com/a.png", "image/png", []byte{1, 2, 3}))

	for range 2 {
		data, ok, err := c.Get(ctx, "https://example.com/a.png")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte{1, 2, 3}, data)
	}

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "image/png", list[0].Mime)
	assert.Equal(t, int64(3), list[0].Size)
	assert.Equal(t, 2, list[0].Hits)
	assert.WithinDuration(t, time.Now(), list[0].FetchedAt, time.Minute)
}

func TestImageCache_PutReplaces(t *testing.T) {
	ctx := context.Background()
	c := openCache(t)
	require.NoError(t, c.Put(ctx, "u", "image/png", []byte{1}))
	require.NoError(t, c.Put(ctx, "u", "image/gif", []byte{1, 2}))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "image/gif", list[0].Mime)
	assert.Equal(t, int64(2), list[0].Size)
}

func TestImageCache_StatsAndClear(t *testing.T) {
	ctx := context.Background()
	c := openCache(t)

	s, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, s)

	require.NoError(t, c.Put(ctx, "b", "image/png", make([]byte, 10)))
	require.NoError(t, c.Put(ctx, "a", "image/png", make([]byte, 5)))
	_, _, err = c.Get(ctx, "a")
	require.NoError(t, err)

	s, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Count: 2, Bytes: 15, Hits: 1}, s)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", list[0].Source)

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	s, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, s.Count)
}
