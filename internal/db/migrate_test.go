package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func withMigrations(t *testing.T, migrations ...string) {
	t.Helper()
	orig := All
	All = migrations
	t.Cleanup(func() { All = orig })
}

func version(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_version`).Scan(&v))
	return v
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n))
	return n == 1
}

func TestMigrate_InitializesVersionToZero(t *testing.T) {
	withMigrations(t)
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))

	assert.True(t, tableExists(t, db, "schema_version"))
	assert.Equal(t, 0, version(t, db))
}

func TestMigrate_RunsPendingMigrations(t *testing.T) {
	withMigrations(t,
		`CREATE TABLE test_one (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE test_two (id INTEGER PRIMARY KEY)`,
	)
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))

	assert.Equal(t, 2, version(t, db))
	assert.True(t, tableExists(t, db, "test_one"))
	assert.True(t, tableExists(t, db, "test_two"))
}

func TestMigrate_SkipsAlreadyAppliedMigrations(t *testing.T) {
	withMigrations(t, `CREATE TABLE test_idem (id INTEGER PRIMARY KEY)`)
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, 1, version(t, db))
}

func TestMigrate_RollsBackOnFailure(t *testing.T) {
	withMigrations(t,
		`CREATE TABLE test_good (id INTEGER PRIMARY KEY)`,
		`INVALID SQL STATEMENT`,
	)
	db := openTestDB(t)
	require.Error(t, Migrate(context.Background(), db))
	assert.Equal(t, 1, version(t, db))
}

func TestMigrate_CacheSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, len(All), version(t, db))
	assert.True(t, tableExists(t, db, "images"))
}

func TestOpen_CreatesDirectoryAndUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.True(t, tableExists(t, db, "images"))
}
