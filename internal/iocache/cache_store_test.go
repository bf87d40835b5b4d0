package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

func TestCacheStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(indexTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now().Unix()
	require.NoError(t, store.Set("k", []byte("v1"), 1, now))
	require.NoError(t, store.Set("k", []byte("v2"), 2, now+5))

	value, version, ts, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, now+5, ts)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalEntries)
	assert.Equal(t, now+5, status.LastEntryTime.Unix())
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestCacheStore_NoneBackend(t *testing.T) {
	store, err := NewCacheStore(indexTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestCacheStore_InvalidTableName(t *testing.T) {
	for _, name := range []string{"", "1abc", "drop table;", "a-b"} {
		_, err := NewCacheStore(name, schema.SQLiteBackend, "")
		assert.Error(t, err, name)
	}
}

func TestQuoteAndPlaceholder(t *testing.T) {
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
}

func TestClearCacheSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(indexTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	assert.NoFileExists(t, dbPath)
	// Clearing twice is fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearAnalysis(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearAnalysis(schema.NoneBackend, "", ""))
}

func TestCacheStoreManager(t *testing.T) {
	cache := &MockCacheStore{}
	analysis := &MockAnalysisStore{}
	mgr := NewCacheStoreManager(cache, analysis)
	assert.Same(t, cache, mgr.GetIndexStore())
	assert.Same(t, analysis, mgr.GetAnalysisStore())
}
