package iocache

import (
	"database/sql"
	"testing"
	"time"

	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStore_SQLite(t *testing.T) {
	store, err := NewCacheStore("test_cache", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now().Unix()
	require.NoError(t, store.Set("roe:97179430:2023", []byte(`{"found":true}`), 1, now))

	value, version, ts, err := store.Get("roe:97179430:2023")
	require.NoError(t, err)
	assert.JSONEq(t, `{"found":true}`, string(value))
	assert.Equal(t, 1, version)
	assert.Equal(t, now, ts)

	// Set replaces
	require.NoError(t, store.Set("roe:97179430:2023", []byte(`{"found":false}`), 2, now+10))
	value, version, ts, err = store.Get("roe:97179430:2023")
	require.NoError(t, err)
	assert.JSONEq(t, `{"found":false}`, string(value))
	assert.Equal(t, 2, version)
	assert.Equal(t, now+10, ts)
}

func TestCacheStore_Status(t *testing.T) {
	store, err := NewCacheStore("test_cache", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEntries)

	require.NoError(t, store.Set("a", []byte("1"), 1, 100))
	require.NoError(t, store.Set("b", []byte("2"), 1, 200))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(200, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(100, 0), status.OldestEntryTime)
	assert.Positive(t, status.TableSizeBytes)
}

func TestCacheStore_NoneBackend(t *testing.T) {
	store, err := NewCacheStore("test_cache", schema.NoneBackend, "")
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
		_, err := NewCacheStore(name, schema.SQLiteBackend, ":memory:")
		assert.Error(t, err, name)
	}
}

func TestGetCreateCacheTableQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    []string
	}{
		{schema.SQLiteBackend, []string{`"metric_row_cache"`, "BLOB", "INTEGER NOT NULL"}},
		{schema.MySQLBackend, []string{"`metric_row_cache`", "VARCHAR(255)", "BIGINT"}},
		{schema.PostgreSQLBackend, []string{`"metric_row_cache"`, "BYTEA"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			query := getCreateCacheTableQuery(metricRowTable, tt.backend)
			for _, want := range tt.want {
				assert.Contains(t, query, want)
			}
		})
	}
}
