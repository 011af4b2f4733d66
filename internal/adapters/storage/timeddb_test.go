package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	_, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)")
	require.NoError(t, err)
	return db
}

func newTestObserver() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "test_query_duration_seconds",
		Help: "test",
	}, []string{"op"})
}

// TestTimedDB_ExecContext verifies ExecContext observes timing.
func TestTimedDB_ExecContext(t *testing.T) {
	obs := newTestObserver()
	tdb := NewTimedDB(openTimedTestDB(t), obs, 0)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(obs))
}

// TestTimedDB_QueryContext verifies each wrapped op gets its own series.
func TestTimedDB_QueryContext(t *testing.T) {
	obs := newTestObserver()
	tdb := NewTimedDB(openTimedTestDB(t), obs, 0)
	ctx := context.Background()

	_, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	require.NoError(t, err)

	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	require.NoError(t, err)
	count := 0
	for rows.Next() {
		count++
	}
	require.NoError(t, rows.Close())

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, testutil.CollectAndCount(obs))
}

// TestTimedDB_QueryRowContext verifies QueryRowContext passes results through.
func TestTimedDB_QueryRowContext(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), newTestObserver(), 0)
	ctx := context.Background()

	_, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	require.NoError(t, err)

	var val string
	require.NoError(t, tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val))
	assert.Equal(t, "hello", val)
}

// TestTimedDB_BeginTx verifies transactions work through the wrapper.
func TestTimedDB_BeginTx(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), newTestObserver(), 0)
	ctx := context.Background()

	tx, err := tdb.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "in-tx")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	var val string
	require.NoError(t, tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val))
	assert.Equal(t, "in-tx", val)
}

// TestTimedDB_NilObserver verifies the wrapper works without metrics.
func TestTimedDB_NilObserver(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, time.Nanosecond)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	assert.NoError(t, err)
}

// TestTimedDB_ErrorPassthrough verifies driver errors are returned unchanged.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), newTestObserver(), 0)
	ctx := context.Background()

	_, err := tdb.ExecContext(ctx, "INSERT INTO missing_table (id) VALUES (?)", "1")
	assert.Error(t, err)

	_, err = tdb.QueryContext(ctx, "SELECT * FROM missing_table")
	assert.Error(t, err)

	var v string
	err = tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "nope").Scan(&v)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

// TestTimedDB_DefaultThreshold verifies a non-positive threshold falls back to the default.
func TestTimedDB_DefaultThreshold(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 0)
	assert.Equal(t, DefaultSlowQuery, tdb.threshold)
}
