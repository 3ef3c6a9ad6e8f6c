package telemetry

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLHandler(t *testing.T) (*SQLHandler, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A fresh pooled connection would see an empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	next := slog.NewTextHandler(io.Discard, nil)
	h, err := NewSQLHandler(next, db)
	require.NoError(t, err)
	return h, db
}

func TestSQLHandlerWritesErrorRecords(t *testing.T) {
	h, db := newTestSQLHandler(t)

	ctx, runID := WithRunID(t.Context())
	log := slog.New(h)
	log.ErrorContext(ctx, "provider fetch failed", "id", "p123")

	var message, gotRunID, attributes string
	row := db.QueryRow(`SELECT message, run_id, attributes FROM telemetry_logs`)
	require.NoError(t, row.Scan(&message, &gotRunID, &attributes))

	assert.Equal(t, "provider fetch failed", message)
	assert.Equal(t, runID, gotRunID)
	assert.Contains(t, attributes, "p123")
}

func TestSQLHandlerIgnoresSubErrorLevels(t *testing.T) {
	h, db := newTestSQLHandler(t)

	ctx, _ := WithRunID(t.Context())
	log := slog.New(h)
	log.InfoContext(ctx, "Persisted explored depths", "nodes", 3)
	log.WarnContext(ctx, "telemetry disabled")

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM telemetry_logs`).Scan(&count))
	assert.Zero(t, count)
}
