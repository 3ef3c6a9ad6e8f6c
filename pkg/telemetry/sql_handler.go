package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // same embedded driver the store uses
)

// SQLHandler is a slog.Handler that writes error logs to a SQLite database,
// usually the same file the exploration store lives in.
type SQLHandler struct {
	next      slog.Handler
	db        *sql.DB
	tableName string
}

// NewSQLHandler creates a new SQLHandler using an existing DB connection
func NewSQLHandler(next slog.Handler, db *sql.DB) (*SQLHandler, error) {
	h := &SQLHandler{
		next:      next,
		db:        db,
		tableName: "telemetry_logs",
	}

	if err := h.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure telemetry table: %w", err)
	}

	return h, nil
}

func (h *SQLHandler) ensureTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMP,
			level TEXT,
			message TEXT,
			run_id TEXT,
			source_file TEXT,
			line_number INTEGER,
			attributes TEXT
		)
	`, h.tableName)

	_, err := h.db.Exec(query)
	return err
}

// Enabled implements slog.Handler
func (h *SQLHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *SQLHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.next.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level < slog.LevelError {
		return nil
	}

	rec := newLogRecord(ctx, r)
	query := fmt.Sprintf(`
		INSERT INTO %s (id, timestamp, level, message, run_id, source_file, line_number, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, h.tableName)

	if _, err := h.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp, rec.Level, rec.Message,
		rec.RunID, rec.SourceFile, rec.LineNumber, rec.Attributes,
	); err != nil {
		return fmt.Errorf("writing telemetry row: %w", err)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *SQLHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SQLHandler{next: h.next.WithAttrs(attrs), db: h.db, tableName: h.tableName}
}

// WithGroup implements slog.Handler
func (h *SQLHandler) WithGroup(name string) slog.Handler {
	return &SQLHandler{next: h.next.WithGroup(name), db: h.db, tableName: h.tableName}
}
