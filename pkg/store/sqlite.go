package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/sixhops/sixhops/pkg/types"
)

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	tx  *sql.Tx
	log *slog.Logger
}

// NewSQLite opens (and if needed initializes) the SQLite database at path.
// Use ":memory:" for an ephemeral store.
func NewSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}

	// The whole subsystem assumes one shared connection; pooling would
	// break the transaction discipline.
	db.SetMaxOpenConns(1)

	for _, pragma := range allPragmas() {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}
	for _, stmt := range allSchemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	logger.Debug("opened sqlite store", "path", path)
	return &SQLiteStore{db: db, log: logger}, nil
}

// execer routes statements through the open transaction when there is one.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) execer() execer {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *SQLiteStore) Begin(ctx context.Context) error {
	if s.tx != nil {
		return ErrTransactionActive
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	s.tx = tx
	return nil
}

func (s *SQLiteStore) Commit(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadRecord(ctx context.Context, id types.ID) (*types.Metadata, int, error) {
	table, err := tableFor(id.Kind)
	if err != nil {
		return nil, 0, err
	}

	var blob sql.NullString
	var depth int
	row := s.execer().QueryRowContext(ctx,
		fmt.Sprintf(`SELECT metadata, explored_depth FROM %s WHERE id = ?`, table), id.N)
	switch err := row.Scan(&blob, &depth); {
	case errors.Is(err, sql.ErrNoRows):
		s.log.Debug("creating record", "id", id.String())
		if _, err := s.execer().ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, metadata, explored_depth) VALUES (?, NULL, 0)`, table), id.N); err != nil {
			return nil, 0, fmt.Errorf("creating record for %v: %w", id, err)
		}
		return nil, 0, nil
	case err != nil:
		return nil, 0, fmt.Errorf("loading record for %v: %w", id, err)
	}

	if !blob.Valid {
		return nil, depth, nil
	}
	var meta types.Metadata
	if err := json.Unmarshal([]byte(blob.String), &meta); err != nil {
		return nil, 0, fmt.Errorf("decoding metadata for %v: %w", id, err)
	}
	return &meta, depth, nil
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, id types.ID, meta *types.Metadata) error {
	table, err := tableFor(id.Kind)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata for %v: %w", id, err)
	}
	if _, err := s.execer().ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, metadata, explored_depth) VALUES (?, ?, 0)
			ON CONFLICT(id) DO UPDATE SET metadata = excluded.metadata`, table),
		id.N, string(blob)); err != nil {
		return fmt.Errorf("saving record for %v: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateDepth(ctx context.Context, id types.ID, depth int) error {
	table, err := tableFor(id.Kind)
	if err != nil {
		return err
	}
	if _, err := s.execer().ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET explored_depth = ? WHERE id = ?`, table), depth, id.N); err != nil {
		return fmt.Errorf("updating depth for %v: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) ListIDs(ctx context.Context, kind types.Kind) ([]types.ID, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.execer().QueryContext(ctx, fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var ids []types.ID
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		ids = append(ids, types.NewID(kind, n))
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) InsertCreditEdge(ctx context.Context, actor int64, credit types.ID) error {
	table, err := creditsTableFor(credit.Kind)
	if err != nil {
		return err
	}
	if _, err := s.execer().ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (actor, job) VALUES (?, ?) ON CONFLICT (actor, job) DO NOTHING`, table),
		actor, credit.N); err != nil {
		return fmt.Errorf("inserting credit edge (%d, %v): %w", actor, credit, err)
	}
	return nil
}

func (s *SQLiteStore) ActorsWithCredits(ctx context.Context, kind types.Kind) ([]int64, error) {
	table, err := creditsTableFor(kind)
	if err != nil {
		return nil, err
	}
	return s.queryInt64s(ctx, fmt.Sprintf(`SELECT DISTINCT actor FROM %s ORDER BY actor`, table))
}

func (s *SQLiteStore) ActorCredits(ctx context.Context, actor int64, kind types.Kind) ([]int64, error) {
	table, err := creditsTableFor(kind)
	if err != nil {
		return nil, err
	}
	return s.queryInt64s(ctx, fmt.Sprintf(`SELECT job FROM %s WHERE actor = ? ORDER BY job`, table), actor)
}

func (s *SQLiteStore) CreditActors(ctx context.Context, credit types.ID) ([]int64, error) {
	table, err := creditsTableFor(credit.Kind)
	if err != nil {
		return nil, err
	}
	return s.queryInt64s(ctx, fmt.Sprintf(`SELECT actor FROM %s WHERE job = ? ORDER BY actor`, table), credit.N)
}

func (s *SQLiteStore) queryInt64s(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}
