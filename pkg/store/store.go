// Package store persists per-node metadata documents and the explored-depth
// high-water mark, and maintains the actor/credit edge tables populated by
// the maintenance pass. Three backends implement the same contract: SQLite
// (default, embedded), Badger (embedded KV) and Neo4j (remote).
//
// Transaction discipline is strictly single-writer with no nesting: an
// exploration run executes inside one transaction, and opening a second
// while one is active fails immediately. Records are never deleted, and
// explored_depth is only ever written by callers that guarantee monotonic
// non-decrease; the store does not re-validate.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sixhops/sixhops/pkg/types"
)

var (
	// ErrTransactionActive is returned by Begin while a transaction is
	// already open. It indicates a programming error in the caller.
	ErrTransactionActive = errors.New("transaction already in progress")

	// ErrNoTransaction is returned by Commit and Rollback without an open
	// transaction.
	ErrNoTransaction = errors.New("no transaction in progress")
)

// Store is the durable ledger contract consumed by the cache and the
// exploration run driver.
type Store interface {
	// LoadRecord returns the stored metadata (nil when the identity has
	// never been resolved) and the persisted explored depth, creating a
	// zero-depth record when none exists. It never fetches remotely.
	LoadRecord(ctx context.Context, id types.ID) (*types.Metadata, int, error)

	// SaveRecord upserts the metadata document for an existing record.
	SaveRecord(ctx context.Context, id types.ID, meta *types.Metadata) error

	// UpdateDepth sets the explored depth for an identity. Callers guarantee
	// monotonic non-decrease.
	UpdateDepth(ctx context.Context, id types.ID, depth int) error

	// Begin opens the single write transaction; Commit and Rollback close
	// it. While a transaction is open, every write above goes through it.
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// ListIDs returns every stored identity of one kind.
	ListIDs(ctx context.Context, kind types.Kind) ([]types.ID, error)

	// InsertCreditEdge upserts one (actor, credit) pair into the edge table
	// for the credit's kind.
	InsertCreditEdge(ctx context.Context, actor int64, credit types.ID) error

	// ActorsWithCredits lists distinct actors appearing in the edge table
	// for one credit kind.
	ActorsWithCredits(ctx context.Context, kind types.Kind) ([]int64, error)

	// ActorCredits lists the credits of one kind recorded for an actor.
	ActorCredits(ctx context.Context, actor int64, kind types.Kind) ([]int64, error)

	// CreditActors lists the actors recorded for one credit.
	CreditActors(ctx context.Context, credit types.ID) ([]int64, error)

	Close(ctx context.Context) error
}

// Driver selects a storage backend.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverBadger Driver = "badger"
	DriverNeo4j  Driver = "neo4j"
)

// Config holds backend selection and connection settings.
type Config struct {
	Driver Driver
	// Path is the database file (sqlite) or directory (badger).
	Path string
	// URI, Username, Password and Database configure the neo4j backend.
	URI      string
	Username string
	Password string
	Database string
}

// New opens the backend selected by cfg.Driver, defaulting to SQLite.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case DriverSQLite, "":
		return NewSQLite(ctx, cfg.Path, logger)
	case DriverBadger:
		return NewBadger(cfg.Path, logger)
	case DriverNeo4j:
		return NewNeo4j(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", cfg.Driver)
	}
}
